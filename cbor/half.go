package cbor

import "math"

// halfToFloat64 converts an IEEE 754 binary16 value to float64, gracefully
// widening subnormals, infinities and NaNs.
func halfToFloat64(h uint16) float64 {
	sign := uint32(h>>15) & 0x1
	exp := uint32(h>>10) & 0x1f
	frac := uint32(h) & 0x3ff

	var f32 uint32
	switch {
	case exp == 0 && frac == 0:
		f32 = sign << 31
	case exp == 0: // subnormal
		// Normalize the subnormal half value into a normal float32.
		e := 0
		m := frac
		for m&0x400 == 0 {
			m <<= 1
			e--
		}
		m &= 0x3ff
		exp32 := uint32(int32(127-15+1+e))
		f32 = sign<<31 | exp32<<23 | m<<13
	case exp == 0x1f: // inf or NaN
		f32 = sign<<31 | 0xff<<23 | frac<<13
	default:
		f32 = sign<<31 | (exp-15+127)<<23 | frac<<13
	}
	return float64(math.Float32frombits(f32))
}
