package cbor

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestCanonicalIntegerEncoding(t *testing.T) {
	cases := []struct {
		v    int64
		want []byte
	}{
		{24, []byte{0x18, 0x18}},
		{0, []byte{0x00}},
		{-1, []byte{0x20}},
		{-25, []byte{0x38, 0x18}},
	}
	for _, c := range cases {
		w := NewWriter()
		require.NoError(t, w.WriteInt64(c.v))
		require.Equal(t, c.want, w.Bytes())
	}

	w := NewWriter()
	require.NoError(t, w.WriteUint(1<<64-1))
	require.Equal(t, []byte{0x1B, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF}, w.Bytes())
}

func TestIndefiniteByteStringChunking(t *testing.T) {
	payload := make([]byte, 100)
	for i := range payload {
		payload[i] = 0xAA
	}
	w := NewWriter()
	require.NoError(t, w.WriteByteString(payload))

	out := w.Bytes()
	require.Equal(t, byte(0x5F), out[0])
	require.Equal(t, []byte{0x58, 0x40}, out[1:3])
	require.Equal(t, payload[:64], out[3:67])
	require.Equal(t, []byte{0x58, 0x24}, out[67:69])
	require.Equal(t, payload[64:], out[69:105])
	require.Equal(t, byte(0xFF), out[105])
}

func TestRoundTripArrayOfMixedTypes(t *testing.T) {
	w := NewWriter()
	require.NoError(t, w.StartArray(3))
	require.NoError(t, w.WriteUint(7))
	require.NoError(t, w.WriteTextString("hi"))
	require.NoError(t, w.WriteBool(true))
	require.NoError(t, w.EndArray())

	r := NewReader(w.Bytes())
	n, err := r.StartArray()
	require.NoError(t, err)
	require.Equal(t, 3, n)

	v, err := r.ReadUint()
	require.NoError(t, err)
	require.Equal(t, uint64(7), v)

	s, err := r.ReadTextString()
	require.NoError(t, err)
	require.Equal(t, "hi", s)

	b, err := r.ReadBool()
	require.NoError(t, err)
	require.True(t, b)

	require.NoError(t, r.EndArray())
	require.True(t, r.Finished())
}

func TestIndefiniteArrayRoundTrip(t *testing.T) {
	w := NewWriter()
	require.NoError(t, w.StartArray(-1))
	require.NoError(t, w.WriteUint(1))
	require.NoError(t, w.WriteUint(2))
	require.NoError(t, w.EndArray())

	r := NewReader(w.Bytes())
	n, err := r.StartArray()
	require.NoError(t, err)
	require.Equal(t, -1, n)

	var got []uint64
	for {
		state, err := r.PeekState()
		require.NoError(t, err)
		if state == StateBreak {
			require.NoError(t, r.ReadBreak())
			break
		}
		v, err := r.ReadUint()
		require.NoError(t, err)
		got = append(got, v)
	}
	require.NoError(t, r.EndArray())
	require.Equal(t, []uint64{1, 2}, got)
}

func TestMapRoundTrip(t *testing.T) {
	w := NewWriter()
	require.NoError(t, w.StartMap(2))
	require.NoError(t, w.WriteUint(0))
	require.NoError(t, w.WriteTextString("zero"))
	require.NoError(t, w.WriteUint(1))
	require.NoError(t, w.WriteTextString("one"))
	require.NoError(t, w.EndMap())

	r := NewReader(w.Bytes())
	n, err := r.StartMap()
	require.NoError(t, err)
	require.Equal(t, 2, n)
	for i := 0; i < 2; i++ {
		k, err := r.ReadUint()
		require.NoError(t, err)
		v, err := r.ReadTextString()
		require.NoError(t, err)
		require.Equal(t, [2]string{"zero", "one"}[k], v)
	}
	require.NoError(t, r.EndMap())
}

func TestArrayDeclaredCountViolation(t *testing.T) {
	w := NewWriter()
	require.NoError(t, w.StartArray(1))
	require.NoError(t, w.WriteUint(1))
	err := w.WriteUint(2)
	require.Error(t, err)
}

func TestEndArrayWrongCount(t *testing.T) {
	w := NewWriter()
	require.NoError(t, w.StartArray(2))
	require.NoError(t, w.WriteUint(1))
	err := w.EndArray()
	require.Error(t, err)
}

func TestBignumRoundTrip(t *testing.T) {
	big64, ok := new(big.Int).SetString("123456789012345678901234567890", 10)
	require.True(t, ok)
	negBig := new(big.Int).Neg(big64)

	for _, v := range []*big.Int{big64, negBig} {
		w := NewWriter()
		require.NoError(t, WriteInteger(w, v))
		r := NewReader(w.Bytes())
		got, err := ReadInteger(r)
		require.NoError(t, err)
		require.Equal(t, 0, v.Cmp(got))
	}
}

func TestSmallIntegerUsesPlainMajorType(t *testing.T) {
	w := NewWriter()
	require.NoError(t, WriteInteger(w, big.NewInt(-5)))
	r := NewReader(w.Bytes())
	state, err := r.PeekState()
	require.NoError(t, err)
	require.Equal(t, StateNegativeInt, state)
}

func TestHalfFloatDecode(t *testing.T) {
	w := &Writer{}
	// 0x3C00 = 1.0 in binary16.
	w.out = append(w.out, 0xF9, 0x3C, 0x00)
	r := NewReader(w.Bytes())
	state, err := r.PeekState()
	require.NoError(t, err)
	require.Equal(t, StateFloat16, state)
	v, err := r.ReadFloat()
	require.NoError(t, err)
	require.Equal(t, float64(1.0), v)
}

func TestEmbeddedCBOR(t *testing.T) {
	inner := NewWriter()
	require.NoError(t, inner.WriteUint(42))

	outer := NewWriter()
	require.NoError(t, outer.WriteTag(TagEmbeddedCBOR))
	require.NoError(t, outer.WriteByteString(inner.Bytes()))

	r := NewReader(outer.Bytes())
	tag, err := r.ReadTag()
	require.NoError(t, err)
	require.Equal(t, uint64(TagEmbeddedCBOR), tag)

	raw, err := r.ReadByteString()
	require.NoError(t, err)

	embedded := NewEmbeddedReader(raw)
	v, err := embedded.ReadUint()
	require.NoError(t, err)
	require.Equal(t, uint64(42), v)
	require.True(t, embedded.Finished())
}

func TestPreencodedSplice(t *testing.T) {
	cached := NewWriter()
	require.NoError(t, cached.WriteTextString("cached"))

	w := NewWriter()
	require.NoError(t, w.StartArray(1))
	require.NoError(t, w.WritePreencoded(cached.Bytes()))
	require.NoError(t, w.EndArray())

	r := NewReader(w.Bytes())
	_, err := r.StartArray()
	require.NoError(t, err)
	s, err := r.ReadTextString()
	require.NoError(t, err)
	require.Equal(t, "cached", s)
}
