// Package cbor implements a streaming RFC 8949 codec enforcing the
// canonical-encoding overlays Cardano requires: shortest-form integers,
// indefinite chunking for strings over 64 bytes, tag-258 sets, and explicit
// nesting-frame tracking for both the reader and the writer.
package cbor

import (
	"fmt"
	"math/big"

	"github.com/synnergy-labs/cardano-go/cerrors"
)

// TagSet is the CBOR tag Cardano uses to mark arrays/maps that carry set
// semantics.
const TagSet = 258

// TagEmbeddedCBOR is used to wrap a byte string whose contents are
// themselves a CBOR-encoded document.
const TagEmbeddedCBOR = 24

// TagPositiveBignum and TagNegativeBignum mark the big-integer encodings
// used by write_bignum / WriteBignum.
const (
	TagPositiveBignum = 2
	TagNegativeBignum = 3
)

// maxDefiniteChunk is the largest byte/text string length encoded as a
// single definite-length item; longer strings are chunked into pieces of at
// most this many bytes inside an indefinite-length wrapper.
const maxDefiniteChunk = 64

// Writer emits canonical CBOR. It is not safe for concurrent use.
type Writer struct {
	out   []byte
	stack []frame
}

// NewWriter returns an empty Writer.
func NewWriter() *Writer {
	return &Writer{}
}

// Bytes returns the bytes written so far.
func (w *Writer) Bytes() []byte { return w.out }

// Reset clears the writer's output and stack so it can be reused.
func (w *Writer) Reset() {
	w.out = w.out[:0]
	w.stack = w.stack[:0]
}

func (w *Writer) top() *frame {
	if len(w.stack) == 0 {
		return nil
	}
	return &w.stack[len(w.stack)-1]
}

// accountValue registers that one value is about to be emitted inside the
// current container, validating the declared count has not been exceeded.
func (w *Writer) accountValue() error {
	f := w.top()
	if f == nil {
		return nil
	}
	if !f.isIndefinite() && f.emitted >= f.declared {
		return fmt.Errorf("cbor writer: container already has %d elements: %w", f.declared, cerrors.ErrInvalidCBORArraySize)
	}
	f.emitted++
	return nil
}

func majorHead(major byte, arg uint64) []byte {
	m := major << 5
	switch {
	case arg < 24:
		return []byte{m | byte(arg)}
	case arg <= 0xff:
		return []byte{m | 24, byte(arg)}
	case arg <= 0xffff:
		return []byte{m | 25, byte(arg >> 8), byte(arg)}
	case arg <= 0xffffffff:
		return []byte{m | 26, byte(arg >> 24), byte(arg >> 16), byte(arg >> 8), byte(arg)}
	default:
		return []byte{m | 27,
			byte(arg >> 56), byte(arg >> 48), byte(arg >> 40), byte(arg >> 32),
			byte(arg >> 24), byte(arg >> 16), byte(arg >> 8), byte(arg)}
	}
}

func indefiniteHead(major byte) byte {
	return major<<5 | 31
}

// WriteUint emits an unsigned integer (major type 0) using the shortest
// head encoding.
func (w *Writer) WriteUint(v uint64) error {
	if err := w.accountValue(); err != nil {
		return err
	}
	w.out = append(w.out, majorHead(0, v)...)
	return nil
}

// WriteNegativeInt emits a major type 1 value representing -1-n.
func (w *Writer) WriteNegativeInt(n uint64) error {
	if err := w.accountValue(); err != nil {
		return err
	}
	w.out = append(w.out, majorHead(1, n)...)
	return nil
}

// WriteInt64 is a convenience wrapper choosing major type 0 or 1.
func (w *Writer) WriteInt64(v int64) error {
	if v >= 0 {
		return w.WriteUint(uint64(v))
	}
	return w.WriteNegativeInt(uint64(-1 - v))
}

// WriteBool emits a boolean simple value.
func (w *Writer) WriteBool(b bool) error {
	if err := w.accountValue(); err != nil {
		return err
	}
	if b {
		w.out = append(w.out, 0xF5)
	} else {
		w.out = append(w.out, 0xF4)
	}
	return nil
}

// WriteNull emits the CBOR null simple value.
func (w *Writer) WriteNull() error {
	if err := w.accountValue(); err != nil {
		return err
	}
	w.out = append(w.out, 0xF6)
	return nil
}

// WriteUndefined emits the CBOR undefined simple value.
func (w *Writer) WriteUndefined() error {
	if err := w.accountValue(); err != nil {
		return err
	}
	w.out = append(w.out, 0xF7)
	return nil
}

// WriteByteString emits a byte string, applying the >64-byte indefinite
// chunking rule.
func (w *Writer) WriteByteString(data []byte) error {
	if err := w.accountValue(); err != nil {
		return err
	}
	w.writeChunkedString(2, data)
	return nil
}

// WriteTextString emits a UTF-8 text string, applying the same chunking
// rule as WriteByteString.
func (w *Writer) WriteTextString(s string) error {
	if err := w.accountValue(); err != nil {
		return err
	}
	w.writeChunkedString(3, []byte(s))
	return nil
}

func (w *Writer) writeChunkedString(major byte, data []byte) {
	if len(data) <= maxDefiniteChunk {
		w.out = append(w.out, majorHead(major, uint64(len(data)))...)
		w.out = append(w.out, data...)
		return
	}
	w.out = append(w.out, indefiniteHead(major))
	for len(data) > 0 {
		n := maxDefiniteChunk
		if n > len(data) {
			n = len(data)
		}
		w.out = append(w.out, majorHead(major, uint64(n))...)
		w.out = append(w.out, data[:n]...)
		data = data[n:]
	}
	w.out = append(w.out, 0xFF)
}

// WriteTag emits a tag head. It does not consume a container slot itself;
// the value written immediately afterwards is what accounts for the slot.
func (w *Writer) WriteTag(tag uint64) error {
	w.out = append(w.out, majorHead(6, tag)...)
	return nil
}

// WriteBignum emits an arbitrary-precision integer as tag 2 (non-negative)
// or tag 3 (negative), magnitude encoded as the shortest big-endian byte
// string.
func (w *Writer) WriteBignum(v *big.Int) error {
	if v.Sign() < 0 {
		if err := w.WriteTag(TagNegativeBignum); err != nil {
			return err
		}
		mag := new(big.Int).Sub(new(big.Int).Neg(v), big.NewInt(1)) // -1-n encoding of magnitude
		return w.WriteByteString(mag.Bytes())
	}
	if err := w.WriteTag(TagPositiveBignum); err != nil {
		return err
	}
	return w.WriteByteString(v.Bytes())
}

// WritePreencoded splices an already-canonical sub-encoding directly into
// the output, used by the entity CBOR cache.
func (w *Writer) WritePreencoded(raw []byte) error {
	if err := w.accountValue(); err != nil {
		return err
	}
	w.out = append(w.out, raw...)
	return nil
}

// StartArray begins an array of n elements, or an indefinite-length array
// when n < 0.
func (w *Writer) StartArray(n int) error {
	if err := w.accountValue(); err != nil {
		return err
	}
	if n < 0 {
		w.out = append(w.out, indefiniteHead(4))
		w.stack = append(w.stack, frame{kind: frameIndefiniteArray, declared: -1})
		return nil
	}
	w.out = append(w.out, majorHead(4, uint64(n))...)
	w.stack = append(w.stack, frame{kind: frameArray, declared: n})
	return nil
}

// EndArray closes the most recently opened array.
func (w *Writer) EndArray() error {
	f := w.top()
	if f == nil || (f.kind != frameArray && f.kind != frameIndefiniteArray) {
		return fmt.Errorf("cbor writer: end_array on non-array frame: %w", cerrors.ErrContainerMismatch)
	}
	if !f.isIndefinite() && f.emitted != f.declared {
		return fmt.Errorf("cbor writer: array declared %d elements, got %d: %w", f.declared, f.emitted, cerrors.ErrInvalidCBORArraySize)
	}
	if f.isIndefinite() {
		w.out = append(w.out, 0xFF)
	}
	w.stack = w.stack[:len(w.stack)-1]
	return nil
}

// StartMap begins a map of n key/value pairs, or an indefinite-length map
// when n < 0. Keys must be written in the order the caller wants them to
// appear; the writer never re-sorts.
func (w *Writer) StartMap(n int) error {
	if err := w.accountValue(); err != nil {
		return err
	}
	if n < 0 {
		w.out = append(w.out, indefiniteHead(5))
		w.stack = append(w.stack, frame{kind: frameIndefiniteMap, declared: -1})
		return nil
	}
	w.out = append(w.out, majorHead(5, uint64(n))...)
	w.stack = append(w.stack, frame{kind: frameMap, declared: n * 2})
	return nil
}

// EndMap closes the most recently opened map.
func (w *Writer) EndMap() error {
	f := w.top()
	if f == nil || !f.isMap() {
		return fmt.Errorf("cbor writer: end_map on non-map frame: %w", cerrors.ErrContainerMismatch)
	}
	if !f.isIndefinite() && f.emitted != f.declared {
		return fmt.Errorf("cbor writer: map declared %d pairs, got %d: %w", f.declared/2, f.emitted/2, cerrors.ErrInvalidCBORArraySize)
	}
	if f.isIndefinite() {
		w.out = append(w.out, 0xFF)
	}
	w.stack = w.stack[:len(w.stack)-1]
	return nil
}
