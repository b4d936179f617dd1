package cbor

import (
	"fmt"
	"math"

	"github.com/synnergy-labs/cardano-go/cerrors"
)

// State is the kind of item the reader reports it is positioned on, before
// it has been consumed.
type State int

const (
	StateUnsignedInt State = iota
	StateNegativeInt
	StateByteString
	StateTextString
	StateStartArray
	StateStartMap
	StateTag
	StateSimple
	StateFloat16
	StateFloat32
	StateFloat64
	StateNull
	StateUndefined
	StateBoolean
	StateBreak
	StateFinished
)

func (s State) String() string {
	switch s {
	case StateUnsignedInt:
		return "unsigned_int"
	case StateNegativeInt:
		return "negative_int"
	case StateByteString:
		return "byte_string"
	case StateTextString:
		return "text_string"
	case StateStartArray:
		return "start_array"
	case StateStartMap:
		return "start_map"
	case StateTag:
		return "tag"
	case StateSimple:
		return "simple"
	case StateFloat16:
		return "float16"
	case StateFloat32:
		return "float32"
	case StateFloat64:
		return "float64"
	case StateNull:
		return "null"
	case StateUndefined:
		return "undefined"
	case StateBoolean:
		return "boolean"
	case StateBreak:
		return "break"
	case StateFinished:
		return "finished"
	default:
		return "unknown"
	}
}

type decodedHead struct {
	major      byte
	info       byte // the raw additional-info nibble (0-31)
	arg        uint64
	indefinite bool
	headLen    int // bytes consumed decoding the head, for raw-slice bookkeeping
}

// Reader is a pull-based RFC 8949 decoder. Call PeekState to learn what
// kind of item is next, then call the matching Read* method to consume it.
type Reader struct {
	data    []byte
	pos     int
	stack   []frame
	pending *decodedHead
	embedded bool // true for readers constructed over an embedded (tag-24) payload
}

// NewReader returns a strict top-level reader over b.
func NewReader(b []byte) *Reader {
	return &Reader{data: b}
}

// NewEmbeddedReader returns a reader over a sub-slice (e.g. the payload of
// a tag-24 embedded-CBOR byte string) that does not require consuming the
// entire slice to be "finished".
func NewEmbeddedReader(b []byte) *Reader {
	return &Reader{data: b, embedded: true}
}

func (r *Reader) top() *frame {
	if len(r.stack) == 0 {
		return nil
	}
	return &r.stack[len(r.stack)-1]
}

func (r *Reader) remaining() int { return len(r.data) - r.pos }

func (r *Reader) peekByte() (byte, error) {
	if r.remaining() < 1 {
		return 0, fmt.Errorf("cbor reader: %w", cerrors.ErrTruncatedInput)
	}
	return r.data[r.pos], nil
}

// decodeHead parses (without yet consuming payload bytes) the head of the
// next item, caching it so PeekState and the subsequent Read* agree.
func (r *Reader) decodeHead() (*decodedHead, error) {
	if r.pending != nil {
		return r.pending, nil
	}
	start := r.pos
	b0, err := r.peekByte()
	if err != nil {
		return nil, err
	}
	major := b0 >> 5
	info := b0 & 0x1f
	r.pos++

	var arg uint64
	indefinite := false
	switch {
	case info < 24:
		arg = uint64(info)
	case info == 24:
		p, err := r.consume(1)
		if err != nil {
			return nil, err
		}
		arg = uint64(p[0])
	case info == 25:
		p, err := r.consume(2)
		if err != nil {
			return nil, err
		}
		arg = uint64(p[0])<<8 | uint64(p[1])
	case info == 26:
		p, err := r.consume(4)
		if err != nil {
			return nil, err
		}
		arg = uint64(p[0])<<24 | uint64(p[1])<<16 | uint64(p[2])<<8 | uint64(p[3])
	case info == 27:
		p, err := r.consume(8)
		if err != nil {
			return nil, err
		}
		arg = 0
		for _, bb := range p {
			arg = arg<<8 | uint64(bb)
		}
	case info == 31:
		indefinite = true
	default:
		return nil, fmt.Errorf("cbor reader: reserved additional info %d: %w", info, cerrors.ErrInvalidCBOR)
	}

	h := &decodedHead{major: major, info: info, arg: arg, indefinite: indefinite, headLen: r.pos - start}
	r.pending = h
	return h, nil
}

func (r *Reader) consume(n int) ([]byte, error) {
	if r.remaining() < n {
		return nil, fmt.Errorf("cbor reader: need %d bytes, have %d: %w", n, r.remaining(), cerrors.ErrTruncatedInput)
	}
	out := r.data[r.pos : r.pos+n]
	r.pos += n
	return out, nil
}

func (r *Reader) clearPending() { r.pending = nil }

// PeekState reports the kind of the next item without consuming it beyond
// the minimum needed to classify it.
func (r *Reader) PeekState() (State, error) {
	if r.remaining() == 0 {
		if len(r.stack) == 0 {
			return StateFinished, nil
		}
		return 0, fmt.Errorf("cbor reader: unclosed container at end of input: %w", cerrors.ErrTruncatedInput)
	}
	h, err := r.decodeHead()
	if err != nil {
		return 0, err
	}
	switch h.major {
	case 0:
		return StateUnsignedInt, nil
	case 1:
		return StateNegativeInt, nil
	case 2:
		return StateByteString, nil
	case 3:
		return StateTextString, nil
	case 4:
		return StateStartArray, nil
	case 5:
		return StateStartMap, nil
	case 6:
		return StateTag, nil
	case 7:
		if h.indefinite {
			return StateBreak, nil
		}
		switch h.info {
		case 20, 21:
			return StateBoolean, nil
		case 22:
			return StateNull, nil
		case 23:
			return StateUndefined, nil
		case 25:
			return StateFloat16, nil
		case 26:
			return StateFloat32, nil
		case 27:
			return StateFloat64, nil
		default:
			return StateSimple, nil
		}
	default:
		return 0, fmt.Errorf("cbor reader: unknown major type %d: %w", h.major, cerrors.ErrInvalidCBOR)
	}
}

// Finished reports whether the document is fully consumed: every opened
// frame closed, and (for strict top-level readers) the cursor at end of
// input; embedded readers only require the frame stack to be empty.
func (r *Reader) Finished() bool {
	if len(r.stack) != 0 {
		return false
	}
	if r.embedded {
		return true
	}
	return r.remaining() == 0
}

func (r *Reader) accountValue() error {
	f := r.top()
	if f == nil {
		return nil
	}
	if !f.isIndefinite() && f.emitted >= f.declared {
		return fmt.Errorf("cbor reader: container already has %d elements: %w", f.declared, cerrors.ErrInvalidCBORArraySize)
	}
	f.emitted++
	return nil
}

func (r *Reader) expectMajor(major byte) (*decodedHead, error) {
	h, err := r.decodeHead()
	if err != nil {
		return nil, err
	}
	if h.major != major {
		return nil, fmt.Errorf("cbor reader: expected major type %d, got %d: %w", major, h.major, cerrors.ErrUnexpectedCBORType)
	}
	return h, nil
}

// ReadUint consumes an unsigned integer.
func (r *Reader) ReadUint() (uint64, error) {
	h, err := r.expectMajor(0)
	if err != nil {
		return 0, err
	}
	if err := r.accountValue(); err != nil {
		return 0, err
	}
	r.clearPending()
	return h.arg, nil
}

// ReadNegativeInt consumes a major-type-1 value, returning the raw argument
// n (the represented integer is -1-n, which may not fit in int64).
func (r *Reader) ReadNegativeInt() (uint64, error) {
	h, err := r.expectMajor(1)
	if err != nil {
		return 0, err
	}
	if err := r.accountValue(); err != nil {
		return 0, err
	}
	r.clearPending()
	return h.arg, nil
}

// ReadInt64 reads either integer major type and narrows to int64, failing
// with integer_out_of_range if the value does not fit.
func (r *Reader) ReadInt64() (int64, error) {
	state, err := r.PeekState()
	if err != nil {
		return 0, err
	}
	switch state {
	case StateUnsignedInt:
		v, err := r.ReadUint()
		if err != nil {
			return 0, err
		}
		if v > 1<<63-1 {
			return 0, fmt.Errorf("cbor reader: %d overflows int64: %w", v, cerrors.ErrIntegerOutOfRange)
		}
		return int64(v), nil
	case StateNegativeInt:
		n, err := r.ReadNegativeInt()
		if err != nil {
			return 0, err
		}
		if n > 1<<63-1 {
			return 0, fmt.Errorf("cbor reader: -1-%d overflows int64: %w", n, cerrors.ErrIntegerOutOfRange)
		}
		return -1 - int64(n), nil
	default:
		return 0, fmt.Errorf("cbor reader: expected integer, got %s: %w", state, cerrors.ErrUnexpectedCBORType)
	}
}

// ReadByteString consumes a byte string, transparently reassembling
// indefinite-length chunked encodings into one slice.
func (r *Reader) ReadByteString() ([]byte, error) {
	return r.readChunkedString(2)
}

// ReadTextString consumes a text string, transparently reassembling
// indefinite-length chunked encodings.
func (r *Reader) ReadTextString() (string, error) {
	b, err := r.readChunkedString(3)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

func (r *Reader) readChunkedString(major byte) ([]byte, error) {
	h, err := r.expectMajor(major)
	if err != nil {
		return nil, err
	}
	if err := r.accountValue(); err != nil {
		return nil, err
	}
	if !h.indefinite {
		r.clearPending()
		return r.consume(int(h.arg))
	}
	// Indefinite: a sequence of definite-length chunks of the same major
	// type, terminated by a break byte.
	r.clearPending()
	var out []byte
	for {
		cb, err := r.peekByte()
		if err != nil {
			return nil, err
		}
		if cb == 0xFF {
			r.pos++
			break
		}
		chunkHead, err := r.decodeHead()
		if err != nil {
			return nil, err
		}
		if chunkHead.major != major || chunkHead.indefinite {
			return nil, fmt.Errorf("cbor reader: invalid chunk in indefinite string: %w", cerrors.ErrInvalidCBOR)
		}
		r.clearPending()
		chunk, err := r.consume(int(chunkHead.arg))
		if err != nil {
			return nil, err
		}
		out = append(out, chunk...)
	}
	return out, nil
}

// StartArray consumes an array head, returning the declared element count
// or -1 for an indefinite-length array, and pushes a nesting frame.
func (r *Reader) StartArray() (int, error) {
	h, err := r.expectMajor(4)
	if err != nil {
		return 0, err
	}
	if err := r.accountValue(); err != nil {
		return 0, err
	}
	r.clearPending()
	if h.indefinite {
		r.stack = append(r.stack, frame{kind: frameIndefiniteArray, declared: -1})
		return -1, nil
	}
	r.stack = append(r.stack, frame{kind: frameArray, declared: int(h.arg)})
	return int(h.arg), nil
}

// EndArray closes the most recently opened array. For indefinite arrays the
// caller must have consumed the break via ReadBreak beforehand; EndArray
// only pops bookkeeping and validates counts for definite arrays.
func (r *Reader) EndArray() error {
	f := r.top()
	if f == nil || (f.kind != frameArray && f.kind != frameIndefiniteArray) {
		return fmt.Errorf("cbor reader: end_array on non-array frame: %w", cerrors.ErrContainerMismatch)
	}
	if !f.isIndefinite() && f.emitted != f.declared {
		return fmt.Errorf("cbor reader: array declared %d elements, consumed %d: %w", f.declared, f.emitted, cerrors.ErrInvalidCBORArraySize)
	}
	r.stack = r.stack[:len(r.stack)-1]
	return nil
}

// StartMap consumes a map head, returning the declared pair count or -1 for
// an indefinite-length map.
func (r *Reader) StartMap() (int, error) {
	h, err := r.expectMajor(5)
	if err != nil {
		return 0, err
	}
	if err := r.accountValue(); err != nil {
		return 0, err
	}
	r.clearPending()
	if h.indefinite {
		r.stack = append(r.stack, frame{kind: frameIndefiniteMap, declared: -1})
		return -1, nil
	}
	r.stack = append(r.stack, frame{kind: frameMap, declared: int(h.arg) * 2})
	return int(h.arg), nil
}

// EndMap closes the most recently opened map.
func (r *Reader) EndMap() error {
	f := r.top()
	if f == nil || !f.isMap() {
		return fmt.Errorf("cbor reader: end_map on non-map frame: %w", cerrors.ErrContainerMismatch)
	}
	if !f.isIndefinite() && f.emitted != f.declared {
		return fmt.Errorf("cbor reader: map declared %d pairs, consumed %d: %w", f.declared/2, f.emitted/2, cerrors.ErrInvalidCBORArraySize)
	}
	r.stack = r.stack[:len(r.stack)-1]
	return nil
}

// ReadBreak consumes a break byte, closing the innermost indefinite
// container's iteration (the matching EndArray/EndMap call still pops the
// frame).
func (r *Reader) ReadBreak() error {
	h, err := r.decodeHead()
	if err != nil {
		return err
	}
	if h.major != 7 || !h.indefinite {
		return fmt.Errorf("cbor reader: expected break, got major %d: %w", h.major, cerrors.ErrUnexpectedCBORType)
	}
	r.clearPending()
	return nil
}

// ReadTag consumes a tag head and returns the tag number. It does not push
// a frame; the following value is read with the normal Read* call.
func (r *Reader) ReadTag() (uint64, error) {
	h, err := r.expectMajor(6)
	if err != nil {
		return 0, err
	}
	r.clearPending()
	return h.arg, nil
}

// PeekTag reports the tag number of the next item without consuming it,
// for callers that must dispatch on the tag value before choosing which
// Read* call handles the tagged payload (e.g. distinguishing a bignum tag
// from a constructor tag). The caller must be positioned on StateTag.
func (r *Reader) PeekTag() (uint64, error) {
	h, err := r.decodeHead()
	if err != nil {
		return 0, err
	}
	if h.major != 6 {
		return 0, fmt.Errorf("cbor reader: expected tag, got major %d: %w", h.major, cerrors.ErrUnexpectedCBORType)
	}
	return h.arg, nil
}

// ReadBool consumes a boolean simple value.
func (r *Reader) ReadBool() (bool, error) {
	h, err := r.expectMajor(7)
	if err != nil {
		return false, err
	}
	if h.arg != 20 && h.arg != 21 {
		return false, fmt.Errorf("cbor reader: expected boolean, got simple(%d): %w", h.arg, cerrors.ErrUnexpectedCBORType)
	}
	if err := r.accountValue(); err != nil {
		return false, err
	}
	r.clearPending()
	return h.arg == 21, nil
}

// ReadNull consumes the null simple value.
func (r *Reader) ReadNull() error {
	h, err := r.expectMajor(7)
	if err != nil {
		return err
	}
	if h.arg != 22 {
		return fmt.Errorf("cbor reader: expected null, got simple(%d): %w", h.arg, cerrors.ErrUnexpectedCBORType)
	}
	if err := r.accountValue(); err != nil {
		return err
	}
	r.clearPending()
	return nil
}

// ReadUndefined consumes the undefined simple value.
func (r *Reader) ReadUndefined() error {
	h, err := r.expectMajor(7)
	if err != nil {
		return err
	}
	if h.arg != 23 {
		return fmt.Errorf("cbor reader: expected undefined, got simple(%d): %w", h.arg, cerrors.ErrUnexpectedCBORType)
	}
	if err := r.accountValue(); err != nil {
		return err
	}
	r.clearPending()
	return nil
}

// ReadSimple consumes a bare simple value and returns its numeric code.
func (r *Reader) ReadSimple() (byte, error) {
	h, err := r.expectMajor(7)
	if err != nil {
		return 0, err
	}
	if err := r.accountValue(); err != nil {
		return 0, err
	}
	r.clearPending()
	return byte(h.arg), nil
}

// ReadFloat reads any of the three IEEE-754 widths, narrowing half- and
// single-precision values to float64. loss_of_precision is never returned
// here (narrowing half/single up to float64 always widens exactly); it is
// reserved for callers that subsequently narrow back down.
func (r *Reader) ReadFloat() (float64, error) {
	h, err := r.expectMajor(7)
	if err != nil {
		return 0, err
	}
	if err := r.accountValue(); err != nil {
		return 0, err
	}
	r.clearPending()
	switch h.info {
	case 25:
		return halfToFloat64(uint16(h.arg)), nil
	case 26:
		return float64(math.Float32frombits(uint32(h.arg))), nil
	case 27:
		return math.Float64frombits(h.arg), nil
	default:
		return 0, fmt.Errorf("cbor reader: simple(%d) is not a float: %w", h.arg, cerrors.ErrUnexpectedCBORType)
	}
}

// Mark returns the byte offset of the next unconsumed item, for pairing
// with a later Since call to recover the exact bytes of one or more items
// just consumed. A head that has been peeked but not yet consumed counts
// as unconsumed, so the mark is placed before it.
func (r *Reader) Mark() int {
	if r.pending != nil {
		return r.pos - r.pending.headLen
	}
	return r.pos
}

// Since returns the raw bytes consumed between a prior Mark call and now.
func (r *Reader) Since(start int) []byte {
	out := make([]byte, r.pos-start)
	copy(out, r.data[start:r.pos])
	return out
}

// SkipValue consumes exactly one well-formed CBOR data item, of any type,
// without interpreting it. Used to carry fields this toolkit does not
// model (e.g. a protocol-parameter update) as opaque pre-encoded bytes.
func (r *Reader) SkipValue() error {
	state, err := r.PeekState()
	if err != nil {
		return err
	}
	switch state {
	case StateUnsignedInt:
		_, err := r.ReadUint()
		return err
	case StateNegativeInt:
		_, err := r.ReadNegativeInt()
		return err
	case StateByteString:
		_, err := r.ReadByteString()
		return err
	case StateTextString:
		_, err := r.ReadTextString()
		return err
	case StateStartArray:
		n, err := r.StartArray()
		if err != nil {
			return err
		}
		if n >= 0 {
			for i := 0; i < n; i++ {
				if err := r.SkipValue(); err != nil {
					return err
				}
			}
		} else {
			for {
				st, err := r.PeekState()
				if err != nil {
					return err
				}
				if st == StateBreak {
					break
				}
				if err := r.SkipValue(); err != nil {
					return err
				}
			}
			if err := r.ReadBreak(); err != nil {
				return err
			}
		}
		return r.EndArray()
	case StateStartMap:
		n, err := r.StartMap()
		if err != nil {
			return err
		}
		if n >= 0 {
			for i := 0; i < n; i++ {
				if err := r.SkipValue(); err != nil {
					return err
				}
				if err := r.SkipValue(); err != nil {
					return err
				}
			}
		} else {
			for {
				st, err := r.PeekState()
				if err != nil {
					return err
				}
				if st == StateBreak {
					break
				}
				if err := r.SkipValue(); err != nil {
					return err
				}
				if err := r.SkipValue(); err != nil {
					return err
				}
			}
			if err := r.ReadBreak(); err != nil {
				return err
			}
		}
		return r.EndMap()
	case StateTag:
		if _, err := r.ReadTag(); err != nil {
			return err
		}
		return r.SkipValue()
	case StateBoolean:
		_, err := r.ReadBool()
		return err
	case StateNull:
		return r.ReadNull()
	case StateUndefined:
		return r.ReadUndefined()
	case StateSimple:
		_, err := r.ReadSimple()
		return err
	case StateFloat16, StateFloat32, StateFloat64:
		_, err := r.ReadFloat()
		return err
	default:
		return fmt.Errorf("cbor reader: cannot skip item in state %s: %w", state, cerrors.ErrUnexpectedCBORType)
	}
}

// FloatKind reports which width the most recently peeked float item uses,
// for callers that need to distinguish float16/float32/float64 before
// calling ReadFloat (the PeekState result already carries this, but this
// helper is a convenience for dispatch tables).
func (r *Reader) FloatKind() (State, error) {
	return r.PeekState()
}
