package cbor

import (
	"fmt"
	"math/big"

	"github.com/synnergy-labs/cardano-go/cerrors"
)

// WriteInteger emits v as a major-type 0/1 integer when it fits in an
// int64, otherwise as a tagged bignum.
func WriteInteger(w *Writer, v *big.Int) error {
	if v.IsInt64() {
		return w.WriteInt64(v.Int64())
	}
	return w.WriteBignum(v)
}

// ReadInteger consumes either a plain major-type 0/1 integer or a tagged
// bignum (tag 2 or 3) and returns it as a big.Int.
func ReadInteger(r *Reader) (*big.Int, error) {
	state, err := r.PeekState()
	if err != nil {
		return nil, err
	}
	switch state {
	case StateUnsignedInt:
		v, err := r.ReadUint()
		if err != nil {
			return nil, err
		}
		return new(big.Int).SetUint64(v), nil
	case StateNegativeInt:
		n, err := r.ReadNegativeInt()
		if err != nil {
			return nil, err
		}
		// value = -1 - n
		out := new(big.Int).SetUint64(n)
		out.Add(out, big.NewInt(1))
		out.Neg(out)
		return out, nil
	case StateTag:
		tag, err := r.ReadTag()
		if err != nil {
			return nil, err
		}
		mag, err := r.ReadByteString()
		if err != nil {
			return nil, err
		}
		out := new(big.Int).SetBytes(mag)
		switch tag {
		case TagPositiveBignum:
			return out, nil
		case TagNegativeBignum:
			out.Add(out, big.NewInt(1))
			out.Neg(out)
			return out, nil
		default:
			return nil, fmt.Errorf("cbor reader: tag %d is not a bignum: %w", tag, cerrors.ErrUnexpectedCBORType)
		}
	default:
		return nil, fmt.Errorf("cbor reader: expected integer, got %s: %w", state, cerrors.ErrUnexpectedCBORType)
	}
}
