// Package plutusdata implements Plutus Data: the recursive sum type used
// as datums and redeemer arguments, plus the sibling Metadatum type used
// in transaction auxiliary data.
package plutusdata

import (
	"fmt"
	"math/big"

	"github.com/synnergy-labs/cardano-go/cbor"
	"github.com/synnergy-labs/cardano-go/cerrors"
)

// Kind tags which alternative of the Plutus data sum a Data holds.
type Kind int

const (
	KindConstr Kind = iota
	KindMap
	KindList
	KindInteger
	KindBytes
)

// MapEntry is a single (key, value) pair of a Data map, preserved in
// insertion order("Keys may be any data item").
type MapEntry struct {
	Key   Data
	Value Data
}

// Data is the recursive Plutus Data sum:
// constr(alternative_index, args) | map(ordered entries) | list(items) |
// integer(arbitrary precision) | bytes.
type Data struct {
	kind Kind

	constrAlt  uint64
	constrArgs []Data

	mapEntries []MapEntry

	list []Data

	integer *big.Int

	bytes []byte
}

// NewConstr builds a constructor application.
func NewConstr(alternative uint64, args ...Data) Data {
	return Data{kind: KindConstr, constrAlt: alternative, constrArgs: args}
}

// NewMap builds a map data item preserving entries in the given order.
func NewMap(entries ...MapEntry) Data {
	return Data{kind: KindMap, mapEntries: entries}
}

// NewList builds a list data item.
func NewList(items ...Data) Data {
	return Data{kind: KindList, list: items}
}

// NewInteger builds an arbitrary-precision integer data item.
func NewInteger(v *big.Int) Data {
	return Data{kind: KindInteger, integer: new(big.Int).Set(v)}
}

// NewIntegerInt64 is a convenience constructor for small integers.
func NewIntegerInt64(v int64) Data {
	return NewInteger(big.NewInt(v))
}

// NewBytes builds a bounded-bytes data item.
func NewBytes(b []byte) Data {
	owned := make([]byte, len(b))
	copy(owned, b)
	return Data{kind: KindBytes, bytes: owned}
}

// Kind reports which alternative d holds.
func (d Data) Kind() Kind { return d.kind }

// ConstrAlternative returns the constructor's alternative index.
func (d Data) ConstrAlternative() uint64 { return d.constrAlt }

// ConstrArgs returns the constructor's argument list.
func (d Data) ConstrArgs() []Data { return d.constrArgs }

// MapEntries returns the map's entries in their preserved order.
func (d Data) MapEntries() []MapEntry { return d.mapEntries }

// List returns the list's items.
func (d Data) List() []Data { return d.list }

// Integer returns the integer value.
func (d Data) Integer() *big.Int { return d.integer }

// Bytes returns the raw byte payload.
func (d Data) Bytes() []byte { return d.bytes }

// constr tag boundaries.
const (
	constrTagBase     = 121 // alternative 0..6 -> tag 121+i
	constrTagBaseHigh = 1280 // alternative 7..127 -> tag 1280+(i-7)
	constrTagGeneric  = 102  // alternative >= 128 -> tag 102, payload [i, args]
)

// ToCBOR emits d's canonical encoding.
func (d Data) ToCBOR(w *cbor.Writer) error {
	switch d.kind {
	case KindConstr:
		switch {
		case d.constrAlt <= 6:
			if err := w.WriteTag(constrTagBase + d.constrAlt); err != nil {
				return err
			}
			return writeDataArray(w, d.constrArgs)
		case d.constrAlt <= 127:
			if err := w.WriteTag(constrTagBaseHigh + (d.constrAlt - 7)); err != nil {
				return err
			}
			return writeDataArray(w, d.constrArgs)
		default:
			if err := w.WriteTag(constrTagGeneric); err != nil {
				return err
			}
			if err := w.StartArray(2); err != nil {
				return err
			}
			if err := w.WriteUint(d.constrAlt); err != nil {
				return err
			}
			if err := writeDataArray(w, d.constrArgs); err != nil {
				return err
			}
			return w.EndArray()
		}
	case KindMap:
		if err := w.StartMap(len(d.mapEntries)); err != nil {
			return err
		}
		for _, e := range d.mapEntries {
			if err := e.Key.ToCBOR(w); err != nil {
				return err
			}
			if err := e.Value.ToCBOR(w); err != nil {
				return err
			}
		}
		return w.EndMap()
	case KindList:
		return writeDataArray(w, d.list)
	case KindInteger:
		return cbor.WriteInteger(w, d.integer)
	case KindBytes:
		return w.WriteByteString(d.bytes)
	default:
		return fmt.Errorf("plutusdata: unknown data kind %d: %w", d.kind, cerrors.ErrInvalidArgument)
	}
}

// writeDataArray emits items as a definite-length array when empty and an
// indefinite-length array when non-empty, the Cardano convention for
// Plutus data lists.
func writeDataArray(w *cbor.Writer, items []Data) error {
	if len(items) == 0 {
		if err := w.StartArray(0); err != nil {
			return err
		}
		return w.EndArray()
	}
	if err := w.StartArray(-1); err != nil {
		return err
	}
	for _, item := range items {
		if err := item.ToCBOR(w); err != nil {
			return err
		}
	}
	return w.EndArray()
}

// FromCBOR parses the encoding produced by ToCBOR.
func FromCBOR(r *cbor.Reader) (Data, error) {
	state, err := r.PeekState()
	if err != nil {
		return Data{}, err
	}
	switch state {
	case cbor.StateUnsignedInt, cbor.StateNegativeInt:
		v, err := cbor.ReadInteger(r)
		if err != nil {
			return Data{}, err
		}
		return NewInteger(v), nil
	case cbor.StateByteString:
		b, err := r.ReadByteString()
		if err != nil {
			return Data{}, err
		}
		return NewBytes(b), nil
	case cbor.StateStartMap:
		n, err := r.StartMap()
		if err != nil {
			return Data{}, err
		}
		entries := make([]MapEntry, 0, n)
		for i := 0; i < n; i++ {
			k, err := FromCBOR(r)
			if err != nil {
				return Data{}, err
			}
			v, err := FromCBOR(r)
			if err != nil {
				return Data{}, err
			}
			entries = append(entries, MapEntry{Key: k, Value: v})
		}
		if err := r.EndMap(); err != nil {
			return Data{}, err
		}
		return NewMap(entries...), nil
	case cbor.StateStartArray:
		items, err := readDataArray(r)
		if err != nil {
			return Data{}, err
		}
		return NewList(items...), nil
	case cbor.StateTag:
		tag, err := r.PeekTag()
		if err != nil {
			return Data{}, err
		}
		if tag == cbor.TagPositiveBignum || tag == cbor.TagNegativeBignum {
			v, err := cbor.ReadInteger(r)
			if err != nil {
				return Data{}, err
			}
			return NewInteger(v), nil
		}
		return constrFromCBOR(r)
	default:
		return Data{}, fmt.Errorf("plutusdata: unexpected cbor state %s: %w", state, cerrors.ErrUnexpectedCBORType)
	}
}

func readDataArray(r *cbor.Reader) ([]Data, error) {
	n, err := r.StartArray()
	if err != nil {
		return nil, err
	}
	var out []Data
	if n >= 0 {
		out = make([]Data, 0, n)
		for i := 0; i < n; i++ {
			item, err := FromCBOR(r)
			if err != nil {
				return nil, err
			}
			out = append(out, item)
		}
	} else {
		for {
			state, err := r.PeekState()
			if err != nil {
				return nil, err
			}
			if state == cbor.StateBreak {
				break
			}
			item, err := FromCBOR(r)
			if err != nil {
				return nil, err
			}
			out = append(out, item)
		}
		if err := r.ReadBreak(); err != nil {
			return nil, err
		}
	}
	if err := r.EndArray(); err != nil {
		return nil, err
	}
	return out, nil
}

func constrFromCBOR(r *cbor.Reader) (Data, error) {
	tag, err := r.ReadTag()
	if err != nil {
		return Data{}, err
	}
	switch {
	case tag >= constrTagBase && tag <= constrTagBase+6:
		args, err := readDataArray(r)
		if err != nil {
			return Data{}, err
		}
		return NewConstr(tag-constrTagBase, args...), nil
	case tag >= constrTagBaseHigh && tag <= constrTagBaseHigh+127-7:
		args, err := readDataArray(r)
		if err != nil {
			return Data{}, err
		}
		return NewConstr(tag-constrTagBaseHigh+7, args...), nil
	case tag == constrTagGeneric:
		if _, err := r.StartArray(); err != nil {
			return Data{}, err
		}
		alt, err := r.ReadUint()
		if err != nil {
			return Data{}, err
		}
		args, err := readDataArray(r)
		if err != nil {
			return Data{}, err
		}
		if err := r.EndArray(); err != nil {
			return Data{}, err
		}
		return NewConstr(alt, args...), nil
	default:
		return Data{}, fmt.Errorf("plutusdata: unknown tag %d: %w", tag, cerrors.ErrUnexpectedCBORType)
	}
}
