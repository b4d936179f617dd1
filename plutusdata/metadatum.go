package plutusdata

import (
	"fmt"

	"github.com/synnergy-labs/cardano-go/cbor"
	"github.com/synnergy-labs/cardano-go/cerrors"
)

// MetadatumKind tags which alternative a Metadatum holds.
type MetadatumKind int

const (
	MetadatumInteger MetadatumKind = iota
	MetadatumBytes
	MetadatumText
	MetadatumList
	MetadatumMap
)

// MetadatumMapEntry is a (key, value) pair of a Metadatum map. Keys are
// themselves Metadatum values, never PlutusData — auxiliary-data metadata
// and Plutus datums are distinct wire vocabularies even though they share
// a recursive shape.
type MetadatumMapEntry struct {
	Key   Metadatum
	Value Metadatum
}

// Metadatum is the sibling recursive sum used only inside transaction
// auxiliary data: its integer range is bounded to signed 64-bit and its
// bytes/text are bounded to 64-byte chunks with the same indefinite-length
// rule as Plutus data.
type Metadatum struct {
	kind MetadatumKind

	integer int64
	bytes   []byte
	text    string
	list    []Metadatum
	entries []MetadatumMapEntry
}

// NewMetadatumInt builds an integer metadatum.
func NewMetadatumInt(v int64) Metadatum {
	return Metadatum{kind: MetadatumInteger, integer: v}
}

// NewMetadatumBytes builds a bytes metadatum.
func NewMetadatumBytes(b []byte) Metadatum {
	owned := make([]byte, len(b))
	copy(owned, b)
	return Metadatum{kind: MetadatumBytes, bytes: owned}
}

// NewMetadatumText builds a text metadatum.
func NewMetadatumText(s string) Metadatum {
	return Metadatum{kind: MetadatumText, text: s}
}

// NewMetadatumList builds a list metadatum.
func NewMetadatumList(items ...Metadatum) Metadatum {
	return Metadatum{kind: MetadatumList, list: items}
}

// NewMetadatumMap builds a map metadatum preserving entry order.
func NewMetadatumMap(entries ...MetadatumMapEntry) Metadatum {
	return Metadatum{kind: MetadatumMap, entries: entries}
}

// Kind reports which alternative m holds.
func (m Metadatum) Kind() MetadatumKind { return m.kind }

// Int returns the integer value.
func (m Metadatum) Int() int64 { return m.integer }

// Bytes returns the raw byte payload.
func (m Metadatum) Bytes() []byte { return m.bytes }

// Text returns the text payload.
func (m Metadatum) Text() string { return m.text }

// List returns the list items.
func (m Metadatum) List() []Metadatum { return m.list }

// MapEntries returns the map entries in their preserved order.
func (m Metadatum) MapEntries() []MetadatumMapEntry { return m.entries }

// ToCBOR emits m's canonical encoding. Unlike plutusdata.Data, transaction
// metadata lists are always definite-length — §4.F grants Metadatum only
// the bytes/text >64-byte chunking rule, not the Plutus-data
// indefinite-list convention.
func (m Metadatum) ToCBOR(w *cbor.Writer) error {
	switch m.kind {
	case MetadatumInteger:
		return w.WriteInt64(m.integer)
	case MetadatumBytes:
		return w.WriteByteString(m.bytes)
	case MetadatumText:
		return w.WriteTextString(m.text)
	case MetadatumList:
		return writeMetadatumArray(w, m.list)
	case MetadatumMap:
		if err := w.StartMap(len(m.entries)); err != nil {
			return err
		}
		for _, e := range m.entries {
			if err := e.Key.ToCBOR(w); err != nil {
				return err
			}
			if err := e.Value.ToCBOR(w); err != nil {
				return err
			}
		}
		return w.EndMap()
	default:
		return fmt.Errorf("plutusdata: unknown metadatum kind %d: %w", m.kind, cerrors.ErrInvalidArgument)
	}
}

func writeMetadatumArray(w *cbor.Writer, items []Metadatum) error {
	if err := w.StartArray(len(items)); err != nil {
		return err
	}
	for _, item := range items {
		if err := item.ToCBOR(w); err != nil {
			return err
		}
	}
	return w.EndArray()
}

// MetadatumFromCBOR parses the encoding produced by ToCBOR.
func MetadatumFromCBOR(r *cbor.Reader) (Metadatum, error) {
	state, err := r.PeekState()
	if err != nil {
		return Metadatum{}, err
	}
	switch state {
	case cbor.StateUnsignedInt, cbor.StateNegativeInt:
		v, err := r.ReadInt64()
		if err != nil {
			return Metadatum{}, err
		}
		return NewMetadatumInt(v), nil
	case cbor.StateByteString:
		b, err := r.ReadByteString()
		if err != nil {
			return Metadatum{}, err
		}
		return NewMetadatumBytes(b), nil
	case cbor.StateTextString:
		s, err := r.ReadTextString()
		if err != nil {
			return Metadatum{}, err
		}
		return NewMetadatumText(s), nil
	case cbor.StateStartArray:
		items, err := readMetadatumArray(r)
		if err != nil {
			return Metadatum{}, err
		}
		return NewMetadatumList(items...), nil
	case cbor.StateStartMap:
		n, err := r.StartMap()
		if err != nil {
			return Metadatum{}, err
		}
		entries := make([]MetadatumMapEntry, 0, n)
		for i := 0; i < n; i++ {
			k, err := MetadatumFromCBOR(r)
			if err != nil {
				return Metadatum{}, err
			}
			v, err := MetadatumFromCBOR(r)
			if err != nil {
				return Metadatum{}, err
			}
			entries = append(entries, MetadatumMapEntry{Key: k, Value: v})
		}
		if err := r.EndMap(); err != nil {
			return Metadatum{}, err
		}
		return NewMetadatumMap(entries...), nil
	default:
		return Metadatum{}, fmt.Errorf("plutusdata: unexpected cbor state %s: %w", state, cerrors.ErrUnexpectedCBORType)
	}
}

func readMetadatumArray(r *cbor.Reader) ([]Metadatum, error) {
	n, err := r.StartArray()
	if err != nil {
		return nil, err
	}
	var out []Metadatum
	if n >= 0 {
		out = make([]Metadatum, 0, n)
		for i := 0; i < n; i++ {
			item, err := MetadatumFromCBOR(r)
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
			item, err := MetadatumFromCBOR(r)
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
