package transaction

import (
	"fmt"

	"github.com/synnergy-labs/cardano-go/address"
	"github.com/synnergy-labs/cardano-go/cbor"
	"github.com/synnergy-labs/cardano-go/cerrors"
	"github.com/synnergy-labs/cardano-go/hash"
	"github.com/synnergy-labs/cardano-go/value"
)

// DatumKind tags whether an output carries a datum hash, an inline datum,
// or no datum at all.
type DatumKind int

const (
	DatumNone DatumKind = iota
	DatumHash
	DatumInline
)

const (
	outputKeyAddress      = 0
	outputKeyValue        = 1
	outputKeyDatumOption  = 2
	outputKeyScriptRef    = 3
)

const (
	datumOptionTagHash   = 0
	datumOptionTagInline = 1
)

// Output is a transaction output: a destination address, the value it
// carries, and the post-Alonzo datum/script-reference extensions.
type Output struct {
	Address address.Address
	Value   value.Value

	DatumKind DatumKind
	DatumHash hash.Hash // valid when DatumKind == DatumHash
	DatumRaw  []byte    // pre-encoded plutus data CBOR, valid when DatumKind == DatumInline

	ScriptRef []byte // pre-encoded tag-24-wrapped script CBOR, nil when absent
}

// NewOutput builds a plain output with no datum or script reference.
func NewOutput(addr address.Address, v value.Value) Output {
	return Output{Address: addr, Value: v}
}

// WithDatumHash attaches a datum hash to the output and returns it.
func (o Output) WithDatumHash(h hash.Hash) Output {
	o.DatumKind = DatumHash
	o.DatumHash = h
	return o
}

// WithInlineDatum attaches pre-encoded inline Plutus data to the output
// and returns it.
func (o Output) WithInlineDatum(raw []byte) Output {
	o.DatumKind = DatumInline
	o.DatumRaw = raw
	return o
}

// WithScriptRef attaches a pre-encoded reference script and returns it.
func (o Output) WithScriptRef(raw []byte) Output {
	o.ScriptRef = raw
	return o
}

func (o Output) writeDatumOption(w *cbor.Writer) error {
	switch o.DatumKind {
	case DatumHash:
		if err := w.StartArray(2); err != nil {
			return err
		}
		if err := w.WriteUint(datumOptionTagHash); err != nil {
			return err
		}
		if err := w.WriteByteString(o.DatumHash.Bytes()); err != nil {
			return err
		}
		return w.EndArray()
	case DatumInline:
		if err := w.StartArray(2); err != nil {
			return err
		}
		if err := w.WriteUint(datumOptionTagInline); err != nil {
			return err
		}
		if err := w.WriteTag(cbor.TagEmbeddedCBOR); err != nil {
			return err
		}
		if err := w.WriteByteString(o.DatumRaw); err != nil {
			return err
		}
		return w.EndArray()
	default:
		return fmt.Errorf("transaction: writeDatumOption called with DatumKind none: %w", cerrors.ErrInvalidArgument)
	}
}

// ToCBOR emits o in the post-Alonzo map form, the only shape this toolkit
// constructs; FromCBOR also accepts the legacy pre-Alonzo positional
// `[address, value]`/`[address, value, datum_hash]` shape for compatibility
// with older wire data.
func (o Output) ToCBOR(w *cbor.Writer) error {
	n := 2
	if o.DatumKind != DatumNone {
		n++
	}
	if o.ScriptRef != nil {
		n++
	}
	if err := w.StartMap(n); err != nil {
		return err
	}
	if err := w.WriteUint(outputKeyAddress); err != nil {
		return err
	}
	addrBytes, err := o.Address.ToBytes()
	if err != nil {
		return err
	}
	if err := w.WriteByteString(addrBytes); err != nil {
		return err
	}
	if err := w.WriteUint(outputKeyValue); err != nil {
		return err
	}
	if err := o.Value.ToCBOR(w); err != nil {
		return err
	}
	if o.DatumKind != DatumNone {
		if err := w.WriteUint(outputKeyDatumOption); err != nil {
			return err
		}
		if err := o.writeDatumOption(w); err != nil {
			return err
		}
	}
	if o.ScriptRef != nil {
		if err := w.WriteUint(outputKeyScriptRef); err != nil {
			return err
		}
		if err := w.WriteTag(cbor.TagEmbeddedCBOR); err != nil {
			return err
		}
		if err := w.WriteByteString(o.ScriptRef); err != nil {
			return err
		}
	}
	return w.EndMap()
}

// OutputFromCBOR parses either the post-Alonzo map form or the legacy
// pre-Alonzo positional array form.
func OutputFromCBOR(r *cbor.Reader) (Output, error) {
	state, err := r.PeekState()
	if err != nil {
		return Output{}, err
	}
	if state == cbor.StateStartArray {
		return outputFromLegacyArray(r)
	}
	return outputFromMap(r)
}

func outputFromLegacyArray(r *cbor.Reader) (Output, error) {
	n, err := r.StartArray()
	if err != nil {
		return Output{}, err
	}
	addrBytes, err := r.ReadByteString()
	if err != nil {
		return Output{}, err
	}
	addr, err := address.FromBytes(addrBytes)
	if err != nil {
		return Output{}, err
	}
	v, err := value.FromCBOR(r)
	if err != nil {
		return Output{}, err
	}
	out := NewOutput(addr, v)
	if n >= 3 {
		raw, err := r.ReadByteString()
		if err != nil {
			return Output{}, err
		}
		h, err := hash.New(hash.Size32, raw)
		if err != nil {
			return Output{}, err
		}
		out = out.WithDatumHash(h)
	}
	if err := r.EndArray(); err != nil {
		return Output{}, err
	}
	return out, nil
}

func outputFromMap(r *cbor.Reader) (Output, error) {
	n, err := r.StartMap()
	if err != nil {
		return Output{}, err
	}
	var out Output
	for i := 0; i < n; i++ {
		key, err := r.ReadUint()
		if err != nil {
			return Output{}, err
		}
		switch key {
		case outputKeyAddress:
			raw, err := r.ReadByteString()
			if err != nil {
				return Output{}, err
			}
			addr, err := address.FromBytes(raw)
			if err != nil {
				return Output{}, err
			}
			out.Address = addr
		case outputKeyValue:
			v, err := value.FromCBOR(r)
			if err != nil {
				return Output{}, err
			}
			out.Value = v
		case outputKeyDatumOption:
			if err := readDatumOption(r, &out); err != nil {
				return Output{}, err
			}
		case outputKeyScriptRef:
			if _, err := r.ReadTag(); err != nil {
				return Output{}, err
			}
			raw, err := r.ReadByteString()
			if err != nil {
				return Output{}, err
			}
			out.ScriptRef = raw
		default:
			return Output{}, fmt.Errorf("transaction: unknown output map key %d: %w", key, cerrors.ErrInvalidCBOR)
		}
	}
	if err := r.EndMap(); err != nil {
		return Output{}, err
	}
	return out, nil
}

func readDatumOption(r *cbor.Reader, out *Output) error {
	if _, err := r.StartArray(); err != nil {
		return err
	}
	tag, err := r.ReadUint()
	if err != nil {
		return err
	}
	switch tag {
	case datumOptionTagHash:
		raw, err := r.ReadByteString()
		if err != nil {
			return err
		}
		h, err := hash.New(hash.Size32, raw)
		if err != nil {
			return err
		}
		out.DatumKind = DatumHash
		out.DatumHash = h
	case datumOptionTagInline:
		if _, err := r.ReadTag(); err != nil {
			return err
		}
		raw, err := r.ReadByteString()
		if err != nil {
			return err
		}
		out.DatumKind = DatumInline
		out.DatumRaw = raw
	default:
		return fmt.Errorf("transaction: unknown datum option tag %d: %w", tag, cerrors.ErrInvalidCBOR)
	}
	return r.EndArray()
}
