package transaction

import (
	"fmt"

	"github.com/synnergy-labs/cardano-go/cbor"
	"github.com/synnergy-labs/cardano-go/cerrors"
	"github.com/synnergy-labs/cardano-go/crypto"
	"github.com/synnergy-labs/cardano-go/hash"
	"github.com/synnergy-labs/cardano-go/plutusdata"
	"github.com/synnergy-labs/cardano-go/script"
)

// auxiliary_data map keys (CDDL `auxiliary_data` / `shelley_ma_auxiliary_data`).
const (
	auxKeyMetadata    = 0
	auxKeyNativeScripts = 1
	auxKeyPlutusV1    = 2
	auxKeyPlutusV2    = 3
	auxKeyPlutusV3    = 4
)

// auxiliary_data carries an embedded tag identifying the Alonzo-and-later
// map encoding, distinguishing it on the wire from a bare Shelley metadata
// map or a Shelley-MA two-element legacy array.
const auxiliaryDataTag = 259

// MetadataEntry pairs a transaction-metadata label with its payload.
// Labels are unsigned integers by Cardano convention (CIP-10 registers
// common ones) even though the CDDL allows any Metadatum key.
type MetadataEntry struct {
	Label   uint64
	Payload plutusdata.Metadatum
}

// AuxiliaryData is everything hung off a transaction outside its signed
// body: general transaction metadata plus, since Allegra and Alonzo, the
// native and Plutus scripts needed to validate that metadata's minting or
// spending policies.
type AuxiliaryData struct {
	Metadata        []MetadataEntry
	NativeScripts   []script.NativeScript
	PlutusV1Scripts [][]byte
	PlutusV2Scripts [][]byte
	PlutusV3Scripts [][]byte

	// cached holds the exact bytes this value was parsed from, per the
	// CBOR-cache policy.
	cached []byte
}

// Hash computes the Blake2b-256 digest carried in a transaction body's
// AuxiliaryDataHash field.
func (a AuxiliaryData) Hash() (hash.Hash, error) {
	w := cbor.NewWriter()
	if err := a.ToCBOR(w); err != nil {
		return hash.Hash{}, err
	}
	return hash.New(hash.Size32, crypto.Blake2b256(w.Bytes()))
}

func (a AuxiliaryData) fieldCount() int {
	n := 0
	for _, present := range []bool{
		len(a.Metadata) > 0,
		len(a.NativeScripts) > 0,
		len(a.PlutusV1Scripts) > 0,
		len(a.PlutusV2Scripts) > 0,
		len(a.PlutusV3Scripts) > 0,
	} {
		if present {
			n++
		}
	}
	return n
}

func writeMetadataMap(w *cbor.Writer, entries []MetadataEntry) error {
	if err := w.StartMap(len(entries)); err != nil {
		return err
	}
	for _, e := range entries {
		if err := w.WriteUint(e.Label); err != nil {
			return err
		}
		if err := e.Payload.ToCBOR(w); err != nil {
			return err
		}
	}
	return w.EndMap()
}

func readMetadataMap(r *cbor.Reader) ([]MetadataEntry, error) {
	n, err := r.StartMap()
	if err != nil {
		return nil, err
	}
	out := make([]MetadataEntry, 0, n)
	for i := 0; i < n; i++ {
		label, err := r.ReadUint()
		if err != nil {
			return nil, err
		}
		payload, err := plutusdata.MetadatumFromCBOR(r)
		if err != nil {
			return nil, err
		}
		out = append(out, MetadataEntry{Label: label, Payload: payload})
	}
	if err := r.EndMap(); err != nil {
		return nil, err
	}
	return out, nil
}

func writeNativeScriptArray(w *cbor.Writer, scripts []script.NativeScript) error {
	if err := w.StartArray(len(scripts)); err != nil {
		return err
	}
	for _, s := range scripts {
		if err := s.ToCBOR(w); err != nil {
			return err
		}
	}
	return w.EndArray()
}

func readNativeScriptArray(r *cbor.Reader) ([]script.NativeScript, error) {
	n, err := r.StartArray()
	if err != nil {
		return nil, err
	}
	out := make([]script.NativeScript, 0, n)
	for i := 0; i < n; i++ {
		s, err := script.NativeFromCBOR(r)
		if err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	if err := r.EndArray(); err != nil {
		return nil, err
	}
	return out, nil
}

// ToCBOR emits a's tag-259-wrapped map encoding, or its cached bytes
// verbatim when present.
func (a AuxiliaryData) ToCBOR(w *cbor.Writer) error {
	if a.cached != nil {
		return w.WritePreencoded(a.cached)
	}
	if err := w.WriteTag(auxiliaryDataTag); err != nil {
		return err
	}
	if err := w.StartMap(a.fieldCount()); err != nil {
		return err
	}
	if len(a.Metadata) > 0 {
		if err := w.WriteUint(auxKeyMetadata); err != nil {
			return err
		}
		if err := writeMetadataMap(w, a.Metadata); err != nil {
			return err
		}
	}
	if len(a.NativeScripts) > 0 {
		if err := w.WriteUint(auxKeyNativeScripts); err != nil {
			return err
		}
		if err := writeNativeScriptArray(w, a.NativeScripts); err != nil {
			return err
		}
	}
	if len(a.PlutusV1Scripts) > 0 {
		if err := w.WriteUint(auxKeyPlutusV1); err != nil {
			return err
		}
		if err := writePlutusScriptArray(w, a.PlutusV1Scripts); err != nil {
			return err
		}
	}
	if len(a.PlutusV2Scripts) > 0 {
		if err := w.WriteUint(auxKeyPlutusV2); err != nil {
			return err
		}
		if err := writePlutusScriptArray(w, a.PlutusV2Scripts); err != nil {
			return err
		}
	}
	if len(a.PlutusV3Scripts) > 0 {
		if err := w.WriteUint(auxKeyPlutusV3); err != nil {
			return err
		}
		if err := writePlutusScriptArray(w, a.PlutusV3Scripts); err != nil {
			return err
		}
	}
	return w.EndMap()
}

// AuxiliaryDataFromCBOR parses any of the three historical auxiliary-data
// shapes: a bare Shelley metadata map, a Shelley-MA `[metadata,
// native_scripts]` array, or the tag-259-wrapped Alonzo-and-later map.
func AuxiliaryDataFromCBOR(r *cbor.Reader) (AuxiliaryData, error) {
	start := r.Mark()
	state, err := r.PeekState()
	if err != nil {
		return AuxiliaryData{}, err
	}

	var a AuxiliaryData
	switch state {
	case cbor.StateTag:
		tag, err := r.ReadTag()
		if err != nil {
			return AuxiliaryData{}, err
		}
		if tag != auxiliaryDataTag {
			return AuxiliaryData{}, fmt.Errorf("transaction: unexpected auxiliary data tag %d: %w", tag, cerrors.ErrInvalidCBOR)
		}
		if err := a.readMapBody(r); err != nil {
			return AuxiliaryData{}, err
		}
	case cbor.StateStartArray:
		if _, err := r.StartArray(); err != nil {
			return AuxiliaryData{}, err
		}
		metadata, err := readMetadataMap(r)
		if err != nil {
			return AuxiliaryData{}, err
		}
		scripts, err := readNativeScriptArray(r)
		if err != nil {
			return AuxiliaryData{}, err
		}
		a.Metadata = metadata
		a.NativeScripts = scripts
		if err := r.EndArray(); err != nil {
			return AuxiliaryData{}, err
		}
	case cbor.StateStartMap:
		metadata, err := readMetadataMap(r)
		if err != nil {
			return AuxiliaryData{}, err
		}
		a.Metadata = metadata
	default:
		return AuxiliaryData{}, fmt.Errorf("transaction: unexpected auxiliary data shape: %w", cerrors.ErrInvalidCBOR)
	}

	a.cached = r.Since(start)
	return a, nil
}

func (a *AuxiliaryData) readMapBody(r *cbor.Reader) error {
	n, err := r.StartMap()
	if err != nil {
		return err
	}
	for i := 0; i < n; i++ {
		key, err := r.ReadUint()
		if err != nil {
			return err
		}
		switch key {
		case auxKeyMetadata:
			metadata, err := readMetadataMap(r)
			if err != nil {
				return err
			}
			a.Metadata = metadata
		case auxKeyNativeScripts:
			scripts, err := readNativeScriptArray(r)
			if err != nil {
				return err
			}
			a.NativeScripts = scripts
		case auxKeyPlutusV1:
			scripts, err := readPlutusScriptArray(r)
			if err != nil {
				return err
			}
			a.PlutusV1Scripts = scripts
		case auxKeyPlutusV2:
			scripts, err := readPlutusScriptArray(r)
			if err != nil {
				return err
			}
			a.PlutusV2Scripts = scripts
		case auxKeyPlutusV3:
			scripts, err := readPlutusScriptArray(r)
			if err != nil {
				return err
			}
			a.PlutusV3Scripts = scripts
		default:
			return fmt.Errorf("transaction: unknown auxiliary data map key %d: %w", key, cerrors.ErrInvalidCBOR)
		}
	}
	return r.EndMap()
}
