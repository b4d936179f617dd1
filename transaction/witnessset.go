package transaction

import (
	"github.com/synnergy-labs/cardano-go/cbor"
	"github.com/synnergy-labs/cardano-go/plutusdata"
	"github.com/synnergy-labs/cardano-go/script"
)

const (
	witnessKeyVkey        = 0
	witnessKeyNativeScript = 1
	witnessKeyBootstrap   = 2
	witnessKeyPlutusV1    = 3
	witnessKeyPlutusData  = 4
	witnessKeyRedeemer    = 5
	witnessKeyPlutusV2    = 6
	witnessKeyPlutusV3    = 7
)

// VKeyWitness is a (public key, signature) pair authorizing a transaction
// under an Ed25519 credential.
type VKeyWitness struct {
	VKey      []byte // 32-byte Ed25519 public key
	Signature []byte // 64-byte Ed25519 signature over the transaction body hash
}

func (v VKeyWitness) toCBOR(w *cbor.Writer) error {
	if err := w.StartArray(2); err != nil {
		return err
	}
	if err := w.WriteByteString(v.VKey); err != nil {
		return err
	}
	if err := w.WriteByteString(v.Signature); err != nil {
		return err
	}
	return w.EndArray()
}

func vkeyWitnessFromCBOR(r *cbor.Reader) (VKeyWitness, error) {
	if _, err := r.StartArray(); err != nil {
		return VKeyWitness{}, err
	}
	vkey, err := r.ReadByteString()
	if err != nil {
		return VKeyWitness{}, err
	}
	sig, err := r.ReadByteString()
	if err != nil {
		return VKeyWitness{}, err
	}
	if err := r.EndArray(); err != nil {
		return VKeyWitness{}, err
	}
	return VKeyWitness{VKey: vkey, Signature: sig}, nil
}

// BootstrapWitness authorizes a transaction under a Byron address: the
// extended public key, signature, chain code, and the address attributes
// it was derived with.
type BootstrapWitness struct {
	VKey      []byte // 32-byte public key
	Signature []byte // 64-byte signature
	ChainCode []byte // 32-byte chain code
	Attributes []byte // raw CBOR-encoded ByronAttributes
}

func (b BootstrapWitness) toCBOR(w *cbor.Writer) error {
	if err := w.StartArray(4); err != nil {
		return err
	}
	if err := w.WriteByteString(b.VKey); err != nil {
		return err
	}
	if err := w.WriteByteString(b.Signature); err != nil {
		return err
	}
	if err := w.WriteByteString(b.ChainCode); err != nil {
		return err
	}
	if err := w.WriteByteString(b.Attributes); err != nil {
		return err
	}
	return w.EndArray()
}

func bootstrapWitnessFromCBOR(r *cbor.Reader) (BootstrapWitness, error) {
	if _, err := r.StartArray(); err != nil {
		return BootstrapWitness{}, err
	}
	vkey, err := r.ReadByteString()
	if err != nil {
		return BootstrapWitness{}, err
	}
	sig, err := r.ReadByteString()
	if err != nil {
		return BootstrapWitness{}, err
	}
	chainCode, err := r.ReadByteString()
	if err != nil {
		return BootstrapWitness{}, err
	}
	attrs, err := r.ReadByteString()
	if err != nil {
		return BootstrapWitness{}, err
	}
	if err := r.EndArray(); err != nil {
		return BootstrapWitness{}, err
	}
	return BootstrapWitness{VKey: vkey, Signature: sig, ChainCode: chainCode, Attributes: attrs}, nil
}

// WitnessSet carries everything needed to authorize and satisfy the
// scripts referenced by a transaction body.
type WitnessSet struct {
	VKeyWitnesses      []VKeyWitness
	NativeScripts      []script.NativeScript
	BootstrapWitnesses []BootstrapWitness
	PlutusV1Scripts    [][]byte
	PlutusV2Scripts    [][]byte
	PlutusV3Scripts    [][]byte
	PlutusData         []plutusdata.Data
	Redeemers          []Redeemer
}

func writePlutusScriptArray(w *cbor.Writer, scripts [][]byte) error {
	if err := w.StartArray(len(scripts)); err != nil {
		return err
	}
	for _, s := range scripts {
		if err := w.WriteByteString(s); err != nil {
			return err
		}
	}
	return w.EndArray()
}

func readPlutusScriptArray(r *cbor.Reader) ([][]byte, error) {
	n, err := r.StartArray()
	if err != nil {
		return nil, err
	}
	out := make([][]byte, 0, n)
	for i := 0; i < n; i++ {
		raw, err := r.ReadByteString()
		if err != nil {
			return nil, err
		}
		out = append(out, raw)
	}
	if err := r.EndArray(); err != nil {
		return nil, err
	}
	return out, nil
}

func writePlutusDataArray(w *cbor.Writer, datums []plutusdata.Data) error {
	if err := w.StartArray(len(datums)); err != nil {
		return err
	}
	for _, d := range datums {
		if err := d.ToCBOR(w); err != nil {
			return err
		}
	}
	return w.EndArray()
}

func readPlutusDataArray(r *cbor.Reader) ([]plutusdata.Data, error) {
	n, err := r.StartArray()
	if err != nil {
		return nil, err
	}
	out := make([]plutusdata.Data, 0, n)
	for i := 0; i < n; i++ {
		d, err := plutusdata.FromCBOR(r)
		if err != nil {
			return nil, err
		}
		out = append(out, d)
	}
	if err := r.EndArray(); err != nil {
		return nil, err
	}
	return out, nil
}

// fieldCount reports how many of ws's optional map keys are non-empty.
func (ws WitnessSet) fieldCount() int {
	n := 0
	for _, present := range []bool{
		len(ws.VKeyWitnesses) > 0,
		len(ws.NativeScripts) > 0,
		len(ws.BootstrapWitnesses) > 0,
		len(ws.PlutusV1Scripts) > 0,
		len(ws.PlutusData) > 0,
		len(ws.Redeemers) > 0,
		len(ws.PlutusV2Scripts) > 0,
		len(ws.PlutusV3Scripts) > 0,
	} {
		if present {
			n++
		}
	}
	return n
}

// ToCBOR emits ws's sparse map encoding, omitting every empty key per the
// Cardano convention of never writing empty witness-set fields.
func (ws WitnessSet) ToCBOR(w *cbor.Writer) error {
	if err := w.StartMap(ws.fieldCount()); err != nil {
		return err
	}
	if len(ws.VKeyWitnesses) > 0 {
		if err := w.WriteUint(witnessKeyVkey); err != nil {
			return err
		}
		if err := w.StartArray(len(ws.VKeyWitnesses)); err != nil {
			return err
		}
		for _, v := range ws.VKeyWitnesses {
			if err := v.toCBOR(w); err != nil {
				return err
			}
		}
		if err := w.EndArray(); err != nil {
			return err
		}
	}
	if len(ws.NativeScripts) > 0 {
		if err := w.WriteUint(witnessKeyNativeScript); err != nil {
			return err
		}
		if err := w.StartArray(len(ws.NativeScripts)); err != nil {
			return err
		}
		for _, s := range ws.NativeScripts {
			if err := s.ToCBOR(w); err != nil {
				return err
			}
		}
		if err := w.EndArray(); err != nil {
			return err
		}
	}
	if len(ws.BootstrapWitnesses) > 0 {
		if err := w.WriteUint(witnessKeyBootstrap); err != nil {
			return err
		}
		if err := w.StartArray(len(ws.BootstrapWitnesses)); err != nil {
			return err
		}
		for _, b := range ws.BootstrapWitnesses {
			if err := b.toCBOR(w); err != nil {
				return err
			}
		}
		if err := w.EndArray(); err != nil {
			return err
		}
	}
	if len(ws.PlutusV1Scripts) > 0 {
		if err := w.WriteUint(witnessKeyPlutusV1); err != nil {
			return err
		}
		if err := writePlutusScriptArray(w, ws.PlutusV1Scripts); err != nil {
			return err
		}
	}
	if len(ws.PlutusData) > 0 {
		if err := w.WriteUint(witnessKeyPlutusData); err != nil {
			return err
		}
		if err := writePlutusDataArray(w, ws.PlutusData); err != nil {
			return err
		}
	}
	if len(ws.Redeemers) > 0 {
		if err := w.WriteUint(witnessKeyRedeemer); err != nil {
			return err
		}
		if err := writeRedeemers(w, ws.Redeemers); err != nil {
			return err
		}
	}
	if len(ws.PlutusV2Scripts) > 0 {
		if err := w.WriteUint(witnessKeyPlutusV2); err != nil {
			return err
		}
		if err := writePlutusScriptArray(w, ws.PlutusV2Scripts); err != nil {
			return err
		}
	}
	if len(ws.PlutusV3Scripts) > 0 {
		if err := w.WriteUint(witnessKeyPlutusV3); err != nil {
			return err
		}
		if err := writePlutusScriptArray(w, ws.PlutusV3Scripts); err != nil {
			return err
		}
	}
	return w.EndMap()
}

// WitnessSetFromCBOR parses the encoding produced by ToCBOR.
func WitnessSetFromCBOR(r *cbor.Reader) (WitnessSet, error) {
	n, err := r.StartMap()
	if err != nil {
		return WitnessSet{}, err
	}
	var ws WitnessSet
	for i := 0; i < n; i++ {
		key, err := r.ReadUint()
		if err != nil {
			return WitnessSet{}, err
		}
		switch key {
		case witnessKeyVkey:
			m, err := r.StartArray()
			if err != nil {
				return WitnessSet{}, err
			}
			ws.VKeyWitnesses = make([]VKeyWitness, 0, m)
			for j := 0; j < m; j++ {
				v, err := vkeyWitnessFromCBOR(r)
				if err != nil {
					return WitnessSet{}, err
				}
				ws.VKeyWitnesses = append(ws.VKeyWitnesses, v)
			}
			if err := r.EndArray(); err != nil {
				return WitnessSet{}, err
			}
		case witnessKeyNativeScript:
			m, err := r.StartArray()
			if err != nil {
				return WitnessSet{}, err
			}
			ws.NativeScripts = make([]script.NativeScript, 0, m)
			for j := 0; j < m; j++ {
				s, err := script.NativeFromCBOR(r)
				if err != nil {
					return WitnessSet{}, err
				}
				ws.NativeScripts = append(ws.NativeScripts, s)
			}
			if err := r.EndArray(); err != nil {
				return WitnessSet{}, err
			}
		case witnessKeyBootstrap:
			m, err := r.StartArray()
			if err != nil {
				return WitnessSet{}, err
			}
			ws.BootstrapWitnesses = make([]BootstrapWitness, 0, m)
			for j := 0; j < m; j++ {
				b, err := bootstrapWitnessFromCBOR(r)
				if err != nil {
					return WitnessSet{}, err
				}
				ws.BootstrapWitnesses = append(ws.BootstrapWitnesses, b)
			}
			if err := r.EndArray(); err != nil {
				return WitnessSet{}, err
			}
		case witnessKeyPlutusV1:
			scripts, err := readPlutusScriptArray(r)
			if err != nil {
				return WitnessSet{}, err
			}
			ws.PlutusV1Scripts = scripts
		case witnessKeyPlutusData:
			datums, err := readPlutusDataArray(r)
			if err != nil {
				return WitnessSet{}, err
			}
			ws.PlutusData = datums
		case witnessKeyRedeemer:
			redeemers, err := readRedeemers(r)
			if err != nil {
				return WitnessSet{}, err
			}
			ws.Redeemers = redeemers
		case witnessKeyPlutusV2:
			scripts, err := readPlutusScriptArray(r)
			if err != nil {
				return WitnessSet{}, err
			}
			ws.PlutusV2Scripts = scripts
		case witnessKeyPlutusV3:
			scripts, err := readPlutusScriptArray(r)
			if err != nil {
				return WitnessSet{}, err
			}
			ws.PlutusV3Scripts = scripts
		}
	}
	if err := r.EndMap(); err != nil {
		return WitnessSet{}, err
	}
	return ws, nil
}
