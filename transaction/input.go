// Package transaction implements Cardano's transaction body, witness set,
// and redeemer/cost-model types, plus the script-data hash computation
//.
package transaction

import (
	"github.com/synnergy-labs/cardano-go/cbor"
	"github.com/synnergy-labs/cardano-go/hash"
)

// Input is a reference to a previous transaction's output: its
// transaction ID and output index.
type Input struct {
	TxID  hash.Hash
	Index uint32
}

// NewInput builds an Input.
func NewInput(txID hash.Hash, index uint32) Input {
	return Input{TxID: txID, Index: index}
}

// ToCBOR emits i as the `[tx_id, index]` pair.
func (i Input) ToCBOR(w *cbor.Writer) error {
	if err := w.StartArray(2); err != nil {
		return err
	}
	if err := w.WriteByteString(i.TxID.Bytes()); err != nil {
		return err
	}
	if err := w.WriteUint(uint64(i.Index)); err != nil {
		return err
	}
	return w.EndArray()
}

// InputFromCBOR parses the encoding produced by ToCBOR.
func InputFromCBOR(r *cbor.Reader) (Input, error) {
	if _, err := r.StartArray(); err != nil {
		return Input{}, err
	}
	raw, err := r.ReadByteString()
	if err != nil {
		return Input{}, err
	}
	idx, err := r.ReadUint()
	if err != nil {
		return Input{}, err
	}
	if err := r.EndArray(); err != nil {
		return Input{}, err
	}
	h, err := hash.New(hash.Size32, raw)
	if err != nil {
		return Input{}, err
	}
	return Input{TxID: h, Index: uint32(idx)}, nil
}

// Equal reports whether i and other reference the same output.
func (i Input) Equal(other Input) bool {
	return i.Index == other.Index && i.TxID.Equal(other.TxID)
}

// Less orders inputs by (tx-id, index) lexicographic order, the tie-break
// rule the coin selector uses for determinism.
func (i Input) Less(other Input) bool {
	if c := i.TxID.Compare(other.TxID); c != 0 {
		return c < 0
	}
	return i.Index < other.Index
}

func writeInputSet(w *cbor.Writer, inputs []Input) error {
	if err := w.WriteTag(cbor.TagSet); err != nil {
		return err
	}
	if err := w.StartArray(len(inputs)); err != nil {
		return err
	}
	for _, in := range inputs {
		if err := in.ToCBOR(w); err != nil {
			return err
		}
	}
	return w.EndArray()
}

func readInputSet(r *cbor.Reader) ([]Input, error) {
	state, err := r.PeekState()
	if err != nil {
		return nil, err
	}
	if state == cbor.StateTag {
		if _, err := r.ReadTag(); err != nil {
			return nil, err
		}
	}
	n, err := r.StartArray()
	if err != nil {
		return nil, err
	}
	out := make([]Input, 0, n)
	for i := 0; i < n; i++ {
		in, err := InputFromCBOR(r)
		if err != nil {
			return nil, err
		}
		out = append(out, in)
	}
	if err := r.EndArray(); err != nil {
		return nil, err
	}
	return out, nil
}
