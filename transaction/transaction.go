package transaction

import (
	"github.com/synnergy-labs/cardano-go/cbor"
	"github.com/synnergy-labs/cardano-go/hash"
)

// Transaction is the full on-chain envelope: a signed body, the witnesses
// satisfying it, a validity flag distinguishing Babbage-and-later
// collateral-forfeiture submissions from ordinary ones, and optional
// auxiliary data.
type Transaction struct {
	Body          Body
	WitnessSet    WitnessSet
	IsValid       bool
	AuxiliaryData *AuxiliaryData

	// cached holds the exact bytes this transaction was parsed from, per
	// the CBOR-cache policy.
	cached []byte
}

// NewTransaction builds a valid (non-collateral-forfeiture) transaction
// from its body and witness set.
func NewTransaction(body Body, witnesses WitnessSet) Transaction {
	return Transaction{Body: body, WitnessSet: witnesses, IsValid: true}
}

// ID returns the transaction's identity: the Blake2b-256 hash of its
// body's canonical CBOR alone, independent of witnesses or validity.
func (t *Transaction) ID() (hash.Hash, error) {
	return t.Body.Hash()
}

// ToCBOR emits t as `[body, witness_set, is_valid, auxiliary_data]`, or
// its cached bytes verbatim when present.
func (t Transaction) ToCBOR(w *cbor.Writer) error {
	if t.cached != nil {
		return w.WritePreencoded(t.cached)
	}
	if err := w.StartArray(4); err != nil {
		return err
	}
	if err := t.Body.ToCBOR(w); err != nil {
		return err
	}
	if err := t.WitnessSet.ToCBOR(w); err != nil {
		return err
	}
	if err := w.WriteBool(t.IsValid); err != nil {
		return err
	}
	if t.AuxiliaryData != nil {
		if err := t.AuxiliaryData.ToCBOR(w); err != nil {
			return err
		}
	} else {
		if err := w.WriteNull(); err != nil {
			return err
		}
	}
	return w.EndArray()
}

// FromCBOR parses the encoding produced by ToCBOR.
func FromCBOR(r *cbor.Reader) (Transaction, error) {
	start := r.Mark()
	if _, err := r.StartArray(); err != nil {
		return Transaction{}, err
	}
	body, err := BodyFromCBOR(r)
	if err != nil {
		return Transaction{}, err
	}
	witnesses, err := WitnessSetFromCBOR(r)
	if err != nil {
		return Transaction{}, err
	}
	isValid, err := r.ReadBool()
	if err != nil {
		return Transaction{}, err
	}
	state, err := r.PeekState()
	if err != nil {
		return Transaction{}, err
	}
	var auxData *AuxiliaryData
	if state == cbor.StateNull {
		if err := r.ReadNull(); err != nil {
			return Transaction{}, err
		}
	} else {
		a, err := AuxiliaryDataFromCBOR(r)
		if err != nil {
			return Transaction{}, err
		}
		auxData = &a
	}
	if err := r.EndArray(); err != nil {
		return Transaction{}, err
	}
	t := Transaction{Body: body, WitnessSet: witnesses, IsValid: isValid, AuxiliaryData: auxData}
	t.cached = r.Since(start)
	return t, nil
}
