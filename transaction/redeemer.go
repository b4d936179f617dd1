package transaction

import (
	"fmt"

	"github.com/synnergy-labs/cardano-go/cbor"
	"github.com/synnergy-labs/cardano-go/cerrors"
	"github.com/synnergy-labs/cardano-go/plutusdata"
)

// RedeemerTag identifies which transaction field a redeemer witnesses.
// Vote and Propose were added in Conway alongside governance actions.
type RedeemerTag int

const (
	RedeemerSpend RedeemerTag = iota
	RedeemerMint
	RedeemerCert
	RedeemerReward
	RedeemerVote
	RedeemerPropose
)

// ExecutionUnits bounds a Plutus script invocation's memory and CPU-step
// budget.
type ExecutionUnits struct {
	Memory uint64
	Steps  uint64
}

// Redeemer is the (tag, pointer, data, execution-units) tuple a Plutus
// script invocation carries.
type Redeemer struct {
	Tag      RedeemerTag
	Index    uint64
	Data     plutusdata.Data
	ExUnits  ExecutionUnits
}

func (r Redeemer) writeTag(w *cbor.Writer) error {
	if r.Tag < RedeemerSpend || r.Tag > RedeemerPropose {
		return fmt.Errorf("transaction: unknown redeemer tag %d: %w", r.Tag, cerrors.ErrInvalidArgument)
	}
	return w.WriteUint(uint64(r.Tag))
}

// ToCBOR emits r as `[tag, index, data, [mem, steps]]`.
func (r Redeemer) ToCBOR(w *cbor.Writer) error {
	if err := w.StartArray(4); err != nil {
		return err
	}
	if err := r.writeTag(w); err != nil {
		return err
	}
	if err := w.WriteUint(r.Index); err != nil {
		return err
	}
	if err := r.Data.ToCBOR(w); err != nil {
		return err
	}
	if err := w.StartArray(2); err != nil {
		return err
	}
	if err := w.WriteUint(r.ExUnits.Memory); err != nil {
		return err
	}
	if err := w.WriteUint(r.ExUnits.Steps); err != nil {
		return err
	}
	if err := w.EndArray(); err != nil {
		return err
	}
	return w.EndArray()
}

// RedeemerFromCBOR parses the encoding produced by ToCBOR.
func RedeemerFromCBOR(r *cbor.Reader) (Redeemer, error) {
	if _, err := r.StartArray(); err != nil {
		return Redeemer{}, err
	}
	tag, err := r.ReadUint()
	if err != nil {
		return Redeemer{}, err
	}
	if tag > uint64(RedeemerPropose) {
		return Redeemer{}, fmt.Errorf("transaction: unknown redeemer tag %d: %w", tag, cerrors.ErrInvalidCBOR)
	}
	index, err := r.ReadUint()
	if err != nil {
		return Redeemer{}, err
	}
	data, err := plutusdata.FromCBOR(r)
	if err != nil {
		return Redeemer{}, err
	}
	if _, err := r.StartArray(); err != nil {
		return Redeemer{}, err
	}
	mem, err := r.ReadUint()
	if err != nil {
		return Redeemer{}, err
	}
	steps, err := r.ReadUint()
	if err != nil {
		return Redeemer{}, err
	}
	if err := r.EndArray(); err != nil {
		return Redeemer{}, err
	}
	if err := r.EndArray(); err != nil {
		return Redeemer{}, err
	}
	return Redeemer{
		Tag:     RedeemerTag(tag),
		Index:   index,
		Data:    data,
		ExUnits: ExecutionUnits{Memory: mem, Steps: steps},
	}, nil
}

func writeRedeemers(w *cbor.Writer, redeemers []Redeemer) error {
	if err := w.StartArray(len(redeemers)); err != nil {
		return err
	}
	for _, rd := range redeemers {
		if err := rd.ToCBOR(w); err != nil {
			return err
		}
	}
	return w.EndArray()
}

func readRedeemers(r *cbor.Reader) ([]Redeemer, error) {
	n, err := r.StartArray()
	if err != nil {
		return nil, err
	}
	out := make([]Redeemer, 0, n)
	for i := 0; i < n; i++ {
		rd, err := RedeemerFromCBOR(r)
		if err != nil {
			return nil, err
		}
		out = append(out, rd)
	}
	if err := r.EndArray(); err != nil {
		return nil, err
	}
	return out, nil
}
