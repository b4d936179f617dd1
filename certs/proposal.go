package certs

import (
	"github.com/synnergy-labs/cardano-go/cbor"
)

// ProposalProcedure is a single governance-action proposal: the deposit
// paid, the reward account it refunds to, the action itself, and an
// opaque rationale anchor.
type ProposalProcedure struct {
	Deposit              uint64
	RewardAccountKeyHash []byte // 28-byte stake credential hash of the refund target
	Action               GovernanceAction
	AnchorOpaque         []byte
}

// ToCBOR emits p as `[deposit, reward_account, action, anchor]`.
func (p ProposalProcedure) ToCBOR(w *cbor.Writer) error {
	if err := w.StartArray(4); err != nil {
		return err
	}
	if err := w.WriteUint(p.Deposit); err != nil {
		return err
	}
	if err := w.WriteByteString(p.RewardAccountKeyHash); err != nil {
		return err
	}
	if err := p.Action.ToCBOR(w); err != nil {
		return err
	}
	if err := writeAnchor(w, p.AnchorOpaque); err != nil {
		return err
	}
	return w.EndArray()
}

// ProposalProcedureFromCBOR parses the encoding produced by ToCBOR.
func ProposalProcedureFromCBOR(r *cbor.Reader) (ProposalProcedure, error) {
	if _, err := r.StartArray(); err != nil {
		return ProposalProcedure{}, err
	}
	deposit, err := r.ReadUint()
	if err != nil {
		return ProposalProcedure{}, err
	}
	rewardAcct, err := r.ReadByteString()
	if err != nil {
		return ProposalProcedure{}, err
	}
	action, err := GovernanceActionFromCBOR(r)
	if err != nil {
		return ProposalProcedure{}, err
	}
	anchor, err := readAnchor(r)
	if err != nil {
		return ProposalProcedure{}, err
	}
	if err := r.EndArray(); err != nil {
		return ProposalProcedure{}, err
	}
	return ProposalProcedure{
		Deposit:              deposit,
		RewardAccountKeyHash: rewardAcct,
		Action:               action,
		AnchorOpaque:         anchor,
	}, nil
}

// WriteProposalProcedures emits the array of proposal procedures carried
// in a transaction body.
func WriteProposalProcedures(w *cbor.Writer, procedures []ProposalProcedure) error {
	if err := w.StartArray(len(procedures)); err != nil {
		return err
	}
	for _, p := range procedures {
		if err := p.ToCBOR(w); err != nil {
			return err
		}
	}
	return w.EndArray()
}

// ProposalProceduresFromCBOR parses the array of proposal procedures
// carried in a transaction body.
func ProposalProceduresFromCBOR(r *cbor.Reader) ([]ProposalProcedure, error) {
	n, err := r.StartArray()
	if err != nil {
		return nil, err
	}
	out := make([]ProposalProcedure, 0, n)
	for i := 0; i < n; i++ {
		p, err := ProposalProcedureFromCBOR(r)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	if err := r.EndArray(); err != nil {
		return nil, err
	}
	return out, nil
}
