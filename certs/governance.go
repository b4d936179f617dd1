package certs

import (
	"fmt"

	"github.com/synnergy-labs/cardano-go/cbor"
	"github.com/synnergy-labs/cardano-go/cerrors"
	"github.com/synnergy-labs/cardano-go/hash"
)

// GovernanceActionKind tags which Conway governance action a
// GovernanceAction holds (original_source `governance_action_type.h`,
// supplemented per SPEC_FULL.md §5).
type GovernanceActionKind int

const (
	ActionParameterChange GovernanceActionKind = iota
	ActionHardForkInitiation
	ActionTreasuryWithdrawals
	ActionNoConfidence
	ActionNewCommittee
	ActionNewConstitution
	ActionInfo
)

// Cardano's governance action CBOR tags.
const (
	govTagParameterChange     = 0
	govTagHardForkInitiation  = 1
	govTagTreasuryWithdrawals = 2
	govTagNoConfidence        = 3
	govTagNewCommittee        = 4
	govTagNewConstitution     = 5
	govTagInfo                = 6
)

// GovernanceActionID identifies a prior action a new one supersedes or
// responds to: the transaction that proposed it plus its index within
// that transaction's proposal list.
type GovernanceActionID struct {
	TxID  hash.Hash
	Index uint64
}

// Equal reports whether id and other identify the same action.
// GovernanceActionID embeds a hash.Hash holding a byte slice, so it is
// not comparable with ==.
func (id GovernanceActionID) Equal(other GovernanceActionID) bool {
	return id.Index == other.Index && id.TxID.Equal(other.TxID)
}

// TreasuryWithdrawal pairs a reward-account credential (stake credential
// of the receiving reward address) with the amount withdrawn.
type TreasuryWithdrawal struct {
	RewardAccountKeyHash hash.Hash
	Coin                 uint64
}

// GovernanceAction is the tagged sum over every Conway action kind.
type GovernanceAction struct {
	Kind GovernanceActionKind

	PriorAction *GovernanceActionID // nil when the action kind has none

	// ParameterChangeUpdate is the opaque pre-encoded protocol_param_update
	// payload, carried the same way transaction.Body carries its own
	// unmodeled Update field: round-tripped verbatim rather than parsed
	// field-by-field.
	ParameterChangeUpdate              []byte
	ParameterChangeGuardrailScriptHash *hash.Hash // optional policy_hash, nil when absent

	NewMajorProtocolVer   uint64
	Withdrawals           []TreasuryWithdrawal
	NewMembers            []hash.Hash // committee member credentials added
	RemovedMembers        []hash.Hash // committee member credentials removed
	NewConstitutionAnchor []byte      // opaque anchor bytes (URL hash + hash digest)
	InfoText              string
}

func (a GovernanceAction) tag() (uint64, error) {
	switch a.Kind {
	case ActionParameterChange:
		return govTagParameterChange, nil
	case ActionHardForkInitiation:
		return govTagHardForkInitiation, nil
	case ActionTreasuryWithdrawals:
		return govTagTreasuryWithdrawals, nil
	case ActionNoConfidence:
		return govTagNoConfidence, nil
	case ActionNewCommittee:
		return govTagNewCommittee, nil
	case ActionNewConstitution:
		return govTagNewConstitution, nil
	case ActionInfo:
		return govTagInfo, nil
	default:
		return 0, fmt.Errorf("certs: unknown governance action kind %d: %w", a.Kind, cerrors.ErrUnknownGovernanceAction)
	}
}

func writePriorAction(w *cbor.Writer, prior *GovernanceActionID) error {
	if prior == nil {
		return w.WriteNull()
	}
	if err := w.StartArray(2); err != nil {
		return err
	}
	if err := w.WriteByteString(prior.TxID.Bytes()); err != nil {
		return err
	}
	if err := w.WriteUint(prior.Index); err != nil {
		return err
	}
	return w.EndArray()
}

func readPriorAction(r *cbor.Reader) (*GovernanceActionID, error) {
	state, err := r.PeekState()
	if err != nil {
		return nil, err
	}
	if state == cbor.StateNull {
		if err := r.ReadNull(); err != nil {
			return nil, err
		}
		return nil, nil
	}
	if _, err := r.StartArray(); err != nil {
		return nil, err
	}
	raw, err := r.ReadByteString()
	if err != nil {
		return nil, err
	}
	idx, err := r.ReadUint()
	if err != nil {
		return nil, err
	}
	if err := r.EndArray(); err != nil {
		return nil, err
	}
	h, err := hash.New(hash.Size32, raw)
	if err != nil {
		return nil, err
	}
	return &GovernanceActionID{TxID: h, Index: idx}, nil
}

func writeOptionalHash(w *cbor.Writer, h *hash.Hash) error {
	if h == nil {
		return w.WriteNull()
	}
	return w.WriteByteString(h.Bytes())
}

func readOptionalHash(r *cbor.Reader, size hash.Size) (*hash.Hash, error) {
	state, err := r.PeekState()
	if err != nil {
		return nil, err
	}
	if state == cbor.StateNull {
		if err := r.ReadNull(); err != nil {
			return nil, err
		}
		return nil, nil
	}
	raw, err := r.ReadByteString()
	if err != nil {
		return nil, err
	}
	h, err := hash.New(size, raw)
	if err != nil {
		return nil, err
	}
	return &h, nil
}

// ToCBOR emits a's canonical `[tag, ...]` encoding, covering every Conway
// action kind. ParameterChange's protocol_param_update payload is carried
// as opaque pre-encoded CBOR since the full protocol-parameter-update
// schema is out of this component's scope (the builder supplies it
// already encoded), the same way transaction.Body carries its own
// unmodeled Update field.
func (a GovernanceAction) ToCBOR(w *cbor.Writer) error {
	tag, err := a.tag()
	if err != nil {
		return err
	}
	switch a.Kind {
	case ActionParameterChange:
		if err := w.StartArray(4); err != nil {
			return err
		}
		if err := w.WriteUint(tag); err != nil {
			return err
		}
		if err := writePriorAction(w, a.PriorAction); err != nil {
			return err
		}
		if err := w.WritePreencoded(a.ParameterChangeUpdate); err != nil {
			return err
		}
		if err := writeOptionalHash(w, a.ParameterChangeGuardrailScriptHash); err != nil {
			return err
		}
		return w.EndArray()
	case ActionInfo:
		if err := w.StartArray(1); err != nil {
			return err
		}
		if err := w.WriteUint(tag); err != nil {
			return err
		}
		return w.EndArray()
	case ActionNoConfidence:
		if err := w.StartArray(2); err != nil {
			return err
		}
		if err := w.WriteUint(tag); err != nil {
			return err
		}
		if err := writePriorAction(w, a.PriorAction); err != nil {
			return err
		}
		return w.EndArray()
	case ActionHardForkInitiation:
		if err := w.StartArray(3); err != nil {
			return err
		}
		if err := w.WriteUint(tag); err != nil {
			return err
		}
		if err := writePriorAction(w, a.PriorAction); err != nil {
			return err
		}
		if err := w.WriteUint(a.NewMajorProtocolVer); err != nil {
			return err
		}
		return w.EndArray()
	case ActionTreasuryWithdrawals:
		if err := w.StartArray(2); err != nil {
			return err
		}
		if err := w.WriteUint(tag); err != nil {
			return err
		}
		if err := w.StartMap(len(a.Withdrawals)); err != nil {
			return err
		}
		for _, wd := range a.Withdrawals {
			if err := w.WriteByteString(wd.RewardAccountKeyHash.Bytes()); err != nil {
				return err
			}
			if err := w.WriteUint(wd.Coin); err != nil {
				return err
			}
		}
		if err := w.EndMap(); err != nil {
			return err
		}
		return w.EndArray()
	case ActionNewCommittee:
		if err := w.StartArray(4); err != nil {
			return err
		}
		if err := w.WriteUint(tag); err != nil {
			return err
		}
		if err := writePriorAction(w, a.PriorAction); err != nil {
			return err
		}
		if err := w.StartArray(len(a.RemovedMembers)); err != nil {
			return err
		}
		for _, m := range a.RemovedMembers {
			if err := w.WriteByteString(m.Bytes()); err != nil {
				return err
			}
		}
		if err := w.EndArray(); err != nil {
			return err
		}
		if err := w.StartArray(len(a.NewMembers)); err != nil {
			return err
		}
		for _, m := range a.NewMembers {
			if err := w.WriteByteString(m.Bytes()); err != nil {
				return err
			}
		}
		return w.EndArray()
	case ActionNewConstitution:
		if err := w.StartArray(3); err != nil {
			return err
		}
		if err := w.WriteUint(tag); err != nil {
			return err
		}
		if err := writePriorAction(w, a.PriorAction); err != nil {
			return err
		}
		if err := w.WriteByteString(a.NewConstitutionAnchor); err != nil {
			return err
		}
		return w.EndArray()
	default:
		return fmt.Errorf("certs: encoding not implemented for governance action kind %d: %w", a.Kind, cerrors.ErrNotImplemented)
	}
}

// GovernanceActionFromCBOR parses the subset of governance actions ToCBOR
// emits.
func GovernanceActionFromCBOR(r *cbor.Reader) (GovernanceAction, error) {
	if _, err := r.StartArray(); err != nil {
		return GovernanceAction{}, err
	}
	tag, err := r.ReadUint()
	if err != nil {
		return GovernanceAction{}, err
	}
	var out GovernanceAction
	switch tag {
	case govTagParameterChange:
		prior, err := readPriorAction(r)
		if err != nil {
			return GovernanceAction{}, err
		}
		update, err := readPreencodedItem(r)
		if err != nil {
			return GovernanceAction{}, err
		}
		guardrail, err := readOptionalHash(r, hash.Size28)
		if err != nil {
			return GovernanceAction{}, err
		}
		out.Kind = ActionParameterChange
		out.PriorAction = prior
		out.ParameterChangeUpdate = update
		out.ParameterChangeGuardrailScriptHash = guardrail
	case govTagInfo:
		out.Kind = ActionInfo
	case govTagNoConfidence:
		prior, err := readPriorAction(r)
		if err != nil {
			return GovernanceAction{}, err
		}
		out.Kind = ActionNoConfidence
		out.PriorAction = prior
	case govTagHardForkInitiation:
		prior, err := readPriorAction(r)
		if err != nil {
			return GovernanceAction{}, err
		}
		ver, err := r.ReadUint()
		if err != nil {
			return GovernanceAction{}, err
		}
		out.Kind = ActionHardForkInitiation
		out.PriorAction = prior
		out.NewMajorProtocolVer = ver
	case govTagTreasuryWithdrawals:
		n, err := r.StartMap()
		if err != nil {
			return GovernanceAction{}, err
		}
		withdrawals := make([]TreasuryWithdrawal, 0, n)
		for i := 0; i < n; i++ {
			raw, err := r.ReadByteString()
			if err != nil {
				return GovernanceAction{}, err
			}
			h, err := hash.New(hash.Size28, raw)
			if err != nil {
				return GovernanceAction{}, err
			}
			coin, err := r.ReadUint()
			if err != nil {
				return GovernanceAction{}, err
			}
			withdrawals = append(withdrawals, TreasuryWithdrawal{RewardAccountKeyHash: h, Coin: coin})
		}
		if err := r.EndMap(); err != nil {
			return GovernanceAction{}, err
		}
		out.Kind = ActionTreasuryWithdrawals
		out.Withdrawals = withdrawals
	case govTagNewCommittee:
		prior, err := readPriorAction(r)
		if err != nil {
			return GovernanceAction{}, err
		}
		removed, err := readHashArray(r)
		if err != nil {
			return GovernanceAction{}, err
		}
		added, err := readHashArray(r)
		if err != nil {
			return GovernanceAction{}, err
		}
		out.Kind = ActionNewCommittee
		out.PriorAction = prior
		out.RemovedMembers = removed
		out.NewMembers = added
	case govTagNewConstitution:
		prior, err := readPriorAction(r)
		if err != nil {
			return GovernanceAction{}, err
		}
		anchor, err := r.ReadByteString()
		if err != nil {
			return GovernanceAction{}, err
		}
		out.Kind = ActionNewConstitution
		out.PriorAction = prior
		out.NewConstitutionAnchor = anchor
	default:
		return GovernanceAction{}, fmt.Errorf("certs: unknown governance action tag %d: %w", tag, cerrors.ErrUnknownGovernanceAction)
	}
	if err := r.EndArray(); err != nil {
		return GovernanceAction{}, err
	}
	return out, nil
}

// readPreencodedItem captures the raw bytes of the next CBOR item without
// decoding it, the same splice transaction.Body uses for its own opaque
// Update field.
func readPreencodedItem(r *cbor.Reader) ([]byte, error) {
	start := r.Mark()
	if err := r.SkipValue(); err != nil {
		return nil, err
	}
	return r.Since(start), nil
}

func readHashArray(r *cbor.Reader) ([]hash.Hash, error) {
	n, err := r.StartArray()
	if err != nil {
		return nil, err
	}
	out := make([]hash.Hash, 0, n)
	for i := 0; i < n; i++ {
		raw, err := r.ReadByteString()
		if err != nil {
			return nil, err
		}
		h, err := hash.New(hash.Size28, raw)
		if err != nil {
			return nil, err
		}
		out = append(out, h)
	}
	if err := r.EndArray(); err != nil {
		return nil, err
	}
	return out, nil
}
