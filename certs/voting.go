package certs

import (
	"fmt"

	"github.com/synnergy-labs/cardano-go/address"
	"github.com/synnergy-labs/cardano-go/cbor"
	"github.com/synnergy-labs/cardano-go/cerrors"
	"github.com/synnergy-labs/cardano-go/hash"
)

// Vote is a governance participant's ballot on a single action.
type Vote int

const (
	VoteNo Vote = iota
	VoteYes
	VoteAbstain
)

// VoterKind tags which kind of governance participant cast a vote.
type VoterKind int

const (
	VoterConstitutionalCommitteeKeyHash VoterKind = iota
	VoterConstitutionalCommitteeScriptHash
	VoterDRepKeyHash
	VoterDRepScriptHash
	VoterStakingPoolKeyHash
)

// Cardano's voter CBOR tags (CDDL `voter`, Conway era).
const (
	voterTagCCKeyHash     = 0
	voterTagCCScriptHash  = 1
	voterTagDRepKeyHash   = 2
	voterTagDRepScript    = 3
	voterTagStakePoolKey  = 4
)

// Voter identifies who cast a vote.
type Voter struct {
	Kind VoterKind
	Hash address.Credential
}

// Equal reports whether v and other identify the same voter. Voter embeds
// a Credential holding a byte slice, so it is not comparable with ==.
func (v Voter) Equal(other Voter) bool {
	return v.Kind == other.Kind && v.Hash.Equal(other.Hash)
}

func voterTag(k VoterKind) (uint64, error) {
	switch k {
	case VoterConstitutionalCommitteeKeyHash:
		return voterTagCCKeyHash, nil
	case VoterConstitutionalCommitteeScriptHash:
		return voterTagCCScriptHash, nil
	case VoterDRepKeyHash:
		return voterTagDRepKeyHash, nil
	case VoterDRepScriptHash:
		return voterTagDRepScript, nil
	case VoterStakingPoolKeyHash:
		return voterTagStakePoolKey, nil
	default:
		return 0, fmt.Errorf("certs: unknown voter kind %d: %w", k, cerrors.ErrInvalidArgument)
	}
}

func voterKindFromTag(tag uint64) (VoterKind, error) {
	switch tag {
	case voterTagCCKeyHash:
		return VoterConstitutionalCommitteeKeyHash, nil
	case voterTagCCScriptHash:
		return VoterConstitutionalCommitteeScriptHash, nil
	case voterTagDRepKeyHash:
		return VoterDRepKeyHash, nil
	case voterTagDRepScript:
		return VoterDRepScriptHash, nil
	case voterTagStakePoolKey:
		return VoterStakingPoolKeyHash, nil
	default:
		return 0, fmt.Errorf("certs: unknown voter tag %d: %w", tag, cerrors.ErrInvalidArgument)
	}
}

func (v Voter) toCBOR(w *cbor.Writer) error {
	tag, err := voterTag(v.Kind)
	if err != nil {
		return err
	}
	if err := w.StartArray(2); err != nil {
		return err
	}
	if err := w.WriteUint(tag); err != nil {
		return err
	}
	if err := w.WriteByteString(v.Hash.Hash().Bytes()); err != nil {
		return err
	}
	return w.EndArray()
}

func voterFromCBOR(r *cbor.Reader) (Voter, error) {
	if _, err := r.StartArray(); err != nil {
		return Voter{}, err
	}
	tag, err := r.ReadUint()
	if err != nil {
		return Voter{}, err
	}
	kind, err := voterKindFromTag(tag)
	if err != nil {
		return Voter{}, err
	}
	raw, err := r.ReadByteString()
	if err != nil {
		return Voter{}, err
	}
	if err := r.EndArray(); err != nil {
		return Voter{}, err
	}
	h, err := hash.New(hash.Size28, raw)
	if err != nil {
		return Voter{}, err
	}
	isScript := kind == VoterConstitutionalCommitteeScriptHash || kind == VoterDRepScriptHash
	var cred address.Credential
	if isScript {
		cred, err = address.NewScriptHashCredential(h)
	} else {
		cred, err = address.NewKeyHashCredential(h)
	}
	if err != nil {
		return Voter{}, err
	}
	return Voter{Kind: kind, Hash: cred}, nil
}

func voteToCBOR(w *cbor.Writer, v Vote) error {
	switch v {
	case VoteNo, VoteYes, VoteAbstain:
		return w.WriteUint(uint64(v))
	default:
		return fmt.Errorf("certs: unknown vote %d: %w", v, cerrors.ErrInvalidArgument)
	}
}

func voteFromCBOR(r *cbor.Reader) (Vote, error) {
	v, err := r.ReadUint()
	if err != nil {
		return 0, err
	}
	if v > uint64(VoteAbstain) {
		return 0, fmt.Errorf("certs: vote value %d out of range: %w", v, cerrors.ErrInvalidArgument)
	}
	return Vote(v), nil
}

// VotingEntry pairs a governance action with the voter's ballot and an
// optional rationale anchor (opaque, matches the CDDL `anchor` type).
type VotingEntry struct {
	Action       GovernanceActionID
	Vote         Vote
	AnchorOpaque []byte // nil when no rationale anchor was supplied
}

// VoterVotes pairs a voter with their ordered ballots. Voter embeds a
// Credential (which embeds a hash.Hash byte slice) and so cannot serve as
// a Go map key; VotingProcedures instead keeps an explicit slice, which
// also gives ToCBOR a deterministic iteration order.
type VoterVotes struct {
	Voter   Voter
	Entries []VotingEntry
}

// VotingProcedures is the voter -> [] (action, vote) map carried in a
// transaction body's voting_procedures field.
type VotingProcedures struct {
	Votes []VoterVotes
}

// NewVotingProcedures builds an empty VotingProcedures ready for AddVote.
func NewVotingProcedures() VotingProcedures {
	return VotingProcedures{}
}

func (vp *VotingProcedures) voterEntries(voter Voter) *VoterVotes {
	for i := range vp.Votes {
		if vp.Votes[i].Voter.Equal(voter) {
			return &vp.Votes[i]
		}
	}
	vp.Votes = append(vp.Votes, VoterVotes{Voter: voter})
	return &vp.Votes[len(vp.Votes)-1]
}

// AddVote records voter's ballot on action, overwriting any prior vote by
// the same voter on the same action (a voter may only hold one live vote
// per action).
func (vp *VotingProcedures) AddVote(voter Voter, action GovernanceActionID, vote Vote, anchor []byte) {
	vv := vp.voterEntries(voter)
	for i, e := range vv.Entries {
		if e.Action.Equal(action) {
			vv.Entries[i].Vote = vote
			vv.Entries[i].AnchorOpaque = anchor
			return
		}
	}
	vv.Entries = append(vv.Entries, VotingEntry{Action: action, Vote: vote, AnchorOpaque: anchor})
}

func writeAnchor(w *cbor.Writer, anchor []byte) error {
	if anchor == nil {
		return w.WriteNull()
	}
	return w.WriteByteString(anchor)
}

func readAnchor(r *cbor.Reader) ([]byte, error) {
	state, err := r.PeekState()
	if err != nil {
		return nil, err
	}
	if state == cbor.StateNull {
		return nil, r.ReadNull()
	}
	return r.ReadByteString()
}

// ToCBOR emits vp as a map of voter -> (map of governance-action-id ->
// voting_procedure), the CDDL shape of `voting_procedures`.
func (vp VotingProcedures) ToCBOR(w *cbor.Writer) error {
	if err := w.StartMap(len(vp.Votes)); err != nil {
		return err
	}
	for _, vv := range vp.Votes {
		if err := vv.Voter.toCBOR(w); err != nil {
			return err
		}
		if err := w.StartMap(len(vv.Entries)); err != nil {
			return err
		}
		for _, e := range vv.Entries {
			if err := writePriorAction(w, &e.Action); err != nil {
				return err
			}
			if err := w.StartArray(2); err != nil {
				return err
			}
			if err := voteToCBOR(w, e.Vote); err != nil {
				return err
			}
			if err := writeAnchor(w, e.AnchorOpaque); err != nil {
				return err
			}
			if err := w.EndArray(); err != nil {
				return err
			}
		}
		if err := w.EndMap(); err != nil {
			return err
		}
	}
	return w.EndMap()
}

// VotingProceduresFromCBOR parses the encoding produced by ToCBOR.
func VotingProceduresFromCBOR(r *cbor.Reader) (VotingProcedures, error) {
	n, err := r.StartMap()
	if err != nil {
		return VotingProcedures{}, err
	}
	vp := NewVotingProcedures()
	for i := 0; i < n; i++ {
		voter, err := voterFromCBOR(r)
		if err != nil {
			return VotingProcedures{}, err
		}
		m, err := r.StartMap()
		if err != nil {
			return VotingProcedures{}, err
		}
		entries := make([]VotingEntry, 0, m)
		for j := 0; j < m; j++ {
			actionPtr, err := readPriorAction(r)
			if err != nil {
				return VotingProcedures{}, err
			}
			if actionPtr == nil {
				return VotingProcedures{}, fmt.Errorf("certs: voting procedure action id must not be null: %w", cerrors.ErrInvalidCBOR)
			}
			if _, err := r.StartArray(); err != nil {
				return VotingProcedures{}, err
			}
			vote, err := voteFromCBOR(r)
			if err != nil {
				return VotingProcedures{}, err
			}
			anchor, err := readAnchor(r)
			if err != nil {
				return VotingProcedures{}, err
			}
			if err := r.EndArray(); err != nil {
				return VotingProcedures{}, err
			}
			entries = append(entries, VotingEntry{Action: *actionPtr, Vote: vote, AnchorOpaque: anchor})
		}
		if err := r.EndMap(); err != nil {
			return VotingProcedures{}, err
		}
		vp.Votes = append(vp.Votes, VoterVotes{Voter: voter, Entries: entries})
	}
	if err := r.EndMap(); err != nil {
		return VotingProcedures{}, err
	}
	return vp, nil
}
