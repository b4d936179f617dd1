package certs

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/synnergy-labs/cardano-go/address"
	"github.com/synnergy-labs/cardano-go/cbor"
	"github.com/synnergy-labs/cardano-go/hash"
)

func keyHashCred(t *testing.T, b byte) address.Credential {
	t.Helper()
	raw := make([]byte, 28)
	for i := range raw {
		raw[i] = b
	}
	h, err := hash.New(hash.Size28, raw)
	require.NoError(t, err)
	cred, err := address.NewKeyHashCredential(h)
	require.NoError(t, err)
	return cred
}

func poolHash(t *testing.T, b byte) hash.Hash {
	t.Helper()
	raw := make([]byte, 28)
	for i := range raw {
		raw[i] = b
	}
	h, err := hash.New(hash.Size28, raw)
	require.NoError(t, err)
	return h
}

func certRoundTrip(t *testing.T, c Certificate) Certificate {
	t.Helper()
	w := cbor.NewWriter()
	require.NoError(t, c.ToCBOR(w))
	r := cbor.NewReader(w.Bytes())
	back, err := FromCBOR(r)
	require.NoError(t, err)
	require.True(t, r.Finished())
	return back
}

func TestStakeRegistrationRoundTripNoDeposit(t *testing.T) {
	cred := keyHashCred(t, 0x01)
	c := NewStakeRegistration(cred)
	back := certRoundTrip(t, c)
	require.Equal(t, KindStakeRegistration, back.Kind())
	require.True(t, cred.Equal(back.StakeCredential()))
	require.False(t, back.PostsDeposit())
}

func TestStakeDeregistrationRoundTrip(t *testing.T) {
	cred := keyHashCred(t, 0x02)
	back := certRoundTrip(t, NewStakeDeregistration(cred))
	require.Equal(t, KindStakeDeregistration, back.Kind())
}

func TestConwayRegistrationRoundTripWithDeposit(t *testing.T) {
	cred := keyHashCred(t, 0x03)
	back := certRoundTrip(t, NewRegistration(cred, 2_000_000))
	require.Equal(t, KindRegistration, back.Kind())
	require.Equal(t, uint64(2_000_000), back.Deposit())
	require.True(t, back.PostsDeposit())
}

func TestConwayDeregistrationRoundTripRefundsDeposit(t *testing.T) {
	cred := keyHashCred(t, 0x04)
	back := certRoundTrip(t, NewDeregistration(cred, 2_000_000))
	require.Equal(t, KindDeregistration, back.Kind())
	require.True(t, back.RefundsDeposit())
}

func TestStakeDelegationRoundTrip(t *testing.T) {
	cred := keyHashCred(t, 0x05)
	pool := poolHash(t, 0xAA)
	back := certRoundTrip(t, NewStakeDelegation(cred, pool))
	require.Equal(t, KindStakeDelegation, back.Kind())
	require.True(t, pool.Equal(back.PoolKeyHash()))
}

func TestPoolRetirementRoundTrip(t *testing.T) {
	pool := poolHash(t, 0xBB)
	back := certRoundTrip(t, NewPoolRetirement(pool, 450))
	require.Equal(t, KindPoolRetirement, back.Kind())
	require.Equal(t, uint64(450), back.Epoch())
}

func TestVoteDelegationRoundTripAlwaysAbstain(t *testing.T) {
	cred := keyHashCred(t, 0x06)
	back := certRoundTrip(t, NewVoteDelegation(cred, DRep{Kind: DRepAlwaysAbstain}))
	require.Equal(t, KindVoteDelegation, back.Kind())
	require.Equal(t, DRepAlwaysAbstain, back.DRep().Kind)
}

func TestVoteDelegationRoundTripKeyHashDRep(t *testing.T) {
	cred := keyHashCred(t, 0x07)
	drepHash := poolHash(t, 0xCC)
	back := certRoundTrip(t, NewVoteDelegation(cred, DRep{Kind: DRepKeyHash, Hash: drepHash}))
	require.Equal(t, DRepKeyHash, back.DRep().Kind)
	require.True(t, drepHash.Equal(back.DRep().Hash))
}

func TestDRepRegistrationAndDeregistrationRoundTrip(t *testing.T) {
	cred := keyHashCred(t, 0x08)
	reg := certRoundTrip(t, NewDRepRegistration(cred, 500_000_000))
	require.Equal(t, KindDRepRegistration, reg.Kind())
	require.True(t, reg.PostsDeposit())

	dereg := certRoundTrip(t, NewDRepDeregistration(cred, 500_000_000))
	require.Equal(t, KindDRepDeregistration, dereg.Kind())
	require.True(t, dereg.RefundsDeposit())
}

func govActionRoundTrip(t *testing.T, a GovernanceAction) GovernanceAction {
	t.Helper()
	w := cbor.NewWriter()
	require.NoError(t, a.ToCBOR(w))
	r := cbor.NewReader(w.Bytes())
	back, err := GovernanceActionFromCBOR(r)
	require.NoError(t, err)
	require.True(t, r.Finished())
	return back
}

func TestGovernanceActionInfoRoundTrip(t *testing.T) {
	back := govActionRoundTrip(t, GovernanceAction{Kind: ActionInfo})
	require.Equal(t, ActionInfo, back.Kind)
}

func TestGovernanceActionNoConfidenceRoundTripWithPrior(t *testing.T) {
	txID := poolHash(t, 0x11)
	prior := &GovernanceActionID{TxID: mustHash32(t, 0x11), Index: 2}
	_ = txID
	back := govActionRoundTrip(t, GovernanceAction{Kind: ActionNoConfidence, PriorAction: prior})
	require.Equal(t, ActionNoConfidence, back.Kind)
	require.NotNil(t, back.PriorAction)
	require.Equal(t, uint64(2), back.PriorAction.Index)
}

func mustHash32(t *testing.T, b byte) hash.Hash {
	t.Helper()
	raw := make([]byte, 32)
	for i := range raw {
		raw[i] = b
	}
	h, err := hash.New(hash.Size32, raw)
	require.NoError(t, err)
	return h
}

func TestGovernanceActionHardForkInitiationRoundTrip(t *testing.T) {
	back := govActionRoundTrip(t, GovernanceAction{Kind: ActionHardForkInitiation, NewMajorProtocolVer: 10})
	require.Equal(t, ActionHardForkInitiation, back.Kind)
	require.Equal(t, uint64(10), back.NewMajorProtocolVer)
}

func TestGovernanceActionTreasuryWithdrawalsRoundTrip(t *testing.T) {
	rewardAcct := poolHash(t, 0x22)
	a := GovernanceAction{
		Kind:        ActionTreasuryWithdrawals,
		Withdrawals: []TreasuryWithdrawal{{RewardAccountKeyHash: rewardAcct, Coin: 1_000_000}},
	}
	back := govActionRoundTrip(t, a)
	require.Equal(t, ActionTreasuryWithdrawals, back.Kind)
	require.Len(t, back.Withdrawals, 1)
	require.Equal(t, uint64(1_000_000), back.Withdrawals[0].Coin)
}

func TestGovernanceActionNewCommitteeRoundTrip(t *testing.T) {
	added := poolHash(t, 0x33)
	removed := poolHash(t, 0x44)
	a := GovernanceAction{
		Kind:           ActionNewCommittee,
		NewMembers:     []hash.Hash{added},
		RemovedMembers: []hash.Hash{removed},
	}
	back := govActionRoundTrip(t, a)
	require.Len(t, back.NewMembers, 1)
	require.Len(t, back.RemovedMembers, 1)
	require.True(t, added.Equal(back.NewMembers[0]))
}

func TestGovernanceActionNewConstitutionRoundTrip(t *testing.T) {
	a := GovernanceAction{Kind: ActionNewConstitution, NewConstitutionAnchor: []byte("anchor-bytes")}
	back := govActionRoundTrip(t, a)
	require.Equal(t, []byte("anchor-bytes"), back.NewConstitutionAnchor)
}

// parameterChangeUpdatePayload builds a small but genuinely canonical
// CBOR map to stand in for a protocol_param_update, the shape
// GovernanceAction.ParameterChangeUpdate carries opaquely.
func parameterChangeUpdatePayload(t *testing.T) []byte {
	t.Helper()
	w := cbor.NewWriter()
	require.NoError(t, w.StartMap(1))
	require.NoError(t, w.WriteUint(0)) // min_fee_a
	require.NoError(t, w.WriteUint(500))
	require.NoError(t, w.EndMap())
	return w.Bytes()
}

func TestGovernanceActionParameterChangeRoundTripNoPriorNoGuardrail(t *testing.T) {
	payload := parameterChangeUpdatePayload(t)
	a := GovernanceAction{Kind: ActionParameterChange, ParameterChangeUpdate: payload}
	back := govActionRoundTrip(t, a)
	require.Equal(t, ActionParameterChange, back.Kind)
	require.Nil(t, back.PriorAction)
	require.Nil(t, back.ParameterChangeGuardrailScriptHash)
	require.Equal(t, payload, back.ParameterChangeUpdate)
}

func TestGovernanceActionParameterChangeRoundTripWithPriorAndGuardrail(t *testing.T) {
	payload := parameterChangeUpdatePayload(t)
	prior := &GovernanceActionID{TxID: mustHash32(t, 0x99), Index: 3}
	guardrail := poolHash(t, 0xDD)
	a := GovernanceAction{
		Kind:                               ActionParameterChange,
		PriorAction:                        prior,
		ParameterChangeUpdate:              payload,
		ParameterChangeGuardrailScriptHash: &guardrail,
	}
	back := govActionRoundTrip(t, a)
	require.Equal(t, ActionParameterChange, back.Kind)
	require.NotNil(t, back.PriorAction)
	require.Equal(t, uint64(3), back.PriorAction.Index)
	require.Equal(t, payload, back.ParameterChangeUpdate)
	require.NotNil(t, back.ParameterChangeGuardrailScriptHash)
	require.True(t, guardrail.Equal(*back.ParameterChangeGuardrailScriptHash))
}

func proposalRoundTrip(t *testing.T, p ProposalProcedure) ProposalProcedure {
	t.Helper()
	w := cbor.NewWriter()
	require.NoError(t, p.ToCBOR(w))
	r := cbor.NewReader(w.Bytes())
	back, err := ProposalProcedureFromCBOR(r)
	require.NoError(t, err)
	require.True(t, r.Finished())
	return back
}

func TestProposalProcedureRoundTrip(t *testing.T) {
	rewardAcct := poolHash(t, 0xEE).Bytes()
	p := ProposalProcedure{
		Deposit:              500_000_000_000,
		RewardAccountKeyHash: rewardAcct,
		Action:               GovernanceAction{Kind: ActionInfo},
		AnchorOpaque:         []byte("anchor-url-and-hash"),
	}
	back := proposalRoundTrip(t, p)
	require.Equal(t, uint64(500_000_000_000), back.Deposit)
	require.Equal(t, rewardAcct, back.RewardAccountKeyHash)
	require.Equal(t, ActionInfo, back.Action.Kind)
	require.Equal(t, p.AnchorOpaque, back.AnchorOpaque)
}

func TestProposalProcedureWithParameterChangeActionRoundTrip(t *testing.T) {
	payload := parameterChangeUpdatePayload(t)
	rewardAcct := poolHash(t, 0xFF).Bytes()
	p := ProposalProcedure{
		Deposit:              500_000_000_000,
		RewardAccountKeyHash: rewardAcct,
		Action: GovernanceAction{
			Kind:                  ActionParameterChange,
			ParameterChangeUpdate: payload,
		},
		AnchorOpaque: []byte("anchor-url-and-hash"),
	}
	back := proposalRoundTrip(t, p)
	require.Equal(t, ActionParameterChange, back.Action.Kind)
	require.Equal(t, payload, back.Action.ParameterChangeUpdate)
	require.Nil(t, back.Action.ParameterChangeGuardrailScriptHash)
}

func TestWriteAndReadProposalProceduresList(t *testing.T) {
	rewardAcct := poolHash(t, 0x01).Bytes()
	procedures := []ProposalProcedure{
		{
			Deposit:              1_000_000,
			RewardAccountKeyHash: rewardAcct,
			Action:               GovernanceAction{Kind: ActionInfo},
			AnchorOpaque:         []byte("a1"),
		},
		{
			Deposit:              2_000_000,
			RewardAccountKeyHash: rewardAcct,
			Action:               GovernanceAction{Kind: ActionNoConfidence},
			AnchorOpaque:         []byte("a2"),
		},
	}

	w := cbor.NewWriter()
	require.NoError(t, WriteProposalProcedures(w, procedures))
	r := cbor.NewReader(w.Bytes())
	back, err := ProposalProceduresFromCBOR(r)
	require.NoError(t, err)
	require.True(t, r.Finished())

	require.Len(t, back, 2)
	require.Equal(t, uint64(1_000_000), back[0].Deposit)
	require.Equal(t, ActionNoConfidence, back[1].Action.Kind)
}

func TestVotingProceduresRoundTrip(t *testing.T) {
	voter := Voter{Kind: VoterDRepKeyHash, Hash: keyHashCred(t, 0x55)}
	action := GovernanceActionID{TxID: mustHash32(t, 0x66), Index: 0}

	vp := NewVotingProcedures()
	vp.AddVote(voter, action, VoteYes, nil)

	w := cbor.NewWriter()
	require.NoError(t, vp.ToCBOR(w))
	r := cbor.NewReader(w.Bytes())
	back, err := VotingProceduresFromCBOR(r)
	require.NoError(t, err)
	require.True(t, r.Finished())

	require.Len(t, back.Votes, 1)
	require.True(t, back.Votes[0].Voter.Equal(voter))
	require.Len(t, back.Votes[0].Entries, 1)
	require.Equal(t, VoteYes, back.Votes[0].Entries[0].Vote)
	require.True(t, back.Votes[0].Entries[0].Action.Equal(action))
}

func TestVotingProceduresAddVoteOverwritesSameAction(t *testing.T) {
	voter := Voter{Kind: VoterStakingPoolKeyHash, Hash: keyHashCred(t, 0x77)}
	action := GovernanceActionID{TxID: mustHash32(t, 0x88), Index: 1}

	vp := NewVotingProcedures()
	vp.AddVote(voter, action, VoteNo, nil)
	vp.AddVote(voter, action, VoteYes, []byte("changed my mind"))

	require.Len(t, vp.Votes, 1)
	require.Len(t, vp.Votes[0].Entries, 1)
	require.Equal(t, VoteYes, vp.Votes[0].Entries[0].Vote)
}
