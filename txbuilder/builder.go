// Package txbuilder implements the mutable, chainable accumulator that
// assembles an unbalanced transaction: a chain of pointer-returning
// setters accumulating inputs, outputs, certificates, scripts, and
// witness material before a single Build call assembles them, the way
// a Cardano transaction has many more optional fields than a
// single-asset transfer.
package txbuilder

import (
	"fmt"

	"github.com/synnergy-labs/cardano-go/address"
	"github.com/synnergy-labs/cardano-go/cardanolog"
	"github.com/synnergy-labs/cardano-go/certs"
	"github.com/synnergy-labs/cardano-go/cerrors"
	"github.com/synnergy-labs/cardano-go/hash"
	"github.com/synnergy-labs/cardano-go/keyhandler"
	"github.com/synnergy-labs/cardano-go/plutusdata"
	"github.com/synnergy-labs/cardano-go/provider"
	"github.com/synnergy-labs/cardano-go/script"
	"github.com/synnergy-labs/cardano-go/transaction"
	"github.com/synnergy-labs/cardano-go/value"
)

// Builder accumulates a transaction's pieces and assembles them into an
// unbalanced transaction.Transaction on Build. It holds a borrowed copy
// of the protocol parameters it was constructed with; nothing here talks
// to a Provider directly — the balancer does that.
type Builder struct {
	params provider.ProtocolParameters

	inputs          []transaction.Input
	referenceInputs []transaction.Input
	collateral      []transaction.Input
	outputs         []transaction.Output

	certificates []certs.Certificate
	withdrawals  []transaction.Withdrawal
	mint         value.MultiAsset

	metadata      []transaction.MetadataEntry
	nativeScripts []script.NativeScript

	plutusV1Scripts [][]byte
	plutusV2Scripts [][]byte
	plutusV3Scripts [][]byte
	datums          []plutusdata.Data
	redeemers       []transaction.Redeemer

	requiredSigners []hash.Hash
	changeAddress   *address.Address

	validityStart *uint64
	ttl           *uint64

	votingProcedures   *certs.VotingProcedures
	proposalProcedures []certs.ProposalProcedure

	// err holds the first error any chained call or Build produced; later calls
	// become no-ops once set, and Build reports it.
	err error
}

// New starts a Builder whose params supply the cost models Build uses for
// the script-data hash.
func New(params provider.ProtocolParameters) *Builder {
	return &Builder{params: params}
}

func (b *Builder) fail(err error) *Builder {
	if b.err == nil {
		b.err = err
	}
	return b
}

// AddInput appends utxo's input to the transaction's spent inputs.
func (b *Builder) AddInput(utxo provider.UTxO) *Builder {
	if b.err != nil {
		return b
	}
	b.inputs = append(b.inputs, utxo.Input)
	return b
}

// AddOutput appends out to the transaction's outputs, in call order.
func (b *Builder) AddOutput(out transaction.Output) *Builder {
	if b.err != nil {
		return b
	}
	b.outputs = append(b.outputs, out)
	return b
}

// AddCertificate appends a certificate.
func (b *Builder) AddCertificate(c certs.Certificate) *Builder {
	if b.err != nil {
		return b
	}
	b.certificates = append(b.certificates, c)
	return b
}

// SetMint replaces the transaction's mint field. Passing it repeatedly
// overwrites the prior value, mirroring the ledger's single mint field
// per transaction.
func (b *Builder) SetMint(m value.MultiAsset) *Builder {
	if b.err != nil {
		return b
	}
	b.mint = m
	return b
}

// SetMetadata replaces the transaction's auxiliary metadata entries.
func (b *Builder) SetMetadata(entries []transaction.MetadataEntry) *Builder {
	if b.err != nil {
		return b
	}
	b.metadata = entries
	return b
}

// AddReferenceInput appends a read-only reference input.
func (b *Builder) AddReferenceInput(in transaction.Input) *Builder {
	if b.err != nil {
		return b
	}
	b.referenceInputs = append(b.referenceInputs, in)
	return b
}

// AddCollateral appends a collateral input, spent only if Plutus script
// validation fails.
func (b *Builder) AddCollateral(in transaction.Input) *Builder {
	if b.err != nil {
		return b
	}
	b.collateral = append(b.collateral, in)
	return b
}

// SetValidityStart sets the slot before which the transaction is invalid.
func (b *Builder) SetValidityStart(slot uint64) *Builder {
	if b.err != nil {
		return b
	}
	b.validityStart = &slot
	return b
}

// SetTTL sets the slot at or after which the transaction expires.
func (b *Builder) SetTTL(slot uint64) *Builder {
	if b.err != nil {
		return b
	}
	b.ttl = &slot
	return b
}

// AddWithdrawal appends a reward-account withdrawal.
func (b *Builder) AddWithdrawal(w transaction.Withdrawal) *Builder {
	if b.err != nil {
		return b
	}
	b.withdrawals = append(b.withdrawals, w)
	return b
}

// AddVote records voter's ballot on action.
func (b *Builder) AddVote(voter certs.Voter, action certs.GovernanceActionID, vote certs.Vote, anchor []byte) *Builder {
	if b.err != nil {
		return b
	}
	if b.votingProcedures == nil {
		vp := certs.NewVotingProcedures()
		b.votingProcedures = &vp
	}
	b.votingProcedures.AddVote(voter, action, vote, anchor)
	return b
}

// AddProposal appends a governance-action proposal.
func (b *Builder) AddProposal(p certs.ProposalProcedure) *Builder {
	if b.err != nil {
		return b
	}
	b.proposalProcedures = append(b.proposalProcedures, p)
	return b
}

// SetChangeAddress sets where the balancer sends leftover value.
func (b *Builder) SetChangeAddress(addr address.Address) *Builder {
	if b.err != nil {
		return b
	}
	b.changeAddress = &addr
	return b
}

// SetRequiredSigners declares which key hashes must counter-sign the
// transaction, driving both the body's required_signers field and the
// placeholder-witness count Build uses for fee estimation.
func (b *Builder) SetRequiredSigners(signers []hash.Hash) *Builder {
	if b.err != nil {
		return b
	}
	b.requiredSigners = signers
	return b
}

// AddNativeScript attaches a native script witness.
func (b *Builder) AddNativeScript(s script.NativeScript) *Builder {
	if b.err != nil {
		return b
	}
	b.nativeScripts = append(b.nativeScripts, s)
	return b
}

// AddPlutusV1Script attaches a raw Plutus V1 script witness.
func (b *Builder) AddPlutusV1Script(raw []byte) *Builder {
	if b.err != nil {
		return b
	}
	b.plutusV1Scripts = append(b.plutusV1Scripts, raw)
	return b
}

// AddPlutusV2Script attaches a raw Plutus V2 script witness.
func (b *Builder) AddPlutusV2Script(raw []byte) *Builder {
	if b.err != nil {
		return b
	}
	b.plutusV2Scripts = append(b.plutusV2Scripts, raw)
	return b
}

// AddPlutusV3Script attaches a raw Plutus V3 script witness.
func (b *Builder) AddPlutusV3Script(raw []byte) *Builder {
	if b.err != nil {
		return b
	}
	b.plutusV3Scripts = append(b.plutusV3Scripts, raw)
	return b
}

// AddDatum attaches a Plutus datum witness.
func (b *Builder) AddDatum(d plutusdata.Data) *Builder {
	if b.err != nil {
		return b
	}
	b.datums = append(b.datums, d)
	return b
}

// AddRedeemer attaches a redeemer. Its execution units are typically a
// placeholder until the balancer runs a transaction evaluator and
// recomputes them in place.
func (b *Builder) AddRedeemer(r transaction.Redeemer) *Builder {
	if b.err != nil {
		return b
	}
	b.redeemers = append(b.redeemers, r)
	return b
}

// placeholderWitnessSet builds a witness set with a deterministic
// placeholder signature for every required signer, via keyhandler's null
// handler, so that Build's resulting transaction's serialized size (and
// therefore the balancer's fee estimate) matches what real signing will
// later produce.
func (b *Builder) placeholderWitnessSet() transaction.WitnessSet {
	null := keyhandler.NewNullKeyHandler()
	paths := make([]keyhandler.DerivationPath, len(b.requiredSigners))
	pubKeys, _ := null.GetPublicKeys(paths)
	sigs, _ := null.Sign(hash.Hash{}, paths)

	ws := transaction.WitnessSet{
		NativeScripts:   b.nativeScripts,
		PlutusV1Scripts: b.plutusV1Scripts,
		PlutusV2Scripts: b.plutusV2Scripts,
		PlutusV3Scripts: b.plutusV3Scripts,
		PlutusData:      b.datums,
		Redeemers:       b.redeemers,
	}
	for i := range b.requiredSigners {
		ws.VKeyWitnesses = append(ws.VKeyWitnesses, transaction.VKeyWitness{
			VKey:      pubKeys[i],
			Signature: sigs[i],
		})
	}
	return ws
}

// Build assembles the accumulated pieces into an unbalanced transaction:
// no coin selection, no fee, no change output, and (if any are declared)
// required-signer-count-sized placeholder witnesses standing in for real
// signatures so the balancer's size-based fee estimate is accurate.
func (b *Builder) Build() (transaction.Transaction, error) {
	if b.err != nil {
		return transaction.Transaction{}, b.err
	}
	if len(b.outputs) == 0 {
		return transaction.Transaction{}, b.fail(fmt.Errorf("txbuilder: transaction has no outputs: %w", cerrors.ErrInvalidArgument)).err
	}

	body := transaction.NewBody(b.inputs, b.outputs, 0)
	body.TTL = b.ttl
	body.ValidityIntervalStart = b.validityStart
	body.Certificates = b.certificates
	body.Withdrawals = b.withdrawals
	body.Mint = b.mint
	body.CollateralInputs = b.collateral
	body.RequiredSigners = b.requiredSigners
	body.ReferenceInputs = b.referenceInputs
	body.VotingProcedures = b.votingProcedures
	body.ProposalProcedures = b.proposalProcedures

	witnesses := b.placeholderWitnessSet()

	if len(b.redeemers) > 0 || len(b.datums) > 0 {
		sdh, err := transaction.ComputeScriptDataHash(b.redeemers, b.datums, b.params.CostModels)
		if err != nil {
			return transaction.Transaction{}, err
		}
		body.ScriptDataHash = &sdh
	}

	tx := transaction.NewTransaction(body, witnesses)

	if len(b.metadata) > 0 {
		aux := &transaction.AuxiliaryData{Metadata: b.metadata, NativeScripts: b.nativeScripts}
		auxHash, err := aux.Hash()
		if err != nil {
			return transaction.Transaction{}, err
		}
		tx.AuxiliaryData = aux
		tx.Body.AuxiliaryDataHash = &auxHash
	}

	cardanolog.Logger().Debugf("txbuilder: built unbalanced transaction with %d input(s), %d output(s)", len(tx.Body.Inputs), len(tx.Body.Outputs))

	return tx, nil
}

// ChangeAddress reports the change address set via SetChangeAddress, and
// whether one was set at all; the balancer needs both to decide where to
// send leftover value.
func (b *Builder) ChangeAddress() (address.Address, bool) {
	if b.changeAddress == nil {
		return address.Address{}, false
	}
	return *b.changeAddress, true
}

// RequiredSignerCount reports how many placeholder (and, later, real)
// VKey witnesses Build attaches.
func (b *Builder) RequiredSignerCount() int {
	return len(b.requiredSigners)
}
