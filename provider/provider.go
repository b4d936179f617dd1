// Package provider specifies the polymorphic blockchain query surface the
// transaction builder and balancer call through. It holds only the
// interface — concrete implementations (a node's local mempool, a
// remote indexer, a test double) are injected by the caller rather than
// implemented here.
package provider

import (
	"context"
	"math/big"

	"github.com/synnergy-labs/cardano-go/address"
	"github.com/synnergy-labs/cardano-go/hash"
	"github.com/synnergy-labs/cardano-go/transaction"
)

// ExecutionUnitPrices converts Plutus execution units into ADA, as exact
// rationals (the ledger's real prices, e.g. 577/10000 memory, are not
// representable in a float without rounding error creeping into fee
// calculations).
type ExecutionUnitPrices struct {
	Memory *big.Rat
	Steps  *big.Rat
}

// ProtocolParameters carries the subset of the node's live protocol
// parameters the builder and balancer need: fee coefficients, the min-ada
// constant, execution-unit pricing, and the cost models each Plutus
// language's scripts are evaluated against.
type ProtocolParameters struct {
	MinFeeCoefficient    uint64
	MinFeeConstant       uint64
	CoinsPerUTxOByte     uint64
	MaxTxSize            uint64
	MaxValueSize         uint64
	CollateralPercentage uint64
	MaxCollateralInputs  uint64
	ExecutionUnitPrices  ExecutionUnitPrices
	CostModels           transaction.CostModels
}

// UTxO pairs a spendable input with the output it references.
type UTxO struct {
	Input  transaction.Input
	Output transaction.Output
}

// RedeemerExecutionUnits is one entry of a transaction evaluator's
// response: the execution units a particular redeemer (identified by its
// tag and index, since the evaluator has not yet mutated the caller's
// copy) actually cost when run against the supplied UTxO set.
type RedeemerExecutionUnits struct {
	Tag     transaction.RedeemerTag
	Index   uint64
	ExUnits transaction.ExecutionUnits
}

// Provider is the blockchain query surface the builder and balancer call
// through: every call is treated as a blocking boundary from the core's
// perspective, whether or not the concrete implementation itself is
// asynchronous.
type Provider interface {
	// GetParameters fetches the chain's current protocol parameters.
	GetParameters(ctx context.Context) (ProtocolParameters, error)

	// GetUTxOs lists the unspent outputs currently controlled by addr.
	GetUTxOs(ctx context.Context, addr address.Address) ([]UTxO, error)

	// ResolveUnspentOutputs looks up the outputs referenced by inputs,
	// failing if any input no longer names an unspent output.
	ResolveUnspentOutputs(ctx context.Context, inputs []transaction.Input) ([]UTxO, error)

	// EvaluateTransaction runs tx's Plutus scripts against the chain's
	// state plus additionalUTxOs (for inputs the chain doesn't know about
	// yet) and returns the actual execution units each redeemer consumed.
	EvaluateTransaction(ctx context.Context, tx transaction.Transaction, additionalUTxOs []UTxO) ([]RedeemerExecutionUnits, error)

	// SubmitTransaction broadcasts tx and returns its transaction ID.
	SubmitTransaction(ctx context.Context, tx transaction.Transaction) (hash.Hash, error)
}
