package provider

import (
	"context"
	"fmt"

	"github.com/synnergy-labs/cardano-go/address"
	"github.com/synnergy-labs/cardano-go/cerrors"
	"github.com/synnergy-labs/cardano-go/hash"
	"github.com/synnergy-labs/cardano-go/transaction"
)

// StaticProvider is a fixed, in-memory Provider over a caller-supplied
// UTxO set and protocol parameters, for exercising the builder and
// balancer without a live node.
type StaticProvider struct {
	Parameters ProtocolParameters
	UTxOs      []UTxO

	// ExecutionUnits, when set, is returned verbatim by EvaluateTransaction
	// instead of deriving a result from tx; nil means "no Plutus cost".
	ExecutionUnits []RedeemerExecutionUnits

	// Submitted records every transaction ID SubmitTransaction was called
	// with, in call order.
	Submitted []hash.Hash
}

// NewStaticProvider builds a StaticProvider over params and utxos.
func NewStaticProvider(params ProtocolParameters, utxos []UTxO) *StaticProvider {
	return &StaticProvider{Parameters: params, UTxOs: utxos}
}

// GetParameters implements Provider.
func (p *StaticProvider) GetParameters(ctx context.Context) (ProtocolParameters, error) {
	return p.Parameters, nil
}

// GetUTxOs implements Provider, returning every UTxO whose output address
// byte-equals addr.
func (p *StaticProvider) GetUTxOs(ctx context.Context, addr address.Address) ([]UTxO, error) {
	target, err := addr.ToBytes()
	if err != nil {
		return nil, err
	}
	var out []UTxO
	for _, u := range p.UTxOs {
		raw, err := u.Output.Address.ToBytes()
		if err != nil {
			return nil, err
		}
		if string(raw) == string(target) {
			out = append(out, u)
		}
	}
	return out, nil
}

// ResolveUnspentOutputs implements Provider.
func (p *StaticProvider) ResolveUnspentOutputs(ctx context.Context, inputs []transaction.Input) ([]UTxO, error) {
	out := make([]UTxO, 0, len(inputs))
	for _, in := range inputs {
		found := false
		for _, u := range p.UTxOs {
			if u.Input.Equal(in) {
				out = append(out, u)
				found = true
				break
			}
		}
		if !found {
			return nil, fmt.Errorf("provider: input %x#%d is not unspent: %w", in.TxID.Bytes(), in.Index, cerrors.ErrInvalidArgument)
		}
	}
	return out, nil
}

// EvaluateTransaction implements Provider, returning the caller-configured
// ExecutionUnits verbatim.
func (p *StaticProvider) EvaluateTransaction(ctx context.Context, tx transaction.Transaction, additionalUTxOs []UTxO) ([]RedeemerExecutionUnits, error) {
	return p.ExecutionUnits, nil
}

// SubmitTransaction implements Provider, recording tx's ID and returning
// it without any actual broadcast.
func (p *StaticProvider) SubmitTransaction(ctx context.Context, tx transaction.Transaction) (hash.Hash, error) {
	id, err := tx.ID()
	if err != nil {
		return hash.Hash{}, err
	}
	p.Submitted = append(p.Submitted, id)
	return id, nil
}
