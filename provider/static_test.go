package provider

import (
	"context"
	"math/big"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/synnergy-labs/cardano-go/address"
	"github.com/synnergy-labs/cardano-go/hash"
	"github.com/synnergy-labs/cardano-go/transaction"
	"github.com/synnergy-labs/cardano-go/value"
)

func testProviderAddress(t *testing.T, b byte) address.Address {
	t.Helper()
	raw := make([]byte, 28)
	for i := range raw {
		raw[i] = b
	}
	h, err := hash.New(hash.Size28, raw)
	require.NoError(t, err)
	cred, err := address.NewKeyHashCredential(h)
	require.NoError(t, err)
	return address.NewEnterprise(address.NetworkTestnet, cred)
}

func testTxID(t *testing.T, b byte) hash.Hash {
	t.Helper()
	raw := make([]byte, 32)
	for i := range raw {
		raw[i] = b
	}
	h, err := hash.New(hash.Size32, raw)
	require.NoError(t, err)
	return h
}

func TestStaticProviderGetParameters(t *testing.T) {
	params := ProtocolParameters{
		MinFeeCoefficient: 44,
		MinFeeConstant:    155381,
		CoinsPerUTxOByte:  4310,
		ExecutionUnitPrices: ExecutionUnitPrices{
			Memory: big.NewRat(577, 10000),
			Steps:  big.NewRat(721, 10000000),
		},
	}
	p := NewStaticProvider(params, nil)
	got, err := p.GetParameters(context.Background())
	require.NoError(t, err)
	require.Equal(t, params, got)
}

func TestStaticProviderGetUTxOsFiltersByAddress(t *testing.T) {
	addrA := testProviderAddress(t, 0x01)
	addrB := testProviderAddress(t, 0x02)
	input := transaction.NewInput(testTxID(t, 0x10), 0)

	utxos := []UTxO{
		{Input: input, Output: transaction.NewOutput(addrA, value.NewCoin(1_000_000))},
		{Input: transaction.NewInput(testTxID(t, 0x11), 1), Output: transaction.NewOutput(addrB, value.NewCoin(2_000_000))},
	}
	p := NewStaticProvider(ProtocolParameters{}, utxos)

	got, err := p.GetUTxOs(context.Background(), addrA)
	require.NoError(t, err)
	require.Len(t, got, 1)
	require.Equal(t, uint64(1_000_000), got[0].Output.Value.Coin)
}

func TestStaticProviderResolveUnspentOutputsRejectsUnknownInput(t *testing.T) {
	p := NewStaticProvider(ProtocolParameters{}, nil)
	_, err := p.ResolveUnspentOutputs(context.Background(), []transaction.Input{transaction.NewInput(testTxID(t, 0x01), 0)})
	require.Error(t, err)
}

func TestStaticProviderResolveUnspentOutputsFindsKnownInput(t *testing.T) {
	addr := testProviderAddress(t, 0x03)
	input := transaction.NewInput(testTxID(t, 0x20), 2)
	utxos := []UTxO{{Input: input, Output: transaction.NewOutput(addr, value.NewCoin(500_000))}}
	p := NewStaticProvider(ProtocolParameters{}, utxos)

	got, err := p.ResolveUnspentOutputs(context.Background(), []transaction.Input{input})
	require.NoError(t, err)
	require.Len(t, got, 1)
	require.Equal(t, uint64(500_000), got[0].Output.Value.Coin)
}

func TestStaticProviderSubmitTransactionRecordsID(t *testing.T) {
	addr := testProviderAddress(t, 0x04)
	body := transaction.NewBody(
		[]transaction.Input{transaction.NewInput(testTxID(t, 0x30), 0)},
		[]transaction.Output{transaction.NewOutput(addr, value.NewCoin(1_000_000))},
		170_000,
	)
	tx := transaction.NewTransaction(body, transaction.WitnessSet{})
	p := NewStaticProvider(ProtocolParameters{}, nil)

	id, err := p.SubmitTransaction(context.Background(), tx)
	require.NoError(t, err)
	require.Len(t, p.Submitted, 1)
	require.True(t, p.Submitted[0].Equal(id))
}

func TestStaticProviderEvaluateTransactionReturnsConfiguredUnits(t *testing.T) {
	units := []RedeemerExecutionUnits{{Tag: transaction.RedeemerSpend, Index: 0, ExUnits: transaction.ExecutionUnits{Memory: 100, Steps: 200}}}
	p := NewStaticProvider(ProtocolParameters{}, nil)
	p.ExecutionUnits = units

	got, err := p.EvaluateTransaction(context.Background(), transaction.Transaction{}, nil)
	require.NoError(t, err)
	require.Equal(t, units, got)
}
