package balancer

import (
	"context"
	"math/big"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/synnergy-labs/cardano-go/address"
	"github.com/synnergy-labs/cardano-go/hash"
	"github.com/synnergy-labs/cardano-go/provider"
	"github.com/synnergy-labs/cardano-go/transaction"
	"github.com/synnergy-labs/cardano-go/txbuilder"
	"github.com/synnergy-labs/cardano-go/value"
)

func testBalanceHash(b byte, size hash.Size) hash.Hash {
	raw := make([]byte, size)
	for i := range raw {
		raw[i] = b
	}
	h, _ := hash.New(size, raw)
	return h
}

func testBalanceAddress(b byte) address.Address {
	cred, _ := address.NewKeyHashCredential(testBalanceHash(b, hash.Size28))
	return address.NewEnterprise(address.NetworkTestnet, cred)
}

func testBalanceBaseAddress(b byte) address.Address {
	cred, _ := address.NewKeyHashCredential(testBalanceHash(b, hash.Size28))
	return address.NewBase(address.NetworkTestnet, cred, cred)
}

type noopEvaluator struct{}

func (noopEvaluator) EvaluateTransaction(ctx context.Context, tx transaction.Transaction, additionalUTxOs []provider.UTxO) ([]provider.RedeemerExecutionUnits, error) {
	return nil, nil
}

func scenarioFiveParams() provider.ProtocolParameters {
	return provider.ProtocolParameters{
		MinFeeCoefficient: 44,
		MinFeeConstant:    155381,
		CoinsPerUTxOByte:  4310,
		ExecutionUnitPrices: provider.ExecutionUnitPrices{
			Memory: big.NewRat(577, 10000),
			Steps:  big.NewRat(721, 10000000),
		},
	}
}

// TestBalancerEndToEndScenario exercises the literal end-to-end scenario
// pinned in the test suite: a single 10-ADA UTxO, a 3-ADA target output,
// base addresses on both sides, and a fee expected between 168000 and
// 180000 lovelace.
func TestBalancerEndToEndScenario(t *testing.T) {
	addrA := testBalanceBaseAddress(0x01)
	addrB := testBalanceBaseAddress(0x02)
	params := scenarioFiveParams()

	available := []provider.UTxO{
		{
			Input:  transaction.NewInput(testBalanceHash(0x10, hash.Size32), 0),
			Output: transaction.NewOutput(addrA, value.NewCoin(10_000_000)),
		},
	}

	unbalanced, err := txbuilder.New(params).
		AddOutput(transaction.NewOutput(addrB, value.NewCoin(3_000_000))).
		Build()
	require.NoError(t, err)

	balanced, err := Balance(
		context.Background(),
		unbalanced,
		1,
		params,
		nil,
		available,
		NewLargeFirstCoinSelector(),
		addrA,
		noopEvaluator{},
	)
	require.NoError(t, err)

	require.Len(t, balanced.Body.Outputs, 2)
	require.Equal(t, uint64(3_000_000), balanced.Body.Outputs[0].Value.Coin)

	fee := balanced.Body.Fee
	require.GreaterOrEqual(t, fee, uint64(168_000))
	require.LessOrEqual(t, fee, uint64(180_000))

	require.Empty(t, balanced.Body.Mint)
	require.Empty(t, balanced.Body.Certificates)

	changeCoin := balanced.Body.Outputs[1].Value.Coin
	require.Equal(t, uint64(10_000_000)-3_000_000-fee, changeCoin)

	ok, err := IsBalanced(balanced, available, params)
	require.NoError(t, err)
	require.True(t, ok)
}

func TestBalancerBurnsDustChangeIntoFee(t *testing.T) {
	addrA := testBalanceAddress(0x03)
	addrB := testBalanceAddress(0x04)
	params := scenarioFiveParams()

	available := []provider.UTxO{
		{
			Input:  transaction.NewInput(testBalanceHash(0x11, hash.Size32), 0),
			Output: transaction.NewOutput(addrA, value.NewCoin(3_200_000)),
		},
	}

	unbalanced, err := txbuilder.New(params).
		AddOutput(transaction.NewOutput(addrB, value.NewCoin(3_000_000))).
		Build()
	require.NoError(t, err)

	balanced, err := Balance(
		context.Background(),
		unbalanced,
		1,
		params,
		nil,
		available,
		NewLargeFirstCoinSelector(),
		addrA,
		noopEvaluator{},
	)
	require.NoError(t, err)
	require.Len(t, balanced.Body.Outputs, 1, "dust change must be burned into the fee rather than kept as a sub-min-ada output")

	ok, err := IsBalanced(balanced, available, params)
	require.NoError(t, err)
	require.True(t, ok)
}

func TestBalancerReportsInsufficientFunds(t *testing.T) {
	addrA := testBalanceAddress(0x05)
	addrB := testBalanceAddress(0x06)
	params := scenarioFiveParams()

	available := []provider.UTxO{
		{
			Input:  transaction.NewInput(testBalanceHash(0x12, hash.Size32), 0),
			Output: transaction.NewOutput(addrA, value.NewCoin(1_000_000)),
		},
	}

	unbalanced, err := txbuilder.New(params).
		AddOutput(transaction.NewOutput(addrB, value.NewCoin(3_000_000))).
		Build()
	require.NoError(t, err)

	_, err = Balance(
		context.Background(),
		unbalanced,
		1,
		params,
		nil,
		available,
		NewLargeFirstCoinSelector(),
		addrA,
		noopEvaluator{},
	)
	require.Error(t, err)
}
