package txbuilder

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/synnergy-labs/cardano-go/address"
	"github.com/synnergy-labs/cardano-go/hash"
	"github.com/synnergy-labs/cardano-go/provider"
	"github.com/synnergy-labs/cardano-go/transaction"
	"github.com/synnergy-labs/cardano-go/value"
)

func testBuilderHash(b byte, size hash.Size) hash.Hash {
	raw := make([]byte, size)
	for i := range raw {
		raw[i] = b
	}
	h, _ := hash.New(size, raw)
	return h
}

func testBuilderAddress(b byte) address.Address {
	cred, _ := address.NewKeyHashCredential(testBuilderHash(b, hash.Size28))
	return address.NewEnterprise(address.NetworkTestnet, cred)
}

func TestBuilderAllowsNoInputsForTheBalancerToFill(t *testing.T) {
	b := New(provider.ProtocolParameters{})
	tx, err := b.AddOutput(transaction.NewOutput(testBuilderAddress(0x01), value.NewCoin(1_000_000))).Build()
	require.NoError(t, err)
	require.Empty(t, tx.Body.Inputs)
}

func TestBuilderRequiresOutputs(t *testing.T) {
	b := New(provider.ProtocolParameters{})
	b.AddInput(provider.UTxO{Input: transaction.NewInput(testBuilderHash(0x10, hash.Size32), 0)})
	_, err := b.Build()
	require.Error(t, err)
}

func TestBuilderBuildsMinimalTransaction(t *testing.T) {
	addr := testBuilderAddress(0x02)
	utxo := provider.UTxO{
		Input:  transaction.NewInput(testBuilderHash(0x20, hash.Size32), 0),
		Output: transaction.NewOutput(addr, value.NewCoin(10_000_000)),
	}
	b := New(provider.ProtocolParameters{})
	tx, err := b.AddInput(utxo).
		AddOutput(transaction.NewOutput(testBuilderAddress(0x03), value.NewCoin(3_000_000))).
		Build()
	require.NoError(t, err)
	require.Len(t, tx.Body.Inputs, 1)
	require.Len(t, tx.Body.Outputs, 1)
	require.Equal(t, uint64(0), tx.Body.Fee)
}

func TestBuilderRequiredSignersProducePlaceholderWitnesses(t *testing.T) {
	utxo := provider.UTxO{
		Input:  transaction.NewInput(testBuilderHash(0x21, hash.Size32), 0),
		Output: transaction.NewOutput(testBuilderAddress(0x04), value.NewCoin(5_000_000)),
	}
	signers := []hash.Hash{testBuilderHash(0x30, hash.Size28), testBuilderHash(0x31, hash.Size28)}
	b := New(provider.ProtocolParameters{})
	tx, err := b.AddInput(utxo).
		AddOutput(transaction.NewOutput(testBuilderAddress(0x05), value.NewCoin(1_000_000))).
		SetRequiredSigners(signers).
		Build()
	require.NoError(t, err)
	require.Len(t, tx.WitnessSet.VKeyWitnesses, 2)
	for _, w := range tx.WitnessSet.VKeyWitnesses {
		require.Len(t, w.VKey, 32)
		require.Len(t, w.Signature, 64)
	}
}

func TestBuilderSetChangeAddress(t *testing.T) {
	addr := testBuilderAddress(0x06)
	b := New(provider.ProtocolParameters{})
	b.SetChangeAddress(addr)
	got, ok := b.ChangeAddress()
	require.True(t, ok)
	require.Equal(t, addr, got)
}

func TestBuilderChainedErrorShortCircuits(t *testing.T) {
	b := New(provider.ProtocolParameters{})
	_, err := b.Build()
	require.Error(t, err)
	b.AddOutput(transaction.NewOutput(testBuilderAddress(0x07), value.NewCoin(1)))
	_, err2 := b.Build()
	require.Error(t, err2)
}
