package transaction

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/synnergy-labs/cardano-go/address"
	"github.com/synnergy-labs/cardano-go/cbor"
	"github.com/synnergy-labs/cardano-go/certs"
	"github.com/synnergy-labs/cardano-go/hash"
	"github.com/synnergy-labs/cardano-go/value"
)

func keyHashCredLocal(t *testing.T, b byte) address.Credential {
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

func valueCoin(t *testing.T, coin uint64) value.Value {
	t.Helper()
	return value.NewCoin(coin)
}

func bodyRoundTrip(t *testing.T, b Body) Body {
	t.Helper()
	w := cbor.NewWriter()
	require.NoError(t, b.ToCBOR(w))
	r := cbor.NewReader(w.Bytes())
	back, err := BodyFromCBOR(r)
	require.NoError(t, err)
	require.True(t, r.Finished())
	return back
}

func TestBodyRoundTripMandatoryFieldsOnly(t *testing.T) {
	in := NewInput(mustTxHash(t, 0x01), 0)
	out := NewOutput(testAddress(t), valueCoin(t, 1_500_000))
	b := NewBody([]Input{in}, []Output{out}, 170_000)

	back := bodyRoundTrip(t, b)
	require.Len(t, back.Inputs, 1)
	require.Len(t, back.Outputs, 1)
	require.Equal(t, uint64(170_000), back.Fee)
	require.Nil(t, back.TTL)
}

func TestBodyRoundTripAllOptionalFields(t *testing.T) {
	ttl := uint64(1000)
	validityStart := uint64(500)
	totalCollateral := uint64(2_000_000)
	currentTreasury := uint64(10_000_000_000)
	donation := uint64(1_000_000)
	nid := NetworkMainnet

	scriptHash := mustHashOfSize(t, hash.Size32, 0x07)
	auxHash := mustHashOfSize(t, hash.Size32, 0x08)
	signer := mustHashOfSize(t, hash.Size28, 0x09)

	cred := keyHashCredLocal(t, 0x0A)

	b := Body{
		Inputs:  []Input{NewInput(mustTxHash(t, 0x01), 0)},
		Outputs: []Output{NewOutput(testAddress(t), valueCoin(t, 5_000_000))},
		Fee:     200_000,

		TTL:                   &ttl,
		Certificates:          []certs.Certificate{certs.NewStakeRegistration(cred)},
		Withdrawals:           []Withdrawal{{RewardAddress: make([]byte, 29), Coin: 1_000}},
		AuxiliaryDataHash:     &auxHash,
		ValidityIntervalStart: &validityStart,
		ScriptDataHash:        &scriptHash,
		CollateralInputs:      []Input{NewInput(mustTxHash(t, 0x02), 1)},
		RequiredSigners:       []hash.Hash{signer},
		NetworkID:             &nid,
		TotalCollateral:       &totalCollateral,
		ReferenceInputs:       []Input{NewInput(mustTxHash(t, 0x03), 2)},
		CurrentTreasuryValue:  &currentTreasury,
		Donation:              &donation,
	}

	back := bodyRoundTrip(t, b)
	require.Equal(t, ttl, *back.TTL)
	require.Len(t, back.Certificates, 1)
	require.Len(t, back.Withdrawals, 1)
	require.True(t, auxHash.Equal(*back.AuxiliaryDataHash))
	require.Equal(t, validityStart, *back.ValidityIntervalStart)
	require.True(t, scriptHash.Equal(*back.ScriptDataHash))
	require.Len(t, back.CollateralInputs, 1)
	require.Len(t, back.RequiredSigners, 1)
	require.Equal(t, NetworkMainnet, *back.NetworkID)
	require.Equal(t, totalCollateral, *back.TotalCollateral)
	require.Len(t, back.ReferenceInputs, 1)
	require.Equal(t, currentTreasury, *back.CurrentTreasuryValue)
	require.Equal(t, donation, *back.Donation)
}

func TestBodyToCBORReemitsCachedBytesVerbatim(t *testing.T) {
	in := NewInput(mustTxHash(t, 0x01), 0)
	out := NewOutput(testAddress(t), valueCoin(t, 1_500_000))
	b := NewBody([]Input{in}, []Output{out}, 170_000)

	w1 := cbor.NewWriter()
	require.NoError(t, b.ToCBOR(w1))
	original := w1.Bytes()

	r := cbor.NewReader(original)
	parsed, err := BodyFromCBOR(r)
	require.NoError(t, err)

	w2 := cbor.NewWriter()
	require.NoError(t, parsed.ToCBOR(w2))
	require.Equal(t, original, w2.Bytes())
}

func TestBodyHashIsStableAcrossReencoding(t *testing.T) {
	in := NewInput(mustTxHash(t, 0x01), 0)
	out := NewOutput(testAddress(t), valueCoin(t, 1_500_000))
	b := NewBody([]Input{in}, []Output{out}, 170_000)

	h1, err := b.Hash()
	require.NoError(t, err)

	w := cbor.NewWriter()
	require.NoError(t, b.ToCBOR(w))
	r := cbor.NewReader(w.Bytes())
	parsed, err := BodyFromCBOR(r)
	require.NoError(t, err)

	h2, err := parsed.Hash()
	require.NoError(t, err)
	require.True(t, h1.Equal(h2))
}

func mustHashOfSize(t *testing.T, size hash.Size, b byte) hash.Hash {
	t.Helper()
	raw := make([]byte, size)
	for i := range raw {
		raw[i] = b
	}
	h, err := hash.New(size, raw)
	require.NoError(t, err)
	return h
}
