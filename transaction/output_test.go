package transaction

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/synnergy-labs/cardano-go/address"
	"github.com/synnergy-labs/cardano-go/cbor"
	"github.com/synnergy-labs/cardano-go/hash"
	"github.com/synnergy-labs/cardano-go/value"
)

func testAddress(t *testing.T) address.Address {
	t.Helper()
	raw := make([]byte, 28)
	for i := range raw {
		raw[i] = 0x09
	}
	h, err := hash.New(hash.Size28, raw)
	require.NoError(t, err)
	cred, err := address.NewKeyHashCredential(h)
	require.NoError(t, err)
	return address.NewEnterprise(address.NetworkTestnet, cred)
}

func outputRoundTrip(t *testing.T, o Output) Output {
	t.Helper()
	w := cbor.NewWriter()
	require.NoError(t, o.ToCBOR(w))
	r := cbor.NewReader(w.Bytes())
	back, err := OutputFromCBOR(r)
	require.NoError(t, err)
	require.True(t, r.Finished())
	return back
}

func TestOutputRoundTripPlain(t *testing.T) {
	o := NewOutput(testAddress(t), value.NewCoin(2_000_000))
	back := outputRoundTrip(t, o)
	require.Equal(t, DatumNone, back.DatumKind)
	require.Equal(t, uint64(2_000_000), back.Value.Coin)
}

func TestOutputRoundTripWithDatumHash(t *testing.T) {
	raw := make([]byte, 32)
	raw[0] = 0xAB
	dh, err := hash.New(hash.Size32, raw)
	require.NoError(t, err)
	o := NewOutput(testAddress(t), value.NewCoin(1_500_000)).WithDatumHash(dh)
	back := outputRoundTrip(t, o)
	require.Equal(t, DatumHash, back.DatumKind)
	require.True(t, dh.Equal(back.DatumHash))
}

func TestOutputRoundTripWithInlineDatumAndScriptRef(t *testing.T) {
	inline := []byte{0x01, 0x02, 0x03}
	scriptRef := []byte{0x82, 0x00, 0x40}
	o := NewOutput(testAddress(t), value.NewCoin(3_000_000)).
		WithInlineDatum(inline).
		WithScriptRef(scriptRef)
	back := outputRoundTrip(t, o)
	require.Equal(t, DatumInline, back.DatumKind)
	require.Equal(t, inline, back.DatumRaw)
	require.Equal(t, scriptRef, back.ScriptRef)
}

func TestOutputFromCBORAcceptsLegacyArrayWithoutDatum(t *testing.T) {
	w := cbor.NewWriter()
	require.NoError(t, w.StartArray(2))
	addrBytes, err := testAddress(t).ToBytes()
	require.NoError(t, err)
	require.NoError(t, w.WriteByteString(addrBytes))
	require.NoError(t, value.NewCoin(500_000).ToCBOR(w))
	require.NoError(t, w.EndArray())

	r := cbor.NewReader(w.Bytes())
	out, err := OutputFromCBOR(r)
	require.NoError(t, err)
	require.True(t, r.Finished())
	require.Equal(t, DatumNone, out.DatumKind)
	require.Equal(t, uint64(500_000), out.Value.Coin)
}

func TestOutputFromCBORAcceptsLegacyArrayWithDatumHash(t *testing.T) {
	raw := make([]byte, 32)
	raw[0] = 0xCD
	dh, err := hash.New(hash.Size32, raw)
	require.NoError(t, err)

	w := cbor.NewWriter()
	require.NoError(t, w.StartArray(3))
	addrBytes, err := testAddress(t).ToBytes()
	require.NoError(t, err)
	require.NoError(t, w.WriteByteString(addrBytes))
	require.NoError(t, value.NewCoin(750_000).ToCBOR(w))
	require.NoError(t, w.WriteByteString(dh.Bytes()))
	require.NoError(t, w.EndArray())

	r := cbor.NewReader(w.Bytes())
	out, err := OutputFromCBOR(r)
	require.NoError(t, err)
	require.True(t, r.Finished())
	require.Equal(t, DatumHash, out.DatumKind)
	require.True(t, dh.Equal(out.DatumHash))
}
