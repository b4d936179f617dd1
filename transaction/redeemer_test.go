package transaction

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/synnergy-labs/cardano-go/cbor"
	"github.com/synnergy-labs/cardano-go/plutusdata"
)

func TestRedeemerRoundTrip(t *testing.T) {
	rd := Redeemer{
		Tag:     RedeemerSpend,
		Index:   2,
		Data:    plutusdata.NewIntegerInt64(42),
		ExUnits: ExecutionUnits{Memory: 1_000_000, Steps: 500_000_000},
	}
	w := cbor.NewWriter()
	require.NoError(t, rd.ToCBOR(w))
	r := cbor.NewReader(w.Bytes())
	back, err := RedeemerFromCBOR(r)
	require.NoError(t, err)
	require.True(t, r.Finished())
	require.Equal(t, rd.Tag, back.Tag)
	require.Equal(t, rd.Index, back.Index)
	require.Equal(t, rd.ExUnits, back.ExUnits)
}

func TestRedeemerRoundTripVoteAndProposeTags(t *testing.T) {
	for _, tag := range []RedeemerTag{RedeemerVote, RedeemerPropose} {
		rd := Redeemer{Tag: tag, Index: 0, Data: plutusdata.NewIntegerInt64(0)}
		w := cbor.NewWriter()
		require.NoError(t, rd.ToCBOR(w))
		r := cbor.NewReader(w.Bytes())
		back, err := RedeemerFromCBOR(r)
		require.NoError(t, err)
		require.Equal(t, tag, back.Tag)
	}
}

func TestRedeemerFromCBORRejectsUnknownTag(t *testing.T) {
	w := cbor.NewWriter()
	require.NoError(t, w.StartArray(4))
	require.NoError(t, w.WriteUint(99))
	require.NoError(t, w.WriteUint(0))
	require.NoError(t, plutusdata.NewIntegerInt64(0).ToCBOR(w))
	require.NoError(t, w.StartArray(2))
	require.NoError(t, w.WriteUint(0))
	require.NoError(t, w.WriteUint(0))
	require.NoError(t, w.EndArray())
	require.NoError(t, w.EndArray())

	r := cbor.NewReader(w.Bytes())
	_, err := RedeemerFromCBOR(r)
	require.Error(t, err)
}

func TestRedeemersArrayRoundTrip(t *testing.T) {
	list := []Redeemer{
		{Tag: RedeemerMint, Index: 0, Data: plutusdata.NewIntegerInt64(1)},
		{Tag: RedeemerCert, Index: 1, Data: plutusdata.NewIntegerInt64(2)},
	}
	w := cbor.NewWriter()
	require.NoError(t, writeRedeemers(w, list))
	r := cbor.NewReader(w.Bytes())
	back, err := readRedeemers(r)
	require.NoError(t, err)
	require.True(t, r.Finished())
	require.Len(t, back, 2)
	require.Equal(t, RedeemerMint, back[0].Tag)
	require.Equal(t, RedeemerCert, back[1].Tag)
}
