package transaction

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/synnergy-labs/cardano-go/cbor"
	"github.com/synnergy-labs/cardano-go/hash"
)

func mustTxHash(t *testing.T, b byte) hash.Hash {
	t.Helper()
	raw := make([]byte, 32)
	for i := range raw {
		raw[i] = b
	}
	h, err := hash.New(hash.Size32, raw)
	require.NoError(t, err)
	return h
}

func TestInputRoundTrip(t *testing.T) {
	in := NewInput(mustTxHash(t, 0x01), 3)
	w := cbor.NewWriter()
	require.NoError(t, in.ToCBOR(w))
	r := cbor.NewReader(w.Bytes())
	back, err := InputFromCBOR(r)
	require.NoError(t, err)
	require.True(t, r.Finished())
	require.True(t, in.Equal(back))
}

func TestInputLessOrdersByTxIDThenIndex(t *testing.T) {
	a := NewInput(mustTxHash(t, 0x01), 5)
	b := NewInput(mustTxHash(t, 0x01), 6)
	c := NewInput(mustTxHash(t, 0x02), 0)

	require.True(t, a.Less(b))
	require.False(t, b.Less(a))
	require.True(t, b.Less(c))
	require.False(t, a.Equal(b))
}

func TestInputSetRoundTripPreservesOrder(t *testing.T) {
	inputs := []Input{
		NewInput(mustTxHash(t, 0x02), 1),
		NewInput(mustTxHash(t, 0x01), 0),
	}
	w := cbor.NewWriter()
	require.NoError(t, writeInputSet(w, inputs))
	r := cbor.NewReader(w.Bytes())
	back, err := readInputSet(r)
	require.NoError(t, err)
	require.True(t, r.Finished())
	require.Len(t, back, 2)
	require.True(t, inputs[0].Equal(back[0]))
	require.True(t, inputs[1].Equal(back[1]))
}
