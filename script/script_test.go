package script

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/synnergy-labs/cardano-go/cbor"
	"github.com/synnergy-labs/cardano-go/hash"
)

func keyHash28(b byte) hash.Hash {
	raw := make([]byte, 28)
	for i := range raw {
		raw[i] = b
	}
	h, _ := hash.New(hash.Size28, raw)
	return h
}

func TestNativeScriptCBORRoundTrip(t *testing.T) {
	tree := AtLeastN(2,
		Sig(keyHash28(1)),
		Sig(keyHash28(2)),
		AllOf(Sig(keyHash28(3)), InvalidBefore(1000)),
		AnyOf(Sig(keyHash28(4)), InvalidAfter(2000)),
	)
	w := cbor.NewWriter()
	require.NoError(t, tree.ToCBOR(w))

	r := cbor.NewReader(w.Bytes())
	back, err := NativeFromCBOR(r)
	require.NoError(t, err)
	require.True(t, r.Finished())
	require.Equal(t, tree.Kind, back.Kind)
	require.Equal(t, tree.AtLeast, back.AtLeast)
	require.Len(t, back.Scripts, 4)
}

func TestNativeScriptHashDeterministic(t *testing.T) {
	s := Sig(keyHash28(9))
	h1, err := s.Hash()
	require.NoError(t, err)
	h2, err := s.Hash()
	require.NoError(t, err)
	require.True(t, h1.Equal(h2))
	require.Equal(t, hash.Size28, h1.Size())
}

func TestPlutusScriptHashVariesByVersion(t *testing.T) {
	raw := []byte{0xDE, 0xAD, 0xBE, 0xEF}
	v1 := NewPlutusScript(PlutusV1, raw)
	v2 := NewPlutusScript(PlutusV2, raw)
	h1, err := v1.Hash()
	require.NoError(t, err)
	h2, err := v2.Hash()
	require.NoError(t, err)
	require.False(t, h1.Equal(h2))
}

func TestScriptUnionDispatchesHash(t *testing.T) {
	native := FromNative(Sig(keyHash28(1)))
	plutus := FromPlutus(NewPlutusScript(PlutusV2, []byte{1, 2, 3}))

	hn, err := native.Hash()
	require.NoError(t, err)
	hp, err := plutus.Hash()
	require.NoError(t, err)
	require.False(t, hn.Equal(hp))
}

func TestSigScriptInvalidKeyHashLength(t *testing.T) {
	_, err := hash.New(hash.Size28, make([]byte, 10))
	require.Error(t, err)
}
