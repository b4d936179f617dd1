package transaction

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/synnergy-labs/cardano-go/cbor"
)

func TestWriteLanguageViewsOrdersKeysByEncodedBytes(t *testing.T) {
	models := NewCostModels()
	models.Set(LanguagePlutusV3, []int64{9, 9})
	models.Set(LanguagePlutusV1, []int64{1, 2, 3})
	models.Set(LanguagePlutusV2, []int64{4, 5})

	w := cbor.NewWriter()
	require.NoError(t, writeLanguageViews(w, models))
	r := cbor.NewReader(w.Bytes())
	n, err := r.StartMap()
	require.NoError(t, err)
	require.Equal(t, 3, n)

	// V2's plain-integer key (0x01) sorts before V1's byte-string key
	// (0x41 0x00).
	key, err := r.ReadUint()
	require.NoError(t, err)
	require.Equal(t, uint64(1), key)
}

func TestWriteLanguageViewsDoubleEncodesV1Only(t *testing.T) {
	models := NewCostModels()
	models.Set(LanguagePlutusV1, []int64{1, 2, 3})
	models.Set(LanguagePlutusV2, []int64{4, 5})

	w := cbor.NewWriter()
	require.NoError(t, writeLanguageViews(w, models))
	r := cbor.NewReader(w.Bytes())
	_, err := r.StartMap()
	require.NoError(t, err)

	// V2 comes first: its key is the plain integer 1 and its value is the
	// int array itself.
	v2Key, err := r.ReadUint()
	require.NoError(t, err)
	require.Equal(t, uint64(1), v2Key)

	v2N, err := r.StartArray()
	require.NoError(t, err)
	require.Equal(t, 2, v2N)
	for i := 0; i < v2N; i++ {
		_, err := r.ReadInt64()
		require.NoError(t, err)
	}
	require.NoError(t, r.EndArray())

	v1Key, err := r.ReadByteString()
	require.NoError(t, err)
	require.Equal(t, []byte{0x00}, v1Key)

	// V1's value is itself a CBOR byte string wrapping the encoded int
	// array, not the array directly.
	v1Wrapped, err := r.ReadByteString()
	require.NoError(t, err)
	inner := cbor.NewReader(v1Wrapped)
	innerN, err := inner.StartArray()
	require.NoError(t, err)
	require.Equal(t, 3, innerN)
}

func TestPresentLanguagesSortedOmitsAbsent(t *testing.T) {
	models := NewCostModels()
	models.Set(LanguagePlutusV2, []int64{1})
	present := presentLanguagesSorted(models)
	require.Equal(t, []LanguageVersion{LanguagePlutusV2}, present)
}
