package plutusdata

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/synnergy-labs/cardano-go/cbor"
)

func roundTrip(t *testing.T, d Data) Data {
	t.Helper()
	w := cbor.NewWriter()
	require.NoError(t, d.ToCBOR(w))
	r := cbor.NewReader(w.Bytes())
	back, err := FromCBOR(r)
	require.NoError(t, err)
	require.True(t, r.Finished())
	return back
}

func TestConstrLowAlternativeRoundTrip(t *testing.T) {
	d := NewConstr(3, NewIntegerInt64(1), NewBytes([]byte{0xAA}))
	back := roundTrip(t, d)
	require.Equal(t, KindConstr, back.Kind())
	require.Equal(t, uint64(3), back.ConstrAlternative())
	require.Len(t, back.ConstrArgs(), 2)
}

func TestConstrMidAlternativeRoundTrip(t *testing.T) {
	d := NewConstr(50, NewIntegerInt64(7))
	back := roundTrip(t, d)
	require.Equal(t, uint64(50), back.ConstrAlternative())
}

func TestConstrHighAlternativeRoundTrip(t *testing.T) {
	d := NewConstr(200, NewIntegerInt64(7))
	back := roundTrip(t, d)
	require.Equal(t, uint64(200), back.ConstrAlternative())
}

// TestIntegerOutsideInt64RangeRoundTrips guards the tag 2/3 bignum
// disambiguation in FromCBOR's StateTag branch: a constructor tag (121..,
// 1280.., 102) and a bignum tag (2, 3) are both major type 6, so the
// reader must peek the tag number before deciding which decoder to call.
func TestIntegerOutsideInt64RangeRoundTrips(t *testing.T) {
	big1, ok := new(big.Int).SetString("99999999999999999999999999999999", 10)
	require.True(t, ok)

	positive := NewInteger(big1)
	backPos := roundTrip(t, positive)
	require.Equal(t, KindInteger, backPos.Kind())
	require.Equal(t, 0, big1.Cmp(backPos.Integer()))

	negative := NewInteger(new(big.Int).Neg(big1))
	backNeg := roundTrip(t, negative)
	require.Equal(t, KindInteger, backNeg.Kind())
	require.Equal(t, 0, new(big.Int).Neg(big1).Cmp(backNeg.Integer()))
}

// TestBignumIntegerDoesNotCollideWithConstrTag checks that a bignum
// integer embedded as a constructor argument (so FromCBOR must
// distinguish tag 2/3 from a sibling constr tag while recursing) still
// round-trips.
func TestBignumIntegerDoesNotCollideWithConstrTag(t *testing.T) {
	big1, ok := new(big.Int).SetString("18446744073709551616", 10) // 2^64
	require.True(t, ok)

	d := NewConstr(0, NewInteger(big1), NewIntegerInt64(1))
	back := roundTrip(t, d)
	require.Equal(t, KindConstr, back.Kind())
	require.Len(t, back.ConstrArgs(), 2)
	require.Equal(t, 0, big1.Cmp(back.ConstrArgs()[0].Integer()))
	require.Equal(t, int64(1), back.ConstrArgs()[1].Integer().Int64())
}

func TestEmptyListIsDefiniteNonEmptyIsIndefinite(t *testing.T) {
	empty := NewList()
	w := cbor.NewWriter()
	require.NoError(t, empty.ToCBOR(w))
	require.Equal(t, byte(0x80), w.Bytes()[0])

	nonEmpty := NewList(NewIntegerInt64(1))
	w2 := cbor.NewWriter()
	require.NoError(t, nonEmpty.ToCBOR(w2))
	require.Equal(t, byte(0x9F), w2.Bytes()[0])
}

func TestIntegerRoundTripBignum(t *testing.T) {
	big1 := new(big.Int)
	big1.SetString("123456789012345678901234567890", 10)
	d := NewInteger(big1)
	back := roundTrip(t, d)
	require.Equal(t, 0, big1.Cmp(back.Integer()))
}

func TestLargeBytesChunking(t *testing.T) {
	raw := make([]byte, 100)
	for i := range raw {
		raw[i] = 0xAA
	}
	d := NewBytes(raw)
	back := roundTrip(t, d)
	require.Equal(t, raw, back.Bytes())
}

func TestMapPreservesInsertionOrder(t *testing.T) {
	d := NewMap(
		MapEntry{Key: NewIntegerInt64(2), Value: NewIntegerInt64(20)},
		MapEntry{Key: NewIntegerInt64(1), Value: NewIntegerInt64(10)},
	)
	back := roundTrip(t, d)
	entries := back.MapEntries()
	require.Len(t, entries, 2)
	require.Equal(t, int64(2), entries[0].Key.Integer().Int64())
	require.Equal(t, int64(1), entries[1].Key.Integer().Int64())
}

func TestMetadatumRoundTrip(t *testing.T) {
	m := NewMetadatumMap(
		MetadatumMapEntry{Key: NewMetadatumText("k"), Value: NewMetadatumInt(42)},
	)
	w := cbor.NewWriter()
	require.NoError(t, m.ToCBOR(w))
	r := cbor.NewReader(w.Bytes())
	back, err := MetadatumFromCBOR(r)
	require.NoError(t, err)
	require.True(t, r.Finished())
	require.Equal(t, MetadatumMap, back.Kind())
	require.Len(t, back.MapEntries(), 1)
	require.Equal(t, "k", back.MapEntries()[0].Key.Text())
	require.Equal(t, int64(42), back.MapEntries()[0].Value.Int())
}

// TestMetadatumListIsAlwaysDefiniteLength guards against copying
// plutusdata.Data's empty-definite/non-empty-indefinite list convention
// onto Metadatum: transaction metadata lists stay definite-length
// regardless of element count, or auxiliary_data_hash would mismatch the
// ledger's encoding.
func TestMetadatumListIsAlwaysDefiniteLength(t *testing.T) {
	m := NewMetadatumList(NewMetadatumInt(1), NewMetadatumInt(2), NewMetadatumInt(3))
	w := cbor.NewWriter()
	require.NoError(t, m.ToCBOR(w))

	// Definite array of length 3: major type 4, additional-info 3 -> 0x83.
	require.Equal(t, byte(0x83), w.Bytes()[0])

	r := cbor.NewReader(w.Bytes())
	back, err := MetadatumFromCBOR(r)
	require.NoError(t, err)
	require.True(t, r.Finished())
	require.Equal(t, MetadatumList, back.Kind())
	require.Len(t, back.List(), 3)
	require.Equal(t, int64(1), back.List()[0].Int())
	require.Equal(t, int64(3), back.List()[2].Int())
}
