// Package value implements Cardano's ADA + multi-asset value type and its
// arithmetic, normalization, and canonical CBOR encoding.
package value

import (
	"encoding/hex"
	"fmt"
	"math/big"
	"sort"

	"github.com/synnergy-labs/cardano-go/cbor"
	"github.com/synnergy-labs/cardano-go/cerrors"
)

// PolicyID is a 28-byte script hash identifying a minting policy, held as a
// hex string for use as a map key.
type PolicyID string

// AssetName is an asset's name within a policy, held as a hex string for
// use as a map key (raw asset names may contain arbitrary bytes).
type AssetName string

// MultiAsset maps policy_id -> asset_name -> signed quantity. Quantities
// may be negative only in mint contexts; every inner mapping must have at
// least one entry once normalized.
type MultiAsset map[PolicyID]map[AssetName]*big.Int

// Value pairs an ADA coin amount with an optional multi-asset bundle
//.
type Value struct {
	Coin       uint64
	MultiAsset MultiAsset
}

// Zero returns the empty value: zero coin, no assets.
func Zero() Value {
	return Value{Coin: 0, MultiAsset: nil}
}

// NewCoin returns a value carrying only ADA.
func NewCoin(coin uint64) Value {
	return Value{Coin: coin}
}

// Clone deep-copies v so mutating the result never aliases v.
func (v Value) Clone() Value {
	out := Value{Coin: v.Coin}
	if v.MultiAsset != nil {
		out.MultiAsset = make(MultiAsset, len(v.MultiAsset))
		for policy, assets := range v.MultiAsset {
			inner := make(map[AssetName]*big.Int, len(assets))
			for name, qty := range assets {
				inner[name] = new(big.Int).Set(qty)
			}
			out.MultiAsset[policy] = inner
		}
	}
	return out
}

// IsZero reports whether v is exactly the zero value after normalization:
// zero coin and no (non-zero) asset quantities.
func (v Value) IsZero() bool {
	if v.Coin != 0 {
		return false
	}
	n := v.Normalize()
	return len(n.MultiAsset) == 0
}

// Normalize prunes asset-name entries whose quantity is zero, and removes
// any policy whose inner mapping becomes empty as a result.
// Normalize is idempotent: Normalize(Normalize(v)) == Normalize(v).
func (v Value) Normalize() Value {
	out := Value{Coin: v.Coin}
	if v.MultiAsset == nil {
		return out
	}
	out.MultiAsset = make(MultiAsset)
	for policy, assets := range v.MultiAsset {
		inner := make(map[AssetName]*big.Int)
		for name, qty := range assets {
			if qty.Sign() == 0 {
				continue
			}
			inner[name] = new(big.Int).Set(qty)
		}
		if len(inner) > 0 {
			out.MultiAsset[policy] = inner
		}
	}
	return out
}

// Add returns a + b, summing coin and every asset quantity. The result is
// not normalized automatically; call Normalize if zero entries must be
// pruned.
func Add(a, b Value) Value {
	out := Value{Coin: a.Coin + b.Coin}
	out.MultiAsset = mergeAssets(a.MultiAsset, b.MultiAsset, func(x, y *big.Int) *big.Int {
		return new(big.Int).Add(x, y)
	})
	return out
}

// Subtract returns a - b. It fails with balance_insufficient if any
// resulting coin or asset quantity would go negative; callers operating in
// a mint context (where negative asset quantities are meaningful) should
// use SubtractAllowNegative instead.
func Subtract(a, b Value) (Value, error) {
	if b.Coin > a.Coin {
		return Value{}, fmt.Errorf("value: subtract coin %d - %d underflows: %w", a.Coin, b.Coin, cerrors.ErrBalanceInsufficient)
	}
	out := Value{Coin: a.Coin - b.Coin}
	var err error
	out.MultiAsset = mergeAssetsErr(a.MultiAsset, b.MultiAsset, func(x, y *big.Int) (*big.Int, error) {
		d := new(big.Int).Sub(x, y)
		if d.Sign() < 0 {
			return nil, fmt.Errorf("value: subtract asset quantity underflows: %w", cerrors.ErrBalanceInsufficient)
		}
		return d, nil
	}, &err)
	if err != nil {
		return Value{}, err
	}
	return out, nil
}

// SubtractAllowNegative returns a - b without the non-negativity check on
// asset quantities, used in mint-field arithmetic where negative quantities
// are valid. The coin is clamped at zero when b.Coin exceeds a.Coin.
func SubtractAllowNegative(a, b Value) Value {
	var coin uint64
	if a.Coin >= b.Coin {
		coin = a.Coin - b.Coin
	}
	out := Value{Coin: coin}
	out.MultiAsset = mergeAssets(a.MultiAsset, b.MultiAsset, func(x, y *big.Int) *big.Int {
		return new(big.Int).Sub(x, y)
	})
	return out
}

func mergeAssets(a, b MultiAsset, op func(x, y *big.Int) *big.Int) MultiAsset {
	if a == nil && b == nil {
		return nil
	}
	out := make(MultiAsset)
	policies := make(map[PolicyID]struct{})
	for p := range a {
		policies[p] = struct{}{}
	}
	for p := range b {
		policies[p] = struct{}{}
	}
	for p := range policies {
		inner := make(map[AssetName]*big.Int)
		names := make(map[AssetName]struct{})
		for n := range a[p] {
			names[n] = struct{}{}
		}
		for n := range b[p] {
			names[n] = struct{}{}
		}
		for n := range names {
			x := zeroIfNil(a[p][n])
			y := zeroIfNil(b[p][n])
			inner[n] = op(x, y)
		}
		out[p] = inner
	}
	return out
}

func mergeAssetsErr(a, b MultiAsset, op func(x, y *big.Int) (*big.Int, error), errOut *error) MultiAsset {
	if a == nil && b == nil {
		return nil
	}
	out := make(MultiAsset)
	policies := make(map[PolicyID]struct{})
	for p := range a {
		policies[p] = struct{}{}
	}
	for p := range b {
		policies[p] = struct{}{}
	}
	for p := range policies {
		inner := make(map[AssetName]*big.Int)
		names := make(map[AssetName]struct{})
		for n := range a[p] {
			names[n] = struct{}{}
		}
		for n := range b[p] {
			names[n] = struct{}{}
		}
		for n := range names {
			x := zeroIfNil(a[p][n])
			y := zeroIfNil(b[p][n])
			v, err := op(x, y)
			if err != nil {
				if *errOut == nil {
					*errOut = err
				}
				continue
			}
			inner[n] = v
		}
		out[p] = inner
	}
	return out
}

func zeroIfNil(v *big.Int) *big.Int {
	if v == nil {
		return big.NewInt(0)
	}
	return v
}

// GreaterOrEqual reports whether a covers b in every dimension: coin and
// every asset quantity present in b (missing assets in a are treated as
// zero).
func GreaterOrEqual(a, b Value) bool {
	if a.Coin < b.Coin {
		return false
	}
	for policy, assets := range b.MultiAsset {
		for name, qty := range assets {
			have := zeroIfNil(a.MultiAsset[policy][name])
			if have.Cmp(qty) < 0 {
				return false
			}
		}
	}
	return true
}

// sortedPolicies returns v's policy IDs in ascending lexicographic order,
// for deterministic CBOR map emission and iteration.
func (v Value) sortedPolicies() []PolicyID {
	out := make([]PolicyID, 0, len(v.MultiAsset))
	for p := range v.MultiAsset {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

func sortedNames(assets map[AssetName]*big.Int) []AssetName {
	out := make([]AssetName, 0, len(assets))
	for n := range assets {
		out = append(out, n)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// ToCBOR emits v's canonical encoding: a bare coin (major type 0) when
// there is no multi-asset bundle, or `[coin, {policy => {asset => qty}}]`
// otherwise.
func (v Value) ToCBOR(w *cbor.Writer) error {
	if len(v.MultiAsset) == 0 {
		return w.WriteUint(v.Coin)
	}
	if err := w.StartArray(2); err != nil {
		return err
	}
	if err := w.WriteUint(v.Coin); err != nil {
		return err
	}
	policies := v.sortedPolicies()
	if err := w.StartMap(len(policies)); err != nil {
		return err
	}
	for _, policy := range policies {
		if err := writePolicyID(w, policy); err != nil {
			return err
		}
		assets := v.MultiAsset[policy]
		names := sortedNames(assets)
		if err := w.StartMap(len(names)); err != nil {
			return err
		}
		for _, name := range names {
			if err := writeAssetName(w, name); err != nil {
				return err
			}
			if err := cbor.WriteInteger(w, assets[name]); err != nil {
				return err
			}
		}
		if err := w.EndMap(); err != nil {
			return err
		}
	}
	if err := w.EndMap(); err != nil {
		return err
	}
	return w.EndArray()
}

// FromCBOR parses either encoding produced by ToCBOR.
func FromCBOR(r *cbor.Reader) (Value, error) {
	state, err := r.PeekState()
	if err != nil {
		return Value{}, err
	}
	if state == cbor.StateUnsignedInt {
		coin, err := r.ReadUint()
		if err != nil {
			return Value{}, err
		}
		return Value{Coin: coin}, nil
	}
	if _, err := r.StartArray(); err != nil {
		return Value{}, err
	}
	coin, err := r.ReadUint()
	if err != nil {
		return Value{}, err
	}
	n, err := r.StartMap()
	if err != nil {
		return Value{}, err
	}
	multiAsset := make(MultiAsset)
	for i := 0; i < n; i++ {
		policy, err := readPolicyID(r)
		if err != nil {
			return Value{}, err
		}
		m, err := r.StartMap()
		if err != nil {
			return Value{}, err
		}
		inner := make(map[AssetName]*big.Int, m)
		for j := 0; j < m; j++ {
			name, err := readAssetName(r)
			if err != nil {
				return Value{}, err
			}
			qty, err := cbor.ReadInteger(r)
			if err != nil {
				return Value{}, err
			}
			inner[name] = qty
		}
		if err := r.EndMap(); err != nil {
			return Value{}, err
		}
		multiAsset[policy] = inner
	}
	if err := r.EndMap(); err != nil {
		return Value{}, err
	}
	if err := r.EndArray(); err != nil {
		return Value{}, err
	}
	return Value{Coin: coin, MultiAsset: multiAsset}, nil
}

// WriteMultiAsset emits m as the bare `{policy => {asset => qty}}` map
// used by the mint field, which carries no coin component.
func WriteMultiAsset(w *cbor.Writer, m MultiAsset) error {
	policies := make([]PolicyID, 0, len(m))
	for p := range m {
		policies = append(policies, p)
	}
	sort.Slice(policies, func(i, j int) bool { return policies[i] < policies[j] })
	if err := w.StartMap(len(policies)); err != nil {
		return err
	}
	for _, policy := range policies {
		if err := writePolicyID(w, policy); err != nil {
			return err
		}
		assets := m[policy]
		names := sortedNames(assets)
		if err := w.StartMap(len(names)); err != nil {
			return err
		}
		for _, name := range names {
			if err := writeAssetName(w, name); err != nil {
				return err
			}
			if err := cbor.WriteInteger(w, assets[name]); err != nil {
				return err
			}
		}
		if err := w.EndMap(); err != nil {
			return err
		}
	}
	return w.EndMap()
}

// ReadMultiAsset parses the encoding produced by WriteMultiAsset.
func ReadMultiAsset(r *cbor.Reader) (MultiAsset, error) {
	n, err := r.StartMap()
	if err != nil {
		return nil, err
	}
	m := make(MultiAsset, n)
	for i := 0; i < n; i++ {
		policy, err := readPolicyID(r)
		if err != nil {
			return nil, err
		}
		inner, err := r.StartMap()
		if err != nil {
			return nil, err
		}
		assets := make(map[AssetName]*big.Int, inner)
		for j := 0; j < inner; j++ {
			name, err := readAssetName(r)
			if err != nil {
				return nil, err
			}
			qty, err := cbor.ReadInteger(r)
			if err != nil {
				return nil, err
			}
			assets[name] = qty
		}
		if err := r.EndMap(); err != nil {
			return nil, err
		}
		m[policy] = assets
	}
	if err := r.EndMap(); err != nil {
		return nil, err
	}
	return m, nil
}

func writePolicyID(w *cbor.Writer, p PolicyID) error {
	raw, err := hex.DecodeString(string(p))
	if err != nil {
		return fmt.Errorf("value: policy id is not valid hex: %w", cerrors.ErrInvalidArgument)
	}
	return w.WriteByteString(raw)
}

func writeAssetName(w *cbor.Writer, n AssetName) error {
	raw, err := hex.DecodeString(string(n))
	if err != nil {
		return fmt.Errorf("value: asset name is not valid hex: %w", cerrors.ErrInvalidArgument)
	}
	return w.WriteByteString(raw)
}

func readPolicyID(r *cbor.Reader) (PolicyID, error) {
	raw, err := r.ReadByteString()
	if err != nil {
		return "", err
	}
	return PolicyID(hex.EncodeToString(raw)), nil
}

func readAssetName(r *cbor.Reader) (AssetName, error) {
	raw, err := r.ReadByteString()
	if err != nil {
		return "", err
	}
	return AssetName(hex.EncodeToString(raw)), nil
}
