// Package balancer implements the coin selector trait and the iterative
// transaction-balancing algorithm, grounded on the
// header-only contracts in
// transaction_builder/coin_selection/{coin_selector_impl.h,
// large_first_coin_selector.h} and transaction_builder/balancing/
// {transaction_balancing.h,implicit_coin.h} — the original_source filter
// kept only declarations and doc comments for this subsystem, no .c/.cpp
// bodies, so the algorithm below follows the headers' prose exactly.
package balancer

import (
	"fmt"
	"math/big"
	"sort"

	"github.com/synnergy-labs/cardano-go/cerrors"
	"github.com/synnergy-labs/cardano-go/provider"
	"github.com/synnergy-labs/cardano-go/transaction"
	"github.com/synnergy-labs/cardano-go/value"
)

// CoinSelector augments a pre-selected UTxO set with enough of an
// available UTxO set to cover target, without ever dropping a
// pre-selected entry.
type CoinSelector interface {
	// Select returns a selection that is a superset of preSelected, plus
	// whatever of available was not used. minChangeMinAda pads the coin
	// dimension's target so the eventual change output (not yet known at
	// selection time) has room to clear the min-ada floor.
	Select(preSelected, available []provider.UTxO, target value.Value, minChangeMinAda uint64) (selected, remaining []provider.UTxO, err error)
}

// LargeFirstCoinSelector implements the "large first" strategy: for each
// value dimension, in descending order of how much of it the target
// needs, repeatedly take the available UTxO carrying the largest
// remaining quantity of that dimension until the target is met.
type LargeFirstCoinSelector struct{}

// NewLargeFirstCoinSelector returns a LargeFirstCoinSelector.
func NewLargeFirstCoinSelector() LargeFirstCoinSelector {
	return LargeFirstCoinSelector{}
}

type dimension struct {
	policy value.PolicyID // "" denotes the lovelace dimension
	asset  value.AssetName
	target *big.Int
}

func dimensionQuantity(v value.Value, d dimension) *big.Int {
	if d.policy == "" {
		return new(big.Int).SetUint64(v.Coin)
	}
	assets := v.MultiAsset[d.policy]
	if assets == nil {
		return big.NewInt(0)
	}
	qty := assets[d.asset]
	if qty == nil {
		return big.NewInt(0)
	}
	return new(big.Int).Set(qty)
}

func buildDimensions(target value.Value, minChangeMinAda uint64) []dimension {
	dims := []dimension{{target: new(big.Int).SetUint64(target.Coin + minChangeMinAda)}}
	for _, policy := range sortedPolicies(target.MultiAsset) {
		for _, asset := range sortedAssets(target.MultiAsset[policy]) {
			dims = append(dims, dimension{
				policy: policy,
				asset:  asset,
				target: new(big.Int).Set(target.MultiAsset[policy][asset]),
			})
		}
	}
	sort.SliceStable(dims, func(i, j int) bool {
		return dims[i].target.Cmp(dims[j].target) > 0
	})
	return dims
}

func sortedPolicies(m value.MultiAsset) []value.PolicyID {
	out := make([]value.PolicyID, 0, len(m))
	for p := range m {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

func sortedAssets(m map[value.AssetName]*big.Int) []value.AssetName {
	out := make([]value.AssetName, 0, len(m))
	for a := range m {
		out = append(out, a)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

func inputKey(in transaction.Input) string {
	return fmt.Sprintf("%s#%d", in.TxID.Hex(), in.Index)
}

func accumulateDimension(utxos []provider.UTxO, d dimension) *big.Int {
	sum := big.NewInt(0)
	for _, u := range utxos {
		sum.Add(sum, dimensionQuantity(u.Output.Value, d))
	}
	return sum
}

// Select implements CoinSelector.
func (LargeFirstCoinSelector) Select(preSelected, available []provider.UTxO, target value.Value, minChangeMinAda uint64) ([]provider.UTxO, []provider.UTxO, error) {
	selected := append([]provider.UTxO{}, preSelected...)
	used := make(map[string]bool, len(preSelected))
	for _, u := range preSelected {
		used[inputKey(u.Input)] = true
	}

	remaining := make([]provider.UTxO, 0, len(available))
	for _, u := range available {
		if !used[inputKey(u.Input)] {
			remaining = append(remaining, u)
		}
	}

	for _, d := range buildDimensions(target, minChangeMinAda) {
		acc := accumulateDimension(selected, d)
		if acc.Cmp(d.target) >= 0 {
			continue
		}

		sort.SliceStable(remaining, func(i, j int) bool {
			qi := dimensionQuantity(remaining[i].Output.Value, d)
			qj := dimensionQuantity(remaining[j].Output.Value, d)
			if c := qi.Cmp(qj); c != 0 {
				return c > 0
			}
			return remaining[i].Input.Less(remaining[j].Input)
		})

		consumed := 0
		for _, u := range remaining {
			if acc.Cmp(d.target) >= 0 {
				break
			}
			selected = append(selected, u)
			acc.Add(acc, dimensionQuantity(u.Output.Value, d))
			consumed++
		}
		remaining = remaining[consumed:]

		if acc.Cmp(d.target) < 0 {
			label := "lovelace"
			if d.policy != "" {
				label = fmt.Sprintf("%s.%s", d.policy, d.asset)
			}
			return nil, nil, fmt.Errorf("balancer: insufficient funds to cover dimension %s: %w", label, cerrors.ErrBalanceInsufficient)
		}
	}

	return selected, remaining, nil
}
