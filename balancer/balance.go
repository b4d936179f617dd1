package balancer

import (
	"context"
	"fmt"
	"math/big"

	"github.com/synnergy-labs/cardano-go/address"
	"github.com/synnergy-labs/cardano-go/cardanolog"
	"github.com/synnergy-labs/cardano-go/cbor"
	"github.com/synnergy-labs/cardano-go/cerrors"
	"github.com/synnergy-labs/cardano-go/hash"
	"github.com/synnergy-labs/cardano-go/keyhandler"
	"github.com/synnergy-labs/cardano-go/provider"
	"github.com/synnergy-labs/cardano-go/transaction"
	"github.com/synnergy-labs/cardano-go/value"
)

// Evaluator is the narrow slice of Provider the balancer actually needs:
// just enough to run a transaction's Plutus scripts and learn their real
// execution units. Any provider.Provider satisfies it.
type Evaluator interface {
	EvaluateTransaction(ctx context.Context, tx transaction.Transaction, additionalUTxOs []provider.UTxO) ([]provider.RedeemerExecutionUnits, error)
}

// maxBalanceIterations bounds the fee/change fixed-point loop; exceeding it reports balance_unstable rather than
// looping forever on a transaction whose size oscillates across the fee
// boundary.
const maxBalanceIterations = 20

func sumOutputs(outputs []transaction.Output) value.Value {
	sum := value.Zero()
	for _, o := range outputs {
		sum = value.Add(sum, o.Value)
	}
	return sum
}

func sumUTxOs(utxos []provider.UTxO) value.Value {
	sum := value.Zero()
	for _, u := range utxos {
		sum = value.Add(sum, u.Output.Value)
	}
	return sum
}

// splitMint separates a signed mint bundle into its positive (newly
// created supply) and negative (burned, reported as a positive
// magnitude) halves, since the balancing formula treats them with
// opposite sign.
func splitMint(m value.MultiAsset) (positive, negative value.Value) {
	pos := make(value.MultiAsset)
	neg := make(value.MultiAsset)
	for policy, assets := range m {
		for name, qty := range assets {
			switch qty.Sign() {
			case 1:
				addAsset(pos, policy, name, new(big.Int).Set(qty))
			case -1:
				addAsset(neg, policy, name, new(big.Int).Neg(qty))
			}
		}
	}
	return value.Value{MultiAsset: pos}, value.Value{MultiAsset: neg}
}

func addAsset(m value.MultiAsset, policy value.PolicyID, name value.AssetName, qty *big.Int) {
	if m[policy] == nil {
		m[policy] = make(map[value.AssetName]*big.Int)
	}
	m[policy][name] = qty
}

func withdrawalsTotal(withdrawals []transaction.Withdrawal) uint64 {
	var total uint64
	for _, w := range withdrawals {
		total += w.Coin
	}
	return total
}

// computeTargetValue is the value the coin selector must still cover:
// outputs, plus assets burned by a negative mint, minus whatever the
// pre-selected inputs and a positive mint already supply, minus the
// implicit coin contributed by withdrawals and reclaimed deposits net of
// posted deposits.
func computeTargetValue(body transaction.Body, preSelected []provider.UTxO) value.Value {
	mintPos, mintNeg := splitMint(body.Mint)

	target := sumOutputs(body.Outputs)
	target = value.Add(target, mintNeg)
	target = value.SubtractAllowNegative(target, sumUTxOs(preSelected))
	target = value.SubtractAllowNegative(target, mintPos)

	var paid, reclaimed int64
	for _, c := range body.Certificates {
		if c.PostsDeposit() {
			paid += int64(c.Deposit())
		}
		if c.RefundsDeposit() {
			reclaimed += int64(c.Deposit())
		}
	}
	implicit := int64(withdrawalsTotal(body.Withdrawals)) + reclaimed - paid
	if implicit >= 0 {
		target = value.SubtractAllowNegative(target, value.NewCoin(uint64(implicit)))
	} else {
		target = value.Add(target, value.NewCoin(uint64(-implicit)))
	}
	return target
}

// computeLeftoverAmount is everything the selected inputs and implicit
// coin supply beyond what the transaction's non-change outputs and
// deposits require — the raw material a placeholder change output (and,
// after fee deduction, the final one) is carved from. It returns a
// balance-insufficient error if the selected inputs do not cover the
// requirement even before a fee is charged.
func computeLeftoverAmount(body transaction.Body, allInputs []provider.UTxO) (value.Value, error) {
	mintPos, mintNeg := splitMint(body.Mint)

	total := sumUTxOs(allInputs)
	total = value.Add(total, mintPos)

	var paid, reclaimed uint64
	for _, c := range body.Certificates {
		if c.PostsDeposit() {
			paid += c.Deposit()
		}
		if c.RefundsDeposit() {
			reclaimed += c.Deposit()
		}
	}
	total = value.Add(total, value.NewCoin(withdrawalsTotal(body.Withdrawals)+reclaimed))

	required := sumOutputs(body.Outputs)
	required = value.Add(required, mintNeg)
	required = value.Add(required, value.NewCoin(paid))

	return value.Subtract(total, required)
}

// minAdaForOutput computes the minimum coin value o's output must carry,
// from the serialized size of o with a maximally-wide phantom coin field
// (so the eventual real coin value, whatever its width, never changes the
// measured size), times coins_per_utxo_byte.
func minAdaForOutput(o transaction.Output, coinsPerUTxOByte uint64) (uint64, error) {
	probe := o
	probe.Value = o.Value.Clone()
	probe.Value.Coin = ^uint64(0)
	w := cbor.NewWriter()
	if err := probe.ToCBOR(w); err != nil {
		return 0, err
	}
	return uint64(len(w.Bytes())) * coinsPerUTxOByte, nil
}

func txSize(tx transaction.Transaction) (uint64, error) {
	w := cbor.NewWriter()
	if err := tx.ToCBOR(w); err != nil {
		return 0, err
	}
	return uint64(len(w.Bytes())), nil
}

func feeForSize(params provider.ProtocolParameters, sizeBytes uint64) uint64 {
	return params.MinFeeCoefficient*sizeBytes + params.MinFeeConstant
}

// executionCost is Σ(exec_units.memory·mem_price + exec_units.steps·step_price)
// computed as an exact rational.
func executionCost(units []provider.RedeemerExecutionUnits, prices provider.ExecutionUnitPrices) *big.Rat {
	total := new(big.Rat)
	for _, u := range units {
		mem := new(big.Rat).Mul(new(big.Rat).SetInt(new(big.Int).SetUint64(u.ExUnits.Memory)), prices.Memory)
		steps := new(big.Rat).Mul(new(big.Rat).SetInt(new(big.Int).SetUint64(u.ExUnits.Steps)), prices.Steps)
		total.Add(total, mem)
		total.Add(total, steps)
	}
	return total
}

// ceilRat rounds a non-negative rational up to the nearest integer, per
// the ledger's fee-rounding rule.
func ceilRat(r *big.Rat) uint64 {
	q := new(big.Int)
	m := new(big.Int)
	q.DivMod(r.Num(), r.Denom(), m)
	if m.Sign() != 0 {
		q.Add(q, big.NewInt(1))
	}
	return q.Uint64()
}

func applyExecutionUnits(redeemers []transaction.Redeemer, units []provider.RedeemerExecutionUnits) []transaction.Redeemer {
	out := append([]transaction.Redeemer{}, redeemers...)
	for _, u := range units {
		for i := range out {
			if out[i].Tag == u.Tag && out[i].Index == u.Index {
				out[i].ExUnits = u.ExUnits
			}
		}
	}
	return out
}

// ensureSignatureCount pads ws with deterministic placeholder VKey
// witnesses (via the null key handler) until it carries at least
// signatureCount of them, the way the C API's cardano_balance_transaction
// takes an explicit signature_count rather than inferring it.
func ensureSignatureCount(ws transaction.WitnessSet, signatureCount int) transaction.WitnessSet {
	if len(ws.VKeyWitnesses) >= signatureCount {
		return ws
	}
	need := signatureCount - len(ws.VKeyWitnesses)
	null := keyhandler.NewNullKeyHandler()
	paths := make([]keyhandler.DerivationPath, need)
	pubKeys, _ := null.GetPublicKeys(paths)
	sigs, _ := null.Sign(hash.Hash{}, paths)

	out := ws
	out.VKeyWitnesses = append([]transaction.VKeyWitness{}, ws.VKeyWitnesses...)
	for i := 0; i < need; i++ {
		out.VKeyWitnesses = append(out.VKeyWitnesses, transaction.VKeyWitness{VKey: pubKeys[i], Signature: sigs[i]})
	}
	return out
}

func assembleTransaction(body transaction.Body, witnesses transaction.WitnessSet, unbalanced transaction.Transaction) transaction.Transaction {
	tx := transaction.NewTransaction(body, witnesses)
	tx.AuxiliaryData = unbalanced.AuxiliaryData
	tx.IsValid = unbalanced.IsValid
	return tx
}

// Balance turns an unbalanced transaction into a balanced one: it augments
// its inputs via selector to cover the outputs (plus mint/withdrawal/
// deposit adjustments), attaches a change output, evaluates any Plutus
// redeemers, and iterates fee and change to a fixed point.
func Balance(
	ctx context.Context,
	unbalanced transaction.Transaction,
	signatureCount int,
	params provider.ProtocolParameters,
	preSelectedUTxOs []provider.UTxO,
	availableUTxOs []provider.UTxO,
	selector CoinSelector,
	changeAddress address.Address,
	evaluator Evaluator,
) (transaction.Transaction, error) {
	body := unbalanced.Body
	body.Inputs = append([]transaction.Input{}, body.Inputs...)
	body.Outputs = append([]transaction.Output{}, body.Outputs...)

	witnesses := ensureSignatureCount(unbalanced.WitnessSet, signatureCount)

	// Steps 1-2: how much more the coin selector must find.
	target := computeTargetValue(body, preSelectedUTxOs)
	minChangeMinAda, err := minAdaForOutput(transaction.NewOutput(changeAddress, value.Zero()), params.CoinsPerUTxOByte)
	if err != nil {
		return transaction.Transaction{}, err
	}

	// Step 3: augment inputs.
	additional, _, err := selector.Select(nil, availableUTxOs, target, minChangeMinAda)
	if err != nil {
		return transaction.Transaction{}, err
	}
	for _, u := range additional {
		body.Inputs = append(body.Inputs, u.Input)
	}
	allInputs := append(append([]provider.UTxO{}, preSelectedUTxOs...), additional...)

	// Step 4: placeholder change output.
	leftover, err := computeLeftoverAmount(body, allInputs)
	if err != nil {
		return transaction.Transaction{}, err
	}
	changeIdx := len(body.Outputs)
	body.Outputs = append(body.Outputs, transaction.NewOutput(changeAddress, leftover))

	// Step 5: placeholder fee from the current size.
	size, err := txSize(assembleTransaction(body, witnesses, unbalanced))
	if err != nil {
		return transaction.Transaction{}, err
	}
	fee := feeForSize(params, size)
	if leftover.Coin < fee {
		return transaction.Transaction{}, fmt.Errorf("balancer: selected inputs do not cover the estimated fee: %w", cerrors.ErrBalanceInsufficient)
	}
	body.Fee = fee
	body.Outputs[changeIdx].Value.Coin = leftover.Coin - fee

	// Step 6: evaluate Plutus redeemers, if any, and recompute the
	// script-data hash over the updated execution units.
	var execUnits []provider.RedeemerExecutionUnits
	if len(witnesses.Redeemers) > 0 {
		evalTx := assembleTransaction(body, witnesses, unbalanced)
		execUnits, err = evaluator.EvaluateTransaction(ctx, evalTx, availableUTxOs)
		if err != nil {
			return transaction.Transaction{}, fmt.Errorf("balancer: %v: %w", err, cerrors.ErrScriptEvaluationFailed)
		}
		witnesses.Redeemers = applyExecutionUnits(witnesses.Redeemers, execUnits)
		sdh, err := transaction.ComputeScriptDataHash(witnesses.Redeemers, witnesses.PlutusData, params.CostModels)
		if err != nil {
			return transaction.Transaction{}, err
		}
		body.ScriptDataHash = &sdh
	}

	// Steps 7-8: iterate fee and change to a fixed point.
	converged := false
	for i := 0; i < maxBalanceIterations; i++ {
		size, err := txSize(assembleTransaction(body, witnesses, unbalanced))
		if err != nil {
			return transaction.Transaction{}, err
		}
		newFee := feeForSize(params, size) + ceilRat(executionCost(execUnits, params.ExecutionUnitPrices))
		if newFee == body.Fee {
			converged = true
			break
		}
		delta := int64(newFee) - int64(body.Fee)
		newChangeCoin := int64(body.Outputs[changeIdx].Value.Coin) - delta
		if newChangeCoin < 0 {
			return transaction.Transaction{}, fmt.Errorf("balancer: selected inputs do not cover the recomputed fee: %w", cerrors.ErrBalanceInsufficient)
		}
		body.Fee = newFee
		body.Outputs[changeIdx].Value.Coin = uint64(newChangeCoin)
	}
	if !converged {
		return transaction.Transaction{}, cerrors.ErrBalanceUnstable
	}
	cardanolog.Logger().Debugf("balancer: fee/change converged at %d lovelace", body.Fee)

	// Step 9: burn dust change into the fee rather than produce a
	// sub-min-ada output.
	changeOut := body.Outputs[changeIdx]
	minAda, err := minAdaForOutput(changeOut, params.CoinsPerUTxOByte)
	if err != nil {
		return transaction.Transaction{}, err
	}
	if changeOut.Value.Coin < minAda && len(changeOut.Value.MultiAsset) == 0 {
		body.Fee += changeOut.Value.Coin
		body.Outputs = append(body.Outputs[:changeIdx], body.Outputs[changeIdx+1:]...)
	}

	final := assembleTransaction(body, witnesses, unbalanced)

	// Step 10: validate the conservation equation.
	ok, err := IsBalanced(final, allInputs, params)
	if err != nil {
		return transaction.Transaction{}, err
	}
	if !ok {
		return transaction.Transaction{}, cerrors.ErrBalancingFailed
	}
	return final, nil
}

// valuesEqual compares two normalized values for exact equality.
func valuesEqual(a, b value.Value) bool {
	if a.Coin != b.Coin {
		return false
	}
	if len(a.MultiAsset) != len(b.MultiAsset) {
		return false
	}
	for policy, assets := range a.MultiAsset {
		bAssets, ok := b.MultiAsset[policy]
		if !ok || len(bAssets) != len(assets) {
			return false
		}
		for name, qty := range assets {
			bq, ok := bAssets[name]
			if !ok || bq.Cmp(qty) != 0 {
				return false
			}
		}
	}
	return true
}

// IsBalanced checks only step 10 of the balancing algorithm: whether tx's
// inputs, mint, withdrawals, and reclaimed deposits exactly cover its
// outputs, fee, posted deposits, and burned mint.
func IsBalanced(tx transaction.Transaction, resolvedInputs []provider.UTxO, params provider.ProtocolParameters) (bool, error) {
	mintPos, mintNeg := splitMint(tx.Body.Mint)

	total := sumUTxOs(resolvedInputs)
	total = value.Add(total, mintPos)

	var paid, reclaimed uint64
	for _, c := range tx.Body.Certificates {
		if c.PostsDeposit() {
			paid += c.Deposit()
		}
		if c.RefundsDeposit() {
			reclaimed += c.Deposit()
		}
	}
	total = value.Add(total, value.NewCoin(withdrawalsTotal(tx.Body.Withdrawals)+reclaimed))

	required := sumOutputs(tx.Body.Outputs)
	required = value.Add(required, mintNeg)
	required = value.Add(required, value.NewCoin(tx.Body.Fee+paid))

	return valuesEqual(total.Normalize(), required.Normalize()), nil
}
