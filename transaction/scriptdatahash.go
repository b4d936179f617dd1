package transaction

import (
	"github.com/synnergy-labs/cardano-go/cbor"
	"github.com/synnergy-labs/cardano-go/crypto"
	"github.com/synnergy-labs/cardano-go/hash"
	"github.com/synnergy-labs/cardano-go/plutusdata"
)

// ComputeScriptDataHash computes the "script integrity hash" carried in a
// transaction body's script_data_hash field, per the three cases the
// ledger defines: no redeemers, redeemers with no datums, and redeemers
// with datums.
//
// With redeemers present: Blake2b-256 of canonical_cbor(redeemers) ||
// canonical_cbor(datums) (datums omitted entirely when empty) ||
// language_views(cost_models).
//
// With datums but no redeemers (a legacy shape some scripts still
// require): Blake2b-256 of {} || canonical_cbor(datums) || {}.
//
// With neither, the field is absent; callers should not invoke this
// function in that case.
func ComputeScriptDataHash(redeemers []Redeemer, datums []plutusdata.Data, models CostModels) (hash.Hash, error) {
	w := cbor.NewWriter()
	if len(redeemers) > 0 {
		if err := writeRedeemers(w, redeemers); err != nil {
			return hash.Hash{}, err
		}
		if len(datums) > 0 {
			if err := writeDatumSet(w, datums); err != nil {
				return hash.Hash{}, err
			}
		}
		if err := writeLanguageViews(w, models); err != nil {
			return hash.Hash{}, err
		}
	} else {
		if err := writeEmptyMap(w); err != nil {
			return hash.Hash{}, err
		}
		if err := writeDatumSet(w, datums); err != nil {
			return hash.Hash{}, err
		}
		if err := writeEmptyMap(w); err != nil {
			return hash.Hash{}, err
		}
	}
	digest := crypto.Blake2b256(w.Bytes())
	return hash.New(hash.Size32, digest)
}

func writeEmptyMap(w *cbor.Writer) error {
	if err := w.StartMap(0); err != nil {
		return err
	}
	return w.EndMap()
}

func writeDatumSet(w *cbor.Writer, datums []plutusdata.Data) error {
	if err := w.StartArray(len(datums)); err != nil {
		return err
	}
	for _, d := range datums {
		if err := d.ToCBOR(w); err != nil {
			return err
		}
	}
	return w.EndArray()
}
