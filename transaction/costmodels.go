package transaction

import (
	"bytes"
	"sort"

	"github.com/synnergy-labs/cardano-go/cbor"
)

// LanguageVersion identifies which Plutus language a cost model applies
// to.
type LanguageVersion int

const (
	LanguagePlutusV1 LanguageVersion = iota
	LanguagePlutusV2
	LanguagePlutusV3
)

// CostModels maps a language version to its ordered sequence of signed
// cost-model parameters.
type CostModels struct {
	Models map[LanguageVersion][]int64
}

// NewCostModels builds an empty CostModels.
func NewCostModels() CostModels {
	return CostModels{Models: make(map[LanguageVersion][]int64)}
}

// Set records the cost-model parameters for a language version.
func (c *CostModels) Set(lang LanguageVersion, params []int64) {
	c.Models[lang] = params
}

// languageViewKeyBytes returns the canonical CBOR encoding of a language's
// map key in the language-views map. Only Plutus V1 is keyed by a
// byte string wrapping the single language-tag byte — a historical ledger
// quirk the hash must still reproduce; V2 and V3 are keyed by their plain
// language-tag integer, with no byte-string wrapping.
func languageViewKeyBytes(lang LanguageVersion) []byte {
	w := cbor.NewWriter()
	switch lang {
	case LanguagePlutusV1:
		_ = w.WriteByteString([]byte{0x00})
	case LanguagePlutusV2:
		_ = w.WriteUint(1)
	case LanguagePlutusV3:
		_ = w.WriteUint(2)
	default:
		return nil
	}
	return w.Bytes()
}

// writeLanguageViews emits the Cardano-specific "language views" map used
// only by the script-data hash: language-version key (V1: byte string,
// V2/V3: plain integer) -> cost-model bytes, with Plutus V1 double-encoded
// (the cost-model array is itself wrapped in a CBOR byte string) for
// historical compatibility with an old ledger bug that the hash must still
// reproduce. Keys are emitted in canonical (encoded-key lexicographic)
// order per the writer's contract, since it does not re-sort on its own.
func writeLanguageViews(w *cbor.Writer, models CostModels) error {
	present := presentLanguagesSorted(models)
	sort.Slice(present, func(i, j int) bool {
		return bytes.Compare(languageViewKeyBytes(present[i]), languageViewKeyBytes(present[j])) < 0
	})
	if err := w.StartMap(len(present)); err != nil {
		return err
	}
	for _, lang := range present {
		if err := w.WritePreencoded(languageViewKeyBytes(lang)); err != nil {
			return err
		}
		params := models.Models[lang]
		if lang == LanguagePlutusV1 {
			inner := cbor.NewWriter()
			if err := writeIntArray(inner, params); err != nil {
				return err
			}
			if err := w.WriteByteString(inner.Bytes()); err != nil {
				return err
			}
			continue
		}
		if err := writeIntArray(w, params); err != nil {
			return err
		}
	}
	return w.EndMap()
}

func writeIntArray(w *cbor.Writer, values []int64) error {
	if err := w.StartArray(len(values)); err != nil {
		return err
	}
	for _, v := range values {
		if err := w.WriteInt64(v); err != nil {
			return err
		}
	}
	return w.EndArray()
}

func presentLanguagesSorted(models CostModels) []LanguageVersion {
	var out []LanguageVersion
	for _, lang := range []LanguageVersion{LanguagePlutusV1, LanguagePlutusV2, LanguagePlutusV3} {
		if _, ok := models.Models[lang]; ok {
			out = append(out, lang)
		}
	}
	return out
}
