package script

import (
	"fmt"

	"github.com/synnergy-labs/cardano-go/cerrors"
	"github.com/synnergy-labs/cardano-go/hash"
)

// Kind tags which language a Script wraps.
type Kind int

const (
	KindNative Kind = iota
	KindPlutusV1
	KindPlutusV2
	KindPlutusV3
)

// Script is the tagged sum {native_script, plutus_v1, plutus_v2,
// plutus_v3}.
type Script struct {
	kind   Kind
	native NativeScript
	plutus PlutusScript
}

// FromNative wraps a native script.
func FromNative(n NativeScript) Script {
	return Script{kind: KindNative, native: n}
}

// FromPlutus wraps a compiled Plutus script.
func FromPlutus(p PlutusScript) Script {
	var k Kind
	switch p.Version {
	case PlutusV1:
		k = KindPlutusV1
	case PlutusV2:
		k = KindPlutusV2
	case PlutusV3:
		k = KindPlutusV3
	}
	return Script{kind: k, plutus: p}
}

// Kind reports which language s holds.
func (s Script) Kind() Kind { return s.kind }

// Native returns the native script, valid only when Kind() == KindNative.
func (s Script) Native() NativeScript { return s.native }

// Plutus returns the Plutus script, valid only when Kind() is a Plutus
// variant.
func (s Script) Plutus() PlutusScript { return s.plutus }

// Hash dispatches to the appropriate language's hash computation.
func (s Script) Hash() (hash.Hash, error) {
	switch s.kind {
	case KindNative:
		return s.native.Hash()
	case KindPlutusV1, KindPlutusV2, KindPlutusV3:
		return s.plutus.Hash()
	default:
		return hash.Hash{}, fmt.Errorf("script: unknown script kind %d: %w", s.kind, cerrors.ErrInvalidArgument)
	}
}
