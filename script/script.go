// Package script implements Cardano's script sum type: native scripts (a
// small tree of sig/all/any/n-of-k/time-lock nodes) and the three Plutus
// language versions, plus their content-addressed hashing.
package script

import (
	"fmt"

	"github.com/synnergy-labs/cardano-go/cbor"
	"github.com/synnergy-labs/cardano-go/cerrors"
	"github.com/synnergy-labs/cardano-go/hash"
)

// NativeKind tags which native-script tree node a NativeScript holds.
type NativeKind int

const (
	NativeSig NativeKind = iota
	NativeAllOf
	NativeAnyOf
	NativeAtLeast
	NativeInvalidBefore
	NativeInvalidAfter
)

// Cardano's native script CBOR type tags (the first array element).
const (
	tagSig           = 0
	tagAllOf         = 1
	tagAnyOf         = 2
	tagAtLeast       = 3
	tagInvalidBefore = 4
	tagInvalidAfter  = 5
)

// NativeScript is a node in the native-script tree: a key-hash leaf
// (sig), an all-of/any-of/n-of-k branch over child scripts, or a
// validity-interval time lock.
type NativeScript struct {
	Kind NativeKind

	KeyHash hash.Hash // Kind == NativeSig

	Scripts []NativeScript // Kind == NativeAllOf/NativeAnyOf/NativeAtLeast
	AtLeast uint32         // Kind == NativeAtLeast

	Slot uint64 // Kind == NativeInvalidBefore/NativeInvalidAfter
}

// Sig builds a signature leaf over a 28-byte key hash.
func Sig(keyHash hash.Hash) NativeScript {
	return NativeScript{Kind: NativeSig, KeyHash: keyHash}
}

// AllOf requires every child script to be satisfied.
func AllOf(children ...NativeScript) NativeScript {
	return NativeScript{Kind: NativeAllOf, Scripts: children}
}

// AnyOf requires at least one child script to be satisfied.
func AnyOf(children ...NativeScript) NativeScript {
	return NativeScript{Kind: NativeAnyOf, Scripts: children}
}

// AtLeastN requires at least n of the child scripts to be satisfied.
func AtLeastN(n uint32, children ...NativeScript) NativeScript {
	return NativeScript{Kind: NativeAtLeast, AtLeast: n, Scripts: children}
}

// InvalidBefore is satisfied only at or after the given slot.
func InvalidBefore(slot uint64) NativeScript {
	return NativeScript{Kind: NativeInvalidBefore, Slot: slot}
}

// InvalidAfter is satisfied only before the given slot.
func InvalidAfter(slot uint64) NativeScript {
	return NativeScript{Kind: NativeInvalidAfter, Slot: slot}
}

// ToCBOR emits the `[type_tag, ...]` encoding.
func (n NativeScript) ToCBOR(w *cbor.Writer) error {
	switch n.Kind {
	case NativeSig:
		if err := w.StartArray(2); err != nil {
			return err
		}
		if err := w.WriteUint(tagSig); err != nil {
			return err
		}
		if err := w.WriteByteString(n.KeyHash.Bytes()); err != nil {
			return err
		}
		return w.EndArray()
	case NativeAllOf, NativeAnyOf:
		tag := uint64(tagAllOf)
		if n.Kind == NativeAnyOf {
			tag = tagAnyOf
		}
		if err := w.StartArray(2); err != nil {
			return err
		}
		if err := w.WriteUint(tag); err != nil {
			return err
		}
		if err := w.StartArray(len(n.Scripts)); err != nil {
			return err
		}
		for _, child := range n.Scripts {
			if err := child.ToCBOR(w); err != nil {
				return err
			}
		}
		if err := w.EndArray(); err != nil {
			return err
		}
		return w.EndArray()
	case NativeAtLeast:
		if err := w.StartArray(3); err != nil {
			return err
		}
		if err := w.WriteUint(tagAtLeast); err != nil {
			return err
		}
		if err := w.WriteUint(uint64(n.AtLeast)); err != nil {
			return err
		}
		if err := w.StartArray(len(n.Scripts)); err != nil {
			return err
		}
		for _, child := range n.Scripts {
			if err := child.ToCBOR(w); err != nil {
				return err
			}
		}
		if err := w.EndArray(); err != nil {
			return err
		}
		return w.EndArray()
	case NativeInvalidBefore, NativeInvalidAfter:
		tag := uint64(tagInvalidBefore)
		if n.Kind == NativeInvalidAfter {
			tag = tagInvalidAfter
		}
		if err := w.StartArray(2); err != nil {
			return err
		}
		if err := w.WriteUint(tag); err != nil {
			return err
		}
		if err := w.WriteUint(n.Slot); err != nil {
			return err
		}
		return w.EndArray()
	default:
		return fmt.Errorf("script: unknown native script kind %d: %w", n.Kind, cerrors.ErrInvalidArgument)
	}
}

// NativeFromCBOR parses the `[type_tag, ...]` encoding produced by ToCBOR.
func NativeFromCBOR(r *cbor.Reader) (NativeScript, error) {
	count, err := r.StartArray()
	if err != nil {
		return NativeScript{}, err
	}
	tag, err := r.ReadUint()
	if err != nil {
		return NativeScript{}, err
	}
	var out NativeScript
	switch tag {
	case tagSig:
		raw, err := r.ReadByteString()
		if err != nil {
			return NativeScript{}, err
		}
		h, err := hash.New(hash.Size28, raw)
		if err != nil {
			return NativeScript{}, err
		}
		out = Sig(h)
	case tagAllOf, tagAnyOf:
		children, err := readScriptList(r)
		if err != nil {
			return NativeScript{}, err
		}
		if tag == tagAllOf {
			out = AllOf(children...)
		} else {
			out = AnyOf(children...)
		}
	case tagAtLeast:
		n, err := r.ReadUint()
		if err != nil {
			return NativeScript{}, err
		}
		children, err := readScriptList(r)
		if err != nil {
			return NativeScript{}, err
		}
		out = AtLeastN(uint32(n), children...)
	case tagInvalidBefore, tagInvalidAfter:
		slot, err := r.ReadUint()
		if err != nil {
			return NativeScript{}, err
		}
		if tag == tagInvalidBefore {
			out = InvalidBefore(slot)
		} else {
			out = InvalidAfter(slot)
		}
	default:
		return NativeScript{}, fmt.Errorf("script: unknown native script type tag %d: %w", tag, cerrors.ErrInvalidArgument)
	}
	_ = count
	if err := r.EndArray(); err != nil {
		return NativeScript{}, err
	}
	return out, nil
}

func readScriptList(r *cbor.Reader) ([]NativeScript, error) {
	n, err := r.StartArray()
	if err != nil {
		return nil, err
	}
	out := make([]NativeScript, 0, n)
	for i := 0; i < n; i++ {
		child, err := NativeFromCBOR(r)
		if err != nil {
			return nil, err
		}
		out = append(out, child)
	}
	if err := r.EndArray(); err != nil {
		return nil, err
	}
	return out, nil
}
