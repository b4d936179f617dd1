// Package address implements Cardano's credential and address types:
// Shelley base/enterprise/pointer/reward addresses and legacy Byron
// addresses, their binary wire encoding, and their Bech32/Base58 text
// forms.
package address

import (
	"fmt"

	"github.com/synnergy-labs/cardano-go/cbor"
	"github.com/synnergy-labs/cardano-go/cerrors"
	"github.com/synnergy-labs/cardano-go/hash"
)

// CredentialKind tags which half of the sum a Credential carries.
type CredentialKind int

const (
	CredentialKeyHash CredentialKind = iota
	CredentialScriptHash
)

// Credential is the tagged sum {key-hash(28B), script-hash(28B)} embedded
// in addresses and certificates throughout the domain model.
type Credential struct {
	kind CredentialKind
	h    hash.Hash
}

// NewKeyHashCredential wraps a 28-byte key hash as a credential.
func NewKeyHashCredential(h hash.Hash) (Credential, error) {
	if h.Size() != hash.Size28 {
		return Credential{}, fmt.Errorf("address: key hash credential: %w", cerrors.ErrInvalidHashSize)
	}
	return Credential{kind: CredentialKeyHash, h: h}, nil
}

// NewScriptHashCredential wraps a 28-byte script hash as a credential.
func NewScriptHashCredential(h hash.Hash) (Credential, error) {
	if h.Size() != hash.Size28 {
		return Credential{}, fmt.Errorf("address: script hash credential: %w", cerrors.ErrInvalidHashSize)
	}
	return Credential{kind: CredentialScriptHash, h: h}, nil
}

// Kind reports which variant c holds.
func (c Credential) Kind() CredentialKind { return c.kind }

// Hash returns the borrowed 28-byte hash backing c.
func (c Credential) Hash() hash.Hash { return c.h }

// IsScript reports whether c is a script-hash credential.
func (c Credential) IsScript() bool { return c.kind == CredentialScriptHash }

// Equal performs bytewise, kind-aware comparison.
func (c Credential) Equal(other Credential) bool {
	return c.kind == other.kind && c.h.Equal(other.h)
}

// ToCBOR emits c as a generic `[type, hash]` pair, the shape used wherever
// a credential appears standalone outside an address header byte (e.g.
// certificates): type 0 is key-hash, type 1 is script-hash.
func (c Credential) ToCBOR(w *cbor.Writer) error {
	if err := w.StartArray(2); err != nil {
		return err
	}
	if err := w.WriteUint(uint64(c.kind)); err != nil {
		return err
	}
	if err := w.WriteByteString(c.h.Bytes()); err != nil {
		return err
	}
	return w.EndArray()
}

// CredentialFromCBOR parses the `[type, hash]` pair produced by ToCBOR.
func CredentialFromCBOR(r *cbor.Reader) (Credential, error) {
	if _, err := r.StartArray(); err != nil {
		return Credential{}, err
	}
	kind, err := r.ReadUint()
	if err != nil {
		return Credential{}, err
	}
	raw, err := r.ReadByteString()
	if err != nil {
		return Credential{}, err
	}
	if err := r.EndArray(); err != nil {
		return Credential{}, err
	}
	h, err := hash.New(hash.Size28, raw)
	if err != nil {
		return Credential{}, err
	}
	switch kind {
	case 0:
		return NewKeyHashCredential(h)
	case 1:
		return NewScriptHashCredential(h)
	default:
		return Credential{}, fmt.Errorf("address: unknown credential type %d: %w", kind, cerrors.ErrInvalidArgument)
	}
}
