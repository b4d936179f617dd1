// Package certs implements Cardano's certificate sum type and the Conway
// governance-action / voting-procedure types.
package certs

import (
	"fmt"

	"github.com/synnergy-labs/cardano-go/address"
	"github.com/synnergy-labs/cardano-go/cbor"
	"github.com/synnergy-labs/cardano-go/cerrors"
	"github.com/synnergy-labs/cardano-go/hash"
)

// Kind tags which certificate variant a Certificate holds. Covers the
// Shelley-era shapes plus the Conway deposit-bearing registration pair;
// both the pre-Conway StakeRegistration and the Conway Registration are
// modeled, the reader accepting either CBOR tag.
type Kind int

const (
	KindStakeRegistration Kind = iota
	KindStakeDeregistration
	KindStakeDelegation
	KindPoolRetirement
	KindRegistration   // Conway: explicit deposit
	KindDeregistration // Conway: explicit deposit refund
	KindVoteDelegation
	KindDRepRegistration
	KindDRepDeregistration
)

// Cardano's certificate CBOR tags (the first array element).
const (
	tagStakeRegistration   = 0
	tagStakeDeregistration = 1
	tagStakeDelegation     = 2
	tagPoolRetirement      = 4
	tagRegistration        = 7
	tagDeregistration      = 8
	tagVoteDelegation      = 9
	tagDRepRegistration    = 16
	tagDRepDeregistration  = 17
)

// DRep identifies a delegated representative: a credential, or one of the
// two special always-abstain / always-no-confidence reps.
type DRepKind int

const (
	DRepKeyHash DRepKind = iota
	DRepScriptHash
	DRepAlwaysAbstain
	DRepAlwaysNoConfidence
)

// DRep is the tagged sum Cardano's delegation target uses.
type DRep struct {
	Kind DRepKind
	Hash hash.Hash // valid for DRepKeyHash/DRepScriptHash
}

func (d DRep) toCBOR(w *cbor.Writer) error {
	switch d.Kind {
	case DRepKeyHash, DRepScriptHash:
		if err := w.StartArray(2); err != nil {
			return err
		}
		tag := uint64(0)
		if d.Kind == DRepScriptHash {
			tag = 1
		}
		if err := w.WriteUint(tag); err != nil {
			return err
		}
		if err := w.WriteByteString(d.Hash.Bytes()); err != nil {
			return err
		}
		return w.EndArray()
	case DRepAlwaysAbstain, DRepAlwaysNoConfidence:
		if err := w.StartArray(1); err != nil {
			return err
		}
		tag := uint64(2)
		if d.Kind == DRepAlwaysNoConfidence {
			tag = 3
		}
		if err := w.WriteUint(tag); err != nil {
			return err
		}
		return w.EndArray()
	default:
		return fmt.Errorf("certs: unknown drep kind %d: %w", d.Kind, cerrors.ErrInvalidArgument)
	}
}

func drepFromCBOR(r *cbor.Reader) (DRep, error) {
	n, err := r.StartArray()
	if err != nil {
		return DRep{}, err
	}
	tag, err := r.ReadUint()
	if err != nil {
		return DRep{}, err
	}
	var out DRep
	switch tag {
	case 0, 1:
		raw, err := r.ReadByteString()
		if err != nil {
			return DRep{}, err
		}
		h, err := hash.New(hash.Size28, raw)
		if err != nil {
			return DRep{}, err
		}
		out.Hash = h
		if tag == 0 {
			out.Kind = DRepKeyHash
		} else {
			out.Kind = DRepScriptHash
		}
	case 2:
		out.Kind = DRepAlwaysAbstain
	case 3:
		out.Kind = DRepAlwaysNoConfidence
	default:
		return DRep{}, fmt.Errorf("certs: unknown drep tag %d: %w", tag, cerrors.ErrInvalidArgument)
	}
	_ = n
	if err := r.EndArray(); err != nil {
		return DRep{}, err
	}
	return out, nil
}

// Certificate is the tagged sum over every certificate shape this toolkit
// constructs or parses.
type Certificate struct {
	kind Kind

	stakeCredential address.Credential
	poolKeyHash     hash.Hash
	epoch           uint64
	deposit         uint64
	drep            DRep
}

// NewStakeRegistration builds a pre-Conway stake registration certificate
// (no deposit field).
func NewStakeRegistration(cred address.Credential) Certificate {
	return Certificate{kind: KindStakeRegistration, stakeCredential: cred}
}

// NewStakeDeregistration builds a pre-Conway stake deregistration
// certificate.
func NewStakeDeregistration(cred address.Credential) Certificate {
	return Certificate{kind: KindStakeDeregistration, stakeCredential: cred}
}

// NewStakeDelegation builds a stake delegation certificate.
func NewStakeDelegation(cred address.Credential, poolKeyHash hash.Hash) Certificate {
	return Certificate{kind: KindStakeDelegation, stakeCredential: cred, poolKeyHash: poolKeyHash}
}

// NewPoolRetirement builds a pool retirement certificate.
func NewPoolRetirement(poolKeyHash hash.Hash, epoch uint64) Certificate {
	return Certificate{kind: KindPoolRetirement, poolKeyHash: poolKeyHash, epoch: epoch}
}

// NewRegistration builds a Conway stake registration certificate with an
// explicit deposit.
func NewRegistration(cred address.Credential, deposit uint64) Certificate {
	return Certificate{kind: KindRegistration, stakeCredential: cred, deposit: deposit}
}

// NewDeregistration builds a Conway stake deregistration certificate with
// an explicit deposit refund.
func NewDeregistration(cred address.Credential, deposit uint64) Certificate {
	return Certificate{kind: KindDeregistration, stakeCredential: cred, deposit: deposit}
}

// NewVoteDelegation builds a vote delegation certificate.
func NewVoteDelegation(cred address.Credential, drep DRep) Certificate {
	return Certificate{kind: KindVoteDelegation, stakeCredential: cred, drep: drep}
}

// NewDRepRegistration builds a DRep registration certificate.
func NewDRepRegistration(cred address.Credential, deposit uint64) Certificate {
	return Certificate{kind: KindDRepRegistration, stakeCredential: cred, deposit: deposit}
}

// NewDRepDeregistration builds a DRep deregistration certificate.
func NewDRepDeregistration(cred address.Credential, deposit uint64) Certificate {
	return Certificate{kind: KindDRepDeregistration, stakeCredential: cred, deposit: deposit}
}

// Kind reports which variant c holds.
func (c Certificate) Kind() Kind { return c.kind }

// StakeCredential returns c's stake credential, where applicable.
func (c Certificate) StakeCredential() address.Credential { return c.stakeCredential }

// PoolKeyHash returns c's pool key hash, where applicable.
func (c Certificate) PoolKeyHash() hash.Hash { return c.poolKeyHash }

// Epoch returns c's retirement epoch, where applicable.
func (c Certificate) Epoch() uint64 { return c.epoch }

// Deposit returns c's deposit/refund amount, where applicable.
func (c Certificate) Deposit() uint64 { return c.deposit }

// DRep returns c's delegation target, where applicable.
func (c Certificate) DRep() DRep { return c.drep }

// PostsDeposit reports whether c's kind posts a deposit this transaction must
// pay (used by the balancer's implicit-coin computation).
func (c Certificate) PostsDeposit() bool {
	return c.kind == KindRegistration || c.kind == KindDRepRegistration
}

// RefundsDeposit reports whether c's kind refunds a deposit this
// transaction receives back.
func (c Certificate) RefundsDeposit() bool {
	return c.kind == KindDeregistration || c.kind == KindDRepDeregistration
}

// ToCBOR emits c's canonical `[tag, ...]` encoding.
func (c Certificate) ToCBOR(w *cbor.Writer) error {
	switch c.kind {
	case KindStakeRegistration, KindStakeDeregistration:
		tag := uint64(tagStakeRegistration)
		if c.kind == KindStakeDeregistration {
			tag = tagStakeDeregistration
		}
		if err := w.StartArray(2); err != nil {
			return err
		}
		if err := w.WriteUint(tag); err != nil {
			return err
		}
		if err := c.stakeCredential.ToCBOR(w); err != nil {
			return err
		}
		return w.EndArray()
	case KindStakeDelegation:
		if err := w.StartArray(3); err != nil {
			return err
		}
		if err := w.WriteUint(tagStakeDelegation); err != nil {
			return err
		}
		if err := c.stakeCredential.ToCBOR(w); err != nil {
			return err
		}
		if err := w.WriteByteString(c.poolKeyHash.Bytes()); err != nil {
			return err
		}
		return w.EndArray()
	case KindPoolRetirement:
		if err := w.StartArray(3); err != nil {
			return err
		}
		if err := w.WriteUint(tagPoolRetirement); err != nil {
			return err
		}
		if err := w.WriteByteString(c.poolKeyHash.Bytes()); err != nil {
			return err
		}
		if err := w.WriteUint(c.epoch); err != nil {
			return err
		}
		return w.EndArray()
	case KindRegistration, KindDeregistration:
		tag := uint64(tagRegistration)
		if c.kind == KindDeregistration {
			tag = tagDeregistration
		}
		if err := w.StartArray(3); err != nil {
			return err
		}
		if err := w.WriteUint(tag); err != nil {
			return err
		}
		if err := c.stakeCredential.ToCBOR(w); err != nil {
			return err
		}
		if err := w.WriteUint(c.deposit); err != nil {
			return err
		}
		return w.EndArray()
	case KindVoteDelegation:
		if err := w.StartArray(3); err != nil {
			return err
		}
		if err := w.WriteUint(tagVoteDelegation); err != nil {
			return err
		}
		if err := c.stakeCredential.ToCBOR(w); err != nil {
			return err
		}
		return c.drep.toCBOR(w)
	case KindDRepRegistration, KindDRepDeregistration:
		tag := uint64(tagDRepRegistration)
		if c.kind == KindDRepDeregistration {
			tag = tagDRepDeregistration
		}
		if err := w.StartArray(3); err != nil {
			return err
		}
		if err := w.WriteUint(tag); err != nil {
			return err
		}
		if err := c.stakeCredential.ToCBOR(w); err != nil {
			return err
		}
		if err := w.WriteUint(c.deposit); err != nil {
			return err
		}
		return w.EndArray()
	default:
		return fmt.Errorf("certs: unknown certificate kind %d: %w", c.kind, cerrors.ErrUnknownCertificate)
	}
}

// FromCBOR parses a certificate from its CBOR-tagged encoding, accepting
// either stake-registration shape (pre-Conway or Conway)
func FromCBOR(r *cbor.Reader) (Certificate, error) {
	n, err := r.StartArray()
	if err != nil {
		return Certificate{}, err
	}
	tag, err := r.ReadUint()
	if err != nil {
		return Certificate{}, err
	}
	var out Certificate
	switch tag {
	case tagStakeRegistration, tagStakeDeregistration:
		cred, err := address.CredentialFromCBOR(r)
		if err != nil {
			return Certificate{}, err
		}
		if tag == tagStakeRegistration {
			out = NewStakeRegistration(cred)
		} else {
			out = NewStakeDeregistration(cred)
		}
	case tagStakeDelegation:
		cred, err := address.CredentialFromCBOR(r)
		if err != nil {
			return Certificate{}, err
		}
		raw, err := r.ReadByteString()
		if err != nil {
			return Certificate{}, err
		}
		h, err := hash.New(hash.Size28, raw)
		if err != nil {
			return Certificate{}, err
		}
		out = NewStakeDelegation(cred, h)
	case tagPoolRetirement:
		raw, err := r.ReadByteString()
		if err != nil {
			return Certificate{}, err
		}
		h, err := hash.New(hash.Size28, raw)
		if err != nil {
			return Certificate{}, err
		}
		epoch, err := r.ReadUint()
		if err != nil {
			return Certificate{}, err
		}
		out = NewPoolRetirement(h, epoch)
	case tagRegistration, tagDeregistration:
		cred, err := address.CredentialFromCBOR(r)
		if err != nil {
			return Certificate{}, err
		}
		deposit, err := r.ReadUint()
		if err != nil {
			return Certificate{}, err
		}
		if tag == tagRegistration {
			out = NewRegistration(cred, deposit)
		} else {
			out = NewDeregistration(cred, deposit)
		}
	case tagVoteDelegation:
		cred, err := address.CredentialFromCBOR(r)
		if err != nil {
			return Certificate{}, err
		}
		drep, err := drepFromCBOR(r)
		if err != nil {
			return Certificate{}, err
		}
		out = NewVoteDelegation(cred, drep)
	case tagDRepRegistration, tagDRepDeregistration:
		cred, err := address.CredentialFromCBOR(r)
		if err != nil {
			return Certificate{}, err
		}
		deposit, err := r.ReadUint()
		if err != nil {
			return Certificate{}, err
		}
		if tag == tagDRepRegistration {
			out = NewDRepRegistration(cred, deposit)
		} else {
			out = NewDRepDeregistration(cred, deposit)
		}
	default:
		return Certificate{}, fmt.Errorf("certs: unknown certificate tag %d: %w", tag, cerrors.ErrUnknownCertificate)
	}
	_ = n
	if err := r.EndArray(); err != nil {
		return Certificate{}, err
	}
	return out, nil
}
