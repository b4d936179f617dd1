package address

import (
	"fmt"

	"github.com/synnergy-labs/cardano-go/buffer"
	"github.com/synnergy-labs/cardano-go/cerrors"
	"github.com/synnergy-labs/cardano-go/crypto"
	"github.com/synnergy-labs/cardano-go/hash"
)

// Kind tags which of the five address shapes an Address holds.
type Kind int

const (
	KindBase Kind = iota
	KindEnterprise
	KindPointer
	KindReward
	KindByron
)

// Address is the tagged sum over Cardano's address shapes: base (payment +
// stake credential), enterprise (payment only), pointer (payment + stake
// pointer), reward (stake credential only), and legacy Byron.
// Shelley variants carry a Network tag; Byron carries its own network magic
// inside ByronAttributes instead.
type Address struct {
	kind    Kind
	network Network

	payment Credential
	stake   Credential
	pointer Pointer

	byronRoot  hash.Hash
	byronAttrs ByronAttributes
	byronType  byte
}

// NewBase builds a base address from a payment and a stake credential.
func NewBase(network Network, payment, stake Credential) Address {
	return Address{kind: KindBase, network: network, payment: payment, stake: stake}
}

// NewEnterprise builds an enterprise (payment-only) address.
func NewEnterprise(network Network, payment Credential) Address {
	return Address{kind: KindEnterprise, network: network, payment: payment}
}

// NewPointer builds a pointer address from a payment credential and a
// stake pointer.
func NewPointer(network Network, payment Credential, ptr Pointer) Address {
	return Address{kind: KindPointer, network: network, payment: payment, pointer: ptr}
}

// NewReward builds a reward (stake-only) address.
func NewReward(network Network, stake Credential) Address {
	return Address{kind: KindReward, network: network, stake: stake}
}

// Kind reports which shape a holds.
func (a Address) Kind() Kind { return a.kind }

// Network returns a's network tag. For Byron addresses this reflects
// whether ByronAttributes carries mainnet-implicit (no magic) or an
// explicit testnet magic.
func (a Address) Network() Network { return a.network }

// PaymentCredential returns the payment credential for base/enterprise/
// pointer addresses; the zero value otherwise.
func (a Address) PaymentCredential() Credential { return a.payment }

// StakeCredential returns the stake credential for base/reward addresses;
// the zero value otherwise.
func (a Address) StakeCredential() Credential { return a.stake }

// StakePointer returns the pointer for pointer addresses; the zero value
// otherwise.
func (a Address) StakePointer() Pointer { return a.pointer }

// headerByte computes the CIP-19 header byte: high nibble identifies the
// variant (and, for base addresses, which credential kinds), low nibble is
// the network tag.
func (a Address) headerByte() (byte, error) {
	var high byte
	switch a.kind {
	case KindBase:
		switch {
		case !a.payment.IsScript() && !a.stake.IsScript():
			high = 0b0000
		case a.payment.IsScript() && !a.stake.IsScript():
			high = 0b0001
		case !a.payment.IsScript() && a.stake.IsScript():
			high = 0b0010
		default:
			high = 0b0011
		}
	case KindPointer:
		if a.payment.IsScript() {
			high = 0b0101
		} else {
			high = 0b0100
		}
	case KindEnterprise:
		if a.payment.IsScript() {
			high = 0b0111
		} else {
			high = 0b0110
		}
	case KindReward:
		if a.stake.IsScript() {
			high = 0b1111
		} else {
			high = 0b1110
		}
	default:
		return 0, fmt.Errorf("address: header byte undefined for kind %d: %w", a.kind, cerrors.ErrInvalidAddress)
	}
	var net byte
	if a.network == NetworkMainnet {
		net = 1
	}
	return high<<4 | net, nil
}

// ToBuffer emits the canonical binary wire encoding into an owned Buffer: a
// Shelley header byte followed by credential bytes / pointer varints, or
// the Byron nested-CBOR encoding for Byron addresses, per spec.md §4.E's
// to_bytes(entity) → buffer contract.
func (a Address) ToBuffer() (*buffer.Buffer, error) {
	if a.kind == KindByron {
		raw, err := EncodeByron(a.byronRoot, a.byronAttrs, a.byronType)
		if err != nil {
			return nil, err
		}
		return buffer.NewFromBytes(raw), nil
	}
	header, err := a.headerByte()
	if err != nil {
		return nil, err
	}
	out := buffer.New(1 + 28 + 28)
	out.AppendByte(header)
	switch a.kind {
	case KindBase:
		out.Append(a.payment.Hash().Bytes())
		out.Append(a.stake.Hash().Bytes())
	case KindEnterprise:
		out.Append(a.payment.Hash().Bytes())
	case KindPointer:
		out.Append(a.payment.Hash().Bytes())
		out.Append(encodeVarUint(a.pointer.Slot))
		out.Append(encodeVarUint(a.pointer.TxIndex))
		out.Append(encodeVarUint(a.pointer.CertIndex))
	case KindReward:
		out.Append(a.stake.Hash().Bytes())
	}
	return out, nil
}

// ToBytes emits the canonical binary wire encoding as a plain byte slice,
// a thin convenience over ToBuffer for callers that don't need the owned
// Buffer (CBOR embedding, hex display, Bech32/Base58 encoding).
func (a Address) ToBytes() ([]byte, error) {
	buf, err := a.ToBuffer()
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// FromBytes parses an Address from its canonical binary encoding,
// dispatching on the high nibble of the first byte: the CIP-19 Shelley
// header nibbles select the Shelley variants, and 0b1000 (the first byte of
// a Byron address's outer two-element CBOR array, 0x82) is handed to
// DecodeByron.
func FromBytes(data []byte) (Address, error) {
	if len(data) < 1 {
		return Address{}, fmt.Errorf("address: empty input: %w", cerrors.ErrInvalidAddress)
	}
	header := data[0]
	high := header >> 4
	net := header & 0x0f
	var network Network
	if net == 1 {
		network = NetworkMainnet
	} else {
		network = NetworkTestnet
	}

	switch high {
	case 0b0000, 0b0001, 0b0010, 0b0011:
		if len(data) != 1+28+28 {
			return Address{}, fmt.Errorf("address: base address wrong length %d: %w", len(data), cerrors.ErrInvalidAddress)
		}
		payment, err := credentialFromRaw(high&0b0001 != 0, data[1:29])
		if err != nil {
			return Address{}, err
		}
		stake, err := credentialFromRaw(high&0b0010 != 0, data[29:57])
		if err != nil {
			return Address{}, err
		}
		return NewBase(network, payment, stake), nil
	case 0b0100, 0b0101:
		if len(data) < 1+28+3 {
			return Address{}, fmt.Errorf("address: pointer address too short: %w", cerrors.ErrInvalidAddress)
		}
		payment, err := credentialFromRaw(high == 0b0101, data[1:29])
		if err != nil {
			return Address{}, err
		}
		rest := data[29:]
		slot, n1, err := decodeVarUint(rest)
		if err != nil {
			return Address{}, err
		}
		rest = rest[n1:]
		txIdx, n2, err := decodeVarUint(rest)
		if err != nil {
			return Address{}, err
		}
		rest = rest[n2:]
		certIdx, n3, err := decodeVarUint(rest)
		if err != nil {
			return Address{}, err
		}
		if n1+n2+n3+29 != len(data) {
			return Address{}, fmt.Errorf("address: pointer address trailing bytes: %w", cerrors.ErrInvalidAddress)
		}
		return NewPointer(network, payment, Pointer{Slot: slot, TxIndex: txIdx, CertIndex: certIdx}), nil
	case 0b0110, 0b0111:
		if len(data) != 1+28 {
			return Address{}, fmt.Errorf("address: enterprise address wrong length %d: %w", len(data), cerrors.ErrInvalidAddress)
		}
		payment, err := credentialFromRaw(high == 0b0111, data[1:29])
		if err != nil {
			return Address{}, err
		}
		return NewEnterprise(network, payment), nil
	case 0b1110, 0b1111:
		if len(data) != 1+28 {
			return Address{}, fmt.Errorf("address: reward address wrong length %d: %w", len(data), cerrors.ErrInvalidAddress)
		}
		stake, err := credentialFromRaw(high == 0b1111, data[1:29])
		if err != nil {
			return Address{}, err
		}
		return NewReward(network, stake), nil
	case 0b1000:
		return DecodeByron(data)
	default:
		return Address{}, fmt.Errorf("address: unknown header nibble %#x: %w", high, cerrors.ErrInvalidAddress)
	}
}

func credentialFromRaw(isScript bool, raw []byte) (Credential, error) {
	h, err := hash.New(hash.Size28, raw)
	if err != nil {
		return Credential{}, err
	}
	if isScript {
		return NewScriptHashCredential(h)
	}
	return NewKeyHashCredential(h)
}

// bech32HRP resolves the human-readable prefix for a's variant and network
//.
func (a Address) bech32HRP() string {
	switch a.kind {
	case KindReward:
		if a.network == NetworkMainnet {
			return "stake"
		}
		return "stake_test"
	default:
		if a.network == NetworkMainnet {
			return "addr"
		}
		return "addr_test"
	}
}

// String renders a in its native human-facing text form: Bech32 for
// Shelley variants, Base58 for Byron.
func (a Address) String() string {
	s, err := a.ToBech32()
	if err == nil {
		return s
	}
	s, err = a.ToBase58()
	if err == nil {
		return s
	}
	return ""
}

// ToBech32 renders Shelley address variants in Bech32.
func (a Address) ToBech32() (string, error) {
	if a.kind == KindByron {
		return "", fmt.Errorf("address: byron addresses use base58, not bech32: %w", cerrors.ErrInvalidAddress)
	}
	raw, err := a.ToBytes()
	if err != nil {
		return "", err
	}
	return crypto.Bech32Encode(a.bech32HRP(), raw)
}

// ToBase58 renders Byron addresses in Base58. Non-Byron
// addresses do not have a Base58 form.
func (a Address) ToBase58() (string, error) {
	if a.kind != KindByron {
		return "", fmt.Errorf("address: only byron addresses use base58: %w", cerrors.ErrInvalidAddress)
	}
	raw, err := a.ToBytes()
	if err != nil {
		return "", err
	}
	return crypto.Base58Encode(raw), nil
}

// FromString parses either a Bech32 or Base58 address string: Bech32
// decoding is attempted first, and Base58 is tried only when that fails.
func FromString(s string) (Address, error) {
	if _, raw, err := crypto.Bech32Decode(s); err == nil {
		return FromBytes(raw)
	}
	raw, err := crypto.Base58Decode(s)
	if err != nil {
		return Address{}, fmt.Errorf("address: %q is neither valid bech32 nor base58: %w", s, cerrors.ErrInvalidAddress)
	}
	return FromBytes(raw)
}
