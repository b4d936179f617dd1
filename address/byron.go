package address

import (
	"fmt"

	"github.com/synnergy-labs/cardano-go/cbor"
	"github.com/synnergy-labs/cardano-go/cerrors"
	"github.com/synnergy-labs/cardano-go/crypto"
	"github.com/synnergy-labs/cardano-go/hash"
)

// ByronAttributes carries a legacy Byron address's optional derivation-path
// ciphertext and optional network magic (original_source
// `byron_address_attributes.h`), modeled as a real struct rather than
// collapsed to raw bytes.
type ByronAttributes struct {
	DerivationPathCiphertext []byte // nil if absent
	HasNetworkMagic          bool
	NetworkMagic             uint32
}

// byronAttrKeyDerivationPath and byronAttrKeyNetworkMagic are the CBOR map
// keys Byron's address attribute map uses.
const (
	byronAttrKeyDerivationPath = 1
	byronAttrKeyNetworkMagic   = 2
)

func (a ByronAttributes) toCBOR(w *cbor.Writer) error {
	n := 0
	if a.DerivationPathCiphertext != nil {
		n++
	}
	if a.HasNetworkMagic {
		n++
	}
	if err := w.StartMap(n); err != nil {
		return err
	}
	if a.DerivationPathCiphertext != nil {
		if err := w.WriteUint(byronAttrKeyDerivationPath); err != nil {
			return err
		}
		if err := w.WriteByteString(a.DerivationPathCiphertext); err != nil {
			return err
		}
	}
	if a.HasNetworkMagic {
		if err := w.WriteUint(byronAttrKeyNetworkMagic); err != nil {
			return err
		}
		// Network magic is itself embedded as CBOR-encoded bytes, per the
		// Byron wire format (an attribute value is always a byte string).
		inner := cbor.NewWriter()
		if err := inner.WriteUint(uint64(a.NetworkMagic)); err != nil {
			return err
		}
		if err := w.WriteByteString(inner.Bytes()); err != nil {
			return err
		}
	}
	return w.EndMap()
}

func byronAttributesFromCBOR(r *cbor.Reader) (ByronAttributes, error) {
	var out ByronAttributes
	n, err := r.StartMap()
	if err != nil {
		return out, err
	}
	for i := 0; i < n; i++ {
		key, err := r.ReadUint()
		if err != nil {
			return out, err
		}
		val, err := r.ReadByteString()
		if err != nil {
			return out, err
		}
		switch key {
		case byronAttrKeyDerivationPath:
			out.DerivationPathCiphertext = val
		case byronAttrKeyNetworkMagic:
			inner := cbor.NewReader(val)
			magic, err := inner.ReadUint()
			if err != nil {
				return out, err
			}
			out.HasNetworkMagic = true
			out.NetworkMagic = uint32(magic)
		}
	}
	if err := r.EndMap(); err != nil {
		return out, err
	}
	return out, nil
}

// byronAddrTypePubKey is the sole address type this toolkit constructs;
// redeem and script Byron address types are legacy and out of scope.
const byronAddrTypePubKey = 0

// ByronRootFromPublicKey computes a Byron address root hash:
// Blake2b-224(SHA3-256(cbor([type, spending_data, attrs]))) where
// spending_data is `[0, pubkey]` for a simple verification-key address
//.
func ByronRootFromPublicKey(pubKey []byte, attrs ByronAttributes) (hash.Hash, error) {
	spendingData := cbor.NewWriter()
	if err := spendingData.StartArray(2); err != nil {
		return hash.Hash{}, err
	}
	if err := spendingData.WriteUint(0); err != nil {
		return hash.Hash{}, err
	}
	if err := spendingData.WriteByteString(pubKey); err != nil {
		return hash.Hash{}, err
	}
	if err := spendingData.EndArray(); err != nil {
		return hash.Hash{}, err
	}

	outer := cbor.NewWriter()
	if err := outer.StartArray(3); err != nil {
		return hash.Hash{}, err
	}
	if err := outer.WriteUint(byronAddrTypePubKey); err != nil {
		return hash.Hash{}, err
	}
	if err := outer.WritePreencoded(spendingData.Bytes()); err != nil {
		return hash.Hash{}, err
	}
	if err := attrs.toCBOR(outer); err != nil {
		return hash.Hash{}, err
	}
	if err := outer.EndArray(); err != nil {
		return hash.Hash{}, err
	}

	digest := crypto.Blake2b224(crypto.SHA3_256(outer.Bytes()))
	return hash.New(hash.Size28, digest)
}

// NewByron constructs a Byron address from its root hash, attributes, and
// address type tag.
func NewByron(root hash.Hash, attrs ByronAttributes, addrType byte) (Address, error) {
	if root.Size() != hash.Size28 {
		return Address{}, fmt.Errorf("address: byron root: %w", cerrors.ErrInvalidHashSize)
	}
	network := NetworkMainnet
	if attrs.HasNetworkMagic {
		network = NetworkTestnet
	}
	return Address{kind: KindByron, network: network, byronRoot: root, byronAttrs: attrs, byronType: addrType}, nil
}

// ByronRoot returns the 28-byte root hash of a Byron address.
func (a Address) ByronRoot() hash.Hash { return a.byronRoot }

// ByronAttrs returns a Byron address's attributes.
func (a Address) ByronAttrs() ByronAttributes { return a.byronAttrs }

// EncodeByron produces the Byron nested-CBOR + CRC32 binary encoding:
// cbor([tag24(cbor([root, attrs, type])), crc32(inner)]). It returns the
// raw bytes; the Base58 text form is applied by Address.ToBase58.
func EncodeByron(root hash.Hash, attrs ByronAttributes, addrType byte) ([]byte, error) {
	inner := cbor.NewWriter()
	if err := inner.StartArray(3); err != nil {
		return nil, err
	}
	if err := inner.WriteByteString(root.Bytes()); err != nil {
		return nil, err
	}
	if err := attrs.toCBOR(inner); err != nil {
		return nil, err
	}
	if err := inner.WriteUint(uint64(addrType)); err != nil {
		return nil, err
	}
	if err := inner.EndArray(); err != nil {
		return nil, err
	}
	innerBytes := inner.Bytes()

	outer := cbor.NewWriter()
	if err := outer.StartArray(2); err != nil {
		return nil, err
	}
	if err := outer.WriteTag(cbor.TagEmbeddedCBOR); err != nil {
		return nil, err
	}
	if err := outer.WriteByteString(innerBytes); err != nil {
		return nil, err
	}
	if err := outer.WriteUint(uint64(crypto.CRC32IEEE(innerBytes))); err != nil {
		return nil, err
	}
	if err := outer.EndArray(); err != nil {
		return nil, err
	}
	return outer.Bytes(), nil
}

// DecodeByron parses the Byron nested-CBOR encoding produced by
// EncodeByron.
func DecodeByron(data []byte) (Address, error) {
	r := cbor.NewReader(data)
	if _, err := r.StartArray(); err != nil {
		return Address{}, err
	}
	tag, err := r.ReadTag()
	if err != nil {
		return Address{}, err
	}
	if tag != cbor.TagEmbeddedCBOR {
		return Address{}, fmt.Errorf("address: byron payload tag %d, expected %d: %w", tag, cbor.TagEmbeddedCBOR, cerrors.ErrInvalidAddress)
	}
	innerBytes, err := r.ReadByteString()
	if err != nil {
		return Address{}, err
	}
	crc, err := r.ReadUint()
	if err != nil {
		return Address{}, err
	}
	if err := r.EndArray(); err != nil {
		return Address{}, err
	}
	if !r.Finished() {
		return Address{}, fmt.Errorf("address: byron trailing bytes: %w", cerrors.ErrInvalidAddress)
	}
	if uint32(crc) != crypto.CRC32IEEE(innerBytes) {
		return Address{}, fmt.Errorf("address: byron crc mismatch: %w", cerrors.ErrChecksumMismatch)
	}

	inner := cbor.NewEmbeddedReader(innerBytes)
	if _, err := inner.StartArray(); err != nil {
		return Address{}, err
	}
	rootRaw, err := inner.ReadByteString()
	if err != nil {
		return Address{}, err
	}
	attrs, err := byronAttributesFromCBOR(inner)
	if err != nil {
		return Address{}, err
	}
	addrType, err := inner.ReadUint()
	if err != nil {
		return Address{}, err
	}
	if err := inner.EndArray(); err != nil {
		return Address{}, err
	}
	root, err := hash.New(hash.Size28, rootRaw)
	if err != nil {
		return Address{}, err
	}
	return NewByron(root, attrs, byte(addrType))
}
