package keyhandler

import (
	"fmt"

	"github.com/synnergy-labs/cardano-go/cardanolog"
	"github.com/synnergy-labs/cardano-go/cerrors"
	"github.com/synnergy-labs/cardano-go/crypto"
	"github.com/synnergy-labs/cardano-go/hash"
)

// SoftwareKeyHandler is an in-memory custodian over either a single raw
// Ed25519 seed or a BIP-32 extended key capable of CIP-1852 derivation,
// supporting both the full five-level CIP-1852 hierarchy and a flat
// raw-seed (non-hierarchical) alternative.
type SoftwareKeyHandler struct {
	seed []byte                     // set in Ed25519 mode, nil otherwise
	root *crypto.ExtendedPrivateKey // set in BIP32 mode, nil otherwise
}

// NewSoftwareKeyHandlerFromSeed builds a handler over a single raw 32-byte
// Ed25519 seed. It has no derivation hierarchy: every requested path
// resolves to the same key, the "raw seed" alternative to BIP-32
// hierarchical derivation.
func NewSoftwareKeyHandlerFromSeed(seed []byte) (*SoftwareKeyHandler, error) {
	if len(seed) != crypto.Ed25519SeedSize {
		return nil, fmt.Errorf("keyhandler: ed25519 seed must be %d bytes: %w", crypto.Ed25519SeedSize, cerrors.ErrInvalidKeySize)
	}
	owned := make([]byte, len(seed))
	copy(owned, seed)
	cardanolog.Logger().Debug("keyhandler: constructed from raw ed25519 seed")
	return &SoftwareKeyHandler{seed: owned}, nil
}

// NewSoftwareKeyHandlerFromRootKey builds a handler over an already-derived
// BIP-32 extended key, supporting the full CIP-1852 hierarchy.
func NewSoftwareKeyHandlerFromRootKey(root *crypto.ExtendedPrivateKey) *SoftwareKeyHandler {
	cardanolog.Logger().Debug("keyhandler: constructed from bip32 root key")
	return &SoftwareKeyHandler{root: root}
}

// NewSoftwareKeyHandlerFromMnemonic derives a CIP-1852 root key from a
// BIP-39 mnemonic and optional passphrase, the construction path
// cardano-serialization-lib calls "from_bip39_entropy".
func NewSoftwareKeyHandlerFromMnemonic(mnemonic, passphrase string) (*SoftwareKeyHandler, error) {
	entropy, err := crypto.EntropyFromMnemonic(mnemonic)
	if err != nil {
		return nil, err
	}
	root, err := crypto.NewMasterKeyFromSeed(entropy, []byte(passphrase))
	if err != nil {
		return nil, err
	}
	return NewSoftwareKeyHandlerFromRootKey(root), nil
}

// rootKeyBytes serializes a BIP-32 root key as KL||KR||chain_code, the
// plaintext an EMIP-003 envelope wraps.
func rootKeyBytes(root *crypto.ExtendedPrivateKey) []byte {
	out := make([]byte, 0, 96)
	out = append(out, root.KL[:]...)
	out = append(out, root.KR[:]...)
	out = append(out, root.ChainCode[:]...)
	return out
}

func rootKeyFromBytes(raw []byte) (*crypto.ExtendedPrivateKey, error) {
	if len(raw) != 96 {
		return nil, fmt.Errorf("keyhandler: decrypted root key must be 96 bytes, got %d: %w", len(raw), cerrors.ErrInvalidKeySize)
	}
	root := &crypto.ExtendedPrivateKey{}
	copy(root.KL[:], raw[0:32])
	copy(root.KR[:], raw[32:64])
	copy(root.ChainCode[:], raw[64:96])
	return root, nil
}

// EncryptRootKey wraps the handler's BIP-32 root key in an EMIP-003
// envelope under passphrase, for storage at rest. Only valid in BIP-32
// mode.
func (h *SoftwareKeyHandler) EncryptRootKey(passphrase []byte) ([]byte, error) {
	if h.root == nil {
		return nil, fmt.Errorf("keyhandler: EncryptRootKey requires a BIP-32 handler: %w", cerrors.ErrInvalidArgument)
	}
	return crypto.EMIP003Encrypt(passphrase, rootKeyBytes(h.root))
}

// NewSoftwareKeyHandlerFromEncryptedRootKey decrypts an EMIP-003 envelope
// produced by EncryptRootKey and builds a BIP-32 handler from the
// recovered root key.
func NewSoftwareKeyHandlerFromEncryptedRootKey(envelope, passphrase []byte) (*SoftwareKeyHandler, error) {
	raw, err := crypto.EMIP003Decrypt(passphrase, envelope)
	if err != nil {
		return nil, err
	}
	root, err := rootKeyFromBytes(raw)
	if err != nil {
		return nil, err
	}
	return NewSoftwareKeyHandlerFromRootKey(root), nil
}

func (h *SoftwareKeyHandler) deriveBIP32(path DerivationPath) (*crypto.ExtendedPrivateKey, error) {
	key := h.root
	for _, idx := range path.indices() {
		next, err := key.Derive(idx)
		if err != nil {
			return nil, err
		}
		key = next
	}
	return key, nil
}

// GetPublicKeys implements KeyHandler.
func (h *SoftwareKeyHandler) GetPublicKeys(paths []DerivationPath) ([][]byte, error) {
	out := make([][]byte, len(paths))
	for i, p := range paths {
		if h.seed != nil {
			pub, err := crypto.Ed25519PublicKeyFromSeed(h.seed)
			if err != nil {
				return nil, err
			}
			out[i] = pub
			continue
		}
		key, err := h.deriveBIP32(p)
		if err != nil {
			return nil, err
		}
		pub, err := key.PublicKey()
		if err != nil {
			return nil, err
		}
		out[i] = pub
	}
	return out, nil
}

// Sign implements KeyHandler.
func (h *SoftwareKeyHandler) Sign(bodyHash hash.Hash, paths []DerivationPath) ([][]byte, error) {
	msg := bodyHash.Bytes()
	out := make([][]byte, len(paths))
	for i := range paths {
		if h.seed != nil {
			sig, err := crypto.Ed25519Sign(h.seed, msg)
			if err != nil {
				return nil, err
			}
			out[i] = sig
			continue
		}
		key, err := h.deriveBIP32(paths[i])
		if err != nil {
			return nil, err
		}
		sig, err := key.Sign(msg)
		if err != nil {
			return nil, err
		}
		out[i] = sig
	}
	return out, nil
}

// GetType implements KeyHandler.
func (h *SoftwareKeyHandler) GetType() KeyType {
	if h.seed != nil {
		return KeyTypeEd25519
	}
	return KeyTypeBIP32
}
