package keyhandler

import "github.com/synnergy-labs/cardano-go/hash"

// KeyType distinguishes the two key algebras a handler can expose:
// plain Ed25519 (a raw seed, no further derivation) or BIP-32 ("Ed25519
// BIP32"), which supports hierarchical derivation.
type KeyType int

const (
	KeyTypeEd25519 KeyType = iota
	KeyTypeBIP32
)

// KeyHandler is the abstract signing custodian the transaction builder and
// balancer use to obtain public keys and signatures without ever holding
// key material themselves.
type KeyHandler interface {
	// GetPublicKeys returns the 32-byte Ed25519 public key at each given
	// derivation path, in the same order.
	GetPublicKeys(paths []DerivationPath) ([][]byte, error)

	// Sign returns a 64-byte Ed25519 signature over bodyHash for each
	// given derivation path, in the same order.
	Sign(bodyHash hash.Hash, paths []DerivationPath) ([][]byte, error)

	// GetType reports which key algebra this handler's paths resolve
	// through.
	GetType() KeyType
}
