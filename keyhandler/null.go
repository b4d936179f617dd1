package keyhandler

import "github.com/synnergy-labs/cardano-go/hash"

// NullKeyHandler is the test/placeholder custodian: it returns
// deterministic, all-zero key material of the correct size without
// holding any actual signing key. The transaction builder uses it to
// produce placeholder signatures sized to the declared required-signer
// count so fee estimation sees the transaction's true byte length before
// real signing happens.
type NullKeyHandler struct{}

// NewNullKeyHandler returns a NullKeyHandler.
func NewNullKeyHandler() NullKeyHandler { return NullKeyHandler{} }

// GetPublicKeys returns one all-zero 32-byte placeholder key per path.
func (NullKeyHandler) GetPublicKeys(paths []DerivationPath) ([][]byte, error) {
	out := make([][]byte, len(paths))
	for i := range paths {
		out[i] = make([]byte, 32)
	}
	return out, nil
}

// Sign returns one all-zero 64-byte placeholder signature per path,
// ignoring bodyHash.
func (NullKeyHandler) Sign(bodyHash hash.Hash, paths []DerivationPath) ([][]byte, error) {
	out := make([][]byte, len(paths))
	for i := range paths {
		out[i] = make([]byte, 64)
	}
	return out, nil
}

// GetType reports KeyTypeEd25519, since the placeholder signatures it
// produces are sized for plain Ed25519 witnesses.
func (NullKeyHandler) GetType() KeyType { return KeyTypeEd25519 }
