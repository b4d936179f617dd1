package script

import (
	"github.com/synnergy-labs/cardano-go/cbor"
	"github.com/synnergy-labs/cardano-go/crypto"
	"github.com/synnergy-labs/cardano-go/hash"
)

// languageTagNative is the language-tag byte prepended before hashing a
// native script.
const languageTagNative = 0x00

// Hash computes the 28-byte content-addressed script hash for a native
// script: Blake2b-224(0x00 || cbor(script)).
func (n NativeScript) Hash() (hash.Hash, error) {
	w := cbor.NewWriter()
	if err := n.ToCBOR(w); err != nil {
		return hash.Hash{}, err
	}
	preimage := append([]byte{languageTagNative}, w.Bytes()...)
	digest := crypto.Blake2b224(preimage)
	return hash.New(hash.Size28, digest)
}

// Hash computes the 28-byte content-addressed script hash for a Plutus
// script: Blake2b-224(language_tag || raw_bytes), where language_tag is
// 0x01/0x02/0x03 for v1/v2/v3.
func (p PlutusScript) Hash() (hash.Hash, error) {
	preimage := append([]byte{p.Version.languageTagByte()}, p.Bytes...)
	digest := crypto.Blake2b224(preimage)
	return hash.New(hash.Size28, digest)
}
