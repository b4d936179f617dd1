package crypto

import "golang.org/x/crypto/sha3"

// SHA3_256Size is the digest size of SHA3-256 in bytes.
const SHA3_256Size = 32

// SHA3_256 hashes input with SHA3-256, used by Byron address root
// derivation: Blake2b224(SHA3_256(cbor(...))).
func SHA3_256(input []byte) []byte {
	sum := sha3.Sum256(input)
	return sum[:]
}
