// Package crypto collects the cryptographic primitives used at the edges
// of the codec and object model: Blake2b, Ed25519, Cardano's BIP-32-V2 HD
// derivation, PBKDF2-HMAC-SHA512, ChaCha20-Poly1305/EMIP-003, BIP-39,
// CRC32, Base58 and Bech32.
package crypto

import (
	"fmt"

	"golang.org/x/crypto/blake2b"

	"github.com/synnergy-labs/cardano-go/cerrors"
)

// Blake2b224Size, Blake2b256Size and Blake2b512Size are the three output sizes Cardano
// uses for content-addressed hashing.
const (
	Blake2b224Size = 28
	Blake2b256Size = 32
	Blake2b512Size = 64
)

// Blake2b hashes input to exactly size bytes. size must be one of
// {28, 32, 64}.
func Blake2b(size int, input []byte) ([]byte, error) {
	switch size {
	case Blake2b224Size, Blake2b256Size, Blake2b512Size:
	default:
		return nil, fmt.Errorf("crypto: blake2b size %d: %w", size, cerrors.ErrInvalidArgument)
	}
	h, err := blake2b.New(size, nil)
	if err != nil {
		return nil, fmt.Errorf("crypto: blake2b init: %w", err)
	}
	h.Write(input)
	return h.Sum(nil), nil
}

// Blake2b224 is Blake2b with a 28-byte digest, used for script and address
// hashes.
func Blake2b224(input []byte) []byte {
	out, _ := Blake2b(Blake2b224Size, input)
	return out
}

// Blake2b256 is Blake2b with a 32-byte digest, used for transaction and
// script-data hashes.
func Blake2b256(input []byte) []byte {
	out, _ := Blake2b(Blake2b256Size, input)
	return out
}

// Blake2b512 is Blake2b with a 64-byte digest.
func Blake2b512(input []byte) []byte {
	out, _ := Blake2b(Blake2b512Size, input)
	return out
}
