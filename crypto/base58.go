package crypto

import (
	"fmt"

	"github.com/mr-tron/base58"

	"github.com/synnergy-labs/cardano-go/cerrors"
)

// Base58Encode encodes data using the Bitcoin/IPFS Base58 alphabet, used
// exclusively for legacy Byron addresses.
func Base58Encode(data []byte) string {
	return base58.Encode(data)
}

// Base58Decode decodes a Base58 string back to bytes.
func Base58Decode(s string) ([]byte, error) {
	out, err := base58.Decode(s)
	if err != nil {
		return nil, fmt.Errorf("crypto: base58 decode: %w", cerrors.ErrInvalidArgument)
	}
	return out, nil
}
