package crypto

import (
	"fmt"

	"github.com/decred/dcrd/bech32"

	"github.com/synnergy-labs/cardano-go/cerrors"
)

// Bech32Encode encodes data under the given human-readable prefix using
// the original (BIP-173) bech32 checksum, the variant every Cardano HRP
// (addr, addr_test, stake, stake_test, drep, cc_hot, cc_cold, pool,
// script, asset) uses.
func Bech32Encode(hrp string, data []byte) (string, error) {
	converted, err := bech32.ConvertBits(data, 8, 5, true)
	if err != nil {
		return "", fmt.Errorf("crypto: bech32 convert bits: %w", cerrors.ErrInvalidArgument)
	}
	out, err := bech32.Encode(hrp, converted)
	if err != nil {
		return "", fmt.Errorf("crypto: bech32 encode: %w", cerrors.ErrInvalidArgument)
	}
	return out, nil
}

// Bech32Decode validates the polymod checksum and returns the
// human-readable prefix and the decoded raw (8-bit) payload.
func Bech32Decode(s string) (hrp string, data []byte, err error) {
	hrp, values, err := bech32.Decode(s)
	if err != nil {
		return "", nil, fmt.Errorf("crypto: bech32 decode: %w", cerrors.ErrChecksumMismatch)
	}
	raw, err := bech32.ConvertBits(values, 5, 8, false)
	if err != nil {
		return "", nil, fmt.Errorf("crypto: bech32 convert bits: %w", cerrors.ErrInvalidArgument)
	}
	return hrp, raw, nil
}
