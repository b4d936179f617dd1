package crypto

import (
	"fmt"

	"github.com/tyler-smith/go-bip39"

	"github.com/synnergy-labs/cardano-go/cerrors"
)

// EntropySizeToWordCount maps valid BIP-39 entropy sizes (bytes) to the
// resulting mnemonic word count.
var EntropySizeToWordCount = map[int]int{
	16: 12,
	20: 15,
	24: 18,
	28: 21,
	32: 24,
}

// MnemonicFromEntropy encodes entropy (English wordlist only) into a BIP-39
// mnemonic phrase.
func MnemonicFromEntropy(entropy []byte) (string, error) {
	if _, ok := EntropySizeToWordCount[len(entropy)]; !ok {
		return "", fmt.Errorf("crypto: unsupported entropy size %d: %w", len(entropy), cerrors.ErrInvalidArgument)
	}
	m, err := bip39.NewMnemonic(entropy)
	if err != nil {
		return "", fmt.Errorf("crypto: bip39 mnemonic: %w", err)
	}
	return m, nil
}

// EntropyFromMnemonic decodes a mnemonic phrase back to its entropy,
// validating the embedded checksum.
func EntropyFromMnemonic(mnemonic string) ([]byte, error) {
	if !bip39.IsMnemonicValid(mnemonic) {
		return nil, fmt.Errorf("crypto: %w", cerrors.ErrChecksumMismatch)
	}
	entropy, err := bip39.EntropyFromMnemonic(mnemonic)
	if err != nil {
		return nil, fmt.Errorf("crypto: %w", cerrors.ErrChecksumMismatch)
	}
	return entropy, nil
}

// SeedFromMnemonic derives the 64-byte BIP-39 seed from a mnemonic and an
// optional passphrase. Nothing in this module calls it; the software key
// handler derives its root key from the mnemonic's entropy instead.
func SeedFromMnemonic(mnemonic, passphrase string) []byte {
	return bip39.NewSeed(mnemonic, passphrase)
}
