package crypto

import (
	"crypto/ed25519"
	"fmt"

	"github.com/synnergy-labs/cardano-go/cerrors"
)

const (
	Ed25519SeedSize      = ed25519.SeedSize      // 32
	Ed25519PublicKeySize = ed25519.PublicKeySize  // 32
	Ed25519PrivateKeySize = ed25519.PrivateKeySize // 64 (seed || public key)
	Ed25519SignatureSize  = ed25519.SignatureSize  // 64
)

// Ed25519PublicKeyFromSeed derives the 32-byte public key for a 32-byte
// seed.
func Ed25519PublicKeyFromSeed(seed []byte) ([]byte, error) {
	if len(seed) != Ed25519SeedSize {
		return nil, fmt.Errorf("crypto: ed25519 seed must be %d bytes: %w", Ed25519SeedSize, cerrors.ErrInvalidKeySize)
	}
	priv := ed25519.NewKeyFromSeed(seed)
	pub := priv.Public().(ed25519.PublicKey)
	return []byte(pub), nil
}

// Ed25519Sign signs message with either a 32-byte seed or a 64-byte
// extended (seed||pub) private key, returning a 64-byte signature.
func Ed25519Sign(privateKey, message []byte) ([]byte, error) {
	var priv ed25519.PrivateKey
	switch len(privateKey) {
	case Ed25519SeedSize:
		priv = ed25519.NewKeyFromSeed(privateKey)
	case Ed25519PrivateKeySize:
		priv = ed25519.PrivateKey(privateKey)
	default:
		return nil, fmt.Errorf("crypto: ed25519 private key must be %d or %d bytes: %w", Ed25519SeedSize, Ed25519PrivateKeySize, cerrors.ErrInvalidKeySize)
	}
	return ed25519.Sign(priv, message), nil
}

// Ed25519Verify validates a signature against a 32-byte public key and
// message, rejecting signatures whose S-component is non-canonical (the
// stdlib implementation enforces canonical S per RFC 8032; it does not
// reject small-order public keys).
func Ed25519Verify(publicKey, message, signature []byte) error {
	if len(publicKey) != Ed25519PublicKeySize {
		return fmt.Errorf("crypto: ed25519 public key must be %d bytes: %w", Ed25519PublicKeySize, cerrors.ErrInvalidKeySize)
	}
	if len(signature) != Ed25519SignatureSize {
		return fmt.Errorf("crypto: ed25519 signature must be %d bytes: %w", Ed25519SignatureSize, cerrors.ErrInvalidKeySize)
	}
	if !ed25519.Verify(ed25519.PublicKey(publicKey), message, signature) {
		return cerrors.ErrSignatureVerificationFailed
	}
	return nil
}
