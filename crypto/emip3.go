package crypto

import (
	"crypto/rand"
	"fmt"

	"golang.org/x/crypto/chacha20poly1305"

	"github.com/synnergy-labs/cardano-go/cerrors"
)

const (
	emip3SaltSize  = 32
	emip3NonceSize = 12
	emip3TagSize   = 16
)

// EMIP003Encrypt implements the EMIP-003 passphrase-based encryption
// envelope: [32B salt][12B nonce][16B tag][ciphertext].
// Passphrase may be empty; the PBKDF2 cost is still paid.
func EMIP003Encrypt(passphrase, plaintext []byte) ([]byte, error) {
	salt := make([]byte, emip3SaltSize)
	if _, err := rand.Read(salt); err != nil {
		return nil, fmt.Errorf("crypto: emip3 salt: %w", err)
	}
	nonce := make([]byte, emip3NonceSize)
	if _, err := rand.Read(nonce); err != nil {
		return nil, fmt.Errorf("crypto: emip3 nonce: %w", err)
	}

	key, err := PBKDF2HMACSHA512(passphrase, salt, EMIP003Iterations, chacha20poly1305.KeySize)
	if err != nil {
		return nil, err
	}
	aead, err := chacha20poly1305.New(key)
	if err != nil {
		return nil, fmt.Errorf("crypto: emip3 aead init: %w", err)
	}

	// Seal appends the ciphertext and 16-byte tag together; EMIP-003's wire
	// layout keeps the tag immediately after the nonce instead, so split
	// and reorder it.
	sealed := aead.Seal(nil, nonce, plaintext, nil)
	ct := sealed[:len(sealed)-emip3TagSize]
	tag := sealed[len(sealed)-emip3TagSize:]

	out := make([]byte, 0, emip3SaltSize+emip3NonceSize+emip3TagSize+len(ct))
	out = append(out, salt...)
	out = append(out, nonce...)
	out = append(out, tag...)
	out = append(out, ct...)
	return out, nil
}

// EMIP003Decrypt authenticates and decrypts an EMIP-003 envelope. On
// authentication failure it returns cerrors.ErrAuthenticationFailed and
// zeroes any partially-decrypted buffer before returning.
func EMIP003Decrypt(passphrase, envelope []byte) ([]byte, error) {
	minLen := emip3SaltSize + emip3NonceSize + emip3TagSize
	if len(envelope) < minLen {
		return nil, fmt.Errorf("crypto: emip3 envelope too short: %w", cerrors.ErrInvalidArgument)
	}
	salt := envelope[0:emip3SaltSize]
	nonce := envelope[emip3SaltSize : emip3SaltSize+emip3NonceSize]
	tag := envelope[emip3SaltSize+emip3NonceSize : minLen]
	ct := envelope[minLen:]

	key, err := PBKDF2HMACSHA512(passphrase, salt, EMIP003Iterations, chacha20poly1305.KeySize)
	if err != nil {
		return nil, err
	}
	aead, err := chacha20poly1305.New(key)
	if err != nil {
		return nil, fmt.Errorf("crypto: emip3 aead init: %w", err)
	}

	sealed := make([]byte, 0, len(ct)+emip3TagSize)
	sealed = append(sealed, ct...)
	sealed = append(sealed, tag...)

	plaintext, err := aead.Open(nil, nonce, sealed, nil)
	if err != nil {
		zero(plaintext)
		return nil, cerrors.ErrAuthenticationFailed
	}
	return plaintext, nil
}

func zero(b []byte) {
	for i := range b {
		b[i] = 0
	}
}
