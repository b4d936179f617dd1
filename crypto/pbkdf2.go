package crypto

import (
	"crypto/sha512"

	"golang.org/x/crypto/pbkdf2"
)

// EMIP003Iterations is the fixed PBKDF2 iteration count EMIP-003 mandates
// for passphrase-based key derivation.
const EMIP003Iterations = 19162

// PBKDF2HMACSHA512 derives outLen bytes from password and salt using
// HMAC-SHA512 as the PRF.
func PBKDF2HMACSHA512(password, salt []byte, iterations, outLen int) ([]byte, error) {
	return pbkdf2.Key(password, salt, iterations, outLen, sha512.New), nil
}
