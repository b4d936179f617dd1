package crypto

import (
	"crypto/hmac"
	"crypto/sha512"
	"encoding/binary"
	"fmt"
	"math/big"

	"filippo.io/edwards25519"

	"github.com/synnergy-labs/cardano-go/cerrors"
)

// HardenedOffset is the index at and above which BIP-32 derivation is
// hardened.
const HardenedOffset uint32 = 0x80000000

// ExtendedPrivateKey is Cardano's 96-byte BIP-32-V2 ("Ed25519-BIP32")
// extended private key: a 64-byte expanded key (kL || kR) plus a 32-byte
// chain code.
type ExtendedPrivateKey struct {
	KL        [32]byte
	KR        [32]byte
	ChainCode [32]byte
}

// NewMasterKeyFromSeed derives the Icarus-style root extended private key
// from a BIP-39 entropy/seed and an optional passphrase, matching the
// scheme cardano-serialization-lib calls `from_bip39_entropy`:
// PBKDF2-HMAC-SHA512(password=passphrase, salt=entropy, 4096, 96) followed
// by clamping the low 3 bits of byte 0 and the top bits of byte 31.
func NewMasterKeyFromSeed(entropy, passphrase []byte) (*ExtendedPrivateKey, error) {
	raw, err := PBKDF2HMACSHA512(passphrase, entropy, 4096, 96)
	if err != nil {
		return nil, err
	}
	clampRootKey(raw)
	xprv := &ExtendedPrivateKey{}
	copy(xprv.KL[:], raw[0:32])
	copy(xprv.KR[:], raw[32:64])
	copy(xprv.ChainCode[:], raw[64:96])
	return xprv, nil
}

func clampRootKey(k []byte) {
	k[0] &= 0b1111_1000
	k[31] &= 0b0001_1111
	k[31] |= 0b0100_0000
}

// PublicKey computes the 32-byte Ed25519 public key corresponding to this
// extended private key's scalar half.
func (x *ExtendedPrivateKey) PublicKey() ([]byte, error) {
	s, err := scalarFromExpandedKL(x.KL[:])
	if err != nil {
		return nil, err
	}
	var p edwards25519.Point
	p.ScalarBaseMult(s)
	return p.Bytes(), nil
}

// scalarFromExpandedKL reduces a 32-byte expanded scalar half modulo the
// Ed25519 group order via wide (64-byte) reduction, since kL is not
// guaranteed to already be a canonical scalar.
func scalarFromExpandedKL(kl []byte) (*edwards25519.Scalar, error) {
	wide := make([]byte, 64)
	copy(wide, kl)
	s, err := edwards25519.NewScalar().SetUniformBytes(wide)
	if err != nil {
		return nil, fmt.Errorf("crypto: bip32 scalar reduction: %w", err)
	}
	return s, nil
}

// Derive computes the child extended private key at index, using hardened
// derivation when index >= HardenedOffset and soft (public) derivation
// otherwise, per Cardano's BIP-32-V2 scheme.
func (x *ExtendedPrivateKey) Derive(index uint32) (*ExtendedPrivateKey, error) {
	var idxLE [4]byte
	binary.LittleEndian.PutUint32(idxLE[:], index)

	var zMsg, ccMsg []byte
	if index >= HardenedOffset {
		zMsg = append([]byte{0x00}, append(append([]byte{}, x.KL[:]...), x.KR[:]...)...)
		zMsg = append(zMsg, idxLE[:]...)
		ccMsg = append([]byte{0x01}, append(append([]byte{}, x.KL[:]...), x.KR[:]...)...)
		ccMsg = append(ccMsg, idxLE[:]...)
	} else {
		pub, err := x.PublicKey()
		if err != nil {
			return nil, err
		}
		zMsg = append([]byte{0x02}, pub...)
		zMsg = append(zMsg, idxLE[:]...)
		ccMsg = append([]byte{0x03}, pub...)
		ccMsg = append(ccMsg, idxLE[:]...)
	}

	z := hmacSHA512(x.ChainCode[:], zMsg)
	ccFull := hmacSHA512(x.ChainCode[:], ccMsg)

	zl := z[0:28]
	zr := z[32:64]

	newKL := add28Mul8(x.KL[:], zl)
	newKR := addMod256(x.KR[:], zr)

	child := &ExtendedPrivateKey{}
	copy(child.KL[:], newKL)
	copy(child.KR[:], newKR)
	copy(child.ChainCode[:], ccFull[32:64])
	return child, nil
}

// DeriveHardened is a convenience that sets the hardened offset bit before
// deriving.
func (x *ExtendedPrivateKey) DeriveHardened(index uint32) (*ExtendedPrivateKey, error) {
	if index >= HardenedOffset {
		return nil, fmt.Errorf("crypto: index %d already carries the hardened offset: %w", index, cerrors.ErrInvalidDerivationIndex)
	}
	return x.Derive(index + HardenedOffset)
}

func hmacSHA512(key, data []byte) []byte {
	h := hmac.New(sha512.New, key)
	h.Write(data)
	return h.Sum(nil)
}

// add28Mul8 computes (kl + 8*zl) mod 2^256, treating both as little-endian
// 256-bit integers (zl supplies only its low 224 bits, the upper 32 bits of
// the addend are implicitly zero).
func add28Mul8(kl, zl []byte) []byte {
	klInt := leToBigInt(kl)
	zlInt := leToBigInt(zl)
	zlInt.Mul(zlInt, big.NewInt(8))
	sum := new(big.Int).Add(klInt, zlInt)
	return bigIntToLE(sum, 32)
}

// addMod256 computes (a + b) mod 2^256 for two little-endian 256-bit
// integers.
func addMod256(a, b []byte) []byte {
	sum := new(big.Int).Add(leToBigInt(a), leToBigInt(b))
	return bigIntToLE(sum, 32)
}

func leToBigInt(b []byte) *big.Int {
	be := make([]byte, len(b))
	for i, v := range b {
		be[len(b)-1-i] = v
	}
	return new(big.Int).SetBytes(be)
}

func bigIntToLE(v *big.Int, n int) []byte {
	mod := new(big.Int).Lsh(big.NewInt(1), uint(n*8))
	v = new(big.Int).Mod(v, mod)
	be := v.Bytes()
	out := make([]byte, n)
	// be is big-endian, minimal-length, right-aligned in value; reversing
	// it into out's low indices yields the fixed-width little-endian form.
	for i, b := range be {
		out[len(be)-1-i] = b
	}
	return out
}

// Sign produces a 64-byte Ed25519 signature using the expanded (kL, kR)
// key pair directly, following RFC 8032's algorithm but substituting the
// externally-derived scalar/prefix for the usual SHA-512(seed) split
// (needed because BIP-32-derived keys are not a plain 32-byte seed).
func (x *ExtendedPrivateKey) Sign(message []byte) ([]byte, error) {
	s, err := scalarFromExpandedKL(x.KL[:])
	if err != nil {
		return nil, err
	}
	pub, err := x.PublicKey()
	if err != nil {
		return nil, err
	}

	rHash := sha512.Sum512(append(append([]byte{}, x.KR[:]...), message...))
	r, err := edwards25519.NewScalar().SetUniformBytes(rHash[:])
	if err != nil {
		return nil, fmt.Errorf("crypto: bip32 sign r reduction: %w", err)
	}

	var rPoint edwards25519.Point
	rPoint.ScalarBaseMult(r)
	rBytes := rPoint.Bytes()

	kHash := sha512.Sum512(append(append(append([]byte{}, rBytes...), pub...), message...))
	k, err := edwards25519.NewScalar().SetUniformBytes(kHash[:])
	if err != nil {
		return nil, fmt.Errorf("crypto: bip32 sign k reduction: %w", err)
	}

	sOut := edwards25519.NewScalar().MultiplyAdd(k, s, r)

	sig := make([]byte, 64)
	copy(sig[0:32], rBytes)
	copy(sig[32:64], sOut.Bytes())
	return sig, nil
}
