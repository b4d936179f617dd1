package keyhandler

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/synnergy-labs/cardano-go/crypto"
	"github.com/synnergy-labs/cardano-go/hash"
)

func testEntropy(b byte) []byte {
	out := make([]byte, 32)
	for i := range out {
		out[i] = byte(int(b) + i*3)
	}
	return out
}

func testBodyHash(t *testing.T, b byte) hash.Hash {
	t.Helper()
	raw := make([]byte, 32)
	for i := range raw {
		raw[i] = b
	}
	h, err := hash.New(hash.Size32, raw)
	require.NoError(t, err)
	return h
}

func TestSoftwareKeyHandlerFromSeedSignsAndVerifies(t *testing.T) {
	seed := make([]byte, crypto.Ed25519SeedSize)
	for i := range seed {
		seed[i] = byte(i)
	}
	h, err := NewSoftwareKeyHandlerFromSeed(seed)
	require.NoError(t, err)
	require.Equal(t, KeyTypeEd25519, h.GetType())

	paths := []DerivationPath{NewDerivationPath(0, RoleExternal, 0)}
	pubs, err := h.GetPublicKeys(paths)
	require.NoError(t, err)
	require.Len(t, pubs, 1)
	require.Len(t, pubs[0], 32)

	bodyHash := testBodyHash(t, 0xAB)
	sigs, err := h.Sign(bodyHash, paths)
	require.NoError(t, err)
	require.Len(t, sigs, 1)
	require.NoError(t, crypto.Ed25519Verify(pubs[0], bodyHash.Bytes(), sigs[0]))
}

func TestSoftwareKeyHandlerFromSeedIgnoresPathDerivation(t *testing.T) {
	seed := make([]byte, crypto.Ed25519SeedSize)
	for i := range seed {
		seed[i] = byte(i)
	}
	h, err := NewSoftwareKeyHandlerFromSeed(seed)
	require.NoError(t, err)

	paths := []DerivationPath{
		NewDerivationPath(0, RoleExternal, 0),
		NewDerivationPath(5, RoleStaking, 99),
	}
	pubs, err := h.GetPublicKeys(paths)
	require.NoError(t, err)
	require.Equal(t, pubs[0], pubs[1])
}

func TestSoftwareKeyHandlerFromRootKeyDerivesDistinctKeysPerPath(t *testing.T) {
	root, err := crypto.NewMasterKeyFromSeed(testEntropy(1), nil)
	require.NoError(t, err)
	h := NewSoftwareKeyHandlerFromRootKey(root)
	require.Equal(t, KeyTypeBIP32, h.GetType())

	paths := []DerivationPath{
		NewDerivationPath(0, RoleExternal, 0),
		NewDerivationPath(0, RoleExternal, 1),
	}
	pubs, err := h.GetPublicKeys(paths)
	require.NoError(t, err)
	require.NotEqual(t, pubs[0], pubs[1])

	bodyHash := testBodyHash(t, 0xCD)
	sigs, err := h.Sign(bodyHash, paths)
	require.NoError(t, err)
	require.NoError(t, crypto.Ed25519Verify(pubs[0], bodyHash.Bytes(), sigs[0]))
	require.NoError(t, crypto.Ed25519Verify(pubs[1], bodyHash.Bytes(), sigs[1]))
}

func TestSoftwareKeyHandlerFromMnemonicIsDeterministic(t *testing.T) {
	mnemonic, err := crypto.MnemonicFromEntropy(testEntropy(2))
	require.NoError(t, err)

	h1, err := NewSoftwareKeyHandlerFromMnemonic(mnemonic, "")
	require.NoError(t, err)
	h2, err := NewSoftwareKeyHandlerFromMnemonic(mnemonic, "")
	require.NoError(t, err)

	paths := []DerivationPath{NewDerivationPath(0, RoleExternal, 0)}
	pubs1, err := h1.GetPublicKeys(paths)
	require.NoError(t, err)
	pubs2, err := h2.GetPublicKeys(paths)
	require.NoError(t, err)
	require.Equal(t, pubs1, pubs2)
}

func TestSoftwareKeyHandlerEncryptedRootKeyRoundTrip(t *testing.T) {
	root, err := crypto.NewMasterKeyFromSeed(testEntropy(3), nil)
	require.NoError(t, err)
	h := NewSoftwareKeyHandlerFromRootKey(root)

	passphrase := []byte("correct horse battery staple")
	envelope, err := h.EncryptRootKey(passphrase)
	require.NoError(t, err)

	recovered, err := NewSoftwareKeyHandlerFromEncryptedRootKey(envelope, passphrase)
	require.NoError(t, err)

	paths := []DerivationPath{NewDerivationPath(0, RoleExternal, 0)}
	original, err := h.GetPublicKeys(paths)
	require.NoError(t, err)
	decrypted, err := recovered.GetPublicKeys(paths)
	require.NoError(t, err)
	require.Equal(t, original, decrypted)
}

func TestSoftwareKeyHandlerEncryptedRootKeyWrongPassphraseFails(t *testing.T) {
	root, err := crypto.NewMasterKeyFromSeed(testEntropy(4), nil)
	require.NoError(t, err)
	h := NewSoftwareKeyHandlerFromRootKey(root)

	envelope, err := h.EncryptRootKey([]byte("right"))
	require.NoError(t, err)

	_, err = NewSoftwareKeyHandlerFromEncryptedRootKey(envelope, []byte("wrong"))
	require.Error(t, err)
}

func TestSoftwareKeyHandlerEncryptRootKeyRequiresBIP32Mode(t *testing.T) {
	seed := make([]byte, crypto.Ed25519SeedSize)
	h, err := NewSoftwareKeyHandlerFromSeed(seed)
	require.NoError(t, err)
	_, err = h.EncryptRootKey([]byte("x"))
	require.Error(t, err)
}
