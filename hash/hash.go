// Package hash provides fixed-size, content-addressed hash handles used
// throughout the domain model to identify transactions, credentials,
// scripts, and data items by their cryptographic digest.
package hash

import (
	"bytes"
	"encoding/hex"
	"fmt"

	"github.com/synnergy-labs/cardano-go/cerrors"
)

// Size enumerates the declared digest lengths a Hash may carry.
type Size int

const (
	Size28 Size = 28
	Size32 Size = 32
	Size64 Size = 64
)

func (s Size) valid() bool {
	return s == Size28 || s == Size32 || s == Size64
}

// Hash is an immutable, fixed-length byte handle tagged with its declared
// size. It is produced by the crypto and codec layers and consumed by
// entities that embed identifiers (credentials, transaction IDs, script
// hashes, datum hashes, and the like).
type Hash struct {
	size  Size
	bytes []byte
}

// New validates data's length against size and returns a Hash owning a
// copy of data.
func New(size Size, data []byte) (Hash, error) {
	if !size.valid() {
		return Hash{}, fmt.Errorf("hash: unsupported declared size %d: %w", size, cerrors.ErrInvalidArgument)
	}
	if len(data) != int(size) {
		return Hash{}, fmt.Errorf("hash: expected %d bytes, got %d: %w", size, len(data), cerrors.ErrInvalidHashSize)
	}
	owned := make([]byte, size)
	copy(owned, data)
	return Hash{size: size, bytes: owned}, nil
}

// FromHex decodes a lowercase hex string into a Hash of the given declared
// size, validating both hex syntax and the decoded length.
func FromHex(size Size, s string) (Hash, error) {
	if len(s) != HexLen(size) {
		return Hash{}, fmt.Errorf("hash: expected hex string of length %d, got %d: %w", HexLen(size), len(s), cerrors.ErrInvalidHashSize)
	}
	raw, err := hex.DecodeString(s)
	if err != nil {
		return Hash{}, fmt.Errorf("hash: invalid hex: %w", cerrors.ErrInvalidArgument)
	}
	return New(size, raw)
}

// HexLen returns the hex-string length for a declared hash size: two hex
// digits per byte. (The original C library's equivalent helper returns
// 2*len+1 to size a NUL-terminated buffer; Go strings carry no terminator.)
func HexLen(size Size) int {
	return 2 * int(size)
}

// Size returns the declared byte length of h.
func (h Hash) Size() Size {
	return h.size
}

// Bytes returns a borrowed view of h's underlying bytes. Callers must not
// mutate the returned slice.
func (h Hash) Bytes() []byte {
	return h.bytes
}

// Hex renders h as a lowercase hex string with no prefix.
func (h Hash) Hex() string {
	return hex.EncodeToString(h.bytes)
}

// IsZero reports whether h was never constructed (zero value).
func (h Hash) IsZero() bool {
	return h.bytes == nil
}

// Equal performs a bytewise equality check, including declared size.
func (h Hash) Equal(other Hash) bool {
	return h.size == other.size && bytes.Equal(h.bytes, other.bytes)
}

// Compare performs a bytewise ordering comparison, returning -1, 0, or 1.
// Hashes of differing declared size compare by size first.
func (h Hash) Compare(other Hash) int {
	if h.size != other.size {
		if h.size < other.size {
			return -1
		}
		return 1
	}
	return bytes.Compare(h.bytes, other.bytes)
}

func (h Hash) String() string {
	return h.Hex()
}
