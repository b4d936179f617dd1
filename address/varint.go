package address

import (
	"fmt"

	"github.com/synnergy-labs/cardano-go/cerrors"
)

// encodeVarUint encodes v using the big-endian base-128 variable-length
// quantity pointer addresses use for their slot/tx-index/cert-index
// fields: groups of 7 bits, most-significant group first, every byte but
// the last carrying the continuation bit 0x80.
func encodeVarUint(v uint64) []byte {
	if v == 0 {
		return []byte{0}
	}
	var groups []byte
	for v > 0 {
		groups = append(groups, byte(v&0x7f))
		v >>= 7
	}
	out := make([]byte, len(groups))
	for i, g := range groups {
		b := g
		if i != 0 {
			b |= 0x80
		}
		out[len(groups)-1-i] = b
	}
	return out
}

// decodeVarUint decodes a big-endian base-128 VLQ starting at data[0],
// returning the value and the number of bytes consumed.
func decodeVarUint(data []byte) (uint64, int, error) {
	var v uint64
	for i, b := range data {
		v = v<<7 | uint64(b&0x7f)
		if b&0x80 == 0 {
			return v, i + 1, nil
		}
	}
	return 0, 0, fmt.Errorf("address: truncated pointer varint: %w", cerrors.ErrTruncatedInput)
}
