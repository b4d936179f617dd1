package crypto

import "hash/crc32"

// CRC32IEEE computes the IEEE 802.3 CRC32 checksum used by Byron address
// encoding.
func CRC32IEEE(data []byte) uint32 {
	return crc32.ChecksumIEEE(data)
}
