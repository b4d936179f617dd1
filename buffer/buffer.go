// Package buffer implements a growable, owned byte container with typed
// little/big-endian reads and writes built around encoding/binary,
// generalized into a single reusable cursor type.
package buffer

import (
	"encoding/binary"
	"encoding/hex"
	"fmt"

	"github.com/synnergy-labs/cardano-go/cerrors"
)

// Buffer is an owned, resizable byte sequence with a read cursor. It is not
// safe for concurrent use; exactly one holder owns it at a time.
type Buffer struct {
	data   []byte
	cursor int
}

// New allocates a Buffer with the given initial capacity.
func New(capacity int) *Buffer {
	return &Buffer{data: make([]byte, 0, capacity)}
}

// NewFromBytes wraps existing bytes for reading. The slice is copied so the
// Buffer remains the sole owner of its backing array.
func NewFromBytes(b []byte) *Buffer {
	cp := make([]byte, len(b))
	copy(cp, b)
	return &Buffer{data: cp}
}

// Clone returns a deep copy sharing no backing array with the receiver.
func (b *Buffer) Clone() *Buffer {
	return NewFromBytes(b.data)
}

// Len returns the number of bytes currently held.
func (b *Buffer) Len() int { return len(b.data) }

// Bytes returns the underlying bytes. Callers must not mutate the result.
func (b *Buffer) Bytes() []byte { return b.data }

// Cursor returns the current read position.
func (b *Buffer) Cursor() int { return b.cursor }

// Remaining returns the number of unread bytes.
func (b *Buffer) Remaining() int { return len(b.data) - b.cursor }

// Append grows the buffer by copying bytes onto its end.
func (b *Buffer) Append(p []byte) {
	b.data = append(b.data, p...)
}

// AppendByte appends a single byte.
func (b *Buffer) AppendByte(v byte) {
	b.data = append(b.data, v)
}

func (b *Buffer) WriteUint16LE(v uint16) {
	var tmp [2]byte
	binary.LittleEndian.PutUint16(tmp[:], v)
	b.Append(tmp[:])
}

func (b *Buffer) WriteUint16BE(v uint16) {
	var tmp [2]byte
	binary.BigEndian.PutUint16(tmp[:], v)
	b.Append(tmp[:])
}

func (b *Buffer) WriteUint32LE(v uint32) {
	var tmp [4]byte
	binary.LittleEndian.PutUint32(tmp[:], v)
	b.Append(tmp[:])
}

func (b *Buffer) WriteUint32BE(v uint32) {
	var tmp [4]byte
	binary.BigEndian.PutUint32(tmp[:], v)
	b.Append(tmp[:])
}

func (b *Buffer) WriteUint64LE(v uint64) {
	var tmp [8]byte
	binary.LittleEndian.PutUint64(tmp[:], v)
	b.Append(tmp[:])
}

func (b *Buffer) WriteUint64BE(v uint64) {
	var tmp [8]byte
	binary.BigEndian.PutUint64(tmp[:], v)
	b.Append(tmp[:])
}

// ReadBytes consumes n bytes, advancing the cursor.
func (b *Buffer) ReadBytes(n int) ([]byte, error) {
	if n < 0 || b.cursor+n > len(b.data) {
		return nil, fmt.Errorf("buffer: read %d bytes at %d of %d: %w", n, b.cursor, len(b.data), cerrors.ErrOutOfBoundsRead)
	}
	out := b.data[b.cursor : b.cursor+n]
	b.cursor += n
	return out, nil
}

func (b *Buffer) ReadUint16LE() (uint16, error) {
	p, err := b.ReadBytes(2)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint16(p), nil
}

func (b *Buffer) ReadUint16BE() (uint16, error) {
	p, err := b.ReadBytes(2)
	if err != nil {
		return 0, err
	}
	return binary.BigEndian.Uint16(p), nil
}

func (b *Buffer) ReadUint32LE() (uint32, error) {
	p, err := b.ReadBytes(4)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint32(p), nil
}

func (b *Buffer) ReadUint32BE() (uint32, error) {
	p, err := b.ReadBytes(4)
	if err != nil {
		return 0, err
	}
	return binary.BigEndian.Uint32(p), nil
}

func (b *Buffer) ReadUint64LE() (uint64, error) {
	p, err := b.ReadBytes(8)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint64(p), nil
}

func (b *Buffer) ReadUint64BE() (uint64, error) {
	p, err := b.ReadBytes(8)
	if err != nil {
		return 0, err
	}
	return binary.BigEndian.Uint64(p), nil
}

// HexEncode returns the lowercase hex form of the held bytes, no 0x prefix.
func (b *Buffer) HexEncode() string { return hex.EncodeToString(b.data) }

// HexDecode replaces the buffer's contents with the decoded form of s.
func (b *Buffer) HexDecode(s string) error {
	decoded, err := hex.DecodeString(s)
	if err != nil {
		return fmt.Errorf("buffer: hex decode: %w", cerrors.ErrInvalidArgument)
	}
	b.data = decoded
	b.cursor = 0
	return nil
}
