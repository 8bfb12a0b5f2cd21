package x86_64

import "encoding/binary"

// Bytes is a small fixed-capacity byte buffer used for the variable-width
// components of an instruction encoding (opcode up to 3 bytes, displacement
// up to 4, immediate up to 8). The backing array is inline so building an
// instruction never allocates.
type Bytes struct {
	buf [8]byte
	n   int
}

// BytesOf builds a buffer from explicit bytes. At most 8 are accepted.
func BytesOf(bs ...byte) Bytes {
	if len(bs) > 8 {
		panic("x86_64: Bytes capacity is 8")
	}
	var b Bytes
	b.n = copy(b.buf[:], bs)
	return b
}

// BytesU8 returns a 1-byte buffer holding n.
func BytesU8(n uint8) Bytes {
	return BytesOf(n)
}

// BytesU16 returns a 2-byte little-endian buffer holding n.
func BytesU16(n uint16) Bytes {
	var b Bytes
	binary.LittleEndian.PutUint16(b.buf[:2], n)
	b.n = 2
	return b
}

// BytesU32 returns a 4-byte little-endian buffer holding n.
func BytesU32(n uint32) Bytes {
	var b Bytes
	binary.LittleEndian.PutUint32(b.buf[:4], n)
	b.n = 4
	return b
}

// BytesU64 returns an 8-byte little-endian buffer holding n.
func BytesU64(n uint64) Bytes {
	var b Bytes
	binary.LittleEndian.PutUint64(b.buf[:8], n)
	b.n = 8
	return b
}

// Len returns the number of bytes held.
func (b Bytes) Len() int {
	return b.n
}

// Slice returns a view of the held bytes.
func (b *Bytes) Slice() []byte {
	return b.buf[:b.n]
}
