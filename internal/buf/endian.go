// Package buf contains helpers for endian-safe decoding routines.
//
// Class files store every multi-byte quantity big-endian, so only the BE
// readers are provided.
package buf

import "encoding/binary"

// U16BE reads a big-endian uint16 from b. Returns 0 when b is too short.
func U16BE(b []byte) uint16 {
	if len(b) < 2 {
		return 0
	}
	return binary.BigEndian.Uint16(b)
}

// U32BE reads a big-endian uint32 from b. Returns 0 when b is too short.
func U32BE(b []byte) uint32 {
	if len(b) < 4 {
		return 0
	}
	return binary.BigEndian.Uint32(b)
}

// PutU16BE writes v big-endian into the first two bytes of b.
// It panics if b is shorter than two bytes, like binary.BigEndian.PutUint16.
func PutU16BE(b []byte, v uint16) {
	binary.BigEndian.PutUint16(b, v)
}

// AppendU16BE appends v big-endian to b.
func AppendU16BE(b []byte, v uint16) []byte {
	return binary.BigEndian.AppendUint16(b, v)
}
