package classfile

import (
	"bytes"
	"fmt"

	"github.com/joshuapare/apiwatch/internal/buf"
	"github.com/joshuapare/apiwatch/internal/mutf8"
)

// FNV-1a constants for 32-bit hash.
const (
	fnvBasis32 uint32 = 2166136261
	fnvPrime32 uint32 = 16777619
)

// maxUtf8Len is the largest payload a CONSTANT_Utf8 length prefix can express.
const maxUtf8Len = 0xFFFF

// Key is an immutable window over a byte buffer, used as a map key for class
// and member names. The window holds a CONSTANT_Utf8 layout: a big-endian
// u16 length followed by that many modified UTF-8 bytes.
//
// Equality and hashing cover the bytes in the window, never the identity of
// the backing buffer. The backing buffer must not be mutated while the Key is
// in use.
type Key struct {
	buf  []byte
	off  uint32
	n    uint32
	hash uint32
}

// NewKey returns a Key over buf[off:off+n]. It panics when the range falls
// outside buf.
func NewKey(b []byte, off, n int) Key {
	if !buf.Has(b, off, n) {
		panic(fmt.Sprintf("classfile: key range [%d:%d+%d] outside buffer of %d bytes", off, off, n, len(b)))
	}
	return Key{buf: b, off: uint32(off), n: uint32(n), hash: fnv32(b[off : off+n])}
}

// EncodeKey builds an owned Key for s in the CONSTANT_Utf8 layout, so it
// compares equal to the matching Key taken from a class file.
func EncodeKey(s string) (Key, error) {
	n := mutf8.EncodedLen(s)
	if n > maxUtf8Len {
		return Key{}, fmt.Errorf("classfile: name of %d encoded bytes exceeds %d", n, maxUtf8Len)
	}
	b := make([]byte, 0, 2+n)
	b = buf.AppendU16BE(b, uint16(n))
	b = append(b, mutf8.Encode(s)...)
	return NewKey(b, 0, len(b)), nil
}

// KeyOf is like EncodeKey but panics on names too long to encode.
// Intended for constants and tests.
func KeyOf(s string) Key {
	k, err := EncodeKey(s)
	if err != nil {
		panic(err)
	}
	return k
}

func fnv32(data []byte) uint32 {
	h := fnvBasis32
	for _, c := range data {
		h ^= uint32(c)
		h *= fnvPrime32
	}
	return h
}

// Bytes returns the window, including the length prefix. The caller must
// not modify it.
func (k Key) Bytes() []byte {
	return k.buf[k.off : k.off+k.n : k.off+k.n]
}

// Payload returns the modified UTF-8 bytes after the length prefix.
func (k Key) Payload() []byte {
	if k.n < 2 {
		return nil
	}
	return k.buf[k.off+2 : k.off+k.n : k.off+k.n]
}

// Len returns the window length in bytes.
func (k Key) Len() int { return int(k.n) }

// Hash returns the cached FNV-1a hash of the window.
func (k Key) Hash() uint32 { return k.hash }

// IsZero reports whether k is the zero Key.
func (k Key) IsZero() bool { return k.buf == nil }

// Equal reports whether both windows hold identical bytes.
func (k Key) Equal(o Key) bool {
	return k.hash == o.hash && k.n == o.n && bytes.Equal(k.Bytes(), o.Bytes())
}

// Clone returns a Key with its own copy of the window.
func (k Key) Clone() Key {
	if k.buf == nil {
		return Key{}
	}
	c := make([]byte, k.n)
	copy(c, k.Bytes())
	return Key{buf: c, n: k.n, hash: k.hash}
}

// String decodes the payload. Only used for diagnostics and reports; the
// scanning hot path never calls it.
func (k Key) String() string {
	return mutf8.Decode(k.Payload())
}
