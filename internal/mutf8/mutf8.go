// Package mutf8 converts between UTF-8 and the "modified UTF-8" used by
// CONSTANT_Utf8 entries in class files (JVMS §4.4.7).
//
// Modified UTF-8 differs from standard UTF-8 in two ways: U+0000 is written
// as the two bytes C0 80, and supplementary characters are written as a
// surrogate pair, each half encoded as three bytes.
package mutf8

import (
	"unicode/utf8"

	"golang.org/x/text/transform"
)

// Encode returns the modified UTF-8 form of s. Plain ASCII without NUL is
// returned without running the transformer.
func Encode(s string) []byte {
	if isPlain(s) {
		return []byte(s)
	}
	out, _, err := transform.Bytes(NewEncoder(), []byte(s))
	if err != nil {
		// The encoder never fails on complete input.
		return []byte(s)
	}
	return out
}

// Decode returns the UTF-8 form of modified UTF-8 bytes b. Malformed
// sequences decode to utf8.RuneError.
func Decode(b []byte) string {
	if isPlainBytes(b) {
		return string(b)
	}
	out, _, err := transform.Bytes(NewDecoder(), b)
	if err != nil {
		return string(b)
	}
	return string(out)
}

// EncodedLen returns len(Encode(s)) without allocating.
func EncodedLen(s string) int {
	n := 0
	for _, r := range s {
		n += runeLen(r)
	}
	return n
}

func isPlain(s string) bool {
	for i := 0; i < len(s); i++ {
		if c := s[i]; c == 0 || c >= utf8.RuneSelf {
			return false
		}
	}
	return true
}

func isPlainBytes(b []byte) bool {
	for _, c := range b {
		if c == 0 || c >= utf8.RuneSelf {
			return false
		}
	}
	return true
}

func runeLen(r rune) int {
	switch {
	case r == 0:
		return 2
	case r < 0x80:
		return 1
	case r < 0x800:
		return 2
	case r <= 0xFFFF:
		return 3
	default:
		return 6
	}
}

// NewEncoder returns a transformer from UTF-8 to modified UTF-8.
func NewEncoder() transform.Transformer { return &encoder{} }

// NewDecoder returns a transformer from modified UTF-8 to UTF-8.
func NewDecoder() transform.Transformer { return &decoder{} }

type encoder struct{ transform.NopResetter }

func (encoder) Transform(dst, src []byte, atEOF bool) (nDst, nSrc int, err error) {
	var tmp [6]byte
	for nSrc < len(src) {
		c := src[nSrc]
		if c > 0 && c < utf8.RuneSelf {
			if nDst >= len(dst) {
				return nDst, nSrc, transform.ErrShortDst
			}
			dst[nDst] = c
			nDst++
			nSrc++
			continue
		}
		if !utf8.FullRune(src[nSrc:]) && !atEOF {
			return nDst, nSrc, transform.ErrShortSrc
		}
		r, size := utf8.DecodeRune(src[nSrc:])
		n := encodeRune(tmp[:], r)
		if nDst+n > len(dst) {
			return nDst, nSrc, transform.ErrShortDst
		}
		copy(dst[nDst:], tmp[:n])
		nDst += n
		nSrc += size
	}
	return nDst, nSrc, nil
}

func encodeRune(p []byte, r rune) int {
	switch {
	case r == 0:
		p[0], p[1] = 0xC0, 0x80
		return 2
	case r < 0x80:
		p[0] = byte(r)
		return 1
	case r < 0x800:
		p[0] = 0xC0 | byte(r>>6)
		p[1] = 0x80 | byte(r)&0x3F
		return 2
	case r <= 0xFFFF:
		put3(p, r)
		return 3
	default:
		r -= 0x10000
		put3(p, 0xD800+(r>>10))
		put3(p[3:], 0xDC00+(r&0x3FF))
		return 6
	}
}

func put3(p []byte, r rune) {
	p[0] = 0xE0 | byte(r>>12)
	p[1] = 0x80 | byte(r>>6)&0x3F
	p[2] = 0x80 | byte(r)&0x3F
}

type decoder struct{ transform.NopResetter }

func (decoder) Transform(dst, src []byte, atEOF bool) (nDst, nSrc int, err error) {
	var tmp [utf8.UTFMax]byte
	for nSrc < len(src) {
		c := src[nSrc]
		if c < utf8.RuneSelf {
			if nDst >= len(dst) {
				return nDst, nSrc, transform.ErrShortDst
			}
			dst[nDst] = c
			nDst++
			nSrc++
			continue
		}
		r, size, short := decodeRune(src[nSrc:])
		if short && !atEOF {
			return nDst, nSrc, transform.ErrShortSrc
		}
		n := utf8.EncodeRune(tmp[:], r)
		if nDst+n > len(dst) {
			return nDst, nSrc, transform.ErrShortDst
		}
		copy(dst[nDst:], tmp[:n])
		nDst += n
		nSrc += size
	}
	return nDst, nSrc, nil
}

// decodeRune decodes one modified UTF-8 sequence from p. short reports that
// p ends in the middle of a sequence (or of a surrogate pair).
func decodeRune(p []byte) (r rune, size int, short bool) {
	c := p[0]
	switch {
	case c&0xE0 == 0xC0:
		if len(p) < 2 {
			return utf8.RuneError, 1, true
		}
		if p[1]&0xC0 != 0x80 {
			return utf8.RuneError, 1, false
		}
		return rune(c&0x1F)<<6 | rune(p[1]&0x3F), 2, false
	case c&0xF0 == 0xE0:
		hi, ok, isShort := get3(p)
		if !ok {
			return utf8.RuneError, 1, isShort
		}
		if hi < 0xD800 || hi > 0xDBFF {
			return hi, 3, false
		}
		lo, ok, isShort := get3(p[3:])
		if !ok || lo < 0xDC00 || lo > 0xDFFF {
			if isShort {
				return utf8.RuneError, 3, true
			}
			return utf8.RuneError, 3, false
		}
		return 0x10000 + (hi-0xD800)<<10 + (lo - 0xDC00), 6, false
	default:
		return utf8.RuneError, 1, false
	}
}

func get3(p []byte) (r rune, ok, short bool) {
	if len(p) < 3 {
		return 0, false, len(p) == 0 || p[0]&0xF0 == 0xE0
	}
	if p[0]&0xF0 != 0xE0 || p[1]&0xC0 != 0x80 || p[2]&0xC0 != 0x80 {
		return 0, false, false
	}
	return rune(p[0]&0x0F)<<12 | rune(p[1]&0x3F)<<6 | rune(p[2]&0x3F), true, false
}
