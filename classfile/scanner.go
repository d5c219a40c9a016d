package classfile

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io"

	"github.com/joshuapare/apiwatch/internal/buf"
	"github.com/joshuapare/apiwatch/internal/format"
)

// Options configures a Scanner.
type Options struct {
	// MinMajorVersion rejects class files whose major version is lower.
	// Zero accepts every version.
	MinMajorVersion uint16
}

// Scanner parses the constant pool and class header of one class file at a
// time. The per-slot data recorded in Scratch is:
//
//	Utf8                                  offset of the u16 length prefix in the pool
//	Class, String, MethodType,
//	Module, Package                       u16 index
//	Fieldref, Methodref,
//	InterfaceMethodref, NameAndType,
//	Dynamic, InvokeDynamic                first u16 << 16 | second u16
//	MethodHandle                          reference kind << 16 | reference index
//	Integer, Float, Long, Double          nothing (payload skipped)
//
// A Scanner is not safe for concurrent use.
type Scanner struct {
	opts Options
	br   *bufio.Reader
	off  int64
	tmp  [8]byte
}

// NewScanner creates a Scanner.
func NewScanner(opts Options) *Scanner {
	return &Scanner{opts: opts}
}

// ScanBytes parses a class file held in memory.
func (s *Scanner) ScanBytes(data []byte, scratch *Scratch) (*View, error) {
	return s.Scan(bytes.NewReader(data), scratch)
}

// Scan parses a class file from r into scratch and returns a View over it.
// Errors are *format.ParseError values wrapping one of the format sentinel
// errors.
func (s *Scanner) Scan(r io.Reader, scratch *Scratch) (*View, error) {
	if scratch == nil {
		return nil, errors.New("classfile: nil scratch")
	}
	if s.br == nil {
		s.br = bufio.NewReaderSize(r, 16*1024)
	} else {
		s.br.Reset(r)
	}
	s.off = 0
	defer s.br.Reset(nil)

	magic, err := s.u32("magic")
	if err != nil {
		return nil, err
	}
	if magic != format.Magic {
		return nil, &format.ParseError{
			Offset:   0,
			Field:    "magic",
			Expected: fmt.Sprintf("%#08x", format.Magic),
			Actual:   fmt.Sprintf("%#08x", magic),
			Err:      format.ErrBadMagic,
		}
	}

	v := &View{s: scratch}
	if v.Minor, err = s.u16("minor_version"); err != nil {
		return nil, err
	}
	if v.Major, err = s.u16("major_version"); err != nil {
		return nil, err
	}
	if s.opts.MinMajorVersion > 0 && v.Major < s.opts.MinMajorVersion {
		return nil, &format.ParseError{
			Offset:   6,
			Field:    "major_version",
			Expected: fmt.Sprintf(">= %d", s.opts.MinMajorVersion),
			Actual:   fmt.Sprintf("%d", v.Major),
			Err:      format.ErrUnsupportedVersion,
		}
	}

	count, err := s.u16("constant_pool_count")
	if err != nil {
		return nil, err
	}
	if count == 0 {
		return nil, &format.ParseError{
			Offset:   8,
			Field:    "constant_pool_count",
			Expected: ">= 1",
			Actual:   "0",
			Err:      format.ErrBadIndex,
		}
	}
	scratch.reset(int(count))

	if err := s.readConstantPool(scratch, int(count)); err != nil {
		return nil, err
	}
	if err := validateReferences(scratch); err != nil {
		return nil, err
	}

	if v.AccessFlags, err = s.u16("access_flags"); err != nil {
		return nil, err
	}
	headerOff := s.off
	if v.thisClass, err = s.u16("this_class"); err != nil {
		return nil, err
	}
	if !isClass(scratch, v.thisClass) {
		return nil, badIndex(headerOff, "this_class", format.TagClass, v.thisClass, scratch)
	}
	headerOff = s.off
	if v.superClass, err = s.u16("super_class"); err != nil {
		return nil, err
	}
	if v.superClass != 0 && !isClass(scratch, v.superClass) {
		return nil, badIndex(headerOff, "super_class", format.TagClass, v.superClass, scratch)
	}

	ifaceCount, err := s.u16("interfaces_count")
	if err != nil {
		return nil, err
	}
	for j := 0; j < int(ifaceCount); j++ {
		headerOff = s.off
		idx, err := s.u16("interfaces")
		if err != nil {
			return nil, err
		}
		if !isClass(scratch, idx) {
			return nil, badIndex(headerOff, fmt.Sprintf("interfaces[%d]", j), format.TagClass, idx, scratch)
		}
		scratch.ifaces = append(scratch.ifaces, idx)
	}
	return v, nil
}

func (s *Scanner) readConstantPool(scratch *Scratch, count int) error {
	for i := 1; i < count; i++ {
		entryOff := s.off
		field := fmt.Sprintf("constant_pool[%d]", i)
		tag, err := s.u8(field)
		if err != nil {
			return err
		}
		size, known := format.PayloadSize(tag)
		if !known {
			return &format.ParseError{
				Offset:   entryOff,
				Field:    field,
				Expected: "known tag",
				Actual:   fmt.Sprintf("%d", tag),
				Err:      format.ErrUnknownTag,
			}
		}
		scratch.tags[i] = tag
		scratch.offs[i] = uint32(entryOff)

		switch {
		case tag == format.TagUtf8:
			off, err := s.readUtf8(scratch, field)
			if err != nil {
				return err
			}
			scratch.slots[i] = uint32(off)
		case format.IsWide(tag):
			if i+1 >= count {
				return &format.ParseError{
					Offset:   entryOff,
					Field:    field,
					Expected: "second slot for " + format.TagName(tag),
					Actual:   "end of constant pool",
					Err:      format.ErrBadIndex,
				}
			}
			if err := s.skip(size, field); err != nil {
				return err
			}
			i++
			scratch.tags[i] = format.TagNone
		case size == 2:
			idx, err := s.u16(field)
			if err != nil {
				return err
			}
			scratch.slots[i] = uint32(idx)
		case size == 3:
			kind, err := s.u8(field)
			if err != nil {
				return err
			}
			ref, err := s.u16(field)
			if err != nil {
				return err
			}
			scratch.slots[i] = uint32(kind)<<16 | uint32(ref)
		case tag == format.TagInteger || tag == format.TagFloat:
			if err := s.skip(size, field); err != nil {
				return err
			}
		default:
			a, err := s.u16(field)
			if err != nil {
				return err
			}
			b, err := s.u16(field)
			if err != nil {
				return err
			}
			scratch.slots[i] = uint32(a)<<16 | uint32(b)
		}
	}
	return nil
}

// readUtf8 copies the length prefix and payload of a Utf8 entry verbatim
// into the pool and returns the offset of the prefix.
func (s *Scanner) readUtf8(scratch *Scratch, field string) (int, error) {
	n, err := s.u16(field)
	if err != nil {
		return 0, err
	}
	start := len(scratch.pool)
	scratch.pool = buf.Grow(scratch.pool, 2+int(n))
	scratch.pool = buf.AppendU16BE(scratch.pool, n)
	end := len(scratch.pool) + int(n)
	scratch.pool = scratch.pool[:end]
	if err := s.full(scratch.pool[start+2:end], field); err != nil {
		return 0, err
	}
	return start, nil
}

// validateReferences checks, once per class, that every slot the View will
// later dereference points at an entry of the right kind. The View can then
// resolve without further checks. Errors carry the offset of the referring
// entry.
func validateReferences(scratch *Scratch) error {
	tags, slots, offs := scratch.tags, scratch.slots, scratch.offs
	want := func(i int, idx uint32, tag byte) error {
		if idx == 0 || int(idx) >= len(tags) || tags[idx] != tag {
			got := "out of range"
			if int(idx) < len(tags) {
				got = format.TagName(tags[idx])
			}
			return &format.ParseError{
				Offset:   int64(offs[i]),
				Field:    fmt.Sprintf("constant_pool[%d] -> #%d", i, idx),
				Expected: format.TagName(tag),
				Actual:   got,
				Err:      format.ErrBadIndex,
			}
		}
		return nil
	}
	for i := 1; i < len(tags); i++ {
		var err error
		switch tags[i] {
		case format.TagClass, format.TagString, format.TagMethodType, format.TagModule, format.TagPackage:
			err = want(i, slots[i], format.TagUtf8)
		case format.TagFieldref, format.TagMethodref, format.TagInterfaceMethodref:
			if err = want(i, slots[i]>>16, format.TagClass); err == nil {
				err = want(i, slots[i]&0xFFFF, format.TagNameAndType)
			}
		case format.TagNameAndType:
			if err = want(i, slots[i]>>16, format.TagUtf8); err == nil {
				err = want(i, slots[i]&0xFFFF, format.TagUtf8)
			}
		case format.TagDynamic, format.TagInvokeDynamic:
			err = want(i, slots[i]&0xFFFF, format.TagNameAndType)
		case format.TagMethodHandle:
			ref := slots[i] & 0xFFFF
			if ref == 0 || int(ref) >= len(tags) {
				err = want(i, ref, format.TagMethodref)
			}
		}
		if err != nil {
			return err
		}
	}
	return nil
}

func isClass(scratch *Scratch, idx uint16) bool {
	return idx != 0 && int(idx) < len(scratch.tags) && scratch.tags[idx] == format.TagClass
}

func badIndex(off int64, field string, tag byte, idx uint16, scratch *Scratch) error {
	got := "out of range"
	if int(idx) < len(scratch.tags) {
		got = format.TagName(scratch.tags[idx])
	}
	return &format.ParseError{
		Offset:   off,
		Field:    field,
		Expected: format.TagName(tag),
		Actual:   fmt.Sprintf("#%d (%s)", idx, got),
		Err:      format.ErrBadIndex,
	}
}

func (s *Scanner) full(p []byte, field string) error {
	n, err := io.ReadFull(s.br, p)
	start := s.off
	s.off += int64(n)
	if err != nil {
		if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
			return &format.ParseError{
				Offset:   start,
				Field:    field,
				Expected: fmt.Sprintf("%d bytes", len(p)),
				Actual:   fmt.Sprintf("%d bytes", n),
				Err:      format.ErrTruncated,
			}
		}
		return &format.ParseError{Offset: start, Field: field, Err: err}
	}
	return nil
}

func (s *Scanner) u8(field string) (byte, error) {
	if err := s.full(s.tmp[:1], field); err != nil {
		return 0, err
	}
	return s.tmp[0], nil
}

func (s *Scanner) u16(field string) (uint16, error) {
	if err := s.full(s.tmp[:2], field); err != nil {
		return 0, err
	}
	return buf.U16BE(s.tmp[:2]), nil
}

func (s *Scanner) u32(field string) (uint32, error) {
	if err := s.full(s.tmp[:4], field); err != nil {
		return 0, err
	}
	return buf.U32BE(s.tmp[:4]), nil
}

func (s *Scanner) skip(n int, field string) error {
	start := s.off
	d, err := s.br.Discard(n)
	s.off += int64(d)
	if err != nil {
		if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
			return &format.ParseError{
				Offset:   start,
				Field:    field,
				Expected: fmt.Sprintf("%d bytes", n),
				Actual:   fmt.Sprintf("%d bytes", d),
				Err:      format.ErrTruncated,
			}
		}
		return &format.ParseError{Offset: start, Field: field, Err: err}
	}
	return nil
}
