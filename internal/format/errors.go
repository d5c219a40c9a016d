package format

import (
	"errors"
	"fmt"
)

var (
	// ErrBadMagic indicates the stream did not start with 0xCAFEBABE.
	ErrBadMagic = errors.New("format: bad magic")
	// ErrTruncated indicates the stream ended before a structure was complete.
	ErrTruncated = errors.New("format: truncated class file")
	// ErrUnknownTag indicates a constant-pool entry carried a tag this parser
	// does not know how to size.
	ErrUnknownTag = errors.New("format: unknown constant-pool tag")
	// ErrUnsupportedVersion indicates the major version is below the
	// configured floor.
	ErrUnsupportedVersion = errors.New("format: unsupported class-file version")
	// ErrBadIndex indicates a constant-pool index that is zero, out of range,
	// or points at an entry of the wrong kind.
	ErrBadIndex = errors.New("format: bad constant-pool index")
)

// ParseError carries the position and expectation of a failed parse step.
// It unwraps to one of the sentinel errors above so callers can use errors.Is.
type ParseError struct {
	Offset   int64  // byte offset into the class file where the step started
	Field    string // structure being read, e.g. "magic" or "constant_pool[12]"
	Expected string // optional, human-readable
	Actual   string // optional, human-readable
	Err      error
}

func (e *ParseError) Error() string {
	msg := fmt.Sprintf("classfile: %s at offset %d", e.Field, e.Offset)
	if e.Expected != "" || e.Actual != "" {
		msg += fmt.Sprintf(" (expected %s, got %s)", e.Expected, e.Actual)
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *ParseError) Unwrap() error { return e.Err }
