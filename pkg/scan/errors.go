package scan

import (
	"errors"
	"fmt"
	"io/fs"

	"github.com/joshuapare/apiwatch/internal/format"
)

// FileError records a class file or archive that could not be scanned.
type FileError struct {
	Path string
	Err  error
}

func (e *FileError) Error() string {
	return fmt.Sprintf("%s: %v", e.Path, e.Err)
}

func (e *FileError) Unwrap() error { return e.Err }

// Reason classifies the failure for metrics and reports.
func (e *FileError) Reason() string {
	return reason(e.Err)
}

func reason(err error) string {
	switch {
	case errors.Is(err, format.ErrBadMagic):
		return "bad_magic"
	case errors.Is(err, format.ErrTruncated):
		return "truncated"
	case errors.Is(err, format.ErrUnknownTag):
		return "unknown_tag"
	case errors.Is(err, format.ErrUnsupportedVersion):
		return "unsupported_version"
	case errors.Is(err, format.ErrBadIndex):
		return "bad_index"
	case errors.Is(err, fs.ErrNotExist):
		return "not_found"
	default:
		return "io"
	}
}
