package scan

import (
	"archive/zip"
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/joshuapare/apiwatch/internal/format"
	"github.com/joshuapare/apiwatch/internal/logger"
	"github.com/joshuapare/apiwatch/internal/mmfile"
)

// ErrUnsupportedInput is returned for a path that is not a directory, a
// class file or a jar.
var ErrUnsupportedInput = errors.New("scan: not a class file, jar or directory")

// maxEntrySize bounds the uncompressed size of one archive entry.
const maxEntrySize = 64 << 20

// job is one class file to scan. Loose class files are mapped by the worker;
// archive entries arrive already inflated.
type job struct {
	path string
	file string
	data []byte
}

type walker struct {
	ctx  context.Context
	skip bool
	jobs chan<- job
	fail func(path string, err error)

	skipped int
}

func isClassName(name string) bool { return strings.HasSuffix(name, ".class") }

func isArchiveName(name string) bool {
	ext := strings.ToLower(path.Ext(name))
	return ext == ".jar" || ext == ".zip"
}

func isDescriptorName(name string) bool {
	base := path.Base(filepath.ToSlash(name))
	return base == format.ModuleInfoClass || base == format.PackageInfoClass
}

func (w *walker) send(j job) error {
	select {
	case w.jobs <- j:
		return nil
	case <-w.ctx.Done():
		return w.ctx.Err()
	}
}

// walk enumerates every class file reachable from roots. It returns only
// when ctx is done; other failures go to fail.
func (w *walker) walk(roots []string) error {
	for _, root := range roots {
		info, err := os.Stat(root)
		if err != nil {
			w.fail(root, err)
			continue
		}
		if !info.IsDir() {
			if err := w.file(root); err != nil {
				return err
			}
			continue
		}
		err = filepath.WalkDir(root, func(p string, d fs.DirEntry, err error) error {
			if err != nil {
				w.fail(p, err)
				return nil
			}
			if d.IsDir() || !(isClassName(p) || isArchiveName(p)) {
				return nil
			}
			return w.file(p)
		})
		if err != nil {
			return err
		}
	}
	return nil
}

func (w *walker) file(p string) error {
	switch {
	case isClassName(p):
		if w.skip && isDescriptorName(p) {
			w.skipped++
			logger.Debug("scan: skipping descriptor", "path", p)
			return nil
		}
		return w.send(job{path: p, file: p})
	case isArchiveName(p):
		return w.archiveFile(p)
	default:
		w.fail(p, ErrUnsupportedInput)
		return nil
	}
}

func (w *walker) archiveFile(p string) error {
	data, release, err := mmfile.Map(p)
	if err != nil {
		w.fail(p, err)
		return nil
	}
	defer func() {
		if err := release(); err != nil {
			logger.Warn("scan: unmap failed", "path", p, "err", err)
		}
	}()
	return w.archive(p, bytes.NewReader(data), int64(len(data)))
}

// archive enumerates class entries of a zip, descending into nested jars
// such as the BOOT-INF/lib entries of an executable jar.
func (w *walker) archive(name string, r io.ReaderAt, size int64) error {
	zr, err := zip.NewReader(r, size)
	if err != nil {
		w.fail(name, err)
		return nil
	}
	for _, f := range zr.File {
		if f.FileInfo().IsDir() {
			continue
		}
		entry := name + "!/" + f.Name
		switch {
		case isClassName(f.Name):
			if w.skip && isDescriptorName(f.Name) {
				w.skipped++
				continue
			}
			data, err := readEntry(f)
			if err != nil {
				w.fail(entry, err)
				continue
			}
			if err := w.send(job{path: entry, data: data}); err != nil {
				return err
			}
		case isArchiveName(f.Name):
			data, err := readEntry(f)
			if err != nil {
				w.fail(entry, err)
				continue
			}
			if err := w.archive(entry, bytes.NewReader(data), int64(len(data))); err != nil {
				return err
			}
		}
	}
	return nil
}

func readEntry(f *zip.File) ([]byte, error) {
	if f.UncompressedSize64 > maxEntrySize {
		return nil, fmt.Errorf("entry too large (%d bytes)", f.UncompressedSize64)
	}
	rc, err := f.Open()
	if err != nil {
		return nil, err
	}
	defer rc.Close()
	return io.ReadAll(io.LimitReader(rc, maxEntrySize))
}
