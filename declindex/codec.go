package declindex

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"maps"
	"os"
	"slices"
	"strings"
)

// ErrSyntax indicates a malformed declarative index.
var ErrSyntax = errors.New("declindex: syntax error")

func syntaxErr(line int, format string, args ...any) error {
	return fmt.Errorf("%w: line %d: %s", ErrSyntax, line, fmt.Sprintf(format, args...))
}

// Read parses one or more concatenated blocks into a new Index.
func Read(r io.Reader) (*Index, error) {
	ix := New()
	if err := ReadInto(ix, r); err != nil {
		return nil, err
	}
	return ix, nil
}

// ReadFile parses the declarative index at path.
func ReadFile(path string) (*Index, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	ix, err := Read(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return ix, nil
}

// ReadInto parses blocks from r and merges them into ix. Reading the same
// input twice leaves ix unchanged after the first read.
func ReadInto(ix *Index, r io.Reader) error {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	const (
		outside = iota
		wantName
		inBlock
	)
	state := outside
	var (
		entry   *Entry
		section string
		lineNo  int
	)

	for scanner.Scan() {
		lineNo++
		line := strings.TrimSuffix(scanner.Text(), CR)

		switch state {
		case outside:
			trim := strings.TrimSpace(line)
			if trim == "" || strings.HasPrefix(trim, CommentPrefix) {
				continue
			}
			if trim != BeginMarker {
				return syntaxErr(lineNo, "expected %s, got %q", BeginMarker, trim)
			}
			state = wantName

		case wantName:
			name := strings.TrimSpace(line)
			if name == "" || strings.HasPrefix(name, "=") {
				return syntaxErr(lineNo, "expected tracked annotation name, got %q", name)
			}
			entry = ix.Entry(name)
			section = ""
			state = inBlock

		case inBlock:
			if line == "" {
				continue
			}
			if line == EndMarker {
				state = outside
				entry = nil
				continue
			}
			if strings.HasPrefix(line, "=") {
				if !slices.Contains(sectionOrder, line) {
					return syntaxErr(lineNo, "unknown section %q", line)
				}
				section = line
				continue
			}
			if err := addLine(entry, section, line, lineNo); err != nil {
				return err
			}
		}
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("declindex: read: %w", err)
	}
	if state != outside {
		return syntaxErr(lineNo, "unterminated block, missing %s", EndMarker)
	}
	return nil
}

func addLine(e *Entry, section, line string, lineNo int) error {
	fields := strings.Split(line, Separator)
	want := 1
	switch section {
	case "":
		return syntaxErr(lineNo, "entry %q outside of a section", line)
	case SectionMethods:
		want = 3
	case SectionConstructors, SectionFields:
		want = 2
	}
	if len(fields) != want {
		return syntaxErr(lineNo, "%s entry needs %d field(s), got %d in %q", section, want, len(fields), line)
	}
	for _, f := range fields {
		if f == "" {
			return syntaxErr(lineNo, "empty field in %q", line)
		}
	}

	switch section {
	case SectionInterfaces:
		e.AddInterface(fields[0])
	case SectionClasses:
		e.AddClass(fields[0])
	case SectionAnnotations:
		e.AddAnnotation(fields[0])
	case SectionMethods:
		e.AddMethod(fields[0], fields[1], fields[2])
	case SectionConstructors:
		e.AddConstructor(fields[0], fields[1])
	case SectionFields:
		e.AddField(fields[0], fields[1])
	}
	return nil
}

// Write serializes ix. Blocks and entries are sorted so equal indexes
// produce identical bytes.
func Write(w io.Writer, ix *Index) error {
	bw := bufio.NewWriter(w)
	for _, name := range ix.TrackedAnnotations() {
		e := ix.entries[name]
		fmt.Fprintln(bw, BeginMarker)
		fmt.Fprintln(bw, name)
		writeNames(bw, SectionInterfaces, e.Interfaces)
		writeNames(bw, SectionClasses, e.Classes)
		writeNames(bw, SectionAnnotations, e.Annotations)
		if len(e.Methods) > 0 {
			fmt.Fprintln(bw, SectionMethods)
			for _, m := range e.SortedMethods() {
				fmt.Fprintln(bw, m.Class+Separator+m.Name+Separator+m.Descriptor)
			}
		}
		if len(e.Constructors) > 0 {
			fmt.Fprintln(bw, SectionConstructors)
			for _, c := range e.SortedConstructors() {
				fmt.Fprintln(bw, c.Class+Separator+c.Descriptor)
			}
		}
		if len(e.Fields) > 0 {
			fmt.Fprintln(bw, SectionFields)
			for _, f := range e.SortedFields() {
				fmt.Fprintln(bw, f.Class+Separator+f.Name)
			}
		}
		fmt.Fprintln(bw, EndMarker)
	}
	return bw.Flush()
}

func writeNames(w io.Writer, section string, set map[string]struct{}) {
	if len(set) == 0 {
		return
	}
	fmt.Fprintln(w, section)
	for _, n := range slices.Sorted(maps.Keys(set)) {
		fmt.Fprintln(w, n)
	}
}

// WriteFile serializes ix to path, replacing any existing file.
func WriteFile(path string, ix *Index) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := Write(f, ix); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
