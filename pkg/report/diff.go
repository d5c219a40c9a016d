package report

import (
	"bufio"
	"io"
	"slices"
	"strings"

	"github.com/pmezard/go-difflib/difflib"
)

// Delta is the difference between a baseline and a new scan.
type Delta struct {
	Added   []string `json:"added"`   // usages present only in the new scan
	Removed []string `json:"removed"` // usages present only in the baseline
}

// Empty reports whether nothing changed.
func (d Delta) Empty() bool { return len(d.Added) == 0 && len(d.Removed) == 0 }

// ReadLines reads a text report, ignoring blank lines and "error:" lines.
func ReadLines(r io.Reader) ([]string, error) {
	var out []string
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 1<<20)
	for sc.Scan() {
		l := strings.TrimRight(sc.Text(), "\r")
		if l == "" || strings.HasPrefix(l, "error: ") {
			continue
		}
		out = append(out, l)
	}
	return out, sc.Err()
}

// Compare returns the usages added and removed between two sets of lines.
// Order and duplicates are ignored.
func Compare(old, cur []string) Delta {
	in := func(set []string) map[string]struct{} {
		m := make(map[string]struct{}, len(set))
		for _, s := range set {
			m[s] = struct{}{}
		}
		return m
	}
	om, cm := in(old), in(cur)
	var d Delta
	for s := range cm {
		if _, ok := om[s]; !ok {
			d.Added = append(d.Added, s)
		}
	}
	for s := range om {
		if _, ok := cm[s]; !ok {
			d.Removed = append(d.Removed, s)
		}
	}
	slices.Sort(d.Added)
	slices.Sort(d.Removed)
	return d
}

// Unified returns a unified diff of two text reports. Both sides are sorted
// and deduplicated first so that only real changes show up. The result is
// empty when the reports hold the same usages. A negative context means the
// default of 3 lines; zero prints changed lines only.
func Unified(oldName, newName string, old, cur []string, context int) (string, error) {
	if context < 0 {
		context = 3
	}
	u := difflib.UnifiedDiff{
		A:        withNL(normalize(old)),
		B:        withNL(normalize(cur)),
		FromFile: oldName,
		ToFile:   newName,
		Context:  context,
	}
	return difflib.GetUnifiedDiffString(u)
}

func normalize(lines []string) []string {
	out := slices.Clone(lines)
	slices.Sort(out)
	return slices.Compact(out)
}

func withNL(lines []string) []string {
	out := make([]string, len(lines))
	for i, l := range lines {
		out[i] = l + "\n"
	}
	return out
}
