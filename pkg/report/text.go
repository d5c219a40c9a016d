// Package report renders scan results as text or JSON and compares a scan
// against a saved baseline.
package report

import (
	"bufio"
	"fmt"
	"io"
	"slices"
	"strings"

	"github.com/joshuapare/apiwatch/pkg/scan"
	"github.com/joshuapare/apiwatch/usage"
)

// TextOptions controls WriteText.
type TextOptions struct {
	// Paths prefixes each usage with the class file it was found in.
	// Leave unset for baselines, which must not depend on build layout.
	Paths bool

	// Errors appends one "error:" line per unreadable input.
	Errors bool
}

// Lines returns one line per distinct usage in sorted order. The output of
// two scans of the same code is identical, so it serves as a baseline.
func Lines(res *scan.Result) []string {
	seen := make(map[string]struct{})
	var out []string
	for _, u := range res.Usages() {
		s := u.String()
		if _, ok := seen[s]; ok {
			continue
		}
		seen[s] = struct{}{}
		out = append(out, s)
	}
	slices.Sort(out)
	return out
}

// WriteText writes res in the line-oriented text form.
func WriteText(w io.Writer, res *scan.Result, opts TextOptions) error {
	bw := bufio.NewWriter(w)
	if opts.Paths {
		for _, c := range res.Classes {
			us := slices.Clone(c.Usages)
			usage.Sort(us)
			for _, u := range us {
				fmt.Fprintf(bw, "%s: %s\n", c.Path, u)
			}
		}
		us := slices.Clone(res.Annotated)
		usage.Sort(us)
		for _, u := range us {
			fmt.Fprintln(bw, u)
		}
	} else {
		for _, l := range Lines(res) {
			fmt.Fprintln(bw, l)
		}
	}
	if opts.Errors {
		for _, e := range res.Errors {
			fmt.Fprintf(bw, "error: %s\n", e)
		}
	}
	return bw.Flush()
}

// Summary returns a one-line description of res such as
// "12 classes, 3 usages (2 METHOD_REFERENCE, 1 CLASS_USAGE), 1 error".
func Summary(res *scan.Result) string {
	counts := res.CountByKind()
	total := 0
	var parts []string
	for _, k := range usage.Kinds {
		if n := counts[k]; n > 0 {
			total += n
			parts = append(parts, fmt.Sprintf("%d %s", n, k))
		}
	}
	var b strings.Builder
	fmt.Fprintf(&b, "%d %s, %d %s", res.Scanned, plural(res.Scanned, "class", "classes"), total, plural(total, "usage", "usages"))
	if len(parts) > 0 {
		b.WriteString(" (" + strings.Join(parts, ", ") + ")")
	}
	if n := len(res.Errors); n > 0 {
		fmt.Fprintf(&b, ", %d %s", n, plural(n, "error", "errors"))
	}
	return b.String()
}

func plural(n int, one, many string) string {
	if n == 1 {
		return one
	}
	return many
}
