package usage

import (
	"iter"
	"slices"
	"strings"
)

// AnnotationSet is an immutable, sorted, duplicate-free set of tracked
// annotation names.
type AnnotationSet struct {
	names []string
	key   string
}

// NewAnnotationSet builds a set from names in any order.
func NewAnnotationSet(names ...string) AnnotationSet {
	if len(names) == 0 {
		return AnnotationSet{}
	}
	sorted := slices.Clone(names)
	slices.Sort(sorted)
	sorted = slices.Compact(sorted)
	return AnnotationSet{names: sorted, key: strings.Join(sorted, ",")}
}

// Names returns a copy of the names in sorted order. Sets are shared between
// the lookup index and every usage it produces, so callers never see the
// backing slice.
func (s AnnotationSet) Names() []string { return slices.Clone(s.names) }

// All iterates the names in sorted order without copying.
func (s AnnotationSet) All() iter.Seq[string] { return slices.Values(s.names) }

// Len returns the number of names.
func (s AnnotationSet) Len() int { return len(s.names) }

// IsEmpty reports whether the set has no names.
func (s AnnotationSet) IsEmpty() bool { return len(s.names) == 0 }

// Contains reports whether name is in the set.
func (s AnnotationSet) Contains(name string) bool {
	_, ok := slices.BinarySearch(s.names, name)
	return ok
}

// Union returns a set holding the names of both sets.
func (s AnnotationSet) Union(o AnnotationSet) AnnotationSet {
	switch {
	case o.IsEmpty():
		return s
	case s.IsEmpty():
		return o
	}
	return NewAnnotationSet(append(slices.Clone(s.names), o.names...)...)
}

// Equal reports whether both sets hold the same names.
func (s AnnotationSet) Equal(o AnnotationSet) bool { return s.key == o.key }

// String renders the set as comma-separated names.
func (s AnnotationSet) String() string { return s.key }
