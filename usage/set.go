package usage

import (
	"cmp"
	"slices"
)

// Set is an insertion-ordered collection of Usages without duplicates.
// The zero value is not usable; call NewSet.
type Set struct {
	items []Usage
	index map[string]int
}

// NewSet creates an empty Set.
func NewSet() *Set {
	return &Set{index: make(map[string]int)}
}

// Add inserts u unless an equal Usage is present. It reports whether u was
// added.
func (s *Set) Add(u Usage) bool {
	k := u.Key()
	if _, ok := s.index[k]; ok {
		return false
	}
	s.index[k] = len(s.items)
	s.items = append(s.items, u)
	return true
}

// AddAll inserts every usage of us.
func (s *Set) AddAll(us ...Usage) {
	for _, u := range us {
		s.Add(u)
	}
}

// Contains reports whether a Usage equal to u is present.
func (s *Set) Contains(u Usage) bool {
	_, ok := s.index[u.Key()]
	return ok
}

// Len returns the number of usages.
func (s *Set) Len() int { return len(s.items) }

// Items returns a copy of the usages in insertion order.
func (s *Set) Items() []Usage { return slices.Clone(s.items) }

// Reset empties the set, keeping its storage.
func (s *Set) Reset() {
	clear(s.items)
	s.items = s.items[:0]
	clear(s.index)
}

// CountByKind returns the number of usages per Kind.
func (s *Set) CountByKind() map[Kind]int {
	out := make(map[Kind]int)
	for _, u := range s.items {
		out[u.Kind()]++
	}
	return out
}

// Sort orders usages by source, kind and identity, giving reports a stable
// order independent of scan order.
func Sort(us []Usage) {
	slices.SortFunc(us, func(a, b Usage) int {
		return cmp.Or(
			cmp.Compare(a.Source(), b.Source()),
			cmp.Compare(a.Kind(), b.Kind()),
			cmp.Compare(a.Key(), b.Key()),
		)
	})
}
