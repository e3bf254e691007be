package util

import (
	"slices"
	"strings"
)

// A SortedSet represents a set of strings kept in lexicographical order.
// The zero value is an empty set ready to use.
//
// A SortedSet is meant to be populated once (at policy-construction time)
// and only read afterwards; it is then safe for concurrent use.
type SortedSet struct {
	elems  []string // invariant: sorted, no duplicates
	maxLen int
}

// Add adds e to set.
func (set *SortedSet) Add(e string) {
	i, found := slices.BinarySearch(set.elems, e)
	if found {
		return
	}
	set.elems = slices.Insert(set.elems, i, e)
	set.maxLen = max(set.maxLen, len(e))
}

// Contains reports whether e is an element of set.
func (set SortedSet) Contains(e string) bool {
	if len(e) > set.maxLen {
		// fast path for overly long (possibly adversarial) inputs
		return false
	}
	_, found := slices.BinarySearch(set.elems, e)
	return found
}

// ToSlice returns a slice of set's elements sorted in lexicographical order.
// The result is a copy; mutating it does not alter set.
func (set SortedSet) ToSlice() []string {
	return slices.Clone(set.elems)
}

// Join concatenates set's elements, in order, separated by sep.
func (set SortedSet) Join(sep string) string {
	return strings.Join(set.elems, sep)
}
