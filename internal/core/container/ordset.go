package container

import (
	"cmp"
	"fmt"
	"sort"
	"strings"
)

// OrdSet is a strictly ordered, duplicate-free sequence of comparable
// values. It backs both the sorted-unique target sequences of a SymbolPost
// and the sorted-unique symbol sequences of a StatePost.
//
// The zero value is an empty, ready-to-use set.
type OrdSet[T cmp.Ordered] struct {
	items []T
}

// NewOrdSet builds an OrdSet containing the given values, sorted and
// deduplicated.
func NewOrdSet[T cmp.Ordered](items ...T) OrdSet[T] {
	s := OrdSet[T]{}
	for _, it := range items {
		s.Add(it)
	}
	return s
}

// search returns the index at which v is, or should be inserted to keep the
// set sorted, and whether it was found.
func (s *OrdSet[T]) search(v T) (int, bool) {
	i := sort.Search(len(s.items), func(i int) bool { return s.items[i] >= v })
	if i < len(s.items) && s.items[i] == v {
		return i, true
	}
	return i, false
}

// Add inserts v if it is not already present. Reports whether v was newly
// added.
func (s *OrdSet[T]) Add(v T) bool {
	i, found := s.search(v)
	if found {
		return false
	}
	s.items = append(s.items, v)
	copy(s.items[i+1:], s.items[i:])
	s.items[i] = v
	return true
}

// Merge inserts every value of other into s, keeping s sorted and unique.
func (s *OrdSet[T]) Merge(other OrdSet[T]) {
	for _, v := range other.items {
		s.Add(v)
	}
}

// Remove deletes v if present. Reports whether v was present.
func (s *OrdSet[T]) Remove(v T) bool {
	i, found := s.search(v)
	if !found {
		return false
	}
	s.items = append(s.items[:i], s.items[i+1:]...)
	return true
}

// Has reports whether v is a member.
func (s OrdSet[T]) Has(v T) bool {
	_, found := s.search(v)
	return found
}

// Len returns the number of members.
func (s OrdSet[T]) Len() int {
	return len(s.items)
}

// Empty reports whether the set has no members.
func (s OrdSet[T]) Empty() bool {
	return len(s.items) == 0
}

// Elements returns the members in ascending order. The caller must not
// mutate the returned slice.
func (s OrdSet[T]) Elements() []T {
	return s.items
}

// Copy returns an independent copy of s.
func (s OrdSet[T]) Copy() OrdSet[T] {
	cp := make([]T, len(s.items))
	copy(cp, s.items)
	return OrdSet[T]{items: cp}
}

// Equal reports whether s and other contain exactly the same members.
func (s OrdSet[T]) Equal(other OrdSet[T]) bool {
	if len(s.items) != len(other.items) {
		return false
	}
	for i := range s.items {
		if s.items[i] != other.items[i] {
			return false
		}
	}
	return true
}

// Union returns a new set containing every member of s or other.
func (s OrdSet[T]) Union(other OrdSet[T]) OrdSet[T] {
	out := s.Copy()
	out.Merge(other)
	return out
}

// Intersection returns a new set containing only members present in both s
// and other.
func (s OrdSet[T]) Intersection(other OrdSet[T]) OrdSet[T] {
	out := OrdSet[T]{}
	for _, v := range s.items {
		if other.Has(v) {
			out.items = append(out.items, v)
		}
	}
	return out
}

// Difference returns a new set containing members of s that are not in
// other.
func (s OrdSet[T]) Difference(other OrdSet[T]) OrdSet[T] {
	out := OrdSet[T]{}
	for _, v := range s.items {
		if !other.Has(v) {
			out.items = append(out.items, v)
		}
	}
	return out
}

// Intersects reports whether s and other share at least one member.
func (s OrdSet[T]) Intersects(other OrdSet[T]) bool {
	for _, v := range s.items {
		if other.Has(v) {
			return true
		}
	}
	return false
}

// Any reports whether any member of s satisfies predicate.
func (s OrdSet[T]) Any(predicate func(T) bool) bool {
	for _, v := range s.items {
		if predicate(v) {
			return true
		}
	}
	return false
}

// String renders the set as a brace-delimited, comma-separated list in
// ascending order.
func (s OrdSet[T]) String() string {
	var sb strings.Builder
	sb.WriteRune('{')
	for i, v := range s.items {
		if i > 0 {
			sb.WriteString(", ")
		}
		fmt.Fprintf(&sb, "%v", v)
	}
	sb.WriteRune('}')
	return sb.String()
}
