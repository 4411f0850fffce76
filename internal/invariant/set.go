package invariant

import (
	"fmt"
	"sort"
	"strings"
)

// Set is a deduplicated collection of BinaryInvariants with a stable
// insertion-order iteration (spec.md §4.3, Design Note §9 "stable
// iteration order... otherwise regression tests fail").
type Set struct {
	order []BinaryInvariant
	index map[BinaryInvariant]struct{}
}

// NewSet creates an empty InvariantSet.
func NewSet() *Set {
	return &Set{index: make(map[BinaryInvariant]struct{})}
}

// Add inserts inv if not already present, reporting whether it was new.
func (s *Set) Add(inv BinaryInvariant) bool {
	if _, ok := s.index[inv]; ok {
		return false
	}
	s.index[inv] = struct{}{}
	s.order = append(s.order, inv)
	return true
}

// Remove deletes inv from the set, reporting whether it was present.
func (s *Set) Remove(inv BinaryInvariant) bool {
	if _, ok := s.index[inv]; !ok {
		return false
	}
	delete(s.index, inv)
	for i, cur := range s.order {
		if cur == inv {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
	return true
}

// Contains reports whether inv is a member.
func (s *Set) Contains(inv BinaryInvariant) bool {
	_, ok := s.index[inv]
	return ok
}

// Len returns the number of invariants in the set.
func (s *Set) Len() int { return len(s.order) }

// All returns the invariants in stable insertion order. The returned slice
// is a copy; mutating it does not affect the set.
func (s *Set) All() []BinaryInvariant {
	out := make([]BinaryInvariant, len(s.order))
	copy(out, s.order)
	return out
}

// SortedByLex returns the invariants ordered lexicographically by their
// String() form, the same order the refinement loop uses to pick among
// counter-examples (spec.md §4.6 tie-break rule).
func (s *Set) SortedByLex() []BinaryInvariant {
	out := s.All()
	sort.Slice(out, func(i, j int) bool { return out[i].String() < out[j].String() })
	return out
}

// CountByKind returns the number of invariants of each kind currently in
// the set.
func (s *Set) CountByKind() map[Kind]int {
	counts := make(map[Kind]int)
	for _, inv := range s.order {
		counts[inv.Kind]++
	}
	return counts
}

// String renders the set in a stable, human-readable form, one invariant
// per line, in insertion order.
func (s *Set) String() string {
	var b strings.Builder
	for i, inv := range s.order {
		if i > 0 {
			b.WriteByte('\n')
		}
		fmt.Fprint(&b, inv.String())
	}
	return b.String()
}

// Equal reports whether s and other contain exactly the same invariants,
// irrespective of insertion order.
func (s *Set) Equal(other *Set) bool {
	if s.Len() != other.Len() {
		return false
	}
	for inv := range s.index {
		if !other.Contains(inv) {
			return false
		}
	}
	return true
}
