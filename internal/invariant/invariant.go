// Package invariant defines binary temporal invariants over event-type
// pairs, the deduplicated set that holds them, and the miners that
// discover them from a trace graph (spec.md §4.2, §4.3).
package invariant

import (
	"fmt"

	"invminer/internal/logevent"
	"invminer/internal/tracegraph"
)

// Kind is a tagged discriminator for the three invariant families this
// module mines (spec.md §3: "tagged union over kinds").
type Kind int

const (
	AlwaysFollowedBy Kind = iota
	AlwaysPrecedes
	NeverFollowedBy
)

func (k Kind) String() string {
	switch k {
	case AlwaysFollowedBy:
		return "AFby"
	case AlwaysPrecedes:
		return "AP"
	case NeverFollowedBy:
		return "NFby"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// BinaryInvariant is a structural (comparable) value: two BinaryInvariants
// are equal iff Kind, First, Second and Relation all agree. This makes it
// directly usable as a map key for deduplication.
type BinaryInvariant struct {
	Kind     Kind
	First    logevent.EventType
	Second   logevent.EventType
	Relation tracegraph.RelationLabel
}

func (b BinaryInvariant) String() string {
	return fmt.Sprintf("%s(%s,%s,%s)", b.Kind, b.First, b.Second, b.Relation)
}

// ShortenIndex returns the exclusive length a candidate violation path of
// the given kind should be truncated to, given the full path length and
// the index of the path element that witnesses the violation (spec.md
// §4.3):
//
//   - AlwaysFollowedBy: the full prefix up to the missing "second" is
//     meaningful; the path is returned unchanged.
//   - AlwaysPrecedes / NeverFollowedBy: only the witness matters; any
//     trailing suffix is non-informative and is trimmed.
func (b BinaryInvariant) ShortenIndex(fullLen, witnessIndex int) int {
	switch b.Kind {
	case AlwaysFollowedBy:
		return fullLen
	default:
		if witnessIndex+1 < fullLen {
			return witnessIndex + 1
		}
		return fullLen
	}
}
