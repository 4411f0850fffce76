package invariant

import (
	"errors"
	"fmt"

	"invminer/internal/logevent"
	"invminer/internal/tracegraph"
)

// ErrAlphabetTooLarge is returned by TransitiveClosureMiner.Mine when the
// number of distinct event types exceeds MaxAlphabet: its per-trace pass
// over every ordered pair of event types is quadratic in the alphabet
// size, and this guard makes that cost reportable (spec.md §7).
// ChainWalker has no such guard.
var ErrAlphabetTooLarge = errors.New("invariant: event-type alphabet exceeds configured maximum for transitive-closure mining")

// TransitiveClosureMiner is the reference miner described in spec.md §4.2:
// rather than walking counters, it builds a per-trace "occurs before"
// relation between event-type instances and projects it down to the
// first/last occurrence index of each type. Since every trace is a single
// chain, "an instance of a reaches an instance of b" reduces to "some a
// occurs at an earlier index than some b" — no further closure step is
// needed beyond the chain's own total order.
//
// It exists to cross-validate ChainWalker: both must produce the same
// invariant set on any finite chain trace graph (Testable Property 6).
// MaxAlphabet, when positive, bounds the number of distinct event types
// this miner will process before giving up with ErrAlphabetTooLarge; zero
// means unlimited.
type TransitiveClosureMiner struct {
	MaxAlphabet int
}

func (m TransitiveClosureMiner) Mine(g *tracegraph.TraceGraph) (*Set, error) {
	traces := extractTraces(g)
	types := candidateTypes(traces)
	if m.MaxAlphabet > 0 && len(types) > m.MaxAlphabet {
		return nil, fmt.Errorf("%w: %d types exceed limit %d", ErrAlphabetTooLarge, len(types), m.MaxAlphabet)
	}

	afbyHolds := make(map[pairKey]bool, len(types)*len(types))
	apHolds := make(map[pairKey]bool, len(types)*len(types))
	nfbyHolds := make(map[pairKey]bool, len(types)*len(types))
	for _, a := range types {
		for _, b := range types {
			k := pairKey{a, b}
			afbyHolds[k] = true
			apHolds[k] = true
			nfbyHolds[k] = true
		}
	}

	for _, trace := range traces {
		first := make(map[logevent.EventType]int)
		last := make(map[logevent.EventType]int)
		count := make(map[logevent.EventType]int)
		for i, t := range trace {
			if count[t] == 0 {
				first[t] = i
			}
			last[t] = i
			count[t]++
		}

		for _, a := range types {
			for _, b := range types {
				k := pairKey{A: a, B: b}
				ca, cb := count[a], count[b]

				// AFby(a,b): the last a must have some b strictly after it.
				if ca > 0 && !(cb > 0 && last[b] > last[a]) {
					afbyHolds[k] = false
				}
				// AP(a,b): the first b must have some a strictly before it.
				if cb > 0 && !(ca > 0 && first[a] < first[b]) {
					apHolds[k] = false
				}
				// NFby(a,b): no a has any b after it, i.e. all b's (if any)
				// occur at or before the first a.
				if ca > 0 && cb > 0 && last[b] > first[a] {
					nfbyHolds[k] = false
				}
			}
		}
	}

	set := NewSet()
	for _, a := range types {
		for _, b := range types {
			k := pairKey{a, b}
			if afbyHolds[k] {
				set.Add(BinaryInvariant{Kind: AlwaysFollowedBy, First: a, Second: b, Relation: g.TimeRelation})
			}
			if apHolds[k] {
				set.Add(BinaryInvariant{Kind: AlwaysPrecedes, First: a, Second: b, Relation: g.TimeRelation})
			}
			if nfbyHolds[k] {
				set.Add(BinaryInvariant{Kind: NeverFollowedBy, First: a, Second: b, Relation: g.TimeRelation})
			}
		}
	}
	return set, nil
}
