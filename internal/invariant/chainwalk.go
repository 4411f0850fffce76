package invariant

import (
	"invminer/internal/logevent"
	"invminer/internal/tracegraph"
)

// ChainWalker mines binary invariants by walking each trace once in time
// order and maintaining running counters (spec.md §4.2):
//
//   - count[x]: occurrences of x seen so far in the current trace.
//   - followedBy[a][b]: count[a] as of just before the most recent time b
//     was visited with a already among the types seen so far.
//   - precedes[a][b]: number of b's visited so far that had at least one a
//     before them.
//
// A pair's invariant holds globally only if it holds in every trace.
type ChainWalker struct{}

func (ChainWalker) Mine(g *tracegraph.TraceGraph) (*Set, error) {
	traces := extractTraces(g)
	types := candidateTypes(traces)

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
		count := make(map[logevent.EventType]int)
		followedBy := make(map[pairKey]int)
		precedes := make(map[pairKey]int)
		seen := make(map[logevent.EventType]bool)

		for _, b := range trace {
			for a := range seen {
				pk := pairKey{A: a, B: b}
				followedBy[pk] = count[a]
				precedes[pk]++
			}
			count[b]++
			seen[b] = true
		}

		for _, a := range types {
			for _, b := range types {
				k := pairKey{A: a, B: b}
				if count[a] != followedBy[k] {
					afbyHolds[k] = false
				}
				if precedes[k] != count[b] {
					apHolds[k] = false
				}
				if followedBy[k] != 0 {
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
