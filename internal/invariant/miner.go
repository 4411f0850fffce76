package invariant

import (
	"sort"

	"invminer/internal/logevent"
	"invminer/internal/tracegraph"
)

// Miner discovers the set of binary invariants that hold across every
// trace in a trace graph (spec.md §4.2).
type Miner interface {
	Mine(g *tracegraph.TraceGraph) (*Set, error)
}

// extractTraces walks each trace's chain from INITIAL to TERMINAL and
// returns its domain event types in time order. INITIAL/TERMINAL
// themselves are never returned: by design this module only ever mines
// invariants over domain event types, so a trivially-true invariant like
// "a is always followed by TERMINAL" is never invented.
func extractTraces(g *tracegraph.TraceGraph) [][]logevent.EventType {
	starts := g.Successors(g.Initial, g.TimeRelation)
	traces := make([][]logevent.EventType, 0, len(starts))
	for _, start := range starts {
		var seq []logevent.EventType
		cur := start
		for cur != g.Terminal {
			seq = append(seq, g.EventType(cur))
			next := g.Successors(cur, g.TimeRelation)
			if len(next) != 1 {
				break
			}
			cur = next[0]
		}
		traces = append(traces, seq)
	}
	return traces
}

// candidateTypes returns the distinct domain event types occurring across
// traces, sorted by their canonical string form so that candidate-pair
// enumeration — and therefore the resulting Set's insertion order — is
// deterministic regardless of map iteration (Testable Property 5).
func candidateTypes(traces [][]logevent.EventType) []logevent.EventType {
	seen := make(map[logevent.EventType]bool)
	var out []logevent.EventType
	for _, tr := range traces {
		for _, t := range tr {
			if !seen[t] {
				seen[t] = true
				out = append(out, t)
			}
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].String() < out[j].String() })
	return out
}

type pairKey struct {
	A, B logevent.EventType
}
