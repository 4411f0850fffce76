package checker

import (
	"container/heap"

	"invminer/internal/invariant"
	"invminer/internal/partition"
)

// Result is the outcome of checking one invariant against a partition
// graph.
type Result struct {
	Invariant invariant.BinaryInvariant
	Violated  bool
	// Path is the shortest counter-example, as a sequence of partition IDs
	// from INITIAL, present only when Violated is true. AFby's path is the
	// full witnessing prefix; AP/NFby paths are trimmed to the witness
	// (spec.md §4.3's shorten-on-violation rule, invariant.ShortenIndex).
	Path []partition.ID
}

// idHeap is a min-heap over partition IDs, giving the worklist a
// deterministic processing order.
type idHeap []partition.ID

func (h idHeap) Len() int            { return len(h) }
func (h idHeap) Less(i, j int) bool  { return h[i] < h[j] }
func (h idHeap) Swap(i, j int)       { h[i], h[j] = h[j], h[i] }
func (h *idHeap) Push(x interface{}) { *h = append(*h, x.(partition.ID)) }
func (h *idHeap) Pop() interface{} {
	old := *h
	n := len(old)
	x := old[n-1]
	*h = old[:n-1]
	return x
}

// Check runs the FSM invariant checker for inv over pg: a worklist-driven
// traversal that propagates state-sets from the initial partition,
// merging at join points, until no state-set strictly grows (spec.md
// §4.5).
func Check(pg *partition.PartitionGraph, inv invariant.BinaryInvariant) *Result {
	acc := map[partition.ID]*StateSet{pg.Initial: seed(inv, pg.Initial)}

	wl := &idHeap{pg.Initial}
	heap.Init(wl)
	queued := map[partition.ID]bool{pg.Initial: true}

	for wl.Len() > 0 {
		p := heap.Pop(wl).(partition.ID)
		queued[p] = false

		part := pg.Partition(p)
		if part == nil {
			continue
		}
		cur := acc[p]
		advanced := cur.Advance(inv, part.Type)

		for _, q := range pg.Successors(p, inv.Relation) {
			next := advanced.extendTo(q)
			old, existed := acc[q]
			merged := next
			if existed {
				merged = old.MergeWith(next)
			}
			if !existed || !slotsIdentical(merged, old) {
				acc[q] = merged
				if !queued[q] {
					heap.Push(wl, q)
					queued[q] = true
				}
			}
		}
	}

	return evaluate(inv, acc, pg)
}

func evaluate(inv invariant.BinaryInvariant, acc map[partition.ID]*StateSet, pg *partition.PartitionGraph) *Result {
	var failing *HistoryNode
	switch inv.Kind {
	case invariant.AlwaysFollowedBy:
		if term, ok := acc[pg.Terminal]; ok {
			failing = term.slots[afbyAwaitingB]
		}
	case invariant.AlwaysPrecedes:
		failing = shortestAcross(acc, pg, apViolated)
	case invariant.NeverFollowedBy:
		failing = shortestAcross(acc, pg, nfbyBSeenAfter)
	}

	if failing == nil {
		return &Result{Invariant: inv, Violated: false}
	}

	path := failing.Path()
	n := inv.ShortenIndex(len(path), len(path)-1)
	return &Result{Invariant: inv, Violated: true, Path: path[:n]}
}

// shortestAcross returns the shortest HistoryNode present at the given
// substate slot across all live partitions, scanning in ascending
// partition-ID order for determinism.
func shortestAcross(acc map[partition.ID]*StateSet, pg *partition.PartitionGraph, slot int) *HistoryNode {
	var best *HistoryNode
	for _, p := range pg.AllPartitions() {
		s, ok := acc[p]
		if !ok {
			continue
		}
		h := s.slots[slot]
		if h == nil {
			continue
		}
		if best == nil || h.shorterThan(best) {
			best = h
		}
	}
	return best
}

// CheckAll runs Check for every invariant in set and returns the results
// in the set's stable iteration order.
func CheckAll(pg *partition.PartitionGraph, set *invariant.Set) []*Result {
	invs := set.All()
	out := make([]*Result, len(invs))
	for i, inv := range invs {
		out[i] = Check(pg, inv)
	}
	return out
}
