// Package bisim implements the two model-shaping passes that turn a
// one-partition-per-EventType initial partition graph into the output model:
// counter-example driven refinement (splitting) and k-equivalence
// coarsening (merging), both defined in spec.md §4.6.
package bisim

import (
	"sort"

	"invminer/internal/checker"
	"invminer/internal/invariant"
	"invminer/internal/partition"
	"invminer/internal/tracegraph"
)

// UnrefinableAction controls what happens when a violated invariant has no
// split that eliminates its counter-example (spec.md §9 Open Question).
type UnrefinableAction int

const (
	// DropInvariant removes the invariant from the working set and
	// continues refining the rest. This is the package default.
	DropInvariant UnrefinableAction = iota
	// KeepUnrefined leaves the invariant in the working set, still
	// reported as violated in the final model, but stops retrying it so
	// the loop can make progress on the rest.
	KeepUnrefined
)

// RefineConfig configures the refinement loop.
type RefineConfig struct {
	OnUnrefinable UnrefinableAction
}

// RefinementReport records what the refinement loop did.
type RefinementReport struct {
	Rounds        int
	Dropped       []invariant.BinaryInvariant
	KeptUnrefined []invariant.BinaryInvariant
}

// Refine runs the CEGAR-style splitting loop over pg until every invariant
// in set holds, or has been handled per cfg.OnUnrefinable. pg is mutated in
// place. The returned error is non-nil only when a split that should have
// succeeded (per the partition graph's own consistency rules) failed,
// wrapped as a *RefinementError — an unrefinable counter-example by itself
// is not an error, it is reported via RefinementReport.
func Refine(pg *partition.PartitionGraph, set *invariant.Set, cfg RefineConfig) (*RefinementReport, error) {
	working := invariant.NewSet()
	for _, inv := range set.All() {
		working.Add(inv)
	}

	givenUp := make(map[invariant.BinaryInvariant]bool)
	report := &RefinementReport{}
	for {
		report.Rounds++
		results := checker.CheckAll(pg, working)

		var violated []*checker.Result
		for _, r := range results {
			if r.Violated && !givenUp[r.Invariant] {
				violated = append(violated, r)
			}
		}
		if len(violated) == 0 {
			return report, nil
		}

		// Tie-break: process counter-examples in a deterministic order,
		// lexicographic on invariant serialization (spec.md §4.6).
		sort.Slice(violated, func(i, j int) bool {
			return violated[i].Invariant.String() < violated[j].Invariant.String()
		})
		chosen := violated[0]

		split, err := trySplit(pg, chosen)
		if err != nil {
			return nil, err
		}
		if split {
			continue
		}

		switch cfg.OnUnrefinable {
		case KeepUnrefined:
			givenUp[chosen.Invariant] = true
			report.KeptUnrefined = append(report.KeptUnrefined, chosen.Invariant)
		default:
			working.Remove(chosen.Invariant)
			report.Dropped = append(report.Dropped, chosen.Invariant)
		}
	}
}

// trySplit implements spec.md §4.6 step 4: walking the counter-example path
// backward from its last edge, find the latest partition whose members can
// be separated into "stays on the path" and "does not", and split there.
func trySplit(pg *partition.PartitionGraph, res *checker.Result) (bool, error) {
	path := res.Path
	trace := pg.TraceGraph()

	for i := len(path) - 2; i >= 0; i-- {
		p := path[i]
		next := path[i+1]
		part := pg.Partition(p)
		if part == nil {
			continue
		}

		var onPath, off []tracegraph.NodeID
		for _, n := range part.Nodes() {
			stays := false
			for _, s := range trace.Successors(n, res.Invariant.Relation) {
				if pg.PartitionOf(s) == next {
					stays = true
					break
				}
			}
			if stays {
				onPath = append(onPath, n)
			} else {
				off = append(off, n)
			}
		}

		if len(onPath) > 0 && len(off) > 0 {
			if _, _, err := pg.Split(p, onPath, off); err != nil {
				return false, &RefinementError{Invariant: res.Invariant, Msg: err.Error()}
			}
			return true, nil
		}
	}
	return false, nil
}
