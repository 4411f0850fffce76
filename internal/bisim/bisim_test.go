package bisim

import (
	"testing"

	"invminer/internal/checker"
	"invminer/internal/invariant"
	"invminer/internal/logevent"
	"invminer/internal/partition"
	"invminer/internal/tracegraph"
)

func buildPartitionGraph(t *testing.T, traces ...[]string) *partition.PartitionGraph {
	t.Helper()
	ts := logevent.TraceSet{TimeRelation: "t"}
	for _, tr := range traces {
		var trace logevent.Trace
		for _, label := range tr {
			trace = append(trace, logevent.Event{Type: logevent.Domain(label)})
		}
		ts.Traces = append(ts.Traces, trace)
	}
	g, err := tracegraph.NewChainTraceGraph(ts)
	if err != nil {
		t.Fatalf("NewChainTraceGraph: %v", err)
	}
	pg, err := partition.InitialFrom(g, invariant.NewSet())
	if err != nil {
		t.Fatalf("InitialFrom: %v", err)
	}
	return pg
}

func afby(a, b string) invariant.BinaryInvariant {
	return invariant.BinaryInvariant{Kind: invariant.AlwaysFollowedBy, First: logevent.Domain(a), Second: logevent.Domain(b), Relation: "t"}
}

// traces {"x b c", "y b e"}: x and y are distinct predecessors of a shared
// 'b'. AFby(x,c) holds on the real traces (x only occurs in the trace
// ending in c; the y-trace never has an x, so it is vacuously satisfied).
// But the initial partition graph merges the two b occurrences into one
// partition, which spuriously connects x's path to e through that merged
// b — a path no real trace ever took. Refinement must split b to remove
// the spurious connection while leaving the true invariant intact.
func TestRefineSplitsOnCounterExample(t *testing.T) {
	pg := buildPartitionGraph(t, []string{"x", "b", "c"}, []string{"y", "b", "e"})
	set := invariant.NewSet()
	set.Add(afby("x", "c"))

	res, err := Refine(pg, set, RefineConfig{OnUnrefinable: DropInvariant})
	if err != nil {
		t.Fatalf("Refine: %v", err)
	}
	if len(res.Dropped) != 0 {
		t.Fatalf("expected no invariants dropped, got %v", res.Dropped)
	}

	bIDs := pg.PartitionsOfType(logevent.Domain("b"))
	if len(bIDs) != 2 {
		t.Fatalf("expected 'b' to have split into 2 partitions, got %d", len(bIDs))
	}

	for _, inv := range set.All() {
		if r := checker.Check(pg, inv); r.Violated {
			t.Fatalf("invariant %s still violated after refinement", inv)
		}
	}
}

// S5 (coarsening): after refinement on traces {"a b", "a b", "a c"}, the
// two 'b' occurrences (from the two identical "a b" traces) coalesce into
// one partition without violating any invariant.
func TestCoarsenMergesEquivalentPartitions(t *testing.T) {
	pg := buildPartitionGraph(t, []string{"a", "b"}, []string{"a", "b"}, []string{"a", "c"})
	set := invariant.NewSet()

	if _, err := Refine(pg, set, RefineConfig{OnUnrefinable: DropInvariant}); err != nil {
		t.Fatalf("Refine: %v", err)
	}

	// The initial graph holds both 'b' occurrences in one partition and
	// refinement has nothing to split, so separate them by hand to give
	// coarsening two equivalent 'b' partitions to merge.
	bID := pg.PartitionsOfType(logevent.Domain("b"))[0]
	members := pg.Partition(bID).Nodes()
	if _, _, err := pg.Split(bID, []tracegraph.NodeID{members[0]}, []tracegraph.NodeID{members[1]}); err != nil {
		t.Fatalf("Split: %v", err)
	}

	bBefore := len(pg.PartitionsOfType(logevent.Domain("b")))
	if bBefore != 2 {
		t.Fatalf("expected 2 'b' partitions before coarsening, got %d", bBefore)
	}

	Coarsen(pg, set)

	bAfter := pg.PartitionsOfType(logevent.Domain("b"))
	if len(bAfter) != 1 {
		t.Fatalf("expected the two 'b' partitions to coarsen into 1, got %d", len(bAfter))
	}
}

func TestRefineDropsUnrefinableInvariant(t *testing.T) {
	// AFby(x,y) is violated by the single trace "x x" (y never occurs).
	// Splitting eventually isolates every x occurrence into its own
	// singleton partition, at which point no further split can separate
	// the counter-example from the rest of the path.
	pg := buildPartitionGraph(t, []string{"x", "x"})
	set := invariant.NewSet()
	set.Add(invariant.BinaryInvariant{Kind: invariant.AlwaysFollowedBy, First: logevent.Domain("x"), Second: logevent.Domain("y"), Relation: "t"})

	res, err := Refine(pg, set, RefineConfig{OnUnrefinable: DropInvariant})
	if err != nil {
		t.Fatalf("Refine: %v", err)
	}
	if len(res.Dropped) != 1 {
		t.Fatalf("expected AFby(x,y) to be dropped as unrefinable, got dropped=%v", res.Dropped)
	}
}
