package checker

import (
	"testing"

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

func TestCheckHoldingAFbyNotViolated(t *testing.T) {
	pg := buildPartitionGraph(t, []string{"a", "b"}, []string{"a", "c", "b"})
	res := Check(pg, afby("a", "b"))
	if res.Violated {
		t.Fatalf("expected AFby(a,b) to hold, got violation with path %v", res.Path)
	}
}

func TestCheckViolatedAFbyReturnsCounterExample(t *testing.T) {
	pg := buildPartitionGraph(t, []string{"a", "c"})
	res := Check(pg, afby("a", "b"))
	if !res.Violated {
		t.Fatalf("expected AFby(a,b) to be violated: trace 'a c' has no b")
	}
	if len(res.Path) == 0 {
		t.Fatalf("expected a non-empty counter-example path")
	}
	aPart := pg.PartitionsOfType(logevent.Domain("a"))[0]
	found := false
	for _, p := range res.Path {
		if p == aPart {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected counter-example path to pass through the 'a' partition, got %v", res.Path)
	}
}

func TestCheckAllPreservesInvariantSetOrder(t *testing.T) {
	pg := buildPartitionGraph(t, []string{"a", "b"}, []string{"a", "c", "b"})
	set := invariant.NewSet()
	set.Add(afby("a", "b"))
	set.Add(afby("b", "a"))

	results := CheckAll(pg, set)
	if len(results) != 2 {
		t.Fatalf("expected 2 results, got %d", len(results))
	}
	if results[0].Invariant != afby("a", "b") {
		t.Fatalf("expected first result to be AFby(a,b)")
	}
	if results[1].Invariant != afby("b", "a") {
		t.Fatalf("expected second result to be AFby(b,a)")
	}
	if results[0].Violated {
		t.Fatalf("AFby(a,b) should hold")
	}
	if !results[1].Violated {
		t.Fatalf("AFby(b,a) should be violated")
	}
}
