package engine

import (
	"testing"

	"invminer/internal/invariant"
	"invminer/internal/logevent"
)

func traceSet(relation string, traces ...[]string) logevent.TraceSet {
	ts := logevent.TraceSet{TimeRelation: relation}
	for _, tr := range traces {
		var trace logevent.Trace
		for _, label := range tr {
			trace = append(trace, logevent.Event{Type: logevent.Domain(label)})
		}
		ts.Traces = append(ts.Traces, trace)
	}
	return ts
}

func hasInvariant(set *invariant.Set, kind invariant.Kind, a, b string) bool {
	return set.Contains(invariant.BinaryInvariant{Kind: kind, First: logevent.Domain(a), Second: logevent.Domain(b), Relation: "t"})
}

// S1 (trivial AFby): traces {"a b", "a c b"}.
//
// spec.md's own worked example names AP(b,a); hand-tracing the mining
// algorithm shows that pair never holds here (a is always the first
// event of both traces, so nothing ever precedes it) — the pair that
// actually holds under §4.2's formal AP definition is AP(a,b). See
// DESIGN.md "Worked-example discrepancies found while writing tests".
func TestScenarioS1TrivialAFby(t *testing.T) {
	ts := traceSet("t", []string{"a", "b"}, []string{"a", "c", "b"})
	res, err := Run(ts, Config{})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	if !hasInvariant(res.Invariants, invariant.AlwaysFollowedBy, "a", "b") {
		t.Error("expected AFby(a,b)")
	}
	if !hasInvariant(res.Invariants, invariant.AlwaysPrecedes, "a", "b") {
		t.Error("expected AP(a,b)")
	}
	if hasInvariant(res.Invariants, invariant.AlwaysPrecedes, "b", "a") {
		t.Error("did not expect AP(b,a): nothing precedes a, the first event of every trace")
	}
	if !hasInvariant(res.Invariants, invariant.NeverFollowedBy, "b", "a") {
		t.Error("expected NFby(b,a)")
	}
}

// S2 (NFby singleton): traces {"x", "x y", "y x"}.
func TestScenarioS2NFbySingleton(t *testing.T) {
	ts := traceSet("t", []string{"x"}, []string{"x", "y"}, []string{"y", "x"})
	res, err := Run(ts, Config{})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	if hasInvariant(res.Invariants, invariant.NeverFollowedBy, "x", "x") {
		t.Error("did not expect NFby(x,x)")
	}
	if !hasInvariant(res.Invariants, invariant.NeverFollowedBy, "y", "y") {
		t.Error("expected NFby(y,y)")
	}
	if hasInvariant(res.Invariants, invariant.AlwaysFollowedBy, "x", "y") {
		t.Error("did not expect AFby(x,y)")
	}
	if hasInvariant(res.Invariants, invariant.AlwaysPrecedes, "y", "x") {
		t.Error("did not expect AP(y,x)")
	}
}

// S3 (AP): traces {"login read", "login read read"}. See the S1 comment
// above regarding the AP argument-order discrepancy; the pair that holds
// is AP(login,read), not AP(read,login) as spec.md's prose names it.
func TestScenarioS3AlwaysPrecedes(t *testing.T) {
	ts := traceSet("t", []string{"login", "read"}, []string{"login", "read", "read"})
	res, err := Run(ts, Config{})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	if !hasInvariant(res.Invariants, invariant.AlwaysPrecedes, "login", "read") {
		t.Error("expected AP(login,read)")
	}
	if !hasInvariant(res.Invariants, invariant.AlwaysFollowedBy, "login", "read") {
		t.Error("expected AFby(login,read)")
	}
	if !hasInvariant(res.Invariants, invariant.NeverFollowedBy, "read", "login") {
		t.Error("expected NFby(read,login)")
	}
}

// S4 analog (refinement): traces {"x b c", "y b e"}, whose mined set
// includes AFby(x,c). spec.md's own S4 traces ({"a b c", "a b d"}) never mine
// an invariant that forces a split under this module's actual mining
// semantics (AFby(a,c) and AFby(a,d) are both false outright, so nothing
// requires separating the shared b), so that literal example is not
// reproducible as a regression test; this traces/invariant pair exercises
// the same refinement dynamic spec.md's prose describes — a spuriously
// merged partition creating a path no real trace took — with a mined
// invariant that genuinely forces the split. See also
// internal/bisim/bisim_test.go's TestRefineSplitsOnCounterExample, which
// hand-verifies this exact scenario at the partition-graph level.
func TestScenarioS4Refinement(t *testing.T) {
	ts := traceSet("t", []string{"x", "b", "c"}, []string{"y", "b", "e"})

	res, err := Run(ts, Config{RefineEnabled: true})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if !hasInvariant(res.Invariants, invariant.AlwaysFollowedBy, "x", "c") {
		t.Fatal("expected AFby(x,c) to be mined and kept")
	}
	if res.Refinement == nil {
		t.Fatal("expected a refinement report")
	}

	bIDs := res.Model.PartitionsOfType(logevent.Domain("b"))
	if len(bIDs) != 2 {
		t.Fatalf("expected 'b' to split into 2 partitions, got %d", len(bIDs))
	}
}

// S5 (coarsening): after refinement on traces {"a b", "a b", "a c"}, the
// two b occurrences coalesce into one partition without invariant
// violation.
func TestScenarioS5Coarsening(t *testing.T) {
	ts := traceSet("t", []string{"a", "b"}, []string{"a", "b"}, []string{"a", "c"})
	res, err := Run(ts, Config{RefineEnabled: true, CoarsenEnabled: true})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	bIDs := res.Model.PartitionsOfType(logevent.Domain("b"))
	if len(bIDs) != 1 {
		t.Fatalf("expected the two b partitions to coarsen into 1, got %d", len(bIDs))
	}
}

// S6 (unrefinable / not invented): trace {"a"} alone must never mine an
// invariant mentioning TERMINAL — it is a sentinel, not a user event.
func TestScenarioS6NoSentinelInvariants(t *testing.T) {
	ts := traceSet("t", []string{"a"})
	res, err := Run(ts, Config{})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	for _, inv := range res.Invariants.All() {
		if inv.First.IsSentinel() || inv.Second.IsSentinel() {
			t.Fatalf("did not expect a sentinel-referencing invariant, got %s", inv)
		}
	}
}

func TestRunAppliesTransitiveClosureMiner(t *testing.T) {
	ts := traceSet("t", []string{"a", "b"}, []string{"a", "c", "b"})
	res, err := Run(ts, Config{UseTransitiveClosure: true})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if !hasInvariant(res.Invariants, invariant.AlwaysFollowedBy, "a", "b") {
		t.Error("expected AFby(a,b) from the transitive-closure miner")
	}
}

func TestRunTransitiveClosureRespectsAlphabetLimit(t *testing.T) {
	ts := traceSet("t", []string{"a", "b", "c"})
	_, err := Run(ts, Config{UseTransitiveClosure: true, MaxTCAlphabet: 2})
	if err == nil {
		t.Fatal("expected an alphabet-too-large error")
	}
}

func TestResultVisiblePartitionsHidesSentinelsByDefault(t *testing.T) {
	ts := traceSet("t", []string{"a"})
	res, err := Run(ts, Config{})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	cfg := Config{}
	for _, id := range res.VisiblePartitions(cfg) {
		if id == res.Model.Initial || id == res.Model.Terminal {
			t.Fatalf("expected sentinels hidden by default, got partition %d", id)
		}
	}

	cfg.ShowInitial, cfg.ShowTerminal = true, true
	visible := res.VisiblePartitions(cfg)
	if len(visible) != 3 {
		t.Fatalf("expected INITIAL, a, TERMINAL with sentinels shown, got %d partitions", len(visible))
	}
}
