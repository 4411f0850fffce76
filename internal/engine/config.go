// Package engine sequences the full inference pipeline over a TraceSet:
// build the trace graph, mine invariants, build the initial partition
// graph, refine it against counter-examples, then coarsen it back down
// (spec.md §2 item 8, the Orchestrator).
package engine

import (
	"invminer/internal/bisim"
	"invminer/internal/invariant"
	"invminer/internal/partition"
	"invminer/internal/tracegraph"
)

// Config holds every knob the pipeline's phases accept, in one explicit,
// plain struct passed by the caller rather than threaded through globals
// or environment lookups (spec.md §6: "a single, in-memory configuration
// object").
type Config struct {
	// TimeRelation names the relation mining and checking walk to
	// establish event order. If empty, the TraceSet's own TimeRelation is
	// used, and "t" if that is empty too.
	TimeRelation string
	// AuxRelations lists additional relation labels the trace graph
	// carries alongside the time relation (spec.md §3). Mining and
	// refinement in this spec operate on TimeRelation only; AuxRelations
	// is carried through to the built graph for any relation-aware
	// consumer of the resulting model.
	AuxRelations []string

	// UseTransitiveClosure selects invariant.TransitiveClosureMiner
	// instead of the default invariant.ChainWalker.
	UseTransitiveClosure bool
	// MaxTCAlphabet bounds TransitiveClosureMiner's event-type alphabet;
	// zero means unlimited. Ignored when UseTransitiveClosure is false.
	MaxTCAlphabet int

	// RefineEnabled runs bisim.Refine over the initial partition graph.
	RefineEnabled bool
	// CoarsenEnabled runs bisim.Coarsen after refinement. Coarsening a
	// graph that was never refined is well-defined but rarely useful;
	// the caller decides.
	CoarsenEnabled bool
	// UnrefinableInvariant selects what bisim.Refine does with a
	// counter-example no split eliminates (spec.md §9).
	UnrefinableInvariant bisim.UnrefinableAction

	// ShowInitial/ShowTerminal control whether Result.VisiblePartitions
	// includes the INITIAL/TERMINAL sentinel partitions (spec.md §6).
	// Result.Model always keeps both sentinels.
	ShowInitial  bool
	ShowTerminal bool

	// RNGSeed is reserved for a future randomized phase (e.g. sampled
	// mining over very large trace sets); nothing in this engine
	// currently consumes it.
	RNGSeed int64

	// ExplainConstituents populates Result.Constituents with each live
	// partition's member EventNodes. Left false by default since it can
	// be large relative to Result.Model itself.
	ExplainConstituents bool
}

// relation returns cfg.TimeRelation, defaulting to "t".
func (cfg Config) relation() tracegraph.RelationLabel {
	if cfg.TimeRelation == "" {
		return "t"
	}
	return tracegraph.RelationLabel(cfg.TimeRelation)
}

func (cfg Config) miner() invariant.Miner {
	if cfg.UseTransitiveClosure {
		return invariant.TransitiveClosureMiner{MaxAlphabet: cfg.MaxTCAlphabet}
	}
	return invariant.ChainWalker{}
}

// Result is the pipeline's output: the shaped partition graph, the mined
// invariant set minus any invariants refinement dropped, and, optionally,
// each partition's constituent EventNodes.
type Result struct {
	Model        *partition.PartitionGraph
	Invariants   *invariant.Set
	Constituents map[partition.ID][]tracegraph.NodeID

	// Refinement reports what bisim.Refine did, nil if RefineEnabled was
	// false.
	Refinement *bisim.RefinementReport
	// MergeCount is the number of merges bisim.Coarsen performed, zero if
	// CoarsenEnabled was false.
	MergeCount int
}
