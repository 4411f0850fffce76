package engine

import (
	"fmt"

	"invminer/internal/bisim"
	"invminer/internal/invariant"
	"invminer/internal/logevent"
	"invminer/internal/partition"
	"invminer/internal/tracegraph"
)

// Run executes the full pipeline over ts:
//  1. Build the shared trace graph (tracegraph.NewChainTraceGraph).
//  2. Mine the candidate invariant set (ChainWalker or
//     TransitiveClosureMiner, per cfg.UseTransitiveClosure).
//  3. Build the initial partition graph (one partition per EventType).
//  4. Refine it against the mined invariants, if cfg.RefineEnabled.
//  5. Coarsen the result, if cfg.CoarsenEnabled.
//  6. Assemble the Result, honoring cfg.ExplainConstituents.
//
// ts.TimeRelation is overridden by cfg.TimeRelation when the latter is
// non-empty, so callers can repoint an already-parsed TraceSet at a
// different relation without re-parsing.
func Run(ts logevent.TraceSet, cfg Config) (*Result, error) {
	if cfg.TimeRelation != "" {
		ts.TimeRelation = cfg.TimeRelation
	}
	if len(cfg.AuxRelations) > 0 {
		ts.AuxRelations = cfg.AuxRelations
	}

	graph, err := tracegraph.NewChainTraceGraph(ts)
	if err != nil {
		return nil, fmt.Errorf("building trace graph: %w", err)
	}

	mined, err := cfg.miner().Mine(graph)
	if err != nil {
		return nil, fmt.Errorf("mining invariants: %w", err)
	}

	model, err := partition.InitialFrom(graph, mined)
	if err != nil {
		return nil, fmt.Errorf("building initial partition graph: %w", err)
	}

	result := &Result{Model: model, Invariants: mined}

	if cfg.RefineEnabled {
		report, err := bisim.Refine(model, mined, bisim.RefineConfig{OnUnrefinable: cfg.UnrefinableInvariant})
		if err != nil {
			return nil, fmt.Errorf("refining partition graph: %w", err)
		}
		result.Refinement = report
		for _, dropped := range report.Dropped {
			mined.Remove(dropped)
		}
	}

	if cfg.CoarsenEnabled {
		result.MergeCount = bisim.Coarsen(model, mined)
	}

	if cfg.ExplainConstituents {
		result.Constituents = constituentsOf(model)
	}

	return result, nil
}

func constituentsOf(pg *partition.PartitionGraph) map[partition.ID][]tracegraph.NodeID {
	out := make(map[partition.ID][]tracegraph.NodeID)
	for _, id := range pg.AllPartitions() {
		out[id] = pg.Partition(id).Nodes()
	}
	return out
}

// VisiblePartitions returns the live partitions of r.Model in ascending ID
// order, omitting the INITIAL/TERMINAL sentinels unless cfg requested they
// be shown (spec.md §6).
func (r *Result) VisiblePartitions(cfg Config) []partition.ID {
	var out []partition.ID
	for _, id := range r.Model.AllPartitions() {
		if id == r.Model.Initial && !cfg.ShowInitial {
			continue
		}
		if id == r.Model.Terminal && !cfg.ShowTerminal {
			continue
		}
		out = append(out, id)
	}
	return out
}

// InvariantSummary renders a header line with the per-kind counts of
// r.Invariants, followed by the invariants themselves, one per line — a
// small convenience for callers that just want a stable, human-readable
// report.
func (r *Result) InvariantSummary() string {
	counts := r.Invariants.CountByKind()
	return fmt.Sprintf("AFby=%d AP=%d NFby=%d\n%s",
		counts[invariant.AlwaysFollowedBy], counts[invariant.AlwaysPrecedes], counts[invariant.NeverFollowedBy],
		r.Invariants.String())
}
