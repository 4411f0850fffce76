package cli

import (
	"fmt"
	"strings"

	"invminer/internal/engine"
)

// Result is the outcome of one CLI invocation: the engine result plus the
// rendered summary, returned so black-box tests can inspect both without
// re-running the pipeline.
type Result struct {
	Engine  *engine.Result
	Summary string
}

// Run is the CLI's single entrypoint: parse args, load the trace file,
// run the engine, render a summary. It accepts the argument slice
// (excluding argv[0]) and returns an io.Writer-free Result so callers
// choose how to print it.
func Run(args []string) (Result, error) {
	inv, err := ParseInvocation(args)
	if err != nil {
		return Result{}, err
	}
	return Execute(inv)
}

// Execute runs a canonicalized Invocation through the engine.
func Execute(inv Invocation) (Result, error) {
	ts, err := loadTraceSet(inv.TracePath)
	if err != nil {
		return Result{}, &InvocationError{ExitCode: ExitConfigError, Message: err.Error()}
	}

	cfg := engine.Config{
		TimeRelation:         inv.TimeRelation,
		UseTransitiveClosure: inv.UseTransitiveClosure,
		MaxTCAlphabet:        inv.MaxTCAlphabet,
		RefineEnabled:        inv.Refine,
		CoarsenEnabled:       inv.Coarsen,
		UnrefinableInvariant: inv.unrefinableAction(),
		ShowInitial:          inv.ShowInitial,
		ShowTerminal:         inv.ShowTerminal,
		ExplainConstituents:  inv.ExplainConstituents,
	}

	res, err := engine.Run(ts, cfg)
	if err != nil {
		return Result{}, fmt.Errorf("running engine: %w", err)
	}

	return Result{Engine: res, Summary: renderSummary(res, cfg)}, nil
}

// renderSummary builds a stable, human-readable report of an engine.Result:
// partition count, invariant counts, and (if requested) constituents.
func renderSummary(res *engine.Result, cfg engine.Config) string {
	var b strings.Builder

	visible := res.VisiblePartitions(cfg)
	fmt.Fprintf(&b, "partitions: %d\n", len(visible))
	fmt.Fprint(&b, res.InvariantSummary())
	b.WriteByte('\n')

	if res.Refinement != nil {
		fmt.Fprintf(&b, "refinement: %d round(s), %d dropped, %d kept unrefined\n",
			res.Refinement.Rounds, len(res.Refinement.Dropped), len(res.Refinement.KeptUnrefined))
	}
	if cfg.CoarsenEnabled {
		fmt.Fprintf(&b, "coarsening: %d merge(s)\n", res.MergeCount)
	}

	if cfg.ExplainConstituents {
		fmt.Fprintln(&b, "constituents:")
		for _, id := range visible {
			nodes := res.Constituents[id]
			fmt.Fprintf(&b, "  partition %d (%s): %d node(s)\n", id, res.Model.Partition(id).Type, len(nodes))
		}
	}

	return b.String()
}
