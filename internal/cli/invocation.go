// Package cli is the thin, ambient driver around internal/engine: parse
// flags, load a trace file, run the pipeline, print a summary. It owns no
// domain logic — spec.md explicitly excludes "command-line argument
// parsing" and "the line-by-line regular-expression trace parser" from
// the core, so none of that lives here either; it is glue, not a module.
package cli

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"strings"

	"invminer/internal/bisim"
)

const (
	ExitSuccess           = 0
	ExitInvalidInvocation = 1
	ExitConfigError       = 2
	ExitInternalError     = 3
)

// Invocation is the canonicalized description of one run.
type Invocation struct {
	TracePath            string
	TimeRelation         string
	UseTransitiveClosure bool
	MaxTCAlphabet        int
	Refine               bool
	Coarsen              bool
	KeepUnrefined        bool
	ShowInitial          bool
	ShowTerminal         bool
	ExplainConstituents  bool
}

// InvocationError carries the semantic exit code a malformed invocation
// should produce.
type InvocationError struct {
	ExitCode int
	Message  string
}

func (e *InvocationError) Error() string {
	if e == nil {
		return ""
	}
	return e.Message
}

func invalidInvocationf(format string, args ...any) error {
	return &InvocationError{ExitCode: ExitInvalidInvocation, Message: fmt.Sprintf(format, args...)}
}

// ParseInvocation parses CLI flags (excluding argv[0]) into a canonical
// Invocation. It reads no environment variables and assumes no process
// working directory, matching the engine's deterministic, config-explicit
// contract (spec.md §5).
func ParseInvocation(args []string) (Invocation, error) {
	fs := flag.NewFlagSet("invminer", flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	var inv Invocation
	fs.StringVar(&inv.TracePath, "traces", "", "Path to a JSON trace-set file. Required.")
	fs.StringVar(&inv.TimeRelation, "time-relation", "t", "Name of the time ordering relation.")
	fs.BoolVar(&inv.UseTransitiveClosure, "transitive-closure", false, "Use the transitive-closure miner instead of the chain walker.")
	fs.IntVar(&inv.MaxTCAlphabet, "max-tc-alphabet", 0, "Alphabet size limit for the transitive-closure miner (0 = unlimited).")
	fs.BoolVar(&inv.Refine, "refine", true, "Run counter-example-driven refinement.")
	fs.BoolVar(&inv.Coarsen, "coarsen", true, "Run k-equivalence coarsening after refinement.")
	fs.BoolVar(&inv.KeepUnrefined, "keep-unrefined", false, "Keep an unrefinable invariant (still reported violated) instead of dropping it.")
	fs.BoolVar(&inv.ShowInitial, "show-initial", false, "Include the INITIAL sentinel partition in the summary.")
	fs.BoolVar(&inv.ShowTerminal, "show-terminal", false, "Include the TERMINAL sentinel partition in the summary.")
	fs.BoolVar(&inv.ExplainConstituents, "explain-constituents", false, "List each partition's constituent events in the summary.")

	if err := fs.Parse(args); err != nil {
		return Invocation{}, invalidInvocationf("%v", err)
	}
	if fs.NArg() != 0 {
		return Invocation{}, invalidInvocationf("unexpected positional arguments: %q", strings.Join(fs.Args(), " "))
	}
	if strings.TrimSpace(inv.TracePath) == "" {
		return Invocation{}, invalidInvocationf("--traces is required")
	}
	return inv, nil
}

// unrefinableAction maps the invocation's --keep-unrefined flag onto
// bisim's enum.
func (inv Invocation) unrefinableAction() bisim.UnrefinableAction {
	if inv.KeepUnrefined {
		return bisim.KeepUnrefined
	}
	return bisim.DropInvariant
}

// ExitCode extracts the semantic exit code from an error returned by Run
// or ParseInvocation.
func ExitCode(err error) int {
	var invErr *InvocationError
	if errors.As(err, &invErr) && invErr != nil {
		if invErr.ExitCode != 0 {
			return invErr.ExitCode
		}
		return ExitInvalidInvocation
	}
	if err == nil {
		return ExitSuccess
	}
	return ExitInternalError
}
