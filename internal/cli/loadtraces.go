package cli

import (
	"fmt"
	"os"

	"invminer/internal/logevent"
)

// loadTraceSet reads and decodes the JSON trace-set envelope at path. This
// is deliberately a thin deserializer, not the excluded regular-expression
// line parser: it assumes some external collaborator has already turned
// raw logs into typed events and merely loads the already-structured
// result (spec.md §6, "a sequence of traces... provided by the parser
// collaborator").
func loadTraceSet(path string) (logevent.TraceSet, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return logevent.TraceSet{}, fmt.Errorf("reading trace file %q: %w", path, err)
	}
	var ts logevent.TraceSet
	if err := ts.UnmarshalJSON(data); err != nil {
		return logevent.TraceSet{}, fmt.Errorf("parsing trace file %q: %w", path, err)
	}
	return ts, nil
}
