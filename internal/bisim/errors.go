package bisim

import (
	"errors"
	"fmt"

	"invminer/internal/invariant"
)

// ErrUnrefinable wraps failures encountered while attempting to eliminate
// a counter-example by splitting (distinct from the ordinary, expected
// case of "no split exists" — see UnrefinableAction).
var ErrUnrefinable = errors.New("refinement failed")

// RefinementError names the invariant whose refinement attempt failed.
type RefinementError struct {
	Invariant invariant.BinaryInvariant
	Msg       string
}

func (e *RefinementError) Error() string {
	return fmt.Sprintf("invariant %s: %s", e.Invariant, e.Msg)
}

func (e *RefinementError) Unwrap() error { return ErrUnrefinable }
