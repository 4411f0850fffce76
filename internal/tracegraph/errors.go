package tracegraph

import (
	"errors"
	"fmt"
)

// ErrInvalidStructure is the sentinel wrapped by every StructureError.
var ErrInvalidStructure = errors.New("invalid trace structure")

// StructureError reports a structural violation of a trace graph, such as
// a node with more than one outgoing time transition in a supposedly
// totally-ordered graph (spec.md §7).
type StructureError struct {
	Node NodeID
	Msg  string
}

func (e *StructureError) Error() string {
	return fmt.Sprintf("%s: node %d: %s", ErrInvalidStructure, e.Node, e.Msg)
}

func (e *StructureError) Unwrap() error { return ErrInvalidStructure }

func structuref(node NodeID, format string, args ...any) error {
	return &StructureError{Node: node, Msg: fmt.Sprintf(format, args...)}
}
