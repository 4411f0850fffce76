package partition

import (
	"errors"
	"fmt"
)

// ErrInconsistentSplit is returned when a requested split's subsets do not
// exactly partition the source partition's members (spec.md §7:
// "Inconsistent partition state... refuse the split and return an error").
var ErrInconsistentSplit = errors.New("inconsistent partition split")

// OperationError wraps a failed graph operation with the partition it was
// attempted on.
type OperationError struct {
	Partition ID
	Msg       string
}

func (e *OperationError) Error() string {
	return fmt.Sprintf("partition %d: %s", e.Partition, e.Msg)
}

func (e *OperationError) Unwrap() error { return ErrInconsistentSplit }

func inconsistentf(p ID, format string, args ...any) error {
	return &OperationError{Partition: p, Msg: fmt.Sprintf(format, args...)}
}
