// Package checker implements the FSM invariant checker: per-invariant
// tracing state sets that walk a partition graph and report violations as
// a shortest counter-example path (spec.md §4.5).
package checker

import "invminer/internal/partition"

// HistoryNode is a persistent (structurally shared) linked list of
// partitions witnessing how a state-set substate was reached. Sharing the
// tail across branches is what keeps the checker's memory bounded on a
// partition graph with many converging paths (spec.md §5).
type HistoryNode struct {
	Partition partition.ID
	Prev      *HistoryNode
	Len       int
}

func newHistory(p partition.ID) *HistoryNode { return &HistoryNode{Partition: p, Len: 1} }

func (h *HistoryNode) extend(p partition.ID) *HistoryNode {
	return &HistoryNode{Partition: p, Prev: h, Len: h.Len + 1}
}

// Path reconstructs the partition sequence from INITIAL to the point this
// node was recorded at, in traversal order.
func (h *HistoryNode) Path() []partition.ID {
	out := make([]partition.ID, h.Len)
	cur := h
	for i := h.Len - 1; i >= 0; i-- {
		out[i] = cur.Partition
		cur = cur.Prev
	}
	return out
}

// shorterThan implements the checker's tie-break rule: prefer fewer
// partitions, then lexicographically smaller partition-ID sequence.
func (h *HistoryNode) shorterThan(other *HistoryNode) bool {
	if other == nil {
		return true
	}
	if h.Len != other.Len {
		return h.Len < other.Len
	}
	a, b := h.Path(), other.Path()
	for i := range a {
		if a[i] != b[i] {
			return a[i] < b[i]
		}
	}
	return false
}

func mergeShortest(a, b *HistoryNode) *HistoryNode {
	if a == nil {
		return b
	}
	if b == nil {
		return a
	}
	if b.shorterThan(a) {
		return b
	}
	return a
}
