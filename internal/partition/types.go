// Package partition implements the quotient graph over a trace graph: each
// Partition groups event nodes sharing an EventType, and the PartitionGraph
// supports the split/merge operations that drive refinement and coarsening
// (spec.md §4.4).
package partition

import (
	"sort"

	"invminer/internal/logevent"
	"invminer/internal/tracegraph"
)

// ID indexes into the PartitionGraph's partition arena (Design Note §9:
// arena indices, never pointers).
type ID int

// Edge is a cached outgoing transition of a partition: some member node has
// a transition to a node in To via Relation.
type Edge struct {
	To       ID
	Relation tracegraph.RelationLabel
}

// Partition is a non-empty set of EventNodes sharing an EventType.
type Partition struct {
	ID    ID
	Type  logevent.EventType
	nodes map[tracegraph.NodeID]struct{}
	out   []Edge // cached, recomputed by RecomputeEdges; sorted for determinism
}

// Nodes returns the member node IDs in sorted order.
func (p *Partition) Nodes() []tracegraph.NodeID {
	out := make([]tracegraph.NodeID, 0, len(p.nodes))
	for n := range p.nodes {
		out = append(out, n)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// Contains reports whether n is a member of p.
func (p *Partition) Contains(n tracegraph.NodeID) bool {
	_, ok := p.nodes[n]
	return ok
}

// Size returns the number of member nodes.
func (p *Partition) Size() int { return len(p.nodes) }

// OutEdges returns the partition's cached outgoing edges, sorted by
// (Relation, To) for deterministic iteration.
func (p *Partition) OutEdges() []Edge {
	out := make([]Edge, len(p.out))
	copy(out, p.out)
	return out
}

// SuccessorsVia returns the distinct target partitions reachable via r, in
// sorted order.
func (p *Partition) SuccessorsVia(r tracegraph.RelationLabel) []ID {
	var out []ID
	for _, e := range p.out {
		if e.Relation == r {
			out = append(out, e.To)
		}
	}
	return out
}
