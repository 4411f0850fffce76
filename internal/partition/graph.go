package partition

import (
	"sort"

	"invminer/internal/invariant"
	"invminer/internal/logevent"
	"invminer/internal/tracegraph"
)

// PartitionGraph is the quotient graph over a TraceGraph: every EventNode
// belongs to exactly one Partition (spec.md §4.4).
//
// Partition IDs are arena indices; split/merge never reuse an old ID for a
// different partition, they retire it and allocate fresh ones (Design Note
// §9).
type PartitionGraph struct {
	trace *tracegraph.TraceGraph

	partitions []*Partition // nil at a retired index
	nodeToPart map[tracegraph.NodeID]ID
	byType     map[logevent.EventType][]ID

	Initial  ID
	Terminal ID
}

// InitialFrom builds the maximally-coarse starting partition graph: one
// partition per EventType, containing all of that type's EventNodes.
//
// invariants is accepted for signature parity with spec.md §4.4; the
// initial grouping depends only on EventType; mined invariants only become
// relevant once the FSM checker evaluates this graph during refinement.
func InitialFrom(g *tracegraph.TraceGraph, invariants *invariant.Set) (*PartitionGraph, error) {
	_ = invariants
	pg := &PartitionGraph{
		trace:      g,
		nodeToPart: make(map[tracegraph.NodeID]ID),
		byType:     make(map[logevent.EventType][]ID),
	}

	var order []logevent.EventType
	seenType := make(map[logevent.EventType]bool)
	groups := make(map[logevent.EventType][]tracegraph.NodeID)
	for _, n := range g.Nodes() {
		t := n.Event.Type
		if !seenType[t] {
			seenType[t] = true
			order = append(order, t)
		}
		groups[t] = append(groups[t], n.ID)
	}

	for _, t := range order {
		id := pg.addPartition(t, groups[t])
		if t == logevent.Initial {
			pg.Initial = id
		}
		if t == logevent.Terminal {
			pg.Terminal = id
		}
	}
	pg.recomputeAll()
	return pg, nil
}

func (pg *PartitionGraph) addPartition(t logevent.EventType, nodes []tracegraph.NodeID) ID {
	id := ID(len(pg.partitions))
	p := &Partition{ID: id, Type: t, nodes: make(map[tracegraph.NodeID]struct{}, len(nodes))}
	for _, n := range nodes {
		p.nodes[n] = struct{}{}
		pg.nodeToPart[n] = id
	}
	pg.partitions = append(pg.partitions, p)
	pg.byType[t] = append(pg.byType[t], id)
	return id
}

func (pg *PartitionGraph) removePartition(id ID) {
	p := pg.partitions[id]
	if p == nil {
		return
	}
	pg.partitions[id] = nil
	list := pg.byType[p.Type]
	for i, cur := range list {
		if cur == id {
			pg.byType[p.Type] = append(list[:i], list[i+1:]...)
			break
		}
	}
	for n := range p.nodes {
		delete(pg.nodeToPart, n)
	}
}

// Partition returns the partition at id, or nil if it has been retired.
func (pg *PartitionGraph) Partition(id ID) *Partition { return pg.partitions[id] }

// PartitionOf returns the partition currently containing n.
func (pg *PartitionGraph) PartitionOf(n tracegraph.NodeID) ID { return pg.nodeToPart[n] }

// TraceGraph returns the underlying trace graph.
func (pg *PartitionGraph) TraceGraph() *tracegraph.TraceGraph { return pg.trace }

// PartitionsOfType returns the live partitions of EventType t, in the order
// they were created.
func (pg *PartitionGraph) PartitionsOfType(t logevent.EventType) []ID {
	src := pg.byType[t]
	out := make([]ID, len(src))
	copy(out, src)
	return out
}

// AllPartitions returns every live partition ID in ascending (arena) order.
func (pg *PartitionGraph) AllPartitions() []ID {
	var out []ID
	for id, p := range pg.partitions {
		if p != nil {
			out = append(out, ID(id))
		}
	}
	return out
}

// Successors returns the distinct partitions reachable from p via relation
// r, sorted by ID.
func (pg *PartitionGraph) Successors(p ID, r tracegraph.RelationLabel) []ID {
	part := pg.partitions[p]
	if part == nil {
		return nil
	}
	return part.SuccessorsVia(r)
}

// Predecessors returns the distinct partitions with an edge into p via
// relation r, sorted by ID.
func (pg *PartitionGraph) Predecessors(p ID, r tracegraph.RelationLabel) []ID {
	var out []ID
	for id, part := range pg.partitions {
		if part == nil {
			continue
		}
		for _, e := range part.out {
			if e.Relation == r && e.To == p {
				out = append(out, ID(id))
				break
			}
		}
	}
	return out
}

// Split replaces p with two new partitions containing exactly left and
// right's member nodes. left and right must be non-empty, disjoint, and
// together cover p's members exactly; otherwise ErrInconsistentSplit is
// returned and p is left untouched.
func (pg *PartitionGraph) Split(p ID, left, right []tracegraph.NodeID) (ID, ID, error) {
	part := pg.partitions[p]
	if part == nil {
		return 0, 0, inconsistentf(p, "partition already retired")
	}
	leftSet := toSet(left)
	rightSet := toSet(right)
	if len(leftSet) == 0 || len(rightSet) == 0 {
		return 0, 0, inconsistentf(p, "split subsets must both be non-empty")
	}
	for n := range leftSet {
		if rightSet[n] {
			return 0, 0, inconsistentf(p, "split subsets must be disjoint")
		}
	}
	if len(leftSet)+len(rightSet) != part.Size() {
		return 0, 0, inconsistentf(p, "split subsets do not cover the partition's members")
	}
	for n := range part.nodes {
		if !leftSet[n] && !rightSet[n] {
			return 0, 0, inconsistentf(p, "split subsets do not cover the partition's members")
		}
	}

	t := part.Type
	pg.removePartition(p)
	pL := pg.addPartition(t, setToSlice(leftSet))
	pR := pg.addPartition(t, setToSlice(rightSet))
	pg.recomputeAll()
	return pL, pR, nil
}

// Merge replaces p and q, which must share an EventType, with a single
// partition containing the union of their members.
func (pg *PartitionGraph) Merge(p, q ID) (ID, error) {
	pp := pg.partitions[p]
	qq := pg.partitions[q]
	if pp == nil || qq == nil {
		return 0, inconsistentf(p, "merge of a retired partition")
	}
	if pp.Type != qq.Type {
		return 0, inconsistentf(p, "merge requires matching EventType, got %v and %v", pp.Type, qq.Type)
	}

	merged := append(pp.Nodes(), qq.Nodes()...)
	t := pp.Type
	pg.removePartition(p)
	pg.removePartition(q)
	id := pg.addPartition(t, merged)
	pg.recomputeAll()
	return id, nil
}

// RecomputeEdges derives p's cached outgoing edges from its member nodes'
// transitions in the underlying trace graph.
func (pg *PartitionGraph) RecomputeEdges(p ID) {
	part := pg.partitions[p]
	if part == nil {
		return
	}
	seen := make(map[Edge]bool)
	var edges []Edge
	for _, n := range part.Nodes() {
		node := pg.trace.Node(n)
		for _, r := range node.Relations() {
			for _, to := range pg.trace.Successors(n, r) {
				e := Edge{To: pg.nodeToPart[to], Relation: r}
				if !seen[e] {
					seen[e] = true
					edges = append(edges, e)
				}
			}
		}
	}
	sort.Slice(edges, func(i, j int) bool {
		if edges[i].Relation != edges[j].Relation {
			return edges[i].Relation < edges[j].Relation
		}
		return edges[i].To < edges[j].To
	})
	part.out = edges
}

// recomputeAll refreshes every live partition's cached edges. Any split or
// merge can change which partition a neighbour's edge resolves to, so a
// full recompute is the simplest implementation that stays correct; the
// engine's scale (offline, CPU-bound, one process) makes the O(V) cost of
// doing so after every structural change immaterial.
func (pg *PartitionGraph) recomputeAll() {
	for id, p := range pg.partitions {
		if p != nil {
			pg.RecomputeEdges(ID(id))
		}
	}
}

func toSet(nodes []tracegraph.NodeID) map[tracegraph.NodeID]bool {
	out := make(map[tracegraph.NodeID]bool, len(nodes))
	for _, n := range nodes {
		out[n] = true
	}
	return out
}

func setToSlice(s map[tracegraph.NodeID]bool) []tracegraph.NodeID {
	out := make([]tracegraph.NodeID, 0, len(s))
	for n := range s {
		out = append(out, n)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}
