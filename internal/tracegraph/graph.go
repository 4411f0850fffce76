package tracegraph

import "invminer/internal/logevent"

// TraceGraph is the union of all traces with shared INITIAL/TERMINAL
// sentinels (spec.md §3, §4.1). Every trace is a simple chain under the
// time relation; auxiliary relations may add further edges between the
// same nodes.
//
// TraceGraph owns its node and transition arenas; NodeID/TransitionID are
// indices into them, never pointers (Design Note §9).
type TraceGraph struct {
	TimeRelation RelationLabel

	nodes       []EventNode
	transitions []Transition

	Initial  NodeID
	Terminal NodeID
}

// NewChainTraceGraph builds a chain trace graph from ts: each trace
// becomes INITIAL -> e1 -> e2 -> ... -> en -> TERMINAL under the time
// relation, with every trace sharing the same INITIAL/TERMINAL node.
//
// An empty trace (zero events) is represented as a direct
// INITIAL -> TERMINAL time transition.
func NewChainTraceGraph(ts logevent.TraceSet) (*TraceGraph, error) {
	timeRelation := RelationLabel(ts.TimeRelation)
	if timeRelation == "" {
		timeRelation = "t"
	}

	g := &TraceGraph{TimeRelation: timeRelation}
	g.Initial = g.addNode(logevent.Event{Type: logevent.Initial})
	g.Terminal = g.addNode(logevent.Event{Type: logevent.Terminal})

	for _, tr := range ts.Traces {
		prev := g.Initial
		for _, e := range tr {
			n := g.addNode(e)
			g.addTransition(prev, n, timeRelation)
			prev = n
		}
		g.addTransition(prev, g.Terminal, timeRelation)
	}

	if err := g.validateTimeStructure(); err != nil {
		return nil, err
	}
	return g, nil
}

func (g *TraceGraph) addNode(e logevent.Event) NodeID {
	id := NodeID(len(g.nodes))
	g.nodes = append(g.nodes, EventNode{ID: id, Event: e, out: make(map[RelationLabel][]TransitionID)})
	return id
}

func (g *TraceGraph) addTransition(from, to NodeID, rel RelationLabel) TransitionID {
	id := TransitionID(len(g.transitions))
	g.transitions = append(g.transitions, Transition{ID: id, From: from, To: to, Relation: rel})
	g.nodes[from].out[rel] = append(g.nodes[from].out[rel], id)
	return id
}

// validateTimeStructure enforces spec.md §4.1's invariants: every
// non-TERMINAL node has at least one outgoing time transition, and in a
// totally-ordered (chain) graph every non-initial, non-terminal node has
// exactly one. INITIAL is shared across all traces, so it carries one
// outgoing time transition per trace rather than exactly one overall.
func (g *TraceGraph) validateTimeStructure() error {
	for _, n := range g.nodes {
		if n.ID == g.Terminal {
			if len(n.out[g.TimeRelation]) != 0 {
				return structuref(n.ID, "TERMINAL must have no outgoing time transition")
			}
			continue
		}
		if n.ID == g.Initial {
			if len(n.out[g.TimeRelation]) < 1 {
				return structuref(n.ID, "expected at least one outgoing time transition from INITIAL, found %d", len(n.out[g.TimeRelation]))
			}
			continue
		}
		if len(n.out[g.TimeRelation]) != 1 {
			return structuref(n.ID, "expected exactly one outgoing time transition in a chain trace graph, found %d", len(n.out[g.TimeRelation]))
		}
	}
	return nil
}

// NodeCount returns the number of nodes in the graph's arena.
func (g *TraceGraph) NodeCount() int { return len(g.nodes) }

// Node returns the node at id.
func (g *TraceGraph) Node(id NodeID) EventNode { return g.nodes[id] }

// Nodes returns all nodes in arena (insertion) order.
func (g *TraceGraph) Nodes() []EventNode { return g.nodes }

// Transition returns the transition at id.
func (g *TraceGraph) Transition(id TransitionID) Transition { return g.transitions[id] }

// EventType returns the EventType of the node at id.
func (g *TraceGraph) EventType(id NodeID) logevent.EventType { return g.nodes[id].Event.Type }

// Successors returns the target node of each transition leaving id via
// relation r, in transition-insertion order. A target reached by several
// transitions appears once per transition.
func (g *TraceGraph) Successors(id NodeID, r RelationLabel) []NodeID {
	ids := g.nodes[id].out[r]
	out := make([]NodeID, len(ids))
	for i, tid := range ids {
		out[i] = g.transitions[tid].To
	}
	return out
}
