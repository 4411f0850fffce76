// Package tracegraph assembles per-trace directed graphs of event nodes,
// joined through synthetic INITIAL/TERMINAL sentinels shared across every
// trace in the input set (spec.md §4.1).
package tracegraph

import (
	"sort"

	"invminer/internal/logevent"
)

// NodeID is an arena index into a TraceGraph's node slice.
type NodeID int

// TransitionID is an arena index into a TraceGraph's transition slice.
type TransitionID int

// RelationLabel names an ordering relation between events. The time
// relation (conventionally "t") is used for trace ordering; additional
// relation labels represent auxiliary orderings (spec.md §3).
type RelationLabel string

// Transition is a directed edge between two EventNodes, immutable after
// construction.
type Transition struct {
	ID       TransitionID
	From, To NodeID
	Relation RelationLabel
}

// EventNode is a node in a trace graph. It owns one Event and, per
// relation label, an ordered list of outgoing Transitions (by ID, resolved
// against the owning TraceGraph's transition arena rather than held as
// pointers — see DESIGN.md, internal/tracegraph).
type EventNode struct {
	ID    NodeID
	Event logevent.Event
	out   map[RelationLabel][]TransitionID
}

// OutgoingIDs returns the transition IDs leaving this node for relation r,
// in insertion order.
func (n EventNode) OutgoingIDs(r RelationLabel) []TransitionID {
	return n.out[r]
}

// Relations returns the set of relation labels this node has any outgoing
// transition for.
func (n EventNode) Relations() []RelationLabel {
	out := make([]RelationLabel, 0, len(n.out))
	for r := range n.out {
		out = append(out, r)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}
