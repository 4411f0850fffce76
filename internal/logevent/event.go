// Package logevent defines the event/trace input model consumed by the
// rest of the engine. Events and traces are produced once by an external
// parser collaborator and are read-only thereafter.
package logevent

import "fmt"

// EventKind discriminates between domain events and the two synthetic
// sentinel kinds every trace graph shares.
type EventKind int

const (
	KindDomain EventKind = iota
	KindInitial
	KindTerminal
)

func (k EventKind) String() string {
	switch k {
	case KindInitial:
		return "INITIAL"
	case KindTerminal:
		return "TERMINAL"
	default:
		return "DOMAIN"
	}
}

// EventType is a value object identifying the kind of an event. Two
// EventTypes are equal iff Kind and Label agree; the zero value of Label
// is meaningful only for the two sentinel kinds, which carry no label.
//
// EventType is a plain comparable struct so it can be used directly as a
// map key (the "hashable" requirement from the spec) without a custom
// Equals/Hash method.
type EventType struct {
	Kind  EventKind
	Label string
}

// Initial and Terminal are the two well-known sentinel event types shared
// by every trace graph built by this module.
var (
	Initial  = EventType{Kind: KindInitial}
	Terminal = EventType{Kind: KindTerminal}
)

// Domain constructs a domain EventType with the given label.
func Domain(label string) EventType { return EventType{Kind: KindDomain, Label: label} }

// IsSentinel reports whether t is one of the two synthetic sentinels.
func (t EventType) IsSentinel() bool { return t.Kind != KindDomain }

func (t EventType) String() string {
	if t.Kind != KindDomain {
		return t.Kind.String()
	}
	return t.Label
}

// Interner deduplicates EventType values so repeated occurrences across a
// large trace set share one backing string/struct, as encouraged by the
// spec ("Hashable; interning encouraged for memory").
type Interner struct {
	seen map[EventType]EventType
}

// NewInterner creates an empty Interner.
func NewInterner() *Interner {
	return &Interner{seen: make(map[EventType]EventType)}
}

// Intern returns the canonical representative of t, registering it on
// first sight.
func (in *Interner) Intern(t EventType) EventType {
	if existing, ok := in.seen[t]; ok {
		return existing
	}
	in.seen[t] = t
	return t
}

// EventMeta carries opaque, non-identity-affecting metadata about an
// occurrence: where it was observed and when. Neither field participates
// in equality, hashing, or invariant mining.
type EventMeta struct {
	SourceLine int
	Timestamp  string
}

// Event is a single occurrence of an EventType. Identity is positional:
// two Events are "the same occurrence" only by their index within a Trace.
type Event struct {
	Type EventType
	Meta EventMeta
}

func (e Event) String() string {
	if e.Meta.SourceLine != 0 {
		return fmt.Sprintf("%s@%d", e.Type, e.Meta.SourceLine)
	}
	return e.Type.String()
}

// Trace is an ordered sequence of events from one execution. It never
// includes the INITIAL/TERMINAL sentinels explicitly; those are added by
// the trace graph builder.
type Trace []Event

// TraceSet is the parser-facing input envelope: a collection of traces
// plus the declared relation labels used to interpret them (spec.md §6).
type TraceSet struct {
	Traces       []Trace
	TimeRelation string
	AuxRelations []string
}

// EventTypes returns the distinct, non-sentinel EventTypes occurring
// anywhere in the set, in first-seen order.
func (ts TraceSet) EventTypes() []EventType {
	seen := make(map[EventType]bool)
	var out []EventType
	for _, tr := range ts.Traces {
		for _, e := range tr {
			if e.Type.IsSentinel() {
				continue
			}
			if !seen[e.Type] {
				seen[e.Type] = true
				out = append(out, e.Type)
			}
		}
	}
	return out
}
