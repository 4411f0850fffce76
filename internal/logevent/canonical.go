package logevent

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
)

// wireEventType, wireEvent and wireTrace are the JSON-facing shapes for the
// TraceSet envelope. Kept separate from the in-memory types so the on-disk
// format can stay stable even if internal representations change, the same
// separation the teacher's ExecutionTrace draws between its domain fields
// and its custom MarshalJSON output.
type wireEventType struct {
	Kind  string `json:"kind"`
	Label string `json:"label,omitempty"`
}

type wireEvent struct {
	Type      wireEventType `json:"type"`
	Line      int           `json:"line,omitempty"`
	Timestamp string        `json:"timestamp,omitempty"`
}

type wireTraceSet struct {
	TimeRelation string      `json:"timeRelation"`
	AuxRelations []string    `json:"auxRelations,omitempty"`
	Traces       [][]wireEvent `json:"traces"`
}

func kindToWire(k EventKind) (string, error) {
	switch k {
	case KindDomain:
		return "domain", nil
	case KindInitial:
		return "initial", nil
	case KindTerminal:
		return "terminal", nil
	default:
		return "", fmt.Errorf("unknown event kind %d", k)
	}
}

func kindFromWire(s string) (EventKind, error) {
	switch s {
	case "domain":
		return KindDomain, nil
	case "initial":
		return KindInitial, nil
	case "terminal":
		return KindTerminal, nil
	default:
		return 0, fmt.Errorf("unknown event kind %q", s)
	}
}

// MarshalJSON encodes the TraceSet in its canonical wire form.
func (ts TraceSet) MarshalJSON() ([]byte, error) {
	if ts.TimeRelation == "" {
		return nil, errors.New("timeRelation is required")
	}
	w := wireTraceSet{
		TimeRelation: ts.TimeRelation,
		AuxRelations: ts.AuxRelations,
		Traces:       make([][]wireEvent, len(ts.Traces)),
	}
	for i, tr := range ts.Traces {
		we := make([]wireEvent, len(tr))
		for j, e := range tr {
			kind, err := kindToWire(e.Type.Kind)
			if err != nil {
				return nil, fmt.Errorf("traces[%d][%d]: %w", i, j, err)
			}
			we[j] = wireEvent{
				Type:      wireEventType{Kind: kind, Label: e.Type.Label},
				Line:      e.Meta.SourceLine,
				Timestamp: e.Meta.Timestamp,
			}
		}
		w.Traces[i] = we
	}
	return json.Marshal(w)
}

// UnmarshalJSON decodes a TraceSet from its canonical wire form, interning
// event types as it goes.
func (ts *TraceSet) UnmarshalJSON(data []byte) error {
	var w wireTraceSet
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}
	if w.TimeRelation == "" {
		return errors.New("timeRelation is required")
	}

	in := NewInterner()
	out := TraceSet{
		TimeRelation: w.TimeRelation,
		AuxRelations: w.AuxRelations,
		Traces:       make([]Trace, len(w.Traces)),
	}
	for i, wt := range w.Traces {
		tr := make(Trace, len(wt))
		for j, we := range wt {
			kind, err := kindFromWire(we.Type.Kind)
			if err != nil {
				return fmt.Errorf("traces[%d][%d]: %w", i, j, err)
			}
			tr[j] = Event{
				Type: in.Intern(EventType{Kind: kind, Label: we.Type.Label}),
				Meta: EventMeta{SourceLine: we.Line, Timestamp: we.Timestamp},
			}
		}
		out.Traces[i] = tr
	}
	*ts = out
	return nil
}

// Hash returns the deterministic sha256 hex digest of the TraceSet's
// canonical JSON encoding, mirroring trace.ComputeTraceHash in the teacher
// repo (sha256 over canonical bytes, hex-encoded).
func (ts TraceSet) Hash() (string, error) {
	b, err := json.Marshal(ts)
	if err != nil {
		return "", err
	}
	sum := sha256.Sum256(b)
	return hex.EncodeToString(sum[:]), nil
}
