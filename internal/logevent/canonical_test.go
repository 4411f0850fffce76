package logevent

import (
	"encoding/json"
	"testing"
)

func TestTraceSetRoundTrip(t *testing.T) {
	ts := TraceSet{
		TimeRelation: "t",
		Traces: []Trace{
			{{Type: Domain("a")}, {Type: Domain("b")}},
			{{Type: Domain("a")}, {Type: Domain("c")}, {Type: Domain("b")}},
		},
	}

	b, err := json.Marshal(ts)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}

	var got TraceSet
	if err := json.Unmarshal(b, &got); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}

	if len(got.Traces) != len(ts.Traces) {
		t.Fatalf("expected %d traces, got %d", len(ts.Traces), len(got.Traces))
	}
	for i, tr := range ts.Traces {
		if len(got.Traces[i]) != len(tr) {
			t.Fatalf("trace %d: expected %d events, got %d", i, len(tr), len(got.Traces[i]))
		}
		for j, e := range tr {
			if got.Traces[i][j].Type != e.Type {
				t.Fatalf("trace %d event %d: expected %v, got %v", i, j, e.Type, got.Traces[i][j].Type)
			}
		}
	}
}

func TestTraceSetHashStableAcrossEquivalentConstruction(t *testing.T) {
	build := func() TraceSet {
		return TraceSet{
			TimeRelation: "t",
			Traces: []Trace{
				{{Type: Domain("login")}, {Type: Domain("read")}},
			},
		}
	}

	h1, err := build().Hash()
	if err != nil {
		t.Fatalf("hash 1: %v", err)
	}
	h2, err := build().Hash()
	if err != nil {
		t.Fatalf("hash 2: %v", err)
	}
	if h1 != h2 {
		t.Fatalf("expected stable hash, got %q and %q", h1, h2)
	}
}

func TestInternerDeduplicates(t *testing.T) {
	in := NewInterner()
	a1 := in.Intern(Domain("a"))
	a2 := in.Intern(Domain("a"))
	if a1 != a2 {
		t.Fatalf("expected interned values to be equal")
	}
}

func TestTraceSetRequiresTimeRelation(t *testing.T) {
	ts := TraceSet{Traces: []Trace{{{Type: Domain("a")}}}}
	if _, err := json.Marshal(ts); err == nil {
		t.Fatalf("expected error for missing timeRelation")
	}
}
