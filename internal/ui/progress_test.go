package ui

import (
	"math"
	"strings"
	"testing"

	"vanadium/internal/driver"
)

func TestApplyEvent(t *testing.T) {
	files := []string{"a.asn", "b.asn", "c.asn"}
	m := NewProgressModel("transform", files, nil).(*progressModel)

	steps := []struct {
		ev   driver.Event
		doc  int
		want docState
	}{
		{driver.Event{File: "a.asn", Stage: driver.StageParse, Status: driver.StatusWorking}, 0, docParsing},
		{driver.Event{File: "a.asn", Stage: driver.StageParse, Status: driver.StatusDone}, 0, docParsing},
		{driver.Event{File: "a.asn", Stage: driver.StageLower, Status: driver.StatusWorking}, 0, docLowering},
		{driver.Event{File: "a.asn", Stage: driver.StageLower, Status: driver.StatusDone, Module: "App", Cached: true}, 0, docLowered},
		{driver.Event{File: "b.asn", Stage: driver.StageParse, Status: driver.StatusError}, 1, docFailed},
		{driver.Event{File: "b.asn", Stage: driver.StageLower, Status: driver.StatusDone, Module: "Broken"}, 1, docFailed},
		{driver.Event{File: "c.asn", Stage: driver.StageLower, Status: driver.StatusError, Module: "Lib", Errors: 2}, 2, docFailed},
		{driver.Event{File: "unknown.asn", Stage: driver.StageLower, Status: driver.StatusDone}, 0, docLowered},
	}
	for i, s := range steps {
		m.apply(s.ev)
		if got := m.docs[s.doc].state; got != s.want {
			t.Errorf("step %d: state = %s, want %s", i, got, s.want)
		}
	}
	if m.docs[1].module != "" {
		t.Errorf("a failed parse must not pick up lowering results, module = %q", m.docs[1].module)
	}

	m.apply(driver.Event{Stage: driver.StageLower, Status: driver.StatusWorking})
	if m.phase != "lowering" {
		t.Errorf("phase = %q", m.phase)
	}
	view := m.View()
	for _, want := range []string{"transform · lowering", "App", "a.asn", "(cached)", "error", "3/3 modules · 1 cached · 2 errors"} {
		if !strings.Contains(view, want) {
			t.Errorf("view lacks %q:\n%s", want, view)
		}
	}
}

func TestFraction(t *testing.T) {
	m := NewProgressModel("t", []string{"a", "b"}, nil).(*progressModel)
	if m.fraction() != 0 {
		t.Errorf("fresh fraction = %v", m.fraction())
	}
	m.docs[0].state = docLowered
	m.docs[1].state = docParsing
	if got := m.fraction(); math.Abs(got-0.7) > 1e-9 {
		t.Errorf("fraction = %v, want 0.7", got)
	}

	prev := -1.0
	for s := docQueued; s <= docLowered; s++ {
		if s.weight() <= prev {
			t.Errorf("%s weight %v not above %v", s, s.weight(), prev)
		}
		prev = s.weight()
	}
}

func TestTruncate(t *testing.T) {
	tests := []struct {
		in    string
		width int
		want  string
	}{
		{"short.asn", 20, "short.asn"},
		{"very/long/path/module.asn", 10, "very/lo..."},
		{"abcdef", 3, "abc"},
		{"abc", 0, "abc"},
	}
	for _, tt := range tests {
		if got := truncate(tt.in, tt.width); got != tt.want {
			t.Errorf("truncate(%q, %d) = %q, want %q", tt.in, tt.width, got, tt.want)
		}
	}
}
