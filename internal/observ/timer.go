// Package observ records how long each driver phase took, per workspace,
// for --timings.
package observ

import (
	"fmt"
	"strings"
	"sync"
	"time"
)

// Phase is one timed step of one workspace: loading its files, parsing
// them into the basket, or lowering its modules.
type Phase struct {
	Name      string
	Workspace string // empty for the main workspace
	Start     time.Time
	Dur       time.Duration
	Note      string

	timer *Timer
}

// Label is "name" or "name [workspace]".
func (p *Phase) Label() string {
	if p.Workspace == "" {
		return p.Name
	}
	return p.Name + " [" + p.Workspace + "]"
}

// End stops the phase. It is a no-op on a nil phase and on a phase that
// already ended.
func (p *Phase) End(note string) {
	if p == nil || p.timer == nil {
		return
	}
	t := p.timer
	t.mu.Lock()
	defer t.mu.Unlock()
	if p.Dur == 0 {
		p.Dur = max(time.Since(p.Start), time.Nanosecond)
		p.Note = note
	}
}

// Timer collects phases. It is safe for concurrent use; external
// workspaces may be timed from their own goroutines.
type Timer struct {
	mu     sync.Mutex
	phases []*Phase
}

func NewTimer() *Timer { return &Timer{} }

// Begin starts a phase. A nil Timer returns a nil Phase, so callers need
// no check before timing.
func (t *Timer) Begin(name, workspace string) *Phase {
	if t == nil {
		return nil
	}
	p := &Phase{Name: name, Workspace: workspace, Start: time.Now(), timer: t}
	t.mu.Lock()
	t.phases = append(t.phases, p)
	t.mu.Unlock()
	return p
}

// Len returns the number of phases begun.
func (t *Timer) Len() int {
	if t == nil {
		return 0
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.phases)
}

// PhaseReport is the serialized form of a Phase.
type PhaseReport struct {
	Name       string  `json:"name" msgpack:"name"`
	Workspace  string  `json:"workspace,omitempty" msgpack:"workspace,omitempty"`
	DurationMS float64 `json:"duration_ms" msgpack:"duration_ms"`
	Note       string  `json:"note,omitempty" msgpack:"note,omitempty"`
}

// Report aggregates the phases. WallMS spans the first start to the last
// end; SumMS adds the phases up.
type Report struct {
	WallMS float64       `json:"wall_ms" msgpack:"wall_ms"`
	SumMS  float64       `json:"sum_ms" msgpack:"sum_ms"`
	Phases []PhaseReport `json:"phases" msgpack:"phases"`
}

// Report snapshots the ended phases in the order they began.
func (t *Timer) Report() Report {
	if t == nil {
		return Report{}
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	var (
		r          Report
		first, end time.Time
		sum        time.Duration
	)
	for _, p := range t.phases {
		if p.Dur == 0 {
			continue
		}
		if first.IsZero() || p.Start.Before(first) {
			first = p.Start
		}
		if stop := p.Start.Add(p.Dur); stop.After(end) {
			end = stop
		}
		sum += p.Dur
		r.Phases = append(r.Phases, PhaseReport{
			Name:       p.Name,
			Workspace:  p.Workspace,
			DurationMS: millis(p.Dur),
			Note:       p.Note,
		})
	}
	if len(r.Phases) > 0 {
		r.WallMS = millis(end.Sub(first))
		r.SumMS = millis(sum)
	}
	return r
}

// Summary renders the report as an aligned table.
func (t *Timer) Summary() string {
	r := t.Report()
	width := len("total")
	for _, p := range r.Phases {
		width = max(width, len(label(p)))
	}
	var sb strings.Builder
	sb.WriteString("timings:\n")
	for _, p := range r.Phases {
		fmt.Fprintf(&sb, "  %-*s %9.2f ms", width, label(p), p.DurationMS)
		if p.Note != "" {
			sb.WriteString("  // ")
			sb.WriteString(p.Note)
		}
		sb.WriteByte('\n')
	}
	fmt.Fprintf(&sb, "  %-*s %9.2f ms  // wall\n", width, "total", r.WallMS)
	return sb.String()
}

func label(p PhaseReport) string {
	return (&Phase{Name: p.Name, Workspace: p.Workspace}).Label()
}

func millis(d time.Duration) float64 {
	return float64(d) / float64(time.Millisecond)
}
