package observ

import (
	"strings"
	"testing"
)

func TestTimer_Report(t *testing.T) {
	tm := NewTimer()
	load := tm.Begin("load", "")
	load.End("3 files, 0 failed")
	load.End("ignored")
	lower := tm.Begin("lower", "common")
	lower.End("")
	tm.Begin("parse", "") // never ended

	r := tm.Report()
	if len(r.Phases) != 2 || tm.Len() != 3 {
		t.Fatalf("phases = %d of %d, want 2 of 3", len(r.Phases), tm.Len())
	}
	if r.Phases[0].Name != "load" || r.Phases[0].Note != "3 files, 0 failed" {
		t.Errorf("phase[0] = %+v", r.Phases[0])
	}
	if r.WallMS <= 0 || r.SumMS <= 0 {
		t.Errorf("wall = %v, sum = %v", r.WallMS, r.SumMS)
	}
	s := tm.Summary()
	for _, want := range []string{"load", "// 3 files, 0 failed", "lower [common]", "total"} {
		if !strings.Contains(s, want) {
			t.Errorf("Summary() missing %q:\n%s", want, s)
		}
	}
}

func TestTimer_Nil(t *testing.T) {
	var tm *Timer
	p := tm.Begin("load", "")
	if p != nil {
		t.Fatal("nil Timer should hand out nil phases")
	}
	p.End("")
	if tm.Len() != 0 {
		t.Error("nil Timer has phases")
	}
	if r := NewTimer().Report(); r.Phases != nil || r.WallMS != 0 {
		t.Errorf("empty Report() = %+v", r)
	}
}
