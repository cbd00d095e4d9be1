package observ

import (
	"strings"
	"testing"
	"time"
)

func TestCountersNilSafe(t *testing.T) {
	var c *Counters
	c.Allocated()
	c.Copied(3)
	c.Generalized()
	c.Add(Counters{Allocations: 1})
	c.Reset()
}

func TestCountersAccumulate(t *testing.T) {
	var c Counters
	c.Allocated()
	c.Reallocated()
	c.Copied(5)
	c.Copied(-1)
	c.Committed()
	c.Generalized()
	c.Generalized()

	want := Counters{Allocations: 1, Reallocations: 1, ElementCopies: 5, Commits: 1, Generalizations: 2}
	if c != want {
		t.Fatalf("expected %v, got %v", want, c)
	}

	var total Counters
	total.Add(c)
	total.Add(c)
	if total.ElementCopies != 10 || total.Generalizations != 4 {
		t.Fatalf("expected doubled counters, got %v", total)
	}
	c.Reset()
	if c != (Counters{}) {
		t.Fatalf("expected zero counters after reset, got %v", c)
	}
}

func TestTimerReport(t *testing.T) {
	tm := NewTimer()
	idx := tm.Begin("push")
	tm.End(idx, "narrow")
	tm.End(42, "ignored")
	tm.Record("sort", 2*time.Millisecond, "")

	report := tm.Report()
	if len(report.Phases) != 2 {
		t.Fatalf("expected 2 phases, got %d", len(report.Phases))
	}
	if report.Phases[0].Note != "narrow" {
		t.Fatalf("expected note narrow, got %q", report.Phases[0].Note)
	}
	if report.TotalMS < 2 {
		t.Fatalf("expected total >= 2ms, got %f", report.TotalMS)
	}
	if s := tm.Summary(); !strings.Contains(s, "sort") || !strings.Contains(s, "total") {
		t.Fatalf("unexpected summary:\n%s", s)
	}
}

func TestTimerEmptyReport(t *testing.T) {
	if r := NewTimer().Report(); r.TotalMS != 0 || r.Phases != nil {
		t.Fatalf("expected empty report, got %+v", r)
	}
}
