package bench

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"sync"
	"testing"

	"golang.org/x/text/language"

	"strata/internal/array"
	"strata/internal/observ"
	"strata/internal/snapshot"
	"strata/internal/storage"
	"strata/internal/trace"
)

type recordingSink struct {
	mu     sync.Mutex
	events []Event
}

func (s *recordingSink) OnEvent(ev Event) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = append(s.events, ev)
}

func TestWorkloadRepresentations(t *testing.T) {
	want := map[string]storage.Representation{
		"push-narrow":   storage.NarrowInt,
		"push-widening": storage.WideInt,
		"push-mixed":    storage.Generic,
		"literal-float": storage.Float,
		"concat-join":   storage.WideInt,
		"map-double":    storage.Float,
		"select-even":   storage.NarrowInt,
		"sort-small":    storage.NarrowInt,
		"sort-large":    storage.NarrowInt,
		"set-algebra":   storage.NarrowInt,
		"index-append":  storage.NarrowInt,
		"slice-dup":     storage.NarrowInt,
	}
	if len(want) != len(Names()) {
		t.Fatalf("expected %d workloads, got %d", len(want), len(Names()))
	}
	results, err := Run(context.Background(), Options{Jobs: 4, Size: 200})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for _, r := range results {
		if r.Rep != want[r.Workload] {
			t.Errorf("%s: expected %s, got %s", r.Workload, want[r.Workload], r.Rep)
		}
		if r.Counters.Allocations+r.Counters.Reallocations == 0 {
			t.Errorf("%s: expected store work to be counted", r.Workload)
		}
	}
}

func TestResultLengths(t *testing.T) {
	results, err := Run(context.Background(), Options{
		Size:      100,
		Workloads: []string{"push-narrow", "select-even", "set-algebra", "sort-small", "slice-dup"},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := []int{100, 50, 100, 3, 1}
	for i, r := range results {
		if r.Length != want[i] {
			t.Errorf("%s: expected length %d, got %d", r.Workload, want[i], r.Length)
		}
	}
}

func TestPushIsAmortized(t *testing.T) {
	const n = 4096
	results, err := Run(context.Background(), Options{Size: n, Workloads: []string{"push-narrow"}})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	c := results[0].Counters
	// n writes plus at most n growth copies
	if c.ElementCopies > 2*n {
		t.Fatalf("expected at most %d copies, got %d", 2*n, c.ElementCopies)
	}
	if c.Generalizations != 0 {
		t.Fatalf("expected no generalization, got %d", c.Generalizations)
	}
}

func TestLookup(t *testing.T) {
	ws, err := Lookup([]string{"sort-large", "sort-large", "push-mixed"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(ws) != 2 || ws[0].Name != "sort-large" || ws[1].Name != "push-mixed" {
		t.Fatalf("unexpected selection: %v", ws)
	}
	if _, err := Lookup([]string{"nope"}); err == nil || !strings.Contains(err.Error(), "unknown workload") {
		t.Fatalf("expected unknown workload error, got %v", err)
	}
	if _, err := Run(context.Background(), Options{Size: -1}); err == nil {
		t.Fatal("expected negative size error")
	}
}

func TestEventsAndSnapshots(t *testing.T) {
	sink := &recordingSink{}
	snaps, err := snapshot.Open(t.TempDir())
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	timer := observ.NewTimer()
	_, err = Run(context.Background(), Options{
		Size:      32,
		Workloads: []string{"push-widening", "literal-float"},
		Sink:      sink,
		Snapshots: snaps,
		Timer:     timer,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	statuses := map[string][]Status{}
	for _, ev := range sink.events {
		statuses[ev.Workload] = append(statuses[ev.Workload], ev.Status)
	}
	for _, name := range []string{"push-widening", "literal-float"} {
		got := statuses[name]
		if len(got) != 3 || got[0] != StatusQueued || got[1] != StatusWorking || got[2] != StatusDone {
			t.Fatalf("%s: expected queued, working, done, got %v", name, got)
		}
	}
	a, ok, err := snaps.GetArray("push-widening")
	if err != nil || !ok {
		t.Fatalf("expected snapshot, got ok=%v err=%v", ok, err)
	}
	if a.Representation() != storage.WideInt || a.Len() != 32 {
		t.Fatalf("expected 32 WideInt elements, got %d %s", a.Len(), a.Representation())
	}
	if len(timer.Report().Phases) != 2 {
		t.Fatalf("expected 2 timed phases, got %d", len(timer.Report().Phases))
	}
}

func TestProfileWarmStart(t *testing.T) {
	cold := storage.NewRegistry(storage.SiteConfig{})
	first, err := Run(context.Background(), Options{Size: 64, Workloads: []string{"literal-float"}, Registry: cold})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	warm := storage.NewRegistry(storage.SiteConfig{})
	warm.Preload(cold.Profile())
	second, err := Run(context.Background(), Options{Size: 64, Workloads: []string{"literal-float"}, Registry: warm})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if second[0].Counters.Commits != 0 {
		t.Fatalf("expected warm site to be committed already, got %d commits", second[0].Counters.Commits)
	}
	if second[0].Counters.ElementCopies >= first[0].Counters.ElementCopies {
		t.Fatalf("expected warm run to copy less, got %d >= %d",
			second[0].Counters.ElementCopies, first[0].Counters.ElementCopies)
	}
}

func TestCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := Run(ctx, Options{Size: 10})
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}

func TestWorkloadPanicsBecomeErrors(t *testing.T) {
	bad := Workload{
		Name: "bad",
		Run: func(env *Env) (*array.Array, error) {
			env.Site("x").Allocate(-1)
			return nil, nil
		},
	}
	_, err := runOne(context.Background(), storage.NewRegistry(storage.SiteConfig{}), bad, 1, nil)
	var serr *storage.Error
	if !errors.As(err, &serr) || serr.Code != storage.CodeContract {
		t.Fatalf("expected contract error, got %v", err)
	}
}

func TestRunEmitsSpans(t *testing.T) {
	ring := trace.NewRingTracer(256, trace.LevelSite)
	ctx := trace.WithTracer(context.Background(), ring)
	if _, err := Run(ctx, Options{Size: 8, Workloads: []string{"push-mixed"}}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	var names []string
	for _, ev := range ring.Snapshot() {
		if ev.Kind == trace.KindSpanBegin {
			names = append(names, ev.Name)
		}
	}
	if len(names) != 2 || names[0] != "bench" || names[1] != "push-mixed" {
		t.Fatalf("expected bench and push-mixed spans, got %v", names)
	}
}

func TestWriteReport(t *testing.T) {
	results := []Result{
		{Workload: "push-narrow", Rep: storage.NarrowInt, Length: 12345, Counters: observ.Counters{ElementCopies: 1234567, Allocations: 2}},
	}
	var buf bytes.Buffer
	if err := WriteReport(&buf, results, language.English); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	out := buf.String()
	if !strings.Contains(out, "1,234,567") || !strings.Contains(out, "12,345") || !strings.Contains(out, "NarrowInt") {
		t.Fatalf("expected grouped numbers in report, got:\n%s", out)
	}
}
