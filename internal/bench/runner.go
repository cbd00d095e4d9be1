package bench

import (
	"context"
	"fmt"
	"runtime"
	"strconv"
	"time"

	"golang.org/x/sync/errgroup"

	"strata/internal/observ"
	"strata/internal/snapshot"
	"strata/internal/storage"
	"strata/internal/trace"
)

// DefaultSize is the element count used when Options.Size is zero.
const DefaultSize = 10_000

// Options configures Run.
type Options struct {
	// Jobs bounds concurrent workloads; <= 0 means GOMAXPROCS.
	Jobs int
	// Size is the element count each workload builds.
	Size int
	// Workloads selects by name; empty runs all of them.
	Workloads []string
	// Registry supplies the sites. A fresh one tracing to the context's
	// tracer is used when nil.
	Registry *storage.Registry
	// Sink receives progress events. Optional.
	Sink Sink
	// Snapshots stores every workload's final array. Optional.
	Snapshots *snapshot.Store
	// Timer records one phase per workload. Optional; owned by the caller
	// goroutine and filled after the workers finish.
	Timer *observ.Timer
}

// Run executes the selected workloads in parallel and returns their results
// in selection order.
func Run(ctx context.Context, opts Options) ([]Result, error) {
	selected, err := Lookup(opts.Workloads)
	if err != nil {
		return nil, err
	}
	size := opts.Size
	if size == 0 {
		size = DefaultSize
	}
	if size < 0 {
		return nil, fmt.Errorf("workload size must be >= 0, got %d", size)
	}
	tracer := trace.FromContext(ctx)
	reg := opts.Registry
	if reg == nil {
		reg = storage.NewRegistry(storage.SiteConfig{Tracer: tracer})
	}
	jobs := opts.Jobs
	if jobs <= 0 {
		jobs = runtime.GOMAXPROCS(0)
	}

	emit := func(ev Event) {
		if opts.Sink != nil {
			opts.Sink.OnEvent(ev)
		}
	}
	for _, w := range selected {
		emit(Event{Workload: w.Name, Status: StatusQueued})
	}

	runSpan := trace.Begin(tracer, trace.ScopeRuntime, "bench", trace.ParentSpan(ctx))
	runSpan.WithExtra("workloads", strconv.Itoa(len(selected))).WithExtra("size", strconv.Itoa(size))
	ctx = trace.WithSpan(ctx, runSpan)

	// each index is written by exactly one goroutine
	results := make([]Result, len(selected))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(max(1, min(jobs, len(selected))))
	for i, w := range selected {
		g.Go(func() error {
			select {
			case <-gctx.Done():
				return gctx.Err()
			default:
			}
			emit(Event{Workload: w.Name, Status: StatusWorking})
			res, err := runOne(gctx, reg, w, size, opts.Snapshots)
			if err != nil {
				emit(Event{Workload: w.Name, Status: StatusError, Err: err, Elapsed: res.Elapsed})
				return fmt.Errorf("workload %s: %w", w.Name, err)
			}
			results[i] = res
			emit(Event{Workload: w.Name, Status: StatusDone, Elapsed: res.Elapsed})
			return nil
		})
	}
	err = g.Wait()
	runSpan.End(errDetail(err))
	if err != nil {
		return nil, err
	}
	if opts.Timer != nil {
		for _, r := range results {
			opts.Timer.Record(r.Workload, r.Elapsed, r.Rep.String())
		}
	}
	return results, nil
}

func runOne(ctx context.Context, reg *storage.Registry, w Workload, size int, snaps *snapshot.Store) (res Result, err error) {
	tracer := trace.FromContext(ctx)
	span := trace.Begin(tracer, trace.ScopeRuntime, w.Name, trace.ParentSpan(ctx))
	start := time.Now()
	defer func() {
		res.Elapsed = time.Since(start)
		span.End(errDetail(err))
	}()
	defer func() {
		// contract violations surface as *storage.Error panics
		if r := recover(); r != nil {
			serr, ok := r.(*storage.Error)
			if !ok {
				panic(r)
			}
			err = serr
		}
	}()

	env := newEnv(ctx, reg, w.Name, size)
	arr, err := w.Run(env)
	if err != nil {
		return Result{Workload: w.Name}, err
	}
	res = Result{
		Workload: w.Name,
		Rep:      arr.Representation(),
		Length:   arr.Len(),
	}
	for _, s := range env.sites {
		res.Counters.Add(*s.Counters())
		res.Sites = append(res.Sites, storage.SiteProfile{Name: s.Name(), Rep: s.Representation()})
	}
	span.WithExtra("rep", res.Rep.String())
	if snaps != nil {
		if err := snaps.PutArray(w.Name, arr); err != nil {
			return res, fmt.Errorf("snapshot: %w", err)
		}
	}
	return res, nil
}

func errDetail(err error) string {
	if err != nil {
		return "error"
	}
	return "ok"
}
