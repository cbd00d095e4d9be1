// Package trace provides event tracing for the strata array runtime.
//
// Call sites report representation transitions (commitment out of the
// speculative state and generalization to a wider representation), and
// stores report allocation and growth. Tools and tests can watch those
// events without touching the storage code.
//
// # Usage
//
// Enable tracing via command-line flags:
//
//	strata bench --trace=- --trace-level=site
//
// # Architecture
//
//   - Nop: zero-overhead tracer used when tracing is disabled
//   - StreamTracer: immediate write to output (file/stderr)
//   - RingTracer: circular buffer, dumped on failure
//   - Tee: copies each event to several tracers (stream plus ring)
//
// # Levels
//
//   - LevelOff: no tracing
//   - LevelError: only failure dumps
//   - LevelSite: call-site transitions (commit, generalize)
//   - LevelDebug: everything including store allocation and growth
//
// # Context Propagation
//
//	ctx = trace.WithTracer(ctx, tracer)
//	t := trace.FromContext(ctx)
//
//	span := trace.Begin(t, trace.ScopeRuntime, "bench", 0)
//	defer span.End("")
package trace
