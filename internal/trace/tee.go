package trace

import "errors"

// Nop discards everything. It is the tracer behind a disabled level.
var Nop Tracer = offTracer{}

type offTracer struct{}

func (offTracer) Emit(*Event)   {}
func (offTracer) Flush() error  { return nil }
func (offTracer) Close() error  { return nil }
func (offTracer) Level() Level  { return LevelOff }
func (offTracer) Enabled() bool { return false }

// Tee sends every event to each of its tracers. Tracers stamp the sequence
// number on the event they receive, so each one gets its own copy.
type Tee struct {
	tracers []Tracer
	level   Level
}

// NewTee joins tracers under level. Disabled tracers are dropped; with none
// left the result is Nop, and a single survivor is returned as is.
func NewTee(level Level, tracers ...Tracer) Tracer {
	live := make([]Tracer, 0, len(tracers))
	for _, tr := range tracers {
		if tr != nil && tr.Enabled() {
			live = append(live, tr)
		}
	}
	switch len(live) {
	case 0:
		return Nop
	case 1:
		return live[0]
	}
	return &Tee{tracers: live, level: level}
}

func (t *Tee) Emit(ev *Event) {
	for _, tr := range t.tracers {
		cp := *ev
		tr.Emit(&cp)
	}
}

// Flush flushes every tracer and joins their errors.
func (t *Tee) Flush() error {
	var errs []error
	for _, tr := range t.tracers {
		errs = append(errs, tr.Flush())
	}
	return errors.Join(errs...)
}

// Close closes every tracer and joins their errors.
func (t *Tee) Close() error {
	var errs []error
	for _, tr := range t.tracers {
		errs = append(errs, tr.Close())
	}
	return errors.Join(errs...)
}

func (t *Tee) Level() Level  { return t.level }
func (t *Tee) Enabled() bool { return t.level > LevelOff }

// FindRing returns the ring tracer behind t, if any. The bench command uses
// it to dump the buffered transitions once a run ends.
func FindRing(t Tracer) *RingTracer {
	switch tr := t.(type) {
	case *RingTracer:
		return tr
	case *Tee:
		for _, inner := range tr.tracers {
			if r := FindRing(inner); r != nil {
				return r
			}
		}
	}
	return nil
}
