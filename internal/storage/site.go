package storage

import (
	"strconv"

	"strata/internal/observ"
	"strata/internal/trace"
	"strata/internal/value"
)

// SiteConfig configures a call site.
type SiteConfig struct {
	// Options seeds eligible representations. Nil means DefaultOptions.
	Options *Options
	// Tracer receives commit/generalize and allocate/grow events.
	Tracer trace.Tracer
	// Counters receives storage work. A fresh set is used when nil.
	Counters *observ.Counters
	// Backtracer is attached to every *Error raised at the site.
	Backtracer Backtracer
	// Initial is the starting representation. Unknown unless warm-started
	// from a profile.
	Initial Representation
}

// Site is the strategy slot of one allocation point. It holds exactly one
// live Strategy and replaces it whenever an operation returns a successor.
// A Site is not safe for concurrent use.
type Site struct {
	name     string
	strategy Strategy
	opts     Options
	tracer   trace.Tracer
	counters *observ.Counters
	errs     errorBuilder
}

// NewSite creates a call site named name.
func NewSite(name string, cfg SiteConfig) *Site {
	opts := DefaultOptions()
	if cfg.Options != nil {
		opts = *cfg.Options
	}
	if cfg.Tracer == nil {
		cfg.Tracer = trace.Nop
	}
	if cfg.Counters == nil {
		cfg.Counters = &observ.Counters{}
	}
	return &Site{
		name:     name,
		strategy: NewStrategy(cfg.Initial, opts, cfg.Counters),
		opts:     opts,
		tracer:   cfg.Tracer,
		counters: cfg.Counters,
		errs:     errorBuilder{site: name, bt: cfg.Backtracer},
	}
}

// Name returns the site name.
func (s *Site) Name() string { return s.name }

// Representation returns the representation of the live strategy.
func (s *Site) Representation() Representation { return s.strategy.Representation() }

// Options returns the options the site was created with.
func (s *Site) Options() Options { return s.opts }

// Counters returns the counters fed by this site.
func (s *Site) Counters() *observ.Counters { return s.counters }

// Tracer returns the site's tracer.
func (s *Site) Tracer() trace.Tracer { return s.tracer }

// Allocate returns a zero-filled store with n slots.
func (s *Site) Allocate(n int) Store {
	if n < 0 {
		panic(s.errs.contract("negative allocation size %d", n))
	}
	st := s.strategy.Allocate(n)
	s.counters.Allocated()
	s.storeEvent("allocate", st.Rep, 0, n)
	return st
}

// Empty returns a capacity-0 store in the site's representation. A site
// that has not committed yet returns a boxed store.
func (s *Site) Empty() Store {
	return NewStore(s.strategy.Representation(), 0)
}

// Write stores v at index. The returned store replaces st; it differs from
// st when v forced a generalization.
func (s *Site) Write(st Store, index int, v value.Value) (Store, error) {
	if index < 0 || index >= st.Cap() {
		return st, s.errs.outOfRange(index, st.Cap())
	}
	out, next := s.strategy.Write(st, index, v)
	s.transition(next, "write")
	return out, nil
}

// WriteAll copies src[start:start+count] into st starting at index. An
// invalid source range is a contract violation and panics.
func (s *Site) WriteAll(st Store, index int, src Store, start, count int) (Store, error) {
	if start < 0 || count < 0 || start > src.Cap()-count {
		panic(s.errs.contract("source range [%d, %d) invalid for capacity %d", start, start+count, src.Cap()))
	}
	if index < 0 || index > st.Cap()-count {
		return st, s.errs.rangeOutOfRange(index, count, st.Cap())
	}
	out, next := s.strategy.WriteAll(st, index, src, start, count)
	s.transition(next, "write-all")
	return out, nil
}

// Finalize turns st, holding length written elements, into a result store.
func (s *Site) Finalize(st Store, length int) Store {
	if length < 0 || length > st.Cap() {
		panic(s.errs.contract("finalize length %d invalid for capacity %d", length, st.Cap()))
	}
	out, next := s.strategy.Finalize(st, length)
	s.transition(next, "finalize")
	return out
}

// Grow returns a store of the same representation with room for required
// elements, copying the first length elements. st is returned unchanged
// when it is already large enough.
func (s *Site) Grow(st Store, length, required int) Store {
	capacity := NextCapacity(st.Cap(), required)
	if capacity == st.Cap() {
		return st
	}
	if length < 0 || length > st.Cap() {
		panic(s.errs.contract("grow length %d invalid for capacity %d", length, st.Cap()))
	}
	out := convert(st, st.Rep, capacity, length)
	s.counters.Reallocated()
	s.counters.Copied(length)
	s.storeEvent("grow", out.Rep, st.Cap(), capacity)
	return out
}

// Reserve returns a store that holds the first length elements of st, has
// room for required elements and can hold elements of rep. The store is
// replaced at most once. An empty array adopts rep outright.
func (s *Site) Reserve(st Store, length, required int, rep Representation) Store {
	target := s.opts.admit(Join(st.Rep, rep))
	if length == 0 && rep != Unknown {
		target = s.opts.admit(rep)
	}
	if target == Unknown {
		target = Generic
	}
	capacity := NextCapacity(st.Cap(), required)
	if target == st.Rep {
		return s.Grow(st, length, required)
	}
	if length < 0 || length > st.Cap() {
		panic(s.errs.contract("reserve length %d invalid for capacity %d", length, st.Cap()))
	}
	out := convert(st, target, capacity, length)
	s.counters.Reallocated()
	s.counters.Copied(length)
	s.storeEvent("grow", out.Rep, st.Cap(), capacity)
	s.transition(s.strategy.Widen(target), "reserve")
	return out
}

// OutOfRange builds an error for an index outside an array of the given
// length, stamped with this site.
func (s *Site) OutOfRange(index, length int) *Error {
	return s.errs.indexOutOfLength(index, length)
}

// Wrap builds an error with code around a collaborator failure.
func (s *Site) Wrap(code Code, err error) *Error {
	return s.errs.wrap(code, err)
}

// Restore moves the site to rep, used when warm-starting from a profile.
// The site never narrows.
func (s *Site) Restore(rep Representation) {
	switch {
	case rep == Unknown:
	case s.strategy.Representation() == Unknown:
		s.transition(NewStrategy(rep, s.opts, s.counters), "profile")
	default:
		s.transition(s.strategy.Widen(rep), "profile")
	}
}

func (s *Site) transition(next Strategy, reason string) {
	prev := s.strategy.Representation()
	s.strategy = next
	cur := next.Representation()
	if cur == prev {
		return
	}
	name := "generalize"
	if prev == Unknown {
		name = "commit"
		s.counters.Committed()
	} else {
		s.counters.Generalized()
	}
	trace.Point(s.tracer, trace.ScopeSite, name, reason, map[string]string{
		"site": s.name,
		"from": prev.String(),
		"to":   cur.String(),
	})
}

func (s *Site) storeEvent(name string, rep Representation, from, to int) {
	if !s.tracer.Enabled() || !s.tracer.Level().ShouldEmit(trace.ScopeStore) {
		return
	}
	trace.Point(s.tracer, trace.ScopeStore, name, "", map[string]string{
		"site": s.name,
		"rep":  rep.String(),
		"from": strconv.Itoa(from),
		"to":   strconv.Itoa(to),
	})
}
