package storage

import (
	"strata/internal/observ"
	"strata/internal/value"
)

// Strategy is the per-site policy for allocating and writing stores.
// Methods that may change the policy return the successor strategy; the
// caller must use it for every later operation. Indices are assumed valid;
// Site performs the checks.
type Strategy interface {
	Representation() Representation
	// Allocate returns a zero-filled store with n slots.
	Allocate(n int) Store
	// Write stores v at index, generalizing the store if it cannot hold v.
	Write(st Store, index int, v value.Value) (Store, Strategy)
	// WriteAll copies src[start:start+count] to st[index:], generalizing
	// at most once.
	WriteAll(st Store, index int, src Store, start, count int) (Store, Strategy)
	// Finalize turns a fully written store of length elements into a result.
	Finalize(st Store, length int) (Store, Strategy)
	// Widen returns a strategy that also accepts elements of rep.
	Widen(rep Representation) Strategy
}

// NewStrategy returns the strategy for rep. Unknown yields a speculative
// strategy seeded from opts.
func NewStrategy(rep Representation, opts Options, counters *observ.Counters) Strategy {
	e := &env{opts: opts, counters: counters}
	return e.strategy(rep)
}

// env is shared by a strategy and all of its successors.
type env struct {
	opts     Options
	counters *observ.Counters
}

func (e *env) strategy(rep Representation) Strategy {
	switch e.opts.admit(rep) {
	case Unknown:
		return unknownStrategy{
			env:         e,
			couldNarrow: e.opts.AllowNarrowInt,
			couldWide:   e.opts.AllowWideInt,
			couldFloat:  e.opts.AllowFloat,
		}
	case NarrowInt:
		return narrowStrategy{e}
	case WideInt:
		return wideStrategy{e}
	case Float:
		return floatStrategy{e}
	default:
		return genericStrategy{e}
	}
}

// generalize replaces st with a store that can also hold elem, copying
// every slot.
func (e *env) generalize(st Store, elem Representation) Store {
	n := st.Cap()
	dst := convert(st, e.opts.admit(Join(st.Rep, elem)), n, n)
	e.counters.Reallocated()
	e.counters.Copied(n)
	return dst
}

// successor is the committed strategy after a store under self moved to rep.
func (e *env) successor(self Strategy, rep Representation) Strategy {
	next := e.opts.admit(Join(self.Representation(), rep))
	if next == self.Representation() {
		return self
	}
	return e.strategy(next)
}

func (e *env) write(self Strategy, st Store, index int, v value.Value) (Store, Strategy) {
	elem := Classify(v)
	if st.Rep.Holds(elem) {
		st.put(index, v)
		return st, self
	}
	st = e.generalize(st, elem)
	st.put(index, v)
	return st, e.successor(self, st.Rep)
}

func (e *env) writeAll(self Strategy, st Store, index int, src Store, start, count int) (Store, Strategy) {
	if count <= 0 {
		return st, self
	}
	next := self
	if elem := ClassifyStore(src, start, count); !st.Rep.Holds(elem) {
		st = e.generalize(st, elem)
		next = e.successor(self, st.Rep)
	}
	copyInto(st, index, src, start, count)
	e.counters.Copied(count)
	return st, next
}

type narrowStrategy struct{ env *env }

func (s narrowStrategy) Representation() Representation { return NarrowInt }

func (s narrowStrategy) Allocate(n int) Store { return NewStore(NarrowInt, n) }

func (s narrowStrategy) Write(st Store, index int, v value.Value) (Store, Strategy) {
	if st.Rep == NarrowInt && v.Kind == value.KindInt && FitsNarrow(v.Int) {
		st.Narrow[index] = int32(v.Int)
		return st, s
	}
	return s.env.write(s, st, index, v)
}

func (s narrowStrategy) WriteAll(st Store, index int, src Store, start, count int) (Store, Strategy) {
	return s.env.writeAll(s, st, index, src, start, count)
}

func (s narrowStrategy) Finalize(st Store, _ int) (Store, Strategy) { return st, s }

func (s narrowStrategy) Widen(rep Representation) Strategy { return s.env.successor(s, rep) }

type wideStrategy struct{ env *env }

func (s wideStrategy) Representation() Representation { return WideInt }

func (s wideStrategy) Allocate(n int) Store { return NewStore(WideInt, n) }

func (s wideStrategy) Write(st Store, index int, v value.Value) (Store, Strategy) {
	if st.Rep == WideInt && v.Kind == value.KindInt {
		st.Wide[index] = v.Int
		return st, s
	}
	return s.env.write(s, st, index, v)
}

func (s wideStrategy) WriteAll(st Store, index int, src Store, start, count int) (Store, Strategy) {
	return s.env.writeAll(s, st, index, src, start, count)
}

func (s wideStrategy) Finalize(st Store, _ int) (Store, Strategy) { return st, s }

func (s wideStrategy) Widen(rep Representation) Strategy { return s.env.successor(s, rep) }

type floatStrategy struct{ env *env }

func (s floatStrategy) Representation() Representation { return Float }

func (s floatStrategy) Allocate(n int) Store { return NewStore(Float, n) }

func (s floatStrategy) Write(st Store, index int, v value.Value) (Store, Strategy) {
	if st.Rep == Float && v.Kind == value.KindFloat {
		st.Float[index] = v.Float
		return st, s
	}
	return s.env.write(s, st, index, v)
}

func (s floatStrategy) WriteAll(st Store, index int, src Store, start, count int) (Store, Strategy) {
	return s.env.writeAll(s, st, index, src, start, count)
}

func (s floatStrategy) Finalize(st Store, _ int) (Store, Strategy) { return st, s }

func (s floatStrategy) Widen(rep Representation) Strategy { return s.env.successor(s, rep) }

type genericStrategy struct{ env *env }

func (s genericStrategy) Representation() Representation { return Generic }

func (s genericStrategy) Allocate(n int) Store { return NewStore(Generic, n) }

func (s genericStrategy) Write(st Store, index int, v value.Value) (Store, Strategy) {
	if st.Rep == Generic {
		st.Boxed[index] = v
		return st, s
	}
	return s.env.write(s, st, index, v)
}

func (s genericStrategy) WriteAll(st Store, index int, src Store, start, count int) (Store, Strategy) {
	return s.env.writeAll(s, st, index, src, start, count)
}

func (s genericStrategy) Finalize(st Store, _ int) (Store, Strategy) { return st, s }

func (s genericStrategy) Widen(Representation) Strategy { return s }
