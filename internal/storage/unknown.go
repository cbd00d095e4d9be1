package storage

import "strata/internal/value"

// unknownStrategy writes into boxed stores while remembering which native
// representations could still hold everything written so far. Finalize
// commits to the narrowest one left.
type unknownStrategy struct {
	env         *env
	couldNarrow bool
	couldWide   bool
	couldFloat  bool
}

func (s unknownStrategy) Representation() Representation { return Unknown }

func (s unknownStrategy) Allocate(n int) Store { return NewStore(Generic, n) }

// observe clears the flags that elem rules out.
func (s unknownStrategy) observe(elem Representation) unknownStrategy {
	switch elem {
	case NarrowInt:
		s.couldFloat = false
	case WideInt:
		s.couldNarrow = false
		s.couldFloat = false
	case Float:
		s.couldNarrow = false
		s.couldWide = false
	case Generic:
		s.couldNarrow = false
		s.couldWide = false
		s.couldFloat = false
	}
	return s
}

// target is the narrowest representation the flags still allow.
func (s unknownStrategy) target() Representation {
	switch {
	case s.couldNarrow:
		return NarrowInt
	case s.couldWide:
		return WideInt
	case s.couldFloat:
		return Float
	default:
		return Generic
	}
}

func (s unknownStrategy) Write(st Store, index int, v value.Value) (Store, Strategy) {
	elem := Classify(v)
	next := s.observe(elem)
	if !st.Rep.Holds(elem) {
		st = s.env.generalize(st, elem)
	}
	st.put(index, v)
	return st, next
}

func (s unknownStrategy) WriteAll(st Store, index int, src Store, start, count int) (Store, Strategy) {
	if count <= 0 {
		return st, s
	}
	elem := ClassifyStore(src, start, count)
	next := s.observe(elem)
	if !st.Rep.Holds(elem) {
		st = s.env.generalize(st, elem)
	}
	copyInto(st, index, src, start, count)
	s.env.counters.Copied(count)
	return st, next
}

// Finalize converts the boxed prefix [0, length) to the narrowest allowed
// representation with capacity length. Stores that are already native
// commit the site to their own representation. Slots left unwritten hold
// nil and keep the site Generic.
func (s unknownStrategy) Finalize(st Store, length int) (Store, Strategy) {
	if st.Rep.Native() {
		return st, s.env.strategy(st.Rep)
	}
	target := s.target()
	if target != Generic && hasNil(st.Boxed[:length]) {
		target = Generic
	}
	if target == Generic {
		return st, s.env.strategy(Generic)
	}
	dst := convert(st, target, length, length)
	s.env.counters.Allocated()
	s.env.counters.Copied(length)
	return dst, s.env.strategy(target)
}

func (s unknownStrategy) Widen(rep Representation) Strategy { return s.observe(rep) }

func hasNil(vs []value.Value) bool {
	for _, v := range vs {
		if v.IsNil() {
			return true
		}
	}
	return false
}
