package array

import (
	"slices"

	"strata/internal/storage"
	"strata/internal/value"
)

// IndexGet returns the element at i. A negative i counts from the end.
func IndexGet(a *Array, i int64) (value.Value, bool) {
	idx, ok := a.normalize(i)
	if !ok {
		return value.Nil(), false
	}
	return a.store.Get(idx), true
}

// First returns the first element.
func First(a *Array) (value.Value, bool) { return IndexGet(a, 0) }

// Last returns the last element.
func Last(a *Array) (value.Value, bool) { return IndexGet(a, -1) }

// Equal reports whether a and b have equal elements in the same order.
// A nil eq selects value.Equal and enables native comparison.
func Equal(a, b *Array, eq EqualFunc) bool {
	if a.length != b.length {
		return false
	}
	if eq == nil && a.store.Rep == b.store.Rep {
		n := a.length
		switch a.store.Rep {
		case storage.NarrowInt:
			return slices.Equal(a.store.Narrow[:n], b.store.Narrow[:n])
		case storage.WideInt:
			return slices.Equal(a.store.Wide[:n], b.store.Wide[:n])
		case storage.Float:
			return slices.Equal(a.store.Float[:n], b.store.Float[:n])
		}
	}
	eq = eqOrDefault(eq)
	for i := 0; i < a.length; i++ {
		if !eq(a.store.Get(i), b.store.Get(i)) {
			return false
		}
	}
	return true
}

// Include reports whether a has an element equal to v.
func Include(a *Array, v value.Value, eq EqualFunc) bool {
	return Index(a, v, eq) >= 0
}

// Index returns the position of the first element equal to v, or -1.
func Index(a *Array, v value.Value, eq EqualFunc) int {
	if eq == nil {
		if idx, ok := nativeIndex(a, v); ok {
			return idx
		}
	}
	eq = eqOrDefault(eq)
	for i := 0; i < a.length; i++ {
		if eq(a.store.Get(i), v) {
			return i
		}
	}
	return -1
}

// nativeIndex searches native stores without boxing. It reports false
// when the store is boxed.
func nativeIndex(a *Array, v value.Value) (int, bool) {
	n := a.length
	switch a.store.Rep {
	case storage.NarrowInt:
		if v.Kind != value.KindInt || !storage.FitsNarrow(v.Int) {
			return -1, true
		}
		return slices.Index(a.store.Narrow[:n], int32(v.Int)), true
	case storage.WideInt:
		if v.Kind != value.KindInt {
			return -1, true
		}
		return slices.Index(a.store.Wide[:n], v.Int), true
	case storage.Float:
		if v.Kind != value.KindFloat {
			return -1, true
		}
		return slices.Index(a.store.Float[:n], v.Float), true
	}
	return 0, false
}
