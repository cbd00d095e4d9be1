package array

import (
	"strata/internal/storage"
	"strata/internal/value"
)

// Sub returns the elements of a that occur nowhere in b, in a's order.
// A nil eq selects value.Equal and enables native fast paths when a and b
// share a native representation.
func Sub(site *storage.Site, a, b *Array, eq EqualFunc) *Array {
	if eq == nil && a.store.Rep == b.store.Rep {
		switch a.store.Rep {
		case storage.NarrowInt:
			kept := subNative(a.store.Narrow[:a.length], b.store.Narrow[:b.length])
			return fromStore(site, storage.NarrowOf(kept), 0, len(kept))
		case storage.WideInt:
			kept := subNative(a.store.Wide[:a.length], b.store.Wide[:b.length])
			return fromStore(site, storage.WideOf(kept), 0, len(kept))
		case storage.Float:
			kept := subNative(a.store.Float[:a.length], b.store.Float[:b.length])
			return fromStore(site, storage.FloatOf(kept), 0, len(kept))
		}
	}
	eq = eqOrDefault(eq)
	kept := make([]value.Value, 0, a.length)
	for i := 0; i < a.length; i++ {
		x := a.store.Get(i)
		if !contains(b, x, eq) {
			kept = append(kept, x)
		}
	}
	return fromStore(site, storage.BoxedOf(kept), 0, len(kept))
}

// Union returns all of a followed by each element of b that is not present
// in a, in b's order.
func Union(site *storage.Site, a, b *Array, eq EqualFunc) *Array {
	if eq == nil && a.store.Rep == b.store.Rep {
		switch a.store.Rep {
		case storage.NarrowInt:
			out := unionNative(a.store.Narrow[:a.length], b.store.Narrow[:b.length])
			return fromStore(site, storage.NarrowOf(out), 0, len(out))
		case storage.WideInt:
			out := unionNative(a.store.Wide[:a.length], b.store.Wide[:b.length])
			return fromStore(site, storage.WideOf(out), 0, len(out))
		case storage.Float:
			out := unionNative(a.store.Float[:a.length], b.store.Float[:b.length])
			return fromStore(site, storage.FloatOf(out), 0, len(out))
		}
	}
	eq = eqOrDefault(eq)
	out := a.Values()
	for i := 0; i < b.length; i++ {
		x := b.store.Get(i)
		if !contains(a, x, eq) {
			out = append(out, x)
		}
	}
	return fromStore(site, storage.BoxedOf(out), 0, len(out))
}

func contains(a *Array, v value.Value, eq EqualFunc) bool {
	for i := 0; i < a.length; i++ {
		if eq(a.store.Get(i), v) {
			return true
		}
	}
	return false
}

func subNative[T int32 | int64 | float64](a, b []T) []T {
	drop := make(map[T]struct{}, len(b))
	for _, x := range b {
		drop[x] = struct{}{}
	}
	kept := make([]T, 0, len(a))
	for _, x := range a {
		if _, ok := drop[x]; !ok {
			kept = append(kept, x)
		}
	}
	return kept
}

func unionNative[T int32 | int64 | float64](a, b []T) []T {
	seen := make(map[T]struct{}, len(a))
	for _, x := range a {
		seen[x] = struct{}{}
	}
	out := make([]T, len(a), len(a)+len(b))
	copy(out, a)
	for _, x := range b {
		if _, ok := seen[x]; !ok {
			out = append(out, x)
		}
	}
	return out
}
