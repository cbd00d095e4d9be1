package array

import (
	"strata/internal/storage"
	"strata/internal/value"
)

// Map returns the results of fn applied to each element. A callback error
// aborts the map.
func Map(site *storage.Site, a *Array, fn func(value.Value) (value.Value, error)) (*Array, error) {
	st := site.Allocate(a.length)
	n := 0
	for ; n < a.length && n < st.Cap(); n++ {
		r, err := fn(a.store.Get(n))
		if err != nil {
			return nil, site.Wrap(storage.CodeCallback, err)
		}
		st = must(site.Write(st, n, r))
	}
	return &Array{store: site.Finalize(st, n), length: n}, nil
}

// Select returns the elements for which fn reports true.
func Select(site *storage.Site, a *Array, fn func(value.Value) (bool, error)) (*Array, error) {
	st := site.Allocate(a.length)
	n := 0
	for i := 0; i < a.length && n < st.Cap(); i++ {
		v := a.store.Get(i)
		keep, err := fn(v)
		if err != nil {
			return nil, site.Wrap(storage.CodeCallback, err)
		}
		if keep {
			st = must(site.Write(st, n, v))
			n++
		}
	}
	return &Array{store: site.Finalize(st, n), length: n}, nil
}

// Each calls fn for every element, stopping at the first error, which is
// returned unchanged.
func Each(a *Array, fn func(value.Value) error) error {
	for i := 0; i < a.length; i++ {
		if err := fn(a.store.Get(i)); err != nil {
			return err
		}
	}
	return nil
}

// Inject folds the elements into init with fn.
func Inject(a *Array, init value.Value, fn func(acc, v value.Value) (value.Value, error)) (value.Value, error) {
	acc := init
	for i := 0; i < a.length; i++ {
		var err error
		if acc, err = fn(acc, a.store.Get(i)); err != nil {
			return value.Nil(), err
		}
	}
	return acc, nil
}

// Reduce folds the elements using the first one as the initial value. An
// empty array yields nil.
func Reduce(a *Array, fn func(acc, v value.Value) (value.Value, error)) (value.Value, error) {
	if a.length == 0 {
		return value.Nil(), nil
	}
	acc := a.store.Get(0)
	for i := 1; i < a.length; i++ {
		var err error
		if acc, err = fn(acc, a.store.Get(i)); err != nil {
			return value.Nil(), err
		}
	}
	return acc, nil
}
