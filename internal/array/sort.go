package array

import (
	"slices"

	"strata/internal/storage"
	"strata/internal/value"
)

// Sort returns a sorted copy of a. Arrays no longer than the site's
// insertion threshold are sorted in place on a native copy; longer ones
// are boxed, stably sorted and rebuilt through the site. A nil cmp selects
// value.Compare. A comparison error aborts the sort.
func Sort(site *storage.Site, a *Array, cmp CompareFunc) (*Array, error) {
	if cmp == nil {
		cmp = value.Compare
	}
	if a.length <= site.Options().SortInsertionMax {
		out := Dup(site, a)
		if err := insertionSort(out.store, out.length, cmp); err != nil {
			return nil, site.Wrap(storage.CodeComparison, err)
		}
		return out, nil
	}

	boxed := a.Values()
	var cmpErr error
	slices.SortStableFunc(boxed, func(x, y value.Value) int {
		if cmpErr != nil {
			return 0
		}
		c, err := cmp(x, y)
		if err != nil {
			cmpErr = err
			return 0
		}
		return c
	})
	if cmpErr != nil {
		return nil, site.Wrap(storage.CodeComparison, cmpErr)
	}
	return fromStore(site, storage.BoxedOf(boxed), 0, len(boxed)), nil
}

func insertionSort(st storage.Store, n int, cmp CompareFunc) error {
	for i := 1; i < n; i++ {
		for j := i; j > 0; j-- {
			c, err := cmp(st.Get(j-1), st.Get(j))
			if err != nil {
				return err
			}
			if c <= 0 {
				break
			}
			st.Swap(j-1, j)
		}
	}
	return nil
}
