package array

import (
	"math"

	"fortio.org/safecast"

	"strata/internal/storage"
	"strata/internal/value"
)

// ensure makes room for need elements in a and makes its store able to
// hold elements of batch. The store is replaced at most once. An empty
// array adopts the batch representation.
func ensure(site *storage.Site, a *Array, need int, batch storage.Representation) {
	if a.length == 0 || !a.store.Rep.Holds(batch) {
		a.store = site.Reserve(a.store, a.length, need, batch)
		return
	}
	a.store = site.Grow(a.store, a.length, need)
}

func pushStore(site *storage.Site, a *Array, src storage.Store, start, count int) {
	if count == 0 {
		return
	}
	need := a.length + count
	ensure(site, a, need, storage.ClassifyStore(src, start, count))
	a.store = must(site.WriteAll(a.store, a.length, src, start, count))
	a.length = need
}

// Push appends vs to a in place.
func Push(site *storage.Site, a *Array, vs ...value.Value) {
	pushStore(site, a, storage.BoxedOf(vs), 0, len(vs))
}

// ConcatInPlace appends the elements of b to a.
func ConcatInPlace(site *storage.Site, a, b *Array) {
	pushStore(site, a, b.store, 0, b.length)
}

// IndexSet stores v at index i. A negative i counts from the end. Writing
// at the length appends; any other index outside the array is an error.
func IndexSet(site *storage.Site, a *Array, i int64, v value.Value) error {
	pos := i
	if pos < 0 {
		pos += int64(a.length)
	}
	if pos == int64(a.length) {
		Push(site, a, v)
		return nil
	}
	idx, ok := a.normalize(i)
	if !ok {
		return site.OutOfRange(clampIndex(i), a.length)
	}
	st, err := site.Write(a.store, idx, v)
	if err != nil {
		return err
	}
	a.store = st
	return nil
}

func clampIndex(i int64) int {
	idx, err := safecast.Conv[int](i)
	if err != nil {
		if i < 0 {
			return math.MinInt
		}
		return math.MaxInt
	}
	return idx
}

// Pop removes and returns the last element.
func Pop(a *Array) (value.Value, bool) {
	if a.length == 0 {
		return value.Nil(), false
	}
	last := a.length - 1
	v := a.store.Get(last)
	a.store.Clear(last, a.length)
	a.length = last
	return v, true
}

// Shift removes and returns the first element.
func Shift(a *Array) (value.Value, bool) {
	return deleteAt(a, 0)
}

// DeleteAt removes and returns the element at i.
func DeleteAt(a *Array, i int64) (value.Value, bool) {
	idx, ok := a.normalize(i)
	if !ok {
		return value.Nil(), false
	}
	return deleteAt(a, idx)
}

func deleteAt(a *Array, idx int) (value.Value, bool) {
	if idx >= a.length {
		return value.Nil(), false
	}
	v := a.store.Get(idx)
	a.store.Move(idx, idx+1, a.length-idx-1)
	a.store.Clear(a.length-1, a.length)
	a.length--
	return v, true
}

// Delete removes every element equal to v and returns the last one removed.
func Delete(a *Array, v value.Value, eq EqualFunc) (value.Value, bool) {
	eq = eqOrDefault(eq)
	var (
		removed value.Value
		found   bool
		w       int
	)
	for r := 0; r < a.length; r++ {
		x := a.store.Get(r)
		if eq(x, v) {
			removed, found = x, true
			continue
		}
		a.store.Move(w, r, 1)
		w++
	}
	a.store.Clear(w, a.length)
	a.length = w
	return removed, found
}

// Insert inserts vs before index i. A negative i counts from the end, so
// -1 appends.
func Insert(site *storage.Site, a *Array, i int64, vs ...value.Value) error {
	pos := i
	if pos < 0 {
		pos += int64(a.length) + 1
	}
	if pos < 0 || pos > int64(a.length) {
		return site.OutOfRange(clampIndex(i), a.length)
	}
	if len(vs) == 0 {
		return nil
	}
	at := int(pos)
	count := len(vs)
	need := a.length + count
	ensure(site, a, need, storage.ClassifyBatch(vs))
	a.store.Move(at+count, at, a.length-at)
	a.store = must(site.WriteAll(a.store, at, storage.BoxedOf(vs), 0, count))
	a.length = need
	return nil
}

// Unshift prepends vs.
func Unshift(site *storage.Site, a *Array, vs ...value.Value) {
	if err := Insert(site, a, 0, vs...); err != nil {
		panic(err)
	}
}

// Clear removes every element, keeping the store.
func Clear(a *Array) {
	a.store.Clear(0, a.length)
	a.length = 0
}
