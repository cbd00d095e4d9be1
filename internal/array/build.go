package array

import (
	"fmt"
	"math"

	"fortio.org/safecast"

	"strata/internal/storage"
	"strata/internal/value"
)

// Literal builds an array of vs through site.
func Literal(site *storage.Site, vs ...value.Value) *Array {
	st := site.Allocate(len(vs))
	for i, v := range vs {
		st = must(site.Write(st, i, v))
	}
	return &Array{store: site.Finalize(st, len(vs)), length: len(vs)}
}

// Empty returns a length-0 array in the site's representation.
func Empty(site *storage.Site) *Array {
	return &Array{store: site.Empty()}
}

// Fill returns an array of n copies of v.
func Fill(site *storage.Site, n int64, v value.Value) (*Array, error) {
	size, err := safecast.Conv[int](n)
	if err != nil || size < 0 {
		return nil, site.Wrap(storage.CodeOutOfRange, fmt.Errorf("%w: %d", errNegativeSize, n))
	}
	st := site.Allocate(size)
	for i := 0; i < size; i++ {
		st = must(site.Write(st, i, v))
	}
	return &Array{store: site.Finalize(st, size), length: size}, nil
}

// Dup returns a copy of a.
func Dup(site *storage.Site, a *Array) *Array {
	return fromStore(site, a.store, 0, a.length)
}

// Slice returns length elements starting at start. A start equal to the
// array length yields an empty array; anything further out, or a negative
// length, reports false. The range is clamped to the array.
func Slice(site *storage.Site, a *Array, start, length int64) (*Array, bool) {
	if start < 0 {
		start += int64(a.length)
	}
	if start < 0 || start > int64(a.length) || length < 0 {
		return nil, false
	}
	from := int(start)
	n := a.length - from
	if length < int64(n) {
		n = int(length)
	}
	return fromStore(site, a.store, from, n), true
}

// Tail returns the elements from index on. An index at or past the end
// yields an empty array.
func Tail(site *storage.Site, a *Array, index int) *Array {
	if index < 0 {
		index = 0
	}
	if index >= a.length {
		return fromStore(site, a.store, 0, 0)
	}
	return fromStore(site, a.store, index, a.length-index)
}

// Concat returns a + b.
func Concat(site *storage.Site, a, b *Array) *Array {
	n := a.length + b.length
	st := site.Allocate(n)
	st = must(site.WriteAll(st, 0, a.store, 0, a.length))
	st = must(site.WriteAll(st, a.length, b.store, 0, b.length))
	return &Array{store: site.Finalize(st, n), length: n}
}

// Mul returns a repeated n times.
func Mul(site *storage.Site, a *Array, n int64) (*Array, error) {
	times, err := safecast.Conv[int](n)
	if err != nil || times < 0 {
		return nil, site.Wrap(storage.CodeOutOfRange, errNegativeRepeat)
	}
	if a.length > 0 && times > math.MaxInt/a.length {
		return nil, site.Wrap(storage.CodeOutOfRange, errRepeatTooLarge)
	}
	total := a.length * times
	st := site.Allocate(total)
	for k := 0; k < times; k++ {
		st = must(site.WriteAll(st, k*a.length, a.store, 0, a.length))
	}
	return &Array{store: site.Finalize(st, total), length: total}, nil
}

// Append returns a copy of a with v added at the end.
func Append(site *storage.Site, a *Array, v value.Value) *Array {
	n := a.length + 1
	st := site.Allocate(n)
	st = must(site.WriteAll(st, 0, a.store, 0, a.length))
	st = must(site.Write(st, a.length, v))
	return &Array{store: site.Finalize(st, n), length: n}
}

// Replace makes a hold a copy of b's elements.
func Replace(site *storage.Site, a, b *Array) {
	cp := fromStore(site, b.store, 0, b.length)
	a.store, a.length = cp.store, cp.length
}

// Compact returns a copy of a without nil elements.
func Compact(site *storage.Site, a *Array) *Array {
	if a.store.Rep != storage.Generic {
		return Dup(site, a)
	}
	kept := make([]value.Value, 0, a.length)
	for _, v := range a.store.Boxed[:a.length] {
		if !v.IsNil() {
			kept = append(kept, v)
		}
	}
	return fromStore(site, storage.BoxedOf(kept), 0, len(kept))
}
