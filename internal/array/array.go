// Package array implements dynamic array values on top of adaptive
// storage. Every operation that builds a new array does so through a
// storage.Site: allocate, write, finalize. Operations never alias the
// store of an input array in their result.
package array

import (
	"fortio.org/safecast"

	"strata/internal/storage"
	"strata/internal/value"
)

// CompareFunc is a three-way comparison collaborator.
type CompareFunc func(a, b value.Value) (int, error)

// EqualFunc is an equality collaborator.
type EqualFunc func(a, b value.Value) bool

// Array is a (store, length) pair. Slots at or beyond the length are
// zeroed. An Array is not safe for concurrent use.
type Array struct {
	store  storage.Store
	length int
}

// New wraps st holding length elements. It panics with a contract error
// when length does not fit st.
func New(st storage.Store, length int) *Array {
	if length < 0 || length > st.Cap() {
		panic(&storage.Error{Code: storage.CodeContract, Message: "array length exceeds store capacity"})
	}
	return &Array{store: st, length: length}
}

// Len returns the number of elements.
func (a *Array) Len() int { return a.length }

// Cap returns the capacity of the backing store.
func (a *Array) Cap() int { return a.store.Cap() }

// Representation returns the representation of the backing store.
func (a *Array) Representation() storage.Representation { return a.store.Rep }

// Store returns the backing store. Callers must not write beyond Len.
func (a *Array) Store() storage.Store { return a.store }

// At returns the element at i without normalization. i must be in range.
func (a *Array) At(i int) value.Value { return a.store.Get(i) }

// Values boxes the live elements into a fresh slice.
func (a *Array) Values() []value.Value { return a.store.Values(a.length) }

// String renders the elements as an array literal.
func (a *Array) String() string { return value.Inspect(a.Values()) }

// normalize maps a possibly negative index onto [0, length) or reports
// false.
func (a *Array) normalize(i int64) (int, bool) {
	if i < 0 {
		i += int64(a.length)
	}
	idx, err := safecast.Conv[int](i)
	if err != nil || idx < 0 || idx >= a.length {
		return 0, false
	}
	return idx, true
}

func must(st storage.Store, err error) storage.Store {
	if err != nil {
		panic(err)
	}
	return st
}

// fromStore builds a new array holding src[start:start+count] through site.
func fromStore(site *storage.Site, src storage.Store, start, count int) *Array {
	st := site.Allocate(count)
	st = must(site.WriteAll(st, 0, src, start, count))
	return &Array{store: site.Finalize(st, count), length: count}
}

func eqOrDefault(eq EqualFunc) EqualFunc {
	if eq == nil {
		return value.Equal
	}
	return eq
}
