// Package storage implements adaptive backing stores for dynamic arrays.
//
// A Store keeps array elements in the narrowest native Go slice that can
// hold every element written so far: []int32, []int64, []float64, or boxed
// []value.Value. A Strategy decides which representation a call site
// allocates and how an incompatible write generalizes a store. A Site owns
// the live Strategy for one allocation point and replaces it on commitment
// or generalization, so later allocations at the same site skip
// representations that already failed.
//
// Representations only ever widen:
//
//	Unknown -> NarrowInt -> WideInt -> Generic
//	Unknown -> Float -> Generic
//
// Sites and stores are single-owner values. Registry is the only
// goroutine-safe type in this package.
package storage
