package storage

import (
	"fmt"

	"strata/internal/value"
)

// Store is a backing store: a representation tag plus exactly one populated
// native slice. The slice length is the capacity. The zero Store is an
// empty boxed store.
type Store struct {
	Rep    Representation
	Narrow []int32
	Wide   []int64
	Float  []float64
	Boxed  []value.Value
}

// NewStore returns a zero-filled store of rep with n slots. Unknown
// allocates a boxed store.
func NewStore(rep Representation, n int) Store {
	switch rep {
	case NarrowInt:
		return Store{Rep: NarrowInt, Narrow: make([]int32, n)}
	case WideInt:
		return Store{Rep: WideInt, Wide: make([]int64, n)}
	case Float:
		return Store{Rep: Float, Float: make([]float64, n)}
	default:
		return Store{Rep: Generic, Boxed: make([]value.Value, n)}
	}
}

// NarrowOf wraps xs without copying.
func NarrowOf(xs []int32) Store { return Store{Rep: NarrowInt, Narrow: xs} }

// WideOf wraps xs without copying.
func WideOf(xs []int64) Store { return Store{Rep: WideInt, Wide: xs} }

// FloatOf wraps xs without copying.
func FloatOf(xs []float64) Store { return Store{Rep: Float, Float: xs} }

// BoxedOf wraps vs without copying.
func BoxedOf(vs []value.Value) Store { return Store{Rep: Generic, Boxed: vs} }

// Cap returns the number of slots in the store.
func (s Store) Cap() int {
	switch s.Rep {
	case NarrowInt:
		return len(s.Narrow)
	case WideInt:
		return len(s.Wide)
	case Float:
		return len(s.Float)
	default:
		return len(s.Boxed)
	}
}

// Get boxes the element at i.
func (s Store) Get(i int) value.Value {
	switch s.Rep {
	case NarrowInt:
		return value.MakeInt(int64(s.Narrow[i]))
	case WideInt:
		return value.MakeInt(s.Wide[i])
	case Float:
		return value.MakeFloat(s.Float[i])
	default:
		return s.Boxed[i]
	}
}

// Values boxes the first n elements into a fresh slice.
func (s Store) Values(n int) []value.Value {
	out := make([]value.Value, n)
	for i := range out {
		out[i] = s.Get(i)
	}
	return out
}

// Clear zeroes slots [from, to).
func (s Store) Clear(from, to int) {
	if from >= to {
		return
	}
	switch s.Rep {
	case NarrowInt:
		clear(s.Narrow[from:to])
	case WideInt:
		clear(s.Wide[from:to])
	case Float:
		clear(s.Float[from:to])
	default:
		clear(s.Boxed[from:to])
	}
}

// Move copies n elements from slot src to slot dst within s. Ranges may
// overlap.
func (s Store) Move(dst, src, n int) {
	if n <= 0 || dst == src {
		return
	}
	switch s.Rep {
	case NarrowInt:
		copy(s.Narrow[dst:dst+n], s.Narrow[src:src+n])
	case WideInt:
		copy(s.Wide[dst:dst+n], s.Wide[src:src+n])
	case Float:
		copy(s.Float[dst:dst+n], s.Float[src:src+n])
	default:
		copy(s.Boxed[dst:dst+n], s.Boxed[src:src+n])
	}
}

// Swap exchanges slots i and j.
func (s Store) Swap(i, j int) {
	switch s.Rep {
	case NarrowInt:
		s.Narrow[i], s.Narrow[j] = s.Narrow[j], s.Narrow[i]
	case WideInt:
		s.Wide[i], s.Wide[j] = s.Wide[j], s.Wide[i]
	case Float:
		s.Float[i], s.Float[j] = s.Float[j], s.Float[i]
	default:
		s.Boxed[i], s.Boxed[j] = s.Boxed[j], s.Boxed[i]
	}
}

// String renders the tag and slots for debugging.
func (s Store) String() string {
	return fmt.Sprintf("%s%s", s.Rep, value.Inspect(s.Values(s.Cap())))
}

// put writes v at i. The caller guarantees s.Rep holds Classify(v).
func (s Store) put(i int, v value.Value) {
	switch s.Rep {
	case NarrowInt:
		s.Narrow[i] = int32(v.Int)
	case WideInt:
		s.Wide[i] = v.Int
	case Float:
		s.Float[i] = v.Float
	default:
		s.Boxed[i] = v
	}
}

// convert returns a store of rep with the given capacity holding s[0:n].
func convert(s Store, rep Representation, capacity, n int) Store {
	dst := NewStore(rep, capacity)
	copyInto(dst, 0, s, 0, n)
	return dst
}

// copyInto copies src[si:si+n] into dst[di:di+n]. Elements that dst cannot
// hold are contract violations.
func copyInto(dst Store, di int, src Store, si, n int) {
	if n <= 0 {
		return
	}
	if dst.Rep == src.Rep {
		switch dst.Rep {
		case NarrowInt:
			copy(dst.Narrow[di:di+n], src.Narrow[si:si+n])
		case WideInt:
			copy(dst.Wide[di:di+n], src.Wide[si:si+n])
		case Float:
			copy(dst.Float[di:di+n], src.Float[si:si+n])
		default:
			copy(dst.Boxed[di:di+n], src.Boxed[si:si+n])
		}
		return
	}

	switch dst.Rep {
	case Generic:
		for k := 0; k < n; k++ {
			dst.Boxed[di+k] = src.Get(si + k)
		}
	case WideInt:
		if src.Rep == NarrowInt {
			for k := 0; k < n; k++ {
				dst.Wide[di+k] = int64(src.Narrow[si+k])
			}
			return
		}
		for k := 0; k < n; k++ {
			v := src.Get(si + k)
			if v.Kind != value.KindInt {
				panic(contractError("cannot store %s in %s store", v.Kind, dst.Rep))
			}
			dst.Wide[di+k] = v.Int
		}
	case NarrowInt:
		if src.Rep == WideInt {
			for k := 0; k < n; k++ {
				w := src.Wide[si+k]
				if !FitsNarrow(w) {
					panic(contractError("cannot store %d in %s store", w, dst.Rep))
				}
				dst.Narrow[di+k] = int32(w)
			}
			return
		}
		for k := 0; k < n; k++ {
			v := src.Get(si + k)
			if v.Kind != value.KindInt || !FitsNarrow(v.Int) {
				panic(contractError("cannot store %s in %s store", v, dst.Rep))
			}
			dst.Narrow[di+k] = int32(v.Int)
		}
	case Float:
		for k := 0; k < n; k++ {
			v := src.Get(si + k)
			if v.Kind != value.KindFloat {
				panic(contractError("cannot store %s in %s store", v, dst.Rep))
			}
			dst.Float[di+k] = v.Float
		}
	}
}
