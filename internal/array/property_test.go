package array_test

import (
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"

	"strata/internal/array"
	"strata/internal/value"
)

// values turns generated selectors and numbers into a mix of narrow ints,
// wide ints, floats and symbols.
func values(kinds []int, nums []int64) []value.Value {
	n := min(len(kinds), len(nums))
	out := make([]value.Value, n)
	for i := 0; i < n; i++ {
		switch kinds[i] {
		case 0:
			out[i] = value.MakeInt(nums[i] % 5)
		case 1:
			out[i] = value.MakeInt(nums[i] | 1<<40)
		case 2:
			out[i] = value.MakeFloat(float64(nums[i]%7) / 2)
		default:
			out[i] = value.MakeSymbol("s")
		}
	}
	return out
}

func sameValues(a *array.Array, want []value.Value) bool {
	if a.Len() != len(want) {
		return false
	}
	for i, v := range want {
		if !value.Equal(a.At(i), v) {
			return false
		}
	}
	return true
}

func has(vs []value.Value, v value.Value) bool {
	for _, x := range vs {
		if value.Equal(x, v) {
			return true
		}
	}
	return false
}

func TestArrayProperties(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 150

	properties := gopter.NewProperties(parameters)

	kinds := gen.SliceOf(gen.IntRange(0, 1))
	anyKinds := gen.SliceOf(gen.IntRange(0, 3))
	nums := gen.SliceOf(gen.Int64())

	properties.Property("concat preserves order", prop.ForAll(
		func(ka []int, na []int64, kb []int, nb []int64) bool {
			va, vb := values(ka, na), values(kb, nb)
			got := array.Concat(newSite("concat"), lit(va...), lit(vb...))
			return sameValues(got, append(append([]value.Value{}, va...), vb...))
		},
		anyKinds, nums, anyKinds, nums,
	))

	properties.Property("sub and union agree with element-wise reference", prop.ForAll(
		func(ka []int, na []int64, kb []int, nb []int64) bool {
			va, vb := values(ka, na), values(kb, nb)
			var diff []value.Value
			for _, v := range va {
				if !has(vb, v) {
					diff = append(diff, v)
				}
			}
			union := append([]value.Value{}, va...)
			for _, v := range vb {
				if !has(va, v) {
					union = append(union, v)
				}
			}
			a, b := lit(va...), lit(vb...)
			return sameValues(array.Sub(newSite("sub"), a, b, nil), diff) &&
				sameValues(array.Union(newSite("union"), a, b, nil), union)
		},
		kinds, nums, kinds, nums,
	))

	properties.Property("push one at a time matches literal", prop.ForAll(
		func(k []int, n []int64) bool {
			vs := values(k, n)
			if len(vs) == 0 {
				return true
			}
			site := newSite("push")
			a := array.Empty(newSite("empty"))
			for _, v := range vs {
				array.Push(site, a, v)
			}
			copies := site.Counters().ElementCopies
			return sameValues(a, vs) &&
				a.Representation() == lit(vs...).Representation() &&
				copies <= int64(4*len(vs)+16)
		},
		anyKinds, nums,
	))

	properties.Property("dup and slice copy without aliasing", prop.ForAll(
		func(k []int, n []int64, start, length int) bool {
			vs := values(k, n)
			src := lit(vs...)
			cp := array.Dup(newSite("dup"), src)
			if !sameValues(cp, vs) {
				return false
			}
			if len(vs) > 0 {
				_ = array.IndexSet(newSite("set"), cp, 0, value.MakeString("changed"))
				if !sameValues(src, vs) {
					return false
				}
			}
			got, ok := array.Slice(newSite("slice"), src, int64(start), int64(length))
			if start > len(vs) {
				return !ok
			}
			end := min(start+length, len(vs))
			return ok && sameValues(got, vs[start:end])
		},
		anyKinds, nums, gen.IntRange(0, 20), gen.IntRange(0, 20),
	))

	properties.Property("sort orders numbers and keeps the source", prop.ForAll(
		func(k []int, n []int64) bool {
			vs := values(k, n)
			src := lit(vs...)
			got, err := array.Sort(newSite("sort"), src, nil)
			if err != nil || got.Len() != len(vs) || !sameValues(src, vs) {
				return false
			}
			for i := 1; i < got.Len(); i++ {
				c, err := value.Compare(got.At(i-1), got.At(i))
				if err != nil || c > 0 {
					return false
				}
			}
			return true
		},
		gen.SliceOf(gen.IntRange(0, 2)), nums,
	))

	properties.TestingRun(t)
}
