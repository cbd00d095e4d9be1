package storage

import (
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"

	"strata/internal/value"
)

// mixed turns generated kind selectors and numbers into values: 0 narrow
// int, 1 wide int, 2 float, 3 string.
func mixed(kinds []int, nums []int64) []value.Value {
	n := len(kinds)
	if len(nums) < n {
		n = len(nums)
	}
	out := make([]value.Value, n)
	for i := 0; i < n; i++ {
		switch kinds[i] {
		case 0:
			out[i] = value.MakeInt(int64(int32(nums[i])))
		case 1:
			out[i] = value.MakeInt(nums[i]<<33 | 1)
		case 2:
			out[i] = value.MakeFloat(float64(nums[i]) / 4)
		default:
			out[i] = value.MakeString("s")
		}
	}
	return out
}

func TestStorageProperties(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 200

	properties := gopter.NewProperties(parameters)

	properties.Property("writes are lossless and sites only widen", prop.ForAll(
		func(kinds []int, nums []int64) bool {
			vs := mixed(kinds, nums)
			site := NewSite("prop", SiteConfig{Initial: NarrowInt})
			st := site.Allocate(len(vs))
			prev := site.Representation()
			for i, v := range vs {
				var err error
				st, err = site.Write(st, i, v)
				if err != nil {
					return false
				}
				cur := site.Representation()
				if Join(prev, cur) != cur {
					return false
				}
				prev = cur
				for j := 0; j <= i; j++ {
					if !value.Equal(st.Get(j), vs[j]) {
						return false
					}
				}
			}
			return st.Rep == Join(NarrowInt, ClassifyBatch(vs))
		},
		gen.SliceOf(gen.IntRange(0, 3)),
		gen.SliceOf(gen.Int64()),
	))

	properties.Property("speculative finalize picks the batch representation", prop.ForAll(
		func(kinds []int, nums []int64) bool {
			vs := mixed(kinds, nums)
			site := NewSite("prop", SiteConfig{})
			st := site.Allocate(len(vs))
			st, err := site.WriteAll(st, 0, BoxedOf(vs), 0, len(vs))
			if err != nil {
				return false
			}
			st = site.Finalize(st, len(vs))
			want := ClassifyBatch(vs)
			if want == Unknown {
				want = NarrowInt
			}
			if st.Rep != want || site.Representation() != want {
				return false
			}
			again := site.Finalize(st, len(vs))
			return again.Rep == st.Rep && value.Inspect(again.Values(len(vs))) == value.Inspect(vs)
		},
		gen.SliceOf(gen.IntRange(0, 3)),
		gen.SliceOf(gen.Int64()),
	))

	properties.Property("growth is amortized linear", prop.ForAll(
		func(n int) bool {
			site := NewSite("grow", SiteConfig{Initial: NarrowInt})
			st := site.Empty()
			for i := 0; i < n; i++ {
				st = site.Grow(st, i, i+1)
				var err error
				if st, err = site.Write(st, i, value.MakeInt(int64(i))); err != nil {
					return false
				}
			}
			c := site.Counters()
			return c.ElementCopies <= int64(2*n) && st.Cap() >= n
		},
		gen.IntRange(0, 2000),
	))

	properties.Property("next capacity never shrinks and always fits", prop.ForAll(
		func(current, required int) bool {
			got := NextCapacity(current, required)
			return got >= current && got >= required
		},
		gen.IntRange(0, 1<<20),
		gen.IntRange(0, 1<<21),
	))

	properties.TestingRun(t)
}
