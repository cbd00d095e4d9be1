package bench

import (
	"context"
	"fmt"
	"sort"

	"strata/internal/array"
	"strata/internal/storage"
	"strata/internal/value"
)

// Workload is one named benchmark scenario.
type Workload struct {
	Name        string
	Description string
	Run         func(env *Env) (*array.Array, error)
}

// Env gives a running workload its sites and input size.
type Env struct {
	ctx      context.Context
	reg      *storage.Registry
	prefix   string
	size     int
	sites    []*storage.Site
	siteByID map[string]*storage.Site
}

func newEnv(ctx context.Context, reg *storage.Registry, workload string, size int) *Env {
	return &Env{
		ctx:      ctx,
		reg:      reg,
		prefix:   workload + "/",
		size:     size,
		siteByID: make(map[string]*storage.Site),
	}
}

// Size returns the requested element count.
func (e *Env) Size() int { return e.size }

// Site returns the workload-local site called name.
func (e *Env) Site(name string) *storage.Site {
	if s, ok := e.siteByID[name]; ok {
		return s
	}
	s := e.reg.Site(e.prefix + name)
	e.siteByID[name] = s
	e.sites = append(e.sites, s)
	return s
}

// Err reports cancellation. Long loops poll it every few thousand steps.
func (e *Env) Err() error { return e.ctx.Err() }

func (e *Env) poll(i int) error {
	if i&0xfff == 0 {
		return e.ctx.Err()
	}
	return nil
}

func ints(n int, f func(i int) int64) []value.Value {
	out := make([]value.Value, n)
	for i := range out {
		out[i] = value.MakeInt(f(i))
	}
	return out
}

// lcg yields a deterministic pseudo-random sequence.
func lcg(seed uint64) func() int64 {
	x := seed
	return func() int64 {
		x = x*6364136223846793005 + 1442695040888963407
		return int64(x >> 33)
	}
}

var workloads = []Workload{
	{
		Name:        "push-narrow",
		Description: "push small integers one at a time",
		Run: func(env *Env) (*array.Array, error) {
			site := env.Site("push")
			a := array.Empty(site)
			for i := 0; i < env.Size(); i++ {
				if err := env.poll(i); err != nil {
					return nil, err
				}
				array.Push(site, a, value.MakeInt(int64(i)))
			}
			return a, nil
		},
	},
	{
		Name:        "push-widening",
		Description: "push integers that leave the 32-bit range halfway",
		Run: func(env *Env) (*array.Array, error) {
			site := env.Site("push")
			a := array.Empty(site)
			half := env.Size() / 2
			for i := 0; i < env.Size(); i++ {
				if err := env.poll(i); err != nil {
					return nil, err
				}
				n := int64(i)
				if i >= half {
					n += 1 << 40
				}
				array.Push(site, a, value.MakeInt(n))
			}
			return a, nil
		},
	},
	{
		Name:        "push-mixed",
		Description: "push integers then floats",
		Run: func(env *Env) (*array.Array, error) {
			site := env.Site("push")
			a := array.Empty(site)
			for i := 0; i < env.Size(); i++ {
				if err := env.poll(i); err != nil {
					return nil, err
				}
				if i%2 == 0 {
					array.Push(site, a, value.MakeInt(int64(i)))
				} else {
					array.Push(site, a, value.MakeFloat(float64(i)+0.5))
				}
			}
			return a, nil
		},
	},
	{
		Name:        "literal-float",
		Description: "build float literals",
		Run: func(env *Env) (*array.Array, error) {
			vs := make([]value.Value, env.Size())
			for i := range vs {
				vs[i] = value.MakeFloat(float64(i) / 4)
			}
			return array.Literal(env.Site("literal"), vs...), nil
		},
	},
	{
		Name:        "concat-join",
		Description: "concatenate narrow and wide integer arrays",
		Run: func(env *Env) (*array.Array, error) {
			half := env.Size() / 2
			narrow := array.Literal(env.Site("narrow"), ints(half, func(i int) int64 { return int64(i) })...)
			wide := array.Literal(env.Site("wide"), ints(env.Size()-half, func(i int) int64 { return 5_000_000_000 + int64(i) })...)
			return array.Concat(env.Site("concat"), narrow, wide), nil
		},
	},
	{
		Name:        "map-double",
		Description: "map integers to halves",
		Run: func(env *Env) (*array.Array, error) {
			src := array.Literal(env.Site("source"), ints(env.Size(), func(i int) int64 { return int64(i) })...)
			return array.Map(env.Site("map"), src, func(v value.Value) (value.Value, error) {
				return value.MakeFloat(float64(v.Int) / 2), nil
			})
		},
	},
	{
		Name:        "select-even",
		Description: "keep even integers",
		Run: func(env *Env) (*array.Array, error) {
			src := array.Literal(env.Site("source"), ints(env.Size(), func(i int) int64 { return int64(i) })...)
			return array.Select(env.Site("select"), src, func(v value.Value) (bool, error) {
				return v.Int%2 == 0, nil
			})
		},
	},
	{
		Name:        "sort-small",
		Description: "sort many three-element arrays",
		Run: func(env *Env) (*array.Array, error) {
			lit := env.Site("literal")
			sorted := env.Site("sort")
			next := lcg(7)
			var last *array.Array
			for i := 0; i < env.Size()/3+1; i++ {
				if err := env.poll(i); err != nil {
					return nil, err
				}
				a := array.Literal(lit, value.MakeInt(next()%100), value.MakeInt(next()%100), value.MakeInt(next()%100))
				s, err := array.Sort(sorted, a, nil)
				if err != nil {
					return nil, err
				}
				last = s
			}
			return last, nil
		},
	},
	{
		Name:        "sort-large",
		Description: "sort one large pseudo-random array",
		Run: func(env *Env) (*array.Array, error) {
			next := lcg(42)
			src := array.Literal(env.Site("literal"), ints(env.Size(), func(int) int64 { return next() % 1_000_000 })...)
			return array.Sort(env.Site("sort"), src, nil)
		},
	},
	{
		Name:        "set-algebra",
		Description: "difference then union of integer ranges",
		Run: func(env *Env) (*array.Array, error) {
			n := env.Size()
			all := array.Literal(env.Site("all"), ints(n, func(i int) int64 { return int64(i) })...)
			evens := array.Literal(env.Site("evens"), ints(n/2, func(i int) int64 { return int64(2 * i) })...)
			odds := array.Sub(env.Site("sub"), all, evens, nil)
			return array.Union(env.Site("union"), odds, evens, nil), nil
		},
	},
	{
		Name:        "index-append",
		Description: "grow an array by assigning at its length",
		Run: func(env *Env) (*array.Array, error) {
			site := env.Site("index")
			a := array.Empty(site)
			for i := 0; i < env.Size(); i++ {
				if err := env.poll(i); err != nil {
					return nil, err
				}
				if err := array.IndexSet(site, a, int64(i), value.MakeInt(int64(i))); err != nil {
					return nil, err
				}
			}
			return a, nil
		},
	},
	{
		Name:        "slice-dup",
		Description: "slice and duplicate a shrinking window",
		Run: func(env *Env) (*array.Array, error) {
			src := array.Literal(env.Site("literal"), ints(env.Size(), func(i int) int64 { return int64(i) })...)
			slice := env.Site("slice")
			dup := env.Site("dup")
			cur := src
			for cur.Len() > 1 {
				if err := env.Err(); err != nil {
					return nil, err
				}
				next, ok := array.Slice(slice, cur, 1, int64(cur.Len()/2))
				if !ok {
					return nil, fmt.Errorf("slice of %d elements failed", cur.Len())
				}
				cur = array.Dup(dup, next)
			}
			return cur, nil
		},
	},
}

// Workloads returns the built-in workloads in their run order.
func Workloads() []Workload {
	return append([]Workload(nil), workloads...)
}

// Names returns the built-in workload names, sorted.
func Names() []string {
	names := make([]string, len(workloads))
	for i, w := range workloads {
		names[i] = w.Name
	}
	sort.Strings(names)
	return names
}

// Lookup selects workloads by name. An empty list selects all of them.
func Lookup(names []string) ([]Workload, error) {
	if len(names) == 0 {
		return Workloads(), nil
	}
	byName := make(map[string]Workload, len(workloads))
	for _, w := range workloads {
		byName[w.Name] = w
	}
	out := make([]Workload, 0, len(names))
	seen := make(map[string]bool, len(names))
	for _, name := range names {
		w, ok := byName[name]
		if !ok {
			return nil, fmt.Errorf("unknown workload %q (available: %v)", name, Names())
		}
		if seen[name] {
			continue
		}
		seen[name] = true
		out = append(out, w)
	}
	return out, nil
}
