package storage

import (
	"sort"
	"sync"

	"strata/internal/observ"
)

// SiteProfile records the representation a named site settled into.
type SiteProfile struct {
	Name string
	Rep  Representation
}

// Registry hands out named call sites that share one configuration. The
// table is goroutine-safe; each Site it returns is still single-owner.
type Registry struct {
	mu    sync.Mutex
	cfg   SiteConfig
	sites map[string]*Site
	warm  map[string]Representation
}

// NewRegistry creates a registry whose sites are built from cfg. Every
// site gets its own counters; cfg.Counters and cfg.Initial are ignored.
func NewRegistry(cfg SiteConfig) *Registry {
	cfg.Counters = nil
	cfg.Initial = Unknown
	return &Registry{
		cfg:   cfg,
		sites: make(map[string]*Site),
		warm:  make(map[string]Representation),
	}
}

// Site returns the site named name, creating it on first use. A site
// created after Preload starts in its profiled representation.
func (r *Registry) Site(name string) *Site {
	r.mu.Lock()
	defer r.mu.Unlock()
	if s, ok := r.sites[name]; ok {
		return s
	}
	cfg := r.cfg
	cfg.Initial = r.warm[name]
	s := NewSite(name, cfg)
	r.sites[name] = s
	return s
}

// Len returns the number of sites created so far.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.sites)
}

// Preload records profiles for warm start. Sites that already exist are
// widened to the profiled representation.
func (r *Registry) Preload(profiles []SiteProfile) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, p := range profiles {
		r.warm[p.Name] = Join(r.warm[p.Name], p.Rep)
		if s, ok := r.sites[p.Name]; ok {
			s.Restore(p.Rep)
		}
	}
}

// Profile returns the current representation of every site, sorted by
// name. Call it once the sites' owners are done with them.
func (r *Registry) Profile() []SiteProfile {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]SiteProfile, 0, len(r.sites))
	for name, s := range r.sites {
		out = append(out, SiteProfile{Name: name, Rep: s.Representation()})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// Counters sums the counters of every site. Call it once the sites'
// owners are done with them.
func (r *Registry) Counters() observ.Counters {
	r.mu.Lock()
	defer r.mu.Unlock()
	var total observ.Counters
	for _, s := range r.sites {
		total.Add(*s.Counters())
	}
	return total
}
