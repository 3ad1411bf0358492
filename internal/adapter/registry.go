package adapter

import (
	"fmt"
	"sort"
)

// Registry holds the adapters a run draws from, keyed by name.
type Registry struct {
	byName map[string]Adapter
}

// NewRegistry builds a registry, rejecting duplicate or empty names.
func NewRegistry(adapters ...Adapter) (*Registry, error) {
	r := &Registry{byName: make(map[string]Adapter, len(adapters))}
	for _, a := range adapters {
		name := a.Info().Name
		if name == "" {
			return nil, fmt.Errorf("adapter with empty name")
		}
		if _, dup := r.byName[name]; dup {
			return nil, fmt.Errorf("duplicate adapter %q", name)
		}
		r.byName[name] = a
	}
	return r, nil
}

// Get looks up an adapter by name.
func (r *Registry) Get(name string) (Adapter, bool) {
	a, ok := r.byName[name]
	return a, ok
}

// Names returns the registered names, sorted.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.byName))
	for n := range r.byName {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// All returns the adapters sorted by name.
func (r *Registry) All() []Adapter {
	all := make([]Adapter, 0, len(r.byName))
	for _, n := range r.Names() {
		all = append(all, r.byName[n])
	}
	return all
}

// Len reports the number of registered adapters.
func (r *Registry) Len() int { return len(r.byName) }

// Select narrows the registry. include empty means all registered
// adapters; skip removes after inclusion. Unknown names error, so
// typos fail loudly instead of silently shrinking a run.
func (r *Registry) Select(include, skip []string) (*Registry, error) {
	picked := map[string]Adapter{}

	if len(include) == 0 {
		for n, a := range r.byName {
			picked[n] = a
		}
	} else {
		for _, n := range include {
			a, ok := r.byName[n]
			if !ok {
				return nil, fmt.Errorf("unknown adapter %q (have %v)", n, r.Names())
			}
			picked[n] = a
		}
	}

	for _, n := range skip {
		if _, ok := r.byName[n]; !ok {
			return nil, fmt.Errorf("unknown adapter %q in skip list (have %v)", n, r.Names())
		}
		delete(picked, n)
	}

	out := &Registry{byName: picked}
	if out.Len() == 0 {
		return nil, fmt.Errorf("adapter selection is empty")
	}
	return out, nil
}
