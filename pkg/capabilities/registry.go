package capabilities

import (
	"fmt"
	"sort"
)

// Descriptor declares what a wired feature module offers and what it needs.
// Modules are constructed explicitly at boot; the registry only describes the
// already-wired graph so it can be validated and listed.
type Descriptor struct {
	Name     string   `json:"name"`
	Entities []string `json:"entities,omitempty"`
	Provides []string `json:"provides,omitempty"`
	Requires []string `json:"requires,omitempty"`
	Optional []string `json:"optional,omitempty"`
}

// Registry holds the set of module descriptors registered at startup.
type Registry struct {
	descriptors []Descriptor
	byName      map[string]Descriptor
}

// NewRegistry builds a registry from the provided descriptors. Duplicate
// module names are rejected.
func NewRegistry(descriptors ...Descriptor) (*Registry, error) {
	byName := make(map[string]Descriptor, len(descriptors))
	for _, d := range descriptors {
		if d.Name == "" {
			return nil, fmt.Errorf("capability descriptor requires a name")
		}
		if _, dup := byName[d.Name]; dup {
			return nil, fmt.Errorf("duplicate capability module %q", d.Name)
		}
		byName[d.Name] = d
	}
	return &Registry{descriptors: descriptors, byName: byName}, nil
}

// Resolve verifies every required capability is provided by some registered
// module. It is called once at boot; a missing requirement is a startup error,
// never a call-time surprise.
func (r *Registry) Resolve() error {
	provided := make(map[string]string)
	for _, d := range r.descriptors {
		for _, p := range d.Provides {
			provided[p] = d.Name
		}
	}

	var missing []string
	for _, d := range r.descriptors {
		for _, req := range d.Requires {
			if _, ok := provided[req]; !ok {
				missing = append(missing, fmt.Sprintf("%s requires %s", d.Name, req))
			}
		}
	}
	if len(missing) > 0 {
		sort.Strings(missing)
		return fmt.Errorf("unresolved capabilities: %v", missing)
	}
	return nil
}

// Lookup returns the descriptor registered under name.
func (r *Registry) Lookup(name string) (Descriptor, bool) {
	d, ok := r.byName[name]
	return d, ok
}

// List returns all descriptors sorted by module name.
func (r *Registry) List() []Descriptor {
	out := make([]Descriptor, len(r.descriptors))
	copy(out, r.descriptors)
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}
