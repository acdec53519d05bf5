package perf

import (
	"fmt"
	"iter"
	"sync"
)

// Registry holds counter descriptors in registration order. Registration
// must finish before the first Initialize; after that the registry is
// sealed.
type Registry struct {
	mu          sync.Mutex
	descriptors []*Descriptor
	byName      map[string]*Descriptor
	sealed      bool
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{byName: make(map[string]*Descriptor)}
}

// Register adds a counter definition. The config func runs once, here, and
// its result is reused for every initialize cycle.
func (r *Registry) Register(name string, configure ConfigFunc) error {
	if name == "" || configure == nil {
		return ErrInvalidDescriptor
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if r.sealed {
		return fmt.Errorf("%w: %q", ErrRegistrySealed, name)
	}
	if _, exists := r.byName[name]; exists {
		return fmt.Errorf("%w: %q", ErrDuplicateName, name)
	}

	d := &Descriptor{name: name}
	configure(&d.attr)

	r.descriptors = append(r.descriptors, d)
	r.byName[name] = d
	return nil
}

// All yields the descriptors in registration order.
func (r *Registry) All() iter.Seq[*Descriptor] {
	r.mu.Lock()
	snapshot := make([]*Descriptor, len(r.descriptors))
	copy(snapshot, r.descriptors)
	r.mu.Unlock()

	return func(yield func(*Descriptor) bool) {
		for _, d := range snapshot {
			if !yield(d) {
				return
			}
		}
	}
}

// Lookup returns the descriptor registered under name.
func (r *Registry) Lookup(name string) (*Descriptor, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	d, ok := r.byName[name]
	return d, ok
}

// Len returns the number of registered descriptors.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.descriptors)
}

func (r *Registry) seal() {
	r.mu.Lock()
	r.sealed = true
	r.mu.Unlock()
}
