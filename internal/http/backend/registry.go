package backend

import (
	"fmt"
	"sort"
	"sync"
)

// Registry maps backend names to factories and caches built instances
type Registry struct {
	cfg       Config
	mu        sync.RWMutex
	factories map[string]Factory
	instances map[string]Backend
}

// NewRegistry creates an empty registry whose backends are built with cfg
func NewRegistry(cfg Config) *Registry {
	return &Registry{
		cfg:       cfg,
		factories: make(map[string]Factory),
		instances: make(map[string]Backend),
	}
}

// Register adds a factory under name
func (r *Registry) Register(name string, factory Factory) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.factories[name]; exists {
		return fmt.Errorf("%w: %s", ErrDuplicate, name)
	}
	r.factories[name] = factory
	return nil
}

// Get returns the backend registered under name, building it on first use
func (r *Registry) Get(name string) (Backend, error) {
	r.mu.RLock()
	b, ok := r.instances[name]
	r.mu.RUnlock()
	if ok {
		return b, nil
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if b, ok := r.instances[name]; ok {
		return b, nil
	}
	factory, ok := r.factories[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownBackend, name)
	}
	b = factory(r.cfg)
	r.instances[name] = b
	return b, nil
}

// Has reports whether name is registered
func (r *Registry) Has(name string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.factories[name]
	return ok
}

// Names returns the registered names in sorted order
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.factories))
	for name := range r.factories {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
