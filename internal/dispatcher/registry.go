package dispatcher

import (
	"sort"
	"sync"

	"github.com/dshills/keymode/internal/dispatcher/handler"
)

// Registry maps action names to actions.
type Registry struct {
	mu      sync.RWMutex
	actions map[string]handler.Action
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		actions: make(map[string]handler.Action),
	}
}

// Register adds an action under its name, replacing any previous one.
func (r *Registry) Register(a handler.Action) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.actions[a.Name()] = a
}

// RegisterNamespace adds every action a provider supplies.
func (r *Registry) RegisterNamespace(p handler.Provider) {
	for _, a := range p.Actions() {
		r.Register(a)
	}
}

// Unregister removes the named action.
func (r *Registry) Unregister(name string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.actions, name)
}

// Get returns the named action, or nil.
func (r *Registry) Get(name string) handler.Action {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.actions[name]
}

// Has returns true if an action is registered under name.
func (r *Registry) Has(name string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.actions[name]
	return ok
}

// List returns all registered action names, sorted.
func (r *Registry) List() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.actions))
	for name := range r.actions {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Count returns the number of registered actions.
func (r *Registry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.actions)
}
