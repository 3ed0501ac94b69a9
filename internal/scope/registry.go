package scope

import (
	"errors"
	"slices"
	"sync"

	"go.trai.ch/rcache/internal/core/ports"
)

// Registry maps scope handles to live scopes.
type Registry struct {
	mu     sync.Mutex
	scopes map[string]*Scope
	newBus ports.ChangeBusFactory
	logger ports.Logger
}

// NewRegistry creates a registry whose scopes get a bus from newBus and share logger.
func NewRegistry(newBus ports.ChangeBusFactory, logger ports.Logger) *Registry {
	return &Registry{
		scopes: make(map[string]*Scope),
		newBus: newBus,
		logger: logger,
	}
}

// GetOrCreate returns the scope for id, creating it on first use.
func (r *Registry) GetOrCreate(id string) *Scope {
	r.mu.Lock()
	defer r.mu.Unlock()

	if s, ok := r.scopes[id]; ok {
		return s
	}
	s := New(id, r.newBus(), WithLogger(r.logger))
	r.scopes[id] = s
	return s
}

// Get returns the scope for id if it is live.
func (r *Registry) Get(id string) (*Scope, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	s, ok := r.scopes[id]
	return s, ok
}

// IDs returns the live scope handles in sorted order.
func (r *Registry) IDs() []string {
	r.mu.Lock()
	defer r.mu.Unlock()

	ids := make([]string, 0, len(r.scopes))
	for id := range r.scopes {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	return ids
}

// Close tears down the scope for id. Closing an unknown id is a no-op.
func (r *Registry) Close(id string) error {
	r.mu.Lock()
	s, ok := r.scopes[id]
	delete(r.scopes, id)
	r.mu.Unlock()

	if !ok {
		return nil
	}
	return s.Close()
}

// CloseAll tears down every scope.
func (r *Registry) CloseAll() error {
	r.mu.Lock()
	scopes := r.scopes
	r.scopes = make(map[string]*Scope)
	r.mu.Unlock()

	var errs error
	for _, s := range scopes {
		errs = errors.Join(errs, s.Close())
	}
	return errs
}
