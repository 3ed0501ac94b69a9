// Package scope provides the per-session context object that owns
// scope-bound services such as the resolve cache.
package scope

import (
	"errors"
	"fmt"
	"io"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"go.trai.ch/rcache/internal/core/domain"
	"go.trai.ch/rcache/internal/core/ports"
	"go.trai.ch/zerr"
	"golang.org/x/sync/singleflight"
)

// Key identifies a service of type T inside a scope.
type Key[T any] struct {
	name string
}

// NewKey returns a key for a service of type T.
func NewKey[T any](name string) Key[T] {
	return Key[T]{name: name}
}

func (k Key[T]) String() string {
	return fmt.Sprintf("%T/%s", k, k.name)
}

// CloserFunc adapts a function to io.Closer.
type CloserFunc func() error

// Close calls f.
func (f CloserFunc) Close() error {
	return f()
}

// Scope is a logical session. It owns a change bus, a metrics registry and one
// instance of every service requested through GetOrCreate, and releases all of
// them on Close.
type Scope struct {
	id      string
	bus     ports.ChangeBus
	logger  ports.Logger
	metrics *prometheus.Registry

	mu       sync.Mutex
	services map[string]any
	closers  []io.Closer
	closed   bool
	done     chan struct{}

	creating singleflight.Group
}

// Option configures a Scope.
type Option func(*Scope)

// WithLogger sets the logger handed to scope services.
func WithLogger(l ports.Logger) Option {
	return func(s *Scope) {
		s.logger = l
	}
}

// New creates a scope. If b implements io.Closer it is closed with the scope,
// after every service registered later.
func New(id string, b ports.ChangeBus, opts ...Option) *Scope {
	s := &Scope{
		id:       id,
		bus:      b,
		metrics:  prometheus.NewRegistry(),
		services: make(map[string]any),
		done:     make(chan struct{}),
	}
	for _, opt := range opts {
		opt(s)
	}
	if c, ok := b.(io.Closer); ok {
		s.closers = append(s.closers, c)
	}
	return s
}

// ID returns the scope handle.
func (s *Scope) ID() string { return s.id }

// Bus returns the scope's change bus.
func (s *Scope) Bus() ports.ChangeBus { return s.bus }

// Logger returns the scope's logger, which may be nil.
func (s *Scope) Logger() ports.Logger { return s.logger }

// Metrics returns the registry scope services register their collectors on.
func (s *Scope) Metrics() *prometheus.Registry { return s.metrics }

// Done is closed when the scope is torn down.
func (s *Scope) Done() <-chan struct{} { return s.done }

// OnClose registers c to be closed when the scope is torn down. Closers run in
// reverse registration order. On a closed scope c is closed immediately.
func (s *Scope) OnClose(c io.Closer) error {
	s.mu.Lock()
	if !s.closed {
		s.closers = append(s.closers, c)
		s.mu.Unlock()
		return nil
	}
	s.mu.Unlock()
	return c.Close()
}

// Close tears the scope down. It is safe to call more than once.
func (s *Scope) Close() error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return nil
	}
	s.closed = true
	closers := s.closers
	s.closers = nil
	clear(s.services)
	close(s.done)
	s.mu.Unlock()

	var errs error
	for i := len(closers) - 1; i >= 0; i-- {
		if err := closers[i].Close(); err != nil {
			errs = errors.Join(errs, err)
		}
	}
	if errs != nil {
		return zerr.With(zerr.Wrap(errs, "failed to close scope"), "scope", s.id)
	}
	return nil
}

func (s *Scope) lookup(name string) (any, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return nil, false, errScopeClosed(s.id)
	}
	v, ok := s.services[name]
	return v, ok, nil
}

func (s *Scope) store(name string, v any) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return errScopeClosed(s.id)
	}
	s.services[name] = v
	return nil
}

func errScopeClosed(id string) error {
	return zerr.With(zerr.Wrap(domain.ErrScopeClosed, "scope service unavailable"), "scope", id)
}

// GetOrCreate returns the scope's instance for key, calling ctor on first use.
// Concurrent first callers share a single ctor call. A failed construction is
// not remembered.
func GetOrCreate[T any](s *Scope, key Key[T], ctor func(*Scope) (T, error)) (T, error) {
	var zero T
	name := key.String()

	v, ok, err := s.lookup(name)
	if err != nil {
		return zero, err
	}
	if ok {
		return v.(T), nil
	}

	v, err, _ = s.creating.Do(name, func() (any, error) {
		if v, ok, err := s.lookup(name); err != nil || ok {
			return v, err
		}
		created, err := ctor(s)
		if err != nil {
			return nil, err
		}
		if err := s.store(name, created); err != nil {
			return nil, err
		}
		return created, nil
	})
	if err != nil {
		return zero, err
	}
	return v.(T), nil
}
