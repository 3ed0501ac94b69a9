package ports

import "go.trai.ch/rcache/internal/core/domain"

// ResolveCache memoizes class resolution results by node identity.
//
//go:generate mockgen -source=resolve_cache.go -destination=mocks/mock_resolve_cache.go -package=mocks
type ResolveCache interface {
	// Get returns the cached result for node, if any.
	Get(node *domain.Node) (*domain.ResolveResult, bool)
	// Put stores result for node, replacing any previous value.
	Put(node *domain.Node, result *domain.ResolveResult)
	// Generation returns a counter that changes every time the cache is invalidated.
	Generation() uint64
	// PutAt stores result only if the cache has not been invalidated since gen.
	// It reports whether the result was stored.
	PutAt(gen uint64, node *domain.Node, result *domain.ResolveResult) bool
}
