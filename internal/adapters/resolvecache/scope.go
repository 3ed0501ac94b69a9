package resolvecache

import (
	"context"
	"errors"

	"go.trai.ch/rcache/internal/core/domain"
	"go.trai.ch/rcache/internal/scope"
	"go.trai.ch/zerr"
)

var scopeKey = scope.NewKey[*Cache]("resolvecache")

// For returns the resolve cache of sc, creating it on first use.
//
// For is a cancellation checkpoint: if ctx is already done it returns an error
// matching both domain.ErrAcquireCanceled and ctx.Err(), and no cache. The
// cache is subscribed to structural changes on the scope's bus until the scope
// is closed.
func For(ctx context.Context, sc *scope.Scope) (*Cache, error) {
	if err := ctx.Err(); err != nil {
		return nil, errors.Join(domain.ErrAcquireCanceled, err)
	}
	return scope.GetOrCreate(sc, scopeKey, newForScope)
}

func newForScope(sc *scope.Scope) (*Cache, error) {
	m, err := NewMetrics(sc.Metrics(), sc.ID())
	if err != nil {
		return nil, zerr.Wrap(err, "failed to create resolve cache")
	}
	c := New(WithMetrics(m), WithLogger(sc.Logger()))

	sub := sc.Bus().Subscribe(domain.TopicStructureChange, c)
	if err := sc.OnClose(scope.CloserFunc(func() error {
		err := sub.Close()
		c.Clear()
		return err
	})); err != nil {
		return nil, err
	}
	return c, nil
}
