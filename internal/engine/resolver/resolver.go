// Package resolver computes the supertypes of a class and the types their
// parameters are bound to, memoizing results in the scope's resolve cache.
package resolver

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.trai.ch/rcache/internal/adapters/resolvecache"
	"go.trai.ch/rcache/internal/core/domain"
	"go.trai.ch/rcache/internal/core/ports"
	"go.trai.ch/rcache/internal/engine/tree"
	"go.trai.ch/rcache/internal/scope"
	"go.trai.ch/zerr"
	"golang.org/x/sync/errgroup"
)

// TracerName is the instrumentation scope of resolver spans.
const TracerName = "go.trai.ch/rcache/internal/engine/resolver"

// CacheSource acquires the resolve cache of a scope.
type CacheSource func(ctx context.Context, sc *scope.Scope) (ports.ResolveCache, error)

// ScopeCache is the default CacheSource: the scope's own resolve cache.
func ScopeCache(ctx context.Context, sc *scope.Scope) (ports.ResolveCache, error) {
	return resolvecache.For(ctx, sc)
}

// Resolver resolves classes of one scope's program tree.
type Resolver struct {
	scope  *scope.Scope
	tree   *tree.Tree
	logger ports.Logger
	tracer trace.Tracer
	caches CacheSource
}

// Option configures a Resolver.
type Option func(*Resolver)

// WithTracerProvider sets the provider resolver spans are created on.
// The global provider is used by default.
func WithTracerProvider(tp trace.TracerProvider) Option {
	return func(r *Resolver) {
		r.tracer = tp.Tracer(TracerName)
	}
}

// WithCacheSource replaces the way the resolve cache is acquired.
func WithCacheSource(src CacheSource) Option {
	return func(r *Resolver) {
		r.caches = src
	}
}

// New creates a resolver for the classes of t, caching in sc.
// Unresolved supertypes are reported on the scope's logger.
func New(sc *scope.Scope, t *tree.Tree, opts ...Option) *Resolver {
	r := &Resolver{
		scope:  sc,
		tree:   t,
		logger: sc.Logger(),
		tracer: otel.Tracer(TracerName),
		caches: ScopeCache,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Resolve returns the resolve result of class.
//
// Every call, including the recursive ones made for supertypes, acquires the
// cache and therefore fails once ctx is canceled.
func (r *Resolver) Resolve(ctx context.Context, class *domain.Node) (*domain.ResolveResult, error) {
	return r.resolve(ctx, class, nil)
}

func (r *Resolver) resolve(ctx context.Context, class *domain.Node, path []*domain.Node) (*domain.ResolveResult, error) {
	if class == nil || class.Kind != domain.KindClass {
		return nil, zerr.With(zerr.Wrap(domain.ErrNotAClass, "cannot resolve"), "node", class.String())
	}
	if i := slices.Index(path, class); i >= 0 {
		return nil, zerr.With(zerr.Wrap(domain.ErrInheritanceCycle, "cannot resolve "+class.Name), "cycle", cyclePath(path[i:], class))
	}

	cache, err := r.caches(ctx, r.scope)
	if err != nil {
		return nil, err
	}

	ctx, span := r.tracer.Start(ctx, "resolve "+class.Name,
		trace.WithAttributes(attribute.String("class", class.Name)))
	defer span.End()

	if res, ok := cache.Get(class); ok {
		span.SetAttributes(attribute.Bool("cache.hit", true))
		return res, nil
	}
	span.SetAttributes(attribute.Bool("cache.hit", false))

	gen := cache.Generation()
	res, err := r.compute(ctx, class, append(slices.Clip(path), class))
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}
	// A result computed across an invalidation describes the old tree.
	if !cache.PutAt(gen, class, res) {
		span.AddEvent("stale result discarded")
	}
	return res, nil
}

func (r *Resolver) compute(ctx context.Context, class *domain.Node, path []*domain.Node) (*domain.ResolveResult, error) {
	spec := make(map[string]domain.TypeExpr)
	for _, p := range class.Params {
		spec[class.QualifiedParam(p)] = domain.TypeExpr{Name: p}
	}

	var (
		supers     []*domain.Node
		unresolved []string
	)
	addSuper := func(d *domain.Node) {
		if !slices.Contains(supers, d) {
			supers = append(supers, d)
		}
	}

	for _, ref := range class.Supers() {
		decl, ok := r.tree.FindClass(ref.Type.Name, class)
		if !ok {
			unresolved = append(unresolved, ref.Type.Name)
			r.warn(fmt.Sprintf("%s: supertype %s of %s not found", ref.Pos(), ref.Type.Name, class.Name))
			continue
		}

		// Bind the declaration's parameters to the reference's arguments.
		// Arguments are already written in terms of class's own parameters.
		binding := make(map[string]domain.TypeExpr, len(decl.Params))
		for i, p := range decl.Params {
			if i < len(ref.Type.Args) {
				binding[p] = ref.Type.Args[i]
				setOnce(spec, decl.QualifiedParam(p), ref.Type.Args[i])
			} else {
				binding[p] = domain.TypeExpr{Name: decl.QualifiedParam(p)}
			}
		}
		addSuper(decl)

		superRes, err := r.resolve(ctx, decl, path)
		if err != nil {
			return nil, err
		}
		for k, v := range superRes.Specialization() {
			if strings.HasPrefix(k, decl.Name+".") && decl.HasParam(strings.TrimPrefix(k, decl.Name+".")) {
				continue
			}
			setOnce(spec, k, v.Substitute(binding))
		}
		for _, s := range superRes.Supertypes() {
			addSuper(s)
		}
		unresolved = append(unresolved, superRes.Unresolved()...)
	}

	slices.Sort(unresolved)
	return domain.NewResolveResult(spec, supers, slices.Compact(unresolved)), nil
}

// setOnce binds k unless a nearer supertype already did.
func setOnce(spec map[string]domain.TypeExpr, k string, v domain.TypeExpr) {
	if _, ok := spec[k]; !ok {
		spec[k] = v
	}
}

func (r *Resolver) warn(msg string) {
	if r.logger != nil {
		r.logger.Warn(msg)
	}
}

func cyclePath(path []*domain.Node, back *domain.Node) string {
	names := make([]string, 0, len(path)+1)
	for _, n := range path {
		names = append(names, n.Name)
	}
	return strings.Join(append(names, back.Name), " -> ")
}

// Outcome is the resolution of one class by ResolveAll.
type Outcome struct {
	Class  *domain.Node
	Result *domain.ResolveResult
	Err    error
}

// ResolveAll resolves classes with at most workers resolutions in flight.
// Outcomes are returned in the order of classes. A failing class does not stop
// the others; the returned error joins every failure.
func (r *Resolver) ResolveAll(ctx context.Context, classes []*domain.Node, workers int) ([]Outcome, error) {
	out := make([]Outcome, len(classes))

	var g errgroup.Group
	if workers > 0 {
		g.SetLimit(workers)
	}
	for i, c := range classes {
		g.Go(func() error {
			res, err := r.Resolve(ctx, c)
			if err != nil {
				err = zerr.With(err, "class", c.Name)
			}
			out[i] = Outcome{Class: c, Result: res, Err: err}
			return nil
		})
	}
	_ = g.Wait()

	var errs error
	for _, o := range out {
		if o.Err != nil {
			errs = errors.Join(errs, o.Err)
		}
	}
	if errs != nil {
		return out, zerr.Wrap(errors.Join(domain.ErrResolutionFailed, errs), "failed to resolve classes")
	}
	return out, nil
}
