package resolver_test

import (
	"context"
	"errors"
	"runtime"
	"testing"
	"time"
	"weak"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
	"go.trai.ch/rcache/internal/adapters/bus"
	"go.trai.ch/rcache/internal/adapters/resolvecache"
	"go.trai.ch/rcache/internal/core/domain"
	"go.trai.ch/rcache/internal/core/ports"
	"go.trai.ch/rcache/internal/core/ports/mocks"
	"go.trai.ch/rcache/internal/engine/resolver"
	"go.trai.ch/rcache/internal/engine/tree"
	"go.trai.ch/rcache/internal/scope"
	"go.trai.ch/zerr"
	"go.uber.org/mock/gomock"
)

type classDef struct {
	name       string
	params     []string
	extends    string
	implements []string
}

func program(path, pkg string, defs ...classDef) *domain.Node {
	f := domain.NewFile(path, pkg)
	for i, d := range defs {
		c := domain.NewClass(d.name, d.params, i+1)
		if d.extends != "" {
			c.AddChild(domain.NewTypeRef(domain.MustParseTypeExpr(d.extends), domain.RoleExtends, i+1))
		}
		for _, impl := range d.implements {
			c.AddChild(domain.NewTypeRef(domain.MustParseTypeExpr(impl), domain.RoleImplements, i+1))
		}
		f.AddChild(c)
	}
	return f
}

var shapes = []classDef{
	{name: "Shape", params: []string{"T"}},
	{name: "Comparable", params: []string{"C"}},
	{name: "Polygon", params: []string{"U"}, extends: "Shape<U>", implements: []string{"Comparable<Polygon<U>>"}},
	{name: "Square", extends: "Polygon<Float>"},
	{name: "Raw", extends: "Polygon"},
	{name: "Orphan", extends: "Missing<Int>"},
	{name: "A", extends: "B"},
	{name: "B", extends: "A"},
}

type fixture struct {
	scope    *scope.Scope
	tree     *tree.Tree
	resolver *resolver.Resolver
	spans    *tracetest.SpanRecorder
}

func newFixture(t *testing.T, log *mocks.MockLogger) *fixture {
	t.Helper()

	var opts []scope.Option
	if log != nil {
		opts = append(opts, scope.WithLogger(log))
	}
	sc := scope.New(t.Name(), bus.New(), opts...)
	t.Cleanup(func() { _ = sc.Close() })

	tr := tree.New(sc.Bus())
	tr.ReplaceFile(program("shapes.yaml", "shapes", shapes...))

	rec := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(rec))
	t.Cleanup(func() { _ = tp.Shutdown(context.Background()) })

	return &fixture{
		scope:    sc,
		tree:     tr,
		resolver: resolver.New(sc, tr, resolver.WithTracerProvider(tp)),
		spans:    rec,
	}
}

func (f *fixture) class(t *testing.T, name string) *domain.Node {
	t.Helper()
	c, ok := f.tree.FindClass(name, nil)
	require.True(t, ok, name)
	return c
}

func exprStrings(exprs []domain.TypeExpr) []string {
	out := make([]string, len(exprs))
	for i, e := range exprs {
		out[i] = e.String()
	}
	return out
}

func TestResolve_Specialization(t *testing.T) {
	t.Parallel()

	f := newFixture(t, nil)

	tests := []struct {
		class      string
		wantSupers []string
		wantSpec   string
	}{
		{"Shape", []string{}, "Shape.T=T"},
		{"Polygon", []string{"Shape<U>", "Comparable<Polygon<U>>"}, "Comparable.C=Polygon<U> Polygon.U=U Shape.T=U"},
		{"Square", []string{"Polygon<Float>", "Shape<Float>", "Comparable<Polygon<Float>>"}, "Comparable.C=Polygon<Float> Polygon.U=Float Shape.T=Float"},
		{"Raw", []string{"Polygon<Polygon.U>", "Shape<Polygon.U>", "Comparable<Polygon<Polygon.U>>"}, "Comparable.C=Polygon<Polygon.U> Shape.T=Polygon.U"},
	}
	for _, tt := range tests {
		t.Run(tt.class, func(t *testing.T) {
			res, err := f.resolver.Resolve(t.Context(), f.class(t, tt.class))
			require.NoError(t, err)
			assert.Equal(t, tt.wantSupers, exprStrings(res.SupertypeExprs()))
			assert.Equal(t, tt.wantSpec, res.String())
			assert.Empty(t, res.Unresolved())
		})
	}
}

func TestResolve_CachesResults(t *testing.T) {
	t.Parallel()

	f := newFixture(t, nil)
	square := f.class(t, "Square")

	first, err := f.resolver.Resolve(t.Context(), square)
	require.NoError(t, err)
	second, err := f.resolver.Resolve(t.Context(), square)
	require.NoError(t, err)
	assert.Same(t, first, second)

	cache, err := resolvecache.For(t.Context(), f.scope)
	require.NoError(t, err)
	got, ok := cache.Get(square)
	require.True(t, ok)
	assert.Same(t, first, got)

	// Square, Polygon, Shape and Comparable were computed once, then Square hit.
	spans := f.spans.Ended()
	require.Len(t, spans, 5)
	last := spans[len(spans)-1]
	assert.Equal(t, "resolve Square", last.Name())
	assert.Contains(t, last.Attributes(), attribute.String("class", "Square"))
	assert.Contains(t, last.Attributes(), attribute.Bool("cache.hit", true))
}

func TestResolve_InvalidatedByTreeEdit(t *testing.T) {
	t.Parallel()

	f := newFixture(t, nil)
	square := f.class(t, "Square")

	before, err := f.resolver.Resolve(t.Context(), square)
	require.NoError(t, err)

	f.tree.ReplaceFile(program("extra.yaml", "extra", classDef{name: "Circle"}))

	after, err := f.resolver.Resolve(t.Context(), square)
	require.NoError(t, err)
	assert.NotSame(t, before, after)
	assert.Equal(t, before.String(), after.String())
}

func TestResolve_UnresolvedSupertype(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	log := mocks.NewMockLogger(ctrl)
	log.EXPECT().Warn("shapes.yaml:6: supertype Missing of Orphan not found").Times(1)

	f := newFixture(t, log)
	orphan := f.class(t, "Orphan")

	res, err := f.resolver.Resolve(t.Context(), orphan)
	require.NoError(t, err)
	assert.Equal(t, []string{"Missing"}, res.Unresolved())
	assert.Empty(t, res.Supertypes())

	// The second call hits the cache and does not warn again.
	_, err = f.resolver.Resolve(t.Context(), orphan)
	require.NoError(t, err)
}

func TestResolve_InheritanceCycle(t *testing.T) {
	t.Parallel()

	f := newFixture(t, nil)

	_, err := f.resolver.Resolve(t.Context(), f.class(t, "A"))
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrInheritanceCycle)

	var zerrErr *zerr.Error
	require.ErrorAs(t, err, &zerrErr)
	assert.Equal(t, "A -> B -> A", zerrErr.Metadata()["cycle"])

	cache, err := resolvecache.For(t.Context(), f.scope)
	require.NoError(t, err)
	assert.Equal(t, 0, cache.Len())
}

func TestResolve_NotAClass(t *testing.T) {
	t.Parallel()

	f := newFixture(t, nil)

	_, err := f.resolver.Resolve(t.Context(), f.tree.Files()[0])
	assert.ErrorIs(t, err, domain.ErrNotAClass)

	_, err = f.resolver.Resolve(t.Context(), nil)
	assert.ErrorIs(t, err, domain.ErrNotAClass)
}

func TestResolve_CanceledContext(t *testing.T) {
	t.Parallel()

	f := newFixture(t, nil)
	ctx, cancel := context.WithCancel(t.Context())
	cancel()

	_, err := f.resolver.Resolve(ctx, f.class(t, "Square"))
	assert.ErrorIs(t, err, domain.ErrAcquireCanceled)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestResolveAll(t *testing.T) {
	t.Parallel()

	f := newFixture(t, nil)
	classes := []*domain.Node{f.class(t, "Square"), f.class(t, "A"), f.class(t, "Shape")}

	out, err := f.resolver.ResolveAll(t.Context(), classes, 2)
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrResolutionFailed)
	assert.ErrorIs(t, err, domain.ErrInheritanceCycle)

	require.Len(t, out, 3)
	for i, o := range out {
		assert.Same(t, classes[i], o.Class)
	}
	require.NoError(t, out[0].Err)
	assert.Equal(t, "Comparable.C=Polygon<Float> Polygon.U=Float Shape.T=Float", out[0].Result.String())
	assert.Error(t, out[1].Err)
	assert.Nil(t, out[1].Result)
	require.NoError(t, out[2].Err)
}

func TestResolveAll_AllSucceed(t *testing.T) {
	t.Parallel()

	f := newFixture(t, nil)
	var classes []*domain.Node
	for _, name := range []string{"Shape", "Polygon", "Square", "Raw", "Comparable"} {
		classes = append(classes, f.class(t, name))
	}

	out, err := f.resolver.ResolveAll(t.Context(), classes, 0)
	require.NoError(t, err)
	for _, o := range out {
		assert.NoError(t, o.Err)
		assert.NotNil(t, o.Result)
	}
	assert.False(t, errors.Is(err, domain.ErrResolutionFailed))
}

func TestResolve_StaleResultDiscarded(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	cache := mocks.NewMockResolveCache(ctrl)

	f := newFixture(t, nil)
	shape := f.class(t, "Shape")

	// The tree changes between the snapshot and the store.
	gomock.InOrder(
		cache.EXPECT().Get(shape).Return(nil, false),
		cache.EXPECT().Generation().Return(uint64(7)),
		cache.EXPECT().PutAt(uint64(7), shape, gomock.Any()).Return(false),
	)

	r := resolver.New(f.scope, f.tree,
		resolver.WithTracerProvider(sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(f.spans))),
		resolver.WithCacheSource(func(context.Context, *scope.Scope) (ports.ResolveCache, error) {
			return cache, nil
		}),
	)

	res, err := r.Resolve(t.Context(), shape)
	require.NoError(t, err)
	assert.Equal(t, "Shape.T=T", res.String())

	spans := f.spans.Ended()
	require.Len(t, spans, 1)
	require.Len(t, spans[0].Events(), 1)
	assert.Equal(t, "stale result discarded", spans[0].Events()[0].Name)
}

func TestResolve_CacheSourceError(t *testing.T) {
	t.Parallel()

	f := newFixture(t, nil)
	r := resolver.New(f.scope, f.tree, resolver.WithCacheSource(func(context.Context, *scope.Scope) (ports.ResolveCache, error) {
		return nil, domain.ErrScopeClosed
	}))

	_, err := r.Resolve(t.Context(), f.class(t, "Square"))
	assert.ErrorIs(t, err, domain.ErrScopeClosed)
}

// resolveDetached resolves Square from a tree that is dropped on return, and
// returns weak handles to Square and its file.
//
//go:noinline
func resolveDetached(t *testing.T, sc *scope.Scope) (weak.Pointer[domain.Node], weak.Pointer[domain.Node]) {
	t.Helper()

	tr := tree.New(sc.Bus())
	tr.ReplaceFile(program("shapes.yaml", "shapes",
		classDef{name: "Shape", params: []string{"T"}},
		classDef{name: "Polygon", params: []string{"U"}, extends: "Shape<U>"},
		classDef{name: "Square", extends: "Polygon<Float>"},
	))
	square, ok := tr.FindClass("Square", nil)
	require.True(t, ok)

	res, err := resolver.New(sc, tr).Resolve(t.Context(), square)
	require.NoError(t, err)
	require.Len(t, res.Supertypes(), 2)

	return weak.Make(square), weak.Make(square.File())
}

func collectedCount(sc *scope.Scope) float64 {
	families, err := sc.Metrics().Gather()
	if err != nil {
		return -1
	}
	for _, f := range families {
		if f.GetName() != "rcache_resolve_cache_collected_total" {
			continue
		}
		total := 0.0
		for _, m := range f.GetMetric() {
			total += m.GetCounter().GetValue()
		}
		return total
	}
	return 0
}

func TestResolve_CacheDoesNotRetainDroppedTree(t *testing.T) {
	sc := scope.New(t.Name(), bus.New())
	t.Cleanup(func() { _ = sc.Close() })

	square, file := resolveDetached(t, sc)

	cache, err := resolvecache.For(t.Context(), sc)
	require.NoError(t, err)

	// Square, Polygon and Shape were cached; no edit ever cleared them.
	require.Eventually(t, func() bool {
		runtime.GC()
		return square.Value() == nil && file.Value() == nil && collectedCount(sc) == 3
	}, 5*time.Second, 10*time.Millisecond)
	assert.Equal(t, 0, cache.Len())
	assert.Equal(t, uint64(0), cache.Generation())
}
