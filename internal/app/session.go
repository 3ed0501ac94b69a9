package app

import (
	"context"
	"errors"
	"fmt"
	"maps"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/prometheus/client_golang/prometheus"
	"go.trai.ch/rcache/internal/adapters/resolvecache" //nolint:depguard // Wired in app layer
	"go.trai.ch/rcache/internal/core/domain"
	"go.trai.ch/rcache/internal/engine/resolver"
	"go.trai.ch/rcache/internal/engine/tree"
	"go.trai.ch/rcache/internal/scope"
	"go.trai.ch/zerr"
)

// session is one scope with its program tree and resolver.
type session struct {
	app      *App
	scope    *scope.Scope
	tree     *tree.Tree
	resolver *resolver.Resolver
	// files maps absolute paths to the paths given on the command line.
	files map[string]string
}

// open loads paths into a fresh scope named after the directory of the first path.
func (a *App) open(paths []string) (*session, error) {
	if len(paths) == 0 {
		return nil, domain.ErrNoInputFiles
	}
	first, err := filepath.Abs(paths[0])
	if err != nil {
		return nil, zerr.With(zerr.Wrap(err, "failed to resolve path"), "path", paths[0])
	}
	id := filepath.Dir(first)

	// A scope left over from an earlier run in this process is discarded.
	if err := a.scopes.Close(id); err != nil {
		return nil, err
	}
	sc := a.scopes.GetOrCreate(id)
	s := &session{
		app:   a,
		scope: sc,
		tree:  tree.New(sc.Bus()),
		files: make(map[string]string, len(paths)),
	}
	s.resolver = resolver.New(sc, s.tree, resolver.WithTracerProvider(a.telemetry.Provider()))

	for _, p := range paths {
		abs, err := filepath.Abs(p)
		if err != nil {
			_ = s.close()
			return nil, zerr.With(zerr.Wrap(err, "failed to resolve path"), "path", p)
		}
		file, err := a.loader.Load(p)
		if err != nil {
			_ = s.close()
			return nil, err
		}
		s.files[abs] = p
		s.tree.ReplaceFile(file)
	}
	return s, nil
}

func (s *session) close() error {
	return s.app.scopes.Close(s.scope.ID())
}

// paths returns the absolute paths of the loaded files.
func (s *session) paths() []string {
	return slices.Sorted(maps.Keys(s.files))
}

// reload re-reads changed files. A file that no longer exists is removed from
// the tree; a file that fails to load keeps its previous content.
func (s *session) reload(changed []string) {
	reloaded := 0
	for _, abs := range changed {
		p, ok := s.files[abs]
		if !ok {
			continue
		}
		file, err := s.app.loader.Load(p)
		switch {
		case errors.Is(err, os.ErrNotExist):
			if s.tree.RemoveFile(filepath.Clean(p)) {
				s.app.logger.Warn(fmt.Sprintf("%s was removed", p))
			}
		case err != nil:
			s.app.logger.Error(err)
		default:
			s.tree.ReplaceFile(file)
			reloaded++
		}
	}
	if reloaded > 0 {
		s.app.logger.Info(fmt.Sprintf("reloaded %d files", reloaded))
	}
}

func (s *session) selectClasses(names []string) ([]*domain.Node, error) {
	if len(names) == 0 {
		return s.tree.Classes(), nil
	}
	classes := make([]*domain.Node, 0, len(names))
	for _, name := range names {
		c, ok := s.tree.FindClass(name, nil)
		if !ok {
			return nil, zerr.With(zerr.Wrap(domain.ErrClassNotFound, "cannot resolve"), "class", name)
		}
		classes = append(classes, c)
	}
	return classes, nil
}

// report resolves the selected classes and prints one line per class.
func (s *session) report(ctx context.Context, opts ResolveOptions) error {
	classes, err := s.selectClasses(opts.Classes)
	if err != nil {
		return err
	}

	s.app.telemetry.Stats().Reset()
	outcomes, resolveErr := s.resolver.ResolveAll(ctx, classes, opts.workers())

	var b strings.Builder
	for _, o := range outcomes {
		if o.Err == nil {
			b.WriteString(formatOutcome(o))
			b.WriteByte('\n')
		}
	}
	if opts.Stats {
		stats, err := s.stats(ctx)
		if err != nil {
			return err
		}
		b.WriteString(stats)
	}
	s.app.printf("%s", b.String())
	return resolveErr
}

// formatOutcome renders a resolved class as
// "Square extends Polygon<Float>, Shape<Float> [Polygon.U=Float Shape.T=Float]".
func formatOutcome(o resolver.Outcome) string {
	var b strings.Builder
	b.WriteString(o.Class.Name)
	if supers := o.Result.SupertypeExprs(); len(supers) > 0 {
		names := make([]string, len(supers))
		for i, s := range supers {
			names[i] = s.String()
		}
		b.WriteString(" extends ")
		b.WriteString(strings.Join(names, ", "))
	}
	if spec := o.Result.String(); spec != "" {
		b.WriteString(" [")
		b.WriteString(spec)
		b.WriteByte(']')
	}
	if unresolved := o.Result.Unresolved(); len(unresolved) > 0 {
		b.WriteString(" (unresolved: ")
		b.WriteString(strings.Join(unresolved, ", "))
		b.WriteByte(')')
	}
	return b.String()
}

func (s *session) stats(ctx context.Context) (string, error) {
	cache, err := resolvecache.For(ctx, s.scope)
	if err != nil {
		return "", err
	}
	counters, err := gatherCounters(s.scope.Metrics())
	if err != nil {
		return "", err
	}
	st := cache.Stats()
	spans := s.app.telemetry.Stats().Summary()

	var b strings.Builder
	fmt.Fprintf(&b, "cache: entries=%d shards=%d generation=%d\n", st.Entries, st.Shards, st.Generation)
	fmt.Fprintf(&b, "cache: hits=%d misses=%d puts=%d stale_puts=%d invalidations=%d collected=%d\n",
		counters["hits_total"], counters["misses_total"], counters["puts_total"],
		counters["stale_puts_total"], counters["invalidations_total"], counters["collected_total"])
	fmt.Fprintf(&b, "spans: resolutions=%d cache_hits=%d failures=%d\n",
		spans.Resolutions, spans.CacheHits, spans.Failures)
	return b.String(), nil
}

// gatherCounters returns the resolve cache counters of reg keyed by their
// name without namespace and subsystem.
func gatherCounters(reg prometheus.Gatherer) (map[string]int, error) {
	families, err := reg.Gather()
	if err != nil {
		return nil, zerr.Wrap(err, "failed to gather metrics")
	}
	const prefix = "rcache_resolve_cache_"
	out := make(map[string]int)
	for _, f := range families {
		name, ok := strings.CutPrefix(f.GetName(), prefix)
		if !ok {
			continue
		}
		for _, m := range f.GetMetric() {
			out[name] += int(m.GetCounter().GetValue())
		}
	}
	return out, nil
}
