package app_test

import (
	"bytes"
	"context"
	"iter"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/rcache/internal/adapters/bus"
	"go.trai.ch/rcache/internal/adapters/config"
	"go.trai.ch/rcache/internal/adapters/telemetry"
	"go.trai.ch/rcache/internal/app"
	"go.trai.ch/rcache/internal/core/domain"
	"go.trai.ch/rcache/internal/core/ports"
	"go.trai.ch/rcache/internal/core/ports/mocks"
	"go.trai.ch/rcache/internal/scope"
	"go.uber.org/mock/gomock"
)

const shapesProgram = `package: shapes
classes:
  - name: Shape
    params: [T]
  - name: Polygon
    params: [U]
    extends: Shape<U>
  - name: Square
    extends: Polygon<Float>
`

type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

type fixture struct {
	app     *app.App
	out     *syncBuffer
	logger  *mocks.MockLogger
	watcher *mocks.MockWatcher
	scopes  *scope.Registry
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	ctrl := gomock.NewController(t)
	log := mocks.NewMockLogger(ctrl)
	w := mocks.NewMockWatcher(ctrl)
	scopes := scope.NewRegistry(func() ports.ChangeBus { return bus.New() }, log)
	tel := telemetry.New()
	t.Cleanup(func() { _ = tel.Shutdown(context.Background()) })

	out := &syncBuffer{}
	a := app.New(config.NewLoader(log), log, scopes, tel, func() (ports.Watcher, error) {
		return w, nil
	}).WithOutput(out)

	return &fixture{app: a, out: out, logger: log, watcher: w, scopes: scopes}
}

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestApp_Resolve(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	path := writeFile(t, t.TempDir(), "shapes.yaml", shapesProgram)

	err := f.app.Resolve(t.Context(), []string{path}, app.ResolveOptions{})
	require.NoError(t, err)

	assert.Equal(t, strings.Join([]string{
		"Shape [Shape.T=T]",
		"Polygon extends Shape<U> [Polygon.U=U Shape.T=U]",
		"Square extends Polygon<Float>, Shape<Float> [Polygon.U=Float Shape.T=Float]",
		"",
	}, "\n"), f.out.String())

	// The session scope is torn down on return.
	assert.Empty(t, f.scopes.IDs())
}

func TestApp_Resolve_SelectedClassesWithStats(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	path := writeFile(t, t.TempDir(), "shapes.yaml", shapesProgram)

	err := f.app.Resolve(t.Context(), []string{path}, app.ResolveOptions{
		Classes: []string{"Square"},
		Workers: 1,
		Stats:   true,
	})
	require.NoError(t, err)

	out := f.out.String()
	assert.True(t, strings.HasPrefix(out, "Square extends Polygon<Float>, Shape<Float> [Polygon.U=Float Shape.T=Float]\n"))
	assert.Contains(t, out, "cache: entries=3 shards=")
	assert.Contains(t, out, "generation=0\n")
	assert.Contains(t, out, "cache: hits=0 misses=3 puts=3 stale_puts=0 invalidations=0 collected=0\n")
	assert.Contains(t, out, "spans: resolutions=3 cache_hits=0 failures=0\n")
}

func TestApp_Resolve_Errors(t *testing.T) {
	t.Parallel()

	t.Run("no files", func(t *testing.T) {
		t.Parallel()
		f := newFixture(t)
		err := f.app.Resolve(t.Context(), nil, app.ResolveOptions{})
		assert.ErrorIs(t, err, domain.ErrNoInputFiles)
	})

	t.Run("missing file", func(t *testing.T) {
		t.Parallel()
		f := newFixture(t)
		err := f.app.Resolve(t.Context(), []string{filepath.Join(t.TempDir(), "missing.yaml")}, app.ResolveOptions{})
		assert.ErrorIs(t, err, domain.ErrConfigReadFailed)
		assert.Empty(t, f.scopes.IDs())
	})

	t.Run("unknown class", func(t *testing.T) {
		t.Parallel()
		f := newFixture(t)
		path := writeFile(t, t.TempDir(), "shapes.yaml", shapesProgram)
		err := f.app.Resolve(t.Context(), []string{path}, app.ResolveOptions{Classes: []string{"Circle"}})
		assert.ErrorIs(t, err, domain.ErrClassNotFound)
	})

	t.Run("cycle reports the rest", func(t *testing.T) {
		t.Parallel()
		f := newFixture(t)
		path := writeFile(t, t.TempDir(), "loop.yaml", `classes:
  - name: A
    extends: B
  - name: B
    extends: A
  - name: C
`)
		err := f.app.Resolve(t.Context(), []string{path}, app.ResolveOptions{})
		assert.ErrorIs(t, err, domain.ErrResolutionFailed)
		assert.ErrorIs(t, err, domain.ErrInheritanceCycle)
		assert.Equal(t, "C\n", f.out.String())
	})
}

func TestApp_Watch(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	path := writeFile(t, t.TempDir(), "shapes.yaml", shapesProgram)

	events := make(chan ports.WatchEvent)
	f.logger.EXPECT().Info(gomock.Any()).AnyTimes()
	f.watcher.EXPECT().Start(gomock.Any(), []string{path}).Return(nil)
	f.watcher.EXPECT().Events().Return(iter.Seq[ports.WatchEvent](func(yield func(ports.WatchEvent) bool) {
		for ev := range events {
			if !yield(ev) {
				return
			}
		}
	}))
	f.watcher.EXPECT().Stop().Return(nil)

	done := make(chan error, 1)
	go func() {
		done <- f.app.Watch(t.Context(), []string{path}, app.WatchOptions{Debounce: time.Millisecond})
	}()

	require.Eventually(t, func() bool {
		return strings.Contains(f.out.String(), "Square extends Polygon<Float>")
	}, 5*time.Second, 5*time.Millisecond)

	writeFile(t, filepath.Dir(path), "shapes.yaml", strings.Replace(shapesProgram, "Polygon<Float>", "Polygon<Int>", 1))
	events <- ports.WatchEvent{Path: path, Operation: ports.OpWrite}

	require.Eventually(t, func() bool {
		return strings.Contains(f.out.String(), "Square extends Polygon<Int>, Shape<Int> [Polygon.U=Int Shape.T=Int]")
	}, 5*time.Second, 5*time.Millisecond)

	close(events)
	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("watch did not return")
	}
	assert.Empty(t, f.scopes.IDs())
}

func TestApp_Watch_RemovedFile(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	dir := t.TempDir()
	base := writeFile(t, dir, "base.yaml", "classes:\n  - name: Shape\n    params: [T]\n")
	square := writeFile(t, dir, "square.yaml", "classes:\n  - name: Square\n    extends: Shape<Float>\n")

	events := make(chan ports.WatchEvent)
	f.logger.EXPECT().Info(gomock.Any()).AnyTimes()
	f.logger.EXPECT().Warn(base + " was removed")
	f.logger.EXPECT().Warn(gomock.Any()).AnyTimes()
	f.watcher.EXPECT().Start(gomock.Any(), []string{base, square}).Return(nil)
	f.watcher.EXPECT().Events().Return(iter.Seq[ports.WatchEvent](func(yield func(ports.WatchEvent) bool) {
		for ev := range events {
			if !yield(ev) {
				return
			}
		}
	}))
	f.watcher.EXPECT().Stop().Return(nil)

	ctx, cancel := context.WithCancel(t.Context())
	defer cancel()
	done := make(chan error, 1)
	go func() {
		done <- f.app.Watch(ctx, []string{base, square}, app.WatchOptions{Debounce: time.Millisecond})
	}()

	require.Eventually(t, func() bool {
		return strings.Contains(f.out.String(), "Square extends Shape<Float> [Shape.T=Float]")
	}, 5*time.Second, 5*time.Millisecond)

	require.NoError(t, os.Remove(base))
	events <- ports.WatchEvent{Path: base, Operation: ports.OpRemove}

	require.Eventually(t, func() bool {
		return strings.Contains(f.out.String(), "Square (unresolved: Shape)")
	}, 5*time.Second, 5*time.Millisecond)

	close(events)
	require.NoError(t, <-done)
}
