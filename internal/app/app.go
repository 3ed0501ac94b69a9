// Package app implements the application layer for rcache.
package app

import (
	"context"
	"fmt"
	"io"
	"os"
	"runtime"
	"sync"
	"time"

	"go.trai.ch/rcache/internal/adapters/telemetry" //nolint:depguard // Wired in app layer
	"go.trai.ch/rcache/internal/adapters/watcher"   //nolint:depguard // Wired in app layer
	"go.trai.ch/rcache/internal/core/ports"
	"go.trai.ch/rcache/internal/scope"
	"go.trai.ch/zerr"
)

// App represents the main application logic.
type App struct {
	loader    ports.ProgramLoader
	logger    ports.Logger
	scopes    *scope.Registry
	telemetry *telemetry.Telemetry
	watchers  ports.WatcherFactory

	outMu sync.Mutex
	out   io.Writer
}

// New creates a new App instance.
func New(
	loader ports.ProgramLoader,
	log ports.Logger,
	scopes *scope.Registry,
	tel *telemetry.Telemetry,
	watchers ports.WatcherFactory,
) *App {
	return &App{
		loader:    loader,
		logger:    log,
		scopes:    scopes,
		telemetry: tel,
		watchers:  watchers,
		out:       os.Stdout,
	}
}

// WithOutput sets where resolution reports are written.
func (a *App) WithOutput(w io.Writer) *App {
	a.outMu.Lock()
	defer a.outMu.Unlock()
	a.out = w
	return a
}

func (a *App) printf(format string, args ...any) {
	a.outMu.Lock()
	defer a.outMu.Unlock()
	_, _ = fmt.Fprintf(a.out, format, args...)
}

// ResolveOptions configuration for the Resolve method.
type ResolveOptions struct {
	// Classes restricts the report to the named classes. All classes are
	// reported when empty.
	Classes []string
	// Workers bounds concurrent resolutions. Zero means one per CPU.
	Workers int
	// Stats appends cache and span counters to the report.
	Stats bool
}

func (o ResolveOptions) workers() int {
	if o.Workers > 0 {
		return o.Workers
	}
	return runtime.NumCPU()
}

// Resolve loads the program files at paths and reports every selected class.
func (a *App) Resolve(ctx context.Context, paths []string, opts ResolveOptions) (err error) {
	sess, err := a.open(paths)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := sess.close(); cerr != nil && err == nil {
			err = cerr
		}
	}()

	return sess.report(ctx, opts)
}

// WatchOptions configuration for the Watch method.
type WatchOptions struct {
	ResolveOptions
	// Debounce is the quiet period after a change before files are reloaded.
	Debounce time.Duration
}

// Watch reports like Resolve, then reloads changed files and reports again
// until ctx is canceled.
func (a *App) Watch(ctx context.Context, paths []string, opts WatchOptions) (err error) {
	sess, err := a.open(paths)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := sess.close(); cerr != nil && err == nil {
			err = cerr
		}
	}()

	if err := sess.report(ctx, opts.ResolveOptions); err != nil {
		a.logger.Error(err)
	}

	w, err := a.watchers()
	if err != nil {
		return zerr.Wrap(err, "failed to watch program files")
	}
	defer func() { _ = w.Stop() }()
	if err := w.Start(ctx, sess.paths()); err != nil {
		return zerr.Wrap(err, "failed to watch program files")
	}
	a.logger.Info(fmt.Sprintf("watching %d files", len(sess.files)))

	deb := watcher.NewDebouncer(opts.Debounce, func(changed []string) {
		if ctx.Err() != nil {
			return
		}
		sess.reload(changed)
		if err := sess.report(ctx, opts.ResolveOptions); err != nil && ctx.Err() == nil {
			a.logger.Error(err)
		}
	})
	defer deb.Stop()

	for ev := range w.Events() {
		deb.Add(ev.Path)
	}
	return nil
}
