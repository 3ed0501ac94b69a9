package watcher

import (
	"maps"
	"slices"
	"sync"
	"time"
)

// DefaultWindow is the debounce window used when none is configured.
const DefaultWindow = 50 * time.Millisecond

// Debouncer coalesces bursts of changed paths into one callback.
//
// The callback receives the distinct paths added since the previous batch, in
// sorted order. Batches never overlap: a batch that becomes due while the
// previous callback is still running waits for it.
type Debouncer struct {
	mu      sync.Mutex
	pending map[string]struct{}
	timer   *time.Timer
	window  time.Duration
	stopped bool

	// running holds a token while a callback runs.
	running  chan struct{}
	callback func(paths []string)
}

// NewDebouncer creates a debouncer. A non-positive window selects DefaultWindow.
func NewDebouncer(window time.Duration, callback func(paths []string)) *Debouncer {
	if window <= 0 {
		window = DefaultWindow
	}
	return &Debouncer{
		pending:  make(map[string]struct{}),
		running:  make(chan struct{}, 1),
		window:   window,
		callback: callback,
	}
}

// Add records path and restarts the window.
func (d *Debouncer) Add(path string) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.stopped {
		return
	}
	d.pending[path] = struct{}{}
	if d.timer == nil {
		d.timer = time.AfterFunc(d.window, d.fire)
		return
	}
	d.timer.Reset(d.window)
}

// take returns and clears the pending paths.
func (d *Debouncer) take() []string {
	paths := slices.Sorted(maps.Keys(d.pending))
	clear(d.pending)
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
	return paths
}

func (d *Debouncer) fire() {
	d.mu.Lock()
	paths := d.take()
	d.mu.Unlock()

	d.run(paths)
}

func (d *Debouncer) run(paths []string) {
	if len(paths) == 0 || d.callback == nil {
		return
	}
	d.running <- struct{}{}
	defer func() { <-d.running }()

	// A batch taken just before Stop must not run after Stop has returned.
	d.mu.Lock()
	stopped := d.stopped
	d.mu.Unlock()
	if stopped {
		return
	}
	d.callback(paths)
}

// Flush runs the callback for the pending paths now, on the calling goroutine.
func (d *Debouncer) Flush() {
	d.mu.Lock()
	paths := d.take()
	d.mu.Unlock()

	d.run(paths)
}

// Stop drops pending paths and ignores later additions. It waits for a
// running callback to return.
func (d *Debouncer) Stop() {
	d.mu.Lock()
	d.stopped = true
	d.take()
	d.mu.Unlock()

	d.running <- struct{}{}
	<-d.running
}
