package watcher

// RunBatch runs the callback for paths as a timer firing with an already taken
// batch would.
func (d *Debouncer) RunBatch(paths []string) {
	d.run(paths)
}
