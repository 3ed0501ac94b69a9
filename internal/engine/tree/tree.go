// Package tree holds the mutable program representation of a scope.
package tree

import (
	"maps"
	"slices"
	"strings"
	"sync"

	"go.trai.ch/rcache/internal/core/domain"
	"go.trai.ch/rcache/internal/core/ports"
)

// Tree is the set of program files loaded into a scope.
//
// Every structural edit is announced on the bus: BeforeChange fires before the
// tree is modified and AfterChange after, both on the editing goroutine.
type Tree struct {
	bus ports.ChangeBus

	// edit serializes edits together with their notifications.
	edit sync.Mutex

	mu    sync.RWMutex
	files map[string]*domain.Node
}

// New creates an empty tree publishing on b.
func New(b ports.ChangeBus) *Tree {
	return &Tree{
		bus:   b,
		files: make(map[string]*domain.Node),
	}
}

// ReplaceFile adds file, replacing any file with the same path.
func (t *Tree) ReplaceFile(file *domain.Node) {
	t.edit.Lock()
	defer t.edit.Unlock()

	t.change(func() {
		t.files[file.Name] = file
	})
}

// RemoveFile removes the file at path. It reports whether the file was present;
// removing an unknown path publishes nothing.
func (t *Tree) RemoveFile(path string) bool {
	t.edit.Lock()
	defer t.edit.Unlock()

	if _, ok := t.File(path); !ok {
		return false
	}
	t.change(func() {
		delete(t.files, path)
	})
	return true
}

// change applies mutate between the before and after notifications.
// The caller holds t.edit.
func (t *Tree) change(mutate func()) {
	t.bus.BeforeChange(domain.TopicStructureChange, true)
	t.mu.Lock()
	mutate()
	t.mu.Unlock()
	t.bus.AfterChange(domain.TopicStructureChange, true)
}

// Files returns the loaded files ordered by path.
func (t *Tree) Files() []*domain.Node {
	t.mu.RLock()
	defer t.mu.RUnlock()

	paths := slices.Sorted(maps.Keys(t.files))
	out := make([]*domain.Node, len(paths))
	for i, p := range paths {
		out[i] = t.files[p]
	}
	return out
}

// File returns the file loaded from path.
func (t *Tree) File(path string) (*domain.Node, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()

	f, ok := t.files[path]
	return f, ok
}

// Classes returns every class declaration, in file path order then source order.
func (t *Tree) Classes() []*domain.Node {
	var out []*domain.Node
	for _, f := range t.Files() {
		out = append(out, f.ChildrenOf(domain.KindClass)...)
	}
	return out
}

// FindClass looks up the declaration named name as seen from the node from.
//
// A name qualified with a package ("shapes.Polygon") only matches in that
// package. An unqualified name is looked up in the package of from first, then
// in every file in path order. from may be nil.
func (t *Tree) FindClass(name string, from *domain.Node) (*domain.Node, bool) {
	files := t.Files()

	if i := strings.LastIndexByte(name, '.'); i >= 0 {
		pkg, simple := name[:i], name[i+1:]
		return findIn(files, simple, func(f *domain.Node) bool { return f.Package == pkg })
	}

	if from != nil {
		if f := from.File(); f != nil {
			if c, ok := findIn(files, name, func(o *domain.Node) bool { return o.Package == f.Package }); ok {
				return c, true
			}
		}
	}
	return findIn(files, name, func(*domain.Node) bool { return true })
}

func findIn(files []*domain.Node, name string, match func(*domain.Node) bool) (*domain.Node, bool) {
	for _, f := range files {
		if !match(f) {
			continue
		}
		for _, c := range f.ChildrenOf(domain.KindClass) {
			if c.Name == name {
				return c, true
			}
		}
	}
	return nil, false
}
