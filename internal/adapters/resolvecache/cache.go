// Package resolvecache memoizes class resolution results per scope, keyed
// weakly by syntax tree node identity and cleared on every structural change.
package resolvecache

import (
	"encoding/binary"
	"fmt"
	"math/bits"
	"runtime"
	"sync"
	"sync/atomic"
	"unsafe"
	"weak"

	"github.com/cespare/xxhash/v2"
	"go.trai.ch/rcache/internal/core/domain"
	"go.trai.ch/rcache/internal/core/ports"
)

var (
	_ ports.ResolveCache   = (*Cache)(nil)
	_ ports.ChangeListener = (*Cache)(nil)
)

type key = weak.Pointer[domain.Node]

type shard struct {
	mu      sync.RWMutex
	entries map[key]*domain.ResolveResult
	// tracked holds every key with a registered cleanup. It outlives Clear so a
	// node gets at most one cleanup for the lifetime of the cache.
	tracked map[key]struct{}
}

type cleanupArg struct {
	shard *shard
	key   key
}

// Cache is a concurrent map from class nodes to their resolve results.
//
// Keys are held weakly: storing a node never keeps it reachable, and once the
// node is reclaimed its entry is dropped. The zero value is not usable; create
// caches with New.
type Cache struct {
	shards  []*shard
	mask    uint64
	gen     atomic.Uint64
	metrics *Metrics
	logger  ports.Logger
}

// Option configures a Cache.
type Option func(*Cache)

// WithShards sets the number of lock stripes, rounded up to a power of two.
func WithShards(n int) Option {
	return func(c *Cache) {
		c.shards = make([]*shard, ceilPow2(n))
	}
}

// WithMetrics records cache activity on m.
func WithMetrics(m *Metrics) Option {
	return func(c *Cache) {
		c.metrics = m
	}
}

// WithLogger reports invalidations that drop entries on l.
func WithLogger(l ports.Logger) Option {
	return func(c *Cache) {
		c.logger = l
	}
}

// New creates an empty cache with one shard per processor by default.
func New(opts ...Option) *Cache {
	c := &Cache{shards: make([]*shard, ceilPow2(runtime.GOMAXPROCS(0)))}
	for _, opt := range opts {
		opt(c)
	}
	for i := range c.shards {
		c.shards[i] = &shard{
			entries: make(map[key]*domain.ResolveResult),
			tracked: make(map[key]struct{}),
		}
	}
	c.mask = uint64(len(c.shards) - 1)
	return c
}

func ceilPow2(n int) int {
	if n <= 1 {
		return 1
	}
	return 1 << bits.Len(uint(n-1))
}

func (c *Cache) shardFor(node *domain.Node) *shard {
	var buf [8]byte
	binary.LittleEndian.PutUint64(buf[:], uint64(uintptr(unsafe.Pointer(node))))
	return c.shards[xxhash.Sum64(buf[:])&c.mask]
}

// Get returns the result stored for node. It never computes anything.
func (c *Cache) Get(node *domain.Node) (*domain.ResolveResult, bool) {
	if node == nil {
		panic(domain.ErrNilKey)
	}
	s := c.shardFor(node)

	s.mu.RLock()
	res, ok := s.entries[weak.Make(node)]
	s.mu.RUnlock()

	if ok {
		c.metrics.hit()
	} else {
		c.metrics.miss()
	}
	return res, ok
}

// Put stores res for node, replacing any previous result.
func (c *Cache) Put(node *domain.Node, res *domain.ResolveResult) {
	c.store(node, res, nil)
}

// PutAt stores res for node only if the cache has not been cleared since
// Generation returned gen. It reports whether res was stored.
func (c *Cache) PutAt(gen uint64, node *domain.Node, res *domain.ResolveResult) bool {
	return c.store(node, res, &gen)
}

func (c *Cache) store(node *domain.Node, res *domain.ResolveResult, gen *uint64) bool {
	if node == nil {
		panic(domain.ErrNilKey)
	}
	if res == nil {
		panic(domain.ErrNilResult)
	}
	k := weak.Make(node)
	s := c.shardFor(node)

	s.mu.Lock()
	// Clear holds every shard lock while it bumps the generation.
	if gen != nil && *gen != c.gen.Load() {
		s.mu.Unlock()
		c.metrics.stalePut()
		return false
	}
	s.entries[k] = res
	_, tracked := s.tracked[k]
	if !tracked {
		s.tracked[k] = struct{}{}
	}
	s.mu.Unlock()

	if !tracked {
		runtime.AddCleanup(node, c.collect, cleanupArg{shard: s, key: k})
	}
	c.metrics.put()
	return true
}

// collect runs once node behind arg.key has been reclaimed.
func (c *Cache) collect(arg cleanupArg) {
	arg.shard.mu.Lock()
	_, live := arg.shard.entries[arg.key]
	delete(arg.shard.entries, arg.key)
	delete(arg.shard.tracked, arg.key)
	arg.shard.mu.Unlock()

	if live {
		c.metrics.collect()
	}
}

// Generation returns the number of times the cache has been cleared.
func (c *Cache) Generation() uint64 {
	return c.gen.Load()
}

// Clear drops every entry. A Get that starts after Clear returns sees none of
// the entries stored before it.
func (c *Cache) Clear() int {
	for _, s := range c.shards {
		s.mu.Lock()
	}
	dropped := 0
	for _, s := range c.shards {
		dropped += len(s.entries)
		s.entries = make(map[key]*domain.ResolveResult)
	}
	c.gen.Add(1)
	for _, s := range c.shards {
		s.mu.Unlock()
	}

	c.metrics.invalidate()
	return dropped
}

// Len returns the number of entries whose node is still reachable.
func (c *Cache) Len() int {
	n := 0
	for _, s := range c.shards {
		s.mu.RLock()
		for k := range s.entries {
			if k.Value() != nil {
				n++
			}
		}
		s.mu.RUnlock()
	}
	return n
}

// Stats is a point-in-time summary of a cache.
type Stats struct {
	Entries    int
	Shards     int
	Generation uint64
}

// Stats returns the current entry count, shard count and generation.
func (c *Cache) Stats() Stats {
	return Stats{
		Entries:    c.Len(),
		Shards:     len(c.shards),
		Generation: c.Generation(),
	}
}

// BeforeChange clears the cache. It returns only after the clear is complete.
func (c *Cache) BeforeChange(_ bool) {
	if dropped := c.Clear(); dropped > 0 && c.logger != nil {
		c.logger.Info(fmt.Sprintf("resolve cache invalidated (%d entries)", dropped))
	}
}

// AfterChange does nothing; the cache repopulates lazily.
func (c *Cache) AfterChange(_ bool) {}
