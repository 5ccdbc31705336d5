package dataset

import (
	"context"
	"log/slog"
	"path/filepath"
	"sync"
	"sync/atomic"

	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"
)

// warmConcurrency bounds parallel file reads during Warm.
const warmConcurrency = 4

// LoaderFunc reads a table from a canonical path.
type LoaderFunc func(path string) (*Table, error)

// CacheStats is a point-in-time snapshot of cache counters.
type CacheStats struct {
	Hits     uint64
	Misses   uint64
	Failures uint64
	Entries  int
}

// Cache memoizes loaded tables by canonical file path for the lifetime of the
// process. The first successful load of a path wins; later calls return the
// same *Table without touching disk. Failed loads are not remembered.
type Cache struct {
	load LoaderFunc

	mu     sync.RWMutex
	tables map[string]*Table
	group  singleflight.Group

	hits     atomic.Uint64
	misses   atomic.Uint64
	failures atomic.Uint64
}

// NewCache creates a cache backed by Load.
func NewCache() *Cache {
	return NewCacheWithLoader(Load)
}

// NewCacheWithLoader creates a cache backed by a custom loader.
func NewCacheWithLoader(load LoaderFunc) *Cache {
	return &Cache{
		load:   load,
		tables: make(map[string]*Table),
	}
}

// Canonical returns the absolute, cleaned form of path used as the cache key.
func Canonical(path string) string {
	abs, err := filepath.Abs(path)
	if err != nil {
		return filepath.Clean(path)
	}
	return abs
}

// GetOrLoad returns the cached table for path, loading it on first use.
func (c *Cache) GetOrLoad(path string) (*Table, error) {
	key := Canonical(path)

	c.mu.RLock()
	t, ok := c.tables[key]
	c.mu.RUnlock()
	if ok {
		c.hits.Add(1)
		return t, nil
	}

	v, err, _ := c.group.Do(key, func() (any, error) {
		c.mu.RLock()
		existing, ok := c.tables[key]
		c.mu.RUnlock()
		if ok {
			return existing, nil
		}

		c.misses.Add(1)
		loaded, err := c.load(key)
		if err != nil {
			c.failures.Add(1)
			return nil, err
		}

		c.mu.Lock()
		defer c.mu.Unlock()
		if existing, ok := c.tables[key]; ok {
			return existing, nil
		}
		c.tables[key] = loaded
		return loaded, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*Table), nil
}

// Warm loads paths concurrently. Failures are logged and counted but never
// returned, so a missing file cannot stop startup.
func (c *Cache) Warm(ctx context.Context, paths []string) int {
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(warmConcurrency)

	var loaded atomic.Int64
	for _, p := range paths {
		g.Go(func() error {
			if ctx.Err() != nil {
				return nil
			}
			if _, err := c.GetOrLoad(p); err != nil {
				slog.Warn("dataset warm-up failed", "path", p, "error", err)
				return nil
			}
			loaded.Add(1)
			return nil
		})
	}
	_ = g.Wait()
	return int(loaded.Load())
}

// Stats returns the current counters.
func (c *Cache) Stats() CacheStats {
	c.mu.RLock()
	n := len(c.tables)
	c.mu.RUnlock()
	return CacheStats{
		Hits:     c.hits.Load(),
		Misses:   c.misses.Load(),
		Failures: c.failures.Load(),
		Entries:  n,
	}
}
