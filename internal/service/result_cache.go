package service

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"
)

// cacheEntry pairs a computed payload with its computation time. Entries are
// never swept; a stale entry is simply overwritten by the next recompute.
type cacheEntry struct {
	payload    interface{}
	computedAt time.Time
}

// ResultCache is a process-local, time-bounded store for derived analytics
// and trending payloads. It is constructed once at startup and injected into
// the services that need it; keys are independent, so a single map guarded
// by one RWMutex is enough.
type ResultCache struct {
	mu      sync.RWMutex
	entries map[string]cacheEntry
	now     func() time.Time
}

// NewResultCache creates an empty ResultCache.
func NewResultCache() *ResultCache {
	return &ResultCache{
		entries: make(map[string]cacheEntry),
		now:     time.Now,
	}
}

// GetOrCompute returns the cached payload for key while it is younger than
// ttl, otherwise invokes compute and stores its result. Only a fully
// computed payload is ever stored: if compute fails or the context is
// cancelled, nothing is written. Two concurrent misses on the same key may
// both compute; last write wins and both results are equally fresh.
func (c *ResultCache) GetOrCompute(ctx context.Context, key string, ttl time.Duration, compute func(ctx context.Context) (interface{}, error)) (interface{}, error) {
	c.mu.RLock()
	entry, ok := c.entries[key]
	c.mu.RUnlock()

	if ok && c.now().Sub(entry.computedAt) < ttl {
		return entry.payload, nil
	}

	payload, err := compute(ctx)
	if err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	c.mu.Lock()
	c.entries[key] = cacheEntry{payload: payload, computedAt: c.now()}
	c.mu.Unlock()

	return payload, nil
}

// Invalidate drops the entry for key, forcing the next lookup to recompute.
func (c *ResultCache) Invalidate(key string) {
	c.mu.Lock()
	delete(c.entries, key)
	c.mu.Unlock()
}

// Len returns the number of live entries, stale ones included.
func (c *ResultCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

// CacheKey builds a deterministic key from a scope and the request's
// semantic parameters. Parameters are sorted by name so two logically
// identical requests produce the same key regardless of argument order.
func CacheKey(scope string, params map[string]string) string {
	names := make([]string, 0, len(params))
	for name := range params {
		names = append(names, name)
	}
	sort.Strings(names)

	var b strings.Builder
	b.WriteString(scope)
	for _, name := range names {
		fmt.Fprintf(&b, "|%s=%s", name, params[name])
	}
	return b.String()
}
