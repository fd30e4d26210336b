// Package cache provides the read-through catalog cache. Each key holds the
// last successful fetch result for a bounded time window; concurrent readers
// of the same key share one in-flight fetch, and mutations invalidate keys
// explicitly.
package cache

import (
	"context"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"golang.org/x/sync/singleflight"
)

// DefaultTTL bounds how long a successful result is served without a
// refresh attempt.
const DefaultTTL = 60 * time.Second

var cacheRequests = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Name: "storefront_cache_requests_total",
		Help: "Cache lookups by cache name and result (hit, miss, stale)",
	},
	[]string{"cache", "result"},
)

// FetchFunc loads the value for a key from the origin.
type FetchFunc[V any] func(ctx context.Context) (V, error)

type entry[V any] struct {
	value     V
	fetchedAt time.Time
}

// Cache is a read-through cache keyed by string.
//
// Reads within the TTL are served from memory. An expired or missing key
// triggers a blocking fetch shared by all concurrent callers of that key.
// When a refresh fails and a stale value exists, the stale value is served
// so previously displayed data survives transient origin failures; a failed
// fetch with no prior value surfaces the error. Failures never affect other
// keys.
type Cache[V any] struct {
	mu      sync.RWMutex
	entries map[string]entry[V]
	group   singleflight.Group
	ttl     time.Duration
	name    string
	nowFunc func() time.Time // injectable clock for testing
}

// New creates a cache with the given name (metrics label) and TTL.
// A non-positive TTL falls back to DefaultTTL.
func New[V any](name string, ttl time.Duration) *Cache[V] {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Cache[V]{
		entries: make(map[string]entry[V]),
		ttl:     ttl,
		name:    name,
		nowFunc: time.Now,
	}
}

// GetOrFetch returns the cached value for key, fetching it from the origin
// when missing or expired.
func (c *Cache[V]) GetOrFetch(ctx context.Context, key string, fetch FetchFunc[V]) (V, error) {
	if v, ok := c.fresh(key); ok {
		cacheRequests.WithLabelValues(c.name, "hit").Inc()
		return v, nil
	}

	result, err, _ := c.group.Do(key, func() (any, error) {
		// Another caller may have completed the fetch while this one was
		// queued on the flight group.
		if v, ok := c.fresh(key); ok {
			return v, nil
		}

		cacheRequests.WithLabelValues(c.name, "miss").Inc()
		v, err := fetch(ctx)
		if err != nil {
			// Serve the previous value if one exists; the refresh was
			// attempted, which is what the staleness policy requires.
			if stale, ok := c.peek(key); ok {
				cacheRequests.WithLabelValues(c.name, "stale").Inc()
				return stale, nil
			}
			return nil, err
		}

		c.store(key, v)
		return v, nil
	})
	if err != nil {
		var zero V
		return zero, err
	}
	return result.(V), nil
}

// Set stores a value for key, resetting its TTL window.
func (c *Cache[V]) Set(key string, v V) {
	c.store(key, v)
}

// Invalidate marks the key stale so the next read refetches.
func (c *Cache[V]) Invalidate(key string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.entries, key)
}

// fresh returns the value for key if present and within the TTL.
func (c *Cache[V]) fresh(key string) (V, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	e, ok := c.entries[key]
	if !ok || c.nowFunc().Sub(e.fetchedAt) >= c.ttl {
		var zero V
		return zero, false
	}
	return e.value, true
}

// peek returns the value for key regardless of freshness.
func (c *Cache[V]) peek(key string) (V, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	e, ok := c.entries[key]
	if !ok {
		var zero V
		return zero, false
	}
	return e.value, true
}

func (c *Cache[V]) store(key string, v V) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[key] = entry[V]{value: v, fetchedAt: c.nowFunc()}
}
