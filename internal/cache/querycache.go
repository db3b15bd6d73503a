package cache

import (
	"sync"
	"time"

	"github.com/campusqa/campusqa/pkg/types"
)

// QueryCache is a time-bounded cache of ranked retrieval results keyed by
// normalized query text. Expiry is checked lazily on read: a Get against an
// expired entry reports a miss and the stale entry is dropped. Entries are
// process-scoped and never persisted.
type QueryCache struct {
	mu         sync.RWMutex
	entries    map[string]queryEntry
	defaultTTL time.Duration
	now        func() time.Time
}

type queryEntry struct {
	results   []types.RankedDocument
	expiresAt time.Time
}

// NewQueryCache creates a query cache with the given default TTL.
func NewQueryCache(defaultTTL time.Duration) *QueryCache {
	if defaultTTL <= 0 {
		defaultTTL = time.Hour
	}
	return &QueryCache{
		entries:    make(map[string]queryEntry),
		defaultTTL: defaultTTL,
		now:        time.Now,
	}
}

// Get returns the cached results for key, or ok=false on a miss or an
// expired entry.
func (c *QueryCache) Get(key string) ([]types.RankedDocument, bool) {
	c.mu.RLock()
	e, ok := c.entries[key]
	c.mu.RUnlock()

	if !ok {
		return nil, false
	}
	if c.now().After(e.expiresAt) {
		c.mu.Lock()
		// Re-check under the write lock: a Put may have refreshed the entry.
		if cur, still := c.entries[key]; still && c.now().After(cur.expiresAt) {
			delete(c.entries, key)
		}
		c.mu.Unlock()
		return nil, false
	}

	return copyResults(e.results), true
}

// Put stores results under key. A non-positive ttl uses the cache default.
func (c *QueryCache) Put(key string, results []types.RankedDocument, ttl time.Duration) {
	if ttl <= 0 {
		ttl = c.defaultTTL
	}

	c.mu.Lock()
	c.entries[key] = queryEntry{
		results:   copyResults(results),
		expiresAt: c.now().Add(ttl),
	}
	c.mu.Unlock()
}

// Len returns the number of resident entries, expired or not.
func (c *QueryCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

// Purge removes all entries.
func (c *QueryCache) Purge() {
	c.mu.Lock()
	c.entries = make(map[string]queryEntry)
	c.mu.Unlock()
}

// Sweep removes expired entries and reports how many were dropped. Callers
// may run it periodically; the Get contract holds whether or not they do.
func (c *QueryCache) Sweep() int {
	now := c.now()

	c.mu.Lock()
	defer c.mu.Unlock()

	removed := 0
	for key, e := range c.entries {
		if now.After(e.expiresAt) {
			delete(c.entries, key)
			removed++
		}
	}
	return removed
}

// copyResults guards cached slices against caller mutation.
func copyResults(results []types.RankedDocument) []types.RankedDocument {
	if results == nil {
		return nil
	}
	out := make([]types.RankedDocument, len(results))
	copy(out, results)
	return out
}
