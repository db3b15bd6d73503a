package cache

import (
	"fmt"

	lru "github.com/hashicorp/golang-lru/v2"
)

// ResponseCache is a capacity-bounded cache of fully synthesized answers
// keyed by normalized message text. It has no expiry: entries live until
// evicted by capacity pressure or process restart. Freshness is traded for
// maximal reuse because answer generation is the most expensive step in the
// pipeline.
type ResponseCache struct {
	lru *lru.Cache[string, string]
}

// NewResponseCache creates a response cache holding at most capacity entries.
// Insertion above capacity evicts the least-recently-accessed entry; both
// reads and writes count as access.
func NewResponseCache(capacity int) (*ResponseCache, error) {
	if capacity <= 0 {
		return nil, fmt.Errorf("response cache capacity must be positive, got %d", capacity)
	}
	inner, err := lru.New[string, string](capacity)
	if err != nil {
		return nil, fmt.Errorf("create response cache: %w", err)
	}
	return &ResponseCache{lru: inner}, nil
}

// Get returns the cached answer for key and marks the entry as recently used.
func (c *ResponseCache) Get(key string) (string, bool) {
	return c.lru.Get(key)
}

// Put stores an answer under key, evicting the least-recently-accessed entry
// if the cache is full.
func (c *ResponseCache) Put(key, answer string) {
	c.lru.Add(key, answer)
}

// Len returns the number of resident entries.
func (c *ResponseCache) Len() int {
	return c.lru.Len()
}

// Purge removes all entries.
func (c *ResponseCache) Purge() {
	c.lru.Purge()
}
