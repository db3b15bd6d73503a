package cache

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResponseCacheRejectsNonPositiveCapacity(t *testing.T) {
	_, err := NewResponseCache(0)
	assert.Error(t, err)

	_, err = NewResponseCache(-5)
	assert.Error(t, err)
}

func TestResponseCacheHitAndMiss(t *testing.T) {
	c, err := NewResponseCache(10)
	require.NoError(t, err)

	c.Put("how do i apply", "You apply through the national portal.")

	got, ok := c.Get("how do i apply")
	require.True(t, ok)
	assert.Equal(t, "You apply through the national portal.", got)

	_, ok = c.Get("unknown question")
	assert.False(t, ok)
}

// TestResponseCacheLRUEviction pins the eviction order: with capacity 2,
// inserting A, B, reading A, then inserting C must evict B.
func TestResponseCacheLRUEviction(t *testing.T) {
	c, err := NewResponseCache(2)
	require.NoError(t, err)

	c.Put("A", "answer-a")
	c.Put("B", "answer-b")

	_, ok := c.Get("A") // A becomes most recently used
	require.True(t, ok)

	c.Put("C", "answer-c")

	_, ok = c.Get("B")
	assert.False(t, ok, "B was least recently accessed and should be evicted")

	_, ok = c.Get("A")
	assert.True(t, ok)
	_, ok = c.Get("C")
	assert.True(t, ok)
}

func TestResponseCacheWriteCountsAsAccess(t *testing.T) {
	c, err := NewResponseCache(2)
	require.NoError(t, err)

	c.Put("A", "answer-a")
	c.Put("B", "answer-b")
	c.Put("A", "answer-a2") // Refresh A by writing, not reading
	c.Put("C", "answer-c")

	_, ok := c.Get("B")
	assert.False(t, ok)

	got, ok := c.Get("A")
	require.True(t, ok)
	assert.Equal(t, "answer-a2", got)
}

func TestResponseCacheCapacityBound(t *testing.T) {
	c, err := NewResponseCache(100)
	require.NoError(t, err)

	for i := 0; i < 500; i++ {
		c.Put(fmt.Sprintf("key-%d", i), "answer")
	}
	assert.Equal(t, 100, c.Len())
}
