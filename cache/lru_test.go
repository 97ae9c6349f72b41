package cache

import (
	"fmt"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetSet(t *testing.T) {
	c := NewLRU[string, int](4)

	_, ok := c.Get("a")
	assert.False(t, ok)

	c.Set("a", 1)
	v, ok := c.Get("a")
	require.True(t, ok)
	assert.Equal(t, 1, v)

	c.Set("a", 2)
	v, ok = c.Get("a")
	require.True(t, ok)
	assert.Equal(t, 2, v)
	assert.Equal(t, 1, c.Len())
}

func TestEviction(t *testing.T) {
	c := NewLRU[string, int](2)

	c.Set("a", 1)
	c.Set("b", 2)

	// Touch "a" so "b" becomes the eviction candidate.
	_, ok := c.Get("a")
	require.True(t, ok)

	c.Set("c", 3)
	assert.Equal(t, 2, c.Len())

	_, ok = c.Get("b")
	assert.False(t, ok)
	_, ok = c.Get("a")
	assert.True(t, ok)
	_, ok = c.Get("c")
	assert.True(t, ok)
}

func TestCapacityClamp(t *testing.T) {
	c := NewLRU[string, int](0)
	c.Set("a", 1)
	c.Set("b", 2)
	assert.Equal(t, 1, c.Len())
}

func TestRemove(t *testing.T) {
	c := NewLRU[string, int](4)
	c.Set("a", 1)

	assert.True(t, c.Remove("a"))
	assert.False(t, c.Remove("a"))
	assert.Equal(t, 0, c.Len())
}

func TestInvalidate(t *testing.T) {
	c := NewLRU[string, int](8)
	c.Set("user:1", 1)
	c.Set("user:2", 2)
	c.Set("order:1", 3)

	c.Invalidate(func(key string) bool {
		return strings.HasPrefix(key, "user:")
	})

	assert.Equal(t, 1, c.Len())
	_, ok := c.Get("order:1")
	assert.True(t, ok)
}

func TestPurge(t *testing.T) {
	c := NewLRU[string, int](8)
	for i := 0; i < 5; i++ {
		c.Set(fmt.Sprintf("k%d", i), i)
	}

	c.Purge()
	assert.Equal(t, 0, c.Len())

	// Usable after purge.
	c.Set("a", 1)
	_, ok := c.Get("a")
	assert.True(t, ok)
}

func TestStats(t *testing.T) {
	c := NewLRU[string, int](4)
	c.Set("a", 1)

	c.Get("a")
	c.Get("a")
	c.Get("missing")

	hits, misses := c.Stats()
	assert.Equal(t, int64(2), hits)
	assert.Equal(t, int64(1), misses)
}

func TestConcurrentAccess(t *testing.T) {
	c := NewLRU[int, int](64)

	var wg sync.WaitGroup
	for g := 0; g < 8; g++ {
		wg.Add(1)
		go func(g int) {
			defer wg.Done()
			for i := 0; i < 200; i++ {
				c.Set(i%32, g*1000+i)
				c.Get(i % 32)
			}
		}(g)
	}
	wg.Wait()

	assert.LessOrEqual(t, c.Len(), 32)
}
