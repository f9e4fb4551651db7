package rate

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestProfileCache_PutGet(t *testing.T) {
	cache := NewProfileCache(4)

	_, ok := cache.Get("gold")
	assert.False(t, ok)

	cache.Put("gold", "50M/50M")
	v, ok := cache.Get("gold")
	assert.True(t, ok)
	assert.Equal(t, "50M/50M", v)
}

func TestProfileCache_EvictsLeastRecentlyUsed(t *testing.T) {
	cache := NewProfileCache(3)
	cache.Put("a", "1M/1M")
	cache.Put("b", "2M/2M")
	cache.Put("c", "3M/3M")

	// Touch "a" so "b" becomes the eviction candidate.
	_, ok := cache.Get("a")
	assert.True(t, ok)

	cache.Put("d", "4M/4M")

	_, ok = cache.Get("b")
	assert.False(t, ok)
	_, ok = cache.Get("a")
	assert.True(t, ok)
	assert.Equal(t, 3, cache.Len())
}

func TestProfileCache_BoundedUnderChurn(t *testing.T) {
	cache := NewProfileCache(8)
	for i := 0; i < 100; i++ {
		cache.Put(fmt.Sprintf("profile-%d", i), "10M/10M")
	}
	assert.Equal(t, 8, cache.Len())
}

func TestProfileCache_Flush(t *testing.T) {
	cache := NewProfileCache(4)
	cache.Put("gold", "50M/50M")
	cache.Flush()

	assert.Equal(t, 0, cache.Len())
	_, ok := cache.Get("gold")
	assert.False(t, ok)
}
