package cache

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestStoreGetSet(t *testing.T) {
	store := NewStore("test", time.Minute, 10)

	_, found := store.Get("missing")
	assert.False(t, found)

	store.Set("key", "value")
	value, found := store.Get("key")
	assert.True(t, found)
	assert.Equal(t, "value", value)
}

func TestStoreStats(t *testing.T) {
	store := NewStore("test", time.Minute, 10)

	store.Set("key", 1)
	store.Get("key")
	store.Get("nope")

	hits, misses, ratio := store.Stats()
	assert.Equal(t, uint64(1), hits)
	assert.Equal(t, uint64(1), misses)
	assert.Equal(t, 0.5, ratio)
}

func TestStoreFlush(t *testing.T) {
	store := NewStore("test", time.Minute, 10)

	store.Set("key", 1)
	store.Flush()

	_, found := store.Get("key")
	assert.False(t, found)
	assert.Equal(t, 0, store.ItemCount())
}

func TestStoreCapacityPrunesExpired(t *testing.T) {
	store := NewStore("test", 10*time.Millisecond, 2)

	store.Set("a", 1)
	store.Set("b", 2)
	time.Sleep(20 * time.Millisecond)

	// At capacity; expired entries are dropped before inserting
	store.Set("c", 3)
	_, found := store.Get("c")
	assert.True(t, found)
}

func TestStoreCapacityBoundedWithFreshEntries(t *testing.T) {
	store := NewStore("test", time.Minute, 4)

	// A flood of distinct fresh keys must not grow the store past its
	// capacity
	for _, key := range []string{"a", "b", "c", "d", "e", "f", "g", "h", "i", "j"} {
		store.Set(key, 1)
	}

	assert.LessOrEqual(t, store.ItemCount(), 4)

	// The newest entry always survives the eviction pass
	store.Set("latest", 2)
	_, found := store.Get("latest")
	assert.True(t, found)
}
