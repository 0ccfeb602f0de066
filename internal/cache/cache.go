// Package cache provides fixed-capacity memoization stores for entity
// lookups and profiles. Stores are constructed once at process start and
// injected into the components that need them.
package cache

import (
	"sync"
	"time"

	cache "github.com/patrickmn/go-cache"

	"github.com/CanyenPalmer/Best-Bet-NFL/internal/metrics"
)

// Store is a fixed-capacity key/value memoization cache
type Store struct {
	name    string
	cache   *cache.Cache
	ttl     time.Duration
	maxSize int
	mu      sync.RWMutex
	hits    uint64
	misses  uint64
}

// NewStore creates a new named store with the given TTL and capacity
func NewStore(name string, ttl time.Duration, maxSize int) *Store {
	return &Store{
		name:    name,
		cache:   cache.New(ttl, ttl*2),
		ttl:     ttl,
		maxSize: maxSize,
	}
}

// Get retrieves a cached value
func (s *Store) Get(key string) (interface{}, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if value, found := s.cache.Get(key); found {
		s.hits++
		s.updateMetrics()
		return value, true
	}

	s.misses++
	s.updateMetrics()
	return nil, false
}

// Set stores a value, evicting entries when at capacity. Expired
// entries go first; if every entry is still fresh, arbitrary entries
// are dropped so the store never grows past its size bound.
func (s *Store) Set(key string, value interface{}) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.cache.ItemCount() >= s.maxSize {
		s.cache.DeleteExpired()
		for k := range s.cache.Items() {
			if s.cache.ItemCount() < s.maxSize {
				break
			}
			s.cache.Delete(k)
		}
	}

	s.cache.Set(key, value, s.ttl)
}

// Flush removes every entry and resets the hit/miss counters
func (s *Store) Flush() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.cache.Flush()
	s.hits = 0
	s.misses = 0
	s.updateMetrics()
}

// ItemCount returns the number of cached entries
func (s *Store) ItemCount() int {
	return s.cache.ItemCount()
}

// Name returns the store's name
func (s *Store) Name() string {
	return s.name
}

// Stats returns hit/miss counts and the hit ratio
func (s *Store) Stats() (hits, misses uint64, ratio float64) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	hits = s.hits
	misses = s.misses
	total := hits + misses
	if total > 0 {
		ratio = float64(hits) / float64(total)
	}
	return
}

// updateMetrics pushes cache gauges to Prometheus; callers must hold the lock
func (s *Store) updateMetrics() {
	total := s.hits + s.misses
	ratio := 0.0
	if total > 0 {
		ratio = float64(s.hits) / float64(total)
	}
	metrics.UpdateCacheStats(s.name, s.cache.ItemCount(), ratio)
}
