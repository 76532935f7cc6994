package search

import (
	"sync"
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/caretrials/trial-search-service/internal/domain"
)

// Cache maps a query fingerprint to a previously computed result set.
// Entries are valid for ttl from insertion and expire lazily on read; a
// size-triggered sweep keeps the map bounded instead of growing for the
// process lifetime.
type Cache struct {
	mu         sync.Mutex
	ttl        time.Duration
	maxEntries int
	clock      clockwork.Clock
	entries    map[string]cacheEntry
}

type cacheEntry struct {
	results   []domain.Trial
	createdAt time.Time
}

// NewCache creates a result cache. A nil clock selects the real clock.
func NewCache(maxEntries int, ttl time.Duration, clk clockwork.Clock) *Cache {
	if clk == nil {
		clk = clockwork.NewRealClock()
	}
	return &Cache{
		ttl:        ttl,
		maxEntries: maxEntries,
		clock:      clk,
		entries:    make(map[string]cacheEntry),
	}
}

// Get returns the cached results for a fingerprint. Expired entries are
// deleted and reported as absent.
func (c *Cache) Get(key string) ([]domain.Trial, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.entries[key]
	if !ok {
		return nil, false
	}
	if c.clock.Since(e.createdAt) >= c.ttl {
		delete(c.entries, key)
		return nil, false
	}
	return e.results, true
}

// Put stores results under a fingerprint. When the cache is at capacity it
// first sweeps expired entries, then evicts the oldest live entry if still
// full.
func (c *Cache) Put(key string, results []domain.Trial) {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.clock.Now()

	if _, exists := c.entries[key]; !exists && len(c.entries) >= c.maxEntries {
		c.sweepLocked(now)
		if len(c.entries) >= c.maxEntries {
			c.evictOldestLocked()
		}
	}

	c.entries[key] = cacheEntry{results: results, createdAt: now}
}

// Len reports the number of entries, expired ones included until swept.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

func (c *Cache) sweepLocked(now time.Time) {
	for k, e := range c.entries {
		if now.Sub(e.createdAt) >= c.ttl {
			delete(c.entries, k)
		}
	}
}

func (c *Cache) evictOldestLocked() {
	var oldestKey string
	var oldest time.Time
	for k, e := range c.entries {
		if oldestKey == "" || e.createdAt.Before(oldest) {
			oldestKey = k
			oldest = e.createdAt
		}
	}
	if oldestKey != "" {
		delete(c.entries, oldestKey)
	}
}
