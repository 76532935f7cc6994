package geocode

import (
	"strings"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"

	"github.com/caretrials/trial-search-service/internal/domain"
)

// Cache is a bounded in-memory store of geocode results keyed by normalized
// address. The LRU bound replaces the unbounded process-lifetime map this
// service grew out of; a zero TTL keeps entries until evicted by size.
type Cache struct {
	lru *expirable.LRU[string, domain.GeocodeResult]
}

// NewCache creates a cache holding at most size entries. ttl of zero
// disables time-based expiry.
func NewCache(size int, ttl time.Duration) *Cache {
	return &Cache{
		lru: expirable.NewLRU[string, domain.GeocodeResult](size, nil, ttl),
	}
}

// NormalizeAddress produces the cache key for an address: trimmed and
// case-folded, so "Boston, MA" and " boston, ma " share an entry.
func NormalizeAddress(address string) string {
	return strings.ToLower(strings.TrimSpace(address))
}

// Get returns the cached result for a normalized address key.
func (c *Cache) Get(key string) (domain.GeocodeResult, bool) {
	return c.lru.Get(key)
}

// Put stores a result under a normalized address key.
func (c *Cache) Put(key string, result domain.GeocodeResult) {
	c.lru.Add(key, result)
}

// Len reports the number of live entries.
func (c *Cache) Len() int {
	return c.lru.Len()
}
