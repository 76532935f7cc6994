package geocode

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/caretrials/trial-search-service/internal/domain"
)

func TestNormalizeAddress(t *testing.T) {
	assert.Equal(t, "boston, ma", NormalizeAddress("  Boston, MA "))
	assert.Equal(t, "boston, ma", NormalizeAddress("BOSTON, MA"))
}

func TestCache_GetPut(t *testing.T) {
	c := NewCache(10, 0)

	c.Put("boston, ma", domain.GeocodeResult{FormattedAddress: "Boston, MA"})

	got, ok := c.Get("boston, ma")
	assert.True(t, ok)
	assert.Equal(t, "Boston, MA", got.FormattedAddress)

	_, ok = c.Get("missing")
	assert.False(t, ok)
}

func TestCache_BoundedEviction(t *testing.T) {
	c := NewCache(2, 0)

	c.Put("a", domain.GeocodeResult{FormattedAddress: "A"})
	c.Put("b", domain.GeocodeResult{FormattedAddress: "B"})
	c.Put("c", domain.GeocodeResult{FormattedAddress: "C"})

	assert.Equal(t, 2, c.Len(), "cache must not grow past its bound")
	_, ok := c.Get("a")
	assert.False(t, ok, "oldest entry should have been evicted")
}

func TestCache_TTLExpiry(t *testing.T) {
	c := NewCache(10, 30*time.Millisecond)

	c.Put("a", domain.GeocodeResult{FormattedAddress: "A"})
	_, ok := c.Get("a")
	assert.True(t, ok)

	time.Sleep(60 * time.Millisecond)
	_, ok = c.Get("a")
	assert.False(t, ok, "entry should expire after the TTL")
}
