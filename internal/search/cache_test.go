package search

import (
	"fmt"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/caretrials/trial-search-service/internal/domain"
)

func TestCache_GetPut(t *testing.T) {
	c := NewCache(16, time.Hour, nil)

	c.Put("key", []domain.Trial{{ID: "NCT1"}})

	got, ok := c.Get("key")
	require.True(t, ok)
	require.Len(t, got, 1)
	assert.Equal(t, "NCT1", got[0].ID)

	_, ok = c.Get("missing")
	assert.False(t, ok)
}

func TestCache_EmptyResultsAreCached(t *testing.T) {
	c := NewCache(16, time.Hour, nil)

	c.Put("key", []domain.Trial{})

	got, ok := c.Get("key")
	require.True(t, ok)
	assert.Empty(t, got)
}

func TestCache_EntryExpiresAfterTTL(t *testing.T) {
	clk := clockwork.NewFakeClock()
	c := NewCache(16, time.Hour, clk)

	c.Put("key", []domain.Trial{{ID: "NCT1"}})

	clk.Advance(59 * time.Minute)
	_, ok := c.Get("key")
	assert.True(t, ok, "entry is valid just under the TTL")

	clk.Advance(2 * time.Minute)
	_, ok = c.Get("key")
	assert.False(t, ok, "entry must expire after the TTL")
	assert.Zero(t, c.Len(), "lazy expiry deletes the entry on read")
}

func TestCache_PutRefreshesCreation(t *testing.T) {
	clk := clockwork.NewFakeClock()
	c := NewCache(16, time.Hour, clk)

	c.Put("key", []domain.Trial{{ID: "old"}})
	clk.Advance(45 * time.Minute)
	c.Put("key", []domain.Trial{{ID: "new"}})
	clk.Advance(45 * time.Minute)

	got, ok := c.Get("key")
	require.True(t, ok, "rewrite restarts the TTL")
	assert.Equal(t, "new", got[0].ID)
}

func TestCache_CapacitySweepsExpiredFirst(t *testing.T) {
	clk := clockwork.NewFakeClock()
	c := NewCache(2, time.Hour, clk)

	c.Put("a", nil)
	c.Put("b", nil)
	clk.Advance(2 * time.Hour)

	c.Put("c", nil)
	assert.Equal(t, 1, c.Len(), "expired entries are swept before eviction")
	_, ok := c.Get("c")
	assert.True(t, ok)
}

func TestCache_CapacityEvictsOldest(t *testing.T) {
	clk := clockwork.NewFakeClock()
	c := NewCache(2, time.Hour, clk)

	c.Put("a", nil)
	clk.Advance(time.Minute)
	c.Put("b", nil)
	clk.Advance(time.Minute)
	c.Put("c", nil)

	assert.Equal(t, 2, c.Len())
	_, ok := c.Get("a")
	assert.False(t, ok, "oldest live entry is evicted at capacity")
}

func TestCache_BoundedUnderChurn(t *testing.T) {
	c := NewCache(8, time.Hour, nil)
	for i := 0; i < 100; i++ {
		c.Put(fmt.Sprintf("key-%d", i), nil)
	}
	assert.LessOrEqual(t, c.Len(), 8)
}
