package geocode

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/caretrials/trial-search-service/internal/domain"
)

func TestOfflineResolve_KnownCities(t *testing.T) {
	tests := []struct {
		address string
		want    domain.Coordinate
	}{
		{"Boston, MA, United States", domain.Coordinate{Lat: 42.3601, Lng: -71.0589}},
		{"BOSTON", domain.Coordinate{Lat: 42.3601, Lng: -71.0589}},
		{"123 Main St, San Francisco, CA", domain.Coordinate{Lat: 37.7749, Lng: -122.4194}},
		{"new york, ny", domain.Coordinate{Lat: 40.7128, Lng: -74.0060}},
		{"Seattle", domain.Coordinate{Lat: 47.6062, Lng: -122.3321}},
		{"Houston, TX", domain.Coordinate{Lat: 29.7604, Lng: -95.3698}},
		{"San Diego, CA, United States", domain.Coordinate{Lat: 32.7157, Lng: -117.1611}},
	}
	for _, tt := range tests {
		got := OfflineResolve(tt.address)
		assert.Equal(t, tt.want, got.Coordinate, "address %q", tt.address)
		assert.Equal(t, tt.address, got.FormattedAddress)
	}
}

func TestOfflineResolve_UnknownAddressDeterministic(t *testing.T) {
	first := OfflineResolve("Chappel, TX")
	second := OfflineResolve("Chappel, TX")
	assert.Equal(t, first, second)

	// Case variations hash identically.
	assert.Equal(t, first.Coordinate, OfflineResolve("chappel, tx").Coordinate)
}

func TestOfflineResolve_UnknownAddressBounds(t *testing.T) {
	for i := 0; i < 100; i++ {
		got := OfflineResolve(fmt.Sprintf("Nowhere %d, ZZ", i))
		assert.GreaterOrEqual(t, got.Coordinate.Lat, 25.0)
		assert.Less(t, got.Coordinate.Lat, 49.0)
		assert.GreaterOrEqual(t, got.Coordinate.Lng, -125.0)
		assert.Less(t, got.Coordinate.Lng, -65.0)
	}
}

func TestOfflineResolve_TableOrderWins(t *testing.T) {
	// An address matching two table entries resolves to the earlier one.
	got := OfflineResolve("Boston Street, Chicago, IL")
	assert.Equal(t, domain.Coordinate{Lat: 41.8781, Lng: -87.6298}, got.Coordinate,
		"chicago precedes boston in table order")
}
