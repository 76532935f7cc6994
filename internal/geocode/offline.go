package geocode

import (
	"hash/fnv"
	"strings"

	"github.com/caretrials/trial-search-service/internal/domain"
)

// offlineCities maps known city-name substrings to coordinates. Matching is
// case-insensitive, first match wins, so iteration order must stay fixed —
// a slice, not a map.
var offlineCities = []struct {
	name  string
	coord domain.Coordinate
}{
	{"san francisco", domain.Coordinate{Lat: 37.7749, Lng: -122.4194}},
	{"new york", domain.Coordinate{Lat: 40.7128, Lng: -74.0060}},
	{"chicago", domain.Coordinate{Lat: 41.8781, Lng: -87.6298}},
	{"boston", domain.Coordinate{Lat: 42.3601, Lng: -71.0589}},
	{"san ramon", domain.Coordinate{Lat: 37.7799, Lng: -121.9780}},
	{"los angeles", domain.Coordinate{Lat: 34.0522, Lng: -118.2437}},
	{"seattle", domain.Coordinate{Lat: 47.6062, Lng: -122.3321}},
	{"houston", domain.Coordinate{Lat: 29.7604, Lng: -95.3698}},
	{"phoenix", domain.Coordinate{Lat: 33.4484, Lng: -112.0740}},
	{"philadelphia", domain.Coordinate{Lat: 39.9526, Lng: -75.1652}},
	{"san diego", domain.Coordinate{Lat: 32.7157, Lng: -117.1611}},
	{"dallas", domain.Coordinate{Lat: 32.7767, Lng: -96.7970}},
	{"austin", domain.Coordinate{Lat: 30.2672, Lng: -97.7431}},
	{"denver", domain.Coordinate{Lat: 39.7392, Lng: -104.9903}},
	{"miami", domain.Coordinate{Lat: 25.7617, Lng: -80.1918}},
}

// OfflineResolve maps an address to deterministic coordinates without any
// network call. Known city substrings resolve to their real coordinates;
// anything else gets a stable pseudo-coordinate inside the continental US,
// derived from a hash of the lowercased address. The same address always
// yields the same result, which the caches and tests rely on.
func OfflineResolve(address string) domain.GeocodeResult {
	lower := strings.ToLower(address)

	for _, city := range offlineCities {
		if strings.Contains(lower, city.name) {
			return domain.GeocodeResult{
				Coordinate:       city.coord,
				FormattedAddress: address,
			}
		}
	}

	h := fnv.New32a()
	h.Write([]byte(lower))
	sum := h.Sum32()

	return domain.GeocodeResult{
		Coordinate: domain.Coordinate{
			Lat: 25 + float64(sum%1000)/1000*24,     // [25, 49)
			Lng: -125 + float64(sum%10000)/10000*60, // [-125, -65)
		},
		FormattedAddress: address,
	}
}
