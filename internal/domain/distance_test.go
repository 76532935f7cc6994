package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

var (
	sanFrancisco = Coordinate{Lat: 37.7749, Lng: -122.4194}
	losAngeles   = Coordinate{Lat: 34.0522, Lng: -118.2437}
	boston       = Coordinate{Lat: 42.3601, Lng: -71.0589}
	newYork      = Coordinate{Lat: 40.7128, Lng: -74.0060}
	chicago      = Coordinate{Lat: 41.8781, Lng: -87.6298}
)

func TestDistance_SamePointIsZero(t *testing.T) {
	assert.Equal(t, 0.0, Distance(boston, boston))
	assert.Equal(t, 0.0, Distance(Coordinate{}, Coordinate{}))
}

func TestDistance_KnownPairs(t *testing.T) {
	assert.InDelta(t, 347.4, Distance(sanFrancisco, losAngeles), 0.5)
	assert.InDelta(t, 190.2, Distance(boston, newYork), 0.5)
	assert.InDelta(t, 848.6, Distance(chicago, boston), 0.5)
}

func TestDistance_Symmetry(t *testing.T) {
	pairs := [][2]Coordinate{
		{sanFrancisco, losAngeles},
		{boston, newYork},
		{chicago, losAngeles},
		{{Lat: -33.8688, Lng: 151.2093}, {Lat: 51.5074, Lng: -0.1278}},
	}
	for _, p := range pairs {
		assert.Equal(t, Distance(p[0], p[1]), Distance(p[1], p[0]))
	}
}

func TestDistance_RoundedToOneDecimal(t *testing.T) {
	d := Distance(sanFrancisco, losAngeles)
	assert.Equal(t, d, float64(int(d*10))/10)
}
