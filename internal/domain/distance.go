package domain

import (
	"math"

	"github.com/golang/geo/s2"
)

// earthRadiusMiles is the mean Earth radius used for great-circle distances.
const earthRadiusMiles = 3958.8

// Distance returns the great-circle distance between two coordinates in
// miles, rounded to one decimal place. Equivalent to the haversine formula
// with Earth radius 3958.8 mi. Out-of-range or NaN input is a programmer
// error; no validation is performed here.
func Distance(a, b Coordinate) float64 {
	p := s2.LatLngFromDegrees(a.Lat, a.Lng)
	q := s2.LatLngFromDegrees(b.Lat, b.Lng)
	miles := p.Distance(q).Radians() * earthRadiusMiles
	return math.Round(miles*10) / 10
}
