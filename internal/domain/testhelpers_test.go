package domain

import (
	"math"
	"testing"

	"github.com/paulmach/orb"
)

var metersPerDegreeLat = orb.EarthRadius * math.Pi / 180

var origin = GeoPoint{Lat: -22.2171, Lon: -48.7173}

// north returns p moved the given number of meters along its meridian.
func north(p GeoPoint, meters float64) GeoPoint {
	return GeoPoint{Lat: p.Lat + meters/metersPerDegreeLat, Lon: p.Lon}
}

func at(p GeoPoint) Position {
	return Position{GeoPoint: p, Accuracy: 5}
}

// lineRoute builds a route running north from origin with the given spacing.
func lineRoute(t testing.TB, n int, spacing float64) *RouteModel {
	t.Helper()
	pts := make([]GeoPoint, n)
	for i := range pts {
		pts[i] = north(origin, float64(i)*spacing)
	}
	m, err := NewRouteModel(pts)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	return m
}

func ptr(f float64) *float64 { return &f }
