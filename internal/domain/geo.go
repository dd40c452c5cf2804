package domain

import (
	"math"
	"time"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geo"
)

// Immutable geographic point in WGS84 degrees (no datum conversion is performed).
type GeoPoint struct {
	Lat float64
	Lon float64
}

// Return the point as an orb.Point ([lon, lat]) for geometry helpers.
func (p GeoPoint) OrbPoint() orb.Point { return orb.Point{p.Lon, p.Lat} }

// Distance returns the great-circle distance between a and b in meters,
// using the haversine formula on a spherical earth.
func Distance(a, b GeoPoint) float64 {
	return geo.DistanceHaversine(a.OrbPoint(), b.OrbPoint())
}

// Position is a single sample from the device location source.
// Speed (m/s) and Heading (degrees, 0-360) are nil when the platform
// does not report them; nil means unknown, not zero.
type Position struct {
	GeoPoint
	Accuracy  float64
	Speed     *float64
	Heading   *float64
	Timestamp time.Time
}

func (p Position) validate() error {
	switch {
	case !finite(p.Lat) || p.Lat < -90 || p.Lat > 90:
		return &InvalidPositionError{Field: "latitude", Value: p.Lat}
	case !finite(p.Lon) || p.Lon < -180 || p.Lon > 180:
		return &InvalidPositionError{Field: "longitude", Value: p.Lon}
	case !finite(p.Accuracy) || p.Accuracy < 0:
		return &InvalidPositionError{Field: "accuracy", Value: p.Accuracy}
	}

	if p.Speed != nil && (!finite(*p.Speed) || *p.Speed < 0) {
		return &InvalidPositionError{Field: "speed", Value: *p.Speed}
	}
	if p.Heading != nil && (!finite(*p.Heading) || *p.Heading < 0 || *p.Heading > 360) {
		return &InvalidPositionError{Field: "heading", Value: *p.Heading}
	}

	return nil
}

// Samples closer than this are treated as stationary for heading derivation.
const minHeadingMovementMeters = 1.0

// DeriveHeading returns the direction of travel for cur.
// The platform heading wins when present; otherwise the initial bearing
// from prev to cur is used, normalized to [0, 360).
// It reports false when prev and cur are too close to give a direction.
func DeriveHeading(prev, cur Position) (float64, bool) {
	if cur.Heading != nil {
		return *cur.Heading, true
	}

	if Distance(prev.GeoPoint, cur.GeoPoint) < minHeadingMovementMeters {
		return 0, false
	}

	b := geo.Bearing(prev.OrbPoint(), cur.OrbPoint())
	return math.Mod(b+360, 360), true
}

func finite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}
