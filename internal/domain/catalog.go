package domain

import "time"

// A named point of interest from a GPX file, shown on the map but not navigated.
type NamedPoint struct {
	GeoPoint
	Name string
}

// ParsedRoute is the geometry extracted from a GPX document.
// Tracks holds one polyline per non-empty track segment, in document order.
type ParsedRoute struct {
	Tracks    [][]GeoPoint
	Waypoints []NamedPoint
}

// RoutePoints flattens all tracks, in document order, into the
// sequence the tracker navigates.
func (r *ParsedRoute) RoutePoints() []GeoPoint {
	n := 0
	for _, t := range r.Tracks {
		n += len(t)
	}

	out := make([]GeoPoint, 0, n)
	for _, t := range r.Tracks {
		out = append(out, t...)
	}
	return out
}

// StoredRoute is a GPX route kept in the route catalog.
type StoredRoute struct {
	ID         string
	Name       string
	GPX        []byte
	PointCount int
	CreatedAt  time.Time
}

// RouteSummary is the catalog listing entry for a stored route.
type RouteSummary struct {
	ID         string
	Name       string
	PointCount int
	CreatedAt  time.Time
}
