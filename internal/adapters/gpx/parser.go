// Package gpx is the route loader boundary: it turns GPX documents into the
// ordered geometry the navigation core works with.
package gpx

import (
	"errors"
	"fmt"
	"math"
	"strings"

	"gpx-navigation-service/internal/domain"

	gpxgo "github.com/tkrajina/gpxgo/gpx"
)

var (
	ErrInvalidGPX = errors.New("invalid GPX document")
	ErrNoTracks   = errors.New("no tracks found in GPX document")
)

const defaultWaypointName = "Waypoint"

// Parse extracts track segments and named waypoints from a GPX document.
// Points with non-numeric coordinates are skipped and empty segments dropped.
// A document without any usable track point yields ErrNoTracks.
func Parse(data []byte) (*domain.ParsedRoute, error) {
	if len(strings.TrimSpace(string(data))) == 0 {
		return nil, fmt.Errorf("parse gpx: %w: empty document", ErrInvalidGPX)
	}

	doc, err := gpxgo.ParseBytes(data)
	if err != nil {
		return nil, fmt.Errorf("parse gpx: %w: %v", ErrInvalidGPX, err)
	}

	out := &domain.ParsedRoute{}
	for _, trk := range doc.Tracks {
		for _, seg := range trk.Segments {
			pts := make([]domain.GeoPoint, 0, len(seg.Points))
			for _, p := range seg.Points {
				if !validCoord(p.Latitude, p.Longitude) {
					continue
				}
				pts = append(pts, domain.GeoPoint{Lat: p.Latitude, Lon: p.Longitude})
			}
			if len(pts) > 0 {
				out.Tracks = append(out.Tracks, pts)
			}
		}
	}

	for _, w := range doc.Waypoints {
		if !validCoord(w.Latitude, w.Longitude) {
			continue
		}
		name := strings.TrimSpace(w.Name)
		if name == "" {
			name = defaultWaypointName
		}
		out.Waypoints = append(out.Waypoints, domain.NamedPoint{
			GeoPoint: domain.GeoPoint{Lat: w.Latitude, Lon: w.Longitude},
			Name:     name,
		})
	}

	if len(out.Tracks) == 0 {
		return nil, fmt.Errorf("parse gpx: %w", ErrNoTracks)
	}

	return out, nil
}

func validCoord(lat, lon float64) bool {
	if math.IsNaN(lat) || math.IsNaN(lon) || math.IsInf(lat, 0) || math.IsInf(lon, 0) {
		return false
	}
	return lat >= -90 && lat <= 90 && lon >= -180 && lon <= 180
}
