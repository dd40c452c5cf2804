// Package geojson exports parsed routes for the map display client.
package geojson

import (
	"gpx-navigation-service/internal/domain"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
)

const (
	KindTrack    = "track"
	KindStart    = "start"
	KindEnd      = "end"
	KindWaypoint = "waypoint"
)

// RouteFeatures renders every track as a LineString with start and end
// markers, followed by the named waypoints.
func RouteFeatures(route *domain.ParsedRoute) *geojson.FeatureCollection {
	fc := geojson.NewFeatureCollection()
	if route == nil {
		return fc
	}

	for i, track := range route.Tracks {
		line := make(orb.LineString, 0, len(track))
		for _, p := range track {
			line = append(line, p.OrbPoint())
		}

		f := geojson.NewFeature(line)
		f.Properties["kind"] = KindTrack
		f.Properties["track"] = i
		fc.Append(f)

		if len(track) > 1 {
			fc.Append(marker(track[0], KindStart, i))
			fc.Append(marker(track[len(track)-1], KindEnd, i))
		}
	}

	for _, w := range route.Waypoints {
		f := geojson.NewFeature(w.OrbPoint())
		f.Properties["kind"] = KindWaypoint
		f.Properties["name"] = w.Name
		fc.Append(f)
	}

	return fc
}

func marker(p domain.GeoPoint, kind string, track int) *geojson.Feature {
	f := geojson.NewFeature(p.OrbPoint())
	f.Properties["kind"] = kind
	f.Properties["track"] = track
	return f
}
