package dto

import (
	"time"

	"gpx-navigation-service/internal/domain"
	"gpx-navigation-service/internal/services"
)

type CreateSessionResponse struct {
	SessionID string `json:"session_id"`
}

type ListSessionsResponse struct {
	Sessions []string `json:"sessions"`
}

type StartRequest struct {
	RouteID string `json:"route_id" validate:"required"`
}

type MuteRequest struct {
	Muted *bool `json:"muted" validate:"required"`
}

// PositionRequest is one GPS sample as reported by the device.
type PositionRequest struct {
	Latitude  *float64   `json:"latitude" validate:"required,gte=-90,lte=90"`
	Longitude *float64   `json:"longitude" validate:"required,gte=-180,lte=180"`
	Accuracy  float64    `json:"accuracy" validate:"gte=0"`
	Speed     *float64   `json:"speed,omitempty" validate:"omitempty,gte=0"`
	Heading   *float64   `json:"heading,omitempty" validate:"omitempty,gte=0,lte=360"`
	Timestamp *time.Time `json:"timestamp,omitempty"`
}

func (p PositionRequest) ToPosition() domain.Position {
	pos := domain.Position{
		Accuracy: p.Accuracy,
		Speed:    p.Speed,
		Heading:  p.Heading,
	}
	if p.Latitude != nil {
		pos.Lat = *p.Latitude
	}
	if p.Longitude != nil {
		pos.Lon = *p.Longitude
	}
	if p.Timestamp != nil {
		pos.Timestamp = *p.Timestamp
	}
	return pos
}

type PositionResponse struct {
	Latitude  float64   `json:"latitude"`
	Longitude float64   `json:"longitude"`
	Accuracy  float64   `json:"accuracy"`
	Timestamp time.Time `json:"timestamp"`
}

type AlertResponse struct {
	Kind            string  `json:"kind"`
	WaypointIndex   *int    `json:"waypoint_index,omitempty"`
	ThresholdMeters float64 `json:"threshold_meters,omitempty"`
}

type ProgressResponse struct {
	RouteID          string            `json:"route_id,omitempty"`
	RouteName        string            `json:"route_name,omitempty"`
	ActiveIndex      int               `json:"active_index"`
	Total            int               `json:"total"`
	DistanceToActive *float64          `json:"distance_to_active_meters"`
	Heading          *float64          `json:"heading"`
	Speed            *float64          `json:"speed"`
	Muted            bool              `json:"muted"`
	Navigating       bool              `json:"navigating"`
	Complete         bool              `json:"complete"`
	LastPosition     *PositionResponse `json:"last_position"`
}

type UpdateResponse struct {
	Alerts        []AlertResponse  `json:"alerts"`
	Announcements []string         `json:"announcements"`
	Progress      ProgressResponse `json:"progress"`
}

func FromAlert(a domain.Alert) AlertResponse {
	res := AlertResponse{Kind: a.Kind.String(), ThresholdMeters: a.ThresholdMeters}
	if a.Kind != domain.AlertRouteCompleted {
		i := a.WaypointIndex
		res.WaypointIndex = &i
	}
	return res
}

func FromProgress(p services.Progress) ProgressResponse {
	res := ProgressResponse{
		RouteID:          p.RouteID,
		RouteName:        p.RouteName,
		ActiveIndex:      p.ActiveIndex,
		Total:            p.Total,
		DistanceToActive: p.DistanceToActive,
		Heading:          p.Heading,
		Speed:            p.Speed,
		Muted:            p.Muted,
		Navigating:       p.Navigating,
		Complete:         p.Complete,
	}
	if p.LastPosition != nil {
		res.LastPosition = &PositionResponse{
			Latitude:  p.LastPosition.Lat,
			Longitude: p.LastPosition.Lon,
			Accuracy:  p.LastPosition.Accuracy,
			Timestamp: p.LastPosition.Timestamp,
		}
	}
	return res
}

func FromUpdate(u services.Update) UpdateResponse {
	res := UpdateResponse{
		Alerts:        make([]AlertResponse, 0, len(u.Alerts)),
		Announcements: u.Announcements,
		Progress:      FromProgress(u.Progress),
	}
	if res.Announcements == nil {
		res.Announcements = []string{}
	}
	for _, a := range u.Alerts {
		res.Alerts = append(res.Alerts, FromAlert(a))
	}
	return res
}
