package dto

import "time"

type RouteResponse struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Points    int       `json:"points"`
	CreatedAt time.Time `json:"created_at"`
}

type ListRoutesResponse struct {
	Routes []RouteResponse `json:"routes"`
}
