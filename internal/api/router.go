package api

import (
	"net/http"

	"gpx-navigation-service/internal/adapters/tiles"
	"gpx-navigation-service/internal/api/handlers"
	"gpx-navigation-service/internal/services"
)

type Deps struct {
	Loader   *services.RouteLoader
	Sessions *services.SessionManager
	Tiles    *tiles.Proxy
	Health   *handlers.HealthHandler
}

// NewRouter wires HTTP handlers with their dependencies and returns an http.Handler.
// Handlers stay unaware of concrete adapters.
func NewRouter(d Deps) http.Handler {
	mux := http.NewServeMux()

	health := d.Health
	if health == nil {
		health = &handlers.HealthHandler{}
	}
	routes := &handlers.RouteHandler{Loader: d.Loader}
	sessions := &handlers.SessionHandler{Sessions: d.Sessions}

	mux.HandleFunc("/health", health.Health)

	mux.HandleFunc("GET /routes", routes.List)
	mux.HandleFunc("POST /routes", routes.Upload)
	mux.HandleFunc("GET /routes/{id}/geojson", routes.GeoJSON)
	mux.HandleFunc("DELETE /routes/{id}", routes.Delete)

	mux.HandleFunc("GET /sessions", sessions.List)
	mux.HandleFunc("POST /sessions", sessions.Create)
	mux.HandleFunc("GET /sessions/{id}", sessions.Get)
	mux.HandleFunc("DELETE /sessions/{id}", sessions.Delete)
	mux.HandleFunc("POST /sessions/{id}/start", sessions.Start)
	mux.HandleFunc("POST /sessions/{id}/positions", sessions.Positions)
	mux.HandleFunc("PUT /sessions/{id}/mute", sessions.Mute)
	mux.HandleFunc("POST /sessions/{id}/stop", sessions.Stop)
	mux.HandleFunc("GET /sessions/{id}/stream", sessions.Stream)

	if d.Tiles != nil {
		t := &handlers.TileHandler{Proxy: d.Tiles}
		mux.HandleFunc("GET /tiles/{z}/{x}/{file}", t.Tile)
	}

	return requestIDMiddleware(loggingMiddleware(mux))
}
