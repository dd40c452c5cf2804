package ports

import (
	"context"
	"gpx-navigation-service/internal/domain"
)

// Port: storage for the route catalog (seeded GPX files and user uploads).
type RouteRepository interface {
	// Return summaries of all stored routes ordered by name.
	ListRoutes(ctx context.Context) ([]domain.RouteSummary, error)
	// Return a stored route by id. Implementations return ErrRouteNotFound when absent.
	GetRoute(ctx context.Context, id string) (*domain.StoredRoute, error)
	// Insert or replace a route.
	SaveRoute(ctx context.Context, route *domain.StoredRoute) error
	// Remove a route. Implementations return ErrRouteNotFound when absent.
	DeleteRoute(ctx context.Context, id string) error
}
