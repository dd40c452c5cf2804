package repositories

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"gpx-navigation-service/internal/domain"
	"gpx-navigation-service/internal/ports"
)

// In-memory RouteRepository for tests and the offline simulator.
type MemoryRouteRepository struct {
	mu     sync.RWMutex
	routes map[string]domain.StoredRoute
}

func NewMemoryRouteRepository() *MemoryRouteRepository {
	return &MemoryRouteRepository{routes: make(map[string]domain.StoredRoute)}
}

func (r *MemoryRouteRepository) ListRoutes(_ context.Context) ([]domain.RouteSummary, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]domain.RouteSummary, 0, len(r.routes))
	for _, route := range r.routes {
		out = append(out, domain.RouteSummary{
			ID:         route.ID,
			Name:       route.Name,
			PointCount: route.PointCount,
			CreatedAt:  route.CreatedAt,
		})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Name == out[j].Name {
			return out[i].ID < out[j].ID
		}
		return out[i].Name < out[j].Name
	})
	return out, nil
}

func (r *MemoryRouteRepository) GetRoute(_ context.Context, id string) (*domain.StoredRoute, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	route, ok := r.routes[id]
	if !ok {
		return nil, fmt.Errorf("get route id=%q: %w", id, ports.ErrRouteNotFound)
	}
	route.GPX = append([]byte(nil), route.GPX...)
	return &route, nil
}

func (r *MemoryRouteRepository) SaveRoute(_ context.Context, route *domain.StoredRoute) error {
	if err := checkRoute(route); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	stored := *route
	stored.GPX = append([]byte(nil), route.GPX...)
	r.routes[route.ID] = stored
	return nil
}

func (r *MemoryRouteRepository) DeleteRoute(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.routes[id]; !ok {
		return fmt.Errorf("delete route id=%q: %w", id, ports.ErrRouteNotFound)
	}
	delete(r.routes, id)
	return nil
}
