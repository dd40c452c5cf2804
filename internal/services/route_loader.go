package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"gpx-navigation-service/internal/adapters/gpx"
	"gpx-navigation-service/internal/domain"
	"gpx-navigation-service/internal/platform/obs"
	"gpx-navigation-service/internal/ports"

	"github.com/google/uuid"
)

// RouteLoader turns catalog entries into navigable route models.
type RouteLoader struct {
	repo ports.RouteRepository
}

func NewRouteLoader(repo ports.RouteRepository) *RouteLoader {
	return &RouteLoader{repo: repo}
}

func (l *RouteLoader) Repository() ports.RouteRepository { return l.repo }

// ParsedRoute fetches a stored route and parses its GPX.
func (l *RouteLoader) ParsedRoute(ctx context.Context, id string) (*domain.ParsedRoute, *domain.StoredRoute, error) {
	stored, err := l.repo.GetRoute(ctx, id)
	if err != nil {
		return nil, nil, fmt.Errorf("load route: %w", err)
	}

	parsed, err := gpx.Parse(stored.GPX)
	if err != nil {
		return nil, nil, fmt.Errorf("load route id=%q: %w", id, err)
	}
	return parsed, stored, nil
}

// LoadRoute builds a RouteModel from every track point of the stored route,
// track by track and segment by segment.
func (l *RouteLoader) LoadRoute(ctx context.Context, id string) (_ *domain.RouteModel, _ *domain.StoredRoute, err error) {
	defer obs.Time(ctx, "routes.LoadRoute")(&err)

	parsed, stored, err := l.ParsedRoute(ctx, id)
	if err != nil {
		return nil, nil, err
	}

	model, err := domain.NewRouteModel(parsed.RoutePoints())
	if err != nil {
		return nil, nil, fmt.Errorf("load route id=%q: %w", id, err)
	}
	return model, stored, nil
}

// ImportRoute validates an uploaded GPX document and stores it under a new id.
// Documents that do not parse are never stored.
func (l *RouteLoader) ImportRoute(ctx context.Context, name string, data []byte) (_ *domain.StoredRoute, err error) {
	defer obs.Time(ctx, "routes.ImportRoute")(&err)

	parsed, err := gpx.Parse(data)
	if err != nil {
		return nil, fmt.Errorf("import route: %w", err)
	}

	name = strings.TrimSpace(name)
	if name == "" {
		return nil, errors.New("import route: name must not be empty")
	}

	route := &domain.StoredRoute{
		ID:         uuid.NewString(),
		Name:       name,
		GPX:        data,
		PointCount: len(parsed.RoutePoints()),
		CreatedAt:  time.Now().UTC(),
	}
	if err := l.repo.SaveRoute(ctx, route); err != nil {
		return nil, fmt.Errorf("import route: %w", err)
	}
	return route, nil
}
