package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"gpx-navigation-service/internal/domain"
	"gpx-navigation-service/internal/platform/obs"
	"gpx-navigation-service/internal/ports"
)

// SQLRouteRepository is the Postgres implementation of the RouteRepository port.
type SQLRouteRepository struct{ DB *sql.DB }

func NewSQLRouteRepository(db *sql.DB) *SQLRouteRepository {
	return &SQLRouteRepository{DB: db}
}

func (r *SQLRouteRepository) ListRoutes(ctx context.Context) (_ []domain.RouteSummary, err error) {
	defer obs.Time(ctx, "routes.sql.ListRoutes")(&err)

	if r.DB == nil {
		return nil, errors.New("list routes: db is nil")
	}

	rows, err := r.DB.QueryContext(ctx, `
	SELECT route_id, name, point_count, created_at
	FROM routes
	ORDER BY name, route_id;
	`)
	if err != nil {
		return nil, fmt.Errorf("list routes: query routes table: %w", err)
	}
	defer rows.Close()

	out := []domain.RouteSummary{}
	for rows.Next() {
		var s domain.RouteSummary
		if err := rows.Scan(&s.ID, &s.Name, &s.PointCount, &s.CreatedAt); err != nil {
			return nil, fmt.Errorf("list routes: scan rows: %w", err)
		}
		out = append(out, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list routes: row iteration: %w", err)
	}

	return out, nil
}

func (r *SQLRouteRepository) GetRoute(ctx context.Context, id string) (_ *domain.StoredRoute, err error) {
	defer obs.Time(ctx, "routes.sql.GetRoute")(&err)

	if r.DB == nil {
		return nil, errors.New("get route: db is nil")
	}

	var route domain.StoredRoute
	err = r.DB.QueryRowContext(ctx, `
	SELECT route_id, name, gpx, point_count, created_at
	FROM routes
	WHERE route_id = $1;
	`, id).Scan(&route.ID, &route.Name, &route.GPX, &route.PointCount, &route.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("get route id=%q: %w", id, ports.ErrRouteNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get route id=%q: %w", id, err)
	}

	return &route, nil
}

func (r *SQLRouteRepository) SaveRoute(ctx context.Context, route *domain.StoredRoute) (err error) {
	defer obs.Time(ctx, "routes.sql.SaveRoute")(&err)

	if r.DB == nil {
		return errors.New("save route: db is nil")
	}
	if err := checkRoute(route); err != nil {
		return err
	}

	created := route.CreatedAt
	if created.IsZero() {
		created = time.Now()
	}

	_, err = r.DB.ExecContext(ctx, `
	INSERT INTO routes (route_id, name, gpx, point_count, created_at)
	VALUES ($1, $2, $3, $4, $5)
	ON CONFLICT (route_id) DO UPDATE
	SET name = EXCLUDED.name,
		gpx = EXCLUDED.gpx,
		point_count = EXCLUDED.point_count;
	`, route.ID, route.Name, route.GPX, route.PointCount, created)
	if err != nil {
		return fmt.Errorf("save route id=%q: %w", route.ID, err)
	}

	return nil
}

func (r *SQLRouteRepository) DeleteRoute(ctx context.Context, id string) (err error) {
	defer obs.Time(ctx, "routes.sql.DeleteRoute")(&err)

	if r.DB == nil {
		return errors.New("delete route: db is nil")
	}

	res, err := r.DB.ExecContext(ctx, `DELETE FROM routes WHERE route_id = $1;`, id)
	if err != nil {
		return fmt.Errorf("delete route id=%q: %w", id, err)
	}
	return checkAffected(res, id)
}
