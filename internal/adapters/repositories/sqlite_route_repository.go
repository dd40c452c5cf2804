package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"gpx-navigation-service/internal/domain"
	"gpx-navigation-service/internal/platform/obs"
	"gpx-navigation-service/internal/ports"
)

// SQLite-backed implementation of the RouteRepository port.
type SqliteRouteRepository struct{ DB *sql.DB }

func NewSqliteRouteRepository(db *sql.DB) *SqliteRouteRepository {
	return &SqliteRouteRepository{DB: db}
}

func (r *SqliteRouteRepository) ListRoutes(ctx context.Context) (_ []domain.RouteSummary, err error) {
	defer obs.Time(ctx, "routes.sqlite.ListRoutes")(&err)

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
		var created int64
		if err := rows.Scan(&s.ID, &s.Name, &s.PointCount, &created); err != nil {
			return nil, fmt.Errorf("list routes: scan rows: %w", err)
		}
		s.CreatedAt = time.Unix(created, 0).UTC()
		out = append(out, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list routes: row iteration: %w", err)
	}

	return out, nil
}

func (r *SqliteRouteRepository) GetRoute(ctx context.Context, id string) (_ *domain.StoredRoute, err error) {
	defer obs.Time(ctx, "routes.sqlite.GetRoute")(&err)

	if r.DB == nil {
		return nil, errors.New("get route: db is nil")
	}

	var route domain.StoredRoute
	var created int64
	err = r.DB.QueryRowContext(ctx, `
	SELECT route_id, name, gpx, point_count, created_at
	FROM routes
	WHERE route_id = ?;
	`, id).Scan(&route.ID, &route.Name, &route.GPX, &route.PointCount, &created)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("get route id=%q: %w", id, ports.ErrRouteNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get route id=%q: %w", id, err)
	}
	route.CreatedAt = time.Unix(created, 0).UTC()

	return &route, nil
}

func (r *SqliteRouteRepository) SaveRoute(ctx context.Context, route *domain.StoredRoute) (err error) {
	defer obs.Time(ctx, "routes.sqlite.SaveRoute")(&err)

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
	INSERT OR REPLACE INTO routes (
		route_id,
		name,
		gpx,
		point_count,
		created_at
	)
	VALUES (?, ?, ?, ?, ?);
	`, route.ID, route.Name, route.GPX, route.PointCount, created.Unix())
	if err != nil {
		return fmt.Errorf("save route id=%q: %w", route.ID, err)
	}

	return nil
}

func (r *SqliteRouteRepository) DeleteRoute(ctx context.Context, id string) (err error) {
	defer obs.Time(ctx, "routes.sqlite.DeleteRoute")(&err)

	if r.DB == nil {
		return errors.New("delete route: db is nil")
	}

	res, err := r.DB.ExecContext(ctx, `DELETE FROM routes WHERE route_id = ?;`, id)
	if err != nil {
		return fmt.Errorf("delete route id=%q: %w", id, err)
	}
	return checkAffected(res, id)
}

func checkRoute(route *domain.StoredRoute) error {
	if route == nil {
		return errors.New("save route: route is nil")
	}
	if strings.TrimSpace(route.ID) == "" {
		return errors.New("save route: id must not be empty")
	}
	if strings.TrimSpace(route.Name) == "" {
		return fmt.Errorf("save route id=%q: name must not be empty", route.ID)
	}
	if len(route.GPX) == 0 {
		return fmt.Errorf("save route id=%q: gpx must not be empty", route.ID)
	}
	return nil
}

func checkAffected(res sql.Result, id string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete route id=%q: rows affected: %w", id, err)
	}
	if n == 0 {
		return fmt.Errorf("delete route id=%q: %w", id, ports.ErrRouteNotFound)
	}
	return nil
}
