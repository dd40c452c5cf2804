package repositories

import (
	"database/sql"
	"errors"
)

// Initialize the Postgres database schema used by cmd/dbtool and the
// postgres driver of cmd/server.
func InitPostgresSchema(db *sql.DB) error {
	if db == nil {
		return errors.New("init postgres schema: DB is nil")
	}

	createRoutesQuery := `
	CREATE TABLE IF NOT EXISTS routes (
		route_id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		gpx BYTEA NOT NULL,
		point_count INTEGER NOT NULL,
		created_at TIMESTAMPTZ NOT NULL DEFAULT now()
	);
	`

	createTileCacheQuery := `
	CREATE TABLE IF NOT EXISTS tile_cache (
		tile_key TEXT PRIMARY KEY,
		data BYTEA NOT NULL,
		fetched_at TIMESTAMPTZ NOT NULL DEFAULT now()
	);
	`

	createIndexQuery := `
	CREATE INDEX IF NOT EXISTS idx_routes_name ON routes(name);
	`

	return execSchema(db, "init postgres schema", []string{
		createRoutesQuery,
		createTileCacheQuery,
		createIndexQuery,
	})
}
