package repositories

import (
	"database/sql"
	"errors"
	"fmt"
)

// Initialize the SQLite database schema.
func InitSchema(db *sql.DB) error {
	if db == nil {
		return errors.New("init schema: DB is nil")
	}

	createRoutesQuery := `
	CREATE TABLE IF NOT EXISTS routes (
		route_id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		gpx BLOB NOT NULL,
		point_count INTEGER NOT NULL,
		created_at INTEGER NOT NULL
	);
	`

	createTileCacheQuery := `
	CREATE TABLE IF NOT EXISTS tile_cache (
		tile_key TEXT PRIMARY KEY,
		data BLOB NOT NULL,
		fetched_at INTEGER NOT NULL
	);
	`

	createIndexQuery := `
	CREATE INDEX IF NOT EXISTS idx_routes_name ON routes(name);
	`

	return execSchema(db, "init schema", []string{
		createRoutesQuery,
		createTileCacheQuery,
		createIndexQuery,
	})
}

func execSchema(db *sql.DB, op string, statements []string) error {
	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("%s: begin tx: %w", op, err)
	}
	defer func() { _ = tx.Rollback() }()

	for i, stmt := range statements {
		if _, err := tx.Exec(stmt); err != nil {
			return fmt.Errorf("%s: exec statement #%d: %w", op, i+1, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("%s: commit tx: %w", op, err)
	}

	return nil
}
