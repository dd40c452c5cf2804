package cache

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"gpx-navigation-service/internal/platform/obs"
)

// SQLite backed store for map tiles keyed by "z/x/y". Entries older than
// MaxAge are reported as misses; a zero MaxAge keeps tiles forever.
type SqliteTileCache struct {
	DB     *sql.DB
	MaxAge time.Duration

	now func() time.Time
}

func NewSqliteTileCache(db *sql.DB, maxAge time.Duration) *SqliteTileCache {
	return &SqliteTileCache{DB: db, MaxAge: maxAge, now: time.Now}
}

func (s *SqliteTileCache) GetTile(ctx context.Context, key string) (_ []byte, _ bool, err error) {
	defer obs.Time(ctx, "tiles.cache.sqlite.GetTile")(&err)

	if s.DB == nil {
		return nil, false, errors.New("tile cache: db is nil")
	}
	if strings.TrimSpace(key) == "" {
		return nil, false, errors.New("get tile cache: key must not be empty")
	}

	var data []byte
	var fetched int64
	err = s.DB.QueryRowContext(ctx, `
	SELECT data, fetched_at
	FROM tile_cache
	WHERE tile_key = ?;
	`, key).Scan(&data, &fetched)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("get tile cache key=%q: %w", key, err)
	}

	if s.MaxAge > 0 && s.clock().Sub(time.Unix(fetched, 0)) > s.MaxAge {
		return nil, false, nil
	}

	return data, true, nil
}

func (s *SqliteTileCache) PutTile(ctx context.Context, key string, data []byte) (err error) {
	defer obs.Time(ctx, "tiles.cache.sqlite.PutTile")(&err)

	if s.DB == nil {
		return errors.New("tile cache: db is nil")
	}
	if strings.TrimSpace(key) == "" {
		return errors.New("insert tile cache: key must not be empty")
	}

	_, err = s.DB.ExecContext(ctx, `
	INSERT OR REPLACE INTO tile_cache (
		tile_key,
		data,
		fetched_at
	)
	VALUES (?, ?, ?);
	`, key, data, s.clock().Unix())
	if err != nil {
		return fmt.Errorf("insert tile cache key=%q: %w", key, err)
	}

	return nil
}

func (s *SqliteTileCache) clock() time.Time {
	if s.now == nil {
		return time.Now()
	}
	return s.now()
}
