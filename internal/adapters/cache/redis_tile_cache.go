package cache

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"gpx-navigation-service/internal/platform/obs"

	"github.com/redis/go-redis/v9"
)

const tileKeyPrefix = "tile:"

// RedisTileCache keeps tiles in Redis with a per-entry TTL, shared across
// server instances.
type RedisTileCache struct {
	Client *redis.Client
	TTL    time.Duration
}

func NewRedisTileCache(client *redis.Client, ttl time.Duration) *RedisTileCache {
	return &RedisTileCache{Client: client, TTL: ttl}
}

func (r *RedisTileCache) GetTile(ctx context.Context, key string) (_ []byte, _ bool, err error) {
	defer obs.Time(ctx, "tiles.cache.redis.GetTile")(&err)

	if r.Client == nil {
		return nil, false, errors.New("tile cache: redis client is nil")
	}
	if strings.TrimSpace(key) == "" {
		return nil, false, errors.New("get tile cache: key must not be empty")
	}

	data, err := r.Client.Get(ctx, tileKeyPrefix+key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("get tile cache key=%q: %w", key, err)
	}
	return data, true, nil
}

func (r *RedisTileCache) PutTile(ctx context.Context, key string, data []byte) (err error) {
	defer obs.Time(ctx, "tiles.cache.redis.PutTile")(&err)

	if r.Client == nil {
		return errors.New("tile cache: redis client is nil")
	}
	if strings.TrimSpace(key) == "" {
		return errors.New("insert tile cache: key must not be empty")
	}

	if err := r.Client.Set(ctx, tileKeyPrefix+key, data, r.TTL).Err(); err != nil {
		return fmt.Errorf("insert tile cache key=%q: %w", key, err)
	}
	return nil
}
