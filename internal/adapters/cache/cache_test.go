package cache

import (
	"context"
	"testing"
	"time"

	"gpx-navigation-service/internal/adapters/repositories"
	"gpx-navigation-service/internal/platform/db"
	"gpx-navigation-service/internal/ports"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

var (
	_ ports.TileCache = (*SqliteTileCache)(nil)
	_ ports.TileCache = (*RedisTileCache)(nil)
)

func newSqliteCache(t *testing.T, maxAge time.Duration) *SqliteTileCache {
	t.Helper()

	conn, err := db.OpenSQLite(":memory:")
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	t.Cleanup(func() { _ = conn.Close() })

	if err := repositories.InitSchema(conn); err != nil {
		t.Fatalf("init schema: %v", err)
	}
	return NewSqliteTileCache(conn, maxAge)
}

func TestSqliteTileCache(t *testing.T) {
	ctx := context.Background()
	c := newSqliteCache(t, 0)

	if _, ok, err := c.GetTile(ctx, "1/0/0"); err != nil || ok {
		t.Fatalf("expected miss, got ok=%v err=%v", ok, err)
	}

	if err := c.PutTile(ctx, "1/0/0", []byte("png")); err != nil {
		t.Fatalf("PutTile: %v", err)
	}

	data, ok, err := c.GetTile(ctx, "1/0/0")
	if err != nil || !ok {
		t.Fatalf("expected hit, got ok=%v err=%v", ok, err)
	}
	if string(data) != "png" {
		t.Fatalf("expected cached bytes, got %q", data)
	}

	if err := c.PutTile(ctx, "", []byte("x")); err == nil {
		t.Fatal("expected error for empty key")
	}
}

func TestSqliteTileCacheMaxAge(t *testing.T) {
	ctx := context.Background()
	c := newSqliteCache(t, time.Hour)

	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	c.now = func() time.Time { return now }

	if err := c.PutTile(ctx, "2/1/1", []byte("png")); err != nil {
		t.Fatalf("PutTile: %v", err)
	}

	now = now.Add(30 * time.Minute)
	if _, ok, _ := c.GetTile(ctx, "2/1/1"); !ok {
		t.Fatal("expected fresh tile to hit")
	}

	now = now.Add(2 * time.Hour)
	if _, ok, _ := c.GetTile(ctx, "2/1/1"); ok {
		t.Fatal("expected expired tile to miss")
	}
}

func TestRedisTileCache(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	ctx := context.Background()
	c := NewRedisTileCache(client, time.Minute)

	if _, ok, err := c.GetTile(ctx, "3/2/1"); err != nil || ok {
		t.Fatalf("expected miss, got ok=%v err=%v", ok, err)
	}

	if err := c.PutTile(ctx, "3/2/1", []byte{0x89, 'P', 'N', 'G'}); err != nil {
		t.Fatalf("PutTile: %v", err)
	}

	data, ok, err := c.GetTile(ctx, "3/2/1")
	if err != nil || !ok {
		t.Fatalf("expected hit, got ok=%v err=%v", ok, err)
	}
	if len(data) != 4 || data[1] != 'P' {
		t.Fatalf("unexpected bytes %v", data)
	}

	if ttl := mr.TTL("tile:3/2/1"); ttl != time.Minute {
		t.Fatalf("expected ttl 1m, got %v", ttl)
	}

	mr.FastForward(2 * time.Minute)
	if _, ok, _ := c.GetTile(ctx, "3/2/1"); ok {
		t.Fatal("expected expired tile to miss")
	}
}
