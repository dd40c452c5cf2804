package tiles

import (
	"bytes"
	"context"
	"errors"
	"image/png"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"
)

type memCache struct {
	data map[string][]byte
	puts int
}

func newMemCache() *memCache { return &memCache{data: map[string][]byte{}} }

func (m *memCache) GetTile(_ context.Context, key string) ([]byte, bool, error) {
	d, ok := m.data[key]
	return d, ok, nil
}

func (m *memCache) PutTile(_ context.Context, key string, data []byte) error {
	m.puts++
	m.data[key] = data
	return nil
}

func newTestFetcher(t *testing.T, url string) *HTTPFetcher {
	t.Helper()
	f, err := NewHTTPFetcher(url+"/{z}/{x}/{y}.png", "navigator-test")
	if err != nil {
		t.Fatalf("NewHTTPFetcher: %v", err)
	}
	f.backoff = time.Millisecond
	return f
}

func TestValidate(t *testing.T) {
	tests := []struct {
		z, x, y int
		ok      bool
	}{
		{0, 0, 0, true},
		{1, 1, 1, true},
		{19, 524287, 524287, true},
		{-1, 0, 0, false},
		{20, 0, 0, false},
		{1, 2, 0, false},
		{1, 0, 2, false},
		{3, -1, 0, false},
	}

	for _, tt := range tests {
		err := Validate(tt.z, tt.x, tt.y)
		if tt.ok && err != nil {
			t.Errorf("Validate(%d,%d,%d) unexpected error: %v", tt.z, tt.x, tt.y, err)
		}
		if !tt.ok && !errors.Is(err, ErrInvalidTile) {
			t.Errorf("Validate(%d,%d,%d) expected ErrInvalidTile, got %v", tt.z, tt.x, tt.y, err)
		}
	}
}

func TestProxyFetchesThenServesFromCache(t *testing.T) {
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		if r.URL.Path != "/3/4/5.png" {
			t.Errorf("unexpected path %q", r.URL.Path)
		}
		if ua := r.Header.Get("User-Agent"); ua != "navigator-test" {
			t.Errorf("unexpected user agent %q", ua)
		}
		_, _ = w.Write([]byte("tile-bytes"))
	}))
	defer srv.Close()

	cache := newMemCache()
	p := NewProxy(cache, newTestFetcher(t, srv.URL))
	ctx := context.Background()

	tile, err := p.Tile(ctx, 3, 4, 5)
	if err != nil {
		t.Fatalf("Tile: %v", err)
	}
	if string(tile.Data) != "tile-bytes" || tile.FromCache || tile.Placeholder {
		t.Fatalf("unexpected first tile: %+v", tile)
	}

	tile, err = p.Tile(ctx, 3, 4, 5)
	if err != nil {
		t.Fatalf("Tile: %v", err)
	}
	if !tile.FromCache {
		t.Fatal("expected second request to be served from cache")
	}
	if hits.Load() != 1 {
		t.Fatalf("expected 1 upstream hit, got %d", hits.Load())
	}
}

func TestProxyRetriesTransientErrors(t *testing.T) {
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if hits.Add(1) < 3 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		_, _ = w.Write([]byte("ok"))
	}))
	defer srv.Close()

	p := NewProxy(nil, newTestFetcher(t, srv.URL))
	tile, err := p.Tile(context.Background(), 0, 0, 0)
	if err != nil {
		t.Fatalf("Tile: %v", err)
	}
	if string(tile.Data) != "ok" {
		t.Fatalf("expected tile after retries, got %+v", tile)
	}
	if hits.Load() != 3 {
		t.Fatalf("expected 3 attempts, got %d", hits.Load())
	}
}

func TestProxyPlaceholderOnFailure(t *testing.T) {
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	cache := newMemCache()
	p := NewProxy(cache, newTestFetcher(t, srv.URL))

	tile, err := p.Tile(context.Background(), 2, 1, 1)
	if err != nil {
		t.Fatalf("Tile: %v", err)
	}
	if !tile.Placeholder {
		t.Fatal("expected placeholder tile")
	}
	if hits.Load() != 1 {
		t.Fatalf("404 must not be retried, got %d attempts", hits.Load())
	}
	if cache.puts != 0 {
		t.Fatal("placeholder must not be cached")
	}

	img, err := png.Decode(bytes.NewReader(tile.Data))
	if err != nil {
		t.Fatalf("placeholder is not a png: %v", err)
	}
	if b := img.Bounds(); b.Dx() != 256 || b.Dy() != 256 {
		t.Fatalf("expected 256x256 placeholder, got %v", b)
	}
}

func TestProxyRejectsInvalidTile(t *testing.T) {
	p := NewProxy(nil, newTestFetcher(t, "http://127.0.0.1:1"))
	if _, err := p.Tile(context.Background(), 1, 5, 0); !errors.Is(err, ErrInvalidTile) {
		t.Fatalf("expected ErrInvalidTile, got %v", err)
	}
}

func TestNewHTTPFetcherRequiresPlaceholders(t *testing.T) {
	if _, err := NewHTTPFetcher("https://tiles.example.com/{z}/{x}.png", ""); err == nil {
		t.Fatal("expected error for template without {y}")
	}
}
