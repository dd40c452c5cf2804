// Package tiles serves slippy-map tiles cache-through so the map keeps
// working when the device loses connectivity.
package tiles

import (
	"context"
	"errors"
	"fmt"
	"log"

	"gpx-navigation-service/internal/platform/obs"
	"gpx-navigation-service/internal/ports"
)

const MaxZoom = 19

var ErrInvalidTile = errors.New("invalid tile coordinates")

type Fetcher interface {
	Fetch(ctx context.Context, z, x, y int) ([]byte, error)
}

type Tile struct {
	Data        []byte
	FromCache   bool
	Placeholder bool
}

type Proxy struct {
	cache   ports.TileCache
	fetcher Fetcher
}

// NewProxy wires a fetcher behind an optional cache; a nil cache disables caching.
func NewProxy(cache ports.TileCache, fetcher Fetcher) *Proxy {
	return &Proxy{cache: cache, fetcher: fetcher}
}

func Key(z, x, y int) string {
	return fmt.Sprintf("%d/%d/%d", z, x, y)
}

func Validate(z, x, y int) error {
	if z < 0 || z > MaxZoom {
		return fmt.Errorf("%w: zoom %d outside 0..%d", ErrInvalidTile, z, MaxZoom)
	}
	n := 1 << z
	if x < 0 || x >= n || y < 0 || y >= n {
		return fmt.Errorf("%w: %d/%d/%d", ErrInvalidTile, z, x, y)
	}
	return nil
}

// Tile returns the requested tile from cache, then upstream. Upstream failures
// degrade to the placeholder tile; cache failures are logged and bypassed.
func (p *Proxy) Tile(ctx context.Context, z, x, y int) (_ Tile, err error) {
	defer obs.Time(ctx, "tiles.Tile")(&err)

	if err := Validate(z, x, y); err != nil {
		return Tile{}, err
	}
	key := Key(z, x, y)

	if p.cache != nil {
		data, ok, err := p.cache.GetTile(ctx, key)
		if err != nil {
			log.Printf("req_id=%s tile cache get failed key=%s err=%v", obs.RequestID(ctx), key, err)
		} else if ok {
			return Tile{Data: data, FromCache: true}, nil
		}
	}

	data, err := p.fetcher.Fetch(ctx, z, x, y)
	if err != nil {
		if ctx.Err() != nil {
			return Tile{}, ctx.Err()
		}
		log.Printf("req_id=%s tile upstream failed key=%s err=%v", obs.RequestID(ctx), key, err)
		return Tile{Data: Placeholder(), Placeholder: true}, nil
	}

	if p.cache != nil {
		if err := p.cache.PutTile(ctx, key, data); err != nil {
			log.Printf("req_id=%s tile cache put failed key=%s err=%v", obs.RequestID(ctx), key, err)
		}
	}

	return Tile{Data: data}, nil
}
