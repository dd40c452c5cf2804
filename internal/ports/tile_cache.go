package ports

import "context"

// Contract for an offline map tile store keyed by "z/x/y".
type TileCache interface {
	// Return the cached tile bytes; ok is false on a miss.
	GetTile(ctx context.Context, key string) (data []byte, ok bool, err error)
	PutTile(ctx context.Context, key string, data []byte) error
}
