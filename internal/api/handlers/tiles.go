package handlers

import (
	"net/http"
	"strconv"
	"strings"

	"gpx-navigation-service/internal/adapters/tiles"
)

type TileHandler struct {
	Proxy *tiles.Proxy
}

// Tile serves GET /tiles/{z}/{x}/{y}.png through the offline tile cache.
func (h *TileHandler) Tile(w http.ResponseWriter, r *http.Request) {
	z, errZ := strconv.Atoi(r.PathValue("z"))
	x, errX := strconv.Atoi(r.PathValue("x"))
	file := r.PathValue("file")
	y, errY := strconv.Atoi(strings.TrimSuffix(file, ".png"))
	if errZ != nil || errX != nil || errY != nil || !strings.HasSuffix(file, ".png") {
		writeError(w, r, http.StatusBadRequest, "invalid tile path")
		return
	}

	tile, err := h.Proxy.Tile(r.Context(), z, x, y)
	if err != nil {
		writeServiceError(w, r, "tile", err)
		return
	}

	w.Header().Set("Content-Type", "image/png")
	switch {
	case tile.Placeholder:
		w.Header().Set("Cache-Control", "no-store")
		w.Header().Set("X-Tile-Source", "placeholder")
	case tile.FromCache:
		w.Header().Set("Cache-Control", "public, max-age=86400")
		w.Header().Set("X-Tile-Source", "cache")
	default:
		w.Header().Set("Cache-Control", "public, max-age=86400")
		w.Header().Set("X-Tile-Source", "upstream")
	}
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(tile.Data)
}
