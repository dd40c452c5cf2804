package handlers

import (
	"io"
	"net/http"
	"strings"

	"gpx-navigation-service/internal/adapters/geojson"
	"gpx-navigation-service/internal/api/dto"
	"gpx-navigation-service/internal/services"
)

const maxUploadBytes = 10 << 20

type RouteHandler struct {
	Loader *services.RouteLoader
}

func (h *RouteHandler) List(w http.ResponseWriter, r *http.Request) {
	routes, err := h.Loader.Repository().ListRoutes(r.Context())
	if err != nil {
		writeServiceError(w, r, "list routes", err)
		return
	}

	res := dto.ListRoutesResponse{Routes: make([]dto.RouteResponse, 0, len(routes))}
	for _, rt := range routes {
		res.Routes = append(res.Routes, dto.RouteResponse{
			ID:        rt.ID,
			Name:      rt.Name,
			Points:    rt.PointCount,
			CreatedAt: rt.CreatedAt,
		})
	}

	writeJSON(w, r, http.StatusOK, res)
}

// Upload stores a raw GPX body as a new route named by the "name" query parameter.
func (h *RouteHandler) Upload(w http.ResponseWriter, r *http.Request) {
	name := strings.TrimSpace(r.URL.Query().Get("name"))
	if name == "" {
		writeError(w, r, http.StatusBadRequest, "name is required")
		return
	}

	defer r.Body.Close()
	data, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxUploadBytes))
	if err != nil {
		writeError(w, r, http.StatusRequestEntityTooLarge, "gpx body too large")
		return
	}

	route, err := h.Loader.ImportRoute(r.Context(), name, data)
	if err != nil {
		writeServiceError(w, r, "import route", err)
		return
	}

	writeJSON(w, r, http.StatusCreated, dto.RouteResponse{
		ID:        route.ID,
		Name:      route.Name,
		Points:    route.PointCount,
		CreatedAt: route.CreatedAt,
	})
}

func (h *RouteHandler) GeoJSON(w http.ResponseWriter, r *http.Request) {
	parsed, _, err := h.Loader.ParsedRoute(r.Context(), r.PathValue("id"))
	if err != nil {
		writeServiceError(w, r, "route geojson", err)
		return
	}

	writeJSON(w, r, http.StatusOK, geojson.RouteFeatures(parsed))
}

func (h *RouteHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.Loader.Repository().DeleteRoute(r.Context(), r.PathValue("id")); err != nil {
		writeServiceError(w, r, "delete route", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
