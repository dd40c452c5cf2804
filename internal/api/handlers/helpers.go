package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"

	"gpx-navigation-service/internal/adapters/gpx"
	"gpx-navigation-service/internal/adapters/tiles"
	"gpx-navigation-service/internal/domain"
	"gpx-navigation-service/internal/platform/obs"
	"gpx-navigation-service/internal/ports"
	"gpx-navigation-service/internal/services"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

func writeJSON(w http.ResponseWriter, r *http.Request, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("encode failed: method=%s path=%s err=%v", r.Method, r.URL.Path, err)
	}
}

func writeError(w http.ResponseWriter, r *http.Request, status int, msg string) {
	writeJSON(w, r, status, map[string]string{"error": msg})
}

// decodeJSON reads exactly one JSON object into dst and validates it.
func decodeJSON(r *http.Request, dst any) error {
	dec := json.NewDecoder(r.Body)
	defer r.Body.Close()
	dec.DisallowUnknownFields()

	if err := dec.Decode(dst); err != nil {
		return errors.New("invalid json body")
	}
	if err := dec.Decode(&struct{}{}); err != io.EOF {
		return errors.New("body must contain only one JSON object")
	}
	if err := validate.Struct(dst); err != nil {
		return validationMessage(err)
	}
	return nil
}

func validationMessage(err error) error {
	var ve validator.ValidationErrors
	if errors.As(err, &ve) && len(ve) > 0 {
		fe := ve[0]
		return fmt.Errorf("invalid field %s: failed %s", fe.Field(), fe.Tag())
	}
	return err
}

// writeServiceError maps service and domain sentinels to HTTP statuses.
func writeServiceError(w http.ResponseWriter, r *http.Request, op string, err error) {
	switch {
	case errors.Is(err, ports.ErrRouteNotFound):
		writeError(w, r, http.StatusNotFound, "route not found")
	case errors.Is(err, services.ErrSessionNotFound):
		writeError(w, r, http.StatusNotFound, "session not found")
	case errors.Is(err, services.ErrNotNavigating):
		writeError(w, r, http.StatusConflict, "session is not navigating")
	case errors.Is(err, domain.ErrInvalidPosition):
		var pe *domain.InvalidPositionError
		if errors.As(err, &pe) {
			writeError(w, r, http.StatusBadRequest, pe.Error())
			return
		}
		writeError(w, r, http.StatusBadRequest, "invalid position")
	case errors.Is(err, gpx.ErrInvalidGPX), errors.Is(err, gpx.ErrNoTracks), errors.Is(err, domain.ErrEmptyRoute):
		writeError(w, r, http.StatusUnprocessableEntity, err.Error())
	case errors.Is(err, tiles.ErrInvalidTile):
		writeError(w, r, http.StatusBadRequest, "invalid tile coordinates")
	default:
		log.Printf("req_id=%s %s failed: %v", obs.RequestID(r.Context()), op, err)
		writeError(w, r, http.StatusInternalServerError, "internal server error")
	}
}
