package handlers

import (
	"net/http"

	"gpx-navigation-service/internal/api/dto"
	"gpx-navigation-service/internal/services"
)

type SessionHandler struct {
	Sessions *services.SessionManager
}

func (h *SessionHandler) Create(w http.ResponseWriter, r *http.Request) {
	s := h.Sessions.Create()
	writeJSON(w, r, http.StatusCreated, dto.CreateSessionResponse{SessionID: s.ID})
}

func (h *SessionHandler) List(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, r, http.StatusOK, dto.ListSessionsResponse{Sessions: h.Sessions.List()})
}

func (h *SessionHandler) Get(w http.ResponseWriter, r *http.Request) {
	s, ok := h.session(w, r)
	if !ok {
		return
	}
	writeJSON(w, r, http.StatusOK, dto.FromProgress(s.Status()))
}

func (h *SessionHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.Sessions.Delete(r.PathValue("id")); err != nil {
		writeServiceError(w, r, "delete session", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *SessionHandler) Start(w http.ResponseWriter, r *http.Request) {
	s, ok := h.session(w, r)
	if !ok {
		return
	}

	var req dto.StartRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}

	p, err := s.Start(r.Context(), req.RouteID)
	if err != nil {
		writeServiceError(w, r, "start session", err)
		return
	}
	writeJSON(w, r, http.StatusOK, dto.FromProgress(p))
}

// Positions feeds one GPS sample to the session and returns the resulting
// alerts, their speech text and the updated progress.
func (h *SessionHandler) Positions(w http.ResponseWriter, r *http.Request) {
	s, ok := h.session(w, r)
	if !ok {
		return
	}

	var req dto.PositionRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}

	u, err := s.UpdatePosition(r.Context(), req.ToPosition())
	if err != nil {
		writeServiceError(w, r, "update position", err)
		return
	}
	writeJSON(w, r, http.StatusOK, dto.FromUpdate(u))
}

func (h *SessionHandler) Mute(w http.ResponseWriter, r *http.Request) {
	s, ok := h.session(w, r)
	if !ok {
		return
	}

	var req dto.MuteRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}

	writeJSON(w, r, http.StatusOK, dto.FromProgress(s.SetMuted(*req.Muted)))
}

func (h *SessionHandler) Stop(w http.ResponseWriter, r *http.Request) {
	s, ok := h.session(w, r)
	if !ok {
		return
	}

	p, err := s.Stop()
	if err != nil {
		writeServiceError(w, r, "stop session", err)
		return
	}
	writeJSON(w, r, http.StatusOK, dto.FromProgress(p))
}

func (h *SessionHandler) session(w http.ResponseWriter, r *http.Request) (*services.Session, bool) {
	s, err := h.Sessions.Get(r.PathValue("id"))
	if err != nil {
		writeServiceError(w, r, "get session", err)
		return nil, false
	}
	return s, true
}
