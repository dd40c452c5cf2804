package handlers

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"time"

	"gpx-navigation-service/internal/api/dto"
	"gpx-navigation-service/internal/domain"
	"gpx-navigation-service/internal/platform/obs"

	"github.com/gorilla/websocket"
)

const (
	streamWriteWait = 10 * time.Second
	streamReadLimit = 64 << 10
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

// Stream upgrades to a websocket on which the client sends position samples
// and receives one update (or {"error": ...}) per sample.
func (h *SessionHandler) Stream(w http.ResponseWriter, r *http.Request) {
	s, ok := h.session(w, r)
	if !ok {
		return
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade has already replied to the client.
		log.Printf("req_id=%s websocket upgrade failed session=%s err=%v", obs.RequestID(r.Context()), s.ID, err)
		return
	}
	defer conn.Close()
	conn.SetReadLimit(streamReadLimit)

	ctx := r.Context()
	log.Printf("req_id=%s stream opened session=%s", obs.RequestID(ctx), s.ID)

	for {
		_, msg, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				log.Printf("req_id=%s stream read failed session=%s err=%v", obs.RequestID(ctx), s.ID, err)
			}
			return
		}

		var reply any
		var req dto.PositionRequest
		if err := json.Unmarshal(msg, &req); err != nil {
			reply = map[string]string{"error": "invalid json message"}
		} else if err := validate.Struct(req); err != nil {
			reply = map[string]string{"error": validationMessage(err).Error()}
		} else if u, err := s.UpdatePosition(ctx, req.ToPosition()); err != nil {
			reply = map[string]string{"error": streamError(err)}
		} else {
			reply = dto.FromUpdate(u)
		}

		_ = conn.SetWriteDeadline(time.Now().Add(streamWriteWait))
		if err := conn.WriteJSON(reply); err != nil {
			log.Printf("req_id=%s stream write failed session=%s err=%v", obs.RequestID(ctx), s.ID, err)
			return
		}
	}
}

func streamError(err error) string {
	var pe *domain.InvalidPositionError
	if errors.As(err, &pe) {
		return pe.Error()
	}
	return "internal server error"
}
