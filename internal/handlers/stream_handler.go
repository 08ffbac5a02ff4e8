package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/eventpulse/eventpulse/internal/broadcast"
	"github.com/eventpulse/eventpulse/internal/services"
)

const (
	writeTimeout = 10 * time.Second
	pingInterval = 60 * time.Second
)

// StreamHandler serves the live RSVP feed for one event over a websocket.
// Each connection subscribes to the event's topic for its lifetime; messages
// a disconnected viewer misses are not replayed.
type StreamHandler struct {
	hub    *broadcast.Hub
	events *services.EventService
	upgr   websocket.Upgrader
	log    *zap.Logger
}

func NewStreamHandler(hub *broadcast.Hub, events *services.EventService, log *zap.Logger) *StreamHandler {
	return &StreamHandler{
		hub:    hub,
		events: events,
		upgr: websocket.Upgrader{
			// Cross-origin policy is enforced by the CORS layer in front.
			CheckOrigin: func(*http.Request) bool { return true },
		},
		log: log,
	}
}

func (h *StreamHandler) Live(c *gin.Context) {
	eventID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid event id"})
		return
	}

	exists, err := h.events.Exists(c.Request.Context(), eventID)
	if err != nil {
		writeError(c, h.log, err)
		return
	}
	if !exists {
		c.JSON(http.StatusNotFound, gin.H{"error": "event not found"})
		return
	}

	wc, err := h.upgr.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.log.Debug("Websocket upgrade failed", zap.Error(err))
		return
	}

	sub := h.hub.Subscribe(eventID.String())
	defer sub.Close()

	h.log.Debug("Viewer joined event stream", zap.String("event_id", eventID.String()))

	// Reader only watches for the client going away.
	done := make(chan struct{})
	go func() {
		defer close(done)
		for {
			if _, _, err := wc.ReadMessage(); err != nil {
				return
			}
		}
	}()

	ticker := time.NewTicker(pingInterval)
	defer ticker.Stop()
	defer wc.Close()

	for {
		select {
		case msg, ok := <-sub.C():
			if !ok {
				wc.SetWriteDeadline(time.Now().Add(writeTimeout))
				wc.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			wc.SetWriteDeadline(time.Now().Add(writeTimeout))
			if err := wc.WriteJSON(msg); err != nil {
				return
			}
		case <-ticker.C:
			wc.SetWriteDeadline(time.Now().Add(writeTimeout))
			if err := wc.WriteMessage(websocket.PingMessage, []byte{}); err != nil {
				return
			}
		case <-done:
			return
		}
	}
}
