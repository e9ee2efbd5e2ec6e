package websocket

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"pulsedeck/internal/config"
	"pulsedeck/internal/logger"
	"pulsedeck/internal/transport/rest/middleware"
)

type Handler struct {
	hub      *Hub
	upgrader websocket.Upgrader
	log      logger.Logger
}

func NewHandler(hub *Hub, cfg *config.Config, log logger.Logger) *Handler {
	upgrader := websocket.Upgrader{
		CheckOrigin: func(r *http.Request) bool {
			allowed := middleware.AllowOrigin(cfg, r)
			if !allowed {
				log.Warn("ws: origin rejected", "origin", r.Header.Get("Origin"))
			}
			return allowed
		},
	}

	return &Handler{
		hub:      hub,
		upgrader: upgrader,
		log:      log,
	}
}

func (h *Handler) Serve(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.log.Error("ws: upgrade failed", "error", err)
		return
	}

	client := NewClient(uuid.NewString(), h.hub, conn, h.log)
	h.hub.register <- client

	go client.writePump()
	go client.readPump()
}
