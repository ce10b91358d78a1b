package realtime

import (
	"net/http"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

// Handler upgrades HTTP requests into plaza websocket connections.
type Handler struct {
	hub        *Hub
	dispatcher *Dispatcher
	logger     *zap.Logger
}

func NewHandler(hub *Hub, dispatcher *Dispatcher, logger *zap.Logger) *Handler {
	return &Handler{hub, dispatcher, logger}
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Warn("websocket upgrade failed", zap.Error(err))
		return
	}

	client := NewClient(h.hub, h.dispatcher, conn, h.logger)
	h.logger.Info("connection opened", zap.String("connection_id", client.ID()))

	client.Run(r.Context())

	h.logger.Info("connection closed", zap.String("connection_id", client.ID()))
}
