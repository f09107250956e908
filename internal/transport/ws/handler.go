package ws

import (
	"log/slog"
	"net"
	"net/http"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"onewordstory/internal/app"
)

// Handler handles WebSocket connections
type Handler struct {
	engine   *app.Engine
	upgrader websocket.Upgrader
	logger   *slog.Logger
}

// NewHandler creates a new WebSocket handler
func NewHandler(engine *app.Engine, logger *slog.Logger) *Handler {
	return &Handler{
		engine: engine,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				// Allow all origins for development
				// In production, you should validate the origin
				return true
			},
		},
		logger: logger,
	}
}

// ServeHTTP handles WebSocket upgrade requests
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Error("websocket upgrade failed", "error", err)
		return
	}

	// The handle is transient and dies with the connection; stable
	// identity is recovered from the origin address by the engine.
	handle := uuid.New().String()
	addr := originAddress(r)

	client := NewClient(conn, h.engine, handle, h.logger)
	participant := h.engine.Connect(handle, addr, client)

	h.logger.Info("websocket connected",
		"handle", handle,
		"stableId", participant.StableID,
		"addr", addr,
	)

	client.Run()
}

// originAddress extracts the peer's address without the ephemeral
// port, so reconnects from the same host map to the same identity
// session.
func originAddress(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
