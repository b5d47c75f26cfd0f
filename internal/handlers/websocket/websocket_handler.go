// internal/handlers/websocket/websocket_handler.go
package websocket

import (
	"net/http"
	"time"

	"storefront-agent/internal/pkg/response"
	ws "storefront-agent/internal/websocket"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

type WebSocketHandler struct {
	hub      *ws.Hub
	upgrader websocket.Upgrader
	logger   *zap.Logger
}

// NewWebSocketHandler only upgrades requests whose Origin passes allowOrigin.
func NewWebSocketHandler(hub *ws.Hub, allowOrigin func(origin string) bool, logger *zap.Logger) *WebSocketHandler {
	return &WebSocketHandler{
		hub: hub,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				return allowOrigin(r.Header.Get("Origin"))
			},
		},
		logger: logger,
	}
}

// HandleConnection upgrades the request and hands the socket to the hub.
func (h *WebSocketHandler) HandleConnection(c *gin.Context) {
	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.logger.Warn("websocket upgrade failed",
			zap.Error(err),
			zap.String("ip", c.ClientIP()),
			zap.String("origin", c.GetHeader("Origin")),
		)
		return
	}

	client, err := h.hub.Attach(conn)
	if err != nil {
		h.logger.Warn("websocket attach failed", zap.Error(err))
		return
	}

	h.logger.Info("websocket client connected",
		zap.String("client_id", client.ID()),
		zap.String("ip", c.ClientIP()),
	)
}

// GetStats returns connection statistics.
func (h *WebSocketHandler) GetStats(c *gin.Context) {
	stats := map[string]any{
		"total_connections": h.hub.TotalClients(),
		"timestamp":         time.Now(),
	}

	response.Success(c, http.StatusOK, "WebSocket stats", stats)
}
