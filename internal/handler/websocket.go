package handler

import (
	"net/http"

	"github.com/cleberrangel/houseforge-api/internal/websocket"
	"github.com/gin-gonic/gin"
)

// WebSocketHandler handles WebSocket-related HTTP requests
type WebSocketHandler struct {
	hub *websocket.Hub
}

// NewWebSocketHandler creates a new WebSocket handler
func NewWebSocketHandler(hub *websocket.Hub) *WebSocketHandler {
	return &WebSocketHandler{
		hub: hub,
	}
}

// HandleConnection handles WebSocket connection upgrades
func (h *WebSocketHandler) HandleConnection(c *gin.Context) {
	h.hub.ServeWS(c)
}

// GetUserConnections returns connection information for the current user
func (h *WebSocketHandler) GetUserConnections(c *gin.Context) {
	userID := c.GetString("user_id")
	connectionCount := h.hub.GetUserConnectionCount(userID)

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data": gin.H{
			"user_id":          userID,
			"connection_count": connectionCount,
			"is_connected":     connectionCount > 0,
		},
	})
}
