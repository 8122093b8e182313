package websocket

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

// ServeWS handles websocket requests from the peer
func (h *Hub) ServeWS(c *gin.Context) {
	// user_id e username vêm do AuthMiddleware
	userID := c.GetString("user_id")
	if userID == "" {
		c.JSON(http.StatusUnauthorized, gin.H{
			"success": false,
			"error":   "Usuário não autenticado",
			"code":    "USER_NOT_AUTHENTICATED",
		})
		return
	}

	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.logger.Error().
			Err(err).
			Str("user_id", userID).
			Msg("Failed to upgrade WebSocket connection")
		return
	}

	now := time.Now()
	client := &Client{
		conn:        conn,
		Send:        make(chan []byte, sendBufferSize),
		UserID:      userID,
		Username:    c.GetString("username"),
		ClientIP:    c.ClientIP(),
		Hub:         h,
		ConnectedAt: now,
		LastPing:    now,
	}

	client.Hub.register <- client

	go client.writePump()
	go client.readPump()
}

// readPump pumps messages from the websocket connection to the hub
//
// The application runs readPump in a per-connection goroutine. The application
// ensures that there is at most one reader on a connection by executing all
// reads from this goroutine.
func (c *Client) readPump() {
	defer func() {
		c.Hub.unregister <- c
		c.conn.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.LastPing = time.Now()
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, message, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				c.Hub.logger.Error().
					Err(err).
					Str("user_id", c.UserID).
					Msg("WebSocket connection closed unexpectedly")
			}
			break
		}

		c.handleMessage(message)
	}
}

// writePump pumps messages from the hub to the websocket connection
//
// A goroutine running writePump is started for each connection. The
// application ensures that there is at most one writer to a connection by
// executing all writes from this goroutine.
func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.Send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				// The hub closed the channel
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}

			// um evento por frame: o cliente faz JSON.parse de cada mensagem
			if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
				return
			}

		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// handleMessage processes incoming messages from the client
func (c *Client) handleMessage(data []byte) {
	var msg Message
	if err := json.Unmarshal(data, &msg); err != nil {
		c.Hub.logger.Debug().
			Err(err).
			Str("user_id", c.UserID).
			Msg("Failed to unmarshal client message")
		return
	}

	switch msg.Type {
	case "ping":
		c.SendMessage(Message{
			Type:      "pong",
			Timestamp: time.Now(),
		})

	default:
		c.Hub.logger.Debug().
			Str("user_id", c.UserID).
			Str("message_type", msg.Type).
			Msg("Unknown message type received from client")
	}
}

type sendResult int

const (
	sendQueued sendResult = iota
	sendFull
	sendClosed
)

// enqueue coloca data no buffer sem bloquear. Depois de closeSend nada mais
// é enviado ao canal.
func (c *Client) enqueue(data []byte) sendResult {
	c.sendMu.Lock()
	defer c.sendMu.Unlock()

	if c.closed {
		return sendClosed
	}
	select {
	case c.Send <- data:
		return sendQueued
	default:
		return sendFull
	}
}

// closeSend fecha Send uma única vez
func (c *Client) closeSend() {
	c.sendMu.Lock()
	defer c.sendMu.Unlock()

	if !c.closed {
		c.closed = true
		close(c.Send)
	}
}

// SendMessage envia uma mensagem só para esta conexão. Se o buffer estiver
// cheio a mensagem é descartada; se o hub já removeu o cliente, é ignorada.
func (c *Client) SendMessage(message interface{}) {
	data, err := json.Marshal(message)
	if err != nil {
		c.Hub.logger.Error().
			Err(err).
			Str("user_id", c.UserID).
			Msg("Failed to marshal message for client")
		return
	}

	switch c.enqueue(data) {
	case sendFull:
		c.Hub.logger.Warn().
			Str("user_id", c.UserID).
			Msg("Client send channel is full, dropping message")
	case sendClosed:
		c.Hub.logger.Debug().
			Str("user_id", c.UserID).
			Msg("Client already removed, dropping message")
	}
}
