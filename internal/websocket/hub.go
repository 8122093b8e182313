package websocket

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/cleberrangel/houseforge-api/internal/logger"
	"github.com/cleberrangel/houseforge-api/internal/metrics"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"
)

// Tipos de evento enviados aos donos das obras
const (
	EventProjectCreated   = "project.created"
	EventProjectEstimated = "project.estimated"
	EventProjectStatus    = "project.status"
	EventProjectDeleted   = "project.deleted"
)

// Hub maintains the set of active clients and pushes project events to them
type Hub struct {
	// Registered clients by user ID
	clients map[string]map[*Client]bool

	// Register requests from the clients
	register chan *Client

	// Unregister requests from clients
	unregister chan *Client

	mutex sync.RWMutex

	// origens aceitas além do próprio host (scheme://host[:port])
	allowedOrigins map[string]bool

	upgrader websocket.Upgrader

	logger *zerolog.Logger
}

// Client is a middleman between the websocket connection and the hub
type Client struct {
	// The websocket connection
	conn *websocket.Conn

	// Buffered channel of outbound messages
	Send chan []byte

	// User identification
	UserID   string
	Username string
	ClientIP string

	// Hub reference
	Hub *Hub

	// sendMu protege closed; Send só é fechado com ele travado
	sendMu sync.Mutex
	closed bool

	// Connection metadata
	ConnectedAt time.Time
	LastPing    time.Time
}

// ProjectEvent é a notificação de uma mudança numa obra do usuário
type ProjectEvent struct {
	Type      string      `json:"type"`
	ProjectID string      `json:"project_id"`
	Data      interface{} `json:"data,omitempty"`
	Timestamp time.Time   `json:"timestamp"`
}

// Message represents a generic WebSocket message
type Message struct {
	Type      string      `json:"type"`
	Data      interface{} `json:"data,omitempty"`
	Timestamp time.Time   `json:"timestamp"`
}

const (
	// Time allowed to write a message to the peer
	writeWait = 10 * time.Second

	// Time allowed to read the next pong message from the peer
	pongWait = 60 * time.Second

	// Send pings to peer with this period. Must be less than pongWait
	pingPeriod = (pongWait * 9) / 10

	// Maximum message size allowed from peer
	maxMessageSize = 512

	sendBufferSize = 64
)

// NewHub creates a new WebSocket hub
func NewHub() *Hub {
	h := &Hub{
		clients:        make(map[string]map[*Client]bool),
		register:       make(chan *Client),
		unregister:     make(chan *Client),
		allowedOrigins: make(map[string]bool),
		logger:         logger.Global(),
	}
	h.upgrader = websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin:     h.checkOrigin,
	}
	return h
}

// AllowOrigins aceita handshakes vindos de outras origens, como o front-end
// servido em outro domínio. Chamar antes de servir conexões.
func (h *Hub) AllowOrigins(origins ...string) {
	for _, o := range origins {
		if o = strings.TrimRight(strings.TrimSpace(o), "/"); o != "" {
			h.allowedOrigins[strings.ToLower(o)] = true
		}
	}
}

// checkOrigin recusa páginas de outros sites: o cookie de sessão seguiria
// junto no handshake. Sem Origin (clientes fora do navegador) é aceito.
func (h *Hub) checkOrigin(r *http.Request) bool {
	origin := r.Header.Get("Origin")
	if origin == "" {
		return true
	}
	u, err := url.Parse(origin)
	if err != nil || u.Host == "" {
		return false
	}
	if strings.EqualFold(u.Host, r.Host) {
		return true
	}
	return h.allowedOrigins[strings.ToLower(u.Scheme+"://"+u.Host)]
}

// Run processa registros até o contexto ser cancelado; ao sair, encerra
// todas as conexões
func (h *Hub) Run(ctx context.Context) {
	for {
		select {
		case client := <-h.register:
			h.registerClient(client)

		case client := <-h.unregister:
			h.unregisterClient(client)

		case <-ctx.Done():
			h.closeAll()
			return
		}
	}
}

// registerClient registers a new client
func (h *Hub) registerClient(client *Client) {
	h.mutex.Lock()
	if h.clients[client.UserID] == nil {
		h.clients[client.UserID] = make(map[*Client]bool)
	}
	h.clients[client.UserID][client] = true
	userConnections := len(h.clients[client.UserID])
	h.mutex.Unlock()

	metrics.Get().IncrementWSConnection()
	logger.AuditWebSocket(context.Background(), logger.AuditActionWSConnect, client.UserID, client.ClientIP, map[string]interface{}{
		"user_connections": userConnections,
	})

	h.logger.Info().
		Str("user_id", client.UserID).
		Str("username", client.Username).
		Int("user_connections", userConnections).
		Msg("WebSocket client registered")

	client.SendMessage(Message{
		Type:      "connection",
		Data:      map[string]string{"status": "connected"},
		Timestamp: time.Now(),
	})
}

// unregisterClient unregisters a client
func (h *Hub) unregisterClient(client *Client) {
	h.mutex.Lock()
	removed := h.removeLocked(client)
	remaining := len(h.clients[client.UserID])
	h.mutex.Unlock()

	if !removed {
		return
	}

	logger.AuditWebSocket(context.Background(), logger.AuditActionWSDisconnect, client.UserID, client.ClientIP, map[string]interface{}{
		"duration_seconds": time.Since(client.ConnectedAt).Seconds(),
	})

	h.logger.Info().
		Str("user_id", client.UserID).
		Str("username", client.Username).
		Int("remaining_connections", remaining).
		Msg("WebSocket client unregistered")
}

// removeLocked retira o cliente e fecha seu canal. Exige h.mutex travado.
func (h *Hub) removeLocked(client *Client) bool {
	clients, ok := h.clients[client.UserID]
	if !ok || !clients[client] {
		return false
	}

	delete(clients, client)
	client.closeSend()
	metrics.Get().DecrementWSConnection()

	if len(clients) == 0 {
		delete(h.clients, client.UserID)
	}
	return true
}

func (h *Hub) closeAll() {
	h.mutex.Lock()
	defer h.mutex.Unlock()

	for _, clients := range h.clients {
		for client := range clients {
			h.removeLocked(client)
		}
	}
}

// SendToUser sends a message to all connections of a specific user.
// Conexões com o buffer cheio são descartadas.
func (h *Hub) SendToUser(userID string, message interface{}) {
	data, err := json.Marshal(message)
	if err != nil {
		h.logger.Error().
			Err(err).
			Str("user_id", userID).
			Msg("Failed to marshal message for user")
		return
	}

	h.mutex.Lock()
	defer h.mutex.Unlock()

	clients, exists := h.clients[userID]
	if !exists {
		h.logger.Debug().
			Str("user_id", userID).
			Msg("No WebSocket connections found for user")
		return
	}

	for client := range clients {
		switch client.enqueue(data) {
		case sendQueued:
			metrics.Get().IncrementWSMessageOut()
		case sendFull:
			h.logger.Warn().
				Str("user_id", userID).
				Msg("Client send buffer full, closing connection")
			h.removeLocked(client)
		}
	}
}

// NotifyProject envia um evento de obra a todas as conexões do dono
func (h *Hub) NotifyProject(ownerID, eventType, projectID string, data interface{}) {
	h.SendToUser(ownerID, ProjectEvent{
		Type:      eventType,
		ProjectID: projectID,
		Data:      data,
		Timestamp: time.Now(),
	})
}

// GetConnectedUsers returns a list of currently connected user IDs
func (h *Hub) GetConnectedUsers() []string {
	h.mutex.RLock()
	defer h.mutex.RUnlock()

	users := make([]string, 0, len(h.clients))
	for userID := range h.clients {
		users = append(users, userID)
	}
	return users
}

// GetConnectionCount returns the total number of active connections
func (h *Hub) GetConnectionCount() int {
	h.mutex.RLock()
	defer h.mutex.RUnlock()

	count := 0
	for _, clients := range h.clients {
		count += len(clients)
	}
	return count
}

// GetUserConnectionCount returns the number of connections for a specific user
func (h *Hub) GetUserConnectionCount(userID string) int {
	h.mutex.RLock()
	defer h.mutex.RUnlock()

	return len(h.clients[userID])
}
