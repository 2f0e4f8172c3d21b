// internal/handler/websocket_types.go
package handler

import (
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"bee-counter/internal/broadcast"
)

// WebSocket message types
const (
	MessageInitialStatus   = "initial_status"
	MessagePing            = "ping"
	MessagePong            = "pong"
	MessageCommand         = "command"
	MessageCommandResponse = "command_response"
	MessageError           = "error"
)

// Client represents a WebSocket client
type Client struct {
	ID           string                  `json:"id"`
	Connection   *websocket.Conn         `json:"-"`
	Send         chan []byte             `json:"-"`
	Subscription *broadcast.Subscription `json:"-"`
	UserAgent    string                  `json:"user_agent"`
	RemoteAddr   string                  `json:"remote_addr"`
	ConnectedAt  time.Time               `json:"connected_at"`
}

// WebSocketMessage represents a WebSocket message
type WebSocketMessage struct {
	Type      string      `json:"type"`
	Data      interface{} `json:"data,omitempty"`
	Timestamp time.Time   `json:"timestamp"`
	RequestID string      `json:"request_id,omitempty"`
}

// ConnectionManager tracks connected WebSocket clients
type ConnectionManager struct {
	clients map[string]*Client
	mutex   sync.RWMutex
}

// NewConnectionManager creates a new connection manager
func NewConnectionManager() *ConnectionManager {
	return &ConnectionManager{
		clients: make(map[string]*Client),
	}
}

// Register registers a new client
func (cm *ConnectionManager) Register(client *Client) {
	cm.mutex.Lock()
	defer cm.mutex.Unlock()
	cm.clients[client.ID] = client
}

// Unregister removes a client, closing its send queue and event
// subscription. Unknown clients are ignored.
func (cm *ConnectionManager) Unregister(client *Client) {
	cm.mutex.Lock()
	defer cm.mutex.Unlock()

	if _, ok := cm.clients[client.ID]; !ok {
		return
	}
	delete(cm.clients, client.ID)
	close(client.Send)
	if client.Subscription != nil {
		client.Subscription.Close()
	}
}

// Count returns the number of connected clients
func (cm *ConnectionManager) Count() int {
	cm.mutex.RLock()
	defer cm.mutex.RUnlock()
	return len(cm.clients)
}

// GetStats returns connection statistics
func (cm *ConnectionManager) GetStats() *ConnectionStats {
	cm.mutex.RLock()
	defer cm.mutex.RUnlock()

	stats := &ConnectionStats{
		TotalConnections: len(cm.clients),
		Clients:          make([]*Client, 0, len(cm.clients)),
	}
	for _, client := range cm.clients {
		stats.Clients = append(stats.Clients, client)
	}
	return stats
}

// ConnectionStats represents connection statistics
type ConnectionStats struct {
	TotalConnections int       `json:"total_connections"`
	Clients          []*Client `json:"clients"`
}
