// internal/handler/websocket_handler.go
package handler

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"slices"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"bee-counter/internal/config"
	"bee-counter/internal/model"
	"bee-counter/internal/service"
	"bee-counter/internal/utils"
)

const (
	pingPeriod     = 54 * time.Second
	readDeadline   = 60 * time.Second
	writeDeadline  = 10 * time.Second
	commandTimeout = 10 * time.Second
)

// WebSocketHandler streams reader events to WebSocket clients
type WebSocketHandler struct {
	upgrader       websocket.Upgrader
	connections    *ConnectionManager
	monitorService *service.MonitorService
	logger         *utils.ServiceLogger
}

// NewWebSocketHandler creates a new WebSocket handler
func NewWebSocketHandler(
	monitorService *service.MonitorService,
	security *config.SecurityConfig,
	logger *zap.Logger,
) *WebSocketHandler {
	allowed := security.AllowedOrigins

	upgrader := websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin: func(r *http.Request) bool {
			origin := r.Header.Get("Origin")
			return origin == "" || len(allowed) == 0 ||
				slices.Contains(allowed, "*") || slices.Contains(allowed, origin)
		},
	}

	return &WebSocketHandler{
		upgrader:       upgrader,
		connections:    NewConnectionManager(),
		monitorService: monitorService,
		logger:         utils.NewServiceLogger(logger, "websocket-handler"),
	}
}

// HandleStateConnection streams state and session_ended events. The reader
// status is sent first as initial_status.
func (h *WebSocketHandler) HandleStateConnection(c *gin.Context) {
	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.logger.Error("Failed to upgrade WebSocket connection", zap.Error(err))
		return
	}

	client := &Client{
		ID:           uuid.New().String(),
		Connection:   conn,
		Send:         make(chan []byte, 64),
		Subscription: h.monitorService.Subscribe(),
		UserAgent:    c.Request.UserAgent(),
		RemoteAddr:   c.Request.RemoteAddr,
		ConnectedAt:  time.Now(),
	}

	// written before the pumps start so it always precedes events
	if err := h.writeJSON(conn, &WebSocketMessage{
		Type:      MessageInitialStatus,
		Data:      h.monitorService.Status(),
		Timestamp: time.Now(),
		RequestID: c.GetString(utils.RequestIDKey),
	}); err != nil {
		h.logger.Warn("Failed to send initial status", zap.Error(err), zap.String("client_id", client.ID))
		client.Subscription.Close()
		conn.Close()
		return
	}

	h.connections.Register(client)
	h.logger.Info("State WebSocket client connected",
		zap.String("client_id", client.ID),
		zap.String("remote_addr", client.RemoteAddr),
		zap.Int("clients", h.connections.Count()),
	)

	go h.handleClientRead(client)
	go h.handleClientWrite(client)
}

// handleClientRead handles reading messages from WebSocket client
func (h *WebSocketHandler) handleClientRead(client *Client) {
	defer func() {
		h.connections.Unregister(client)
		client.Connection.Close()
		h.logger.Info("State WebSocket client disconnected",
			zap.String("client_id", client.ID),
			zap.Uint64("dropped_events", client.Subscription.Dropped()),
		)
	}()

	client.Connection.SetReadDeadline(time.Now().Add(readDeadline))
	client.Connection.SetPongHandler(func(string) error {
		client.Connection.SetReadDeadline(time.Now().Add(readDeadline))
		return nil
	})

	for {
		_, messageBytes, err := client.Connection.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				h.logger.Error("WebSocket read error",
					zap.Error(err),
					zap.String("client_id", client.ID),
				)
			}
			break
		}

		var message WebSocketMessage
		if err := json.Unmarshal(messageBytes, &message); err != nil {
			h.sendError(client, "invalid message")
			continue
		}

		h.handleClientMessage(client, &message)
	}
}

// handleClientWrite forwards queued replies and broadcaster events
func (h *WebSocketHandler) handleClientWrite(client *Client) {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		client.Connection.Close()
	}()

	events := client.Subscription.Events()
	for {
		select {
		case message, ok := <-client.Send:
			client.Connection.SetWriteDeadline(time.Now().Add(writeDeadline))
			if !ok {
				client.Connection.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := client.Connection.WriteMessage(websocket.TextMessage, message); err != nil {
				h.logger.Error("WebSocket write error",
					zap.Error(err),
					zap.String("client_id", client.ID),
				)
				return
			}

		case event, ok := <-events:
			if !ok {
				// broadcaster shut down
				client.Connection.SetWriteDeadline(time.Now().Add(writeDeadline))
				client.Connection.WriteMessage(websocket.CloseMessage,
					websocket.FormatCloseMessage(websocket.CloseGoingAway, "shutting down"))
				return
			}
			if err := h.writeJSON(client.Connection, eventMessage(event)); err != nil {
				h.logger.Error("WebSocket write error",
					zap.Error(err),
					zap.String("client_id", client.ID),
				)
				return
			}

		case <-ticker.C:
			client.Connection.SetWriteDeadline(time.Now().Add(writeDeadline))
			if err := client.Connection.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// handleClientMessage handles incoming client messages
func (h *WebSocketHandler) handleClientMessage(client *Client, message *WebSocketMessage) {
	switch message.Type {
	case MessagePing:
		h.sendMessage(client, &WebSocketMessage{
			Type:      MessagePong,
			Timestamp: time.Now(),
			RequestID: message.RequestID,
		})
	case MessageCommand:
		h.handleCommand(client, message)
	default:
		h.logger.Warn("Unknown message type",
			zap.String("type", message.Type),
			zap.String("client_id", client.ID),
		)
		h.sendError(client, fmt.Sprintf("unknown message type: %s", message.Type))
	}
}

// handleCommand runs start, stop and status commands. Commands run on the
// read goroutine so replies are queued in request order.
func (h *WebSocketHandler) handleCommand(client *Client, message *WebSocketMessage) {
	data, ok := message.Data.(map[string]interface{})
	if !ok {
		h.sendError(client, "invalid command data")
		return
	}
	command, ok := data["command"].(string)
	if !ok {
		h.sendError(client, "command is required")
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), commandTimeout)
	defer cancel()

	var status *model.ReaderStatus
	var err error

	switch command {
	case "start":
		status, err = h.monitorService.Start(ctx)
	case "stop":
		status, err = h.monitorService.Stop(ctx)
	case "status":
		s := h.monitorService.Status()
		status = &s
	default:
		h.sendError(client, fmt.Sprintf("unknown command: %s", command))
		return
	}

	result := map[string]interface{}{
		"command": command,
		"success": err == nil,
	}
	if status != nil {
		result["result"] = status
	}
	if err != nil {
		result["error"] = err.Error()
	}

	h.sendMessage(client, &WebSocketMessage{
		Type:      MessageCommandResponse,
		Data:      result,
		Timestamp: time.Now(),
		RequestID: message.RequestID,
	})
}

// sendMessage queues a message for the write pump
func (h *WebSocketHandler) sendMessage(client *Client, message *WebSocketMessage) {
	messageBytes, err := json.Marshal(message)
	if err != nil {
		h.logger.Error("Failed to marshal WebSocket message", zap.Error(err))
		return
	}

	select {
	case client.Send <- messageBytes:
	default:
		h.logger.Warn("Client send channel full, dropping message",
			zap.String("client_id", client.ID),
		)
	}
}

// sendError sends an error message to a client
func (h *WebSocketHandler) sendError(client *Client, errorMsg string) {
	h.sendMessage(client, &WebSocketMessage{
		Type: MessageError,
		Data: map[string]interface{}{
			"error": errorMsg,
		},
		Timestamp: time.Now(),
	})
}

func (h *WebSocketHandler) writeJSON(conn *websocket.Conn, message *WebSocketMessage) error {
	conn.SetWriteDeadline(time.Now().Add(writeDeadline))
	return conn.WriteJSON(message)
}

// GetConnectionStats returns connection statistics
func (h *WebSocketHandler) GetConnectionStats() *ConnectionStats {
	return h.connections.GetStats()
}

// GetStats lists connected WebSocket clients
// @Summary WebSocket clients
// @Description List clients connected to the state stream
// @Tags WebSocket
// @Produce json
// @Success 200 {object} utils.APIResponse{data=ConnectionStats} "Connection stats retrieved"
// @Router /ws/stats [get]
func (h *WebSocketHandler) GetStats(c *gin.Context) {
	utils.SuccessResponse(c, http.StatusOK, "Connection stats retrieved", h.GetConnectionStats())
}

// eventMessage wraps a broadcaster event; the message type is the event type
func eventMessage(event model.Event) *WebSocketMessage {
	return &WebSocketMessage{
		Type:      string(event.Type),
		Data:      event,
		Timestamp: event.Timestamp,
	}
}
