package handler

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/TheBugSlayer11/Skill-Swap-Platform/internal/broker"
	"github.com/TheBugSlayer11/Skill-Swap-Platform/pkg/logger"
	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

const (
	maxSessionLifetime = 15 * time.Minute
	writeWait          = 10 * time.Second // Time allowed to write a message to the peer
	pongWait           = 60 * time.Second
	pingPeriod         = (pongWait * 9) / 10
	maxMessageSize     = 4 * 1024
	clientBuffer       = 32
)

// WSResponse is a frame sent to stream clients.
type WSResponse struct {
	Type  string        `json:"type"` // "event", "session_expired"
	Event *broker.Event `json:"event,omitempty"`
	Error string        `json:"error,omitempty"`
}

// EventStreamHandler pushes committed swap and admin events to the users they
// concern over a WebSocket.
type EventStreamHandler struct {
	broker  broker.EventBroker
	clients map[*streamClient]struct{}
	mu      sync.RWMutex
}

type streamClient struct {
	conn        *websocket.Conn
	userID      string
	send        chan WSResponse
	connectedAt time.Time
}

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true // CORS middleware already restricts origins
	},
}

func NewEventStreamHandler(b broker.EventBroker) *EventStreamHandler {
	return &EventStreamHandler{
		broker:  b,
		clients: make(map[*streamClient]struct{}),
	}
}

// Run forwards broker events to connected clients until ctx is done.
func (h *EventStreamHandler) Run(ctx context.Context) error {
	events, err := h.broker.Subscribe(ctx)
	if err != nil {
		return err
	}

	go func() {
		for evt := range events {
			h.dispatch(evt)
		}
		logger.Log.Info("Event stream stopped")
	}()
	return nil
}

// dispatch queues evt for every client it concerns. Slow clients drop events
// rather than blocking the others.
func (h *EventStreamHandler) dispatch(evt broker.Event) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	for client := range h.clients {
		if !evt.Concerns(client.userID) {
			continue
		}
		e := evt
		select {
		case client.send <- WSResponse{Type: "event", Event: &e}:
		default:
			logger.Log.Warn("Dropping event for slow stream client",
				zap.String("user_id", client.userID),
				zap.String("event_id", evt.ID),
			)
		}
	}
}

// HandleStream GET /api/ws/events
func (h *EventStreamHandler) HandleStream(c *gin.Context) {
	userID := c.GetString("user_id")
	if userID == "" {
		respondBadRequest(c, "missing user identity")
		return
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		logger.Log.Warn("Failed to upgrade connection", zap.String("user_id", userID), zap.Error(err))
		return
	}

	client := &streamClient{
		conn:        conn,
		userID:      userID,
		send:        make(chan WSResponse, clientBuffer),
		connectedAt: time.Now(),
	}
	h.addClient(client)
	defer h.removeClient(client)

	done := make(chan struct{})
	go h.writePump(client, done)
	h.readPump(client)
	close(done)
}

// readPump only drains control frames; the stream is server-to-client.
func (h *EventStreamHandler) readPump(client *streamClient) {
	client.conn.SetReadLimit(maxMessageSize)
	_ = client.conn.SetReadDeadline(time.Now().Add(pongWait))
	client.conn.SetPongHandler(func(string) error {
		return client.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		if _, _, err := client.conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				logger.Log.Warn("WebSocket error", zap.String("user_id", client.userID), zap.Error(err))
			}
			return
		}
	}
}

func (h *EventStreamHandler) writePump(client *streamClient, done <-chan struct{}) {
	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()

	sessionTimer := time.NewTimer(maxSessionLifetime)
	defer sessionTimer.Stop()

	for {
		select {
		case msg := <-client.send:
			_ = client.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := client.conn.WriteJSON(msg); err != nil {
				logger.Log.Warn("Failed to write event", zap.String("user_id", client.userID), zap.Error(err))
				_ = client.conn.Close()
				return
			}

		case <-ticker.C:
			_ = client.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := client.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				_ = client.conn.Close()
				return
			}

		case <-sessionTimer.C:
			h.closeGracefully(client, "session expired after 15 minutes")
			return

		case <-done:
			return
		}
	}
}

func (h *EventStreamHandler) closeGracefully(client *streamClient, reason string) {
	_ = client.conn.SetWriteDeadline(time.Now().Add(writeWait))
	_ = client.conn.WriteJSON(WSResponse{Type: "session_expired", Error: reason})

	_ = client.conn.SetWriteDeadline(time.Now().Add(writeWait))
	_ = client.conn.WriteMessage(
		websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, reason),
	)
	_ = client.conn.Close()
}

func (h *EventStreamHandler) addClient(client *streamClient) {
	h.mu.Lock()
	h.clients[client] = struct{}{}
	total := len(h.clients)
	h.mu.Unlock()

	logger.Log.Info("Stream client connected", zap.String("user_id", client.userID), zap.Int("total", total))
}

func (h *EventStreamHandler) removeClient(client *streamClient) {
	h.mu.Lock()
	delete(h.clients, client)
	remaining := len(h.clients)
	h.mu.Unlock()

	_ = client.conn.Close()
	logger.Log.Info("Stream client disconnected",
		zap.String("user_id", client.userID),
		zap.Duration("session", time.Since(client.connectedAt).Round(time.Second)),
		zap.Int("remaining", remaining),
	)
}

// ConnectedClients reports how many stream clients are attached.
func (h *EventStreamHandler) ConnectedClients() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}
