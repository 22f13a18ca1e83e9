package server

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/coder/websocket"

	"github.com/conneroisu/leaderboard/internal/logging"
	"github.com/conneroisu/leaderboard/internal/validation"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 512
	sendBuffer     = 16
)

// Client is one WebSocket connection.
type Client struct {
	conn   *websocket.Conn
	send   chan []byte
	hub    *Hub
	logger logging.Logger
}

// Hub fans update messages out to every connected client.
type Hub struct {
	clients    map[*Client]struct{}
	register   chan *Client
	unregister chan *Client
	broadcast  chan []byte
	done       chan struct{}
	mutex      sync.RWMutex
	logger     logging.Logger
}

// NewHub creates a hub. Run must be called before clients connect.
func NewHub(logger logging.Logger) *Hub {
	return &Hub{
		clients:    make(map[*Client]struct{}),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		broadcast:  make(chan []byte, sendBuffer),
		done:       make(chan struct{}),
		logger:     logger,
	}
}

// Run processes registrations and broadcasts until ctx is cancelled.
func (h *Hub) Run(ctx context.Context) {
	defer close(h.done)
	for {
		select {
		case <-ctx.Done():
			h.CloseAll()
			return

		case client := <-h.register:
			h.mutex.Lock()
			h.clients[client] = struct{}{}
			h.mutex.Unlock()
			h.logger.Debug(ctx, "client connected", "clients", h.Count())

		case client := <-h.unregister:
			h.remove(client)
			h.logger.Debug(ctx, "client disconnected", "clients", h.Count())

		case message := <-h.broadcast:
			h.mutex.RLock()
			var slow []*Client
			for client := range h.clients {
				select {
				case client.send <- message:
				default:
					slow = append(slow, client)
				}
			}
			h.mutex.RUnlock()
			for _, client := range slow {
				h.remove(client)
				_ = client.conn.Close(websocket.StatusPolicyViolation, "client too slow")
			}
		}
	}
}

// Broadcast queues message for every client. It never blocks; when the
// queue is full the message is dropped.
func (h *Hub) Broadcast(message []byte) {
	select {
	case h.broadcast <- message:
	default:
		h.logger.Warn(context.Background(), nil, "broadcast queue full, dropping update")
	}
}

// Count returns the number of connected clients.
func (h *Hub) Count() int {
	h.mutex.RLock()
	defer h.mutex.RUnlock()
	return len(h.clients)
}

// CloseAll disconnects every client.
func (h *Hub) CloseAll() {
	h.mutex.Lock()
	clients := h.clients
	h.clients = make(map[*Client]struct{})
	h.mutex.Unlock()

	for client := range clients {
		close(client.send)
		_ = client.conn.Close(websocket.StatusGoingAway, "server shutting down")
	}
}

func (h *Hub) remove(client *Client) {
	h.mutex.Lock()
	defer h.mutex.Unlock()
	if _, ok := h.clients[client]; ok {
		delete(h.clients, client)
		close(client.send)
	}
}

func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	if !s.checkOrigin(r) {
		s.logger.Warn(r.Context(), nil, "rejected websocket origin", "origin", r.Header.Get("Origin"))
		http.Error(w, "origin not allowed", http.StatusForbidden)
		return
	}

	conn, err := websocket.Accept(w, r, &websocket.AcceptOptions{
		OriginPatterns: s.config.Server.AllowedOrigins,
	})
	if err != nil {
		s.logger.Error(r.Context(), err, "websocket accept failed")
		return
	}
	conn.SetReadLimit(maxMessageSize)

	client := &Client{
		conn:   conn,
		send:   make(chan []byte, sendBuffer),
		hub:    s.hub,
		logger: s.logger,
	}

	select {
	case s.hub.register <- client:
	case <-s.hub.done:
		_ = conn.Close(websocket.StatusGoingAway, "server shutting down")
		return
	}

	// The request context ends when the handler returns, so the pumps run
	// on their own context tied to the connection lifetime.
	ctx, cancel := context.WithCancel(context.Background())
	go client.writePump(ctx, cancel)
	client.readPump(ctx, cancel)
}

// checkOrigin requires a browser Origin header matching AllowedOrigins.
func (s *Server) checkOrigin(r *http.Request) bool {
	err := validation.ValidateOrigin(r.Header.Get("Origin"), s.config.Server.AllowedOrigins)
	if err != nil {
		s.logger.Debug(r.Context(), "origin check failed", "error", err)
		return false
	}
	return true
}

// readPump drains client messages so control frames are processed. Any
// data message is ignored. Liveness is checked by the pings in writePump.
func (c *Client) readPump(ctx context.Context, cancel context.CancelFunc) {
	defer func() {
		cancel()
		select {
		case c.hub.unregister <- c:
		case <-c.hub.done:
		}
	}()

	for {
		_, _, err := c.conn.Read(ctx)
		if err != nil {
			status := websocket.CloseStatus(err)
			if status != websocket.StatusNormalClosure && status != websocket.StatusGoingAway && ctx.Err() == nil {
				c.logger.Debug(ctx, "websocket read ended", "error", err)
			}
			return
		}
	}
}

func (c *Client) writePump(ctx context.Context, cancel context.CancelFunc) {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		cancel()
		_ = c.conn.Close(websocket.StatusNormalClosure, "")
	}()

	for {
		select {
		case <-ctx.Done():
			return

		case message, ok := <-c.send:
			if !ok {
				return
			}
			writeCtx, writeCancel := context.WithTimeout(ctx, writeWait)
			err := c.conn.Write(writeCtx, websocket.MessageText, message)
			writeCancel()
			if err != nil {
				return
			}

		case <-ticker.C:
			pingCtx, pingCancel := context.WithTimeout(ctx, writeWait)
			err := c.conn.Ping(pingCtx)
			pingCancel()
			if err != nil {
				return
			}
		}
	}
}
