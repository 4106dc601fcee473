package ws

import (
	"sync"

	"go.uber.org/zap"
)

// Hub tracks the active WebSocket clients. Views deliver snapshots straight
// to their own client, so the hub's job is lifecycle: registration,
// connection counting and draining everything at shutdown.
type Hub struct {
	log *zap.Logger

	mu      sync.Mutex
	clients map[*Client]struct{}
}

// NewHub creates an empty hub.
func NewHub(log *zap.Logger) *Hub {
	return &Hub{
		log:     log,
		clients: make(map[*Client]struct{}),
	}
}

// Register adds a connected client.
func (h *Hub) Register(c *Client) {
	h.mu.Lock()
	h.clients[c] = struct{}{}
	n := len(h.clients)
	h.mu.Unlock()
	h.log.Info("client connected", zap.String("user_id", c.userID), zap.Int("total", n))
}

// Unregister removes a client and closes its send path.
func (h *Hub) Unregister(c *Client) {
	h.mu.Lock()
	if _, ok := h.clients[c]; !ok {
		h.mu.Unlock()
		return
	}
	delete(h.clients, c)
	n := len(h.clients)
	h.mu.Unlock()

	close(c.done)
	h.log.Info("client disconnected", zap.String("user_id", c.userID), zap.Int("total", n))
}

// Len reports how many clients are connected.
func (h *Hub) Len() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients)
}

// CloseAll tears down every connected client. Used at shutdown.
func (h *Hub) CloseAll() {
	h.mu.Lock()
	clients := make([]*Client, 0, len(h.clients))
	for c := range h.clients {
		clients = append(clients, c)
	}
	h.clients = make(map[*Client]struct{})
	h.mu.Unlock()

	for _, c := range clients {
		c.teardown()
		close(c.done)
	}
}
