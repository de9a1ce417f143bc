package realtime

import (
	"encoding/json"
	"log"
	"sync"
	"time"
)

// Client represents a single websocket client connection.
// The actual network conn is managed in the ws handler.
type Client interface {
	Send(message []byte) bool
	Close()
}

// CountEvent is pushed to every client after a successful refresh.
type CountEvent struct {
	Type     string `json:"type"`
	Count    int64  `json:"count"`
	PolledAt int64  `json:"polledAt"`
}

const (
	EventCountSnapshot = "count_snapshot"
	EventCountUpdated  = "count_updated"
)

// Hub keeps the connected live-count clients.
type Hub struct {
	mu      sync.RWMutex
	clients map[Client]struct{}
}

func NewHub() *Hub {
	return &Hub{clients: make(map[Client]struct{})}
}

func (h *Hub) Register(client Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.clients[client] = struct{}{}
}

func (h *Hub) Unregister(client Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	delete(h.clients, client)
}

// Len is the number of connected clients.
func (h *Hub) Len() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// Broadcast hands message to every client. Client.Send is expected to queue
// rather than write; clients that refuse the message are left for their
// handler to clean up. The hub lock is not held while sending.
func (h *Hub) Broadcast(message []byte) {
	for _, c := range h.snapshot() {
		c.Send(message)
	}
}

func (h *Hub) snapshot() []Client {
	h.mu.RLock()
	defer h.mu.RUnlock()
	clients := make([]Client, 0, len(h.clients))
	for c := range h.clients {
		clients = append(clients, c)
	}
	return clients
}

// CountUpdated broadcasts a count_updated event.
func (h *Hub) CountUpdated(count int64, at time.Time) {
	b, err := json.Marshal(CountEvent{Type: EventCountUpdated, Count: count, PolledAt: at.Unix()})
	if err != nil {
		log.Printf("realtime: marshal count event: %v", err)
		return
	}
	h.Broadcast(b)
}
