package websocket

import (
	"encoding/json"
	"log/slog"
	"sync"
)

// Message is a real-time refresh notification sent to every connected
// dashboard. Clients treat any message as a cue to refetch, so the
// payload only says what moved.
type Message struct {
	Type    string   `json:"type"`
	ChoreID string   `json:"choreId,omitempty"`
	Date    string   `json:"date,omitempty"`
	Latched []string `json:"latched,omitempty"`
	Cleared []string `json:"cleared,omitempty"`
}

// ChoreChanged builds the notification for a single chore mutation:
// completed, skipped, undone, claimed, saved, or deleted.
func ChoreChanged(action, choreID string) Message {
	return Message{Type: "chore_" + action, ChoreID: choreID}
}

// SweepChanged builds the notification for a cron sweep that latched or
// cleared chores.
func SweepChanged(date string, latched, cleared []string) Message {
	return Message{Type: "cron_sweep", Date: date, Latched: latched, Cleared: cleared}
}

// Hub maintains the set of active WebSocket clients and broadcasts
// messages to all of them.
type Hub struct {
	mu      sync.RWMutex
	clients map[*Client]struct{}
	logger  *slog.Logger
}

// NewHub creates a new Hub.
func NewHub(logger *slog.Logger) *Hub {
	return &Hub{
		clients: make(map[*Client]struct{}),
		logger:  logger,
	}
}

// Register adds a client to the hub.
func (h *Hub) Register(c *Client) {
	h.mu.Lock()
	h.clients[c] = struct{}{}
	h.mu.Unlock()
}

// Unregister removes a client from the hub and closes its send channel.
func (h *Hub) Unregister(c *Client) {
	h.mu.Lock()
	if _, ok := h.clients[c]; ok {
		delete(h.clients, c)
		close(c.send)
	}
	h.mu.Unlock()
}

// Broadcast sends a message to all connected clients.
func (h *Hub) Broadcast(msg Message) {
	data, err := json.Marshal(msg)
	if err != nil {
		h.logger.Error("marshal broadcast", "error", err)
		return
	}

	h.mu.RLock()
	defer h.mu.RUnlock()

	for c := range h.clients {
		select {
		case c.send <- data:
		default:
			// Client buffer full, drop the message instead of blocking
		}
	}
}

// ClientCount returns the number of connected clients.
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}
