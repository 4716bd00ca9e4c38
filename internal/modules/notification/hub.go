package notification

import (
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

const writeTimeout = 10 * time.Second

// client wraps a websocket connection with its write lock. The websocket
// package allows at most one concurrent writer per connection, so every
// write, data frame or ping, must hold mu.
type client struct {
	conn *websocket.Conn
	mu   sync.Mutex
}

// Hub is the live-connection registry: one websocket per user. The persisted
// notification row is the source of truth; the hub is a latency optimization
// and delivery through it is fire-and-forget.
type Hub struct {
	clients map[int64]*client
	mutex   sync.RWMutex
}

func NewHub() *Hub {
	return &Hub{
		clients: make(map[int64]*client),
	}
}

func (h *Hub) Register(userID int64, conn *websocket.Conn) {
	h.mutex.Lock()
	defer h.mutex.Unlock()

	if old, exists := h.clients[userID]; exists && old.conn != nil {
		_ = old.conn.Close()
	}

	h.clients[userID] = &client{conn: conn}
}

func (h *Hub) Unregister(userID int64) {
	h.mutex.Lock()
	defer h.mutex.Unlock()

	if c, exists := h.clients[userID]; exists {
		if c.conn != nil {
			_ = c.conn.Close()
		}
		delete(h.clients, userID)
	}
}

// Drop removes the user's entry only if it still holds the given connection,
// so a handler tearing down a replaced connection cannot evict its successor.
func (h *Hub) Drop(userID int64, conn *websocket.Conn) {
	h.mutex.Lock()
	defer h.mutex.Unlock()

	if c, exists := h.clients[userID]; exists && c.conn == conn {
		if c.conn != nil {
			_ = c.conn.Close()
		}
		delete(h.clients, userID)
	}
}

func (h *Hub) lookup(userID int64) *client {
	h.mutex.RLock()
	defer h.mutex.RUnlock()
	return h.clients[userID]
}

// SendToUser pushes a message to the user's connection if one exists. A
// write failure drops the connection; the caller gets false either way.
func (h *Hub) SendToUser(userID int64, message interface{}) bool {
	c := h.lookup(userID)
	if c == nil || c.conn == nil {
		return false
	}

	c.mu.Lock()
	_ = c.conn.SetWriteDeadline(time.Now().Add(writeTimeout))
	err := c.conn.WriteJSON(message)
	c.mu.Unlock()

	if err != nil {
		h.Unregister(userID)
		return false
	}
	return true
}

// Ping sends a ping control frame under the same write lock as SendToUser.
func (h *Hub) Ping(userID int64) bool {
	c := h.lookup(userID)
	if c == nil || c.conn == nil {
		return false
	}

	c.mu.Lock()
	err := c.conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(writeTimeout))
	c.mu.Unlock()

	if err != nil {
		h.Unregister(userID)
		return false
	}
	return true
}

func (h *Hub) IsOnline(userID int64) bool {
	h.mutex.RLock()
	defer h.mutex.RUnlock()

	_, exists := h.clients[userID]
	return exists
}

func (h *Hub) OnlineCount() int {
	h.mutex.RLock()
	defer h.mutex.RUnlock()

	return len(h.clients)
}

func (h *Hub) Close() {
	h.mutex.Lock()
	defer h.mutex.Unlock()

	for userID, c := range h.clients {
		if c.conn != nil {
			_ = c.conn.Close()
		}
		delete(h.clients, userID)
	}
}
