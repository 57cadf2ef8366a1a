package realtime

import (
	"log"
	"net/http"
	"sync"

	"github.com/gorilla/websocket"
)

// Entity types and views carried in change events
const (
	EntityClients  = "clients"
	EntityInvoices = "invoices"

	ViewActive = "active"
	ViewTrash  = "trash"
)

// Event tells a subscriber that one of its listings changed and should be
// re-queried. Events carry no record data; the listing endpoints stay the
// single source of truth.
type Event struct {
	Entity string `json:"entity"`
	View   string `json:"view"`
}

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

// Hub fans change events out to a user's open websocket connections.
// Subscription lifetime is explicit: Subscribe on connect, connection
// removal on write failure or close.
type Hub struct {
	mu    sync.RWMutex
	conns map[int]map[*websocket.Conn]bool // userID -> connections
}

func NewHub() *Hub {
	return &Hub{
		conns: make(map[int]map[*websocket.Conn]bool),
	}
}

// Subscribe upgrades the request to a websocket and registers it for the
// user's change events. The read loop only drains control frames; the
// connection is removed on first read error.
func (h *Hub) Subscribe(w http.ResponseWriter, r *http.Request, userID int) error {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		return err
	}

	h.mu.Lock()
	if h.conns[userID] == nil {
		h.conns[userID] = make(map[*websocket.Conn]bool)
	}
	h.conns[userID][conn] = true
	h.mu.Unlock()

	go func() {
		defer h.remove(userID, conn)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	return nil
}

// Notify pushes a change event to every open connection of the user
func (h *Hub) Notify(userID int, entity, view string) {
	event := Event{Entity: entity, View: view}

	h.mu.RLock()
	conns := make([]*websocket.Conn, 0, len(h.conns[userID]))
	for conn := range h.conns[userID] {
		conns = append(conns, conn)
	}
	h.mu.RUnlock()

	for _, conn := range conns {
		if err := conn.WriteJSON(event); err != nil {
			log.Printf("[Realtime] Dropping connection for user %d: %v", userID, err)
			h.remove(userID, conn)
		}
	}
}

// NotifyBoth signals both the active and trash views of an entity type.
// Soft delete and restore move a record between the two views, so both
// listings change at once.
func (h *Hub) NotifyBoth(userID int, entity string) {
	h.Notify(userID, entity, ViewActive)
	h.Notify(userID, entity, ViewTrash)
}

func (h *Hub) remove(userID int, conn *websocket.Conn) {
	h.mu.Lock()
	if set, ok := h.conns[userID]; ok {
		if set[conn] {
			delete(set, conn)
			conn.Close()
		}
		if len(set) == 0 {
			delete(h.conns, userID)
		}
	}
	h.mu.Unlock()
}
