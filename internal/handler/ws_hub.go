package handler

import (
	"encoding/json"
	"sync"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"

	"github.com/Mina-Awadalla-92/SEON-6441-sub001/internal/service"
)

var _ service.Broadcaster = (*Hub)(nil)

// Event types sent over WebSocket besides the engine's own event kinds.
const (
	EventConnected = "connected"
	EventSnapshot  = "snapshot"
	EventBacklog   = "backlog"
)

// WSEvent is the envelope for all WebSocket messages.
type WSEvent struct {
	Type   string `json:"type"`
	GameID string `json:"game_id"`
	Data   any    `json:"data"`
}

// WSConn wraps a spectator's WebSocket connection. A connection watches
// exactly the game its token was issued for.
type WSConn struct {
	conn   *websocket.Conn
	viewer string
	gameID string
	send   chan []byte
}

// Hub manages spectator connections grouped by game.
type Hub struct {
	mu          sync.RWMutex
	connections map[*WSConn]bool
	games       map[string]map[*WSConn]bool // gameID -> set of connections
}

// NewHub creates a new Hub.
func NewHub() *Hub {
	return &Hub{
		connections: make(map[*WSConn]bool),
		games:       make(map[string]map[*WSConn]bool),
	}
}

// Register adds a connection to the hub and subscribes it to its game.
func (h *Hub) Register(c *WSConn) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.connections[c] = true
	if h.games[c.gameID] == nil {
		h.games[c.gameID] = make(map[*WSConn]bool)
	}
	h.games[c.gameID][c] = true
}

// Unregister removes a connection from the hub and closes its send channel.
func (h *Hub) Unregister(c *WSConn) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if !h.connections[c] {
		return
	}
	delete(h.connections, c)
	if conns, ok := h.games[c.gameID]; ok {
		delete(conns, c)
		if len(conns) == 0 {
			delete(h.games, c.gameID)
		}
	}
	close(c.send)
}

// BroadcastGameEvent wraps data in a WSEvent for every spectator of gameID.
func (h *Hub) BroadcastGameEvent(gameID string, eventType string, data any) {
	h.BroadcastToGame(gameID, WSEvent{Type: eventType, GameID: gameID, Data: data})
}

// BroadcastToGame sends an event to all connections watching a game.
// Slow spectators drop messages rather than hold up the game.
func (h *Hub) BroadcastToGame(gameID string, event WSEvent) {
	data, err := json.Marshal(event)
	if err != nil {
		log.Error().Err(err).Str("gameId", gameID).Msg("Failed to marshal WebSocket event")
		return
	}

	h.mu.RLock()
	defer h.mu.RUnlock()

	for c := range h.games[gameID] {
		select {
		case c.send <- data:
		default:
			log.Warn().Str("viewer", c.viewer).Str("gameId", gameID).Msg("Dropping WebSocket message, buffer full")
		}
	}
}

// sendTo queues an event for one connection.
func (h *Hub) sendTo(c *WSConn, event WSEvent) {
	data, err := json.Marshal(event)
	if err != nil {
		log.Error().Err(err).Str("gameId", c.gameID).Msg("Failed to marshal WebSocket event")
		return
	}
	h.mu.RLock()
	defer h.mu.RUnlock()
	if !h.connections[c] {
		return
	}
	select {
	case c.send <- data:
	default:
	}
}

// ConnectionCount returns the total number of active connections.
func (h *Hub) ConnectionCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.connections)
}

// GameSubscriberCount returns the number of connections watching a game.
func (h *Hub) GameSubscriberCount(gameID string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.games[gameID])
}
