package handler

import (
	"errors"
	"net/http"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/Mina-Awadalla-92/SEON-6441-sub001/internal/auth"
	"github.com/Mina-Awadalla-92/SEON-6441-sub001/internal/service"
	"github.com/gorilla/websocket"
)

const (
	writeWait   = 10 * time.Second
	pongWait    = 60 * time.Second
	pingPeriod  = 54 * time.Second // Must be less than pongWait
	maxMsgSize  = 512
	sendBufSize = 256
	backlogSize = 50
)

// WSHandler streams a game's events to spectators.
type WSHandler struct {
	hub      *Hub
	jwtMgr   *auth.JWTManager
	svc      *service.GameService
	upgrader websocket.Upgrader
}

// NewWSHandler creates a WSHandler. origins lists the allowed Origin headers;
// "*" or an empty list allows any.
func NewWSHandler(hub *Hub, jwtMgr *auth.JWTManager, svc *service.GameService, origins []string) *WSHandler {
	return &WSHandler{
		hub:    hub,
		jwtMgr: jwtMgr,
		svc:    svc,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     checkOrigin(origins),
		},
	}
}

func checkOrigin(origins []string) func(*http.Request) bool {
	return func(r *http.Request) bool {
		origin := r.Header.Get("Origin")
		if origin == "" || len(origins) == 0 {
			return true
		}
		for _, o := range origins {
			if o == "*" || o == origin {
				return true
			}
		}
		return false
	}
}

// ServeWS handles GET /api/v1/games/{id}/ws and upgrades to WebSocket.
// Auth via ?token= query parameter (WebSocket can't send headers).
func (h *WSHandler) ServeWS(w http.ResponseWriter, r *http.Request) {
	gameID := r.PathValue("id")
	claims, err := h.jwtMgr.Authorize(r.URL.Query().Get("token"), gameID)
	switch {
	case errors.Is(err, auth.ErrWrongGame):
		writeError(w, http.StatusForbidden, err.Error())
		return
	case err != nil:
		writeError(w, http.StatusUnauthorized, err.Error())
		return
	}

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Error().Err(err).Msg("WebSocket upgrade failed")
		return
	}

	client := &WSConn{
		conn:   conn,
		viewer: claims.Subject,
		gameID: gameID,
		send:   make(chan []byte, sendBufSize),
	}
	h.hub.Register(client)
	h.catchUp(r, client)

	go h.writePump(client)
	go h.readPump(client)

	log.Info().Str("viewer", client.viewer).Str("gameId", gameID).Int("total", h.hub.ConnectionCount()).Msg("Spectator connected")
}

// catchUp sends the latest snapshot and the recent event backlog so a late
// spectator does not start from an empty board.
func (h *WSHandler) catchUp(r *http.Request, c *WSConn) {
	h.hub.sendTo(c, WSEvent{Type: EventConnected, GameID: c.gameID, Data: map[string]any{}})
	if h.svc == nil {
		return
	}
	if state, err := h.svc.Snapshot(r.Context(), c.gameID); err == nil {
		h.hub.sendTo(c, WSEvent{Type: EventSnapshot, GameID: c.gameID, Data: state})
	} else if !errors.Is(err, service.ErrGameNotFound) {
		log.Warn().Err(err).Str("gameId", c.gameID).Msg("Failed to load snapshot for spectator")
	}
	backlog, err := h.svc.RecentEvents(r.Context(), c.gameID, backlogSize)
	if err != nil {
		log.Warn().Err(err).Str("gameId", c.gameID).Msg("Failed to load event backlog for spectator")
		return
	}
	if len(backlog) > 0 {
		h.hub.sendTo(c, WSEvent{Type: EventBacklog, GameID: c.gameID, Data: backlog})
	}
}

// readPump keeps the connection alive. Spectators are read-only, so anything
// they send is discarded.
func (h *WSHandler) readPump(c *WSConn) {
	defer func() {
		h.hub.Unregister(c)
		c.conn.Close()
		log.Info().Str("viewer", c.viewer).Str("gameId", c.gameID).Msg("Spectator disconnected")
	}()

	c.conn.SetReadLimit(maxMsgSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Warn().Err(err).Str("viewer", c.viewer).Msg("WebSocket unexpected close")
			}
			return
		}
	}
}

// writePump writes messages to the WebSocket connection.
func (h *WSHandler) writePump(c *WSConn) {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}

			w, err := c.conn.NextWriter(websocket.TextMessage)
			if err != nil {
				return
			}
			w.Write(message)

			// Drain queued messages into the same write
			n := len(c.send)
			for i := 0; i < n; i++ {
				w.Write([]byte("\n"))
				w.Write(<-c.send)
			}

			if err := w.Close(); err != nil {
				return
			}
		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
