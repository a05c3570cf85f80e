package handler

import (
	"net/http"

	"github.com/Mina-Awadalla-92/SEON-6441-sub001/internal/auth"
	"github.com/Mina-Awadalla-92/SEON-6441-sub001/internal/middleware"
	"github.com/Mina-Awadalla-92/SEON-6441-sub001/internal/service"
)

// NewRouter wires the read-only spectator API.
func NewRouter(gameSvc *service.GameService, hub *Hub, jwtMgr *auth.JWTManager, origins []string) http.Handler {
	gameHandler := NewGameHandler(gameSvc)
	wsHandler := NewWSHandler(hub, jwtMgr, gameSvc, origins)

	mux := http.NewServeMux()
	authMw := auth.Middleware(jwtMgr)

	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{
			"status":     "ok",
			"spectators": hub.ConnectionCount(),
		})
	})

	api := http.NewServeMux()
	api.HandleFunc("GET /games/{id}", gameHandler.GetGame)
	api.HandleFunc("GET /games/{id}/snapshot", gameHandler.GetSnapshot)
	api.HandleFunc("GET /games/{id}/snapshots", gameHandler.ListSnapshots)
	api.HandleFunc("GET /games/{id}/events", gameHandler.ListEvents)

	mux.HandleFunc("GET /api/v1/games", gameHandler.ListGames)
	mux.Handle("/api/v1/games/", http.StripPrefix("/api/v1", authMw(api)))
	mux.HandleFunc("GET /api/v1/games/{id}/ws", wsHandler.ServeWS)

	return middleware.Chain(mux, middleware.Logger, middleware.CORS(origins...), middleware.JSON)
}
