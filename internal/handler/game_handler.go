package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/Mina-Awadalla-92/SEON-6441-sub001/internal/auth"
	"github.com/Mina-Awadalla-92/SEON-6441-sub001/internal/logger"
	"github.com/Mina-Awadalla-92/SEON-6441-sub001/internal/service"
)

// GameHandler serves recorded games to spectators.
type GameHandler struct {
	gameSvc *service.GameService
}

// NewGameHandler creates a GameHandler.
func NewGameHandler(gameSvc *service.GameService) *GameHandler {
	return &GameHandler{gameSvc: gameSvc}
}

// ListGames handles GET /api/v1/games.
func (h *GameHandler) ListGames(w http.ResponseWriter, r *http.Request) {
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	games, err := h.gameSvc.ListGames(r.Context(), limit)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeList(w, games)
}

// GetGame handles GET /api/v1/games/{id}.
func (h *GameHandler) GetGame(w http.ResponseWriter, r *http.Request) {
	gameID, ok := authorizedGame(w, r)
	if !ok {
		return
	}
	game, err := h.gameSvc.GetGame(r.Context(), gameID)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, game)
}

// GetSnapshot handles GET /api/v1/games/{id}/snapshot.
func (h *GameHandler) GetSnapshot(w http.ResponseWriter, r *http.Request) {
	gameID, ok := authorizedGame(w, r)
	if !ok {
		return
	}
	state, err := h.gameSvc.Snapshot(r.Context(), gameID)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, state)
}

// ListSnapshots handles GET /api/v1/games/{id}/snapshots.
func (h *GameHandler) ListSnapshots(w http.ResponseWriter, r *http.Request) {
	gameID, ok := authorizedGame(w, r)
	if !ok {
		return
	}
	snaps, err := h.gameSvc.Snapshots(r.Context(), gameID)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeList(w, snaps)
}

// ListEvents handles GET /api/v1/games/{id}/events?after=N&limit=M.
func (h *GameHandler) ListEvents(w http.ResponseWriter, r *http.Request) {
	gameID, ok := authorizedGame(w, r)
	if !ok {
		return
	}
	q := r.URL.Query()
	var after int64
	if s := q.Get("after"); s != "" {
		v, err := strconv.ParseInt(s, 10, 64)
		if err != nil || v < 0 {
			writeError(w, http.StatusBadRequest, "after must be a non-negative integer")
			return
		}
		after = v
	}
	limit, _ := strconv.Atoi(q.Get("limit"))

	events, err := h.gameSvc.Events(r.Context(), gameID, after, limit)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeList(w, events)
}

func (h *GameHandler) fail(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, service.ErrGameNotFound):
		writeError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, service.ErrNoHistory):
		writeError(w, http.StatusServiceUnavailable, err.Error())
	default:
		l := logger.ForRequest(r.Context())
		l.Error().Err(err).Str("path", r.URL.Path).Msg("Game lookup failed")
		writeError(w, http.StatusInternalServerError, "internal error")
	}
}

// authorizedGame returns the path's game ID if the request's token was issued for it.
func authorizedGame(w http.ResponseWriter, r *http.Request) (string, bool) {
	gameID := r.PathValue("id")
	if gameID == "" || auth.GameIDFromContext(r.Context()) != gameID {
		writeError(w, http.StatusForbidden, auth.ErrWrongGame.Error())
		return "", false
	}
	return gameID, true
}
