package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/Mina-Awadalla-92/SEON-6441-sub001/internal/model"
)

// GameRepo handles game and game_player database operations.
type GameRepo struct {
	db *sql.DB
}

// NewGameRepo creates a GameRepo.
func NewGameRepo(db *sql.DB) *GameRepo {
	return &GameRepo{db: db}
}

// Create inserts a new game in setup status.
func (r *GameRepo) Create(ctx context.Context, id, mapName string) (*model.Game, error) {
	var g model.Game
	err := r.db.QueryRowContext(ctx,
		`INSERT INTO games (id, map_name) VALUES ($1, $2)
		 RETURNING id, map_name, status, draw, turns, created_at`,
		id, mapName,
	).Scan(&g.ID, &g.MapName, &g.Status, &g.Draw, &g.Turns, &g.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("create game: %w", err)
	}
	return &g, nil
}

// FindByID returns a game by ID with its players, or nil if it does not exist.
func (r *GameRepo) FindByID(ctx context.Context, id string) (*model.Game, error) {
	var g model.Game
	var winner sql.NullString
	err := r.db.QueryRowContext(ctx,
		`SELECT id, map_name, status, winner, draw, turns, created_at, started_at, finished_at
		 FROM games WHERE id = $1`, id,
	).Scan(&g.ID, &g.MapName, &g.Status, &winner, &g.Draw, &g.Turns, &g.CreatedAt, &g.StartedAt, &g.FinishedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find game: %w", err)
	}
	g.Winner = winner.String

	players, err := r.ListPlayers(ctx, id)
	if err != nil {
		return nil, err
	}
	g.Players = players
	return &g, nil
}

// ListRecent returns the most recently created games without their players.
func (r *GameRepo) ListRecent(ctx context.Context, limit int) ([]model.Game, error) {
	if limit <= 0 || limit > 100 {
		limit = 50
	}
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, map_name, status, winner, draw, turns, created_at, started_at, finished_at
		 FROM games ORDER BY created_at DESC LIMIT $1`, limit)
	if err != nil {
		return nil, fmt.Errorf("list games: %w", err)
	}
	defer rows.Close()

	var games []model.Game
	for rows.Next() {
		var g model.Game
		var winner sql.NullString
		if err := rows.Scan(&g.ID, &g.MapName, &g.Status, &winner, &g.Draw, &g.Turns,
			&g.CreatedAt, &g.StartedAt, &g.FinishedAt); err != nil {
			return nil, fmt.Errorf("scan game: %w", err)
		}
		g.Winner = winner.String
		games = append(games, g)
	}
	return games, rows.Err()
}

// ListPlayers returns a game's players in seat order.
func (r *GameRepo) ListPlayers(ctx context.Context, gameID string) ([]model.GamePlayer, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT game_id, seat, name, strategy FROM game_players WHERE game_id = $1 ORDER BY seat`, gameID)
	if err != nil {
		return nil, fmt.Errorf("list players: %w", err)
	}
	defer rows.Close()

	var players []model.GamePlayer
	for rows.Next() {
		var p model.GamePlayer
		if err := rows.Scan(&p.GameID, &p.Seat, &p.Name, &p.Strategy); err != nil {
			return nil, fmt.Errorf("scan player: %w", err)
		}
		players = append(players, p)
	}
	return players, rows.Err()
}

// SetPlayers replaces the seated players of a game.
func (r *GameRepo) SetPlayers(ctx context.Context, gameID string, players []model.GamePlayer) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM game_players WHERE game_id = $1`, gameID); err != nil {
		return fmt.Errorf("clear players: %w", err)
	}
	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO game_players (game_id, seat, name, strategy) VALUES ($1, $2, $3, $4)`)
	if err != nil {
		return fmt.Errorf("prepare insert player: %w", err)
	}
	defer stmt.Close()

	for _, p := range players {
		if _, err := stmt.ExecContext(ctx, gameID, p.Seat, p.Name, p.Strategy); err != nil {
			return fmt.Errorf("insert player: %w", err)
		}
	}
	return tx.Commit()
}

// SetMapName records the map a game is played on.
func (r *GameRepo) SetMapName(ctx context.Context, gameID, mapName string) error {
	_, err := r.db.ExecContext(ctx, `UPDATE games SET map_name = $2 WHERE id = $1`, gameID, mapName)
	if err != nil {
		return fmt.Errorf("set map name: %w", err)
	}
	return nil
}

// SetActive marks a game as started.
func (r *GameRepo) SetActive(ctx context.Context, gameID string) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE games SET status = 'active', started_at = now() WHERE id = $1 AND status = 'setup'`, gameID)
	if err != nil {
		return fmt.Errorf("set game active: %w", err)
	}
	return nil
}

// SetFinished records a game's outcome.
func (r *GameRepo) SetFinished(ctx context.Context, gameID, winner string, draw bool, turns int) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE games SET status = 'finished', winner = $2, draw = $3, turns = $4, finished_at = now()
		 WHERE id = $1`, gameID, nullStr(winner), draw, turns)
	if err != nil {
		return fmt.Errorf("set game finished: %w", err)
	}
	return nil
}

// Delete removes a game and, by cascade, its players and history.
func (r *GameRepo) Delete(ctx context.Context, gameID string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM games WHERE id = $1`, gameID)
	if err != nil {
		return fmt.Errorf("delete game: %w", err)
	}
	return nil
}

func nullStr(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
