package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/lib/pq"

	"github.com/Mina-Awadalla-92/SEON-6441-sub001/internal/model"
)

// HistoryRepo stores turn snapshots and the event log of each game.
type HistoryRepo struct {
	db *sql.DB
}

// NewHistoryRepo creates a HistoryRepo.
func NewHistoryRepo(db *sql.DB) *HistoryRepo {
	return &HistoryRepo{db: db}
}

// SaveSnapshot stores the state of a game as a phase is entered.
func (r *HistoryRepo) SaveSnapshot(ctx context.Context, gameID string, turn int, phase string, state json.RawMessage) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO turn_snapshots (game_id, turn, phase, state) VALUES ($1, $2, $3, $4)`,
		gameID, turn, phase, []byte(state))
	if err != nil {
		return fmt.Errorf("save snapshot: %w", err)
	}
	return nil
}

// LatestSnapshot returns the most recent snapshot of a game, or nil if none exist.
func (r *HistoryRepo) LatestSnapshot(ctx context.Context, gameID string) (*model.TurnSnapshot, error) {
	var s model.TurnSnapshot
	var state []byte
	err := r.db.QueryRowContext(ctx,
		`SELECT id, game_id, turn, phase, state, created_at FROM turn_snapshots
		 WHERE game_id = $1 ORDER BY id DESC LIMIT 1`, gameID,
	).Scan(&s.ID, &s.GameID, &s.Turn, &s.Phase, &state, &s.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("latest snapshot: %w", err)
	}
	s.State = json.RawMessage(state)
	return &s, nil
}

// ListSnapshots returns every snapshot of a game in the order they were taken.
func (r *HistoryRepo) ListSnapshots(ctx context.Context, gameID string) ([]model.TurnSnapshot, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, game_id, turn, phase, state, created_at FROM turn_snapshots
		 WHERE game_id = $1 ORDER BY id`, gameID)
	if err != nil {
		return nil, fmt.Errorf("list snapshots: %w", err)
	}
	defer rows.Close()

	var out []model.TurnSnapshot
	for rows.Next() {
		var s model.TurnSnapshot
		var state []byte
		if err := rows.Scan(&s.ID, &s.GameID, &s.Turn, &s.Phase, &state, &s.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan snapshot: %w", err)
		}
		s.State = json.RawMessage(state)
		out = append(out, s)
	}
	return out, rows.Err()
}

// AppendEvents bulk-loads events with COPY inside a transaction.
func (r *HistoryRepo) AppendEvents(ctx context.Context, events []model.EventRecord) error {
	if len(events) == 0 {
		return nil
	}
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx,
		pq.CopyIn("game_events", "game_id", "seq", "kind", "turn", "phase", "player", "payload"))
	if err != nil {
		return fmt.Errorf("prepare copy events: %w", err)
	}
	for _, e := range events {
		if _, err := stmt.ExecContext(ctx, e.GameID, e.Seq, e.Kind, e.Turn, e.Phase, e.Player, string(e.Payload)); err != nil {
			stmt.Close()
			return fmt.Errorf("copy event %d: %w", e.Seq, err)
		}
	}
	if _, err := stmt.ExecContext(ctx); err != nil {
		stmt.Close()
		return fmt.Errorf("flush events: %w", err)
	}
	if err := stmt.Close(); err != nil {
		return fmt.Errorf("close copy: %w", err)
	}
	return tx.Commit()
}

// ListEvents returns up to limit events with seq greater than afterSeq.
func (r *HistoryRepo) ListEvents(ctx context.Context, gameID string, afterSeq int64, limit int) ([]model.EventRecord, error) {
	if limit <= 0 || limit > 1000 {
		limit = 500
	}
	rows, err := r.db.QueryContext(ctx,
		`SELECT game_id, seq, kind, turn, phase, player, payload, created_at FROM game_events
		 WHERE game_id = $1 AND seq > $2 ORDER BY seq LIMIT $3`, gameID, afterSeq, limit)
	if err != nil {
		return nil, fmt.Errorf("list events: %w", err)
	}
	defer rows.Close()

	var out []model.EventRecord
	for rows.Next() {
		var e model.EventRecord
		var payload []byte
		if err := rows.Scan(&e.GameID, &e.Seq, &e.Kind, &e.Turn, &e.Phase, &e.Player, &payload, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan event: %w", err)
		}
		e.Payload = json.RawMessage(payload)
		out = append(out, e)
	}
	return out, rows.Err()
}
