package repository

import (
	"context"
	"encoding/json"
	"time"

	"github.com/Mina-Awadalla-92/SEON-6441-sub001/internal/model"
)

// GameRepository defines game and player data operations.
type GameRepository interface {
	Create(ctx context.Context, id, mapName string) (*model.Game, error)
	FindByID(ctx context.Context, id string) (*model.Game, error)
	ListRecent(ctx context.Context, limit int) ([]model.Game, error)
	SetPlayers(ctx context.Context, gameID string, players []model.GamePlayer) error
	SetMapName(ctx context.Context, gameID, mapName string) error
	SetActive(ctx context.Context, gameID string) error
	SetFinished(ctx context.Context, gameID, winner string, draw bool, turns int) error
	Delete(ctx context.Context, gameID string) error
}

// HistoryRepository defines turn snapshot and event log operations.
type HistoryRepository interface {
	SaveSnapshot(ctx context.Context, gameID string, turn int, phase string, state json.RawMessage) error
	LatestSnapshot(ctx context.Context, gameID string) (*model.TurnSnapshot, error)
	ListSnapshots(ctx context.Context, gameID string) ([]model.TurnSnapshot, error)
	AppendEvents(ctx context.Context, events []model.EventRecord) error
	ListEvents(ctx context.Context, gameID string, afterSeq int64, limit int) ([]model.EventRecord, error)
}

// SnapshotCache defines live game state operations (Redis).
type SnapshotCache interface {
	SetSnapshot(ctx context.Context, gameID string, state json.RawMessage, ttl time.Duration) error
	GetSnapshot(ctx context.Context, gameID string) (json.RawMessage, error)
	PushEvent(ctx context.Context, gameID string, event json.RawMessage, keep int64) error
	RecentEvents(ctx context.Context, gameID string, n int64) ([]json.RawMessage, error)
	DeleteGame(ctx context.Context, gameID string) error
}
