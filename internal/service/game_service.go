package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/Mina-Awadalla-92/SEON-6441-sub001/internal/model"
	"github.com/Mina-Awadalla-92/SEON-6441-sub001/internal/repository"
	"github.com/Mina-Awadalla-92/SEON-6441-sub001/pkg/warzone"
)

var (
	ErrGameNotFound = errors.New("game not found")
	ErrNoHistory    = errors.New("game history is not stored")
)

// EventSnapshot is the broadcast type carrying a full game snapshot.
const EventSnapshot = "snapshot"

// Options tunes how sessions are recorded.
type Options struct {
	SnapshotTTL  time.Duration // Lifetime of the cached snapshot in Redis
	RecentEvents int64         // Events kept in the cache for late joiners
}

// GameService records games played by local engines and serves their history.
// Any of the repositories may be nil, which disables that store.
type GameService struct {
	games   repository.GameRepository
	history repository.HistoryRepository
	cache   repository.SnapshotCache
	bcast   Broadcaster
	opts    Options

	mu   sync.RWMutex
	live map[string]*Session
}

// NewGameService creates a GameService.
func NewGameService(games repository.GameRepository, history repository.HistoryRepository, cache repository.SnapshotCache, bcast Broadcaster, opts Options) *GameService {
	if bcast == nil {
		bcast = NoopBroadcaster{}
	}
	if opts.SnapshotTTL <= 0 {
		opts.SnapshotTTL = 24 * time.Hour
	}
	if opts.RecentEvents <= 0 {
		opts.RecentEvents = 200
	}
	return &GameService{
		games:   games,
		history: history,
		cache:   cache,
		bcast:   bcast,
		opts:    opts,
		live:    make(map[string]*Session),
	}
}

// Start assigns a new game ID to engine and records everything it emits from
// now on. ctx bounds every store call the session makes.
func (s *GameService) Start(ctx context.Context, engine *warzone.Engine) (*Session, error) {
	id := uuid.NewString()
	if s.games != nil {
		if _, err := s.games.Create(ctx, id, mapName(engine.MapPath())); err != nil {
			return nil, fmt.Errorf("start game: %w", err)
		}
	}
	sess := newSession(ctx, id, s, engine)
	engine.Subscribe(sess)

	s.mu.Lock()
	s.live[id] = sess
	s.mu.Unlock()
	return sess, nil
}

func (s *GameService) release(id string) {
	s.mu.Lock()
	delete(s.live, id)
	s.mu.Unlock()
}

// GetGame returns a recorded game with its players.
func (s *GameService) GetGame(ctx context.Context, id string) (*model.Game, error) {
	if s.games == nil {
		return nil, ErrNoHistory
	}
	g, err := s.games.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if g == nil {
		return nil, ErrGameNotFound
	}
	return g, nil
}

// ListGames returns the most recent games.
func (s *GameService) ListGames(ctx context.Context, limit int) ([]model.Game, error) {
	if s.games == nil {
		return nil, ErrNoHistory
	}
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	return s.games.ListRecent(ctx, limit)
}

// Snapshot returns the latest known state of a game, looking at sessions
// running in this process first, then the cache, then the history store.
func (s *GameService) Snapshot(ctx context.Context, id string) (json.RawMessage, error) {
	s.mu.RLock()
	sess := s.live[id]
	s.mu.RUnlock()
	if sess != nil {
		if state := sess.Latest(); state != nil {
			return state, nil
		}
	}
	if s.cache != nil {
		state, err := s.cache.GetSnapshot(ctx, id)
		if err != nil {
			return nil, err
		}
		if state != nil {
			return state, nil
		}
	}
	if s.history != nil {
		snap, err := s.history.LatestSnapshot(ctx, id)
		if err != nil {
			return nil, err
		}
		if snap != nil {
			return snap.State, nil
		}
	}
	return nil, ErrGameNotFound
}

// Events returns recorded events with a sequence number above afterSeq.
// Until the game is known to be finished, issued orders come without their
// contents.
func (s *GameService) Events(ctx context.Context, id string, afterSeq int64, limit int) ([]model.EventRecord, error) {
	if s.history == nil {
		return nil, ErrNoHistory
	}
	if limit <= 0 || limit > 1000 {
		limit = 200
	}
	events, err := s.history.ListEvents(ctx, id, afterSeq, limit)
	if err != nil {
		return nil, err
	}
	done, err := s.finished(ctx, id)
	if err != nil {
		return nil, err
	}
	if !done {
		if err := hideOrders(events); err != nil {
			return nil, err
		}
	}
	return events, nil
}

// finished reports whether the game is recorded as over. Games still running
// in this process, or with no game store to ask, count as unfinished.
func (s *GameService) finished(ctx context.Context, id string) (bool, error) {
	s.mu.RLock()
	_, live := s.live[id]
	s.mu.RUnlock()
	if live || s.games == nil {
		return false, nil
	}
	g, err := s.games.FindByID(ctx, id)
	if err != nil {
		return false, err
	}
	return g != nil && g.Status == model.StatusFinished, nil
}

// Snapshots returns every recorded snapshot of a game, oldest first, for
// turn-by-turn replay.
func (s *GameService) Snapshots(ctx context.Context, id string) ([]model.TurnSnapshot, error) {
	if s.history == nil {
		return nil, ErrNoHistory
	}
	snaps, err := s.history.ListSnapshots(ctx, id)
	if err != nil {
		return nil, err
	}
	if len(snaps) == 0 {
		return nil, ErrGameNotFound
	}
	return snaps, nil
}

// RecentEvents returns up to n of the newest cached events, oldest first.
// Without a cache it returns nothing.
func (s *GameService) RecentEvents(ctx context.Context, id string, n int64) ([]json.RawMessage, error) {
	if s.cache == nil {
		return nil, nil
	}
	if n <= 0 || n > s.opts.RecentEvents {
		n = s.opts.RecentEvents
	}
	return s.cache.RecentEvents(ctx, id, n)
}

// DeleteGame removes a game from every store.
func (s *GameService) DeleteGame(ctx context.Context, id string) error {
	if s.cache != nil {
		if err := s.cache.DeleteGame(ctx, id); err != nil {
			return err
		}
	}
	if s.games != nil {
		return s.games.Delete(ctx, id)
	}
	return nil
}

func mapName(path string) string {
	if path == "" {
		return ""
	}
	return filepath.Base(path)
}
