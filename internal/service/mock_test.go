package service

import (
	"context"
	"encoding/json"
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/Mina-Awadalla-92/SEON-6441-sub001/internal/model"
)

type mockGameRepo struct {
	games   map[string]*model.Game
	players map[string][]model.GamePlayer
}

func newMockGameRepo() *mockGameRepo {
	return &mockGameRepo{
		games:   make(map[string]*model.Game),
		players: make(map[string][]model.GamePlayer),
	}
}

func (m *mockGameRepo) Create(_ context.Context, id, mapName string) (*model.Game, error) {
	g := &model.Game{ID: id, MapName: mapName, Status: model.StatusSetup, CreatedAt: time.Now()}
	m.games[id] = g
	return g, nil
}

func (m *mockGameRepo) FindByID(_ context.Context, id string) (*model.Game, error) {
	g, ok := m.games[id]
	if !ok {
		return nil, nil
	}
	cp := *g
	cp.Players = m.players[id]
	return &cp, nil
}

func (m *mockGameRepo) ListRecent(_ context.Context, limit int) ([]model.Game, error) {
	var result []model.Game
	for _, g := range m.games {
		result = append(result, *g)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID < result[j].ID })
	if len(result) > limit {
		result = result[:limit]
	}
	return result, nil
}

func (m *mockGameRepo) SetPlayers(_ context.Context, gameID string, players []model.GamePlayer) error {
	m.players[gameID] = players
	return nil
}

func (m *mockGameRepo) SetMapName(_ context.Context, gameID, mapName string) error {
	if g, ok := m.games[gameID]; ok {
		g.MapName = mapName
	}
	return nil
}

func (m *mockGameRepo) SetActive(_ context.Context, gameID string) error {
	if g, ok := m.games[gameID]; ok {
		g.Status = model.StatusActive
	}
	return nil
}

func (m *mockGameRepo) SetFinished(_ context.Context, gameID, winner string, draw bool, turns int) error {
	if g, ok := m.games[gameID]; ok {
		g.Status = model.StatusFinished
		g.Winner = winner
		g.Draw = draw
		g.Turns = turns
	}
	return nil
}

func (m *mockGameRepo) Delete(_ context.Context, gameID string) error {
	delete(m.games, gameID)
	delete(m.players, gameID)
	return nil
}

type mockHistoryRepo struct {
	snapshots []model.TurnSnapshot
	events    []model.EventRecord
	failWith  error
}

func (m *mockHistoryRepo) SaveSnapshot(_ context.Context, gameID string, turn int, phase string, state json.RawMessage) error {
	if m.failWith != nil {
		return m.failWith
	}
	m.snapshots = append(m.snapshots, model.TurnSnapshot{
		ID:     int64(len(m.snapshots) + 1),
		GameID: gameID,
		Turn:   turn,
		Phase:  phase,
		State:  state,
	})
	return nil
}

func (m *mockHistoryRepo) LatestSnapshot(_ context.Context, gameID string) (*model.TurnSnapshot, error) {
	for i := len(m.snapshots) - 1; i >= 0; i-- {
		if m.snapshots[i].GameID == gameID {
			s := m.snapshots[i]
			return &s, nil
		}
	}
	return nil, nil
}

func (m *mockHistoryRepo) ListSnapshots(_ context.Context, gameID string) ([]model.TurnSnapshot, error) {
	var out []model.TurnSnapshot
	for _, s := range m.snapshots {
		if s.GameID == gameID {
			out = append(out, s)
		}
	}
	return out, nil
}

func (m *mockHistoryRepo) AppendEvents(_ context.Context, events []model.EventRecord) error {
	if m.failWith != nil {
		return m.failWith
	}
	m.events = append(m.events, events...)
	return nil
}

func (m *mockHistoryRepo) ListEvents(_ context.Context, gameID string, afterSeq int64, limit int) ([]model.EventRecord, error) {
	var out []model.EventRecord
	for _, e := range m.events {
		if e.GameID == gameID && e.Seq > afterSeq && len(out) < limit {
			out = append(out, e)
		}
	}
	return out, nil
}

type mockCache struct {
	snapshots map[string]json.RawMessage
	events    map[string][]json.RawMessage
}

func newMockCache() *mockCache {
	return &mockCache{
		snapshots: make(map[string]json.RawMessage),
		events:    make(map[string][]json.RawMessage),
	}
}

func (m *mockCache) SetSnapshot(_ context.Context, gameID string, state json.RawMessage, _ time.Duration) error {
	m.snapshots[gameID] = state
	return nil
}

func (m *mockCache) GetSnapshot(_ context.Context, gameID string) (json.RawMessage, error) {
	return m.snapshots[gameID], nil
}

func (m *mockCache) PushEvent(_ context.Context, gameID string, event json.RawMessage, keep int64) error {
	evs := append(m.events[gameID], event)
	if keep > 0 && int64(len(evs)) > keep {
		evs = evs[int64(len(evs))-keep:]
	}
	m.events[gameID] = evs
	return nil
}

func (m *mockCache) RecentEvents(_ context.Context, gameID string, n int64) ([]json.RawMessage, error) {
	evs := m.events[gameID]
	if int64(len(evs)) > n {
		evs = evs[int64(len(evs))-n:]
	}
	return evs, nil
}

func (m *mockCache) DeleteGame(_ context.Context, gameID string) error {
	delete(m.snapshots, gameID)
	delete(m.events, gameID)
	return nil
}

type broadcastCall struct {
	gameID    string
	eventType string
}

type recordingBroadcaster struct {
	mu    sync.Mutex
	calls []broadcastCall
}

func (b *recordingBroadcaster) BroadcastGameEvent(gameID, eventType string, _ any) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.calls = append(b.calls, broadcastCall{gameID, eventType})
}

func (b *recordingBroadcaster) count(eventType string) int {
	b.mu.Lock()
	defer b.mu.Unlock()
	n := 0
	for _, c := range b.calls {
		if c.eventType == eventType {
			n++
		}
	}
	return n
}

var errStoreDown = errors.New("store down")
