package service

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/Mina-Awadalla-92/SEON-6441-sub001/internal/logger"
	"github.com/Mina-Awadalla-92/SEON-6441-sub001/internal/model"
	"github.com/Mina-Awadalla-92/SEON-6441-sub001/pkg/warzone"
)

// Session is a warzone.Sink that records one engine's game. Events are
// numbered densely from 1 and written to the history store in batches each
// time a phase is entered or the game ends. A store failure is logged and
// kept for Err; it never interrupts the game.
type Session struct {
	ID string

	ctx    context.Context
	svc    *GameService
	engine *warzone.Engine
	log    zerolog.Logger

	seq     int64
	pending []model.EventRecord
	seated  bool
	err     error

	mu     sync.RWMutex
	latest json.RawMessage
}

func newSession(ctx context.Context, id string, svc *GameService, engine *warzone.Engine) *Session {
	return &Session{
		ID:     id,
		ctx:    ctx,
		svc:    svc,
		engine: engine,
		log:    logger.ForGame(id),
	}
}

// Emit records ev. It runs on the engine's goroutine.
func (s *Session) Emit(ev warzone.Event) {
	payload, err := json.Marshal(ev)
	if err != nil {
		s.fail("marshal event", err)
		return
	}
	s.seq++
	s.pending = append(s.pending, model.EventRecord{
		GameID:    s.ID,
		Seq:       s.seq,
		Kind:      string(ev.Kind),
		Turn:      ev.Turn,
		Phase:     string(ev.Phase),
		Player:    ev.Player,
		Payload:   payload,
		CreatedAt: time.Now().UTC(),
	})
	// Queued orders stay off the live feed; the history keeps them for replay.
	if ev.Kind != warzone.EventOrderIssued {
		if s.svc.cache != nil {
			if err := s.svc.cache.PushEvent(s.ctx, s.ID, payload, s.svc.opts.RecentEvents); err != nil {
				s.fail("cache event", err)
			}
		}
		s.svc.bcast.BroadcastGameEvent(s.ID, string(ev.Kind), json.RawMessage(payload))
	}

	switch ev.Kind {
	case warzone.EventPhaseEntered:
		s.phaseEntered(ev.Phase)
	case warzone.EventGameOver:
		s.finish(ev.Outcome)
	}
}

func (s *Session) phaseEntered(phase warzone.Phase) {
	switch {
	case phase == warzone.PhaseStartup && s.svc.games != nil:
		if err := s.svc.games.SetMapName(s.ctx, s.ID, mapName(s.engine.MapPath())); err != nil {
			s.fail("set map name", err)
		}
	case phase == warzone.PhaseIssueOrder && !s.seated:
		s.seat()
	}
	s.checkpoint()
}

// seat stores the players once countries are assigned and the game goes live.
func (s *Session) seat() {
	s.seated = true
	if s.svc.games == nil {
		return
	}
	var players []model.GamePlayer
	for i, p := range s.engine.State().Players {
		gp := model.GamePlayer{GameID: s.ID, Seat: i + 1, Name: p.Name}
		if p.Strategy != nil {
			gp.Strategy = p.Strategy.Name()
		}
		players = append(players, gp)
	}
	if err := s.svc.games.SetPlayers(s.ctx, s.ID, players); err != nil {
		s.fail("set players", err)
	}
	if err := s.svc.games.SetActive(s.ctx, s.ID); err != nil {
		s.fail("set active", err)
	}
}

func (s *Session) finish(o *warzone.Outcome) {
	s.checkpoint()
	if s.svc.games != nil && o != nil {
		if err := s.svc.games.SetFinished(s.ctx, s.ID, o.Winner, o.Draw, o.Turn); err != nil {
			s.fail("set finished", err)
		}
	}
	s.log.Info().Str("winner", outcomeWinner(o)).Int("events", int(s.seq)).Msg("Game recorded")
}

// checkpoint flushes pending events and stores the current snapshot.
func (s *Session) checkpoint() {
	s.Flush()

	snap := s.engine.Snapshot()
	state, err := json.Marshal(snap)
	if err != nil {
		s.fail("marshal snapshot", err)
		return
	}
	s.mu.Lock()
	s.latest = state
	s.mu.Unlock()

	if s.svc.history != nil {
		if err := s.svc.history.SaveSnapshot(s.ctx, s.ID, snap.Turn, string(snap.Phase), state); err != nil {
			s.fail("save snapshot", err)
		}
	}
	if s.svc.cache != nil {
		if err := s.svc.cache.SetSnapshot(s.ctx, s.ID, state, s.svc.opts.SnapshotTTL); err != nil {
			s.fail("cache snapshot", err)
		}
	}
	s.svc.bcast.BroadcastGameEvent(s.ID, EventSnapshot, json.RawMessage(state))
}

// Flush writes pending events to the history store.
func (s *Session) Flush() {
	if len(s.pending) == 0 {
		return
	}
	if s.svc.history != nil {
		if err := s.svc.history.AppendEvents(s.ctx, s.pending); err != nil {
			s.fail("append events", err)
			return
		}
	}
	s.pending = nil
}

// Latest returns the snapshot taken at the last checkpoint, or nil before the first.
func (s *Session) Latest() json.RawMessage {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.latest
}

// Err returns the first store error the session hit.
func (s *Session) Err() error {
	return s.err
}

// Close flushes what is left and stops serving the session's live snapshot.
func (s *Session) Close() error {
	s.Flush()
	s.svc.release(s.ID)
	return s.err
}

func (s *Session) fail(op string, err error) {
	s.log.Error().Err(err).Str("op", op).Msg("Failed to record game")
	if s.err == nil {
		s.err = err
	}
}

func outcomeWinner(o *warzone.Outcome) string {
	if o == nil || o.Draw {
		return "draw"
	}
	return o.Winner
}

// hideOrders strips the queued order from order_issued records. The records
// themselves stay, so sequence numbers remain dense.
func hideOrders(events []model.EventRecord) error {
	for i := range events {
		if events[i].Kind != string(warzone.EventOrderIssued) {
			continue
		}
		var ev warzone.Event
		if err := json.Unmarshal(events[i].Payload, &ev); err != nil {
			return err
		}
		ev.Order = nil
		payload, err := json.Marshal(ev)
		if err != nil {
			return err
		}
		events[i].Payload = payload
	}
	return nil
}
