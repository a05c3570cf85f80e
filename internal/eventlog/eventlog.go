// Package eventlog writes engine events as structured log lines.
package eventlog

import (
	"github.com/rs/zerolog"

	"github.com/Mina-Awadalla-92/SEON-6441-sub001/pkg/warzone"
)

// Sink logs every event it receives. Routine events go to debug, turn-level
// milestones to info, and dropped orders and diagnostics to warn.
type Sink struct {
	log zerolog.Logger
}

// New creates a Sink writing to l.
func New(l zerolog.Logger) *Sink {
	return &Sink{log: l}
}

func (s *Sink) Emit(ev warzone.Event) {
	e := s.log.WithLevel(level(ev.Kind)).
		Str("event", string(ev.Kind)).
		Int("turn", ev.Turn).
		Str("phase", string(ev.Phase))
	if ev.Player != "" {
		e = e.Str("player", ev.Player)
	}
	if ev.Order != nil {
		e = e.Str("order", ev.Order.Describe())
	}
	if ev.Card != "" {
		e = e.Str("card", string(ev.Card))
	}
	if c := ev.Combat; c != nil {
		e = e.Str("from", c.From).
			Str("to", c.To).
			Int("attackers", c.AttackingArmies).
			Int("defenders", c.DefendingArmies).
			Int("attackerLosses", c.AttackerLosses).
			Int("defenderLosses", c.DefenderLosses).
			Bool("captured", c.Captured)
	}
	if o := ev.Outcome; o != nil {
		e = e.Str("winner", o.Winner).Bool("draw", o.Draw)
	}
	e.Msg(ev.Message)
}

func level(kind warzone.EventKind) zerolog.Level {
	switch kind {
	case warzone.EventStaleOrderDrop, warzone.EventDiagnostic:
		return zerolog.WarnLevel
	case warzone.EventPhaseEntered, warzone.EventCardAwarded, warzone.EventGameOver:
		return zerolog.InfoLevel
	default:
		return zerolog.DebugLevel
	}
}
