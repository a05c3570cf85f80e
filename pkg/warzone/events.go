package warzone

// EventKind names something the engine did.
type EventKind string

const (
	EventPhaseEntered   EventKind = "phase_entered"
	EventPhaseExited    EventKind = "phase_exited"
	EventOrderIssued    EventKind = "order_issued"
	EventOrderExecuted  EventKind = "order_executed"
	EventCombatResolved EventKind = "combat_resolved"
	EventStaleOrderDrop EventKind = "stale_order_drop"
	EventCardAwarded    EventKind = "card_awarded"
	EventGameOver       EventKind = "game_over"
	EventDiagnostic     EventKind = "diagnostic"
)

// Event is emitted to every registered sink.
type Event struct {
	Kind    EventKind     `json:"kind"`
	Turn    int           `json:"turn"`
	Phase   Phase         `json:"phase"`
	Player  string        `json:"player,omitempty"`
	Order   *Order        `json:"order,omitempty"`
	Card    CardKind      `json:"card,omitempty"`
	Message string        `json:"message,omitempty"`
	Combat  *CombatReport `json:"combat,omitempty"`
	Outcome *Outcome      `json:"outcome,omitempty"`
}

// Sink receives engine events. Sinks run synchronously on the engine's goroutine.
type Sink interface {
	Emit(Event)
}

// SinkFunc adapts a function to a Sink.
type SinkFunc func(Event)

func (f SinkFunc) Emit(e Event) { f(e) }

// Bus fans events out to its sinks in registration order.
type Bus struct {
	sinks []Sink
}

// Subscribe registers a sink.
func (b *Bus) Subscribe(s Sink) {
	b.sinks = append(b.sinks, s)
}

// Emit delivers e to every sink.
func (b *Bus) Emit(e Event) {
	for _, s := range b.sinks {
		s.Emit(e)
	}
}
