package warzone

import "fmt"

// Executor drains the players' order queues and applies them to the map.
type Executor struct {
	gs   *GameState
	odds CombatOdds
	rng  Rand
	bus  *Bus
}

// NewExecutor creates an Executor over gs. A nil bus discards events.
func NewExecutor(gs *GameState, odds CombatOdds, rng Rand, bus *Bus) *Executor {
	if bus == nil {
		bus = &Bus{}
	}
	return &Executor{gs: gs, odds: odds, rng: rng, bus: bus}
}

// ExecuteAll applies every queued order. Players take turns: one order from the
// first player's queue, then one from the next, cycling until all queues are
// empty. Orders whose preconditions no longer hold are dropped with a
// stale_order_drop event. Players who conquered a territory draw a card once
// all orders have run. Returns the number of orders applied.
func (x *Executor) ExecuteAll() int {
	applied := 0
	for {
		progressed := false
		for _, p := range x.gs.Players {
			o, ok := p.NextOrder()
			if !ok {
				continue
			}
			progressed = true
			if err := x.execute(p, o); err != nil {
				x.emit(Event{Kind: EventStaleOrderDrop, Player: p.Name, Order: &o, Message: err.Error()})
				continue
			}
			applied++
		}
		if !progressed {
			break
		}
	}
	for _, p := range x.gs.Players {
		if p.ConqueredThisTurn {
			card := drawCard(p, x.rng)
			x.emit(Event{Kind: EventCardAwarded, Player: p.Name, Card: card})
		}
	}
	return applied
}

func (x *Executor) emit(e Event) {
	e.Turn = x.gs.Turn
	e.Phase = x.gs.Phase
	x.bus.Emit(e)
}

func stale(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrStaleOrder, fmt.Sprintf(format, args...))
}

func (x *Executor) execute(p *Player, o Order) error {
	switch o.Type {
	case OrderDeploy:
		return x.deploy(p, o)
	case OrderAdvance:
		return x.advance(p, o)
	case OrderBomb:
		return x.bomb(p, o)
	case OrderBlockade:
		return x.blockade(p, o)
	case OrderAirlift:
		return x.airlift(p, o)
	case OrderNegotiate:
		return x.negotiate(p, o)
	default:
		return stale("unknown order type %d", o.Type)
	}
}

// owned returns the named territory if p still owns it.
func (x *Executor) owned(p *Player, name string) (*Territory, error) {
	t, err := x.gs.Map.Territory(name)
	if err != nil {
		return nil, stale("%s no longer exists", name)
	}
	if t.Owner != p.Name {
		return nil, stale("%s no longer owns %s", p.Name, name)
	}
	return t, nil
}

func (x *Executor) deploy(p *Player, o Order) error {
	t, err := x.owned(p, o.Target)
	if err != nil {
		return err
	}
	t.Armies += o.Armies
	x.emit(Event{Kind: EventOrderExecuted, Player: p.Name, Order: &o})
	return nil
}

func (x *Executor) advance(p *Player, o Order) error {
	src, err := x.owned(p, o.Source)
	if err != nil {
		return err
	}
	if o.Armies > src.Armies {
		return stale("only %d armies left on %s", src.Armies, o.Source)
	}
	dst, err := x.gs.Map.Territory(o.Target)
	if err != nil {
		return stale("%s no longer exists", o.Target)
	}

	if dst.Owner == p.Name {
		src.Armies -= o.Armies
		dst.Armies += o.Armies
		x.emit(Event{Kind: EventOrderExecuted, Player: p.Name, Order: &o})
		return nil
	}
	if dst.Owner != Neutral && p.HasTruceWith(dst.Owner) {
		return stale("truce between %s and %s", p.Name, dst.Owner)
	}

	src.Armies -= o.Armies
	report := ResolveCombat(o.Armies, dst.Armies, x.odds, x.rng)
	report.Attacker = p.Name
	report.Defender = dst.Owner
	report.From = o.Source
	report.To = o.Target
	if report.Captured {
		dst.Owner = p.Name
		dst.Armies = report.Survivors()
		p.ConqueredThisTurn = true
	} else {
		dst.Armies -= report.DefenderLosses
	}
	x.emit(Event{Kind: EventCombatResolved, Player: p.Name, Order: &o, Combat: &report})
	x.emit(Event{Kind: EventOrderExecuted, Player: p.Name, Order: &o})
	return nil
}

func (x *Executor) bomb(p *Player, o Order) error {
	t, err := x.gs.Map.Territory(o.Target)
	if err != nil {
		return stale("%s no longer exists", o.Target)
	}
	if t.Owner == p.Name {
		return stale("%s now owns %s", p.Name, o.Target)
	}
	if t.Owner != Neutral && p.HasTruceWith(t.Owner) {
		return stale("truce between %s and %s", p.Name, t.Owner)
	}
	t.Armies /= 2
	x.emit(Event{Kind: EventOrderExecuted, Player: p.Name, Order: &o})
	return nil
}

func (x *Executor) blockade(p *Player, o Order) error {
	t, err := x.owned(p, o.Target)
	if err != nil {
		return err
	}
	t.Armies *= 3
	t.Owner = Neutral
	x.emit(Event{Kind: EventOrderExecuted, Player: p.Name, Order: &o})
	return nil
}

func (x *Executor) airlift(p *Player, o Order) error {
	src, err := x.owned(p, o.Source)
	if err != nil {
		return err
	}
	dst, err := x.owned(p, o.Target)
	if err != nil {
		return err
	}
	if o.Armies > src.Armies {
		return stale("only %d armies left on %s", src.Armies, o.Source)
	}
	src.Armies -= o.Armies
	dst.Armies += o.Armies
	x.emit(Event{Kind: EventOrderExecuted, Player: p.Name, Order: &o})
	return nil
}

func (x *Executor) negotiate(p *Player, o Order) error {
	other := x.gs.Player(o.Other)
	if other == nil {
		return stale("player %s left the game", o.Other)
	}
	p.truces[other.Name] = true
	other.truces[p.Name] = true
	x.emit(Event{Kind: EventOrderExecuted, Player: p.Name, Order: &o})
	return nil
}
