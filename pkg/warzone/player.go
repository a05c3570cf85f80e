package warzone

import "sort"

// Neutral is the owner of territories no player holds.
const Neutral = ""

// Player is a participant in the game.
type Player struct {
	Name              string
	Reinforcements    int
	Cards             map[CardKind]int
	ConqueredThisTurn bool // Entitles the player to one card at the end of the turn
	Committed         bool // Player has finished issuing orders this turn
	Strategy          Strategy

	orders []Order
	truces map[string]bool
}

// NewPlayer creates a human-controlled player.
func NewPlayer(name string) *Player {
	return &Player{
		Name:   name,
		Cards:  make(map[CardKind]int),
		truces: make(map[string]bool),
	}
}

// IsComputer reports whether a strategy issues this player's orders.
func (p *Player) IsComputer() bool {
	return p.Strategy != nil
}

// doneIssuing reports whether the player has committed or has no
// reinforcements left to deploy.
func (p *Player) doneIssuing() bool {
	return p.Committed || p.Reinforcements == 0
}

// Enqueue appends an order to the player's queue.
func (p *Player) Enqueue(o Order) {
	p.orders = append(p.orders, o)
}

// NextOrder removes and returns the oldest queued order.
func (p *Player) NextOrder() (Order, bool) {
	if len(p.orders) == 0 {
		return Order{}, false
	}
	o := p.orders[0]
	p.orders = p.orders[1:]
	return o, true
}

// PendingOrders returns a copy of the queued orders, oldest first.
func (p *Player) PendingOrders() []Order {
	out := make([]Order, len(p.orders))
	copy(out, p.orders)
	return out
}

// HasTruceWith reports whether a negotiate order between p and other is in force.
func (p *Player) HasTruceWith(other string) bool {
	return p.truces[other]
}

// CardList returns the held cards, one entry per card, sorted by kind.
func (p *Player) CardList() []CardKind {
	var out []CardKind
	for kind, n := range p.Cards {
		for i := 0; i < n; i++ {
			out = append(out, kind)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// resetTurn clears the per-turn flags before a new round of orders.
func (p *Player) resetTurn() {
	p.ConqueredThisTurn = false
	p.Committed = false
	clear(p.truces)
}

// committedFrom counts armies that queued orders will take out of territory.
func (p *Player) committedFrom(territory string) int {
	n := 0
	for _, o := range p.orders {
		if (o.Type == OrderAdvance || o.Type == OrderAirlift) && o.Source == territory {
			n += o.Armies
		}
	}
	return n
}
