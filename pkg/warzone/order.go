package warzone

import "fmt"

// OrderType represents the kind of order a player can issue.
type OrderType int

const (
	OrderDeploy    OrderType = iota // Place reinforcements on an owned territory
	OrderAdvance                    // Move into a neighbor; an attack if the neighbor is hostile
	OrderBomb                       // Halve armies on an adjacent enemy territory
	OrderBlockade                   // Triple armies on an owned territory and hand it to Neutral
	OrderAirlift                    // Move armies between any two owned territories
	OrderNegotiate                  // No attacks between two players for the rest of the turn
)

func (o OrderType) String() string {
	switch o {
	case OrderDeploy:
		return "deploy"
	case OrderAdvance:
		return "advance"
	case OrderBomb:
		return "bomb"
	case OrderBlockade:
		return "blockade"
	case OrderAirlift:
		return "airlift"
	case OrderNegotiate:
		return "negotiate"
	default:
		return "unknown"
	}
}

func (o OrderType) MarshalText() ([]byte, error) {
	return []byte(o.String()), nil
}

func (o *OrderType) UnmarshalText(b []byte) error {
	for t := OrderDeploy; t <= OrderNegotiate; t++ {
		if t.String() == string(b) {
			*o = t
			return nil
		}
	}
	return fmt.Errorf("unknown order type %q", b)
}

// Order is a single instruction queued by a player.
type Order struct {
	Type   OrderType `json:"type"`
	Player string    `json:"player"`

	// Source territory (advance, airlift).
	Source string `json:"source,omitempty"`
	// Target territory (deploy, advance, bomb, blockade, airlift).
	Target string `json:"target,omitempty"`
	Armies int    `json:"armies,omitempty"`
	// Other player named by a negotiate order.
	Other string `json:"other,omitempty"`
}

// Undo is reserved for retracting a deploy before execution; it does nothing yet.
func (o *Order) Undo() {}

// Describe returns a human-readable description of the order.
func (o *Order) Describe() string {
	switch o.Type {
	case OrderDeploy:
		return fmt.Sprintf("%s deploy %d -> %s", o.Player, o.Armies, o.Target)
	case OrderAdvance:
		return fmt.Sprintf("%s advance %d %s -> %s", o.Player, o.Armies, o.Source, o.Target)
	case OrderBomb:
		return fmt.Sprintf("%s bomb %s", o.Player, o.Target)
	case OrderBlockade:
		return fmt.Sprintf("%s blockade %s", o.Player, o.Target)
	case OrderAirlift:
		return fmt.Sprintf("%s airlift %d %s -> %s", o.Player, o.Armies, o.Source, o.Target)
	case OrderNegotiate:
		return fmt.Sprintf("%s negotiate %s", o.Player, o.Other)
	default:
		return fmt.Sprintf("%s ???", o.Player)
	}
}
