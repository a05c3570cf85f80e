package warzone

import "fmt"

// ValidateOrder checks whether o may be issued given the current state.
// Returns nil if valid, or an *OrderValidationError describing the problem.
func ValidateOrder(o Order, gs *GameState) error {
	p := gs.Player(o.Player)
	if p == nil {
		return &OrderValidationError{o, "no such player"}
	}

	switch o.Type {
	case OrderDeploy:
		return validateDeploy(o, p, gs)
	case OrderAdvance:
		return validateAdvance(o, p, gs)
	case OrderBomb:
		return validateBomb(o, p, gs)
	case OrderBlockade:
		return validateBlockade(o, p, gs)
	case OrderAirlift:
		return validateAirlift(o, p, gs)
	case OrderNegotiate:
		return validateNegotiate(o, p, gs)
	default:
		return &OrderValidationError{o, "unknown order type"}
	}
}

func validateDeploy(o Order, p *Player, gs *GameState) error {
	if o.Armies <= 0 {
		return &OrderValidationError{o, "army count must be positive"}
	}
	if err := ownedBy(o, o.Target, p, gs); err != nil {
		return err
	}
	if o.Armies > p.Reinforcements {
		return &OrderValidationError{o, fmt.Sprintf("only %d reinforcements left", p.Reinforcements)}
	}
	return nil
}

func validateAdvance(o Order, p *Player, gs *GameState) error {
	if o.Armies <= 0 {
		return &OrderValidationError{o, "army count must be positive"}
	}
	if err := ownedBy(o, o.Source, p, gs); err != nil {
		return err
	}
	if _, err := gs.Map.Territory(o.Target); err != nil {
		return &OrderValidationError{o, "no territory " + o.Target}
	}
	if !gs.Map.Adjacent(o.Source, o.Target) {
		return &OrderValidationError{o, fmt.Sprintf("%s does not border %s", o.Source, o.Target)}
	}
	return movableArmies(o, p, gs)
}

func validateBomb(o Order, p *Player, gs *GameState) error {
	if p.Cards[CardBomb] == 0 {
		return &OrderValidationError{o, "no bomb card"}
	}
	t, err := gs.Map.Territory(o.Target)
	if err != nil {
		return &OrderValidationError{o, "no territory " + o.Target}
	}
	if t.Owner == p.Name {
		return &OrderValidationError{o, "cannot bomb your own territory"}
	}
	for _, n := range t.Neighbors() {
		if nt, _ := gs.Map.Territory(n); nt != nil && nt.Owner == p.Name {
			return nil
		}
	}
	return &OrderValidationError{o, o.Target + " does not border any of your territories"}
}

func validateBlockade(o Order, p *Player, gs *GameState) error {
	if p.Cards[CardBlockade] == 0 {
		return &OrderValidationError{o, "no blockade card"}
	}
	return ownedBy(o, o.Target, p, gs)
}

func validateAirlift(o Order, p *Player, gs *GameState) error {
	if p.Cards[CardAirlift] == 0 {
		return &OrderValidationError{o, "no airlift card"}
	}
	if o.Armies <= 0 {
		return &OrderValidationError{o, "army count must be positive"}
	}
	if o.Source == o.Target {
		return &OrderValidationError{o, "source and target are the same territory"}
	}
	if err := ownedBy(o, o.Source, p, gs); err != nil {
		return err
	}
	if err := ownedBy(o, o.Target, p, gs); err != nil {
		return err
	}
	return movableArmies(o, p, gs)
}

func validateNegotiate(o Order, p *Player, gs *GameState) error {
	if p.Cards[CardDiplomacy] == 0 {
		return &OrderValidationError{o, "no diplomacy card"}
	}
	if o.Other == p.Name {
		return &OrderValidationError{o, "cannot negotiate with yourself"}
	}
	if gs.Player(o.Other) == nil {
		return &OrderValidationError{o, "no player " + o.Other}
	}
	return nil
}

func ownedBy(o Order, territory string, p *Player, gs *GameState) error {
	t, err := gs.Map.Territory(territory)
	if err != nil {
		return &OrderValidationError{o, "no territory " + territory}
	}
	if t.Owner != p.Name {
		return &OrderValidationError{o, fmt.Sprintf("%s is not owned by %s", territory, p.Name)}
	}
	return nil
}

// movableArmies checks o.Armies against what is on the source minus what queued
// orders already take out of it.
func movableArmies(o Order, p *Player, gs *GameState) error {
	src, _ := gs.Map.Territory(o.Source)
	free := src.Armies - p.committedFrom(o.Source)
	if o.Armies > free {
		return &OrderValidationError{o, fmt.Sprintf("only %d uncommitted armies on %s", max(free, 0), o.Source)}
	}
	return nil
}

// Issue validates o and, if valid, applies its issue-time bookkeeping (deploys
// draw from the reinforcement pool, card orders spend the card) and queues it.
func (gs *GameState) Issue(o Order) error {
	if err := ValidateOrder(o, gs); err != nil {
		return err
	}
	p := gs.Player(o.Player)
	if kind, ok := orderCards[o.Type]; ok {
		if err := spendCard(p, kind); err != nil {
			return &OrderValidationError{o, err.Error()}
		}
	}
	if o.Type == OrderDeploy {
		p.Reinforcements -= o.Armies
	}
	p.Enqueue(o)
	return nil
}
