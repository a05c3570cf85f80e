package warzone

import "fmt"

// CardKind identifies a playable card.
type CardKind string

const (
	CardBomb      CardKind = "bomb"
	CardBlockade  CardKind = "blockade"
	CardAirlift   CardKind = "airlift"
	CardDiplomacy CardKind = "diplomacy"
)

// AllCardKinds returns every card kind in draw order.
func AllCardKinds() []CardKind {
	return []CardKind{CardBomb, CardBlockade, CardAirlift, CardDiplomacy}
}

// drawCard gives p one card chosen with rng and returns it.
func drawCard(p *Player, rng Rand) CardKind {
	kinds := AllCardKinds()
	kind := kinds[rng.Intn(len(kinds))]
	p.Cards[kind]++
	return kind
}

// orderCards maps each card order to the card it spends.
var orderCards = map[OrderType]CardKind{
	OrderBomb:      CardBomb,
	OrderBlockade:  CardBlockade,
	OrderAirlift:   CardAirlift,
	OrderNegotiate: CardDiplomacy,
}

// spendCard consumes one card of the given kind.
func spendCard(p *Player, kind CardKind) error {
	if p.Cards[kind] <= 0 {
		return fmt.Errorf("%s has no %s card", p.Name, kind)
	}
	p.Cards[kind]--
	if p.Cards[kind] == 0 {
		delete(p.Cards, kind)
	}
	return nil
}
