package warzone

import (
	"context"
	"fmt"
	"strconv"
	"strings"
)

// Strategy plans the IssueOrder commands of a computer player. Plans are pure
// functions of the state so that seeded games replay identically.
type Strategy interface {
	Name() string
	Plan(gs *GameState, p *Player) [][]string
}

// StrategyByName returns the strategy registered under name.
func StrategyByName(name string) (Strategy, error) {
	switch strings.ToLower(name) {
	case "aggressive":
		return Aggressive{}, nil
	case "benevolent":
		return Benevolent{}, nil
	default:
		return nil, usagef("unknown strategy %q, want aggressive or benevolent", name)
	}
}

// Aggressive deploys everything on its strongest frontier territory and
// attacks that territory's weakest enemy neighbor with every army it has.
type Aggressive struct{}

func (Aggressive) Name() string { return "aggressive" }

func (Aggressive) Plan(gs *GameState, p *Player) [][]string {
	var cmds [][]string
	owned := gs.Map.OwnedBy(p.Name)
	if len(owned) == 0 {
		return nil
	}

	base := strongest(frontier(gs.Map, p.Name, owned))
	if base == nil {
		base = strongest(owned)
	}

	if target := weakestEnemyNeighbor(gs.Map, p.Name, base); target != nil {
		if p.Cards[CardBomb] > 0 && target.Armies > 1 {
			cmds = append(cmds, []string{"bomb", target.Name})
		}
		if base.Armies > 0 {
			cmds = append(cmds, []string{"advance", base.Name, target.Name, strconv.Itoa(base.Armies)})
		}
	}
	// Emptying the pool can end the round, so the deploy goes last.
	if p.Reinforcements > 0 {
		cmds = append(cmds, []string{"deploy", base.Name, strconv.Itoa(p.Reinforcements)})
	}
	return cmds
}

// Benevolent reinforces its weakest territory and never attacks. It shifts
// half of its largest stack toward a weaker owned territory.
type Benevolent struct{}

func (Benevolent) Name() string { return "benevolent" }

func (Benevolent) Plan(gs *GameState, p *Player) [][]string {
	var cmds [][]string
	owned := gs.Map.OwnedBy(p.Name)
	if len(owned) == 0 {
		return nil
	}

	weak := weakest(owned)
	if shift := benevolentShift(gs, p, weak); shift != nil {
		cmds = append(cmds, shift)
	}
	if p.Reinforcements > 0 {
		cmds = append(cmds, []string{"deploy", weak.Name, strconv.Itoa(p.Reinforcements)})
	}
	return cmds
}

// benevolentShift moves half of the largest stack toward weak, by airlift when
// a card allows it and otherwise to the weakest owned neighbor.
func benevolentShift(gs *GameState, p *Player, weak *Territory) []string {
	strong := strongest(gs.Map.OwnedBy(p.Name))
	if strong == weak || strong.Armies < 2 {
		return nil
	}
	move := strong.Armies / 2
	if p.Cards[CardAirlift] > 0 {
		return []string{"airlift", strong.Name, weak.Name, strconv.Itoa(move)}
	}
	var dst *Territory
	for _, n := range strong.Neighbors() {
		t, err := gs.Map.Territory(n)
		if err != nil || t.Owner != p.Name {
			continue
		}
		if dst == nil || t.Armies < dst.Armies {
			dst = t
		}
	}
	if dst == nil || dst.Armies >= strong.Armies-move {
		return nil
	}
	return []string{"advance", strong.Name, dst.Name, strconv.Itoa(move)}
}

// frontier returns the territories of owned that border a territory player does not own.
func frontier(m *Map, player string, owned []*Territory) []*Territory {
	var out []*Territory
	for _, t := range owned {
		for _, n := range t.Neighbors() {
			if nt, err := m.Territory(n); err == nil && nt.Owner != player {
				out = append(out, t)
				break
			}
		}
	}
	return out
}

// strongest returns the territory with the most armies, first declared on ties.
func strongest(ts []*Territory) *Territory {
	var best *Territory
	for _, t := range ts {
		if best == nil || t.Armies > best.Armies {
			best = t
		}
	}
	return best
}

// weakest returns the territory with the fewest armies, first declared on ties.
func weakest(ts []*Territory) *Territory {
	var best *Territory
	for _, t := range ts {
		if best == nil || t.Armies < best.Armies {
			best = t
		}
	}
	return best
}

func weakestEnemyNeighbor(m *Map, player string, from *Territory) *Territory {
	var best *Territory
	for _, n := range from.Neighbors() {
		t, err := m.Territory(n)
		if err != nil || t.Owner == player {
			continue
		}
		if best == nil || t.Armies < best.Armies {
			best = t
		}
	}
	return best
}

// StrategyPrompt answers prompts for computer players from their strategy and
// hands every other prompt to Fallback.
type StrategyPrompt struct {
	Fallback Prompt

	plans map[string]*plan
}

type plan struct {
	turn int
	cmds [][]string
}

// NextCommand returns the next planned command for a computer player, ending
// each turn's plan with commit.
func (s *StrategyPrompt) NextCommand(ctx context.Context, gs *GameState, player *Player) ([]string, error) {
	if player == nil || !player.IsComputer() {
		if s.Fallback == nil {
			return nil, fmt.Errorf("no prompt for %s", promptTarget(player))
		}
		return s.Fallback.NextCommand(ctx, gs, player)
	}
	if s.plans == nil {
		s.plans = make(map[string]*plan)
	}
	pl := s.plans[player.Name]
	if pl == nil || pl.turn != gs.Turn {
		cmds := player.Strategy.Plan(gs, player)
		pl = &plan{turn: gs.Turn, cmds: append(cmds, []string{"commit"})}
		s.plans[player.Name] = pl
	}
	if len(pl.cmds) == 0 {
		return []string{"commit"}, nil
	}
	next := pl.cmds[0]
	pl.cmds = pl.cmds[1:]
	return next, nil
}

func promptTarget(p *Player) string {
	if p == nil {
		return "game setup"
	}
	return p.Name
}
