package warzone

import (
	"errors"
	"fmt"
	"io/fs"
	"slices"
	"strconv"
	"strings"
)

// clause is one -add/-remove group of an edit command.
type clause struct {
	op   string
	args []string
}

// parseClauses splits "-add a b -remove c" into clauses, checking arity before
// anything is applied. extra, if set, allows -add to take one optional trailing
// argument that does not start with '-'.
func parseClauses(args []string, addArity, removeArity int, extra bool) ([]clause, error) {
	if len(args) == 0 {
		return nil, usagef("expected -add or -remove")
	}
	var out []clause
	for i := 0; i < len(args); {
		op := strings.ToLower(args[i])
		var n int
		switch op {
		case "-add":
			n = addArity
		case "-remove":
			n = removeArity
		default:
			return nil, usagef("unexpected %q, expected -add or -remove", args[i])
		}
		if i+1+n > len(args) {
			return nil, usagef("%s needs %d argument(s)", op, n)
		}
		c := clause{op: op, args: args[i+1 : i+1+n]}
		i += 1 + n
		if extra && op == "-add" && i < len(args) && !strings.HasPrefix(args[i], "-") {
			c.args = append(c.args[:n:n], args[i])
			i++
		}
		for _, a := range c.args {
			if strings.HasPrefix(a, "-") {
				return nil, usagef("%s argument %q looks like an option", op, a)
			}
		}
		out = append(out, c)
	}
	return out, nil
}

func parseArmies(s string) (int, error) {
	n, err := strconv.Atoi(s)
	if err != nil || n <= 0 {
		return 0, usagef("army count %q must be a positive integer", s)
	}
	return n, nil
}

func (e *Engine) cmdEditMap(_ *Player, args []string) (Result, error) {
	if len(args) != 1 {
		return Result{}, usagef("editmap <file>")
	}
	m, err := LoadMapFile(args[0])
	if errors.Is(err, fs.ErrNotExist) {
		e.gs.Map = NewMap()
		e.mapPath = args[0]
		return Result{Message: "new map " + args[0]}, nil
	}
	if err != nil {
		return Result{}, err
	}
	e.gs.Map = m
	e.mapPath = args[0]
	return Result{Message: fmt.Sprintf("editing %s (%d territories)", args[0], m.TerritoryCount())}, nil
}

func (e *Engine) cmdLoadMap(_ *Player, args []string) (Result, error) {
	if len(args) != 1 {
		return Result{}, usagef("loadmap <file>")
	}
	m, err := LoadMapFile(args[0])
	if err != nil {
		return Result{}, err
	}
	e.gs.Map = m
	e.mapPath = args[0]
	msg := fmt.Sprintf("loaded %s (%d territories)", args[0], m.TerritoryCount())
	if err := Validate(m).Err(); err != nil {
		msg += ", " + err.Error()
	} else {
		msg += ", map is valid"
	}
	return Result{Message: msg}, nil
}

func (e *Engine) cmdSaveMap(_ *Player, args []string) (Result, error) {
	path := e.mapPath
	if len(args) == 1 {
		path = args[0]
	} else if len(args) > 1 || path == "" {
		return Result{}, usagef("savemap <file>")
	}
	if err := Validate(e.gs.Map).Err(); err != nil {
		return Result{}, err
	}
	if err := SaveMapFile(path, e.gs.Map); err != nil {
		return Result{}, err
	}
	e.mapPath = path
	return Result{Message: "saved " + path}, nil
}

// editMap applies fn to a copy of the map and keeps the copy only if every
// clause succeeded. A duplicate name still marks the live map as non-unique.
func (e *Engine) editMap(fn func(m *Map) error) error {
	work := e.gs.Map.Clone()
	if err := fn(work); err != nil {
		if work.nonUnique {
			e.gs.Map.nonUnique = true
		}
		return err
	}
	e.gs.Map = work
	return nil
}

func (e *Engine) cmdEditContinent(_ *Player, args []string) (Result, error) {
	clauses, err := parseClauses(args, 2, 1, false)
	if err != nil {
		return Result{}, err
	}
	err = e.editMap(func(m *Map) error {
		for _, c := range clauses {
			if c.op == "-remove" {
				if err := m.RemoveContinent(c.args[0]); err != nil {
					return err
				}
				continue
			}
			bonus, err := strconv.Atoi(c.args[1])
			if err != nil {
				return usagef("continent bonus %q must be an integer", c.args[1])
			}
			if err := m.AddContinent(c.args[0], bonus); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return Result{}, err
	}
	return Result{Message: fmt.Sprintf("%d continent edit(s) applied", len(clauses))}, nil
}

func (e *Engine) cmdEditCountry(_ *Player, args []string) (Result, error) {
	clauses, err := parseClauses(args, 2, 1, false)
	if err != nil {
		return Result{}, err
	}
	err = e.editMap(func(m *Map) error {
		for _, c := range clauses {
			var err error
			if c.op == "-add" {
				err = m.AddTerritory(c.args[0], c.args[1])
			} else {
				err = m.RemoveTerritory(c.args[0])
			}
			if err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return Result{}, err
	}
	return Result{Message: fmt.Sprintf("%d country edit(s) applied", len(clauses))}, nil
}

func (e *Engine) cmdEditNeighbor(_ *Player, args []string) (Result, error) {
	clauses, err := parseClauses(args, 2, 2, false)
	if err != nil {
		return Result{}, err
	}
	err = e.editMap(func(m *Map) error {
		for _, c := range clauses {
			var err error
			if c.op == "-add" {
				err = m.AddNeighbor(c.args[0], c.args[1])
			} else {
				err = m.RemoveNeighbor(c.args[0], c.args[1])
			}
			if err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return Result{}, err
	}
	return Result{Message: fmt.Sprintf("%d neighbor edit(s) applied", len(clauses))}, nil
}

func (e *Engine) cmdValidateMap(_ *Player, args []string) (Result, error) {
	if len(args) != 0 {
		return Result{}, usagef("validatemap takes no arguments")
	}
	if err := Validate(e.gs.Map).Err(); err != nil {
		return Result{}, err
	}
	return Result{Message: "map is valid"}, nil
}

func (e *Engine) cmdShowMap(_ *Player, _ []string) (Result, error) {
	return Result{Show: ShowMap}, nil
}

func (e *Engine) cmdShowCards(_ *Player, _ []string) (Result, error) {
	return Result{Show: ShowCards}, nil
}

// cmdGamePlayer applies its clauses to a copy of the seat list, so a bad
// clause leaves the players as they were.
func (e *Engine) cmdGamePlayer(_ *Player, args []string) (Result, error) {
	clauses, err := parseClauses(args, 1, 1, true)
	if err != nil {
		return Result{}, err
	}
	players := slices.Clone(e.gs.Players)
	for _, c := range clauses {
		name := c.args[0]
		i := slices.IndexFunc(players, func(p *Player) bool { return p.Name == name })
		if c.op == "-remove" {
			if i < 0 {
				return Result{}, fmt.Errorf("%w: %s", ErrUnknownPlayer, name)
			}
			players = slices.Delete(players, i, i+1)
			continue
		}
		if i >= 0 {
			return Result{}, fmt.Errorf("%w: player %s", ErrDuplicateName, name)
		}
		p := NewPlayer(name)
		if len(c.args) == 2 {
			s, err := StrategyByName(c.args[1])
			if err != nil {
				return Result{}, err
			}
			p.Strategy = s
		}
		players = append(players, p)
	}
	e.gs.Players = players
	return Result{Message: "players: " + strings.Join(e.gs.PlayerNames(), ", ")}, nil
}

func (e *Engine) cmdStartGame(_ *Player, args []string) (Result, error) {
	if len(args) != 0 {
		return Result{}, usagef("startgame takes no arguments")
	}
	if err := Validate(e.gs.Map).Err(); err != nil {
		return Result{}, err
	}
	if len(e.gs.Players) < 2 {
		return Result{}, usagef("at least 2 players are required, have %d", len(e.gs.Players))
	}
	e.transition(PhaseStartup)
	return Result{Message: "game started, assign countries to begin"}, nil
}

// cmdAssignCountries deals territories round-robin in declaration order, one
// army each, and opens the first turn.
func (e *Engine) cmdAssignCountries(_ *Player, args []string) (Result, error) {
	if len(args) != 0 {
		return Result{}, usagef("assigncountries takes no arguments")
	}
	if len(e.gs.Players) < 2 {
		return Result{}, usagef("at least 2 players are required, have %d", len(e.gs.Players))
	}
	for i, t := range e.gs.Map.Territories() {
		t.Owner = e.gs.Players[i%len(e.gs.Players)].Name
		t.Armies = 1
	}
	e.beginTurn()
	return Result{Message: fmt.Sprintf("assigned %d territories to %d players", e.gs.Map.TerritoryCount(), len(e.gs.Players))}, nil
}

func (e *Engine) issue(o Order) (Result, error) {
	if err := e.gs.Issue(o); err != nil {
		return Result{}, err
	}
	e.emit(Event{Kind: EventOrderIssued, Player: o.Player, Order: &o})
	e.finishIssuing()
	return Result{Message: "queued: " + o.Describe()}, nil
}

func (e *Engine) cmdDeploy(p *Player, args []string) (Result, error) {
	if len(args) != 2 {
		return Result{}, usagef("deploy <territory> <armies>")
	}
	n, err := parseArmies(args[1])
	if err != nil {
		return Result{}, err
	}
	return e.issue(Order{Type: OrderDeploy, Player: p.Name, Target: args[0], Armies: n})
}

func (e *Engine) cmdAdvance(p *Player, args []string) (Result, error) {
	if len(args) != 3 {
		return Result{}, usagef("advance <from> <to> <armies>")
	}
	n, err := parseArmies(args[2])
	if err != nil {
		return Result{}, err
	}
	return e.issue(Order{Type: OrderAdvance, Player: p.Name, Source: args[0], Target: args[1], Armies: n})
}

func (e *Engine) cmdBomb(p *Player, args []string) (Result, error) {
	if len(args) != 1 {
		return Result{}, usagef("bomb <territory>")
	}
	return e.issue(Order{Type: OrderBomb, Player: p.Name, Target: args[0]})
}

func (e *Engine) cmdBlockade(p *Player, args []string) (Result, error) {
	if len(args) != 1 {
		return Result{}, usagef("blockade <territory>")
	}
	return e.issue(Order{Type: OrderBlockade, Player: p.Name, Target: args[0]})
}

func (e *Engine) cmdAirlift(p *Player, args []string) (Result, error) {
	if len(args) != 3 {
		return Result{}, usagef("airlift <from> <to> <armies>")
	}
	n, err := parseArmies(args[2])
	if err != nil {
		return Result{}, err
	}
	return e.issue(Order{Type: OrderAirlift, Player: p.Name, Source: args[0], Target: args[1], Armies: n})
}

func (e *Engine) cmdNegotiate(p *Player, args []string) (Result, error) {
	if len(args) != 1 {
		return Result{}, usagef("negotiate <player>")
	}
	return e.issue(Order{Type: OrderNegotiate, Player: p.Name, Other: args[0]})
}

func (e *Engine) cmdCommit(p *Player, _ []string) (Result, error) {
	p.Committed = true
	e.finishIssuing()
	return Result{Message: p.Name + " committed"}, nil
}

func (e *Engine) cmdExecuteOrders(_ *Player, args []string) (Result, error) {
	if len(args) != 0 {
		return Result{}, usagef("executeorders takes no arguments")
	}
	n := e.executeOrders()
	return Result{Message: fmt.Sprintf("executed %d order(s)", n)}, nil
}
