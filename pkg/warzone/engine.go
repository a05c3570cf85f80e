package warzone

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

// ShowKind tells the view what to render after a command.
type ShowKind int

const (
	ShowNothing ShowKind = iota
	ShowMap
	ShowCards
)

// Result is what a successful command reports back.
type Result struct {
	Command string
	Message string
	Show    ShowKind
}

// Prompt supplies the next command, already split into tokens. player is nil
// outside IssueOrder. The call blocks until a command is available.
type Prompt interface {
	NextCommand(ctx context.Context, gs *GameState, player *Player) ([]string, error)
}

// PromptFunc adapts a function to a Prompt.
type PromptFunc func(ctx context.Context, gs *GameState, player *Player) ([]string, error)

func (f PromptFunc) NextCommand(ctx context.Context, gs *GameState, player *Player) ([]string, error) {
	return f(ctx, gs, player)
}

// View presents command results. It never changes the state.
type View interface {
	Show(gs *GameState, player *Player, res Result, err error)
}

// Options configures an Engine.
type Options struct {
	// MaxTurns ends the game as a draw once that many turns have executed. Zero means no limit.
	MaxTurns int
	Odds     CombatOdds
	Rand     Rand
	// AutoExecute runs the queued orders as soon as every player has committed.
	// When false the engine waits in OrderExecution for an executeorders command.
	AutoExecute bool
}

// Engine is the phase state machine. It owns the GameState and is the only
// writer of it; callers must not share one Engine between goroutines.
type Engine struct {
	gs      *GameState
	opts    Options
	bus     *Bus
	exec    *Executor
	mapPath string
}

// NewEngine creates an engine in MapEditing with an empty map.
func NewEngine(opts Options, sinks ...Sink) (*Engine, error) {
	if opts.Odds == (CombatOdds{}) {
		opts.Odds = DefaultOdds()
	}
	if err := opts.Odds.Validate(); err != nil {
		return nil, err
	}
	if opts.MaxTurns < 0 {
		return nil, fmt.Errorf("max turns %d is negative", opts.MaxTurns)
	}
	if opts.Rand == nil {
		opts.Rand = NewRand(0)
	}
	e := &Engine{
		gs:   NewGameState(),
		opts: opts,
		bus:  &Bus{},
	}
	for _, s := range sinks {
		e.bus.Subscribe(s)
	}
	e.exec = NewExecutor(e.gs, opts.Odds, opts.Rand, e.bus)
	return e, nil
}

// State returns the game state. Callers may read it between commands.
func (e *Engine) State() *GameState {
	return e.gs
}

// Phase returns the current phase.
func (e *Engine) Phase() Phase {
	return e.gs.Phase
}

// MapPath returns the file last named by editmap, loadmap or savemap.
func (e *Engine) MapPath() string {
	return e.mapPath
}

// Subscribe registers an additional event sink.
func (e *Engine) Subscribe(s Sink) {
	e.bus.Subscribe(s)
}

// SetMap replaces the map while in MapEditing.
func (e *Engine) SetMap(m *Map) error {
	if e.gs.Phase != PhaseMapEditing {
		return &UnknownCommandError{Command: "loadmap", Phase: e.gs.Phase}
	}
	e.gs.Map = m
	return nil
}

// Handle runs one tokenized command on behalf of player (empty outside IssueOrder).
// Commands outside the current phase's whitelist fail with *UnknownCommandError
// and leave the state untouched.
func (e *Engine) Handle(player string, tokens []string) (Result, error) {
	if len(tokens) == 0 {
		return Result{}, usagef("empty command")
	}
	if e.gs.IsOver() {
		return Result{}, ErrGameOver
	}
	name := strings.ToLower(tokens[0])
	h, ok := phaseCommands[e.gs.Phase][name]
	if !ok {
		return Result{}, &UnknownCommandError{Command: name, Phase: e.gs.Phase}
	}

	var p *Player
	if e.gs.Phase == PhaseIssueOrder {
		p = e.gs.Player(player)
		if p == nil {
			return Result{}, fmt.Errorf("%w: %q", ErrUnknownPlayer, player)
		}
		if p.Committed {
			return Result{}, usagef("%s already committed this turn", p.Name)
		}
	}
	res, err := h(e, p, tokens[1:])
	res.Command = name
	return res, err
}

// CurrentPlayers returns the players the turn is still waiting on, in turn
// order: those that have neither committed nor emptied their reinforcement pool.
// Players with an empty pool may keep queueing orders until the last of these
// is done.
func (e *Engine) CurrentPlayers() []*Player {
	if e.gs.Phase != PhaseIssueOrder {
		return nil
	}
	var out []*Player
	for _, p := range e.gs.Players {
		if !p.doneIssuing() {
			out = append(out, p)
		}
	}
	return out
}

// Run drives the game until it ends, the prompt fails or ctx is canceled.
// In IssueOrder players are asked in turn order; each keeps the prompt until
// they queue an order or commit. A computer player whose command is rejected
// is committed so that a faulty strategy cannot stall the game.
func (e *Engine) Run(ctx context.Context, prompt Prompt, view View) (*Outcome, error) {
	show := func(p *Player, res Result, err error) {
		if view != nil {
			view.Show(e.gs, p, res, err)
		}
	}
	for !e.gs.IsOver() {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if e.gs.Phase != PhaseIssueOrder {
			tokens, err := prompt.NextCommand(ctx, e.gs, nil)
			if err != nil {
				return nil, err
			}
			if len(tokens) == 0 {
				continue
			}
			res, err := e.Handle("", tokens)
			show(nil, res, err)
			continue
		}

		turn := e.gs.Turn
		for _, p := range e.gs.Players {
			if p.Committed {
				continue
			}
			if err := e.promptPlayer(ctx, prompt, p, show); err != nil {
				return nil, err
			}
			if e.gs.Phase != PhaseIssueOrder || e.gs.Turn != turn {
				break
			}
		}
	}
	return e.gs.Outcome, nil
}

func (e *Engine) promptPlayer(ctx context.Context, prompt Prompt, p *Player, show func(*Player, Result, error)) error {
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		tokens, err := prompt.NextCommand(ctx, e.gs, p)
		if err != nil {
			return err
		}
		if len(tokens) == 0 {
			continue
		}
		res, err := e.Handle(p.Name, tokens)
		show(p, res, err)
		if err != nil {
			if p.IsComputer() && !errors.Is(err, ErrGameOver) {
				e.emit(Event{Kind: EventDiagnostic, Player: p.Name, Message: "strategy command rejected, committing: " + err.Error()})
				_, err = e.cmdCommit(p, nil)
				return err
			}
			continue
		}
		if res.Show == ShowNothing {
			return nil
		}
	}
}

func (e *Engine) emit(ev Event) {
	ev.Turn = e.gs.Turn
	ev.Phase = e.gs.Phase
	e.bus.Emit(ev)
}

// transition moves the machine to next, emitting exit and enter events.
func (e *Engine) transition(next Phase) {
	e.emit(Event{Kind: EventPhaseExited})
	e.gs.Phase = next
	e.emit(Event{Kind: EventPhaseEntered})
}

// beginTurn enters IssueOrder with fresh reinforcements. Players without
// territories are committed straight away.
func (e *Engine) beginTurn() {
	e.gs.Turn++
	for _, p := range e.gs.Players {
		p.resetTurn()
		if e.gs.TerritoryCount(p.Name) == 0 {
			p.Reinforcements = 0
			p.Committed = true
			continue
		}
		p.Reinforcements = Reinforcement(e.gs.Map, p.Name)
	}
	e.transition(PhaseIssueOrder)
	if len(e.CurrentPlayers()) == 0 {
		e.endGame(&Outcome{Draw: true, Turn: e.gs.Turn})
	}
}

// finishIssuing moves to OrderExecution once every player has committed or
// emptied their pool.
func (e *Engine) finishIssuing() {
	if len(e.CurrentPlayers()) > 0 {
		return
	}
	e.transition(PhaseOrderExecution)
	if e.opts.AutoExecute {
		e.executeOrders()
	}
}

// executeOrders drains every queue, then either ends the game or starts the next turn.
func (e *Engine) executeOrders() int {
	n := e.exec.ExecuteAll()
	if winner, ok := e.gs.SoleOwner(); ok {
		e.endGame(&Outcome{Winner: winner, Turn: e.gs.Turn})
		return n
	}
	if e.opts.MaxTurns > 0 && e.gs.Turn >= e.opts.MaxTurns {
		e.endGame(&Outcome{Draw: true, Turn: e.gs.Turn})
		return n
	}
	e.beginTurn()
	return n
}

func (e *Engine) endGame(o *Outcome) {
	e.gs.Outcome = o
	e.emit(Event{Kind: EventGameOver, Player: o.Winner, Outcome: o})
}
