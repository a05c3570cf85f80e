package warzone

import "sort"

// Phase is one stage of the game's turn structure.
type Phase string

const (
	PhaseMapEditing     Phase = "map_editing"
	PhaseStartup        Phase = "startup"
	PhaseIssueOrder     Phase = "issue_order"
	PhaseOrderExecution Phase = "order_execution"
)

// AllPhases returns the phases in the order a game visits them.
func AllPhases() []Phase {
	return []Phase{PhaseMapEditing, PhaseStartup, PhaseIssueOrder, PhaseOrderExecution}
}

// handler applies one command. player is empty outside IssueOrder.
type handler func(e *Engine, player *Player, args []string) (Result, error)

// phaseCommands maps each phase to the commands it accepts. A command missing
// from the current phase's table is rejected without touching the state.
var phaseCommands = map[Phase]map[string]handler{
	PhaseMapEditing: {
		"editmap":       (*Engine).cmdEditMap,
		"loadmap":       (*Engine).cmdLoadMap,
		"savemap":       (*Engine).cmdSaveMap,
		"editcontinent": (*Engine).cmdEditContinent,
		"editcountry":   (*Engine).cmdEditCountry,
		"editneighbor":  (*Engine).cmdEditNeighbor,
		"validatemap":   (*Engine).cmdValidateMap,
		"showmap":       (*Engine).cmdShowMap,
		"gameplayer":    (*Engine).cmdGamePlayer,
		"startgame":     (*Engine).cmdStartGame,
	},
	PhaseStartup: {
		"gameplayer":      (*Engine).cmdGamePlayer,
		"showmap":         (*Engine).cmdShowMap,
		"assigncountries": (*Engine).cmdAssignCountries,
	},
	PhaseIssueOrder: {
		"deploy":    (*Engine).cmdDeploy,
		"advance":   (*Engine).cmdAdvance,
		"bomb":      (*Engine).cmdBomb,
		"blockade":  (*Engine).cmdBlockade,
		"airlift":   (*Engine).cmdAirlift,
		"negotiate": (*Engine).cmdNegotiate,
		"showmap":   (*Engine).cmdShowMap,
		"showcards": (*Engine).cmdShowCards,
		"commit":    (*Engine).cmdCommit,
	},
	PhaseOrderExecution: {
		"executeorders": (*Engine).cmdExecuteOrders,
		"showmap":       (*Engine).cmdShowMap,
	},
}

// Commands returns the commands accepted in phase, sorted.
func Commands(phase Phase) []string {
	var names []string
	for name := range phaseCommands[phase] {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Accepts reports whether phase accepts command.
func Accepts(phase Phase, command string) bool {
	_, ok := phaseCommands[phase][command]
	return ok
}
