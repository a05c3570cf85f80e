package warzone

// Outcome is the terminal result of a game.
type Outcome struct {
	Winner string `json:"winner,omitempty"` // Empty on a draw
	Draw   bool   `json:"draw"`
	Turn   int    `json:"turn"`
}

// GameState owns every mutable collection of a game: the map, the players and
// their order queues. Other components reach territories and players by name.
type GameState struct {
	Phase   Phase
	Turn    int
	Map     *Map
	Players []*Player // Registration order, which is also the turn order
	Outcome *Outcome
}

// NewGameState returns a state in MapEditing with an empty map.
func NewGameState() *GameState {
	return &GameState{
		Phase: PhaseMapEditing,
		Map:   NewMap(),
	}
}

// Player returns the registered player with the given name, or nil.
func (gs *GameState) Player(name string) *Player {
	for _, p := range gs.Players {
		if p.Name == name {
			return p
		}
	}
	return nil
}

// PlayerNames returns the registered players in turn order.
func (gs *GameState) PlayerNames() []string {
	names := make([]string, len(gs.Players))
	for i, p := range gs.Players {
		names[i] = p.Name
	}
	return names
}

// TerritoryCount returns the number of territories owned by player.
func (gs *GameState) TerritoryCount(player string) int {
	return len(gs.Map.OwnedBy(player))
}

// SoleOwner returns the player owning every territory, if any.
func (gs *GameState) SoleOwner() (string, bool) {
	ts := gs.Map.Territories()
	if len(ts) == 0 {
		return "", false
	}
	owner := ts[0].Owner
	if owner == Neutral {
		return "", false
	}
	for _, t := range ts[1:] {
		if t.Owner != owner {
			return "", false
		}
	}
	return owner, true
}

// IsOver reports whether the game has reached a terminal outcome.
func (gs *GameState) IsOver() bool {
	return gs.Outcome != nil
}
