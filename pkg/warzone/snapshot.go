package warzone

// TerritoryView is the serialized form of a territory.
type TerritoryView struct {
	Name      string   `json:"name"`
	Continent string   `json:"continent"`
	Owner     string   `json:"owner,omitempty"`
	Armies    int      `json:"armies"`
	Neighbors []string `json:"neighbors"`
}

// PlayerView is the serialized form of a player. Queued orders are left out
// so that spectators cannot read them before execution.
type PlayerView struct {
	Name           string           `json:"name"`
	Strategy       string           `json:"strategy,omitempty"`
	Reinforcements int              `json:"reinforcements"`
	Territories    int              `json:"territories"`
	Cards          map[CardKind]int `json:"cards,omitempty"`
	Committed      bool             `json:"committed"`
}

// Snapshot is a point-in-time copy of a game.
type Snapshot struct {
	Phase       Phase           `json:"phase"`
	Turn        int             `json:"turn"`
	Continents  []Continent     `json:"continents"`
	Territories []TerritoryView `json:"territories"`
	Players     []PlayerView    `json:"players"`
	Outcome     *Outcome        `json:"outcome,omitempty"`
}

// Snapshot copies the current state. The result shares nothing with the engine.
func (e *Engine) Snapshot() Snapshot {
	gs := e.gs
	s := Snapshot{Phase: gs.Phase, Turn: gs.Turn}
	for _, c := range gs.Map.Continents() {
		s.Continents = append(s.Continents, *c)
	}
	for _, t := range gs.Map.Territories() {
		s.Territories = append(s.Territories, TerritoryView{
			Name:      t.Name,
			Continent: t.Continent,
			Owner:     t.Owner,
			Armies:    t.Armies,
			Neighbors: t.Neighbors(),
		})
	}
	for _, p := range gs.Players {
		pv := PlayerView{
			Name:           p.Name,
			Reinforcements: p.Reinforcements,
			Territories:    gs.TerritoryCount(p.Name),
			Committed:      p.Committed,
		}
		if p.Strategy != nil {
			pv.Strategy = p.Strategy.Name()
		}
		if len(p.Cards) > 0 {
			pv.Cards = make(map[CardKind]int, len(p.Cards))
			for k, n := range p.Cards {
				pv.Cards[k] = n
			}
		}
		s.Players = append(s.Players, pv)
	}
	if gs.Outcome != nil {
		o := *gs.Outcome
		s.Outcome = &o
	}
	return s
}
