package warzone

import (
	"fmt"
	"slices"
	"sort"
)

// Continent is a named group of territories granting a bonus to whoever owns all of them.
type Continent struct {
	Name  string `json:"name"`
	Bonus int    `json:"bonus"`
}

// Territory is a node of the map graph.
type Territory struct {
	Name      string
	Continent string
	Armies    int
	Owner     string // Player name, Neutral if unowned

	neighbors map[string]struct{}
}

// Neighbors returns the names of adjacent territories in sorted order.
func (t *Territory) Neighbors() []string {
	names := make([]string, 0, len(t.neighbors))
	for n := range t.neighbors {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// HasNeighbor reports whether name is adjacent to t.
func (t *Territory) HasNeighbor(name string) bool {
	_, ok := t.neighbors[name]
	return ok
}

// Map is the territory graph. Names are the handles: callers look territories up
// by name instead of holding on to pointers across edits.
type Map struct {
	continents  map[string]*Continent
	territories map[string]*Territory

	// Declaration order, kept so that a loaded map writes back with the same indices.
	continentOrder []string
	territoryOrder []string

	nonUnique bool
}

// NewMap returns an empty map.
func NewMap() *Map {
	return &Map{
		continents:  make(map[string]*Continent),
		territories: make(map[string]*Territory),
	}
}

// NonUnique reports whether a duplicate territory name was ever added.
func (m *Map) NonUnique() bool {
	return m.nonUnique
}

// AddContinent declares a continent.
func (m *Map) AddContinent(name string, bonus int) error {
	if name == "" {
		return fmt.Errorf("%w: empty continent name", ErrUsage)
	}
	if bonus < 0 {
		return fmt.Errorf("%w: continent %s bonus %d is negative", ErrUsage, name, bonus)
	}
	if _, ok := m.continents[name]; ok {
		return fmt.Errorf("%w: continent %s", ErrDuplicateName, name)
	}
	m.continents[name] = &Continent{Name: name, Bonus: bonus}
	m.continentOrder = append(m.continentOrder, name)
	return nil
}

// RemoveContinent deletes a continent and every territory that belongs to it.
func (m *Map) RemoveContinent(name string) error {
	if _, ok := m.continents[name]; !ok {
		return fmt.Errorf("%w: %s", ErrUnknownContinent, name)
	}
	for _, t := range m.ContinentTerritories(name) {
		m.removeTerritory(t.Name)
	}
	delete(m.continents, name)
	m.continentOrder = slices.DeleteFunc(m.continentOrder, func(s string) bool { return s == name })
	return nil
}

// AddTerritory adds a territory to an existing continent. Adding a name that already
// exists leaves the original in place and marks the map as non-unique, which
// Validate reports until the map is replaced.
func (m *Map) AddTerritory(name, continent string) error {
	if name == "" {
		return fmt.Errorf("%w: empty territory name", ErrUsage)
	}
	if _, ok := m.continents[continent]; !ok {
		return fmt.Errorf("%w: %s", ErrUnknownContinent, continent)
	}
	if _, ok := m.territories[name]; ok {
		m.nonUnique = true
		return fmt.Errorf("%w: territory %s", ErrDuplicateName, name)
	}
	m.territories[name] = &Territory{
		Name:      name,
		Continent: continent,
		Owner:     Neutral,
		neighbors: make(map[string]struct{}),
	}
	m.territoryOrder = append(m.territoryOrder, name)
	return nil
}

// RemoveTerritory deletes a territory and every adjacency pointing at it.
func (m *Map) RemoveTerritory(name string) error {
	if _, ok := m.territories[name]; !ok {
		return fmt.Errorf("%w: %s", ErrTerritoryNotFound, name)
	}
	m.removeTerritory(name)
	return nil
}

func (m *Map) removeTerritory(name string) {
	t := m.territories[name]
	for n := range t.neighbors {
		if other := m.territories[n]; other != nil {
			delete(other.neighbors, name)
		}
	}
	delete(m.territories, name)
	m.territoryOrder = slices.DeleteFunc(m.territoryOrder, func(s string) bool { return s == name })
}

// AddNeighbor connects a and b in both directions.
func (m *Map) AddNeighbor(a, b string) error {
	ta, tb, err := m.pair(a, b)
	if err != nil {
		return err
	}
	if a == b {
		return fmt.Errorf("%w: %s cannot border itself", ErrUsage, a)
	}
	ta.neighbors[b] = struct{}{}
	tb.neighbors[a] = struct{}{}
	return nil
}

// RemoveNeighbor disconnects a and b in both directions.
func (m *Map) RemoveNeighbor(a, b string) error {
	ta, tb, err := m.pair(a, b)
	if err != nil {
		return err
	}
	delete(ta.neighbors, b)
	delete(tb.neighbors, a)
	return nil
}

func (m *Map) pair(a, b string) (*Territory, *Territory, error) {
	ta, err := m.Territory(a)
	if err != nil {
		return nil, nil, err
	}
	tb, err := m.Territory(b)
	if err != nil {
		return nil, nil, err
	}
	return ta, tb, nil
}

// Territory returns the territory with the given name.
func (m *Map) Territory(name string) (*Territory, error) {
	t, ok := m.territories[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrTerritoryNotFound, name)
	}
	return t, nil
}

// Continent returns the continent with the given name, or nil.
func (m *Map) Continent(name string) *Continent {
	return m.continents[name]
}

// Adjacent reports whether a and b share a border.
func (m *Map) Adjacent(a, b string) bool {
	t, ok := m.territories[a]
	return ok && t.HasNeighbor(b)
}

// Territories returns all territories in declaration order.
func (m *Map) Territories() []*Territory {
	out := make([]*Territory, 0, len(m.territoryOrder))
	for _, name := range m.territoryOrder {
		out = append(out, m.territories[name])
	}
	return out
}

// Continents returns all continents in declaration order.
func (m *Map) Continents() []*Continent {
	out := make([]*Continent, 0, len(m.continentOrder))
	for _, name := range m.continentOrder {
		out = append(out, m.continents[name])
	}
	return out
}

// ContinentTerritories returns the territories of a continent in declaration order.
func (m *Map) ContinentTerritories(continent string) []*Territory {
	var out []*Territory
	for _, name := range m.territoryOrder {
		if t := m.territories[name]; t.Continent == continent {
			out = append(out, t)
		}
	}
	return out
}

// TerritoryCount returns the number of territories on the map.
func (m *Map) TerritoryCount() int {
	return len(m.territories)
}

// OwnedBy returns the territories owned by player in declaration order.
func (m *Map) OwnedBy(player string) []*Territory {
	var out []*Territory
	for _, name := range m.territoryOrder {
		if t := m.territories[name]; t.Owner == player {
			out = append(out, t)
		}
	}
	return out
}

// Clone returns a deep copy of the map.
func (m *Map) Clone() *Map {
	c := NewMap()
	c.nonUnique = m.nonUnique
	c.continentOrder = slices.Clone(m.continentOrder)
	c.territoryOrder = slices.Clone(m.territoryOrder)
	for name, cont := range m.continents {
		cp := *cont
		c.continents[name] = &cp
	}
	for name, t := range m.territories {
		cp := *t
		cp.neighbors = make(map[string]struct{}, len(t.neighbors))
		for n := range t.neighbors {
			cp.neighbors[n] = struct{}{}
		}
		c.territories[name] = &cp
	}
	return c
}
