package warzone

import (
	"fmt"
	"sort"
	"strings"
)

// ValidationResult records which map rules hold.
type ValidationResult struct {
	UniqueNames            bool
	Connected              bool
	ContinentsConnected    bool
	Empty                  bool
	Unreachable            []string // territories not reachable from the first one (sorted)
	DisconnectedContinents []string // continents whose induced subgraph is split (sorted)
}

// OK reports whether the map can be played.
func (r ValidationResult) OK() bool {
	return !r.Empty && r.UniqueNames && r.Connected && r.ContinentsConnected
}

// Err returns a *MapValidationError describing every failed rule, or nil.
func (r ValidationResult) Err() error {
	if r.OK() {
		return nil
	}
	var problems []string
	if r.Empty {
		problems = append(problems, "map has no territories")
	}
	if !r.UniqueNames {
		problems = append(problems, "territory names are not unique")
	}
	if !r.Connected {
		problems = append(problems, "map is not connected, unreachable: "+strings.Join(r.Unreachable, ", "))
	}
	if !r.ContinentsConnected {
		problems = append(problems, "continents not connected: "+strings.Join(r.DisconnectedContinents, ", "))
	}
	return &MapValidationError{Problems: problems}
}

// Validate checks name uniqueness, global connectivity and per-continent connectivity.
func Validate(m *Map) ValidationResult {
	r := ValidationResult{
		UniqueNames: !m.NonUnique(),
		Empty:       m.TerritoryCount() == 0,
	}
	r.Unreachable = unreachable(m, sortedNames(m.Territories()), nil)
	r.Connected = len(r.Unreachable) == 0
	r.DisconnectedContinents = disconnectedContinents(m)
	r.ContinentsConnected = len(r.DisconnectedContinents) == 0
	return r
}

// IsFullyConnected reports whether every territory can be reached from every other
// one through neighbor edges. An empty map counts as connected.
func IsFullyConnected(m *Map) bool {
	return len(unreachable(m, sortedNames(m.Territories()), nil)) == 0
}

// PerContinentConnected reports whether each continent's induced subgraph is connected.
func PerContinentConnected(m *Map) bool {
	return len(disconnectedContinents(m)) == 0
}

func disconnectedContinents(m *Map) []string {
	var bad []string
	for _, c := range m.Continents() {
		members := m.ContinentTerritories(c.Name)
		if len(members) <= 1 {
			continue
		}
		inside := make(map[string]bool, len(members))
		for _, t := range members {
			inside[t.Name] = true
		}
		if len(unreachable(m, sortedNames(members), inside)) > 0 {
			bad = append(bad, c.Name)
		}
	}
	sort.Strings(bad)
	return bad
}

// unreachable runs a BFS from names[0] and returns the names not visited, sorted.
// If within is non-nil, only edges between members of within are followed.
func unreachable(m *Map, names []string, within map[string]bool) []string {
	if len(names) == 0 {
		return nil
	}
	visited := map[string]bool{names[0]: true}
	queue := []string{names[0]}
	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]
		t := m.territories[current]
		if t == nil {
			panic(fmt.Sprintf("warzone: territory %s vanished during traversal", current))
		}
		for _, n := range t.Neighbors() {
			if visited[n] {
				continue
			}
			if within != nil && !within[n] {
				continue
			}
			visited[n] = true
			queue = append(queue, n)
		}
	}
	var missing []string
	for _, name := range names {
		if !visited[name] {
			missing = append(missing, name)
		}
	}
	return missing
}

func sortedNames(ts []*Territory) []string {
	names := make([]string, len(ts))
	for i, t := range ts {
		names[i] = t.Name
	}
	sort.Strings(names)
	return names
}
