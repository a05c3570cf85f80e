package warzone

import (
	"fmt"
	"testing"
)

// scriptedRand replays fixed Float64 values, then returns 0 forever so that
// any battle still running ends with the attacker winning every strike.
type scriptedRand struct {
	floats []float64
	ints   []int
}

func (r *scriptedRand) Float64() float64 {
	if len(r.floats) == 0 {
		return 0
	}
	f := r.floats[0]
	r.floats = r.floats[1:]
	return f
}

func (r *scriptedRand) Intn(n int) int {
	if len(r.ints) == 0 {
		return 0
	}
	i := r.ints[0] % n
	r.ints = r.ints[1:]
	return i
}

// lineMap builds a map whose territories form a path in the given order, all on
// one continent with the given bonus.
func lineMap(t *testing.T, bonus int, names ...string) *Map {
	t.Helper()
	m := NewMap()
	mustNoErr(t, m.AddContinent("main", bonus))
	for i, n := range names {
		mustNoErr(t, m.AddTerritory(n, "main"))
		if i > 0 {
			mustNoErr(t, m.AddNeighbor(names[i-1], n))
		}
	}
	return m
}

// twoPlayerState returns a state with n territories in a line owned alternately by
// alice and bob, both registered.
func twoPlayerState(t *testing.T, n int) *GameState {
	t.Helper()
	names := make([]string, n)
	for i := range names {
		names[i] = fmt.Sprintf("t%d", i+1)
	}
	gs := NewGameState()
	gs.Map = lineMap(t, 0, names...)
	gs.Players = []*Player{NewPlayer("alice"), NewPlayer("bob")}
	for i, tr := range gs.Map.Territories() {
		tr.Owner = gs.Players[i%2].Name
		tr.Armies = 1
	}
	gs.Phase = PhaseIssueOrder
	gs.Turn = 1
	return gs
}

func mustNoErr(t *testing.T, err error) {
	t.Helper()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func mustTerritory(t *testing.T, m *Map, name string) *Territory {
	t.Helper()
	tr, err := m.Territory(name)
	if err != nil {
		t.Fatalf("territory %s: %v", name, err)
	}
	return tr
}
