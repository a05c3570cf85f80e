package warzone

import (
	"fmt"
	"testing"
)

func ownFirst(m *Map, player string, n int) {
	for i, tr := range m.Territories() {
		if i >= n {
			break
		}
		tr.Owner = player
	}
}

func TestReinforcement_Counts(t *testing.T) {
	names := make([]string, 20)
	for i := range names {
		names[i] = fmt.Sprintf("t%d", i)
	}
	tests := []struct {
		owned int
		want  int
	}{
		{0, 3},
		{1, 3},
		{9, 3},
		{11, 3},
		{12, 4},
		{15, 5},
	}
	for _, tt := range tests {
		t.Run(fmt.Sprintf("owned=%d", tt.owned), func(t *testing.T) {
			// Bonus 0 keeps the arithmetic to the territory count.
			m := lineMap(t, 0, names...)
			ownFirst(m, "alice", tt.owned)
			if got := Reinforcement(m, "alice"); got != tt.want {
				t.Errorf("expected %d, got %d", tt.want, got)
			}
		})
	}
}

func TestReinforcement_ContinentBonus(t *testing.T) {
	m := NewMap()
	mustNoErr(t, m.AddContinent("small", 5))
	mustNoErr(t, m.AddContinent("big", 7))
	mustNoErr(t, m.AddContinent("empty", 9))
	mustNoErr(t, m.AddTerritory("s1", "small"))
	mustNoErr(t, m.AddTerritory("s2", "small"))
	mustNoErr(t, m.AddTerritory("b1", "big"))
	mustNoErr(t, m.AddTerritory("b2", "big"))

	for _, n := range []string{"s1", "s2", "b1"} {
		mustTerritory(t, m, n).Owner = "alice"
	}
	mustTerritory(t, m, "b2").Owner = "bob"

	// 3 territories -> base 3, plus small's 5; big is split and empty grants nothing.
	if got := Reinforcement(m, "alice"); got != 8 {
		t.Errorf("alice: expected 8, got %d", got)
	}
	if got := Reinforcement(m, "bob"); got != MinReinforcement {
		t.Errorf("bob: expected %d, got %d", MinReinforcement, got)
	}
}
