package warzone

import (
	"math/rand"
	"testing"
)

func TestResolveCombat_Conservation(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	for i := 0; i < 500; i++ {
		a, d := 1+rng.Intn(20), rng.Intn(20)
		r := ResolveCombat(a, d, DefaultOdds(), rng)

		if r.AttackerLosses < 0 || r.AttackerLosses > a {
			t.Fatalf("attacker losses %d out of range for %d armies", r.AttackerLosses, a)
		}
		if r.DefenderLosses < 0 || r.DefenderLosses > d {
			t.Fatalf("defender losses %d out of range for %d armies", r.DefenderLosses, d)
		}
		// Exactly one side is wiped out.
		attackerDead := r.Survivors() == 0
		defenderDead := r.DefenderLosses == d
		if attackerDead == defenderDead {
			t.Fatalf("a=%d d=%d: expected exactly one side eliminated, got %+v", a, d, r)
		}
		if r.Captured != defenderDead {
			t.Fatalf("captured should be true exactly when defenders are eliminated: %+v", r)
		}
	}
}

func TestResolveCombat_NoDefenders(t *testing.T) {
	r := ResolveCombat(3, 0, DefaultOdds(), &scriptedRand{})
	if !r.Captured || r.Survivors() != 3 {
		t.Errorf("empty territory should fall without losses, got %+v", r)
	}
}

func TestResolveCombat_Scripted(t *testing.T) {
	// Attacker misses, defender kills; attacker kills (last defender).
	rng := &scriptedRand{floats: []float64{0.9, 0.1, 0.1}}
	r := ResolveCombat(2, 1, DefaultOdds(), rng)
	if !r.Captured || r.AttackerLosses != 1 || r.Survivors() != 1 {
		t.Errorf("unexpected report %+v", r)
	}

	// Both strikes miss every time until the defender kills twice.
	rng = &scriptedRand{floats: []float64{0.99, 0.1, 0.99, 0.1}}
	r = ResolveCombat(2, 3, DefaultOdds(), rng)
	if r.Captured || r.Survivors() != 0 || r.DefenderLosses != 0 {
		t.Errorf("unexpected report %+v", r)
	}
}

func TestCombatOdds_Validate(t *testing.T) {
	if err := DefaultOdds().Validate(); err != nil {
		t.Errorf("default odds should validate: %v", err)
	}
	for _, o := range []CombatOdds{{0, 0.5}, {0.5, 0}, {1.5, 0.5}, {0.5, -1}} {
		if o.Validate() == nil {
			t.Errorf("%+v should be rejected", o)
		}
	}
}
