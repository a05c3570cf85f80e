package warzone

import "fmt"

// Default per-army kill probabilities.
const (
	DefaultAttackerKill = 0.6
	DefaultDefenderKill = 0.7
)

// CombatOdds holds the probability that a single army kills an opposing army
// when it strikes.
type CombatOdds struct {
	AttackerKill float64 `json:"attacker_kill"`
	DefenderKill float64 `json:"defender_kill"`
}

// DefaultOdds returns the standard combat odds.
func DefaultOdds() CombatOdds {
	return CombatOdds{AttackerKill: DefaultAttackerKill, DefenderKill: DefaultDefenderKill}
}

// Validate rejects odds that could stall a battle forever or are not probabilities.
func (c CombatOdds) Validate() error {
	if c.AttackerKill <= 0 || c.AttackerKill > 1 {
		return fmt.Errorf("attacker kill probability %v must be in (0, 1]", c.AttackerKill)
	}
	if c.DefenderKill <= 0 || c.DefenderKill > 1 {
		return fmt.Errorf("defender kill probability %v must be in (0, 1]", c.DefenderKill)
	}
	return nil
}

// CombatReport describes one resolved battle.
type CombatReport struct {
	Attacker        string `json:"attacker"`
	Defender        string `json:"defender"`
	From            string `json:"from"`
	To              string `json:"to"`
	AttackingArmies int    `json:"attacking_armies"`
	DefendingArmies int    `json:"defending_armies"`
	AttackerLosses  int    `json:"attacker_losses"`
	DefenderLosses  int    `json:"defender_losses"`
	Captured        bool   `json:"captured"`
}

// Survivors returns the attacking armies left after the battle.
func (r CombatReport) Survivors() int {
	return r.AttackingArmies - r.AttackerLosses
}

// ResolveCombat fights attackers against defenders one army at a time: an
// attacking army strikes, then a defending army strikes back, until one side
// has no armies left. The defenders are wiped out exactly when the report says
// Captured. With no defenders the attack captures without losses.
func ResolveCombat(attackers, defenders int, odds CombatOdds, rng Rand) CombatReport {
	r := CombatReport{AttackingArmies: attackers, DefendingArmies: defenders}
	a, d := attackers, defenders
	for a > 0 && d > 0 {
		if rng.Float64() < odds.AttackerKill {
			d--
			if d == 0 {
				break
			}
		}
		if rng.Float64() < odds.DefenderKill {
			a--
		}
	}
	r.AttackerLosses = attackers - a
	r.DefenderLosses = defenders - d
	r.Captured = d == 0 && a > 0
	return r
}
