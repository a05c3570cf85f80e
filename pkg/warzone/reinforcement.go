package warzone

// MinReinforcement is the floor of every per-turn grant.
const MinReinforcement = 3

// Reinforcement computes the armies granted to player at the start of a turn:
// one per three territories owned (at least MinReinforcement), plus the bonus of
// every continent the player owns completely.
func Reinforcement(m *Map, player string) int {
	owned := len(m.OwnedBy(player))
	armies := max(MinReinforcement, owned/3)
	for _, c := range m.Continents() {
		if ownsContinent(m, player, c.Name) {
			armies += c.Bonus
		}
	}
	return armies
}

func ownsContinent(m *Map, player, continent string) bool {
	members := m.ContinentTerritories(continent)
	if len(members) == 0 {
		return false
	}
	for _, t := range members {
		if t.Owner != player {
			return false
		}
	}
	return true
}
