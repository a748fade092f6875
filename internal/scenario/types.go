package scenario

import "slices"

// Player identifies a seat by letter: A, B, C, ...
type Player string

// MaxPlayers is the size of the identifier alphabet.
const MaxPlayers = 26

// Players returns the first n identifiers in seat order.
func Players(n int) []Player {
	if n > MaxPlayers {
		n = MaxPlayers
	}
	out := make([]Player, 0, n)
	for i := 0; i < n; i++ {
		out = append(out, Player(rune('A'+i)))
	}
	return out
}

// Stacks maps each player to the chips in front of them.
type Stacks map[Player]int

// Players returns the players in identifier order.
func (s Stacks) Players() []Player {
	out := make([]Player, 0, len(s))
	for p := range s {
		out = append(out, p)
	}
	slices.Sort(out)
	return out
}

// Total returns the sum of the stacks belonging to players.
func (s Stacks) Total(players []Player) int {
	total := 0
	for _, p := range players {
		total += s[p]
	}
	return total
}

// Scenario is one generated hand: every player's stack plus who is all-in.
type Scenario struct {
	ID     string
	Stacks Stacks
	AllIn  []Player
}

// IsAllIn reports whether p is in the all-in set.
func (s Scenario) IsAllIn(p Player) bool {
	return slices.Contains(s.AllIn, p)
}
