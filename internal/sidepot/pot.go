// Package sidepot splits the stacks of all-in players into a main pot and
// side pots, and works out the uncalled chips returned to the biggest stack.
package sidepot

import (
	"fmt"
	"slices"

	"github.com/lox/sidepots/internal/scenario"
)

// MainPotName is the name of the first pot created in a hand.
const MainPotName = "Main Pot"

// Pot represents a pot (main or side)
type Pot struct {
	Name      string
	Amount    int
	Eligible  []scenario.Player // smallest stack first
	Threshold int               // stack level this pot is filled up to
	Portion   int               // chips each eligible player put into this pot
}

// IsEligible reports whether p can win the pot.
func (p Pot) IsEligible(player scenario.Player) bool {
	return slices.Contains(p.Eligible, player)
}

// EligibleSet returns the eligible players as a set.
func (p Pot) EligibleSet() map[scenario.Player]bool {
	set := make(map[scenario.Player]bool, len(p.Eligible))
	for _, e := range p.Eligible {
		set[e] = true
	}
	return set
}

// sidePotName returns the name of the n-th side pot, counting from 1.
func sidePotName(n int) string {
	return fmt.Sprintf("Side Pot #%d", n)
}

// Refund is the uncalled part of the largest stack, handed back to its owner.
type Refund struct {
	Player scenario.Player
	Amount int
}

// Result is the full breakdown of one hand.
type Result struct {
	Pots   []Pot
	Refund Refund
}

// Total returns the amount in all pots, excluding the refund.
func (r Result) Total() int {
	total := 0
	for _, pot := range r.Pots {
		total += pot.Amount
	}
	return total
}

// SidePots returns the number of pots after the main pot.
func (r Result) SidePots() int {
	if len(r.Pots) == 0 {
		return 0
	}
	return len(r.Pots) - 1
}
