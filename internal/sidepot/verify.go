package sidepot

import (
	"fmt"
	"sort"

	"github.com/lox/sidepots/internal/scenario"
)

// Verify checks r against the stacks it was computed from:
//   - pots plus refund add up to the all-in players' stacks
//   - each pot sits on the next contested stack level, its Portion is the
//     rise from the previous level and it splits evenly into one Portion
//     per eligible player
//   - each pot's eligible players are exactly those whose stack reaches
//     its level
//   - the refund goes to the largest stack and is its lead over the
//     runner-up
func (r Result) Verify(stacks scenario.Stacks, allIn []scenario.Player) error {
	contributions, err := eligibleStacks(stacks, allIn)
	if err != nil {
		return err
	}
	sort.Slice(contributions, func(i, j int) bool {
		return contributions[i].amount < contributions[j].amount
	})

	if want, got := stacks.Total(allIn), r.Total()+r.Refund.Amount; want != got {
		return fmt.Errorf("%w: pots and refund total %d, stacks total %d", ErrInvariant, got, want)
	}

	// Stacks are distinct, so every contested level starts a new pot.
	tiers := len(contributions) - 1
	if len(r.Pots) != tiers {
		return fmt.Errorf("%w: %d pots, want %d", ErrInvariant, len(r.Pots), tiers)
	}

	prevLevel := 0
	for i, pot := range r.Pots {
		want := MainPotName
		if i > 0 {
			want = sidePotName(i)
		}
		if pot.Name != want {
			return fmt.Errorf("%w: pot %d named %q, want %q", ErrInvariant, i, pot.Name, want)
		}

		level := contributions[i].amount
		if pot.Threshold != level {
			return fmt.Errorf("%w: %s reaches %d, want %d", ErrInvariant, pot.Name, pot.Threshold, level)
		}
		if pot.Portion != level-prevLevel {
			return fmt.Errorf("%w: %s portion %d, want %d", ErrInvariant, pot.Name, pot.Portion, level-prevLevel)
		}

		group := contributions[i:]
		if n := len(pot.Eligible); pot.Amount != pot.Portion*n || n != len(group) {
			return fmt.Errorf("%w: %s amount %d does not split into %d portions of %d",
				ErrInvariant, pot.Name, pot.Amount, len(group), pot.Portion)
		}
		eligible := pot.EligibleSet()
		for _, c := range group {
			if !eligible[c.player] {
				return fmt.Errorf("%w: %s reaches %s but is not eligible for it", ErrInvariant, c.player, pot.Name)
			}
		}
		if len(eligible) != len(group) {
			return fmt.Errorf("%w: %s lists players below its level", ErrInvariant, pot.Name)
		}
		prevLevel = level
	}

	largest := contributions[len(contributions)-1]
	runnerUp := contributions[len(contributions)-2]
	if r.Refund.Player != largest.player {
		return fmt.Errorf("%w: refund goes to %s, want %s", ErrInvariant, r.Refund.Player, largest.player)
	}
	if want := largest.amount - runnerUp.amount; r.Refund.Amount != want {
		return fmt.Errorf("%w: refund %d, want %d", ErrInvariant, r.Refund.Amount, want)
	}
	return nil
}
