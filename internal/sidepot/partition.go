package sidepot

import (
	"fmt"
	"sort"

	"github.com/lox/sidepots/internal/scenario"
)

// Error is the error type for partition precondition failures.
type Error string

func (e Error) Error() string {
	return string(e)
}

const (
	ErrTooFewAllIn     Error = "sidepot: at least two players must be all-in"
	ErrUnknownPlayer   Error = "sidepot: all-in player has no stack"
	ErrDuplicatePlayer Error = "sidepot: player listed all-in twice"
	ErrInvalidStack    Error = "sidepot: stack must be positive"
	ErrDuplicateStack  Error = "sidepot: all-in stacks must be distinct"
	ErrInvariant       Error = "sidepot: result breaks an accounting invariant"
)

type contribution struct {
	player scenario.Player
	amount int
}

// Partition builds the pots for a hand where every player in allIn has
// committed their whole stack. Players not in allIn take no part.
//
// Each distinct stack level forms a tier shared by everyone whose stack
// reaches it. Tiers contested by two or more players become pots, the
// lowest being the main pot. The chips above the second-largest stack are
// uncalled and returned to the largest stack as the refund.
func Partition(stacks scenario.Stacks, allIn []scenario.Player) (Result, error) {
	contributions, err := eligibleStacks(stacks, allIn)
	if err != nil {
		return Result{}, err
	}

	// Sort by contribution amount (ascending)
	sort.Slice(contributions, func(i, j int) bool {
		return contributions[i].amount < contributions[j].amount
	})

	var pots []Pot
	prevLevel := 0
	for i, c := range contributions {
		if c.amount <= prevLevel {
			continue
		}
		group := contributions[i:]
		portion := c.amount - prevLevel

		if len(group) > 1 {
			name := MainPotName
			if len(pots) > 0 {
				name = sidePotName(len(pots))
			}
			eligible := make([]scenario.Player, 0, len(group))
			for _, g := range group {
				eligible = append(eligible, g.player)
			}
			pots = append(pots, Pot{
				Name:      name,
				Amount:    portion * len(group),
				Eligible:  eligible,
				Threshold: c.amount,
				Portion:   portion,
			})
		}
		prevLevel = c.amount
	}

	largest := contributions[len(contributions)-1]
	runnerUp := contributions[len(contributions)-2]
	refund := max(largest.amount-runnerUp.amount, 0)

	return Result{
		Pots:   pots,
		Refund: Refund{Player: largest.player, Amount: refund},
	}, nil
}

// eligibleStacks restricts stacks to the all-in players and checks the
// partition preconditions.
func eligibleStacks(stacks scenario.Stacks, allIn []scenario.Player) ([]contribution, error) {
	if len(allIn) < 2 {
		return nil, fmt.Errorf("%w: got %d", ErrTooFewAllIn, len(allIn))
	}

	seenPlayer := make(map[scenario.Player]bool, len(allIn))
	owner := make(map[int]scenario.Player, len(allIn))
	contributions := make([]contribution, 0, len(allIn))
	for _, p := range allIn {
		if seenPlayer[p] {
			return nil, fmt.Errorf("%w: %s", ErrDuplicatePlayer, p)
		}
		seenPlayer[p] = true

		amount, ok := stacks[p]
		if !ok {
			return nil, fmt.Errorf("%w: %s", ErrUnknownPlayer, p)
		}
		if amount <= 0 {
			return nil, fmt.Errorf("%w: %s has %d", ErrInvalidStack, p, amount)
		}
		if other, dup := owner[amount]; dup {
			return nil, fmt.Errorf("%w: %s and %s both have %d", ErrDuplicateStack, other, p, amount)
		}
		owner[amount] = p
		contributions = append(contributions, contribution{player: p, amount: amount})
	}
	return contributions, nil
}
