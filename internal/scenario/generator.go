// Package scenario generates the random hands the trainer quizzes on: a
// distinct stack for every player and a subset of players who are all-in.
package scenario

import (
	"fmt"
	rand "math/rand/v2"
	"slices"

	"github.com/google/uuid"
	"github.com/lox/sidepots/internal/chips"
)

// Error is the error type for invalid generator configuration and
// generation failures.
type Error string

func (e Error) Error() string {
	return string(e)
}

const (
	ErrInvalidConfig           Error = "scenario: invalid generator config"
	ErrNotEnoughDistinctStacks Error = "scenario: fewer achievable stack sizes than players"
	ErrGenerationExhausted     Error = "scenario: ran out of attempts drawing distinct stacks"
)

// Config controls how stacks and all-in sets are drawn.
type Config struct {
	Players       int                  // number of seats, 2..26
	Denominations []chips.Denomination // chips a stack is built from
	MinDraws      int                  // fewest chips in a stack
	MaxDraws      int                  // most chips in a stack
	AllInCounts   []int                // candidate all-in set sizes, picked uniformly
	MaxAttempts   int                  // bound on stack draws before giving up
	ShuffleSeats  bool                 // deal sorted stacks to seats in random order
}

// DefaultConfig returns the five-player setup: 1-4 chips per stack from the
// standard chip set, with 2, 3 or 4 players all-in.
func DefaultConfig() Config {
	return Config{
		Players:       5,
		Denominations: slices.Clone(chips.Standard),
		MinDraws:      1,
		MaxDraws:      4,
		AllInCounts:   []int{2, 3, 4},
		MaxAttempts:   10000,
	}
}

// Validate checks the config for values the generator cannot work with.
func (c Config) Validate() error {
	if c.Players < 2 || c.Players > MaxPlayers {
		return fmt.Errorf("%w: players must be between 2 and %d, got %d", ErrInvalidConfig, MaxPlayers, c.Players)
	}
	if len(c.Denominations) == 0 {
		return fmt.Errorf("%w: no denominations", ErrInvalidConfig)
	}
	for _, d := range c.Denominations {
		if d <= 0 {
			return fmt.Errorf("%w: denomination %d is not positive", ErrInvalidConfig, d)
		}
	}
	if c.MinDraws < 1 || c.MaxDraws < c.MinDraws {
		return fmt.Errorf("%w: draws must satisfy 1 <= min <= max, got %d..%d", ErrInvalidConfig, c.MinDraws, c.MaxDraws)
	}
	if len(c.AllInCounts) == 0 {
		return fmt.Errorf("%w: no all-in counts", ErrInvalidConfig)
	}
	for _, k := range c.AllInCounts {
		if k < 2 || k > c.Players {
			return fmt.Errorf("%w: all-in count %d outside 2..%d", ErrInvalidConfig, k, c.Players)
		}
	}
	if c.MaxAttempts < 1 {
		return fmt.Errorf("%w: max attempts must be positive", ErrInvalidConfig)
	}
	if n := len(AchievableStacks(c)); n < c.Players {
		return fmt.Errorf("%w: %d players but only %d distinct stacks", ErrNotEnoughDistinctStacks, c.Players, n)
	}
	return nil
}

// AchievableStacks lists, in ascending order, every stack size the config
// can produce.
func AchievableStacks(c Config) []int {
	if c.MinDraws < 1 || c.MaxDraws < c.MinDraws {
		return nil
	}
	reached := map[int]bool{0: true}
	all := make(map[int]bool)
	for draws := 1; draws <= c.MaxDraws; draws++ {
		next := make(map[int]bool)
		for sum := range reached {
			for _, d := range c.Denominations {
				next[sum+int(d)] = true
			}
		}
		reached = next
		if draws >= c.MinDraws {
			for sum := range reached {
				all[sum] = true
			}
		}
	}
	out := make([]int, 0, len(all))
	for sum := range all {
		out = append(out, sum)
	}
	slices.Sort(out)
	return out
}

// Generator draws scenarios from a seeded random source.
type Generator struct {
	cfg   Config
	rng   *rand.Rand
	newID func() string
}

// NewGenerator validates cfg and returns a generator drawing from rng.
func NewGenerator(cfg Config, rng *rand.Rand) (*Generator, error) {
	if rng == nil {
		return nil, fmt.Errorf("%w: nil random source", ErrInvalidConfig)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	cfg.Denominations = slices.Clone(cfg.Denominations)
	cfg.AllInCounts = slices.Clone(cfg.AllInCounts)
	return &Generator{cfg: cfg, rng: rng, newID: uuid.NewString}, nil
}

// Config returns a copy of the generator's configuration.
func (g *Generator) Config() Config {
	cfg := g.cfg
	cfg.Denominations = slices.Clone(cfg.Denominations)
	cfg.AllInCounts = slices.Clone(cfg.AllInCounts)
	return cfg
}

// Players returns the seat identifiers the generator deals to.
func (g *Generator) Players() []Player {
	return Players(g.cfg.Players)
}

// Stacks draws one distinct stack size per player, ascending.
func (g *Generator) Stacks() ([]int, error) {
	seen := make(map[int]bool, g.cfg.Players)
	for attempt := 0; attempt < g.cfg.MaxAttempts; attempt++ {
		seen[g.drawStack()] = true
		if len(seen) == g.cfg.Players {
			out := make([]int, 0, len(seen))
			for s := range seen {
				out = append(out, s)
			}
			slices.Sort(out)
			return out, nil
		}
	}
	return nil, fmt.Errorf("%w: %d distinct of %d after %d draws",
		ErrGenerationExhausted, len(seen), g.cfg.Players, g.cfg.MaxAttempts)
}

func (g *Generator) drawStack() int {
	draws := g.cfg.MinDraws + g.rng.IntN(g.cfg.MaxDraws-g.cfg.MinDraws+1)
	sum := 0
	for i := 0; i < draws; i++ {
		sum += int(g.cfg.Denominations[g.rng.IntN(len(g.cfg.Denominations))])
	}
	return sum
}

// Assign deals stacks to seats. Stacks go to A, B, C ... in ascending order
// unless ShuffleSeats is set, in which case the seat order is randomised.
func (g *Generator) Assign(stacks []int) Stacks {
	seats := g.Players()
	if g.cfg.ShuffleSeats {
		g.rng.Shuffle(len(seats), func(i, j int) { seats[i], seats[j] = seats[j], seats[i] })
	}
	out := make(Stacks, len(stacks))
	for i, s := range stacks {
		if i >= len(seats) {
			break
		}
		out[seats[i]] = s
	}
	return out
}

// AllIn picks how many players are all-in, then which ones. The result is
// in identifier order.
func (g *Generator) AllIn() []Player {
	k := g.cfg.AllInCounts[g.rng.IntN(len(g.cfg.AllInCounts))]
	seats := g.Players()
	out := make([]Player, 0, k)
	for _, idx := range g.rng.Perm(len(seats))[:k] {
		out = append(out, seats[idx])
	}
	slices.Sort(out)
	return out
}

// GenerateScenario draws a complete hand.
func (g *Generator) GenerateScenario() (Scenario, error) {
	stacks, err := g.Stacks()
	if err != nil {
		return Scenario{}, err
	}
	return Scenario{
		ID:     g.newID(),
		Stacks: g.Assign(stacks),
		AllIn:  g.AllIn(),
	}, nil
}
