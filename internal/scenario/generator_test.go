package scenario

import (
	"testing"

	"github.com/lox/sidepots/internal/chips"
	"github.com/lox/sidepots/internal/randutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestGenerator(t *testing.T, cfg Config, seed int64) *Generator {
	t.Helper()
	g, err := NewGenerator(cfg, randutil.New(seed))
	require.NoError(t, err)
	return g
}

func TestGenerateScenarioStacksAreDistinct(t *testing.T) {
	t.Parallel()

	g := newTestGenerator(t, DefaultConfig(), 1)
	achievable := make(map[int]bool)
	for _, s := range AchievableStacks(DefaultConfig()) {
		achievable[s] = true
	}

	for trial := 0; trial < 10000; trial++ {
		sc, err := g.GenerateScenario()
		require.NoError(t, err)
		require.Len(t, sc.Stacks, 5)

		seen := make(map[int]bool)
		for p, s := range sc.Stacks {
			require.False(t, seen[s], "trial %d: duplicate stack %d", trial, s)
			seen[s] = true
			require.True(t, achievable[s], "trial %d: stack %d for %s is not achievable", trial, s, p)
		}

		require.GreaterOrEqual(t, len(sc.AllIn), 2)
		require.LessOrEqual(t, len(sc.AllIn), 4)
		for i := 1; i < len(sc.AllIn); i++ {
			require.Less(t, sc.AllIn[i-1], sc.AllIn[i], "all-in set must be sorted and unique")
		}
		for _, p := range sc.AllIn {
			require.Contains(t, sc.Stacks, p)
		}
	}
}

func TestGenerateScenarioAssignsIDs(t *testing.T) {
	t.Parallel()

	g := newTestGenerator(t, DefaultConfig(), 2)
	a, err := g.GenerateScenario()
	require.NoError(t, err)
	b, err := g.GenerateScenario()
	require.NoError(t, err)

	assert.NotEmpty(t, a.ID)
	assert.NotEqual(t, a.ID, b.ID)
}

func TestAssignSeatOrder(t *testing.T) {
	t.Parallel()

	t.Run("ascending by default", func(t *testing.T) {
		g := newTestGenerator(t, DefaultConfig(), 3)
		stacks := g.Assign([]int{100, 200, 300, 400, 500})
		assert.Equal(t, Stacks{"A": 100, "B": 200, "C": 300, "D": 400, "E": 500}, stacks)
	})

	t.Run("shuffled seats keep the same stacks", func(t *testing.T) {
		cfg := DefaultConfig()
		cfg.ShuffleSeats = true
		g := newTestGenerator(t, cfg, 3)

		ordered := 0
		for i := 0; i < 50; i++ {
			stacks := g.Assign([]int{100, 200, 300, 400, 500})
			require.Len(t, stacks, 5)
			assert.Equal(t, 1500, stacks.Total(stacks.Players()))
			if stacks["A"] == 100 && stacks["E"] == 500 {
				ordered++
			}
		}
		assert.Less(t, ordered, 50, "shuffled seats should not always be ascending")
	})
}

func TestAllInCountsAreAllReached(t *testing.T) {
	t.Parallel()

	g := newTestGenerator(t, DefaultConfig(), 4)
	counts := make(map[int]int)
	for i := 0; i < 3000; i++ {
		counts[len(g.AllIn())]++
	}
	assert.Len(t, counts, 3)
	for _, k := range []int{2, 3, 4} {
		assert.Greater(t, counts[k], 800, "count %d drawn too rarely", k)
	}
}

func TestConfigValidate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		mutate func(*Config)
		err    error
	}{
		{name: "default is valid", mutate: func(*Config) {}},
		{name: "one player", mutate: func(c *Config) { c.Players = 1 }, err: ErrInvalidConfig},
		{name: "too many players", mutate: func(c *Config) { c.Players = 27 }, err: ErrInvalidConfig},
		{name: "no denominations", mutate: func(c *Config) { c.Denominations = nil }, err: ErrInvalidConfig},
		{name: "zero denomination", mutate: func(c *Config) { c.Denominations = []chips.Denomination{0} }, err: ErrInvalidConfig},
		{name: "inverted draws", mutate: func(c *Config) { c.MinDraws, c.MaxDraws = 3, 2 }, err: ErrInvalidConfig},
		{name: "all-in of one", mutate: func(c *Config) { c.AllInCounts = []int{1} }, err: ErrInvalidConfig},
		{name: "all-in larger than table", mutate: func(c *Config) { c.AllInCounts = []int{6} }, err: ErrInvalidConfig},
		{name: "no attempts", mutate: func(c *Config) { c.MaxAttempts = 0 }, err: ErrInvalidConfig},
		{
			name: "more players than stack sizes",
			mutate: func(c *Config) {
				c.Denominations = []chips.Denomination{chips.Red}
				c.MaxDraws = 2
			},
			err: ErrNotEnoughDistinctStacks,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tc.mutate(&cfg)
			err := cfg.Validate()
			if tc.err == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tc.err)
		})
	}
}

func TestStacksGivesUpAfterMaxAttempts(t *testing.T) {
	t.Parallel()

	// Two achievable stacks for two players, but only one draw allowed.
	cfg := DefaultConfig()
	cfg.Players = 2
	cfg.Denominations = []chips.Denomination{chips.Red, chips.Blue}
	cfg.MaxDraws = 1
	cfg.AllInCounts = []int{2}
	cfg.MaxAttempts = 1

	g := newTestGenerator(t, cfg, 5)
	_, err := g.Stacks()
	assert.ErrorIs(t, err, ErrGenerationExhausted)
}

func TestAchievableStacks(t *testing.T) {
	t.Parallel()

	cfg := DefaultConfig()
	cfg.Denominations = []chips.Denomination{chips.Red, chips.Blue}
	cfg.MaxDraws = 2
	assert.Equal(t, []int{100, 200, 500, 600, 1000}, AchievableStacks(cfg))

	cfg.MinDraws = 2
	assert.Equal(t, []int{200, 600, 1000}, AchievableStacks(cfg))
}

func TestNewGeneratorRejectsNilSource(t *testing.T) {
	t.Parallel()

	_, err := NewGenerator(DefaultConfig(), nil)
	assert.ErrorIs(t, err, ErrInvalidConfig)
}
