// Package simulator solves large batches of random scenarios in parallel,
// checking every result against the pot accounting invariants and
// collecting aggregate statistics.
package simulator

import (
	"context"
	"fmt"
	"runtime"

	"github.com/charmbracelet/log"
	"github.com/lox/sidepots/internal/chips"
	"github.com/lox/sidepots/internal/randutil"
	"github.com/lox/sidepots/internal/scenario"
	"github.com/lox/sidepots/internal/sidepot"
	"github.com/lox/sidepots/internal/statistics"
	"golang.org/x/sync/errgroup"
)

// Config holds configuration for running a drill
type Config struct {
	Scenarios int
	Workers   int
	Seed      int64
	Generator scenario.Config
	Logger    *log.Logger
}

// Simulator runs scenario drills
type Simulator struct {
	config Config
}

// New creates a new simulator with the given configuration
func New(config Config) *Simulator {
	if config.Workers <= 0 {
		config.Workers = runtime.GOMAXPROCS(0)
	}
	if config.Workers > config.Scenarios && config.Scenarios > 0 {
		config.Workers = config.Scenarios
	}
	if config.Logger == nil {
		config.Logger = log.Default()
	}
	return &Simulator{config: config}
}

// Run generates and solves the configured number of scenarios. It stops at
// the first scenario whose breakdown fails verification, or when ctx is
// cancelled.
func (s *Simulator) Run(ctx context.Context) (*statistics.Statistics, error) {
	if s.config.Scenarios <= 0 {
		return nil, fmt.Errorf("scenarios must be positive, got %d", s.config.Scenarios)
	}
	if err := s.config.Generator.Validate(); err != nil {
		return nil, err
	}

	logger := s.config.Logger.WithPrefix("drill")
	workers := s.config.Workers
	perWorker := s.config.Scenarios / workers
	remainder := s.config.Scenarios % workers

	logger.Debug("Starting drill", "scenarios", s.config.Scenarios, "workers", workers, "seed", s.config.Seed)

	g, ctx := errgroup.WithContext(ctx)
	results := make([]*statistics.Statistics, workers)

	for w := 0; w < workers; w++ {
		count := perWorker
		if w < remainder {
			count++ // Distribute remainder scenarios
		}

		// Independent RNG per worker so runs are reproducible for a seed
		workerSeed := randutil.Derive(s.config.Seed, w)

		g.Go(func() error {
			gen, err := scenario.NewGenerator(s.config.Generator, randutil.New(workerSeed))
			if err != nil {
				return err
			}
			stats, err := runWorker(ctx, gen, count)
			if err != nil {
				return fmt.Errorf("worker %d (seed %d): %w", w, workerSeed, err)
			}
			results[w] = stats
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	total := statistics.New()
	for _, r := range results {
		total.Merge(r)
	}
	if err := total.Validate(); err != nil {
		return nil, fmt.Errorf("statistics validation failed: %w", err)
	}

	logger.Info("Drill complete", "scenarios", total.Scenarios, "mean_pots", total.MeanPots(), "mean_refund", total.MeanRefund())
	return total, nil
}

func runWorker(ctx context.Context, gen *scenario.Generator, count int) (*statistics.Statistics, error) {
	stats := statistics.New()
	for i := 0; i < count; i++ {
		if i%256 == 0 {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
		}
		sc, err := gen.GenerateScenario()
		if err != nil {
			return nil, err
		}
		result, err := SolveWith(sc, gen.Config().Denominations)
		if err != nil {
			return nil, err
		}
		stats.Add(result)
	}
	return stats, nil
}

// Solve partitions one scenario, verifies the breakdown and measures it
// using the standard chip set.
func Solve(sc scenario.Scenario) (statistics.ScenarioResult, error) {
	return SolveWith(sc, chips.Standard)
}

// SolveWith is Solve with the pots counted out in the given chips. A pot
// the chips cannot make exactly fails with chips.ErrNotRepresentable.
func SolveWith(sc scenario.Scenario, vocab []chips.Denomination) (statistics.ScenarioResult, error) {
	result, err := sidepot.Partition(sc.Stacks, sc.AllIn)
	if err != nil {
		return statistics.ScenarioResult{}, fmt.Errorf("scenario %s: %w", sc.ID, err)
	}
	if err := result.Verify(sc.Stacks, sc.AllIn); err != nil {
		return statistics.ScenarioResult{}, fmt.Errorf("scenario %s: %w", sc.ID, err)
	}

	out := statistics.ScenarioResult{
		AllIn:      len(sc.AllIn),
		Pots:       len(result.Pots),
		PotTotal:   result.Total(),
		Refund:     result.Refund.Amount,
		StackTotal: sc.Stacks.Total(sc.AllIn),
	}
	for _, pot := range result.Pots {
		pile, err := chips.DecomposeWith(pot.Amount, vocab)
		if err != nil {
			return statistics.ScenarioResult{}, fmt.Errorf("scenario %s, %s: %w", sc.ID, pot.Name, err)
		}
		out.Chips += len(pile)
		out.LargestPot = max(out.LargestPot, pot.Amount)
	}
	return out, nil
}
