package main

import (
	"fmt"
	"time"

	"github.com/lox/sidepots/cmd/sidepots/shared"
	"github.com/lox/sidepots/internal/randutil"
	"github.com/lox/sidepots/internal/simulator"
)

// DrillCmd solves random scenarios in bulk and reports statistics.
type DrillCmd struct {
	Scenarios int   `short:"n" default:"10000" help:"Number of scenarios to solve"`
	Workers   int   `short:"w" default:"0" help:"Parallel workers (0 = GOMAXPROCS)"`
	Seed      int64 `default:"0" help:"RNG seed (0 = config or random)"`
}

func (cmd *DrillCmd) Run(cli *CLI) error {
	cfg, err := loadConfig(cli.Config)
	if err != nil {
		return err
	}
	logger := shared.SetupLogger(cfg.Level())
	ctx := shared.SetupSignalHandler(logger)

	seed := cfg.Generator.Seed
	if cmd.Seed != 0 {
		seed = cmd.Seed
	}
	_, seed = randutil.Seeded(seed)

	logger.Info("Running drill", "scenarios", cmd.Scenarios, "seed", seed)
	start := time.Now()

	stats, err := simulator.New(simulator.Config{
		Scenarios: cmd.Scenarios,
		Workers:   cmd.Workers,
		Seed:      seed,
		Generator: cfg.Scenario(),
		Logger:    logger,
	}).Run(ctx)
	if err != nil {
		return err
	}
	if err := stats.Validate(); err != nil {
		return err
	}

	logger.Info("Drill complete", "duration", time.Since(start).Round(time.Millisecond))
	fmt.Print(stats.Summary())
	return nil
}
