// Package config loads trainer settings from an HCL file and the
// environment.
package config

import (
	"fmt"
	"os"
	"slices"
	"strconv"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/lox/sidepots/internal/chips"
	"github.com/lox/sidepots/internal/quiz"
	"github.com/lox/sidepots/internal/scenario"
)

// Environment variables that override the config file.
const (
	// EnvSeed fixes the random seed so sessions can be replayed
	EnvSeed = "SIDEPOTS_SEED"

	// EnvLogLevel overrides trainer.log_level
	EnvLogLevel = "SIDEPOTS_LOG_LEVEL"
)

// DefaultFile is the config file read when none is given.
const DefaultFile = "sidepots.hcl"

// Config represents the complete trainer configuration
type Config struct {
	Trainer   *TrainerSettings   `hcl:"trainer,block"`
	Generator *GeneratorSettings `hcl:"generator,block"`
}

// TrainerSettings controls the quiz session and logging
type TrainerSettings struct {
	Mode        string `hcl:"mode,optional"`
	Hands       int    `hcl:"hands,optional"`
	Timer       bool   `hcl:"timer,optional"`
	HistoryFile string `hcl:"history_file,optional"`
	LogLevel    string `hcl:"log_level,optional"`
	LogFile     string `hcl:"log_file,optional"`
}

// GeneratorSettings controls how scenarios are drawn
type GeneratorSettings struct {
	Players       int   `hcl:"players,optional"`
	Denominations []int `hcl:"denominations,optional"`
	MinDraws      int   `hcl:"min_draws,optional"`
	MaxDraws      int   `hcl:"max_draws,optional"`
	AllInCounts   []int `hcl:"all_in_counts,optional"`
	MaxAttempts   int   `hcl:"max_attempts,optional"`
	ShuffleSeats  bool  `hcl:"shuffle_seats,optional"`
	Seed          int64 `hcl:"seed,optional"`
}

// Default returns the default trainer configuration
func Default() *Config {
	c := &Config{}
	c.applyDefaults()
	return c
}

// Load loads configuration from an HCL file. A missing file yields the
// defaults.
func Load(filename string) (*Config, error) {
	if _, err := os.Stat(filename); os.IsNotExist(err) {
		return Default(), nil
	}

	parser := hclparse.NewParser()
	file, diags := parser.ParseHCLFile(filename)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to parse HCL file: %s", diags.Error())
	}

	var config Config
	diags = gohcl.DecodeBody(file.Body, nil, &config)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to decode HCL: %s", diags.Error())
	}

	config.applyDefaults()
	return &config, nil
}

func (c *Config) applyDefaults() {
	if c.Trainer == nil {
		c.Trainer = &TrainerSettings{}
	}
	if c.Generator == nil {
		c.Generator = &GeneratorSettings{}
	}

	t := c.Trainer
	if t.Mode == "" {
		t.Mode = string(quiz.ModeTraining)
	}
	if t.Hands == 0 {
		t.Hands = 10
	}
	if t.LogLevel == "" {
		t.LogLevel = "info"
	}
	if t.LogFile == "" {
		t.LogFile = "sidepots.log"
	}

	def := scenario.DefaultConfig()
	g := c.Generator
	if g.Players == 0 {
		g.Players = def.Players
	}
	if len(g.Denominations) == 0 {
		for _, d := range def.Denominations {
			g.Denominations = append(g.Denominations, int(d))
		}
	}
	if g.MinDraws == 0 {
		g.MinDraws = def.MinDraws
	}
	if g.MaxDraws == 0 {
		g.MaxDraws = def.MaxDraws
	}
	if len(g.AllInCounts) == 0 {
		g.AllInCounts = append([]int(nil), def.AllInCounts...)
	}
	if g.MaxAttempts == 0 {
		g.MaxAttempts = def.MaxAttempts
	}
}

// ApplyEnv overrides settings from environment variables found by lookup.
func (c *Config) ApplyEnv(lookup func(string) (string, bool)) error {
	if v, ok := lookup(EnvSeed); ok && v != "" {
		seed, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return fmt.Errorf("invalid %s value: %w", EnvSeed, err)
		}
		c.Generator.Seed = seed
	}
	if v, ok := lookup(EnvLogLevel); ok && v != "" {
		c.Trainer.LogLevel = v
	}
	return nil
}

// Validate validates the trainer configuration
func (c *Config) Validate() error {
	if err := c.Settings().Validate(); err != nil {
		return err
	}
	if !slices.Contains(quiz.HandOptions, c.Trainer.Hands) {
		return fmt.Errorf("%w: hands must be one of %v, got %d", quiz.ErrInvalidSettings, quiz.HandOptions, c.Trainer.Hands)
	}
	if _, err := log.ParseLevel(c.Trainer.LogLevel); err != nil {
		return fmt.Errorf("invalid log level %q", c.Trainer.LogLevel)
	}
	return c.Scenario().Validate()
}

// Settings returns the quiz settings described by the trainer block.
func (c *Config) Settings() quiz.Settings {
	return quiz.Settings{
		Mode:  quiz.Mode(strings.ToLower(c.Trainer.Mode)),
		Hands: c.Trainer.Hands,
		Timer: c.Trainer.Timer,
	}
}

// Scenario returns the generator config described by the generator block.
func (c *Config) Scenario() scenario.Config {
	g := c.Generator
	denoms := make([]chips.Denomination, 0, len(g.Denominations))
	for _, d := range g.Denominations {
		denoms = append(denoms, chips.Denomination(d))
	}
	return scenario.Config{
		Players:       g.Players,
		Denominations: denoms,
		MinDraws:      g.MinDraws,
		MaxDraws:      g.MaxDraws,
		AllInCounts:   append([]int(nil), g.AllInCounts...),
		MaxAttempts:   g.MaxAttempts,
		ShuffleSeats:  g.ShuffleSeats,
	}
}

// Level returns the configured log level, falling back to info.
func (c *Config) Level() log.Level {
	level, err := log.ParseLevel(c.Trainer.LogLevel)
	if err != nil {
		return log.InfoLevel
	}
	return level
}
