package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/lox/sidepots/internal/chips"
	"github.com/lox/sidepots/internal/quiz"
	"github.com/lox/sidepots/internal/scenario"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "sidepots.hcl")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestLoadMissingFileReturnsDefaults(t *testing.T) {
	t.Parallel()

	cfg, err := Load(filepath.Join(t.TempDir(), "nope.hcl"))
	require.NoError(t, err)
	require.NoError(t, cfg.Validate())

	assert.Equal(t, quiz.DefaultSettings(), cfg.Settings())
	assert.Equal(t, scenario.DefaultConfig(), cfg.Scenario())
	assert.Equal(t, "sidepots.log", cfg.Trainer.LogFile)
	assert.Equal(t, log.InfoLevel, cfg.Level())
}

func TestLoadFullConfig(t *testing.T) {
	t.Parallel()

	path := writeConfig(t, `
trainer {
  mode         = "quiz"
  hands        = 20
  timer        = true
  history_file = "history/latest.toml"
  log_level    = "debug"
}

generator {
  players       = 6
  denominations = [100, 500]
  max_draws     = 6
  all_in_counts = [2, 6]
  shuffle_seats = true
  seed          = 77
}
`)

	cfg, err := Load(path)
	require.NoError(t, err)
	require.NoError(t, cfg.Validate())

	assert.Equal(t, quiz.Settings{Mode: quiz.ModeQuiz, Hands: 20, Timer: true}, cfg.Settings())
	assert.Equal(t, "history/latest.toml", cfg.Trainer.HistoryFile)
	assert.Equal(t, log.DebugLevel, cfg.Level())
	assert.Equal(t, int64(77), cfg.Generator.Seed)

	sc := cfg.Scenario()
	assert.Equal(t, 6, sc.Players)
	assert.Equal(t, []chips.Denomination{chips.Red, chips.Blue}, sc.Denominations)
	assert.Equal(t, 1, sc.MinDraws)
	assert.Equal(t, 6, sc.MaxDraws)
	assert.Equal(t, []int{2, 6}, sc.AllInCounts)
	assert.Equal(t, 10000, sc.MaxAttempts)
	assert.True(t, sc.ShuffleSeats)
}

func TestLoadRejectsBadHCL(t *testing.T) {
	t.Parallel()

	_, err := Load(writeConfig(t, `trainer { hands = `))
	assert.Error(t, err)

	_, err = Load(writeConfig(t, `trainer { unknown = 1 }`))
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		mutate func(*Config)
		err    error
	}{
		{name: "bad mode", mutate: func(c *Config) { c.Trainer.Mode = "blitz" }, err: quiz.ErrInvalidSettings},
		{name: "negative hands", mutate: func(c *Config) { c.Trainer.Hands = -1 }, err: quiz.ErrInvalidSettings},
		{name: "hands not offered", mutate: func(c *Config) { c.Trainer.Hands = 15 }, err: quiz.ErrInvalidSettings},
		{name: "one player", mutate: func(c *Config) { c.Generator.Players = 1 }, err: scenario.ErrInvalidConfig},
		{name: "all-in count too big", mutate: func(c *Config) { c.Generator.AllInCounts = []int{9} }, err: scenario.ErrInvalidConfig},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			cfg := Default()
			tc.mutate(cfg)
			assert.ErrorIs(t, cfg.Validate(), tc.err)
		})
	}

	t.Run("bad log level", func(t *testing.T) {
		cfg := Default()
		cfg.Trainer.LogLevel = "loud"
		assert.Error(t, cfg.Validate())
		assert.Equal(t, log.InfoLevel, cfg.Level())
	})

	t.Run("mode is case insensitive", func(t *testing.T) {
		cfg := Default()
		cfg.Trainer.Mode = "Quiz"
		assert.NoError(t, cfg.Validate())
		assert.Equal(t, quiz.ModeQuiz, cfg.Settings().Mode)
	})
}

func TestApplyEnv(t *testing.T) {
	t.Parallel()

	env := func(vars map[string]string) func(string) (string, bool) {
		return func(key string) (string, bool) {
			v, ok := vars[key]
			return v, ok
		}
	}

	cfg := Default()
	require.NoError(t, cfg.ApplyEnv(env(map[string]string{EnvSeed: "12345", EnvLogLevel: "warn"})))
	assert.Equal(t, int64(12345), cfg.Generator.Seed)
	assert.Equal(t, log.WarnLevel, cfg.Level())

	cfg = Default()
	require.NoError(t, cfg.ApplyEnv(env(nil)))
	assert.Zero(t, cfg.Generator.Seed)

	err := Default().ApplyEnv(env(map[string]string{EnvSeed: "not-a-number"}))
	assert.Error(t, err)
}

func TestLoadExampleConfig(t *testing.T) {
	t.Parallel()

	cfg, err := Load(filepath.Join("..", "..", DefaultFile))
	require.NoError(t, err)
	require.NoError(t, cfg.Validate())

	assert.Equal(t, quiz.DefaultSettings(), cfg.Settings())
	assert.Equal(t, scenario.DefaultConfig(), cfg.Scenario())
	assert.Equal(t, "history/last-session.toml", cfg.Trainer.HistoryFile)
}
