package main

import (
	"fmt"
	"os"
	"slices"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/coder/quartz"
	"github.com/lox/sidepots/cmd/sidepots/shared"
	"github.com/lox/sidepots/internal/config"
	"github.com/lox/sidepots/internal/quiz"
	"github.com/lox/sidepots/internal/randutil"
	"github.com/lox/sidepots/internal/scenario"
	"github.com/lox/sidepots/internal/tui"
)

// SessionFlags are shared by the interactive commands. Zero values fall
// back to the config file.
type SessionFlags struct {
	Hands      int    `help:"Number of hands (10, 20 or 30)"`
	Timer      bool   `help:"Show a running timer"`
	Seed       int64  `help:"RNG seed for reproducible hands (0 = config or random)"`
	HistoryOut string `name:"history-out" help:"Write the session review to this TOML file" type:"path"`
}

// PlayCmd runs a session in the configured mode.
type PlayCmd struct {
	SessionFlags
}

func (cmd *PlayCmd) Run(cli *CLI) error {
	return runSession(cli.Config, "", cmd.SessionFlags)
}

// TrainCmd runs a session in training mode.
type TrainCmd struct {
	SessionFlags
}

func (cmd *TrainCmd) Run(cli *CLI) error {
	return runSession(cli.Config, quiz.ModeTraining, cmd.SessionFlags)
}

// QuizCmd runs a session in quiz mode.
type QuizCmd struct {
	SessionFlags
}

func (cmd *QuizCmd) Run(cli *CLI) error {
	return runSession(cli.Config, quiz.ModeQuiz, cmd.SessionFlags)
}

func loadConfig(path string) (*config.Config, error) {
	cfg, err := config.Load(path)
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}
	if err := cfg.ApplyEnv(os.LookupEnv); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// runSession starts the TUI. An empty mode keeps the one from the config.
func runSession(configPath string, mode quiz.Mode, flags SessionFlags) error {
	cfg, err := loadConfig(configPath)
	if err != nil {
		return err
	}

	settings, err := sessionSettings(cfg, mode, flags)
	if err != nil {
		return err
	}

	logger, closer, err := shared.SetupFileLogger(cfg.Trainer.LogFile, cfg.Level())
	if err != nil {
		return err
	}
	defer closer.Close()

	seed := cfg.Generator.Seed
	if flags.Seed != 0 {
		seed = flags.Seed
	}
	rng, seed := randutil.Seeded(seed)
	gen, err := scenario.NewGenerator(cfg.Scenario(), rng)
	if err != nil {
		return err
	}

	historyPath := cfg.Trainer.HistoryFile
	if flags.HistoryOut != "" {
		historyPath = flags.HistoryOut
	}

	logger.Info("Starting trainer", "mode", settings.Mode, "hands", settings.Hands, "seed", seed, "history", historyPath)

	model := tui.New(tui.Options{
		Settings:    settings,
		Source:      gen,
		Players:     gen.Players(),
		Clock:       quartz.NewReal(),
		Logger:      logger,
		HistoryPath: historyPath,
	})

	p := tea.NewProgram(model, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("failed to run TUI: %w", err)
	}
	if err := model.Err(); err != nil {
		return err
	}
	if path := model.SavedTo(); path != "" {
		fmt.Printf("Session review saved to %s (seed %d)\n", path, seed)
	}
	return nil
}

// sessionSettings layers the command's mode and flags over the config.
func sessionSettings(cfg *config.Config, mode quiz.Mode, flags SessionFlags) (quiz.Settings, error) {
	settings := cfg.Settings()
	if mode != "" {
		settings.Mode = mode
	}
	if flags.Hands != 0 {
		if !slices.Contains(quiz.HandOptions, flags.Hands) {
			return quiz.Settings{}, fmt.Errorf("--hands must be one of %v, got %d", quiz.HandOptions, flags.Hands)
		}
		settings.Hands = flags.Hands
	}
	settings.Timer = settings.Timer || flags.Timer
	if err := settings.Validate(); err != nil {
		return quiz.Settings{}, err
	}
	return settings, nil
}
