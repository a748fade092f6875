// Package tui is the interactive terminal front-end for the trainer. It
// renders a quiz.State and turns key presses into quiz transitions.
package tui

import (
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"
	"github.com/coder/quartz"
	"github.com/google/uuid"
	"github.com/lox/sidepots/internal/quiz"
	"github.com/lox/sidepots/internal/scenario"
)

// Options configure a new Model.
type Options struct {
	Settings    quiz.Settings
	Source      quiz.ScenarioSource
	Players     []scenario.Player // seats shown as eligibility buttons
	Clock       quartz.Clock
	Logger      *log.Logger
	HistoryPath string // where the review is saved, empty to skip
}

// Model is the Bubble Tea model for a training session
type Model struct {
	state   quiz.State
	source  quiz.ScenarioSource
	players []scenario.Player
	clock   quartz.Clock
	logger  *log.Logger

	input textinput.Model

	sessionID   string
	historyPath string
	savedTo     string
	review      quiz.Review // fixed when the last hand ends
	notice      string      // shown until the next key press
	err         error       // fatal; the program exits
	quitting    bool
}

type tickMsg time.Time

// New creates a model on the setup screen.
func New(opts Options) *Model {
	ti := textinput.New()
	ti.CharLimit = 12
	ti.Width = 20
	ti.PromptStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#04B575")).Bold(true)
	ti.TextStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#FAFAFA"))
	ti.Prompt = "> "
	ti.Focus()

	clock := opts.Clock
	if clock == nil {
		clock = quartz.NewReal()
	}
	logger := opts.Logger
	if logger == nil {
		logger = log.Default()
	}

	return &Model{
		state:       quiz.New(opts.Settings),
		source:      opts.Source,
		players:     slices.Clone(opts.Players),
		clock:       clock,
		logger:      logger.WithPrefix("tui"),
		input:       ti,
		sessionID:   uuid.NewString(),
		historyPath: opts.HistoryPath,
	}
}

// State returns the current quiz state.
func (m *Model) State() quiz.State {
	return m.state
}

// Err returns the error that ended the session, if any.
func (m *Model) Err() error {
	return m.err
}

// SavedTo returns the path the review was written to, if it was saved.
func (m *Model) SavedTo() string {
	return m.savedTo
}

// Init initializes the TUI model
func (m *Model) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, m.tick())
}

func (m *Model) tick() tea.Cmd {
	if !m.state.Settings.Timer || m.state.Phase == quiz.PhaseReview {
		return nil
	}
	return tea.Tick(time.Second, func(t time.Time) tea.Msg { return tickMsg(t) })
}

// Update handles messages in the TUI
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tickMsg:
		return m, m.tick()

	case tea.WindowSizeMsg:
		m.logger.Debug("Updating dimensions", "width", msg.Width, "height", msg.Height)
		return m, nil

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" || msg.String() == "esc" {
			m.quitting = true
			return m, tea.Quit
		}
		m.notice = ""
		return m.handleKey(msg)
	}
	return m, nil
}

func (m *Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	key := msg.String()

	switch m.state.Phase {
	case quiz.PhaseSetup:
		return m.handleSetupKey(key)

	case quiz.PhaseGuessPots:
		if key == "enter" {
			m.apply(m.state.GuessPots(m.input.Value()))
			return m, nil
		}
		return m.updateInput(msg)

	case quiz.PhaseShowPots:
		if key == "enter" || key == " " {
			m.apply(m.state.Continue())
		}
		return m, nil

	case quiz.PhaseEligibility:
		if key == "enter" {
			m.apply(m.state.SubmitEligibility())
			return m, nil
		}
		if p, ok := m.playerForKey(key); ok {
			m.apply(m.state.Toggle(p))
		}
		return m, nil

	case quiz.PhaseRefundGuess:
		if key == "enter" {
			return m, m.submitRefund()
		}
		return m.updateInput(msg)

	case quiz.PhaseReview:
		switch key {
		case "r":
			next, err := m.state.Reset()
			m.apply(next, err)
			m.sessionID = uuid.NewString()
			m.savedTo = ""
			m.review = quiz.Review{}
		case "q", "enter":
			m.quitting = true
			return m, tea.Quit
		}
	}
	return m, nil
}

func (m *Model) handleSetupKey(key string) (tea.Model, tea.Cmd) {
	settings := m.state.Settings
	switch key {
	case "m":
		if settings.Mode == quiz.ModeTraining {
			settings.Mode = quiz.ModeQuiz
		} else {
			settings.Mode = quiz.ModeTraining
		}
	case "h":
		settings.Hands = nextHandOption(settings.Hands)
	case "t":
		settings.Timer = !settings.Timer
	case "q":
		m.quitting = true
		return m, tea.Quit
	case "enter", "s":
		deal, err := quiz.NewDeal(m.source)
		if err != nil {
			m.fail(err)
			return m, tea.Quit
		}
		m.apply(m.state.Start(deal, m.clock.Now()))
		m.logger.Info("Session started", "session", m.sessionID, "mode", settings.Mode, "hands", settings.Hands, "timer", settings.Timer)
		return m, m.tick()
	default:
		return m, nil
	}
	m.apply(m.state.WithSettings(settings))
	return m, nil
}

func (m *Model) submitRefund() tea.Cmd {
	var deal quiz.Deal
	if m.state.NeedsDeal() {
		var err error
		deal, err = quiz.NewDeal(m.source)
		if err != nil {
			m.fail(err)
			return tea.Quit
		}
	}
	m.apply(m.state.GuessRefund(m.input.Value(), deal))
	if m.state.Phase == quiz.PhaseReview {
		m.finish()
	}
	return nil
}

// apply installs the result of a transition. Invalid guesses keep the
// current state and ask again; any other error ends the session.
func (m *Model) apply(next quiz.State, err error) {
	if err != nil {
		if errors.Is(err, quiz.ErrInvalidGuess) {
			m.notice = "Enter a valid number!"
			if m.state.Phase == quiz.PhaseEligibility {
				m.notice = "Pick one of the players shown."
			}
			m.logger.Debug("Rejected input", "phase", m.state.Phase, "error", err)
			return
		}
		m.fail(err)
		return
	}
	if next.Phase != m.state.Phase || next.Hand != m.state.Hand {
		m.input.SetValue("")
		m.logger.Debug("Phase change", "from", m.state.Phase, "to", next.Phase, "hand", next.Hand)
	}
	m.state = next
}

func (m *Model) fail(err error) {
	m.logger.Error("Session aborted", "error", err)
	m.err = err
	m.quitting = true
}

func (m *Model) finish() {
	m.review = m.state.Review(m.sessionID, m.clock.Now())
	m.logger.Info("Session complete", "session", m.sessionID, "score", m.review.Score, "max", m.review.MaxScore)
	if m.historyPath == "" {
		return
	}
	if err := quiz.SaveHistory(m.historyPath, m.review); err != nil {
		m.logger.Error("Failed to save history", "path", m.historyPath, "error", err)
		m.notice = fmt.Sprintf("Could not save history: %v", err)
		return
	}
	m.savedTo = m.historyPath
}

func (m *Model) updateInput(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m *Model) playerForKey(key string) (scenario.Player, bool) {
	if len(key) != 1 {
		return "", false
	}
	p := scenario.Player(strings.ToUpper(key))
	if !slices.Contains(m.seats(), p) {
		return "", false
	}
	return p, true
}

// seats returns the players offered as eligibility buttons, falling back to
// everyone dealt into the current hand.
func (m *Model) seats() []scenario.Player {
	if len(m.players) > 0 {
		return m.players
	}
	return m.state.Deal.Scenario.Stacks.Players()
}

func nextHandOption(current int) int {
	i := slices.Index(quiz.HandOptions, current)
	return quiz.HandOptions[(i+1)%len(quiz.HandOptions)]
}
