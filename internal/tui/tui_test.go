package tui

import (
	"io"
	"os"
	"path/filepath"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"
	"github.com/coder/quartz"
	"github.com/lox/sidepots/internal/quiz"
	"github.com/lox/sidepots/internal/scenario"
	"github.com/lox/sidepots/internal/sidepot"
	"github.com/muesli/termenv"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMain(m *testing.M) {
	lipgloss.SetColorProfile(termenv.Ascii)
	os.Exit(m.Run())
}

var (
	workedScenario = scenario.Scenario{
		ID:     "worked",
		Stacks: scenario.Stacks{"A": 1000, "B": 1600, "C": 2500, "D": 3200, "E": 4100},
		AllIn:  []scenario.Player{"B", "C", "D"},
	}
	headsUpScenario = scenario.Scenario{
		ID:     "heads-up",
		Stacks: scenario.Stacks{"A": 500, "B": 1300, "C": 2000, "D": 2600, "E": 3500},
		AllIn:  []scenario.Player{"A", "B"},
	}
)

// scripted hands out a fixed list of scenarios, then the last one forever.
type scripted struct {
	scenarios []scenario.Scenario
	calls     int
}

func (s *scripted) GenerateScenario() (scenario.Scenario, error) {
	i := min(s.calls, len(s.scenarios)-1)
	s.calls++
	return s.scenarios[i], nil
}

func quietLogger() *log.Logger {
	return log.NewWithOptions(io.Discard, log.Options{Level: log.ErrorLevel})
}

func newTestModel(t *testing.T, settings quiz.Settings, history string, scenarios ...scenario.Scenario) (*Model, *quartz.Mock) {
	t.Helper()
	clock := quartz.NewMock(t)
	m := New(Options{
		Settings:    settings,
		Source:      &scripted{scenarios: scenarios},
		Players:     scenario.Players(5),
		Clock:       clock,
		Logger:      quietLogger(),
		HistoryPath: history,
	})
	return m, clock
}

func press(m *Model, keys ...string) {
	for _, k := range keys {
		switch k {
		case "enter":
			m.Update(tea.KeyMsg{Type: tea.KeyEnter})
		default:
			m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(k)})
		}
	}
}

func TestModelPlaysAFullSession(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "session.toml")
	m, _ := newTestModel(t, quiz.Settings{Mode: quiz.ModeTraining, Hands: 1}, path, workedScenario)

	assert.Contains(t, m.View(), "Setup Your Session")

	press(m, "enter")
	require.Equal(t, quiz.PhaseGuessPots, m.State().Phase)
	assert.Contains(t, m.View(), "How many pots?")

	press(m, "2", "enter")
	require.Equal(t, quiz.PhaseShowPots, m.State().Phase)
	view := m.View()
	assert.Contains(t, view, "Main Pot: 4800 chips")
	assert.Contains(t, view, "Side Pot #1: 1800 chips")

	press(m, "enter")
	require.Equal(t, quiz.PhaseEligibility, m.State().Phase)
	assert.Contains(t, m.View(), "Who is eligible for Main Pot?")

	press(m, "b", "c", "d")
	assert.Contains(t, m.View(), "Selected: B, C, D")
	press(m, "enter")
	assert.Contains(t, m.View(), "Correct!")

	press(m, "c", "d", "enter")
	require.Equal(t, quiz.PhaseRefundGuess, m.State().Phase)
	assert.Contains(t, m.View(), "go back to D")

	press(m, "700", "enter")
	require.Equal(t, quiz.PhaseReview, m.State().Phase)
	assert.Equal(t, 3, m.State().Score)
	assert.Contains(t, m.View(), "Final Score: 3 / 3")
	assert.Equal(t, path, m.SavedTo())

	review, err := quiz.LoadHistory(path)
	require.NoError(t, err)
	assert.Equal(t, 3, review.Score)
	assert.Len(t, review.Entries, 3)
	assert.NoError(t, m.Err())
}

func TestModelDealsNextHand(t *testing.T) {
	t.Parallel()

	src := &scripted{scenarios: []scenario.Scenario{workedScenario, headsUpScenario}}
	m := New(Options{
		Settings: quiz.Settings{Mode: quiz.ModeQuiz, Hands: 2},
		Source:   src,
		Clock:    quartz.NewMock(t),
		Logger:   quietLogger(),
	})

	press(m, "enter", "1", "enter", "enter", "enter", "enter", "0", "enter")
	s := m.State()
	assert.Equal(t, 2, s.Hand)
	assert.Equal(t, quiz.PhaseGuessPots, s.Phase)
	assert.Equal(t, "heads-up", s.Deal.Scenario.ID)
	assert.Equal(t, 2, src.calls)
	assert.Zero(t, s.Score)

	// Quiz mode keeps the answer hidden.
	view := m.View()
	assert.Contains(t, view, "Answer recorded.")
	assert.NotContains(t, view, "Incorrect")
	assert.Empty(t, m.SavedTo())
}

func TestModelRejectsBadPotGuess(t *testing.T) {
	t.Parallel()

	m, _ := newTestModel(t, quiz.DefaultSettings(), "", workedScenario)
	press(m, "enter", "x", "enter")

	assert.Equal(t, quiz.PhaseGuessPots, m.State().Phase)
	assert.Contains(t, m.View(), "Enter a valid number!")

	// The notice clears on the next key.
	press(m, "1")
	assert.NotContains(t, m.View(), "Enter a valid number!")
}

func TestModelSetupKeys(t *testing.T) {
	t.Parallel()

	m, _ := newTestModel(t, quiz.DefaultSettings(), "", workedScenario)

	press(m, "m", "h", "t")
	s := m.State().Settings
	assert.Equal(t, quiz.ModeQuiz, s.Mode)
	assert.Equal(t, 20, s.Hands)
	assert.True(t, s.Timer)

	press(m, "h", "h")
	assert.Equal(t, 10, m.State().Settings.Hands)
	assert.Equal(t, quiz.PhaseSetup, m.State().Phase)
}

func TestModelShowsTimer(t *testing.T) {
	t.Parallel()

	m, clock := newTestModel(t, quiz.Settings{Mode: quiz.ModeTraining, Hands: 1, Timer: true}, "", workedScenario)
	press(m, "enter")

	clock.Advance(90 * time.Second)
	assert.Contains(t, m.View(), "Time: 1m30s")
	assert.NotNil(t, m.Init())
}

func TestModelReviewTimeStopsAtLastAnswer(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "session.toml")
	m, clock := newTestModel(t, quiz.Settings{Mode: quiz.ModeTraining, Hands: 1, Timer: true}, path, headsUpScenario)
	press(m, "enter", "1", "enter", "enter", "a", "b", "enter")

	clock.Advance(30 * time.Second)
	press(m, "800", "enter")
	require.Equal(t, quiz.PhaseReview, m.State().Phase)

	clock.Advance(time.Hour)
	view := m.View()
	assert.Contains(t, view, "Total Time: 30s")
	assert.NotContains(t, view, "1h")

	saved, err := quiz.LoadHistory(path)
	require.NoError(t, err)
	assert.Equal(t, 30*time.Second, saved.Elapsed())
}

func TestModelIgnoresUnknownSeats(t *testing.T) {
	t.Parallel()

	m, _ := newTestModel(t, quiz.DefaultSettings(), "", workedScenario)
	press(m, "enter", "2", "enter", "enter", "z", "1")

	assert.Equal(t, quiz.PhaseEligibility, m.State().Phase)
	assert.Empty(t, m.State().Selection)
}

func TestModelPlayAgain(t *testing.T) {
	t.Parallel()

	m, _ := newTestModel(t, quiz.Settings{Mode: quiz.ModeTraining, Hands: 1}, "", headsUpScenario)
	press(m, "enter", "1", "enter", "enter", "a", "b", "enter", "800", "enter")
	require.Equal(t, quiz.PhaseReview, m.State().Phase)

	press(m, "r")
	assert.Equal(t, quiz.PhaseSetup, m.State().Phase)
	assert.Equal(t, 1, m.State().Settings.Hands)
	assert.Zero(t, m.State().Score)
}

type brokenSource struct{}

func (brokenSource) GenerateScenario() (scenario.Scenario, error) {
	return scenario.Scenario{ID: "tie", Stacks: scenario.Stacks{"A": 500, "B": 500}, AllIn: []scenario.Player{"A", "B"}}, nil
}

func TestModelStopsOnSourceError(t *testing.T) {
	t.Parallel()

	m := New(Options{Settings: quiz.DefaultSettings(), Source: brokenSource{}, Logger: quietLogger()})
	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})

	assert.NotNil(t, cmd)
	assert.ErrorIs(t, m.Err(), sidepot.ErrDuplicateStack)
	assert.Empty(t, m.View())
}

func TestModelQuitKeys(t *testing.T) {
	t.Parallel()

	m, _ := newTestModel(t, quiz.DefaultSettings(), "", workedScenario)
	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyCtrlC})
	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())
}
