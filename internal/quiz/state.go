// Package quiz drives a training session as a state machine. State is a
// plain value: every transition returns the next State and leaves the
// receiver untouched, so callers can keep, compare or replay states freely.
package quiz

import (
	"fmt"
	"slices"
	"time"

	"github.com/lox/sidepots/internal/scenario"
	"github.com/lox/sidepots/internal/sidepot"
)

// Phase is a step in the session flow.
type Phase string

const (
	PhaseSetup       Phase = "setup"
	PhaseGuessPots   Phase = "guess_pots"
	PhaseShowPots    Phase = "show_pots"
	PhaseEligibility Phase = "eligibility"
	PhaseRefundGuess Phase = "refund_guess"
	PhaseReview      Phase = "review"
)

// Mode controls how much feedback the player sees while playing.
type Mode string

const (
	// ModeTraining reveals the right answer after every question.
	ModeTraining Mode = "training"
	// ModeQuiz keeps answers hidden until the review.
	ModeQuiz Mode = "quiz"
)

// HandOptions are the session lengths offered on the setup screen.
var HandOptions = []int{10, 20, 30}

// Error is the error type for rejected transitions.
type Error string

func (e Error) Error() string {
	return string(e)
}

const (
	ErrInvalidTransition Error = "quiz: transition not allowed in this phase"
	ErrInvalidGuess      Error = "quiz: guess is not a valid answer"
	ErrInvalidSettings   Error = "quiz: invalid settings"
)

// Settings are chosen on the setup screen.
type Settings struct {
	Mode  Mode
	Hands int
	Timer bool
}

// DefaultSettings returns a ten-hand training session without a timer.
func DefaultSettings() Settings {
	return Settings{Mode: ModeTraining, Hands: 10}
}

// Validate checks that the settings describe a playable session.
func (s Settings) Validate() error {
	if s.Mode != ModeTraining && s.Mode != ModeQuiz {
		return fmt.Errorf("%w: unknown mode %q", ErrInvalidSettings, s.Mode)
	}
	if s.Hands < 1 {
		return fmt.Errorf("%w: hands must be positive, got %d", ErrInvalidSettings, s.Hands)
	}
	return nil
}

// Deal is a generated scenario together with its solved pots.
type Deal struct {
	Scenario scenario.Scenario
	Result   sidepot.Result
}

// ScenarioSource produces scenarios for new hands.
type ScenarioSource interface {
	GenerateScenario() (scenario.Scenario, error)
}

// NewDeal draws a scenario from src and partitions it.
func NewDeal(src ScenarioSource) (Deal, error) {
	sc, err := src.GenerateScenario()
	if err != nil {
		return Deal{}, fmt.Errorf("generating scenario: %w", err)
	}
	result, err := sidepot.Partition(sc.Stacks, sc.AllIn)
	if err != nil {
		return Deal{}, fmt.Errorf("partitioning scenario %s: %w", sc.ID, err)
	}
	return Deal{Scenario: sc, Result: result}, nil
}

// Feedback describes the outcome of the latest graded answer.
type Feedback struct {
	Graded  bool
	Correct bool
	Answer  string // the right answer, formatted for display
}

// State is a snapshot of a session.
type State struct {
	Settings   Settings
	Phase      Phase
	Hand       int // 1-based
	Score      int
	Streak     int
	BestStreak int
	StartedAt  time.Time

	Deal      Deal
	PotGuess  int
	PotIndex  int
	Selection []scenario.Player
	Feedback  Feedback
	History   []Entry
}

// New returns a session on the setup screen.
func New(settings Settings) State {
	return State{Settings: settings, Phase: PhaseSetup}
}

// CurrentPot returns the pot being asked about in the eligibility phase.
func (s State) CurrentPot() (sidepot.Pot, bool) {
	if s.Phase != PhaseEligibility || s.PotIndex >= len(s.Deal.Result.Pots) {
		return sidepot.Pot{}, false
	}
	return s.Deal.Result.Pots[s.PotIndex], true
}

// Selected reports whether p is in the eligibility selection.
func (s State) Selected(p scenario.Player) bool {
	return slices.Contains(s.Selection, p)
}

// Questions returns how many answers have been graded so far.
func (s State) Questions() int {
	return len(s.History)
}

// Elapsed returns the time since the session started, or zero when the
// timer is off.
func (s State) Elapsed(now time.Time) time.Duration {
	if !s.Settings.Timer || s.StartedAt.IsZero() {
		return 0
	}
	return now.Sub(s.StartedAt).Truncate(time.Second)
}

// clone returns a copy of s that shares no slices with it.
func (s State) clone() State {
	s.Selection = slices.Clone(s.Selection)
	s.History = slices.Clone(s.History)
	return s
}
