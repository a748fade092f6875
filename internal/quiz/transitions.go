package quiz

import (
	"fmt"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/lox/sidepots/internal/scenario"
)

func (s State) expect(phase Phase) error {
	if s.Phase != phase {
		return fmt.Errorf("%w: in %s, need %s", ErrInvalidTransition, s.Phase, phase)
	}
	return nil
}

// WithSettings replaces the settings while still on the setup screen.
func (s State) WithSettings(settings Settings) (State, error) {
	if err := s.expect(PhaseSetup); err != nil {
		return s, err
	}
	next := s.clone()
	next.Settings = settings
	return next, nil
}

// Start begins the first hand. now is recorded as the start time when the
// timer is enabled.
func (s State) Start(deal Deal, now time.Time) (State, error) {
	if err := s.expect(PhaseSetup); err != nil {
		return s, err
	}
	if err := s.Settings.Validate(); err != nil {
		return s, err
	}
	next := State{Settings: s.Settings}
	if next.Settings.Timer {
		next.StartedAt = now
	}
	next.Hand = 1
	return next.deal(deal), nil
}

func (s State) deal(deal Deal) State {
	s.Phase = PhaseGuessPots
	s.Deal = deal
	s.PotGuess = 0
	s.PotIndex = 0
	s.Selection = nil
	s.Feedback = Feedback{}
	return s
}

// GuessPots records the guessed number of pots. Input that is not a
// non-negative integer is rejected with ErrInvalidGuess and the state is
// unchanged, so the caller can prompt again. The pot count is not scored.
func (s State) GuessPots(input string) (State, error) {
	if err := s.expect(PhaseGuessPots); err != nil {
		return s, err
	}
	n, err := parseCount(input)
	if err != nil {
		return s, err
	}
	next := s.clone()
	next.PotGuess = n
	next.Phase = PhaseShowPots
	next.Feedback = Feedback{
		Graded:  false,
		Correct: n == len(s.Deal.Result.Pots),
		Answer:  strconv.Itoa(len(s.Deal.Result.Pots)),
	}
	return next, nil
}

// Continue moves from the pot breakdown to the first eligibility question.
// A hand without pots cannot occur for valid scenarios, but if it does the
// eligibility questions are skipped.
func (s State) Continue() (State, error) {
	if err := s.expect(PhaseShowPots); err != nil {
		return s, err
	}
	next := s.clone()
	next.PotIndex = 0
	next.Selection = nil
	next.Feedback = Feedback{}
	next.Phase = PhaseEligibility
	if len(s.Deal.Result.Pots) == 0 {
		next.Phase = PhaseRefundGuess
	}
	return next, nil
}

// Toggle adds p to the eligibility selection, or removes it if present.
func (s State) Toggle(p scenario.Player) (State, error) {
	if err := s.expect(PhaseEligibility); err != nil {
		return s, err
	}
	if _, ok := s.Deal.Scenario.Stacks[p]; !ok {
		return s, fmt.Errorf("%w: no player %q", ErrInvalidGuess, p)
	}
	next := s.clone()
	if i := slices.Index(next.Selection, p); i >= 0 {
		next.Selection = slices.Delete(next.Selection, i, i+1)
	} else {
		next.Selection = append(next.Selection, p)
	}
	return next, nil
}

// SubmitEligibility grades the selection against the current pot and moves
// to the next pot, or to the refund question after the last one.
func (s State) SubmitEligibility() (State, error) {
	if err := s.expect(PhaseEligibility); err != nil {
		return s, err
	}
	pot, ok := s.CurrentPot()
	if !ok {
		return s, fmt.Errorf("%w: no pot at index %d", ErrInvalidTransition, s.PotIndex)
	}

	correct := sortedPlayers(pot.Eligible)
	guess := sortedPlayers(s.Selection)
	right := slices.Equal(correct, guess)

	next := s.clone().grade(right)
	next.History = append(next.History, Entry{
		Hand:     s.Hand,
		Kind:     EntryEligibility,
		Pot:      pot.Name,
		Correct:  correct,
		Guess:    guess,
		Right:    right,
		Amount:   pot.Amount,
		Answered: true,
	})
	next.Feedback = Feedback{Graded: true, Correct: right, Answer: joinPlayers(correct)}

	next.Selection = nil
	if s.PotIndex+1 < len(s.Deal.Result.Pots) {
		next.PotIndex = s.PotIndex + 1
	} else {
		next.Phase = PhaseRefundGuess
	}
	return next, nil
}

// GuessRefund grades the refund guess and finishes the hand. Input that is
// not a number is recorded as a miss without touching score or streak, and
// is not re-prompted. The session then
// moves to the next hand using deal, or to the review after the last hand,
// in which case deal is ignored.
func (s State) GuessRefund(input string, deal Deal) (State, error) {
	if err := s.expect(PhaseRefundGuess); err != nil {
		return s, err
	}
	refund := s.Deal.Result.Refund
	amount, parseErr := parseCount(input)
	answered := parseErr == nil
	right := answered && amount == refund.Amount

	next := s.clone()
	if answered {
		next = next.grade(right)
	}
	next.History = append(next.History, Entry{
		Hand:        s.Hand,
		Kind:        EntryRefund,
		Pot:         "Refund to " + string(refund.Player),
		Right:       right,
		Amount:      refund.Amount,
		GuessAmount: amount,
		Answered:    answered,
	})
	feedback := Feedback{Graded: true, Correct: right, Answer: strconv.Itoa(refund.Amount)}

	if s.Hand >= s.Settings.Hands {
		next.Phase = PhaseReview
		next.Selection = nil
		next.Feedback = feedback
		return next, nil
	}
	next.Hand = s.Hand + 1
	next = next.deal(deal)
	next.Feedback = feedback
	return next, nil
}

// NeedsDeal reports whether the next GuessRefund will start a new hand.
func (s State) NeedsDeal() bool {
	return s.Phase == PhaseRefundGuess && s.Hand < s.Settings.Hands
}

// Reset returns to the setup screen keeping the settings (play again).
func (s State) Reset() (State, error) {
	if err := s.expect(PhaseReview); err != nil {
		return s, err
	}
	return New(s.Settings), nil
}

func (s State) grade(right bool) State {
	if right {
		s.Score++
		s.Streak++
		s.BestStreak = max(s.BestStreak, s.Streak)
	} else {
		s.Streak = 0
	}
	return s
}

func parseCount(input string) (int, error) {
	trimmed := strings.TrimSpace(input)
	n, err := strconv.Atoi(trimmed)
	if err != nil || n < 0 || strings.HasPrefix(trimmed, "+") {
		return 0, fmt.Errorf("%w: %q", ErrInvalidGuess, input)
	}
	return n, nil
}

func sortedPlayers(players []scenario.Player) []scenario.Player {
	out := slices.Clone(players)
	slices.Sort(out)
	return slices.Compact(out)
}

func joinPlayers(players []scenario.Player) string {
	parts := make([]string, len(players))
	for i, p := range players {
		parts[i] = string(p)
	}
	return strings.Join(parts, ", ")
}
