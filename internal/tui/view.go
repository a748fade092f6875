package tui

import (
	"fmt"
	"strings"

	"github.com/lox/sidepots/internal/quiz"
)

// View renders the TUI
func (m *Model) View() string {
	if m.quitting {
		return ""
	}

	var b strings.Builder
	b.WriteString(HeaderStyle.Render("Side Pot Trainer"))
	b.WriteString("\n\n")

	s := m.state
	switch s.Phase {
	case quiz.PhaseSetup:
		b.WriteString(m.renderSetup())
	case quiz.PhaseReview:
		b.WriteString(RenderReview(m.review))
		if m.savedTo != "" {
			b.WriteString(InfoStyle.Render("History saved to " + m.savedTo))
			b.WriteString("\n")
		}
	default:
		b.WriteString(m.renderHand())
		b.WriteString("\n")
		b.WriteString(m.renderQuestion())
	}

	if m.notice != "" {
		b.WriteString("\n")
		b.WriteString(WarningStyle.Render(m.notice))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(InfoStyle.Render(m.helpText()))
	return b.String()
}

func (m *Model) renderSetup() string {
	settings := m.state.Settings
	timer := "off"
	if settings.Timer {
		timer = "on"
	}

	var b strings.Builder
	b.WriteString(SectionStyle.Render("Setup Your Session"))
	b.WriteString("\n")
	fmt.Fprintf(&b, "  [m] Mode:  %s\n", settings.Mode)
	fmt.Fprintf(&b, "  [h] Hands: %d\n", settings.Hands)
	fmt.Fprintf(&b, "  [t] Timer: %s\n", timer)
	return b.String()
}

func (m *Model) renderHand() string {
	s := m.state
	var b strings.Builder
	fmt.Fprintf(&b, "%s\n", SectionStyle.Render(fmt.Sprintf("Hand %d of %d", s.Hand, s.Settings.Hands)))
	b.WriteString(RenderStacks(s.Deal.Scenario.Stacks, s.Deal.Scenario.AllIn))
	fmt.Fprintf(&b, "Streak: %d  Score: %d\n", s.Streak, s.Score)
	if s.Settings.Timer {
		fmt.Fprintf(&b, "Time: %s\n", s.Elapsed(m.clock.Now()))
	}
	if fb := m.renderFeedback(); fb != "" {
		b.WriteString(fb)
		b.WriteString("\n")
	}
	return b.String()
}

// renderFeedback reports on the last graded answer. Quiz mode only
// acknowledges the answer; the review shows what was right.
func (m *Model) renderFeedback() string {
	fb := m.state.Feedback
	if !fb.Graded {
		return ""
	}
	if m.state.Settings.Mode == quiz.ModeQuiz {
		return InfoStyle.Render("Answer recorded.")
	}
	if fb.Correct {
		return SuccessStyle.Render("Correct!")
	}
	return ErrorStyle.Render("Incorrect. Correct: " + fb.Answer)
}

func (m *Model) renderQuestion() string {
	s := m.state
	var b strings.Builder

	switch s.Phase {
	case quiz.PhaseGuessPots:
		b.WriteString(SectionStyle.Render("Step 1: How many pots?"))
		b.WriteString("\nTotal pots (main + side)?\n")
		b.WriteString(m.input.View())
		b.WriteString("\n")

	case quiz.PhaseShowPots:
		b.WriteString(SectionStyle.Render("Step 2: Pot Breakdown"))
		b.WriteString("\n")
		fmt.Fprintf(&b, "You guessed: %d\n", s.PotGuess)
		fmt.Fprintf(&b, "Actual pots: %d\n\n", len(s.Deal.Result.Pots))
		pots, err := RenderPots(s.Deal.Result.Pots)
		if err != nil {
			b.WriteString(ErrorStyle.Render(err.Error()))
		} else {
			b.WriteString(pots)
		}

	case quiz.PhaseEligibility:
		pot, ok := s.CurrentPot()
		if !ok {
			break
		}
		b.WriteString(SectionStyle.Render(fmt.Sprintf("Step 3: Who is eligible for %s?", pot.Name)))
		b.WriteString("\n")
		fmt.Fprintf(&b, "Pot Amount: %d chips\n\n", pot.Amount)
		seats := m.seats()
		buttons := make([]string, 0, len(seats))
		for _, p := range seats {
			if s.Selected(p) {
				buttons = append(buttons, SelectedStyle.Render("✓ "+string(p)))
			} else {
				buttons = append(buttons, UnselectedStyle.Render(string(p)))
			}
		}
		b.WriteString(strings.Join(buttons, " "))
		b.WriteString("\n")
		fmt.Fprintf(&b, "Selected: %s\n", joinPlayers(s.Selection))

	case quiz.PhaseRefundGuess:
		b.WriteString(SectionStyle.Render("Step 4: Excess Chips"))
		b.WriteString("\n")
		fmt.Fprintf(&b, "How many chips go back to %s (largest stack)?\n", s.Deal.Result.Refund.Player)
		b.WriteString(m.input.View())
		b.WriteString("\n")
	}
	return b.String()
}

func (m *Model) helpText() string {
	switch m.state.Phase {
	case quiz.PhaseSetup:
		return "m/h/t to change • Enter to start • q to quit"
	case quiz.PhaseShowPots:
		return "Enter to continue • Ctrl+C to quit"
	case quiz.PhaseEligibility:
		return "Press a player's letter to toggle • Enter to submit • Ctrl+C to quit"
	case quiz.PhaseReview:
		return "r to play again • q to quit"
	default:
		return "Enter to submit • Ctrl+C to quit"
	}
}
