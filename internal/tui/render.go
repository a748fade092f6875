package tui

import (
	"fmt"
	"slices"
	"strings"

	"github.com/lox/sidepots/internal/chips"
	"github.com/lox/sidepots/internal/quiz"
	"github.com/lox/sidepots/internal/scenario"
	"github.com/lox/sidepots/internal/sidepot"
)

// RenderChips draws a pile of chips grouped by denomination, largest first.
func RenderChips(amount int) (string, error) {
	pile, err := chips.Decompose(amount)
	if err != nil {
		return "", err
	}
	if len(pile) == 0 {
		return InfoStyle.Render("(no chips)"), nil
	}
	parts := make([]string, 0, len(pile))
	for _, stack := range chips.Group(pile) {
		label := stack.Denomination.String()
		if stack.Count > 1 {
			label = fmt.Sprintf("%s ×%d", label, stack.Count)
		}
		parts = append(parts, ChipStyle(stack.Denomination).Render(label))
	}
	return strings.Join(parts, " "), nil
}

// RenderPots draws every pot with its chips and eligible players.
func RenderPots(pots []sidepot.Pot) (string, error) {
	var b strings.Builder
	for _, pot := range pots {
		pile, err := RenderChips(pot.Amount)
		if err != nil {
			return "", fmt.Errorf("%s: %w", pot.Name, err)
		}
		fmt.Fprintf(&b, "%s: %d chips\n", PotNameStyle.Render(pot.Name), pot.Amount)
		fmt.Fprintf(&b, "  %s\n", pile)
	}
	return b.String(), nil
}

// RenderResult draws the full solution to a hand: pots, who can win them and
// the refund.
func RenderResult(stacks scenario.Stacks, allIn []scenario.Player, result sidepot.Result) (string, error) {
	var b strings.Builder
	b.WriteString(RenderStacks(stacks, allIn))
	b.WriteString("\n")

	for _, pot := range result.Pots {
		pile, err := RenderChips(pot.Amount)
		if err != nil {
			return "", fmt.Errorf("%s: %w", pot.Name, err)
		}
		fmt.Fprintf(&b, "%s: %d chips (%d × %d), eligible: %s\n",
			PotNameStyle.Render(pot.Name), pot.Amount, pot.Portion, len(pot.Eligible), joinPlayers(pot.Eligible))
		fmt.Fprintf(&b, "  %s\n", pile)
	}

	refund := result.Refund
	fmt.Fprintf(&b, "%s: %d chips back to %s\n", PotNameStyle.Render("Refund"), refund.Amount, refund.Player)
	if refund.Amount > 0 {
		pile, err := RenderChips(refund.Amount)
		if err != nil {
			return "", fmt.Errorf("refund: %w", err)
		}
		fmt.Fprintf(&b, "  %s\n", pile)
	}
	return b.String(), nil
}

// RenderStacks lists every player's stack, marking the all-in players.
func RenderStacks(stacks scenario.Stacks, allIn []scenario.Player) string {
	var b strings.Builder
	b.WriteString(SectionStyle.Render("Player Stacks"))
	b.WriteString("\n")
	for _, p := range stacks.Players() {
		line := fmt.Sprintf("  %s: %d chips", p, stacks[p])
		if slices.Contains(allIn, p) {
			b.WriteString(AllInStyle.Render(line + "  ALL-IN"))
		} else {
			b.WriteString(PlayerInfoStyle.Render(line))
		}
		b.WriteString("\n")
	}
	fmt.Fprintf(&b, "%s %s\n", AllInStyle.Render("All-Ins:"), joinPlayers(allIn))
	return b.String()
}

// RenderReview draws the end-of-session summary and every graded answer.
func RenderReview(review quiz.Review) string {
	var b strings.Builder
	b.WriteString(HeaderStyle.Render("Quiz Complete!"))
	b.WriteString("\n\n")
	fmt.Fprintf(&b, "Final Score: %d / %d", review.Score, review.MaxScore)
	if review.MaxScore > 0 {
		fmt.Fprintf(&b, " (%.0f%%)", review.Accuracy()*100)
	}
	b.WriteString("\n")
	fmt.Fprintf(&b, "Best streak: %d\n", review.BestStreak)
	if review.Seconds > 0 {
		fmt.Fprintf(&b, "Total Time: %s\n", review.Elapsed())
	}
	b.WriteString("\n")

	for _, e := range review.Entries {
		mark := SuccessStyle.Render("✓")
		if !e.Right {
			mark = ErrorStyle.Render("✗")
		}
		fmt.Fprintf(&b, "Hand %d - %s: %s\n", e.Hand, e.Pot, mark)
		switch e.Kind {
		case quiz.EntryRefund:
			guess := "(not a number)"
			if e.Answered {
				guess = fmt.Sprintf("%d", e.GuessAmount)
			}
			fmt.Fprintf(&b, "  Your Guess: %s\n", guess)
			fmt.Fprintf(&b, "  Correct: %d\n", e.Amount)
		default:
			fmt.Fprintf(&b, "  Your Guess: %s\n", joinPlayers(e.Guess))
			fmt.Fprintf(&b, "  Correct: %s\n", joinPlayers(e.Correct))
		}
	}
	return b.String()
}

func joinPlayers(players []scenario.Player) string {
	if len(players) == 0 {
		return "(none)"
	}
	parts := make([]string, len(players))
	for i, p := range players {
		parts[i] = string(p)
	}
	return strings.Join(parts, ", ")
}
