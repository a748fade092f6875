package main

import (
	"errors"
	"fmt"

	"github.com/lox/sidepots/internal/quiz"
	"github.com/lox/sidepots/internal/tui"
)

// HistoryCmd is the root command for saved session reviews.
type HistoryCmd struct {
	Render HistoryRenderCmd `cmd:"render" help:"Print a saved session review"`
}

// HistoryRenderCmd prints a TOML session review.
type HistoryRenderCmd struct {
	File string `arg:"" name:"file" help:"Path to a session review written with --history-out" type:"path"`
}

func (cmd HistoryRenderCmd) Run() error {
	if cmd.File == "" {
		return errors.New("history render requires a file path")
	}
	review, err := quiz.LoadHistory(cmd.File)
	if err != nil {
		return err
	}
	fmt.Print(tui.RenderReview(review))
	return nil
}
