package main

import (
	"fmt"
	"os"

	"github.com/lox/sidepots/internal/scenario"
	"github.com/lox/sidepots/internal/sidepot"
	"github.com/lox/sidepots/internal/tui"
)

// SolveCmd prints the pot breakdown for a hand given on the command line.
type SolveCmd struct {
	Stack map[string]int `short:"s" help:"Player stack as PLAYER=CHIPS (repeatable)" required:""`
	AllIn []string       `name:"all-in" short:"a" help:"Comma-separated players who are all in" required:""`
}

func (cmd *SolveCmd) Run() error {
	stacks := make(scenario.Stacks, len(cmd.Stack))
	for p, amount := range cmd.Stack {
		stacks[scenario.Player(p)] = amount
	}
	allIn := make([]scenario.Player, len(cmd.AllIn))
	for i, p := range cmd.AllIn {
		allIn[i] = scenario.Player(p)
	}

	result, err := sidepot.Partition(stacks, allIn)
	if err != nil {
		return err
	}
	if err := result.Verify(stacks, allIn); err != nil {
		return err
	}

	out, err := tui.RenderResult(stacks, allIn, result)
	if err != nil {
		return err
	}
	_, err = fmt.Fprint(os.Stdout, out)
	return err
}
