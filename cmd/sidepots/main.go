package main

import (
	"github.com/alecthomas/kong"
)

// version is set by ldflags during build
var version = "dev"

type CLI struct {
	Version kong.VersionFlag `short:"v" help:"Show version"`
	Config  string           `short:"c" help:"Path to HCL config file" default:"sidepots.hcl" type:"path"`

	Play    PlayCmd    `cmd:"" default:"1" help:"Start a session in the mode set by trainer.mode in the config"`
	Train   TrainCmd   `cmd:"" help:"Practice side pots with answers shown after each question"`
	Quiz    QuizCmd    `cmd:"" help:"Test yourself with answers hidden until the review"`
	Solve   SolveCmd   `cmd:"" help:"Break a set of all-in stacks into pots"`
	Drill   DrillCmd   `cmd:"" help:"Solve and verify many random scenarios"`
	History HistoryCmd `cmd:"" help:"Work with saved session reviews"`
}

func main() {
	var cli CLI
	ctx := kong.Parse(&cli,
		kong.Name("sidepots"),
		kong.Description("Side pot trainer for poker dealers"),
		kong.UsageOnError(),
		kong.ConfigureHelp(kong.HelpOptions{
			Compact: true,
		}),
		kong.Vars{
			"version": version,
		},
	)
	err := ctx.Run(&cli)
	ctx.FatalIfErrorf(err)
}
