package main

import (
	"github.com/alecthomas/kong"
)

// version is set by ldflags during build
var version = "dev"

type CLI struct {
	Version kong.VersionFlag `short:"v" help:"Show version"`
	Serve   ServeCmd         `cmd:"" help:"Run the battle gateway server"`
	Duel    DuelCmd          `cmd:"" help:"Play a local battle against a scripted opponent"`
	Cards   CardsCmd         `cmd:"" help:"Manage a player's card collection"`
}

func main() {
	var cli CLI
	ctx := kong.Parse(&cli,
		kong.Name("cardclash"),
		kong.Description("Card battle engine for chat channels"),
		kong.UsageOnError(),
		kong.ConfigureHelp(kong.HelpOptions{
			Compact: true,
		}),
		kong.Vars{
			"version": version,
		},
	)
	err := ctx.Run()
	ctx.FatalIfErrorf(err)
}
