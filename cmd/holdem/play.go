package main

import (
	"os"

	"github.com/lox/holdem-engine/internal/console"
)

// PlayCmd runs a hot-seat game in the terminal.
type PlayCmd struct {
	NoColor bool `help:"Disable colored output"`
}

func (c *PlayCmd) Run(g *Globals) error {
	cfg, err := g.load()
	if err != nil {
		return err
	}
	// game logs would draw over the table, keep them quiet unless asked.
	// The seed is shown in the table log instead.
	level := cfg.Server.LogLevel
	if g.LogLevel == "" {
		level = "warn"
	}
	logger := setupLogger(level)
	seed := g.seed(logger)

	con, err := console.New(cfg,
		console.WithLogger(logger),
		console.WithSeed(seed),
		console.WithColor(!c.NoColor),
	)
	if err != nil {
		return err
	}

	ctx, cancel := signalContext(logger)
	defer cancel()
	return con.Run(ctx, os.Stdin, os.Stdout)
}
