package main

import (
	"github.com/lox/holdem-engine/internal/server"
)

// ServeCmd hosts one table over websockets.
type ServeCmd struct {
	Addr string `short:"a" help:"Address to bind to, e.g. :8080 (overrides config)"`
}

func (c *ServeCmd) Run(g *Globals) error {
	cfg, err := g.load()
	if err != nil {
		return err
	}
	logger := setupLogger(cfg.Server.LogLevel)
	seed := g.seed(logger)

	table, err := server.NewTable(cfg,
		server.WithLogger(logger),
		server.WithSeed(seed),
	)
	if err != nil {
		return err
	}

	addr := cfg.ServerAddress()
	if c.Addr != "" {
		addr = c.Addr
	}
	logger.Info("starting holdem server",
		"addr", addr,
		"table", cfg.Table.Name,
		"big_blind", cfg.Table.BigBlind,
		"small_blind", cfg.Table.SmallBlind,
		"max_players", cfg.Table.MaxPlayers,
		"timeout", cfg.Table.DecisionTimeout)

	ctx, cancel := signalContext(logger)
	defer cancel()
	return server.NewServer(addr, table, logger).Run(ctx)
}
