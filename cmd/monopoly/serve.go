package main

import (
	"golang.org/x/sync/errgroup"

	"github.com/PythonSmall-Q/Monopoly/internal/config"
	"github.com/PythonSmall-Q/Monopoly/internal/game"
	"github.com/PythonSmall-Q/Monopoly/internal/server"
)

// ServeCmd runs an automated game and streams it to websocket observers.
type ServeCmd struct {
	Addr   string `kong:"default=':8080',help='Observer server address'"`
	Config string `kong:"default='monopoly.hcl',help='Path to the HCL config file'"`
	Rounds int    `kong:"default='0',help='Stop after this many rounds (0 = play to the timer)'"`
	Seed   int64  `kong:"help='Deterministic RNG seed'"`
	Debug  bool   `kong:"help='Enable debug logging'"`
}

func (c *ServeCmd) Run() error {
	logger := setupLogger(c.Debug)

	cfg, err := config.Load(c.Config)
	if err != nil {
		return err
	}
	if c.Seed != 0 {
		cfg.Seed = c.Seed
	}
	// Observers are read-only, so every seat plays itself.
	cfg.Automated = cfg.Players
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return err
	}

	opts := []game.Option{game.WithLogger(logger)}
	if c.Rounds > 0 {
		opts = append(opts, game.WithMaxRounds(c.Rounds))
	}
	e := game.New(cfg, opts...)
	s := server.NewServer(c.Addr, e, logger)

	ctx := signalContext(logger)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return s.Start()
	})
	g.Go(func() error {
		e.Run(gctx)
		return s.Stop()
	})
	return g.Wait()
}
