package main

import (
	"context"
	"time"

	"github.com/coder/quartz"
	"golang.org/x/sync/errgroup"

	"github.com/lox/cardclash/cmd/cardclash/shared"
	"github.com/lox/cardclash/internal/arena"
	"github.com/lox/cardclash/internal/gateway"
	"github.com/lox/cardclash/internal/randutil"
	"github.com/lox/cardclash/internal/storage/sqlite"
)

// ServeCmd runs the WebSocket gateway.
type ServeCmd struct {
	Config string `kong:"default='cardclash.hcl',help='Path to HCL config file'"`
	Addr   string `kong:"help='Server address (overrides config)'"`
	Debug  bool   `kong:"help='Enable debug logging'"`
	JSON   bool   `kong:"help='Structured JSON logging instead of console output'"`
	Seed   *int64 `kong:"help='Deterministic RNG seed (optional)'"`
}

func (c *ServeCmd) Run() error {
	logger := shared.SetupLogger(c.Debug)
	if c.JSON {
		logger = shared.SetupStructuredLogger(c.Debug)
	}

	cfg, err := gateway.LoadConfig(c.Config)
	if err != nil {
		return err
	}
	if c.Addr != "" {
		cfg.Server.Addr = c.Addr
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	var seed int64
	if c.Seed != nil {
		seed = *c.Seed
		logger.Info().Int64("seed", seed).Msg("Using deterministic seed")
	} else {
		seed = time.Now().UnixNano()
		logger.Info().Int64("seed", seed).Msg("Using random seed")
	}
	rng := randutil.New(seed)

	store, err := sqlite.Open(cfg.Battle.DBPath)
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	registry := arena.NewRegistry(logger)
	scheduler := arena.NewScheduler(logger, registry, quartz.NewReal(), rng,
		cfg.MinThinkingDelay(), cfg.MaxThinkingDelay())
	service := gateway.NewService(logger, registry, scheduler, store, rng)
	server := gateway.NewServer(cfg.Server.Addr, logger, service)

	logger.Info().
		Str("address", cfg.Server.Addr).
		Str("db_path", cfg.Battle.DBPath).
		Dur("min_thinking", cfg.MinThinkingDelay()).
		Dur("max_thinking", cfg.MaxThinkingDelay()).
		Msg("Starting CardClash gateway")

	ctx := shared.SetupSignalHandlerWithLogger(logger)

	g, ctx := errgroup.WithContext(ctx)
	g.Go(server.Start)
	g.Go(func() error {
		<-ctx.Done()
		logger.Info().Msg("Shutting down server...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return server.Stop(shutdownCtx)
	})

	return g.Wait()
}
