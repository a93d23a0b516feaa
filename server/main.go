package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v3"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/meikuraledutech/studyplan"
	"github.com/meikuraledutech/studyplan/internal/config"
	"github.com/meikuraledutech/studyplan/internal/ctxlog"
	"github.com/meikuraledutech/studyplan/internal/logging"
	"github.com/meikuraledutech/studyplan/memstore"
	"github.com/meikuraledutech/studyplan/postgres"
)

func main() {
	cfg, cfgPath, err := config.Load(".", os.Getenv("STUDYPLAN_CONFIG"), os.Environ())
	if err != nil {
		slog.Error("load config", "error", err)
		os.Exit(1)
	}

	logger := logging.New(cfg.LogLevel, cfg.LogFormat, os.Stderr)
	if cfgPath != "" {
		logger.Debug("config loaded", "path", cfgPath)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	ctx = ctxlog.WithLogger(ctx, logger)

	if err := run(ctx, cfg); err != nil {
		logger.Error("server stopped", "error", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg config.Config) error {
	logger := ctxlog.FromContext(ctx)

	var store studyplan.Store
	if cfg.DatabaseURL == "" {
		logger.Warn("DATABASE_URL is not set, catalogues are kept in memory")
		store = memstore.New()
	} else {
		pool, err := pgxpool.New(ctx, cfg.DatabaseURL)
		if err != nil {
			return err
		}
		defer pool.Close()
		store = postgres.New(pool)
	}

	app := newApp(store, logger)

	errCh := make(chan error, 1)
	go func() {
		logger.Info("listening", "addr", cfg.Listen)
		errCh <- app.Listen(cfg.Listen, fiber.ListenConfig{DisableStartupMessage: true})
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		logger.Info("shutting down")
		return app.Shutdown()
	}
}
