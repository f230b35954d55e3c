package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/go-chi/chi/v5"
	"golang.org/x/sync/errgroup"

	"github.com/tuukkaea/bossflight/internal/config"
	"github.com/tuukkaea/bossflight/internal/database"
	"github.com/tuukkaea/bossflight/internal/handler/health"
	"github.com/tuukkaea/bossflight/internal/server"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if err := run(ctx, os.Stdout); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, stdout io.Writer) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	logger := slog.New(slog.NewJSONHandler(stdout, &slog.HandlerOptions{
		Level: cfg.LogLevel,
	}))

	// --- SQLite ---
	db, err := database.Open(ctx, cfg.DBPath)
	if err != nil {
		return fmt.Errorf("connecting to sqlite: %w", err)
	}
	defer db.Close()

	store, err := server.NewDocStore(ctx, db)
	if err != nil {
		return fmt.Errorf("initializing store: %w", err)
	}
	logger.Info("connected to sqlite", "path", cfg.DBPath)

	// --- Catalog ---
	catalog, err := server.LoadCatalog()
	if err != nil {
		return fmt.Errorf("loading catalog: %w", err)
	}
	logger.Info("catalog loaded", "airports", len(catalog.Airports))

	game := server.NewGame(store, catalog, cfg.Economy, server.NewBroker(), logger)

	// --- HTTP Server ---
	srv := server.New(cfg.HTTPAddr, logger, func(r chi.Router) {
		server.AddRoutes(r, logger, game)
		r.Mount("/healthz", health.NewHandler(logger, map[string]health.Checker{
			"sqlite":  dbChecker{db},
			"catalog": catalogChecker{catalog},
		}).Routes())
	})

	// --- Run ---
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		logger.Info("starting http server", "addr", cfg.HTTPAddr)
		return srv.Run(gctx)
	})

	g.Go(func() error {
		<-gctx.Done()
		logger.Info("shutting down http server")
		return srv.Shutdown(context.Background())
	})

	return g.Wait()
}

// dbChecker adapts *sql.DB to health.Checker.
type dbChecker struct{ db *sql.DB }

func (d dbChecker) Check(ctx context.Context) error { return d.db.PingContext(ctx) }

// catalogChecker reports a catalog that cannot host a game.
type catalogChecker struct{ c *server.Catalog }

func (c catalogChecker) Check(context.Context) error {
	if len(c.c.Airports) < 2 {
		return errors.New("catalog has fewer than two airports")
	}
	return nil
}
