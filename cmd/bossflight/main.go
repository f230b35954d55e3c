package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/tuukkaea/bossflight/internal/bossflight"
	"github.com/tuukkaea/bossflight/internal/challenge"
	"github.com/tuukkaea/bossflight/internal/config"
	"github.com/tuukkaea/bossflight/internal/console"
	"github.com/tuukkaea/bossflight/internal/gameclient"
	"github.com/tuukkaea/bossflight/internal/session"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if err := run(ctx, os.Stdin, os.Stdout, os.Stderr); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, stdin io.Reader, stdout, stderr io.Writer) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	// The game owns stdout; structured logs go to stderr.
	logger := slog.New(slog.NewJSONHandler(stderr, &slog.HandlerOptions{
		Level: cfg.LogLevel,
	}))

	client, err := gameclient.New(cfg.APIURL, &http.Client{}, logger)
	if err != nil {
		return fmt.Errorf("creating game client: %w", err)
	}

	ui := console.NewPresenter(stdout, client, logger)
	orch := session.New(client, ui, session.Options{
		PlayerName:  cfg.PlayerName,
		Difficulty:  cfg.Difficulty,
		SessionID:   bossflight.SessionID(cfg.SessionID),
		FlightDelay: cfg.FlightDelay,
		DisplayHold: cfg.DisplayHold,
		Scheduler:   challenge.RealScheduler,
		Logger:      logger,
	})

	if err := orch.Start(ctx); err != nil {
		var pre *session.PreconditionError
		if errors.As(err, &pre) {
			return fmt.Errorf("%w (set PLAYER_NAME and DIFFICULTY)", err)
		}
		return fmt.Errorf("starting session: %w", err)
	}

	err = console.Run(ctx, orch, ui, stdin, logger)
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}
