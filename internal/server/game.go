package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/samber/lo"

	"github.com/tuukkaea/bossflight/internal/battery"
	"github.com/tuukkaea/bossflight/internal/bossflight"
	"github.com/tuukkaea/bossflight/internal/config"
)

var (
	ErrPlayerNameRequired = errors.New("player name is required")
	ErrUnknownAirport     = errors.New("unknown airport")
	ErrSessionClosed      = errors.New("session is no longer active")
)

// Game implements the session rules on top of a Store and a Catalog.
type Game struct {
	store   Store
	catalog *Catalog
	economy config.Economy
	broker  *Broker
	logger  *slog.Logger
	now     func() time.Time
}

func NewGame(store Store, catalog *Catalog, economy config.Economy, broker *Broker, logger *slog.Logger) *Game {
	return &Game{
		store:   store,
		catalog: catalog,
		economy: economy,
		broker:  broker,
		logger:  logger,
		now:     time.Now,
	}
}

func (g *Game) Airports() []bossflight.Airport { return g.catalog.Airports }

func (g *Game) Broker() *Broker { return g.broker }

// NewSession registers the player if needed and opens a session on a
// random start with a different random boss airport.
func (g *Game) NewSession(ctx context.Context, difficulty, playerName string) (string, error) {
	d, err := bossflight.ParseDifficulty(difficulty)
	if err != nil {
		return "", err
	}
	playerName = strings.TrimSpace(playerName)
	if playerName == "" {
		return "", ErrPlayerNameRequired
	}

	player, err := g.store.UpsertPlayer(ctx, playerName)
	if err != nil {
		return "", fmt.Errorf("upserting player: %w", err)
	}

	start := lo.Sample(g.catalog.Airports)
	boss := lo.Sample(lo.Filter(g.catalog.Airports, func(a bossflight.Airport, _ int) bool { return a.ID != start.ID }))

	sess := sessionDoc{
		ID:                uuid.NewString(),
		PlayerID:          player.ID,
		PlayerName:        player.Name,
		Difficulty:        string(d),
		StartingAirportID: start.ID,
		CurrentAirportID:  start.ID,
		BossAirportID:     boss.ID,
		BatteryLevel:      battery.Clamp(g.economy.StartingBattery(d)),
		CountriesVisited:  []string{start.CountryCode},
		Status:            string(bossflight.StatusActive),
		CreatedAt:         g.now().UTC().Format(time.RFC3339Nano),
	}
	if err := g.store.CreateSession(ctx, sess); err != nil {
		return "", err
	}

	g.logger.Info("session created",
		"session_id", sess.ID,
		"player", player.Name,
		"difficulty", d,
		"start", start.IATACode,
		"boss", boss.IATACode,
	)
	return sess.ID, nil
}

func (g *Game) State(ctx context.Context, id string) (bossflight.GameState, error) {
	sess, err := g.store.Session(ctx, id)
	if err != nil {
		return bossflight.GameState{}, err
	}
	return g.snapshot(sess), nil
}

// Challenge draws a question matching the session difficulty. Open and
// multiple-choice questions are equally likely.
func (g *Game) Challenge(ctx context.Context, id string) (bossflight.Challenge, error) {
	sess, err := g.store.Session(ctx, id)
	if err != nil {
		return nil, err
	}
	return g.catalog.randomChallenge(bossflight.Difficulty(sess.Difficulty), rand.IntN(2) == 0), nil
}

// Move relocates the player, counts the puzzle and applies the reward or
// penalty for the session difficulty.
func (g *Game) Move(ctx context.Context, id string, airportID int, passed bool) (bossflight.GameState, error) {
	airport, ok := g.catalog.Airport(airportID)
	if !ok {
		return bossflight.GameState{}, fmt.Errorf("%w: %d", ErrUnknownAirport, airportID)
	}

	sess, err := g.store.UpdateSession(ctx, id, func(s *sessionDoc) error {
		if s.Status != string(bossflight.StatusActive) {
			return ErrSessionClosed
		}
		d := bossflight.Difficulty(s.Difficulty)
		delta := -g.economy.Penalty(d)
		if passed {
			delta = g.economy.Reward(d)
		}
		s.CurrentAirportID = airport.ID
		s.PuzzlesSolved++
		s.BatteryLevel = battery.ApplyDelta(s.BatteryLevel, delta)
		if !lo.Contains(s.CountriesVisited, airport.CountryCode) {
			s.CountriesVisited = append(s.CountriesVisited, airport.CountryCode)
		}
		return nil
	})
	if err != nil {
		return bossflight.GameState{}, err
	}

	g.broker.Publish(SessionEvent{
		Type:          eventMoved,
		SessionID:     sess.ID,
		AirportID:     sess.CurrentAirportID,
		BatteryLevel:  sess.BatteryLevel,
		PuzzlesSolved: sess.PuzzlesSolved,
		Status:        sess.Status,
	})
	return g.snapshot(sess), nil
}

// SetStatus records a new lifecycle status. Any terminal status stamps the
// completion time.
func (g *Game) SetStatus(ctx context.Context, id, status string) error {
	st, err := bossflight.ParseStatus(status)
	if err != nil {
		return err
	}

	sess, err := g.store.UpdateSession(ctx, id, func(s *sessionDoc) error {
		s.Status = string(st)
		s.CompletedAt = nil
		if st != bossflight.StatusActive {
			ts := g.now().UTC().Format(time.RFC3339Nano)
			s.CompletedAt = &ts
		}
		return nil
	})
	if err != nil {
		return err
	}

	g.logger.Info("session status changed", "session_id", sess.ID, "status", st)
	g.broker.Publish(SessionEvent{
		Type:          eventStatusChanged,
		SessionID:     sess.ID,
		AirportID:     sess.CurrentAirportID,
		BatteryLevel:  sess.BatteryLevel,
		PuzzlesSolved: sess.PuzzlesSolved,
		Status:        sess.Status,
	})
	return nil
}

func (g *Game) snapshot(s sessionDoc) bossflight.GameState {
	airport := func(id int) *bossflight.Airport {
		a, ok := g.catalog.Airport(id)
		if !ok {
			return nil
		}
		return &a
	}
	return bossflight.GameState{
		SessionID:       bossflight.SessionID(s.ID),
		Player:          bossflight.Player{Name: s.PlayerName},
		BatteryLevel:    s.BatteryLevel,
		DifficultyLevel: s.Difficulty,
		CurrentAirport:  airport(s.CurrentAirportID),
		BossAirport:     airport(s.BossAirportID),
		StartingAirport: airport(s.StartingAirportID),
		PuzzlesSolved:   s.PuzzlesSolved,
		Status:          bossflight.Status(s.Status),
	}
}
