package server

import (
	"context"
	"errors"
)

var ErrNotFound = errors.New("not found")

type playerDoc struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	CreatedAt string `json:"createdAt"`
}

type sessionDoc struct {
	ID                string   `json:"id"`
	PlayerID          string   `json:"playerId"`
	PlayerName        string   `json:"playerName"`
	Difficulty        string   `json:"difficulty"`
	StartingAirportID int      `json:"startingAirportId"`
	CurrentAirportID  int      `json:"currentAirportId"`
	BossAirportID     int      `json:"bossAirportId"`
	BatteryLevel      int      `json:"batteryLevel"`
	PuzzlesSolved     int      `json:"puzzlesSolved"`
	CountriesVisited  []string `json:"countriesVisited"`
	Status            string   `json:"status"`
	CreatedAt         string   `json:"createdAt"`
	CompletedAt       *string  `json:"completedAt"`
}

// Store persists players and game sessions.
type Store interface {
	// UpsertPlayer returns the player with the given name, creating it
	// when it does not exist yet.
	UpsertPlayer(ctx context.Context, name string) (playerDoc, error)
	CreateSession(ctx context.Context, s sessionDoc) error
	Session(ctx context.Context, id string) (sessionDoc, error)
	// UpdateSession applies fn to the stored session atomically and
	// returns the result. An error from fn aborts the update.
	UpdateSession(ctx context.Context, id string, fn func(*sessionDoc) error) (sessionDoc, error)
}
