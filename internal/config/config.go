package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"

	"github.com/tuukkaea/bossflight/internal/bossflight"
)

type Config struct {
	// Reference game service.
	HTTPAddr string     `env:"HTTP_ADDR" envDefault:":8080"`
	DBPath   string     `env:"DB_PATH" envDefault:"data/bossflight.db"`
	LogLevel slog.Level `env:"LOG_LEVEL" envDefault:"INFO"`
	Economy  Economy

	// Terminal client.
	APIURL      string        `env:"API_URL" envDefault:"http://localhost:8080"`
	PlayerName  string        `env:"PLAYER_NAME"`
	Difficulty  string        `env:"DIFFICULTY"`
	SessionID   string        `env:"SESSION_ID"`
	FlightDelay time.Duration `env:"FLIGHT_DELAY" envDefault:"1500ms"`
	DisplayHold time.Duration `env:"DISPLAY_HOLD" envDefault:"2s"`
}

// Economy is the server-side battery table, per difficulty.
type Economy struct {
	StartingEasy   int `env:"STARTING_BATTERY_EASY" envDefault:"100"`
	StartingMedium int `env:"STARTING_BATTERY_MEDIUM" envDefault:"90"`
	StartingHard   int `env:"STARTING_BATTERY_HARD" envDefault:"75"`
	RewardEasy     int `env:"BATTERY_REWARD_EASY" envDefault:"20"`
	RewardMedium   int `env:"BATTERY_REWARD_MEDIUM" envDefault:"15"`
	RewardHard     int `env:"BATTERY_REWARD_HARD" envDefault:"10"`
	PenaltyEasy    int `env:"BATTERY_PENALTY_EASY" envDefault:"20"`
	PenaltyMedium  int `env:"BATTERY_PENALTY_MEDIUM" envDefault:"25"`
	PenaltyHard    int `env:"BATTERY_PENALTY_HARD" envDefault:"30"`
}

// DefaultEconomy returns the table with every default applied.
func DefaultEconomy() Economy {
	e, _ := env.ParseAsWithOptions[Economy](env.Options{Environment: map[string]string{}})
	return e
}

func (e Economy) pick(d bossflight.Difficulty, easy, medium, hard int) int {
	switch d {
	case bossflight.DifficultyEasy:
		return easy
	case bossflight.DifficultyHard:
		return hard
	default:
		return medium
	}
}

func (e Economy) StartingBattery(d bossflight.Difficulty) int {
	return e.pick(d, e.StartingEasy, e.StartingMedium, e.StartingHard)
}

func (e Economy) Reward(d bossflight.Difficulty) int {
	return e.pick(d, e.RewardEasy, e.RewardMedium, e.RewardHard)
}

func (e Economy) Penalty(d bossflight.Difficulty) int {
	return e.pick(d, e.PenaltyEasy, e.PenaltyMedium, e.PenaltyHard)
}

// Load reads an optional .env file and then the environment.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("loading .env: %w", err)
	}
	cfg, err := env.ParseAs[Config]()
	if err != nil {
		return nil, fmt.Errorf("parsing environment: %w", err)
	}
	return &cfg, nil
}
