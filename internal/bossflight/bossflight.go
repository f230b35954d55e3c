// Package bossflight defines the core domain types shared by the game client,
// the session orchestrator and the reference game service.
// It has no external dependencies.
package bossflight

import (
	"errors"
	"fmt"
	"strings"
)

type Difficulty string

const (
	DifficultyEasy   Difficulty = "easy"
	DifficultyMedium Difficulty = "medium"
	DifficultyHard   Difficulty = "hard"
)

var ErrInvalidDifficulty = errors.New("invalid difficulty level, choose from: easy, medium, hard")

// ParseDifficulty accepts any casing and surrounding whitespace.
func ParseDifficulty(s string) (Difficulty, error) {
	d := Difficulty(strings.ToLower(strings.TrimSpace(s)))
	if !d.Valid() {
		return "", fmt.Errorf("%w: %q", ErrInvalidDifficulty, s)
	}
	return d, nil
}

func (d Difficulty) Valid() bool {
	switch d {
	case DifficultyEasy, DifficultyMedium, DifficultyHard:
		return true
	}
	return false
}

type Status string

const (
	StatusActive    Status = "active"
	StatusWon       Status = "won"
	StatusLost      Status = "lost"
	StatusAbandoned Status = "abandoned"
)

var ErrInvalidStatus = errors.New("invalid session status, choose from: active, won, lost, abandoned")

func ParseStatus(s string) (Status, error) {
	st := Status(strings.ToLower(strings.TrimSpace(s)))
	switch st {
	case StatusActive, StatusWon, StatusLost, StatusAbandoned:
		return st, nil
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidStatus, s)
}

// Result is the verdict of a concluded session. The zero value means the
// session has not concluded.
type Result string

const (
	ResultNone Result = ""
	ResultWon  Result = "won"
	ResultLost Result = "lost"
)

// Status maps a terminal result onto the status reported to the service.
func (r Result) Status() Status {
	if r == ResultWon {
		return StatusWon
	}
	return StatusLost
}

type Airport struct {
	ID          int     `json:"id" yaml:"id"`
	Name        string  `json:"name" yaml:"name"`
	IATACode    string  `json:"iata_code" yaml:"iata_code"`
	ICAOCode    string  `json:"icao_code" yaml:"icao_code"`
	City        string  `json:"city" yaml:"city"`
	CountryCode string  `json:"country_code" yaml:"country_code"`
	Latitude    float64 `json:"latitude" yaml:"latitude"`
	Longitude   float64 `json:"longitude" yaml:"longitude"`
	Continent   string  `json:"continent,omitempty" yaml:"continent"`
}

type Player struct {
	Name string `json:"name"`
}

// GameState is one server-reported snapshot of a session.
type GameState struct {
	SessionID       SessionID `json:"session_id"`
	Player          Player    `json:"player"`
	BatteryLevel    int       `json:"battery_level"`
	DifficultyLevel string    `json:"difficulty_level"`
	CurrentAirport  *Airport  `json:"current_airport"`
	BossAirport     *Airport  `json:"boss_airport"`
	StartingAirport *Airport  `json:"starting_airport"`
	PuzzlesSolved   int       `json:"puzzles_solved"`
	Status          Status    `json:"status"`
}

// WithBattery returns a copy of the snapshot carrying a different battery
// level. Airports are shared; they are never mutated.
func (s GameState) WithBattery(level int) GameState {
	s.BatteryLevel = level
	return s
}

// AtBoss reports whether the player stands on the boss airport.
func (s GameState) AtBoss() bool {
	return s.CurrentAirport != nil && s.BossAirport != nil && s.CurrentAirport.ID == s.BossAirport.ID
}

// Verdict is the terminal navigation request handed to the presentation
// layer once a session concludes.
type Verdict struct {
	SessionID SessionID `json:"session_id"`
	Result    Result    `json:"result"`
}
