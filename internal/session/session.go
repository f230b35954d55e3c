// Package session orchestrates one player's game: it owns the session id,
// the last known snapshot and the conclusion state, and sequences calls to
// the game service, the challenge machine and the conclusion detector.
package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/tuukkaea/bossflight/internal/bossflight"
	"github.com/tuukkaea/bossflight/internal/challenge"
	"github.com/tuukkaea/bossflight/internal/conclusion"
)

type Phase int

const (
	PhaseBootstrapping Phase = iota
	PhaseActive
	PhaseConcluding
	PhaseConcluded
)

func (p Phase) String() string {
	switch p {
	case PhaseBootstrapping:
		return "bootstrapping"
	case PhaseActive:
		return "active"
	case PhaseConcluding:
		return "concluding"
	case PhaseConcluded:
		return "concluded"
	}
	return "unknown"
}

// Service is the remote game service as the orchestrator sees it.
type Service interface {
	Airports(ctx context.Context) ([]bossflight.Airport, error)
	CreateSession(ctx context.Context, difficulty bossflight.Difficulty, playerName string) (bossflight.SessionID, error)
	State(ctx context.Context, id bossflight.SessionID) (bossflight.GameState, error)
	Challenge(ctx context.Context, id bossflight.SessionID) (bossflight.Challenge, error)
	SubmitMove(ctx context.Context, id bossflight.SessionID, airportID int, passedChallenge bool) (bossflight.GameState, error)
	SubmitStatus(ctx context.Context, id bossflight.SessionID, status bossflight.Status) error
}

// Presenter is the presentation boundary. Calls may arrive from timer
// goroutines, so implementations must be safe for concurrent use.
type Presenter interface {
	RenderAirports(airports []bossflight.Airport)
	RenderState(s bossflight.GameState)
	ShowChallenge(c bossflight.Challenge)
	ShowResult(out challenge.Outcome)
	HideChallenge()
	BatteryChanged(level, delta int)
	Notice(msg string)
	Navigate(v bossflight.Verdict)
}

// PreconditionError means the game was started without the setup data it
// needs; the caller should send the player back to setup.
type PreconditionError struct {
	Field string
}

func (e *PreconditionError) Error() string {
	return fmt.Sprintf("missing %s: start the game from the setup screen", e.Field)
}

var (
	ErrNoAirports     = errors.New("no airports available")
	ErrAlreadyStarted = errors.New("session already started")
	ErrNoSession      = errors.New("no active session")
	ErrConcluded      = errors.New("session has concluded")
	ErrMoveInFlight   = errors.New("a flight is already in progress")
	ErrUnknownAirport = errors.New("airport not found")
)

// DefaultFlightDelay is the hold between a fly request and its submission.
const DefaultFlightDelay = 1500 * time.Millisecond

type Options struct {
	PlayerName string
	Difficulty string
	// SessionID resumes an existing session instead of creating one.
	SessionID bossflight.SessionID
	// FlightDelay holds each move before submission; negative disables it.
	FlightDelay time.Duration
	// DisplayHold keeps a resolved challenge on screen before it clears.
	DisplayHold time.Duration
	Scheduler   challenge.Scheduler
	Logger      *slog.Logger
}

type Orchestrator struct {
	svc         Service
	ui          Presenter
	logger      *slog.Logger
	playerName  string
	difficulty  string
	flightDelay time.Duration
	machine     *challenge.Machine
	detector    *conclusion.Detector

	mu         sync.Mutex
	phase      Phase
	started    bool
	sessionID  bossflight.SessionID
	airports   []bossflight.Airport
	snapshot   *bossflight.GameState
	pending    bool
	pendingSeq uint64
	moving     bool
}

func New(svc Service, ui Presenter, opts Options) *Orchestrator {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	delay := opts.FlightDelay
	switch {
	case delay == 0:
		delay = DefaultFlightDelay
	case delay < 0:
		delay = 0
	}
	return &Orchestrator{
		svc:         svc,
		ui:          ui,
		logger:      logger,
		playerName:  strings.TrimSpace(opts.PlayerName),
		difficulty:  strings.ToLower(strings.TrimSpace(opts.Difficulty)),
		flightDelay: delay,
		machine:     challenge.NewMachine(opts.DisplayHold, opts.Scheduler, ui.HideChallenge, logger),
		detector:    conclusion.NewDetector(svc, ui, logger),
		sessionID:   opts.SessionID,
	}
}

// Start validates the setup data, loads the airports, creates (or reuses) the
// session and performs the first refresh. Any error is fatal to the game.
func (o *Orchestrator) Start(ctx context.Context) error {
	if o.playerName == "" {
		return &PreconditionError{Field: "player name"}
	}
	difficulty, err := bossflight.ParseDifficulty(o.difficulty)
	if err != nil {
		return &PreconditionError{Field: "difficulty"}
	}

	o.mu.Lock()
	if o.started {
		o.mu.Unlock()
		return ErrAlreadyStarted
	}
	o.started = true
	id := o.sessionID
	o.mu.Unlock()

	airports, err := o.svc.Airports(ctx)
	if err != nil {
		err = fmt.Errorf("loading airports: %w", err)
		o.logger.Error("starting game failed", "player", o.playerName, "error", err)
		return err
	}
	if len(airports) == 0 {
		o.logger.Error("starting game failed", "player", o.playerName, "error", ErrNoAirports)
		return ErrNoAirports
	}

	if id.IsZero() {
		id, err = o.svc.CreateSession(ctx, difficulty, o.playerName)
		if err != nil {
			err = fmt.Errorf("creating session: %w", err)
			o.logger.Error("starting game failed", "player", o.playerName, "error", err)
			return err
		}
	}

	o.mu.Lock()
	o.airports = airports
	o.sessionID = id
	o.phase = PhaseActive
	o.mu.Unlock()

	o.logger.Info("session ready", "session_id", id, "player", o.playerName, "difficulty", difficulty, "airports", len(airports))
	o.ui.RenderAirports(airports)
	o.Refresh(ctx)
	return nil
}

// Refresh pulls a fresh snapshot. The server snapshot replaces the local one
// wholesale. On failure the previous snapshot is returned untouched along
// with false; a local battery estimate therefore survives until the next
// successful sync.
func (o *Orchestrator) Refresh(ctx context.Context) (bossflight.GameState, bool) {
	o.mu.Lock()
	id, phase, prev := o.sessionID, o.phase, o.snapshotLocked()
	o.mu.Unlock()

	if id.IsZero() || phase >= PhaseConcluding {
		return prev, false
	}

	st, err := o.svc.State(ctx, id)
	if err != nil {
		o.logger.Warn("refreshing game state failed", "session_id", id, "error", err)
		o.ui.Notice("Could not refresh the game state. Showing the last known state.")
		return prev, false
	}
	if !o.accept(ctx, st) {
		return prev, false
	}
	return st, true
}

// accept installs a server snapshot, renders it and checks for conclusion.
func (o *Orchestrator) accept(ctx context.Context, st bossflight.GameState) bool {
	o.mu.Lock()
	if o.phase >= PhaseConcluding {
		o.mu.Unlock()
		return false
	}
	o.snapshot = &st
	o.mu.Unlock()

	o.ui.RenderState(st)
	o.conclude(ctx, st)
	return true
}

// conclude runs conclusion detection against s and drives the phase through
// Concluding to Concluded when it fires.
func (o *Orchestrator) conclude(ctx context.Context, s bossflight.GameState) bool {
	o.mu.Lock()
	id := o.sessionID
	o.mu.Unlock()
	if !s.SessionID.IsZero() {
		id = s.SessionID
	}

	_, fired := o.detector.Detect(ctx, id, s, func(bossflight.Result) {
		o.mu.Lock()
		o.phase = PhaseConcluding
		o.mu.Unlock()
		o.machine.Teardown()
	})
	if fired {
		o.mu.Lock()
		o.phase = PhaseConcluded
		o.mu.Unlock()
	}
	return fired
}

func (o *Orchestrator) snapshotLocked() bossflight.GameState {
	if o.snapshot == nil {
		return bossflight.GameState{}
	}
	return *o.snapshot
}

func (o *Orchestrator) Phase() Phase {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.phase
}

func (o *Orchestrator) SessionID() bossflight.SessionID {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.sessionID
}

// Snapshot returns the last known (possibly locally patched) state.
func (o *Orchestrator) Snapshot() (bossflight.GameState, bool) {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.snapshotLocked(), o.snapshot != nil
}

// PendingChallengeSuccess is the outcome the next move will carry.
func (o *Orchestrator) PendingChallengeSuccess() bool {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.pending
}

func (o *Orchestrator) Airports() []bossflight.Airport {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.airports
}

// Challenge is the live challenge, or nil.
func (o *Orchestrator) Challenge() bossflight.Challenge {
	return o.machine.Current()
}

func (o *Orchestrator) ChallengeState() (challenge.Phase, challenge.State) {
	return o.machine.Phase(), o.machine.State()
}
