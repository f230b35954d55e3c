// Package challenge owns the lifecycle of the live challenge: issuance,
// single-shot resolution and the timed clear that follows.
package challenge

import (
	"errors"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/tuukkaea/bossflight/internal/bossflight"
)

type Phase int

const (
	PhaseIdle Phase = iota
	PhaseIssued
	PhaseResolved
	PhaseCleared
)

func (p Phase) String() string {
	switch p {
	case PhaseIdle:
		return "idle"
	case PhaseIssued:
		return "issued"
	case PhaseResolved:
		return "resolved"
	case PhaseCleared:
		return "cleared"
	}
	return "unknown"
}

var (
	ErrNoChallenge     = errors.New("no live challenge")
	ErrAlreadyResolved = errors.New("challenge already resolved")
	ErrEmptyAnswer     = errors.New("answer is required")
)

// DefaultDisplayHold is how long a resolved challenge stays on screen.
const DefaultDisplayHold = 2 * time.Second

// Timer is a scheduled task that can be cancelled.
type Timer interface {
	Stop() bool
}

// Scheduler runs f after d. time.AfterFunc satisfies it through
// RealScheduler; tests substitute a manual one.
type Scheduler func(d time.Duration, f func()) Timer

func RealScheduler(d time.Duration, f func()) Timer {
	return time.AfterFunc(d, f)
}

// Outcome describes a resolution.
type Outcome struct {
	Correct bool
	// Delta is the signed battery change to apply locally.
	Delta int
	// CorrectAnswer is set for wrong answers when the challenge reveals one.
	CorrectAnswer string
}

// State is the per-challenge resolution record; it resets on every issue.
type State struct {
	Resolved             bool
	PendingRewardApplied bool
}

type Machine struct {
	mu       sync.Mutex
	phase    Phase
	current  bossflight.Challenge
	state    State
	gen      uint64
	timer    Timer
	hold     time.Duration
	schedule Scheduler
	onClear  func()
	logger   *slog.Logger
}

// NewMachine returns an idle machine. onClear is invoked, outside the lock,
// whenever the challenge display must be wiped.
func NewMachine(hold time.Duration, schedule Scheduler, onClear func(), logger *slog.Logger) *Machine {
	if hold <= 0 {
		hold = DefaultDisplayHold
	}
	if schedule == nil {
		schedule = RealScheduler
	}
	if onClear == nil {
		onClear = func() {}
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Machine{hold: hold, schedule: schedule, onClear: onClear, logger: logger}
}

func (m *Machine) Phase() Phase {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.phase
}

func (m *Machine) State() State {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state
}

func (m *Machine) Current() bossflight.Challenge {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.current
}

// Issue makes c the live challenge, superseding any previous one and
// cancelling its pending clear.
func (m *Machine) Issue(c bossflight.Challenge) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.stopTimerLocked()
	m.gen++
	m.current = c
	m.state = State{}
	m.phase = PhaseIssued
}

// Resolve scores the first answer to the live challenge. Later calls return
// ErrAlreadyResolved and change nothing. An empty text answer is rejected
// before any state changes. reward is the magnitude of the battery effect.
func (m *Machine) Resolve(a Answer, reward int) (Outcome, error) {
	if t, ok := a.(Text); ok && strings.TrimSpace(string(t)) == "" {
		return Outcome{}, ErrEmptyAnswer
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if m.current == nil {
		return Outcome{}, ErrNoChallenge
	}
	if m.state.Resolved {
		return Outcome{}, ErrAlreadyResolved
	}

	correct, err := Evaluate(m.current, a)
	if err != nil {
		m.logger.Warn("scoring answer as incorrect", "kind", m.current.Kind(), "error", err)
	}

	out := Outcome{Correct: correct, Delta: -reward}
	if correct {
		out.Delta = reward
	} else {
		out.CorrectAnswer = CorrectAnswer(m.current)
	}

	m.state.Resolved = true
	m.state.PendingRewardApplied = true
	m.phase = PhaseResolved
	return out, nil
}

// Finish schedules the clear after the display hold. Only a resolved
// challenge is held; a new Issue or Teardown cancels the clear.
func (m *Machine) Finish() {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.phase != PhaseResolved {
		return
	}
	m.stopTimerLocked()
	gen := m.gen
	m.timer = m.schedule(m.hold, func() { m.clear(gen) })
}

func (m *Machine) clear(gen uint64) {
	m.mu.Lock()
	if gen != m.gen || m.phase != PhaseResolved {
		m.mu.Unlock()
		return
	}
	m.timer = nil
	m.current = nil
	m.phase = PhaseCleared
	m.mu.Unlock()

	m.onClear()
}

// Teardown ends challenge handling for good: the live challenge counts as
// resolved, any pending clear is cancelled and the display is wiped now.
func (m *Machine) Teardown() {
	m.mu.Lock()
	m.stopTimerLocked()
	m.gen++
	m.current = nil
	m.state.Resolved = true
	m.phase = PhaseCleared
	m.mu.Unlock()

	m.onClear()
}

func (m *Machine) stopTimerLocked() {
	if m.timer != nil {
		m.timer.Stop()
		m.timer = nil
	}
}
