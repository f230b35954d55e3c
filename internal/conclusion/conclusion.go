// Package conclusion decides when a session is over and performs the
// one-time transition to the end screen.
package conclusion

import (
	"context"
	"log/slog"
	"sync/atomic"

	"github.com/tuukkaea/bossflight/internal/bossflight"
)

// Evaluate reports the verdict a snapshot implies. An empty battery loses
// even when the player stands on the boss airport.
func Evaluate(s bossflight.GameState) bossflight.Result {
	if s.BatteryLevel <= 0 {
		return bossflight.ResultLost
	}
	if s.AtBoss() {
		return bossflight.ResultWon
	}
	return bossflight.ResultNone
}

type StatusSubmitter interface {
	SubmitStatus(ctx context.Context, id bossflight.SessionID, status bossflight.Status) error
}

type Navigator interface {
	Navigate(v bossflight.Verdict)
}

// Detector fires the conclusion transition at most once.
type Detector struct {
	status StatusSubmitter
	nav    Navigator
	logger *slog.Logger
	fired  atomic.Bool
}

func NewDetector(status StatusSubmitter, nav Navigator, logger *slog.Logger) *Detector {
	if logger == nil {
		logger = slog.Default()
	}
	return &Detector{status: status, nav: nav, logger: logger}
}

// Fired reports whether the transition has already happened.
func (d *Detector) Fired() bool { return d.fired.Load() }

// Detect evaluates s and, on a verdict, concludes the session: begin runs
// first (it may be nil), then the status is submitted best-effort, then the
// verdict is handed to the navigator. It returns the verdict and whether this
// call performed the transition; repeated or racing calls return false.
func (d *Detector) Detect(ctx context.Context, id bossflight.SessionID, s bossflight.GameState, begin func(bossflight.Result)) (bossflight.Result, bool) {
	result := Evaluate(s)
	if result == bossflight.ResultNone {
		return result, false
	}
	if !d.fired.CompareAndSwap(false, true) {
		return result, false
	}

	d.logger.Info("session concluded", "session_id", id, "result", result, "battery", s.BatteryLevel)
	if begin != nil {
		begin(result)
	}

	if !id.IsZero() {
		if err := d.status.SubmitStatus(ctx, id, result.Status()); err != nil {
			d.logger.Error("submitting session status failed", "session_id", id, "status", result.Status(), "error", err)
		}
	}

	d.nav.Navigate(bossflight.Verdict{SessionID: id, Result: result})
	return result, true
}
