package session

import (
	"context"
	"fmt"
	"time"

	"github.com/samber/lo"

	"github.com/tuukkaea/bossflight/internal/bossflight"
)

// Move flies the player to airportID. It carries the pending challenge
// outcome to the service and clears it only once the service accepts the
// move; a failed move leaves the outcome in place for the retry. Moves are
// serialized: a call made while another is in flight gets ErrMoveInFlight.
func (o *Orchestrator) Move(ctx context.Context, airportID int) error {
	o.mu.Lock()
	id := o.sessionID
	switch {
	case id.IsZero():
		o.mu.Unlock()
		o.logger.Warn("cannot fly without an active session")
		return ErrNoSession
	case o.phase >= PhaseConcluding:
		o.mu.Unlock()
		return ErrConcluded
	case o.moving:
		o.mu.Unlock()
		return ErrMoveInFlight
	}
	target, ok := lo.Find(o.airports, func(a bossflight.Airport) bool { return a.ID == airportID })
	if !ok {
		o.mu.Unlock()
		o.logger.Warn("airport not found", "airport_id", airportID)
		return fmt.Errorf("%w: %d", ErrUnknownAirport, airportID)
	}
	o.moving = true
	o.mu.Unlock()

	defer func() {
		o.mu.Lock()
		o.moving = false
		o.mu.Unlock()
	}()

	if err := sleep(ctx, o.flightDelay); err != nil {
		return err
	}

	o.mu.Lock()
	if o.phase >= PhaseConcluding {
		o.mu.Unlock()
		return ErrConcluded
	}
	passed, seq := o.pending, o.pendingSeq
	o.mu.Unlock()

	moved, err := o.svc.SubmitMove(ctx, id, target.ID, passed)
	if err != nil {
		o.logger.Warn("submitting move failed",
			"session_id", id,
			"airport_id", target.ID,
			"passed_challenge", passed,
			"error", err,
		)
		o.ui.Notice(fmt.Sprintf("Flight to %s failed. Try again.", target.Name))
		return fmt.Errorf("flying to %s: %w", target.Name, err)
	}

	o.mu.Lock()
	// An answer resolved while the move was in flight belongs to the next move.
	if o.pendingSeq == seq {
		o.pending = false
	}
	o.mu.Unlock()

	o.logger.Info("flight landed", "session_id", id, "airport", target.IATACode, "passed_challenge", passed)

	if _, ok := o.Refresh(ctx); !ok {
		o.accept(ctx, moved)
	}
	if o.Phase() == PhaseActive {
		o.loadChallenge(ctx)
	}
	return nil
}

// loadChallenge fetches and issues the next challenge. A missing challenge
// or a failed fetch only means there is nothing to answer right now.
func (o *Orchestrator) loadChallenge(ctx context.Context) {
	id := o.SessionID()
	c, err := o.svc.Challenge(ctx, id)
	if err != nil {
		o.logger.Warn("loading challenge failed", "session_id", id, "error", err)
		o.ui.Notice("Could not load a question for this airport.")
		return
	}
	if c == nil {
		o.logger.Info("no challenge available", "session_id", id)
		return
	}
	if o.Phase() != PhaseActive {
		return
	}
	o.machine.Issue(c)
	o.ui.ShowChallenge(c)
}

func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
