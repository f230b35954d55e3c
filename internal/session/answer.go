package session

import (
	"context"
	"errors"

	"github.com/tuukkaea/bossflight/internal/battery"
	"github.com/tuukkaea/bossflight/internal/bossflight"
	"github.com/tuukkaea/bossflight/internal/challenge"
)

func (o *Orchestrator) SubmitText(ctx context.Context, text string) (challenge.Outcome, error) {
	return o.Answer(ctx, challenge.Text(text))
}

func (o *Orchestrator) SubmitChoice(ctx context.Context, option int) (challenge.Outcome, error) {
	return o.Answer(ctx, challenge.Choice(option))
}

// Answer resolves the live challenge once. The reward or penalty is applied
// to the local snapshot straight away and the patched snapshot is checked for
// conclusion; the outcome itself reaches the server with the next move.
func (o *Orchestrator) Answer(ctx context.Context, a challenge.Answer) (challenge.Outcome, error) {
	o.mu.Lock()
	if o.phase >= PhaseConcluding {
		o.mu.Unlock()
		return challenge.Outcome{}, ErrConcluded
	}
	var serverLevel string
	if o.snapshot != nil {
		serverLevel = o.snapshot.DifficultyLevel
	}
	o.mu.Unlock()

	reward := battery.RewardFor(battery.ResolveDifficulty(serverLevel, o.difficulty))
	out, err := o.machine.Resolve(a, reward)
	if err != nil {
		if errors.Is(err, challenge.ErrEmptyAnswer) {
			o.ui.Notice("Answer the question!")
		}
		return out, err
	}
	o.ui.ShowResult(out)

	patched, ok := o.applyOutcome(out)
	if !ok {
		o.logger.Warn("no snapshot to patch, battery effect deferred to the server", "delta", out.Delta)
		o.machine.Finish()
		return out, nil
	}
	o.ui.BatteryChanged(patched.BatteryLevel, out.Delta)

	if o.conclude(ctx, patched) {
		return out, nil
	}
	o.machine.Finish()
	return out, nil
}

// applyOutcome records the pending outcome for the next move and patches the
// battery of the owned snapshot. The patch is a prediction; the next
// successful fetch replaces it.
func (o *Orchestrator) applyOutcome(out challenge.Outcome) (bossflight.GameState, bool) {
	o.mu.Lock()
	defer o.mu.Unlock()

	o.pending = out.Correct
	o.pendingSeq++
	if o.snapshot == nil {
		return bossflight.GameState{}, false
	}
	patched := o.snapshot.WithBattery(battery.ApplyDelta(o.snapshot.BatteryLevel, out.Delta))
	o.snapshot = &patched
	return patched, true
}
