package conclusion

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/tuukkaea/bossflight/internal/bossflight"
)

type recorder struct {
	mu        sync.Mutex
	statuses  []bossflight.Status
	verdicts  []bossflight.Verdict
	statusErr error
}

func (r *recorder) SubmitStatus(_ context.Context, _ bossflight.SessionID, s bossflight.Status) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.statuses = append(r.statuses, s)
	return r.statusErr
}

func (r *recorder) Navigate(v bossflight.Verdict) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.verdicts = append(r.verdicts, v)
}

var (
	home = &bossflight.Airport{ID: 1, Name: "A"}
	boss = &bossflight.Airport{ID: 26, Name: "Z"}
)

func TestEvaluate(t *testing.T) {
	tests := []struct {
		name  string
		state bossflight.GameState
		want  bossflight.Result
	}{
		{"in progress", bossflight.GameState{BatteryLevel: 50, CurrentAirport: home, BossAirport: boss}, bossflight.ResultNone},
		{"arrived", bossflight.GameState{BatteryLevel: 50, CurrentAirport: boss, BossAirport: boss}, bossflight.ResultWon},
		{"empty battery", bossflight.GameState{BatteryLevel: 0, CurrentAirport: home, BossAirport: boss}, bossflight.ResultLost},
		{"empty battery beats arrival", bossflight.GameState{BatteryLevel: 0, CurrentAirport: boss, BossAirport: boss}, bossflight.ResultLost},
		{"negative battery", bossflight.GameState{BatteryLevel: -5}, bossflight.ResultLost},
		{"no airports yet", bossflight.GameState{BatteryLevel: 100}, bossflight.ResultNone},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Evaluate(tt.state); got != tt.want {
				t.Errorf("got %q, want %q", got, tt.want)
			}
		})
	}
}

func TestDetectFiresOnce(t *testing.T) {
	rec := &recorder{}
	d := NewDetector(rec, rec, nil)
	lost := bossflight.GameState{BatteryLevel: 0, CurrentAirport: home, BossAirport: boss}

	begins := 0
	res, fired := d.Detect(context.Background(), "9", lost, func(bossflight.Result) { begins++ })
	if !fired || res != bossflight.ResultLost {
		t.Fatalf("first detect: got %q fired=%v", res, fired)
	}
	_, fired = d.Detect(context.Background(), "9", lost, func(bossflight.Result) { begins++ })
	if fired {
		t.Fatal("second detect fired again")
	}

	if begins != 1 {
		t.Errorf("expected begin once, got %d", begins)
	}
	if len(rec.statuses) != 1 || rec.statuses[0] != bossflight.StatusLost {
		t.Errorf("expected one lost status, got %v", rec.statuses)
	}
	if len(rec.verdicts) != 1 || rec.verdicts[0] != (bossflight.Verdict{SessionID: "9", Result: bossflight.ResultLost}) {
		t.Errorf("expected one verdict, got %v", rec.verdicts)
	}
}

func TestDetectConcurrentCallsFireOnce(t *testing.T) {
	rec := &recorder{}
	d := NewDetector(rec, rec, nil)
	won := bossflight.GameState{BatteryLevel: 40, CurrentAirport: boss, BossAirport: boss}

	var wg sync.WaitGroup
	for range 16 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			d.Detect(context.Background(), "s", won, nil)
		}()
	}
	wg.Wait()

	if len(rec.verdicts) != 1 || len(rec.statuses) != 1 {
		t.Errorf("expected exactly one transition, got %d verdicts %d statuses", len(rec.verdicts), len(rec.statuses))
	}
}

func TestDetectNavigatesWhenStatusFails(t *testing.T) {
	rec := &recorder{statusErr: errors.New("service down")}
	d := NewDetector(rec, rec, nil)

	_, fired := d.Detect(context.Background(), "s", bossflight.GameState{BatteryLevel: 10, CurrentAirport: boss, BossAirport: boss}, nil)
	if !fired {
		t.Fatal("expected transition")
	}
	if len(rec.verdicts) != 1 || rec.verdicts[0].Result != bossflight.ResultWon {
		t.Errorf("expected won navigation despite status failure, got %v", rec.verdicts)
	}
}

func TestDetectIgnoresOngoingSession(t *testing.T) {
	rec := &recorder{}
	d := NewDetector(rec, rec, nil)
	if _, fired := d.Detect(context.Background(), "s", bossflight.GameState{BatteryLevel: 70, CurrentAirport: home, BossAirport: boss}, nil); fired {
		t.Fatal("unexpected transition")
	}
	if d.Fired() {
		t.Error("guard consumed without a verdict")
	}
}
