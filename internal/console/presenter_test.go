package console

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"strings"
	"testing"

	"github.com/tuukkaea/bossflight/internal/bossflight"
	"github.com/tuukkaea/bossflight/internal/challenge"
)

type stubFetcher struct {
	state bossflight.GameState
	err   error
}

func (f stubFetcher) State(context.Context, bossflight.SessionID) (bossflight.GameState, error) {
	return f.state, f.err
}

var (
	hel = &bossflight.Airport{ID: 1, Name: "Helsinki-Vantaa Airport", IATACode: "HEL", CountryCode: "FI"}
	cdg = &bossflight.Airport{ID: 3, Name: "Charles de Gaulle Airport", IATACode: "CDG", CountryCode: "FR"}
)

func TestFormatDelta(t *testing.T) {
	tests := []struct {
		delta int
		want  string
	}{
		{20, "+20%"},
		{0, "+0%"},
		{-15, "-15%"},
	}
	for _, tt := range tests {
		if got := FormatDelta(tt.delta); got != tt.want {
			t.Errorf("FormatDelta(%d) = %q, want %q", tt.delta, got, tt.want)
		}
	}
}

func TestWriteEndScreen(t *testing.T) {
	var buf bytes.Buffer
	WriteEndScreen(&buf, bossflight.ResultWon, bossflight.GameState{
		Player:          bossflight.Player{Name: "Aino"},
		DifficultyLevel: "hard",
		PuzzlesSolved:   4,
		BatteryLevel:    35,
		StartingAirport: hel,
		CurrentAirport:  cdg,
		BossAirport:     cdg,
	})

	out := buf.String()
	for _, want := range []string{"VICTORY", "Aino", "hard", "Puzzles:     4", "35% (medium)", "FI, Helsinki-Vantaa Airport", "FR, Charles de Gaulle Airport"} {
		if !strings.Contains(out, want) {
			t.Errorf("expected end screen to contain %q, got:\n%s", want, out)
		}
	}

	buf.Reset()
	WriteEndScreen(&buf, bossflight.ResultLost, bossflight.GameState{})
	if !strings.Contains(buf.String(), "GAME OVER") || !strings.Contains(buf.String(), "0% (low)") {
		t.Errorf("unexpected lost screen:\n%s", buf.String())
	}
}

func TestNavigateKeepsConcludedBattery(t *testing.T) {
	var buf bytes.Buffer
	server := bossflight.GameState{
		Player:        bossflight.Player{Name: "Aino"},
		BatteryLevel:  30,
		PuzzlesSolved: 3,
		BossAirport:   cdg,
	}
	p := NewPresenter(&buf, stubFetcher{state: server}, slog.New(slog.DiscardHandler))

	p.RenderState(bossflight.GameState{Player: bossflight.Player{Name: "Aino"}, BatteryLevel: 30})
	p.BatteryChanged(0, -30)
	p.Navigate(bossflight.Verdict{SessionID: "s1", Result: bossflight.ResultLost})

	select {
	case <-p.Done():
	default:
		t.Fatal("expected Done to be closed")
	}
	out := buf.String()
	if !strings.Contains(out, "Battery -30% -> 0%") {
		t.Errorf("expected battery change line, got:\n%s", out)
	}
	if !strings.Contains(out, "Battery:     0% (low)") {
		t.Errorf("expected the concluded battery on the end screen, got:\n%s", out)
	}
	if !strings.Contains(out, "Puzzles:     3") {
		t.Errorf("expected puzzles from the service, got:\n%s", out)
	}

	// A second navigation must not panic on the closed channel.
	p.Navigate(bossflight.Verdict{SessionID: "s1", Result: bossflight.ResultLost})
}

func TestNavigateFallsBackToLocalState(t *testing.T) {
	var buf bytes.Buffer
	p := NewPresenter(&buf, stubFetcher{err: errors.New("down")}, slog.New(slog.DiscardHandler))

	p.RenderState(bossflight.GameState{Player: bossflight.Player{Name: "Aino"}, BatteryLevel: 60, CurrentAirport: cdg, BossAirport: cdg})
	p.Navigate(bossflight.Verdict{SessionID: "s1", Result: bossflight.ResultWon})

	out := buf.String()
	if !strings.Contains(out, "VICTORY") || !strings.Contains(out, "60% (high)") {
		t.Errorf("unexpected end screen:\n%s", out)
	}
}

func TestShowChallenge(t *testing.T) {
	var buf bytes.Buffer
	p := NewPresenter(&buf, nil, nil)

	p.ShowChallenge(&bossflight.MultipleChoice{
		Question: "Which city is in Italy?",
		Options:  []bossflight.Option{{Name: "Rome", IsCorrect: true}, {Name: "Oslo"}},
	})
	p.ShowResult(challenge.Outcome{Correct: false, Delta: -20, CorrectAnswer: "Rome"})

	out := buf.String()
	for _, want := range []string{"Q: Which city is in Italy?", "1) Rome", "2) Oslo", "choose <n>", "The answer was Rome."} {
		if !strings.Contains(out, want) {
			t.Errorf("expected output to contain %q, got:\n%s", want, out)
		}
	}
}
