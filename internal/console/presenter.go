// Package console renders a game session on a terminal and drives it from
// typed commands.
package console

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/tuukkaea/bossflight/internal/battery"
	"github.com/tuukkaea/bossflight/internal/bossflight"
	"github.com/tuukkaea/bossflight/internal/challenge"
)

// StateFetcher loads the final snapshot for the end screen.
type StateFetcher interface {
	State(ctx context.Context, id bossflight.SessionID) (bossflight.GameState, error)
}

// Presenter writes session output to w. All methods are safe for
// concurrent use.
type Presenter struct {
	fetcher StateFetcher
	logger  *slog.Logger

	mu       sync.Mutex
	w        io.Writer
	last     *bossflight.GameState
	airports []bossflight.Airport
	done     chan struct{}
	closed   bool
}

func NewPresenter(w io.Writer, fetcher StateFetcher, logger *slog.Logger) *Presenter {
	if logger == nil {
		logger = slog.Default()
	}
	return &Presenter{w: w, fetcher: fetcher, logger: logger, done: make(chan struct{})}
}

// Done is closed once the session has navigated to its end screen.
func (p *Presenter) Done() <-chan struct{} { return p.done }

func (p *Presenter) printf(format string, args ...any) {
	p.mu.Lock()
	defer p.mu.Unlock()
	fmt.Fprintf(p.w, format, args...)
}

func (p *Presenter) RenderAirports(airports []bossflight.Airport) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.airports = airports
	fmt.Fprintf(p.w, "Airports (%d):\n", len(airports))
	for _, a := range airports {
		fmt.Fprintf(p.w, "  %3d  %s  %s\n", a.ID, a.IATACode, formatAirport(&a))
	}
}

func (p *Presenter) RenderState(s bossflight.GameState) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.last = &s
	fmt.Fprintf(p.w, "[%s] battery %d%% | at %s | boss %s | puzzles %d\n",
		s.Player.Name,
		s.BatteryLevel,
		formatAirport(s.CurrentAirport),
		formatAirport(s.BossAirport),
		s.PuzzlesSolved,
	)
}

func (p *Presenter) ShowChallenge(c bossflight.Challenge) {
	p.mu.Lock()
	defer p.mu.Unlock()
	fmt.Fprintf(p.w, "\nQ: %s\n", c.Prompt())
	switch c := c.(type) {
	case *bossflight.MultipleChoice:
		for i, o := range c.Options {
			fmt.Fprintf(p.w, "  %d) %s\n", i+1, o.Name)
		}
		fmt.Fprintln(p.w, "Reply with: choose <n>")
	case *bossflight.OpenQuestion:
		fmt.Fprintln(p.w, "Reply with: answer <text>")
	}
}

func (p *Presenter) ShowResult(out challenge.Outcome) {
	switch {
	case out.Correct:
		p.printf("Correct!\n")
	case out.CorrectAnswer != "":
		p.printf("Wrong. The answer was %s.\n", out.CorrectAnswer)
	default:
		p.printf("Wrong.\n")
	}
}

func (p *Presenter) HideChallenge() {
	p.printf("(question closed)\n")
}

func (p *Presenter) BatteryChanged(level, delta int) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.last != nil {
		patched := p.last.WithBattery(level)
		p.last = &patched
	}
	fmt.Fprintf(p.w, "Battery %s -> %d%%\n", FormatDelta(delta), level)
}

func (p *Presenter) Notice(msg string) {
	p.printf("! %s\n", msg)
}

// Navigate prints the end screen. Airports and puzzle count come from the
// service when it answers; the battery shown is the level the session
// concluded on.
func (p *Presenter) Navigate(v bossflight.Verdict) {
	p.mu.Lock()
	local := p.last
	p.mu.Unlock()

	final := bossflight.GameState{SessionID: v.SessionID}
	if local != nil {
		final = *local
	}
	if p.fetcher != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		s, err := p.fetcher.State(ctx, v.SessionID)
		cancel()
		if err != nil {
			p.logger.Warn("loading final state failed", "session_id", v.SessionID, "error", err)
		} else {
			if local != nil {
				s.BatteryLevel = local.BatteryLevel
			}
			final = s
		}
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	WriteEndScreen(p.w, v.Result, final)
	if !p.closed {
		p.closed = true
		close(p.done)
	}
}

// WriteEndScreen prints the summary of a concluded session.
func WriteEndScreen(w io.Writer, result bossflight.Result, s bossflight.GameState) {
	title := "GAME OVER"
	if result == bossflight.ResultWon {
		title = "VICTORY"
	}
	fmt.Fprintf(w, "\n=== %s ===\n", title)
	fmt.Fprintf(w, "Player:      %s\n", s.Player.Name)
	fmt.Fprintf(w, "Difficulty:  %s\n", s.DifficultyLevel)
	fmt.Fprintf(w, "Puzzles:     %d\n", s.PuzzlesSolved)
	fmt.Fprintf(w, "Battery:     %d%% (%s)\n", s.BatteryLevel, battery.BandOf(s.BatteryLevel))
	fmt.Fprintf(w, "Start:       %s\n", formatAirport(s.StartingAirport))
	fmt.Fprintf(w, "Final:       %s\n", formatAirport(s.CurrentAirport))
	fmt.Fprintf(w, "Boss:        %s\n", formatAirport(s.BossAirport))
}

// FormatDelta renders a battery change as +N% or -N%.
func FormatDelta(delta int) string {
	if delta < 0 {
		return fmt.Sprintf("-%d%%", -delta)
	}
	return fmt.Sprintf("+%d%%", delta)
}

func formatAirport(a *bossflight.Airport) string {
	if a == nil {
		return "-"
	}
	return strings.TrimPrefix(a.CountryCode+", "+a.Name, ", ")
}
