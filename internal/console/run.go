package console

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sync"

	"github.com/tuukkaea/bossflight/internal/bossflight"
	"github.com/tuukkaea/bossflight/internal/challenge"
	"github.com/tuukkaea/bossflight/internal/session"
)

// Game is the part of the session orchestrator the command loop drives.
type Game interface {
	Move(ctx context.Context, airportID int) error
	SubmitText(ctx context.Context, text string) (challenge.Outcome, error)
	SubmitChoice(ctx context.Context, option int) (challenge.Outcome, error)
	Refresh(ctx context.Context) (bossflight.GameState, bool)
	Airports() []bossflight.Airport
	Challenge() bossflight.Challenge
}

// Run reads commands from in until quit, end of input, the session's end
// screen or ctx cancellation. Flights run in the background so the player
// keeps typing while airborne. If in is an io.Closer it is closed on return,
// which unblocks the reader goroutine; otherwise that goroutine stays parked
// in Read until in yields a line or EOF.
func Run(ctx context.Context, game Game, p *Presenter, in io.Reader, logger *slog.Logger) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	if c, ok := in.(io.Closer); ok {
		defer c.Close()
	}

	lines := make(chan string)
	go func() {
		defer close(lines)
		sc := bufio.NewScanner(in)
		for sc.Scan() {
			select {
			case lines <- sc.Text():
			case <-ctx.Done():
				return
			}
		}
	}()

	var flights sync.WaitGroup
	defer flights.Wait()

	p.printf("Type 'help' for commands.\n")
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-p.Done():
			return nil
		case line, ok := <-lines:
			if !ok {
				return nil
			}
			if quit := dispatch(ctx, game, p, line, &flights, logger); quit {
				return nil
			}
		}
	}
}

func dispatch(ctx context.Context, game Game, p *Presenter, line string, flights *sync.WaitGroup, logger *slog.Logger) bool {
	cmd, err := ParseCommand(line)
	if err != nil {
		if !errors.Is(err, ErrEmptyCommand) {
			p.Notice(err.Error())
		}
		return false
	}

	switch cmd.Kind {
	case CmdHelp:
		p.printf("%s", helpText)
	case CmdQuit:
		return true
	case CmdAirports:
		p.RenderAirports(game.Airports())
	case CmdState:
		if _, ok := game.Refresh(ctx); !ok {
			p.Notice("Could not refresh the game state.")
		}
	case CmdFly:
		target, ok := ResolveAirport(game.Airports(), cmd.Arg)
		if !ok {
			p.Notice(fmt.Sprintf("No airport %q.", cmd.Arg))
			return false
		}
		p.printf("Flying to %s...\n", formatAirport(&target))
		flights.Go(func() {
			err := game.Move(ctx, target.ID)
			switch {
			case err == nil, errors.Is(err, context.Canceled):
			case errors.Is(err, session.ErrMoveInFlight):
				p.Notice("Already in the air.")
			case errors.Is(err, session.ErrConcluded):
				p.Notice("The game is over.")
			default:
				// The session has already told the player; keep the detail in the log.
				logger.Debug("move failed", "airport_id", target.ID, "error", err)
			}
		})
	case CmdAnswer:
		reportAnswer(p, logger)(game.SubmitText(ctx, cmd.Arg))
	case CmdChoose:
		// An out-of-range index would be scored as wrong; treat it as a typo.
		if mc, ok := game.Challenge().(*bossflight.MultipleChoice); ok && cmd.Option > len(mc.Options) {
			p.Notice(fmt.Sprintf("Pick an option between 1 and %d.", len(mc.Options)))
			return false
		}
		reportAnswer(p, logger)(game.SubmitChoice(ctx, cmd.Option-1))
	}
	return false
}

func reportAnswer(p *Presenter, logger *slog.Logger) func(challenge.Outcome, error) {
	return func(_ challenge.Outcome, err error) {
		switch {
		case err == nil, errors.Is(err, challenge.ErrEmptyAnswer):
		case errors.Is(err, challenge.ErrNoChallenge):
			p.Notice("There is no question to answer right now.")
		case errors.Is(err, challenge.ErrAlreadyResolved):
			p.Notice("That question is already answered.")
		case errors.Is(err, session.ErrConcluded):
			p.Notice("The game is over.")
		default:
			logger.Warn("answer failed", "error", err)
			p.Notice("Could not submit the answer.")
		}
	}
}
