package console

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/samber/lo"

	"github.com/tuukkaea/bossflight/internal/bossflight"
)

type CommandKind int

const (
	CmdHelp CommandKind = iota
	CmdAirports
	CmdFly
	CmdAnswer
	CmdChoose
	CmdState
	CmdQuit
)

type Command struct {
	Kind CommandKind
	// Arg is the raw argument: the airport reference for fly, the answer
	// text for answer.
	Arg string
	// Option is the 1-based choice for choose.
	Option int
}

var (
	ErrEmptyCommand   = errors.New("empty command")
	ErrUnknownCommand = errors.New("unknown command")
	ErrMissingArg     = errors.New("missing argument")
)

// ParseCommand reads one input line.
func ParseCommand(line string) (Command, error) {
	verb, arg, _ := strings.Cut(strings.TrimSpace(line), " ")
	arg = strings.TrimSpace(arg)

	switch strings.ToLower(verb) {
	case "":
		return Command{}, ErrEmptyCommand
	case "help", "h", "?":
		return Command{Kind: CmdHelp}, nil
	case "airports", "a":
		return Command{Kind: CmdAirports}, nil
	case "state", "s":
		return Command{Kind: CmdState}, nil
	case "quit", "q", "exit":
		return Command{Kind: CmdQuit}, nil
	case "fly", "f":
		if arg == "" {
			return Command{}, fmt.Errorf("fly: %w: airport id or IATA code", ErrMissingArg)
		}
		return Command{Kind: CmdFly, Arg: arg}, nil
	case "answer":
		// Empty answers are passed through; the session reports them.
		return Command{Kind: CmdAnswer, Arg: arg}, nil
	case "choose", "c":
		if arg == "" {
			return Command{}, fmt.Errorf("choose: %w: option number", ErrMissingArg)
		}
		n, err := strconv.Atoi(arg)
		if err != nil || n < 1 {
			return Command{}, fmt.Errorf("choose: option must be a positive number, got %q", arg)
		}
		return Command{Kind: CmdChoose, Option: n}, nil
	default:
		return Command{}, fmt.Errorf("%w: %q", ErrUnknownCommand, verb)
	}
}

// ResolveAirport finds an airport by numeric id or IATA code.
func ResolveAirport(airports []bossflight.Airport, ref string) (bossflight.Airport, bool) {
	if id, err := strconv.Atoi(ref); err == nil {
		return lo.Find(airports, func(a bossflight.Airport) bool { return a.ID == id })
	}
	return lo.Find(airports, func(a bossflight.Airport) bool { return strings.EqualFold(a.IATACode, ref) })
}

const helpText = `Commands:
  airports            list airports
  fly <id|IATA>       fly to an airport
  answer <text>       answer an open question
  choose <n>          pick a multiple-choice option
  state               refresh the game state
  quit                leave the game
`
