// Package command parses the text typed at a table, either by a console
// player or over the chat socket, into player actions and table commands.
package command

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/lox/holdem-engine/internal/game"
)

var (
	ErrUnknownCommand  = errors.New("unknown command")
	ErrMalformedAction = errors.New("malformed action")
)

// Prefix marks table commands, as opposed to in-round actions.
const Prefix = "::"

// Kind says what a parsed line asks for.
type Kind int

const (
	Act Kind = iota
	Start
	LastRound
	BuyIn
	Leave
	Refill
	Money
	State
	Help
)

var commandNames = map[string]Kind{
	"start":     Start,
	"lastround": LastRound,
	"buyin":     BuyIn,
	"leave":     Leave,
	"refill":    Refill,
	"money":     Money,
	"state":     State,
	"help":      Help,
}

func (k Kind) String() string {
	if k == Act {
		return "act"
	}
	for name, kind := range commandNames {
		if kind == k {
			return Prefix + name
		}
	}
	return "unknown"
}

// Command is one parsed line.
type Command struct {
	Kind   Kind
	Action game.Action // set when Kind is Act

	// Amount is the optional argument of ::buyin and ::refill, zero when
	// the table default applies.
	Amount int
}

func (c Command) String() string {
	switch {
	case c.Kind == Act:
		return c.Action.String()
	case c.Amount > 0:
		return fmt.Sprintf("%s %d", c.Kind, c.Amount)
	default:
		return c.Kind.String()
	}
}

// Usage lists everything Parse understands.
const Usage = `actions:
  fold | f          give up the hand
  check | k         pass when nothing is owed
  call | c          match the current bet
  raise N | r N     raise N on top of the call
  all in | allin    push every chip
table commands:
  ::start           deal the first round
  ::lastround       stop after this round (toggle)
  ::buyin [N]       take a seat
  ::leave           leave the table
  ::refill [N]      top your stack back up
  ::money           show everyone's stack
  ::state           dump the round state
  ::help            show this text`

// Parse reads a single line. Case and surrounding whitespace are ignored.
func Parse(line string) (Command, error) {
	fields := strings.Fields(strings.ToLower(line))
	if len(fields) == 0 {
		return Command{}, fmt.Errorf("%w: empty input", ErrUnknownCommand)
	}
	if name, ok := strings.CutPrefix(fields[0], Prefix); ok {
		return parseTableCommand(name, fields[1:])
	}
	a, err := parseAction(fields)
	if err != nil {
		return Command{}, err
	}
	return Command{Kind: Act, Action: a}, nil
}

func parseTableCommand(name string, args []string) (Command, error) {
	kind, ok := commandNames[name]
	if !ok {
		return Command{}, fmt.Errorf("%w: %s%s", ErrUnknownCommand, Prefix, name)
	}
	cmd := Command{Kind: kind}
	switch {
	case len(args) == 0:
		return cmd, nil
	case len(args) == 1 && (kind == BuyIn || kind == Refill):
		n, err := strconv.Atoi(args[0])
		if err != nil || n <= 0 {
			return Command{}, fmt.Errorf("%w: %s%s needs a positive amount, got %q", ErrUnknownCommand, Prefix, name, args[0])
		}
		cmd.Amount = n
		return cmd, nil
	default:
		return Command{}, fmt.Errorf("%w: unexpected arguments to %s%s", ErrUnknownCommand, Prefix, name)
	}
}

func parseAction(fields []string) (game.Action, error) {
	verb, args := fields[0], fields[1:]
	switch verb {
	case "f", "fold":
		return noArgs(game.FoldAction(), verb, args)
	case "k", "check":
		return noArgs(game.CheckAction(), verb, args)
	case "c", "call":
		return noArgs(game.CallAction(), verb, args)
	case "a", "allin":
		return noArgs(game.AllInAction(), verb, args)
	case "all":
		if len(args) == 1 && args[0] == "in" {
			return game.AllInAction(), nil
		}
		return game.Action{}, fmt.Errorf("%w: did you mean \"all in\"?", ErrMalformedAction)
	case "r", "raise":
		if len(args) != 1 {
			return game.Action{}, fmt.Errorf("%w: specify a raise amount, e.g. \"raise 40\"", ErrMalformedAction)
		}
		n, err := strconv.Atoi(args[0])
		if err != nil || n <= 0 {
			return game.Action{}, fmt.Errorf("%w: invalid raise amount %q", ErrMalformedAction, args[0])
		}
		return game.RaiseBy(n), nil
	}
	return game.Action{}, fmt.Errorf("%w: %s", ErrUnknownCommand, verb)
}

func noArgs(a game.Action, verb string, args []string) (game.Action, error) {
	if len(args) > 0 {
		return game.Action{}, fmt.Errorf("%w: %s takes no arguments", ErrMalformedAction, verb)
	}
	return a, nil
}
