package uai

import (
	"strconv"
	"strings"
	"time"

	"github.com/gorgonia/boardgame/board"
	"github.com/pkg/errors"
)

// Command is a parsed line of input.
type Command interface {
	isCommand()
}

type (
	Uai     struct{}
	IsReady struct{}
	NewGame struct{}
	Quit    struct{}

	SetOption struct {
		Name, Value string
	}

	// Position sets the board, either the start position or a game specific FEN, followed by
	// moves played from it.
	Position struct {
		StartPos bool
		FEN      string
		Moves    []string
	}

	Go struct {
		Time TimeSettings
	}
)

func (Uai) isCommand()       {}
func (IsReady) isCommand()   {}
func (NewGame) isCommand()   {}
func (Quit) isCommand()      {}
func (SetOption) isCommand() {}
func (Position) isCommand()  {}
func (Go) isCommand()        {}

// TimeSettings is either a fixed time per move or the clocks of both players.
type TimeSettings struct {
	MoveTime time.Duration

	Clock        bool
	WTime, BTime time.Duration
	WInc, BInc   time.Duration
}

// TimeToUse returns the thinking time for the player to move: 95% of a fixed move time, or 1/30 of
// the remaining clock.
func (ts TimeSettings) TimeToUse(next board.Player) time.Duration {
	if !ts.Clock {
		return ts.MoveTime * 95 / 100
	}
	left := ts.WTime
	if next == board.B {
		left = ts.BTime
	}
	return left / 30
}

// Parse parses one line of input.
func Parse(line string) (Command, error) {
	tokens := strings.Fields(line)
	if len(tokens) == 0 {
		return nil, errors.New("Empty command")
	}
	args := tokens[1:]
	switch tokens[0] {
	case "uai":
		return Uai{}, noArgs(tokens)
	case "isready":
		return IsReady{}, noArgs(tokens)
	case "uainewgame":
		return NewGame{}, noArgs(tokens)
	case "quit":
		return Quit{}, noArgs(tokens)
	case "setoption":
		return parseSetOption(args)
	case "position":
		return parsePosition(args)
	case "go":
		return parseGo(args)
	}
	return nil, errors.Errorf("Unknown command %q", tokens[0])
}

func noArgs(tokens []string) error {
	if len(tokens) > 1 {
		return errors.Errorf("Unexpected arguments for %q: %v", tokens[0], tokens[1:])
	}
	return nil
}

// setoption name <name> value <value>
func parseSetOption(args []string) (Command, error) {
	if len(args) < 2 || args[0] != "name" {
		return nil, errors.New("Expected \"setoption name <name> value <value>\"")
	}
	rest := args[1:]
	var name, value []string
	for i, tok := range rest {
		if tok == "value" {
			name, value = rest[:i], rest[i+1:]
			break
		}
	}
	if name == nil {
		return nil, errors.New("Missing value in setoption")
	}
	if len(name) == 0 {
		return nil, errors.New("Missing name in setoption")
	}
	return SetOption{Name: strings.Join(name, " "), Value: strings.Join(value, " ")}, nil
}

// position startpos|fen <fen...> [moves <mv>...]
func parsePosition(args []string) (Command, error) {
	if len(args) == 0 {
		return nil, errors.New("Not enough arguments for \"position\"")
	}
	var pos Position
	var rest []string
	switch args[0] {
	case "startpos":
		pos.StartPos = true
		rest = args[1:]
	case "fen":
		end := len(args)
		for i, tok := range args {
			if tok == "moves" {
				end = i
				break
			}
		}
		if end == 1 {
			return nil, errors.New("Missing FEN")
		}
		pos.FEN = strings.Join(args[1:end], " ")
		rest = args[end:]
	default:
		return nil, errors.Errorf("Expected startpos or fen, got %q", args[0])
	}

	if len(rest) > 0 {
		if rest[0] != "moves" {
			return nil, errors.Errorf("Unexpected %q after position", rest[0])
		}
		pos.Moves = rest[1:]
	}
	return pos, nil
}

// go movetime <ms> | go wtime <ms> btime <ms> [winc <ms>] [binc <ms>]
func parseGo(args []string) (Command, error) {
	if len(args)%2 != 0 {
		return nil, errors.Errorf("Unpaired arguments for \"go\": %v", args)
	}
	values := make(map[string]time.Duration)
	for i := 0; i < len(args); i += 2 {
		key := args[i]
		switch key {
		case "movetime", "wtime", "btime", "winc", "binc":
		default:
			return nil, errors.Errorf("Unknown go argument %q", key)
		}
		if _, ok := values[key]; ok {
			return nil, errors.Errorf("Duplicate go argument %q", key)
		}
		ms, err := strconv.ParseUint(args[i+1], 10, 32)
		if err != nil {
			return nil, errors.WithMessagef(err, "Unable to parse %s", key)
		}
		values[key] = time.Duration(ms) * time.Millisecond
	}

	if mt, ok := values["movetime"]; ok {
		if len(values) > 1 {
			return nil, errors.New("movetime cannot be combined with clock settings")
		}
		return Go{Time: TimeSettings{MoveTime: mt}}, nil
	}
	wtime, wok := values["wtime"]
	btime, bok := values["btime"]
	if !wok || !bok {
		return nil, errors.New("Expected movetime or both wtime and btime")
	}
	return Go{Time: TimeSettings{
		Clock: true,
		WTime: wtime,
		BTime: btime,
		WInc:  values["winc"],
		BInc:  values["binc"],
	}}, nil
}
