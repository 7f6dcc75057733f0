// Package uai implements the engine side of the UAI protocol, a line oriented text protocol in the
// style of UCI, used to drive a bot from another process.
//
// The engine is generic over the game: a Game supplies the start position, FEN parsing and move
// notation, and a Bot chooses moves.
package uai

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/gorgonia/boardgame/board"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"
)

// Game is the codec between a board type and its UAI text representation.
type Game[B board.Board[B, M], M comparable] struct {
	Start      func() B
	FromFEN    func(fen string) (B, error)
	ParseMove  func(b B, s string) (M, error)
	FormatMove func(mv M) string
}

// Bot chooses a move for b within budget. info is written to the log after the move.
type Bot[B board.Board[B, M], M comparable] func(ctx context.Context, b B, budget time.Duration) (mv M, info string, err error)

// Engine answers UAI commands.
type Engine[B board.Board[B, M], M comparable] struct {
	game         Game[B, M]
	bot          Bot[B, M]
	name, author string

	// Warmup, if positive, is the budget of a search from the start position run before the first
	// command is read.
	Warmup time.Duration

	base   zerolog.Logger
	logger zerolog.Logger

	board    B
	hasBoard bool
	session  uuid.UUID

	ch  chan string
	ret chan string
}

// New creates an engine. Commands and moves are logged to logger.
func New[B board.Board[B, M], M comparable](g Game[B, M], bot Bot[B, M], name, author string, logger zerolog.Logger) *Engine[B, M] {
	return &Engine[B, M]{
		game:   g,
		bot:    bot,
		name:   name,
		author: author,
		base:   logger,
		logger: logger,
	}
}

// Board returns the current board, if a position has been set.
func (e *Engine[B, M]) Board() (B, bool) { return e.board, e.hasBoard }

// Session returns the id of the current game. It is the zero UUID before the first uainewgame.
func (e *Engine[B, M]) Session() uuid.UUID { return e.session }

// Start runs the engine on its own goroutine. Every line sent to input produces exactly one
// (possibly empty) reply on output. After quit, output is closed.
func (e *Engine[B, M]) Start() (input chan<- string, output <-chan string) {
	e.ch = make(chan string)
	e.ret = make(chan string)
	go e.start()
	return e.ch, e.ret
}

func (e *Engine[B, M]) start() {
	defer close(e.ret)
	for cmd := range e.ch {
		reply, quit := e.Handle(context.Background(), cmd)
		e.ret <- reply
		if quit {
			return
		}
	}
}

// Run reads commands from in and writes replies to out until quit, the end of in, or a write
// error.
func (e *Engine[B, M]) Run(ctx context.Context, in io.Reader, out io.Writer) error {
	if e.Warmup > 0 {
		start := time.Now()
		if _, _, err := e.bot(ctx, e.game.Start(), e.Warmup); err != nil {
			return errors.WithMessage(err, "Warmup failed")
		}
		e.logger.Info().Dur("time_used", time.Since(start)).Msg("warmup")
	}

	scanner := bufio.NewScanner(in)
	w := bufio.NewWriter(out)
	for scanner.Scan() {
		reply, quit := e.Handle(ctx, scanner.Text())
		if _, err := w.WriteString(reply); err != nil {
			return errors.Wrap(err, "Unable to write reply")
		}
		if err := w.Flush(); err != nil {
			return errors.Wrap(err, "Unable to flush reply")
		}
		if quit {
			return nil
		}
	}
	return errors.Wrap(scanner.Err(), "Unable to read command")
}

// Handle executes one line and returns the reply, one or more newline terminated lines or
// nothing. quit is true if the engine should stop.
func (e *Engine[B, M]) Handle(ctx context.Context, line string) (reply string, quit bool) {
	line = strings.TrimSpace(line)
	e.logger.Info().Str("cmd", line).Msg(">")

	cmd, err := Parse(line)
	if err != nil {
		e.logger.Warn().Err(err).Str("cmd", line).Msg("failed to parse command")
		return fmt.Sprintf("info < failed to parse command '%s'\n", line), false
	}

	switch c := cmd.(type) {
	case Uai:
		return fmt.Sprintf("id name %s\nid author %s\nuaiok\n", e.name, e.author), false
	case IsReady:
		return "readyok\n", false
	case SetOption:
		return fmt.Sprintf("info < ignoring command setoption, name=%s, value=%s\n", c.Name, c.Value), false
	case NewGame:
		e.session = uuid.New()
		e.logger = e.base.With().Str("session", e.session.String()).Logger()
		e.board, e.hasBoard = e.game.Start(), true
		e.logger.Info().Msg("new game")
		return "", false
	case Position:
		b, err := e.position(c)
		if err != nil {
			e.logger.Warn().Err(err).Msg("invalid position")
			return fmt.Sprintf("info < invalid position: %v\n", err), false
		}
		e.board, e.hasBoard = b, true
		return "", false
	case Go:
		return e.think(ctx, c.Time), false
	case Quit:
		return "", true
	}
	panic("Unreachable")
}

func (e *Engine[B, M]) position(p Position) (B, error) {
	var b B
	if p.StartPos {
		b = e.game.Start()
	} else {
		var err error
		if b, err = e.game.FromFEN(p.FEN); err != nil {
			return b, errors.WithMessagef(err, "Unable to parse FEN %q", p.FEN)
		}
	}
	for _, s := range p.Moves {
		mv, err := e.game.ParseMove(b, s)
		if err != nil {
			return b, err
		}
		if b, err = b.Play(mv); err != nil {
			return b, errors.WithMessagef(err, "Unable to play %s", s)
		}
	}
	return b, nil
}

func (e *Engine[B, M]) think(ctx context.Context, ts TimeSettings) string {
	if !e.hasBoard {
		return "info < received go command without having a board\n"
	}
	if e.board.IsDone() {
		return "info < received go command on a finished board\n"
	}
	budget := ts.TimeToUse(e.board.NextPlayer())
	e.logger.Info().Dur("time_to_use", budget).Msg("go")

	start := time.Now()
	mv, info, err := e.bot(ctx, e.board, budget)
	used := time.Since(start)
	if err != nil {
		e.logger.Error().Err(err).Dur("time_used", used).Msg("bot failed")
		return fmt.Sprintf("info < bot failed: %v\n", err)
	}
	notation := e.game.FormatMove(mv)
	e.logger.Info().
		Str("best_move", notation).
		Dur("time_used", used).
		Str("info", info).
		Msg("bestmove")
	return fmt.Sprintf("bestmove %s\n", notation)
}
