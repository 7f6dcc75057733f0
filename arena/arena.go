// Package arena plays games between two agents and keeps score.
package arena

import (
	"context"
	"fmt"

	"github.com/gorgonia/boardgame/board"
	"github.com/gorgonia/boardgame/encoding/gif"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"golang.org/x/exp/rand"
)

// Agent is a named move generator together with its record.
type Agent[B board.Board[B, M], M comparable] struct {
	Name string
	Move func(ctx context.Context, b B) (M, error)

	Player board.Player // side in the current game
	Wins   int
	Loss   int
	Draw   int
}

func (a *Agent[B, M]) String() string {
	return fmt.Sprintf("%s (W %d, L %d, D %d)", a.Name, a.Wins, a.Loss, a.Draw)
}

// OutputEncoder receives every position of a game, e.g. a gif.Encoder.
type OutputEncoder interface {
	Encode(f gif.Frame, ply int) error
}

// Arena pits A against B. Sides are drawn at random for every game.
type Arena[B board.Board[B, M], M comparable] struct {
	r    *rand.Rand
	A, B *Agent[B, M]

	// MaxPlies ends a game as a draw when exceeded. Zero means no limit.
	MaxPlies int

	logger     zerolog.Logger
	gameNumber int
}

// New creates an arena. seed makes side assignment reproducible.
func New[B board.Board[B, M], M comparable](a, b *Agent[B, M], seed uint64, logger zerolog.Logger) *Arena[B, M] {
	return &Arena[B, M]{
		r:      rand.New(rand.NewSource(seed)),
		A:      a,
		B:      b,
		logger: logger,
	}
}

// GameNumber returns the number of games played.
func (a *Arena[B, M]) GameNumber() int { return a.gameNumber }

// Play plays one game from start and returns its outcome and moves. enc may be nil.
func (a *Arena[B, M]) Play(ctx context.Context, start B, enc OutputEncoder) (board.Outcome, []M, error) {
	a.gameNumber++
	if a.r.Intn(2) == 0 {
		a.A.Player, a.B.Player = board.A, board.B
	} else {
		a.A.Player, a.B.Player = board.B, board.A
	}
	logger := a.logger.With().Int("game", a.gameNumber).Logger()
	logger.Info().Str("A", a.A.Name).Str("B", a.B.Name).Stringer("A_plays", a.A.Player).Msg("playing")

	g := start
	var moves []M
	if err := encode(enc, g, 0); err != nil {
		return board.Draw, moves, err
	}
	for !g.IsDone() {
		if a.MaxPlies > 0 && len(moves) >= a.MaxPlies {
			logger.Info().Int("plies", len(moves)).Msg("ply limit reached, scoring as a draw")
			a.score(board.Draw)
			return board.Draw, moves, nil
		}
		current := a.current(g.NextPlayer())
		mv, err := current.Move(ctx, g)
		if err != nil {
			return board.Draw, moves, errors.WithMessagef(err, "%s failed to move on\n%v", current.Name, g)
		}
		next, err := g.Play(mv)
		if err != nil {
			return board.Draw, moves, errors.WithMessagef(err, "%s played an illegal move", current.Name)
		}
		logger.Debug().Str("agent", current.Name).Stringer("player", g.NextPlayer()).Str("move", fmt.Sprint(mv)).Msg("moved")
		g = next
		moves = append(moves, mv)
		if err := encode(enc, g, len(moves)); err != nil {
			return board.Draw, moves, err
		}
	}

	o, _ := g.Outcome()
	a.score(o)
	logger.Info().Stringer("outcome", o).Int("plies", len(moves)).Msg("done playing")
	return o, moves, nil
}

func encode(enc OutputEncoder, f gif.Frame, ply int) error {
	if enc == nil {
		return nil
	}
	return errors.WithMessage(enc.Encode(f, ply), "Unable to encode position")
}

func (a *Arena[B, M]) current(p board.Player) *Agent[B, M] {
	if a.A.Player == p {
		return a.A
	}
	return a.B
}

func (a *Arena[B, M]) score(o board.Outcome) {
	winner, ok := o.Winner()
	switch {
	case !ok:
		a.A.Draw++
		a.B.Draw++
	case winner == a.A.Player:
		a.A.Wins++
		a.B.Loss++
	default:
		a.B.Wins++
		a.A.Loss++
	}
}
