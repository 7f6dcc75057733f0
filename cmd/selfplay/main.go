// Command selfplay plays the minimax bot against itself, or against a random mover, and
// optionally records every game as an animated GIF.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/gorgonia/boardgame/arena"
	"github.com/gorgonia/boardgame/board"
	"github.com/gorgonia/boardgame/encoding/gif"
	"github.com/gorgonia/boardgame/games/c4"
	"github.com/gorgonia/boardgame/games/mnk"
	"github.com/gorgonia/boardgame/games/sttt"
	"github.com/gorgonia/boardgame/games/wq"
	"github.com/gorgonia/boardgame/heuristic"
	"github.com/gorgonia/boardgame/search"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"golang.org/x/exp/rand"
)

var (
	gameName = flag.String("game", "sttt", "game to play: ttt, mnk, c4, sttt or wq")
	games    = flag.Int("games", 10, "number of games")
	depth    = flag.Uint("depth", 4, "maximum search depth")
	movetime = flag.Duration("movetime", 100*time.Millisecond, "thinking time per move")
	random   = flag.Bool("random", false, "play against a random mover instead of itself")
	seed     = flag.Uint64("seed", 1, "seed for side assignment and the random mover")
	maxPlies = flag.Int("maxplies", 400, "score games longer than this as draws")
	gifPath  = flag.String("gif", "", "write a replay of each game to <gif>-<n>.gif")

	m    = flag.Int("m", 7, "mnk: rows")
	n    = flag.Int("n", 7, "mnk: columns")
	k    = flag.Int("k", 4, "mnk: stones in a row to win")
	size = flag.Int("size", 5, "wq: board size")
	komi = flag.Float64("komi", 0.5, "wq: komi")
)

func main() {
	flag.Parse()
	logger := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).With().Timestamp().Logger()

	var err error
	switch *gameName {
	case "ttt":
		err = selfplay[*mnk.MNK, mnk.Move](logger, mnk.TicTacToe, heuristic.SolverHeuristic[*mnk.MNK, mnk.Move]{})
	case "mnk":
		start := func() *mnk.MNK { return mnk.New(*m, *n, *k) }
		err = selfplay[*mnk.MNK, mnk.Move](logger, start, heuristic.SolverHeuristic[*mnk.MNK, mnk.Move]{})
	case "c4":
		err = selfplay[*c4.Board, c4.Move](logger, c4.Classic, heuristic.SolverHeuristic[*c4.Board, c4.Move]{})
	case "sttt":
		err = selfplay[*sttt.Board, sttt.Coord](logger, sttt.New, heuristic.DefaultSTTTTileHeuristic())
	case "wq":
		start := func() *wq.Board { return wq.New(*size, float32(*komi)) }
		err = selfplay[*wq.Board, wq.Move](logger, start, heuristic.WQScoreHeuristic{})
	default:
		err = errors.Errorf("Unknown game %q", *gameName)
	}
	if err != nil {
		logger.Fatal().Err(err).Msg("selfplay failed")
	}
}

func selfplay[B board.Board[B, M], M comparable](logger zerolog.Logger, start func() B, h heuristic.Heuristic[B, M, int32]) error {
	conf := search.DefaultConfig()
	conf.MaxDepth = uint32(*depth)
	s, err := search.New(h, conf)
	if err != nil {
		return err
	}
	minimax := func(ctx context.Context, b B) (M, error) {
		res, err := s.Search(ctx, b, *movetime)
		return res.Move, err
	}

	r := rand.New(rand.NewSource(*seed))
	randomMover := func(_ context.Context, b B) (M, error) {
		moves := b.AvailableMoves()
		return moves[r.Intn(len(moves))], nil
	}

	a := &arena.Agent[B, M]{Name: "minimax", Move: minimax}
	b := &arena.Agent[B, M]{Name: "minimax-b", Move: minimax}
	if *random {
		b = &arena.Agent[B, M]{Name: "random", Move: randomMover}
	}
	ar := arena.New(a, b, *seed, logger)
	ar.MaxPlies = *maxPlies

	for i := 0; i < *games; i++ {
		var enc *gif.Encoder
		var f *os.File
		if *gifPath != "" {
			if f, err = os.Create(fmt.Sprintf("%s-%d.gif", *gifPath, i)); err != nil {
				return errors.Wrap(err, "Unable to create GIF")
			}
			enc = gif.NewEncoder(f, 1200, 1200, fmt.Sprintf("%s: %s vs %s", *gameName, a.Name, b.Name))
		}

		var out arena.OutputEncoder
		if enc != nil {
			out = enc
		}
		s.Reset()
		o, moves, err := ar.Play(context.Background(), start(), out)
		if err != nil {
			return err
		}
		if enc != nil {
			err = enc.Flush()
			f.Close()
			if err != nil {
				return err
			}
		}
		logger.Info().Int("game", i+1).Stringer("outcome", o).Int("plies", len(moves)).Msg("finished")
	}
	logger.Info().Stringer("A", a).Stringer("B", b).Msg("results")
	return nil
}
