// Command sttt-uai is a super tic-tac-toe engine speaking UAI on stdin and stdout.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/gorgonia/boardgame/games/sttt"
	"github.com/gorgonia/boardgame/heuristic"
	"github.com/gorgonia/boardgame/search"
	"github.com/gorgonia/boardgame/uai"
	"github.com/rs/zerolog"
)

var (
	logPath = flag.String("log", "sttt-uai.log", "file to append the engine log to")
	depth   = flag.Uint("depth", 64, "maximum search depth")
	workers = flag.Int("workers", search.DefaultConfig().Workers, "goroutines searching in parallel")
	warmup  = flag.Duration("warmup", time.Second, "warmup search before reading commands")
	debug   = flag.Bool("debug", false, "log every search iteration")
)

func main() {
	flag.Parse()

	f, err := os.OpenFile(*logPath, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Unable to open log: %v\n", err)
		os.Exit(1)
	}
	defer f.Close()
	level := zerolog.InfoLevel
	if *debug {
		level = zerolog.DebugLevel
	}
	logger := zerolog.New(f).Level(level).With().Timestamp().Str("engine", "sttt-uai").Logger()

	conf := search.DefaultConfig()
	conf.MaxDepth = uint32(*depth)
	conf.Workers = *workers
	s, err := search.New[*sttt.Board, sttt.Coord, int32](heuristic.DefaultSTTTTileHeuristic(), conf)
	if err != nil {
		logger.Fatal().Err(err).Msg("invalid search configuration")
	}
	s.WithLogger(logger)

	bot := func(ctx context.Context, b *sttt.Board, budget time.Duration) (sttt.Coord, string, error) {
		res, err := s.Search(ctx, b, budget)
		if err != nil {
			return sttt.Coord{}, "", err
		}
		return res.Move, fmt.Sprintf("depth %d nodes %d value %d %v", res.Depth, res.Nodes, res.Value, heuristic.SolverValueFromInt32(res.Value)), nil
	}
	game := uai.Game[*sttt.Board, sttt.Coord]{
		Start:      sttt.New,
		FromFEN:    sttt.FromFEN,
		ParseMove:  func(_ *sttt.Board, s string) (sttt.Coord, error) { return sttt.ParseMove(s) },
		FormatMove: sttt.FormatMove,
	}

	e := uai.New(game, bot, "sttt-minimax", "gorgonia", logger)
	e.Warmup = *warmup
	if err := e.Run(context.Background(), os.Stdin, os.Stdout); err != nil {
		logger.Fatal().Err(err).Msg("engine stopped")
	}
}
