// Package search implements a minimax search kernel over any board.Board, driven by a
// heuristic.Heuristic.
//
// The kernel is plain negamax: every value is from the perspective of the player to move, child
// values are computed incrementally with ValueUpdate and backed up with Merge. Root children are
// searched concurrently. A Searcher adds iterative deepening under a time budget and a shared
// transposition table for boards that implement TTKey or Hash.
package search

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/gorgonia/boardgame/board"
	"github.com/gorgonia/boardgame/heuristic"
	"github.com/gorgonia/boardgame/zobrist"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
)

// ErrGameOver is returned when asked to search a finished board.
var ErrGameOver = errors.New("search: the game is over")

// the context is polled once every checkEvery nodes
const checkEvery = 1024

// Result is the outcome of a search.
type Result[M comparable, V heuristic.Value] struct {
	Move  M
	Value V // from the perspective of the player to move at the root
	Depth uint32
	Nodes uint64
}

func (r Result[M, V]) String() string {
	return fmt.Sprintf("move %v value %v depth %d nodes %d", r.Move, r.Value, r.Depth, r.Nodes)
}

type kernel[B board.Board[B, M], M comparable, V heuristic.Value] struct {
	h     heuristic.Heuristic[B, M, V]
	tt    *Table[V]
	nodes atomic.Uint64
}

// negamax returns the value of b searched to depth, and whether the subtree was searched to the
// end of the game everywhere.
func (k *kernel[B, M, V]) negamax(ctx context.Context, b B, value V, length, depth uint32) (V, bool, error) {
	if n := k.nodes.Add(1); n%checkEvery == 0 {
		if err := ctx.Err(); err != nil {
			return value, false, err
		}
	}
	if b.IsDone() {
		return value, true, nil
	}
	if depth == 0 {
		return value, false, nil
	}

	var key zobrist.Zobrist
	var hashed bool
	if k.tt != nil {
		key, hashed = keyOf(b)
	}
	if hashed {
		if v, complete, ok := k.tt.Probe(key, depth, length); ok {
			return v, complete, nil
		}
	}

	moves := b.AvailableMoves()
	if len(moves) == 0 {
		return value, true, nil
	}
	var best V
	complete := true
	for i, mv := range moves {
		child, err := b.Play(mv)
		if err != nil {
			return value, false, errors.WithMessagef(err, "available move %v could not be played", mv)
		}
		cv := k.h.ValueUpdate(b, value, length, mv, child)
		v, c, err := k.negamax(ctx, child, cv, length+1, depth-1)
		if err != nil {
			return value, false, err
		}
		complete = complete && c
		if i == 0 {
			best = -v
			continue
		}
		best, _ = k.h.Merge(best, -v)
	}

	if hashed {
		k.tt.Store(key, depth, length, best, complete)
	}
	return best, complete, nil
}

// root searches every child of b on its own goroutine, at most workers at a time, and merges their
// values in move order.
func (k *kernel[B, M, V]) root(ctx context.Context, b B, depth uint32, workers int) (Result[M, V], bool, error) {
	var res Result[M, V]
	if b.IsDone() {
		return res, false, ErrGameOver
	}
	value := k.h.Value(b, 0)
	moves, children, err := board.Children(b)
	if err != nil {
		return res, false, err
	}
	if len(moves) == 0 {
		return res, false, errors.Errorf("no moves available on unfinished board\n%v", b)
	}

	values := make([]V, len(moves))
	completes := make([]bool, len(moves))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for i := range moves {
		g.Go(func() error {
			cv := k.h.ValueUpdate(b, value, 0, moves[i], children[i])
			v, c, err := k.negamax(gctx, children[i], cv, 1, depth-1)
			values[i], completes[i] = -v, c
			return err
		})
	}
	err = g.Wait()
	res.Depth = depth
	res.Nodes = k.nodes.Load()
	if err != nil {
		return res, false, err
	}

	complete := true
	for i, mv := range moves {
		complete = complete && completes[i]
		if i == 0 {
			res.Move, res.Value = mv, values[i]
			continue
		}
		if v, improved := k.h.Merge(res.Value, values[i]); improved {
			res.Move, res.Value = mv, v
		}
	}
	return res, complete, nil
}

// Minimax searches b to a fixed depth on a single goroutine, without a transposition table.
func Minimax[B board.Board[B, M], M comparable, V heuristic.Value](ctx context.Context, h heuristic.Heuristic[B, M, V], b B, depth uint32) (Result[M, V], error) {
	if depth == 0 {
		return Result[M, V]{}, errors.New("search: depth must be positive")
	}
	k := &kernel[B, M, V]{h: h}
	res, _, err := k.root(ctx, b, depth, 1)
	return res, err
}

// Searcher runs iteratively deepened searches. A Searcher may be reused for many positions but
// must not run two searches at once.
type Searcher[B board.Board[B, M], M comparable, V heuristic.Value] struct {
	h      heuristic.Heuristic[B, M, V]
	conf   Config
	tt     *Table[V]
	logger zerolog.Logger
}

// New creates a Searcher. It returns an error if conf is invalid.
func New[B board.Board[B, M], M comparable, V heuristic.Value](h heuristic.Heuristic[B, M, V], conf Config) (*Searcher[B, M, V], error) {
	if !conf.IsValid() {
		return nil, errors.Errorf("Invalid search config %+v", conf)
	}
	s := &Searcher[B, M, V]{
		h:      h,
		conf:   conf,
		logger: zerolog.Nop(),
	}
	if conf.UseTT {
		s.tt = NewTable[V](conf.TTShards, conf.TTSize)
	}
	return s, nil
}

// WithLogger sets the logger that receives one debug event per completed depth.
func (s *Searcher[B, M, V]) WithLogger(l zerolog.Logger) *Searcher[B, M, V] {
	s.logger = l
	return s
}

func (s *Searcher[B, M, V]) Config() Config { return s.conf }

// Reset clears the transposition table, e.g. when a new game starts.
func (s *Searcher[B, M, V]) Reset() {
	if s.tt != nil {
		s.tt.Clear()
	}
}

// Search deepens one ply at a time up to MaxDepth, stopping early once the whole game tree has been
// searched. When the budget (if positive) runs out or ctx is cancelled, the result of the deepest
// completed iteration is returned. The first iteration always runs to completion, so a move is
// returned for every unfinished board.
func (s *Searcher[B, M, V]) Search(ctx context.Context, b B, budget time.Duration) (Result[M, V], error) {
	if b.IsDone() {
		return Result[M, V]{}, ErrGameOver
	}
	if budget > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, budget)
		defer cancel()
	}

	start := time.Now()
	var best Result[M, V]
	var nodes uint64
	for depth := uint32(1); depth <= s.conf.MaxDepth; depth++ {
		dctx := ctx
		if depth == 1 {
			dctx = context.WithoutCancel(ctx)
		}
		k := &kernel[B, M, V]{h: s.h, tt: s.tt}
		res, complete, err := k.root(dctx, b, depth, s.conf.Workers)
		nodes += res.Nodes
		if err != nil {
			if depth > 1 && ctx.Err() != nil {
				break
			}
			return best, err
		}
		best = res
		s.logger.Debug().
			Uint32("depth", depth).
			Str("move", fmt.Sprint(res.Move)).
			Str("value", fmt.Sprint(res.Value)).
			Uint64("nodes", nodes).
			Dur("elapsed", time.Since(start)).
			Bool("complete", complete).
			Msg("deepening-iteratively")
		if complete {
			break
		}
	}
	best.Nodes = nodes
	return best, nil
}
