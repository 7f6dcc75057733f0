package heuristic

import (
	"github.com/gorgonia/boardgame/board"
	"github.com/gorgonia/boardgame/games/wq"
)

// WQScoreHeuristic evaluates Go positions by their area score after komi, in half points.
// Captures can change any part of the board, so ValueUpdate rescores the child.
type WQScoreHeuristic struct{}

var _ Heuristic[*wq.Board, wq.Move, int32] = WQScoreHeuristic{}

func (WQScoreHeuristic) Value(b *wq.Board, length uint32) int32 {
	if b.IsDone() {
		return SolverHeuristic[*wq.Board, wq.Move]{}.Value(b, length)
	}
	diff := int32(2*(b.Score(board.A)-b.Score(board.B))) - int32(2*b.Komi())
	return diff * int32(board.A.Sign(b.NextPlayer()))
}

func (h WQScoreHeuristic) ValueUpdate(b *wq.Board, bValue int32, bLength uint32, mv wq.Move, child *wq.Board) int32 {
	return h.Value(child, bLength+1)
}

func (WQScoreHeuristic) Merge(old, new int32) (int32, bool) { return MaxMerge(old, new) }
