package heuristic

import (
	"fmt"

	"github.com/gorgonia/boardgame/coord"
	"github.com/gorgonia/boardgame/games/sttt"
)

// STTTTileHeuristic weighs every tile of a super tic-tac-toe board by how central it is, both in
// its macro and in the grid of macros, and adds a fixed bonus for every macro won.
type STTTTileHeuristic struct {
	OOFactors   [3]int32 // edge, corner, center
	MacroFactor int32
}

var _ Heuristic[*sttt.Board, sttt.Coord, int32] = STTTTileHeuristic{}

// DefaultSTTTTileHeuristic returns the standard weights.
func DefaultSTTTTileHeuristic() STTTTileHeuristic {
	return STTTTileHeuristic{
		OOFactors:   [3]int32{1, 3, 4},
		MacroFactor: 1000,
	}
}

func (h STTTTileHeuristic) ooFactor(oo uint8) int32 {
	switch oo {
	case 1, 3, 5, 7:
		return h.OOFactors[0]
	case 0, 2, 6, 8:
		return h.OOFactors[1]
	case 4:
		return h.OOFactors[2]
	}
	panic(fmt.Sprintf("Invalid oo value %d", oo))
}

func (h STTTTileHeuristic) Value(b *sttt.Board, length uint32) int32 {
	if b.IsDone() {
		return SolverHeuristic[*sttt.Board, sttt.Coord]{}.Value(b, length)
	}
	pov := b.NextPlayer()

	var tiles int32
	for c := range coord.All[coord.Size9]() {
		if p, ok := b.Tile(c); ok {
			tiles += h.ooFactor(sttt.OM(c)) * h.ooFactor(sttt.OS(c)) * int32(p.Sign(pov))
		}
	}

	var macros int32
	for om := uint8(0); om < 9; om++ {
		if p, ok := b.Macr(om); ok {
			macros += h.ooFactor(om) * int32(p.Sign(pov))
		}
	}
	return tiles + macros*h.MacroFactor
}

func (h STTTTileHeuristic) ValueUpdate(b *sttt.Board, bValue int32, bLength uint32, mv sttt.Coord, child *sttt.Board) int32 {
	if child.IsDone() {
		return h.Value(child, bLength+1)
	}

	// from the perspective of the player who made mv
	negChild := bValue
	om := sttt.OM(mv)
	negChild += h.ooFactor(om) * h.ooFactor(sttt.OS(mv))
	if _, ok := child.Macr(om); ok {
		negChild += h.MacroFactor * h.ooFactor(om)
	}
	return -negChild
}

func (STTTTileHeuristic) Merge(old, new int32) (int32, bool) { return MaxMerge(old, new) }
