// Package heuristic defines how positions are evaluated during a search.
//
// Values are always from the perspective of the player to move in the evaluated board. Playing one
// ply therefore negates the value before the contribution of the move is applied.
package heuristic

import (
	"github.com/gorgonia/boardgame/board"
	"golang.org/x/exp/constraints"
)

// Value is the type of a heuristic value. It must support negation and ordering.
type Value interface {
	constraints.Signed | constraints.Float
}

// Heuristic evaluates boards of type B with moves of type M.
type Heuristic[B any, M comparable, V Value] interface {
	// Value evaluates b from scratch. length is the number of plies already searched to reach b.
	Value(b B, length uint32) V

	// ValueUpdate evaluates child, reached by playing mv on b, from the value of b.
	// The result must equal Value(child, bLength+1).
	ValueUpdate(b B, bValue V, bLength uint32, mv M, child B) V

	// Merge combines a backed-up value with the value of a newly searched child, both from the
	// parent's perspective. It returns the dominant value and whether new replaced old.
	Merge(old, new V) (V, bool)
}

// MaxMerge keeps the maximum. Ties go to the newer value.
func MaxMerge[V Value](old, new V) (V, bool) {
	if new >= old {
		return new, true
	}
	return old, false
}

// Pov converts v, computed for the player toMove, to the perspective of pov.
func Pov[V Value](v V, toMove, pov board.Player) V {
	if toMove == pov {
		return v
	}
	return -v
}
