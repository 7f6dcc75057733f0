package heuristic

import (
	"fmt"
	"math"

	"github.com/gorgonia/boardgame/board"
)

// SolverKind classifies a SolverValue.
type SolverKind uint8

const (
	Unknown SolverKind = iota
	WinIn
	LossIn
	DrawKind
)

// SolverValue is an exact game-theoretic value: a win or a loss after a number of plies, a draw,
// or unknown for boards that are not finished.
type SolverValue struct {
	Kind   SolverKind
	Length uint32
}

// ToInt32 maps the value onto int32 so that faster wins and slower losses are preferred.
// Draws and unknown values are both 0.
func (v SolverValue) ToInt32() int32 {
	switch v.Kind {
	case WinIn:
		return math.MaxInt32 - int32(v.Length)
	case LossIn:
		return -(math.MaxInt32 - int32(v.Length))
	}
	return 0
}

// Neg returns the value as seen by the opponent.
func (v SolverValue) Neg() SolverValue {
	switch v.Kind {
	case WinIn:
		return SolverValue{LossIn, v.Length}
	case LossIn:
		return SolverValue{WinIn, v.Length}
	}
	return v
}

func (v SolverValue) String() string {
	switch v.Kind {
	case WinIn:
		return fmt.Sprintf("WinIn(%d)", v.Length)
	case LossIn:
		return fmt.Sprintf("LossIn(%d)", v.Length)
	case DrawKind:
		return "Draw"
	}
	return "Unknown"
}

// SolverValueFromInt32 is the inverse of ToInt32. A zero value decodes as Unknown.
func SolverValueFromInt32(v int32) SolverValue {
	const horizon = math.MaxInt32 / 2
	switch {
	case v > horizon:
		return SolverValue{WinIn, uint32(math.MaxInt32 - v)}
	case v < -horizon:
		return SolverValue{LossIn, uint32(math.MaxInt32 + v)}
	}
	return SolverValue{}
}

// SolverHeuristic only knows about finished boards. Its values are exact, which makes it the
// terminal evaluation of every other heuristic.
type SolverHeuristic[B board.Board[B, M], M comparable] struct{}

// Solve returns the exact value of b for the player to move.
func (SolverHeuristic[B, M]) Solve(b B, length uint32) SolverValue {
	o, ok := b.Outcome()
	if !ok {
		return SolverValue{}
	}
	switch o.Pov(b.NextPlayer()) {
	case board.WDLWin:
		return SolverValue{WinIn, length}
	case board.WDLLoss:
		return SolverValue{LossIn, length}
	}
	return SolverValue{Kind: DrawKind}
}

func (h SolverHeuristic[B, M]) Value(b B, length uint32) int32 { return h.Solve(b, length).ToInt32() }

func (h SolverHeuristic[B, M]) ValueUpdate(b B, bValue int32, bLength uint32, mv M, child B) int32 {
	return h.Value(child, bLength+1)
}

func (SolverHeuristic[B, M]) Merge(old, new int32) (int32, bool) { return MaxMerge(old, new) }
