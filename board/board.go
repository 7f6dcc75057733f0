// Package board holds the contract every game in this module implements.
//
// A game plugs into the search kernel by providing a board type B and a move
// type M such that B implements Board[B, M]. The search code is written once
// against the contract and instantiated per game.
package board

import (
	"fmt"

	"github.com/pkg/errors"
)

// Player is one of the two players of a turn-based game.
type Player uint8

const (
	A Player = iota
	B
)

// Index returns 0 for A and 1 for B. It is the index used in per-player tables.
func (p Player) Index() int { return int(p) }

// Other returns the opponent.
func (p Player) Other() Player {
	switch p {
	case A:
		return B
	case B:
		return A
	}
	panic("Unreachable")
}

// Sign returns +1 if p is pov, -1 otherwise.
func (p Player) Sign(pov Player) int {
	if p == pov {
		return 1
	}
	return -1
}

func (p Player) String() string {
	switch p {
	case A:
		return "A"
	case B:
		return "B"
	}
	return fmt.Sprintf("Player(%d)", uint8(p))
}

func (p Player) Format(s fmt.State, c rune) {
	switch c {
	case 's': // used in board games
		switch p {
		case A:
			fmt.Fprint(s, "X")
		case B:
			fmt.Fprint(s, "O")
		default:
			fmt.Fprint(s, "·")
		}
	default:
		fmt.Fprint(s, p.String())
	}
}

// Outcome is the result of a finished game: a win for one of the players, or a draw.
type Outcome uint8

const (
	WonByA Outcome = iota
	WonByB
	Draw
)

// WonBy returns the outcome where p is the winner.
func WonBy(p Player) Outcome {
	switch p {
	case A:
		return WonByA
	case B:
		return WonByB
	}
	panic("Unreachable")
}

// Winner returns the winner, if any.
func (o Outcome) Winner() (Player, bool) {
	switch o {
	case WonByA:
		return A, true
	case WonByB:
		return B, true
	}
	return A, false
}

// Pov returns the outcome as seen by pov.
func (o Outcome) Pov(pov Player) OutcomeWDL {
	winner, ok := o.Winner()
	switch {
	case !ok:
		return WDLDraw
	case winner == pov:
		return WDLWin
	default:
		return WDLLoss
	}
}

// Sign is +1 for a win, 0 for a draw and -1 for a loss of pov.
func (o Outcome) Sign(pov Player) int { return int(o.Pov(pov)) }

func (o Outcome) String() string {
	switch o {
	case WonByA:
		return "WonBy(A)"
	case WonByB:
		return "WonBy(B)"
	case Draw:
		return "Draw"
	}
	return fmt.Sprintf("Outcome(%d)", uint8(o))
}

// OutcomeWDL is an outcome relative to a player.
type OutcomeWDL int8

const (
	WDLLoss OutcomeWDL = -1
	WDLDraw OutcomeWDL = 0
	WDLWin  OutcomeWDL = 1
)

func (o OutcomeWDL) String() string {
	switch o {
	case WDLWin:
		return "Win"
	case WDLDraw:
		return "Draw"
	case WDLLoss:
		return "Loss"
	}
	return fmt.Sprintf("OutcomeWDL(%d)", int8(o))
}

// Board is the capability set of a game state.
//
// B is the concrete board type itself, M the move type. Implementations must treat a board
// as a value: Play returns a successor and never modifies the receiver.
type Board[B any, M comparable] interface {
	// NextPlayer returns the player to move.
	NextPlayer() Player
	// IsDone reports whether the game has finished.
	IsDone() bool
	// Outcome returns the outcome. ok is true iff the board is done.
	Outcome() (o Outcome, ok bool)
	// AvailableMoves lists the legal moves. It returns nil for a finished board.
	AvailableMoves() []M
	// IsAvailableMove reports whether mv is legal.
	IsAvailableMove(mv M) bool
	// Play returns the state after mv. The required side effect is that the next player changes.
	Play(mv M) (B, error)

	String() string
}

// ErrDone is returned when a move is played on a finished board.
var ErrDone = errors.New("game is already done")

// PlayAll plays moves in order, starting from b.
func PlayAll[B Board[B, M], M comparable](b B, moves ...M) (B, error) {
	for i, mv := range moves {
		next, err := b.Play(mv)
		if err != nil {
			return b, errors.WithMessagef(err, "Unable to play move %d (%v)", i, mv)
		}
		b = next
	}
	return b, nil
}

// Children returns every (move, successor) pair of b.
func Children[B Board[B, M], M comparable](b B) ([]M, []B, error) {
	moves := b.AvailableMoves()
	children := make([]B, len(moves))
	for i, mv := range moves {
		child, err := b.Play(mv)
		if err != nil {
			return nil, nil, errors.WithMessagef(err, "available move %v is not playable", mv)
		}
		children[i] = child
	}
	return moves, children, nil
}
