// Package sttt implements super tic-tac-toe.
//
// The 9×9 grid is split into nine 3×3 macros. A move in sub-cell os of its macro sends the
// opponent to macro os, unless that macro is closed (won or full), in which case the opponent
// may play in any open macro. Winning three macros in a line wins the game.
package sttt

import (
	"fmt"
	"strings"

	"github.com/gorgonia/boardgame/board"
	"github.com/gorgonia/boardgame/coord"
	"github.com/gorgonia/boardgame/util/bitboard"
	"github.com/pkg/errors"
)

// Coord is a cell of the 9×9 grid.
type Coord = coord.Coord9

const (
	fullMacro uint16 = 0x1FF
	anyMacro  int8   = -1
)

var lines = [8]uint16{
	0b000_000_111,
	0b000_111_000,
	0b111_000_000,
	0b001_001_001,
	0b010_010_010,
	0b100_100_100,
	0b100_010_001,
	0b001_010_100,
}

func isWin(mask uint16) bool {
	for _, l := range lines {
		if mask&l == l {
			return true
		}
	}
	return false
}

// FromOO returns the cell at sub-index os of macro om. Both are row-major indices in [0, 9).
func FromOO(om, os uint8) Coord {
	if om >= 9 || os >= 9 {
		panic(fmt.Sprintf("sttt: invalid (om, os) = (%d, %d)", om, os))
	}
	x := int(om%3)*3 + int(os%3)
	y := int(om/3)*3 + int(os/3)
	return coord.FromXY[coord.Size9](x, y)
}

// OM returns the macro index of c.
func OM(c Coord) uint8 { return uint8((c.Y()/3)*3 + c.X()/3) }

// OS returns the index of c within its macro.
func OS(c Coord) uint8 { return uint8((c.Y()%3)*3 + c.X()%3) }

// Board is a super tic-tac-toe position. The zero value is not valid; use New.
type Board struct {
	grids  [2][9]uint16 // per player, per macro: occupied sub-cells
	macros [2]uint16    // macros won by each player
	closed uint16       // macros that are won or full

	nextMacro int8
	next      board.Player
	lastMove  Coord
	hasLast   bool

	done    bool
	outcome board.Outcome
}

var _ board.Board[*Board, Coord] = &Board{}

// New returns the starting position. A moves first and may play anywhere.
func New() *Board {
	return &Board{nextMacro: anyMacro, next: board.A}
}

func (b *Board) NextPlayer() board.Player { return b.next }

func (b *Board) IsDone() bool { return b.done }

func (b *Board) Outcome() (board.Outcome, bool) { return b.outcome, b.done }

// LastMove returns the previous move, if any.
func (b *Board) LastMove() (Coord, bool) { return b.lastMove, b.hasLast }

// NextMacro returns the macro the next move must be played in. ok is false if any open macro is allowed.
func (b *Board) NextMacro() (om uint8, ok bool) {
	if b.nextMacro == anyMacro {
		return 0, false
	}
	return uint8(b.nextMacro), true
}

// Tile returns the owner of c, if any.
func (b *Board) Tile(c Coord) (board.Player, bool) {
	om, os := OM(c), OS(c)
	switch {
	case bitboard.Has(b.grids[board.A][om], os):
		return board.A, true
	case bitboard.Has(b.grids[board.B][om], os):
		return board.B, true
	}
	return board.A, false
}

// Macr returns the owner of macro om, if any.
func (b *Board) Macr(om uint8) (board.Player, bool) {
	switch {
	case bitboard.Has(b.macros[board.A], om):
		return board.A, true
	case bitboard.Has(b.macros[board.B], om):
		return board.B, true
	}
	return board.A, false
}

func (b *Board) freeIn(om uint8) uint16 {
	if bitboard.Has(b.closed, om) {
		return 0
	}
	return fullMacro &^ (b.grids[0][om] | b.grids[1][om])
}

func (b *Board) openMacros() uint16 {
	if b.nextMacro != anyMacro {
		return 1 << uint16(b.nextMacro)
	}
	return fullMacro &^ b.closed
}

func (b *Board) AvailableMoves() []Coord {
	if b.done {
		return nil
	}
	var retVal []Coord
	for om := range bitboard.All(b.openMacros()) {
		for os := range bitboard.All(b.freeIn(om)) {
			retVal = append(retVal, FromOO(om, os))
		}
	}
	return retVal
}

func (b *Board) IsAvailableMove(mv Coord) bool {
	if b.done {
		return false
	}
	om := OM(mv)
	return bitboard.Has(b.openMacros(), om) && bitboard.Has(b.freeIn(om), OS(mv))
}

func (b *Board) Play(mv Coord) (*Board, error) {
	if b.done {
		return nil, board.ErrDone
	}
	if !b.IsAvailableMove(mv) {
		return nil, errors.WithMessagef(moveError{b.next, mv}, "not available, next macro %d", b.nextMacro)
	}
	retVal := *b
	retVal.place(mv)
	return &retVal, nil
}

// place applies a move known to be legal.
func (b *Board) place(mv Coord) {
	p := b.next
	om, os := OM(mv), OS(mv)

	b.grids[p][om] |= 1 << os
	occupied := b.grids[0][om] | b.grids[1][om]
	switch {
	case isWin(b.grids[p][om]):
		b.macros[p] |= 1 << om
		b.closed |= 1 << om
	case occupied == fullMacro:
		b.closed |= 1 << om
	}

	b.lastMove, b.hasLast = mv, true
	b.next = p.Other()
	if bitboard.Has(b.closed, os) {
		b.nextMacro = anyMacro
	} else {
		b.nextMacro = int8(os)
	}

	switch {
	case isWin(b.macros[p]):
		b.done, b.outcome = true, board.WonBy(p)
	case b.closed == fullMacro:
		b.done, b.outcome = true, board.Draw
	}
}

type moveError struct {
	p  board.Player
	mv Coord
}

func (err moveError) Error() string {
	return fmt.Sprintf("Unable to play %s for %v", FormatMove(err.mv), err.p)
}

// FormatMove writes a cell as a column letter a-i followed by a row number 1-9.
func FormatMove(c Coord) string { return fmt.Sprintf("%c%d", 'a'+c.X(), c.Y()+1) }

// ParseMove is the inverse of FormatMove.
func ParseMove(s string) (Coord, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if len(s) != 2 || s[0] < 'a' || s[0] > 'i' || s[1] < '1' || s[1] > '9' {
		return Coord{}, errors.Errorf("Invalid move %q", s)
	}
	return coord.FromXY[coord.Size9](int(s[0]-'a'), int(s[1]-'1')), nil
}

// String renders the grid with X for A and O for B.
func (b *Board) String() string {
	var buf strings.Builder
	for y := 0; y < 9; y++ {
		if y > 0 && y%3 == 0 {
			buf.WriteString("⎢-------+-------+-------⎥\n")
		}
		buf.WriteString("⎢ ")
		for x := 0; x < 9; x++ {
			if x > 0 && x%3 == 0 {
				buf.WriteString("| ")
			}
			c := coord.FromXY[coord.Size9](x, y)
			if p, ok := b.Tile(c); ok {
				fmt.Fprintf(&buf, "%s ", p)
			} else {
				buf.WriteString("· ")
			}
		}
		buf.WriteString("⎥\n")
	}
	return buf.String()
}
