// Package c4 implements Connect Four and its variants: an m,n,k-game where stones drop to the
// lowest free row of the chosen column.
package c4

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/gorgonia/boardgame/board"
	"github.com/gorgonia/boardgame/games/mnk"
	"github.com/gorgonia/boardgame/zobrist"
	"github.com/pkg/errors"
)

// Move is a column, counted from the left.
type Move uint8

// Board is a Connect Four position. Row 0 is the top row.
type Board struct {
	g       *mnk.MNK
	heights [8]uint8 // stones per column
}

var _ board.Board[*Board, Move] = &Board{}

// New creates an empty board with the given number of rows and columns where k in a row wins.
func New(rows, cols, k int) *Board {
	if cols > 8 {
		panic(fmt.Sprintf("c4: at most 8 columns, got %d", cols))
	}
	return &Board{g: mnk.New(rows, cols, k)}
}

// Classic returns the standard 6 by 7 game.
func Classic() *Board { return New(6, 7, 4) }

// FromString parses a board drawn like mnk.FromString. Stones must rest on the bottom row or on
// another stone.
func FromString(rows, cols, k int, s string, next board.Player) (*Board, error) {
	if cols > 8 {
		return nil, errors.Errorf("At most 8 columns, got %d", cols)
	}
	g, err := mnk.FromString(rows, cols, k, s, next)
	if err != nil {
		return nil, err
	}
	b := &Board{g: g}
	for c := 0; c < cols; c++ {
		for r := rows - 1; r >= 0; r-- {
			_, occupied := g.Tile(mnk.Move(r*cols + c))
			switch {
			case occupied && int(b.heights[c]) == rows-1-r:
				b.heights[c]++
			case occupied:
				return nil, errors.Errorf("Floating stone in column %d, row %d", c, r)
			}
		}
	}
	return b, nil
}

func (b *Board) NextPlayer() board.Player { return b.g.NextPlayer() }

func (b *Board) IsDone() bool { return b.g.IsDone() }

func (b *Board) Outcome() (board.Outcome, bool) { return b.g.Outcome() }

func (b *Board) Hash() zobrist.Zobrist { return b.g.Hash() }

// BoardSize returns the number of rows and columns.
func (b *Board) BoardSize() (rows, cols int) { return b.g.BoardSize() }

// Tile returns the owner of the cell at row, col, if any.
func (b *Board) Tile(row, col int) (board.Player, bool) {
	_, cols := b.g.BoardSize()
	return b.g.Tile(mnk.Move(row*cols + col))
}

// Height returns the number of stones in column col.
func (b *Board) Height(col Move) int { return int(b.heights[col]) }

func (b *Board) AvailableMoves() []Move {
	if b.IsDone() {
		return nil
	}
	rows, cols := b.g.BoardSize()
	var retVal []Move
	for c := 0; c < cols; c++ {
		if int(b.heights[c]) < rows {
			retVal = append(retVal, Move(c))
		}
	}
	return retVal
}

func (b *Board) IsAvailableMove(mv Move) bool {
	rows, cols := b.g.BoardSize()
	return !b.IsDone() && int(mv) < cols && int(b.heights[mv]) < rows
}

func (b *Board) Play(mv Move) (*Board, error) {
	if b.IsDone() {
		return nil, board.ErrDone
	}
	if !b.IsAvailableMove(mv) {
		return nil, errors.Errorf("Selected column %d is full or off the board", mv)
	}
	rows, cols := b.g.BoardSize()
	row := rows - 1 - int(b.heights[mv])
	g, err := b.g.Play(mnk.Move(row*cols + int(mv)))
	if err != nil {
		return nil, err
	}
	retVal := &Board{g: g, heights: b.heights}
	retVal.heights[mv]++
	return retVal, nil
}

func (b *Board) String() string { return b.g.String() }

// ParseMove parses a column number.
func ParseMove(b *Board, s string) (Move, error) {
	c, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0, errors.WithMessagef(err, "Unable to parse column %q", s)
	}
	if _, cols := b.BoardSize(); c < 0 || c >= cols {
		return 0, errors.Errorf("Column %d out of range", c)
	}
	return Move(c), nil
}
