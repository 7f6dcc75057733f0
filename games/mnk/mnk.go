// Package mnk implements m,n,k-games: two players alternately place stones on an m×n board, and
// the first to get k in a row (horizontally, vertically or diagonally) wins.
//
// Tic-tac-toe is the 3,3,3-game. Boards are limited to 64 cells so that each player's stones fit
// in a single uint64.
package mnk

import (
	"fmt"
	"strconv"
	"strings"
	"unicode"

	"github.com/gorgonia/boardgame/board"
	"github.com/gorgonia/boardgame/util/bitboard"
	"github.com/gorgonia/boardgame/zobrist"
	"github.com/pkg/errors"
)

// Move is the row-major index of a cell.
type Move uint8

var (
	Cross  = board.A
	Nought = board.B
)

// MNK is a position of an m,n,k-game.
type MNK struct {
	m, n, k int
	tiles   [2]uint64

	next    board.Player
	plies   int
	done    bool
	outcome board.Outcome

	table *zobrist.Table
	hash  zobrist.Zobrist
}

var _ board.Board[*MNK, Move] = &MNK{}

// New creates a new MNK game with m rows and n columns, hashed with the default table.
func New(m, n, k int) *MNK { return NewWithTable(m, n, k, zobrist.Default()) }

// TicTacToe creates a new MNK game for Tic Tac Toe
func TicTacToe() *MNK { return New(3, 3, 3) }

// NewWithTable creates a new MNK game hashed with t.
func NewWithTable(m, n, k int, t *zobrist.Table) *MNK {
	if m <= 0 || n <= 0 || m*n > 64 || k <= 0 || (k > m && k > n) {
		panic(fmt.Sprintf("mnk: invalid game (%d, %d, %d)", m, n, k))
	}
	if m*n > t.Area() {
		panic(fmt.Sprintf("mnk: %v is too small for %d cells", t, m*n))
	}
	return &MNK{
		m: m, n: n, k: k,
		next:  Cross,
		table: t,
		hash:  t.ForTurn(Cross),
	}
}

// FromString parses a board drawn with X, O and '.' (or '·'), ignoring whitespace and frame characters.
func FromString(m, n, k int, s string, next board.Player) (*MNK, error) {
	g := New(m, n, k)
	var i int
	for _, r := range s {
		if unicode.IsSpace(r) || r == '⎢' || r == '⎥' {
			continue
		}
		if i >= m*n {
			return nil, errors.Errorf("Too many cells in %q", s)
		}
		switch r {
		case 'X', 'x':
			g.set(board.A, i)
		case 'O', 'o':
			g.set(board.B, i)
		case '.', '·':
		default:
			return nil, errors.Errorf("Invalid cell %q", r)
		}
		i++
	}
	if i != m*n {
		return nil, errors.Errorf("Expected %d cells, got %d", m*n, i)
	}

	g.hash.Toggle(g.table.ForTurn(g.next))
	g.next = next
	g.hash.Toggle(g.table.ForTurn(g.next))

	xWins, oWins := g.hasLine(Cross), g.hasLine(Nought)
	switch {
	case xWins && oWins:
		return nil, errors.New("Both players have a line")
	case xWins:
		g.done, g.outcome = true, board.WonBy(Cross)
	case oWins:
		g.done, g.outcome = true, board.WonBy(Nought)
	case g.full():
		g.done, g.outcome = true, board.Draw
	}
	return g, nil
}

func (g *MNK) set(p board.Player, i int) {
	g.tiles[p] |= 1 << uint(i)
	g.hash.Toggle(g.table.ForTile(p, i))
	g.plies++
}

func (g *MNK) mask() uint64 { return ^uint64(0) >> uint(64-g.m*g.n) }

func (g *MNK) full() bool { return (g.tiles[0]|g.tiles[1])&g.mask() == g.mask() }

// BoardSize returns the number of rows and columns.
func (g *MNK) BoardSize() (int, int) { return g.m, g.n }

// K returns the number in a row needed to win.
func (g *MNK) K() int { return g.k }

func (g *MNK) NextPlayer() board.Player { return g.next }

func (g *MNK) IsDone() bool { return g.done }

func (g *MNK) Outcome() (board.Outcome, bool) { return g.outcome, g.done }

// MoveNumber returns the number of stones on the board.
func (g *MNK) MoveNumber() int { return g.plies }

// Hash returns the fingerprint of the position and the player to move.
func (g *MNK) Hash() zobrist.Zobrist { return g.hash }

// Tile returns the owner of a cell, if any.
func (g *MNK) Tile(mv Move) (board.Player, bool) {
	switch {
	case bitboard.Has(g.tiles[Cross], uint8(mv)):
		return Cross, true
	case bitboard.Has(g.tiles[Nought], uint8(mv)):
		return Nought, true
	}
	return Cross, false
}

func (g *MNK) free() uint64 { return g.mask() &^ (g.tiles[0] | g.tiles[1]) }

func (g *MNK) AvailableMoves() []Move {
	if g.done {
		return nil
	}
	retVal := make([]Move, 0, bitboard.Count(g.free()))
	for i := range bitboard.All(g.free()) {
		retVal = append(retVal, Move(i))
	}
	return retVal
}

func (g *MNK) IsAvailableMove(mv Move) bool {
	return !g.done && int(mv) < g.m*g.n && bitboard.Has(g.free(), uint8(mv))
}

func (g *MNK) Play(mv Move) (*MNK, error) {
	if g.done {
		return nil, board.ErrDone
	}
	if !g.IsAvailableMove(mv) {
		return nil, moveError{g.next, mv}
	}

	retVal := *g
	p := retVal.next
	retVal.set(p, int(mv))
	retVal.hash.Toggle(retVal.table.ForTurn(p))
	retVal.hash.Toggle(retVal.table.ForTurn(p.Other()))
	retVal.next = p.Other()

	switch {
	case retVal.lineThrough(p, int(mv)):
		retVal.done, retVal.outcome = true, board.WonBy(p)
	case retVal.full():
		retVal.done, retVal.outcome = true, board.Draw
	}
	return &retVal, nil
}

var directions = [4][2]int{{0, 1}, {1, 0}, {1, 1}, {1, -1}}

// lineThrough checks whether the stone of p at idx is part of k in a row.
func (g *MNK) lineThrough(p board.Player, idx int) bool {
	row, col := idx/g.n, idx%g.n
	for _, d := range directions {
		count := 1
		for _, sign := range [2]int{1, -1} {
			r, c := row+sign*d[0], col+sign*d[1]
			for r >= 0 && r < g.m && c >= 0 && c < g.n && bitboard.Has(g.tiles[p], uint8(r*g.n+c)) {
				count++
				r, c = r+sign*d[0], c+sign*d[1]
			}
		}
		if count >= g.k {
			return true
		}
	}
	return false
}

func (g *MNK) hasLine(p board.Player) bool {
	for i := range bitboard.All(g.tiles[p]) {
		if g.lineThrough(p, int(i)) {
			return true
		}
	}
	return false
}

// String renders the board one row per line, like
//
//	⎢ X · O ⎥
func (g *MNK) String() string {
	var buf strings.Builder
	for i := 0; i < g.m*g.n; i++ {
		if i%g.n == 0 {
			buf.WriteString("⎢ ")
		}
		if p, ok := g.Tile(Move(i)); ok {
			fmt.Fprintf(&buf, "%s ", p)
		} else {
			buf.WriteString("· ")
		}
		if (i+1)%g.n == 0 {
			buf.WriteString("⎥\n")
		}
	}
	return buf.String()
}

type moveError struct {
	p  board.Player
	mv Move
}

func (err moveError) Error() string { return fmt.Sprintf("Unable to make %v@%d", err.p, err.mv) }

// ParseMove parses a cell index.
func ParseMove(g *MNK, s string) (Move, error) {
	i, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0, errors.WithMessagef(err, "Unable to parse move %q", s)
	}
	if i < 0 || i >= g.m*g.n {
		return 0, errors.Errorf("Move %d out of range", i)
	}
	return Move(i), nil
}
