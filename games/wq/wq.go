// Package wq implements Go (the board game) on boards up to 19×19.
//
// The package is named after 围碁 ("weiqi"), because the standard library of the Go language
// already owns the prefix "go".
//
// Positions carry a running Zobrist fingerprint that is updated incrementally: placing or
// capturing a stone toggles one tile fingerprint, every ply swaps the turn fingerprint and
// every pass or placement swaps the phase fingerprint. Rules are area scoring, suicide is illegal
// and simple ko is enforced by comparing tile fingerprints. Two consecutive passes end the game.
package wq

import (
	"fmt"
	"math/bits"
	"strings"

	"github.com/gorgonia/boardgame/board"
	"github.com/gorgonia/boardgame/coord"
	"github.com/gorgonia/boardgame/zobrist"
	"github.com/pkg/errors"
)

// MaxSize is the largest supported board size.
const MaxSize = 19

// Tile is a point on the largest board. Smaller boards use the top-left corner.
type Tile = coord.Coord19

// Move is either Pass or the index of a Tile.
type Move int16

// Pass is the pass move.
const Pass Move = -1

// Place returns the move placing a stone on t.
func Place(t Tile) Move { return Move(t.Index()) }

func (m Move) IsPass() bool { return m == Pass }

// Tile returns the tile of a placement. ok is false for Pass and for indices off the largest board.
func (m Move) Tile() (Tile, bool) {
	if m < 0 || int(m) >= coord.Area[coord.Size19]() {
		return Tile{}, false
	}
	return coord.FromIndex[coord.Size19](int(m)), true
}

// State is the phase of the game. A Done state carries the outcome.
type State struct {
	Phase   zobrist.Phase
	outcome board.Outcome
}

// Outcome returns the outcome of a Done state.
func (s State) Outcome() (board.Outcome, bool) { return s.outcome, s.Phase == zobrist.Done }

func (s State) String() string {
	if s.Phase == zobrist.Done {
		return fmt.Sprintf("Done(%v)", s.outcome)
	}
	return s.Phase.String()
}

type cell uint8

const (
	empty cell = iota
	black
	white
)

func stone(p board.Player) cell { return cell(p.Index() + 1) }

// Board is a Go position. Black is board.A and moves first.
type Board struct {
	size  int
	komi  float32
	cells [zobrist.MaxArea]cell

	next  board.Player
	state State

	table     *zobrist.Table
	tiles     zobrist.Zobrist // stones only
	prevTiles zobrist.Zobrist // stones before the last move, for ko
	hash      zobrist.Zobrist
}

var _ board.Board[*Board, Move] = &Board{}

// New creates an empty board hashed with the default table.
func New(size int, komi float32) *Board { return NewWithTable(size, komi, zobrist.Default()) }

// NewWithTable creates an empty board hashed with t.
func NewWithTable(size int, komi float32, t *zobrist.Table) *Board {
	if size <= 0 || size > MaxSize {
		panic(fmt.Sprintf("wq: invalid board size %d", size))
	}
	if t.Area() < coord.Area[coord.Size19]() {
		panic(fmt.Sprintf("wq: %v is too small", t))
	}
	b := &Board{
		size:  size,
		komi:  komi,
		next:  board.A,
		state: State{Phase: zobrist.Normal},
		table: t,
	}
	b.hash = t.ForTurn(board.A).Xor(t.ForPhase(zobrist.Normal))
	return b
}

func (b *Board) Size() int     { return b.size }
func (b *Board) Komi() float32 { return b.komi }
func (b *Board) State() State  { return b.state }
func (b *Board) IsDone() bool  { return b.state.Phase == zobrist.Done }

func (b *Board) NextPlayer() board.Player { return b.next }

func (b *Board) Outcome() (board.Outcome, bool) { return b.state.Outcome() }

// Hash returns the fingerprint of the stones, the player to move and the phase.
func (b *Board) Hash() zobrist.Zobrist { return b.hash }

// TTKey extends Hash with the stones of the previous position, which decide the ko restriction.
// Two boards with the same Hash can differ in their legal moves; their TTKeys differ.
func (b *Board) TTKey() zobrist.Zobrist {
	ko := zobrist.Zobrist{Hi: bits.RotateLeft64(b.prevTiles.Lo, 17), Lo: bits.RotateLeft64(b.prevTiles.Hi, 41)}
	return b.hash.Xor(ko)
}

// TilesHash returns the fingerprint of the stones only.
func (b *Board) TilesHash() zobrist.Zobrist { return b.tiles }

// Tile returns the colour of the stone on t, if any.
func (b *Board) Tile(t Tile) (board.Player, bool) {
	switch b.cells[t.Index()] {
	case black:
		return board.A, true
	case white:
		return board.B, true
	}
	return board.A, false
}

// Tiles returns every tile of the board.
func (b *Board) Tiles() []Tile {
	retVal := make([]Tile, 0, b.size*b.size)
	for y := 0; y < b.size; y++ {
		for x := 0; x < b.size; x++ {
			retVal = append(retVal, coord.FromXY[coord.Size19](x, y))
		}
	}
	return retVal
}

func (b *Board) AvailableMoves() []Move {
	if b.IsDone() {
		return nil
	}
	var retVal []Move
	for _, t := range b.Tiles() {
		if b.cells[t.Index()] != empty {
			continue
		}
		if _, err := b.place(t); err == nil {
			retVal = append(retVal, Place(t))
		}
	}
	return append(retVal, Pass)
}

func (b *Board) IsAvailableMove(mv Move) bool {
	_, err := b.Play(mv)
	return err == nil
}

func (b *Board) Play(mv Move) (*Board, error) {
	if b.IsDone() {
		return nil, board.ErrDone
	}
	if mv.IsPass() {
		return b.pass(), nil
	}
	t, ok := mv.Tile()
	if !ok || !t.ValidForSize(b.size) {
		return nil, errors.WithMessage(moveError{b.next, mv}, "Impossible move")
	}
	return b.place(t)
}

func (b *Board) setState(s State) {
	b.hash.Toggle(b.table.ForPhase(b.state.Phase))
	b.state = s
	b.hash.Toggle(b.table.ForPhase(b.state.Phase))
}

func (b *Board) swapTurn() {
	b.hash.Toggle(b.table.ForTurn(b.next))
	b.next = b.next.Other()
	b.hash.Toggle(b.table.ForTurn(b.next))
}

func (b *Board) toggle(t Tile, p board.Player) {
	z := b.table.ForTile(p, t.Index())
	b.tiles.Toggle(z)
	b.hash.Toggle(z)
}

func (b *Board) pass() *Board {
	retVal := *b
	retVal.prevTiles = b.tiles
	switch b.state.Phase {
	case zobrist.Normal:
		retVal.setState(State{Phase: zobrist.Passed})
	case zobrist.Passed:
		retVal.setState(State{Phase: zobrist.Done, outcome: b.outcomeByScore()})
	}
	retVal.swapTurn()
	return &retVal
}

// place puts a stone of the player to move on t, removing captured groups.
func (b *Board) place(t Tile) (*Board, error) {
	p := b.next
	if b.cells[t.Index()] != empty {
		return nil, errors.WithMessage(moveError{p, Place(t)}, "Application Failure - board location not empty.")
	}

	retVal := *b
	retVal.cells[t.Index()] = stone(p)
	retVal.toggle(t, p)

	for _, n := range retVal.neighbours(t) {
		if retVal.cells[n.Index()] != stone(p.Other()) {
			continue
		}
		if group, libs := retVal.group(n); libs == 0 {
			for _, g := range group {
				retVal.cells[g.Index()] = empty
				retVal.toggle(g, p.Other())
			}
		}
	}

	if _, libs := retVal.group(t); libs == 0 {
		return nil, errors.WithMessage(moveError{p, Place(t)}, "Suicide is not a valid option.")
	}
	if retVal.tiles == b.prevTiles {
		return nil, errors.WithMessage(moveError{p, Place(t)}, "Ko.")
	}

	retVal.prevTiles = b.tiles
	if b.state.Phase != zobrist.Normal {
		retVal.setState(State{Phase: zobrist.Normal})
	}
	retVal.swapTurn()
	return &retVal, nil
}

func (b *Board) neighbours(t Tile) []Tile {
	retVal := make([]Tile, 0, 4)
	for _, d := range adjacents {
		if n, ok := t.Offset(d[0], d[1]); ok && n.ValidForSize(b.size) {
			retVal = append(retVal, n)
		}
	}
	return retVal
}

var adjacents = [4][2]int{{0, 1}, {1, 0}, {0, -1}, {-1, 0}}

// group returns the stones connected to t and the number of distinct liberties of the group.
func (b *Board) group(t Tile) (stones []Tile, liberties int) {
	colour := b.cells[t.Index()]
	seen := make([]bool, b.size*b.size)
	libSeen := make([]bool, b.size*b.size)
	seen[t.DenseIndex(b.size)] = true
	queue := []Tile{t}
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		stones = append(stones, cur)
		for _, n := range b.neighbours(cur) {
			d := n.DenseIndex(b.size)
			switch c := b.cells[n.Index()]; {
			case c == empty && !libSeen[d]:
				libSeen[d] = true
				liberties++
			case c == colour && !seen[d]:
				seen[d] = true
				queue = append(queue, n)
			}
		}
	}
	return stones, liberties
}

// Score returns the area score of p: stones plus empty regions bordered only by p.
func (b *Board) Score(p board.Player) int {
	own := stone(p)
	var score int
	seen := make([]bool, b.size*b.size)
	for _, t := range b.Tiles() {
		switch c := b.cells[t.Index()]; {
		case c == own:
			score++
		case c == empty && !seen[t.DenseIndex(b.size)]:
			region, borders := b.region(t, seen)
			if borders == own {
				score += region
			}
		}
	}
	return score
}

// region floods the empty region containing t. borders is the colour of every stone touching
// the region, or empty if none or both colours do.
// seen is indexed by DenseIndex.
func (b *Board) region(t Tile, seen []bool) (size int, borders cell) {
	var touchBlack, touchWhite bool
	seen[t.DenseIndex(b.size)] = true
	queue := []Tile{t}
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		size++
		for _, n := range b.neighbours(cur) {
			switch b.cells[n.Index()] {
			case black:
				touchBlack = true
			case white:
				touchWhite = true
			case empty:
				if d := n.DenseIndex(b.size); !seen[d] {
					seen[d] = true
					queue = append(queue, n)
				}
			}
		}
	}
	switch {
	case touchBlack && !touchWhite:
		return size, black
	case touchWhite && !touchBlack:
		return size, white
	}
	return size, empty
}

func (b *Board) outcomeByScore() board.Outcome {
	diff := float32(b.Score(board.A)-b.Score(board.B)) - b.komi
	switch {
	case diff > 0:
		return board.WonByA
	case diff < 0:
		return board.WonByB
	}
	return board.Draw
}

// String renders the board one row per line.
func (b *Board) String() string {
	var buf strings.Builder
	for y := 0; y < b.size; y++ {
		buf.WriteString("⎢ ")
		for x := 0; x < b.size; x++ {
			if p, ok := b.Tile(coord.FromXY[coord.Size19](x, y)); ok {
				fmt.Fprintf(&buf, "%s ", p)
			} else {
				buf.WriteString("· ")
			}
		}
		buf.WriteString("⎥\n")
	}
	return buf.String()
}

type moveError struct {
	p  board.Player
	mv Move
}

func (err moveError) Error() string { return fmt.Sprintf("Unable to make %v@%d", err.p, err.mv) }
