package sttt

import (
	"strings"

	"github.com/gorgonia/boardgame/board"
	"github.com/gorgonia/boardgame/coord"
	"github.com/gorgonia/boardgame/util/bitboard"
	"github.com/pkg/errors"
)

// ToFEN encodes the board as nine '/'-separated rows of 'x', 'o' or '.', the player to
// move ('x' or 'o') and the forced macro (0-8, or '-' for any).
func (b *Board) ToFEN() string {
	var buf strings.Builder
	for y := 0; y < 9; y++ {
		if y > 0 {
			buf.WriteByte('/')
		}
		for x := 0; x < 9; x++ {
			p, ok := b.Tile(coord.FromXY[coord.Size9](x, y))
			switch {
			case !ok:
				buf.WriteByte('.')
			case p == board.A:
				buf.WriteByte('x')
			default:
				buf.WriteByte('o')
			}
		}
	}
	if b.next == board.A {
		buf.WriteString(" x ")
	} else {
		buf.WriteString(" o ")
	}
	if om, ok := b.NextMacro(); ok {
		buf.WriteByte('0' + om)
	} else {
		buf.WriteByte('-')
	}
	return buf.String()
}

// FromFEN parses the format written by ToFEN.
func FromFEN(fen string) (*Board, error) {
	fields := strings.Fields(fen)
	if len(fields) != 3 {
		return nil, errors.Errorf("Expected 3 fields in %q, got %d", fen, len(fields))
	}
	rows := strings.Split(fields[0], "/")
	if len(rows) != 9 {
		return nil, errors.Errorf("Expected 9 rows, got %d", len(rows))
	}

	b := New()
	for y, row := range rows {
		if len(row) != 9 {
			return nil, errors.Errorf("Row %d has %d cells", y, len(row))
		}
		for x := 0; x < 9; x++ {
			c := coord.FromXY[coord.Size9](x, y)
			switch row[x] {
			case 'x', 'X':
				b.grids[board.A][OM(c)] |= 1 << OS(c)
			case 'o', 'O':
				b.grids[board.B][OM(c)] |= 1 << OS(c)
			case '.':
			default:
				return nil, errors.Errorf("Invalid cell %q at (%d, %d)", row[x], x, y)
			}
		}
	}

	for om := uint8(0); om < 9; om++ {
		a, o := isWin(b.grids[board.A][om]), isWin(b.grids[board.B][om])
		switch {
		case a && o:
			return nil, errors.Errorf("Macro %d is won by both players", om)
		case a:
			b.macros[board.A] |= 1 << om
			b.closed |= 1 << om
		case o:
			b.macros[board.B] |= 1 << om
			b.closed |= 1 << om
		case b.grids[0][om]|b.grids[1][om] == fullMacro:
			b.closed |= 1 << om
		}
	}

	switch fields[1] {
	case "x", "X":
		b.next = board.A
	case "o", "O":
		b.next = board.B
	default:
		return nil, errors.Errorf("Invalid player %q", fields[1])
	}

	switch m := fields[2]; {
	case m == "-":
		b.nextMacro = anyMacro
	case len(m) == 1 && m[0] >= '0' && m[0] <= '8':
		om := m[0] - '0'
		if bitboard.Has(b.closed, om) {
			return nil, errors.Errorf("Forced macro %d is closed", om)
		}
		b.nextMacro = int8(om)
	default:
		return nil, errors.Errorf("Invalid macro %q", m)
	}

	a, o := isWin(b.macros[board.A]), isWin(b.macros[board.B])
	switch {
	case a && o:
		return nil, errors.New("Both players have won")
	case a:
		b.done, b.outcome = true, board.WonByA
	case o:
		b.done, b.outcome = true, board.WonByB
	case b.closed == fullMacro:
		b.done, b.outcome = true, board.Draw
	}
	return b, nil
}
