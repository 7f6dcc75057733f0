package wq

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/gorgonia/boardgame/coord"
	"github.com/pkg/errors"
)

// columns skips I, as is customary.
const columns = "ABCDEFGHJKLMNOPQRST"

// FormatMove writes mv in GTP vertex notation for a board of the given size: "pass" or a
// column letter followed by a row number counted from the bottom.
func FormatMove(size int, mv Move) string {
	t, ok := mv.Tile()
	if !ok {
		return "pass"
	}
	return fmt.Sprintf("%c%d", columns[t.X()], size-t.Y())
}

// ParseMove is the inverse of FormatMove.
func ParseMove(size int, s string) (Move, error) {
	s = strings.ToUpper(strings.TrimSpace(s))
	if s == "PASS" {
		return Pass, nil
	}
	if len(s) < 2 {
		return 0, errors.Errorf("Invalid vertex %q", s)
	}
	x := strings.IndexByte(columns, s[0])
	row, err := strconv.Atoi(s[1:])
	if err != nil {
		return 0, errors.WithMessagef(err, "Invalid row in vertex %q", s)
	}
	y := size - row
	if x < 0 || x >= size || y < 0 || y >= size {
		return 0, errors.Errorf("Vertex %q is off a %dx%d board", s, size, size)
	}
	return Place(coord.FromXY[coord.Size19](x, y)), nil
}
