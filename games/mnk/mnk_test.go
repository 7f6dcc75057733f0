package mnk

import (
	"testing"

	"github.com/gorgonia/boardgame/board"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/exp/rand"
)

var endedTests = []struct {
	name    string
	m, n, k int
	board   string
	ended   bool
	outcome board.Outcome
}{
	{"X diagonal", 3, 3, 3, `
		X O X
		O X O
		O O X`, true, board.WonByA},
	{"O anti-diagonal", 3, 3, 3, `
		X O O
		X O X
		O X X`, true, board.WonByB},
	{"X column", 3, 3, 3, `
		O . X
		. . X
		. O X`, true, board.WonByA},
	{"O top row", 3, 3, 3, `
		O O O
		. . X
		X O X`, true, board.WonByB},
	{"O bottom row", 3, 3, 3, `
		. . X
		X O X
		O O O`, true, board.WonByB},
	{"draw", 3, 3, 3, `
		X O X
		X O O
		O X X`, true, board.Draw},
	{"in progress", 3, 3, 3, `
		X O .
		. X .
		. . O`, false, 0},
	{"gomoku diagonal", 7, 7, 5, `
		. X . . . . .
		. . X . . . .
		. . . X . . .
		. . . . X . .
		. . . . . X .
		. . . . . X .
		. . . . . X .`, true, board.WonByA},
	{"gomoku anti-diagonal", 7, 7, 5, `
		. . . . . . .
		. . . . . O .
		. . . . O . .
		. . . O . . .
		. . O . . . .
		. O . . . . .
		. . . . . . .`, true, board.WonByB},
	{"gomoku four", 7, 7, 5, `
		. . . . . . .
		. X X X X . .
		. . . . . . .
		. . . . . . .
		. . . . . . .
		. . . . . . .
		. . . . . . .`, false, 0},
}

func TestEnded(t *testing.T) {
	for _, tc := range endedTests {
		t.Run(tc.name, func(t *testing.T) {
			g, err := FromString(tc.m, tc.n, tc.k, tc.board, Cross)
			require.NoError(t, err)
			assert.Equal(t, tc.ended, g.IsDone(), "\n%v", g)
			o, ok := g.Outcome()
			assert.Equal(t, tc.ended, ok)
			if tc.ended {
				assert.Equal(t, tc.outcome, o, "\n%v", g)
				assert.Nil(t, g.AvailableMoves())
			}
		})
	}
}

func TestFromStringErrors(t *testing.T) {
	_, err := FromString(3, 3, 3, "X O X", Cross)
	assert.Error(t, err)
	_, err = FromString(3, 3, 3, "X O X O X O X O X O", Cross)
	assert.Error(t, err)
	_, err = FromString(3, 3, 3, "X O X O ? O X O X", Cross)
	assert.Error(t, err)
	_, err = FromString(3, 3, 3, "X X X O O O . . .", Cross)
	assert.Error(t, err, "both players cannot have a line")
}

func TestPlay(t *testing.T) {
	g := TicTacToe()
	assert.Len(t, g.AvailableMoves(), 9)

	g2, err := g.Play(4)
	require.NoError(t, err)
	assert.Equal(t, Nought, g2.NextPlayer())
	assert.Len(t, g2.AvailableMoves(), 8)
	assert.Len(t, g.AvailableMoves(), 9, "Play must not modify the receiver")

	_, err = g2.Play(4)
	assert.Error(t, err)
	_, err = g2.Play(9)
	assert.Error(t, err)

	p, ok := g2.Tile(4)
	require.True(t, ok)
	assert.Equal(t, Cross, p)

	g3, err := board.PlayAll[*MNK, Move](g2, 0, 3, 1, 8, 2)
	require.NoError(t, err)
	assert.True(t, g3.IsDone())
	o, _ := g3.Outcome()
	assert.Equal(t, board.WonByB, o)
	_, err = g3.Play(8)
	assert.ErrorIs(t, err, board.ErrDone)
}

func TestHashIncrementalMatchesFullRecompute(t *testing.T) {
	r := rand.New(rand.NewSource(1337))
	for game := 0; game < 100; game++ {
		g := New(4, 4, 3)
		for !g.IsDone() {
			moves := g.AvailableMoves()
			g, _ = g.Play(moves[r.Intn(len(moves))])
			full, err := FromString(4, 4, 3, g.String(), g.NextPlayer())
			require.NoError(t, err)
			require.Equal(t, full.Hash(), g.Hash(), "\n%v", g)
		}
	}
}

func TestTransposition(t *testing.T) {
	a, err := board.PlayAll[*MNK, Move](TicTacToe(), 0, 4, 8)
	require.NoError(t, err)
	b, err := board.PlayAll[*MNK, Move](TicTacToe(), 8, 4, 0)
	require.NoError(t, err)
	assert.Equal(t, a.Hash(), b.Hash())

	c, err := board.PlayAll[*MNK, Move](TicTacToe(), 0, 8, 4)
	require.NoError(t, err)
	assert.NotEqual(t, a.Hash(), c.Hash(), "different stones")

	d, err := board.PlayAll[*MNK, Move](TicTacToe(), 0, 4)
	require.NoError(t, err)
	assert.NotEqual(t, a.Hash(), d.Hash())
}

func TestString(t *testing.T) {
	g, err := board.PlayAll[*MNK, Move](TicTacToe(), 4, 0)
	require.NoError(t, err)
	assert.Equal(t, "⎢ O · · ⎥\n⎢ · X · ⎥\n⎢ · · · ⎥\n", g.String())
}

func TestParseMove(t *testing.T) {
	g := TicTacToe()
	mv, err := ParseMove(g, " 7 ")
	require.NoError(t, err)
	assert.Equal(t, Move(7), mv)
	_, err = ParseMove(g, "9")
	assert.Error(t, err)
	_, err = ParseMove(g, "7a")
	assert.Error(t, err)
}

func TestNewPanics(t *testing.T) {
	require.Panics(t, func() { New(9, 9, 5) })
	require.Panics(t, func() { New(3, 3, 4) })
}
