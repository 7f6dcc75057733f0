package wq

import (
	"testing"

	"github.com/gorgonia/boardgame/board"
	"github.com/gorgonia/boardgame/coord"
	"github.com/gorgonia/boardgame/zobrist"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/exp/rand"
)

func at(x, y int) Move { return Place(coord.FromXY[coord.Size19](x, y)) }

func play(t *testing.T, b *Board, moves ...Move) *Board {
	t.Helper()
	b, err := board.PlayAll(b, moves...)
	require.NoError(t, err)
	return b
}

// recompute builds the fingerprint of b from scratch.
func recompute(b *Board) zobrist.Zobrist {
	var h zobrist.Zobrist
	for _, t := range b.Tiles() {
		if p, ok := b.Tile(t); ok {
			h.Toggle(b.table.ForTile(p, t.Index()))
		}
	}
	h.Toggle(b.table.ForTurn(b.NextPlayer()))
	h.Toggle(b.table.ForPhase(b.State().Phase))
	return h
}

func TestCapture(t *testing.T) {
	// · O ·
	// O X O
	// · · ·
	b := play(t, New(3, 0), at(1, 1), at(1, 0), Pass, at(0, 1), Pass, at(2, 1))
	require.Equal(t, board.A, b.NextPlayer())
	assert.Len(t, b.AvailableMoves(), 4, "both top corners are suicide for X")

	b = play(t, b, Pass, at(1, 2))
	_, ok := b.Tile(coord.FromXY[coord.Size19](1, 1))
	assert.False(t, ok, "X is captured")
	assert.Equal(t, recompute(b), b.Hash())
	assert.Equal(t, 9, b.Score(board.B))
}

func TestSuicide(t *testing.T) {
	b := play(t, New(3, 0), Pass, at(1, 0), Pass, at(0, 1))
	_, err := b.Play(at(0, 0))
	assert.Error(t, err, "corner surrounded by O is suicide for X")
	assert.False(t, b.IsAvailableMove(at(0, 0)))
	assert.NotContains(t, b.AvailableMoves(), at(0, 0))
}

func TestKo(t *testing.T) {
	// · X O ·
	// X O · O
	// · X O ·
	b := New(4, 0)
	b = play(t, b,
		at(1, 0), at(2, 0),
		at(0, 1), at(1, 1),
		at(1, 2), at(2, 2),
		Pass, at(3, 1),
	)
	// X captures at (2,1)
	b = play(t, b, at(2, 1))
	_, ok := b.Tile(coord.FromXY[coord.Size19](1, 1))
	require.False(t, ok)

	// O may not recapture immediately
	_, err := b.Play(at(1, 1))
	assert.Error(t, err)

	// after a ko threat elsewhere it may
	b = play(t, b, at(0, 3), at(3, 3))
	_, err = b.Play(at(1, 1))
	assert.NoError(t, err)
}

func TestKoStateInTTKey(t *testing.T) {
	ko := play(t, New(4, 0),
		at(1, 0), at(2, 0),
		at(0, 1), at(1, 1),
		at(1, 2), at(2, 2),
		Pass, at(3, 1),
		at(2, 1),
	)
	plain := play(t, New(4, 0),
		at(1, 0), at(2, 0),
		at(0, 1), at(2, 2),
		at(1, 2), at(3, 1),
		at(2, 1),
	)
	require.Equal(t, ko.Hash(), plain.Hash(), "same stones, turn and phase")
	require.False(t, ko.IsAvailableMove(at(1, 1)))
	require.True(t, plain.IsAvailableMove(at(1, 1)))
	assert.NotEqual(t, ko.TTKey(), plain.TTKey())
	assert.Len(t, ko.AvailableMoves(), len(plain.AvailableMoves())-1)

	// the ko is lifted by the exchange, and so is the difference in keys
	a := play(t, ko, at(0, 3), at(3, 3))
	b := play(t, plain, at(0, 3), at(3, 3))
	assert.Equal(t, a.AvailableMoves(), b.AvailableMoves())
	assert.Equal(t, a.TTKey(), b.TTKey())
}

func TestMoveOffBoard(t *testing.T) {
	b := New(9, 0.5)
	for _, mv := range []Move{Move(9), Move(90), Move(361), Move(400), Move(-2)} {
		assert.NotPanics(t, func() {
			_, err := b.Play(mv)
			assert.Error(t, err, "move %d", mv)
			assert.False(t, b.IsAvailableMove(mv), "move %d", mv)
		})
	}
	_, ok := Move(361).Tile()
	assert.False(t, ok)
	tile, ok := Move(360).Tile()
	assert.True(t, ok)
	assert.Equal(t, coord.FromXY[coord.Size19](18, 18), tile)
}

func TestPhases(t *testing.T) {
	b := New(3, 0.5)
	assert.Equal(t, zobrist.Normal, b.State().Phase)

	b = play(t, b, Pass)
	assert.Equal(t, zobrist.Passed, b.State().Phase)
	assert.Equal(t, recompute(b), b.Hash())

	b2 := play(t, b, at(0, 0))
	assert.Equal(t, zobrist.Normal, b2.State().Phase, "a placement resets the pass count")
	assert.Equal(t, recompute(b2), b2.Hash())

	done := play(t, b, Pass)
	require.True(t, done.IsDone())
	o, ok := done.Outcome()
	require.True(t, ok)
	assert.Equal(t, board.WonByB, o, "empty board, komi decides")
	assert.Equal(t, "Done(WonBy(B))", done.State().String())
	assert.Equal(t, recompute(done), done.Hash())
	assert.Nil(t, done.AvailableMoves())
	_, err := done.Play(Pass)
	assert.ErrorIs(t, err, board.ErrDone)
}

func TestScoreDraw(t *testing.T) {
	b := play(t, New(2, 0), at(0, 0), at(1, 1), Pass, Pass)
	o, ok := b.Outcome()
	require.True(t, ok)
	assert.Equal(t, board.Draw, o)
	assert.Equal(t, 1, b.Score(board.A), "the two empty points touch both colours")
}

func TestHashIncrementalMatchesFullRecompute(t *testing.T) {
	r := rand.New(rand.NewSource(1337))
	for game := 0; game < 20; game++ {
		b := New(5, 0.5)
		for ply := 0; ply < 200 && !b.IsDone(); ply++ {
			moves := b.AvailableMoves()
			// pass rarely so games go on for a while
			mv := moves[r.Intn(len(moves))]
			if mv.IsPass() && len(moves) > 1 && r.Intn(10) > 0 {
				mv = moves[r.Intn(len(moves)-1)]
			}
			next, err := b.Play(mv)
			require.NoError(t, err, "\n%v", b)
			require.Equal(t, recompute(next), next.Hash(), "ply %d\n%v", ply, next)
			b = next
		}
	}
}

func TestTranspositionAcrossMoveOrders(t *testing.T) {
	a := play(t, New(5, 0.5), at(0, 0), at(4, 4), at(1, 1), at(3, 3))
	b := play(t, New(5, 0.5), at(1, 1), at(3, 3), at(0, 0), at(4, 4))
	assert.Equal(t, a.Hash(), b.Hash())

	c := play(t, New(5, 0.5), at(1, 1), Pass, at(0, 0), at(3, 3), Pass, at(4, 4))
	assert.Equal(t, a.TilesHash(), c.TilesHash())
	assert.Equal(t, a.Hash(), c.Hash(), "same stones, turn and phase")
}

// Done boards are hashed by phase only. Two finished games with the same stones must have the same
// outcome, otherwise their fingerprints would be equal while the positions differ.
func TestDoneOutcomeImpliedByTiles(t *testing.T) {
	a := play(t, New(3, 0.5), at(1, 1), at(0, 0), Pass, Pass)
	b := play(t, New(3, 0.5), Pass, at(0, 0), at(1, 1), Pass, Pass)
	require.True(t, a.IsDone())
	require.True(t, b.IsDone())
	require.Equal(t, a.TilesHash(), b.TilesHash())

	oa, _ := a.Outcome()
	ob, _ := b.Outcome()
	assert.Equal(t, oa, ob)

	// the finished boards differ only in who would move next
	assert.NotEqual(t, a.NextPlayer(), b.NextPlayer())
	assert.Equal(t, a.Hash().Xor(a.table.ForTurn(a.NextPlayer())), b.Hash().Xor(b.table.ForTurn(b.NextPlayer())))

	r := rand.New(rand.NewSource(7))
	outcomes := make(map[zobrist.Zobrist]board.Outcome)
	for game := 0; game < 200; game++ {
		g := New(3, 0.5)
		for !g.IsDone() {
			moves := g.AvailableMoves()
			g, _ = g.Play(moves[r.Intn(len(moves))])
		}
		o, _ := g.Outcome()
		if prev, ok := outcomes[g.TilesHash()]; ok {
			assert.Equal(t, prev, o, "\n%v", g)
		}
		outcomes[g.TilesHash()] = o
	}
}

func TestNotation(t *testing.T) {
	assert.Equal(t, "A19", FormatMove(19, at(0, 0)))
	assert.Equal(t, "J1", FormatMove(19, at(8, 18)))
	assert.Equal(t, "pass", FormatMove(9, Pass))

	mv, err := ParseMove(9, "e5")
	require.NoError(t, err)
	assert.Equal(t, at(4, 4), mv)
	mv, err = ParseMove(9, "PASS")
	require.NoError(t, err)
	assert.True(t, mv.IsPass())

	for _, s := range []string{"", "I5", "A0", "A10", "Z1", "A"} {
		_, err := ParseMove(9, s)
		assert.Error(t, err, s)
	}
}

func TestString(t *testing.T) {
	b := play(t, New(2, 0), at(0, 0), at(1, 1))
	assert.Equal(t, "⎢ X · ⎥\n⎢ · O ⎥\n", b.String())
}
