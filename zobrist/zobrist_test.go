package zobrist

import (
	"sort"
	"sync"
	"testing"

	"github.com/gorgonia/boardgame/board"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDeterministic(t *testing.T) {
	a := NewTable(MaxArea, Seed)
	b := NewTable(MaxArea, Seed)
	assert.Equal(t, a, b, "two constructions from the same seed must be identical")
	assert.Equal(t, a, Default())

	c := NewTable(MaxArea, Seed+1)
	assert.NotEqual(t, a.ForTile(board.A, 0), c.ForTile(board.A, 0))
}

// Fingerprints are persisted by callers, so the generated table must not change between builds.
func TestPinnedValues(t *testing.T) {
	tbl := Default()
	assert.Equal(t, Zobrist{Hi: 0x59be3c9debb5c5a2, Lo: 0x461bf41c44b4866d}, tbl.ForTile(board.A, 0))
	assert.Equal(t, Zobrist{Hi: 0xe7f945e28470be25, Lo: 0x2b77276a2a9b1c4b}, tbl.ForTile(board.B, MaxArea-1))
	assert.Equal(t, Zobrist{Hi: 0x1da82e0c4723e7fc, Lo: 0x533f135ddd5ab060}, tbl.ForTurn(board.B))
	assert.Equal(t, Zobrist{Hi: 0xd764270fcae86616, Lo: 0x267d3cb812a5ffd0}, tbl.ForPhase(Done))
}

func TestDistinct(t *testing.T) {
	tbl := NewTable(81, Seed)
	seen := make(map[Zobrist]string)
	add := func(z Zobrist, name string) {
		require.False(t, z.IsZero(), name)
		prev, ok := seen[z]
		require.False(t, ok, "%s collides with %s", name, prev)
		seen[z] = name
	}
	for _, p := range []board.Player{board.A, board.B} {
		for i := 0; i < tbl.Area(); i++ {
			add(tbl.ForTile(p, i), "tile")
		}
		add(tbl.ForTurn(p), "turn")
	}
	for _, ph := range []Phase{Normal, Passed, Done} {
		add(tbl.ForPhase(ph), ph.String())
	}
	assert.Len(t, seen, 2*81+2+3)
}

func TestXorSelfInverse(t *testing.T) {
	tbl := Default()
	start := tbl.ForTurn(board.A)
	h := start
	h.Toggle(tbl.ForTile(board.B, 42))
	assert.NotEqual(t, start, h)
	h.Toggle(tbl.ForTile(board.B, 42))
	assert.Equal(t, start, h)

	// a sequence of moves followed by their reversal
	type feature struct {
		p    board.Player
		tile int
	}
	moves := []feature{{board.A, 3}, {board.B, 17}, {board.A, 360}, {board.B, 0}, {board.A, 200}}
	h = start
	for _, f := range moves {
		h.Toggle(tbl.ForTile(f.p, f.tile))
		h.Toggle(tbl.ForTurn(f.p))
		h.Toggle(tbl.ForTurn(f.p.Other()))
	}
	assert.NotEqual(t, start, h)
	for i := len(moves) - 1; i >= 0; i-- {
		f := moves[i]
		h.Toggle(tbl.ForTurn(f.p.Other()))
		h.Toggle(tbl.ForTurn(f.p))
		h.Toggle(tbl.ForTile(f.p, f.tile))
	}
	assert.Equal(t, start, h)
}

func TestOrderIndependent(t *testing.T) {
	tbl := Default()
	a := tbl.ForTile(board.A, 1).Xor(tbl.ForTile(board.B, 2)).Xor(tbl.ForPhase(Passed))
	b := tbl.ForPhase(Passed).Xor(tbl.ForTile(board.B, 2)).Xor(tbl.ForTile(board.A, 1))
	assert.Equal(t, a, b)
}

func TestCompare(t *testing.T) {
	zs := []Zobrist{{Hi: 2, Lo: 0}, {Hi: 1, Lo: 5}, {Hi: 1, Lo: 4}, {Hi: 0, Lo: ^uint64(0)}}
	sort.Slice(zs, func(i, j int) bool { return zs[i].Less(zs[j]) })
	assert.Equal(t, []Zobrist{{Hi: 0, Lo: ^uint64(0)}, {Hi: 1, Lo: 4}, {Hi: 1, Lo: 5}, {Hi: 2, Lo: 0}}, zs)
	assert.Equal(t, 0, Zobrist{1, 1}.Compare(Zobrist{1, 1}))
	assert.Equal(t, uint64(3), Zobrist{Hi: 1, Lo: 2}.Fold())
}

func TestString(t *testing.T) {
	assert.Equal(t, "Zobrist(0x00000000000000010000000000000002)", Zobrist{Hi: 1, Lo: 2}.String())
}

func TestDefaultConcurrent(t *testing.T) {
	var wg sync.WaitGroup
	tables := make([]*Table, 16)
	for i := range tables {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			tables[i] = Default()
		}(i)
	}
	wg.Wait()
	for _, tbl := range tables {
		assert.Same(t, tables[0], tbl)
	}
}

func TestNewTablePanics(t *testing.T) {
	require.Panics(t, func() { NewTable(0, Seed) })
}
