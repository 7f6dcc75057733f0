package arena

import (
	"bytes"
	"context"
	"testing"

	"github.com/gorgonia/boardgame/board"
	"github.com/gorgonia/boardgame/encoding/gif"
	"github.com/gorgonia/boardgame/games/mnk"
	"github.com/gorgonia/boardgame/heuristic"
	"github.com/gorgonia/boardgame/search"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func first(_ context.Context, b *mnk.MNK) (mnk.Move, error) { return b.AvailableMoves()[0], nil }

func perfect(ctx context.Context, b *mnk.MNK) (mnk.Move, error) {
	res, err := search.Minimax[*mnk.MNK, mnk.Move, int32](ctx, heuristic.SolverHeuristic[*mnk.MNK, mnk.Move]{}, b, 9)
	return res.Move, err
}

func TestArenaPerfectPlayDraws(t *testing.T) {
	a := &Agent[*mnk.MNK, mnk.Move]{Name: "a", Move: perfect}
	b := &Agent[*mnk.MNK, mnk.Move]{Name: "b", Move: perfect}
	ar := New(a, b, 1, zerolog.Nop())

	o, moves, err := ar.Play(context.Background(), mnk.TicTacToe(), nil)
	require.NoError(t, err)
	assert.Equal(t, board.Draw, o)
	assert.Len(t, moves, 9)
	assert.Equal(t, 1, a.Draw)
	assert.Equal(t, 1, b.Draw)
	assert.Equal(t, 1, ar.GameNumber())
}

func TestArenaScoresWinner(t *testing.T) {
	a := &Agent[*mnk.MNK, mnk.Move]{Name: "naive", Move: first}
	b := &Agent[*mnk.MNK, mnk.Move]{Name: "perfect", Move: perfect}
	ar := New(a, b, 7, zerolog.Nop())

	for i := 0; i < 4; i++ {
		o, moves, err := ar.Play(context.Background(), mnk.TicTacToe(), nil)
		require.NoError(t, err)
		winner, ok := o.Winner()
		require.True(t, ok, "%v", moves)
		assert.Equal(t, b.Player, winner)
	}
	assert.Equal(t, 4, b.Wins)
	assert.Equal(t, 4, a.Loss)
	assert.Equal(t, "perfect (W 4, L 0, D 0)", b.String())
}

func TestArenaEncodesEveryPosition(t *testing.T) {
	a := &Agent[*mnk.MNK, mnk.Move]{Name: "a", Move: first}
	b := &Agent[*mnk.MNK, mnk.Move]{Name: "b", Move: first}
	ar := New(a, b, 3, zerolog.Nop())

	var buf bytes.Buffer
	enc := gif.NewEncoder(&buf, 600, 600, "first vs first")
	_, moves, err := ar.Play(context.Background(), mnk.TicTacToe(), enc)
	require.NoError(t, err)
	assert.Equal(t, len(moves)+1, enc.Len())
	require.NoError(t, enc.Flush())
}

func TestArenaMaxPlies(t *testing.T) {
	a := &Agent[*mnk.MNK, mnk.Move]{Name: "a", Move: first}
	b := &Agent[*mnk.MNK, mnk.Move]{Name: "b", Move: first}
	ar := New(a, b, 3, zerolog.Nop())
	ar.MaxPlies = 2

	o, moves, err := ar.Play(context.Background(), mnk.TicTacToe(), nil)
	require.NoError(t, err)
	assert.Equal(t, board.Draw, o)
	assert.Len(t, moves, 2)
}

func TestArenaAgentError(t *testing.T) {
	broken := func(context.Context, *mnk.MNK) (mnk.Move, error) { return 0, errors.New("broken") }
	illegal := func(context.Context, *mnk.MNK) (mnk.Move, error) { return 200, nil }

	for _, mv := range []func(context.Context, *mnk.MNK) (mnk.Move, error){broken, illegal} {
		a := &Agent[*mnk.MNK, mnk.Move]{Name: "a", Move: mv}
		b := &Agent[*mnk.MNK, mnk.Move]{Name: "b", Move: mv}
		_, _, err := New(a, b, 1, zerolog.Nop()).Play(context.Background(), mnk.TicTacToe(), nil)
		assert.Error(t, err)
	}
}
