// Package zobrist implements Zobrist hashing of game positions.
// https://en.wikipedia.org/wiki/Zobrist_hashing
//
// A Table holds one independent random fingerprint per (player, tile), per player to move and
// per Phase. The fingerprint of a position is the XOR of the fingerprints of its features. Because
// XOR is commutative and its own inverse, a game keeps a running fingerprint and toggles only the
// features that change on each ply.
//
// Tables are generated from a fixed seed, so that the same build always produces the same
// fingerprints. Transposition tables and opening books persisted across runs rely on this.
package zobrist

import (
	"fmt"
	"sync"

	"github.com/gorgonia/boardgame/board"
	"golang.org/x/exp/rand"
)

// Seed is the seed every Table is generated from.
const Seed uint64 = 0x5EED_B0A2_D6A3_E000

// MaxArea is the number of tiles in the Default table. It fits a 19×19 Go board.
const MaxArea = 19 * 19

// Zobrist is a 128-bit position fingerprint. The zero value is the fingerprint of no features.
type Zobrist struct {
	Hi, Lo uint64
}

// Xor returns z ^ other.
func (z Zobrist) Xor(other Zobrist) Zobrist { return Zobrist{Hi: z.Hi ^ other.Hi, Lo: z.Lo ^ other.Lo} }

// Toggle xors other into z.
func (z *Zobrist) Toggle(other Zobrist) {
	z.Hi ^= other.Hi
	z.Lo ^= other.Lo
}

// Compare orders fingerprints by their 128-bit value. It returns -1, 0 or +1.
func (z Zobrist) Compare(other Zobrist) int {
	switch {
	case z.Hi < other.Hi:
		return -1
	case z.Hi > other.Hi:
		return 1
	case z.Lo < other.Lo:
		return -1
	case z.Lo > other.Lo:
		return 1
	}
	return 0
}

func (z Zobrist) Less(other Zobrist) bool { return z.Compare(other) < 0 }

func (z Zobrist) IsZero() bool { return z.Hi == 0 && z.Lo == 0 }

// Fold folds the fingerprint to 64 bits, for bucketing and sharding.
func (z Zobrist) Fold() uint64 { return z.Hi ^ z.Lo }

func (z Zobrist) String() string { return fmt.Sprintf("Zobrist(0x%016x%016x)", z.Hi, z.Lo) }

// Phase is the coarse state of a game with a pass mechanic.
//
// Only the phase feeds the hash. The outcome of a finished game is implied by its tiles.
type Phase uint8

const (
	Normal Phase = iota
	Passed
	Done
)

func (p Phase) String() string {
	switch p {
	case Normal:
		return "Normal"
	case Passed:
		return "Passed"
	case Done:
		return "Done"
	}
	return fmt.Sprintf("Phase(%d)", uint8(p))
}

// Table is an immutable set of feature fingerprints. It is safe for concurrent use.
type Table struct {
	colorTile [2][]Zobrist
	colorTurn [2]Zobrist
	phase     [3]Zobrist
}

// NewTable generates a table with area tiles per player from seed.
func NewTable(area int, seed uint64) *Table {
	if area <= 0 {
		panic(fmt.Sprintf("zobrist: invalid area %d", area))
	}
	r := rand.New(rand.NewSource(seed))
	t := new(Table)
	for p := range t.colorTile {
		t.colorTile[p] = make([]Zobrist, area)
		fill(r, t.colorTile[p])
	}
	fill(r, t.colorTurn[:])
	fill(r, t.phase[:])
	return t
}

func fill(r *rand.Rand, dst []Zobrist) {
	for i := range dst {
		dst[i] = Zobrist{Hi: r.Uint64(), Lo: r.Uint64()}
	}
}

var defaultTable = sync.OnceValue(func() *Table { return NewTable(MaxArea, Seed) })

// Default returns the process-wide table with MaxArea tiles. It is built on first use.
func Default() *Table { return defaultTable() }

// Area returns the number of tiles per player.
func (t *Table) Area() int { return len(t.colorTile[0]) }

// ForTile returns the fingerprint of a stone of p on tile.
func (t *Table) ForTile(p board.Player, tile int) Zobrist { return t.colorTile[p.Index()][tile] }

// ForTurn returns the fingerprint of p being the player to move.
func (t *Table) ForTurn(p board.Player) Zobrist { return t.colorTurn[p.Index()] }

// ForPhase returns the fingerprint of a phase.
func (t *Table) ForPhase(ph Phase) Zobrist { return t.phase[ph] }

func (t *Table) String() string { return fmt.Sprintf("zobrist.Table{area: %d}", t.Area()) }
