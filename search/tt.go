package search

import (
	"sync"

	"github.com/gorgonia/boardgame/heuristic"
	"github.com/gorgonia/boardgame/zobrist"
)

type hasher interface {
	Hash() zobrist.Zobrist
}

// keyer is implemented by boards whose Hash does not determine the legal moves, e.g. because of a
// ko restriction. TTKey must.
type keyer interface {
	TTKey() zobrist.Zobrist
}

// keyOf returns the table key of b, if it has one.
func keyOf(b any) (zobrist.Zobrist, bool) {
	switch b := b.(type) {
	case keyer:
		return b.TTKey(), true
	case hasher:
		return b.Hash(), true
	}
	return zobrist.Zobrist{}, false
}

type ttEntry[V heuristic.Value] struct {
	key      zobrist.Zobrist
	depth    uint32
	length   uint32
	value    V
	complete bool
	used     bool
}

type ttShard[V heuristic.Value] struct {
	sync.Mutex
	entries []ttEntry[V]
}

// Table is a transposition table keyed by Zobrist fingerprints. It is split into shards, each
// guarded by its own mutex, and each shard is a direct-mapped array where new entries replace old
// ones.
//
// An entry only matches a probe with the same remaining depth and the same ply count. As long as
// keys determine the legal moves (see keyer), a search with a table returns exactly what the same
// search without one would.
type Table[V heuristic.Value] struct {
	shards []ttShard[V]
	mask   uint64
	shift  uint
}

// NewTable creates a table of shards*size entries. Both must be powers of two.
func NewTable[V heuristic.Value](shards, size int) *Table[V] {
	if !isPow2(shards) || !isPow2(size) {
		panic("search: table dimensions must be powers of two")
	}
	t := &Table[V]{
		shards: make([]ttShard[V], shards),
		mask:   uint64(size - 1),
	}
	for s := shards; s > 1; s >>= 1 {
		t.shift++
	}
	for i := range t.shards {
		t.shards[i].entries = make([]ttEntry[V], size)
	}
	return t
}

func (t *Table[V]) locate(key zobrist.Zobrist) (*ttShard[V], uint64) {
	h := key.Fold()
	shard := &t.shards[h&uint64(len(t.shards)-1)]
	return shard, (h >> t.shift) & t.mask
}

// Probe looks up the value stored for key at the given depth and length. complete reports whether
// the stored subtree reached the end of the game on every line.
func (t *Table[V]) Probe(key zobrist.Zobrist, depth, length uint32) (value V, complete, ok bool) {
	shard, i := t.locate(key)
	shard.Lock()
	e := shard.entries[i]
	shard.Unlock()
	if e.used && e.key == key && e.depth == depth && e.length == length {
		return e.value, e.complete, true
	}
	return value, false, false
}

// Store records value for key, replacing whatever occupied its slot.
func (t *Table[V]) Store(key zobrist.Zobrist, depth, length uint32, value V, complete bool) {
	shard, i := t.locate(key)
	shard.Lock()
	shard.entries[i] = ttEntry[V]{key: key, depth: depth, length: length, value: value, complete: complete, used: true}
	shard.Unlock()
}

// Clear empties the table.
func (t *Table[V]) Clear() {
	for i := range t.shards {
		s := &t.shards[i]
		s.Lock()
		clear(s.entries)
		s.Unlock()
	}
}
