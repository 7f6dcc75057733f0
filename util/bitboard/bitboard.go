// Package bitboard contains helpers for integers used as sets of cells.
package bitboard

import (
	"fmt"
	"iter"
	"math/bits"

	"golang.org/x/exp/constraints"
)

// Iter walks the indices of the set bits of an integer, from least to most significant.
//
// An Iter is consumed by Next. To walk the same mask again, make a new one.
type Iter[N constraints.Unsigned] struct {
	left N
}

// NewIter makes an Iter over the set bits of left.
func NewIter[N constraints.Unsigned](left N) Iter[N] { return Iter[N]{left: left} }

// Next returns the next set bit. ok is false once every bit has been reported.
func (it *Iter[N]) Next() (index uint8, ok bool) {
	if it.left == 0 {
		return 0, false
	}
	index = uint8(bits.TrailingZeros64(uint64(it.left)))
	it.left &= it.left - 1
	return index, true
}

// Collect drains the iterator into a slice.
func (it *Iter[N]) Collect() []uint8 {
	var retVal []uint8
	for i, ok := it.Next(); ok; i, ok = it.Next() {
		retVal = append(retVal, i)
	}
	return retVal
}

// All is the range-over-func form of Iter.
//
//	for i := range bitboard.All(mask) { ... }
func All[N constraints.Unsigned](x N) iter.Seq[uint8] {
	return func(yield func(uint8) bool) {
		it := NewIter(x)
		for i, ok := it.Next(); ok; i, ok = it.Next() {
			if !yield(i) {
				return
			}
		}
	}
}

// NthSetBit returns the index of the n-th (0-indexed) set bit of x.
// x must have at least n+1 bits set.
func NthSetBit[N constraints.Unsigned](x N, n uint) uint8 {
	for i := uint(0); i < n; i++ {
		x &= x - 1
	}
	if x == 0 {
		panic(fmt.Sprintf("NthSetBit: fewer than %d bits set", n+1))
	}
	return uint8(bits.TrailingZeros64(uint64(x)))
}

// Count returns the number of set bits.
func Count[N constraints.Unsigned](x N) int { return bits.OnesCount64(uint64(x)) }

// Has reports whether bit i of x is set.
func Has[N constraints.Unsigned](x N, i uint8) bool { return x&(N(1)<<i) != 0 }
