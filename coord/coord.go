// Package coord implements coordinates on a fixed-size rectangular grid.
//
// The grid size is part of the type: a Coord[Size3] and a Coord[Size8] cannot be mixed
// without an explicit Cast. Sizes are zero-width types implementing Dims.
package coord

import (
	"fmt"
	"iter"
)

// Dims describes the width and height of a grid.
type Dims interface {
	Width() uint8
	Height() uint8
}

type (
	Size3  struct{}
	Size8  struct{}
	Size9  struct{}
	Size19 struct{}
)

func (Size3) Width() uint8   { return 3 }
func (Size3) Height() uint8  { return 3 }
func (Size8) Width() uint8   { return 8 }
func (Size8) Height() uint8  { return 8 }
func (Size9) Width() uint8   { return 9 }
func (Size9) Height() uint8  { return 9 }
func (Size19) Width() uint8  { return 19 }
func (Size19) Height() uint8 { return 19 }

type (
	Coord3  = Coord[Size3]
	Coord8  = Coord[Size8]
	Coord9  = Coord[Size9]
	Coord19 = Coord[Size19]
)

// Coord is a cell of a W×H grid, stored as its row-major linear index.
type Coord[D Dims] struct {
	index uint16
}

func dims[D Dims]() (w, h uint16) {
	var d D
	return uint16(d.Width()), uint16(d.Height())
}

// Area returns W·H of the grid D.
func Area[D Dims]() int {
	w, h := dims[D]()
	return int(w * h)
}

// FromIndex makes a coordinate from its linear index. It panics if index is out of range.
func FromIndex[D Dims](index int) Coord[D] {
	w, h := dims[D]()
	if index < 0 || index >= int(w*h) {
		panic(fmt.Sprintf("coord: index %d out of range for %dx%d", index, w, h))
	}
	return Coord[D]{index: uint16(index)}
}

// FromXY makes a coordinate from its column and row. It panics if either is out of range.
func FromXY[D Dims](x, y int) Coord[D] {
	w, h := dims[D]()
	if x < 0 || x >= int(w) || y < 0 || y >= int(h) {
		panic(fmt.Sprintf("coord: (%d, %d) out of range for %dx%d", x, y, w, h))
	}
	return Coord[D]{index: uint16(x + int(w)*y)}
}

// All returns every coordinate of the grid in increasing index order.
func All[D Dims]() iter.Seq[Coord[D]] {
	return func(yield func(Coord[D]) bool) {
		n := Area[D]()
		for i := 0; i < n; i++ {
			if !yield(Coord[D]{index: uint16(i)}) {
				return
			}
		}
	}
}

func (c Coord[D]) Index() int { return int(c.index) }

func (c Coord[D]) X() int {
	w, _ := dims[D]()
	return int(c.index % w)
}

func (c Coord[D]) Y() int {
	w, _ := dims[D]()
	return int(c.index / w)
}

// DenseIndex is the index of c on a size×size board that uses the top-left corner of the grid.
func (c Coord[D]) DenseIndex(size int) int { return size*c.Y() + c.X() }

// ManhattanDistance is |dx|+|dy|.
func (c Coord[D]) ManhattanDistance(other Coord[D]) int {
	return absDiff(c.X(), other.X()) + absDiff(c.Y(), other.Y())
}

// DiagonalDistance is max(|dx|, |dy|), the number of king moves between c and other.
func (c Coord[D]) DiagonalDistance(other Coord[D]) int {
	return max(absDiff(c.X(), other.X()), absDiff(c.Y(), other.Y()))
}

// ValidForSize reports whether c lies on a size×size board anchored at the origin.
func (c Coord[D]) ValidForSize(size int) bool { return c.X() < size && c.Y() < size }

// Offset returns the coordinate (x+dx, y+dy), if it is on the grid.
func (c Coord[D]) Offset(dx, dy int) (Coord[D], bool) {
	w, h := dims[D]()
	x, y := c.X()+dx, c.Y()+dy
	if x < 0 || x >= int(w) || y < 0 || y >= int(h) {
		return c, false
	}
	return Coord[D]{index: uint16(x + int(w)*y)}, true
}

func (c Coord[D]) String() string { return fmt.Sprintf("(%d, %d)", c.X(), c.Y()) }

// Cast reinterprets c in the grid D2 using the same (x, y). It panics if c doesn't fit.
func Cast[D2, D Dims](c Coord[D]) Coord[D2] { return FromXY[D2](c.X(), c.Y()) }

func absDiff(a, b int) int {
	if a > b {
		return a - b
	}
	return b - a
}
