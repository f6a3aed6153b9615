// Package spiral generates the integer lattice coordinates of an outward square
// (Ulam) spiral centered at the origin, one coordinate at a time.
package spiral

import (
	"fmt"

	"golang.org/x/exp/constraints"
)

// Coord is a position on the infinite integer grid.
// X grows to the right and Y grows upward.
type Coord[T constraints.Signed] struct {
	X T `json:"x" yaml:"x"`
	Y T `json:"y" yaml:"y"`
}

// C is a convenience constructor for Coord.
func C[T constraints.Signed](x, y T) Coord[T] {
	return Coord[T]{X: x, Y: y}
}

// String returns the coordinate as "(x,y)".
func (c Coord[T]) String() string {
	return fmt.Sprintf("(%d,%d)", c.X, c.Y)
}

// Add returns c offset by (dx, dy).
func (c Coord[T]) Add(dx, dy T) Coord[T] {
	return Coord[T]{X: c.X + dx, Y: c.Y + dy}
}

// Chebyshev returns max(|x|, |y|), which is the index of the ring c lies on.
func (c Coord[T]) Chebyshev() T {
	x, y := c.X, c.Y
	if x < 0 {
		x = -x
	}
	if y < 0 {
		y = -y
	}
	return max(x, y)
}
