package spiral

import (
	"iter"
	"math"

	"golang.org/x/exp/constraints"
)

// Generator produces an unbounded sequence of coordinates.
//
// Example usage:
//
//	seq := spiral.New[int64]()
//	for i := 0; i < 100; i++ {
//	    c := seq.Next()
//	    // visit c
//	}
type Generator[T constraints.Signed] interface {
	// Next returns the next coordinate of the sequence. It never fails and the
	// sequence never ends.
	Next() Coord[T]
}

// Sequence walks the square spiral ring by ring. Ring 0 is the origin; ring k
// is the perimeter of the square [-k,k]x[-k,k] and holds 8k cells. Each ring is
// entered at (k, -k+1) and traversed counter-clockwise up the right edge,
// along the top, down the left edge and back along the bottom until the ring's
// terminal corner (k, -k).
//
// Next runs in O(1) time and the state never grows. A Sequence is not safe
// for concurrent use; each goroutine should own its own instance. There is no
// Reset: construct a new Sequence to start over.
//
// The coordinate type T bounds the reachable range. Overflow at extreme ring
// indices is not detected.
type Sequence[T constraints.Signed] struct {
	ring     uint64 // index of the ring being traversed
	position uint64 // perimeter steps taken on the current ring
	diameter uint64 // always 2*ring + 1
	// edgeEnds holds the exclusive upper bound of edges 0, 1 and 2 as perimeter
	// positions. Edge 3 runs from edgeEnds[2] up to the terminal corner.
	edgeEnds [3]uint64
	cursor   Coord[T]
}

// New returns a Sequence positioned on ring 0 at the origin.
// The first call to Next returns (0,0).
func New[T constraints.Signed]() *Sequence[T] {
	return &Sequence[T]{diameter: 1}
}

// Next returns the current cursor and advances the sequence.
func (s *Sequence[T]) Next() Coord[T] {
	c := s.cursor
	s.advance()
	return c
}

// Peek returns the coordinate the next call to Next will produce.
func (s *Sequence[T]) Peek() Coord[T] {
	return s.cursor
}

// Ring returns the index of the ring the cursor lies on.
func (s *Sequence[T]) Ring() uint64 {
	return s.ring
}

// Diameter returns the side length of the current ring's square.
func (s *Sequence[T]) Diameter() uint64 {
	return s.diameter
}

// Position returns how many perimeter steps have been taken on the current ring.
func (s *Sequence[T]) Position() uint64 {
	return s.position
}

// All returns an iterator over the remaining coordinates. The iterator is
// unbounded; callers stop it by breaking out of the range loop or by wrapping
// it with Take. Iterating advances s.
func (s *Sequence[T]) All() iter.Seq[Coord[T]] {
	return func(yield func(Coord[T]) bool) {
		for {
			if !yield(s.Next()) {
				return
			}
		}
	}
}

func (s *Sequence[T]) atRingEnd() bool {
	r := T(s.ring)
	return s.cursor.X == r && s.cursor.Y == -r
}

// advance moves the cursor one cell along the spiral. Ring 0 is its own
// terminal corner, so the first advance goes straight to ring 1 without
// walking any edge.
func (s *Sequence[T]) advance() {
	if s.atRingEnd() {
		s.cursor.X++
		s.position = 0
		s.ring++
		s.diameter = 2*s.ring + 1
		d := s.diameter
		s.edgeEnds = [3]uint64{d - 2, 2*d - 3, 3*d - 4}
		return
	}

	switch p := s.position; {
	case p < s.edgeEnds[0]:
		s.cursor.Y++
	case p < s.edgeEnds[1]:
		s.cursor.X--
	case p < s.edgeEnds[2]:
		s.cursor.Y--
	default:
		s.cursor.X++
	}
	s.position++
}

// RingSize returns the number of cells on ring k: 1 for the origin, 8k otherwise.
func RingSize(k uint64) uint64 {
	if k == 0 {
		return 1
	}
	return 8 * k
}

// MaxCountableRing is the largest ring k whose (2k+1)^2 cells fit in a uint64.
const MaxCountableRing = (math.MaxUint32 - 1) / 2

// CellsThroughRing returns how many coordinates are produced up to and
// including the last cell of ring k, i.e. (2k+1)^2. It saturates at
// math.MaxUint64 for k beyond MaxCountableRing.
func CellsThroughRing(k uint64) uint64 {
	if k > MaxCountableRing {
		return math.MaxUint64
	}
	d := 2*k + 1
	return d * d
}

// CompleteRings returns how many rings, the origin included, are fully
// covered by the first n coordinates of the spiral.
func CompleteRings(n uint64) uint64 {
	if n == 0 {
		return 0
	}
	k := min(uint64((math.Sqrt(float64(n))-1)/2), MaxCountableRing)
	// Correct float rounding around perfect squares.
	for k > 0 && CellsThroughRing(k) > n {
		k--
	}
	for k < MaxCountableRing && CellsThroughRing(k+1) <= n {
		k++
	}
	return k + 1
}

// compile-time interface check
var _ Generator[int64] = (*Sequence[int64])(nil)
