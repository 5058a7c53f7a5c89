package partition

import "math/bits"

// Direction is one of the four cardinal directions leaving a lattice point.
type Direction uint8

// The bit values are shared by every consumer of a Grid.
const (
	Left Direction = 1 << iota
	Down
	Right
	Up
)

func (d Direction) opposite() Direction {
	switch d {
	case Left:
		return Right
	case Right:
		return Left
	case Up:
		return Down
	default:
		return Up
	}
}

func (d Direction) step() (int, int) {
	switch d {
	case Left:
		return -1, 0
	case Right:
		return 1, 0
	case Up:
		return 0, -1
	default:
		return 0, 1
	}
}

func (d Direction) String() string {
	switch d {
	case Left:
		return "left"
	case Down:
		return "down"
	case Right:
		return "right"
	case Up:
		return "up"
	}
	return "invalid"
}

// Directions is a set of Direction values packed into the low four bits.
type Directions uint8

// Cell membership reuses Directions: each of the four cells touching a
// corner is recorded under the counter-clockwise-most edge of that cell.
const (
	CellAboveLeft  = Directions(Left)
	CellBelowLeft  = Directions(Down)
	CellBelowRight = Directions(Right)
	CellAboveRight = Directions(Up)
)

// Of returns the set containing the given directions.
func Of(dirs ...Direction) Directions {
	var s Directions
	for _, d := range dirs {
		s |= Directions(d)
	}
	return s
}

// Has reports whether d is in the set.
func (s Directions) Has(d Direction) bool {
	return s&Directions(d) != 0
}

// Any reports whether the two sets share a direction.
func (s Directions) Any(o Directions) bool {
	return s&o != 0
}

// Add returns the set with d included.
func (s Directions) Add(d Direction) Directions {
	return s | Directions(d)
}

// Remove returns the set with d excluded.
func (s Directions) Remove(d Direction) Directions {
	return s &^ Directions(d)
}

// Len returns the number of directions in the set.
func (s Directions) Len() int {
	return bits.OnesCount8(uint8(s & 0x0f))
}

// rotate shifts the set down one position with wraparound, so Up moves to
// Right and Left moves to Up.
func (s Directions) rotate() Directions {
	return s>>1 | (s&1)<<3
}
