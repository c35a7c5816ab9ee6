package maze

import "fmt"

// Direction names one of the four sides of a cell.
type Direction uint8

// Top faces higher z, Right faces higher x.
const (
	Top Direction = iota
	Bottom
	Left
	Right
)

// Directions lists every valid direction in wall-index order.
var Directions = [...]Direction{Top, Bottom, Left, Right}

// Valid reports whether d is one of the four recognized directions.
func (d Direction) Valid() bool {
	return d <= Right
}

// Opposite returns the direction facing back across the same wall.
func (d Direction) Opposite() Direction {
	switch d {
	case Top:
		return Bottom
	case Bottom:
		return Top
	case Left:
		return Right
	case Right:
		return Left
	}
	return d
}

// String returns the lowercase name of the direction.
func (d Direction) String() string {
	switch d {
	case Top:
		return "top"
	case Bottom:
		return "bottom"
	case Left:
		return "left"
	case Right:
		return "right"
	}
	return fmt.Sprintf("direction(%d)", uint8(d))
}

// between returns the direction from a to b. Cells must be axis-adjacent.
func between(a, b *Cell) (Direction, error) {
	switch {
	case b.x > a.x:
		return Right, nil
	case b.x < a.x:
		return Left, nil
	case b.z > a.z:
		return Top, nil
	case b.z < a.z:
		return Bottom, nil
	}
	return 0, fmt.Errorf("%w: (%d,%d) and (%d,%d)", ErrNotAdjacent, a.x, a.z, b.x, b.z)
}
