package maze

import "fmt"

// Walls is a read-only view of the four wall flags of a cell.
type Walls struct {
	Top    bool `json:"top"`
	Bottom bool `json:"bottom"`
	Left   bool `json:"left"`
	Right  bool `json:"right"`
}

// Cell holds the wall and visitation state of one grid position.
// Coordinates are fixed by Initialize; walls and visited are changed only by
// the carving algorithm.
type Cell struct {
	x, z    int
	walls   [4]bool
	visited bool
}

// Initialize sets the cell coordinates, raises all four walls and clears the
// visited flag.
func (c *Cell) Initialize(x, z int) {
	c.x = x
	c.z = z
	for _, d := range Directions {
		c.walls[d] = true
	}
	c.visited = false
}

func (c *Cell) X() int {
	return c.x
}

func (c *Cell) Z() int {
	return c.z
}

func (c *Cell) Visited() bool {
	return c.visited
}

// HasWall reports whether the wall on side d is present.
// Unknown directions are reported as walled.
func (c *Cell) HasWall(d Direction) bool {
	if !d.Valid() {
		return true
	}
	return c.walls[d]
}

// Walls returns a copy of the cell's wall flags.
func (c *Cell) Walls() Walls {
	return Walls{
		Top:    c.walls[Top],
		Bottom: c.walls[Bottom],
		Left:   c.walls[Left],
		Right:  c.walls[Right],
	}
}

// RemoveWall clears the wall on side d of this cell only.
// The wall on the neighbor's side is the caller's responsibility.
func (c *Cell) RemoveWall(d Direction) error {
	if !d.Valid() {
		return fmt.Errorf("%w: %d", ErrInvalidDirection, uint8(d))
	}
	c.walls[d] = false
	return nil
}

func (c *Cell) markVisited() {
	c.visited = true
}
