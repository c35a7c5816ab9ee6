package maze

import (
	"fmt"
	"strings"
)

// Grid is a width x height array of cells indexed [x][z].
type Grid struct {
	width  int
	height int
	cells  [][]*Cell
}

func (g *Grid) Width() int {
	return g.width
}

func (g *Grid) Height() int {
	return g.height
}

// InBound reports whether (x, z) lies inside the grid.
func (g *Grid) InBound(x, z int) bool {
	return x >= 0 && x < g.width && z >= 0 && z < g.height
}

// GetCell returns the cell at (x, z). The boolean is false when the
// coordinates fall outside the grid.
func (g *Grid) GetCell(x, z int) (*Cell, bool) {
	if !g.InBound(x, z) {
		return nil, false
	}
	return g.cells[x][z], true
}

// Each calls fn for every cell, column by column.
func (g *Grid) Each(fn func(*Cell)) {
	for x := 0; x < g.width; x++ {
		for z := 0; z < g.height; z++ {
			fn(g.cells[x][z])
		}
	}
}

// VisitedCount returns how many cells have been reached by the carver.
func (g *Grid) VisitedCount() int {
	count := 0
	g.Each(func(c *Cell) {
		if c.visited {
			count++
		}
	})
	return count
}

// unvisitedNeighbors returns the in-bound, not yet visited cells adjacent to c
// in the order left, right, bottom, top.
func (g *Grid) unvisitedNeighbors(c *Cell) []*Cell {
	neighbors := make([]*Cell, 0, 4)
	if c.x > 0 && !g.cells[c.x-1][c.z].visited {
		neighbors = append(neighbors, g.cells[c.x-1][c.z])
	}
	if c.x < g.width-1 && !g.cells[c.x+1][c.z].visited {
		neighbors = append(neighbors, g.cells[c.x+1][c.z])
	}
	if c.z > 0 && !g.cells[c.x][c.z-1].visited {
		neighbors = append(neighbors, g.cells[c.x][c.z-1])
	}
	if c.z < g.height-1 && !g.cells[c.x][c.z+1].visited {
		neighbors = append(neighbors, g.cells[c.x][c.z+1])
	}
	return neighbors
}

// removeWallBetween opens the shared wall between two adjacent cells on both sides.
func removeWallBetween(current, next *Cell) error {
	d, err := between(current, next)
	if err != nil {
		return err
	}
	if err := current.RemoveWall(d); err != nil {
		return err
	}
	return next.RemoveWall(d.Opposite())
}

// String provides a textual representation of the grid. The first printed
// row is the highest z.
func (g *Grid) String() string {
	var sb strings.Builder

	// Top boundary
	sb.WriteString("+")
	for x := 0; x < g.width; x++ {
		if g.cells[x][g.height-1].walls[Top] {
			sb.WriteString("---+")
		} else {
			sb.WriteString("   +")
		}
	}
	sb.WriteString("\n")

	for z := g.height - 1; z >= 0; z-- {
		if g.cells[0][z].walls[Left] {
			sb.WriteString("|")
		} else {
			sb.WriteString(" ")
		}
		for x := 0; x < g.width; x++ {
			if g.cells[x][z].walls[Right] {
				sb.WriteString("   |")
			} else {
				sb.WriteString("    ")
			}
		}
		sb.WriteString("\n+")

		for x := 0; x < g.width; x++ {
			if g.cells[x][z].walls[Bottom] {
				sb.WriteString("---+")
			} else {
				sb.WriteString("   +")
			}
		}
		sb.WriteString("\n")
	}

	return sb.String()
}

// GridFactory materializes a fully populated grid of initialized cells.
type GridFactory interface {
	BuildGrid(width, height int) (*Grid, error)
}

// CellTemplate produces the cell placed at (x, z) before it is initialized.
// Returning a nil cell is treated as a missing template.
type CellTemplate func(x, z int) (*Cell, error)

// PlainCell is the default CellTemplate; it allocates an empty cell.
func PlainCell(x, z int) (*Cell, error) {
	return &Cell{}, nil
}

// CellFactory builds grids from a CellTemplate.
type CellFactory struct {
	Template     CellTemplate // Template creates each cell; nil fails every build.
	MaxDimension int          // MaxDimension bounds width and height; zero means unbounded.
}

// NewCellFactory returns a CellFactory using PlainCell.
func NewCellFactory(maxDimension int) *CellFactory {
	return &CellFactory{
		Template:     PlainCell,
		MaxDimension: maxDimension,
	}
}

// BuildGrid creates a width x height grid. Any failure aborts the whole build
// and no grid is returned.
func (f *CellFactory) BuildGrid(width, height int) (*Grid, error) {
	if min(width, height) <= 0 {
		return nil, fmt.Errorf("%w: %dx%d", ErrInvalidDimensions, width, height)
	}
	if f.MaxDimension > 0 && max(width, height) > f.MaxDimension {
		return nil, fmt.Errorf("%w: %dx%d exceeds %d", ErrInvalidDimensions, width, height, f.MaxDimension)
	}
	if f.Template == nil {
		return nil, ErrMissingTemplate
	}

	cells := make([][]*Cell, width)
	for x := range cells {
		cells[x] = make([]*Cell, height)
		for z := range cells[x] {
			cell, err := f.Template(x, z)
			if err != nil {
				return nil, fmt.Errorf("creating cell %d %d: %w", x, z, err)
			}
			if cell == nil {
				return nil, fmt.Errorf("creating cell %d %d: %w", x, z, ErrMissingTemplate)
			}
			cell.Initialize(x, z)
			cells[x][z] = cell
		}
	}

	return &Grid{
		width:  width,
		height: height,
		cells:  cells,
	}, nil
}
