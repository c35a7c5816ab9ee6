/*
Package maze generates perfect mazes over a rectangular grid.

A Generator owns a Grid of Cells and carves it with randomized backtracking
depth-first search: starting at (0,0) it repeatedly opens the wall towards a
random unvisited neighbor of the cell on top of the stack and backtracks when
there is none. The result is a spanning tree over the grid, so exactly one
simple path connects any two cells.

The same algorithm is available as a Stepper, which pauses between phases and
reports the display state of cells to an Observer. For an identical sequence
of random draws both forms carve the identical maze.
*/
package maze

import "fmt"

// Generator owns one grid and the traversal stack that carves it.
// It is not safe for concurrent use.
type Generator struct {
	factory    GridFactory
	rng        RandomSource
	grid       *Grid
	stack      []*Cell
	visited    int
	generation uint64
}

// NewGenerator creates a Generator that builds grids with factory and draws
// neighbor choices from rng.
func NewGenerator(factory GridFactory, rng RandomSource) (*Generator, error) {
	if factory == nil {
		return nil, fmt.Errorf("nil grid factory")
	}
	if rng == nil {
		return nil, fmt.Errorf("nil random source")
	}
	return &Generator{
		factory: factory,
		rng:     rng,
	}, nil
}

// Generate discards any previous grid, builds a new width x height grid and
// carves it to completion. If the grid cannot be built no grid is kept.
func (g *Generator) Generate(width, height int) error {
	if err := g.reset(width, height); err != nil {
		return err
	}

	g.pushOrigin()
	budget := g.stepBudget()
	for steps := 0; len(g.stack) > 0; steps++ {
		if steps >= budget {
			return ErrStepBudgetExceeded
		}

		next, err := g.advance(g.peek())
		if err != nil {
			return err
		}
		if next == nil {
			g.pop()
		}
	}

	return nil
}

// Visualize discards any previous grid, builds a new one and returns a Stepper
// that carves it one phase at a time, reporting to observer. A nil observer
// discards notifications. Any Stepper returned earlier becomes stale.
func (g *Generator) Visualize(width, height int, observer Observer) (*Stepper, error) {
	if err := g.reset(width, height); err != nil {
		return nil, err
	}
	if observer == nil {
		observer = ObserverFunc(func(*Cell, VisualState) {})
	}

	return &Stepper{
		gen:        g,
		generation: g.generation,
		observer:   observer,
		budget:     g.stepBudget(),
	}, nil
}

// GetCell returns the cell at (x, z) of the current grid. The boolean is false
// when the coordinates are out of range or no grid exists.
func (g *Generator) GetCell(x, z int) (*Cell, bool) {
	if g.grid == nil {
		return nil, false
	}
	return g.grid.GetCell(x, z)
}

// Grid returns the current grid, or nil if none has been built.
func (g *Generator) Grid() *Grid {
	return g.grid
}

// Progress returns the number of visited cells and the total cell count.
func (g *Generator) Progress() (visited, total int) {
	if g.grid == nil {
		return 0, 0
	}
	return g.visited, g.grid.width * g.grid.height
}

// reset drops the old run wholesale and builds a fresh grid.
func (g *Generator) reset(width, height int) error {
	g.generation++
	g.grid = nil
	g.stack = nil
	g.visited = 0

	grid, err := g.factory.BuildGrid(width, height)
	if err != nil {
		return fmt.Errorf("building %dx%d grid: %w", width, height, err)
	}
	if grid == nil || grid.width != width || grid.height != height {
		return fmt.Errorf("building %dx%d grid: %w", width, height, ErrInvalidDimensions)
	}

	g.grid = grid
	g.stack = make([]*Cell, 0, width*height)
	return nil
}

// stepBudget is the number of loop iterations a complete carve needs:
// one push per cell except the origin plus one pop per cell.
func (g *Generator) stepBudget() int {
	return 2*g.grid.width*g.grid.height - 1
}

func (g *Generator) pushOrigin() *Cell {
	origin := g.grid.cells[0][0]
	origin.markVisited()
	g.visited++
	g.stack = append(g.stack, origin)
	return origin
}

func (g *Generator) peek() *Cell {
	return g.stack[len(g.stack)-1]
}

func (g *Generator) pop() *Cell {
	top := g.stack[len(g.stack)-1]
	g.stack = g.stack[:len(g.stack)-1]
	return top
}

// advance carves from current into a random unvisited neighbor and pushes it.
// It returns nil when current has no unvisited neighbor. The random source is
// called exactly once per successful advance.
func (g *Generator) advance(current *Cell) (*Cell, error) {
	neighbors := g.grid.unvisitedNeighbors(current)
	if len(neighbors) == 0 {
		return nil, nil
	}

	i := g.rng.Intn(len(neighbors))
	if i < 0 || i >= len(neighbors) {
		return nil, fmt.Errorf("%w: %d not in [0,%d)", ErrRandomOutOfRange, i, len(neighbors))
	}
	next := neighbors[i]

	if err := removeWallBetween(current, next); err != nil {
		return nil, err
	}
	next.markVisited()
	g.visited++
	g.stack = append(g.stack, next)
	return next, nil
}
