package maze

// CellView is an immutable copy of a cell's state.
type CellView struct {
	X       int         `json:"x"`
	Z       int         `json:"z"`
	Walls   Walls       `json:"walls"`
	Visited bool        `json:"visited"`
	State   VisualState `json:"state"`
}

// View copies the cell's state. The display state is left Neutral.
func (c *Cell) View() CellView {
	return CellView{
		X:       c.x,
		Z:       c.z,
		Walls:   c.Walls(),
		Visited: c.visited,
	}
}

// Snapshot is a copy of a whole grid, ordered column by column.
type Snapshot struct {
	Width   int        `json:"width"`
	Height  int        `json:"height"`
	Visited int        `json:"visited"`
	Cells   []CellView `json:"cells"`
}

// Snapshot copies every cell. When p is not nil its display states are included.
func (g *Grid) Snapshot(p *Presentation) Snapshot {
	snap := Snapshot{
		Width:   g.width,
		Height:  g.height,
		Visited: g.VisitedCount(),
		Cells:   make([]CellView, 0, g.width*g.height),
	}
	g.Each(func(c *Cell) {
		view := c.View()
		if p != nil {
			view.State = p.State(c.x, c.z)
		}
		snap.Cells = append(snap.Cells, view)
	})
	return snap
}

// Passages counts the open walls between adjacent cells, each shared wall once.
func (g *Grid) Passages() int {
	count := 0
	g.Each(func(c *Cell) {
		if c.x < g.width-1 && !c.walls[Right] {
			count++
		}
		if c.z < g.height-1 && !c.walls[Top] {
			count++
		}
	})
	return count
}
