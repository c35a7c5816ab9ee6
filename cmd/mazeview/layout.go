package main

import "github.com/beka-birhanu/vinom-maze/maze"

// glyph is one terminal cell of the rendered maze.
type glyph struct {
	r     rune
	room  bool             // room is true for the centre of a maze cell.
	state maze.VisualState // state is the display state of the room.
}

// layout renders grid into a (2*width+1) x (2*height+1) glyph matrix indexed
// [row][col], with the highest z on the first row.
func layout(grid *maze.Grid, p *maze.Presentation) [][]glyph {
	w, h := grid.Width(), grid.Height()
	rows := make([][]glyph, 2*h+1)
	for r := range rows {
		rows[r] = make([]glyph, 2*w+1)
		for c := range rows[r] {
			rows[r][c] = glyph{r: ' '}
			if r%2 == 0 && c%2 == 0 {
				rows[r][c].r = '+'
			}
		}
	}

	grid.Each(func(cell *maze.Cell) {
		row := 2*(h-1-cell.Z()) + 1
		col := 2*cell.X() + 1

		rows[row][col] = glyph{r: ' ', room: true, state: p.State(cell.X(), cell.Z())}
		if cell.HasWall(maze.Top) {
			rows[row-1][col].r = '-'
		}
		if cell.HasWall(maze.Bottom) {
			rows[row+1][col].r = '-'
		}
		if cell.HasWall(maze.Left) {
			rows[row][col-1].r = '|'
		}
		if cell.HasWall(maze.Right) {
			rows[row][col+1].r = '|'
		}
	})

	return rows
}
