// Command mazeview carves a maze in the terminal one visualization step at a time.
package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	logger "github.com/beka-birhanu/vinom-maze/infrastruture/log"
	"github.com/beka-birhanu/vinom-maze/maze"
	"github.com/gdamore/tcell/v2"
)

var stateColors = map[maze.VisualState]tcell.Color{
	maze.Neutral:   tcell.ColorWhite,
	maze.Active:    tcell.ColorYellow,
	maze.Visited:   tcell.ColorAqua,
	maze.Backtrack: tcell.ColorFuchsia,
}

func main() {
	width := flag.Int("width", 10, "maze width in cells")
	height := flag.Int("height", 10, "maze height in cells")
	seed := flag.Int64("seed", 0, "random seed, 0 picks one")
	interval := flag.Duration("interval", 50*time.Millisecond, "delay between visualization steps")
	flag.Parse()

	log, err := logger.New("MAZEVIEW", "\033[35m", os.Stderr)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	summary, err := run(*width, *height, *seed, *interval)
	if err != nil {
		log.Error(err.Error())
		os.Exit(1)
	}
	log.Info(summary)
}

// run shows the visualization until the user quits and returns a summary of
// how far the generation got.
func run(width, height int, seed int64, interval time.Duration) (string, error) {
	rng := maze.NewRandSource(seed)
	gen, err := maze.NewGenerator(maze.NewCellFactory(0), rng)
	if err != nil {
		return "", err
	}
	presentation := maze.NewPresentation(width, height)
	stepper, err := gen.Visualize(width, height, presentation)
	if err != nil {
		return "", err
	}

	screen, err := tcell.NewScreen()
	if err != nil {
		return "", fmt.Errorf("creating screen: %w", err)
	}
	if err := screen.Init(); err != nil {
		return "", fmt.Errorf("initializing screen: %w", err)
	}
	defer screen.Fini()

	events := make(chan tcell.Event)
	go func() {
		for {
			ev := screen.PollEvent()
			if ev == nil {
				return
			}
			events <- ev
		}
	}()

	if interval <= 0 {
		interval = time.Millisecond
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	draw(screen, gen, presentation, rng.Seed())
	for {
		select {
		case ev := <-events:
			switch ev := ev.(type) {
			case *tcell.EventKey:
				if ev.Key() == tcell.KeyEscape || ev.Key() == tcell.KeyCtrlC || ev.Rune() == 'q' {
					visited, total := gen.Progress()
					return fmt.Sprintf("Stopped at %d / %d cells, seed %d", visited, total, rng.Seed()), nil
				}
			case *tcell.EventResize:
				screen.Sync()
				draw(screen, gen, presentation, rng.Seed())
			}
		case <-ticker.C:
			if stepper.Done() {
				continue
			}
			done, err := stepper.Step()
			if err != nil {
				return "", err
			}
			draw(screen, gen, presentation, rng.Seed())
			if done {
				ticker.Stop()
			}
		}
	}
}

func draw(screen tcell.Screen, gen *maze.Generator, p *maze.Presentation, seed int64) {
	screen.Clear()
	wallStyle := tcell.StyleDefault.Foreground(tcell.ColorGray)

	for row, glyphs := range layout(gen.Grid(), p) {
		for col, g := range glyphs {
			style := wallStyle
			if g.room {
				style = tcell.StyleDefault.Background(stateColors[g.state])
			}
			screen.SetContent(col, row, g.r, nil, style)
		}
	}

	visited, total := gen.Progress()
	status := fmt.Sprintf("seed %d  %d / %d cells  q to quit", seed, visited, total)
	_, rows := screen.Size()
	for i, r := range status {
		screen.SetContent(i, rows-1, r, nil, tcell.StyleDefault)
	}
	screen.Show()
}
