package maze

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func runToEnd(t *testing.T, s *Stepper) int {
	t.Helper()
	calls := 0
	for {
		calls++
		require.Less(t, calls, 1_000_000, "stepper did not terminate")
		done, err := s.Step()
		require.NoError(t, err)
		if done {
			return calls
		}
	}
}

func TestStepperMatchesGenerate(t *testing.T) {
	sizes := []struct{ w, h int }{{1, 1}, {2, 1}, {5, 5}, {8, 3}, {3, 11}}
	for _, size := range sizes {
		for seed := int64(1); seed <= 4; seed++ {
			rec := &recordingSource{src: NewRandSource(seed)}
			plain := newGenerator(t, rec)
			require.NoError(t, plain.Generate(size.w, size.h))

			replay := &scriptedSource{draws: append([]int(nil), rec.draws...)}
			visual := newGenerator(t, replay)
			stepper, err := visual.Visualize(size.w, size.h, NewPresentation(size.w, size.h))
			require.NoError(t, err)
			runToEnd(t, stepper)

			assert.Equal(t, plain.Grid().Snapshot(nil), visual.Grid().Snapshot(nil))
			assert.Empty(t, replay.draws, "all draws consumed")
			assertPerfectMaze(t, visual.Grid())
		}
	}
}

func TestStepperSingleCellSequence(t *testing.T) {
	src := &scriptedSource{}
	g := newGenerator(t, src)
	rec := &Recorder{}
	s, err := g.Visualize(1, 1, rec)
	require.NoError(t, err)

	expected := [][]Notification{
		{{0, 0, Active}},
		{{0, 0, Active}},
		{{0, 0, Backtrack}},
		{{0, 0, Visited}},
		{{0, 0, Neutral}},
	}
	for i, want := range expected {
		done, err := s.Step()
		require.NoError(t, err)
		assert.Equal(t, i == len(expected)-1, done, "step %d", i)
		assert.Equal(t, want, rec.Drain(), "step %d", i)
	}

	done, err := s.Step()
	require.NoError(t, err)
	assert.True(t, done)
	assert.Empty(t, rec.Drain())
	assert.Empty(t, src.bound)
	assert.True(t, s.Done())
	assert.Nil(t, s.Current())
}

func TestStepperAdvancePhases(t *testing.T) {
	g := newGenerator(t, &scriptedSource{})
	rec := &Recorder{}
	s, err := g.Visualize(2, 1, rec)
	require.NoError(t, err)

	step := func() []Notification {
		done, err := s.Step()
		require.NoError(t, err)
		require.False(t, done)
		return rec.Drain()
	}

	assert.Equal(t, []Notification{{0, 0, Active}}, step())
	assert.Equal(t, []Notification{{0, 0, Active}}, step())
	assert.Equal(t, []Notification{{0, 0, Visited}, {1, 0, Active}}, step())

	right, _ := g.GetCell(1, 0)
	assert.True(t, right.Visited())
	assert.False(t, right.HasWall(Left))
	assert.Same(t, right, s.Current())

	assert.Empty(t, step(), "idle suspension after an advance")
	assert.Equal(t, []Notification{{0, 0, Neutral}, {1, 0, Neutral}, {1, 0, Active}}, step())
	assert.Equal(t, []Notification{{1, 0, Backtrack}}, step())
	assert.Equal(t, []Notification{{1, 0, Visited}}, step())
}

func TestStepperSweepLeavesWallsUntouched(t *testing.T) {
	g := newGenerator(t, NewRandSource(11))
	p := NewPresentation(4, 4)
	var before Snapshot
	sweeps := 0
	obs := ObserverFunc(func(c *Cell, state VisualState) {
		if state == Neutral && c.X() == 0 && c.Z() == 0 {
			before = g.Grid().Snapshot(nil)
			sweeps++
		}
		if state == Neutral && c.X() == 3 && c.Z() == 3 {
			assert.Equal(t, before, g.Grid().Snapshot(nil))
		}
	})
	s, err := g.Visualize(4, 4, Observers(p, obs))
	require.NoError(t, err)
	runToEnd(t, s)

	assert.Greater(t, sweeps, 0)
	for x := 0; x < 4; x++ {
		for z := 0; z < 4; z++ {
			assert.Equal(t, Neutral, p.State(x, z))
		}
	}
}

func TestStepperBecomesStale(t *testing.T) {
	g := newGenerator(t, NewRandSource(5))
	s, err := g.Visualize(3, 3, nil)
	require.NoError(t, err)
	_, err = s.Step()
	require.NoError(t, err)

	require.NoError(t, g.Generate(3, 3))
	_, err = s.Step()
	assert.ErrorIs(t, err, ErrStaleRun)
	assertPerfectMaze(t, g.Grid())
}

func TestStepperRun(t *testing.T) {
	t.Run("completes", func(t *testing.T) {
		g := newGenerator(t, NewRandSource(9))
		s, err := g.Visualize(4, 3, nil)
		require.NoError(t, err)

		require.NoError(t, s.Run(context.Background(), 0))
		assert.True(t, s.Done())
		assertPerfectMaze(t, g.Grid())
	})

	t.Run("cancelled run leaves a consistent partial grid", func(t *testing.T) {
		g := newGenerator(t, NewRandSource(9))
		s, err := g.Visualize(6, 6, nil)
		require.NoError(t, err)

		ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
		defer cancel()
		err = s.Run(ctx, 5*time.Millisecond)
		assert.ErrorIs(t, err, context.DeadlineExceeded)
		assert.False(t, s.Done())

		visited, total := g.Progress()
		assert.Less(t, visited, total)
		g.Grid().Each(func(c *Cell) {
			if c.X() < 5 {
				right, _ := g.GetCell(c.X()+1, c.Z())
				assert.Equal(t, c.HasWall(Right), right.HasWall(Left))
			}
		})
	})

	t.Run("already cancelled context stops after one step", func(t *testing.T) {
		g := newGenerator(t, NewRandSource(9))
		rec := &Recorder{}
		s, err := g.Visualize(3, 3, rec)
		require.NoError(t, err)

		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		assert.ErrorIs(t, s.Run(ctx, 0), context.Canceled)
		assert.Len(t, rec.Drain(), 1)
	})
}

func TestPresentation(t *testing.T) {
	grid, err := NewCellFactory(0).BuildGrid(3, 2)
	require.NoError(t, err)
	p := NewPresentation(3, 2)

	c, _ := grid.GetCell(2, 1)
	p.Notify(c, Backtrack)
	assert.Equal(t, Backtrack, p.State(2, 1))
	assert.Equal(t, Neutral, p.State(1, 1))
	assert.Equal(t, Neutral, p.State(-1, 0))
	assert.Equal(t, Neutral, p.State(3, 0))

	snap := grid.Snapshot(p)
	assert.Equal(t, 6, len(snap.Cells))
	assert.Equal(t, Backtrack, snap.Cells[5].State)
	assert.Equal(t, 0, snap.Visited)
}
