package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/beka-birhanu/vinom-maze/maze"
	"github.com/beka-birhanu/vinom-maze/service/i"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const owner = "user-1"

func newManager(t *testing.T, locker i.Locker, frames i.FrameLog) *GenerationManager {
	t.Helper()
	m, err := NewGenerationManager(&GenerationConfig{
		Factory:    maze.NewCellFactory(50),
		Locker:     locker,
		Frames:     frames,
		Logger:     discardLogger{},
		SessionTTL: time.Minute,
	})
	require.NoError(t, err)
	return m
}

func stepToEnd(t *testing.T, m *GenerationManager, id uuid.UUID) []i.Frame {
	t.Helper()
	var frames []i.Frame
	for n := 0; n < 100000; n++ {
		res, err := m.Step(context.Background(), owner, id)
		require.NoError(t, err)
		frames = append(frames, res.Frames...)
		if res.Done {
			assert.Equal(t, res.Total, res.Visited)
			return frames
		}
	}
	t.Fatal("visualized run did not finish")
	return nil
}

func TestNewGenerationManager(t *testing.T) {
	_, err := NewGenerationManager(nil)
	assert.Error(t, err)
	_, err = NewGenerationManager(&GenerationConfig{Factory: maze.NewCellFactory(0)})
	assert.Error(t, err)
	_, err = NewGenerationManager(&GenerationConfig{Logger: discardLogger{}})
	assert.Error(t, err)
}

func TestGenerationManagerGenerate(t *testing.T) {
	m := newManager(t, nil, nil)
	ctx := context.Background()

	id, err := m.Start(ctx, i.GenerationRequest{Owner: owner, Width: 6, Height: 4, Seed: 99})
	require.NoError(t, err)

	view, err := m.Session(owner, id)
	require.NoError(t, err)
	assert.Equal(t, id, view.ID)
	assert.Equal(t, int64(99), view.Seed)
	assert.False(t, view.Visualized)
	assert.True(t, view.Done)
	assert.Equal(t, 6, view.Maze.Width)
	assert.Equal(t, 4, view.Maze.Height)
	assert.Equal(t, 24, view.Maze.Visited)
	assert.Len(t, view.Maze.Cells, 24)
	assert.NotEmpty(t, view.Rendering)

	t.Run("same seed reproduces the maze", func(t *testing.T) {
		other, err := m.Start(ctx, i.GenerationRequest{Owner: owner, Width: 6, Height: 4, Seed: 99})
		require.NoError(t, err)
		otherView, err := m.Session(owner, other)
		require.NoError(t, err)
		assert.Equal(t, view.Maze, otherView.Maze)
	})

	t.Run("cell lookup", func(t *testing.T) {
		c, ok, err := m.Cell(owner, id, 0, 0)
		require.NoError(t, err)
		assert.True(t, ok)
		assert.True(t, c.Visited)

		_, ok, err = m.Cell(owner, id, -1, 0)
		require.NoError(t, err)
		assert.False(t, ok)

		_, ok, err = m.Cell(owner, id, 6, 0)
		require.NoError(t, err)
		assert.False(t, ok)
	})

	t.Run("other owners cannot see the session", func(t *testing.T) {
		_, err := m.Session("intruder", id)
		assert.ErrorIs(t, err, ErrSessionNotFound)
	})

	t.Run("stepping a plain session fails", func(t *testing.T) {
		_, err := m.Step(ctx, owner, id)
		assert.ErrorIs(t, err, ErrNotVisualized)
	})

	t.Run("invalid dimensions", func(t *testing.T) {
		_, err := m.Start(ctx, i.GenerationRequest{Owner: owner, Width: 0, Height: 4})
		assert.ErrorIs(t, err, maze.ErrInvalidDimensions)
		_, err = m.Start(ctx, i.GenerationRequest{Owner: owner, Width: 51, Height: 4})
		assert.ErrorIs(t, err, maze.ErrInvalidDimensions)
	})
}

func TestGenerationManagerVisualized(t *testing.T) {
	locker := newMemLocker()
	frames := newMemFrameLog()
	m := newManager(t, locker, frames)
	ctx := context.Background()

	id, err := m.Start(ctx, i.GenerationRequest{Owner: owner, Width: 5, Height: 3, Seed: 7, Visualize: true})
	require.NoError(t, err)
	assert.True(t, locker.isHeld("maze:visualize:"+owner))

	_, err = m.Start(ctx, i.GenerationRequest{Owner: owner, Width: 5, Height: 3, Visualize: true})
	assert.ErrorIs(t, err, ErrVisualizationInFlight)

	view, err := m.Session(owner, id)
	require.NoError(t, err)
	assert.True(t, view.Visualized)
	assert.False(t, view.Done)
	assert.Equal(t, 0, view.Maze.Visited)

	stepped := stepToEnd(t, m, id)
	assert.False(t, locker.isHeld("maze:visualize:"+owner))
	assert.Greater(t, locker.extended, 0)

	for k, f := range stepped {
		assert.Equal(t, int64(k), f.Seq)
	}
	logged, err := m.Frames(ctx, owner, id, 0)
	require.NoError(t, err)
	assert.Equal(t, stepped, logged)

	tail, err := m.Frames(ctx, owner, id, int64(len(stepped)-3))
	require.NoError(t, err)
	assert.Len(t, tail, 3)

	view, err = m.Session(owner, id)
	require.NoError(t, err)
	assert.True(t, view.Done)

	plain, err := m.Start(ctx, i.GenerationRequest{Owner: owner, Width: 5, Height: 3, Seed: 7})
	require.NoError(t, err)
	plainView, err := m.Session(owner, plain)
	require.NoError(t, err)
	assert.Equal(t, plainView.Maze, view.Maze, "visualized and plain runs carve the same maze")

	res, err := m.Step(ctx, owner, id)
	require.NoError(t, err)
	assert.True(t, res.Done)
	assert.Empty(t, res.Frames)
}

func TestGenerationManagerCancel(t *testing.T) {
	locker := newMemLocker()
	frames := newMemFrameLog()
	m := newManager(t, locker, frames)
	ctx := context.Background()

	id, err := m.Start(ctx, i.GenerationRequest{Owner: owner, Width: 4, Height: 4, Visualize: true})
	require.NoError(t, err)
	for n := 0; n < 5; n++ {
		_, err := m.Step(ctx, owner, id)
		require.NoError(t, err)
	}

	assert.ErrorIs(t, m.Cancel(ctx, "intruder", id), ErrSessionNotFound)
	require.NoError(t, m.Cancel(ctx, owner, id))
	assert.False(t, locker.isHeld("maze:visualize:"+owner))
	assert.Empty(t, frames.frames)

	_, err = m.Session(owner, id)
	assert.ErrorIs(t, err, ErrSessionNotFound)

	_, err = m.Start(ctx, i.GenerationRequest{Owner: owner, Width: 4, Height: 4, Visualize: true})
	assert.NoError(t, err, "lease is free again")
}

func TestGenerationManagerFailedStartReleasesLease(t *testing.T) {
	locker := newMemLocker()
	m := newManager(t, locker, nil)

	_, err := m.Start(context.Background(), i.GenerationRequest{Owner: owner, Width: -1, Height: 4, Visualize: true})
	assert.ErrorIs(t, err, maze.ErrInvalidDimensions)
	assert.False(t, locker.isHeld("maze:visualize:"+owner))
}

func TestGenerationManagerLockerFailure(t *testing.T) {
	down := errors.New("connection refused")
	locker := newMemLocker()
	locker.failWith = down
	m := newManager(t, locker, nil)

	_, err := m.Start(context.Background(), i.GenerationRequest{Owner: owner, Width: 4, Height: 4, Visualize: true})
	assert.ErrorIs(t, err, down)
	assert.NotErrorIs(t, err, ErrVisualizationInFlight)
}

func TestGenerationManagerFramesDisabled(t *testing.T) {
	m := newManager(t, nil, nil)
	id, err := m.Start(context.Background(), i.GenerationRequest{Owner: owner, Width: 2, Height: 2, Visualize: true})
	require.NoError(t, err)

	_, err = m.Frames(context.Background(), owner, id, 0)
	assert.ErrorIs(t, err, ErrFrameLogDisabled)
	stepToEnd(t, m, id)
}

func TestGenerationManagerSweep(t *testing.T) {
	locker := newMemLocker()
	m := newManager(t, locker, nil)
	ctx := context.Background()
	now := time.Now()
	m.now = func() time.Time { return now }

	idle, err := m.Start(ctx, i.GenerationRequest{Owner: owner, Width: 3, Height: 3, Visualize: true})
	require.NoError(t, err)

	now = now.Add(45 * time.Second)
	fresh, err := m.Start(ctx, i.GenerationRequest{Owner: "user-2", Width: 3, Height: 3})
	require.NoError(t, err)

	now = now.Add(30 * time.Second)
	assert.Equal(t, 1, m.Sweep(ctx))

	_, err = m.Session(owner, idle)
	assert.ErrorIs(t, err, ErrSessionNotFound)
	assert.False(t, locker.isHeld("maze:visualize:"+owner))

	_, err = m.Session("user-2", fresh)
	assert.NoError(t, err)
}
