package i

import (
	"context"

	"github.com/beka-birhanu/vinom-maze/maze"
	"github.com/google/uuid"
)

// GenerationRequest describes a maze to carve.
type GenerationRequest struct {
	Owner     string // Owner is the user that may access the session.
	Width     int
	Height    int
	Seed      int64 // Seed of the random source; zero picks one.
	Visualize bool  // Visualize starts a stepped run instead of carving at once.
}

// StepResult reports what one visualization step did.
type StepResult struct {
	Done    bool    `json:"done"`
	Frames  []Frame `json:"frames"`
	Visited int     `json:"visited"`
	Total   int     `json:"total"`
}

// SessionView is a copy of a generation session.
type SessionView struct {
	ID         uuid.UUID     `json:"id"`
	Seed       int64         `json:"seed"`
	Visualized bool          `json:"visualized"`
	Done       bool          `json:"done"`
	Maze       maze.Snapshot `json:"maze"`
	Rendering  string        `json:"rendering,omitempty"`
}

// GenerationManager owns maze generation sessions.
type GenerationManager interface {
	Start(ctx context.Context, req GenerationRequest) (uuid.UUID, error)
	Step(ctx context.Context, owner string, id uuid.UUID) (StepResult, error)
	Session(owner string, id uuid.UUID) (SessionView, error)
	Cell(owner string, id uuid.UUID, x, z int) (maze.CellView, bool, error)
	Frames(ctx context.Context, owner string, id uuid.UUID, since int64) ([]Frame, error)
	Cancel(ctx context.Context, owner string, id uuid.UUID) error
}
