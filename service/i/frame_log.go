package i

import (
	"context"

	"github.com/beka-birhanu/vinom-maze/maze"
)

// Frame is one visualization notification with its position in the run.
type Frame struct {
	Seq int64 `json:"seq"`
	maze.Notification
}

// FrameLog keeps the notifications of a visualized run so that clients can
// poll them.
type FrameLog interface {
	// Append stores frames under key.
	Append(ctx context.Context, key string, frames []Frame) error
	// Since returns the frames of key with Seq >= seq in order.
	Since(ctx context.Context, key string, seq int64) ([]Frame, error)
	// Clear drops every frame of key.
	Clear(ctx context.Context, key string) error
}
