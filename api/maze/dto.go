// Package mazeapi exposes maze generation sessions over HTTP and websockets.
package mazeapi

// CreateMazeRequest asks for a new maze.
type CreateMazeRequest struct {
	Width     int   `json:"width" binding:"required,min=1"`
	Height    int   `json:"height" binding:"required,min=1"`
	Seed      int64 `json:"seed"`
	Visualize bool  `json:"visualize"`
}

// CreateMazeResponse identifies the created session.
type CreateMazeResponse struct {
	ID   string `json:"id"`
	Seed int64  `json:"seed"`
}
