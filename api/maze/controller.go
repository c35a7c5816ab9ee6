package mazeapi

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/beka-birhanu/vinom-maze/api/identity"
	"github.com/beka-birhanu/vinom-maze/maze"
	"github.com/beka-birhanu/vinom-maze/service"
	"github.com/beka-birhanu/vinom-maze/service/i"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

const defaultFrameInterval = 50 * time.Millisecond

// MazeController serves maze generation sessions.
type MazeController struct {
	manager       i.GenerationManager
	logger        i.Logger
	frameInterval time.Duration
	upgrader      websocket.Upgrader
}

// NewMazeController initializes a MazeController. frameInterval is the delay
// between steps of a streamed visualization.
func NewMazeController(m i.GenerationManager, l i.Logger, frameInterval time.Duration) (*MazeController, error) {
	if m == nil || l == nil {
		return nil, errors.New("generation manager and logger are required")
	}
	if frameInterval <= 0 {
		frameInterval = defaultFrameInterval
	}
	return &MazeController{
		manager:       m,
		logger:        l,
		frameInterval: frameInterval,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 4096,
		},
	}, nil
}

// RegisterPublic registers public routes.
func (mc *MazeController) RegisterPublic(route *gin.RouterGroup) {}

// RegisterProtected registers protected routes.
func (mc *MazeController) RegisterProtected(route *gin.RouterGroup) {
	mazes := route.Group("/mazes")
	{
		mazes.POST("", mc.create)
		mazes.GET("/:ID", mc.session)
		mazes.DELETE("/:ID", mc.cancel)
		mazes.GET("/:ID/cells/:x/:z", mc.cell)
		mazes.POST("/:ID/step", mc.step)
		mazes.GET("/:ID/frames", mc.frames)
		mazes.GET("/:ID/stream", mc.stream)
	}
}

func (mc *MazeController) create(ctx *gin.Context) {
	var request CreateMazeRequest
	if err := ctx.ShouldBindJSON(&request); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	owner := identity.UserID(ctx)
	id, err := mc.manager.Start(ctx, i.GenerationRequest{
		Owner:     owner,
		Width:     request.Width,
		Height:    request.Height,
		Seed:      request.Seed,
		Visualize: request.Visualize,
	})
	if err != nil {
		mc.fail(ctx, err)
		return
	}

	view, err := mc.manager.Session(owner, id)
	if err != nil {
		mc.fail(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, &CreateMazeResponse{ID: id.String(), Seed: view.Seed})
}

func (mc *MazeController) session(ctx *gin.Context) {
	id, ok := sessionID(ctx)
	if !ok {
		return
	}

	view, err := mc.manager.Session(identity.UserID(ctx), id)
	if err != nil {
		mc.fail(ctx, err)
		return
	}

	if ctx.Query("format") == "text" {
		ctx.String(http.StatusOK, view.Rendering)
		return
	}
	ctx.JSON(http.StatusOK, view)
}

func (mc *MazeController) cell(ctx *gin.Context) {
	id, ok := sessionID(ctx)
	if !ok {
		return
	}
	x, errX := strconv.Atoi(ctx.Param("x"))
	z, errZ := strconv.Atoi(ctx.Param("z"))
	if errX != nil || errZ != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "coordinates must be integers"})
		return
	}

	view, found, err := mc.manager.Cell(identity.UserID(ctx), id, x, z)
	if err != nil {
		mc.fail(ctx, err)
		return
	}
	if !found {
		ctx.JSON(http.StatusNotFound, gin.H{"error": "cell not found"})
		return
	}
	ctx.JSON(http.StatusOK, view)
}

func (mc *MazeController) step(ctx *gin.Context) {
	id, ok := sessionID(ctx)
	if !ok {
		return
	}

	result, err := mc.manager.Step(ctx, identity.UserID(ctx), id)
	if err != nil {
		mc.fail(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, result)
}

func (mc *MazeController) frames(ctx *gin.Context) {
	id, ok := sessionID(ctx)
	if !ok {
		return
	}
	since, err := strconv.ParseInt(ctx.DefaultQuery("since", "0"), 10, 64)
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "since must be an integer"})
		return
	}

	frames, err := mc.manager.Frames(ctx, identity.UserID(ctx), id, since)
	if err != nil {
		mc.fail(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"frames": frames})
}

func (mc *MazeController) cancel(ctx *gin.Context) {
	id, ok := sessionID(ctx)
	if !ok {
		return
	}

	if err := mc.manager.Cancel(ctx, identity.UserID(ctx), id); err != nil {
		mc.fail(ctx, err)
		return
	}
	ctx.Status(http.StatusNoContent)
}

// fail maps service errors to HTTP statuses.
func (mc *MazeController) fail(ctx *gin.Context, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, service.ErrSessionNotFound):
		status = http.StatusNotFound
	case errors.Is(err, maze.ErrInvalidDimensions):
		status = http.StatusBadRequest
	case errors.Is(err, service.ErrNotVisualized),
		errors.Is(err, service.ErrVisualizationInFlight),
		errors.Is(err, maze.ErrStaleRun):
		status = http.StatusConflict
	case errors.Is(err, service.ErrFrameLogDisabled):
		status = http.StatusNotImplemented
	}

	if status == http.StatusInternalServerError {
		mc.logger.Error("Maze request failed: " + err.Error())
		ctx.JSON(status, gin.H{"error": "internal error"})
		return
	}
	ctx.JSON(status, gin.H{"error": err.Error()})
}

func sessionID(ctx *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(ctx.Param("ID"))
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "invalid maze id"})
		return uuid.Nil, false
	}
	return id, true
}
