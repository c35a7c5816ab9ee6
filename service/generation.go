package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/beka-birhanu/vinom-maze/maze"
	"github.com/beka-birhanu/vinom-maze/service/i"
	"github.com/google/uuid"
)

const (
	defaultSessionTTL = 10 * time.Minute

	visualizeLockFmt = "maze:visualize:%s"
	frameKeyFmt      = "maze:frames:%s"
)

var (
	ErrSessionNotFound       = errors.New("maze session not found")
	ErrNotVisualized         = errors.New("maze session is not visualized")
	ErrVisualizationInFlight = errors.New("a visualized generation is already in flight")
	ErrFrameLogDisabled      = errors.New("frame log is not configured")
)

// session is one caller-owned generator and, when visualized, its in-flight run.
type session struct {
	id           uuid.UUID
	owner        string
	seed         int64
	gen          *maze.Generator
	stepper      *maze.Stepper
	presentation *maze.Presentation
	recorder     *maze.Recorder
	lease        i.Lease
	seq          int64
	touched      time.Time
	sync.Mutex
}

// GenerationManager owns maze generation sessions. Each session has its own
// Generator, so no two runs ever share a grid.
type GenerationManager struct {
	sessions map[uuid.UUID]*session
	factory  maze.GridFactory
	locker   i.Locker
	frames   i.FrameLog
	logger   i.Logger
	ttl      time.Duration
	now      func() time.Time
	sync.RWMutex
}

// GenerationConfig holds the collaborators of a GenerationManager.
// Locker and Frames are optional.
type GenerationConfig struct {
	Factory    maze.GridFactory
	Locker     i.Locker
	Frames     i.FrameLog
	Logger     i.Logger
	SessionTTL time.Duration
}

// NewGenerationManager creates a GenerationManager.
func NewGenerationManager(c *GenerationConfig) (*GenerationManager, error) {
	if c == nil || c.Factory == nil {
		return nil, errors.New("grid factory is required")
	}
	if c.Logger == nil {
		return nil, errors.New("logger is required")
	}

	ttl := c.SessionTTL
	if ttl <= 0 {
		ttl = defaultSessionTTL
	}

	return &GenerationManager{
		sessions: make(map[uuid.UUID]*session),
		factory:  c.Factory,
		locker:   c.Locker,
		frames:   c.Frames,
		logger:   c.Logger,
		ttl:      ttl,
		now:      time.Now,
	}, nil
}

// Start creates a session. Non-visualized requests are carved before Start
// returns; visualized ones hold the owner's visualization lease until the run
// completes, is cancelled or expires.
func (m *GenerationManager) Start(ctx context.Context, req i.GenerationRequest) (uuid.UUID, error) {
	rng := maze.NewRandSource(req.Seed)
	gen, err := maze.NewGenerator(m.factory, rng)
	if err != nil {
		return uuid.Nil, err
	}

	s := &session{
		id:      uuid.New(),
		owner:   req.Owner,
		seed:    rng.Seed(),
		gen:     gen,
		touched: m.now(),
	}

	if req.Visualize {
		if err := m.startVisualized(ctx, s, req.Width, req.Height); err != nil {
			return uuid.Nil, err
		}
	} else if err := gen.Generate(req.Width, req.Height); err != nil {
		return uuid.Nil, err
	}

	m.Lock()
	m.sessions[s.id] = s
	m.Unlock()

	m.logger.Info(fmt.Sprintf("Session %s started: %dx%d seed %d visualized %t", s.id, req.Width, req.Height, s.seed, req.Visualize))
	return s.id, nil
}

func (m *GenerationManager) startVisualized(ctx context.Context, s *session, width, height int) error {
	if m.locker != nil {
		lease, err := m.locker.Acquire(ctx, fmt.Sprintf(visualizeLockFmt, s.owner), m.ttl)
		if errors.Is(err, i.ErrLeaseTaken) {
			return fmt.Errorf("%w: %v", ErrVisualizationInFlight, err)
		}
		if err != nil {
			return fmt.Errorf("acquiring visualization lease: %w", err)
		}
		s.lease = lease
	}

	s.recorder = &maze.Recorder{}
	s.presentation = maze.NewPresentation(width, height)
	stepper, err := s.gen.Visualize(width, height, maze.ObserverFunc(func(c *maze.Cell, state maze.VisualState) {
		s.presentation.Notify(c, state)
		s.recorder.Notify(c, state)
	}))
	if err != nil {
		m.releaseLease(ctx, s)
		return err
	}

	s.stepper = stepper
	return nil
}

// Step advances a visualized session to its next suspension point.
func (m *GenerationManager) Step(ctx context.Context, owner string, id uuid.UUID) (i.StepResult, error) {
	s, err := m.lookup(owner, id)
	if err != nil {
		return i.StepResult{}, err
	}

	s.Lock()
	defer s.Unlock()

	if s.stepper == nil {
		return i.StepResult{}, ErrNotVisualized
	}

	done, err := s.stepper.Step()
	if err != nil {
		return i.StepResult{}, err
	}
	s.touched = m.now()

	notifications := s.recorder.Drain()
	frames := make([]i.Frame, len(notifications))
	for k, n := range notifications {
		frames[k] = i.Frame{Seq: s.seq, Notification: n}
		s.seq++
	}

	if m.frames != nil && len(frames) > 0 {
		if err := m.frames.Append(ctx, frameKey(id), frames); err != nil {
			m.logger.Warn(fmt.Sprintf("Appending frames of session %s: %v", id, err))
		}
	}

	visited, total := s.gen.Progress()
	if done {
		m.releaseLease(ctx, s)
		if len(frames) > 0 {
			m.logger.Info(fmt.Sprintf("Session %s generated (%d / %d cells)", id, visited, total))
		}
	} else if s.lease != nil {
		if err := s.lease.Extend(ctx); err != nil {
			m.logger.Warn(fmt.Sprintf("Extending lease of session %s: %v", id, err))
		}
	}

	return i.StepResult{
		Done:    done,
		Frames:  frames,
		Visited: visited,
		Total:   total,
	}, nil
}

// Session returns a copy of the session's maze.
func (m *GenerationManager) Session(owner string, id uuid.UUID) (i.SessionView, error) {
	s, err := m.lookup(owner, id)
	if err != nil {
		return i.SessionView{}, err
	}

	s.Lock()
	defer s.Unlock()

	grid := s.gen.Grid()
	return i.SessionView{
		ID:         s.id,
		Seed:       s.seed,
		Visualized: s.stepper != nil,
		Done:       s.stepper == nil || s.stepper.Done(),
		Maze:       grid.Snapshot(s.presentation),
		Rendering:  grid.String(),
	}, nil
}

// Cell returns the cell at (x, z). The boolean is false when the coordinates
// are outside the maze.
func (m *GenerationManager) Cell(owner string, id uuid.UUID, x, z int) (maze.CellView, bool, error) {
	s, err := m.lookup(owner, id)
	if err != nil {
		return maze.CellView{}, false, err
	}

	s.Lock()
	defer s.Unlock()

	c, ok := s.gen.GetCell(x, z)
	if !ok {
		return maze.CellView{}, false, nil
	}
	view := c.View()
	if s.presentation != nil {
		view.State = s.presentation.State(x, z)
	}
	return view, true, nil
}

// Frames returns the logged frames of a visualized session from seq on.
func (m *GenerationManager) Frames(ctx context.Context, owner string, id uuid.UUID, since int64) ([]i.Frame, error) {
	if m.frames == nil {
		return nil, ErrFrameLogDisabled
	}
	s, err := m.lookup(owner, id)
	if err != nil {
		return nil, err
	}
	if s.stepper == nil {
		return nil, ErrNotVisualized
	}
	return m.frames.Since(ctx, frameKey(id), since)
}

// Cancel drops a session. An in-flight run is abandoned where it stands.
func (m *GenerationManager) Cancel(ctx context.Context, owner string, id uuid.UUID) error {
	s, err := m.lookup(owner, id)
	if err != nil {
		return err
	}

	m.Lock()
	delete(m.sessions, id)
	m.Unlock()

	m.dispose(ctx, s)
	m.logger.Info(fmt.Sprintf("Session %s cancelled", id))
	return nil
}

// Sweep drops sessions idle for longer than the session TTL and returns how
// many were removed.
func (m *GenerationManager) Sweep(ctx context.Context) int {
	now := m.now()
	var expired []*session

	m.Lock()
	for id, s := range m.sessions {
		s.Lock()
		idle := now.Sub(s.touched)
		s.Unlock()
		if idle > m.ttl {
			expired = append(expired, s)
			delete(m.sessions, id)
		}
	}
	m.Unlock()

	for _, s := range expired {
		m.dispose(ctx, s)
	}
	if len(expired) > 0 {
		m.logger.Info(fmt.Sprintf("Swept %d idle sessions", len(expired)))
	}
	return len(expired)
}

// RunJanitor sweeps idle sessions every interval until ctx is done.
func (m *GenerationManager) RunJanitor(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			m.Sweep(ctx)
		}
	}
}

func (m *GenerationManager) lookup(owner string, id uuid.UUID) (*session, error) {
	m.RLock()
	defer m.RUnlock()

	s, ok := m.sessions[id]
	if !ok || s.owner != owner {
		return nil, ErrSessionNotFound
	}
	return s, nil
}

func (m *GenerationManager) dispose(ctx context.Context, s *session) {
	s.Lock()
	defer s.Unlock()

	m.releaseLease(ctx, s)
	if m.frames != nil && s.stepper != nil {
		if err := m.frames.Clear(ctx, frameKey(s.id)); err != nil {
			m.logger.Warn(fmt.Sprintf("Clearing frames of session %s: %v", s.id, err))
		}
	}
}

func (m *GenerationManager) releaseLease(ctx context.Context, s *session) {
	if s.lease == nil {
		return
	}
	if err := s.lease.Release(ctx); err != nil {
		m.logger.Warn(fmt.Sprintf("Releasing lease of session %s: %v", s.id, err))
	}
	s.lease = nil
}

func frameKey(id uuid.UUID) string {
	return fmt.Sprintf(frameKeyFmt, id)
}
