package maze

import "fmt"

// VisualState is the presentation state reported for a cell during a
// visualized generation.
type VisualState uint8

const (
	Neutral   VisualState = iota // Neutral is the baseline display state.
	Active                       // Active marks the cell at the top of the stack.
	Visited                      // Visited marks a settled cell.
	Backtrack                    // Backtrack marks a cell being popped.
)

// String returns the lowercase name of the state.
func (s VisualState) String() string {
	switch s {
	case Neutral:
		return "neutral"
	case Active:
		return "active"
	case Visited:
		return "visited"
	case Backtrack:
		return "backtrack"
	}
	return fmt.Sprintf("state(%d)", uint8(s))
}

// MarshalText encodes the state by name.
func (s VisualState) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// UnmarshalText decodes a state name.
func (s *VisualState) UnmarshalText(text []byte) error {
	for _, candidate := range []VisualState{Neutral, Active, Visited, Backtrack} {
		if candidate.String() == string(text) {
			*s = candidate
			return nil
		}
	}
	return fmt.Errorf("unknown visual state %q", text)
}

// Observer receives cell-state notifications. Implementations must not block
// and must not modify the cell.
type Observer interface {
	Notify(cell *Cell, state VisualState)
}

// ObserverFunc adapts a function to the Observer interface.
type ObserverFunc func(cell *Cell, state VisualState)

// Notify calls f(cell, state).
func (f ObserverFunc) Notify(cell *Cell, state VisualState) {
	f(cell, state)
}

// Observers fans a notification out to every non-nil observer in order.
func Observers(observers ...Observer) Observer {
	return ObserverFunc(func(cell *Cell, state VisualState) {
		for _, o := range observers {
			if o != nil {
				o.Notify(cell, state)
			}
		}
	})
}

// Notification is a recorded observer call.
type Notification struct {
	X     int         `json:"x"`
	Z     int         `json:"z"`
	State VisualState `json:"state"`
}

// Recorder collects notifications until drained.
type Recorder struct {
	notifications []Notification
}

// Notify appends the notification.
func (r *Recorder) Notify(cell *Cell, state VisualState) {
	r.notifications = append(r.notifications, Notification{X: cell.x, Z: cell.z, State: state})
}

// Drain returns the collected notifications and resets the recorder.
func (r *Recorder) Drain() []Notification {
	out := r.notifications
	r.notifications = nil
	return out
}

// Presentation tracks the latest display state of every cell. It never reads
// or writes walls or visited flags.
type Presentation struct {
	width  int
	states []VisualState
}

// NewPresentation creates a Presentation with every cell Neutral.
func NewPresentation(width, height int) *Presentation {
	if width <= 0 || height <= 0 {
		return &Presentation{}
	}
	return &Presentation{
		width:  width,
		states: make([]VisualState, width*height),
	}
}

// Notify records state for the cell.
func (p *Presentation) Notify(cell *Cell, state VisualState) {
	i := cell.x + cell.z*p.width
	if cell.x < 0 || cell.x >= p.width || i < 0 || i >= len(p.states) {
		return
	}
	p.states[i] = state
}

// State returns the display state at (x, z); out-of-range cells are Neutral.
func (p *Presentation) State(x, z int) VisualState {
	i := x + z*p.width
	if x < 0 || x >= p.width || i < 0 || i >= len(p.states) {
		return Neutral
	}
	return p.states[i]
}
