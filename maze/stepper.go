package maze

import (
	"context"
	"time"
)

type phase uint8

const (
	phaseStart    phase = iota // push the origin
	phaseActivate              // highlight the top of the stack
	phaseEvaluate              // advance or start backtracking
	phasePause                 // idle suspension after an advance
	phaseUnwind                // settle and pop a backtracked cell
	phaseSweep                 // neutral sweep, then highlight the next top
	phaseDone
)

// Stepper runs the carving algorithm of a Generator one suspension point at a
// time. Each call to Step performs the work up to the next suspension point and
// reports display states to the observer. The host decides the cadence.
type Stepper struct {
	gen        *Generator
	generation uint64
	observer   Observer
	phase      phase
	current    *Cell
	steps      int
	budget     int
}

// Step resumes the run until the next suspension point. It returns true once
// the stack is empty and the maze is complete; further calls are no-ops.
// A Stepper whose Generator has started a newer generation returns ErrStaleRun.
func (s *Stepper) Step() (bool, error) {
	if s.phase == phaseDone {
		return true, nil
	}
	if s.gen.generation != s.generation {
		return false, ErrStaleRun
	}

	g := s.gen
	switch s.phase {
	case phaseStart:
		s.current = g.pushOrigin()
		s.observer.Notify(s.current, Active)
		s.phase = phaseActivate

	case phaseActivate:
		return s.activateTop(), nil

	case phaseEvaluate:
		if s.steps >= s.budget {
			return false, ErrStepBudgetExceeded
		}
		s.steps++

		next, err := g.advance(s.current)
		if err != nil {
			return false, err
		}
		if next != nil {
			s.observer.Notify(s.current, Visited)
			s.observer.Notify(next, Active)
			s.current = next
			s.phase = phasePause
		} else {
			s.observer.Notify(s.current, Backtrack)
			s.phase = phaseUnwind
		}

	case phasePause:
		s.phase = phaseSweep

	case phaseUnwind:
		s.observer.Notify(s.current, Visited)
		g.pop()
		s.phase = phaseSweep

	case phaseSweep:
		g.grid.Each(func(c *Cell) {
			s.observer.Notify(c, Neutral)
		})
		return s.activateTop(), nil
	}

	return false, nil
}

// activateTop highlights the top of the stack, or finishes the run when the
// stack is empty.
func (s *Stepper) activateTop() bool {
	if len(s.gen.stack) == 0 {
		s.current = nil
		s.phase = phaseDone
		return true
	}
	s.current = s.gen.peek()
	s.observer.Notify(s.current, Active)
	s.phase = phaseEvaluate
	return false
}

// Done reports whether the run has completed.
func (s *Stepper) Done() bool {
	return s.phase == phaseDone
}

// Current returns the cell at the top of the stack, or nil before the first
// step and after completion.
func (s *Stepper) Current() *Cell {
	return s.current
}

// Run calls Step every interval until the run completes, fails or ctx is
// cancelled. Cancellation leaves the grid partially carved.
func (s *Stepper) Run(ctx context.Context, interval time.Duration) error {
	var tick <-chan time.Time
	if interval > 0 {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		tick = ticker.C
	}

	for {
		done, err := s.Step()
		if err != nil {
			return err
		}
		if done {
			return nil
		}

		if tick == nil {
			if err := ctx.Err(); err != nil {
				return err
			}
			continue
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-tick:
		}
	}
}
