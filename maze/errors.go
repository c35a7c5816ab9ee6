package maze

import "errors"

var (
	ErrInvalidDirection   = errors.New("invalid wall direction")
	ErrNotAdjacent        = errors.New("cells are not adjacent")
	ErrInvalidDimensions  = errors.New("invalid maze dimensions")
	ErrMissingTemplate    = errors.New("cell template is missing")
	ErrStepBudgetExceeded = errors.New("carving exceeded its step budget")
	ErrStaleRun           = errors.New("visualized run was replaced by a newer generation")
	ErrRandomOutOfRange   = errors.New("random source returned an index out of range")
)
