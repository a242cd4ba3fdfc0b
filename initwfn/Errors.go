package initwfn

import "errors"

// Errors returned by the complex weight initializers. All of them are
// returned immediately; no partial weights are ever produced.
var (
	// ErrInvalidShape is returned when a shape has fewer than two
	// dimensions or a negative dimension
	ErrInvalidShape = errors.New("invalid shape")

	// ErrInvalidCriterion is returned when a criterion is not one of
	// he or glorot
	ErrInvalidCriterion = errors.New("invalid criterion")

	// ErrDegenerateShape is returned when the variance scaling factor
	// computed from a shape is zero, which would result in an infinite
	// sigma
	ErrDegenerateShape = errors.New("degenerate shape")

	// ErrInvalidDtype is returned when weights are requested in a dtype
	// other than float32 or float64
	ErrInvalidDtype = errors.New("invalid dtype")
)
