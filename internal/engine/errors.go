package engine

import (
	"errors"
	"fmt"
)

var (
	// ErrValidation marks demand data that cannot be cut from the stock.
	ErrValidation = errors.New("invalid demand")

	// ErrInfeasibleModel is returned when the solver proves the model has no
	// feasible assignment. The rod pool bound makes this unexpected.
	ErrInfeasibleModel = errors.New("cutting model is infeasible")

	// ErrInvariant reports a broken internal invariant, such as dedicated
	// rods overrunning the rod pool.
	ErrInvariant = errors.New("internal invariant violated")

	// ErrInconsistentSolution is returned when a solved assignment cuts
	// pieces from a rod it marks as unused.
	ErrInconsistentSolution = errors.New("inconsistent solver assignment")
)

// ValidationError describes one rejected input field.
type ValidationError struct {
	Field   string // "length", "quantity", "bar_mark", "stock_length" or "items"
	BarMark string // empty for whole-input errors
	Reason  string
}

func (e *ValidationError) Error() string {
	if e.BarMark == "" {
		return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
	}
	return fmt.Sprintf("bar mark %q: invalid %s: %s", e.BarMark, e.Field, e.Reason)
}

func (e *ValidationError) Unwrap() error {
	return ErrValidation
}
