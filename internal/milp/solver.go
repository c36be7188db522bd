package milp

import (
	"context"
	"errors"
	"fmt"
)

// Status describes the quality of a returned assignment.
type Status int

const (
	StatusOptimal  Status = iota // proven optimal
	StatusFeasible               // satisfies every constraint, optimality not proven
)

func (s Status) String() string {
	if s == StatusOptimal {
		return "optimal"
	}
	return "feasible"
}

// Result is a solved assignment, one value per variable in id order.
type Result struct {
	Status    Status
	Objective float64
	Values    []int
}

// Value returns the solved value of a variable.
func (r *Result) Value(id VarID) int {
	return r.Values[id]
}

// Solver optimizes a Model. Implementations must respect variable bounds
// (fixed variables included) and only report success for assignments that
// satisfy every constraint. Solve blocks until a result is available, the
// model is proven infeasible, or ctx is done.
type Solver interface {
	Solve(ctx context.Context, m *Model) (*Result, error)
}

// ErrInfeasible is returned when no assignment satisfies the model.
var ErrInfeasible = errors.New("milp: model is infeasible")

// ErrUnsupported marks models a backend cannot encode.
var ErrUnsupported = errors.New("milp: model not supported by backend")

// SolverError reports a backend failure: a timeout, an environment problem,
// or a crash inside the search.
type SolverError struct {
	Backend string
	Err     error
}

func (e *SolverError) Error() string {
	return fmt.Sprintf("milp: %s solver failed: %v", e.Backend, e.Err)
}

func (e *SolverError) Unwrap() error {
	return e.Err
}

// Timeout reports whether the failure was caused by a deadline.
func (e *SolverError) Timeout() bool {
	return errors.Is(e.Err, context.DeadlineExceeded)
}
