// Package pbsolver solves milp models with the gophersat pseudo-boolean
// engine. Bounded integer variables are binary encoded, rows become
// pseudo-boolean constraints and the objective becomes the "min:" line of
// an OPB problem. The search streams every improving assignment; Solve keeps
// the best one and returns it as feasible when the deadline passes first.
//
// gophersat cannot be told to stop. A search abandoned at the deadline or at
// the model's objective bound runs until it finds its next improvement, then
// parks on a channel nobody reads; its goroutine is never reclaimed.
package pbsolver

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/crillab/gophersat/solver"

	"github.com/piwi3910/RodCut/internal/milp"
)

const backendName = "gophersat"

// Solver is a milp.Solver backed by gophersat.
type Solver struct {
	logger *slog.Logger
}

// Option configures a Solver.
type Option func(*Solver)

// WithLogger sets the logger used for search statistics.
func WithLogger(l *slog.Logger) Option {
	return func(s *Solver) {
		s.logger = l
	}
}

// New returns a gophersat backed solver.
func New(opts ...Option) *Solver {
	s := &Solver{logger: slog.Default()}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Solve minimizes m. It returns StatusOptimal once the search proves the
// optimum or an assignment reaches m's objective bound, and StatusFeasible
// with the best assignment found when ctx is done first. A timeout
// SolverError is returned only when ctx ends before any assignment.
func (s *Solver) Solve(ctx context.Context, m *milp.Model) (*milp.Result, error) {
	if err := ctx.Err(); err != nil {
		return nil, &milp.SolverError{Backend: backendName, Err: err}
	}

	enc, err := encode(m)
	if err != nil {
		return nil, err
	}
	s.logger.Debug("encoded model",
		"model", m.Name,
		"vars", m.NumVars(),
		"fixed", m.NumFixed(),
		"literals", enc.nbLits,
		"pb_constraints", len(enc.constrs))

	if enc.nbLits == 0 {
		return s.result(m, enc, enc.decode(nil), enc.costOffset, milp.StatusOptimal)
	}

	pb, err := solver.ParseOPB(strings.NewReader(enc.opb()))
	if err != nil {
		return nil, &milp.SolverError{Backend: backendName, Err: fmt.Errorf("parse encoded model: %w", err)}
	}
	if pb.Status == solver.Unsat {
		return nil, milp.ErrInfeasible
	}

	start := time.Now()
	results := make(chan solver.Result)
	failed := make(chan error, 1)
	done := make(chan struct{})
	go func() {
		defer close(done)
		defer func() {
			if r := recover(); r != nil {
				failed <- fmt.Errorf("search panicked: %v", r)
			}
		}()
		solver.New(pb).Optimal(results, nil)
	}()

	bound, hasBound := m.ObjectiveBound()
	var best []int
	bestCost := 0
	for {
		select {
		case <-ctx.Done():
			if best == nil {
				return nil, &milp.SolverError{Backend: backendName, Err: ctx.Err()}
			}
			s.logger.Debug("deadline reached, returning incumbent", "model", m.Name, "cost", bestCost, "elapsed", time.Since(start))
			return s.result(m, enc, best, bestCost, milp.StatusFeasible)

		case res, ok := <-results:
			if !ok {
				// Optimal closes results after proving its last assignment optimal.
				<-done
				select {
				case err := <-failed:
					return nil, &milp.SolverError{Backend: backendName, Err: err}
				default:
				}
				if best == nil {
					return nil, milp.ErrInfeasible
				}
				s.logger.Debug("search finished", "model", m.Name, "cost", bestCost, "elapsed", time.Since(start))
				return s.result(m, enc, best, bestCost, milp.StatusOptimal)
			}
			if res.Status != solver.Sat {
				continue
			}
			best = enc.decode(res.Model)
			bestCost = res.Weight + enc.costOffset
			s.logger.Debug("incumbent", "model", m.Name, "cost", bestCost, "elapsed", time.Since(start))
			if hasBound && enc.objective(bestCost) <= bound+1e-9 {
				s.logger.Debug("incumbent meets objective bound", "model", m.Name, "bound", bound)
				return s.result(m, enc, best, bestCost, milp.StatusOptimal)
			}
		}
	}
}

func (s *Solver) result(m *milp.Model, enc *encoding, values []int, scaledCost int, status milp.Status) (*milp.Result, error) {
	if err := m.Check(values); err != nil {
		if errors.Is(err, milp.ErrInfeasible) {
			return nil, err
		}
		return nil, &milp.SolverError{Backend: backendName, Err: fmt.Errorf("returned assignment rejected: %w", err)}
	}
	return &milp.Result{
		Status:    status,
		Objective: enc.objective(scaledCost),
		Values:    values,
	}, nil
}
