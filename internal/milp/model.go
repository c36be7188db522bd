// Package milp describes bounded integer linear programs and the interface a
// solver backend implements to optimize them. A Model is built once, handed
// to a Solver, and read back through a Result; the package itself never
// searches for solutions.
package milp

import (
	"fmt"
	"math"
)

// VarID identifies a variable inside a single Model.
type VarID int

// Var is a bounded integer decision variable.
// A variable with Lower == Upper is fixed to that value.
type Var struct {
	Name  string
	Lower int
	Upper int
}

// Fixed reports whether the variable has a single admissible value.
func (v Var) Fixed() bool {
	return v.Lower == v.Upper
}

// Term is a coefficient applied to a variable.
type Term struct {
	Var  VarID
	Coef float64
}

// Sense is the relation between a constraint's left-hand side and its RHS.
type Sense int

const (
	LessEq    Sense = iota // Σ terms <= rhs
	GreaterEq              // Σ terms >= rhs
	Equal                  // Σ terms == rhs
)

func (s Sense) String() string {
	switch s {
	case LessEq:
		return "<="
	case GreaterEq:
		return ">="
	default:
		return "=="
	}
}

// Constraint is a single linear row.
type Constraint struct {
	Name  string
	Terms []Term
	Sense Sense
	RHS   float64
}

// Model is a minimization problem over bounded integer variables.
type Model struct {
	Name        string
	vars        []Var
	constraints []Constraint
	objective   []Term
	bound       *float64
}

// NewModel returns an empty model.
func NewModel(name string) *Model {
	return &Model{Name: name}
}

// AddVar appends a variable with the given bounds and returns its id.
func (m *Model) AddVar(name string, lower, upper int) (VarID, error) {
	if lower > upper {
		return -1, fmt.Errorf("milp: variable %q has empty domain [%d, %d]", name, lower, upper)
	}
	m.vars = append(m.vars, Var{Name: name, Lower: lower, Upper: upper})
	return VarID(len(m.vars) - 1), nil
}

// AddConstraint appends a row. Every term must reference a known variable.
func (m *Model) AddConstraint(name string, terms []Term, sense Sense, rhs float64) error {
	for _, t := range terms {
		if !m.valid(t.Var) {
			return fmt.Errorf("milp: constraint %q references unknown variable %d", name, t.Var)
		}
		if math.IsNaN(t.Coef) || math.IsInf(t.Coef, 0) {
			return fmt.Errorf("milp: constraint %q has non-finite coefficient", name)
		}
	}
	cp := make([]Term, len(terms))
	copy(cp, terms)
	m.constraints = append(m.constraints, Constraint{Name: name, Terms: cp, Sense: sense, RHS: rhs})
	return nil
}

// Minimize sets the objective function.
func (m *Model) Minimize(terms []Term) error {
	for _, t := range terms {
		if !m.valid(t.Var) {
			return fmt.Errorf("milp: objective references unknown variable %d", t.Var)
		}
	}
	m.objective = make([]Term, len(terms))
	copy(m.objective, terms)
	return nil
}

// SetObjectiveBound records a proven lower bound on the objective. A
// backend may stop searching once an assignment reaches it.
func (m *Model) SetObjectiveBound(b float64) {
	m.bound = &b
}

// ObjectiveBound returns the bound set by SetObjectiveBound, if any.
func (m *Model) ObjectiveBound() (float64, bool) {
	if m.bound == nil {
		return 0, false
	}
	return *m.bound, true
}

func (m *Model) valid(id VarID) bool {
	return id >= 0 && int(id) < len(m.vars)
}

// Var returns the variable with the given id.
func (m *Model) Var(id VarID) Var {
	return m.vars[id]
}

// NumVars returns the number of variables.
func (m *Model) NumVars() int {
	return len(m.vars)
}

// NumFixed returns how many variables have a single admissible value.
func (m *Model) NumFixed() int {
	n := 0
	for _, v := range m.vars {
		if v.Fixed() {
			n++
		}
	}
	return n
}

// Vars returns the model's variables in id order.
func (m *Model) Vars() []Var {
	return m.vars
}

// Constraints returns the model's rows in insertion order.
func (m *Model) Constraints() []Constraint {
	return m.constraints
}

// Objective returns the objective terms.
func (m *Model) Objective() []Term {
	return m.objective
}

// Evaluate returns the objective value of an assignment.
func (m *Model) Evaluate(values []int) float64 {
	return evalTerms(m.objective, values)
}

// Check verifies that values respects every bound and every constraint.
func (m *Model) Check(values []int) error {
	if len(values) != len(m.vars) {
		return fmt.Errorf("milp: assignment has %d values, model has %d variables", len(values), len(m.vars))
	}
	for i, v := range m.vars {
		if values[i] < v.Lower || values[i] > v.Upper {
			return fmt.Errorf("milp: variable %q = %d outside [%d, %d]", v.Name, values[i], v.Lower, v.Upper)
		}
	}
	for _, c := range m.constraints {
		lhs := evalTerms(c.Terms, values)
		tol := 1e-6 * math.Max(1, math.Abs(c.RHS))
		ok := true
		switch c.Sense {
		case LessEq:
			ok = lhs <= c.RHS+tol
		case GreaterEq:
			ok = lhs >= c.RHS-tol
		case Equal:
			ok = math.Abs(lhs-c.RHS) <= tol
		}
		if !ok {
			return fmt.Errorf("milp: constraint %q violated: %g %s %g", c.Name, lhs, c.Sense, c.RHS)
		}
	}
	return nil
}

func evalTerms(terms []Term, values []int) float64 {
	var sum float64
	for _, t := range terms {
		sum += t.Coef * float64(values[t.Var])
	}
	return sum
}
