package pbsolver

import (
	"fmt"
	"math"
	"math/bits"
	"strings"

	"github.com/crillab/gophersat/solver"

	"github.com/piwi3910/RodCut/internal/milp"
)

// maxScaleDigits bounds the decimal scaling applied to a row before its
// coefficients must be integral.
const maxScaleDigits = 6

// maxWeight keeps encoded pseudo-boolean weights far away from int overflow
// once the solver starts summing them.
const maxWeight = 1 << 40

// varBits maps one bounded integer variable to a run of boolean literals:
// value = lower + Σ 2^b · lit(first+b).
type varBits struct {
	lower int
	first int // 1-based literal of bit 0
	n     int
}

// encoding is a milp.Model lowered to pseudo-boolean constraints.
type encoding struct {
	vars        []varBits
	nbLits      int
	constrs     []solver.PBConstr
	costLits    []int // signed literals, negative means negated
	costWeights []int
	costOffset  int
	costScale   float64
}

// encode lowers m. Fixed variables get no literals and are folded into the
// right-hand sides as constants. A row left with no literals is checked
// right away, so a contradictory fixation surfaces as milp.ErrInfeasible.
func encode(m *milp.Model) (*encoding, error) {
	enc := &encoding{vars: make([]varBits, m.NumVars())}
	for i, v := range m.Vars() {
		vb := varBits{lower: v.Lower}
		if r := v.Upper - v.Lower; r > 0 {
			vb.first = enc.nbLits + 1
			vb.n = bits.Len(uint(r))
			enc.nbLits += vb.n
			if r != 1<<vb.n-1 {
				lits, weights := enc.bitTerms(vb, 1)
				enc.constrs = append(enc.constrs, solver.LtEq(lits, weights, r))
			}
		}
		enc.vars[i] = vb
	}

	for _, c := range m.Constraints() {
		if err := enc.addRow(c); err != nil {
			return nil, err
		}
	}
	if err := enc.setObjective(m.Objective()); err != nil {
		return nil, err
	}

	for _, c := range enc.constrs {
		if len(c.Lits) == 0 && c.AtLeast > 0 {
			return nil, fmt.Errorf("empty pseudo-boolean row requires %d: %w", c.AtLeast, milp.ErrInfeasible)
		}
	}
	return enc, nil
}

func (enc *encoding) bitTerms(vb varBits, coef int) ([]int, []int) {
	lits := make([]int, vb.n)
	weights := make([]int, vb.n)
	for b := 0; b < vb.n; b++ {
		lits[b] = vb.first + b
		weights[b] = coef << b
	}
	return lits, weights
}

func (enc *encoding) addRow(c milp.Constraint) error {
	values := make([]float64, 0, len(c.Terms)+1)
	for _, t := range c.Terms {
		values = append(values, t.Coef)
	}
	values = append(values, c.RHS)
	scale, err := integralScale(values)
	if err != nil {
		return fmt.Errorf("constraint %q: %w", c.Name, err)
	}

	rhs := int(math.Round(c.RHS * scale))
	var lits, weights []int
	for _, t := range c.Terms {
		coef := int(math.Round(t.Coef * scale))
		if coef == 0 {
			continue
		}
		vb := enc.vars[t.Var]
		rhs -= coef * vb.lower
		for b := 0; b < vb.n; b++ {
			w := coef << b
			if w > maxWeight || -w > maxWeight {
				return &milp.SolverError{Backend: backendName, Err: fmt.Errorf("constraint %q: weight overflow: %w", c.Name, milp.ErrUnsupported)}
			}
			lits = append(lits, vb.first+b)
			weights = append(weights, w)
		}
	}

	if len(lits) == 0 {
		if !holds(0, c.Sense, rhs) {
			return fmt.Errorf("constraint %q unsatisfiable after fixing: %w", c.Name, milp.ErrInfeasible)
		}
		return nil
	}

	switch c.Sense {
	case milp.LessEq:
		enc.constrs = append(enc.constrs, solver.LtEq(lits, weights, rhs))
	case milp.GreaterEq:
		enc.constrs = append(enc.constrs, solver.GtEq(lits, weights, rhs))
	case milp.Equal:
		enc.constrs = append(enc.constrs, solver.Eq(lits, weights, rhs)...)
	}
	return nil
}

func (enc *encoding) setObjective(terms []milp.Term) error {
	values := make([]float64, len(terms))
	for i, t := range terms {
		values[i] = t.Coef
	}
	scale, err := integralScale(values)
	if err != nil {
		return fmt.Errorf("objective: %w", err)
	}
	enc.costScale = scale

	for _, t := range terms {
		coef := int(math.Round(t.Coef * scale))
		if coef == 0 {
			continue
		}
		vb := enc.vars[t.Var]
		enc.costOffset += coef * vb.lower
		for b := 0; b < vb.n; b++ {
			w := coef << b
			lit := vb.first + b
			if w < 0 {
				// w·x == w + |w|·¬x
				enc.costOffset += w
				lit = -lit
				w = -w
			}
			enc.costLits = append(enc.costLits, lit)
			enc.costWeights = append(enc.costWeights, w)
		}
	}
	return nil
}

// decode turns a boolean model into one integer value per variable.
func (enc *encoding) decode(model []bool) []int {
	values := make([]int, len(enc.vars))
	for i, vb := range enc.vars {
		v := vb.lower
		for b := 0; b < vb.n; b++ {
			// literals the search never saw are false
			if idx := vb.first + b - 1; idx < len(model) && model[idx] {
				v += 1 << b
			}
		}
		values[i] = v
	}
	return values
}

// opb renders the encoding in the OPB text format read by solver.ParseOPB.
// Every row is a ">=" constraint over positive weights, so rows whose bound
// is not positive are trivially satisfied and left out.
func (enc *encoding) opb() string {
	var b strings.Builder
	fmt.Fprintf(&b, "* #variable= %d #constraint= %d\n", enc.nbLits, len(enc.constrs))
	if len(enc.costLits) > 0 {
		b.WriteString("min:")
		for i, l := range enc.costLits {
			fmt.Fprintf(&b, " +%d %s", enc.costWeights[i], litName(l))
		}
		b.WriteString(" ;\n")
	}
	for _, c := range enc.constrs {
		if c.AtLeast <= 0 {
			continue
		}
		for i, l := range c.Lits {
			w := 1
			if c.Weights != nil {
				w = c.Weights[i]
			}
			fmt.Fprintf(&b, "+%d %s ", w, litName(l))
		}
		fmt.Fprintf(&b, ">= %d ;\n", c.AtLeast)
	}
	return b.String()
}

func litName(l int) string {
	if l < 0 {
		return fmt.Sprintf("~x%d", -l)
	}
	return fmt.Sprintf("x%d", l)
}

// integralScale returns the smallest power of ten that makes every value an
// integer, up to maxScaleDigits decimals.
func integralScale(values []float64) (float64, error) {
	scale := 1.0
	for d := 0; d <= maxScaleDigits; d++ {
		ok := true
		for _, v := range values {
			x := v * scale
			if math.Abs(x-math.Round(x)) > 1e-9*math.Max(1, math.Abs(x)) {
				ok = false
				break
			}
		}
		if ok {
			return scale, nil
		}
		scale *= 10
	}
	return 0, &milp.SolverError{
		Backend: backendName,
		Err:     fmt.Errorf("coefficients need more than %d decimals: %w", maxScaleDigits, milp.ErrUnsupported),
	}
}

func holds(lhs int, sense milp.Sense, rhs int) bool {
	switch sense {
	case milp.LessEq:
		return lhs <= rhs
	case milp.GreaterEq:
		return lhs >= rhs
	default:
		return lhs == rhs
	}
}

// objective converts a scaled pseudo-boolean cost back to the model's
// objective value.
func (enc *encoding) objective(scaledCost int) float64 {
	return float64(scaledCost) / enc.costScale
}
