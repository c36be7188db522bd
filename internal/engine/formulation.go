package engine

import (
	"fmt"

	"github.com/piwi3910/RodCut/internal/milp"
	"github.com/piwi3910/RodCut/internal/model"
)

// Formulation lays out the variables of the cutting model over the rod pool.
// Variable ids are assigned up front: usage indicators first, then cut
// counts rod by rod, so Usage and Cuts are valid before any model exists.
type Formulation struct {
	Items       []model.DemandItem
	StockLength float64
	MaxRods     int

	Usage []milp.VarID   // [rod]
	Cuts  [][]milp.VarID // [rod][item]

	cutUpper []int // [item] pieces of the item that fit on one rod
	rodLimit int   // 0 = no limit on Σ usage
}

// NewFormulation sets up the rods × items index grid for norm.
func NewFormulation(norm Normalized) (*Formulation, error) {
	if norm.MaxRods <= 0 || len(norm.Items) == 0 {
		return nil, fmt.Errorf("%w: empty formulation (%d rods, %d items)", ErrInvariant, norm.MaxRods, len(norm.Items))
	}

	f := &Formulation{
		Items:       norm.Items,
		StockLength: norm.StockLength,
		MaxRods:     norm.MaxRods,
		Usage:       make([]milp.VarID, norm.MaxRods),
		Cuts:        make([][]milp.VarID, norm.MaxRods),
		cutUpper:    make([]int, len(norm.Items)),
	}
	for i, it := range norm.Items {
		f.cutUpper[i] = PiecesPerRod(it.Length, norm.StockLength)
		if f.cutUpper[i] < 1 {
			return nil, fmt.Errorf("%w: %q does not fit on a rod", ErrInvariant, it.BarMark)
		}
	}

	n := len(norm.Items)
	for r := 0; r < norm.MaxRods; r++ {
		f.Usage[r] = milp.VarID(r)
		f.Cuts[r] = make([]milp.VarID, n)
		for i := 0; i < n; i++ {
			f.Cuts[r][i] = milp.VarID(norm.MaxRods + r*n + i)
		}
	}
	return f, nil
}

// NumItems returns the number of demand items.
func (f *Formulation) NumItems() int {
	return len(f.Items)
}

// CutUpper returns the upper bound of every cut count of item i.
func (f *Formulation) CutUpper(i int) int {
	return f.cutUpper[i]
}

// LimitRods bounds the number of used rods. Zero removes the bound.
func (f *Formulation) LimitRods(n int) {
	f.rodLimit = n
}

// Build assembles the MILP. Cells fixed in fix become variables with equal
// bounds; a nil table leaves every cut free.
func (f *Formulation) Build(fix *Fixations) (*milp.Model, error) {
	if fix != nil && (fix.Rods() != f.MaxRods || fix.Items() != f.NumItems()) {
		return nil, fmt.Errorf("%w: fixation table is %d × %d, formulation is %d × %d",
			ErrInvariant, fix.Rods(), fix.Items(), f.MaxRods, f.NumItems())
	}

	m := milp.NewModel("cutting-stock")
	for r := 0; r < f.MaxRods; r++ {
		if err := f.addVar(m, f.Usage[r], fmt.Sprintf("use[%d]", r), 0, 1); err != nil {
			return nil, err
		}
	}
	for r := 0; r < f.MaxRods; r++ {
		for i, it := range f.Items {
			lower, upper := 0, f.cutUpper[i]
			if v, ok := fix.Value(r, i); ok {
				if v > upper {
					return nil, fmt.Errorf("%w: %q fixed to %d on rod %d, at most %d fit", ErrInvariant, it.BarMark, v, r, upper)
				}
				lower, upper = v, v
			}
			if err := f.addVar(m, f.Cuts[r][i], fmt.Sprintf("cut[%d][%s]", r, it.BarMark), lower, upper); err != nil {
				return nil, err
			}
		}
	}

	// Σ_i length·cut[r][i] − stock·use[r] <= 0
	for r := 0; r < f.MaxRods; r++ {
		terms := make([]milp.Term, 0, f.NumItems()+1)
		for i, it := range f.Items {
			terms = append(terms, milp.Term{Var: f.Cuts[r][i], Coef: it.Length})
		}
		terms = append(terms, milp.Term{Var: f.Usage[r], Coef: -f.StockLength})
		if err := m.AddConstraint(fmt.Sprintf("capacity[%d]", r), terms, milp.LessEq, 0); err != nil {
			return nil, err
		}
	}

	// Σ_r cut[r][i] >= quantity
	for i, it := range f.Items {
		terms := make([]milp.Term, f.MaxRods)
		for r := 0; r < f.MaxRods; r++ {
			terms[r] = milp.Term{Var: f.Cuts[r][i], Coef: 1}
		}
		if err := m.AddConstraint(fmt.Sprintf("demand[%s]", it.BarMark), terms, milp.GreaterEq, float64(it.Quantity)); err != nil {
			return nil, err
		}
	}

	objective := make([]milp.Term, f.MaxRods)
	for r := range objective {
		objective[r] = milp.Term{Var: f.Usage[r], Coef: 1}
	}
	if f.rodLimit > 0 {
		if err := m.AddConstraint("rod_limit", objective, milp.LessEq, float64(f.rodLimit)); err != nil {
			return nil, err
		}
	}
	if err := m.Minimize(objective); err != nil {
		return nil, err
	}
	return m, nil
}

func (f *Formulation) addVar(m *milp.Model, want milp.VarID, name string, lower, upper int) error {
	id, err := m.AddVar(name, lower, upper)
	if err != nil {
		return err
	}
	if id != want {
		return fmt.Errorf("%w: variable %s created as %d, laid out as %d", ErrInvariant, name, id, want)
	}
	return nil
}

// Assignment returns an all-zero value vector in the model's variable order.
func (f *Formulation) Assignment() []int {
	return make([]int, f.MaxRods*(1+f.NumItems()))
}
