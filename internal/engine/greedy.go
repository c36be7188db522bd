package engine

import (
	"fmt"

	"github.com/piwi3910/RodCut/internal/milp"
	"github.com/piwi3910/RodCut/internal/model"
)

// packing is a partial assignment of pieces to rods in the pool.
type packing struct {
	f         *Formulation
	fix       *Fixations
	counts    [][]int   // [rod][item]
	remaining []float64 // [rod] capacity left
	open      []bool    // [rod]
	placed    []int     // [item]
	rods      int       // open rod count
}

func newPacking(f *Formulation, fix *Fixations) (*packing, error) {
	p := &packing{
		f:         f,
		fix:       fix,
		counts:    make([][]int, f.MaxRods),
		remaining: make([]float64, f.MaxRods),
		open:      make([]bool, f.MaxRods),
		placed:    make([]int, f.NumItems()),
	}
	for r := range p.counts {
		p.counts[r] = make([]int, f.NumItems())
		p.remaining[r] = f.StockLength
	}

	// Fixed cuts go first and are never changed afterwards.
	for r := 0; r < f.MaxRods; r++ {
		for i := range f.Items {
			if v, ok := fix.Value(r, i); ok && v > 0 {
				if err := p.place(r, i, v); err != nil {
					return nil, err
				}
			}
		}
	}
	return p, nil
}

func (p *packing) place(r, i, n int) error {
	if !p.open[r] {
		p.open[r] = true
		p.rods++
	}
	p.counts[r][i] += n
	p.placed[i] += n
	p.remaining[r] -= float64(n) * p.f.Items[i].Length
	if p.remaining[r] < -model.LengthTolerance {
		return fmt.Errorf("%w: rod %d over capacity by %.3f", ErrInvariant, r, -p.remaining[r])
	}
	return nil
}

// fits reports whether one more piece of item i can go on rod r.
func (p *packing) fits(r, i int) bool {
	if p.counts[r][i] >= p.f.cutUpper[i] {
		return false
	}
	if _, fixed := p.fix.Value(r, i); fixed {
		return false
	}
	return p.remaining[r] >= p.f.Items[i].Length-model.LengthTolerance
}

// bestFit returns the open rod that piece i leaves with the least capacity,
// or -1.
func (p *packing) bestFit(i int) int {
	best := -1
	for r := 0; r < p.f.MaxRods; r++ {
		if !p.open[r] || !p.fits(r, i) {
			continue
		}
		if best < 0 || p.remaining[r] < p.remaining[best] {
			best = r
		}
	}
	return best
}

// firstFit returns the lowest open rod that takes piece i, or -1.
func (p *packing) firstFit(i int) int {
	for r := 0; r < p.f.MaxRods; r++ {
		if p.open[r] && p.fits(r, i) {
			return r
		}
	}
	return -1
}

// openRod returns the lowest unopened rod that takes piece i, or -1.
func (p *packing) openRod(i int) int {
	for r := 0; r < p.f.MaxRods; r++ {
		if !p.open[r] && p.fits(r, i) {
			return r
		}
	}
	return -1
}

func (p *packing) placeOne(i int, pick func(int) int) error {
	r := pick(i)
	if r < 0 {
		r = p.openRod(i)
	}
	if r < 0 {
		return fmt.Errorf("%w: rod pool of %d exhausted placing %q", ErrInvariant, p.f.MaxRods, p.f.Items[i].BarMark)
	}
	return p.place(r, i, 1)
}

// fillScore returns the mean squared fill ratio of the open rods.
func (p *packing) fillScore() float64 {
	if p.rods == 0 {
		return 0
	}
	var sum float64
	for r := 0; r < p.f.MaxRods; r++ {
		if !p.open[r] {
			continue
		}
		fill := (p.f.StockLength - p.remaining[r]) / p.f.StockLength
		sum += fill * fill
	}
	return sum / float64(p.rods)
}

func (p *packing) result(status milp.Status) *milp.Result {
	values := p.f.Assignment()
	for r := 0; r < p.f.MaxRods; r++ {
		if p.open[r] {
			values[p.f.Usage[r]] = 1
		}
		for i := range p.f.Items {
			values[p.f.Cuts[r][i]] = p.counts[r][i]
		}
	}
	return &milp.Result{Status: status, Objective: float64(p.rods), Values: values}
}

// Greedy packs the pieces best-fit decreasing on top of the fixed cuts.
// Items are taken in formulation order, which is longest first. The result
// is a feasible assignment in the formulation's variable layout.
func Greedy(f *Formulation, fix *Fixations) (*milp.Result, error) {
	p, err := newPacking(f, fix)
	if err != nil {
		return nil, err
	}
	for i, it := range f.Items {
		for p.placed[i] < it.Quantity {
			if err := p.placeOne(i, p.bestFit); err != nil {
				return nil, err
			}
		}
	}
	return p.result(milp.StatusFeasible), nil
}
