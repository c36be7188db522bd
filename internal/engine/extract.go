package engine

import (
	"fmt"

	"github.com/piwi3910/RodCut/internal/milp"
	"github.com/piwi3910/RodCut/internal/model"
)

// Extract turns a solved assignment into cutting patterns. Rods without
// cuts are dropped; RodsUsed is the sum of the usage indicators.
func Extract(f *Formulation, res *milp.Result) (model.Solution, error) {
	if res == nil {
		return model.Solution{}, fmt.Errorf("%w: no result to extract", ErrInvariant)
	}
	if want := f.MaxRods * (1 + f.NumItems()); len(res.Values) != want {
		return model.Solution{}, fmt.Errorf("%w: assignment has %d values, formulation needs %d", ErrInvariant, len(res.Values), want)
	}

	sol := model.Solution{
		StockLength: f.StockLength,
		Items:       f.Items,
		MaxRods:     f.MaxRods,
		Patterns:    []model.Pattern{},
	}

	for r := 0; r < f.MaxRods; r++ {
		used := res.Value(f.Usage[r])
		sol.RodsUsed += used

		var marks []string
		var length float64
		for i, it := range f.Items {
			n := res.Value(f.Cuts[r][i])
			for k := 0; k < n; k++ {
				marks = append(marks, it.BarMark)
			}
			length += float64(n) * it.Length
		}
		if len(marks) == 0 {
			continue
		}
		if used == 0 {
			return model.Solution{}, fmt.Errorf("%w: rod %d cuts %d pieces but is marked unused", ErrInconsistentSolution, r, len(marks))
		}

		sol.Patterns = append(sol.Patterns, model.Pattern{
			Rod:      r,
			BarMarks: marks,
			Used:     length,
			Scrap:    f.StockLength - length,
		})
	}
	return sol, nil
}
