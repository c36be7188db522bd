package model

import (
	"errors"
	"fmt"
	"sort"
	"time"
)

// LengthTolerance absorbs floating point noise when lengths are summed.
const LengthTolerance = 1e-6

// DemandItem is one required piece type: a bar mark, the length to cut and
// how many pieces are needed. Lengths share the unit of the stock length.
type DemandItem struct {
	BarMark  string  `json:"bar_mark"`
	Length   float64 `json:"length"`
	Quantity int     `json:"quantity"`
}

func NewDemandItem(barMark string, length float64, qty int) DemandItem {
	return DemandItem{BarMark: barMark, Length: length, Quantity: qty}
}

// Oversized reports whether the piece takes more than half of a rod, so at
// most one such piece fits per rod.
func (d DemandItem) Oversized(stockLength float64) bool {
	return d.Length > stockLength/2
}

// TotalLength returns length × quantity.
func (d DemandItem) TotalLength() float64 {
	return d.Length * float64(d.Quantity)
}

// StockRod is a candidate unit of stock in the rod pool.
type StockRod struct {
	Index  int     `json:"index"`
	Length float64 `json:"length"`
}

// Algorithm selects how cutting patterns are found.
type Algorithm string

const (
	AlgorithmExact   Algorithm = "exact"   // MILP formulation handed to a solver backend
	AlgorithmGreedy  Algorithm = "greedy"  // Best-fit decreasing (fast, not proven optimal)
	AlgorithmGenetic Algorithm = "genetic" // Genetic search over piece orderings
)

// Algorithms lists the supported algorithms.
func Algorithms() []Algorithm {
	return []Algorithm{AlgorithmExact, AlgorithmGreedy, AlgorithmGenetic}
}

// ParseAlgorithm validates an algorithm name.
func ParseAlgorithm(s string) (Algorithm, error) {
	for _, a := range Algorithms() {
		if string(a) == s {
			return a, nil
		}
	}
	return "", fmt.Errorf("unknown algorithm %q", s)
}

// Settings holds the optimizer configuration for one solve.
type Settings struct {
	StockLength      float64   `json:"stock_length"`       // Length of one stock rod
	StockLabel       string    `json:"stock_label"`        // Display name of the stock
	Algorithm        Algorithm `json:"algorithm"`          // exact, greedy or genetic
	TimeLimitSeconds float64   `json:"time_limit_seconds"` // Solver deadline, 0 = none
	SymmetryBreaking bool      `json:"symmetry_breaking"`  // Pre-fix oversized pieces to dedicated rods
	Cutoff           bool      `json:"cutoff"`             // Bound the rod count by a greedy packing
	GeneticSeed      int64     `json:"genetic_seed"`       // Seed for the genetic search
	RodPrice         float64   `json:"rod_price"`          // Price of one stock rod, 0 = unknown
	MinOffcutLength  float64   `json:"min_offcut_length"`  // Scrap at least this long is a reusable offcut
}

// TimeLimit returns the solver deadline as a duration.
func (s Settings) TimeLimit() time.Duration {
	return time.Duration(s.TimeLimitSeconds * float64(time.Second))
}

func DefaultSettings() Settings {
	return Settings{
		StockLength:      10000,
		StockLabel:       "Rebar 10m",
		Algorithm:        AlgorithmExact,
		TimeLimitSeconds: 60,
		SymmetryBreaking: true,
		Cutoff:           false,
		GeneticSeed:      42,
		RodPrice:         0,
		MinOffcutLength:  500,
	}
}

// Pattern is the set of pieces cut from one rod.
type Pattern struct {
	Rod      int      `json:"rod"`     // Rod index in the pool
	BarMarks []string `json:"pattern"` // One entry per piece, in item order
	Used     float64  `json:"used"`    // Sum of cut lengths
	Scrap    float64  `json:"scrap"`   // Stock length minus Used
}

// Counts returns how many pieces of each bar mark the pattern holds.
func (p Pattern) Counts() map[string]int {
	counts := make(map[string]int)
	for _, bm := range p.BarMarks {
		counts[bm]++
	}
	return counts
}

// Efficiency returns the used share of the rod as a percentage.
func (p Pattern) Efficiency() float64 {
	total := p.Used + p.Scrap
	if total == 0 {
		return 0
	}
	return p.Used / total * 100.0
}

// Solution is the outcome of one solve.
type Solution struct {
	RunID       string       `json:"run_id"`
	Algorithm   Algorithm    `json:"algorithm"`
	StockLength float64      `json:"stock_length"`
	Items       []DemandItem `json:"items"`       // Normalized demand, longest first
	MaxRods     int          `json:"max_rods"`    // Size of the rod pool
	LowerBound  int          `json:"lower_bound"` // Material lower bound on the rod count
	RodsUsed    int          `json:"rods_used"`
	Optimal     bool         `json:"optimal"` // Rod count proven minimal
	Patterns    []Pattern    `json:"patterns"`
	Duration    float64      `json:"duration_seconds"`
}

// TotalScrap returns the scrap summed over all patterns.
func (s Solution) TotalScrap() float64 {
	var total float64
	for _, p := range s.Patterns {
		total += p.Scrap
	}
	return total
}

// Efficiency returns overall material usage as a percentage.
func (s Solution) Efficiency() float64 {
	var used, total float64
	for _, p := range s.Patterns {
		used += p.Used
		total += p.Used + p.Scrap
	}
	if total == 0 {
		return 0
	}
	return used / total * 100.0
}

// TotalCost returns the price of the rods the solution consumes.
func (s Solution) TotalCost(pricePerRod float64) float64 {
	return float64(s.RodsUsed) * pricePerRod
}

// Gap returns how many rods the solution uses above the lower bound.
func (s Solution) Gap() int {
	return s.RodsUsed - s.LowerBound
}

// PieceCounts returns how many pieces of each bar mark the solution cuts.
func (s Solution) PieceCounts() map[string]int {
	counts := make(map[string]int)
	for _, p := range s.Patterns {
		for _, bm := range p.BarMarks {
			counts[bm]++
		}
	}
	return counts
}

// ErrInvalidSolution is returned by Verify.
var ErrInvalidSolution = errors.New("invalid solution")

// Verify checks that s covers the demand of its items, that no pattern
// exceeds the stock length, that scrap figures add up, and that no two
// oversized pieces share a rod.
func (s Solution) Verify() error {
	byMark := make(map[string]DemandItem, len(s.Items))
	for _, it := range s.Items {
		byMark[it.BarMark] = it
	}

	for _, p := range s.Patterns {
		var used float64
		oversized := 0
		for _, bm := range p.BarMarks {
			it, ok := byMark[bm]
			if !ok {
				return fmt.Errorf("%w: rod %d holds unknown bar mark %q", ErrInvalidSolution, p.Rod, bm)
			}
			used += it.Length
			if it.Oversized(s.StockLength) {
				oversized++
			}
		}
		if used > s.StockLength+LengthTolerance {
			return fmt.Errorf("%w: rod %d cuts %.3f from stock %.3f", ErrInvalidSolution, p.Rod, used, s.StockLength)
		}
		if diff := p.Used - used; diff > LengthTolerance || diff < -LengthTolerance {
			return fmt.Errorf("%w: rod %d reports %.3f used, pieces sum to %.3f", ErrInvalidSolution, p.Rod, p.Used, used)
		}
		if diff := p.Scrap - (s.StockLength - used); diff > LengthTolerance || diff < -LengthTolerance {
			return fmt.Errorf("%w: rod %d scrap %.3f does not match", ErrInvalidSolution, p.Rod, p.Scrap)
		}
		if oversized > 1 {
			return fmt.Errorf("%w: rod %d holds %d oversized pieces", ErrInvalidSolution, p.Rod, oversized)
		}
	}

	counts := s.PieceCounts()
	marks := make([]string, 0, len(byMark))
	for bm := range byMark {
		marks = append(marks, bm)
	}
	sort.Strings(marks)
	for _, bm := range marks {
		if counts[bm] < byMark[bm].Quantity {
			return fmt.Errorf("%w: %q cut %d times, %d required", ErrInvalidSolution, bm, counts[bm], byMark[bm].Quantity)
		}
	}

	if s.MaxRods > 0 && s.RodsUsed > s.MaxRods {
		return fmt.Errorf("%w: %d rods used, pool holds %d", ErrInvalidSolution, s.RodsUsed, s.MaxRods)
	}
	return nil
}

// Project ties everything together for save/load.
type Project struct {
	Name     string       `json:"name"`
	Items    []DemandItem `json:"items"`
	Settings Settings     `json:"settings"`
	Result   *Solution    `json:"result,omitempty"`
}

func NewProject() Project {
	return Project{
		Name:     "Untitled",
		Items:    []DemandItem{},
		Settings: DefaultSettings(),
	}
}
