package engine

import (
	"context"
	"fmt"

	"github.com/piwi3910/RodCut/internal/model"
)

// ComparisonScenario defines a named set of settings to compare.
type ComparisonScenario struct {
	Name     string
	Settings model.Settings
}

// ComparisonResult holds the solution and computed statistics for a single
// scenario. Err is set when the scenario failed; the other scenarios still run.
type ComparisonResult struct {
	Scenario     ComparisonScenario
	Solution     model.Solution
	RodsUsed     int
	TotalPieces  int
	WastePercent float64
	Err          error
}

// CompareScenarios runs optimization for each scenario and returns the
// results in scenario order. This enables side-by-side comparison of
// different algorithms, stock lengths and solver options.
func CompareScenarios(ctx context.Context, scenarios []ComparisonScenario, items []model.DemandItem, opts ...Option) []ComparisonResult {
	results := make([]ComparisonResult, 0, len(scenarios))

	for _, scenario := range scenarios {
		opt := New(scenario.Settings, opts...)
		sol, err := opt.Optimize(ctx, items)
		if err != nil {
			results = append(results, ComparisonResult{Scenario: scenario, Err: err})
			continue
		}

		totalPieces := 0
		for _, p := range sol.Patterns {
			totalPieces += len(p.BarMarks)
		}

		results = append(results, ComparisonResult{
			Scenario:     scenario,
			Solution:     sol,
			RodsUsed:     sol.RodsUsed,
			TotalPieces:  totalPieces,
			WastePercent: 100.0 - sol.Efficiency(),
		})
	}

	return results
}

// BuildDefaultScenarios generates a set of comparison scenarios based on
// the current settings, varying key parameters to show what-if alternatives.
func BuildDefaultScenarios(base model.Settings) []ComparisonScenario {
	scenarios := []ComparisonScenario{
		{
			Name:     "Current Settings",
			Settings: base,
		},
	}

	// The other algorithms on the same stock
	for _, algo := range model.Algorithms() {
		if algo == base.Algorithm {
			continue
		}
		alt := base
		alt.Algorithm = algo
		scenarios = append(scenarios, ComparisonScenario{
			Name:     fmt.Sprintf("%s algorithm", algo),
			Settings: alt,
		})
	}

	// Exact solve with the symmetry fixation toggled
	if base.Algorithm == model.AlgorithmExact {
		toggled := base
		toggled.SymmetryBreaking = !base.SymmetryBreaking
		name := "Exact without oversized fixation"
		if toggled.SymmetryBreaking {
			name = "Exact with oversized fixation"
		}
		scenarios = append(scenarios, ComparisonScenario{Name: name, Settings: toggled})
	}

	return scenarios
}

// CompareStockLengths builds one scenario per candidate stock length, all
// other settings taken from base.
func CompareStockLengths(base model.Settings, lengths []float64) []ComparisonScenario {
	scenarios := make([]ComparisonScenario, 0, len(lengths))
	for _, l := range lengths {
		s := base
		s.StockLength = l
		s.StockLabel = fmt.Sprintf("%g", l)
		scenarios = append(scenarios, ComparisonScenario{
			Name:     fmt.Sprintf("Stock %g", l),
			Settings: s,
		})
	}
	return scenarios
}
