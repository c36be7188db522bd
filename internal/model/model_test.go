package model

import (
	"errors"
	"testing"
	"time"
)

func sampleSolution() Solution {
	return Solution{
		StockLength: 10000,
		MaxRods:     4,
		LowerBound:  2,
		RodsUsed:    2,
		Items: []DemandItem{
			NewDemandItem("L", 6000, 1),
			NewDemandItem("S", 2000, 3),
		},
		Patterns: []Pattern{
			{Rod: 0, BarMarks: []string{"L", "S", "S"}, Used: 10000, Scrap: 0},
			{Rod: 1, BarMarks: []string{"S"}, Used: 2000, Scrap: 8000},
		},
	}
}

func TestDemandItemOversized(t *testing.T) {
	if !NewDemandItem("A", 5001, 1).Oversized(10000) {
		t.Error("5001 of 10000 should be oversized")
	}
	if NewDemandItem("B", 5000, 1).Oversized(10000) {
		t.Error("exactly half a rod is not oversized")
	}
}

func TestParseAlgorithm(t *testing.T) {
	for _, a := range Algorithms() {
		got, err := ParseAlgorithm(string(a))
		if err != nil || got != a {
			t.Errorf("ParseAlgorithm(%s) = %s, %v", a, got, err)
		}
	}
	if _, err := ParseAlgorithm("simplex"); err == nil {
		t.Error("expected error for unknown algorithm")
	}
}

func TestSettingsTimeLimit(t *testing.T) {
	s := DefaultSettings()
	s.TimeLimitSeconds = 1.5
	if s.TimeLimit() != 1500*time.Millisecond {
		t.Errorf("expected 1.5s, got %s", s.TimeLimit())
	}
}

func TestSolutionTotals(t *testing.T) {
	sol := sampleSolution()
	if sol.TotalScrap() != 8000 {
		t.Errorf("expected scrap 8000, got %.0f", sol.TotalScrap())
	}
	if sol.Efficiency() != 60 {
		t.Errorf("expected efficiency 60%%, got %.2f", sol.Efficiency())
	}
	if sol.Gap() != 0 {
		t.Errorf("expected gap 0, got %d", sol.Gap())
	}
	if sol.TotalCost(12.5) != 25 {
		t.Errorf("expected cost 25, got %.2f", sol.TotalCost(12.5))
	}
	counts := sol.PieceCounts()
	if counts["L"] != 1 || counts["S"] != 3 {
		t.Errorf("unexpected piece counts %v", counts)
	}
	if sol.Patterns[0].Efficiency() != 100 {
		t.Errorf("expected full rod efficiency 100%%, got %.2f", sol.Patterns[0].Efficiency())
	}
}

func TestSolutionVerifyAccepts(t *testing.T) {
	if err := sampleSolution().Verify(); err != nil {
		t.Fatalf("expected valid solution, got %v", err)
	}
}

func TestSolutionVerifyRejects(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Solution)
	}{
		{"short demand", func(s *Solution) {
			s.Patterns = s.Patterns[:1]
		}},
		{"over capacity", func(s *Solution) {
			s.Patterns[0].BarMarks = append(s.Patterns[0].BarMarks, "S")
			s.Patterns[0].Used = 12000
			s.Patterns[0].Scrap = -2000
		}},
		{"wrong scrap", func(s *Solution) {
			s.Patterns[1].Scrap = 7000
		}},
		{"unknown bar mark", func(s *Solution) {
			s.Patterns[1].BarMarks = []string{"X"}
		}},
		{"two oversized pieces", func(s *Solution) {
			s.StockLength = 20000
			s.Items = []DemandItem{NewDemandItem("L", 10001, 2)}
			s.Patterns = []Pattern{{Rod: 0, BarMarks: []string{"L", "L"}, Used: 20002, Scrap: -2}}
		}},
		{"beyond rod pool", func(s *Solution) {
			s.RodsUsed = 5
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sol := sampleSolution()
			tt.mutate(&sol)
			err := sol.Verify()
			if !errors.Is(err, ErrInvalidSolution) {
				t.Fatalf("expected ErrInvalidSolution, got %v", err)
			}
		})
	}
}

func TestNewProjectDefaults(t *testing.T) {
	p := NewProject()
	if p.Name != "Untitled" {
		t.Errorf("expected name Untitled, got %s", p.Name)
	}
	if p.Items == nil {
		t.Error("Items should not be nil")
	}
	if p.Settings != DefaultSettings() {
		t.Error("expected default settings")
	}
	if p.Result != nil {
		t.Error("new project should have no result")
	}
}
