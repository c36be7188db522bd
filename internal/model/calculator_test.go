package model

import (
	"math"
	"testing"
)

func TestCalculatePurchaseEstimateBasic(t *testing.T) {
	items := []DemandItem{
		{BarMark: "A", Length: 2500, Quantity: 6},
		{BarMark: "B", Length: 1200, Quantity: 5},
	}
	est := CalculatePurchaseEstimate(items, 10000, 10.0, 45.00)

	expectedLength := 2500.0*6 + 1200.0*5
	if math.Abs(est.TotalCutLength-expectedLength) > 0.1 {
		t.Errorf("expected total length %.1f, got %.1f", expectedLength, est.TotalCutLength)
	}
	if est.RodsNeededMin != 3 {
		t.Errorf("expected 3 rods minimum, got %d", est.RodsNeededMin)
	}
	// 2.1 rods * 1.1 = 2.31, the lower bound wins
	if est.RodsWithWaste != 3 {
		t.Errorf("expected 3 rods with waste, got %d", est.RodsWithWaste)
	}
	if est.EstimatedCost != 135.0 {
		t.Errorf("expected cost 135.00, got %.2f", est.EstimatedCost)
	}
}

func TestCalculatePurchaseEstimateWasteFactor(t *testing.T) {
	items := []DemandItem{{BarMark: "A", Length: 1000, Quantity: 95}}
	est := CalculatePurchaseEstimate(items, 10000, 20.0, 0)

	if est.RodsNeededMin != 10 {
		t.Errorf("expected 10 rods minimum, got %d", est.RodsNeededMin)
	}
	// 9.5 * 1.2 = 11.4 -> 12
	if est.RodsWithWaste != 12 {
		t.Errorf("expected 12 rods with waste, got %d", est.RodsWithWaste)
	}
	if est.EstimatedCost != 0 {
		t.Errorf("expected zero cost without pricing, got %.2f", est.EstimatedCost)
	}
}

func TestCalculatePurchaseEstimateZeroStock(t *testing.T) {
	items := []DemandItem{{BarMark: "A", Length: 1000, Quantity: 2}}
	est := CalculatePurchaseEstimate(items, 0, 10, 10)
	if est.RodsNeededMin != 0 || est.RodsWithWaste != 0 {
		t.Errorf("expected no rods for zero stock, got %+v", est)
	}
	if est.TotalCutLength != 2000 {
		t.Errorf("expected total length 2000, got %.1f", est.TotalCutLength)
	}
}

func TestCalculatePurchaseEstimateExactFit(t *testing.T) {
	items := []DemandItem{{BarMark: "Full", Length: 5000, Quantity: 2}}
	est := CalculatePurchaseEstimate(items, 10000, 0, 30.00)
	if est.RodsNeededMin != 1 {
		t.Errorf("expected exactly 1 rod, got %d", est.RodsNeededMin)
	}
}

func TestLowerBoundCountsOversizedPieces(t *testing.T) {
	// Three 6000 pieces fill 1.8 rods of material but need three rods.
	items := []DemandItem{{BarMark: "L", Length: 6000, Quantity: 3}}
	if lb := LowerBound(items, 10000); lb != 3 {
		t.Errorf("expected lower bound 3, got %d", lb)
	}
}

func TestLowerBoundFloatNoise(t *testing.T) {
	items := []DemandItem{{BarMark: "T", Length: 0.1, Quantity: 30}}
	if lb := LowerBound(items, 3); lb != 1 {
		t.Errorf("expected lower bound 1, got %d", lb)
	}
}
