package model

import "math"

// PurchaseEstimate holds the results of a rod purchasing calculation.
type PurchaseEstimate struct {
	TotalCutLength  float64 `json:"total_cut_length"`  // Sum of length × quantity over all items
	StockLength     float64 `json:"stock_length"`      // Length of one stock rod
	RodsNeededExact float64 `json:"rods_needed_exact"` // Exact fractional number of rods
	OversizedPieces int     `json:"oversized_pieces"`  // Pieces longer than half a rod, one rod each
	RodsNeededMin   int     `json:"rods_needed_min"`   // Lower bound on the rod count
	RodsWithWaste   int     `json:"rods_with_waste"`   // Recommended rods including waste factor
	WastePercent    float64 `json:"waste_percent"`     // Waste factor applied (e.g., 10 for 10%)
	PricePerRod     float64 `json:"price_per_rod"`     // Price used for estimation
	EstimatedCost   float64 `json:"estimated_cost"`    // Total cost if pricing available
}

// LowerBound returns the minimum number of rods any cutting plan needs: the
// larger of the material bound ceil(Σ length·qty / stock) and the number of
// oversized pieces, which can never share a rod.
func LowerBound(items []DemandItem, stockLength float64) int {
	if stockLength <= 0 {
		return 0
	}
	var total float64
	oversized := 0
	for _, it := range items {
		total += it.TotalLength()
		if it.Oversized(stockLength) {
			oversized += it.Quantity
		}
	}
	lb := int(math.Ceil(total/stockLength - LengthTolerance))
	if oversized > lb {
		lb = oversized
	}
	return lb
}

// CalculatePurchaseEstimate computes how many rods to buy for a given cut list.
// It applies an additional waste percentage factor on top of the lower bound.
func CalculatePurchaseEstimate(items []DemandItem, stockLength, wastePercent, pricePerRod float64) PurchaseEstimate {
	var total float64
	oversized := 0
	for _, it := range items {
		total += it.TotalLength()
		if stockLength > 0 && it.Oversized(stockLength) {
			oversized += it.Quantity
		}
	}

	if stockLength <= 0 {
		return PurchaseEstimate{
			TotalCutLength: total,
			WastePercent:   wastePercent,
			PricePerRod:    pricePerRod,
		}
	}

	exact := total / stockLength
	minRods := LowerBound(items, stockLength)

	// Apply waste factor
	wasteFactor := 1.0 + (wastePercent / 100.0)
	withWaste := int(math.Ceil(exact*wasteFactor - LengthTolerance))
	if withWaste < minRods {
		withWaste = minRods
	}

	return PurchaseEstimate{
		TotalCutLength:  total,
		StockLength:     stockLength,
		RodsNeededExact: exact,
		OversizedPieces: oversized,
		RodsNeededMin:   minRods,
		RodsWithWaste:   withWaste,
		WastePercent:    wastePercent,
		PricePerRod:     pricePerRod,
		EstimatedCost:   float64(withWaste) * pricePerRod,
	}
}
