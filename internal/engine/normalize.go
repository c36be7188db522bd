package engine

import (
	"math"
	"sort"
	"strconv"

	"github.com/piwi3910/RodCut/internal/model"
)

// floorEpsilon absorbs representation error when dividing the stock length
// by a piece length, so 10000/2000 counts as 5 pieces and not 4.
const floorEpsilon = 1e-9

// Normalized is validated demand in the order every later stage relies on.
type Normalized struct {
	Items       []model.DemandItem // longest first, ties by bar mark
	StockLength float64
	MaxRods     int // size of the rod pool
}

// Oversized returns the indexes into Items of pieces longer than half a rod.
// They form a prefix of Items because of the ordering.
func (n Normalized) Oversized() []int {
	var idx []int
	for i, it := range n.Items {
		if it.Oversized(n.StockLength) {
			idx = append(idx, i)
		}
	}
	return idx
}

// PiecesPerRod returns how many copies of a piece fit on one rod.
func PiecesPerRod(length, stockLength float64) int {
	return int(math.Floor(stockLength/length + floorEpsilon))
}

// Normalize validates items against stockLength and returns them sorted
// descending by length together with the rod pool bound
// Σ ceil(quantity / piecesPerRod). The input slice is not modified.
func Normalize(items []model.DemandItem, stockLength float64) (Normalized, error) {
	if math.IsNaN(stockLength) || math.IsInf(stockLength, 0) || stockLength <= 0 {
		return Normalized{}, &ValidationError{Field: "stock_length", Reason: "must be a positive finite number, got " + formatLength(stockLength)}
	}
	if len(items) == 0 {
		return Normalized{}, &ValidationError{Field: "items", Reason: "no demand items"}
	}

	seen := make(map[string]bool, len(items))
	for _, it := range items {
		if err := validateItem(it, stockLength); err != nil {
			return Normalized{}, err
		}
		if seen[it.BarMark] {
			return Normalized{}, &ValidationError{Field: "bar_mark", BarMark: it.BarMark, Reason: "duplicate bar mark"}
		}
		seen[it.BarMark] = true
	}

	sorted := SortByLength(items)

	maxRods := 0
	for _, it := range sorted {
		per := PiecesPerRod(it.Length, stockLength)
		maxRods += (it.Quantity + per - 1) / per
	}

	return Normalized{Items: sorted, StockLength: stockLength, MaxRods: maxRods}, nil
}

func validateItem(it model.DemandItem, stockLength float64) error {
	switch {
	case it.BarMark == "":
		return &ValidationError{Field: "bar_mark", Reason: "empty bar mark"}
	case math.IsNaN(it.Length) || math.IsInf(it.Length, 0):
		return &ValidationError{Field: "length", BarMark: it.BarMark, Reason: "not a finite number"}
	case it.Length <= 0:
		return &ValidationError{Field: "length", BarMark: it.BarMark, Reason: "must be positive, got " + formatLength(it.Length)}
	case it.Length > stockLength:
		return &ValidationError{Field: "length", BarMark: it.BarMark, Reason: formatLength(it.Length) + " exceeds stock length " + formatLength(stockLength)}
	case it.Quantity <= 0:
		return &ValidationError{Field: "quantity", BarMark: it.BarMark, Reason: "must be positive, got " + strconv.Itoa(it.Quantity)}
	}
	return nil
}

// SortByLength returns a copy of items ordered longest first. Equal lengths
// are ordered by bar mark so the result does not depend on input order.
func SortByLength(items []model.DemandItem) []model.DemandItem {
	sorted := make([]model.DemandItem, len(items))
	copy(sorted, items)
	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].Length != sorted[j].Length {
			return sorted[i].Length > sorted[j].Length
		}
		return sorted[i].BarMark < sorted[j].BarMark
	})
	return sorted
}

func formatLength(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}
