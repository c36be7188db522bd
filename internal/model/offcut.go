package model

import (
	"sort"

	"github.com/google/uuid"
)

// Offcut is a reusable remnant left on a rod after cutting.
type Offcut struct {
	ID          string  `json:"id"`
	StockLabel  string  `json:"stock_label"`   // Which stock it came from
	Rod         int     `json:"rod"`           // Rod index in the solution
	Length      float64 `json:"length"`        // Usable length
	PricePerRod float64 `json:"price_per_rod"` // Price proportional to length (0 if not set)
}

// ToStockPreset converts an offcut into a stock preset for reuse in future projects.
func (o Offcut) ToStockPreset() StockPreset {
	sp := NewStockPreset("Offcut "+o.StockLabel, o.Length, 0, "")
	sp.PricePerRod = o.PricePerRod
	return sp
}

// DetectOffcuts returns the scrap of every pattern at least minLength long,
// longest first. When pricePerRod is set, each offcut carries the price
// share of its length.
func DetectOffcuts(sol Solution, stockLabel string, minLength, pricePerRod float64) []Offcut {
	var offcuts []Offcut
	for _, p := range sol.Patterns {
		if p.Scrap < minLength || p.Scrap <= LengthTolerance {
			continue
		}
		o := Offcut{
			ID:         uuid.New().String()[:8],
			StockLabel: stockLabel,
			Rod:        p.Rod,
			Length:     p.Scrap,
		}
		if pricePerRod > 0 && sol.StockLength > 0 {
			o.PricePerRod = p.Scrap / sol.StockLength * pricePerRod
		}
		offcuts = append(offcuts, o)
	}

	sort.SliceStable(offcuts, func(i, j int) bool {
		return offcuts[i].Length > offcuts[j].Length
	})
	return offcuts
}

// TotalOffcutLength returns the combined length of all offcuts.
func TotalOffcutLength(offcuts []Offcut) float64 {
	var total float64
	for _, o := range offcuts {
		total += o.Length
	}
	return total
}
