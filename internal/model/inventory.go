package model

import "github.com/google/uuid"

// StockPreset represents a reusable stock rod definition.
type StockPreset struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	Length      float64 `json:"length"`
	Diameter    float64 `json:"diameter"` // Nominal bar diameter (mm), 0 if not applicable
	Grade       string  `json:"grade"`
	PricePerRod float64 `json:"price_per_rod"` // 0 if not set
}

// NewStockPreset creates a new StockPreset with a generated ID.
func NewStockPreset(name string, length, diameter float64, grade string) StockPreset {
	return StockPreset{
		ID:       uuid.New().String()[:8],
		Name:     name,
		Length:   length,
		Diameter: diameter,
		Grade:    grade,
	}
}

// NewStockPresetWithPrice creates a new StockPreset carrying a rod price.
func NewStockPresetWithPrice(name string, length, diameter float64, grade string, price float64) StockPreset {
	sp := NewStockPreset(name, length, diameter, grade)
	sp.PricePerRod = price
	return sp
}

// ApplyToSettings selects this preset as the stock for a solve.
func (sp StockPreset) ApplyToSettings(s *Settings) {
	s.StockLength = sp.Length
	s.StockLabel = sp.Name
	if sp.PricePerRod > 0 {
		s.RodPrice = sp.PricePerRod
	}
}

// Inventory holds the user's saved stock presets.
type Inventory struct {
	Stocks []StockPreset `json:"stocks"`
}

// DefaultInventory returns an inventory populated with common defaults.
func DefaultInventory() Inventory {
	return Inventory{
		Stocks: []StockPreset{
			NewStockPreset("Rebar B500B 12m", 12000, 12, "B500B"),
			NewStockPreset("Rebar B500B 10m", 10000, 12, "B500B"),
			NewStockPreset("Rebar B500B 6m", 6000, 10, "B500B"),
			NewStockPreset("Steel Tube 6m", 6000, 0, "S235"),
			NewStockPreset("Aluminium Profile 6.5m", 6500, 0, "6060"),
			NewStockPreset("Timber 4.8m", 4800, 0, "C24"),
		},
	}
}

// FindStockByID returns a pointer to the stock preset with the given ID, or nil.
func (inv *Inventory) FindStockByID(id string) *StockPreset {
	for i := range inv.Stocks {
		if inv.Stocks[i].ID == id {
			return &inv.Stocks[i]
		}
	}
	return nil
}

// FindStockByName returns a pointer to the first stock preset with the given name, or nil.
func (inv *Inventory) FindStockByName(name string) *StockPreset {
	for i := range inv.Stocks {
		if inv.Stocks[i].Name == name {
			return &inv.Stocks[i]
		}
	}
	return nil
}

// StockNames returns a list of stock preset names.
func (inv *Inventory) StockNames() []string {
	names := make([]string, len(inv.Stocks))
	for i, s := range inv.Stocks {
		names[i] = s.Name
	}
	return names
}

// AddStock appends a preset to the inventory.
func (inv *Inventory) AddStock(sp StockPreset) {
	inv.Stocks = append(inv.Stocks, sp)
}

// RemoveStock deletes the preset with the given ID and reports whether one was removed.
func (inv *Inventory) RemoveStock(id string) bool {
	for i := range inv.Stocks {
		if inv.Stocks[i].ID == id {
			inv.Stocks = append(inv.Stocks[:i], inv.Stocks[i+1:]...)
			return true
		}
	}
	return false
}
