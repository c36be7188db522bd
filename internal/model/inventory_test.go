package model

import (
	"testing"
)

func TestNewStockPresetWithPrice(t *testing.T) {
	sp := NewStockPresetWithPrice("Rebar 12m", 12000, 16, "B500B", 18.40)
	if sp.PricePerRod != 18.40 {
		t.Errorf("expected price 18.40, got %.2f", sp.PricePerRod)
	}
	if sp.Name != "Rebar 12m" {
		t.Errorf("expected name 'Rebar 12m', got %s", sp.Name)
	}
	if sp.Grade != "B500B" {
		t.Errorf("expected grade 'B500B', got %s", sp.Grade)
	}
	if len(sp.ID) != 8 {
		t.Errorf("expected 8 character id, got %q", sp.ID)
	}
}

func TestNewStockPresetDefaultZeroPrice(t *testing.T) {
	sp := NewStockPreset("No Price", 6000, 0, "S235")
	if sp.PricePerRod != 0 {
		t.Errorf("expected default price 0, got %.2f", sp.PricePerRod)
	}
}

func TestStockPresetApplyToSettings(t *testing.T) {
	s := DefaultSettings()
	s.RodPrice = 5

	NewStockPreset("Tube 6m", 6000, 0, "S235").ApplyToSettings(&s)
	if s.StockLength != 6000 || s.StockLabel != "Tube 6m" {
		t.Errorf("expected stock 6000 'Tube 6m', got %.0f %q", s.StockLength, s.StockLabel)
	}
	if s.RodPrice != 5 {
		t.Errorf("unpriced preset should keep rod price 5, got %.2f", s.RodPrice)
	}

	NewStockPresetWithPrice("Rebar 12m", 12000, 12, "B500B", 21).ApplyToSettings(&s)
	if s.RodPrice != 21 {
		t.Errorf("expected rod price 21, got %.2f", s.RodPrice)
	}
}

func TestInventoryLookupAndRemove(t *testing.T) {
	inv := DefaultInventory()
	if len(inv.Stocks) == 0 {
		t.Fatal("default inventory should not be empty")
	}

	first := inv.Stocks[0]
	if got := inv.FindStockByID(first.ID); got == nil || got.Name != first.Name {
		t.Fatalf("FindStockByID(%s) = %v", first.ID, got)
	}
	if got := inv.FindStockByName(first.Name); got == nil || got.ID != first.ID {
		t.Fatalf("FindStockByName(%s) = %v", first.Name, got)
	}
	if inv.FindStockByID("missing") != nil {
		t.Error("expected nil for unknown id")
	}

	names := inv.StockNames()
	if len(names) != len(inv.Stocks) {
		t.Errorf("expected %d names, got %d", len(inv.Stocks), len(names))
	}

	before := len(inv.Stocks)
	if !inv.RemoveStock(first.ID) {
		t.Fatal("expected RemoveStock to succeed")
	}
	if len(inv.Stocks) != before-1 {
		t.Errorf("expected %d stocks after removal, got %d", before-1, len(inv.Stocks))
	}
	if inv.RemoveStock(first.ID) {
		t.Error("second removal should report false")
	}

	inv.AddStock(first)
	if inv.FindStockByID(first.ID) == nil {
		t.Error("expected re-added stock to be found")
	}
}
