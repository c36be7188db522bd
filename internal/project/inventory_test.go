package project

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/piwi3910/RodCut/internal/model"
)

func TestSaveAndLoadInventory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "inventory.json")

	inv := model.Inventory{Stocks: []model.StockPreset{
		model.NewStockPresetWithPrice("Rebar 12m", 12000, 16, "B500B", 24),
	}}
	if err := SaveInventory(path, inv); err != nil {
		t.Fatalf("SaveInventory failed: %v", err)
	}

	loaded, err := LoadInventory(path)
	if err != nil {
		t.Fatalf("LoadInventory failed: %v", err)
	}
	if len(loaded.Stocks) != 1 {
		t.Fatalf("expected 1 preset, got %d", len(loaded.Stocks))
	}
	got := loaded.Stocks[0]
	if got.ID != inv.Stocks[0].ID || got.Length != 12000 || got.PricePerRod != 24 {
		t.Errorf("preset not round-tripped: %+v", got)
	}
}

func TestLoadInventory_MissingFileCreatesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "inventory.json")

	inv, err := LoadInventory(path)
	if err != nil {
		t.Fatalf("LoadInventory failed: %v", err)
	}
	if len(inv.Stocks) != len(model.DefaultInventory().Stocks) {
		t.Errorf("expected default presets, got %d", len(inv.Stocks))
	}
	if _, err := os.Stat(path); err != nil {
		t.Errorf("expected default inventory to be saved: %v", err)
	}
}

func TestLoadInventory_InvalidJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "inventory.json")
	if err := os.WriteFile(path, []byte("[]x"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadInventory(path); err == nil {
		t.Fatal("expected error for invalid JSON")
	}
}

func TestImportInventory_MergesByID(t *testing.T) {
	dir := t.TempDir()
	existing := model.DefaultInventory()

	extra := model.NewStockPreset("Rebar 14m", 14000, 20, "B500B")
	imported := model.Inventory{Stocks: []model.StockPreset{existing.Stocks[0], extra}}
	path := filepath.Join(dir, "import.json")
	if err := SaveInventory(path, imported); err != nil {
		t.Fatal(err)
	}

	merged, err := ImportInventory(path, existing)
	if err != nil {
		t.Fatalf("ImportInventory failed: %v", err)
	}
	if len(merged.Stocks) != len(model.DefaultInventory().Stocks)+1 {
		t.Errorf("expected one new preset, got %d total", len(merged.Stocks))
	}
	if merged.FindStockByID(extra.ID) == nil {
		t.Error("expected imported preset to be merged")
	}
}

func TestImportInventory_MissingFileKeepsExisting(t *testing.T) {
	existing := model.DefaultInventory()

	merged, err := ImportInventory(filepath.Join(t.TempDir(), "nope.json"), existing)
	if err == nil {
		t.Fatal("expected error for missing file")
	}
	if len(merged.Stocks) != len(existing.Stocks) {
		t.Errorf("existing inventory should be returned unchanged")
	}
}

func TestDefaultInventoryPath(t *testing.T) {
	if got := filepath.Base(DefaultInventoryPath()); got != "inventory.json" {
		t.Errorf("expected inventory.json, got %s", got)
	}
}
