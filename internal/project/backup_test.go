package project

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/piwi3910/RodCut/internal/model"
)

func TestExportAndImportAllData(t *testing.T) {
	path := filepath.Join(t.TempDir(), "backup.json")

	cfg := model.DefaultAppConfig()
	cfg.DefaultRodPrice = 21.5
	cfg.OutputDir = "cuts"

	inv := model.DefaultInventory()
	inv.AddStock(model.NewStockPresetWithPrice("Rebar 14m", 14000, 16, "B500B", 30))

	if err := ExportAllData(path, cfg, inv); err != nil {
		t.Fatalf("ExportAllData failed: %v", err)
	}

	backup, err := ImportAllData(path)
	if err != nil {
		t.Fatalf("ImportAllData failed: %v", err)
	}

	if backup.Version != BackupVersion {
		t.Errorf("expected version %s, got %s", BackupVersion, backup.Version)
	}
	if backup.CreatedAt == "" {
		t.Error("expected non-empty CreatedAt")
	}
	if backup.Config.DefaultRodPrice != 21.5 {
		t.Errorf("expected DefaultRodPrice=21.5, got %f", backup.Config.DefaultRodPrice)
	}
	if backup.Config.OutputDir != "cuts" {
		t.Errorf("expected OutputDir=cuts, got %s", backup.Config.OutputDir)
	}
	if len(backup.Inventory.Stocks) != len(inv.Stocks) {
		t.Errorf("expected %d presets, got %d", len(inv.Stocks), len(backup.Inventory.Stocks))
	}
	if backup.Inventory.FindStockByName("Rebar 14m") == nil {
		t.Error("expected the added preset in the backup")
	}
}

func TestImportAllDataMissingFile(t *testing.T) {
	_, err := ImportAllData(filepath.Join(t.TempDir(), "nope.json"))
	if err == nil {
		t.Fatal("expected error for missing file")
	}
}

func TestImportAllDataInvalidJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.json")
	if err := os.WriteFile(path, []byte("{not json}"), 0644); err != nil {
		t.Fatal(err)
	}

	if _, err := ImportAllData(path); err == nil {
		t.Fatal("expected error for invalid JSON")
	}
}

func TestImportAllDataMissingVersion(t *testing.T) {
	path := filepath.Join(t.TempDir(), "noversion.json")
	if err := os.WriteFile(path, []byte(`{"config": {}}`), 0644); err != nil {
		t.Fatal(err)
	}

	if _, err := ImportAllData(path); err == nil {
		t.Fatal("expected error for backup without version")
	}
}

func TestImportAllDataNilRecentProjects(t *testing.T) {
	path := filepath.Join(t.TempDir(), "old.json")
	content := `{"version": "1.0.0", "created_at": "2026-01-01T00:00:00Z", "config": {"default_stock_length": 10000}}`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	backup, err := ImportAllData(path)
	if err != nil {
		t.Fatalf("ImportAllData failed: %v", err)
	}
	if backup.Config.RecentProjects == nil {
		t.Error("RecentProjects should never be nil")
	}
}
