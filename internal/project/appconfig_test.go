package project

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/piwi3910/RodCut/internal/model"
)

func TestSaveAndLoadAppConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sub", "config.json")

	cfg := model.DefaultAppConfig()
	cfg.DefaultStockLength = 12000
	cfg.DefaultAlgorithm = model.AlgorithmGreedy
	cfg.LogFormat = "json"
	cfg.AddRecentProject("/tmp/beams.json", 5)

	if err := SaveAppConfig(path, cfg); err != nil {
		t.Fatalf("SaveAppConfig failed: %v", err)
	}

	loaded, err := LoadAppConfig(path)
	if err != nil {
		t.Fatalf("LoadAppConfig failed: %v", err)
	}
	if loaded.DefaultStockLength != 12000 {
		t.Errorf("expected stock length 12000, got %f", loaded.DefaultStockLength)
	}
	if loaded.DefaultAlgorithm != model.AlgorithmGreedy {
		t.Errorf("expected greedy, got %s", loaded.DefaultAlgorithm)
	}
	if loaded.LogFormat != "json" {
		t.Errorf("expected json log format, got %s", loaded.LogFormat)
	}
	if len(loaded.RecentProjects) != 1 || loaded.RecentProjects[0] != "/tmp/beams.json" {
		t.Errorf("unexpected recent projects %v", loaded.RecentProjects)
	}
}

func TestLoadAppConfig_MissingFileReturnsDefaults(t *testing.T) {
	cfg, err := LoadAppConfig(filepath.Join(t.TempDir(), "nope.json"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.DefaultStockLength != model.DefaultSettings().StockLength {
		t.Errorf("expected default stock length, got %f", cfg.DefaultStockLength)
	}
	if cfg.RecentProjects == nil {
		t.Error("RecentProjects should never be nil")
	}
}

func TestLoadAppConfig_PartialFileKeepsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	if err := os.WriteFile(path, []byte(`{"default_stock_length": 6000}`), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadAppConfig(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.DefaultStockLength != 6000 {
		t.Errorf("expected 6000, got %f", cfg.DefaultStockLength)
	}
	if cfg.OutputDir != "output" || cfg.LogLevel != "info" {
		t.Errorf("expected defaults for unset fields, got %+v", cfg)
	}
	if cfg.RecentProjects == nil {
		t.Error("RecentProjects should never be nil")
	}
}

func TestLoadAppConfig_InvalidJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	if err := os.WriteFile(path, []byte("{broken"), 0644); err != nil {
		t.Fatal(err)
	}

	_, err := LoadAppConfig(path)
	if err == nil || !strings.Contains(err.Error(), "failed to parse config") {
		t.Fatalf("expected parse error, got %v", err)
	}
}

func TestDefaultConfigPath(t *testing.T) {
	path := DefaultConfigPath()
	if filepath.Base(path) != "config.json" {
		t.Errorf("expected config.json, got %s", path)
	}
	if filepath.Base(filepath.Dir(path)) != ".rodcut" {
		t.Errorf("expected .rodcut directory, got %s", path)
	}
}
