package project

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/piwi3910/RodCut/internal/model"
)

func TestSaveAndLoadProject(t *testing.T) {
	path := filepath.Join(t.TempDir(), "beams.json")

	p := model.NewProject()
	p.Name = "Level 2 beams"
	p.Items = []model.DemandItem{
		model.NewDemandItem("B1", 6000, 3),
		model.NewDemandItem("B2", 3000, 2),
	}
	p.Settings.StockLength = 12000
	p.Result = &model.Solution{
		StockLength: 12000,
		Items:       p.Items,
		RodsUsed:    2,
		Patterns: []model.Pattern{
			{Rod: 0, BarMarks: []string{"B1", "B1"}, Used: 12000},
			{Rod: 1, BarMarks: []string{"B1", "B2", "B2"}, Used: 12000},
		},
	}

	if err := SaveProject(path, p); err != nil {
		t.Fatalf("SaveProject failed: %v", err)
	}

	loaded, err := LoadProject(path)
	if err != nil {
		t.Fatalf("LoadProject failed: %v", err)
	}
	if loaded.Name != "Level 2 beams" {
		t.Errorf("expected name to round-trip, got %q", loaded.Name)
	}
	if len(loaded.Items) != 2 || loaded.Items[1].BarMark != "B2" {
		t.Errorf("unexpected items %+v", loaded.Items)
	}
	if loaded.Settings.StockLength != 12000 {
		t.Errorf("expected stock length 12000, got %f", loaded.Settings.StockLength)
	}
	if loaded.Result == nil || loaded.Result.RodsUsed != 2 {
		t.Fatalf("expected saved result, got %+v", loaded.Result)
	}
	if err := loaded.Result.Verify(); err != nil {
		t.Errorf("loaded result no longer verifies: %v", err)
	}
}

func TestLoadProject_DefaultsForMissingSettings(t *testing.T) {
	path := filepath.Join(t.TempDir(), "minimal.json")
	content := `{"name": "minimal", "items": [{"bar_mark": "B1", "length": 4000, "quantity": 2}]}`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	p, err := LoadProject(path)
	if err != nil {
		t.Fatalf("LoadProject failed: %v", err)
	}
	if p.Settings != model.DefaultSettings() {
		t.Errorf("expected default settings, got %+v", p.Settings)
	}
	if p.Result != nil {
		t.Error("expected no result")
	}
}

func TestLoadProject_Empty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.json")
	if err := os.WriteFile(path, []byte(`{"name": "empty", "items": []}`), 0644); err != nil {
		t.Fatal(err)
	}

	_, err := LoadProject(path)
	if !errors.Is(err, ErrEmptyProject) {
		t.Fatalf("expected ErrEmptyProject, got %v", err)
	}
}

func TestLoadProject_Missing(t *testing.T) {
	if _, err := LoadProject(filepath.Join(t.TempDir(), "nope.json")); err == nil {
		t.Fatal("expected error for missing file")
	}
}
