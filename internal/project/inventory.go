package project

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/piwi3910/RodCut/internal/model"
)

// DefaultInventoryPath returns ~/.rodcut/inventory.json.
func DefaultInventoryPath() string {
	return filepath.Join(DefaultConfigDir(), "inventory.json")
}

// SaveInventory writes the stock presets to the specified JSON file.
func SaveInventory(path string, inv model.Inventory) error {
	return writeJSON(path, inv)
}

// LoadInventory reads the stock presets from the specified JSON file.
// If the file does not exist, it returns the default inventory and saves it.
func LoadInventory(path string) (model.Inventory, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			inv := model.DefaultInventory()
			if saveErr := SaveInventory(path, inv); saveErr != nil {
				return inv, saveErr
			}
			return inv, nil
		}
		return model.Inventory{}, err
	}
	var inv model.Inventory
	if err := json.Unmarshal(data, &inv); err != nil {
		return model.Inventory{}, fmt.Errorf("failed to parse inventory %s: %w", path, err)
	}
	return inv, nil
}

// LoadOrCreateInventory loads the inventory from the default path,
// creating it with the default presets when missing.
func LoadOrCreateInventory() (model.Inventory, string, error) {
	path := DefaultInventoryPath()
	inv, err := LoadInventory(path)
	return inv, path, err
}

// ImportInventory merges the presets of the JSON file at path into
// existing. Presets whose ID is already present are skipped.
func ImportInventory(path string, existing model.Inventory) (model.Inventory, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return existing, err
	}
	var imported model.Inventory
	if err := json.Unmarshal(data, &imported); err != nil {
		return existing, fmt.Errorf("failed to parse inventory %s: %w", path, err)
	}

	stockIDs := make(map[string]bool, len(existing.Stocks))
	for _, s := range existing.Stocks {
		stockIDs[s.ID] = true
	}
	for _, s := range imported.Stocks {
		if !stockIDs[s.ID] {
			existing.Stocks = append(existing.Stocks, s)
			stockIDs[s.ID] = true
		}
	}
	return existing, nil
}
