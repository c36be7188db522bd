package project

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/piwi3910/RodCut/internal/model"
)

// ErrEmptyProject is returned when a project file holds no demand.
var ErrEmptyProject = errors.New("project has no demand items")

// SaveProject writes a project, including its last solution, as JSON.
func SaveProject(path string, p model.Project) error {
	return writeJSON(path, p)
}

// LoadProject reads a project file. Settings missing from the file keep
// their defaults.
func LoadProject(path string) (model.Project, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return model.Project{}, fmt.Errorf("failed to read project: %w", err)
	}
	p := model.NewProject()
	if err := json.Unmarshal(data, &p); err != nil {
		return model.Project{}, fmt.Errorf("failed to parse project %s: %w", path, err)
	}
	if len(p.Items) == 0 {
		return model.Project{}, fmt.Errorf("%s: %w", path, ErrEmptyProject)
	}
	return p, nil
}
