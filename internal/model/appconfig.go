package model

// AppConfig holds application-wide preferences and default settings.
type AppConfig struct {
	// Default optimizer settings applied to new projects
	DefaultStockLength      float64   `json:"default_stock_length"`
	DefaultStockLabel       string    `json:"default_stock_label"`
	DefaultAlgorithm        Algorithm `json:"default_algorithm"`
	DefaultTimeLimitSeconds float64   `json:"default_time_limit_seconds"`
	DefaultSymmetryBreaking bool      `json:"default_symmetry_breaking"`
	DefaultCutoff           bool      `json:"default_cutoff"`
	DefaultRodPrice         float64   `json:"default_rod_price"`
	DefaultMinOffcutLength  float64   `json:"default_min_offcut_length"`

	// Application preferences
	OutputDir      string   `json:"output_dir"`  // where solve writes its exports
	LogFormat      string   `json:"log_format"`  // "text" or "json"
	LogLevel       string   `json:"log_level"`   // "debug", "info", "warn", "error"
	RecentProjects []string `json:"recent_projects"`
}

// DefaultAppConfig returns an AppConfig populated with sensible defaults
// matching the values from DefaultSettings().
func DefaultAppConfig() AppConfig {
	defaults := DefaultSettings()
	return AppConfig{
		DefaultStockLength:      defaults.StockLength,
		DefaultStockLabel:       defaults.StockLabel,
		DefaultAlgorithm:        defaults.Algorithm,
		DefaultTimeLimitSeconds: defaults.TimeLimitSeconds,
		DefaultSymmetryBreaking: defaults.SymmetryBreaking,
		DefaultCutoff:           defaults.Cutoff,
		DefaultRodPrice:         defaults.RodPrice,
		DefaultMinOffcutLength:  defaults.MinOffcutLength,
		OutputDir:               "output",
		LogFormat:               "text",
		LogLevel:                "info",
		RecentProjects:          []string{},
	}
}

// ApplyToSettings copies the default values from AppConfig into s.
// This is used when creating a new project so it inherits the user's saved defaults.
func (c AppConfig) ApplyToSettings(s *Settings) {
	s.StockLength = c.DefaultStockLength
	s.StockLabel = c.DefaultStockLabel
	s.Algorithm = c.DefaultAlgorithm
	s.TimeLimitSeconds = c.DefaultTimeLimitSeconds
	s.SymmetryBreaking = c.DefaultSymmetryBreaking
	s.Cutoff = c.DefaultCutoff
	s.RodPrice = c.DefaultRodPrice
	s.MinOffcutLength = c.DefaultMinOffcutLength
}

// AddRecentProject records path as the most recent project, keeping at most
// max entries and dropping earlier occurrences of the same path.
func (c *AppConfig) AddRecentProject(path string, max int) {
	recent := []string{path}
	for _, p := range c.RecentProjects {
		if p != path && len(recent) < max {
			recent = append(recent, p)
		}
	}
	c.RecentProjects = recent
}
