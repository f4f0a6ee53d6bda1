// Package config provides configuration utilities for the application.
package config

import (
	"fmt"
	"time"

	"github.com/spf13/viper"

	"github.com/paperledger/bankstat/internal/common"
)

// ImportConfig holds the tunables of the import flow. Values come from the
// config file or BANKSTAT_ environment variables via Viper, with sensible
// defaults for everything.
type ImportConfig struct {
	DatabasePath        string
	DuplicateWindow     time.Duration
	FuzzyThreshold      float64
	HistoryThreshold    float64
	HistoryLimit        int
	AllowDuplicatesFlag bool
}

// LoadImportConfig loads the import configuration from Viper.
func LoadImportConfig() (*ImportConfig, error) {
	cfg := &ImportConfig{
		DatabasePath:     ExpandPath(viper.GetString("database.path")),
		DuplicateWindow:  24 * time.Hour,
		FuzzyThreshold:   0.80,
		HistoryThreshold: 0.80,
		HistoryLimit:     500,
	}

	if cfg.DatabasePath == "" {
		cfg.DatabasePath = ExpandPath("~/.local/share/bankstat/bankstat.db")
	}

	if hours := viper.GetInt("import.duplicate_window_hours"); hours > 0 {
		cfg.DuplicateWindow = time.Duration(hours) * time.Hour
	}

	if v := viper.GetFloat64("import.fuzzy_threshold"); v > 0 {
		cfg.FuzzyThreshold = v
	}

	if v := viper.GetFloat64("import.history_threshold"); v > 0 {
		cfg.HistoryThreshold = v
	}

	if v := viper.GetInt("import.history_limit"); v > 0 {
		cfg.HistoryLimit = v
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate checks the thresholds are usable.
func (c *ImportConfig) Validate() error {
	if c.FuzzyThreshold <= 0 || c.FuzzyThreshold > 1 {
		return fmt.Errorf("%w: import.fuzzy_threshold must be in (0, 1], got %v", common.ErrInvalidConfig, c.FuzzyThreshold)
	}
	if c.HistoryThreshold <= 0 || c.HistoryThreshold > 1 {
		return fmt.Errorf("%w: import.history_threshold must be in (0, 1], got %v", common.ErrInvalidConfig, c.HistoryThreshold)
	}
	if c.DuplicateWindow <= 0 {
		return fmt.Errorf("%w: import.duplicate_window_hours must be positive", common.ErrInvalidConfig)
	}
	return nil
}
