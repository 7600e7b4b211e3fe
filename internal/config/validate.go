package config

import (
	"fmt"
	"strings"
)

// Validate performs business-rule validation on the loaded configuration.
// Load calls it automatically.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.Program.ID) == "" {
		return fmt.Errorf("program.id must not be empty")
	}
	if c.Dataset.HeaderRows < 0 {
		return fmt.Errorf("dataset.header_rows must be >= 0 (got %d)", c.Dataset.HeaderRows)
	}
	if err := c.Quiz.validate(); err != nil {
		return fmt.Errorf("quiz: %w", err)
	}
	if c.Store.KeepSnapshots < 1 {
		return fmt.Errorf("store.keep_snapshots must be >= 1 (got %d)", c.Store.KeepSnapshots)
	}
	switch strings.ToLower(c.Log.Format) {
	case "text", "json":
	default:
		return fmt.Errorf("log.format must be text or json (got %q)", c.Log.Format)
	}
	if c.Gloss.Concurrency < 1 {
		return fmt.Errorf("gloss.concurrency must be >= 1 (got %d)", c.Gloss.Concurrency)
	}
	return nil
}

func (q *QuizConfig) validate() error {
	if q.Cooldown < 0 {
		return fmt.Errorf("cooldown must be >= 0 (got %s)", q.Cooldown)
	}
	if q.MasterStreak < 1 {
		return fmt.Errorf("master_streak must be >= 1 (got %d)", q.MasterStreak)
	}
	return nil
}

// HasDatasetSource reports whether any dataset location is configured.
func (c *Config) HasDatasetSource() bool {
	return c.Dataset.Source != "" || c.Dataset.SheetID != ""
}
