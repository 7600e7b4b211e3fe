package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writeYAML(t *testing.T, dir, content string) string {
	t.Helper()
	path := filepath.Join(dir, "chunkz.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write yaml: %v", err)
	}
	return path
}

const validYAML = `
program:
  id: "program9"
  label: "Program 9"
  id_prefix: "p9"

dataset:
  source: "./sentences.tsv"
  header_rows: 0
  timeout: "5s"

quiz:
  cooldown: "30s"
  master_streak: 5
  round_cycling: true

store:
  keep_snapshots: 3

log:
  level: "debug"
  format: "json"
  file: "-"
`

func TestLoad_ValidYAML(t *testing.T) {
	t.Setenv("CHUNKZ_CONFIG", "")
	path := writeYAML(t, t.TempDir(), validYAML)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.Program.ID != "program9" || cfg.Program.IDPrefix != "p9" {
		t.Errorf("Program = %+v", cfg.Program)
	}
	if cfg.Dataset.Source != "./sentences.tsv" {
		t.Errorf("Dataset.Source = %q", cfg.Dataset.Source)
	}
	if cfg.Dataset.HeaderRows != 0 {
		t.Errorf("Dataset.HeaderRows = %d, want 0", cfg.Dataset.HeaderRows)
	}
	if cfg.Dataset.Timeout != 5*time.Second {
		t.Errorf("Dataset.Timeout = %s, want 5s", cfg.Dataset.Timeout)
	}
	if cfg.Quiz.Cooldown != 30*time.Second {
		t.Errorf("Quiz.Cooldown = %s, want 30s", cfg.Quiz.Cooldown)
	}
	if cfg.Quiz.MasterStreak != 5 || !cfg.Quiz.RoundCycling {
		t.Errorf("Quiz = %+v", cfg.Quiz)
	}
	if cfg.Log.Format != "json" || cfg.Log.File != "-" {
		t.Errorf("Log = %+v", cfg.Log)
	}
	// Unset keys keep their defaults.
	if cfg.Dataset.SheetName != "Sheet1" {
		t.Errorf("Dataset.SheetName = %q, want Sheet1", cfg.Dataset.SheetName)
	}
}

func TestLoad_EnvOnlyDefaults(t *testing.T) {
	t.Setenv("CHUNKZ_CONFIG", "")
	t.Chdir(t.TempDir())

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Program.ID != "program7" {
		t.Errorf("Program.ID = %q, want program7", cfg.Program.ID)
	}
	if cfg.Quiz.Cooldown != 60*time.Second {
		t.Errorf("Quiz.Cooldown = %s, want 60s", cfg.Quiz.Cooldown)
	}
	if cfg.Quiz.MasterStreak != 3 {
		t.Errorf("Quiz.MasterStreak = %d, want 3", cfg.Quiz.MasterStreak)
	}
	if cfg.Quiz.RoundCycling {
		t.Error("Quiz.RoundCycling should default to false")
	}
	if cfg.Dataset.HeaderRows != 1 {
		t.Errorf("Dataset.HeaderRows = %d, want 1", cfg.Dataset.HeaderRows)
	}
}

func TestLoad_EnvOverridesYAML(t *testing.T) {
	t.Setenv("CHUNKZ_CONFIG", "")
	t.Setenv("CHUNKZ_QUIZ_COOLDOWN", "2m")
	path := writeYAML(t, t.TempDir(), validYAML)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Quiz.Cooldown != 2*time.Minute {
		t.Errorf("Quiz.Cooldown = %s, want 2m", cfg.Quiz.Cooldown)
	}
}

func TestLoad_ConfigEnvPath(t *testing.T) {
	path := writeYAML(t, t.TempDir(), validYAML)
	t.Setenv("CHUNKZ_CONFIG", path)

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Program.ID != "program9" {
		t.Errorf("Program.ID = %q, want program9", cfg.Program.ID)
	}
}

func TestLoad_MissingExplicitFile(t *testing.T) {
	t.Setenv("CHUNKZ_CONFIG", "")
	if _, err := Load(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Fatal("expected error for missing explicit config file")
	}
}

func TestValidate(t *testing.T) {
	base := func() Config {
		return Config{
			Program: ProgramConfig{ID: "p"},
			Quiz:    QuizConfig{Cooldown: time.Minute, MasterStreak: 3},
			Store:   StoreConfig{KeepSnapshots: 1},
			Log:     LogConfig{Format: "text"},
			Gloss:   GlossConfig{Concurrency: 1},
		}
	}

	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"valid", func(*Config) {}, false},
		{"zero cooldown allowed", func(c *Config) { c.Quiz.Cooldown = 0 }, false},
		{"negative cooldown", func(c *Config) { c.Quiz.Cooldown = -time.Second }, true},
		{"zero master streak", func(c *Config) { c.Quiz.MasterStreak = 0 }, true},
		{"empty program id", func(c *Config) { c.Program.ID = " " }, true},
		{"negative header rows", func(c *Config) { c.Dataset.HeaderRows = -1 }, true},
		{"bad log format", func(c *Config) { c.Log.Format = "xml" }, true},
		{"no snapshots kept", func(c *Config) { c.Store.KeepSnapshots = 0 }, true},
		{"zero gloss concurrency", func(c *Config) { c.Gloss.Concurrency = 0 }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := base()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if tt.wantErr && err == nil {
				t.Error("expected error")
			}
			if !tt.wantErr && err != nil {
				t.Errorf("unexpected error: %v", err)
			}
		})
	}
}
