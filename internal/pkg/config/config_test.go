package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadOverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := `
logging:
  level: debug
parser:
  strict: true
  default_odds: 50.0
storage:
  path: /tmp/races.db
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Logging.Level != "debug" {
		t.Errorf("level = %q", cfg.Logging.Level)
	}
	if !cfg.Parser.Strict || cfg.Parser.DefaultOdds != 50.0 {
		t.Errorf("parser = %+v", cfg.Parser)
	}
	// keys absent from the file keep their defaults
	if !cfg.Parser.SkipInvalidHorses {
		t.Error("skip_invalid_horses default lost")
	}
	if cfg.Parser.MaxHorses != 18 {
		t.Errorf("max_horses = %d", cfg.Parser.MaxHorses)
	}
	if cfg.Scoring.OddsWeight != 0.6 {
		t.Errorf("scoring = %+v", cfg.Scoring)
	}
	if cfg.Storage.Path != "/tmp/races.db" {
		t.Errorf("storage path = %q", cfg.Storage.Path)
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Fatal("expected error for missing file")
	}
}
