package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	data := `
provider: openai
model: gpt-4o-mini
temperature: 0.2
settle_ms: 100
store_path: /tmp/sf.db
redact: false
conditions:
  - Diverticulosis
`
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Provider != "openai" || cfg.Model != "gpt-4o-mini" {
		t.Errorf("provider/model = %q/%q", cfg.Provider, cfg.Model)
	}
	if cfg.SettleMS != 100 || cfg.StorePath != "/tmp/sf.db" {
		t.Errorf("settle/store = %d/%q", cfg.SettleMS, cfg.StorePath)
	}
	if *cfg.Redact {
		t.Error("redact should be disabled by file")
	}
	if len(cfg.Conditions) != 1 || cfg.Conditions[0] != "Diverticulosis" {
		t.Errorf("conditions = %v", cfg.Conditions)
	}
}

func TestLoadMissingExplicitPath(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Error("explicit missing path should error")
	}
}

func TestDefaults(t *testing.T) {
	t.Setenv("SIGHTFLOW_PROVIDER", "")
	t.Setenv("SIGHTFLOW_REDACT", "")

	cfg := &Config{}
	cfg.applyEnv()
	cfg.applyDefaults()
	if cfg.SettleMS != 400 {
		t.Errorf("settle = %d, want 400", cfg.SettleMS)
	}
	if cfg.StorePath == "" {
		t.Error("store path default missing")
	}
	if cfg.Redact == nil || !*cfg.Redact {
		t.Error("redaction should default on")
	}
}

func TestEnvFallbacks(t *testing.T) {
	t.Setenv("SIGHTFLOW_PROVIDER", "anthropic")
	t.Setenv("SIGHTFLOW_MODEL", "claude-sonnet-4-6")
	t.Setenv("SIGHTFLOW_REDACT", "false")

	cfg := &Config{}
	cfg.applyEnv()
	cfg.applyDefaults()
	if cfg.Provider != "anthropic" || cfg.Model != "claude-sonnet-4-6" {
		t.Errorf("provider/model = %q/%q", cfg.Provider, cfg.Model)
	}
	if *cfg.Redact {
		t.Error("redact env override should win")
	}
}

func TestFileBeatsEnv(t *testing.T) {
	t.Setenv("SIGHTFLOW_PROVIDER", "anthropic")

	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("provider: openai\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	cfg, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Provider != "openai" {
		t.Errorf("provider = %q, want file value to win over env", cfg.Provider)
	}
}
