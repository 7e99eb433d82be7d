package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/spf13/viper"
)

func loadFrom(t *testing.T, path string) (*Config, error) {
	t.Helper()
	wd, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}
	if err := os.Chdir(t.TempDir()); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { _ = os.Chdir(wd) })
	v := viper.New()
	Setup(v, path)
	return Load(v)
}

func TestLoad_Defaults(t *testing.T) {
	cfg, err := loadFrom(t, "")
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.SourceLang != "eng_Latn" || cfg.TargetLang != "arb_Arab" {
		t.Errorf("unexpected default languages %s -> %s", cfg.SourceLang, cfg.TargetLang)
	}
	if cfg.MaxLength != 500 || cfg.NumBeams != 1 {
		t.Errorf("unexpected generation defaults %d/%d", cfg.MaxLength, cfg.NumBeams)
	}
	if cfg.Clipboard.Interval != 300*time.Millisecond || cfg.Clipboard.MinLength != 3 {
		t.Errorf("unexpected clipboard defaults %+v", cfg.Clipboard)
	}
	if cfg.Coordinator.Timeout != time.Minute || cfg.Coordinator.MaxInFlight != 1 {
		t.Errorf("unexpected coordinator defaults %+v", cfg.Coordinator)
	}
	if cfg.Engine != "ollama" {
		t.Errorf("expected ollama engine, got %q", cfg.Engine)
	}
}

func TestLoad_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "baligh.yaml")
	content := `
target_lang: fra_Latn
num_beams: 4
engine: mymemory
clipboard:
  interval: 1s
coordinator:
  timeout: 5s
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := loadFrom(t, path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.TargetLang != "fra_Latn" || cfg.NumBeams != 4 || cfg.Engine != "mymemory" {
		t.Errorf("file values not applied: %+v", cfg)
	}
	if cfg.Clipboard.Interval != time.Second || cfg.Coordinator.Timeout != 5*time.Second {
		t.Errorf("durations not decoded: %s, %s", cfg.Clipboard.Interval, cfg.Coordinator.Timeout)
	}
	if cfg.SourceLang != "eng_Latn" {
		t.Errorf("expected default source language kept, got %q", cfg.SourceLang)
	}
}

func TestLoad_Env(t *testing.T) {
	t.Setenv("BALIGH_TARGET_LANG", "spa_Latn")
	t.Setenv("BALIGH_OLLAMA_MODEL", "aya:8b")

	cfg, err := loadFrom(t, "")
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.TargetLang != "spa_Latn" {
		t.Errorf("expected env target language, got %q", cfg.TargetLang)
	}
	if cfg.Ollama.Model != "aya:8b" {
		t.Errorf("expected env ollama model, got %q", cfg.Ollama.Model)
	}
}

func TestLoad_MissingExplicitFile(t *testing.T) {
	if _, err := loadFrom(t, filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("expected error for a missing explicit config file")
	}
}

func TestValidate(t *testing.T) {
	valid := func() Config {
		return Config{
			SourceLang:         "eng_Latn",
			TargetLang:         "arb_Arab",
			FallbackSourceLang: "eng_Latn",
			MaxLength:          500,
			NumBeams:           1,
			Engine:             "ollama",
			Clipboard:          ClipboardConfig{Interval: time.Second, MinLength: 3},
			Coordinator:        CoordinatorConfig{Timeout: time.Minute, MaxInFlight: 1},
		}
	}

	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{name: "valid", mutate: func(c *Config) {}},
		{name: "auto source", mutate: func(c *Config) { c.SourceLang = "auto" }},
		{name: "iso target", mutate: func(c *Config) { c.TargetLang = "fr" }},
		{name: "unknown target", mutate: func(c *Config) { c.TargetLang = "xxx_Zzzz" }, wantErr: "target_lang"},
		{name: "auto target", mutate: func(c *Config) { c.TargetLang = "auto" }, wantErr: "target_lang"},
		{name: "zero max length", mutate: func(c *Config) { c.MaxLength = 0 }, wantErr: "max_length"},
		{name: "zero beams", mutate: func(c *Config) { c.NumBeams = 0 }, wantErr: "num_beams"},
		{name: "unknown engine", mutate: func(c *Config) { c.Engine = "systran" }, wantErr: "engine"},
		{name: "openrouter without key", mutate: func(c *Config) { c.Engine = "openrouter" }, wantErr: "openrouter.api_key"},
		{name: "openrouter with key", mutate: func(c *Config) { c.Engine = "openrouter"; c.OpenRouter.APIKey = "k" }},
		{name: "zero interval", mutate: func(c *Config) { c.Clipboard.Interval = 0 }, wantErr: "clipboard.interval"},
		{name: "zero in flight", mutate: func(c *Config) { c.Coordinator.MaxInFlight = 0 }, wantErr: "max_in_flight"},
		{name: "cache without path", mutate: func(c *Config) { c.Cache.Enabled = true }, wantErr: "cache.path"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				if err != nil {
					t.Errorf("unexpected error: %v", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("expected error mentioning %q, got %v", tt.wantErr, err)
			}
		})
	}
}
