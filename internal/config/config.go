// Package config loads baligh's settings.
//
// Values are layered: built-in defaults, then a config file, then .env and
// BALIGH_* environment variables, then command-line flags bound by the
// caller.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/valpere/baligh/internal/coordinator"
	"github.com/valpere/baligh/internal/langcode"
	"github.com/valpere/baligh/internal/translator"
)

const envPrefix = "BALIGH"

type Config struct {
	SourceLang         string `mapstructure:"source_lang"`
	TargetLang         string `mapstructure:"target_lang"`
	FallbackSourceLang string `mapstructure:"fallback_source_lang"`
	MaxLength          int    `mapstructure:"max_length"`
	NumBeams           int    `mapstructure:"num_beams"`
	Engine             string `mapstructure:"engine"`
	Debug              bool   `mapstructure:"debug"`

	Ollama      OllamaConfig      `mapstructure:"ollama"`
	Google      GoogleConfig      `mapstructure:"google"`
	MyMemory    MyMemoryConfig    `mapstructure:"mymemory"`
	OpenRouter  OpenRouterConfig  `mapstructure:"openrouter"`
	Clipboard   ClipboardConfig   `mapstructure:"clipboard"`
	Coordinator CoordinatorConfig `mapstructure:"coordinator"`
	Cache       CacheConfig       `mapstructure:"cache"`
	Hotkey      HotkeyConfig      `mapstructure:"hotkey"`
	UI          UIConfig          `mapstructure:"ui"`
}

type OllamaConfig struct {
	URL   string `mapstructure:"url"`
	Model string `mapstructure:"model"`
}

type GoogleConfig struct {
	// Path to a service account key. Empty uses application default credentials.
	Credentials string `mapstructure:"credentials"`
}

type MyMemoryConfig struct {
	Email string `mapstructure:"email"`
}

type OpenRouterConfig struct {
	APIKey string `mapstructure:"api_key"`
	URL    string `mapstructure:"url"`
	Model  string `mapstructure:"model"`
}

type ClipboardConfig struct {
	Enabled   bool          `mapstructure:"enabled"`
	Interval  time.Duration `mapstructure:"interval"`
	MinLength int           `mapstructure:"min_length"`
}

type CoordinatorConfig struct {
	Timeout     time.Duration `mapstructure:"timeout"`
	MaxInFlight int           `mapstructure:"max_in_flight"`
}

type CacheConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Path    string `mapstructure:"path"`
}

type HotkeyConfig struct {
	Enabled bool `mapstructure:"enabled"`
}

type UIConfig struct {
	// Locale of baligh's own messages. Empty detects it from the environment.
	Locale string `mapstructure:"locale"`
}

// SetDefaults registers the built-in defaults on v.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("source_lang", "eng_Latn")
	v.SetDefault("target_lang", "arb_Arab")
	v.SetDefault("fallback_source_lang", "eng_Latn")
	v.SetDefault("max_length", 500)
	v.SetDefault("num_beams", 1)
	v.SetDefault("engine", "ollama")
	v.SetDefault("debug", false)

	v.SetDefault("ollama.url", translator.DefaultOllamaURL)
	v.SetDefault("ollama.model", translator.DefaultOllamaModel)
	v.SetDefault("google.credentials", "")
	v.SetDefault("mymemory.email", "")
	v.SetDefault("openrouter.api_key", "")
	v.SetDefault("openrouter.url", translator.DefaultOpenRouterURL)
	v.SetDefault("openrouter.model", translator.DefaultOpenRouterModel)

	v.SetDefault("clipboard.enabled", true)
	v.SetDefault("clipboard.interval", 300*time.Millisecond)
	v.SetDefault("clipboard.min_length", 3)

	v.SetDefault("coordinator.timeout", coordinator.DefaultTimeout)
	v.SetDefault("coordinator.max_in_flight", coordinator.DefaultMaxInFlight)

	v.SetDefault("cache.enabled", true)
	v.SetDefault("cache.path", defaultCachePath())

	v.SetDefault("hotkey.enabled", false)
	v.SetDefault("ui.locale", "")
}

// Setup prepares v to read the config file at path, or config.{json,yaml,toml}
// from the working directory and $HOME/.config/baligh when path is empty.
// Environment variables use the BALIGH_ prefix with dots replaced by
// underscores, e.g. BALIGH_OLLAMA_URL.
func Setup(v *viper.Viper, path string) {
	SetDefaults(v)

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		v.AddConfigPath(".")
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(filepath.Join(home, ".config", "baligh"))
		}
	}

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
}

// Load reads .env and the config file into v and decodes the result.
// A missing config file is not an error.
func Load(v *viper.Viper) (*Config, error) {
	_ = godotenv.Load()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks ranges and language codes.
func (c *Config) Validate() error {
	if c.SourceLang != langcode.Auto {
		if _, err := langcode.Parse(c.SourceLang); err != nil {
			return fmt.Errorf("source_lang: %w", err)
		}
	}
	if _, err := langcode.Parse(c.TargetLang); err != nil {
		return fmt.Errorf("target_lang: %w", err)
	}
	if _, err := langcode.Parse(c.FallbackSourceLang); err != nil {
		return fmt.Errorf("fallback_source_lang: %w", err)
	}
	if c.MaxLength < 1 {
		return fmt.Errorf("max_length must be at least 1, got %d", c.MaxLength)
	}
	if c.NumBeams < 1 {
		return fmt.Errorf("num_beams must be at least 1, got %d", c.NumBeams)
	}
	switch c.Engine {
	case "ollama", "google", "mymemory":
	case "openrouter":
		if c.OpenRouter.APIKey == "" {
			return errors.New("openrouter.api_key is required for the openrouter engine")
		}
	default:
		return fmt.Errorf("unknown engine %q (want ollama, google, mymemory or openrouter)", c.Engine)
	}
	if c.Clipboard.Interval <= 0 {
		return fmt.Errorf("clipboard.interval must be positive, got %s", c.Clipboard.Interval)
	}
	if c.Clipboard.MinLength < 1 {
		return fmt.Errorf("clipboard.min_length must be at least 1, got %d", c.Clipboard.MinLength)
	}
	if c.Coordinator.Timeout < 0 {
		return fmt.Errorf("coordinator.timeout must not be negative, got %s", c.Coordinator.Timeout)
	}
	if c.Coordinator.MaxInFlight < 1 {
		return fmt.Errorf("coordinator.max_in_flight must be at least 1, got %d", c.Coordinator.MaxInFlight)
	}
	if c.Cache.Enabled && c.Cache.Path == "" {
		return errors.New("cache.path is required when the cache is enabled")
	}
	return nil
}

func defaultCachePath() string {
	dir, err := os.UserCacheDir()
	if err != nil {
		return "baligh.db"
	}
	return filepath.Join(dir, "baligh", "memory.db")
}
