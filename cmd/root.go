/*
Copyright © 2025 Valentyn Solomko <valentyn.solomko@gmail.com>

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

	http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/
package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/valpere/baligh/internal/config"
	"github.com/valpere/baligh/internal/i18n"
	"github.com/valpere/baligh/internal/logging"
)

var version = "0.1.0"

var (
	cfgFile string
	v       = viper.New()
	cfg     *config.Config
	logger  *zap.SugaredLogger
)

// flagKeys maps command-line flags to config keys. A flag overrides the
// config file and environment only when it is set explicitly.
var flagKeys = map[string]string{
	"debug":            "debug",
	"source":           "source_lang",
	"target":           "target_lang",
	"fallback":         "fallback_source_lang",
	"max-length":       "max_length",
	"beams":            "num_beams",
	"engine":           "engine",
	"ollama-url":       "ollama.url",
	"ollama-model":     "ollama.model",
	"credentials":      "google.credentials",
	"mymemory-email":   "mymemory.email",
	"openrouter-model": "openrouter.model",
	"interval":         "clipboard.interval",
	"timeout":          "coordinator.timeout",
	"hotkey":           "hotkey.enabled",
	"locale":           "ui.locale",
	"db":               "cache.path",
}

var rootCmd = &cobra.Command{
	Use:   "baligh",
	Short: "Clipboard translator",
	Long: `Baligh watches the clipboard and translates every newly copied text.

Translations run in the background; when several texts are copied in quick
succession only the translation of the most recent one is shown.

Supported engines: Ollama (local model), Google Translate, MyMemory, OpenRouter

Use "baligh run --help" for daemon options.`,
	Version:       version,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return loadConfig(cmd)
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func loadConfig(cmd *cobra.Command) error {
	config.Setup(v, cfgFile)

	for name, key := range flagKeys {
		if f := cmd.Flags().Lookup(name); f != nil {
			if err := v.BindPFlag(key, f); err != nil {
				return fmt.Errorf("failed to bind flag %s: %w", name, err)
			}
		}
	}

	var err error
	cfg, err = config.Load(v)
	if err != nil {
		return err
	}
	if noCache, _ := cmd.Flags().GetBool("no-cache"); noCache {
		cfg.Cache.Enabled = false
	}

	logger, err = logging.New(cfg.Debug)
	if err != nil {
		return fmt.Errorf("failed to create logger: %w", err)
	}
	i18n.Init(cfg.UI.Locale)

	logger.Debugw("Configuration loaded", "file", v.ConfigFileUsed(), "engine", cfg.Engine, "source", cfg.SourceLang, "target", cfg.TargetLang)
	return nil
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "Config file (default ./config.yaml or $HOME/.config/baligh/config.yaml)")
	rootCmd.PersistentFlags().Bool("debug", false, "Enable debug logging")
}
