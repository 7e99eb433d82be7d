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
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/valpere/baligh/internal/app"
	"github.com/valpere/baligh/internal/config"
	"github.com/valpere/baligh/internal/detector"
	"github.com/valpere/baligh/internal/langcode"
	"github.com/valpere/baligh/internal/store"
	"github.com/valpere/baligh/internal/translator"
	"github.com/valpere/baligh/internal/validator"
)

// buildEngine constructs the configured translation engine, wrapped with the
// translation memory when the cache is enabled. Translations det finds in
// the wrong language are not remembered. The returned function releases the
// engine's resources.
func buildEngine(ctx context.Context, cfg *config.Config, det *detector.Detector, logger *zap.SugaredLogger) (translator.Engine, func(), error) {
	var (
		engine  translator.Engine
		closers []func() error
	)

	switch cfg.Engine {
	case "ollama":
		engine = translator.NewOllama(cfg.Ollama.URL, cfg.Ollama.Model)
	case "google":
		g, err := translator.NewGoogle(ctx, cfg.Google.Credentials)
		if err != nil {
			return nil, nil, err
		}
		closers = append(closers, g.Close)
		engine = g
	case "mymemory":
		engine = translator.NewMyMemory(cfg.MyMemory.Email)
	case "openrouter":
		engine = translator.NewOpenRouter(cfg.OpenRouter.APIKey, cfg.OpenRouter.URL, cfg.OpenRouter.Model)
	default:
		return nil, nil, fmt.Errorf("unknown engine: %s", cfg.Engine)
	}

	if cfg.Cache.Enabled {
		db, err := openStore(cfg.Cache.Path)
		if err != nil {
			logger.Warnw("Translation memory unavailable, continuing without it", "path", cfg.Cache.Path, "error", err)
		} else {
			closers = append(closers, db.Close)
			engine = translator.NewCached(engine, db, logger).WithChecker(validator.New(det))
		}
	}

	release := func() {
		for i := len(closers) - 1; i >= 0; i-- {
			if err := closers[i](); err != nil {
				logger.Warnw("Failed to release engine resources", "error", err)
			}
		}
	}
	return engine, release, nil
}

func openStore(path string) (*store.Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}
	db, err := store.New(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	return db, nil
}

// settingsFrom normalizes configured language codes to FLORES-200.
func settingsFrom(cfg *config.Config) (app.Settings, error) {
	s := app.Settings{
		SourceLang: langcode.Auto,
		MaxLength:  cfg.MaxLength,
		NumBeams:   cfg.NumBeams,
	}
	if cfg.SourceLang != langcode.Auto {
		l, err := langcode.Parse(cfg.SourceLang)
		if err != nil {
			return s, err
		}
		s.SourceLang = l.Code
	}
	target, err := langcode.Parse(cfg.TargetLang)
	if err != nil {
		return s, err
	}
	s.TargetLang = target.Code
	fallback, err := langcode.Parse(cfg.FallbackSourceLang)
	if err != nil {
		return s, err
	}
	s.FallbackSourceLang = fallback.Code
	return s, nil
}

func addTranslationFlags(cmd *cobra.Command) {
	cmd.Flags().StringP("source", "s", "", "Source language code, or auto (default from config: eng_Latn)")
	cmd.Flags().StringP("target", "t", "", "Target language code (default from config: arb_Arab)")
	cmd.Flags().String("fallback", "", "Source language used when auto-detection fails")
	cmd.Flags().Int("max-length", 0, "Maximum number of generated tokens (default from config: 500)")
	cmd.Flags().Int("beams", 0, "Beam width; values above 1 favor deterministic output (default from config: 1)")
	cmd.Flags().StringP("engine", "e", "", "Translation engine: ollama, google, mymemory or openrouter")
	cmd.Flags().String("ollama-url", "", "Ollama base URL")
	cmd.Flags().String("ollama-model", "", "Ollama model name")
	cmd.Flags().StringP("credentials", "c", "", "Path to Google Cloud credentials")
	cmd.Flags().String("mymemory-email", "", "MyMemory email (for higher limits)")
	cmd.Flags().String("openrouter-model", "", "OpenRouter model name")
	cmd.Flags().Duration("timeout", 0, "Per-translation timeout (default from config: 1m)")
	cmd.Flags().String("db", "", "Database path for translation memory")
	cmd.Flags().Bool("no-cache", false, "Disable translation memory cache")
}
