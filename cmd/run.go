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
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/valpere/baligh/internal/app"
	"github.com/valpere/baligh/internal/clipboard"
	"github.com/valpere/baligh/internal/coordinator"
	"github.com/valpere/baligh/internal/detector"
	"github.com/valpere/baligh/internal/hotkey"
	"github.com/valpere/baligh/internal/presenter"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Watch the clipboard and translate copied text",
	Long: `Watch the clipboard and translate every newly copied text.

Text shorter than three characters and repeated copies are ignored.
Lines typed on stdin are translated as well, except for commands:

  :lang CODE     change the target language and re-translate the last text
  :source CODE   change the source language (auto enables detection)
  :pause         stop watching the clipboard
  :resume        start watching the clipboard
  :toggle        flip clipboard watching (also Ctrl+Shift+T with --hotkey)
  :langs         list supported languages
  :quit          exit`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		settings, err := settingsFrom(cfg)
		if err != nil {
			return err
		}

		det := detector.New()
		engine, release, err := buildEngine(ctx, cfg, det, logger)
		if err != nil {
			return err
		}
		defer release()

		if err := engine.IsAvailable(ctx); err != nil {
			logger.Warnw("Translation engine not reachable", "engine", engine.Name(), "error", err)
		}

		console := presenter.NewConsole(cmd.OutOrStdout(), presenter.DefaultTheme)
		coord := coordinator.New(engine, console,
			coordinator.WithTimeout(cfg.Coordinator.Timeout),
			coordinator.WithMaxInFlight(cfg.Coordinator.MaxInFlight),
			coordinator.WithLogger(logger),
		)
		defer func() {
			coord.Close()
			stats := coord.Stats()
			logger.Infow("Coordinator stopped", "submitted", stats.Submitted, "delivered", stats.Delivered, "failed", stats.Failed, "dropped", stats.Dropped)
		}()

		watcher := clipboard.NewWatcher(clipboard.NewSystem(),
			clipboard.WithInterval(cfg.Clipboard.Interval),
			clipboard.WithMinLength(cfg.Clipboard.MinLength),
			clipboard.WithLogger(logger),
		)
		if !cfg.Clipboard.Enabled {
			watcher.Stop()
		}

		a := app.New(coord, watcher, console, settings,
			app.WithDetector(det),
			app.WithLogger(logger),
		)

		commands := make(chan string)
		go readLines(ctx, cmd.InOrStdin(), commands, logger)

		toggles := make(chan struct{}, 1)
		if cfg.Hotkey.Enabled {
			go func() {
				if err := hotkey.NewToggle(logger).Listen(ctx, toggles); err != nil {
					logger.Warnw("Hotkey disabled", "error", err)
				}
			}()
		}

		fmt.Fprintf(cmd.ErrOrStderr(), "Translating %s -> %s with %s. Type :quit to exit.\n", settings.SourceLang, settings.TargetLang, engine.Name())
		return a.Run(ctx, commands, toggles)
	},
}

// maxLineSize bounds a single command line, pasted text included.
const maxLineSize = 1 << 20

// readLines sends every line of r to lines and closes it at EOF or on a
// read error.
func readLines(ctx context.Context, r io.Reader, lines chan<- string, logger *zap.SugaredLogger) {
	defer close(lines)
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, bufio.MaxScanTokenSize), maxLineSize)
	for scanner.Scan() {
		select {
		case lines <- scanner.Text():
		case <-ctx.Done():
			return
		}
	}
	if err := scanner.Err(); err != nil {
		logger.Warnw("Command input stopped", "error", err, "max_line_bytes", maxLineSize)
	}
}

func init() {
	rootCmd.AddCommand(runCmd)

	addTranslationFlags(runCmd)
	runCmd.Flags().Duration("interval", 0, "Clipboard polling interval (default from config: 300ms)")
	runCmd.Flags().Bool("hotkey", false, "Register Ctrl+Shift+T to toggle clipboard watching")
	runCmd.Flags().String("locale", "", "Language of baligh's own messages (default from environment)")
}
