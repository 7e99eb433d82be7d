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
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/valpere/baligh/internal"
	"github.com/valpere/baligh/internal/app"
	"github.com/valpere/baligh/internal/coordinator"
	"github.com/valpere/baligh/internal/detector"
	"github.com/valpere/baligh/internal/presenter"
)

var (
	inputFile  string
	outputFile string
)

// outcomePresenter hands the single outcome of a one-shot translation back
// to the command.
type outcomePresenter struct {
	outcome chan internal.TranslationResult
}

func (p *outcomePresenter) OnTranslationStarted(req internal.TranslationRequest) {}

func (p *outcomePresenter) OnTranslationResult(seq uint64, text string) {
	p.outcome <- internal.TranslationResult{Seq: seq, TranslatedText: text}
}

func (p *outcomePresenter) OnTranslationFailed(seq uint64, err error) {
	p.outcome <- internal.TranslationResult{Seq: seq, Err: err}
}

var translateCmd = &cobra.Command{
	Use:   "translate [text]",
	Short: "Translate text once and report the latency",
	Long: `Translate the given text, the contents of --input, or stdin, print
the translation and report how long it took.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if inputFile != "" && inputFile == outputFile {
			return fmt.Errorf("input file and output file cannot be the same")
		}

		text, err := readInput(cmd, args)
		if err != nil {
			return err
		}

		settings, err := settingsFrom(cfg)
		if err != nil {
			return err
		}

		det := detector.New()
		engine, release, err := buildEngine(cmd.Context(), cfg, det, logger)
		if err != nil {
			return err
		}
		defer release()

		p := &outcomePresenter{outcome: make(chan internal.TranslationResult, 1)}
		coord := coordinator.New(engine, p,
			coordinator.WithTimeout(cfg.Coordinator.Timeout),
			coordinator.WithLogger(logger),
		)
		defer coord.Close()

		notices := presenter.NewConsole(cmd.ErrOrStderr(), presenter.DefaultTheme)
		a := app.New(coord, nil, notices, settings, app.WithDetector(det), app.WithLogger(logger))

		start := time.Now()
		if _, err := a.Translate(text); err != nil {
			return err
		}

		var res internal.TranslationResult
		select {
		case res = <-p.outcome:
		case <-cmd.Context().Done():
			return cmd.Context().Err()
		}
		elapsed := time.Since(start)

		if res.Err != nil {
			return fmt.Errorf("%s", presenter.FailureMessage(res.Err))
		}

		if outputFile != "" {
			if err := os.MkdirAll(filepath.Dir(outputFile), 0755); err != nil {
				return fmt.Errorf("failed to create output directory: %w", err)
			}
			if err := os.WriteFile(outputFile, []byte(res.TranslatedText), 0644); err != nil {
				return fmt.Errorf("failed to write output file: %w", err)
			}
		} else {
			fmt.Fprintln(cmd.OutOrStdout(), res.TranslatedText)
		}

		fmt.Fprintf(cmd.ErrOrStderr(), "Time: %.2f sec (%s)\n", elapsed.Seconds(), engine.Name())
		return nil
	},
}

func readInput(cmd *cobra.Command, args []string) (string, error) {
	var text string
	switch {
	case len(args) > 0:
		text = strings.Join(args, " ")
	case inputFile != "":
		b, err := os.ReadFile(inputFile)
		if err != nil {
			return "", fmt.Errorf("failed to read input file: %w", err)
		}
		text = string(b)
	default:
		b, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return "", fmt.Errorf("failed to read stdin: %w", err)
		}
		text = string(b)
	}

	text = strings.TrimSpace(text)
	if text == "" {
		return "", fmt.Errorf("nothing to translate")
	}
	return text, nil
}

func init() {
	rootCmd.AddCommand(translateCmd)

	addTranslationFlags(translateCmd)
	translateCmd.Flags().StringVarP(&inputFile, "input", "i", "", "Input file to translate")
	translateCmd.Flags().StringVarP(&outputFile, "output", "o", "", "Output file for translation (default stdout)")
}
