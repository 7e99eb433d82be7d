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
	"github.com/spf13/cobra"

	"github.com/valpere/baligh/internal/langcode"
	"github.com/valpere/baligh/internal/presenter"
)

var languagesCmd = &cobra.Command{
	Use:   "languages",
	Short: "List supported language codes",
	Long: `List the FLORES-200 language codes accepted by --source, --target and
the :lang command. ISO 639-1 codes such as "fr" are accepted as well.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		presenter.NewConsole(cmd.OutOrStdout(), presenter.DefaultTheme).Languages(langcode.All())
		return nil
	},
}

func init() {
	rootCmd.AddCommand(languagesCmd)
}
