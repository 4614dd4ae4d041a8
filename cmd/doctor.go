/*
Copyright © 2025 Ambor <saltbo@foxmail.com>

Permission is hereby granted, free of charge, to any person obtaining a copy
of this software and associated documentation files (the "Software"), to deal
in the Software without restriction, including without limitation the rights
to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
copies of the Software, and to permit persons to whom the Software is
furnished to do so, subject to the following conditions:

The above copyright notice and this permission notice shall be included in
all copies or substantial portions of the Software.

THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN
THE SOFTWARE.
*/
package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/eslsoft/ankigen/internal/adapter/ankiconnect"
	"github.com/eslsoft/ankigen/internal/app"
	"github.com/eslsoft/ankigen/internal/infrastructure/config"
	"github.com/eslsoft/ankigen/pkg/ui"
)

// doctorCmd represents the doctor command
var doctorCmd = &cobra.Command{
	Use:   "doctor",
	Short: "Check that everything the pipeline needs is in place",
	Long: `Diagnose the local setup.

Checks for:
  - Readable configuration
  - OPENROUTER_API_KEY in the environment
  - Writable output directory
  - A reachable AnkiConnect bridge`,
	Run: func(cmd *cobra.Command, args []string) {
		var cfg *config.Config
		checkStep("Configuration", func() error {
			loaded, err := config.Load()
			if err != nil {
				return err
			}
			cfg = loaded
			return nil
		})
		if cfg == nil {
			return
		}

		checkStep("OpenRouter API Key", func() error {
			if cfg.OpenRouter.APIKey == "" {
				return fmt.Errorf("OPENROUTER_API_KEY is not set")
			}
			return nil
		})

		checkStep("Output Directory", func() error {
			if err := os.MkdirAll(cfg.OutputDir, 0o755); err != nil {
				return fmt.Errorf("cannot create %s: %w", cfg.OutputDir, err)
			}
			return nil
		})

		checkStep("AnkiConnect Bridge", func() error {
			logger, err := app.NewLogger(cfg)
			if err != nil {
				return err
			}
			bridge := ankiconnect.NewClient(cfg, logger)
			version, err := bridge.Version(cmd.Context())
			if err != nil {
				return fmt.Errorf("no bridge at %s, is Anki running with AnkiConnect?", cfg.Anki.URL)
			}
			if version < 6 {
				return fmt.Errorf("bridge speaks protocol %d, need at least 6", version)
			}
			return nil
		})
	},
}

// checkStep runs a check function and prints the result nicely
func checkStep(name string, check func() error) {
	if err := check(); err != nil {
		fmt.Println(ui.FormatError(name))
		fmt.Printf("    %s\n", ui.FormatMuted(err.Error()))
		return
	}
	fmt.Println(ui.FormatSuccess(name))
}

func init() {
	rootCmd.AddCommand(doctorCmd)
}
