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

	"github.com/spf13/cobra"

	"github.com/eslsoft/ankigen/internal/app"
	"github.com/eslsoft/ankigen/internal/entity"
	"github.com/eslsoft/ankigen/pkg/ui"
)

var historyLimit int

// historyCmd represents the history command
var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List recent flashcard runs",
	RunE: func(cmd *cobra.Command, args []string) error {
		container, cleanup, err := app.Initialize()
		if err != nil {
			return err
		}
		defer cleanup()

		runs, err := container.Runs.List(cmd.Context(), historyLimit)
		if err != nil {
			return fmt.Errorf("list runs: %w", err)
		}
		if len(runs) == 0 {
			fmt.Println(ui.FormatMuted("no runs recorded yet"))
			return nil
		}

		for _, run := range runs {
			fmt.Println(formatRun(run))
		}
		return nil
	},
}

func formatRun(run *entity.Run) string {
	when := run.CreatedAt.Local().Format("2006-01-02 15:04")
	switch {
	case run.Stage != entity.StageDone:
		detail := string(run.Stage)
		if run.Error != "" {
			detail = run.Error
		}
		return ui.FormatError(fmt.Sprintf("%s  %-12s failed: %s", when, run.Word, detail))
	case run.Duplicate:
		return ui.FormatWarning(fmt.Sprintf("%s  %-12s duplicate", when, run.Word))
	case run.NoteID != 0:
		return ui.FormatSuccess(fmt.Sprintf("%s  %-12s note %d", when, run.Word, run.NoteID))
	default:
		return ui.FormatSuccess(fmt.Sprintf("%s  %-12s saved locally", when, run.Word))
	}
}

func init() {
	rootCmd.AddCommand(historyCmd)

	historyCmd.Flags().IntVarP(&historyLimit, "limit", "n", 20, "maximum number of runs to show")
}
