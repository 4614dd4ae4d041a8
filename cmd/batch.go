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
	"strings"

	"github.com/samber/lo"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/eslsoft/ankigen/internal/app"
	"github.com/eslsoft/ankigen/pkg/ui"
)

const (
	batchFileKey     = "batch.file"
	batchDeckKey     = "batch.deck"
	batchNoAnkiKey   = "batch.no_anki"
	batchSyncKey     = "batch.sync"
	batchAllowDupKey = "batch.allow_duplicate"
)

// batchCmd represents the batch command
var batchCmd = &cobra.Command{
	Use:   "batch [word...]",
	Short: "Generate flashcards for several words in one go",
	Long: `Generate flashcards for every word given on the command line, or read
words from a file with --file (one per line, blank lines and lines
starting with # are skipped). A failing word does not stop the batch;
the command exits non-zero if any word failed.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		words, err := collectWords(args, viper.GetString(batchFileKey))
		if err != nil {
			return err
		}
		if len(words) == 0 {
			return fmt.Errorf("no words given, pass them as arguments or with --file")
		}

		container, cleanup, err := app.Initialize(
			publishOptions(batchDeckKey, batchNoAnkiKey, batchSyncKey, batchAllowDupKey)...,
		)
		if err != nil {
			return err
		}
		defer cleanup()

		var failed []string
		for i, word := range words {
			fmt.Println(ui.FormatInfo(fmt.Sprintf("[%d/%d] %s", i+1, len(words), word)))
			res, perr := container.Publisher.Publish(cmd.Context(), word)
			if perr != nil {
				reportFailure(word, perr)
				failed = append(failed, word)
				continue
			}
			reportResult(res)
		}

		fmt.Println(ui.FormatInfo(fmt.Sprintf("done: %d ok, %d failed", len(words)-len(failed), len(failed))))
		if len(failed) > 0 {
			return fmt.Errorf("%d of %d words failed: %s", len(failed), len(words), strings.Join(failed, ", "))
		}
		return nil
	},
}

// collectWords merges command line words with the optional word file,
// trimming and deduplicating while keeping first-seen order.
func collectWords(args []string, file string) ([]string, error) {
	words := append([]string(nil), args...)
	if file != "" {
		fromFile, err := readWordFile(file)
		if err != nil {
			return nil, err
		}
		words = append(words, fromFile...)
	}
	words = lo.FilterMap(words, func(w string, _ int) (string, bool) {
		w = strings.TrimSpace(w)
		return w, w != ""
	})
	return lo.Uniq(words), nil
}

func readWordFile(path string) ([]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read word file: %w", err)
	}
	var words []string
	for _, line := range strings.Split(string(data), "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		words = append(words, line)
	}
	return words, nil
}

func init() {
	rootCmd.AddCommand(batchCmd)

	batchCmd.Flags().StringP("file", "f", "", "file with one word per line")
	batchCmd.Flags().String("deck", "", "target Anki deck (defaults to configuration)")
	batchCmd.Flags().Bool("no-anki", false, "generate and save locally, skip Anki upload")
	batchCmd.Flags().Bool("sync", false, "trigger an AnkiWeb sync after each successful publish")
	batchCmd.Flags().Bool("allow-duplicate", false, "skip the bridge's duplicate check")

	bindFlagToViper(batchFileKey, batchCmd.Flags().Lookup("file"))
	bindFlagToViper(batchDeckKey, batchCmd.Flags().Lookup("deck"))
	bindFlagToViper(batchNoAnkiKey, batchCmd.Flags().Lookup("no-anki"))
	bindFlagToViper(batchSyncKey, batchCmd.Flags().Lookup("sync"))
	bindFlagToViper(batchAllowDupKey, batchCmd.Flags().Lookup("allow-duplicate"))
}
