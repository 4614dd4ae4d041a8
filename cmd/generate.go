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
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/eslsoft/ankigen/internal/app"
	"github.com/eslsoft/ankigen/pkg/ui"
)

const (
	generateDeckKey     = "generate.deck"
	generateNoAnkiKey   = "generate.no_anki"
	generateSyncKey     = "generate.sync"
	generateAllowDupKey = "generate.allow_duplicate"
)

// generateCmd represents the generate command
var generateCmd = &cobra.Command{
	Use:   "generate [word]",
	Short: "Generate an illustrated flashcard and add it to Anki",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		var word string
		if len(args) > 0 {
			word = strings.TrimSpace(args[0])
		} else {
			prompted, err := ui.PromptWord("昨日")
			if err != nil {
				if errors.Is(err, ui.ErrPromptAborted) {
					return nil
				}
				return err
			}
			word = prompted
		}
		if word == "" {
			return fmt.Errorf("a word or phrase is required")
		}

		container, cleanup, err := app.Initialize(
			publishOptions(generateDeckKey, generateNoAnkiKey, generateSyncKey, generateAllowDupKey)...,
		)
		if err != nil {
			return err
		}
		defer cleanup()

		fmt.Println(ui.FormatInfo(fmt.Sprintf("generating flashcard for %q...", word)))
		res, err := container.Publisher.Publish(cmd.Context(), word)
		if err != nil {
			return fmt.Errorf("publish %q: %w", word, err)
		}
		reportResult(res)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(generateCmd)

	generateCmd.Flags().String("deck", "", "target Anki deck (defaults to configuration)")
	generateCmd.Flags().Bool("no-anki", false, "generate and save locally, skip Anki upload")
	generateCmd.Flags().Bool("sync", false, "trigger an AnkiWeb sync after a successful publish")
	generateCmd.Flags().Bool("allow-duplicate", false, "skip the bridge's duplicate check")

	bindFlagToViper(generateDeckKey, generateCmd.Flags().Lookup("deck"))
	bindFlagToViper(generateNoAnkiKey, generateCmd.Flags().Lookup("no-anki"))
	bindFlagToViper(generateSyncKey, generateCmd.Flags().Lookup("sync"))
	bindFlagToViper(generateAllowDupKey, generateCmd.Flags().Lookup("allow-duplicate"))
}
