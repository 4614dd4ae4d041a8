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
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"

	"github.com/eslsoft/ankigen/internal/app"
	"github.com/eslsoft/ankigen/internal/entity"
	"github.com/eslsoft/ankigen/pkg/ui"
)

const (
	watchDeckKey     = "watch.deck"
	watchNoAnkiKey   = "watch.no_anki"
	watchSyncKey     = "watch.sync"
	watchAllowDupKey = "watch.allow_duplicate"
)

// watchCmd represents the watch command
var watchCmd = &cobra.Command{
	Use:   "watch <file>",
	Short: "Watch a word list file and publish every new word",
	Long: `Watch a word list file (one word per line, # starts a comment) and
generate a flashcard for every word appended to it. Words already in
the file at startup are treated as seen and skipped. Press Ctrl+C to
stop.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		path, err := filepath.Abs(args[0])
		if err != nil {
			return err
		}

		seen := make(map[string]bool)
		initial, err := readWordFile(path)
		if err != nil && !errors.Is(err, os.ErrNotExist) {
			return err
		}
		for _, w := range initial {
			seen[w] = true
		}

		container, cleanup, err := app.Initialize(
			publishOptions(watchDeckKey, watchNoAnkiKey, watchSyncKey, watchAllowDupKey)...,
		)
		if err != nil {
			return err
		}
		defer cleanup()

		watcher, err := fsnotify.NewWatcher()
		if err != nil {
			return fmt.Errorf("create watcher: %w", err)
		}
		defer watcher.Close()

		// Watch the directory, not the file: editors replace files on
		// save and the watch on the old inode would go stale.
		if err := watcher.Add(filepath.Dir(path)); err != nil {
			return fmt.Errorf("watch %s: %w", filepath.Dir(path), err)
		}

		fmt.Println(ui.FormatMuted("watching " + path))
		fmt.Println(ui.FormatMuted("press Ctrl+C to stop"))

		publishNew := func() {
			words, rerr := readWordFile(path)
			if rerr != nil {
				container.Logger.WithError(rerr).Warn("reread word file failed")
				return
			}
			for _, word := range words {
				if seen[word] {
					continue
				}
				seen[word] = true
				if last, lerr := container.Runs.LastByWord(cmd.Context(), word); lerr == nil && last != nil && last.Stage == entity.StageDone {
					fmt.Println(ui.FormatMuted(word + " already published, skipping"))
					continue
				}
				fmt.Println(ui.FormatInfo("new word: " + word))
				res, perr := container.Publisher.Publish(cmd.Context(), word)
				if perr != nil {
					reportFailure(word, perr)
					continue
				}
				reportResult(res)
			}
		}

		err = watchLoop(cmd.Context(), watcher.Events, watcher.Errors, path, watchDebounce, publishNew, func(werr error) {
			container.Logger.WithError(werr).Warn("watcher error")
		})
		fmt.Println()
		fmt.Println(ui.FormatMuted("watch stopped"))
		return err
	},
}

const watchDebounce = 500 * time.Millisecond

// watchLoop drains watcher events for path and invokes publish after the
// file has settled for the debounce interval. publish always runs on this
// goroutine, never the timer's, so the caller's state needs no locking and
// nothing outlives the loop.
func watchLoop(ctx context.Context, events <-chan fsnotify.Event, errs <-chan error, path string, debounce time.Duration, publish func(), onError func(error)) error {
	var timer *time.Timer
	var settled <-chan time.Time
	for {
		select {
		case event, ok := <-events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != path {
				continue
			}
			if event.Has(fsnotify.Write) || event.Has(fsnotify.Create) || event.Has(fsnotify.Rename) {
				if timer == nil {
					timer = time.NewTimer(debounce)
					settled = timer.C
				} else {
					if !timer.Stop() {
						select {
						case <-timer.C:
						default:
						}
					}
					timer.Reset(debounce)
				}
			}

		case <-settled:
			publish()

		case werr, ok := <-errs:
			if !ok {
				return nil
			}
			onError(werr)

		case <-ctx.Done():
			return nil
		}
	}
}

func init() {
	rootCmd.AddCommand(watchCmd)

	watchCmd.Flags().String("deck", "", "target Anki deck (defaults to configuration)")
	watchCmd.Flags().Bool("no-anki", false, "generate and save locally, skip Anki upload")
	watchCmd.Flags().Bool("sync", false, "trigger an AnkiWeb sync after each successful publish")
	watchCmd.Flags().Bool("allow-duplicate", false, "skip the bridge's duplicate check")

	bindFlagToViper(watchDeckKey, watchCmd.Flags().Lookup("deck"))
	bindFlagToViper(watchNoAnkiKey, watchCmd.Flags().Lookup("no-anki"))
	bindFlagToViper(watchSyncKey, watchCmd.Flags().Lookup("sync"))
	bindFlagToViper(watchAllowDupKey, watchCmd.Flags().Lookup("allow-duplicate"))
}
