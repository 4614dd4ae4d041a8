package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/eslsoft/ankigen/internal/entity"
	"github.com/eslsoft/ankigen/internal/usecase"
	"github.com/eslsoft/ankigen/pkg/ui"
)

func bindFlagToViper(key string, flag *pflag.Flag) {
	if flag == nil {
		return
	}
	cobra.CheckErr(viper.BindPFlag(key, flag))
}

// publishOptions assembles publisher overrides from viper-bound flag keys.
func publishOptions(deckKey, noAnkiKey, syncKey, allowDupKey string) []usecase.Option {
	var opts []usecase.Option
	if deck := viper.GetString(deckKey); deck != "" {
		opts = append(opts, usecase.WithDeck(deck))
	}
	if viper.GetBool(noAnkiKey) {
		opts = append(opts, usecase.WithoutBridge())
	}
	if viper.GetBool(syncKey) {
		opts = append(opts, usecase.WithSyncAfter())
	}
	if viper.GetBool(allowDupKey) {
		opts = append(opts, usecase.WithAllowDuplicate())
	}
	return opts
}

// reportResult prints the outcome of one pipeline run.
func reportResult(res *entity.PublishResult) {
	if res.ArtifactJSON != "" {
		fmt.Println(ui.FormatMuted("saved " + res.ArtifactJSON))
	}
	if res.ArtifactImage != "" {
		fmt.Println(ui.FormatMuted("saved " + res.ArtifactImage))
	}
	switch {
	case res.Duplicate:
		fmt.Println(ui.FormatWarning(fmt.Sprintf("%q is already in Anki, nothing added", res.Word)))
	case res.NoteID != 0:
		fmt.Println(ui.FormatCard(fmt.Sprintf("flashcard for %q added to Anki (note %d)", res.Word, res.NoteID)))
	default:
		fmt.Println(ui.FormatSuccess(fmt.Sprintf("flashcard for %q generated", res.Word)))
	}
}

// reportFailure prints the failing stage and cause.
func reportFailure(word string, err error) {
	fmt.Println(ui.FormatError(fmt.Sprintf("%q failed: %v", word, err)))
}
