package usecase

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/yuin/goldmark"

	"github.com/eslsoft/ankigen/internal/entity"
)

// BuildNote maps a validated card and its uploaded media filename onto the
// bridge-facing note shape. Anki fields are HTML; the text model tends to
// sprinkle Markdown into the back side, so that is rendered out first.
func BuildNote(card *entity.Flashcard, mediaFilename, deck, model string, allowDuplicate bool) *entity.NotePayload {
	front := card.Front
	if front == "" {
		if card.Kanji != "" {
			front = fmt.Sprintf("%s (%s)", card.Kanji, card.Kana)
		} else {
			front = card.Kana
		}
	}

	back := card.Back
	if back == "" {
		back = card.EnglishMeaning
	}

	var b strings.Builder
	b.WriteString(renderMarkdown(back))
	if card.ExampleSentenceJP != "" {
		b.WriteString("<br>")
		b.WriteString(card.ExampleSentenceJP)
	}
	if card.ExampleSentenceEN != "" {
		b.WriteString("<br>")
		b.WriteString(card.ExampleSentenceEN)
	}
	if mediaFilename != "" {
		fmt.Fprintf(&b, "<br><img src=%q>", mediaFilename)
	}

	return &entity.NotePayload{
		Deck:           deck,
		Model:          model,
		Fields:         map[string]string{"Front": front, "Back": b.String()},
		Tags:           card.Tags,
		AllowDuplicate: allowDuplicate,
	}
}

func renderMarkdown(src string) string {
	var buf bytes.Buffer
	if err := goldmark.Convert([]byte(src), &buf); err != nil {
		// Markdown that fails to render is still usable as-is.
		return src
	}
	return strings.TrimSpace(buf.String())
}
