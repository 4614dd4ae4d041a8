package entity

import (
	"strings"

	"github.com/samber/lo"
)

// Flashcard is the structured vocabulary record produced by the text model.
// JSON tags match the schema the model is instructed to emit.
type Flashcard struct {
	Kanji             string   `json:"kanji"` // empty for kana-only words
	Kana              string   `json:"kana"`
	EnglishMeaning    string   `json:"english_meaning"`
	ExampleSentenceJP string   `json:"example_sentence_jp"`
	ExampleSentenceEN string   `json:"example_sentence_en"`
	ImagePrompt       string   `json:"image_prompt"`
	Front             string   `json:"anki_front"`
	Back              string   `json:"anki_back"`
	Tags              []string `json:"tags"`
}

// Word returns the display form of the card, preferring kanji.
func (c *Flashcard) Word() string {
	if c.Kanji != "" {
		return c.Kanji
	}
	return c.Kana
}

// MediaAsset is a generated illustration ready for upload. Filename is
// derived deterministically from the source word so repeated runs overwrite
// the same bridge media entry instead of accumulating copies.
type MediaAsset struct {
	Filename string
	Data     []byte
}

// NotePayload is the bridge-facing representation of a card.
type NotePayload struct {
	Deck           string
	Model          string
	Fields         map[string]string
	Tags           []string
	AllowDuplicate bool
}

// ValidateFlashcard normalizes a model-produced card in place and reports the
// first schema violation. String fields are trimmed, tags are trimmed and
// deduplicated. Kanji may be empty (kana-only words); everything else the
// pipeline depends on must be present.
func ValidateFlashcard(c *Flashcard) error {
	if c == nil {
		return &ValidationError{Field: "card", Reason: "payload required"}
	}
	c.Kanji = strings.TrimSpace(c.Kanji)
	c.Kana = strings.TrimSpace(c.Kana)
	c.EnglishMeaning = strings.TrimSpace(c.EnglishMeaning)
	c.ExampleSentenceJP = strings.TrimSpace(c.ExampleSentenceJP)
	c.ExampleSentenceEN = strings.TrimSpace(c.ExampleSentenceEN)
	c.ImagePrompt = strings.TrimSpace(c.ImagePrompt)
	c.Front = strings.TrimSpace(c.Front)
	c.Back = strings.TrimSpace(c.Back)
	c.Tags = lo.Uniq(lo.FilterMap(c.Tags, func(tag string, _ int) (string, bool) {
		tag = strings.TrimSpace(tag)
		return tag, tag != ""
	}))

	switch {
	case c.Kana == "":
		return &ValidationError{Field: "kana", Reason: "required"}
	case c.EnglishMeaning == "":
		return &ValidationError{Field: "english_meaning", Reason: "required"}
	case c.ImagePrompt == "":
		return &ValidationError{Field: "image_prompt", Reason: "required", Err: ErrEmptyImagePrompt}
	case len(c.Tags) == 0:
		return &ValidationError{Field: "tags", Reason: "at least one tag required"}
	}
	return nil
}
