package openrouter

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/eslsoft/ankigen/internal/entity"
)

const systemPrompt = `You are a Japanese language assistant that generates structured flashcard data for Anki. Given a Japanese word or phrase, return a JSON object with exactly these keys:
{"kanji": string, "kana": string, "english_meaning": string, "example_sentence_jp": string, "example_sentence_en": string, "image_prompt": string, "anki_front": string, "anki_back": string, "tags": [string]}.
kanji may be empty for kana-only words; every other field is required. image_prompt must describe a simple illustration of the word's meaning. Keep the text concise and accurate. Output valid JSON only.`

type textResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

// GenerateFlashcard asks the text model for structured card data. A response
// that is not the instructed JSON shape counts as malformed output and is
// retried once with the same prompt; a second malformed response is returned
// to the caller. Required-field presence is not checked here, that is the
// validator's job.
func (c *Client) GenerateFlashcard(ctx context.Context, word string) (*entity.Flashcard, error) {
	payload := chatRequest{
		Model: c.textModel,
		Messages: []chatMessage{
			{Role: "system", Content: systemPrompt},
			{Role: "user", Content: fmt.Sprintf("Generate data for the word %q. Output valid JSON only.", word)},
		},
		ResponseFormat: &struct {
			Type string `json:"type"`
		}{Type: "json_object"},
	}

	card, err := c.generateOnce(ctx, payload)
	if errors.Is(err, entity.ErrMalformedOutput) {
		c.logger.WithField("word", word).Warn("malformed model output, retrying once")
		card, err = c.generateOnce(ctx, payload)
	}
	return card, err
}

func (c *Client) generateOnce(ctx context.Context, payload chatRequest) (*entity.Flashcard, error) {
	data, err := c.completions(ctx, c.textHTTP, payload)
	if err != nil {
		return nil, err
	}

	var resp textResponse
	if err := json.Unmarshal(data, &resp); err != nil {
		return nil, fmt.Errorf("%w: decode envelope: %v", entity.ErrMalformedOutput, err)
	}
	if len(resp.Choices) == 0 {
		return nil, fmt.Errorf("%w: no choices in response", entity.ErrMalformedOutput)
	}

	var card entity.Flashcard
	if err := json.Unmarshal([]byte(resp.Choices[0].Message.Content), &card); err != nil {
		return nil, fmt.Errorf("%w: decode card: %v", entity.ErrMalformedOutput, err)
	}
	return &card, nil
}
