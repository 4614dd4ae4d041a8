// Package openrouter wraps the OpenRouter chat-completions API for both
// structured text generation and image generation.
package openrouter

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/eslsoft/ankigen/internal/entity"
	"github.com/eslsoft/ankigen/internal/infrastructure/config"
)

// Client talks to the OpenRouter chat-completions endpoint.
type Client struct {
	baseURL    string
	apiKey     string
	textModel  string
	imageModel string
	textHTTP   *http.Client
	imageHTTP  *http.Client
	logger     logrus.FieldLogger
}

// NewClient builds a client from configuration. Separate HTTP clients carry
// the text and image timeouts; image generation is slower by an order of
// magnitude.
func NewClient(cfg *config.Config, logger logrus.FieldLogger) *Client {
	return &Client{
		baseURL:    strings.TrimRight(cfg.OpenRouter.BaseURL, "/"),
		apiKey:     cfg.OpenRouter.APIKey,
		textModel:  cfg.OpenRouter.TextModel,
		imageModel: cfg.OpenRouter.ImageModel,
		textHTTP:   &http.Client{Timeout: cfg.OpenRouter.TextTimeout},
		imageHTTP:  &http.Client{Timeout: cfg.OpenRouter.ImageTimeout},
		logger:     logger,
	}
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model          string        `json:"model"`
	Messages       []chatMessage `json:"messages"`
	ResponseFormat *struct {
		Type string `json:"type"`
	} `json:"response_format,omitempty"`
}

// completions posts a chat request and returns the raw response body. All
// network-layer failures, including timeouts, wrap entity.ErrTransport.
func (c *Client) completions(ctx context.Context, client *http.Client, payload chatRequest) ([]byte, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/chat/completions", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", entity.ErrTransport, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: read response: %v", entity.ErrTransport, err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: status %d: %s", entity.ErrTransport, resp.StatusCode, truncate(string(data), 200))
	}
	return data, nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
