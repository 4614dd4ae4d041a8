package openrouter

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/eslsoft/ankigen/internal/entity"
)

// imageResponse covers the response shapes image-capable models return. The
// shape is provider-dependent: some answer DALL-E style with a data array,
// others embed the image in the chat message content as a data URL, a hosted
// URL, or a list of typed parts.
type imageResponse struct {
	Data []struct {
		URL     string `json:"url"`
		B64JSON string `json:"b64_json"`
	} `json:"data"`
	Choices []struct {
		Message struct {
			Content json.RawMessage `json:"content"`
			Images  []struct {
				ImageURL struct {
					URL string `json:"url"`
				} `json:"image_url"`
			} `json:"images"`
		} `json:"message"`
	} `json:"choices"`
}

type contentPart struct {
	Type     string `json:"type"`
	ImageB64 string `json:"image_b64"`
	URL      string `json:"url"`
	B64JSON  string `json:"b64_json"`
	ImageURL struct {
		URL string `json:"url"`
	} `json:"image_url"`
}

// GenerateImage sends the prompt to the image model and returns raw image
// bytes, branching on whichever response field is present. An unrecognized
// shape is malformed output, not a transport failure.
func (c *Client) GenerateImage(ctx context.Context, prompt string) ([]byte, error) {
	payload := chatRequest{
		Model:    c.imageModel,
		Messages: []chatMessage{{Role: "user", Content: prompt}},
	}

	data, err := c.completions(ctx, c.imageHTTP, payload)
	if err != nil {
		return nil, err
	}

	var resp imageResponse
	if err := json.Unmarshal(data, &resp); err != nil {
		return nil, fmt.Errorf("%w: decode envelope: %v", entity.ErrMalformedOutput, err)
	}
	return c.extractImage(ctx, &resp)
}

func (c *Client) extractImage(ctx context.Context, resp *imageResponse) ([]byte, error) {
	// DALL-E style data array
	if len(resp.Data) > 0 {
		item := resp.Data[0]
		if item.URL != "" {
			return c.fetch(ctx, item.URL)
		}
		if item.B64JSON != "" {
			return decodeBase64(item.B64JSON)
		}
	}

	if len(resp.Choices) == 0 {
		return nil, fmt.Errorf("%w: no image data in response", entity.ErrMalformedOutput)
	}
	msg := resp.Choices[0].Message

	// OpenRouter's images attachment
	if len(msg.Images) > 0 && msg.Images[0].ImageURL.URL != "" {
		return c.imageFromURL(ctx, msg.Images[0].ImageURL.URL)
	}

	// Message content: either a plain string or a list of typed parts.
	var asString string
	if err := json.Unmarshal(msg.Content, &asString); err == nil {
		return c.imageFromString(ctx, asString)
	}
	var parts []contentPart
	if err := json.Unmarshal(msg.Content, &parts); err == nil {
		for _, part := range parts {
			switch {
			case part.ImageURL.URL != "":
				return c.imageFromURL(ctx, part.ImageURL.URL)
			case part.ImageB64 != "":
				return decodeBase64(part.ImageB64)
			case part.URL != "":
				return c.imageFromURL(ctx, part.URL)
			case part.B64JSON != "":
				return decodeBase64(part.B64JSON)
			}
		}
	}

	return nil, fmt.Errorf("%w: no image data in response", entity.ErrMalformedOutput)
}

func (c *Client) imageFromString(ctx context.Context, content string) ([]byte, error) {
	switch {
	case strings.HasPrefix(content, "data:image"):
		return decodeDataURL(content)
	case strings.HasPrefix(content, "http"):
		return c.fetch(ctx, content)
	}
	return nil, fmt.Errorf("%w: content is neither a data URL nor a link", entity.ErrMalformedOutput)
}

// imageFromURL handles both hosted URLs and inline data URLs, which some
// providers put in the same field.
func (c *Client) imageFromURL(ctx context.Context, url string) ([]byte, error) {
	if strings.HasPrefix(url, "data:image") {
		return decodeDataURL(url)
	}
	return c.fetch(ctx, url)
}

func (c *Client) fetch(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("build image fetch: %w", err)
	}
	resp, err := c.imageHTTP.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: fetch image: %v", entity.ErrTransport, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: fetch image: status %d", entity.ErrTransport, resp.StatusCode)
	}
	return io.ReadAll(resp.Body)
}

func decodeDataURL(url string) ([]byte, error) {
	_, encoded, ok := strings.Cut(url, ",")
	if !ok {
		return nil, fmt.Errorf("%w: malformed data URL", entity.ErrMalformedOutput)
	}
	return decodeBase64(encoded)
}

func decodeBase64(encoded string) ([]byte, error) {
	data, err := base64.StdEncoding.DecodeString(strings.TrimSpace(encoded))
	if err != nil {
		return nil, fmt.Errorf("%w: decode image bytes: %v", entity.ErrMalformedOutput, err)
	}
	return data, nil
}
