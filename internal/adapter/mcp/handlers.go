package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/sirupsen/logrus"

	"github.com/eslsoft/ankigen/internal/entity"
	"github.com/eslsoft/ankigen/internal/repository"
	"github.com/eslsoft/ankigen/internal/usecase"
)

// Handlers holds dependencies for MCP tool handlers.
type Handlers struct {
	publisher *usecase.Publisher
	runs      repository.RunRepository
	logger    logrus.FieldLogger
}

// NewHandlers creates a new Handlers instance.
func NewHandlers(publisher *usecase.Publisher, runs repository.RunRepository, logger logrus.FieldLogger) *Handlers {
	return &Handlers{publisher: publisher, runs: runs, logger: logger}
}

// CreateRequest represents the arguments for card_create.
type CreateRequest struct {
	Word   string `json:"word"`
	Deck   string `json:"deck,omitempty"`
	NoAnki bool   `json:"no_anki,omitempty"`
}

// HistoryRequest represents the arguments for card_history.
type HistoryRequest struct {
	Limit int `json:"limit,omitempty"`
}

// createResult is the card_create response payload.
type createResult struct {
	Word          string            `json:"word"`
	Duplicate     bool              `json:"duplicate,omitempty"`
	NoteID        int64             `json:"note_id,omitempty"`
	MediaFilename string            `json:"media_filename,omitempty"`
	ArtifactJSON  string            `json:"artifact_json,omitempty"`
	ArtifactImage string            `json:"artifact_image,omitempty"`
	Card          *entity.Flashcard `json:"card,omitempty"`
}

// runView is one card_history entry.
type runView struct {
	Word      string    `json:"word"`
	Stage     string    `json:"stage"`
	Duplicate bool      `json:"duplicate,omitempty"`
	NoteID    int64     `json:"note_id,omitempty"`
	Error     string    `json:"error,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// HandleCreate handles the card_create tool call.
func (h *Handlers) HandleCreate(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decode[CreateRequest](req)
	if err != nil {
		return errorResult("INVALID_REQUEST", err.Error()), nil
	}
	word := strings.TrimSpace(input.Word)
	if word == "" {
		return errorResult("INVALID_REQUEST", "word is required"), nil
	}

	pub := h.publisher
	var opts []usecase.Option
	if input.Deck != "" {
		opts = append(opts, usecase.WithDeck(input.Deck))
	}
	if input.NoAnki {
		opts = append(opts, usecase.WithoutBridge())
	}
	if len(opts) > 0 {
		pub = pub.With(opts...)
	}

	res, err := pub.Publish(ctx, word)
	if err != nil {
		h.logger.WithField("word", word).WithError(err).Warn("publish via mcp failed")
		return errorResult(errorCode(err), err.Error()), nil
	}

	return successResult(createResult{
		Word:          res.Word,
		Duplicate:     res.Duplicate,
		NoteID:        res.NoteID,
		MediaFilename: res.MediaFilename,
		ArtifactJSON:  res.ArtifactJSON,
		ArtifactImage: res.ArtifactImage,
		Card:          res.Card,
	})
}

// HandleHistory handles the card_history tool call.
func (h *Handlers) HandleHistory(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decode[HistoryRequest](req)
	if err != nil {
		return errorResult("INVALID_REQUEST", err.Error()), nil
	}
	limit := input.Limit
	if limit <= 0 {
		limit = 20
	}

	runs, err := h.runs.List(ctx, limit)
	if err != nil {
		return errorResult("INTERNAL", err.Error()), nil
	}

	views := make([]runView, 0, len(runs))
	for _, run := range runs {
		views = append(views, runView{
			Word:      run.Word,
			Stage:     string(run.Stage),
			Duplicate: run.Duplicate,
			NoteID:    run.NoteID,
			Error:     run.Error,
			CreatedAt: run.CreatedAt,
		})
	}
	return successResult(map[string]any{"runs": views})
}

// decode maps the request arguments onto a typed struct via JSON.
func decode[T any](req mcp.CallToolRequest) (T, error) {
	var out T
	raw, err := json.Marshal(req.GetArguments())
	if err != nil {
		return out, err
	}
	if err := json.Unmarshal(raw, &out); err != nil {
		return out, err
	}
	return out, nil
}

// errorCode maps pipeline failures to stable codes for the client.
func errorCode(err error) string {
	var stageErr *entity.StageError
	if errors.As(err, &stageErr) {
		return "STAGE_" + strings.ToUpper(string(stageErr.Stage))
	}
	return "INTERNAL"
}

// errorResult creates an MCP error result. IsError is set so clients
// recognize failures properly.
func errorResult(code, message string) *mcp.CallToolResult {
	payload := map[string]any{
		"error": map[string]any{
			"code":    code,
			"message": message,
		},
	}
	content, _ := json.Marshal(payload)
	return &mcp.CallToolResult{
		Content: []mcp.Content{mcp.TextContent{Type: "text", Text: string(content)}},
		IsError: true,
	}
}

// successResult creates an MCP success result from any data.
func successResult(data any) (*mcp.CallToolResult, error) {
	return mcp.NewToolResultJSON(data)
}
