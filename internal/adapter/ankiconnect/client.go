// Package ankiconnect is a minimal client for the AnkiConnect bridge: a
// single local HTTP endpoint speaking an action/params envelope. The bridge
// answers HTTP 200 even on logical failures, so the envelope's error field is
// the only source of truth.
package ankiconnect

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/eslsoft/ankigen/internal/entity"
	"github.com/eslsoft/ankigen/internal/infrastructure/config"
)

const protocolVersion = 6

// Client invokes AnkiConnect actions. It performs no retries; retry policy
// belongs to the caller.
type Client struct {
	url    string
	http   *http.Client
	logger logrus.FieldLogger
}

func NewClient(cfg *config.Config, logger logrus.FieldLogger) *Client {
	return &Client{
		url:    cfg.Anki.URL,
		http:   &http.Client{Timeout: cfg.Anki.Timeout},
		logger: logger,
	}
}

type envelope struct {
	Action  string `json:"action"`
	Version int    `json:"version"`
	Params  any    `json:"params,omitempty"`
}

type response struct {
	Result json.RawMessage `json:"result"`
	Error  *string         `json:"error"`
}

// invoke posts one action envelope and decodes the response. An unreachable
// bridge wraps entity.ErrBridgeUnavailable; a non-null envelope error becomes
// a BridgeError carrying the message verbatim, wrapping ErrDuplicateNote when
// the bridge's duplicate detection fired.
func (c *Client) invoke(ctx context.Context, action string, params any, result any) error {
	body, err := json.Marshal(envelope{Action: action, Version: protocolVersion, Params: params})
	if err != nil {
		return fmt.Errorf("encode %s request: %w", action, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build %s request: %w", action, err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", entity.ErrBridgeUnavailable, err)
	}
	defer resp.Body.Close()

	var out response
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return fmt.Errorf("decode %s response: %w", action, err)
	}
	if out.Error != nil && *out.Error != "" {
		berr := &entity.BridgeError{Action: action, Message: *out.Error}
		if strings.Contains(strings.ToLower(*out.Error), "duplicate") {
			berr.Err = entity.ErrDuplicateNote
		}
		return berr
	}
	if result != nil && len(out.Result) > 0 && string(out.Result) != "null" {
		if err := json.Unmarshal(out.Result, result); err != nil {
			return fmt.Errorf("decode %s result: %w", action, err)
		}
	}
	return nil
}

// StoreMediaFile uploads bytes into the bridge's media store. The bridge
// overwrites an existing file of the same name, which is what makes repeated
// runs for the same word idempotent.
func (c *Client) StoreMediaFile(ctx context.Context, filename string, data []byte) (string, error) {
	params := map[string]any{
		"filename": filename,
		"data":     base64.StdEncoding.EncodeToString(data),
	}
	var stored string
	if err := c.invoke(ctx, "storeMediaFile", params, &stored); err != nil {
		return "", err
	}
	if stored == "" {
		stored = filename
	}
	return stored, nil
}

type wireNote struct {
	DeckName  string            `json:"deckName"`
	ModelName string            `json:"modelName"`
	Fields    map[string]string `json:"fields"`
	Options   struct {
		AllowDuplicate bool `json:"allowDuplicate"`
	} `json:"options"`
	Tags []string `json:"tags"`
}

// AddNote creates a note and returns its id. A duplicate detected by the
// bridge is surfaced as an error wrapping entity.ErrDuplicateNote.
func (c *Client) AddNote(ctx context.Context, note *entity.NotePayload) (int64, error) {
	wn := wireNote{
		DeckName:  note.Deck,
		ModelName: note.Model,
		Fields:    note.Fields,
		Tags:      note.Tags,
	}
	wn.Options.AllowDuplicate = note.AllowDuplicate

	var id int64
	if err := c.invoke(ctx, "addNote", map[string]any{"note": wn}, &id); err != nil {
		return 0, err
	}
	return id, nil
}

// Version reports the bridge protocol version, used as a reachability probe.
func (c *Client) Version(ctx context.Context) (int, error) {
	var version int
	if err := c.invoke(ctx, "version", nil, &version); err != nil {
		return 0, err
	}
	return version, nil
}

// Sync triggers a collection sync with AnkiWeb.
func (c *Client) Sync(ctx context.Context) error {
	return c.invoke(ctx, "sync", nil, nil)
}
