package entity

import (
	"errors"
	"fmt"
)

// Sentinel errors for the pipeline. Adapters wrap these so callers can branch
// with errors.Is without knowing transport details.
var (
	// ErrTransport covers network-layer failures and timeouts against the
	// generation endpoints.
	ErrTransport = errors.New("transport failure")
	// ErrMalformedOutput means the generator responded, but not with the
	// JSON shape it was instructed to produce.
	ErrMalformedOutput = errors.New("malformed generator output")
	// ErrEmptyImagePrompt marks a card whose image_prompt is missing; the
	// image stage cannot run without it.
	ErrEmptyImagePrompt = errors.New("empty image prompt")
	// ErrBridgeUnavailable means the local bridge could not be reached at
	// all (AnkiConnect not running).
	ErrBridgeUnavailable = errors.New("bridge unavailable")
	// ErrDuplicateNote is the bridge's duplicate detection firing. Expected,
	// not exceptional.
	ErrDuplicateNote = errors.New("duplicate note")
)

// ValidationError reports a schema violation on a generated card.
type ValidationError struct {
	Field  string
	Reason string
	Err    error // optional sentinel, e.g. ErrEmptyImagePrompt
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid card: field %q %s", e.Field, e.Reason)
}

func (e *ValidationError) Unwrap() error { return e.Err }

// BridgeError carries a logical error returned in the bridge envelope. The
// bridge reports these with HTTP 200, so the message is all there is.
type BridgeError struct {
	Action  string
	Message string
	Err     error // optional sentinel, e.g. ErrDuplicateNote
}

func (e *BridgeError) Error() string {
	return fmt.Sprintf("bridge %s: %s", e.Action, e.Message)
}

func (e *BridgeError) Unwrap() error { return e.Err }
