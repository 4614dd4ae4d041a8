package entity

import "time"

// Stage identifies where in the pipeline a run currently is, or where it
// terminated.
type Stage string

const (
	StageGenerating       Stage = "generating"
	StageValidating       Stage = "validating"
	StageWritingArtifacts Stage = "writing_artifacts"
	StageRenderingImage   Stage = "rendering_image"
	StageUploadingMedia   Stage = "uploading_media"
	StageCreatingNote     Stage = "creating_note"
	StageDone             Stage = "done"
)

// PublishResult is the caller-visible outcome of one pipeline run.
type PublishResult struct {
	Word          string
	Stage         Stage
	Duplicate     bool // note already existed; still a success
	NoteID        int64
	MediaFilename string
	ArtifactJSON  string // local debug record path, set once written
	ArtifactImage string
	Card          *Flashcard
}

// StageError wraps a failure with the stage it occurred in.
type StageError struct {
	Stage Stage
	Err   error
}

func (e *StageError) Error() string {
	return string(e.Stage) + ": " + e.Err.Error()
}

func (e *StageError) Unwrap() error { return e.Err }

// Run is one recorded pipeline invocation in the local history store.
type Run struct {
	ID            string // ULID
	Word          string
	MediaFilename string
	Stage         Stage
	Duplicate     bool
	NoteID        int64
	Error         string
	CreatedAt     time.Time
}
