package usecase

import (
	"context"
	"errors"
	"time"

	"github.com/oklog/ulid/v2"
	"github.com/sirupsen/logrus"

	"github.com/eslsoft/ankigen/internal/entity"
	"github.com/eslsoft/ankigen/internal/repository"
	"github.com/eslsoft/ankigen/pkg/slug"
)

// TextGenerator produces structured card data for a word.
type TextGenerator interface {
	GenerateFlashcard(ctx context.Context, word string) (*entity.Flashcard, error)
}

// ImageGenerator produces illustration bytes for a prompt.
type ImageGenerator interface {
	GenerateImage(ctx context.Context, prompt string) ([]byte, error)
}

// Bridge is the slice of the local bridge the publisher needs.
type Bridge interface {
	StoreMediaFile(ctx context.Context, filename string, data []byte) (string, error)
	AddNote(ctx context.Context, note *entity.NotePayload) (int64, error)
	Sync(ctx context.Context) error
}

// Publisher runs the whole pipeline for one word: generate, validate,
// illustrate, upload, create note. Stages only move forward; the first
// failure terminates the run with the stage it happened in. Local debug
// artifacts are on disk before the bridge is ever touched, so a bridge
// failure never loses generated content.
type Publisher struct {
	text      TextGenerator
	image     ImageGenerator
	bridge    Bridge
	artifacts repository.ArtifactStore
	runs      repository.RunRepository
	logger    logrus.FieldLogger

	deck           string
	noteModel      string
	allowDuplicate bool
	syncAfter      bool
	skipBridge     bool
}

type Option func(*Publisher)

func WithDeck(deck string) Option {
	return func(p *Publisher) {
		if deck != "" {
			p.deck = deck
		}
	}
}

func WithNoteModel(model string) Option {
	return func(p *Publisher) {
		if model != "" {
			p.noteModel = model
		}
	}
}

// WithHistory records every run (terminal stage, outcome, error) to the
// given repository. Recording is best effort and never fails a run.
func WithHistory(runs repository.RunRepository) Option {
	return func(p *Publisher) { p.runs = runs }
}

// WithSyncAfter triggers a collection sync after a successful publish.
func WithSyncAfter() Option {
	return func(p *Publisher) { p.syncAfter = true }
}

// WithoutBridge stops the pipeline after local artifacts are written; no
// bridge call is made.
func WithoutBridge() Option {
	return func(p *Publisher) { p.skipBridge = true }
}

// WithAllowDuplicate asks the bridge to skip its duplicate check.
func WithAllowDuplicate() Option {
	return func(p *Publisher) { p.allowDuplicate = true }
}

func NewPublisher(text TextGenerator, image ImageGenerator, bridge Bridge, artifacts repository.ArtifactStore, logger logrus.FieldLogger, opts ...Option) *Publisher {
	p := &Publisher{
		text:      text,
		image:     image,
		bridge:    bridge,
		artifacts: artifacts,
		logger:    logger,
		deck:      "AgentDeck",
		noteModel: "Basic",
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// With returns a copy of the publisher with extra options applied, leaving
// the receiver untouched. Callers use it for per-request overrides.
func (p *Publisher) With(opts ...Option) *Publisher {
	clone := *p
	for _, opt := range opts {
		opt(&clone)
	}
	return &clone
}

// Publish runs the pipeline for one word. On failure the returned result
// still carries whatever was produced (card, artifact paths) alongside a
// StageError naming the failing stage. A bridge-detected duplicate note is a
// success with Duplicate set.
func (p *Publisher) Publish(ctx context.Context, word string) (result *entity.PublishResult, err error) {
	result = &entity.PublishResult{Word: word, Stage: entity.StageGenerating}
	defer func() { p.record(ctx, result, err) }()

	log := p.logger.WithField("word", word)

	card, gerr := p.text.GenerateFlashcard(ctx, word)
	if gerr != nil {
		return result, p.fail(result, entity.StageGenerating, gerr)
	}

	result.Stage = entity.StageValidating
	if verr := entity.ValidateFlashcard(card); verr != nil {
		return result, p.fail(result, entity.StageValidating, verr)
	}
	result.Card = card

	// The generated record hits disk before anything else can go wrong.
	result.Stage = entity.StageWritingArtifacts
	jsonPath, aerr := p.artifacts.WriteCard(word, card)
	if aerr != nil {
		return result, p.fail(result, entity.StageWritingArtifacts, aerr)
	}
	result.ArtifactJSON = jsonPath
	log.WithField("path", jsonPath).Debug("card artifact written")

	result.Stage = entity.StageRenderingImage
	imgData, ierr := p.image.GenerateImage(ctx, card.ImagePrompt)
	if ierr != nil {
		return result, p.fail(result, entity.StageRenderingImage, ierr)
	}
	asset := &entity.MediaAsset{Filename: slug.Media(word), Data: imgData}
	result.MediaFilename = asset.Filename

	imgPath, aerr := p.artifacts.WriteImage(asset)
	if aerr != nil {
		return result, p.fail(result, entity.StageWritingArtifacts, aerr)
	}
	result.ArtifactImage = imgPath
	log.WithField("path", imgPath).Debug("image artifact written")

	if p.skipBridge {
		result.Stage = entity.StageDone
		return result, nil
	}

	result.Stage = entity.StageUploadingMedia
	if _, serr := p.bridge.StoreMediaFile(ctx, asset.Filename, asset.Data); serr != nil {
		return result, p.fail(result, entity.StageUploadingMedia, serr)
	}

	result.Stage = entity.StageCreatingNote
	note := BuildNote(card, asset.Filename, p.deck, p.noteModel, p.allowDuplicate)
	noteID, nerr := p.bridge.AddNote(ctx, note)
	switch {
	case errors.Is(nerr, entity.ErrDuplicateNote):
		result.Duplicate = true
		log.Info("note already exists, treating as success")
	case nerr != nil:
		return result, p.fail(result, entity.StageCreatingNote, nerr)
	default:
		result.NoteID = noteID
	}

	if p.syncAfter {
		if serr := p.bridge.Sync(ctx); serr != nil {
			log.WithError(serr).Warn("sync after publish failed")
		}
	}

	result.Stage = entity.StageDone
	return result, nil
}

func (p *Publisher) fail(result *entity.PublishResult, stage entity.Stage, err error) error {
	result.Stage = stage
	return &entity.StageError{Stage: stage, Err: err}
}

func (p *Publisher) record(ctx context.Context, result *entity.PublishResult, err error) {
	if p.runs == nil {
		return
	}
	run := &entity.Run{
		ID:            ulid.Make().String(),
		Word:          result.Word,
		MediaFilename: result.MediaFilename,
		Stage:         result.Stage,
		Duplicate:     result.Duplicate,
		NoteID:        result.NoteID,
		CreatedAt:     time.Now().UTC(),
	}
	if err != nil {
		run.Error = err.Error()
	}
	if rerr := p.runs.Record(ctx, run); rerr != nil {
		p.logger.WithError(rerr).Warn("failed to record run history")
	}
}
