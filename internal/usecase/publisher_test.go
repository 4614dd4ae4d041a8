package usecase

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/sirupsen/logrus"

	"github.com/eslsoft/ankigen/internal/entity"
)

// mocks share an event log so tests can assert side-effect ordering.

type mockText struct {
	events *[]string
	card   *entity.Flashcard
	err    error
}

func (m *mockText) GenerateFlashcard(ctx context.Context, word string) (*entity.Flashcard, error) {
	*m.events = append(*m.events, "generate_text")
	if m.err != nil {
		return nil, m.err
	}
	card := *m.card
	return &card, nil
}

type mockImage struct {
	events *[]string
	err    error
}

func (m *mockImage) GenerateImage(ctx context.Context, prompt string) ([]byte, error) {
	*m.events = append(*m.events, "generate_image")
	if m.err != nil {
		return nil, m.err
	}
	return []byte("png"), nil
}

type mockBridge struct {
	events   *[]string
	storeErr error
	addErr   error
	noteID   int64
	notes    []*entity.NotePayload
	synced   bool
}

func (m *mockBridge) StoreMediaFile(ctx context.Context, filename string, data []byte) (string, error) {
	*m.events = append(*m.events, "store_media")
	if m.storeErr != nil {
		return "", m.storeErr
	}
	return filename, nil
}

func (m *mockBridge) AddNote(ctx context.Context, note *entity.NotePayload) (int64, error) {
	*m.events = append(*m.events, "add_note")
	m.notes = append(m.notes, note)
	if m.addErr != nil {
		return 0, m.addErr
	}
	return m.noteID, nil
}

func (m *mockBridge) Sync(ctx context.Context) error {
	*m.events = append(*m.events, "sync")
	m.synced = true
	return nil
}

type mockArtifacts struct {
	events   *[]string
	cardErr  error
	imageErr error
}

func (m *mockArtifacts) WriteCard(word string, card *entity.Flashcard) (string, error) {
	*m.events = append(*m.events, "write_json")
	if m.cardErr != nil {
		return "", m.cardErr
	}
	return "out/" + word + "_card.json", nil
}

func (m *mockArtifacts) WriteImage(asset *entity.MediaAsset) (string, error) {
	*m.events = append(*m.events, "write_image")
	if m.imageErr != nil {
		return "", m.imageErr
	}
	return "out/" + asset.Filename, nil
}

type mockRuns struct {
	recorded []*entity.Run
	err      error
}

func (m *mockRuns) Record(ctx context.Context, run *entity.Run) error {
	m.recorded = append(m.recorded, run)
	return m.err
}

func (m *mockRuns) List(ctx context.Context, limit int) ([]*entity.Run, error) { return nil, nil }

func (m *mockRuns) LastByWord(ctx context.Context, word string) (*entity.Run, error) {
	return nil, nil
}

func testCard() *entity.Flashcard {
	return &entity.Flashcard{
		Kanji:          "猫",
		Kana:           "ねこ",
		EnglishMeaning: "cat",
		ImagePrompt:    "a friendly cat",
		Front:          "猫",
		Back:           "cat",
		Tags:           []string{"animal"},
	}
}

type fixture struct {
	events    []string
	text      *mockText
	image     *mockImage
	bridge    *mockBridge
	artifacts *mockArtifacts
	runs      *mockRuns
}

func newFixture() *fixture {
	f := &fixture{}
	f.text = &mockText{events: &f.events, card: testCard()}
	f.image = &mockImage{events: &f.events}
	f.bridge = &mockBridge{events: &f.events, noteID: 7}
	f.artifacts = &mockArtifacts{events: &f.events}
	f.runs = &mockRuns{}
	return f
}

func testLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}

func (f *fixture) publisher(opts ...Option) *Publisher {
	opts = append([]Option{WithHistory(f.runs)}, opts...)
	return NewPublisher(f.text, f.image, f.bridge, f.artifacts, testLogger(), opts...)
}

func TestPublish_FreshInsert(t *testing.T) {
	f := newFixture()
	res, err := f.publisher().Publish(context.Background(), "猫")
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if res.Stage != entity.StageDone || res.Duplicate || res.NoteID != 7 {
		t.Fatalf("unexpected result: %+v", res)
	}
	if res.ArtifactJSON == "" || res.ArtifactImage == "" || res.MediaFilename == "" {
		t.Fatalf("artifacts not reported: %+v", res)
	}
	want := []string{"generate_text", "write_json", "generate_image", "write_image", "store_media", "add_note"}
	if strings.Join(f.events, ",") != strings.Join(want, ",") {
		t.Fatalf("side effect order %v, want %v", f.events, want)
	}
}

func TestPublish_DuplicateIsSuccess(t *testing.T) {
	f := newFixture()
	f.bridge.addErr = &entity.BridgeError{Action: "addNote", Message: "cannot create note because it is a duplicate", Err: entity.ErrDuplicateNote}

	res, err := f.publisher().Publish(context.Background(), "猫")
	if err != nil {
		t.Fatalf("duplicate should not be an error: %v", err)
	}
	if res.Stage != entity.StageDone || !res.Duplicate {
		t.Fatalf("expected Done with duplicate flag, got %+v", res)
	}
	if res.NoteID != 0 {
		t.Fatalf("duplicate must not claim a note id: %+v", res)
	}
}

func TestPublish_ImageFailureKeepsTextArtifact(t *testing.T) {
	f := newFixture()
	f.image.err = errors.New("image model unavailable")

	res, err := f.publisher().Publish(context.Background(), "猫")
	if err == nil {
		t.Fatal("expected error")
	}
	var serr *entity.StageError
	if !errors.As(err, &serr) || serr.Stage != entity.StageRenderingImage {
		t.Fatalf("expected failure at image stage, got %v", err)
	}
	if res.ArtifactJSON == "" {
		t.Fatalf("text artifact must survive image failure: %+v", res)
	}
	for _, ev := range f.events {
		if ev == "store_media" || ev == "add_note" {
			t.Fatalf("bridge touched after image failure: %v", f.events)
		}
	}
}

func TestPublish_ValidationFailureBeforeSideEffects(t *testing.T) {
	f := newFixture()
	f.text.card.Kana = ""

	_, err := f.publisher().Publish(context.Background(), "猫")
	var verr *entity.ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected validation error, got %v", err)
	}
	var serr *entity.StageError
	if !errors.As(err, &serr) || serr.Stage != entity.StageValidating {
		t.Fatalf("expected validating stage, got %v", err)
	}
	if len(f.events) != 1 || f.events[0] != "generate_text" {
		t.Fatalf("side effects after validation failure: %v", f.events)
	}
}

func TestPublish_CardWriteFailureReportsArtifactStage(t *testing.T) {
	f := newFixture()
	f.artifacts.cardErr = errors.New("disk full")

	_, err := f.publisher().Publish(context.Background(), "猫")
	var serr *entity.StageError
	if !errors.As(err, &serr) || serr.Stage != entity.StageWritingArtifacts {
		t.Fatalf("expected writing_artifacts stage, got %v", err)
	}
	for _, ev := range f.events {
		if ev == "generate_image" || ev == "store_media" {
			t.Fatalf("pipeline continued after artifact failure: %v", f.events)
		}
	}
}

func TestPublish_ImageWriteFailureReportsArtifactStage(t *testing.T) {
	f := newFixture()
	f.artifacts.imageErr = errors.New("disk full")

	_, err := f.publisher().Publish(context.Background(), "猫")
	var serr *entity.StageError
	if !errors.As(err, &serr) || serr.Stage != entity.StageWritingArtifacts {
		t.Fatalf("expected writing_artifacts stage, got %v", err)
	}
}

func TestPublish_MediaUploadFailureStopsNote(t *testing.T) {
	f := newFixture()
	f.bridge.storeErr = &entity.BridgeError{Action: "storeMediaFile", Message: "collection is not available"}

	_, err := f.publisher().Publish(context.Background(), "猫")
	var serr *entity.StageError
	if !errors.As(err, &serr) || serr.Stage != entity.StageUploadingMedia {
		t.Fatalf("expected uploading stage failure, got %v", err)
	}
	for _, ev := range f.events {
		if ev == "add_note" {
			t.Fatalf("note created after failed upload: %v", f.events)
		}
	}
}

func TestPublish_GenericBridgeErrorFails(t *testing.T) {
	f := newFixture()
	f.bridge.addErr = &entity.BridgeError{Action: "addNote", Message: "deck not found"}

	res, err := f.publisher().Publish(context.Background(), "猫")
	var serr *entity.StageError
	if !errors.As(err, &serr) || serr.Stage != entity.StageCreatingNote {
		t.Fatalf("expected creating note failure, got %v", err)
	}
	if res.Duplicate {
		t.Fatalf("generic bridge error flagged duplicate: %+v", res)
	}
}

func TestPublish_WithoutBridge(t *testing.T) {
	f := newFixture()
	res, err := f.publisher(WithoutBridge()).Publish(context.Background(), "猫")
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if res.Stage != entity.StageDone {
		t.Fatalf("expected Done, got %+v", res)
	}
	for _, ev := range f.events {
		if ev == "store_media" || ev == "add_note" {
			t.Fatalf("bridge used despite WithoutBridge: %v", f.events)
		}
	}
}

func TestPublish_SyncAfterSuccess(t *testing.T) {
	f := newFixture()
	if _, err := f.publisher(WithSyncAfter()).Publish(context.Background(), "猫"); err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if !f.bridge.synced {
		t.Fatal("expected sync call")
	}
}

func TestPublish_RecordsHistoryOnSuccessAndFailure(t *testing.T) {
	f := newFixture()
	if _, err := f.publisher().Publish(context.Background(), "猫"); err != nil {
		t.Fatalf("unexpected err: %v", err)
	}

	f2 := newFixture()
	f2.image.err = errors.New("boom")
	f2.publisher().Publish(context.Background(), "犬") //nolint:errcheck

	if len(f.runs.recorded) != 1 || f.runs.recorded[0].Stage != entity.StageDone {
		t.Fatalf("success run not recorded: %+v", f.runs.recorded)
	}
	if len(f2.runs.recorded) != 1 {
		t.Fatalf("failed run not recorded: %+v", f2.runs.recorded)
	}
	rec := f2.runs.recorded[0]
	if rec.Stage != entity.StageRenderingImage || rec.Error == "" {
		t.Fatalf("failure run missing stage/error: %+v", rec)
	}
	if rec.ID == "" {
		t.Fatalf("run id not assigned: %+v", rec)
	}
}

func TestWith_DoesNotMutateBase(t *testing.T) {
	f := newFixture()
	base := f.publisher()
	derived := base.With(WithoutBridge(), WithDeck("Scratch"))

	if _, err := derived.Publish(context.Background(), "猫"); err != nil {
		t.Fatalf("derived publish: %v", err)
	}
	f.events = nil

	if _, err := base.Publish(context.Background(), "猫"); err != nil {
		t.Fatalf("base publish: %v", err)
	}
	found := false
	for _, ev := range f.events {
		if ev == "add_note" {
			found = true
		}
	}
	if !found {
		t.Fatalf("base publisher inherited WithoutBridge: %v", f.events)
	}
	if note := f.bridge.notes[len(f.bridge.notes)-1]; note.Deck == "Scratch" {
		t.Fatalf("base publisher inherited deck override: %+v", note)
	}
}

func TestPublish_DeckAndModelOptions(t *testing.T) {
	f := newFixture()
	if _, err := f.publisher(WithDeck("Japanese"), WithNoteModel("Core")).Publish(context.Background(), "猫"); err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if len(f.bridge.notes) != 1 {
		t.Fatalf("expected one note, got %d", len(f.bridge.notes))
	}
	note := f.bridge.notes[0]
	if note.Deck != "Japanese" || note.Model != "Core" {
		t.Fatalf("options ignored: %+v", note)
	}
}
