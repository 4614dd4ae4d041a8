package repository

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/eslsoft/ankigen/internal/entity"
)

func openTestRepo(t *testing.T) *runRepository {
	t.Helper()
	repo, cleanup, err := NewRunRepository(filepath.Join(t.TempDir(), "history.db"))
	if err != nil {
		t.Fatalf("open repo: %v", err)
	}
	t.Cleanup(cleanup)
	return repo.(*runRepository)
}

func TestRunRepository_RoundTrip(t *testing.T) {
	repo := openTestRepo(t)
	ctx := context.Background()

	run := &entity.Run{
		ID:            "01HZZZZZZZZZZZZZZZZZZZZZZ1",
		Word:          "猫",
		MediaFilename: "ankigen_neko.png",
		Stage:         entity.StageDone,
		Duplicate:     true,
		NoteID:        42,
		CreatedAt:     time.Now().UTC(),
	}
	if err := repo.Record(ctx, run); err != nil {
		t.Fatalf("record: %v", err)
	}

	runs, err := repo.List(ctx, 10)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(runs) != 1 {
		t.Fatalf("expected 1 run, got %d", len(runs))
	}
	got := runs[0]
	if got.Word != "猫" || got.Stage != entity.StageDone || !got.Duplicate || got.NoteID != 42 {
		t.Fatalf("round trip mismatch: %+v", got)
	}
}

func TestRunRepository_LastByWord(t *testing.T) {
	repo := openTestRepo(t)
	ctx := context.Background()

	for i, id := range []string{"01A", "01B"} {
		run := &entity.Run{ID: id, Word: "猫", Stage: entity.StageDone, NoteID: int64(i), CreatedAt: time.Now().UTC()}
		if err := repo.Record(ctx, run); err != nil {
			t.Fatalf("record: %v", err)
		}
	}

	got, err := repo.LastByWord(ctx, "猫")
	if err != nil {
		t.Fatalf("last by word: %v", err)
	}
	if got == nil || got.ID != "01B" {
		t.Fatalf("expected latest run, got %+v", got)
	}

	missing, err := repo.LastByWord(ctx, "犬")
	if err != nil {
		t.Fatalf("last by word: %v", err)
	}
	if missing != nil {
		t.Fatalf("expected nil for unknown word, got %+v", missing)
	}
}

func TestRunRepository_ListOrderAndLimit(t *testing.T) {
	repo := openTestRepo(t)
	ctx := context.Background()

	for _, id := range []string{"01A", "01B", "01C"} {
		run := &entity.Run{ID: id, Word: id, Stage: entity.StageGenerating, CreatedAt: time.Now().UTC()}
		if err := repo.Record(ctx, run); err != nil {
			t.Fatalf("record: %v", err)
		}
	}

	runs, err := repo.List(ctx, 2)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(runs) != 2 || runs[0].ID != "01C" || runs[1].ID != "01B" {
		t.Fatalf("expected newest first with limit, got %+v", runs)
	}
}
