package repository

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/mattn/go-sqlite3" // local history store driver

	"github.com/eslsoft/ankigen/internal/entity"
	repo "github.com/eslsoft/ankigen/internal/repository"
)

const runSchema = `
CREATE TABLE IF NOT EXISTS runs (
	id             TEXT PRIMARY KEY,
	word           TEXT NOT NULL,
	media_filename TEXT NOT NULL DEFAULT '',
	stage          TEXT NOT NULL,
	duplicate      INTEGER NOT NULL DEFAULT 0,
	note_id        INTEGER NOT NULL DEFAULT 0,
	error          TEXT NOT NULL DEFAULT '',
	created_at     TIMESTAMP NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_runs_word ON runs(word);
`

type runRepository struct {
	db *sql.DB
}

// NewRunRepository opens (and migrates) the sqlite history store at path.
// The returned cleanup closes the database.
func NewRunRepository(path string) (repo.RunRepository, func(), error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, nil, fmt.Errorf("open history db: %w", err)
	}
	if _, err := db.Exec(runSchema); err != nil {
		db.Close()
		return nil, nil, fmt.Errorf("migrate history db: %w", err)
	}
	return &runRepository{db: db}, func() { _ = db.Close() }, nil
}

func (r *runRepository) Record(ctx context.Context, run *entity.Run) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO runs (id, word, media_filename, stage, duplicate, note_id, error, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		run.ID, run.Word, run.MediaFilename, string(run.Stage), run.Duplicate, run.NoteID, run.Error, run.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("record run: %w", err)
	}
	return nil
}

func (r *runRepository) List(ctx context.Context, limit int) ([]*entity.Run, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, word, media_filename, stage, duplicate, note_id, error, created_at
		 FROM runs ORDER BY id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("list runs: %w", err)
	}
	defer rows.Close()

	var runs []*entity.Run
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		runs = append(runs, run)
	}
	return runs, rows.Err()
}

func (r *runRepository) LastByWord(ctx context.Context, word string) (*entity.Run, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT id, word, media_filename, stage, duplicate, note_id, error, created_at
		 FROM runs WHERE word = ? ORDER BY id DESC LIMIT 1`, word)
	run, err := scanRun(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return run, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanRun(s scanner) (*entity.Run, error) {
	var run entity.Run
	var stage string
	if err := s.Scan(&run.ID, &run.Word, &run.MediaFilename, &stage, &run.Duplicate, &run.NoteID, &run.Error, &run.CreatedAt); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("scan run: %w", err)
	}
	run.Stage = entity.Stage(stage)
	return &run, nil
}
