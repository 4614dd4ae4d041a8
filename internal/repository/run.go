package repository

import (
	"context"

	"github.com/eslsoft/ankigen/internal/entity"
)

// RunRepository defines data access for recorded pipeline runs.
type RunRepository interface {
	Record(ctx context.Context, run *entity.Run) error
	List(ctx context.Context, limit int) ([]*entity.Run, error)
	// LastByWord returns the most recent run for a word, or nil.
	LastByWord(ctx context.Context, word string) (*entity.Run, error)
}
