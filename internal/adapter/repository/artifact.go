package repository

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/eslsoft/ankigen/internal/entity"
	repo "github.com/eslsoft/ankigen/internal/repository"
	"github.com/eslsoft/ankigen/pkg/slug"
)

type artifactStore struct {
	dir string
}

// NewArtifactStore returns a filesystem-backed artifact store rooted at dir.
// The directory is created on first use.
func NewArtifactStore(dir string) repo.ArtifactStore {
	return &artifactStore{dir: dir}
}

func (s *artifactStore) ensureDir() error {
	return os.MkdirAll(s.dir, 0o755)
}

func (s *artifactStore) WriteCard(word string, card *entity.Flashcard) (string, error) {
	if err := s.ensureDir(); err != nil {
		return "", fmt.Errorf("create output dir: %w", err)
	}
	data, err := json.MarshalIndent(card, "", "  ")
	if err != nil {
		return "", fmt.Errorf("encode card: %w", err)
	}
	path := filepath.Join(s.dir, slug.Word(word)+"_card.json")
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("write card artifact: %w", err)
	}
	return path, nil
}

func (s *artifactStore) WriteImage(asset *entity.MediaAsset) (string, error) {
	if err := s.ensureDir(); err != nil {
		return "", fmt.Errorf("create output dir: %w", err)
	}
	path := filepath.Join(s.dir, asset.Filename)
	if err := os.WriteFile(path, asset.Data, 0o644); err != nil {
		return "", fmt.Errorf("write image artifact: %w", err)
	}
	return path, nil
}
