package repository

import "github.com/eslsoft/ankigen/internal/entity"

// ArtifactStore persists local debug artifacts. These are audit output only;
// nothing downstream reads them back.
type ArtifactStore interface {
	// WriteCard writes the generated record as pretty-printed JSON and
	// returns the path.
	WriteCard(word string, card *entity.Flashcard) (string, error)
	// WriteImage writes the generated illustration and returns the path.
	WriteImage(asset *entity.MediaAsset) (string, error)
}
