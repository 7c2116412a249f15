package study

import (
	"time"

	"github.com/Solesoul2/flashcard2/internal/models"
)

// CardStore is the flashcard storage a session reads from and writes reviews to.
// *db.Store implements it.
type CardStore interface {
	GetDueFlashcards(folderID *int64, now time.Time) ([]models.Flashcard, error)
	GetFlashcards(folderID *int64) ([]models.Flashcard, error)
	GetFlashcard(id int64) (*models.Flashcard, error)
	UpdateFlashcardReviewData(cardID int64, d models.ReviewData) error
	DeleteFlashcard(id int64) error
	GetFolderPath(folderID *int64) ([]models.Folder, error)
}

// ChecklistStore persists per-card checklist check marks keyed by originalIndex.
// A zero card ID means "not persisted": load returns {} and writes are no-ops.
type ChecklistStore interface {
	LoadChecklistState(cardID int64) (map[int]bool, error)
	SaveChecklistState(cardID int64, state map[int]bool) error
	ClearChecklistState(cardID int64) error
}
