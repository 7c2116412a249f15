package study

import (
	"io"
	"log/slog"
	"sort"
	"time"

	"github.com/pkg/errors"

	"github.com/Solesoul2/flashcard2/internal/models"
)

var testNow = time.Date(2026, 4, 1, 8, 30, 0, 0, time.UTC)

// fakeStore is an in-memory CardStore and ChecklistStore.
type fakeStore struct {
	cards      map[int64]models.Flashcard
	checklists map[int64]map[int]bool
	folders    map[int64]models.Folder

	failDue       bool
	failUpdate    bool
	failSave      bool
	updates       []models.ReviewData
	savedCount    int
	deleted       []int64
	unsavedFolder []models.Flashcard // returned as-is, ID 0
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		cards:      map[int64]models.Flashcard{},
		checklists: map[int64]map[int]bool{},
		folders:    map[int64]models.Folder{},
	}
}

func (f *fakeStore) add(c models.Flashcard) {
	if c.EasinessFactor == 0 {
		c.EasinessFactor = 2.5
	}
	f.cards[c.ID] = c
}

func sameFolder(a, b *int64) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}

func (f *fakeStore) sorted(keep func(models.Flashcard) bool) []models.Flashcard {
	var out []models.Flashcard
	for _, c := range f.cards {
		if keep(c) {
			out = append(out, c)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		a, b := out[i], out[j]
		if (a.NextReview == nil) != (b.NextReview == nil) {
			return a.NextReview == nil
		}
		if a.NextReview != nil && !a.NextReview.Equal(*b.NextReview) {
			return a.NextReview.Before(*b.NextReview)
		}
		return a.ID < b.ID
	})
	return out
}

func (f *fakeStore) GetDueFlashcards(folderID *int64, now time.Time) ([]models.Flashcard, error) {
	if f.failDue {
		return nil, errors.Wrap(models.ErrPersistence, "database locked")
	}
	return f.sorted(func(c models.Flashcard) bool {
		return sameFolder(c.FolderID, folderID) && c.NextReview != nil && !c.NextReview.After(now)
	}), nil
}

func (f *fakeStore) GetFlashcards(folderID *int64) ([]models.Flashcard, error) {
	out := f.sorted(func(c models.Flashcard) bool { return sameFolder(c.FolderID, folderID) })
	return append(out, f.unsavedFolder...), nil
}

func (f *fakeStore) GetFlashcard(id int64) (*models.Flashcard, error) {
	c, ok := f.cards[id]
	if !ok {
		return nil, errors.Wrapf(models.ErrNotFound, "flashcard %d", id)
	}
	return &c, nil
}

func (f *fakeStore) UpdateFlashcardReviewData(cardID int64, d models.ReviewData) error {
	f.updates = append(f.updates, d)
	if f.failUpdate {
		return errors.Wrap(models.ErrPersistence, "disk full")
	}
	c, ok := f.cards[cardID]
	if !ok {
		return errors.Wrapf(models.ErrNotFound, "flashcard %d", cardID)
	}
	c.EasinessFactor = d.EasinessFactor
	c.Interval = d.Interval
	c.Repetitions = d.Repetitions
	last, next, q := d.LastReviewed, d.NextReview, d.LastRatingQuality
	c.LastReviewed, c.NextReview, c.LastRatingQuality = &last, &next, &q
	f.cards[cardID] = c
	return nil
}

func (f *fakeStore) DeleteFlashcard(id int64) error {
	f.deleted = append(f.deleted, id)
	if _, ok := f.cards[id]; !ok {
		return errors.Wrapf(models.ErrNotFound, "flashcard %d", id)
	}
	delete(f.cards, id)
	return nil
}

func (f *fakeStore) GetFolderPath(folderID *int64) ([]models.Folder, error) {
	if folderID == nil {
		return nil, nil
	}
	var path []models.Folder
	for next := folderID; next != nil; {
		folder, ok := f.folders[*next]
		if !ok {
			return nil, errors.Wrapf(models.ErrNotFound, "folder %d", *next)
		}
		path = append([]models.Folder{folder}, path...)
		next = folder.ParentID
	}
	return path, nil
}

func (f *fakeStore) LoadChecklistState(cardID int64) (map[int]bool, error) {
	out := map[int]bool{}
	for k, v := range f.checklists[cardID] {
		out[k] = v
	}
	return out, nil
}

func (f *fakeStore) SaveChecklistState(cardID int64, state map[int]bool) error {
	f.savedCount++
	if f.failSave {
		return errors.Wrap(models.ErrPersistence, "read-only")
	}
	f.checklists[cardID] = state
	return nil
}

func (f *fakeStore) ClearChecklistState(cardID int64) error {
	delete(f.checklists, cardID)
	return nil
}

func newTestSession(store *fakeStore) *Session {
	return NewSession(store, store, Options{
		Now:    func() time.Time { return testNow },
		Logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	})
}

func due(d time.Duration) *time.Time {
	t := testNow.Add(-d)
	return &t
}

func folder(id int64) *int64 {
	return &id
}
