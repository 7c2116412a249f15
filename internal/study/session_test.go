package study

import (
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Solesoul2/flashcard2/internal/answer"
	"github.com/Solesoul2/flashcard2/internal/models"
)

func cardIDs(snap Snapshot) []int64 {
	ids := make([]int64, len(snap.Cards))
	for i, c := range snap.Cards {
		ids[i] = c.Card.ID
	}
	return ids
}

func threeDueCards(store *fakeStore) {
	store.add(models.Flashcard{ID: 1, Question: "one", Answer: "* a\n* b", NextReview: due(3 * time.Hour)})
	store.add(models.Flashcard{ID: 2, Question: "two", Answer: "plain", NextReview: due(2 * time.Hour)})
	store.add(models.Flashcard{ID: 3, Question: "three", Answer: "* x", NextReview: due(time.Hour)})
}

func TestStartEmptyFolderCompletes(t *testing.T) {
	s := newTestSession(newFakeStore())

	snap, err := s.Start(nil)
	require.NoError(t, err)
	assert.Equal(t, StatusComplete, snap.Status)
	assert.True(t, snap.Complete())
	assert.Empty(t, snap.Cards)
	assert.Zero(t, snap.CurrentIndex)
	assert.Nil(t, snap.Current)
	assert.Zero(t, snap.Position())
}

func TestStartQueuesDueCardsOnly(t *testing.T) {
	store := newFakeStore()
	store.folders[7] = models.Folder{ID: 7, Name: "Top"}
	store.folders[8] = models.Folder{ID: 8, Name: "Sub", ParentID: folder(7)}
	store.add(models.Flashcard{ID: 1, FolderID: folder(8), NextReview: due(time.Hour)})
	store.add(models.Flashcard{ID: 2, FolderID: folder(8), NextReview: due(-time.Hour)})
	store.add(models.Flashcard{ID: 3, FolderID: folder(8), NextReview: due(48 * time.Hour)})
	store.add(models.Flashcard{ID: 4, FolderID: folder(8)})
	store.add(models.Flashcard{ID: 5, NextReview: due(time.Hour)})

	s := newTestSession(store)
	snap, err := s.Start(folder(8))
	require.NoError(t, err)

	assert.Equal(t, StatusActive, snap.Status)
	assert.Equal(t, []int64{3, 1}, cardIDs(snap))
	assert.Equal(t, 1, snap.Position())
	assert.Equal(t, 2, snap.Count())
	require.Len(t, snap.FolderPath, 2)
	assert.Equal(t, "Top", snap.FolderPath[0].Name)
	assert.Equal(t, "Sub", snap.FolderPath[1].Name)
	for _, c := range snap.Cards {
		assert.False(t, c.AnswerShown)
	}
}

func TestStartFallsBackToAllCards(t *testing.T) {
	store := newFakeStore()
	store.add(models.Flashcard{ID: 1, NextReview: due(-72 * time.Hour)})
	store.add(models.Flashcard{ID: 2})
	store.add(models.Flashcard{ID: 3, NextReview: due(-24 * time.Hour)})

	s := newTestSession(store)
	snap, err := s.Start(nil)
	require.NoError(t, err)
	assert.Equal(t, []int64{2, 3, 1}, cardIDs(snap))
}

func TestStartFailureIsRetryable(t *testing.T) {
	store := newFakeStore()
	threeDueCards(store)
	store.failDue = true

	s := newTestSession(store)
	snap, err := s.Start(nil)
	require.Error(t, err)
	assert.True(t, errors.Is(err, models.ErrPersistence))
	assert.Equal(t, StatusLoading, snap.Status)

	store.failDue = false
	snap, err = s.Start(nil)
	require.NoError(t, err)
	assert.Equal(t, 3, snap.Count())
}

func TestStartAppliesPersistedChecklist(t *testing.T) {
	store := newFakeStore()
	store.add(models.Flashcard{ID: 1, Answer: "Intro\n* a\n* b\n* c\n* d", NextReview: due(time.Hour)})
	store.checklists[1] = map[int]bool{0: true, 2: true}

	s := newTestSession(store)
	snap, err := s.Start(nil)
	require.NoError(t, err)

	require.NotNil(t, snap.Current)
	got := snap.Current.Checklist
	require.Len(t, got, 4)
	assert.Equal(t, []int{1, 3, 0, 2}, []int{got[0].OriginalIndex, got[1].OriginalIndex, got[2].OriginalIndex, got[3].OriginalIndex})
	assert.Equal(t, answer.GradientColor(0.5), snap.LiveColor)
	assert.Len(t, snap.Current.Lines, 5)
}

func TestToggleAnswerVisibility(t *testing.T) {
	store := newFakeStore()
	threeDueCards(store)
	s := newTestSession(store)
	_, err := s.Start(nil)
	require.NoError(t, err)

	snap := s.ToggleAnswerVisibility()
	assert.True(t, snap.Current.AnswerShown)
	assert.False(t, snap.Cards[1].AnswerShown)
	assert.False(t, snap.Cards[2].AnswerShown)

	snap = s.ToggleAnswerVisibility()
	assert.False(t, snap.Current.AnswerShown)
}

func TestHandleChecklistChanged(t *testing.T) {
	store := newFakeStore()
	threeDueCards(store)
	s := newTestSession(store)
	_, err := s.Start(nil)
	require.NoError(t, err)

	snap := s.HandleChecklistChanged(0, true)
	require.NotNil(t, snap.Current)
	assert.Equal(t, int64(1), snap.Current.Card.ID)
	assert.Equal(t, 1, snap.Current.Checklist[0].OriginalIndex)
	assert.True(t, snap.Current.Checklist[1].Checked)
	assert.Equal(t, map[int]bool{0: true, 1: false}, store.checklists[1])
	assert.Equal(t, answer.GradientColor(0.5), snap.LiveColor)

	// Other cards are untouched.
	assert.False(t, snap.Cards[2].Checklist[0].Checked)
	assert.NotContains(t, store.checklists, int64(3))
}

func TestHandleChecklistChangedUnknownIndexIsNoop(t *testing.T) {
	store := newFakeStore()
	threeDueCards(store)
	s := newTestSession(store)
	before, err := s.Start(nil)
	require.NoError(t, err)

	after := s.HandleChecklistChanged(9, true)
	assert.Equal(t, before.Current.Checklist, after.Current.Checklist)
	assert.Zero(t, store.savedCount)
	assert.Equal(t, StatusActive, after.Status)
}

func TestHandleChecklistChangedKeepsStateOnSaveFailure(t *testing.T) {
	store := newFakeStore()
	threeDueCards(store)
	store.failSave = true
	s := newTestSession(store)
	_, err := s.Start(nil)
	require.NoError(t, err)

	snap := s.HandleChecklistChanged(1, true)
	assert.Equal(t, 1, store.savedCount)
	assert.True(t, answer.IsRated(snap.Current.Checklist))
}

func TestHandleChecklistChangedSkipsUnsavedCard(t *testing.T) {
	store := newFakeStore()
	store.unsavedFolder = []models.Flashcard{{Question: "draft", Answer: "* a", EasinessFactor: 2.5}}
	s := newTestSession(store)
	_, err := s.Start(nil)
	require.NoError(t, err)

	snap := s.HandleChecklistChanged(0, true)
	assert.True(t, snap.Current.Checklist[0].Checked)
	assert.Zero(t, store.savedCount)
}

func TestSkipCardDoesNotPersist(t *testing.T) {
	store := newFakeStore()
	threeDueCards(store)
	s := newTestSession(store)
	_, err := s.Start(nil)
	require.NoError(t, err)

	snap := s.SkipCard()
	assert.Equal(t, []int64{2, 3}, cardIDs(snap))
	assert.Equal(t, int64(2), snap.Current.Card.ID)
	assert.Empty(t, store.updates)
	assert.Nil(t, snap.LastRating)
}

func TestRateCardEndToEnd(t *testing.T) {
	store := newFakeStore()
	store.add(models.Flashcard{ID: 1, Answer: "no checklist here", EasinessFactor: 2.5, NextReview: due(time.Minute)})
	s := newTestSession(store)
	_, err := s.Start(nil)
	require.NoError(t, err)

	snap, err := s.RateCard()
	require.NoError(t, err)
	assert.True(t, snap.Complete())
	assert.Empty(t, snap.Cards)

	require.NotNil(t, snap.LastRating)
	assert.Equal(t, 3, snap.LastRating.Quality)
	assert.True(t, snap.LastRating.Persisted)

	require.Len(t, store.updates, 1)
	upd := store.updates[0]
	assert.Equal(t, 3, upd.LastRatingQuality)
	assert.Equal(t, 1, upd.Repetitions)
	assert.Equal(t, 1, upd.Interval)
	assert.InDelta(t, 2.36, upd.EasinessFactor, 1e-9)
	assert.Equal(t, testNow, upd.LastReviewed)
	assert.Equal(t, testNow.Add(24*time.Hour+time.Second), upd.NextReview)
}

func TestRateCardDerivesQualityFromChecklist(t *testing.T) {
	store := newFakeStore()
	store.add(models.Flashcard{ID: 1, Answer: "* a\n* b\n* c\n* d\n* e", Interval: 6, Repetitions: 2, NextReview: due(time.Hour)})
	s := newTestSession(store)
	_, err := s.Start(nil)
	require.NoError(t, err)

	for i := 0; i < 4; i++ {
		s.HandleChecklistChanged(i, true)
	}
	snap, err := s.RateCard()
	require.NoError(t, err)

	require.NotNil(t, snap.LastRating)
	assert.Equal(t, 4, snap.LastRating.Quality)
	assert.Equal(t, 3, snap.LastRating.Schedule.Repetitions)
	assert.Equal(t, 15, snap.LastRating.Schedule.Interval)

	stored := store.cards[1]
	require.NotNil(t, stored.LastRatingQuality)
	assert.Equal(t, 4, *stored.LastRatingQuality)
}

func TestDeriveQualityBoundaries(t *testing.T) {
	mk := func(total, checked int) []answer.ChecklistItem {
		items := make([]answer.ChecklistItem, total)
		for i := range items {
			items[i] = answer.ChecklistItem{OriginalIndex: i, Checked: i < checked}
		}
		return items
	}

	assert.Equal(t, 3, DeriveQuality(nil))
	assert.Equal(t, 5, DeriveQuality(mk(4, 4)))
	assert.Equal(t, 4, DeriveQuality(mk(5, 4)))
	assert.Equal(t, 3, DeriveQuality(mk(2, 1)))
	assert.Equal(t, 2, DeriveQuality(mk(5, 1)))
	assert.Equal(t, 1, DeriveQuality(mk(100, 1)))
	assert.Equal(t, 0, DeriveQuality(mk(3, 0)))
}

func TestRateCardAdvancesWithinQueue(t *testing.T) {
	store := newFakeStore()
	threeDueCards(store)
	s := newTestSession(store)
	_, err := s.Start(nil)
	require.NoError(t, err)

	s.GoTo(1)
	snap, err := s.RateCard()
	require.NoError(t, err)
	assert.Equal(t, []int64{1, 3}, cardIDs(snap))
	assert.Equal(t, 1, snap.CurrentIndex)
	assert.Equal(t, int64(3), snap.Current.Card.ID)
	assert.Equal(t, 2, snap.Count())

	// Rating the last card wraps to the front.
	snap, err = s.RateCard()
	require.NoError(t, err)
	assert.Equal(t, []int64{1}, cardIDs(snap))
	assert.Zero(t, snap.CurrentIndex)

	snap, err = s.RateCard()
	require.NoError(t, err)
	assert.True(t, snap.Complete())
	assert.Len(t, store.updates, 3)
}

func TestNewlySurfacedCardStartsHidden(t *testing.T) {
	store := newFakeStore()
	threeDueCards(store)
	s := newTestSession(store)
	_, err := s.Start(nil)
	require.NoError(t, err)

	s.GoTo(1)
	s.ToggleAnswerVisibility()
	s.GoTo(0)
	snap := s.SkipCard()
	assert.Equal(t, int64(2), snap.Current.Card.ID)
	assert.False(t, snap.Current.AnswerShown)
}

func TestGoToKeepsVisibilityAndIgnoresOutOfRange(t *testing.T) {
	store := newFakeStore()
	threeDueCards(store)
	s := newTestSession(store)
	_, err := s.Start(nil)
	require.NoError(t, err)

	s.ToggleAnswerVisibility()
	s.GoTo(2)
	snap := s.GoTo(0)
	assert.True(t, snap.Current.AnswerShown)

	snap = s.GoTo(3)
	assert.Zero(t, snap.CurrentIndex)
	assert.Equal(t, StatusActive, snap.Status)
}

func TestRateCardPersistenceFailureStillAdvances(t *testing.T) {
	store := newFakeStore()
	threeDueCards(store)
	store.failUpdate = true
	s := newTestSession(store)
	_, err := s.Start(nil)
	require.NoError(t, err)

	snap, err := s.RateCard()
	require.NoError(t, err)
	assert.Equal(t, []int64{2, 3}, cardIDs(snap))
	require.NotNil(t, snap.LastRating)
	assert.False(t, snap.LastRating.Persisted)
	assert.Equal(t, int64(1), snap.LastRating.CardID)
}

func TestRateUnsavedCardIsSkipped(t *testing.T) {
	store := newFakeStore()
	store.unsavedFolder = []models.Flashcard{{Question: "draft", EasinessFactor: 2.5}}
	s := newTestSession(store)
	_, err := s.Start(nil)
	require.NoError(t, err)

	snap, err := s.RateCard()
	require.NoError(t, err)
	assert.True(t, snap.Complete())
	assert.Empty(t, store.updates)
	assert.Nil(t, snap.LastRating)
}

func TestRateCardRejectsCorruptSchedule(t *testing.T) {
	store := newFakeStore()
	store.add(models.Flashcard{ID: 1, Interval: -4, NextReview: due(time.Hour)})
	s := newTestSession(store)
	_, err := s.Start(nil)
	require.NoError(t, err)

	snap, err := s.RateCard()
	require.Error(t, err)
	assert.True(t, errors.Is(err, models.ErrInvalidArgument))
	assert.Equal(t, []int64{1}, cardIDs(snap))
	assert.Empty(t, store.updates)
}

func TestLastRatingQualityMirrorsCurrentCard(t *testing.T) {
	store := newFakeStore()
	q := 2
	store.add(models.Flashcard{ID: 1, NextReview: due(2 * time.Hour)})
	store.add(models.Flashcard{ID: 2, NextReview: due(time.Hour), LastRatingQuality: &q})
	s := newTestSession(store)

	snap, err := s.Start(nil)
	require.NoError(t, err)
	assert.Nil(t, snap.LastRatingQuality)

	snap, err = s.RateCard()
	require.NoError(t, err)
	require.NotNil(t, snap.LastRatingQuality)
	assert.Equal(t, 2, *snap.LastRatingQuality)
	assert.Equal(t, 3, snap.LastRating.Quality)
}

func TestDeleteCurrentCard(t *testing.T) {
	store := newFakeStore()
	threeDueCards(store)
	store.checklists[1] = map[int]bool{0: true}
	s := newTestSession(store)
	_, err := s.Start(nil)
	require.NoError(t, err)

	snap := s.DeleteCard(1)
	assert.Equal(t, []int64{2, 3}, cardIDs(snap))
	assert.Equal(t, int64(2), snap.Current.Card.ID)
	assert.NotContains(t, store.cards, int64(1))
	assert.NotContains(t, store.checklists, int64(1))
}

func TestDeleteEarlierCardKeepsViewedCard(t *testing.T) {
	store := newFakeStore()
	threeDueCards(store)
	s := newTestSession(store)
	_, err := s.Start(nil)
	require.NoError(t, err)

	s.GoTo(2)
	s.ToggleAnswerVisibility()
	snap := s.DeleteCard(1)
	assert.Equal(t, []int64{2, 3}, cardIDs(snap))
	assert.Equal(t, 1, snap.CurrentIndex)
	assert.Equal(t, int64(3), snap.Current.Card.ID)
	assert.True(t, snap.Current.AnswerShown)
}

func TestDeleteLaterAndUnqueuedCards(t *testing.T) {
	store := newFakeStore()
	threeDueCards(store)
	store.add(models.Flashcard{ID: 9, NextReview: due(-time.Hour)})
	s := newTestSession(store)
	_, err := s.Start(nil)
	require.NoError(t, err)

	snap := s.DeleteCard(3)
	assert.Equal(t, []int64{1, 2}, cardIDs(snap))
	assert.Zero(t, snap.CurrentIndex)

	snap = s.DeleteCard(9)
	assert.Equal(t, []int64{1, 2}, cardIDs(snap))
	assert.Equal(t, []int64{3, 9}, store.deleted)
	assert.NotContains(t, store.cards, int64(9))
}

func TestRefreshSingleCard(t *testing.T) {
	store := newFakeStore()
	threeDueCards(store)
	s := newTestSession(store)
	_, err := s.Start(nil)
	require.NoError(t, err)

	s.GoTo(1)
	s.ToggleAnswerVisibility()

	edited := store.cards[1]
	edited.Question = "one (edited)"
	edited.Answer = "* a\n* b\n* c"
	store.cards[1] = edited
	store.checklists[1] = map[int]bool{2: true}

	snap, err := s.RefreshSingleCard(1)
	require.NoError(t, err)
	assert.Equal(t, 1, snap.CurrentIndex)
	assert.True(t, snap.Current.AnswerShown)
	assert.Equal(t, []int64{1, 2, 3}, cardIDs(snap))

	refreshed := snap.Cards[0]
	assert.Equal(t, "one (edited)", refreshed.Card.Question)
	require.Len(t, refreshed.Checklist, 3)
	assert.Equal(t, 2, refreshed.Checklist[2].OriginalIndex)
	assert.True(t, refreshed.Checklist[2].Checked)
}

func TestRefreshMissingCardRebuildsSession(t *testing.T) {
	store := newFakeStore()
	threeDueCards(store)
	s := newTestSession(store)
	_, err := s.Start(nil)
	require.NoError(t, err)

	s.GoTo(2)
	delete(store.cards, 1)

	snap, err := s.RefreshSingleCard(1)
	require.NoError(t, err)
	assert.Equal(t, StatusActive, snap.Status)
	assert.Equal(t, []int64{2, 3}, cardIDs(snap))
	assert.Equal(t, int64(3), snap.Current.Card.ID)
}

func TestResumeKeepsCurrentCard(t *testing.T) {
	store := newFakeStore()
	threeDueCards(store)
	s := newTestSession(store)
	_, err := s.Start(nil)
	require.NoError(t, err)

	s.GoTo(1)
	snap, err := s.Resume()
	require.NoError(t, err)
	assert.Equal(t, 1, snap.CurrentIndex)
	assert.Equal(t, int64(2), snap.Current.Card.ID)

	again, err := s.Resume()
	require.NoError(t, err)
	assert.Equal(t, cardIDs(snap), cardIDs(again))
	assert.Equal(t, snap.CurrentIndex, again.CurrentIndex)
}

func TestInconsistentIndexInvalidatesSession(t *testing.T) {
	store := newFakeStore()
	threeDueCards(store)
	s := newTestSession(store)
	_, err := s.Start(nil)
	require.NoError(t, err)

	s.current = 5
	snap := s.ToggleAnswerVisibility()
	assert.True(t, snap.Complete())
	assert.Empty(t, snap.Cards)
	assert.Zero(t, snap.CurrentIndex)
	assert.True(t, errors.Is(snap.Err, models.ErrInconsistentState))

	// Complete is terminal until restarted.
	snap, err = s.RateCard()
	require.NoError(t, err)
	assert.True(t, snap.Complete())

	snap, err = s.Start(nil)
	require.NoError(t, err)
	assert.Equal(t, StatusActive, snap.Status)
	assert.NoError(t, snap.Err)
}

func TestSnapshotIsImmutable(t *testing.T) {
	store := newFakeStore()
	threeDueCards(store)
	s := newTestSession(store)
	snap, err := s.Start(nil)
	require.NoError(t, err)

	snap.Cards[0].Checklist[0].Checked = true
	snap.Cards[0].Card.Question = "changed"
	snap.Current.AnswerShown = true

	fresh := s.Snapshot()
	assert.False(t, fresh.Current.Checklist[0].Checked)
	assert.Equal(t, "one", fresh.Current.Card.Question)
	assert.False(t, fresh.Current.AnswerShown)
}

func TestVisibleLinesFollowRenderOptions(t *testing.T) {
	store := newFakeStore()
	store.add(models.Flashcard{ID: 1, Answer: "Head\n* a\nnote", NextReview: due(time.Hour)})
	s := NewSession(store, store, Options{
		Now:    func() time.Time { return testNow },
		Logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
		Render: answer.RenderOptions{HideUnmarkedText: true},
	})
	snap, err := s.Start(nil)
	require.NoError(t, err)
	assert.Len(t, snap.Current.Lines, 3)
	assert.Len(t, snap.Current.Visible, 2)
}
