// Package study runs a study session over the cards of one folder.
//
// A Session is a state machine (Loading, Active, Complete). Each operation
// mutates the session and returns an immutable Snapshot. Callers must not
// invoke operations on the same Session concurrently.
package study

import (
	"log/slog"
	"slices"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"

	"github.com/Solesoul2/flashcard2/internal/algorithm"
	"github.com/Solesoul2/flashcard2/internal/answer"
	"github.com/Solesoul2/flashcard2/internal/models"
)

// Options configures a Session. Zero values produce sensible defaults.
type Options struct {
	Now    func() time.Time // defaults to time.Now
	Logger *slog.Logger     // defaults to slog.Default()
	Render answer.RenderOptions
}

// entry is one queued card with its answer state.
type entry struct {
	card        models.Flashcard
	lines       []answer.Line
	checklist   []answer.ChecklistItem
	answerShown bool
}

// Session is a single study sitting.
type Session struct {
	cards      CardStore
	checklists ChecklistStore
	now        func() time.Time
	logger     *slog.Logger
	render     answer.RenderOptions

	id         string
	status     Status
	folderID   *int64
	folderPath []models.Folder
	entries    []entry
	current    int
	lastRating *RateResult
	err        error
}

// NewSession creates a session in the Loading state. Call Start to fill the queue.
func NewSession(cards CardStore, checklists ChecklistStore, opts Options) *Session {
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	id := uuid.NewString()
	return &Session{
		cards:      cards,
		checklists: checklists,
		now:        opts.Now,
		logger:     opts.Logger.With("session_id", id),
		render:     opts.Render,
		id:         id,
		status:     StatusLoading,
	}
}

// ID returns the session identifier used in logs.
func (s *Session) ID() string {
	return s.id
}

// Start builds the queue for folderID (nil = uncategorized). Due cards come
// first; if none are due every card of the folder is queued, never-studied
// cards first. An empty folder completes the session immediately.
// Only a failure to fetch the cards is returned; the session then stays
// Loading and Start may be retried.
func (s *Session) Start(folderID *int64) (Snapshot, error) {
	s.status = StatusLoading
	s.folderID = cloneID(folderID)
	s.folderPath = nil
	s.entries = nil
	s.current = 0
	s.lastRating = nil
	s.err = nil

	cards, err := s.cards.GetDueFlashcards(folderID, s.now())
	if err != nil {
		return s.Snapshot(), errors.Wrap(err, "fetch due flashcards")
	}
	if len(cards) == 0 {
		cards, err = s.cards.GetFlashcards(folderID)
		if err != nil {
			return s.Snapshot(), errors.Wrap(err, "fetch folder flashcards")
		}
	}

	path, err := s.cards.GetFolderPath(folderID)
	if err != nil {
		s.logger.Warn("failed to load folder path", "folder_id", folderLabel(folderID), "error", err)
	}
	s.folderPath = path

	if len(cards) == 0 {
		s.status = StatusComplete
		s.logger.Info("no cards to study", "folder_id", folderLabel(folderID))
		return s.Snapshot(), nil
	}

	s.entries = make([]entry, 0, len(cards))
	for _, card := range cards {
		s.entries = append(s.entries, s.buildEntry(card))
	}
	s.status = StatusActive
	s.logger.Info("study session started", "folder_id", folderLabel(folderID), "cards", len(s.entries))
	return s.Snapshot(), nil
}

// Resume rebuilds the queue for the same folder and keeps the card that was
// current selected if it is still queued.
func (s *Session) Resume() (Snapshot, error) {
	currentID := int64(-1)
	if s.status == StatusActive && s.current >= 0 && s.current < len(s.entries) {
		currentID = s.entries[s.current].card.ID
	}
	lastRating := s.lastRating

	snap, err := s.Start(s.folderID)
	if err != nil {
		return snap, err
	}
	s.lastRating = lastRating
	if idx := s.indexOf(currentID); idx >= 0 {
		s.current = idx
	}
	return s.Snapshot(), nil
}

func folderLabel(id *int64) any {
	if id == nil {
		return "uncategorized"
	}
	return *id
}

func (s *Session) buildEntry(card models.Flashcard) entry {
	parsed := answer.Parse(card.Answer)

	saved, err := s.checklists.LoadChecklistState(card.ID)
	if err != nil {
		s.logger.Warn("failed to load checklist state", "card_id", card.ID, "error", err)
		saved = nil
	}

	return entry{
		card:      card,
		lines:     parsed.Lines,
		checklist: answer.ApplyPersistedState(parsed.Checklist, saved),
	}
}

// active reports whether operations may mutate the session, invalidating it
// if the current index has drifted out of the queue.
func (s *Session) active() bool {
	if s.status != StatusActive {
		return false
	}
	if s.current < 0 || s.current >= len(s.entries) {
		s.invalidate(errors.Wrapf(models.ErrInconsistentState, "current index %d outside queue of %d", s.current, len(s.entries)))
		return false
	}
	return true
}

// invalidate ends the session after a logic error; it must be restarted.
func (s *Session) invalidate(err error) {
	s.logger.Error("study session invalidated", "error", err)
	s.entries = nil
	s.current = 0
	s.status = StatusComplete
	s.err = err
}

func (s *Session) indexOf(cardID int64) int {
	return slices.IndexFunc(s.entries, func(e entry) bool { return e.card.ID == cardID })
}

// GoTo makes the card at index current. Visibility flags are kept.
func (s *Session) GoTo(index int) Snapshot {
	if !s.active() {
		return s.Snapshot()
	}
	if index < 0 || index >= len(s.entries) {
		s.logger.Warn("ignoring move outside the queue", "index", index, "cards", len(s.entries))
		return s.Snapshot()
	}
	s.current = index
	return s.Snapshot()
}

// ToggleAnswerVisibility reveals or hides the current card's answer.
func (s *Session) ToggleAnswerVisibility() Snapshot {
	if !s.active() {
		return s.Snapshot()
	}
	e := &s.entries[s.current]
	e.answerShown = !e.answerShown
	return s.Snapshot()
}

// HandleChecklistChanged sets one checklist item of the current card and
// persists the card's check marks. Unknown indexes and failed writes are
// logged; the in-memory change is kept either way.
func (s *Session) HandleChecklistChanged(originalIndex int, checked bool) Snapshot {
	if !s.active() {
		return s.Snapshot()
	}
	e := &s.entries[s.current]

	updated, ok := answer.Toggle(e.checklist, originalIndex, checked)
	if !ok {
		s.logger.Warn("checklist item not found", "card_id", e.card.ID, "original_index", originalIndex, "error", models.ErrNotFound)
		return s.Snapshot()
	}
	e.checklist = updated

	if e.card.ID != 0 {
		if err := s.checklists.SaveChecklistState(e.card.ID, answer.StateMap(updated)); err != nil {
			s.logger.Warn("failed to save checklist state", "card_id", e.card.ID, "error", err)
		}
	}
	return s.Snapshot()
}

// SkipCard drops the current card from the queue without scheduling it.
func (s *Session) SkipCard() Snapshot {
	if !s.active() {
		return s.Snapshot()
	}
	s.logger.Debug("card skipped", "card_id", s.entries[s.current].card.ID)
	s.advance()
	return s.Snapshot()
}

// DeriveQuality turns checklist completion into an SM-2 quality.
// Without a checklist there is nothing to derive from and DefaultQuality is used.
func DeriveQuality(items []answer.ChecklistItem) int {
	if len(items) == 0 {
		return algorithm.DefaultQuality
	}
	return algorithm.QualityFromRatio(answer.CompletionRatio(items))
}

// RateCard schedules the current card from its checklist completion and
// advances. A failed write is logged and the session advances anyway; the
// outcome is reported in Snapshot.LastRating. An error is returned only if the
// card's stored SR fields are rejected by the calculator, in which case
// nothing changes.
func (s *Session) RateCard() (Snapshot, error) {
	if !s.active() {
		return s.Snapshot(), nil
	}
	e := &s.entries[s.current]

	if e.card.ID == 0 {
		s.logger.Warn("rating skipped for unsaved card", "question", e.card.Question)
		s.advance()
		return s.Snapshot(), nil
	}

	quality := DeriveQuality(e.checklist)
	sched, err := algorithm.Calculate(quality, e.card.EasinessFactor, e.card.Interval, e.card.Repetitions)
	if err != nil {
		return s.Snapshot(), errors.Wrapf(err, "rate card %d", e.card.ID)
	}

	now := s.now()
	next := algorithm.NextReview(now, sched.Interval)
	result := RateResult{
		CardID:     e.card.ID,
		Quality:    quality,
		Schedule:   sched,
		ReviewedAt: now,
		NextReview: next,
		Persisted:  true,
	}

	err = s.cards.UpdateFlashcardReviewData(e.card.ID, models.ReviewData{
		EasinessFactor:    sched.EasinessFactor,
		Interval:          sched.Interval,
		Repetitions:       sched.Repetitions,
		LastReviewed:      now,
		NextReview:        next,
		LastRatingQuality: quality,
	})
	if err != nil {
		result.Persisted = false
		s.logger.Warn("failed to save review", "card_id", e.card.ID, "quality", quality, "error", err)
	}

	e.card.EasinessFactor = sched.EasinessFactor
	e.card.Interval = sched.Interval
	e.card.Repetitions = sched.Repetitions
	e.card.LastReviewed = &now
	e.card.NextReview = &next
	e.card.LastRatingQuality = &quality
	s.lastRating = &result

	s.logger.Info("card rated",
		"card_id", result.CardID,
		"quality", quality,
		"interval", sched.Interval,
		"easiness_factor", sched.EasinessFactor,
		"persisted", result.Persisted,
	)
	s.advance()
	return s.Snapshot(), nil
}

// DeleteCard deletes a card from storage and drops it from the queue. Cards
// before the current one shift the index so the viewed card stays current.
func (s *Session) DeleteCard(cardID int64) Snapshot {
	if cardID != 0 {
		if err := s.cards.DeleteFlashcard(cardID); err != nil {
			s.logger.Warn("failed to delete card", "card_id", cardID, "error", err)
		}
		if err := s.checklists.ClearChecklistState(cardID); err != nil {
			s.logger.Warn("failed to clear checklist state", "card_id", cardID, "error", err)
		}
	}

	if !s.active() {
		return s.Snapshot()
	}
	idx := s.indexOf(cardID)
	switch {
	case idx < 0:
	case idx == s.current:
		s.advance()
	case idx < s.current:
		s.entries = slices.Delete(s.entries, idx, idx+1)
		s.current--
	default:
		s.entries = slices.Delete(s.entries, idx, idx+1)
	}
	return s.Snapshot()
}

// RefreshSingleCard reloads one queued card after it was edited elsewhere.
// Index and visibility are kept. If the card no longer exists the whole
// session is rebuilt.
func (s *Session) RefreshSingleCard(cardID int64) (Snapshot, error) {
	if !s.active() {
		return s.Snapshot(), nil
	}
	idx := s.indexOf(cardID)
	if idx < 0 {
		return s.Snapshot(), nil
	}

	card, err := s.cards.GetFlashcard(cardID)
	if errors.Is(err, models.ErrNotFound) {
		s.logger.Warn("refreshed card is gone, rebuilding session", "card_id", cardID)
		return s.Resume()
	}
	if err != nil {
		return s.Snapshot(), errors.Wrapf(err, "refresh card %d", cardID)
	}

	refreshed := s.buildEntry(*card)
	refreshed.answerShown = s.entries[idx].answerShown
	s.entries[idx] = refreshed
	return s.Snapshot(), nil
}

// advance removes the current card. The next card slides into the same
// index, or the queue wraps to 0 if the last card was removed.
func (s *Session) advance() {
	idx := s.current
	if idx < 0 || idx >= len(s.entries) {
		s.invalidate(errors.Wrapf(models.ErrInconsistentState, "advance from index %d outside queue of %d", idx, len(s.entries)))
		return
	}

	s.entries = slices.Delete(s.entries, idx, idx+1)
	if len(s.entries) == 0 {
		s.current = 0
		s.status = StatusComplete
		s.logger.Info("study session complete")
		return
	}
	if idx >= len(s.entries) {
		idx = 0
	}
	s.current = idx
	s.entries[idx].answerShown = false
}
