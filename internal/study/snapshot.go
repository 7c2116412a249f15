package study

import (
	"slices"
	"time"

	"github.com/Solesoul2/flashcard2/internal/algorithm"
	"github.com/Solesoul2/flashcard2/internal/answer"
	"github.com/Solesoul2/flashcard2/internal/models"
)

// Status is the lifecycle state of a session.
type Status int

const (
	StatusLoading Status = iota
	StatusActive
	StatusComplete
)

func (s Status) String() string {
	switch s {
	case StatusLoading:
		return "loading"
	case StatusActive:
		return "active"
	case StatusComplete:
		return "complete"
	default:
		return "unknown"
	}
}

// CardView is the render-ready state of one queued card.
type CardView struct {
	Card models.Flashcard
	// Lines is the full parsed answer; Visible has the render options applied.
	Lines       []answer.Line
	Visible     []answer.Line
	Checklist   []answer.ChecklistItem
	AnswerShown bool
}

// RateResult describes the last rating submitted in a session.
type RateResult struct {
	CardID     int64
	Quality    int
	Schedule   algorithm.Schedule
	ReviewedAt time.Time
	NextReview time.Time
	// Persisted is false when the store rejected the write.
	Persisted bool
}

// Snapshot is an immutable copy of session state.
type Snapshot struct {
	SessionID  string
	Status     Status
	FolderID   *int64
	FolderPath []models.Folder

	Cards        []CardView
	CurrentIndex int
	Current      *CardView

	LiveColor         answer.Color
	LastRatingQuality *int // mirror of the current card's stored quality
	LastRating        *RateResult

	// Err is set when the session was invalidated by an inconsistent state.
	Err error
}

// Complete reports whether the session has no cards left.
func (s Snapshot) Complete() bool {
	return s.Status == StatusComplete
}

// Count is the number of cards left in the queue.
func (s Snapshot) Count() int {
	return len(s.Cards)
}

// Position is the 1-based queue position of the current card, 0 when there is none.
func (s Snapshot) Position() int {
	if s.Current == nil {
		return 0
	}
	return s.CurrentIndex + 1
}

func cloneID(id *int64) *int64 {
	if id == nil {
		return nil
	}
	v := *id
	return &v
}

func cloneInt(p *int) *int {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}

func cloneTime(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	v := *t
	return &v
}

func cloneCard(c models.Flashcard) models.Flashcard {
	c.FolderID = cloneID(c.FolderID)
	c.LastReviewed = cloneTime(c.LastReviewed)
	c.NextReview = cloneTime(c.NextReview)
	c.LastRatingQuality = cloneInt(c.LastRatingQuality)
	return c
}

func (s *Session) view(e entry) CardView {
	return CardView{
		Card:        cloneCard(e.card),
		Lines:       slices.Clone(e.lines),
		Visible:     answer.VisibleLines(slices.Clone(e.lines), s.render),
		Checklist:   slices.Clone(e.checklist),
		AnswerShown: e.answerShown,
	}
}

// Snapshot returns a copy of the current state that later operations do not change.
func (s *Session) Snapshot() Snapshot {
	snap := Snapshot{
		SessionID:    s.id,
		Status:       s.status,
		FolderID:     cloneID(s.folderID),
		FolderPath:   slices.Clone(s.folderPath),
		Cards:        make([]CardView, len(s.entries)),
		CurrentIndex: s.current,
		LiveColor:    answer.NotRatedColor,
		Err:          s.err,
	}
	if s.lastRating != nil {
		r := *s.lastRating
		snap.LastRating = &r
	}
	for i, e := range s.entries {
		snap.Cards[i] = s.view(e)
	}
	if s.status == StatusActive && s.current >= 0 && s.current < len(snap.Cards) {
		cur := snap.Cards[s.current]
		snap.Current = &cur
		snap.LiveColor = answer.LiveColor(cur.Checklist)
		snap.LastRatingQuality = cloneInt(cur.Card.LastRatingQuality)
	}
	return snap
}
