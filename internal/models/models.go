package models

import "time"

// Flashcard represents a single study card.
type Flashcard struct {
	ID       int64  `json:"id"` // 0 until persisted
	Question string `json:"question"`
	Answer   string `json:"answer"`
	FolderID *int64 `json:"folder_id,omitempty"` // nil = uncategorized

	EasinessFactor    float64    `json:"easiness_factor"` // SM-2 multiplier, floor 1.3
	Interval          int        `json:"interval"`        // Days until next review
	Repetitions       int        `json:"repetitions"`     // Consecutive correct reviews
	LastReviewed      *time.Time `json:"last_reviewed,omitempty"`
	NextReview        *time.Time `json:"next_review,omitempty"`
	LastRatingQuality *int       `json:"last_rating_quality,omitempty"`
	CreatedAt         time.Time  `json:"created_at"`
}

// IsNew reports whether the card has never been scheduled.
func (f Flashcard) IsNew() bool {
	return f.NextReview == nil
}

// Folder groups flashcards. Folders nest through ParentID.
type Folder struct {
	ID       int64  `json:"id"`
	Name     string `json:"name"`
	ParentID *int64 `json:"parent_id,omitempty"`
}

// ReviewData is the set of SR fields written back after a rating.
type ReviewData struct {
	EasinessFactor    float64
	Interval          int
	Repetitions       int
	LastReviewed      time.Time
	NextReview        time.Time
	LastRatingQuality int
}

// Review represents a single review event for a flashcard.
type Review struct {
	ID          int64     `json:"id"`
	FlashcardID int64     `json:"flashcard_id"`
	Quality     int       `json:"quality"`
	ReviewedAt  time.Time `json:"reviewed_at"`
	// Snapshot of algorithm state after the review
	Interval       int     `json:"interval"`
	EasinessFactor float64 `json:"easiness_factor"`
}

type ReviewStats struct {
	TotalReviews     int
	ReviewsLast7Days int
	AverageQuality   float64
	CountByQuality   map[int]int
}
