package algorithm

import (
	"math"
	"time"

	"github.com/pkg/errors"

	"github.com/Solesoul2/flashcard2/internal/models"
)

// Default settings for new cards
const (
	DefaultEasinessFactor = 2.5
	MinEasinessFactor     = 1.3

	MinQuality = 0
	MaxQuality = 5

	// DefaultQuality is used when a card has no checklist to derive quality from.
	DefaultQuality = 3
)

// reviewPadding keeps next_review strictly after the rating instant.
const reviewPadding = time.Second

// Schedule is the outcome of one SM-2 step.
type Schedule struct {
	EasinessFactor float64
	Interval       int
	Repetitions    int
}

// Calculate applies one SM-2 step for a review of the given quality.
// quality: 0 (blackout) to 5 (perfect recollection)
func Calculate(quality int, prevEF float64, prevInterval, prevRepetitions int) (Schedule, error) {
	if quality < MinQuality || quality > MaxQuality {
		return Schedule{}, errors.Wrapf(models.ErrInvalidArgument, "quality %d out of range [%d,%d]", quality, MinQuality, MaxQuality)
	}
	if prevInterval < 0 {
		return Schedule{}, errors.Wrapf(models.ErrInvalidArgument, "interval %d must not be negative", prevInterval)
	}
	if prevRepetitions < 0 {
		return Schedule{}, errors.Wrapf(models.ErrInvalidArgument, "repetitions %d must not be negative", prevRepetitions)
	}
	if prevEF < MinEasinessFactor {
		prevEF = MinEasinessFactor
	}

	// EF' = EF + (0.1 - (5-q) * (0.08 + (5-q)*0.02))
	q := float64(quality)
	ef := prevEF + (0.1 - (5-q)*(0.08+(5-q)*0.02))
	if ef < MinEasinessFactor {
		ef = MinEasinessFactor
	}

	if quality < 3 {
		// Failed recall restarts the streak.
		return Schedule{EasinessFactor: ef, Interval: 1, Repetitions: 0}, nil
	}

	reps := prevRepetitions + 1
	var interval int
	switch reps {
	case 1:
		interval = 1
	case 2:
		interval = 6
	default:
		interval = int(math.Round(float64(prevInterval) * ef))
	}

	return Schedule{EasinessFactor: ef, Interval: interval, Repetitions: reps}, nil
}

// NextReview returns the due time for a card rated at now with the given interval.
func NextReview(now time.Time, intervalDays int) time.Time {
	return now.AddDate(0, 0, intervalDays).Add(reviewPadding)
}

// InitFlashcard sets default SR values for a new card.
func InitFlashcard(f models.Flashcard) models.Flashcard {
	if f.EasinessFactor == 0 {
		f.EasinessFactor = DefaultEasinessFactor
	}
	f.Interval = 0
	f.Repetitions = 0
	// Never studied: no schedule until the first rating.
	f.LastReviewed = nil
	f.NextReview = nil
	f.LastRatingQuality = nil
	return f
}
