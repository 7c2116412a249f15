package db

import (
	"database/sql"
	"time"

	"github.com/pkg/errors"

	"github.com/Solesoul2/flashcard2/internal/models"
)

func (s *Store) GetLastReview(flashcardID int64) (*models.Review, error) {
	row := s.db.QueryRow(`
		SELECT id, flashcard_id, quality, reviewed_at, interval_snapshot, easiness_factor_snapshot
		FROM reviews
		WHERE flashcard_id = ?
		ORDER BY reviewed_at DESC, id DESC
		LIMIT 1`, flashcardID)

	var r models.Review
	err := row.Scan(&r.ID, &r.FlashcardID, &r.Quality, &r.ReviewedAt, &r.Interval, &r.EasinessFactor)
	if err == sql.ErrNoRows {
		return nil, errors.Wrapf(models.ErrNotFound, "reviews of flashcard %d", flashcardID)
	}
	if err != nil {
		return nil, persistenceError(err, "get last review")
	}
	return &r, nil
}

// GetReviewStats summarizes the review log as of now.
func (s *Store) GetReviewStats(now time.Time) (*models.ReviewStats, error) {
	stats := &models.ReviewStats{
		CountByQuality: make(map[int]int),
	}

	if err := s.db.QueryRow("SELECT COUNT(*) FROM reviews").Scan(&stats.TotalReviews); err != nil {
		return nil, persistenceError(err, "count reviews")
	}

	weekAgo := now.UTC().AddDate(0, 0, -7)
	if err := s.db.QueryRow("SELECT COUNT(*) FROM reviews WHERE reviewed_at > ?", weekAgo).Scan(&stats.ReviewsLast7Days); err != nil {
		return nil, persistenceError(err, "count recent reviews")
	}

	var avg sql.NullFloat64
	if err := s.db.QueryRow("SELECT AVG(quality) FROM reviews").Scan(&avg); err != nil {
		return nil, persistenceError(err, "average quality")
	}
	if avg.Valid {
		stats.AverageQuality = avg.Float64
	}

	rows, err := s.db.Query("SELECT quality, COUNT(*) FROM reviews GROUP BY quality")
	if err != nil {
		return nil, persistenceError(err, "quality breakdown")
	}
	defer rows.Close()

	for rows.Next() {
		var quality, count int
		if err := rows.Scan(&quality, &count); err == nil {
			stats.CountByQuality[quality] = count
		}
	}

	return stats, rows.Err()
}
