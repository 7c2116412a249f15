package db

import (
	"database/sql"
	"time"

	"github.com/pkg/errors"

	"github.com/Solesoul2/flashcard2/internal/models"
)

const flashcardColumns = `id, question, answer, folder_id, easiness_factor, interval, repetitions,
	last_reviewed, next_review, last_rating_quality, created_at`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanFlashcard(row rowScanner) (models.Flashcard, error) {
	var (
		f          models.Flashcard
		folderID   sql.NullInt64
		lastRev    sql.NullTime
		nextRev    sql.NullTime
		lastRating sql.NullInt64
	)
	err := row.Scan(&f.ID, &f.Question, &f.Answer, &folderID, &f.EasinessFactor, &f.Interval, &f.Repetitions,
		&lastRev, &nextRev, &lastRating, &f.CreatedAt)
	if err != nil {
		return models.Flashcard{}, err
	}
	if folderID.Valid {
		f.FolderID = &folderID.Int64
	}
	if lastRev.Valid {
		t := lastRev.Time.UTC()
		f.LastReviewed = &t
	}
	if nextRev.Valid {
		t := nextRev.Time.UTC()
		f.NextReview = &t
	}
	if lastRating.Valid {
		q := int(lastRating.Int64)
		f.LastRatingQuality = &q
	}
	return f, nil
}

// folderFilter returns the WHERE fragment selecting one folder; nil selects uncategorized cards.
func folderFilter(folderID *int64) (string, []any) {
	if folderID == nil {
		return "folder_id IS NULL", nil
	}
	return "folder_id = ?", []any{*folderID}
}

func nullTime(t *time.Time) any {
	if t == nil {
		return nil
	}
	return t.UTC()
}

func (s *Store) AddFlashcard(f models.Flashcard) (int64, error) {
	if f.CreatedAt.IsZero() {
		f.CreatedAt = time.Now()
	}
	var rating any
	if f.LastRatingQuality != nil {
		rating = *f.LastRatingQuality
	}
	res, err := s.db.Exec(`
		INSERT INTO flashcards (question, answer, folder_id, easiness_factor, interval, repetitions,
			last_reviewed, next_review, last_rating_quality, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		f.Question, f.Answer, f.FolderID, f.EasinessFactor, f.Interval, f.Repetitions,
		nullTime(f.LastReviewed), nullTime(f.NextReview), rating, f.CreatedAt.UTC(),
	)
	if err != nil {
		return 0, persistenceError(err, "insert flashcard")
	}
	return res.LastInsertId()
}

func (s *Store) GetFlashcard(id int64) (*models.Flashcard, error) {
	row := s.db.QueryRow(`SELECT `+flashcardColumns+` FROM flashcards WHERE id = ?`, id)
	f, err := scanFlashcard(row)
	if err == sql.ErrNoRows {
		return nil, errors.Wrapf(models.ErrNotFound, "flashcard %d", id)
	}
	if err != nil {
		return nil, persistenceError(err, "get flashcard")
	}
	return &f, nil
}

// GetDueFlashcards returns cards in the folder with next_review <= now, oldest due first.
func (s *Store) GetDueFlashcards(folderID *int64, now time.Time) ([]models.Flashcard, error) {
	where, args := folderFilter(folderID)
	args = append(args, now.UTC())
	return s.queryFlashcards(`SELECT `+flashcardColumns+` FROM flashcards
		WHERE `+where+` AND next_review IS NOT NULL AND next_review <= ?
		ORDER BY next_review ASC, id ASC`, args...)
}

// GetFlashcards returns every card in the folder, never-studied cards first,
// then by ascending next_review.
func (s *Store) GetFlashcards(folderID *int64) ([]models.Flashcard, error) {
	where, args := folderFilter(folderID)
	return s.queryFlashcards(`SELECT `+flashcardColumns+` FROM flashcards
		WHERE `+where+`
		ORDER BY next_review IS NOT NULL, next_review ASC, id ASC`, args...)
}

// ListFlashcards returns cards across all folders. dueOnly keeps cards due at now.
func (s *Store) ListFlashcards(dueOnly bool, now time.Time) ([]models.Flashcard, error) {
	if dueOnly {
		return s.queryFlashcards(`SELECT `+flashcardColumns+` FROM flashcards
			WHERE next_review IS NOT NULL AND next_review <= ?
			ORDER BY next_review ASC, id ASC`, now.UTC())
	}
	return s.queryFlashcards(`SELECT ` + flashcardColumns + ` FROM flashcards
		ORDER BY next_review IS NOT NULL, next_review ASC, id ASC`)
}

func (s *Store) queryFlashcards(query string, args ...any) ([]models.Flashcard, error) {
	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, persistenceError(err, "query flashcards")
	}
	defer rows.Close()

	var cards []models.Flashcard
	for rows.Next() {
		f, err := scanFlashcard(rows)
		if err != nil {
			return nil, persistenceError(err, "scan flashcard")
		}
		cards = append(cards, f)
	}
	if err := rows.Err(); err != nil {
		return nil, persistenceError(err, "iterate flashcards")
	}
	return cards, nil
}

// UpdateFlashcardContent rewrites question, answer and folder, leaving SR fields alone.
func (s *Store) UpdateFlashcardContent(f models.Flashcard) error {
	res, err := s.db.Exec(`
		UPDATE flashcards
		SET question=?, answer=?, folder_id=?
		WHERE id=?`,
		f.Question, f.Answer, f.FolderID, f.ID,
	)
	if err != nil {
		return persistenceError(err, "update flashcard")
	}
	return expectAffected(res, "flashcard", f.ID)
}

// UpdateFlashcardReviewData stores the outcome of a rating and appends it to the review log.
func (s *Store) UpdateFlashcardReviewData(cardID int64, d models.ReviewData) error {
	tx, err := s.db.Begin()
	if err != nil {
		return persistenceError(err, "begin review update")
	}
	defer tx.Rollback()

	res, err := tx.Exec(`
		UPDATE flashcards
		SET easiness_factor=?, interval=?, repetitions=?, last_reviewed=?, next_review=?, last_rating_quality=?
		WHERE id=?`,
		d.EasinessFactor, d.Interval, d.Repetitions, d.LastReviewed.UTC(), d.NextReview.UTC(), d.LastRatingQuality, cardID,
	)
	if err != nil {
		return persistenceError(err, "update review data")
	}
	if err := expectAffected(res, "flashcard", cardID); err != nil {
		return err
	}

	_, err = tx.Exec(`
		INSERT INTO reviews (flashcard_id, quality, reviewed_at, interval_snapshot, easiness_factor_snapshot)
		VALUES (?, ?, ?, ?, ?)`,
		cardID, d.LastRatingQuality, d.LastReviewed.UTC(), d.Interval, d.EasinessFactor,
	)
	if err != nil {
		return persistenceError(err, "insert review")
	}

	if err := tx.Commit(); err != nil {
		return persistenceError(err, "commit review update")
	}
	return nil
}

// DeleteFlashcard removes the card together with its review log and checklist state.
func (s *Store) DeleteFlashcard(id int64) error {
	tx, err := s.db.Begin()
	if err != nil {
		return persistenceError(err, "begin delete")
	}
	defer tx.Rollback()

	// Foreign keys are off by default in sqlite, so dependents go explicitly.
	if _, err := tx.Exec("DELETE FROM reviews WHERE flashcard_id=?", id); err != nil {
		return persistenceError(err, "delete reviews")
	}
	if _, err := tx.Exec("DELETE FROM checklist_state WHERE flashcard_id=?", id); err != nil {
		return persistenceError(err, "delete checklist state")
	}
	res, err := tx.Exec("DELETE FROM flashcards WHERE id=?", id)
	if err != nil {
		return persistenceError(err, "delete flashcard")
	}
	if err := expectAffected(res, "flashcard", id); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return persistenceError(err, "commit delete")
	}
	return nil
}

func expectAffected(res sql.Result, what string, id int64) error {
	affected, err := res.RowsAffected()
	if err != nil {
		return persistenceError(err, "rows affected")
	}
	if affected == 0 {
		return errors.Wrapf(models.ErrNotFound, "%s %d", what, id)
	}
	return nil
}
