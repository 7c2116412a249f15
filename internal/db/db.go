package db

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "github.com/mattn/go-sqlite3"
	"github.com/pkg/errors"

	"github.com/Solesoul2/flashcard2/internal/models"
)

type Store struct {
	db *sql.DB
}

// NewStore opens (creating if needed) the sqlite database at dsn.
func NewStore(dsn string) (*Store, error) {
	if dsn == "" {
		return nil, errors.New("empty database path")
	}
	if dir := filepath.Dir(dsn); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, errors.Wrap(err, "cannot create data directory")
		}
	}

	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, errors.Wrap(err, "open database")
	}

	if err := initSchema(db); err != nil {
		db.Close()
		return nil, errors.Wrap(err, "init schema")
	}

	return &Store{db: db}, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

func initSchema(db *sql.DB) error {
	queryFolders := `
	CREATE TABLE IF NOT EXISTS folders (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		name TEXT NOT NULL,
		parent_id INTEGER REFERENCES folders(id) ON DELETE SET NULL
	);
	`
	if _, err := db.Exec(queryFolders); err != nil {
		return err
	}

	// Timestamps are stored in UTC so that text comparison orders them.
	queryFlashcards := `
	CREATE TABLE IF NOT EXISTS flashcards (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		question TEXT NOT NULL,
		answer TEXT NOT NULL DEFAULT '',
		folder_id INTEGER REFERENCES folders(id) ON DELETE SET NULL,
		easiness_factor REAL NOT NULL DEFAULT 2.5,
		interval INTEGER NOT NULL DEFAULT 0,
		repetitions INTEGER NOT NULL DEFAULT 0,
		last_reviewed DATETIME,
		next_review DATETIME,
		created_at DATETIME NOT NULL
	);
	`
	if _, err := db.Exec(queryFlashcards); err != nil {
		return err
	}

	if _, err := db.Exec(`CREATE INDEX IF NOT EXISTS idx_flashcards_folder_next ON flashcards (folder_id, next_review)`); err != nil {
		return err
	}

	queryReviews := `
	CREATE TABLE IF NOT EXISTS reviews (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		flashcard_id INTEGER NOT NULL,
		quality INTEGER NOT NULL,
		reviewed_at DATETIME NOT NULL,
		interval_snapshot INTEGER,
		easiness_factor_snapshot REAL,
		FOREIGN KEY (flashcard_id) REFERENCES flashcards(id) ON DELETE CASCADE
	);
	`
	if _, err := db.Exec(queryReviews); err != nil {
		return err
	}

	queryChecklist := `
	CREATE TABLE IF NOT EXISTS checklist_state (
		flashcard_id INTEGER PRIMARY KEY,
		state TEXT NOT NULL
	);
	`
	if _, err := db.Exec(queryChecklist); err != nil {
		return err
	}

	// Migrations (simple check and apply)
	if !columnExists(db, "flashcards", "last_rating_quality") {
		if _, err := db.Exec("ALTER TABLE flashcards ADD COLUMN last_rating_quality INTEGER"); err != nil {
			return err
		}
	}

	return nil
}

func columnExists(db *sql.DB, tableName, colName string) bool {
	rows, err := db.Query(fmt.Sprintf("SELECT %s FROM %s LIMIT 0", colName, tableName))
	if err != nil {
		return false
	}
	rows.Close()
	return true
}

// persistenceError tags err as a storage failure while keeping the driver error reachable.
func persistenceError(err error, op string) error {
	return fmt.Errorf("%w: %s: %w", models.ErrPersistence, op, err)
}
