package db

import (
	"database/sql"

	"github.com/Solesoul2/flashcard2/internal/answer"
)

// LoadChecklistState returns the saved check marks of a card, or an empty map.
func (s *Store) LoadChecklistState(cardID int64) (map[int]bool, error) {
	if cardID == 0 {
		return map[int]bool{}, nil
	}

	var blob string
	err := s.db.QueryRow(`SELECT state FROM checklist_state WHERE flashcard_id = ?`, cardID).Scan(&blob)
	if err == sql.ErrNoRows {
		return map[int]bool{}, nil
	}
	if err != nil {
		return nil, persistenceError(err, "load checklist state")
	}
	return answer.DecodeState([]byte(blob))
}

// SaveChecklistState overwrites the saved check marks of a card.
func (s *Store) SaveChecklistState(cardID int64, state map[int]bool) error {
	if cardID == 0 {
		return nil
	}

	blob, err := answer.EncodeState(state)
	if err != nil {
		return err
	}
	_, err = s.db.Exec(`
		INSERT INTO checklist_state (flashcard_id, state) VALUES (?, ?)
		ON CONFLICT(flashcard_id) DO UPDATE SET state = excluded.state`,
		cardID, string(blob),
	)
	if err != nil {
		return persistenceError(err, "save checklist state")
	}
	return nil
}

func (s *Store) ClearChecklistState(cardID int64) error {
	if cardID == 0 {
		return nil
	}
	if _, err := s.db.Exec(`DELETE FROM checklist_state WHERE flashcard_id = ?`, cardID); err != nil {
		return persistenceError(err, "clear checklist state")
	}
	return nil
}
