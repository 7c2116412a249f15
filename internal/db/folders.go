package db

import (
	"database/sql"
	"strings"

	"github.com/pkg/errors"

	"github.com/Solesoul2/flashcard2/internal/models"
)

func (s *Store) AddFolder(name string, parentID *int64) (int64, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return 0, errors.Wrap(models.ErrInvalidArgument, "folder name is empty")
	}
	if parentID != nil {
		if _, err := s.GetFolder(*parentID); err != nil {
			return 0, err
		}
	}

	res, err := s.db.Exec(`INSERT INTO folders (name, parent_id) VALUES (?, ?)`, name, parentID)
	if err != nil {
		return 0, persistenceError(err, "insert folder")
	}
	return res.LastInsertId()
}

func (s *Store) GetFolder(id int64) (*models.Folder, error) {
	var (
		f      models.Folder
		parent sql.NullInt64
	)
	err := s.db.QueryRow(`SELECT id, name, parent_id FROM folders WHERE id = ?`, id).Scan(&f.ID, &f.Name, &parent)
	if err == sql.ErrNoRows {
		return nil, errors.Wrapf(models.ErrNotFound, "folder %d", id)
	}
	if err != nil {
		return nil, persistenceError(err, "get folder")
	}
	if parent.Valid {
		f.ParentID = &parent.Int64
	}
	return &f, nil
}

func (s *Store) ListFolders() ([]models.Folder, error) {
	rows, err := s.db.Query(`SELECT id, name, parent_id FROM folders ORDER BY name ASC, id ASC`)
	if err != nil {
		return nil, persistenceError(err, "list folders")
	}
	defer rows.Close()

	var folders []models.Folder
	for rows.Next() {
		var (
			f      models.Folder
			parent sql.NullInt64
		)
		if err := rows.Scan(&f.ID, &f.Name, &parent); err != nil {
			return nil, persistenceError(err, "scan folder")
		}
		if parent.Valid {
			f.ParentID = &parent.Int64
		}
		folders = append(folders, f)
	}
	return folders, rows.Err()
}

// GetFolderPath returns the ancestor chain of folderID, root first.
// A nil folder (uncategorized) has an empty path.
func (s *Store) GetFolderPath(folderID *int64) ([]models.Folder, error) {
	if folderID == nil {
		return nil, nil
	}

	var path []models.Folder
	seen := make(map[int64]bool)
	next := folderID
	for next != nil {
		if seen[*next] {
			return nil, errors.Errorf("folder cycle at %d", *next)
		}
		seen[*next] = true

		f, err := s.GetFolder(*next)
		if err != nil {
			return nil, err
		}
		path = append(path, *f)
		next = f.ParentID
	}

	for i, j := 0, len(path)-1; i < j; i, j = i+1, j-1 {
		path[i], path[j] = path[j], path[i]
	}
	return path, nil
}
