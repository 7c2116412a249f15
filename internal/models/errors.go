package models

import "github.com/pkg/errors"

// Error kinds shared across the study core.
// Use errors.Is to check: errors.Is(err, models.ErrNotFound)
var (
	ErrInvalidArgument   = errors.New("flashcard2: invalid argument")
	ErrNotFound          = errors.New("flashcard2: not found")
	ErrPersistence       = errors.New("flashcard2: persistence failure")
	ErrInconsistentState = errors.New("flashcard2: inconsistent session state")
)
