package apperrors

import "errors"

var (
	ErrInvalidInput      = errors.New("invalid input")
	ErrNotFound          = errors.New("not found")
	ErrInvalidGoal       = errors.New("daily goal must be between 1 and 64 rounds")
	ErrInvalidFormat     = errors.New("invalid format")
	ErrCompletionPending = errors.New("round completion is pending")
)
