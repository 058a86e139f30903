package services

import (
	"errors"

	"erp-project/backend/models"
	"erp-project/backend/store"
)

// ValidationError is reported as 400.
type ValidationError struct {
	Message string
	Err     error
}

func (e *ValidationError) Error() string { return e.Message }
func (e *ValidationError) Unwrap() error { return e.Err }

// ConflictError is a unique constraint violation, reported as 400.
type ConflictError struct {
	Message string
	Err     error
}

func (e *ConflictError) Error() string { return e.Message }
func (e *ConflictError) Unwrap() error { return e.Err }

// NotFoundError is reported as 404. It matches store.ErrNotFound.
type NotFoundError struct {
	Label string
}

func (e *NotFoundError) Error() string        { return e.Label + " not found" }
func (e *NotFoundError) Is(target error) bool { return target == store.ErrNotFound }

func notFound(label string) error {
	return &NotFoundError{Label: label}
}

func invalid(message string) error {
	return &ValidationError{Message: message}
}

// classify turns model and store errors into service errors.
func classify(err error, conflictMessage string) error {
	if err == nil {
		return nil
	}
	var modelErr *models.ValidationError
	if errors.As(err, &modelErr) {
		return &ValidationError{Message: modelErr.Message, Err: err}
	}
	if errors.Is(err, store.ErrDuplicateKey) {
		return &ConflictError{Message: conflictMessage, Err: err}
	}
	return err
}
