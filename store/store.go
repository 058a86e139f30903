// Package store persists documents in named collections. Every collection
// is either backed by MongoDB or held in memory; both enforce the same
// unique constraints and return the same typed errors.
package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"erp-project/backend/models"
)

var (
	ErrNotFound     = errors.New("document not found")
	ErrDuplicateKey = errors.New("duplicate key")
)

// DuplicateKeyError reports a unique constraint violation. Field is empty when
// the backend does not say which index was hit.
type DuplicateKeyError struct {
	Field string
	Err   error
}

func (e *DuplicateKeyError) Error() string {
	if e.Field == "" {
		return fmt.Sprintf("duplicate key: %v", e.Err)
	}
	return fmt.Sprintf("duplicate key on %s", e.Field)
}

func (e *DuplicateKeyError) Is(target error) bool { return target == ErrDuplicateKey }
func (e *DuplicateKeyError) Unwrap() error        { return e.Err }

// Filter is an equality filter on stored field names. A filter value also
// matches a stored array that contains it.
type Filter map[string]any

type Collection[T any] interface {
	Name() string
	Find(ctx context.Context, filter Filter) ([]*T, error)
	FindOne(ctx context.Context, filter Filter) (*T, error)
	FindByID(ctx context.Context, id string) (*T, error)
	Insert(ctx context.Context, doc *T) error
	Replace(ctx context.Context, doc *T) error
	DeleteByID(ctx context.Context, id string) error
	Count(ctx context.Context, filter Filter) (int64, error)
}

type entityPtr[T any] interface {
	*T
	models.Entity
}

func now() time.Time {
	return time.Now().UTC().Truncate(time.Millisecond)
}
