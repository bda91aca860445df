// Package store defines the CaseStore interface for persisting wells and
// their earth models between sessions.
package store

import (
	"context"
	"errors"

	"github.com/ambia/UTAPWeLS/internal/model"
)

var (
	// ErrWellNotFound is returned when a named well is absent from the store.
	ErrWellNotFound = errors.New("well not found")

	// ErrWellExists is returned when creating a well whose name is taken.
	ErrWellExists = errors.New("well already exists")
)

// CaseStore defines the interface for persisting the wells of a project.
// A well row carries the full earth model and every log set, so loading a
// well restores the complete modeling state.
type CaseStore interface {
	// Well operations
	SaveWell(ctx context.Context, well *model.Well) error
	LoadWell(ctx context.Context, name string) (*model.Well, error)
	DeleteWell(ctx context.Context, name string) error

	// ListWells returns the stored well names, sorted.
	ListWells(ctx context.Context) ([]string, error)

	// HasWell reports whether a named well exists.
	HasWell(ctx context.Context, name string) (bool, error)

	// Persistence
	Sync(ctx context.Context) error
	Close() error
}
