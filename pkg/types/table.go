package types

import (
	"context"
	"errors"
)

// Table is the type-erased view of one entity store, used by the CLI to
// address entity types by name. Get and List return any; callers
// type-assert to the concrete entity struct.
type Table interface {
	// Name returns the table name (the entity type's index name).
	Name() string

	// EnsureSeed writes the table's seed data once.
	EnsureSeed(ctx context.Context) error

	// Get retrieves the entity with the given ID.
	// Returns ErrNotFound if no entity exists with that ID.
	Get(ctx context.Context, id string) (any, error)

	// Delete removes the entity and reports whether it existed.
	Delete(ctx context.Context, id string) (bool, error)

	// List returns one page of entities in index order and the cursor of
	// the next page, empty at the end.
	List(ctx context.Context, cursor string, limit int) ([]any, string, error)
}

// Entity operation errors.
var (
	ErrNotFound           = errors.New("entity not found")
	ErrInvalidID          = errors.New("invalid entity ID")
	ErrInvalidInput       = errors.New("invalid input")
	ErrConflict           = errors.New("entity already exists")
	ErrBackendUnavailable = errors.New("backend unavailable")
	ErrTableNotFound      = errors.New("table not found")
)

// Entity method errors.
var (
	ErrInvalidStatus     = errors.New("invalid order status")
	ErrInvalidTransition = errors.New("invalid status transition")
)
