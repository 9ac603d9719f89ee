package entities

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/mesh-intelligence/storefront/internal/entity"
	"github.com/mesh-intelligence/storefront/pkg/types"
)

type checker interface {
	Check(ctx context.Context) (entity.Report, error)
	Repair(ctx context.Context) (entity.Report, error)
}

// table adapts a typed Store to types.Table.
type table[T entity.Record[T]] struct {
	store *entity.Store[T]
}

func (t table[T]) Name() string { return t.store.IndexName() }

func (t table[T]) EnsureSeed(ctx context.Context) error {
	return t.store.EnsureSeed(ctx)
}

func (t table[T]) Get(ctx context.Context, id string) (any, error) {
	return t.store.Get(ctx, id)
}

func (t table[T]) Delete(ctx context.Context, id string) (bool, error) {
	return t.store.Delete(ctx, id)
}

func (t table[T]) List(ctx context.Context, cursor string, limit int) ([]any, string, error) {
	page, err := t.store.List(ctx, cursor, limit)
	if err != nil {
		return nil, "", err
	}
	items := make([]any, len(page.Items))
	for i, v := range page.Items {
		items[i] = v
	}
	return items, page.Next, nil
}

func (t table[T]) Check(ctx context.Context) (entity.Report, error) {
	return t.store.Check(ctx)
}

func (t table[T]) Repair(ctx context.Context) (entity.Report, error) {
	return t.store.Repair(ctx)
}

type importer interface {
	Import(ctx context.Context, records []json.RawMessage) (int, error)
}

// Import decodes each record onto the initial state and creates it. Records
// with an id overwrite the stored record of that id.
func (t table[T]) Import(ctx context.Context, records []json.RawMessage) (int, error) {
	for i, raw := range records {
		v := t.store.Initial()
		if err := json.Unmarshal(raw, &v); err != nil {
			return i, fmt.Errorf("%w: record %d: %v", types.ErrInvalidInput, i+1, err)
		}
		if _, err := t.store.Create(ctx, v); err != nil {
			return i, err
		}
	}
	return len(records), nil
}
