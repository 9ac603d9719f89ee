package entity

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"slices"

	"golang.org/x/sync/semaphore"

	"github.com/mesh-intelligence/storefront/pkg/types"
)

// Index is the persisted, append-ordered id list of one entity type. The
// whole list lives under a single backend key, so every read sees one
// consistent snapshot. Writers serialize on the type lock shared with the
// owning Store.
type Index struct {
	backend types.Backend
	key     string
	lock    *semaphore.Weighted
}

func newIndex(backend types.Backend, key string, lock *semaphore.Weighted) *Index {
	return &Index{backend: backend, key: key, lock: lock}
}

// Key returns the backend key holding the index.
func (x *Index) Key() string {
	return x.key
}

// Add appends ids that are not already present, in argument order.
func (x *Index) Add(ctx context.Context, ids ...string) error {
	if err := x.lock.Acquire(ctx, 1); err != nil {
		return err
	}
	defer x.lock.Release(1)
	return x.add(ctx, ids...)
}

// Remove drops id if present, keeping the order of the others.
func (x *Index) Remove(ctx context.Context, id string) error {
	if err := x.lock.Acquire(ctx, 1); err != nil {
		return err
	}
	defer x.lock.Release(1)
	return x.remove(ctx, id)
}

// IDs returns a snapshot of the full index.
func (x *Index) IDs(ctx context.Context) ([]string, error) {
	data, err := x.backend.Get(ctx, x.key)
	if errors.Is(err, types.ErrKeyNotFound) {
		return []string{}, nil
	}
	if err != nil {
		return nil, unavailable("get", x.key, err)
	}
	var ids []string
	if err := json.Unmarshal(data, &ids); err != nil {
		return nil, fmt.Errorf("decode index %s: %w", x.key, err)
	}
	if ids == nil {
		ids = []string{}
	}
	return ids, nil
}

// List returns up to limit ids after the cursor position and the cursor of
// the following page, empty when the end was reached. A limit below 1 is
// treated as 1. List never writes.
func (x *Index) List(ctx context.Context, cursor string, limit int) ([]string, string, error) {
	if limit < 1 {
		limit = 1
	}
	ids, err := x.IDs(ctx)
	if err != nil {
		return nil, "", err
	}

	start, ok := resolveCursor(ids, cursor)
	if !ok {
		return []string{}, "", nil
	}

	n := min(limit, len(ids)-start)
	page := slices.Clone(ids[start : start+n])

	next := ""
	if end := start + n; end < len(ids) && n > 0 {
		next = encodeCursor(cursorToken{After: page[n-1], Offset: end})
	}
	return page, next, nil
}

// add is Add without locking; the caller holds the type lock.
func (x *Index) add(ctx context.Context, ids ...string) error {
	current, err := x.IDs(ctx)
	if err != nil {
		return err
	}
	changed := false
	for _, id := range ids {
		if !slices.Contains(current, id) {
			current = append(current, id)
			changed = true
		}
	}
	if !changed {
		return nil
	}
	return x.write(ctx, current)
}

// remove is Remove without locking; the caller holds the type lock.
func (x *Index) remove(ctx context.Context, id string) error {
	current, err := x.IDs(ctx)
	if err != nil {
		return err
	}
	i := slices.Index(current, id)
	if i < 0 {
		return nil
	}
	return x.write(ctx, slices.Delete(current, i, i+1))
}

func (x *Index) write(ctx context.Context, ids []string) error {
	data, err := json.Marshal(ids)
	if err != nil {
		return fmt.Errorf("encode index %s: %w", x.key, err)
	}
	if err := x.backend.Put(ctx, x.key, data); err != nil {
		return unavailable("put", x.key, err)
	}
	return nil
}
