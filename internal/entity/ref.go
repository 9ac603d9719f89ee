package entity

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/mesh-intelligence/storefront/pkg/types"
)

// Ref is an accessor bound to one record id of a Store.
type Ref[T Record[T]] struct {
	store *Store[T]
	id    string
}

// ID returns the bound id.
func (r *Ref[T]) ID() string { return r.id }

// Exists reports whether a record is stored under the id.
func (r *Ref[T]) Exists(ctx context.Context) (bool, error) {
	if r.id == "" {
		return false, nil
	}
	return r.store.exists(ctx, r.id)
}

// Get returns the stored record.
// Returns ErrNotFound if there is none.
func (r *Ref[T]) Get(ctx context.Context) (T, error) {
	if r.id == "" {
		var zero T
		return zero, types.ErrInvalidID
	}
	return r.store.load(ctx, r.id)
}

// Patch overlays fields, keyed by JSON field name, onto the stored record
// and writes the result. Fields not named keep their stored values and
// the id cannot be changed. A value of the wrong JSON type fails with
// ErrInvalidInput; a missing record fails with ErrNotFound. Each check runs
// on the merged record before it is written and its error aborts the patch.
func (r *Ref[T]) Patch(ctx context.Context, fields map[string]any, checks ...func(T) error) (T, error) {
	return r.Mutate(ctx, func(current T) (T, error) {
		merged, err := mergeFields(current, fields)
		if err != nil {
			return merged, err
		}
		for _, check := range checks {
			if err := check(merged); err != nil {
				return merged, err
			}
		}
		return merged, nil
	})
}

// Mutate reads the record, applies fn and writes the result while holding
// the record lock, so no other Patch or Mutate on the id interleaves. An
// error from fn aborts without writing and is returned as is.
func (r *Ref[T]) Mutate(ctx context.Context, fn func(T) (T, error)) (T, error) {
	var zero T
	if r.id == "" {
		return zero, types.ErrInvalidID
	}

	unlock, err := r.store.ids.Lock(ctx, r.id)
	if err != nil {
		return zero, err
	}
	defer unlock()

	current, err := r.store.load(ctx, r.id)
	if err != nil {
		return zero, err
	}
	next, err := fn(current)
	if err != nil {
		return zero, err
	}
	next = next.WithID(r.id)
	if err := r.store.put(ctx, next); err != nil {
		return zero, err
	}
	return next, nil
}

// mergeFields performs a top-level JSON merge of fields onto current.
func mergeFields[T Record[T]](current T, fields map[string]any) (T, error) {
	var zero T
	base, err := json.Marshal(current)
	if err != nil {
		return zero, fmt.Errorf("encode record: %w", err)
	}
	merged := make(map[string]any)
	if err := json.Unmarshal(base, &merged); err != nil {
		return zero, fmt.Errorf("decode record: %w", err)
	}
	for k, v := range fields {
		merged[k] = v
	}
	data, err := json.Marshal(merged)
	if err != nil {
		return zero, fmt.Errorf("%w: %v", types.ErrInvalidInput, err)
	}
	var out T
	if err := json.Unmarshal(data, &out); err != nil {
		return zero, fmt.Errorf("%w: %v", types.ErrInvalidInput, err)
	}
	return out.WithID(current.RecordID()), nil
}
