package entity

import (
	"context"
	"errors"

	"github.com/mesh-intelligence/storefront/pkg/types"
)

// EnsureSeed writes the seed data exactly once per entity type.
//
// Once the flag has been observed the call returns without touching the
// backend. Otherwise, under the type lock, the flag is re-checked and the
// seed records are written with their own ids, then appended to the index
// in declared order, then the flag is written. A seed record whose id is
// already stored is left as is, so a retry after a failure before the flag
// keeps any change made to records the failed attempt wrote. Re-adding ids
// is harmless because the index never duplicates.
func (s *Store[T]) EnsureSeed(ctx context.Context) error {
	if s.seeded.Load() {
		return nil
	}
	done, err := s.seedFlag(ctx)
	if err != nil {
		return err
	}
	if done {
		s.seeded.Store(true)
		return nil
	}

	releaseType, err := s.lockType(ctx)
	if err != nil {
		return err
	}
	defer releaseType()

	done, err = s.seedFlag(ctx)
	if err != nil {
		return err
	}
	if done {
		s.seeded.Store(true)
		return nil
	}

	ids := make([]string, 0, len(s.cfg.SeedData))
	for _, rec := range s.cfg.SeedData {
		if err := s.seedLocked(ctx, rec); err != nil {
			return err
		}
		ids = append(ids, rec.RecordID())
	}
	if err := s.index.add(ctx, ids...); err != nil {
		return err
	}

	key := s.seedKey()
	if err := s.backend.Put(ctx, key, []byte(seedMarker)); err != nil {
		return unavailable("put", key, err)
	}
	s.seeded.Store(true)
	s.opts.logger.InfoContext(ctx, "seeded entity type", "records", len(ids))
	return nil
}

// Seeded reports whether the seed flag is set in the backend.
func (s *Store[T]) Seeded(ctx context.Context) (bool, error) {
	if s.seeded.Load() {
		return true, nil
	}
	return s.seedFlag(ctx)
}

func (s *Store[T]) seedFlag(ctx context.Context) (bool, error) {
	key := s.seedKey()
	_, err := s.backend.Get(ctx, key)
	if errors.Is(err, types.ErrKeyNotFound) {
		return false, nil
	}
	if err != nil {
		return false, unavailable("get", key, err)
	}
	return true, nil
}

// seedLocked writes rec under its record lock unless a record with its id
// is already stored. The caller holds the type lock.
func (s *Store[T]) seedLocked(ctx context.Context, rec T) error {
	unlock, err := s.ids.Lock(ctx, rec.RecordID())
	if err != nil {
		return err
	}
	defer unlock()
	found, err := s.exists(ctx, rec.RecordID())
	if err != nil || found {
		return err
	}
	return s.put(ctx, rec)
}
