package entity

import (
	"context"
	"slices"
)

// Report lists the differences between a type's index and its stored
// records.
type Report struct {
	// Dangling are index entries without a stored record.
	Dangling []string `json:"dangling"`
	// Orphans are stored records missing from the index.
	Orphans []string `json:"orphans"`
}

// Consistent reports whether the index and the record set agree.
func (r Report) Consistent() bool {
	return len(r.Dangling) == 0 && len(r.Orphans) == 0
}

// Check compares the index with the stored records under the type lock.
func (s *Store[T]) Check(ctx context.Context) (Report, error) {
	release, err := s.lockType(ctx)
	if err != nil {
		return Report{}, err
	}
	defer release()
	return s.check(ctx)
}

// Repair brings the index in line with the stored records: dangling
// entries are removed and orphan records are appended in key order.
func (s *Store[T]) Repair(ctx context.Context) (Report, error) {
	release, err := s.lockType(ctx)
	if err != nil {
		return Report{}, err
	}
	defer release()

	rep, err := s.check(ctx)
	if err != nil || rep.Consistent() {
		return rep, err
	}
	for _, id := range rep.Dangling {
		if err := s.index.remove(ctx, id); err != nil {
			return rep, err
		}
	}
	if err := s.index.add(ctx, rep.Orphans...); err != nil {
		return rep, err
	}
	s.opts.logger.InfoContext(ctx, "repaired index",
		"dangling", len(rep.Dangling), "orphans", len(rep.Orphans))
	return rep, nil
}

func (s *Store[T]) check(ctx context.Context) (Report, error) {
	indexed, err := s.index.IDs(ctx)
	if err != nil {
		return Report{}, err
	}
	stored, err := s.StoredIDs(ctx)
	if err != nil {
		return Report{}, err
	}

	rep := Report{Dangling: []string{}, Orphans: []string{}}
	for _, id := range indexed {
		if _, found := slices.BinarySearch(stored, id); !found {
			rep.Dangling = append(rep.Dangling, id)
		}
	}
	for _, id := range stored {
		if !slices.Contains(indexed, id) {
			rep.Orphans = append(rep.Orphans, id)
		}
	}
	return rep, nil
}
