// Package entity implements indexed entity storage on top of a key-value
// Backend: one Store per entity type persists records, keeps the type's
// ordered index, seeds default records once and serializes
// read-modify-write per record.
//
// Backend key layout:
//
//	entity/<type>/<id>   JSON record
//	index/<indexName>    JSON array of ids in insertion order
//	seed/<type>          seed marker, written after the seed data
//
// Locking: Create, Insert, Delete and EnsureSeed hold the type lock and
// then the record lock; Patch and Mutate hold only the record lock. Locks
// are always taken type first, then record.
package entity

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync/atomic"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/semaphore"

	"github.com/mesh-intelligence/storefront/pkg/types"
)

// Key prefixes of the backend layout.
const (
	RecordPrefix = "entity/"
	IndexPrefix  = "index/"
	SeedPrefix   = "seed/"
)

// seedMarker is the value stored under the seed flag key.
const seedMarker = "seeded"

// defaultLoadConcurrency bounds parallel record loads in List.
const defaultLoadConcurrency = 8

// Record is implemented by entity value types. WithID must return a copy
// and leave the receiver untouched.
type Record[T any] interface {
	RecordID() string
	WithID(id string) T
}

// Config describes one entity type.
type Config[T any] struct {
	// TypeName namespaces record keys (e.g. "product").
	TypeName string
	// IndexName namespaces the index key (e.g. "products").
	IndexName string
	// InitialState is the zero record. Its id must be empty.
	InitialState T
	// SeedData is written once by EnsureSeed, in order. Every seed record
	// needs a distinct, non-empty id.
	SeedData []T
}

// Page is one page of a List call. Next is empty on the last page.
type Page[T any] struct {
	Items []T
	Next  string
}

// Option configures a Store.
type Option func(*options)

type options struct {
	logger          *slog.Logger
	newID           func() string
	loadConcurrency int
}

// WithLogger sets the logger used for seeding and consistency warnings.
func WithLogger(l *slog.Logger) Option {
	return func(o *options) { o.logger = l }
}

// WithIDGenerator replaces the UUID v7 generator used by Create.
func WithIDGenerator(fn func() string) Option {
	return func(o *options) { o.newID = fn }
}

// WithLoadConcurrency bounds parallel record loads in List.
func WithLoadConcurrency(n int) Option {
	return func(o *options) { o.loadConcurrency = n }
}

// NewID generates a UUID v7 string, falling back to v4.
func NewID() string {
	id, err := uuid.NewV7()
	if err != nil {
		return uuid.New().String()
	}
	return id.String()
}

// Store persists the records of one entity type.
type Store[T Record[T]] struct {
	backend  types.Backend
	cfg      Config[T]
	index    *Index
	typeLock *semaphore.Weighted
	ids      *Guard
	seeded   atomic.Bool
	opts     options
}

// New validates cfg and returns a Store bound to backend. A process must
// use a single Store per entity type; the locks live in the Store.
func New[T Record[T]](backend types.Backend, cfg Config[T], opts ...Option) (*Store[T], error) {
	if backend == nil {
		return nil, errors.New("entity: backend is required")
	}
	if strings.TrimSpace(cfg.TypeName) == "" || strings.TrimSpace(cfg.IndexName) == "" {
		return nil, errors.New("entity: type name and index name are required")
	}
	if cfg.InitialState.RecordID() != "" {
		return nil, fmt.Errorf("entity %s: initial state must have an empty id", cfg.TypeName)
	}
	seen := make(map[string]bool, len(cfg.SeedData))
	for i, rec := range cfg.SeedData {
		id := rec.RecordID()
		if id == "" {
			return nil, fmt.Errorf("entity %s: seed record %d has no id", cfg.TypeName, i)
		}
		if seen[id] {
			return nil, fmt.Errorf("entity %s: duplicate seed id %q", cfg.TypeName, id)
		}
		seen[id] = true
	}

	o := options{
		logger:          slog.New(slog.DiscardHandler),
		newID:           NewID,
		loadConcurrency: defaultLoadConcurrency,
	}
	for _, opt := range opts {
		opt(&o)
	}
	if o.loadConcurrency < 1 {
		o.loadConcurrency = 1
	}
	o.logger = o.logger.With("entity", cfg.TypeName)

	typeLock := semaphore.NewWeighted(1)
	return &Store[T]{
		backend:  backend,
		cfg:      cfg,
		index:    newIndex(backend, IndexPrefix+cfg.IndexName, typeLock),
		typeLock: typeLock,
		ids:      NewGuard(),
		opts:     o,
	}, nil
}

// TypeName returns the entity type name.
func (s *Store[T]) TypeName() string { return s.cfg.TypeName }

// IndexName returns the index name.
func (s *Store[T]) IndexName() string { return s.cfg.IndexName }

// Index returns the type's index.
func (s *Store[T]) Index() *Index { return s.index }

// Initial returns the initial state. Request bodies are decoded onto it so
// that absent fields take their initial values.
func (s *Store[T]) Initial() T { return s.cfg.InitialState }

// Ref returns an accessor bound to id.
func (s *Store[T]) Ref(id string) *Ref[T] {
	return &Ref[T]{store: s, id: id}
}

// Get loads the record stored under id.
// Returns ErrNotFound if there is none.
func (s *Store[T]) Get(ctx context.Context, id string) (T, error) {
	return s.Ref(id).Get(ctx)
}

// Create stores v and adds it to the index. A new id is generated when v
// has none. Creating an id that already exists overwrites the record
// (last write wins) without duplicating the index entry.
func (s *Store[T]) Create(ctx context.Context, v T) (T, error) {
	return s.create(ctx, v, false)
}

// Insert is Create that fails with ErrConflict when the id already exists.
func (s *Store[T]) Insert(ctx context.Context, v T) (T, error) {
	return s.create(ctx, v, true)
}

func (s *Store[T]) create(ctx context.Context, v T, exclusive bool) (T, error) {
	var zero T
	id := v.RecordID()
	if id == "" {
		id = s.opts.newID()
		v = v.WithID(id)
	}

	releaseType, err := s.lockType(ctx)
	if err != nil {
		return zero, err
	}
	defer releaseType()
	unlock, err := s.ids.Lock(ctx, id)
	if err != nil {
		return zero, err
	}
	defer unlock()

	if exclusive {
		exists, err := s.exists(ctx, id)
		if err != nil {
			return zero, err
		}
		if exists {
			return zero, fmt.Errorf("%s %s: %w", s.cfg.TypeName, id, types.ErrConflict)
		}
	}

	// Record first, then index: a failure between the two leaves an
	// unindexed record, never an index entry without a record.
	if err := s.put(ctx, v); err != nil {
		return zero, err
	}
	if err := s.index.add(ctx, id); err != nil {
		return zero, err
	}
	return v, nil
}

// Delete removes the record and its index entry and reports whether the
// record existed. Deleting a missing id still scrubs the index.
func (s *Store[T]) Delete(ctx context.Context, id string) (bool, error) {
	if id == "" {
		return false, types.ErrInvalidID
	}

	releaseType, err := s.lockType(ctx)
	if err != nil {
		return false, err
	}
	defer releaseType()
	unlock, err := s.ids.Lock(ctx, id)
	if err != nil {
		return false, err
	}
	defer unlock()

	existed, err := s.exists(ctx, id)
	if err != nil {
		return false, err
	}
	if existed {
		key := s.recordKey(id)
		if err := s.backend.Delete(ctx, key); err != nil {
			return false, unavailable("delete", key, err)
		}
	}
	if err := s.index.remove(ctx, id); err != nil {
		return existed, err
	}
	return existed, nil
}

// List returns up to limit records after cursor in index order. Index
// entries whose record is missing are skipped and logged.
func (s *Store[T]) List(ctx context.Context, cursor string, limit int) (Page[T], error) {
	ids, next, err := s.index.List(ctx, cursor, limit)
	if err != nil {
		return Page[T]{}, err
	}

	items := make([]T, len(ids))
	found := make([]bool, len(ids))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.opts.loadConcurrency)
	for i, id := range ids {
		g.Go(func() error {
			v, err := s.load(gctx, id)
			if errors.Is(err, types.ErrNotFound) {
				s.opts.logger.WarnContext(gctx, "index entry without record", "id", id)
				return nil
			}
			if err != nil {
				return err
			}
			items[i] = v
			found[i] = true
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return Page[T]{}, err
	}

	out := make([]T, 0, len(items))
	for i, v := range items {
		if found[i] {
			out = append(out, v)
		}
	}
	return Page[T]{Items: out, Next: next}, nil
}

// StoredIDs returns the ids of all stored records, read from the backend
// key space rather than the index, in ascending key order.
func (s *Store[T]) StoredIDs(ctx context.Context) ([]string, error) {
	prefix := s.recordPrefix()
	keys, err := s.backend.ListKeys(ctx, prefix)
	if err != nil {
		return nil, unavailable("list", prefix, err)
	}
	ids := make([]string, len(keys))
	for i, k := range keys {
		ids[i] = strings.TrimPrefix(k, prefix)
	}
	return ids, nil
}

func (s *Store[T]) lockType(ctx context.Context) (func(), error) {
	if err := s.typeLock.Acquire(ctx, 1); err != nil {
		return nil, err
	}
	return func() { s.typeLock.Release(1) }, nil
}

func (s *Store[T]) recordPrefix() string {
	return RecordPrefix + s.cfg.TypeName + "/"
}

func (s *Store[T]) recordKey(id string) string {
	return s.recordPrefix() + id
}

func (s *Store[T]) seedKey() string {
	return SeedPrefix + s.cfg.TypeName
}

func (s *Store[T]) exists(ctx context.Context, id string) (bool, error) {
	key := s.recordKey(id)
	_, err := s.backend.Get(ctx, key)
	if errors.Is(err, types.ErrKeyNotFound) {
		return false, nil
	}
	if err != nil {
		return false, unavailable("get", key, err)
	}
	return true, nil
}

func (s *Store[T]) load(ctx context.Context, id string) (T, error) {
	var v T
	key := s.recordKey(id)
	data, err := s.backend.Get(ctx, key)
	if errors.Is(err, types.ErrKeyNotFound) {
		return v, fmt.Errorf("%s %s: %w", s.cfg.TypeName, id, types.ErrNotFound)
	}
	if err != nil {
		return v, unavailable("get", key, err)
	}
	if err := json.Unmarshal(data, &v); err != nil {
		return v, fmt.Errorf("decode %s: %w", key, err)
	}
	return v, nil
}

func (s *Store[T]) put(ctx context.Context, v T) error {
	key := s.recordKey(v.RecordID())
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode %s: %w", key, err)
	}
	if err := s.backend.Put(ctx, key, data); err != nil {
		return unavailable("put", key, err)
	}
	return nil
}

// unavailable wraps a backend failure so callers can match
// ErrBackendUnavailable and the underlying cause.
func unavailable(op, key string, err error) error {
	return fmt.Errorf("%w: %s %s: %w", types.ErrBackendUnavailable, op, key, err)
}
