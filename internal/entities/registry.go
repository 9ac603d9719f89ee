// Package entities wires the storefront entity types onto entity.Store:
// one store per type over a shared backend, the order and chat operations
// built on Mutate, and name-based table access for the CLI.
package entities

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/mesh-intelligence/storefront/internal/entity"
	"github.com/mesh-intelligence/storefront/internal/jsonl"
	"github.com/mesh-intelligence/storefront/pkg/types"
)

// Registry holds the single Store of each entity type for a backend.
// Create one Registry per backend per process.
type Registry struct {
	Products *entity.Store[types.Product]
	Orders   *entity.Store[types.Order]
	Users    *entity.Store[types.User]
	Chats    *entity.Store[types.ChatBoard]

	cycle  types.StatusCycle
	logger *slog.Logger
	now    func() time.Time
	newID  func() string
	tables map[string]types.Table
}

// Option configures a Registry.
type Option func(*settings)

type settings struct {
	logger  *slog.Logger
	cycle   types.StatusCycle
	seedDir string
	now     func() time.Time
	newID   func() string
}

// WithLogger sets the logger passed to every store.
func WithLogger(l *slog.Logger) Option {
	return func(s *settings) { s.logger = l }
}

// WithStatusCycle sets the cycle used by AdvanceOrder.
func WithStatusCycle(c types.StatusCycle) Option {
	return func(s *settings) { s.cycle = c }
}

// WithSeedDir makes <dir>/<table>.jsonl, when present, replace the
// built-in seed data of that table.
func WithSeedDir(dir string) Option {
	return func(s *settings) { s.seedDir = dir }
}

// WithClock replaces time.Now for order and message timestamps.
func WithClock(now func() time.Time) Option {
	return func(s *settings) { s.now = now }
}

// WithIDGenerator replaces the UUID generator for new records and messages.
func WithIDGenerator(fn func() string) Option {
	return func(s *settings) { s.newID = fn }
}

// New creates the stores of all entity types over backend.
func New(backend types.Backend, opts ...Option) (*Registry, error) {
	cfg := settings{
		logger: slog.New(slog.DiscardHandler),
		cycle:  types.DefaultStatusCycle,
		now:    time.Now,
		newID:  entity.NewID,
	}
	for _, opt := range opts {
		opt(&cfg)
	}

	products, err := loadSeed(cfg, types.TableProducts, DefaultProducts())
	if err != nil {
		return nil, err
	}
	orders, err := loadSeed[types.Order](cfg, types.TableOrders, nil)
	if err != nil {
		return nil, err
	}
	users, err := loadSeed(cfg, types.TableUsers, DefaultUsers())
	if err != nil {
		return nil, err
	}
	chats, err := loadSeed(cfg, types.TableChats, DefaultChats())
	if err != nil {
		return nil, err
	}

	storeOpts := []entity.Option{
		entity.WithLogger(cfg.logger),
		entity.WithIDGenerator(cfg.newID),
	}
	r := &Registry{
		cycle:  cfg.cycle,
		logger: cfg.logger,
		now:    cfg.now,
		newID:  cfg.newID,
	}
	if r.Products, err = entity.New(backend, entity.Config[types.Product]{
		TypeName:     types.EntityProduct,
		IndexName:    types.TableProducts,
		InitialState: initialProduct,
		SeedData:     products,
	}, storeOpts...); err != nil {
		return nil, err
	}
	if r.Orders, err = entity.New(backend, entity.Config[types.Order]{
		TypeName:     types.EntityOrder,
		IndexName:    types.TableOrders,
		InitialState: initialOrder,
		SeedData:     orders,
	}, storeOpts...); err != nil {
		return nil, err
	}
	if r.Users, err = entity.New(backend, entity.Config[types.User]{
		TypeName:  types.EntityUser,
		IndexName: types.TableUsers,
		SeedData:  users,
	}, storeOpts...); err != nil {
		return nil, err
	}
	if r.Chats, err = entity.New(backend, entity.Config[types.ChatBoard]{
		TypeName:     types.EntityChat,
		IndexName:    types.TableChats,
		InitialState: initialChat,
		SeedData:     chats,
	}, storeOpts...); err != nil {
		return nil, err
	}

	r.tables = map[string]types.Table{
		types.TableProducts: table[types.Product]{r.Products},
		types.TableOrders:   table[types.Order]{r.Orders},
		types.TableUsers:    table[types.User]{r.Users},
		types.TableChats:    table[types.ChatBoard]{r.Chats},
	}
	return r, nil
}

// StatusCycle returns the cycle used by AdvanceOrder.
func (r *Registry) StatusCycle() types.StatusCycle { return r.cycle }

// Table returns the table registered under name.
// Returns ErrTableNotFound for an unknown name.
func (r *Registry) Table(name string) (types.Table, error) {
	t, ok := r.tables[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", types.ErrTableNotFound, name)
	}
	return t, nil
}

// EnsureSeed seeds the named tables, or every table when none are named.
func (r *Registry) EnsureSeed(ctx context.Context, names ...string) error {
	if len(names) == 0 {
		names = types.StandardTableNames
	}
	for _, name := range names {
		t, err := r.Table(name)
		if err != nil {
			return err
		}
		if err := t.EnsureSeed(ctx); err != nil {
			return fmt.Errorf("seeding %s: %w", name, err)
		}
	}
	return nil
}

// Check compares the named table's index with its stored records.
func (r *Registry) Check(ctx context.Context, name string, repair bool) (entity.Report, error) {
	t, err := r.Table(name)
	if err != nil {
		return entity.Report{}, err
	}
	c := t.(checker)
	if repair {
		return c.Repair(ctx)
	}
	return c.Check(ctx)
}

// Import creates every record in the named table, seeding it first so
// imported records follow the seed data in the index. It returns the
// number of records written before any failure.
func (r *Registry) Import(ctx context.Context, name string, records []json.RawMessage) (int, error) {
	t, err := r.Table(name)
	if err != nil {
		return 0, err
	}
	if err := t.EnsureSeed(ctx); err != nil {
		return 0, err
	}
	return t.(importer).Import(ctx, records)
}

// loadSeed returns the records of <seedDir>/<table>.jsonl when that file
// exists and def otherwise.
func loadSeed[T any](cfg settings, table string, def []T) ([]T, error) {
	if cfg.seedDir == "" {
		return def, nil
	}
	path := filepath.Join(cfg.seedDir, table+".jsonl")
	records, skipped, err := jsonl.Read(path)
	if errors.Is(err, fs.ErrNotExist) {
		return def, nil
	}
	if err != nil {
		return nil, fmt.Errorf("seed override %s: %w", table, err)
	}
	if skipped > 0 {
		cfg.logger.Warn("skipped malformed seed lines", "table", table, "path", path, "skipped", skipped)
	}
	out, err := jsonl.Decode[T](records)
	if err != nil {
		return nil, fmt.Errorf("seed override %s: %w", path, err)
	}
	cfg.logger.Info("using seed override", "table", table, "path", path, "records", len(out))
	return out, nil
}
