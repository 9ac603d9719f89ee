package kv

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/mesh-intelligence/storefront/internal/bolt"
	"github.com/mesh-intelligence/storefront/internal/postgres"
	"github.com/mesh-intelligence/storefront/internal/sqlite"
	"github.com/mesh-intelligence/storefront/pkg/types"
)

// File names used inside DataDir by the embedded backends.
const (
	SQLiteFileName = "storefront.db"
	BoltFileName   = "storefront.bolt"
)

// Open validates cfg and returns the selected Backend. Embedded backends
// create DataDir when it does not exist; an empty DataDir means the
// current directory.
func Open(cfg types.Config) (types.Backend, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	dataDir := cfg.DataDir
	if dataDir == "" {
		dataDir = "."
	}

	switch cfg.Backend {
	case types.BackendMemory:
		return NewMemoryStore(), nil
	case types.BackendSQLite:
		if err := os.MkdirAll(dataDir, 0o755); err != nil {
			return nil, fmt.Errorf("create data dir: %w", err)
		}
		return sqlite.Open(filepath.Join(dataDir, SQLiteFileName))
	case types.BackendBolt:
		if err := os.MkdirAll(dataDir, 0o755); err != nil {
			return nil, fmt.Errorf("create data dir: %w", err)
		}
		return bolt.Open(filepath.Join(dataDir, BoltFileName))
	case types.BackendPostgres:
		return postgres.Open(cfg.DSN)
	default:
		return nil, types.ErrBackendUnknown
	}
}
