// Package sqlite exposes the SQLite key-value backend for programs that
// embed storefront storage.
package sqlite

import (
	"github.com/mesh-intelligence/storefront/internal/kv"
	"github.com/mesh-intelligence/storefront/pkg/types"
)

// Open opens (creating if needed) the SQLite backend in dataDir.
//
// Example:
//
//	backend, err := sqlite.Open(".storefront-db")
//	if err != nil {
//	    return err
//	}
//	defer backend.Close()
func Open(dataDir string) (types.Backend, error) {
	return kv.Open(types.Config{Backend: types.BackendSQLite, DataDir: dataDir})
}
