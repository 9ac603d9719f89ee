package kv

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mesh-intelligence/storefront/pkg/types"
)

func TestOpen(t *testing.T) {
	tests := []struct {
		name     string
		backend  string
		wantFile string
	}{
		{name: "memory", backend: types.BackendMemory},
		{name: "sqlite creates database file", backend: types.BackendSQLite, wantFile: SQLiteFileName},
		{name: "bolt creates database file", backend: types.BackendBolt, wantFile: BoltFileName},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dataDir := filepath.Join(t.TempDir(), "nested", "data")
			b, err := Open(types.Config{Backend: tt.backend, DataDir: dataDir})
			require.NoError(t, err)
			t.Cleanup(func() { b.Close() })

			ctx := context.Background()
			require.NoError(t, b.Put(ctx, "k", []byte("v")))
			got, err := b.Get(ctx, "k")
			require.NoError(t, err)
			assert.Equal(t, "v", string(got))

			if tt.wantFile != "" {
				_, err := os.Stat(filepath.Join(dataDir, tt.wantFile))
				assert.NoError(t, err)
			}
		})
	}
}

func TestOpenRejectsInvalidConfig(t *testing.T) {
	_, err := Open(types.Config{})
	assert.ErrorIs(t, err, types.ErrBackendEmpty)

	_, err = Open(types.Config{Backend: "redis"})
	assert.ErrorIs(t, err, types.ErrBackendUnknown)

	_, err = Open(types.Config{Backend: types.BackendPostgres})
	assert.ErrorIs(t, err, types.ErrDSNEmpty)
}
