package postgres

import (
	"context"
	"os"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/mesh-intelligence/storefront/internal/kv/kvtest"
	"github.com/mesh-intelligence/storefront/pkg/types"
)

// envTestDSN names the variable holding a disposable database for tests.
const envTestDSN = "STOREFRONT_TEST_POSTGRES_DSN"

func TestBackendContract(t *testing.T) {
	dsn := os.Getenv(envTestDSN)
	if dsn == "" {
		t.Skipf("%s not set", envTestDSN)
	}

	kvtest.Run(t, func(t *testing.T) types.Backend {
		b, err := Open(dsn)
		require.NoError(t, err)
		_, err = b.db.ExecContext(context.Background(), "TRUNCATE kv")
		require.NoError(t, err)
		return b
	})
}

func TestOpenFailsOnUnreachableServer(t *testing.T) {
	_, err := Open("postgres://storefront@127.0.0.1:1/storefront?sslmode=disable&connect_timeout=1")
	require.Error(t, err)
}
