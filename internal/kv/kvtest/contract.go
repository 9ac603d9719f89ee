// Package kvtest holds the behavioural contract every types.Backend must
// satisfy. Backend packages run it from their own tests.
package kvtest

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mesh-intelligence/storefront/pkg/types"
)

// Factory returns a fresh, empty backend. The contract closes it.
type Factory func(t *testing.T) types.Backend

// Run executes the backend contract against backends built by newBackend.
func Run(t *testing.T, newBackend Factory) {
	t.Helper()

	tests := []struct {
		name  string
		check func(t *testing.T, b types.Backend)
	}{
		{
			name: "get on missing key returns ErrKeyNotFound",
			check: func(t *testing.T, b types.Backend) {
				_, err := b.Get(context.Background(), "missing")
				assert.ErrorIs(t, err, types.ErrKeyNotFound)
			},
		},
		{
			name: "put then get round-trips the value",
			check: func(t *testing.T, b types.Backend) {
				ctx := context.Background()
				require.NoError(t, b.Put(ctx, "entity/product/1", []byte(`{"id":"1"}`)))

				got, err := b.Get(ctx, "entity/product/1")
				require.NoError(t, err)
				assert.Equal(t, `{"id":"1"}`, string(got))
			},
		},
		{
			name: "put overwrites the previous value",
			check: func(t *testing.T, b types.Backend) {
				ctx := context.Background()
				require.NoError(t, b.Put(ctx, "k", []byte("one")))
				require.NoError(t, b.Put(ctx, "k", []byte("two")))

				got, err := b.Get(ctx, "k")
				require.NoError(t, err)
				assert.Equal(t, "two", string(got))
			},
		},
		{
			name: "returned values are not aliased with stored values",
			check: func(t *testing.T, b types.Backend) {
				ctx := context.Background()
				value := []byte("abc")
				require.NoError(t, b.Put(ctx, "k", value))
				value[0] = 'z'

				got, err := b.Get(ctx, "k")
				require.NoError(t, err)
				assert.Equal(t, "abc", string(got))
				got[0] = 'y'

				again, err := b.Get(ctx, "k")
				require.NoError(t, err)
				assert.Equal(t, "abc", string(again))
			},
		},
		{
			name: "delete removes the key and is idempotent",
			check: func(t *testing.T, b types.Backend) {
				ctx := context.Background()
				require.NoError(t, b.Put(ctx, "k", []byte("v")))
				require.NoError(t, b.Delete(ctx, "k"))
				require.NoError(t, b.Delete(ctx, "k"))

				_, err := b.Get(ctx, "k")
				assert.ErrorIs(t, err, types.ErrKeyNotFound)
			},
		},
		{
			name: "list keys filters by prefix in ascending order",
			check: func(t *testing.T, b types.Backend) {
				ctx := context.Background()
				for _, k := range []string{"entity/product/b", "entity/order/1", "entity/product/a", "index/products"} {
					require.NoError(t, b.Put(ctx, k, []byte("x")))
				}

				keys, err := b.ListKeys(ctx, "entity/product/")
				require.NoError(t, err)
				assert.Equal(t, []string{"entity/product/a", "entity/product/b"}, keys)

				none, err := b.ListKeys(ctx, "seed/")
				require.NoError(t, err)
				assert.Empty(t, none)
			},
		},
		{
			name: "cancelled context is rejected",
			check: func(t *testing.T, b types.Backend) {
				ctx, cancel := context.WithCancel(context.Background())
				cancel()
				assert.Error(t, b.Put(ctx, "k", []byte("v")))
				_, err := b.Get(ctx, "k")
				assert.Error(t, err)
			},
		},
		{
			name: "concurrent puts to distinct keys all land",
			check: func(t *testing.T, b types.Backend) {
				ctx := context.Background()
				var wg sync.WaitGroup
				for i := range 20 {
					wg.Add(1)
					go func(i int) {
						defer wg.Done()
						assert.NoError(t, b.Put(ctx, fmt.Sprintf("c/%02d", i), []byte("v")))
					}(i)
				}
				wg.Wait()

				keys, err := b.ListKeys(ctx, "c/")
				require.NoError(t, err)
				assert.Len(t, keys, 20)
			},
		},
		{
			name: "close is idempotent",
			check: func(t *testing.T, b types.Backend) {
				require.NoError(t, b.Close())
				require.NoError(t, b.Close())
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := newBackend(t)
			t.Cleanup(func() { b.Close() })
			tt.check(t, b)
		})
	}
}
