package entity

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sync/semaphore"

	"github.com/mesh-intelligence/storefront/internal/kv"
	"github.com/mesh-intelligence/storefront/pkg/types"
)

func newTestIndex(t *testing.T) (*Index, types.Backend) {
	t.Helper()
	b := kv.NewMemoryStore()
	return newIndex(b, IndexPrefix+"notes", semaphore.NewWeighted(1)), b
}

func TestIndexAddRemove(t *testing.T) {
	ctx := context.Background()
	x, _ := newTestIndex(t)

	ids, err := x.IDs(ctx)
	require.NoError(t, err)
	assert.Empty(t, ids, "missing index reads as empty")

	require.NoError(t, x.Add(ctx, "a", "b", "a", "c"))
	require.NoError(t, x.Add(ctx, "b"))
	ids, err = x.IDs(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b", "c"}, ids)

	require.NoError(t, x.Remove(ctx, "b"))
	require.NoError(t, x.Remove(ctx, "missing"))
	ids, err = x.IDs(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "c"}, ids)
	assert.Equal(t, "index/notes", x.Key())
}

func TestIndexListPaging(t *testing.T) {
	ctx := context.Background()
	x, _ := newTestIndex(t)
	require.NoError(t, x.Add(ctx, "a", "b", "c", "d", "e"))

	tests := []struct {
		name  string
		limit int
		want  [][]string
	}{
		{"limit 2", 2, [][]string{{"a", "b"}, {"c", "d"}, {"e"}}},
		{"limit 5 fits exactly", 5, [][]string{{"a", "b", "c", "d", "e"}}},
		{"limit above length", 50, [][]string{{"a", "b", "c", "d", "e"}}},
		{"limit zero clamps to one", 0, [][]string{{"a"}, {"b"}, {"c"}, {"d"}, {"e"}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got [][]string
			cursor := ""
			for {
				page, next, err := x.List(ctx, cursor, tt.limit)
				require.NoError(t, err)
				got = append(got, page)
				if next == "" {
					break
				}
				cursor = next
			}
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestIndexListCursorSurvivesRemoval(t *testing.T) {
	ctx := context.Background()
	x, _ := newTestIndex(t)
	require.NoError(t, x.Add(ctx, "a", "b", "c", "d", "e"))

	page, next, err := x.List(ctx, "", 2)
	require.NoError(t, err)
	require.Equal(t, []string{"a", "b"}, page)

	// Removing an id before the anchor must not skip "c".
	require.NoError(t, x.Remove(ctx, "a"))
	page, _, err = x.List(ctx, next, 2)
	require.NoError(t, err)
	assert.Equal(t, []string{"c", "d"}, page)

	// Removing the anchor itself resumes at the first unseen id.
	require.NoError(t, x.Add(ctx, "a"))
	page, next, err = x.List(ctx, "", 2)
	require.NoError(t, err)
	require.Equal(t, []string{"b", "c"}, page)
	require.NoError(t, x.Remove(ctx, "c"))
	page, _, err = x.List(ctx, next, 2)
	require.NoError(t, err)
	assert.Equal(t, []string{"d", "e"}, page)
}

func TestIndexListAnchorRemovedServesEveryID(t *testing.T) {
	ctx := context.Background()
	x, _ := newTestIndex(t)
	require.NoError(t, x.Add(ctx, "a", "b", "c", "d"))

	page, next, err := x.List(ctx, "", 2)
	require.NoError(t, err)
	require.Equal(t, []string{"a", "b"}, page)

	require.NoError(t, x.Remove(ctx, "b"))
	page, next, err = x.List(ctx, next, 2)
	require.NoError(t, err)
	assert.Equal(t, []string{"c", "d"}, page)
	assert.Empty(t, next)
}

func TestIndexListInvalidCursor(t *testing.T) {
	ctx := context.Background()
	x, _ := newTestIndex(t)
	require.NoError(t, x.Add(ctx, "a"))

	page, next, err := x.List(ctx, "%%%", 10)
	require.NoError(t, err)
	assert.Empty(t, page)
	assert.Empty(t, next)
}

func TestIndexBackendFailure(t *testing.T) {
	ctx := context.Background()
	b := kv.NewMemoryStore()
	x := newIndex(b, IndexPrefix+"notes", semaphore.NewWeighted(1))
	require.NoError(t, b.Close())

	_, err := x.IDs(ctx)
	assert.ErrorIs(t, err, types.ErrBackendUnavailable)
	assert.ErrorIs(t, err, types.ErrBackendClosed)
	assert.ErrorIs(t, x.Add(ctx, "a"), types.ErrBackendUnavailable)
}
