package entity

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mesh-intelligence/storefront/internal/kv"
	"github.com/mesh-intelligence/storefront/pkg/types"
)

func TestEnsureSeedWritesOnce(t *testing.T) {
	ctx := context.Background()
	b := kv.NewMemoryStore()
	s := newNoteStore(t, b, seedNotes)

	require.NoError(t, s.EnsureSeed(ctx))
	page, err := s.List(ctx, "", 100)
	require.NoError(t, err)
	assert.Equal(t, seedNotes, page.Items)

	// A deleted seed record stays deleted on later calls, including from a
	// fresh Store over the same backend.
	_, err = s.Delete(ctx, "n1")
	require.NoError(t, err)
	require.NoError(t, s.EnsureSeed(ctx))

	fresh := newNoteStore(t, b, seedNotes)
	require.NoError(t, fresh.EnsureSeed(ctx))
	page, err = fresh.List(ctx, "", 100)
	require.NoError(t, err)
	assert.Equal(t, []string{"n2", "n3"}, noteIDs(page.Items))

	seeded, err := fresh.Seeded(ctx)
	require.NoError(t, err)
	assert.True(t, seeded)
}

func TestEnsureSeedEmptySeedSetsFlag(t *testing.T) {
	ctx := context.Background()
	b := kv.NewMemoryStore()
	s := newNoteStore(t, b, nil)

	require.NoError(t, s.EnsureSeed(ctx))
	_, err := b.Get(ctx, "seed/note")
	require.NoError(t, err)

	ids, err := s.Index().IDs(ctx)
	require.NoError(t, err)
	assert.Empty(t, ids)
}

func TestEnsureSeedConcurrent(t *testing.T) {
	ctx := context.Background()
	b := newFlakyBackend()
	s := newNoteStore(t, b, seedNotes)

	var wg sync.WaitGroup
	for range 20 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			assert.NoError(t, s.EnsureSeed(ctx))
		}()
	}
	wg.Wait()

	flagWrites := 0
	for _, k := range b.putLog() {
		if k == "seed/note" {
			flagWrites++
		}
	}
	assert.Equal(t, 1, flagWrites)

	ids, err := s.Index().IDs(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"n1", "n2", "n3"}, ids)
}

func TestEnsureSeedWriteOrder(t *testing.T) {
	ctx := context.Background()
	b := newFlakyBackend()
	s := newNoteStore(t, b, seedNotes)
	require.NoError(t, s.EnsureSeed(ctx))

	assert.Equal(t, []string{
		"entity/note/n1",
		"entity/note/n2",
		"entity/note/n3",
		"index/notes",
		"seed/note",
	}, b.putLog())
}

func TestEnsureSeedFailureLeavesFlagUnset(t *testing.T) {
	ctx := context.Background()
	b := newFlakyBackend()
	s := newNoteStore(t, b, seedNotes)

	b.failPuts(IndexPrefix)
	err := s.EnsureSeed(ctx)
	require.ErrorIs(t, err, types.ErrBackendUnavailable)

	seeded, err := s.Seeded(ctx)
	require.NoError(t, err)
	assert.False(t, seeded)

	b.failPuts("")
	require.NoError(t, s.EnsureSeed(ctx))
	page, err := s.List(ctx, "", 100)
	require.NoError(t, err)
	assert.Equal(t, seedNotes, page.Items)
}

func TestEnsureSeedRetryKeepsChangedRecords(t *testing.T) {
	ctx := context.Background()
	b := newFlakyBackend()
	s := newNoteStore(t, b, seedNotes)

	b.failPuts(IndexPrefix)
	require.ErrorIs(t, s.EnsureSeed(ctx), types.ErrBackendUnavailable)
	b.failPuts("")

	_, err := s.Ref("n2").Patch(ctx, map[string]any{"title": "edited"})
	require.NoError(t, err)

	require.NoError(t, s.EnsureSeed(ctx))
	got, err := s.Get(ctx, "n2")
	require.NoError(t, err)
	assert.Equal(t, "edited", got.Title)

	ids, err := s.Index().IDs(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"n1", "n2", "n3"}, ids)
}
