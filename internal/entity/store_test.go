package entity

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mesh-intelligence/storefront/internal/kv"
	"github.com/mesh-intelligence/storefront/pkg/types"
)

func TestNewValidation(t *testing.T) {
	b := kv.NewMemoryStore()
	tests := []struct {
		name    string
		backend types.Backend
		cfg     Config[note]
	}{
		{"nil backend", nil, Config[note]{TypeName: "note", IndexName: "notes"}},
		{"blank type name", b, Config[note]{TypeName: " ", IndexName: "notes"}},
		{"blank index name", b, Config[note]{TypeName: "note"}},
		{"initial state with id", b, Config[note]{TypeName: "note", IndexName: "notes", InitialState: note{ID: "x"}}},
		{"seed without id", b, Config[note]{TypeName: "note", IndexName: "notes", SeedData: []note{{Title: "t"}}}},
		{"duplicate seed id", b, Config[note]{TypeName: "note", IndexName: "notes", SeedData: []note{{ID: "a"}, {ID: "a"}}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New(tt.backend, tt.cfg)
			assert.Error(t, err)
		})
	}
}

func TestCreateGetDelete(t *testing.T) {
	ctx := context.Background()
	s := newNoteStore(t, kv.NewMemoryStore(), nil)

	created, err := s.Create(ctx, note{Title: "hello"})
	require.NoError(t, err)
	require.NotEmpty(t, created.ID, "id is generated")

	got, err := s.Get(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, created, got)

	existed, err := s.Delete(ctx, created.ID)
	require.NoError(t, err)
	assert.True(t, existed)

	_, err = s.Get(ctx, created.ID)
	assert.ErrorIs(t, err, types.ErrNotFound)

	existed, err = s.Delete(ctx, created.ID)
	require.NoError(t, err)
	assert.False(t, existed)

	ids, err := s.Index().IDs(ctx)
	require.NoError(t, err)
	assert.Empty(t, ids)
}

func TestCreateKeepsGivenID(t *testing.T) {
	ctx := context.Background()
	s := newNoteStore(t, kv.NewMemoryStore(), nil, WithIDGenerator(func() string { return "generated" }))

	v, err := s.Create(ctx, note{ID: "mine", Title: "a"})
	require.NoError(t, err)
	assert.Equal(t, "mine", v.ID)

	v, err = s.Create(ctx, note{Title: "b"})
	require.NoError(t, err)
	assert.Equal(t, "generated", v.ID)
}

func TestCreateExistingIDOverwrites(t *testing.T) {
	ctx := context.Background()
	s := newNoteStore(t, kv.NewMemoryStore(), nil)

	_, err := s.Create(ctx, note{ID: "a", Title: "one"})
	require.NoError(t, err)
	_, err = s.Create(ctx, note{ID: "a", Title: "two"})
	require.NoError(t, err)

	got, err := s.Get(ctx, "a")
	require.NoError(t, err)
	assert.Equal(t, "two", got.Title)

	ids, err := s.Index().IDs(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"a"}, ids, "index never duplicates")
}

func TestInsertConflict(t *testing.T) {
	ctx := context.Background()
	s := newNoteStore(t, kv.NewMemoryStore(), nil)

	_, err := s.Insert(ctx, note{ID: "a", Title: "one"})
	require.NoError(t, err)
	_, err = s.Insert(ctx, note{ID: "a", Title: "two"})
	assert.ErrorIs(t, err, types.ErrConflict)

	got, err := s.Get(ctx, "a")
	require.NoError(t, err)
	assert.Equal(t, "one", got.Title)
}

func TestGetInvalidID(t *testing.T) {
	s := newNoteStore(t, kv.NewMemoryStore(), nil)
	_, err := s.Get(context.Background(), "")
	assert.ErrorIs(t, err, types.ErrInvalidID)
	_, err = s.Delete(context.Background(), "")
	assert.ErrorIs(t, err, types.ErrInvalidID)
}

func TestListSkipsDanglingIndexEntry(t *testing.T) {
	ctx := context.Background()
	b := kv.NewMemoryStore()
	s := newNoteStore(t, b, nil)

	for _, id := range []string{"a", "b", "c"} {
		_, err := s.Create(ctx, note{ID: id})
		require.NoError(t, err)
	}
	require.NoError(t, b.Delete(ctx, "entity/note/b"))

	page, err := s.List(ctx, "", 10)
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "c"}, noteIDs(page.Items))
	assert.Empty(t, page.Next)

	rep, err := s.Check(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"b"}, rep.Dangling)
	assert.Empty(t, rep.Orphans)
}

func TestListPagesMatchUnboundedList(t *testing.T) {
	ctx := context.Background()
	s := newNoteStore(t, kv.NewMemoryStore(), nil)
	for i := range 7 {
		_, err := s.Create(ctx, note{ID: fmt.Sprintf("id-%d", i)})
		require.NoError(t, err)
	}

	all, err := s.List(ctx, "", 1000)
	require.NoError(t, err)
	require.Len(t, all.Items, 7)

	var paged []note
	cursor := ""
	for {
		page, err := s.List(ctx, cursor, 1)
		require.NoError(t, err)
		paged = append(paged, page.Items...)
		if page.Next == "" {
			break
		}
		cursor = page.Next
	}
	assert.Equal(t, all.Items, paged)
}

func TestListMatchesStoredIDs(t *testing.T) {
	ctx := context.Background()
	s := newNoteStore(t, kv.NewMemoryStore(), seedNotes)
	require.NoError(t, s.EnsureSeed(ctx))

	_, err := s.Create(ctx, note{ID: "x"})
	require.NoError(t, err)
	_, err = s.Delete(ctx, "n2")
	require.NoError(t, err)

	page, err := s.List(ctx, "", 1000)
	require.NoError(t, err)
	listed := noteIDs(page.Items)
	slices.Sort(listed)

	stored, err := s.StoredIDs(ctx)
	require.NoError(t, err)
	assert.Equal(t, stored, listed)
	assert.Equal(t, []string{"n1", "n3", "x"}, stored)
}

func TestPatchMergesFields(t *testing.T) {
	ctx := context.Background()
	s := newNoteStore(t, kv.NewMemoryStore(), nil)
	_, err := s.Create(ctx, note{ID: "a", Title: "old", Tags: []string{"t"}, Count: 3})
	require.NoError(t, err)

	got, err := s.Ref("a").Patch(ctx, map[string]any{"title": "new", "id": "hijack"})
	require.NoError(t, err)
	assert.Equal(t, note{ID: "a", Title: "new", Tags: []string{"t"}, Count: 3}, got)

	stored, err := s.Get(ctx, "a")
	require.NoError(t, err)
	assert.Equal(t, got, stored)

	_, err = s.Ref("a").Patch(ctx, map[string]any{"count": "many"})
	assert.ErrorIs(t, err, types.ErrInvalidInput)

	_, err = s.Ref("missing").Patch(ctx, map[string]any{"title": "x"})
	assert.ErrorIs(t, err, types.ErrNotFound)
}

func TestPatchCheckRejectsMergedRecord(t *testing.T) {
	ctx := context.Background()
	s := newNoteStore(t, kv.NewMemoryStore(), nil)
	_, err := s.Create(ctx, note{ID: "a", Title: "keep"})
	require.NoError(t, err)

	titled := func(n note) error {
		if n.Title == "" {
			return types.ErrInvalidInput
		}
		return nil
	}
	_, err = s.Ref("a").Patch(ctx, map[string]any{"title": ""}, titled)
	assert.ErrorIs(t, err, types.ErrInvalidInput)

	stored, err := s.Get(ctx, "a")
	require.NoError(t, err)
	assert.Equal(t, "keep", stored.Title)

	got, err := s.Ref("a").Patch(ctx, map[string]any{"title": "new"}, titled)
	require.NoError(t, err)
	assert.Equal(t, "new", got.Title)
}

func TestMutateErrorAborts(t *testing.T) {
	ctx := context.Background()
	s := newNoteStore(t, kv.NewMemoryStore(), nil)
	_, err := s.Create(ctx, note{ID: "a", Count: 1})
	require.NoError(t, err)

	boom := errors.New("boom")
	_, err = s.Ref("a").Mutate(ctx, func(n note) (note, error) {
		n.Count = 99
		return n, boom
	})
	assert.ErrorIs(t, err, boom)

	got, err := s.Get(ctx, "a")
	require.NoError(t, err)
	assert.Equal(t, 1, got.Count)

	exists, err := s.Ref("a").Exists(ctx)
	require.NoError(t, err)
	assert.True(t, exists)
	exists, err = s.Ref("").Exists(ctx)
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestConcurrentMutateLosesNoUpdates(t *testing.T) {
	ctx := context.Background()
	s := newNoteStore(t, kv.NewMemoryStore(), nil)
	_, err := s.Create(ctx, note{ID: "c1"})
	require.NoError(t, err)

	const writers = 50
	var wg sync.WaitGroup
	for i := range writers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := s.Ref("c1").Mutate(ctx, func(n note) (note, error) {
				n.Count++
				n.Tags = append(slices.Clone(n.Tags), fmt.Sprintf("m%d", i))
				return n, nil
			})
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	got, err := s.Get(ctx, "c1")
	require.NoError(t, err)
	assert.Equal(t, writers, got.Count)
	assert.Len(t, got.Tags, writers)
}

func TestConcurrentCreateAndDelete(t *testing.T) {
	ctx := context.Background()
	s := newNoteStore(t, kv.NewMemoryStore(), nil)

	var wg sync.WaitGroup
	for i := range 40 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			id := fmt.Sprintf("n%02d", i)
			_, err := s.Create(ctx, note{ID: id})
			assert.NoError(t, err)
			if i%2 == 0 {
				_, err = s.Delete(ctx, id)
				assert.NoError(t, err)
			}
		}()
	}
	wg.Wait()

	rep, err := s.Check(ctx)
	require.NoError(t, err)
	assert.True(t, rep.Consistent(), "report: %+v", rep)

	ids, err := s.Index().IDs(ctx)
	require.NoError(t, err)
	assert.Len(t, ids, 20)
}

func TestBackendFailureIsUnavailable(t *testing.T) {
	ctx := context.Background()
	b := newFlakyBackend()
	s := newNoteStore(t, b, nil)

	b.failPuts(RecordPrefix)
	_, err := s.Create(ctx, note{ID: "a"})
	assert.ErrorIs(t, err, types.ErrBackendUnavailable)
	assert.ErrorIs(t, err, errInjected)

	ids, err := s.Index().IDs(ctx)
	require.NoError(t, err)
	assert.Empty(t, ids, "index is not written when the record write fails")
}

func TestRepair(t *testing.T) {
	ctx := context.Background()
	b := kv.NewMemoryStore()
	s := newNoteStore(t, b, nil)

	_, err := s.Create(ctx, note{ID: "a"})
	require.NoError(t, err)
	require.NoError(t, b.Put(ctx, "entity/note/orphan", []byte(`{"id":"orphan"}`)))
	require.NoError(t, s.Index().Add(ctx, "ghost"))

	rep, err := s.Repair(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"ghost"}, rep.Dangling)
	assert.Equal(t, []string{"orphan"}, rep.Orphans)

	rep, err = s.Check(ctx)
	require.NoError(t, err)
	assert.True(t, rep.Consistent())
	ids, err := s.Index().IDs(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "orphan"}, ids)
}
