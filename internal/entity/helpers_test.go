package entity

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/mesh-intelligence/storefront/internal/kv"
	"github.com/mesh-intelligence/storefront/pkg/types"
)

type note struct {
	ID    string   `json:"id"`
	Title string   `json:"title"`
	Tags  []string `json:"tags,omitempty"`
	Count int      `json:"count"`
}

func (n note) RecordID() string { return n.ID }

func (n note) WithID(id string) note {
	n.ID = id
	return n
}

var seedNotes = []note{
	{ID: "n1", Title: "first"},
	{ID: "n2", Title: "second"},
	{ID: "n3", Title: "third"},
}

func newNoteStore(t *testing.T, backend types.Backend, seed []note, opts ...Option) *Store[note] {
	t.Helper()
	s, err := New(backend, Config[note]{
		TypeName:  "note",
		IndexName: "notes",
		SeedData:  seed,
	}, opts...)
	require.NoError(t, err)
	return s
}

func noteIDs(items []note) []string {
	ids := make([]string, len(items))
	for i, n := range items {
		ids[i] = n.ID
	}
	return ids
}

var errInjected = errors.New("injected failure")

// flakyBackend wraps a MemoryStore and fails writes to keys with a given
// prefix while failPut is set.
type flakyBackend struct {
	*kv.MemoryStore

	mu         sync.Mutex
	failPrefix string
	puts       []string
}

func newFlakyBackend() *flakyBackend {
	return &flakyBackend{MemoryStore: kv.NewMemoryStore()}
}

func (f *flakyBackend) failPuts(prefix string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.failPrefix = prefix
}

func (f *flakyBackend) Put(ctx context.Context, key string, value []byte) error {
	f.mu.Lock()
	prefix := f.failPrefix
	f.puts = append(f.puts, key)
	f.mu.Unlock()
	if prefix != "" && strings.HasPrefix(key, prefix) {
		return errInjected
	}
	return f.MemoryStore.Put(ctx, key, value)
}

func (f *flakyBackend) putLog() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.puts...)
}
