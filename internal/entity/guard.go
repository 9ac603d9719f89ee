package entity

import (
	"context"
	"sync"

	"golang.org/x/sync/semaphore"
)

// Guard hands out one exclusive lock per key. Entries are created on first
// use and dropped when the last holder or waiter lets go, so the map only
// holds keys that are in use.
type Guard struct {
	mu    sync.Mutex
	locks map[string]*guardEntry
}

type guardEntry struct {
	sem  *semaphore.Weighted
	refs int
}

// NewGuard creates an empty Guard.
func NewGuard() *Guard {
	return &Guard{locks: make(map[string]*guardEntry)}
}

// Lock blocks until the lock for key is held or ctx is done. The returned
// function releases the lock; calling it more than once is safe.
func (g *Guard) Lock(ctx context.Context, key string) (func(), error) {
	g.mu.Lock()
	e, ok := g.locks[key]
	if !ok {
		e = &guardEntry{sem: semaphore.NewWeighted(1)}
		g.locks[key] = e
	}
	e.refs++
	g.mu.Unlock()

	if err := e.sem.Acquire(ctx, 1); err != nil {
		g.drop(key, e)
		return nil, err
	}

	var once sync.Once
	return func() {
		once.Do(func() {
			e.sem.Release(1)
			g.drop(key, e)
		})
	}, nil
}

func (g *Guard) drop(key string, e *guardEntry) {
	g.mu.Lock()
	defer g.mu.Unlock()
	e.refs--
	if e.refs == 0 {
		delete(g.locks, key)
	}
}

// Len returns the number of keys currently locked or waited on.
func (g *Guard) Len() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return len(g.locks)
}
