// Package bolt implements the key-value Backend on a BoltDB file.
package bolt

import (
	"bytes"
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"go.etcd.io/bbolt"

	"github.com/mesh-intelligence/storefront/pkg/types"
)

const kvBucket = "kv"

// Store provides a BoltDB-backed key-value store.
type Store struct {
	mu     sync.RWMutex
	closed bool
	db     *bbolt.DB
}

// Open opens a BoltDB-backed store at the provided path.
func Open(path string) (*Store, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("storage path is required")
	}

	cleanPath := filepath.Clean(path)
	db, err := bbolt.Open(cleanPath, 0o600, &bbolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, fmt.Errorf("open storage db: %w", err)
	}

	store := &Store{db: db}
	if err := store.ensureBuckets(); err != nil {
		_ = db.Close()
		return nil, err
	}

	return store, nil
}

// Close closes the underlying BoltDB database. Idempotent.
func (s *Store) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil
	}
	s.closed = true
	return s.db.Close()
}

// Get fetches the value stored under key.
func (s *Store) Get(ctx context.Context, key string) ([]byte, error) {
	if err := s.ready(ctx); err != nil {
		return nil, err
	}
	defer s.mu.RUnlock()

	var value []byte
	err := s.db.View(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket([]byte(kvBucket))
		if bucket == nil {
			return fmt.Errorf("kv bucket is missing")
		}
		payload := bucket.Get([]byte(key))
		if payload == nil {
			return types.ErrKeyNotFound
		}
		// Bolt memory is only valid inside the transaction.
		value = bytes.Clone(payload)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return value, nil
}

// Put stores value under key.
func (s *Store) Put(ctx context.Context, key string, value []byte) error {
	if err := s.ready(ctx); err != nil {
		return err
	}
	defer s.mu.RUnlock()

	if value == nil {
		value = []byte{}
	}
	return s.db.Update(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket([]byte(kvBucket))
		if bucket == nil {
			return fmt.Errorf("kv bucket is missing")
		}
		return bucket.Put([]byte(key), value)
	})
}

// Delete removes key. Missing keys are ignored.
func (s *Store) Delete(ctx context.Context, key string) error {
	if err := s.ready(ctx); err != nil {
		return err
	}
	defer s.mu.RUnlock()

	return s.db.Update(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket([]byte(kvBucket))
		if bucket == nil {
			return fmt.Errorf("kv bucket is missing")
		}
		return bucket.Delete([]byte(key))
	})
}

// ListKeys returns keys starting with prefix. Bolt iterates in byte order.
func (s *Store) ListKeys(ctx context.Context, prefix string) ([]string, error) {
	if err := s.ready(ctx); err != nil {
		return nil, err
	}
	defer s.mu.RUnlock()

	keys := make([]string, 0)
	err := s.db.View(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket([]byte(kvBucket))
		if bucket == nil {
			return fmt.Errorf("kv bucket is missing")
		}
		p := []byte(prefix)
		c := bucket.Cursor()
		for k, _ := c.Seek(p); k != nil && bytes.HasPrefix(k, p); k, _ = c.Next() {
			keys = append(keys, string(k))
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return keys, nil
}

// ready checks ctx and the closed flag. On success the read lock is held
// and the caller must release it.
func (s *Store) ready(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.RLock()
	if s.closed {
		s.mu.RUnlock()
		return types.ErrBackendClosed
	}
	return nil
}

func (s *Store) ensureBuckets() error {
	return s.db.Update(func(tx *bbolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists([]byte(kvBucket))
		if err != nil {
			return fmt.Errorf("create kv bucket: %w", err)
		}
		return nil
	})
}
