// Package collection provides the full-replace cache used for the
// remotely owned group and task collections.
package collection

import (
	"context"
	"sync"
)

// Fetcher retrieves one complete snapshot of the remote collection.
type Fetcher[T any] func(ctx context.Context) ([]T, error)

// Store caches the last successfully synced snapshot of a remote
// collection. Sync always replaces the whole cache, never merges; a
// failed fetch leaves the previous cache intact.
//
// Each Sync is assigned a monotonically increasing generation before
// its fetch starts, and a completed fetch is installed only if nothing
// newer has been installed already. A slow stale fetch therefore never
// overwrites a fresher one.
type Store[T any] struct {
	fetch Fetcher[T]

	mu        sync.Mutex
	items     []T
	loaded    bool
	nextGen   uint64
	installed uint64
}

// NewStore creates an empty store backed by fetch.
func NewStore[T any](fetch Fetcher[T]) *Store[T] {
	return &Store[T]{fetch: fetch}
}

// Sync fetches the complete remote collection and replaces the cache.
// Safe to call concurrently with itself; the cache always reflects one
// complete fetch, never an interleaving of two.
func (s *Store[T]) Sync(ctx context.Context) error {
	s.mu.Lock()
	s.nextGen++
	gen := s.nextGen
	s.mu.Unlock()

	items, err := s.fetch(ctx)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if gen < s.installed {
		// A newer sync already landed; discard this snapshot.
		return nil
	}
	s.items = items
	s.loaded = true
	s.installed = gen
	return nil
}

// Items returns a copy of the cached collection.
func (s *Store[T]) Items() []T {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]T, len(s.items))
	copy(out, s.items)
	return out
}

// Loaded reports whether at least one sync has completed.
func (s *Store[T]) Loaded() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loaded
}
