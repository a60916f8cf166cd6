// Package querycache is a keyed read-through cache for query results. It is
// the only synchronization point between mutations and list views: mutations
// invalidate keys, subsequent reads re-fetch.
package querycache

import (
	"context"
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"
)

// FetchFunc loads the value for a key from its source.
type FetchFunc func(ctx context.Context) (any, error)

type entry struct {
	value     any
	valid     bool
	fetchedAt time.Time
}

// Store holds query results keyed by their deterministic serialization.
// Concurrent reads for one key share a single in-flight fetch; a failed
// fetch keeps the previous value available as stale data.
type Store struct {
	mu      sync.Mutex
	entries map[string]*entry
	group   singleflight.Group
}

func New() *Store {
	return &Store{
		entries: make(map[string]*entry),
	}
}

// Read returns the cached value for key, fetching it if the entry is missing
// or invalidated. When the fetch fails and a previous value exists, that
// value is returned alongside the error so views can show stale data with a
// retry affordance instead of going blank.
func (s *Store) Read(ctx context.Context, key string, fetch FetchFunc) (any, error) {
	s.mu.Lock()
	if e, ok := s.entries[key]; ok && e.valid {
		value := e.value
		s.mu.Unlock()
		return value, nil
	}
	s.mu.Unlock()

	value, err, _ := s.group.Do(key, func() (any, error) {
		// A concurrent flight may have repopulated the entry while this
		// caller was queued behind the singleflight lock.
		s.mu.Lock()
		if e, ok := s.entries[key]; ok && e.valid {
			value := e.value
			s.mu.Unlock()
			return value, nil
		}
		s.mu.Unlock()

		fetched, err := fetch(ctx)

		s.mu.Lock()
		defer s.mu.Unlock()
		if err != nil {
			if e, ok := s.entries[key]; ok {
				return e.value, err
			}
			return nil, err
		}
		s.entries[key] = &entry{
			value:     fetched,
			valid:     true,
			fetchedAt: time.Now(),
		}
		return fetched, nil
	})
	return value, err
}

// Invalidate marks the given keys stale. Values are retained for the
// stale-data fallback; the next Read re-fetches.
func (s *Store) Invalidate(keys ...string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, key := range keys {
		if e, ok := s.entries[key]; ok {
			e.valid = false
		}
	}
}

// InvalidateFamily marks every key with the given prefix stale.
func (s *Store) InvalidateFamily(prefix string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for key, e := range s.entries {
		if strings.HasPrefix(key, prefix) {
			e.valid = false
		}
	}
}

// Peek returns the cached value for key without triggering a fetch. The
// second result reports whether the entry is still valid.
func (s *Store) Peek(key string) (any, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if e, ok := s.entries[key]; ok {
		return e.value, e.valid
	}
	return nil, false
}
