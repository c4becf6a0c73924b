package memory

import (
	"context"
	"strings"
	"sync"

	"github.com/aretw0/waypoint/pkg/domain"
)

// Store implements ports.Substrate in memory.
// Safe for concurrent use.
//
// It can be switched off or given a byte quota, which makes it the stand-in for
// storage that is disabled, restricted, or full.
type Store struct {
	data     map[string]string
	mu       sync.RWMutex
	disabled bool
	quota    int
}

// Option configures the Store.
type Option func(*Store)

// WithQuota limits the total size in bytes of stored keys and values.
// Zero means unlimited.
func WithQuota(bytes int) Option {
	return func(s *Store) {
		s.quota = bytes
	}
}

// NewStore creates a new in-memory store.
func NewStore(opts ...Option) *Store {
	s := &Store{
		data: make(map[string]string),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// SetDisabled turns the store off (every call fails) or back on.
func (s *Store) SetDisabled(disabled bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.disabled = disabled
}

// Get returns the value stored under key.
func (s *Store) Get(ctx context.Context, key string) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.disabled {
		return "", domain.ErrStorageUnavailable
	}
	value, ok := s.data[key]
	if !ok {
		return "", domain.ErrNotFound
	}
	return value, nil
}

// Set stores value under key, failing with domain.ErrQuotaExceeded when the quota would be exceeded.
func (s *Store) Set(ctx context.Context, key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.disabled {
		return domain.ErrStorageUnavailable
	}
	if s.quota > 0 {
		used := s.usage() - s.entrySize(key) + len(key) + len(value)
		if used > s.quota {
			return domain.ErrQuotaExceeded
		}
	}
	s.data[key] = value
	return nil
}

// Remove deletes key.
func (s *Store) Remove(ctx context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.disabled {
		return domain.ErrStorageUnavailable
	}
	delete(s.data, key)
	return nil
}

// Available reports whether the store is switched on.
func (s *Store) Available(ctx context.Context) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return !s.disabled
}

// Keys returns stored keys starting with prefix.
func (s *Store) Keys(ctx context.Context, prefix string) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.disabled {
		return nil, domain.ErrStorageUnavailable
	}
	keys := make([]string, 0, len(s.data))
	for k := range s.data {
		if strings.HasPrefix(k, prefix) {
			keys = append(keys, k)
		}
	}
	return keys, nil
}

// usage must be called with the lock held.
func (s *Store) usage() int {
	total := 0
	for k, v := range s.data {
		total += len(k) + len(v)
	}
	return total
}

func (s *Store) entrySize(key string) int {
	v, ok := s.data[key]
	if !ok {
		return 0
	}
	return len(key) + len(v)
}
