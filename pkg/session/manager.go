package session

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/aretw0/waypoint/pkg/ports"
	"github.com/google/uuid"
)

// lockEntry holds the mutex and the reference count.
type lockEntry struct {
	mu   sync.Mutex
	refs int
}

// Manager keys one Store per workflow identifier, turning the single slot into a
// mapping from identifier to snapshot.
// It uses Reference Counting to garbage collect unused locks.
type Manager struct {
	sub  ports.Substrate
	opts []Option
	config

	mu    sync.Mutex            // Global lock for the map
	locks map[string]*lockEntry // Map of active locks
}

// NewManager creates a new Manager over the given substrate.
// Options are forwarded to every Store it hands out.
func NewManager(sub ports.Substrate, opts ...Option) *Manager {
	return &Manager{
		sub:    sub,
		opts:   opts,
		config: newConfig(opts),
		locks:  make(map[string]*lockEntry),
	}
}

// NewID returns a fresh workflow identifier.
func (m *Manager) NewID() string {
	return uuid.NewString()
}

// For returns the Store owning the slot of workflow id.
func (m *Manager) For(id string) *Store {
	opts := append(append([]Option(nil), m.opts...), WithKey(m.prefix+id))
	return NewStore(m.sub, opts...)
}

// Default returns the Store owning the global slot.
func (m *Manager) Default() *Store {
	return NewStore(m.sub, m.opts...)
}

// acquire gets or creates a lock entry and increments its reference count.
// The caller MUST Lock the entry.mu, and then call release(id) after unlocking.
func (m *Manager) acquire(id string) *lockEntry {
	m.mu.Lock()
	defer m.mu.Unlock()

	entry, exists := m.locks[id]
	if !exists {
		entry = &lockEntry{}
		m.locks[id] = entry
	}
	entry.refs++
	return entry
}

// release decrements the reference count and deletes the entry if it reaches zero.
func (m *Manager) release(id string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	entry, exists := m.locks[id]
	if !exists {
		return
	}

	entry.refs--
	if entry.refs <= 0 {
		delete(m.locks, id)
	}
}

// WithLock runs fn with the Store of workflow id while holding that workflow's lock,
// so in-process read-modify-write sequences on one workflow are serialized.
func (m *Manager) WithLock(ctx context.Context, id string, fn func(context.Context, *Store) error) error {
	entry := m.acquire(id)
	entry.mu.Lock()
	defer func() {
		entry.mu.Unlock()
		m.release(id)
	}()

	if err := ctx.Err(); err != nil {
		return err
	}
	return fn(ctx, m.For(id))
}

// List returns the identifiers of every stored workflow, valid or not.
// The global slot is never listed.
func (m *Manager) List(ctx context.Context) ([]string, error) {
	lister, ok := m.sub.(ports.Lister)
	if !ok {
		return nil, ports.ErrListUnsupported
	}

	keys, err := lister.Keys(ctx, m.prefix)
	if err != nil {
		return nil, fmt.Errorf("failed to list sessions: %w", err)
	}

	ids := make([]string, 0, len(keys))
	for _, key := range keys {
		// With an empty prefix the global slot shares the namespace.
		if key == m.key {
			continue
		}
		if id := strings.TrimPrefix(key, m.prefix); id != "" {
			ids = append(ids, id)
		}
	}
	sort.Strings(ids)
	return ids, nil
}

// Sweep validates every stored workflow and evicts the stale ones.
// It returns the number of snapshots removed.
func (m *Manager) Sweep(ctx context.Context) (int, error) {
	ids, err := m.List(ctx)
	if err != nil {
		return 0, err
	}

	evicted := 0
	for _, id := range ids {
		if err := ctx.Err(); err != nil {
			return evicted, err
		}
		err := m.WithLock(ctx, id, func(ctx context.Context, s *Store) error {
			if s.load(ctx).Evict() {
				evicted++
			}
			return nil
		})
		if err != nil {
			return evicted, err
		}
	}

	m.logger.Info("Session sweep finished", "checked", len(ids), "evicted", evicted)
	return evicted, nil
}
