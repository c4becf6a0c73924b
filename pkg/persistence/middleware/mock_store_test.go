package middleware_test

import (
	"context"

	"github.com/aretw0/waypoint/pkg/adapters/memory"
	"github.com/aretw0/waypoint/pkg/ports"
)

// CountingStore wraps the memory substrate and counts calls that reach it.
type CountingStore struct {
	*memory.Store
	gets, sets, removes int
}

func NewCountingStore() *CountingStore {
	return &CountingStore{Store: memory.NewStore()}
}

func (s *CountingStore) Get(ctx context.Context, key string) (string, error) {
	s.gets++
	return s.Store.Get(ctx, key)
}

func (s *CountingStore) Set(ctx context.Context, key, value string) error {
	s.sets++
	return s.Store.Set(ctx, key, value)
}

func (s *CountingStore) Remove(ctx context.Context, key string) error {
	s.removes++
	return s.Store.Remove(ctx, key)
}

var _ ports.Substrate = (*CountingStore)(nil)
