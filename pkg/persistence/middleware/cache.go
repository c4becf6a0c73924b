package middleware

import (
	"context"
	"time"

	"github.com/aretw0/waypoint/pkg/ports"
	gocache "github.com/patrickmn/go-cache"
)

type cacheMiddleware struct {
	next  ports.Substrate
	cache *gocache.Cache
}

// NewCacheMiddleware keeps successful reads in process memory for ttl, so repeated
// Exists/Load probes do not hit a remote substrate. Writes and removals through the
// middleware invalidate the entry; writes from other processes are seen after ttl.
func NewCacheMiddleware(ttl time.Duration) Middleware {
	return func(next ports.Substrate) ports.Substrate {
		return &cacheMiddleware{
			next:  next,
			cache: gocache.New(ttl, 2*ttl),
		}
	}
}

func (m *cacheMiddleware) Get(ctx context.Context, key string) (string, error) {
	if v, ok := m.cache.Get(key); ok {
		return v.(string), nil
	}
	value, err := m.next.Get(ctx, key)
	if err != nil {
		return "", err
	}
	m.cache.SetDefault(key, value)
	return value, nil
}

func (m *cacheMiddleware) Set(ctx context.Context, key, value string) error {
	if err := m.next.Set(ctx, key, value); err != nil {
		m.cache.Delete(key)
		return err
	}
	m.cache.SetDefault(key, value)
	return nil
}

func (m *cacheMiddleware) Remove(ctx context.Context, key string) error {
	m.cache.Delete(key)
	return m.next.Remove(ctx, key)
}

func (m *cacheMiddleware) Available(ctx context.Context) bool {
	return m.next.Available(ctx)
}

func (m *cacheMiddleware) Keys(ctx context.Context, prefix string) ([]string, error) {
	return listKeys(ctx, m.next, prefix)
}
