package middleware_test

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/aretw0/waypoint/internal/logging"
	"github.com/aretw0/waypoint/pkg/adapters/memory"
	"github.com/aretw0/waypoint/pkg/domain"
	"github.com/aretw0/waypoint/pkg/persistence/middleware"
	"github.com/aretw0/waypoint/pkg/ports"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeRecorder struct {
	calls map[string][]error
}

func (r *fakeRecorder) ObserveSubstrate(op string, err error) {
	if r.calls == nil {
		r.calls = make(map[string][]error)
	}
	r.calls[op] = append(r.calls[op], err)
}

func TestChain_Contract(t *testing.T) {
	sub := middleware.Chain(memory.NewStore(),
		middleware.NewLoggingMiddleware(logging.NewNop()),
		middleware.NewMetricsMiddleware(&fakeRecorder{}),
		middleware.NewCacheMiddleware(time.Minute),
	)
	ports.RunSubstrateContract(t, sub)
}

func TestChain_Order(t *testing.T) {
	var order []string
	tag := func(name string) middleware.Middleware {
		return func(next ports.Substrate) ports.Substrate {
			order = append(order, name)
			return next
		}
	}
	middleware.Chain(memory.NewStore(), tag("outer"), tag("inner"))
	assert.Equal(t, []string{"inner", "outer"}, order, "innermost wraps first")
}

func TestCacheMiddleware(t *testing.T) {
	ctx := context.Background()
	base := NewCountingStore()
	sub := middleware.NewCacheMiddleware(time.Minute)(base)

	require.NoError(t, sub.Set(ctx, "k", "v1"))
	for i := 0; i < 3; i++ {
		got, err := sub.Get(ctx, "k")
		require.NoError(t, err)
		assert.Equal(t, "v1", got)
	}
	assert.Equal(t, 0, base.gets, "write-through populates the cache")

	require.NoError(t, sub.Remove(ctx, "k"))
	_, err := sub.Get(ctx, "k")
	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.Equal(t, 1, base.gets)

	_, _ = sub.Get(ctx, "k")
	assert.Equal(t, 2, base.gets, "misses are not cached")
}

func TestCacheMiddleware_FailedWriteInvalidates(t *testing.T) {
	ctx := context.Background()
	base := memory.NewStore()
	sub := middleware.NewCacheMiddleware(time.Minute)(base)

	require.NoError(t, sub.Set(ctx, "k", "v1"))
	base.SetDisabled(true)
	assert.Error(t, sub.Set(ctx, "k", "v2"))

	_, err := sub.Get(ctx, "k")
	assert.ErrorIs(t, err, domain.ErrStorageUnavailable, "no stale value served after a failed write")
}

func TestLoggingMiddleware(t *testing.T) {
	ctx := context.Background()
	var buf bytes.Buffer
	base := memory.NewStore()
	sub := middleware.NewLoggingMiddleware(logging.NewWithWriter(&buf, slog.LevelDebug))(base)

	require.NoError(t, sub.Set(ctx, "k", "v"))
	_, _ = sub.Get(ctx, "missing")
	base.SetDisabled(true)
	assert.False(t, sub.Available(ctx))
	_ = sub.Set(ctx, "k", "v")

	out := buf.String()
	assert.Contains(t, out, "op=set")
	assert.Contains(t, out, "found=false")
	assert.Contains(t, out, "Substrate unavailable")
	assert.Contains(t, out, "Substrate call failed")
}

func TestMetricsMiddleware(t *testing.T) {
	ctx := context.Background()
	rec := &fakeRecorder{}
	sub := middleware.NewMetricsMiddleware(rec)(memory.NewStore())

	require.NoError(t, sub.Set(ctx, "k", "v"))
	_, _ = sub.Get(ctx, "k")
	_, _ = sub.Get(ctx, "nope")
	_ = sub.Remove(ctx, "k")
	_, _ = sub.(ports.Lister).Keys(ctx, "")

	assert.Equal(t, []error{nil}, rec.calls["set"])
	require.Len(t, rec.calls["get"], 2)
	assert.True(t, errors.Is(rec.calls["get"][1], domain.ErrNotFound))
	assert.Len(t, rec.calls["remove"], 1)
	assert.Len(t, rec.calls["keys"], 1)
}

type opaque struct{ ports.Substrate }

func TestMiddleware_ListUnsupported(t *testing.T) {
	sub := middleware.NewCacheMiddleware(time.Minute)(opaque{memory.NewStore()})
	_, err := sub.(ports.Lister).Keys(context.Background(), "")
	assert.ErrorIs(t, err, ports.ErrListUnsupported)
}
