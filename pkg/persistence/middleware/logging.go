package middleware

import (
	"context"
	"errors"
	"log/slog"

	"github.com/aretw0/waypoint/pkg/domain"
	"github.com/aretw0/waypoint/pkg/ports"
)

type loggingMiddleware struct {
	next   ports.Substrate
	logger *slog.Logger
}

// NewLoggingMiddleware logs every substrate call at debug level and failures at warn.
func NewLoggingMiddleware(logger *slog.Logger) Middleware {
	return func(next ports.Substrate) ports.Substrate {
		return &loggingMiddleware{next: next, logger: logger}
	}
}

func (m *loggingMiddleware) log(ctx context.Context, op, key string, err error) {
	if err != nil && !errors.Is(err, domain.ErrNotFound) {
		m.logger.WarnContext(ctx, "Substrate call failed", "op", op, "key", key, "err", err)
		return
	}
	m.logger.DebugContext(ctx, "Substrate call", "op", op, "key", key, "found", err == nil)
}

func (m *loggingMiddleware) Get(ctx context.Context, key string) (string, error) {
	value, err := m.next.Get(ctx, key)
	m.log(ctx, "get", key, err)
	return value, err
}

func (m *loggingMiddleware) Set(ctx context.Context, key, value string) error {
	err := m.next.Set(ctx, key, value)
	m.log(ctx, "set", key, err)
	return err
}

func (m *loggingMiddleware) Remove(ctx context.Context, key string) error {
	err := m.next.Remove(ctx, key)
	m.log(ctx, "remove", key, err)
	return err
}

func (m *loggingMiddleware) Available(ctx context.Context) bool {
	ok := m.next.Available(ctx)
	if !ok {
		m.logger.WarnContext(ctx, "Substrate unavailable")
	}
	return ok
}

func (m *loggingMiddleware) Keys(ctx context.Context, prefix string) ([]string, error) {
	return listKeys(ctx, m.next, prefix)
}
