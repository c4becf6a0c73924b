package config

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/aretw0/waypoint/pkg/adapters/file"
	"github.com/aretw0/waypoint/pkg/adapters/memory"
	"github.com/aretw0/waypoint/pkg/adapters/redis"
	"github.com/aretw0/waypoint/pkg/adapters/sqlite"
	"github.com/aretw0/waypoint/pkg/persistence/middleware"
	"github.com/aretw0/waypoint/pkg/ports"
)

// Open builds the configured substrate wrapped in the standard middleware chain:
// logging outermost, then metrics (when recorder is non-nil), then the read cache
// (when CacheTTL is positive).
// The returned close function releases the backend connection.
func Open(cfg Config, logger *slog.Logger, recorder middleware.Recorder) (ports.Substrate, func() error, error) {
	base, closeFn, err := openBackend(cfg)
	if err != nil {
		return nil, nil, err
	}

	mws := []middleware.Middleware{middleware.NewLoggingMiddleware(logger)}
	if recorder != nil {
		mws = append(mws, middleware.NewMetricsMiddleware(recorder))
	}
	if cfg.CacheTTL > 0 {
		mws = append(mws, middleware.NewCacheMiddleware(cfg.CacheTTL))
	}

	sub := middleware.Chain(base, mws...)
	if !sub.Available(context.Background()) {
		logger.Warn("Session storage unavailable, sessions will not persist", "backend", cfg.Backend)
	}
	return sub, closeFn, nil
}

func openBackend(cfg Config) (ports.Substrate, func() error, error) {
	noop := func() error { return nil }

	switch cfg.Backend {
	case BackendMemory:
		return memory.NewStore(), noop, nil
	case BackendFile:
		return file.New(cfg.Dir), noop, nil
	case BackendRedis:
		store := redis.New(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
		return store, store.Close, nil
	case BackendSQLite:
		store, err := sqlite.Open(cfg.SQLitePath)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to open sqlite store: %w", err)
		}
		return store, store.Close, nil
	default:
		return nil, nil, fmt.Errorf("unknown backend %q", cfg.Backend)
	}
}
