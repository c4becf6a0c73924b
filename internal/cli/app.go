package cli

import (
	"log/slog"

	"github.com/aretw0/waypoint/internal/config"
	"github.com/aretw0/waypoint/pkg/observability"
	"github.com/aretw0/waypoint/pkg/session"
	"github.com/prometheus/client_golang/prometheus"
)

// App bundles everything a command needs: the configured substrate chain,
// the session manager on top of it and the metrics registry.
type App struct {
	Config   config.Config
	Logger   *slog.Logger
	Metrics  *observability.Metrics
	Registry *prometheus.Registry
	Sessions *session.Manager

	close func() error
}

// NewApp opens the substrate described by cfg.
func NewApp(cfg config.Config, logger *slog.Logger) (*App, error) {
	metrics := observability.NewMetrics()
	registry := prometheus.NewRegistry()
	metrics.MustRegister(registry)

	sub, closeFn, err := config.Open(cfg, logger, metrics)
	if err != nil {
		return nil, err
	}

	opts := []session.Option{
		session.WithKey(cfg.Key),
		session.WithPrefix(cfg.Prefix),
		session.WithExpiry(cfg.Expiry),
		session.WithLogger(logger),
		session.WithHooks(metrics.Hooks()),
	}

	return &App{
		Config:   cfg,
		Logger:   logger,
		Metrics:  metrics,
		Registry: registry,
		Sessions: session.NewManager(sub, opts...),
		close:    closeFn,
	}, nil
}

// Store returns the store of workflow id, or the global slot when id is empty.
func (a *App) Store(id string) *session.Store {
	if id == "" {
		return a.Sessions.Default()
	}
	return a.Sessions.For(id)
}

// Close releases the backend.
func (a *App) Close() error {
	if a.close == nil {
		return nil
	}
	return a.close()
}
