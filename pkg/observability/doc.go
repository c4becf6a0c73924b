/*
Package observability exposes the session engine's Prometheus metrics.

Metrics bundles the collectors, hands out session.Hooks that feed them, and
implements middleware.Recorder for substrate-level counters:

	metrics := observability.NewMetrics()
	metrics.MustRegister(prometheus.DefaultRegisterer)

	sub := middleware.Chain(redisStore, middleware.NewMetricsMiddleware(metrics))
	store := session.NewStore(sub, session.WithHooks(metrics.Hooks()))
*/
package observability
