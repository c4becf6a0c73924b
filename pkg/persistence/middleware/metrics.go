package middleware

import (
	"context"

	"github.com/aretw0/waypoint/pkg/ports"
)

// Recorder receives the outcome of each substrate call.
// observability.Metrics implements it with Prometheus counters.
type Recorder interface {
	ObserveSubstrate(op string, err error)
}

type metricsMiddleware struct {
	next     ports.Substrate
	recorder Recorder
}

// NewMetricsMiddleware reports every substrate call to recorder.
func NewMetricsMiddleware(recorder Recorder) Middleware {
	return func(next ports.Substrate) ports.Substrate {
		return &metricsMiddleware{next: next, recorder: recorder}
	}
}

func (m *metricsMiddleware) Get(ctx context.Context, key string) (string, error) {
	value, err := m.next.Get(ctx, key)
	m.recorder.ObserveSubstrate("get", err)
	return value, err
}

func (m *metricsMiddleware) Set(ctx context.Context, key, value string) error {
	err := m.next.Set(ctx, key, value)
	m.recorder.ObserveSubstrate("set", err)
	return err
}

func (m *metricsMiddleware) Remove(ctx context.Context, key string) error {
	err := m.next.Remove(ctx, key)
	m.recorder.ObserveSubstrate("remove", err)
	return err
}

func (m *metricsMiddleware) Available(ctx context.Context) bool {
	return m.next.Available(ctx)
}

func (m *metricsMiddleware) Keys(ctx context.Context, prefix string) ([]string, error) {
	keys, err := listKeys(ctx, m.next, prefix)
	m.recorder.ObserveSubstrate("keys", err)
	return keys, err
}
