package session

import (
	"log/slog"
	"time"

	"github.com/aretw0/waypoint/internal/logging"
)

const (
	// DefaultKey is the slot used by a Store when no key is configured.
	DefaultKey = "waypoint:session"

	// DefaultPrefix namespaces the per-workflow slots of a Manager.
	DefaultPrefix = "waypoint:session:"

	// DefaultExpiry is the maximum age of a resumable snapshot.
	DefaultExpiry = 24 * time.Hour
)

type config struct {
	key    string
	prefix string
	expiry time.Duration
	now    func() time.Time
	logger *slog.Logger
	hooks  Hooks
}

func newConfig(opts []Option) config {
	cfg := config{
		key:    DefaultKey,
		prefix: DefaultPrefix,
		expiry: DefaultExpiry,
		now:    time.Now,
		logger: logging.NewNop(), // Default to no-op
	}
	for _, opt := range opts {
		opt(&cfg)
	}
	return cfg
}

// Option configures a Store or a Manager.
type Option func(*config)

// WithKey sets the slot a Store reads and writes. Ignored by Manager.
func WithKey(key string) Option {
	return func(c *config) {
		if key != "" {
			c.key = key
		}
	}
}

// WithPrefix sets the namespace a Manager prepends to workflow identifiers.
func WithPrefix(prefix string) Option {
	return func(c *config) {
		c.prefix = prefix
	}
}

// WithExpiry overrides the 24h maximum snapshot age.
func WithExpiry(expiry time.Duration) Option {
	return func(c *config) {
		if expiry > 0 {
			c.expiry = expiry
		}
	}
}

// WithClock injects the time source used for stamping and expiry.
func WithClock(now func() time.Time) Option {
	return func(c *config) {
		if now != nil {
			c.now = now
		}
	}
}

// WithLogger configures a logger for storage warnings and evictions.
func WithLogger(logger *slog.Logger) Option {
	return func(c *config) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// WithHooks registers observability callbacks.
func WithHooks(hooks Hooks) Option {
	return func(c *config) {
		c.hooks = hooks
	}
}
