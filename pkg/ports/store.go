package ports

import (
	"context"
	"errors"
)

// ErrListUnsupported is returned when a substrate cannot enumerate its keys.
var ErrListUnsupported = errors.New("substrate does not support listing")

// Substrate is the durable key-value storage the session store is built on.
// It knows nothing about snapshots: values are opaque strings.
type Substrate interface {
	// Get returns the value stored under key.
	// Returns domain.ErrNotFound if nothing is stored.
	Get(ctx context.Context, key string) (string, error)

	// Set overwrites the value stored under key.
	Set(ctx context.Context, key, value string) error

	// Remove deletes key. Removing a missing key is not an error.
	Remove(ctx context.Context, key string) error

	// Available probes whether the substrate can currently be read and written.
	Available(ctx context.Context) bool
}

// Lister is implemented by substrates that can enumerate their keys.
type Lister interface {
	// Keys returns every stored key starting with prefix.
	Keys(ctx context.Context, prefix string) ([]string, error)
}
