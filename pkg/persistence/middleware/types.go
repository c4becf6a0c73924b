package middleware

import (
	"context"

	"github.com/aretw0/waypoint/pkg/ports"
)

// Middleware allows wrapping a Substrate to add behavior.
type Middleware func(ports.Substrate) ports.Substrate

// Chain wraps sub with the given middleware; the first one is the outermost.
func Chain(sub ports.Substrate, mws ...Middleware) ports.Substrate {
	for i := len(mws) - 1; i >= 0; i-- {
		sub = mws[i](sub)
	}
	return sub
}

// listKeys delegates Keys to next when it supports listing.
func listKeys(ctx context.Context, next ports.Substrate, prefix string) ([]string, error) {
	lister, ok := next.(ports.Lister)
	if !ok {
		return nil, ports.ErrListUnsupported
	}
	return lister.Keys(ctx, prefix)
}
