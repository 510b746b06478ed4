package lazyproxy

import (
	"context"

	"github.com/goliatone/go-lazy-proxy/internal/sessioninfra"
)

// WithFreshLoad marks the context so a cached session bypasses its load cache
// and reads through to the underlying session. Sessions without a cache layer
// ignore the mark.
func WithFreshLoad(ctx context.Context) context.Context {
	return sessioninfra.WithFreshLoad(ctx)
}
