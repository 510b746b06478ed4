package sessioninfra

import "context"

type freshLoadContextKey struct{}

// WithFreshLoad marks the context so the next cached load bypasses the cache
// and reads through to the underlying session.
func WithFreshLoad(ctx context.Context) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithValue(ctx, freshLoadContextKey{}, true)
}

// FreshLoadRequested reports whether the context carries a fresh-load mark.
func FreshLoadRequested(ctx context.Context) bool {
	if ctx == nil {
		return false
	}
	fresh, ok := ctx.Value(freshLoadContextKey{}).(bool)
	return ok && fresh
}
