package proxy

import (
	"context"
	"fmt"
	"reflect"
)

// IdentityMarker is the marker name embedded in the synthetic identity string
// of every unloaded proxy (`<identityHash>$LazyProxy`). It plays the role the
// proxy marker type name plays in the host mapping framework.
const IdentityMarker = "LazyProxy"

// Session is the loading collaborator a proxy defers to. Implementations load
// the full entity state for an identifier on demand.
//
// ImmediateLoad returns (nil, nil) when no entity exists for the identifier.
// Any error is returned to the proxy caller unchanged; the proxy layer never
// wraps, retries, or recovers from session failures.
type Session interface {
	ImmediateLoad(ctx context.Context, entityName string, id any) (any, error)
}

// Proxy is the interception contract exposed by a lazy entity proxy handle.
//
// The reserved operations (Initializer, ExtractInitializer, DetachSession,
// AsProxy) and the identity operations (String, Equal, HashCode) are answered
// from proxy metadata and never trigger a load. Every other method of the
// underlying entity is reached through Invoke, which loads the entity from the
// owning session on first use and forwards the call to it.
//
// A Proxy instance is bound to a single (id, session) pair and is not safe for
// concurrent use; single-session, single-goroutine usage is assumed.
type Proxy interface {
	// Initializer returns a fresh lazy-initializer view describing the proxy
	// without triggering a load.
	Initializer() *Initializer

	// ExtractInitializer is the framework-reserved alias for Initializer.
	ExtractInitializer() *Initializer

	// DetachSession is a reserved no-op kept for contract compatibility with
	// the host framework's session lifecycle hooks.
	DetachSession()

	// AsProxy returns the exact handle built by the factory. It never
	// constructs a new proxy; the back-reference is injected once after
	// construction completes.
	AsProxy() Proxy

	// Invoke dispatches a method call by name. Reserved and identity names are
	// answered without loading; any other name loads the entity through the
	// session and forwards the call, returning the target's results and error
	// unchanged. A nil target yields (nil, nil).
	Invoke(ctx context.Context, method string, args ...any) (any, error)

	// String returns the synthetic identity form `<identityHash>$LazyProxy`.
	// It intentionally does not describe the underlying entity.
	String() string

	// Equal reports proxy identity, not entity value equality: true when other
	// is the same handle, or when other's string form matches this proxy's
	// synthetic identity. Callers must not rely on it for business-key
	// comparison.
	Equal(other any) bool

	// HashCode hashes the synthetic identity string.
	HashCode() uint64

	// Implements reports whether the proxy's dispatch plan covers the full
	// method set of t. It is the runtime equivalent of the proxy object being
	// assignable to a declared interface or, when concrete dispatch is
	// enabled, to the persistent type itself.
	Implements(t reflect.Type) bool
}

// Invoke is a type-safe wrapper over Proxy.Invoke for single-result methods.
func Invoke[T any](ctx context.Context, p Proxy, method string, args ...any) (T, error) {
	result, err := p.Invoke(ctx, method, args...)
	if err != nil {
		var zero T
		return zero, err
	}
	if result == nil {
		var zero T
		return zero, nil
	}
	value, ok := result.(T)
	if !ok {
		var zero T
		return zero, &DispatchError{
			Method:  method,
			Message: fmt.Sprintf("result type %T does not match the requested type", result),
		}
	}
	return value, nil
}
