// Package proxy provides the public contracts for lazy entity proxies.
//
// # Overview
//
// This package exports the interfaces and value objects the lazy-loading
// machinery is built from:
//
//   - Session: the external collaborator that loads an entity's full state by
//     identifier on demand
//   - Proxy: the interception contract a built proxy handle exposes
//   - Descriptor: immutable metadata describing the proxied entity type
//   - Initializer: the lazy-initializer view describing an unloaded proxy
//     without forcing a load
//   - IdentifierSerializer: deterministic string forms for identifiers,
//     including composite (multi-field) keys
//
// # The interception contract
//
// A proxy answers its methods in a fixed priority order. Reserved operations
// (Initializer, ExtractInitializer, DetachSession, AsProxy) and identity
// operations (String, Equal, HashCode) are served from proxy metadata and
// never touch the session. Any other method name routed through Invoke loads
// the entity via Session.ImmediateLoad and forwards the call to the loaded
// target, returning its results and error unchanged:
//
//	handle, _ := factory.Proxy("user-1", session)
//	name, err := proxy.Invoke[string](ctx, handle, "Name")
//
// # Proxy identity vs value equality
//
// String, Equal, and HashCode on a proxy operate on the synthetic form
// `<identityHash>$LazyProxy`, never on the loaded entity. Two distinct unloaded
// proxies are never Equal, even over the same identifier. This is a deliberate,
// documented approximation: it lets callers print, hash, and compare proxies
// without forcing loads, and it must not be used for business-key comparison.
// Entities that define their own value equality are flagged through the
// initializer view's OverridesEquals field.
//
// # Error handling
//
// ConfigError reports malformed or inconsistent proxy configuration.
// DispatchError reports forwarding failures owned by the proxy layer (unknown
// method, unbindable arguments). Errors raised by the session or by the target
// method itself are propagated verbatim; nothing in this package wraps,
// retries, or recovers from them.
//
// # Session caching
//
// NewCachedSession decorates any Session with a read-through load cache, so
// repeated proxy loads over the same identifier do not hammer the database.
// See SessionCacheConfig for tuning and the lazyproxy package's WithFreshLoad
// for per-call bypass.
//
// # See Also
//
// For the factory and interceptor implementation, see the lazyproxy package.
package proxy
