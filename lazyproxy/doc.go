// Package lazyproxy implements the lazy entity proxy controller.
//
// # Overview
//
// A Factory is configured once with a proxy.Descriptor and then builds one
// proxy handle per (id, session) pair. The handle intercepts every method
// call: reserved and identity operations are answered from metadata, anything
// else triggers an on-demand load through the session and forwards the call
// to the materialized entity.
//
// # Basic Usage
//
//	factory := lazyproxy.New()
//	err := factory.Configure(proxy.Descriptor{
//		EntityName:     "user",
//		PersistentType: reflect.TypeOf(User{}),
//		Interfaces:     []reflect.Type{reflect.TypeOf((*Named)(nil)).Elem()},
//		IDAccessor:     "ID",
//	})
//
//	handle, err := factory.Proxy("user-1", session)
//	name, err := proxy.Invoke[string](ctx, handle, "Name") // loads here
//
// # Dispatch plan
//
// Configure computes a closed dispatch plan from the descriptor: the method
// sets of the declared interfaces, plus the persistent type's exported
// methods when the type qualifies for concrete dispatch (named, exported
// struct type that is not the reflection meta-type). Calls outside the plan
// fail with a proxy.DispatchError instead of falling into open-ended
// reflection.
//
// # Load memoization
//
// By default the first load is memoized: the proxy transitions from unloaded
// to loaded exactly once, and a nil result (absent entity) is memoized too.
// WithReloadPerCall restores the re-entrant load-per-call behavior of the
// adapter this controller replaces, for callers that depend on observing
// session state changes between calls.
//
// # Sessions
//
// Two Session implementations ship with the package: RepositorySession maps
// entity names onto go-repository-bun repositories, and BunSession loads rows
// directly through a bun database handle, including composite-key lookups for
// struct identifiers. Both propagate their errors unchanged. Any Session can
// be wrapped with proxy.NewCachedSession for read-through load caching;
// WithFreshLoad marks a context so one load bypasses that cache.
//
// # Concurrency
//
// A proxy instance is bound to a single session and must be driven from a
// single goroutine; concurrent use of one handle is undefined. The Factory
// itself serializes configuration and construction so it can be shared.
package lazyproxy
