package lazyproxy

import (
	"sync"

	"github.com/goliatone/go-lazy-proxy/internal/proxyinfra"
	"github.com/goliatone/go-lazy-proxy/proxy"
)

// interceptorSwapper is the optional capability a built proxy exposes for
// installing the framework-native lazy-initializer view over the same state.
type interceptorSwapper interface {
	SetNativeInitializer(func() *proxy.Initializer)
}

// Factory is the lazy entity proxy controller for one entity type. It is
// configured once with immutable descriptor metadata and then produces one
// proxy handle per (id, session) pair.
type Factory struct {
	mu            sync.Mutex
	configured    bool
	desc          proxy.Descriptor
	plan          *proxyinfra.Plan
	reloadPerCall bool
}

// Option configures a Factory.
type Option func(*Factory)

// WithReloadPerCall makes every forwarded call re-enter the session load path
// instead of memoizing the first result. This preserves the historical
// behavior of the adapter this controller replaces; the memoizing default is
// what callers almost always want.
func WithReloadPerCall() Option {
	return func(f *Factory) {
		f.reloadPerCall = true
	}
}

// New creates an unconfigured Factory.
func New(opts ...Option) *Factory {
	f := &Factory{}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Configure records the proxy descriptor and computes the dispatch plan.
// Configuration happens at most once: repeating it with an equivalent
// descriptor is a no-op, repeating it with different metadata is a
// ConfigError. The concrete-dispatch decision is made here, once, from the
// descriptor's persistent type.
func (f *Factory) Configure(desc proxy.Descriptor) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.configured {
		if f.desc.Equivalent(desc) {
			return nil
		}
		return &proxy.ConfigError{Field: "Descriptor", Message: "factory already configured with different metadata"}
	}

	plan, err := proxyinfra.PlanFor(desc)
	if err != nil {
		return err
	}

	f.desc = desc
	f.plan = plan
	f.configured = true
	return nil
}

// Configured reports whether the factory has recorded its descriptor.
func (f *Factory) Configured() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.configured
}

// Descriptor returns the recorded descriptor metadata.
func (f *Factory) Descriptor() proxy.Descriptor {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.desc
}

// ConcreteDispatch reports whether proxies built by this factory dispatch
// against the persistent type's own method set in addition to the declared
// interfaces.
func (f *Factory) ConcreteDispatch() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.plan != nil && f.plan.Concrete()
}

// Proxy builds a proxy handle for an (id, session) pair: a fresh interceptor
// bound to the descriptor, the handle over it, then the back-reference
// injection that completes two-phase construction. When the handle supports
// the interceptor-swap capability, the framework-native initializer view is
// installed over the same state.
func (f *Factory) Proxy(id any, session proxy.Session) (proxy.Proxy, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if !f.configured {
		return nil, &proxy.ConfigError{Field: "Descriptor", Message: "factory is not configured"}
	}
	if session == nil {
		return nil, &proxy.ConfigError{Field: "Session", Message: "cannot be nil"}
	}

	ic := newInterceptor(f.desc, f.plan, id, session, f.reloadPerCall)
	handle := proxyinfra.NewHandle(f.plan, ic)
	ic.bind(handle)

	if swapper, ok := any(handle).(interceptorSwapper); ok {
		desc := f.desc
		swapper.SetNativeInitializer(func() *proxy.Initializer {
			return proxy.NewInitializer(desc, id, session)
		})
	}

	return handle, nil
}
