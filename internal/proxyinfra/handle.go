package proxyinfra

import (
	"context"
	"reflect"

	"github.com/goliatone/go-lazy-proxy/proxy"
)

// CallInterceptor receives every operation made on a handle and decides how to
// answer it: reserved operations from proxy metadata, identity operations from
// the synthetic representation, everything else by loading and forwarding.
type CallInterceptor interface {
	Initializer() *proxy.Initializer
	DetachSession()
	AsProxy() proxy.Proxy
	Invoke(ctx context.Context, method string, args ...any) (any, error)
	Identity() string
	Equal(other any) bool
	HashCode() uint64
}

// Handle is the built dynamic-proxy object. It routes the proxy contract
// through its interceptor and carries the dispatch plan for type coverage
// queries. One handle exists per (id, session) pair.
type Handle struct {
	plan        *Plan
	interceptor CallInterceptor
	nativeInit  func() *proxy.Initializer
}

// Interface guard: a handle is the proxy object handed back to callers.
var _ proxy.Proxy = (*Handle)(nil)

// NewHandle builds a handle over an interceptor and its dispatch plan.
func NewHandle(plan *Plan, interceptor CallInterceptor) *Handle {
	return &Handle{plan: plan, interceptor: interceptor}
}

// SetNativeInitializer installs the framework-native lazy-initializer view
// over the same proxy state. This is the interceptor-swap capability the
// factory probes for after construction; host framework code that inspects
// proxies through the native contract reads this view instead of going
// through the interceptor.
func (h *Handle) SetNativeInitializer(fn func() *proxy.Initializer) {
	h.nativeInit = fn
}

// NativeInitializer returns the installed framework-native view, or nil when
// the factory did not install one.
func (h *Handle) NativeInitializer() *proxy.Initializer {
	if h.nativeInit == nil {
		return nil
	}
	return h.nativeInit()
}

// Initializer implements proxy.Proxy.
func (h *Handle) Initializer() *proxy.Initializer {
	return h.interceptor.Initializer()
}

// ExtractInitializer implements proxy.Proxy. It is the reserved alias the
// host framework uses to pull an initializer out of an opaque object.
func (h *Handle) ExtractInitializer() *proxy.Initializer {
	return h.interceptor.Initializer()
}

// DetachSession implements proxy.Proxy.
func (h *Handle) DetachSession() {
	h.interceptor.DetachSession()
}

// AsProxy implements proxy.Proxy.
func (h *Handle) AsProxy() proxy.Proxy {
	return h.interceptor.AsProxy()
}

// Invoke implements proxy.Proxy.
func (h *Handle) Invoke(ctx context.Context, method string, args ...any) (any, error) {
	return h.interceptor.Invoke(ctx, method, args...)
}

// String implements proxy.Proxy using the synthetic identity form.
func (h *Handle) String() string {
	return h.interceptor.Identity()
}

// Equal implements proxy.Proxy.
func (h *Handle) Equal(other any) bool {
	if other == any(h) {
		return true
	}
	return h.interceptor.Equal(other)
}

// HashCode implements proxy.Proxy.
func (h *Handle) HashCode() uint64 {
	return h.interceptor.HashCode()
}

// Implements implements proxy.Proxy.
func (h *Handle) Implements(t reflect.Type) bool {
	return h.plan.Covers(t)
}
