package lazyproxy

import (
	"context"
	"fmt"
	"reflect"

	"github.com/cespare/xxhash/v2"
	"github.com/goliatone/go-lazy-proxy/internal/proxyinfra"
	"github.com/goliatone/go-lazy-proxy/proxy"
)

// Reserved operation names. Calls routed through Invoke under these names are
// answered from proxy metadata and never trigger a load.
const (
	methodInitializer        = "Initializer"
	methodExtractInitializer = "ExtractInitializer"
	methodDetachSession      = "DetachSession"
	methodAsProxy            = "AsProxy"
	methodString             = "String"
	methodEqual              = "Equal"
	methodHashCode           = "HashCode"
)

// interceptor receives every operation made on one proxy handle. It owns the
// mutable target reference, populated by the first loading call (or on every
// call when reload-per-call is enabled). Not safe for concurrent use; a proxy
// instance belongs to a single session and a single goroutine.
type interceptor struct {
	desc    proxy.Descriptor
	plan    *proxyinfra.Plan
	id      any
	session proxy.Session

	// handle is the non-owning back-reference to the built proxy, injected
	// once after construction completes.
	handle proxy.Proxy

	reloadPerCall bool
	loaded        bool
	target        any
}

// Interface guard: the interceptor must satisfy the handle's call contract.
var _ proxyinfra.CallInterceptor = (*interceptor)(nil)

func newInterceptor(desc proxy.Descriptor, plan *proxyinfra.Plan, id any, session proxy.Session, reloadPerCall bool) *interceptor {
	return &interceptor{
		desc:          desc,
		plan:          plan,
		id:            id,
		session:       session,
		reloadPerCall: reloadPerCall,
	}
}

// bind injects the built handle back-reference. Two-phase construction keeps
// the proxy from re-entering its own factory when asked to identify itself.
func (i *interceptor) bind(handle proxy.Proxy) {
	i.handle = handle
}

// Initializer builds a fresh lazy-initializer view. No load is triggered.
func (i *interceptor) Initializer() *proxy.Initializer {
	return proxy.NewInitializer(i.desc, i.id, i.session)
}

// DetachSession is a reserved no-op.
func (i *interceptor) DetachSession() {}

// AsProxy returns the injected handle, never a newly constructed proxy.
func (i *interceptor) AsProxy() proxy.Proxy {
	return i.handle
}

// Identity returns the synthetic representation `<identityHash>$LazyProxy`.
// The hash is derived from the interceptor's own address, so it is stable for
// the lifetime of the proxy instance and distinct across instances.
func (i *interceptor) Identity() string {
	return fmt.Sprintf("%d$%s", reflect.ValueOf(i).Pointer(), proxy.IdentityMarker)
}

// Equal compares synthetic string forms. This is proxy identity, deliberately
// approximate; it never loads the entity and never consults value equality on
// the target.
func (i *interceptor) Equal(other any) bool {
	if other == nil {
		return false
	}
	if other == any(i.handle) {
		return true
	}
	return i.Identity() == fmt.Sprint(other)
}

// HashCode hashes the synthetic identity string.
func (i *interceptor) HashCode() uint64 {
	return xxhash.Sum64String(i.Identity())
}

// Invoke applies the interception contract, in priority order: reserved
// initializer access, identity operations, detach, self-as-proxy, extract,
// and finally load-and-forward for everything else.
func (i *interceptor) Invoke(ctx context.Context, method string, args ...any) (any, error) {
	switch method {
	case methodInitializer, methodExtractInitializer:
		return i.Initializer(), nil

	case methodString:
		return i.Identity(), nil

	case methodEqual:
		if len(args) != 1 {
			return nil, &proxy.DispatchError{Method: method, Message: "expects exactly one argument"}
		}
		return i.Equal(args[0]), nil

	case methodHashCode:
		return i.HashCode(), nil

	case methodDetachSession:
		return nil, nil

	case methodAsProxy:
		return i.handle, nil
	}

	target, err := i.load(ctx)
	if err != nil {
		return nil, err
	}
	if target == nil {
		// Absent entity: every forwarded call answers nil, with no
		// distinction between "not found" and a void method.
		return nil, nil
	}

	return i.plan.Call(ctx, target, method, args)
}

// load resolves the target through the session. The default mode memoizes the
// first result, nil included; reload-per-call re-enters the session on every
// forwarded call. Session errors propagate unchanged and leave the proxy
// unloaded.
func (i *interceptor) load(ctx context.Context) (any, error) {
	if i.loaded && !i.reloadPerCall {
		return i.target, nil
	}

	target, err := i.session.ImmediateLoad(ctx, i.desc.EntityName, i.id)
	if err != nil {
		return nil, err
	}
	if isNilValue(target) {
		target = nil
	}

	i.target = target
	i.loaded = true
	return target, nil
}

// isNilValue catches typed-nil targets coming out of session implementations
// so the absent-entity contract holds regardless of the session's return type.
func isNilValue(v any) bool {
	if v == nil {
		return true
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Ptr, reflect.Map, reflect.Slice, reflect.Interface, reflect.Func, reflect.Chan:
		return rv.IsNil()
	default:
		return false
	}
}
