package lazyproxy

import (
	"context"
	"errors"
	"reflect"
	"testing"

	"github.com/goliatone/go-lazy-proxy/internal/proxyinfra"
	"github.com/goliatone/go-lazy-proxy/pkg/testsupport"
	"github.com/goliatone/go-lazy-proxy/proxy"
)

func TestConfigureIsIdempotentForEquivalentDescriptors(t *testing.T) {
	factory := New()
	desc := userDescriptor(t)

	if err := factory.Configure(desc); err != nil {
		t.Fatalf("first Configure failed: %v", err)
	}
	if err := factory.Configure(desc); err != nil {
		t.Fatalf("repeated equivalent Configure failed: %v", err)
	}
}

func TestConfigureRejectsInconsistentDescriptor(t *testing.T) {
	factory := New()
	if err := factory.Configure(userDescriptor(t)); err != nil {
		t.Fatalf("Configure failed: %v", err)
	}

	other := userDescriptor(t)
	other.EntityName = "account"
	err := factory.Configure(other)

	var cfgErr *proxy.ConfigError
	if !errors.As(err, &cfgErr) {
		t.Fatalf("expected ConfigError for inconsistent reconfiguration, got %v", err)
	}
}

func TestConfigureValidatesDescriptor(t *testing.T) {
	tests := []struct {
		name string
		desc proxy.Descriptor
	}{
		{
			name: "missing entity name",
			desc: proxy.Descriptor{PersistentType: reflect.TypeOf(testsupport.User{})},
		},
		{
			name: "missing persistent type",
			desc: proxy.Descriptor{EntityName: "user"},
		},
		{
			name: "non-interface in interfaces",
			desc: proxy.Descriptor{
				EntityName:     "user",
				PersistentType: reflect.TypeOf(testsupport.User{}),
				Interfaces:     []reflect.Type{reflect.TypeOf(testsupport.User{})},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			factory := New()
			err := factory.Configure(tt.desc)
			var cfgErr *proxy.ConfigError
			if !errors.As(err, &cfgErr) {
				t.Fatalf("expected ConfigError, got %v", err)
			}
		})
	}
}

func TestProxyRequiresConfiguration(t *testing.T) {
	factory := New()
	_, err := factory.Proxy("u-1", testsupport.NewRecordingSession())

	var cfgErr *proxy.ConfigError
	if !errors.As(err, &cfgErr) {
		t.Fatalf("expected ConfigError for unconfigured factory, got %v", err)
	}
}

func TestProxyRequiresSession(t *testing.T) {
	factory := New()
	if err := factory.Configure(userDescriptor(t)); err != nil {
		t.Fatalf("Configure failed: %v", err)
	}

	_, err := factory.Proxy("u-1", nil)
	var cfgErr *proxy.ConfigError
	if !errors.As(err, &cfgErr) {
		t.Fatalf("expected ConfigError for nil session, got %v", err)
	}
}

func TestAsProxyReturnsSameHandle(t *testing.T) {
	handle := newUserProxy(t, testsupport.NewRecordingSession())

	if handle.AsProxy() != handle {
		t.Error("expected AsProxy to return the exact handle built by the factory")
	}

	// Through generic dispatch as well.
	result, err := handle.Invoke(context.Background(), "AsProxy")
	if err != nil {
		t.Fatalf("Invoke(AsProxy) failed: %v", err)
	}
	if result != any(handle) {
		t.Error("expected Invoke(AsProxy) to return the exact handle")
	}
}

func TestFactoryInstallsNativeInitializer(t *testing.T) {
	handle := newUserProxy(t, testsupport.NewRecordingSession())

	h, ok := handle.(*proxyinfra.Handle)
	if !ok {
		t.Fatalf("expected a proxyinfra handle, got %T", handle)
	}
	view := h.NativeInitializer()
	if view == nil {
		t.Fatal("expected the factory to install a native initializer view")
	}
	if view.EntityName != "user" || view.ID != "u-1" {
		t.Errorf("native view carries wrong state: %+v", view)
	}
}

func TestConcreteDispatchDecision(t *testing.T) {
	factory := New()
	if err := factory.Configure(userDescriptor(t)); err != nil {
		t.Fatalf("Configure failed: %v", err)
	}
	if !factory.ConcreteDispatch() {
		t.Error("expected concrete dispatch for an exported struct entity")
	}

	ifaceOnly := New()
	err := ifaceOnly.Configure(proxy.Descriptor{
		EntityName:     "named",
		PersistentType: reflect.TypeOf((*Named)(nil)).Elem(),
		Interfaces:     []reflect.Type{reflect.TypeOf((*Named)(nil)).Elem()},
	})
	if err != nil {
		t.Fatalf("Configure failed: %v", err)
	}
	if ifaceOnly.ConcreteDispatch() {
		t.Error("expected interface-only dispatch for an interface persistent type")
	}
}

func TestProxyImplementsDeclaredInterfaces(t *testing.T) {
	handle := newUserProxy(t, testsupport.NewRecordingSession())

	named := reflect.TypeOf((*Named)(nil)).Elem()
	if !handle.Implements(named) {
		t.Error("expected proxy to cover the declared interface")
	}
	if !handle.Implements(reflect.TypeOf(testsupport.User{})) {
		t.Error("expected proxy to cover the qualifying concrete type")
	}
	if handle.Implements(reflect.TypeOf((*error)(nil)).Elem()) {
		t.Error("did not expect coverage of an undeclared interface")
	}
}
