package di

import (
	"github.com/goliatone/go-lazy-proxy/internal/sessioninfra"
	"github.com/goliatone/go-lazy-proxy/lazyproxy"
	"github.com/goliatone/go-lazy-proxy/proxy"
)

// Container provides dependency injection for lazy-proxy components. It
// manages singleton instances of the identifier serializer and the session
// cache configuration, and provides factory methods for building configured
// proxy factories and cached sessions.
type Container struct {
	serializer proxy.IdentifierSerializer
	config     sessioninfra.Config
}

// NewContainer creates a new DI container with the provided session-cache
// configuration and the default identifier serializer.
func NewContainer(config sessioninfra.Config) (*Container, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	return &Container{
		serializer: proxy.NewDefaultIdentifierSerializer(),
		config:     config,
	}, nil
}

// NewContainerWithDefaults creates a new DI container using default
// configuration. This is a convenience constructor for typical use cases
// where custom configuration is not required.
func NewContainerWithDefaults() (*Container, error) {
	return NewContainer(sessioninfra.DefaultConfig())
}

// IdentifierSerializer returns the singleton identifier serializer instance.
func (c *Container) IdentifierSerializer() proxy.IdentifierSerializer {
	return c.serializer
}

// Config returns a copy of the session-cache configuration used by this
// container. This is useful for debugging and monitoring purposes.
func (c *Container) Config() sessioninfra.Config {
	return c.config
}

// NewFactory builds and configures a proxy factory for the given descriptor.
func (c *Container) NewFactory(desc proxy.Descriptor, opts ...lazyproxy.Option) (*lazyproxy.Factory, error) {
	factory := lazyproxy.New(opts...)
	if err := factory.Configure(desc); err != nil {
		return nil, err
	}
	return factory, nil
}

// CachedSession decorates base with the container's session load cache,
// wiring in the shared identifier serializer.
func (c *Container) CachedSession(base proxy.Session) (proxy.CachedSession, error) {
	cached, err := sessioninfra.NewCachedSession(base, c.serializer, c.config)
	if err != nil {
		return nil, err
	}
	return cached, nil
}
