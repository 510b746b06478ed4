package proxy

import (
	"time"

	"github.com/goliatone/go-lazy-proxy/internal/sessioninfra"
)

// SessionCacheConfig exposes the session load-cache options for consumers of
// the proxy package.
type SessionCacheConfig struct {
	Capacity             int
	NumShards            int
	TTL                  time.Duration
	EvictionPercentage   int
	EarlyRefresh         *EarlyRefreshConfig
	MissingRecordStorage bool
	EvictionInterval     time.Duration
}

// EarlyRefreshConfig mirrors the underlying sturdyc early refresh options.
type EarlyRefreshConfig struct {
	MinAsyncRefreshTime time.Duration
	MaxAsyncRefreshTime time.Duration
	SyncRefreshTime     time.Duration
	RetryBaseDelay      time.Duration
}

// CachedSession is a Session decorator with read-through caching of entity
// loads and explicit invalidation hooks.
type CachedSession interface {
	Session

	// Invalidate drops the cached load for a single entity instance.
	Invalidate(entityName string, id any)

	// InvalidateEntity drops every cached load for an entity name.
	InvalidateEntity(entityName string)
}

// DefaultSessionCacheConfig returns a SessionCacheConfig populated with
// sensible defaults.
func DefaultSessionCacheConfig() SessionCacheConfig {
	return convertFromInternal(sessioninfra.DefaultConfig())
}

// Validate checks whether the configuration values are valid.
func (c SessionCacheConfig) Validate() error {
	return c.toInternal().Validate()
}

// NewCachedSession decorates base with the default load-cache implementation
// using the provided configuration. Identifier keys use the default
// serializer.
func NewCachedSession(base Session, cfg SessionCacheConfig) (CachedSession, error) {
	return NewCachedSessionWithSerializer(base, NewDefaultIdentifierSerializer(), cfg)
}

// NewCachedSessionWithSerializer is NewCachedSession with a caller-provided
// identifier serializer, for composite keys with custom canonical forms.
func NewCachedSessionWithSerializer(base Session, serializer IdentifierSerializer, cfg SessionCacheConfig) (CachedSession, error) {
	cached, err := sessioninfra.NewCachedSession(base, serializer, cfg.toInternal())
	if err != nil {
		return nil, err
	}
	return cached, nil
}

func (c SessionCacheConfig) toInternal() sessioninfra.Config {
	var early *sessioninfra.EarlyRefreshConfig
	if c.EarlyRefresh != nil {
		early = &sessioninfra.EarlyRefreshConfig{
			MinAsyncRefreshTime: c.EarlyRefresh.MinAsyncRefreshTime,
			MaxAsyncRefreshTime: c.EarlyRefresh.MaxAsyncRefreshTime,
			SyncRefreshTime:     c.EarlyRefresh.SyncRefreshTime,
			RetryBaseDelay:      c.EarlyRefresh.RetryBaseDelay,
		}
	}

	return sessioninfra.Config{
		Capacity:             c.Capacity,
		NumShards:            c.NumShards,
		TTL:                  c.TTL,
		EvictionPercentage:   c.EvictionPercentage,
		EarlyRefresh:         early,
		MissingRecordStorage: c.MissingRecordStorage,
		EvictionInterval:     c.EvictionInterval,
	}
}

func convertFromInternal(cfg sessioninfra.Config) SessionCacheConfig {
	var early *EarlyRefreshConfig
	if cfg.EarlyRefresh != nil {
		early = &EarlyRefreshConfig{
			MinAsyncRefreshTime: cfg.EarlyRefresh.MinAsyncRefreshTime,
			MaxAsyncRefreshTime: cfg.EarlyRefresh.MaxAsyncRefreshTime,
			SyncRefreshTime:     cfg.EarlyRefresh.SyncRefreshTime,
			RetryBaseDelay:      cfg.EarlyRefresh.RetryBaseDelay,
		}
	}

	return SessionCacheConfig{
		Capacity:             cfg.Capacity,
		NumShards:            cfg.NumShards,
		TTL:                  cfg.TTL,
		EvictionPercentage:   cfg.EvictionPercentage,
		EarlyRefresh:         early,
		MissingRecordStorage: cfg.MissingRecordStorage,
		EvictionInterval:     cfg.EvictionInterval,
	}
}
