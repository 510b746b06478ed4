package sessioninfra

import (
	"context"
	"errors"
	"strings"

	"github.com/viccon/sturdyc"
)

// KeySeparator delimits the entity-name and identifier segments of cache keys.
const KeySeparator = "::"

// Session mirrors the loading-session contract consumed by the proxy layer.
// It is declared locally so the infrastructure adapter stays decoupled from
// the public contract package.
type Session interface {
	ImmediateLoad(ctx context.Context, entityName string, id any) (any, error)
}

// IdentifierSerializer mirrors the public identifier serializer contract.
type IdentifierSerializer interface {
	SerializeIdentifier(id any) string
}

// CachedSession decorates a Session with read-through caching of entity
// loads, keyed by entity name and serialized identifier. It exists because an
// unloaded proxy may be asked to load the same entity repeatedly; the cache
// absorbs those repeats without changing the session contract.
//
// Session errors pass through unchanged. A nil load result is remembered as a
// missing record (when enabled) and keeps answering nil without touching the
// underlying session.
type CachedSession struct {
	base       Session
	client     *sturdyc.Client[any]
	serializer IdentifierSerializer
}

// NewCachedSession creates a caching decorator over base. It validates the
// configuration and initializes a sturdyc client with the provided settings.
func NewCachedSession(base Session, serializer IdentifierSerializer, cfg Config) (*CachedSession, error) {
	if base == nil {
		return nil, &ConfigError{Field: "base", Message: "session cannot be nil"}
	}
	if serializer == nil {
		return nil, &ConfigError{Field: "serializer", Message: "cannot be nil"}
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	client := sturdyc.New[any](
		cfg.Capacity,
		cfg.NumShards,
		cfg.TTL,
		cfg.EvictionPercentage,
		cfg.ToSturdycOptions()...,
	)

	return &CachedSession{base: base, client: client, serializer: serializer}, nil
}

// ImmediateLoad implements the Session contract with read-through caching.
// A fresh-load request on the context drops the cached entry first, so the
// caller observes the underlying session's current state.
func (s *CachedSession) ImmediateLoad(ctx context.Context, entityName string, id any) (any, error) {
	key := s.Key(entityName, id)

	if FreshLoadRequested(ctx) {
		s.client.Delete(key)
	}

	result, err := s.client.GetOrFetch(ctx, key, func(ctx context.Context) (any, error) {
		target, err := s.base.ImmediateLoad(ctx, entityName, id)
		if err != nil {
			return nil, err
		}
		if target == nil {
			// Let sturdyc's missing-record storage remember the absence.
			return nil, sturdyc.ErrNotFound
		}
		return target, nil
	})
	if err != nil {
		if errors.Is(err, sturdyc.ErrMissingRecord) || errors.Is(err, sturdyc.ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return result, nil
}

// Key returns the cache key used for an (entityName, id) pair.
func (s *CachedSession) Key(entityName string, id any) string {
	return entityName + KeySeparator + s.serializer.SerializeIdentifier(id)
}

// Invalidate drops the cached load for a single entity instance.
func (s *CachedSession) Invalidate(entityName string, id any) {
	s.client.Delete(s.Key(entityName, id))
}

// InvalidateEntity drops every cached load for an entity name.
func (s *CachedSession) InvalidateEntity(entityName string) {
	prefix := entityName + KeySeparator
	for _, key := range s.client.ScanKeys() {
		if strings.HasPrefix(key, prefix) {
			s.client.Delete(key)
		}
	}
}
