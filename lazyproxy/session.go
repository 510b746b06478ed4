package lazyproxy

import (
	"context"
	"database/sql"
	"errors"
	"reflect"

	"github.com/goliatone/go-lazy-proxy/proxy"
	repository "github.com/goliatone/go-repository-bun"
	"github.com/uptrace/bun"
)

// loaderFunc resolves one entity instance by identifier.
type loaderFunc func(ctx context.Context, id any) (any, error)

// RepositorySession is a proxy.Session backed by go-repository-bun
// repositories: each entity name maps to a repository's GetByID. Repository
// errors propagate to the proxy caller unchanged.
type RepositorySession struct {
	serializer proxy.IdentifierSerializer
	loaders    map[string]loaderFunc
}

// Interface guard.
var _ proxy.Session = (*RepositorySession)(nil)

// NewRepositorySession creates an empty repository-backed session using the
// default identifier serializer.
func NewRepositorySession() *RepositorySession {
	return &RepositorySession{
		serializer: proxy.NewDefaultIdentifierSerializer(),
		loaders:    make(map[string]loaderFunc),
	}
}

// RegisterRepository maps an entity name to a repository. Since Go methods
// cannot have type parameters, this is provided as a package-level function.
func RegisterRepository[T any](s *RepositorySession, entityName string, repo repository.Repository[T]) {
	s.loaders[entityName] = func(ctx context.Context, id any) (any, error) {
		record, err := repo.GetByID(ctx, s.serializer.SerializeIdentifier(id))
		if err != nil {
			return nil, err
		}
		return record, nil
	}
}

// ImmediateLoad implements proxy.Session.
func (s *RepositorySession) ImmediateLoad(ctx context.Context, entityName string, id any) (any, error) {
	loader, ok := s.loaders[entityName]
	if !ok {
		return nil, &proxy.ConfigError{Field: "EntityName", Message: "no repository registered for " + entityName}
	}
	return loader(ctx, id)
}

// BunSession is a proxy.Session backed directly by a bun database handle.
// Entity names map to model constructors; loads select a single row by
// primary key (or by the composite key's columns when the identifier is a
// struct). A missing row is reported as (nil, nil); every other database
// error propagates unchanged.
type BunSession struct {
	db     bun.IDB
	models map[string]bunModel
}

type bunModel struct {
	newModel func() any
	pkColumn string
}

// Interface guard.
var _ proxy.Session = (*BunSession)(nil)

// NewBunSession creates an empty bun-backed session over db.
func NewBunSession(db bun.IDB) *BunSession {
	return &BunSession{db: db, models: make(map[string]bunModel)}
}

// RegisterModel maps an entity name to a model constructor, keyed by the
// default "id" primary-key column.
func (s *BunSession) RegisterModel(entityName string, newModel func() any) {
	s.RegisterModelPK(entityName, newModel, "id")
}

// RegisterModelPK is RegisterModel with an explicit primary-key column.
func (s *BunSession) RegisterModelPK(entityName string, newModel func() any, pkColumn string) {
	s.models[entityName] = bunModel{newModel: newModel, pkColumn: pkColumn}
}

// ImmediateLoad implements proxy.Session.
func (s *BunSession) ImmediateLoad(ctx context.Context, entityName string, id any) (any, error) {
	model, ok := s.models[entityName]
	if !ok {
		return nil, &proxy.ConfigError{Field: "EntityName", Message: "no model registered for " + entityName}
	}

	m := model.newModel()
	q := s.db.NewSelect().Model(m)
	q = whereIdentifier(q, model.pkColumn, id)

	if err := q.Limit(1).Scan(ctx); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return m, nil
}

// whereIdentifier translates an identifier into WHERE clauses: struct
// identifiers (composite keys) contribute one clause per exported field using
// the snake_case column name, everything else filters on the registered
// primary-key column.
func whereIdentifier(q *bun.SelectQuery, pkColumn string, id any) *bun.SelectQuery {
	rv := reflect.ValueOf(id)
	for rv.Kind() == reflect.Ptr && !rv.IsNil() {
		rv = rv.Elem()
	}

	if rv.Kind() == reflect.Struct {
		rt := rv.Type()
		for i := 0; i < rt.NumField(); i++ {
			field := rt.Field(i)
			if !field.IsExported() {
				continue
			}
			q = q.Where("? = ?", bun.Ident(toSnake(field.Name)), rv.Field(i).Interface())
		}
		return q
	}

	return q.Where("? = ?", bun.Ident(pkColumn), id)
}
