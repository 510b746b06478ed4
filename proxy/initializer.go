package proxy

import "reflect"

// Initializer is the lazy-initializer view: a value object describing an
// unloaded proxy's identity without forcing a load. The host framework reads
// it when it needs to reason about a proxy (identifier, entity type, owning
// session) through its native contract rather than through the proxy handle.
//
// A fresh Initializer is constructed on every reserved-method call; it carries
// no mutable proxy state of its own.
type Initializer struct {
	EntityName      string
	PersistentType  reflect.Type
	Interfaces      []reflect.Type
	ID              any
	IDAccessor      string
	IDMutator       string
	CompositeID     *CompositeIDType
	Session         Session
	OverridesEquals bool
}

// NewInitializer builds an initializer view from a descriptor and the proxy's
// bound identifier and session.
func NewInitializer(desc Descriptor, id any, session Session) *Initializer {
	return &Initializer{
		EntityName:      desc.EntityName,
		PersistentType:  desc.PersistentType,
		Interfaces:      append([]reflect.Type(nil), desc.Interfaces...),
		ID:              id,
		IDAccessor:      desc.IDAccessor,
		IDMutator:       desc.IDMutator,
		CompositeID:     desc.CompositeID,
		Session:         session,
		OverridesEquals: desc.OverridesEquals(),
	}
}
