package proxy

import (
	"reflect"
	"strconv"
	"unicode"
	"unicode/utf8"
)

// reflectMetaType is the reflect.Type interface itself. Building an entity
// proxy over the reflection meta-type is never allowed concrete dispatch, the
// same way the source framework refuses to subclass the reflective class type.
var reflectMetaType = reflect.TypeOf((*reflect.Type)(nil)).Elem()

// Descriptor is the immutable metadata a proxy factory is configured with.
// Fields are set once at configuration time and shared, read-only, by every
// proxy instance created from the same factory.
type Descriptor struct {
	// EntityName is the logical entity name used for session loads.
	EntityName string

	// PersistentType is the concrete entity type. Pointer types are accepted
	// and unwrapped where the element type is what qualifies for dispatch.
	PersistentType reflect.Type

	// Interfaces are the declared interface types the proxy must cover.
	Interfaces []reflect.Type

	// IDAccessor and IDMutator name the identifier accessor/mutator methods on
	// the persistent type. They are descriptive metadata surfaced through the
	// initializer view; either may be empty.
	IDAccessor string
	IDMutator  string

	// CompositeID describes a multi-field primary key, when the entity has
	// one. Nil for single-column identifiers.
	CompositeID *CompositeIDType
}

// Validate checks the descriptor for configuration errors.
func (d Descriptor) Validate() error {
	if d.EntityName == "" {
		return &ConfigError{Field: "EntityName", Message: "must not be empty"}
	}

	if d.PersistentType == nil {
		return &ConfigError{Field: "PersistentType", Message: "must not be nil"}
	}

	for i, iface := range d.Interfaces {
		if iface == nil {
			return &ConfigError{Field: "Interfaces", Message: "must not contain nil types"}
		}
		if iface.Kind() != reflect.Interface {
			return &ConfigError{Field: "Interfaces", Message: "type at index " + strconv.Itoa(i) + " is not an interface"}
		}
	}

	return nil
}

// SupportsConcreteDispatch reports whether the dispatch plan may target the
// persistent type's own method set in addition to the declared interfaces.
// The type qualifies when it is a named, exported struct type and not the
// reflection meta-type; everything else restricts the proxy to interface
// dispatch only.
func (d Descriptor) SupportsConcreteDispatch() bool {
	t := d.PersistentType
	if t == nil {
		return false
	}
	if t.Kind() == reflect.Ptr {
		t = t.Elem()
	}

	if t == reflectMetaType || t.Implements(reflectMetaType) {
		return false
	}

	if t.Kind() != reflect.Struct || t.Name() == "" {
		return false
	}

	r, _ := utf8.DecodeRuneInString(t.Name())
	return unicode.IsUpper(r)
}

// OverridesEquals reports whether the persistent type declares its own value
// equality method (Equal or Equals). The flag is surfaced through the
// initializer view so the host framework can decide how to compare entities.
func (d Descriptor) OverridesEquals() bool {
	t := d.PersistentType
	if t == nil {
		return false
	}

	for _, name := range []string{"Equal", "Equals"} {
		if _, ok := t.MethodByName(name); ok {
			return true
		}
		if t.Kind() != reflect.Ptr {
			if _, ok := reflect.PtrTo(t).MethodByName(name); ok {
				return true
			}
		}
	}
	return false
}

// Equivalent reports whether other describes the same proxy metadata. A
// factory accepts repeated configuration only when the descriptors are
// equivalent.
func (d Descriptor) Equivalent(other Descriptor) bool {
	if d.EntityName != other.EntityName || d.PersistentType != other.PersistentType {
		return false
	}
	if d.IDAccessor != other.IDAccessor || d.IDMutator != other.IDMutator {
		return false
	}
	if len(d.Interfaces) != len(other.Interfaces) {
		return false
	}
	for i := range d.Interfaces {
		if d.Interfaces[i] != other.Interfaces[i] {
			return false
		}
	}

	switch {
	case d.CompositeID == nil && other.CompositeID == nil:
		return true
	case d.CompositeID == nil || other.CompositeID == nil:
		return false
	default:
		return d.CompositeID.equivalent(other.CompositeID)
	}
}

// CompositeIDField describes one component of a composite identifier.
type CompositeIDField struct {
	Name string
	Type reflect.Type
}

// CompositeIDType describes a multi-field primary key.
type CompositeIDType struct {
	Name   string
	Fields []CompositeIDField
}

// CompositeIDTypeOf builds a composite identifier descriptor from a struct
// type, taking every exported field as a key component. Pointer types are
// unwrapped first.
func CompositeIDTypeOf(t reflect.Type) (*CompositeIDType, error) {
	if t == nil {
		return nil, &ConfigError{Field: "CompositeID", Message: "type must not be nil"}
	}
	if t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	if t.Kind() != reflect.Struct {
		return nil, &ConfigError{Field: "CompositeID", Message: "type must be a struct, got " + t.Kind().String()}
	}

	fields := make([]CompositeIDField, 0, t.NumField())
	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		if !field.IsExported() {
			continue
		}
		fields = append(fields, CompositeIDField{Name: field.Name, Type: field.Type})
	}
	if len(fields) == 0 {
		return nil, &ConfigError{Field: "CompositeID", Message: "struct has no exported fields"}
	}

	return &CompositeIDType{Name: t.Name(), Fields: fields}, nil
}

func (c *CompositeIDType) equivalent(other *CompositeIDType) bool {
	if c.Name != other.Name || len(c.Fields) != len(other.Fields) {
		return false
	}
	for i := range c.Fields {
		if c.Fields[i] != other.Fields[i] {
			return false
		}
	}
	return true
}
