package proxy

import (
	"encoding/json"
	"fmt"
	"reflect"
	"sort"
	"strings"
)

// KeySeparator delimits the segments of a serialized identifier and of cache
// keys derived from it.
const KeySeparator = "::"

// IdentifierSerializer produces a stable string form for an entity
// identifier. The form is used for synthetic proxy diagnostics and as the
// cache-key segment for session-level load caching, so it must be
// deterministic across calls within a process, including for composite
// (multi-field) identifiers.
type IdentifierSerializer interface {
	SerializeIdentifier(id any) string
}

// defaultIdentifierSerializer implements IdentifierSerializer with
// reflection-based serialization: basic types use their string form, pointers
// are dereferenced, slices and arrays serialize recursively, maps sort their
// pairs for determinism, and structs (composite identifiers) serialize their
// exported fields in declaration order. Complex values fall back to JSON.
type defaultIdentifierSerializer struct{}

// NewDefaultIdentifierSerializer creates the default identifier serializer.
func NewDefaultIdentifierSerializer() IdentifierSerializer {
	return &defaultIdentifierSerializer{}
}

// SerializeIdentifier builds the stable string form of id.
func (s *defaultIdentifierSerializer) SerializeIdentifier(id any) string {
	return s.serializeValue(id)
}

func (s *defaultIdentifierSerializer) serializeValue(v any) string {
	if v == nil {
		return "nil"
	}

	// Identifier types that know their own canonical form (uuid.UUID and
	// friends) win over structural serialization.
	if str, ok := v.(fmt.Stringer); ok {
		return str.String()
	}

	rv := reflect.ValueOf(v)
	rt := reflect.TypeOf(v)

	switch rt.Kind() {
	case reflect.Ptr:
		if rv.IsNil() {
			return "nil"
		}
		return s.serializeValue(rv.Elem().Interface())

	case reflect.Slice:
		if rv.IsNil() {
			return "slice:nil"
		}
		return s.serializeList("slice", rv)

	case reflect.Array:
		return s.serializeList("array", rv)

	case reflect.Map:
		if rv.IsNil() {
			return "map:nil"
		}
		return s.serializeMap(rv)

	case reflect.Struct:
		return s.serializeStruct(rv, rt)

	case reflect.Interface:
		if rv.IsNil() {
			return "nil"
		}
		return s.serializeValue(rv.Elem().Interface())
	}

	if isBasicKind(rt.Kind()) {
		return fmt.Sprintf("%v", v)
	}

	return s.jsonFallback(v)
}

func (s *defaultIdentifierSerializer) serializeList(kind string, rv reflect.Value) string {
	length := rv.Len()
	parts := make([]string, length)
	for i := 0; i < length; i++ {
		parts[i] = s.serializeValue(rv.Index(i).Interface())
	}
	return fmt.Sprintf("%s[%d]:{%s}", kind, length, strings.Join(parts, ","))
}

// serializeMap sorts serialized pairs so iteration order never leaks into the
// identifier form.
func (s *defaultIdentifierSerializer) serializeMap(rv reflect.Value) string {
	keys := rv.MapKeys()
	pairs := make([]string, 0, len(keys))
	for _, k := range keys {
		keyStr := s.serializeValue(k.Interface())
		valueStr := s.serializeValue(rv.MapIndex(k).Interface())
		pairs = append(pairs, keyStr+"="+valueStr)
	}
	sort.Strings(pairs)
	return fmt.Sprintf("map[%d]:{%s}", len(pairs), strings.Join(pairs, ","))
}

// serializeStruct is the composite-identifier path: exported fields in
// declaration order, name:value pairs.
func (s *defaultIdentifierSerializer) serializeStruct(rv reflect.Value, rt reflect.Type) string {
	parts := make([]string, 0, rv.NumField())
	for i := 0; i < rv.NumField(); i++ {
		field := rt.Field(i)
		if !field.IsExported() {
			continue
		}
		fieldValue := rv.Field(i)
		if !fieldValue.CanInterface() {
			continue
		}
		parts = append(parts, field.Name+":"+s.serializeValue(fieldValue.Interface()))
	}
	return fmt.Sprintf("struct:{%s}", strings.Join(parts, ","))
}

func isBasicKind(kind reflect.Kind) bool {
	switch kind {
	case reflect.Bool,
		reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64,
		reflect.Complex64, reflect.Complex128,
		reflect.String:
		return true
	default:
		return false
	}
}

// jsonFallback provides JSON serialization as a last resort.
func (s *defaultIdentifierSerializer) jsonFallback(v any) string {
	data, err := json.Marshal(v)
	if err != nil {
		// Keep serialization total: fall back to type information rather than
		// failing the load path over an exotic identifier type.
		return fmt.Sprintf("fallback:%s", reflect.TypeOf(v).String())
	}
	return fmt.Sprintf("json:%s", string(data))
}
