package proxy

import (
	"errors"
	"reflect"
	"testing"
)

type Account struct {
	ID   string
	Name string
}

func (a *Account) Equal(other *Account) bool {
	return other != nil && a.ID == other.ID
}

type plainEntity struct {
	ID string
}

type Describable interface {
	Describe() string
}

func TestDescriptorValidate(t *testing.T) {
	valid := Descriptor{
		EntityName:     "account",
		PersistentType: reflect.TypeOf(Account{}),
		Interfaces:     []reflect.Type{reflect.TypeOf((*Describable)(nil)).Elem()},
	}
	if err := valid.Validate(); err != nil {
		t.Fatalf("expected valid descriptor, got %v", err)
	}

	tests := []struct {
		name  string
		desc  Descriptor
		field string
	}{
		{
			name:  "empty entity name",
			desc:  Descriptor{PersistentType: reflect.TypeOf(Account{})},
			field: "EntityName",
		},
		{
			name:  "nil persistent type",
			desc:  Descriptor{EntityName: "account"},
			field: "PersistentType",
		},
		{
			name: "nil interface entry",
			desc: Descriptor{
				EntityName:     "account",
				PersistentType: reflect.TypeOf(Account{}),
				Interfaces:     []reflect.Type{nil},
			},
			field: "Interfaces",
		},
		{
			name: "non-interface entry",
			desc: Descriptor{
				EntityName:     "account",
				PersistentType: reflect.TypeOf(Account{}),
				Interfaces:     []reflect.Type{reflect.TypeOf(Account{})},
			},
			field: "Interfaces",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.desc.Validate()
			var cfgErr *ConfigError
			if !errors.As(err, &cfgErr) {
				t.Fatalf("expected ConfigError, got %v", err)
			}
			if cfgErr.Field != tt.field {
				t.Errorf("expected field %q, got %q", tt.field, cfgErr.Field)
			}
		})
	}
}

func TestSupportsConcreteDispatch(t *testing.T) {
	tests := []struct {
		name     string
		typ      reflect.Type
		expected bool
	}{
		{"exported struct", reflect.TypeOf(Account{}), true},
		{"pointer to exported struct", reflect.TypeOf(&Account{}), true},
		{"unexported struct", reflect.TypeOf(plainEntity{}), false},
		{"interface type", reflect.TypeOf((*Describable)(nil)).Elem(), false},
		{"reflection meta-type interface", reflect.TypeOf((*reflect.Type)(nil)).Elem(), false},
		{"reflection meta-type value", reflect.TypeOf(reflect.TypeOf(0)), false},
		{"basic type", reflect.TypeOf("x"), false},
		{"anonymous struct", reflect.TypeOf(struct{ X int }{}), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			desc := Descriptor{EntityName: "e", PersistentType: tt.typ}
			if got := desc.SupportsConcreteDispatch(); got != tt.expected {
				t.Errorf("SupportsConcreteDispatch(%v) = %v, want %v", tt.typ, got, tt.expected)
			}
		})
	}
}

func TestOverridesEquals(t *testing.T) {
	withEquals := Descriptor{EntityName: "account", PersistentType: reflect.TypeOf(Account{})}
	if !withEquals.OverridesEquals() {
		t.Error("expected Account's Equal method to be detected")
	}

	without := Descriptor{EntityName: "plain", PersistentType: reflect.TypeOf(plainEntity{})}
	if without.OverridesEquals() {
		t.Error("did not expect equality override on plainEntity")
	}
}

func TestDescriptorEquivalent(t *testing.T) {
	base := Descriptor{
		EntityName:     "account",
		PersistentType: reflect.TypeOf(Account{}),
		Interfaces:     []reflect.Type{reflect.TypeOf((*Describable)(nil)).Elem()},
		IDAccessor:     "ID",
	}

	same := base
	same.Interfaces = []reflect.Type{reflect.TypeOf((*Describable)(nil)).Elem()}
	if !base.Equivalent(same) {
		t.Error("expected equal descriptors to be equivalent")
	}

	renamed := base
	renamed.EntityName = "user"
	if base.Equivalent(renamed) {
		t.Error("expected differing entity names to break equivalence")
	}

	mutated := base
	mutated.IDMutator = "SetID"
	if base.Equivalent(mutated) {
		t.Error("expected differing mutators to break equivalence")
	}
}

func TestCompositeIDTypeOf(t *testing.T) {
	type OrderKey struct {
		Region string
		Number int
		hidden string
	}

	composite, err := CompositeIDTypeOf(reflect.TypeOf(OrderKey{}))
	if err != nil {
		t.Fatalf("CompositeIDTypeOf failed: %v", err)
	}
	if composite.Name != "OrderKey" {
		t.Errorf("expected name OrderKey, got %q", composite.Name)
	}
	if len(composite.Fields) != 2 {
		t.Fatalf("expected 2 exported fields, got %d", len(composite.Fields))
	}
	if composite.Fields[0].Name != "Region" || composite.Fields[1].Name != "Number" {
		t.Errorf("unexpected field order: %+v", composite.Fields)
	}

	if _, err := CompositeIDTypeOf(reflect.TypeOf("not a struct")); err == nil {
		t.Error("expected error for non-struct type")
	}
	if _, err := CompositeIDTypeOf(nil); err == nil {
		t.Error("expected error for nil type")
	}
}
