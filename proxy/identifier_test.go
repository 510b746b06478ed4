package proxy

import (
	"strings"
	"testing"

	"github.com/google/uuid"
)

func TestSerializeIdentifierBasicTypes(t *testing.T) {
	s := NewDefaultIdentifierSerializer()

	tests := []struct {
		name     string
		id       any
		expected string
	}{
		{"nil", nil, "nil"},
		{"string", "user-1", "user-1"},
		{"int", 42, "42"},
		{"bool", true, "true"},
		{"float", 1.5, "1.5"},
		{"nil pointer", (*int)(nil), "nil"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := s.SerializeIdentifier(tt.id); got != tt.expected {
				t.Errorf("SerializeIdentifier(%v) = %q, want %q", tt.id, got, tt.expected)
			}
		})
	}
}

func TestSerializeIdentifierPointerDereference(t *testing.T) {
	s := NewDefaultIdentifierSerializer()
	id := 7
	if got := s.SerializeIdentifier(&id); got != "7" {
		t.Errorf("expected dereferenced value, got %q", got)
	}
}

func TestSerializeIdentifierStringerFastPath(t *testing.T) {
	s := NewDefaultIdentifierSerializer()

	id := uuid.MustParse("6ba7b810-9dad-11d1-80b4-00c04fd430c8")
	if got := s.SerializeIdentifier(id); got != id.String() {
		t.Errorf("expected uuid canonical form, got %q", got)
	}
}

func TestSerializeIdentifierCompositeStruct(t *testing.T) {
	type TenantUserKey struct {
		TenantID string
		UserID   string
	}

	s := NewDefaultIdentifierSerializer()
	got := s.SerializeIdentifier(TenantUserKey{TenantID: "t-1", UserID: "u-2"})

	if !strings.HasPrefix(got, "struct:{") {
		t.Fatalf("expected struct form, got %q", got)
	}
	if !strings.Contains(got, "TenantID:t-1") || !strings.Contains(got, "UserID:u-2") {
		t.Errorf("expected both key components, got %q", got)
	}

	// Determinism across calls.
	if again := s.SerializeIdentifier(TenantUserKey{TenantID: "t-1", UserID: "u-2"}); again != got {
		t.Errorf("expected stable serialization, got %q then %q", got, again)
	}
}

func TestSerializeIdentifierMapDeterminism(t *testing.T) {
	s := NewDefaultIdentifierSerializer()
	id := map[string]int{"b": 2, "a": 1, "c": 3}

	first := s.SerializeIdentifier(id)
	for i := 0; i < 10; i++ {
		if got := s.SerializeIdentifier(id); got != first {
			t.Fatalf("map serialization not deterministic: %q vs %q", first, got)
		}
	}
	if first != "map[3]:{a=1,b=2,c=3}" {
		t.Errorf("unexpected map form %q", first)
	}
}

func TestSerializeIdentifierSlice(t *testing.T) {
	s := NewDefaultIdentifierSerializer()
	if got := s.SerializeIdentifier([]string{"x", "y"}); got != "slice[2]:{x,y}" {
		t.Errorf("unexpected slice form %q", got)
	}
	if got := s.SerializeIdentifier([]string(nil)); got != "slice:nil" {
		t.Errorf("unexpected nil slice form %q", got)
	}
}
