package sessioninfra

import (
	"context"
	"fmt"
	"testing"
	"time"
)

type stubSerializer struct{}

func (stubSerializer) SerializeIdentifier(id any) string {
	return fmt.Sprintf("%v", id)
}

type stubSession struct {
	loads  int
	entity any
}

func (s *stubSession) ImmediateLoad(ctx context.Context, entityName string, id any) (any, error) {
	s.loads++
	return s.entity, nil
}

func testConfig() Config {
	cfg := DefaultConfig()
	cfg.EarlyRefresh = nil
	cfg.TTL = time.Minute
	return cfg
}

func TestNewCachedSessionValidatesInputs(t *testing.T) {
	if _, err := NewCachedSession(nil, stubSerializer{}, testConfig()); err == nil {
		t.Error("expected error for nil base session")
	}
	if _, err := NewCachedSession(&stubSession{}, nil, testConfig()); err == nil {
		t.Error("expected error for nil serializer")
	}

	bad := testConfig()
	bad.TTL = 0
	if _, err := NewCachedSession(&stubSession{}, stubSerializer{}, bad); err == nil {
		t.Error("expected error for invalid config")
	}
}

func TestCachedSessionKey(t *testing.T) {
	cached, err := NewCachedSession(&stubSession{entity: "x"}, stubSerializer{}, testConfig())
	if err != nil {
		t.Fatalf("NewCachedSession failed: %v", err)
	}

	if got := cached.Key("user", "u-1"); got != "user::u-1" {
		t.Errorf("unexpected key %q", got)
	}
}

func TestFreshLoadBypassesCache(t *testing.T) {
	base := &stubSession{entity: "x"}
	cached, err := NewCachedSession(base, stubSerializer{}, testConfig())
	if err != nil {
		t.Fatalf("NewCachedSession failed: %v", err)
	}

	ctx := context.Background()
	if _, err := cached.ImmediateLoad(ctx, "user", "u-1"); err != nil {
		t.Fatalf("ImmediateLoad failed: %v", err)
	}
	if _, err := cached.ImmediateLoad(WithFreshLoad(ctx), "user", "u-1"); err != nil {
		t.Fatalf("fresh ImmediateLoad failed: %v", err)
	}

	if base.loads != 2 {
		t.Errorf("expected the fresh load to reach the base session, got %d loads", base.loads)
	}
}

func TestInvalidateEntityDropsAllIDs(t *testing.T) {
	base := &stubSession{entity: "x"}
	cached, err := NewCachedSession(base, stubSerializer{}, testConfig())
	if err != nil {
		t.Fatalf("NewCachedSession failed: %v", err)
	}

	ctx := context.Background()
	for _, id := range []string{"u-1", "u-2"} {
		if _, err := cached.ImmediateLoad(ctx, "user", id); err != nil {
			t.Fatalf("ImmediateLoad failed: %v", err)
		}
	}
	if _, err := cached.ImmediateLoad(ctx, "role", "r-1"); err != nil {
		t.Fatalf("ImmediateLoad failed: %v", err)
	}

	cached.InvalidateEntity("user")

	for _, id := range []string{"u-1", "u-2"} {
		if _, err := cached.ImmediateLoad(ctx, "user", id); err != nil {
			t.Fatalf("ImmediateLoad failed: %v", err)
		}
	}
	if _, err := cached.ImmediateLoad(ctx, "role", "r-1"); err != nil {
		t.Fatalf("ImmediateLoad failed: %v", err)
	}

	// Three initial loads, two reloads for the invalidated entity, the role
	// entry stays cached.
	if base.loads != 5 {
		t.Errorf("expected 5 base loads, got %d", base.loads)
	}
}

func TestFreshLoadRequested(t *testing.T) {
	if FreshLoadRequested(context.Background()) {
		t.Error("expected plain context to carry no fresh-load mark")
	}
	if !FreshLoadRequested(WithFreshLoad(context.Background())) {
		t.Error("expected marked context to report fresh load")
	}
	if FreshLoadRequested(nil) { //nolint:staticcheck
		t.Error("expected nil context to carry no fresh-load mark")
	}
}
