package testsupport

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"
)

// User is the entity fixture shared by proxy tests across packages.
type User struct {
	ID    string `json:"id" bun:",pk"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

// UserID returns the user's identifier.
func (u *User) UserID() string { return u.ID }

// DisplayName returns the human-readable name.
func (u *User) DisplayName() string { return u.Name }

// Rename updates the user's name and returns the previous one.
func (u *User) Rename(name string) string {
	prev := u.Name
	u.Name = name
	return prev
}

// NewUser builds a user fixture with a random identifier.
func NewUser(name, email string) *User {
	return &User{ID: uuid.NewString(), Name: name, Email: email}
}

// MembershipKey is a composite-identifier fixture: a membership is keyed by
// tenant and user together.
type MembershipKey struct {
	TenantID string `json:"tenant_id"`
	UserID   string `json:"user_id"`
}

// Membership is an entity fixture with a composite primary key.
type Membership struct {
	Key  MembershipKey `json:"key"`
	Role string        `json:"role"`
}

// RoleName returns the membership role.
func (m *Membership) RoleName() string { return m.Role }

// NewMembershipKey builds a composite key fixture with random components.
func NewMembershipKey() MembershipKey {
	return MembershipKey{TenantID: uuid.NewString(), UserID: uuid.NewString()}
}

// RecordingSession is a scripted loading session that records every
// ImmediateLoad call. Tests seed it with entities per (entityName, id) string
// key and assert on the recorded call log.
type RecordingSession struct {
	mu       sync.Mutex
	calls    []string
	entities map[string]any
	err      error
}

// NewRecordingSession creates an empty recording session.
func NewRecordingSession() *RecordingSession {
	return &RecordingSession{entities: make(map[string]any)}
}

// Seed registers the entity returned for an (entityName, id) pair.
func (s *RecordingSession) Seed(entityName string, id string, entity any) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entities[entityName+"/"+id] = entity
}

// Fail makes every subsequent load return err.
func (s *RecordingSession) Fail(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.err = err
}

// ImmediateLoad implements the loading-session contract.
func (s *RecordingSession) ImmediateLoad(ctx context.Context, entityName string, id any) (any, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := entityName + "/" + stringID(id)
	s.calls = append(s.calls, key)

	if s.err != nil {
		return nil, s.err
	}
	entity, ok := s.entities[key]
	if !ok {
		return nil, nil
	}
	return entity, nil
}

// Calls returns a copy of the recorded load calls.
func (s *RecordingSession) Calls() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.calls...)
}

// LoadCount returns how many loads the session has served.
func (s *RecordingSession) LoadCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.calls)
}

func stringID(id any) string {
	if s, ok := id.(string); ok {
		return s
	}
	if str, ok := id.(interface{ String() string }); ok {
		return str.String()
	}
	return fmt.Sprintf("%+v", id)
}
