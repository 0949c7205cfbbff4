package session

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/eztransport/logistics-api/internal/policy"
)

type stubAuthenticator struct {
	principal *Principal
	err       error
}

func (a *stubAuthenticator) Authenticate(_ context.Context, _, _ string) (*Principal, error) {
	if a.err != nil {
		return nil, a.err
	}
	return a.principal, nil
}

func adminPrincipal() *Principal {
	return &Principal{ID: 1, Username: "ops", FullName: "Ops Admin", Role: policy.RoleAdmin}
}

func TestLoginStoresPrincipal(t *testing.T) {
	ctx := context.Background()
	backend := NewMemoryBackend()
	store := NewStore(ctx, backend, &stubAuthenticator{principal: adminPrincipal()})

	p, err := store.Login(ctx, "ops", "secret")
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	if p.Role != policy.RoleAdmin {
		t.Fatalf("role = %v, want admin", p.Role)
	}
	if cur := store.Current(); cur == nil || cur.ID != 1 {
		t.Fatalf("Current() = %+v, want the logged-in principal", cur)
	}

	// The durable copy lives under the "user" key as JSON.
	raw, err := backend.Get(ctx, StorageKey)
	if err != nil || raw == nil {
		t.Fatalf("backend.Get = (%v, %v), want persisted blob", raw, err)
	}
	var persisted Principal
	if err := json.Unmarshal(raw, &persisted); err != nil {
		t.Fatalf("unmarshal persisted principal: %v", err)
	}
	if persisted.Username != "ops" {
		t.Fatalf("persisted username = %q, want ops", persisted.Username)
	}
}

func TestLoginFailureSurfacesServerMessage(t *testing.T) {
	ctx := context.Background()
	auth := &stubAuthenticator{err: &AuthenticationError{Message: "invalid credentials"}}
	store := NewStore(ctx, NewMemoryBackend(), auth)

	_, err := store.Login(ctx, "ops", "wrong")
	if !errors.Is(err, ErrAuthenticationFailed) {
		t.Fatalf("err = %v, want ErrAuthenticationFailed", err)
	}
	var authErr *AuthenticationError
	if !errors.As(err, &authErr) || authErr.Message != "invalid credentials" {
		t.Fatalf("err = %v, want wrapped server message", err)
	}
	if store.Current() != nil {
		t.Fatal("failed login must not set a principal")
	}
}

func TestLoginConnectivityFailureIsGeneric(t *testing.T) {
	ctx := context.Background()
	store := NewStore(ctx, NewMemoryBackend(), &stubAuthenticator{err: errors.New("dial tcp: refused")})

	_, err := store.Login(ctx, "ops", "secret")
	if !errors.Is(err, ErrAuthenticationFailed) {
		t.Fatalf("err = %v, want ErrAuthenticationFailed", err)
	}
	var authErr *AuthenticationError
	if !errors.As(err, &authErr) || authErr.Message != "" {
		t.Fatalf("err = %v, want generic connectivity error", err)
	}
}

func TestLogoutClearsMemoryAndBackend(t *testing.T) {
	ctx := context.Background()
	backend := NewMemoryBackend()
	store := NewStore(ctx, backend, &stubAuthenticator{principal: adminPrincipal()})
	if _, err := store.Login(ctx, "ops", "secret"); err != nil {
		t.Fatalf("Login: %v", err)
	}

	if err := store.Logout(ctx); err != nil {
		t.Fatalf("Logout: %v", err)
	}
	if store.Current() != nil {
		t.Fatal("Current() should be nil after logout")
	}
	if raw, _ := backend.Get(ctx, StorageKey); raw != nil {
		t.Fatal("durable principal should be cleared on logout")
	}
	// A guard evaluated after logout lands in unauthenticated.
	if got := policy.Decide(policy.RoleUnknown, false, nil); got != policy.StateUnauthenticated {
		t.Fatalf("guard after logout = %v, want unauthenticated", got)
	}
}

func TestNewStoreRestoresPersistedPrincipal(t *testing.T) {
	ctx := context.Background()
	backend := NewMemoryBackend()
	raw, _ := json.Marshal(adminPrincipal())
	if err := backend.Set(ctx, StorageKey, raw); err != nil {
		t.Fatalf("seed backend: %v", err)
	}

	store := NewStore(ctx, backend, &stubAuthenticator{})
	cur := store.Current()
	if cur == nil || cur.Username != "ops" {
		t.Fatalf("Current() = %+v, want restored principal", cur)
	}
}

func TestNewStoreIgnoresCorruptBlob(t *testing.T) {
	ctx := context.Background()
	backend := NewMemoryBackend()
	if err := backend.Set(ctx, StorageKey, []byte("{not json")); err != nil {
		t.Fatalf("seed backend: %v", err)
	}
	store := NewStore(ctx, backend, &stubAuthenticator{})
	if store.Current() != nil {
		t.Fatal("corrupt blob should resolve to no principal")
	}
}
