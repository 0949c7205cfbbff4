// Package session holds the authenticated principal for the duration
// of a session. The store is an explicit, injectable object with an
// init/teardown lifecycle: it reads the persisted principal once at
// construction, keeps it in memory, and writes through to a durable
// backend on login/logout. There is no ambient global auth state.
package session

import (
	"context"
	"encoding/json"
	"errors"
	"sync"

	"github.com/eztransport/logistics-api/internal/policy"
)

// StorageKey is the durable-storage key the principal is persisted
// under, as a JSON blob.
const StorageKey = "user"

// Principal is the authenticated actor and their role, held for the
// session duration. The role-specific foreign key (DriverID or
// CustomerID) is set for driver and customer accounts so their scoped
// screens can query their own records.
type Principal struct {
	ID         uint64      `json:"id"`
	Username   string      `json:"username"`
	FullName   string      `json:"full_name"`
	Role       policy.Role `json:"role"`
	DriverID   *uint64     `json:"driver_id,omitempty"`
	CustomerID *uint64     `json:"customer_id,omitempty"`
}

// Backend is the durable storage the principal survives reloads in.
// Get returns (nil, nil) when the key is absent.
type Backend interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
}

// Authenticator performs the credential check against the external
// login collaborator. It returns the principal on success; any error
// aborts the login.
type Authenticator interface {
	Authenticate(ctx context.Context, username, password string) (*Principal, error)
}

// ErrAuthenticationFailed marks credential rejections. Use errors.Is
// against it; the wrapped AuthenticationError carries the server's
// message when one was available.
var ErrAuthenticationFailed = errors.New("authentication failed")

// AuthenticationError wraps ErrAuthenticationFailed with the message
// returned by the authentication collaborator. A missing message means
// the failure was connectivity rather than a rejected credential.
type AuthenticationError struct {
	Message string
}

func (e *AuthenticationError) Error() string {
	if e.Message == "" {
		return "authentication failed: could not reach the login service"
	}
	return "authentication failed: " + e.Message
}

func (e *AuthenticationError) Unwrap() error { return ErrAuthenticationFailed }

// Store holds the current principal in memory and persists it through
// a Backend. All methods are safe for concurrent use.
type Store struct {
	mu      sync.RWMutex
	backend Backend
	auth    Authenticator
	current *Principal
}

// NewStore builds a store and synchronously resolves the persisted
// principal before returning, so the first render after a reload never
// flashes the login screen for a returning user. A corrupt or missing
// blob resolves to "no principal" rather than an error.
func NewStore(ctx context.Context, backend Backend, auth Authenticator) *Store {
	s := &Store{backend: backend, auth: auth}
	if backend != nil {
		if raw, err := backend.Get(ctx, StorageKey); err == nil && len(raw) > 0 {
			var p Principal
			if err := json.Unmarshal(raw, &p); err == nil {
				s.current = &p
			}
		}
	}
	return s
}

// Login checks the credentials via the Authenticator and, on success,
// stores the principal in memory and in the durable backend. On
// rejection it returns an AuthenticationError; backend write failures
// are returned as-is and leave the in-memory state unset.
func (s *Store) Login(ctx context.Context, username, password string) (*Principal, error) {
	p, err := s.auth.Authenticate(ctx, username, password)
	if err != nil {
		var authErr *AuthenticationError
		if errors.As(err, &authErr) || errors.Is(err, ErrAuthenticationFailed) {
			return nil, err
		}
		return nil, &AuthenticationError{}
	}

	raw, err := json.Marshal(p)
	if err != nil {
		return nil, err
	}
	if s.backend != nil {
		if err := s.backend.Set(ctx, StorageKey, raw); err != nil {
			return nil, err
		}
	}

	s.mu.Lock()
	s.current = p
	s.mu.Unlock()
	return p, nil
}

// Logout clears the in-memory principal and the durable copy. A guard
// evaluated after Logout transitions to unauthenticated.
func (s *Store) Logout(ctx context.Context) error {
	s.mu.Lock()
	s.current = nil
	s.mu.Unlock()
	if s.backend == nil {
		return nil
	}
	return s.backend.Delete(ctx, StorageKey)
}

// Current returns the in-memory principal, or nil when no session is
// active.
func (s *Store) Current() *Principal {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current
}
