package policy

import "testing"

func TestGuardStartsLoading(t *testing.T) {
	g := NewGuard()
	if g.State() != StateLoading {
		t.Fatalf("fresh guard state = %v, want loading", g.State())
	}
}

func TestGuardResolve(t *testing.T) {
	tests := []struct {
		name          string
		role          Role
		authenticated bool
		routeRoles    []Role
		want          GuardState
	}{
		{
			name:          "no principal always unauthenticated",
			authenticated: false,
			routeRoles:    nil,
			want:          StateUnauthenticated,
		},
		{
			name:          "no principal even on an admin route",
			authenticated: false,
			routeRoles:    []Role{RoleAdmin},
			want:          StateUnauthenticated,
		},
		{
			name:          "principal on an open route",
			role:          RoleCustomer,
			authenticated: true,
			routeRoles:    nil,
			want:          StateAllowed,
		},
		{
			name:          "role in the route set",
			role:          RoleDriver,
			authenticated: true,
			routeRoles:    []Role{RoleAdmin, RoleDriver},
			want:          StateAllowed,
		},
		{
			name:          "driver on an admin route is denied, not unauthenticated",
			role:          RoleDriver,
			authenticated: true,
			routeRoles:    []Role{RoleAdmin},
			want:          StateDenied,
		},
		{
			name:          "unknown role with a principal is denied",
			role:          RoleUnknown,
			authenticated: true,
			routeRoles:    []Role{RoleAdmin},
			want:          StateDenied,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := NewGuard()
			got := g.Resolve(tt.role, tt.authenticated, tt.routeRoles)
			if got != tt.want {
				t.Fatalf("Resolve = %v, want %v", got, tt.want)
			}
			if g.State() != got {
				t.Fatalf("State() = %v after Resolve returned %v", g.State(), got)
			}
		})
	}
}

func TestDecideMatchesResolve(t *testing.T) {
	if got := Decide(RoleDriver, true, []Role{RoleAdmin}); got != StateDenied {
		t.Fatalf("Decide = %v, want denied", got)
	}
	if got := Decide(RoleAdmin, true, []Role{RoleAdmin}); got != StateAllowed {
		t.Fatalf("Decide = %v, want allowed", got)
	}
}
