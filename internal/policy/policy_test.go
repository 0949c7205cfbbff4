package policy

import "testing"

func TestParseRole(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  Role
	}{
		{name: "admin", input: "admin", want: RoleAdmin},
		{name: "driver", input: "driver", want: RoleDriver},
		{name: "customer", input: "customer", want: RoleCustomer},
		{name: "mixed case", input: "Admin", want: RoleAdmin},
		{name: "padded", input: "  driver ", want: RoleDriver},
		{name: "empty", input: "", want: RoleUnknown},
		{name: "free text", input: "superuser", want: RoleUnknown},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ParseRole(tt.input); got != tt.want {
				t.Fatalf("ParseRole(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestRoleRoundTrip(t *testing.T) {
	for _, r := range []Role{RoleAdmin, RoleDriver, RoleCustomer} {
		if got := ParseRole(r.String()); got != r {
			t.Fatalf("ParseRole(%q) = %v, want %v", r.String(), got, r)
		}
	}
}

func TestItemsForAdminSeesFullCatalogue(t *testing.T) {
	items := ItemsFor(RoleAdmin)
	if len(items) != len(Items()) {
		t.Fatalf("admin sees %d items, want %d", len(items), len(Items()))
	}
	// Catalogue order is preserved: Dashboard first, Tracking near the end.
	if items[0].Label != "Dashboard" {
		t.Fatalf("first item = %q, want Dashboard", items[0].Label)
	}
}

func TestItemsForDriver(t *testing.T) {
	items := ItemsFor(RoleDriver)
	want := []string{"Dashboard", "Shipments", "Shipment Items", "Tracking"}
	if len(items) != len(want) {
		t.Fatalf("driver sees %d items (%v), want %d", len(items), labels(items), len(want))
	}
	for i, label := range want {
		if items[i].Label != label {
			t.Fatalf("driver items = %v, want %v", labels(items), want)
		}
	}
}

func TestItemsForCustomer(t *testing.T) {
	items := ItemsFor(RoleCustomer)
	want := []string{"Dashboard", "Tracking"}
	if len(items) != len(want) {
		t.Fatalf("customer sees %d items (%v), want %d", len(items), labels(items), len(want))
	}
	for i, label := range want {
		if items[i].Label != label {
			t.Fatalf("customer items = %v, want %v", labels(items), want)
		}
	}
	for _, item := range items {
		if item.Label == "Vehicles" {
			t.Fatal("customer must not see Vehicles")
		}
	}
}

func TestItemsForUnknownRoleIsEmpty(t *testing.T) {
	items := ItemsFor(RoleUnknown)
	if items == nil {
		t.Fatal("expected an empty slice, not nil")
	}
	if len(items) != 0 {
		t.Fatalf("unknown role sees %v, want nothing", labels(items))
	}
}

func TestIsRouteAllowed(t *testing.T) {
	tests := []struct {
		name    string
		role    Role
		allowed []Role
		want    bool
	}{
		{name: "empty set admits any authenticated role", role: RoleCustomer, allowed: nil, want: true},
		{name: "role in set", role: RoleDriver, allowed: []Role{RoleAdmin, RoleDriver}, want: true},
		{name: "role not in set", role: RoleDriver, allowed: []Role{RoleAdmin}, want: false},
		{name: "unknown role never matches", role: RoleUnknown, allowed: []Role{RoleAdmin, RoleDriver, RoleCustomer}, want: false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsRouteAllowed(tt.role, tt.allowed); got != tt.want {
				t.Fatalf("IsRouteAllowed(%v, %v) = %v, want %v", tt.role, tt.allowed, got, tt.want)
			}
		})
	}
}

func labels(items []NavigationItem) []string {
	out := make([]string, len(items))
	for i, item := range items {
		out[i] = item.Label
	}
	return out
}
