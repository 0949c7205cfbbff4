// Package policy holds the static access rules of the application: the
// closed set of roles, the navigation catalogue each role may see, and
// the route guard that decides whether a request may proceed. All
// decisions here are pure and synchronous; nothing in this package
// touches the network or the database.
package policy

import "strings"

// Role is the closed enumeration of account roles. Authorization
// decisions switch over this type rather than comparing raw strings,
// so adding a role is a compile-time visible change at every decision
// point.
type Role uint8

const (
	// RoleUnknown is the zero value and matches no permission set.
	// Unrecognized role strings parse to it instead of failing.
	RoleUnknown Role = iota
	RoleAdmin
	RoleDriver
	RoleCustomer
)

// ParseRole maps a stored role string (users.user_type or a JWT role
// claim) to a Role. Matching is case-insensitive; anything outside the
// closed set yields RoleUnknown.
func ParseRole(s string) Role {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "admin":
		return RoleAdmin
	case "driver":
		return RoleDriver
	case "customer":
		return RoleCustomer
	}
	return RoleUnknown
}

// String returns the wire form of the role, matching the values stored
// in the users table.
func (r Role) String() string {
	switch r {
	case RoleAdmin:
		return "admin"
	case RoleDriver:
		return "driver"
	case RoleCustomer:
		return "customer"
	}
	return "unknown"
}

// MarshalJSON encodes the role as its wire string so responses carry
// "admin" rather than a numeric tag.
func (r Role) MarshalJSON() ([]byte, error) {
	return []byte(`"` + r.String() + `"`), nil
}

// UnmarshalJSON accepts the wire string form; unknown values decode to
// RoleUnknown without error, mirroring ParseRole.
func (r *Role) UnmarshalJSON(b []byte) error {
	*r = ParseRole(strings.Trim(string(b), `"`))
	return nil
}
