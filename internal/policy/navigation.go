package policy

// NavigationItem describes one sidebar entry of the SPA: the client
// route it links to, its label and icon, and the roles permitted to
// see it. The catalogue is static and defined once at process start.
type NavigationItem struct {
	Path         string `json:"path"`
	Label        string `json:"label"`
	Icon         string `json:"icon"`
	AllowedRoles []Role `json:"allowed_roles"`
}

// navigationItems is the master ordered catalogue. Order is
// significant and preserved by ItemsFor: Dashboard first, then the
// management and resource screens, with Tracking near the end.
var navigationItems = []NavigationItem{
	{Path: "/", Label: "Dashboard", Icon: "fa-home", AllowedRoles: []Role{RoleAdmin, RoleDriver, RoleCustomer}},
	{Path: "/customers", Label: "Customers", Icon: "fa-users", AllowedRoles: []Role{RoleAdmin}},
	{Path: "/shipments", Label: "Shipments", Icon: "fa-truck", AllowedRoles: []Role{RoleAdmin, RoleDriver}},
	{Path: "/vehicles", Label: "Vehicles", Icon: "fa-car", AllowedRoles: []Role{RoleAdmin}},
	{Path: "/drivers", Label: "Drivers", Icon: "fa-id-card", AllowedRoles: []Role{RoleAdmin}},
	{Path: "/locations", Label: "Locations", Icon: "fa-map-marker-alt", AllowedRoles: []Role{RoleAdmin}},
	{Path: "/warehouses", Label: "Warehouses", Icon: "fa-warehouse", AllowedRoles: []Role{RoleAdmin}},
	{Path: "/routes", Label: "Routes", Icon: "fa-route", AllowedRoles: []Role{RoleAdmin}},
	{Path: "/shipment-items", Label: "Shipment Items", Icon: "fa-box", AllowedRoles: []Role{RoleAdmin, RoleDriver}},
	{Path: "/tracking", Label: "Tracking", Icon: "fa-map", AllowedRoles: []Role{RoleAdmin, RoleDriver, RoleCustomer}},
	{Path: "/profile", Label: "Profile", Icon: "fa-user", AllowedRoles: []Role{RoleAdmin}},
}

// Items returns the full master catalogue. Callers must not mutate
// the returned slice.
func Items() []NavigationItem {
	return navigationItems
}

// ItemsFor filters the master catalogue down to the entries visible to
// the given role, preserving catalogue order. RoleUnknown sees an
// empty (non-nil) list rather than an error.
func ItemsFor(role Role) []NavigationItem {
	out := make([]NavigationItem, 0, len(navigationItems))
	for _, item := range navigationItems {
		if roleIn(role, item.AllowedRoles) {
			out = append(out, item)
		}
	}
	return out
}

// IsRouteAllowed reports whether a role may enter a route with the
// given allowed-role set. An empty set means the route is open to any
// authenticated principal.
func IsRouteAllowed(role Role, allowedRoles []Role) bool {
	if len(allowedRoles) == 0 {
		return true
	}
	return roleIn(role, allowedRoles)
}

func roleIn(role Role, set []Role) bool {
	if role == RoleUnknown {
		return false
	}
	for _, r := range set {
		if r == role {
			return true
		}
	}
	return false
}
