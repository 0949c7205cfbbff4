package policy

// GuardState is the route guard's decision for one render pass. The
// guard distinguishes "not logged in" (redirect to login) from
// "logged in but forbidden" (redirect to the unauthorized page).
type GuardState uint8

const (
	// StateLoading is the initial state while the session store is
	// still resolving the persisted principal.
	StateLoading GuardState = iota
	// StateUnauthenticated means no principal resolved; the caller
	// should redirect to the login route.
	StateUnauthenticated
	// StateAllowed means the principal's role satisfies the route's
	// allowed-role set and the protected content may render.
	StateAllowed
	// StateDenied means a principal exists but its role is not
	// permitted; redirect to the unauthorized page, not to login.
	StateDenied
)

// String returns a short name for logging.
func (s GuardState) String() string {
	switch s {
	case StateUnauthenticated:
		return "unauthenticated"
	case StateAllowed:
		return "allowed"
	case StateDenied:
		return "denied"
	}
	return "loading"
}

// Guard evaluates access for a single target route. A fresh Guard
// starts in StateLoading and transitions exactly once when the session
// resolves. Evaluation is local and synchronous; there are no retries.
type Guard struct {
	state GuardState
}

// NewGuard returns a guard in StateLoading.
func NewGuard() *Guard {
	return &Guard{state: StateLoading}
}

// State returns the current state.
func (g *Guard) State() GuardState {
	return g.state
}

// Resolve feeds the session result into the guard and returns the
// resulting state. authenticated=false models "no principal"; in that
// case the route's allowed-role set is irrelevant and the guard always
// lands in StateUnauthenticated.
func (g *Guard) Resolve(role Role, authenticated bool, routeRoles []Role) GuardState {
	switch {
	case !authenticated:
		g.state = StateUnauthenticated
	case IsRouteAllowed(role, routeRoles):
		g.state = StateAllowed
	default:
		g.state = StateDenied
	}
	return g.state
}

// Decide is the stateless form of Resolve for callers that do not
// need the Loading phase, such as HTTP middleware.
func Decide(role Role, authenticated bool, routeRoles []Role) GuardState {
	return NewGuard().Resolve(role, authenticated, routeRoles)
}
