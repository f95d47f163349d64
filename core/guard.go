package core

// Decision is the routing guard's verdict for a single request.
type Decision int

const (
	// DecisionPass lets the request through to the page renderer.
	DecisionPass Decision = iota
	// DecisionRedirectLogin sends an unauthenticated visitor of a
	// protected path to the login page.
	DecisionRedirectLogin
	// DecisionRedirectDashboard sends an authenticated visitor of an
	// auth-only page to the dashboard.
	DecisionRedirectDashboard
)

// CurrentPathHeader carries the canonical current path on guard
// redirects, for downstream layout logic.
const CurrentPathHeader = "X-Current-Path"

// Guard is the session-gated routing state machine. It is pure: the
// session lookup happens before Decide is called, exactly once per
// request, so a single request never triggers two validations.
type Guard struct {
	// FailOpen passes every request through unmodified. Set when the
	// auth provider could not be configured (missing environment), so
	// a local setup without credentials still serves pages. This has
	// security implications in production and is logged at startup.
	FailOpen bool
}

// Decide maps the session lookup result and the requested path to a
// routing decision.
//
// The transition table:
//
//	absent session,  protected path -> redirect to login
//	present session, auth-only path -> redirect to dashboard
//	anything else                   -> pass through
func (g *Guard) Decide(authenticated bool, path string) Decision {
	if g.FailOpen {
		return DecisionPass
	}

	if !authenticated && IsProtectedRoute(path) {
		return DecisionRedirectLogin
	}

	if authenticated && IsAuthRoute(path) {
		return DecisionRedirectDashboard
	}

	return DecisionPass
}

// Target returns the redirect destination for a decision, or "" for a
// pass-through.
func (d Decision) Target() string {
	switch d {
	case DecisionRedirectLogin:
		return RouteLogin
	case DecisionRedirectDashboard:
		return RouteDashboard
	default:
		return ""
	}
}
