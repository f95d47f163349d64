package core

import "testing"

func TestGuard_Decide(t *testing.T) {
	guard := &Guard{}

	tests := []struct {
		name          string
		authenticated bool
		path          string
		want          Decision
	}{
		{"unauthenticated protected dashboard", false, RouteDashboard, DecisionRedirectLogin},
		{"unauthenticated protected todos", false, RouteTodos, DecisionRedirectLogin},
		{"unauthenticated protected profile", false, RouteProfile, DecisionRedirectLogin},
		{"unauthenticated protected settings", false, RouteSettings, DecisionRedirectLogin},
		{"unauthenticated protected reset-password", false, RouteResetPassword, DecisionRedirectLogin},
		{"unauthenticated auth login", false, RouteLogin, DecisionPass},
		{"unauthenticated auth signup", false, RouteSignup, DecisionPass},
		{"unauthenticated public home", false, RouteHome, DecisionPass},
		{"unauthenticated public docs", false, RouteDocs, DecisionPass},
		{"unauthenticated public features", false, RouteFeatures, DecisionPass},
		{"authenticated protected dashboard", true, RouteDashboard, DecisionPass},
		{"authenticated protected todos", true, RouteTodos, DecisionPass},
		{"authenticated auth login", true, RouteLogin, DecisionRedirectDashboard},
		{"authenticated auth signup", true, RouteSignup, DecisionRedirectDashboard},
		{"authenticated auth forgot-password", true, RouteForgotPassword, DecisionRedirectDashboard},
		{"authenticated public home", true, RouteHome, DecisionPass},
		{"unknown path unauthenticated", false, "/nonexistent", DecisionPass},
		{"unknown path authenticated", true, "/nonexistent", DecisionPass},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			if got := guard.Decide(test.authenticated, test.path); got != test.want {
				t.Errorf("Decide(%v, %q) = %v, want %v", test.authenticated, test.path, got, test.want)
			}
		})
	}
}

func TestGuard_FailOpen(t *testing.T) {
	guard := &Guard{FailOpen: true}

	paths := append(append([]string{}, ProtectedRoutes...), AuthRoutes...)
	for _, path := range paths {
		for _, authenticated := range []bool{false, true} {
			if got := guard.Decide(authenticated, path); got != DecisionPass {
				t.Errorf("Decide(%v, %q) = %v, want DecisionPass", authenticated, path, got)
			}
		}
	}
}

func TestDecision_Target(t *testing.T) {
	tests := []struct {
		decision Decision
		want     string
	}{
		{DecisionPass, ""},
		{DecisionRedirectLogin, RouteLogin},
		{DecisionRedirectDashboard, RouteDashboard},
	}

	for _, test := range tests {
		if got := test.decision.Target(); got != test.want {
			t.Errorf("Target() = %q, want %q", got, test.want)
		}
	}
}
