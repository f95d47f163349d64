package core

// Client route constants, mirrored by the HTTP adapter.
const (
	RouteHome = "/"

	// app
	RouteDashboard     = "/dashboard"
	RouteResetPassword = "/reset-password"
	RouteDocs          = "/docs"
	RouteTodos         = "/todos"
	RouteFeatures      = "/features"
	RouteSettings      = "/settings"
	RouteProfile       = "/profile"

	// auth
	RouteLogin          = "/login"
	RouteSignup         = "/signup"
	RouteForgotPassword = "/forgot-password"

	// server-side auth flow
	RouteAuthCallback = "/auth/callback"
)

// ProtectedRoutes require a valid session to render.
var ProtectedRoutes = []string{
	RouteDashboard,
	RouteTodos,
	RouteProfile,
	RouteSettings,
	RouteResetPassword,
}

// AuthRoutes are only meaningful to unauthenticated visitors; an
// authenticated user is redirected away from them.
var AuthRoutes = []string{
	RouteLogin,
	RouteSignup,
	RouteForgotPassword,
}

// NavItem describes an entry of the authenticated top navigation.
type NavItem struct {
	Key   string `json:"key"`
	Title string `json:"title"`
	Href  string `json:"href"`
}

var NavItems = []NavItem{
	{Key: "dashboard", Title: "Dashboard", Href: RouteDashboard},
	{Key: "features", Title: "Features", Href: RouteFeatures},
	{Key: "docs", Title: "Docs", Href: RouteDocs},
	{Key: "todos", Title: "Todos", Href: RouteTodos},
}

// IsProtectedRoute reports whether path requires a valid session.
func IsProtectedRoute(path string) bool {
	for _, r := range ProtectedRoutes {
		if r == path {
			return true
		}
	}
	return false
}

// IsAuthRoute reports whether path is an auth-only page.
func IsAuthRoute(path string) bool {
	for _, r := range AuthRoutes {
		if r == path {
			return true
		}
	}
	return false
}
