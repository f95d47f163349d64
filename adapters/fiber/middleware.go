package fiber

import (
	"strings"

	"github.com/gofiber/fiber/v3"

	"github.com/tenonkit/tenon/core"
)

// Context keys for the resolved session.
const (
	localUser    = "user"
	localSession = "session"
)

// errNoSession is what the JSON API answers when the session is missing
// or invalid.
var errNoSession = &core.Error{Kind: core.KindUnauthorized, Message: core.ErrUnauthorized.Error()}

// RouteGuard resolves the session once per request and applies the
// routing state machine to page navigations. API routes are skipped;
// they answer 401 in JSON rather than redirecting.
func (a *Adapter) RouteGuard() fiber.Handler {
	return func(c fiber.Ctx) error {
		path := c.Path()
		if strings.HasPrefix(path, "/api/") || path == core.RouteAuthCallback {
			return c.Next()
		}

		authenticated := false
		if session := sessionFromCookies(c); session != nil {
			data, refreshed, err := a.sessions.Resolve(c.Context(), session)
			if err == nil {
				authenticated = true
				c.Locals(localUser, data.User)
				c.Locals(localSession, data.Session)
				if refreshed != nil {
					setSessionCookies(c, refreshed)
				}
			} else {
				a.log.Debug("session resolution failed", "path", path, "error", err)
			}
		}

		c.Set(core.CurrentPathHeader, path)

		decision := a.guard.Decide(authenticated, path)
		if target := decision.Target(); target != "" {
			return c.Redirect().To(target)
		}
		return c.Next()
	}
}

// requireSession gates the JSON API. A missing or invalid session gets
// the unauthorized envelope, never a redirect.
func (a *Adapter) requireSession(c fiber.Ctx) error {
	session := sessionFromCookies(c)
	if session == nil {
		return respondError(c, errNoSession)
	}

	data, refreshed, err := a.sessions.Resolve(c.Context(), session)
	if err != nil {
		return respondError(c, errNoSession)
	}

	c.Locals(localUser, data.User)
	c.Locals(localSession, data.Session)
	if refreshed != nil {
		setSessionCookies(c, refreshed)
	}
	return c.Next()
}

func currentUser(c fiber.Ctx) *core.User {
	user, _ := c.Locals(localUser).(*core.User)
	return user
}

func currentSession(c fiber.Ctx) *core.Session {
	session, _ := c.Locals(localSession).(*core.Session)
	return session
}
