package fiber

import (
	"time"

	"github.com/gofiber/fiber/v3"

	"github.com/tenonkit/tenon/core"
)

const (
	accessCookie  = "tenon-session"
	refreshCookie = "tenon-refresh"

	// Refresh cookies outlive the access token so an expired session
	// can still be renewed transparently.
	refreshCookieAge = 30 * 24 * time.Hour
)

func setSessionCookies(c fiber.Ctx, session *core.Session) {
	c.Cookie(&fiber.Cookie{
		Name:     accessCookie,
		Value:    session.AccessToken,
		Path:     "/",
		Expires:  session.ExpiresAt,
		HTTPOnly: true,
		SameSite: fiber.CookieSameSiteLaxMode,
	})
	c.Cookie(&fiber.Cookie{
		Name:     refreshCookie,
		Value:    session.RefreshToken,
		Path:     "/",
		Expires:  time.Now().Add(refreshCookieAge),
		HTTPOnly: true,
		SameSite: fiber.CookieSameSiteLaxMode,
	})
}

func clearSessionCookies(c fiber.Ctx) {
	c.ClearCookie(accessCookie, refreshCookie)
}

// sessionFromCookies rebuilds the session view from request cookies.
// Returns nil when neither token is present.
func sessionFromCookies(c fiber.Ctx) *core.Session {
	access := c.Cookies(accessCookie)
	refresh := c.Cookies(refreshCookie)
	if access == "" && refresh == "" {
		return nil
	}
	return &core.Session{
		AccessToken:  access,
		RefreshToken: refresh,
	}
}
