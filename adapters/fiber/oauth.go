package fiber

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"time"

	"github.com/gofiber/fiber/v3"

	"github.com/tenonkit/tenon/core"
	"github.com/tenonkit/tenon/provider/google"
	"github.com/tenonkit/tenon/provider/local"
)

const (
	stateCookie = "__oauth_state"
	pkceCookie  = "__oauth_pkce"
	oauthTTL    = 5 * time.Minute
)

// RegisterGoogleRoutes enables the Google sign-in flow. It needs the
// local provider to link verified identities to users, so it is only
// wired in self-hosted mode.
func (a *Adapter) RegisterGoogleRoutes(g *google.Provider, l *local.Provider) {
	a.app.Get("/auth/google", a.handleGoogleStart(g))
	a.app.Get("/auth/google/callback", a.handleGoogleCallback(g, l))
}

func (a *Adapter) handleGoogleStart(g *google.Provider) fiber.Handler {
	return func(c fiber.Ctx) error {
		state := randomToken()
		verifier := randomToken()

		setOAuthCookie(c, stateCookie, state)
		setOAuthCookie(c, pkceCookie, verifier)

		sum := sha256.Sum256([]byte(verifier))
		challenge := base64.RawURLEncoding.EncodeToString(sum[:])

		return c.Redirect().To(g.AuthCodeURL(state, challenge))
	}
}

func (a *Adapter) handleGoogleCallback(g *google.Provider, l *local.Provider) fiber.Handler {
	return func(c fiber.Ctx) error {
		state := c.Query("state")
		if state == "" || state != c.Cookies(stateCookie) {
			a.log.Warn("google callback state mismatch")
			return c.Redirect().To(core.RouteLogin + "?failed=true")
		}

		code := c.Query("code")
		verifier := c.Cookies(pkceCookie)
		c.ClearCookie(stateCookie, pkceCookie)
		if code == "" || verifier == "" {
			return c.Redirect().To(core.RouteLogin + "?failed=true")
		}

		identity, err := g.ExchangeCode(c.Context(), code, verifier)
		if err != nil {
			a.log.Warn("google code exchange failed", "error", err)
			return c.Redirect().To(core.RouteLogin + "?failed=true")
		}

		session, err := l.SignInWithIdentity(c.Context(), *identity)
		if err != nil {
			a.log.Error("identity sign-in failed", "error", err)
			return c.Redirect().To(core.RouteLogin + "?failed=true")
		}

		setSessionCookies(c, session)
		return c.Redirect().To(core.RouteDashboard)
	}
}

func setOAuthCookie(c fiber.Ctx, name, value string) {
	c.Cookie(&fiber.Cookie{
		Name:     name,
		Value:    value,
		Path:     "/",
		MaxAge:   int(oauthTTL.Seconds()),
		HTTPOnly: true,
		SameSite: fiber.CookieSameSiteLaxMode,
	})
}

func randomToken() string {
	b := make([]byte, 32)
	_, _ = rand.Read(b)
	return base64.RawURLEncoding.EncodeToString(b)
}
