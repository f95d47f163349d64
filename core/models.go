package core

import "time"

// User is the identity the auth provider vouches for.
//
// It is never stored by this system; it is derived per request from the
// session credential.
type User struct {
	ID            string    `json:"id"`
	Email         string    `json:"email"`
	EmailVerified bool      `json:"emailVerified"`
	CreatedAt     time.Time `json:"createdAt"`
}

// Profile is the application-owned record linking an auth identity to
// domain data. A todo is owned by a profile, not by the provider user
// directly.
type Profile struct {
	ID        string    `json:"id"` // matches the provider user id
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Session is the per-request proof of an authenticated identity.
//
// The access token is opaque to this system; the provider issues and
// refreshes it. ExpiresAt is the access token expiry, used to decide
// when a transparent refresh is due.
type Session struct {
	AccessToken  string    `json:"-"`
	RefreshToken string    `json:"-"`
	UserID       string    `json:"userId"`
	Email        string    `json:"email"`
	ExpiresAt    time.Time `json:"expiresAt"`
}

// SessionData combines the session with the resolved user.
// The model handlers read from the request context.
type SessionData struct {
	User    *User    `json:"user"`
	Session *Session `json:"session"`
}

// Todo is the persistent entity of the todo list.
//
// Invariant: a todo is only visible to and mutable by its owning user.
type Todo struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Description *string   `json:"description"`
	Completed   bool      `json:"completed"`
	UserID      string    `json:"userId"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// Expired reports whether the session's access token is past its expiry.
// Sessions rebuilt from cookies carry no expiry; those are validated
// against the provider instead of being treated as expired.
func (s *Session) Expired() bool {
	return !s.ExpiresAt.IsZero() && time.Now().After(s.ExpiresAt)
}

// NeedsRefresh reports whether the session is within the refresh window
// and should be transparently renewed before use.
func (s *Session) NeedsRefresh(window time.Duration) bool {
	return !s.ExpiresAt.IsZero() && time.Until(s.ExpiresAt) <= window
}
