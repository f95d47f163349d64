package core

import (
	"context"
	"time"
)

// Ports define interfaces for external dependencies

// ============================================
// AUTH PROVIDER PORT
// ============================================

// Credentials are the email/password pair handed to the provider.
type Credentials struct {
	Email    string
	Password string
}

// AuthProvider is the hosted auth backend collaborator. It owns
// credential storage, token issuance and refresh, and the OAuth code
// exchange; this system never sees raw credentials after delegation.
//
// Implementations return identity facts only and must not perform
// routing or profile management.
type AuthProvider interface {
	// SignUp registers the credentials. The provider sends the
	// confirmation mail pointing at redirectTo.
	SignUp(ctx context.Context, creds Credentials, redirectTo string) error

	// SignInWithPassword exchanges credentials for a session.
	SignInWithPassword(ctx context.Context, creds Credentials) (*Session, error)

	// SignOut revokes the session behind the access token.
	SignOut(ctx context.Context, accessToken string) error

	// ResetPasswordForEmail sends a recovery mail pointing at redirectTo.
	ResetPasswordForEmail(ctx context.Context, email, redirectTo string) error

	// UpdatePassword sets a new password for the session's user.
	UpdatePassword(ctx context.Context, accessToken, newPassword string) error

	// ExchangeCode trades an auth callback code for a session.
	ExchangeCode(ctx context.Context, code string) (*Session, error)

	// GetUser validates the access token and resolves its identity.
	GetUser(ctx context.Context, accessToken string) (*User, error)

	// RefreshSession trades a refresh token for a renewed session.
	RefreshSession(ctx context.Context, refreshToken string) (*Session, error)
}

// ============================================
// STORAGE PORTS (Database operations)
// ============================================

// TodoStorage defines todo-related database operations.
type TodoStorage interface {
	CreateTodo(ctx context.Context, t *Todo) error
	GetTodoByID(ctx context.Context, id string) (*Todo, error)
	// ListTodosByUser returns the user's todos ordered by creation
	// time descending.
	ListTodosByUser(ctx context.Context, userID string) ([]*Todo, error)
	UpdateTodo(ctx context.Context, t *Todo) error
	DeleteTodo(ctx context.Context, id string) error
}

// ProfileStorage defines profile-related database operations.
type ProfileStorage interface {
	CreateProfile(ctx context.Context, p *Profile) error
	GetProfileByID(ctx context.Context, id string) (*Profile, error)
	DeleteProfile(ctx context.Context, id string) error
}

// Storage is the full relational port the application wires in.
type Storage interface {
	TodoStorage
	ProfileStorage
}

// ============================================
// SESSION CACHE PORT
// ============================================

// SessionCache caches validated sessions keyed by token hash so the
// guard does not hit the provider on every request.
type SessionCache interface {
	Get(ctx context.Context, tokenHash string) (*SessionData, error)
	Set(ctx context.Context, tokenHash string, data *SessionData) error
	Delete(ctx context.Context, tokenHash string) error
	Clear(ctx context.Context) error
}

// CacheWithStats extends SessionCache with statistics tracking.
type CacheWithStats interface {
	SessionCache
	Stats() CacheStats
}

// CacheConfig configures cache behavior.
type CacheConfig struct {
	TTL     time.Duration
	MaxSize int
}

// CacheStats tracks cache performance counters.
type CacheStats struct {
	Hits      int64         `json:"hits"`
	Misses    int64         `json:"misses"`
	Sets      int64         `json:"sets"`
	Deletes   int64         `json:"deletes"`
	Evictions int64         `json:"evictions"`
	Size      int           `json:"size"`
	TTL       time.Duration `json:"ttl"`
}

// ============================================
// REVALIDATION PORT
// ============================================

// Revalidator invalidates any cached rendering of a path after a
// mutation, so the next read is authoritative.
type Revalidator interface {
	RevalidatePath(path string)
}

// RevalidatorFunc adapts a function to the Revalidator port.
type RevalidatorFunc func(path string)

func (f RevalidatorFunc) RevalidatePath(path string) { f(path) }
