// Package local is a self-hosted core.AuthProvider for deployments
// without a hosted auth backend. Credentials are argon2id-hashed,
// sessions are opaque tokens stored by hash only.
package local

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/tenonkit/tenon/core"
	"github.com/tenonkit/tenon/pkg/crypto"
)

// ProviderID tags credential accounts created by this provider.
const ProviderID = "credential"

const (
	defaultMaxAge  = time.Hour
	codeTTL        = 10 * time.Minute
	refreshTokenID = "refresh"
)

// Account is an authentication method attached to a user: the
// credential proving who someone is, as opposed to the identity itself.
type Account struct {
	ID         string
	UserID     string
	ProviderID string // "credential", "google"
	AccountID  string
	Password   *string // argon2id hash, nil for OAuth accounts
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// Session is the stored server-side session. Only token hashes are
// persisted; raw tokens exist client-side.
type Session struct {
	ID          string
	UserID      string
	TokenHash   string
	RefreshHash string
	ExpiresAt   time.Time
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// UserStorage defines user-related database operations.
type UserStorage interface {
	CreateUser(ctx context.Context, u *core.User) error
	GetUserByID(ctx context.Context, id string) (*core.User, error)
	GetUserByEmail(ctx context.Context, email string) (*core.User, error)
}

// AccountStorage defines account-related database operations.
type AccountStorage interface {
	CreateAccount(ctx context.Context, a *Account) error
	GetAccountByUserAndProvider(ctx context.Context, userID, providerID string) ([]*Account, error)
	UpdateAccount(ctx context.Context, a *Account) error
}

// SessionStorage defines session-related database operations.
type SessionStorage interface {
	CreateSession(ctx context.Context, s *Session) error
	GetSessionByTokenHash(ctx context.Context, tokenHash string) (*Session, error)
	GetSessionByRefreshHash(ctx context.Context, refreshHash string) (*Session, error)
	UpdateSession(ctx context.Context, s *Session) error
	DeleteSessionByTokenHash(ctx context.Context, tokenHash string) error
	DeleteExpiredSessions(ctx context.Context) (int, error)
}

// Storage is the full relational port the local provider needs. It
// includes core.ProfileStorage because in self-hosted mode the
// application owns identity: the provider provisions the profile row
// the todo actions gate on, the way a hosted backend does with a
// database trigger.
type Storage interface {
	UserStorage
	AccountStorage
	SessionStorage
	core.ProfileStorage
}

// Identity is a verified external identity, as returned by an OAuth
// provider after code exchange.
type Identity struct {
	Provider       string
	ProviderUserID string
	Email          string
	EmailVerified  bool
}

type Provider struct {
	db        Storage
	passwords crypto.PasswordHandler
	nanoid    *crypto.NanoIDGenerator
	maxAge    time.Duration

	// One-time auth codes for the callback flow. Single-process by
	// design; a hosted provider owns this in production.
	codesMu sync.Mutex
	codes   map[string]pendingCode
}

type pendingCode struct {
	userID    string
	expiresAt time.Time
}

var _ core.AuthProvider = (*Provider)(nil)

func New(db Storage, passwords crypto.PasswordHandler, maxAge time.Duration) *Provider {
	if passwords == nil {
		passwords = crypto.NewArgon2()
	}
	if maxAge <= 0 {
		maxAge = defaultMaxAge
	}
	nanoid, _ := crypto.NewNanoID()
	return &Provider{
		db:        db,
		passwords: passwords,
		nanoid:    nanoid,
		maxAge:    maxAge,
		codes:     make(map[string]pendingCode),
	}
}

func (p *Provider) SignUp(ctx context.Context, creds core.Credentials, _ string) error {
	existing, err := p.db.GetUserByEmail(ctx, creds.Email)
	if err != nil && err != core.ErrUserNotFound {
		return fmt.Errorf("failed to check existing user: %w", err)
	}
	if existing != nil {
		return core.ErrUserExists
	}

	hashed, err := p.passwords.Hash(creds.Password)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	user := &core.User{Email: creds.Email, EmailVerified: true}
	if err := p.db.CreateUser(ctx, user); err != nil {
		return fmt.Errorf("failed to create user: %w", err)
	}

	account := &Account{
		UserID:     user.ID,
		ProviderID: ProviderID,
		AccountID:  user.ID,
		Password:   &hashed,
	}
	if err := p.db.CreateAccount(ctx, account); err != nil {
		return fmt.Errorf("failed to create account: %w", err)
	}

	return p.ensureProfile(ctx, user)
}

func (p *Provider) SignInWithPassword(ctx context.Context, creds core.Credentials) (*core.Session, error) {
	user, err := p.db.GetUserByEmail(ctx, creds.Email)
	if err != nil {
		if err == core.ErrUserNotFound {
			return nil, core.ErrInvalidCredentials
		}
		return nil, fmt.Errorf("failed to find user: %w", err)
	}

	accounts, err := p.db.GetAccountByUserAndProvider(ctx, user.ID, ProviderID)
	if err != nil {
		return nil, fmt.Errorf("failed to get account: %w", err)
	}
	if len(accounts) == 0 || accounts[0].Password == nil {
		return nil, core.ErrInvalidCredentials
	}

	valid, err := p.passwords.Verify(creds.Password, *accounts[0].Password)
	if err != nil {
		return nil, fmt.Errorf("failed to verify password: %w", err)
	}
	if !valid {
		return nil, core.ErrInvalidCredentials
	}

	return p.createSession(ctx, user)
}

func (p *Provider) SignOut(ctx context.Context, accessToken string) error {
	if err := p.db.DeleteSessionByTokenHash(ctx, crypto.HashToken(accessToken)); err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}
	return nil
}

// ResetPasswordForEmail issues a one-time code usable on the auth
// callback. Local mode has no mailer; the caller logs the link.
func (p *Provider) ResetPasswordForEmail(ctx context.Context, email, _ string) error {
	user, err := p.db.GetUserByEmail(ctx, email)
	if err != nil {
		// An unknown address gets the same silence as a known one.
		return nil
	}
	_, err = p.IssueCode(user.ID)
	return err
}

func (p *Provider) UpdatePassword(ctx context.Context, accessToken, newPassword string) error {
	session, err := p.sessionByToken(ctx, accessToken)
	if err != nil {
		return err
	}

	hashed, err := p.passwords.Hash(newPassword)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	accounts, err := p.db.GetAccountByUserAndProvider(ctx, session.UserID, ProviderID)
	if err != nil || len(accounts) == 0 {
		return core.ErrUserNotFound
	}

	account := accounts[0]
	account.Password = &hashed
	account.UpdatedAt = time.Now()
	if err := p.db.UpdateAccount(ctx, account); err != nil {
		return fmt.Errorf("failed to update account: %w", err)
	}
	return nil
}

func (p *Provider) ExchangeCode(ctx context.Context, code string) (*core.Session, error) {
	p.codesMu.Lock()
	pending, ok := p.codes[code]
	if ok {
		delete(p.codes, code)
	}
	p.codesMu.Unlock()

	if !ok || time.Now().After(pending.expiresAt) {
		return nil, core.ErrInvalidToken
	}

	user, err := p.db.GetUserByID(ctx, pending.userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load user: %w", err)
	}
	return p.createSession(ctx, user)
}

func (p *Provider) GetUser(ctx context.Context, accessToken string) (*core.User, error) {
	session, err := p.sessionByToken(ctx, accessToken)
	if err != nil {
		return nil, err
	}
	user, err := p.db.GetUserByID(ctx, session.UserID)
	if err != nil {
		return nil, fmt.Errorf("failed to load user: %w", err)
	}
	return user, nil
}

func (p *Provider) RefreshSession(ctx context.Context, refreshToken string) (*core.Session, error) {
	stored, err := p.db.GetSessionByRefreshHash(ctx, crypto.HashToken(refreshToken))
	if err != nil || stored == nil {
		return nil, core.ErrInvalidToken
	}

	user, err := p.db.GetUserByID(ctx, stored.UserID)
	if err != nil {
		return nil, fmt.Errorf("failed to load user: %w", err)
	}

	// Rotate both tokens and slide the expiry window.
	pair, err := crypto.GenerateHashedToken()
	if err != nil {
		return nil, fmt.Errorf("failed to generate token: %w", err)
	}
	refreshPair, err := crypto.GenerateHashedToken()
	if err != nil {
		return nil, fmt.Errorf("failed to generate token: %w", err)
	}

	now := time.Now()
	stored.TokenHash = pair.Hash
	stored.RefreshHash = refreshPair.Hash
	stored.ExpiresAt = now.Add(p.maxAge)
	stored.UpdatedAt = now

	if err := p.db.UpdateSession(ctx, stored); err != nil {
		return nil, fmt.Errorf("failed to update session: %w", err)
	}

	return &core.Session{
		AccessToken:  pair.Token,
		RefreshToken: refreshPair.Token,
		UserID:       user.ID,
		Email:        user.Email,
		ExpiresAt:    stored.ExpiresAt,
	}, nil
}

// SignInWithIdentity links a verified external identity to a user
// (creating both on first login) and issues a session. The OAuth
// callback uses this after the code exchange.
func (p *Provider) SignInWithIdentity(ctx context.Context, identity Identity) (*core.Session, error) {
	user, err := p.db.GetUserByEmail(ctx, identity.Email)
	if err != nil && err != core.ErrUserNotFound {
		return nil, fmt.Errorf("failed to find user: %w", err)
	}

	if user == nil {
		user = &core.User{Email: identity.Email, EmailVerified: identity.EmailVerified}
		if err := p.db.CreateUser(ctx, user); err != nil {
			return nil, fmt.Errorf("failed to create user: %w", err)
		}
	}

	accounts, err := p.db.GetAccountByUserAndProvider(ctx, user.ID, identity.Provider)
	if err != nil {
		return nil, fmt.Errorf("failed to get account: %w", err)
	}
	if len(accounts) == 0 {
		account := &Account{
			UserID:     user.ID,
			ProviderID: identity.Provider,
			AccountID:  identity.ProviderUserID,
		}
		if err := p.db.CreateAccount(ctx, account); err != nil {
			return nil, fmt.Errorf("failed to create account: %w", err)
		}
	}

	return p.createSession(ctx, user)
}

// ensureProfile provisions the profile row keyed by the user id. Users
// minted before profiles existed get healed on their next sign-in.
func (p *Provider) ensureProfile(ctx context.Context, user *core.User) error {
	if existing, err := p.db.GetProfileByID(ctx, user.ID); err == nil && existing != nil {
		return nil
	}

	now := time.Now()
	profile := &core.Profile{
		ID:        user.ID,
		Email:     user.Email,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := p.db.CreateProfile(ctx, profile); err != nil && err != core.ErrProfileExists {
		return fmt.Errorf("failed to create profile: %w", err)
	}
	return nil
}

// PruneSessions removes expired session rows. Individual lookups
// already delete expired rows on contact; the sweep catches sessions
// nobody ever presents again.
func (p *Provider) PruneSessions(ctx context.Context) (int, error) {
	n, err := p.db.DeleteExpiredSessions(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to prune sessions: %w", err)
	}
	return n, nil
}

// IssueCode mints a one-time auth code for a user, redeemable once via
// ExchangeCode within its TTL.
func (p *Provider) IssueCode(userID string) (string, error) {
	code, err := p.nanoid.Generate(32)
	if err != nil {
		return "", fmt.Errorf("failed to generate code: %w", err)
	}

	p.codesMu.Lock()
	p.codes[code] = pendingCode{userID: userID, expiresAt: time.Now().Add(codeTTL)}
	p.codesMu.Unlock()

	return code, nil
}

func (p *Provider) createSession(ctx context.Context, user *core.User) (*core.Session, error) {
	if err := p.ensureProfile(ctx, user); err != nil {
		return nil, err
	}

	pair, err := crypto.GenerateHashedToken()
	if err != nil {
		return nil, fmt.Errorf("failed to generate token: %w", err)
	}
	refreshPair, err := crypto.GenerateHashedToken()
	if err != nil {
		return nil, fmt.Errorf("failed to generate token: %w", err)
	}
	id, err := p.nanoid.Generate()
	if err != nil {
		return nil, fmt.Errorf("failed to generate id: %w", err)
	}

	now := time.Now()
	stored := &Session{
		ID:          id,
		UserID:      user.ID,
		TokenHash:   pair.Hash,
		RefreshHash: refreshPair.Hash,
		ExpiresAt:   now.Add(p.maxAge),
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := p.db.CreateSession(ctx, stored); err != nil {
		return nil, fmt.Errorf("failed to create session: %w", err)
	}

	return &core.Session{
		AccessToken:  pair.Token,
		RefreshToken: refreshPair.Token,
		UserID:       user.ID,
		Email:        user.Email,
		ExpiresAt:    stored.ExpiresAt,
	}, nil
}

func (p *Provider) sessionByToken(ctx context.Context, accessToken string) (*Session, error) {
	if accessToken == "" {
		return nil, core.ErrInvalidToken
	}

	session, err := p.db.GetSessionByTokenHash(ctx, crypto.HashToken(accessToken))
	if err != nil || session == nil {
		return nil, core.ErrSessionNotFound
	}
	if time.Now().After(session.ExpiresAt) {
		_ = p.db.DeleteSessionByTokenHash(ctx, session.TokenHash)
		return nil, core.ErrSessionExpired
	}
	return session, nil
}
