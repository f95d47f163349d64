package services

import (
	"context"
	"fmt"
	"time"

	"github.com/tenonkit/tenon/core"
	"github.com/tenonkit/tenon/pkg/crypto"
)

// DefaultRefreshWindow is how close to expiry a session may come before
// the manager transparently renews it.
const DefaultRefreshWindow = 5 * time.Minute

// SessionManager validates and transparently refreshes sessions. The
// guard middleware calls Resolve exactly once per request; the result
// travels in the request context so no later layer re-validates.
type SessionManager struct {
	provider      core.AuthProvider
	cache         core.SessionCache // optional, nil disables caching
	refreshWindow time.Duration
}

func NewSessionManager(provider core.AuthProvider, cache core.SessionCache, refreshWindow time.Duration) *SessionManager {
	if refreshWindow <= 0 {
		refreshWindow = DefaultRefreshWindow
	}
	return &SessionManager{provider: provider, cache: cache, refreshWindow: refreshWindow}
}

// Resolve validates the session and renews it when it is near expiry.
//
// The second return value is non-nil when a refresh happened; the
// caller must propagate the renewed credential back to the response so
// subsequent requests carry the fresh session.
func (sm *SessionManager) Resolve(ctx context.Context, session *core.Session) (*core.SessionData, *core.Session, error) {
	if session == nil || (session.AccessToken == "" && session.RefreshToken == "") {
		return nil, nil, core.ErrMissingSession
	}

	var refreshed *core.Session

	// No access token means the access cookie already lapsed; only the
	// longer-lived refresh token survived.
	if session.AccessToken == "" || session.Expired() || session.NeedsRefresh(sm.refreshWindow) {
		renewed, err := sm.refresh(ctx, session)
		if err != nil {
			if session.AccessToken == "" || session.Expired() {
				return nil, nil, core.ErrSessionExpired
			}
			// Still valid, keep serving on the current token. The
			// next request retries the refresh.
		} else {
			refreshed = renewed
			session = renewed
		}
	}

	tokenHash := crypto.HashToken(session.AccessToken)

	if sm.cache != nil && refreshed == nil {
		if data, err := sm.cache.Get(ctx, tokenHash); err == nil && data != nil {
			return data, nil, nil
		}
	}

	user, err := sm.provider.GetUser(ctx, session.AccessToken)
	if err != nil && refreshed == nil {
		// The token may have been invalidated server-side without the
		// client-held expiry knowing. One refresh attempt before giving
		// up keeps long-lived cookies working across token rotation.
		renewed, refreshErr := sm.refresh(ctx, session)
		if refreshErr != nil {
			return nil, nil, core.ErrInvalidToken
		}
		refreshed = renewed
		session = renewed
		tokenHash = crypto.HashToken(session.AccessToken)

		user, err = sm.provider.GetUser(ctx, session.AccessToken)
	}
	if err != nil {
		return nil, nil, core.ErrInvalidToken
	}

	data := &core.SessionData{User: user, Session: session}

	if sm.cache != nil {
		// Caching is best effort; a failed set never fails the request.
		_ = sm.cache.Set(ctx, tokenHash, data)
	}

	return data, refreshed, nil
}

// Destroy revokes the session at the provider and drops it from the
// cache.
func (sm *SessionManager) Destroy(ctx context.Context, session *core.Session) error {
	if session == nil || session.AccessToken == "" {
		return core.ErrMissingSession
	}

	if sm.cache != nil {
		_ = sm.cache.Delete(ctx, crypto.HashToken(session.AccessToken))
	}

	if err := sm.provider.SignOut(ctx, session.AccessToken); err != nil {
		return fmt.Errorf("failed to revoke session: %w", err)
	}
	return nil
}

func (sm *SessionManager) refresh(ctx context.Context, session *core.Session) (*core.Session, error) {
	if session.RefreshToken == "" {
		return nil, core.ErrInvalidToken
	}

	renewed, err := sm.provider.RefreshSession(ctx, session.RefreshToken)
	if err != nil {
		return nil, fmt.Errorf("failed to refresh session: %w", err)
	}

	if sm.cache != nil {
		_ = sm.cache.Delete(ctx, crypto.HashToken(session.AccessToken))
	}

	return renewed, nil
}
