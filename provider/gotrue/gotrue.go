// Package gotrue is the client for a GoTrue-style hosted auth backend.
// The backend owns credential storage, token issuance and refresh, and
// the OAuth code exchange; this client only moves identity facts.
package gotrue

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/tenonkit/tenon/core"
)

const defaultTimeout = 10 * time.Second

type Provider struct {
	baseURL string
	anonKey string
	client  *http.Client
}

var _ core.AuthProvider = (*Provider)(nil)

func New(baseURL, anonKey string) (*Provider, error) {
	if baseURL == "" || anonKey == "" {
		return nil, errors.New("gotrue provider requires a base URL and an anon key")
	}
	return &Provider{
		baseURL: baseURL,
		anonKey: anonKey,
		client:  &http.Client{Timeout: defaultTimeout},
	}, nil
}

// session is the token payload GoTrue returns.
type session struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	ExpiresIn    int64  `json:"expires_in"`
	User         user   `json:"user"`
}

type user struct {
	ID               string    `json:"id"`
	Email            string    `json:"email"`
	EmailConfirmedAt time.Time `json:"email_confirmed_at"`
	CreatedAt        time.Time `json:"created_at"`
}

// apiError covers both error shapes the backend emits.
type apiError struct {
	Code             string `json:"error_code"`
	Msg              string `json:"msg"`
	Error_           string `json:"error"`
	ErrorDescription string `json:"error_description"`
}

func (e *apiError) message() string {
	switch {
	case e.Msg != "":
		return e.Msg
	case e.ErrorDescription != "":
		return e.ErrorDescription
	case e.Error_ != "":
		return e.Error_
	default:
		return "unknown provider error"
	}
}

func (e *apiError) code() string {
	if e.Code != "" {
		return e.Code
	}
	return e.Error_
}

func (p *Provider) do(ctx context.Context, method, path string, query url.Values, body any, bearer string, out any) error {
	endpoint := p.baseURL + path
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to encode request: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, reader)
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}

	req.Header.Set("apikey", p.anonKey)
	req.Header.Set("Content-Type", "application/json")
	if bearer == "" {
		bearer = p.anonKey
	}
	req.Header.Set("Authorization", "Bearer "+bearer)

	resp, err := p.client.Do(req)
	if err != nil {
		return core.ProviderError("unreachable", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		var apiErr apiError
		_ = json.NewDecoder(resp.Body).Decode(&apiErr)
		return core.ProviderError(apiErr.code(), fmt.Errorf("%s (status %d)", apiErr.message(), resp.StatusCode))
	}

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return core.ProviderError("bad_response", err)
		}
	}
	return nil
}

func (s *session) toCore() *core.Session {
	return &core.Session{
		AccessToken:  s.AccessToken,
		RefreshToken: s.RefreshToken,
		UserID:       s.User.ID,
		Email:        s.User.Email,
		ExpiresAt:    time.Now().Add(time.Duration(s.ExpiresIn) * time.Second),
	}
}

func (p *Provider) SignUp(ctx context.Context, creds core.Credentials, redirectTo string) error {
	query := url.Values{}
	if redirectTo != "" {
		query.Set("redirect_to", redirectTo)
	}
	body := map[string]string{"email": creds.Email, "password": creds.Password}
	return p.do(ctx, http.MethodPost, "/auth/v1/signup", query, body, "", nil)
}

func (p *Provider) SignInWithPassword(ctx context.Context, creds core.Credentials) (*core.Session, error) {
	query := url.Values{"grant_type": {"password"}}
	body := map[string]string{"email": creds.Email, "password": creds.Password}

	var s session
	if err := p.do(ctx, http.MethodPost, "/auth/v1/token", query, body, "", &s); err != nil {
		return nil, err
	}
	return s.toCore(), nil
}

func (p *Provider) SignOut(ctx context.Context, accessToken string) error {
	return p.do(ctx, http.MethodPost, "/auth/v1/logout", nil, nil, accessToken, nil)
}

func (p *Provider) ResetPasswordForEmail(ctx context.Context, email, redirectTo string) error {
	query := url.Values{}
	if redirectTo != "" {
		query.Set("redirect_to", redirectTo)
	}
	return p.do(ctx, http.MethodPost, "/auth/v1/recover", query, map[string]string{"email": email}, "", nil)
}

func (p *Provider) UpdatePassword(ctx context.Context, accessToken, newPassword string) error {
	return p.do(ctx, http.MethodPut, "/auth/v1/user", nil, map[string]string{"password": newPassword}, accessToken, nil)
}

func (p *Provider) ExchangeCode(ctx context.Context, code string) (*core.Session, error) {
	query := url.Values{"grant_type": {"pkce"}}
	body := map[string]string{"auth_code": code}

	var s session
	if err := p.do(ctx, http.MethodPost, "/auth/v1/token", query, body, "", &s); err != nil {
		return nil, err
	}
	return s.toCore(), nil
}

func (p *Provider) GetUser(ctx context.Context, accessToken string) (*core.User, error) {
	var u user
	if err := p.do(ctx, http.MethodGet, "/auth/v1/user", nil, nil, accessToken, &u); err != nil {
		return nil, err
	}
	return &core.User{
		ID:            u.ID,
		Email:         u.Email,
		EmailVerified: !u.EmailConfirmedAt.IsZero(),
		CreatedAt:     u.CreatedAt,
	}, nil
}

func (p *Provider) RefreshSession(ctx context.Context, refreshToken string) (*core.Session, error) {
	query := url.Values{"grant_type": {"refresh_token"}}
	body := map[string]string{"refresh_token": refreshToken}

	var s session
	if err := p.do(ctx, http.MethodPost, "/auth/v1/token", query, body, "", &s); err != nil {
		return nil, err
	}
	return s.toCore(), nil
}
