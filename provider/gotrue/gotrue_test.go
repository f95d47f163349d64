package gotrue

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/tenonkit/tenon/core"
)

func newTestServer(t *testing.T, handler http.HandlerFunc) (*Provider, *httptest.Server) {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	provider, err := New(server.URL, "anon-key")
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	return provider, server
}

// Requirement: the anon key travels as both the apikey header and the
// fallback bearer token.
func TestProvider_Headers(t *testing.T) {
	provider, _ := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("apikey") != "anon-key" {
			t.Errorf("apikey header = %q", r.Header.Get("apikey"))
		}
		if r.Header.Get("Authorization") != "Bearer anon-key" {
			t.Errorf("authorization header = %q", r.Header.Get("Authorization"))
		}
		w.WriteHeader(http.StatusOK)
	})

	if err := provider.SignUp(context.Background(), core.Credentials{
		Email:    "alice@example.com",
		Password: "SecurePass123!",
	}, "http://localhost:3000/auth/callback"); err != nil {
		t.Fatalf("SignUp() error = %v", err)
	}
}

// Requirement: a password grant returns a session with tokens and the
// resolved identity.
func TestProvider_SignInWithPassword(t *testing.T) {
	provider, _ := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/auth/v1/token" {
			t.Errorf("path = %q", r.URL.Path)
		}
		if got := r.URL.Query().Get("grant_type"); got != "password" {
			t.Errorf("grant_type = %q", got)
		}

		var body map[string]string
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			t.Fatalf("decode body: %v", err)
		}
		if body["email"] != "alice@example.com" {
			t.Errorf("email = %q", body["email"])
		}

		json.NewEncoder(w).Encode(map[string]any{
			"access_token":  "access-1",
			"refresh_token": "refresh-1",
			"expires_in":    3600,
			"user": map[string]any{
				"id":    "user-1",
				"email": "alice@example.com",
			},
		})
	})

	session, err := provider.SignInWithPassword(context.Background(), core.Credentials{
		Email:    "alice@example.com",
		Password: "SecurePass123!",
	})
	if err != nil {
		t.Fatalf("SignInWithPassword() error = %v", err)
	}
	if session.AccessToken != "access-1" || session.RefreshToken != "refresh-1" {
		t.Errorf("session tokens = %q / %q", session.AccessToken, session.RefreshToken)
	}
	if session.UserID != "user-1" || session.Email != "alice@example.com" {
		t.Errorf("session identity = %q / %q", session.UserID, session.Email)
	}
	if session.Expired() {
		t.Error("freshly issued session reports expired")
	}
}

// Requirement: backend failures surface as kind-tagged provider errors
// with the generic user-facing message, never the raw provider shape.
func TestProvider_ErrorMapping(t *testing.T) {
	provider, _ := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		json.NewEncoder(w).Encode(map[string]string{
			"error_code": "invalid_credentials",
			"msg":        "Invalid login credentials",
		})
	})

	_, err := provider.SignInWithPassword(context.Background(), core.Credentials{
		Email:    "alice@example.com",
		Password: "wrong",
	})
	if err == nil {
		t.Fatal("SignInWithPassword() accepted a 400 response")
	}
	if core.KindOf(err) != core.KindProvider {
		t.Errorf("kind = %v, want KindProvider", core.KindOf(err))
	}
	if err.Error() != "Something went wrong! Please try again" {
		t.Errorf("user-facing message = %q", err.Error())
	}
}

// Requirement: ExchangeCode uses the pkce grant with the callback code.
func TestProvider_ExchangeCode(t *testing.T) {
	provider, _ := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("grant_type"); got != "pkce" {
			t.Errorf("grant_type = %q", got)
		}
		var body map[string]string
		json.NewDecoder(r.Body).Decode(&body)
		if body["auth_code"] != "code-123" {
			t.Errorf("auth_code = %q", body["auth_code"])
		}
		json.NewEncoder(w).Encode(map[string]any{
			"access_token":  "access-2",
			"refresh_token": "refresh-2",
			"expires_in":    3600,
			"user":          map[string]any{"id": "user-1", "email": "alice@example.com"},
		})
	})

	session, err := provider.ExchangeCode(context.Background(), "code-123")
	if err != nil {
		t.Fatalf("ExchangeCode() error = %v", err)
	}
	if session.AccessToken != "access-2" {
		t.Errorf("access token = %q", session.AccessToken)
	}
}

// Requirement: GetUser authenticates with the session's bearer token.
func TestProvider_GetUser(t *testing.T) {
	provider, _ := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer access-1" {
			t.Errorf("authorization = %q", r.Header.Get("Authorization"))
		}
		json.NewEncoder(w).Encode(map[string]any{
			"id":                 "user-1",
			"email":              "alice@example.com",
			"email_confirmed_at": "2025-01-02T15:04:05Z",
		})
	})

	user, err := provider.GetUser(context.Background(), "access-1")
	if err != nil {
		t.Fatalf("GetUser() error = %v", err)
	}
	if user.ID != "user-1" || !user.EmailVerified {
		t.Errorf("user = %+v", user)
	}
}

func TestNew_RequiresConfig(t *testing.T) {
	if _, err := New("", "key"); err == nil {
		t.Error("New() accepted an empty base URL")
	}
	if _, err := New("http://localhost", ""); err == nil {
		t.Error("New() accepted an empty anon key")
	}
}
