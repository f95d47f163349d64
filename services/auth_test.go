package services

import (
	"context"
	"errors"
	"testing"

	"github.com/tenonkit/tenon/core"
)

func newAuthService(provider *FakeAuthProvider) *AuthService {
	sm := NewSessionManager(provider, nil, 0)
	return NewAuthService(provider, sm, "http://localhost:3000", nil)
}

// Requirement: Signup validates before contacting the provider and maps
// provider outcomes to a two-valued result.
func TestAuthService_Signup(t *testing.T) {
	tests := []struct {
		name      string
		form      core.SignupForm
		setup     func(*FakeAuthProvider)
		wantCode  ResponseCode
		wantField string
	}{
		{
			name: "succeeds for valid input",
			form: core.SignupForm{
				Email:           "alice@example.com",
				Password:        "SecurePass123!",
				ConfirmPassword: "SecurePass123!",
			},
			wantCode: Success,
		},
		{
			name: "rejects invalid email",
			form: core.SignupForm{
				Email:           "not-an-email",
				Password:        "SecurePass123!",
				ConfirmPassword: "SecurePass123!",
			},
			wantCode:  Failure,
			wantField: "email",
		},
		{
			name: "rejects short password",
			form: core.SignupForm{
				Email:           "alice@example.com",
				Password:        "short",
				ConfirmPassword: "short",
			},
			wantCode:  Failure,
			wantField: "password",
		},
		{
			name: "rejects mismatched confirmation with confirmPassword-scoped message",
			form: core.SignupForm{
				Email:           "alice@example.com",
				Password:        "SecurePass123!",
				ConfirmPassword: "Different123!",
			},
			wantCode:  Failure,
			wantField: "confirmPassword",
		},
		{
			name: "folds provider failure into generic failure message",
			form: core.SignupForm{
				Email:           "alice@example.com",
				Password:        "SecurePass123!",
				ConfirmPassword: "SecurePass123!",
			},
			setup: func(p *FakeAuthProvider) {
				p.signUpErr = errors.New("backend down")
			},
			wantCode: Failure,
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			provider := NewFakeAuthProvider()
			if test.setup != nil {
				test.setup(provider)
			}
			service := newAuthService(provider)

			result := service.Signup(context.Background(), test.form)

			if result.Code != test.wantCode {
				t.Fatalf("Signup() code = %v, want %v (message %q)", result.Code, test.wantCode, result.Message)
			}
			if result.Field != test.wantField {
				t.Errorf("Signup() field = %q, want %q", result.Field, test.wantField)
			}
			if result.Code == Failure && result.Message == "" {
				t.Error("Signup() failure should carry a user-facing message")
			}
		})
	}
}

// Requirement: validation failures never reach the provider.
func TestAuthService_Signup_ValidationShortCircuits(t *testing.T) {
	provider := NewFakeAuthProvider()
	provider.signUpErr = errors.New("must not be called")
	service := newAuthService(provider)

	result := service.Signup(context.Background(), core.SignupForm{
		Email:           "alice@example.com",
		Password:        "SecurePass123!",
		ConfirmPassword: "Different123!",
	})

	if result.Code != Failure {
		t.Fatalf("Signup() code = %v, want Failure", result.Code)
	}
	if result.Message != "Passwords do not match" {
		t.Errorf("Signup() message = %q, want validation message", result.Message)
	}
	if _, ok := provider.users["alice@example.com"]; ok {
		t.Error("Signup() contacted the provider despite validation failure")
	}
}

// Requirement: Login redirects to the dashboard on success instead of
// returning a plain result, and reports invalid credentials otherwise.
func TestAuthService_Login(t *testing.T) {
	tests := []struct {
		name         string
		form         core.LoginForm
		setup        func(*FakeAuthProvider)
		wantCode     ResponseCode
		wantRedirect string
		wantSession  bool
	}{
		{
			name: "redirects to dashboard with a session on success",
			form: core.LoginForm{Email: "alice@example.com", Password: "SecurePass123!"},
			setup: func(p *FakeAuthProvider) {
				p.Seed("alice@example.com", "SecurePass123!")
			},
			wantCode:     Success,
			wantRedirect: core.RouteDashboard,
			wantSession:  true,
		},
		{
			name: "fails with invalid credentials",
			form: core.LoginForm{Email: "alice@example.com", Password: "wrong"},
			setup: func(p *FakeAuthProvider) {
				p.Seed("alice@example.com", "SecurePass123!")
			},
			wantCode: Failure,
		},
		{
			name:     "fails for unknown user",
			form:     core.LoginForm{Email: "nobody@example.com", Password: "whatever"},
			wantCode: Failure,
		},
		{
			name:     "rejects invalid email before the provider",
			form:     core.LoginForm{Email: "nope", Password: "whatever"},
			wantCode: Failure,
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			provider := NewFakeAuthProvider()
			if test.setup != nil {
				test.setup(provider)
			}
			service := newAuthService(provider)

			result := service.Login(context.Background(), test.form)

			if result.Code != test.wantCode {
				t.Fatalf("Login() code = %v, want %v", result.Code, test.wantCode)
			}
			if result.RedirectTo != test.wantRedirect {
				t.Errorf("Login() redirect = %q, want %q", result.RedirectTo, test.wantRedirect)
			}
			if test.wantSession && result.Session == nil {
				t.Error("Login() should return a session for the response cookie")
			}
			if result.Code == Failure && result.Message != "Invalid credentials" && result.Field == "" {
				t.Errorf("Login() failure message = %q", result.Message)
			}
		})
	}
}

// Requirement: ResetPassword enforces the password schema and the
// confirmation match before contacting the provider.
func TestAuthService_ResetPassword(t *testing.T) {
	provider := NewFakeAuthProvider()
	provider.Seed("alice@example.com", "OldPass1234")
	service := newAuthService(provider)

	session, err := provider.SignInWithPassword(context.Background(), core.Credentials{
		Email:    "alice@example.com",
		Password: "OldPass1234",
	})
	if err != nil {
		t.Fatalf("sign in: %v", err)
	}

	mismatch := service.ResetPassword(context.Background(), session, core.ResetPasswordForm{
		Password:        "NewPass1234",
		ConfirmPassword: "Oops",
	})
	if mismatch.Code != Failure || mismatch.Field != "confirmPassword" {
		t.Fatalf("ResetPassword() mismatch result = %+v", mismatch)
	}

	ok := service.ResetPassword(context.Background(), session, core.ResetPasswordForm{
		Password:        "NewPass1234",
		ConfirmPassword: "NewPass1234",
	})
	if ok.Code != Success || ok.Message != "Password changed successfully" {
		t.Fatalf("ResetPassword() result = %+v", ok)
	}

	if provider.users["alice@example.com"].password != "NewPass1234" {
		t.Error("ResetPassword() did not reach the provider")
	}
}

// Requirement: Logout is defensive and always returns a result.
func TestAuthService_Logout(t *testing.T) {
	provider := NewFakeAuthProvider()
	provider.Seed("alice@example.com", "SecurePass123!")
	service := newAuthService(provider)

	session, _ := provider.SignInWithPassword(context.Background(), core.Credentials{
		Email:    "alice@example.com",
		Password: "SecurePass123!",
	})

	result := service.Logout(context.Background(), session)
	if result.Code != Success {
		t.Fatalf("Logout() result = %+v", result)
	}

	provider.signOutErr = errors.New("backend down")
	session2, _ := provider.SignInWithPassword(context.Background(), core.Credentials{
		Email:    "alice@example.com",
		Password: "SecurePass123!",
	})

	result = service.Logout(context.Background(), session2)
	if result.Code != Failure || result.Message != "Failed to logout! Please try again" {
		t.Fatalf("Logout() failure result = %+v", result)
	}
}

// Requirement: ForgotPassword asks the provider for a recovery mail
// aimed at the reset-password page.
func TestAuthService_ForgotPassword(t *testing.T) {
	provider := NewFakeAuthProvider()
	service := newAuthService(provider)

	result := service.ForgotPassword(context.Background(), core.ForgotPasswordForm{
		Email: "alice@example.com",
	})
	if result.Code != Success {
		t.Fatalf("ForgotPassword() result = %+v", result)
	}
	if len(provider.recoverCalls) != 1 || provider.recoverCalls[0] != "alice@example.com" {
		t.Errorf("ForgotPassword() recover calls = %v", provider.recoverCalls)
	}

	bad := service.ForgotPassword(context.Background(), core.ForgotPasswordForm{Email: "nope"})
	if bad.Code != Failure || bad.Field != "email" {
		t.Fatalf("ForgotPassword() invalid email result = %+v", bad)
	}
}
