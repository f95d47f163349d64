package services

import (
	"context"
	"log/slog"

	"github.com/tenonkit/tenon/core"
)

// ResponseCode is the two-valued outcome every auth action reports.
type ResponseCode int

const (
	Success ResponseCode = iota
	Failure
)

// AuthResult is the structured outcome of an auth action. No auth
// action ever lets an error escape; provider failures are logged and
// folded into a Failure result with a user-facing message.
type AuthResult struct {
	Code    ResponseCode `json:"code"`
	Message string       `json:"message"`
	// Field names the form field a validation failure is scoped to.
	Field string `json:"field,omitempty"`
}

// LoginResult extends AuthResult with the navigation change a
// successful login causes.
type LoginResult struct {
	AuthResult
	// RedirectTo is the destination after a successful login.
	RedirectTo string `json:"redirectTo,omitempty"`
	// Session is the fresh credential for the response cookie.
	Session *core.Session `json:"-"`
}

// AuthService delegates credential handling to the auth provider and
// maps every outcome to an AuthResult.
type AuthService struct {
	provider core.AuthProvider
	sessions *SessionManager
	// baseURL prefixes the redirect targets embedded in provider mails.
	baseURL string
	log     *slog.Logger
}

func NewAuthService(provider core.AuthProvider, sessions *SessionManager, baseURL string, log *slog.Logger) *AuthService {
	if log == nil {
		log = slog.Default()
	}
	return &AuthService{provider: provider, sessions: sessions, baseURL: baseURL, log: log}
}

func failure(message string) AuthResult {
	return AuthResult{Code: Failure, Message: message}
}

func validationFailure(err error, message string) AuthResult {
	res := failure(message)
	if e, ok := err.(*core.Error); ok {
		res.Message = e.Message
		res.Field = e.Field
	}
	return res
}

// Signup registers a new account with the provider. The provider sends
// the confirmation mail; the user stays unauthenticated until the mail
// link completes the auth callback.
func (s *AuthService) Signup(ctx context.Context, form core.SignupForm) AuthResult {
	if err := form.Validate(); err != nil {
		return validationFailure(err, "Signup failed")
	}

	creds := core.Credentials{Email: form.Email, Password: form.Password}
	redirectTo := s.baseURL + core.RouteAuthCallback

	if err := s.provider.SignUp(ctx, creds, redirectTo); err != nil {
		s.log.Error("signup failed", "error", err)
		return failure("Something went wrong! Please try again")
	}

	return AuthResult{
		Code:    Success,
		Message: "Signup successful! Please check your mail to confirm your account",
	}
}

// Login exchanges credentials for a session. On success the caller
// redirects to the dashboard instead of rendering a response, since a
// login changes navigation context.
func (s *AuthService) Login(ctx context.Context, form core.LoginForm) LoginResult {
	if err := form.Validate(); err != nil {
		return LoginResult{AuthResult: validationFailure(err, "Login failed")}
	}

	creds := core.Credentials{Email: form.Email, Password: form.Password}

	session, err := s.provider.SignInWithPassword(ctx, creds)
	if err != nil {
		s.log.Error("login failed", "error", err)
		return LoginResult{AuthResult: failure("Invalid credentials")}
	}

	return LoginResult{
		AuthResult: AuthResult{Code: Success},
		RedirectTo: core.RouteDashboard,
		Session:    session,
	}
}

// ForgotPassword asks the provider to mail a recovery link that lands
// on the reset-password page via the auth callback.
func (s *AuthService) ForgotPassword(ctx context.Context, form core.ForgotPasswordForm) AuthResult {
	if err := form.Validate(); err != nil {
		return validationFailure(err, "Password reset failed! Please try again")
	}

	redirectTo := s.baseURL + core.RouteAuthCallback + "?redirect_to=" + core.RouteResetPassword

	if err := s.provider.ResetPasswordForEmail(ctx, form.Email, redirectTo); err != nil {
		s.log.Error("forgot-password failed", "error", err)
		return failure("Something went wrong! Please try again")
	}

	return AuthResult{
		Code:    Success,
		Message: "Success! Please check your mail to reset your password",
	}
}

// ResetPassword sets a new password for the current session's user.
func (s *AuthService) ResetPassword(ctx context.Context, session *core.Session, form core.ResetPasswordForm) AuthResult {
	if err := form.Validate(); err != nil {
		return validationFailure(err, "Password reset failed! Please try again")
	}

	if session == nil || session.AccessToken == "" {
		return failure("Something went wrong! Please try again")
	}

	if err := s.provider.UpdatePassword(ctx, session.AccessToken, form.Password); err != nil {
		s.log.Error("reset-password failed", "error", err)
		return failure("Something went wrong! Please try again")
	}

	return AuthResult{Code: Success, Message: "Password changed successfully"}
}

// Logout is defensive: whatever the provider does, the caller always
// gets a result and the client-side cookie is always cleared.
func (s *AuthService) Logout(ctx context.Context, session *core.Session) AuthResult {
	if err := s.sessions.Destroy(ctx, session); err != nil {
		s.log.Error("logout failed", "error", err)
		return failure("Failed to logout! Please try again")
	}

	return AuthResult{Code: Success, Message: "User logged out successfully!"}
}

// ExchangeCode completes the server-side auth flow: it trades the
// callback code for a session.
func (s *AuthService) ExchangeCode(ctx context.Context, code string) (*core.Session, error) {
	session, err := s.provider.ExchangeCode(ctx, code)
	if err != nil {
		s.log.Error("code exchange failed", "error", err)
		return nil, core.ProviderError("exchange_failed", err)
	}
	return session, nil
}
