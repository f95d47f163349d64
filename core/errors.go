package core

import (
	"errors"
	"fmt"
)

// Kind classifies boundary errors so callers branch on the kind, never
// on a provider-specific shape.
type Kind int

const (
	KindUnknown Kind = iota
	KindValidation
	KindUnauthorized
	KindNotFoundOrForbidden
	KindProvider
)

// Authentication errors
var (
	ErrInvalidCredentials = errors.New("invalid email or password") // 401 Unauthorized
	ErrUnauthorized       = errors.New("Unauthorized: Please sign in to manage todos")
	ErrProfileNotFound    = errors.New("User profile not found")
)

// Session errors
var (
	ErrMissingSession  = errors.New("missing session cookie") // 401
	ErrInvalidToken    = errors.New("invalid session token")  // 401
	ErrSessionNotFound = errors.New("session not found")      // 401
	ErrSessionExpired  = errors.New("session expired")        // 401
	ErrCacheNotFound   = errors.New("session not found in cache")
)

// Entity errors. The "not found" and "forbidden" cases are deliberately
// merged so a caller cannot probe for the existence of another user's
// todos.
var (
	ErrTodoNotFound     = errors.New("todo not found")
	ErrTodoUpdateDenied = errors.New("Todo not found or you do not have permission to update it")
	ErrTodoDeleteDenied = errors.New("Todo not found or you do not have permission to delete it")
	ErrUserExists       = errors.New("user already exists") // 409 Conflict
	ErrUserNotFound     = errors.New("user not found")      // 404 Not Found
	ErrProfileExists    = errors.New("profile already exists")
)

// Config errors (server-side configuration)
var (
	ErrStorageRequired  = errors.New("storage adapter is required") // 500
	ErrProviderRequired = errors.New("auth provider is required")   // 500
	ErrHTTPRequired     = errors.New("http adapter is required")    // 500
)

// Error is a kind-tagged error crossing a service boundary. Message is
// safe to show to the user; Err carries the underlying cause for logs.
type Error struct {
	Kind    Kind
	Message string
	Field   string // non-empty for validation errors scoped to a field
	Err     error
}

func (e *Error) Error() string {
	if e.Message != "" {
		return e.Message
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	return "unknown error"
}

func (e *Error) Unwrap() error { return e.Err }

// ValidationError builds a field-scoped validation failure.
func ValidationError(field, message string) *Error {
	return &Error{Kind: KindValidation, Field: field, Message: message}
}

// ProviderError wraps a backend failure. Code and the wrapped error are
// for server logs only; Message is the generic user-facing text.
func ProviderError(code string, err error) *Error {
	return &Error{
		Kind:    KindProvider,
		Message: "Something went wrong! Please try again",
		Err:     fmt.Errorf("provider error %s: %w", code, err),
	}
}

// KindOf extracts the kind from any error. Untagged errors report
// KindUnknown.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindUnknown
}
