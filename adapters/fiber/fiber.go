// Package fiber exposes the application over HTTP: the guarded page
// routes, the auth actions, and the JSON todo API the optimistic
// client talks to.
package fiber

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gofiber/fiber/v3"

	"github.com/tenonkit/tenon/core"
	"github.com/tenonkit/tenon/services"
)

type Adapter struct {
	app      *fiber.App
	auth     *services.AuthService
	todos    services.TodoActions
	sessions *services.SessionManager
	guard    *core.Guard
	log      *slog.Logger
}

func New(app *fiber.App, auth *services.AuthService, todos services.TodoActions, sessions *services.SessionManager, guard *core.Guard, log *slog.Logger) *Adapter {
	if log == nil {
		log = slog.Default()
	}
	return &Adapter{
		app:      app,
		auth:     auth,
		todos:    todos,
		sessions: sessions,
		guard:    guard,
		log:      log,
	}
}

// RegisterRoutes wires every route. Page routes run behind the guard
// middleware; API routes resolve the session themselves and answer in
// JSON instead of redirecting.
func (a *Adapter) RegisterRoutes() {
	a.app.Use(a.RouteGuard())

	// Auth actions. POST, form-encoded, mirroring the page forms.
	auth := a.app.Group("/api/auth")
	auth.Post("/signup", a.handleSignup)
	auth.Post("/login", a.handleLogin)
	auth.Post("/logout", a.handleLogout)
	auth.Post("/forgot-password", a.handleForgotPassword)
	auth.Post("/reset-password", a.handleResetPassword)

	a.app.Get(core.RouteAuthCallback, a.handleAuthCallback)

	// Static layout metadata the client renders the top navigation from.
	a.app.Get("/api/nav", a.handleNav)

	// Todo API consumed by the optimistic client.
	todos := a.app.Group("/api/todos", a.requireSession)
	todos.Get("/", a.handleListTodos)
	todos.Post("/", a.handleCreateTodo)
	todos.Patch("/:id", a.handleUpdateTodo)
	todos.Delete("/:id", a.handleDeleteTodo)
	todos.Post("/:id/toggle", a.handleToggleTodo)
}

// envelope is the uniform JSON response shape: exactly one of data or
// error is set.
type envelope struct {
	Data  any    `json:"data,omitempty"`
	Error string `json:"error,omitempty"`
}

func respondData(c fiber.Ctx, status int, data any) error {
	return c.Status(status).JSON(envelope{Data: data})
}

func respondError(c fiber.Ctx, err error) error {
	status := statusForKind(core.KindOf(err))

	msg := err.Error()
	var appErr *core.Error
	if errors.As(err, &appErr) {
		msg = appErr.Message
	}

	return c.Status(status).JSON(envelope{Error: msg})
}

// statusForKind maps the error taxonomy to HTTP status codes.
func statusForKind(kind core.Kind) int {
	switch kind {
	case core.KindValidation:
		return http.StatusBadRequest
	case core.KindUnauthorized:
		return http.StatusUnauthorized
	case core.KindNotFoundOrForbidden:
		return http.StatusNotFound
	case core.KindProvider:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}
