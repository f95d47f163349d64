package fiber

import (
	"net/http"

	"github.com/gofiber/fiber/v3"

	"github.com/tenonkit/tenon/core"
	"github.com/tenonkit/tenon/services"
)

// Auth actions answer with the AuthResult envelope the forms render
// directly; HTTP status still reflects the outcome for API callers.

func (a *Adapter) handleSignup(c fiber.Ctx) error {
	var form core.SignupForm
	if err := c.Bind().Body(&form); err != nil {
		return respondError(c, core.ValidationError("", "invalid request body"))
	}

	result := a.auth.Signup(c.Context(), form)
	return c.Status(statusForResult(result)).JSON(result)
}

func (a *Adapter) handleLogin(c fiber.Ctx) error {
	var form core.LoginForm
	if err := c.Bind().Body(&form); err != nil {
		return respondError(c, core.ValidationError("", "invalid request body"))
	}

	result := a.auth.Login(c.Context(), form)
	if result.Code == services.Success && result.Session != nil {
		setSessionCookies(c, result.Session)
	}
	return c.Status(statusForResult(result.AuthResult)).JSON(result)
}

func (a *Adapter) handleLogout(c fiber.Ctx) error {
	session := sessionFromCookies(c)

	result := a.auth.Logout(c.Context(), session)

	// The cookie goes regardless of what the provider said.
	clearSessionCookies(c)
	return c.Status(statusForResult(result)).JSON(result)
}

func (a *Adapter) handleForgotPassword(c fiber.Ctx) error {
	var form core.ForgotPasswordForm
	if err := c.Bind().Body(&form); err != nil {
		return respondError(c, core.ValidationError("", "invalid request body"))
	}

	result := a.auth.ForgotPassword(c.Context(), form)
	return c.Status(statusForResult(result)).JSON(result)
}

func (a *Adapter) handleResetPassword(c fiber.Ctx) error {
	var form core.ResetPasswordForm
	if err := c.Bind().Body(&form); err != nil {
		return respondError(c, core.ValidationError("", "invalid request body"))
	}

	session := sessionFromCookies(c)
	if session != nil {
		if data, refreshed, err := a.sessions.Resolve(c.Context(), session); err == nil {
			session = data.Session
			if refreshed != nil {
				setSessionCookies(c, refreshed)
			}
		}
	}

	result := a.auth.ResetPassword(c.Context(), session, form)
	return c.Status(statusForResult(result)).JSON(result)
}

// handleAuthCallback lands mail links and OAuth redirects. A valid code
// becomes a session cookie and the visitor continues to redirect_to; a
// failed exchange falls through to the login page with a marker the
// page can surface.
func (a *Adapter) handleAuthCallback(c fiber.Ctx) error {
	code := c.Query("code")
	redirectTo := c.Query("redirect_to", core.RouteDashboard)
	if !isLocalRedirect(redirectTo) {
		redirectTo = core.RouteDashboard
	}

	if code == "" {
		return c.Redirect().To(core.RouteLogin + "?failed=true")
	}

	session, err := a.auth.ExchangeCode(c.Context(), code)
	if err != nil {
		a.log.Warn("auth callback exchange failed", "error", err)
		return c.Redirect().To(core.RouteLogin + "?failed=true")
	}

	setSessionCookies(c, session)
	return c.Redirect().To(redirectTo)
}

// isLocalRedirect rejects absolute URLs so the callback cannot be used
// as an open redirect.
func isLocalRedirect(path string) bool {
	return len(path) > 0 && path[0] == '/' && !(len(path) > 1 && path[1] == '/')
}

func (a *Adapter) handleNav(c fiber.Ctx) error {
	return respondData(c, http.StatusOK, core.NavItems)
}

// Todo API. Every handler runs behind requireSession.

func (a *Adapter) handleListTodos(c fiber.Ctx) error {
	todos, err := a.todos.List(c.Context(), currentUser(c).ID)
	if err != nil {
		return respondError(c, err)
	}
	return respondData(c, http.StatusOK, todos)
}

func (a *Adapter) handleCreateTodo(c fiber.Ctx) error {
	var form core.TodoCreateForm
	if err := c.Bind().Body(&form); err != nil {
		return respondError(c, core.ValidationError("", "invalid request body"))
	}

	todo, err := a.todos.Create(c.Context(), currentUser(c).ID, form)
	if err != nil {
		return respondError(c, err)
	}
	return respondData(c, http.StatusCreated, todo)
}

func (a *Adapter) handleUpdateTodo(c fiber.Ctx) error {
	var form core.TodoUpdateForm
	if err := c.Bind().Body(&form); err != nil {
		return respondError(c, core.ValidationError("", "invalid request body"))
	}
	form.ID = c.Params("id")

	todo, err := a.todos.Update(c.Context(), currentUser(c).ID, form)
	if err != nil {
		return respondError(c, err)
	}
	return respondData(c, http.StatusOK, todo)
}

func (a *Adapter) handleDeleteTodo(c fiber.Ctx) error {
	form := core.TodoDeleteForm{ID: c.Params("id")}

	if err := a.todos.Delete(c.Context(), currentUser(c).ID, form); err != nil {
		return respondError(c, err)
	}
	return respondData(c, http.StatusOK, fiber.Map{"id": form.ID})
}

func (a *Adapter) handleToggleTodo(c fiber.Ctx) error {
	var form core.TodoToggleForm
	if err := c.Bind().Body(&form); err != nil {
		return respondError(c, core.ValidationError("", "invalid request body"))
	}
	form.ID = c.Params("id")

	todo, err := a.todos.Toggle(c.Context(), currentUser(c).ID, form)
	if err != nil {
		return respondError(c, err)
	}
	return respondData(c, http.StatusOK, todo)
}

func statusForResult(result services.AuthResult) int {
	if result.Code == services.Success {
		return http.StatusOK
	}
	if result.Field != "" {
		return http.StatusBadRequest
	}
	return http.StatusUnprocessableEntity
}
