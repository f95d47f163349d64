package services

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/tenonkit/tenon/core"
)

// TodoActions is the operation surface the reconciliation layer
// dispatches against. Every error it returns is kind-tagged; the HTTP
// adapter folds it into a {data}/{error} envelope.
type TodoActions interface {
	Create(ctx context.Context, userID string, form core.TodoCreateForm) (*core.Todo, error)
	Update(ctx context.Context, userID string, form core.TodoUpdateForm) (*core.Todo, error)
	Delete(ctx context.Context, userID string, form core.TodoDeleteForm) error
	Toggle(ctx context.Context, userID string, form core.TodoToggleForm) (*core.Todo, error)
	List(ctx context.Context, userID string) ([]*core.Todo, error)
}

// TodoService implements the todo server actions. Each mutation
// follows the same protocol: validate, resolve the owning profile,
// check ownership, mutate, revalidate the rendered list.
type TodoService struct {
	storage    core.Storage
	revalidate core.Revalidator // optional
	log        *slog.Logger
}

var _ TodoActions = (*TodoService)(nil)

func NewTodoService(storage core.Storage, revalidate core.Revalidator, log *slog.Logger) *TodoService {
	if log == nil {
		log = slog.Default()
	}
	return &TodoService{storage: storage, revalidate: revalidate, log: log}
}

// resolveProfile maps the session's user id to the application profile
// that owns todos. A session without a profile row cannot touch todos.
func (s *TodoService) resolveProfile(ctx context.Context, userID string) (string, error) {
	if userID == "" {
		return "", &core.Error{Kind: core.KindUnauthorized, Message: core.ErrUnauthorized.Error()}
	}

	profile, err := s.storage.GetProfileByID(ctx, userID)
	if err != nil || profile == nil {
		return "", &core.Error{Kind: core.KindUnauthorized, Message: core.ErrProfileNotFound.Error(), Err: err}
	}

	return profile.ID, nil
}

// loadOwned fetches a todo and checks it belongs to ownerID. The "not
// found" and "not yours" cases collapse into the same denied error so
// the response never leaks whether the id exists.
func (s *TodoService) loadOwned(ctx context.Context, id, ownerID string, denied error) (*core.Todo, error) {
	todo, err := s.storage.GetTodoByID(ctx, id)
	if err != nil && !errors.Is(err, core.ErrTodoNotFound) {
		s.log.Error("failed to load todo", "id", id, "error", err)
		return nil, core.ProviderError("storage", err)
	}
	if todo == nil || todo.UserID != ownerID {
		return nil, &core.Error{Kind: core.KindNotFoundOrForbidden, Message: denied.Error()}
	}
	return todo, nil
}

func (s *TodoService) revalidateTodos() {
	if s.revalidate != nil {
		s.revalidate.RevalidatePath(core.RouteTodos)
	}
}

// Create inserts a new todo owned by the current user.
func (s *TodoService) Create(ctx context.Context, userID string, form core.TodoCreateForm) (*core.Todo, error) {
	if err := form.Validate(); err != nil {
		return nil, err
	}

	ownerID, err := s.resolveProfile(ctx, userID)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	todo := &core.Todo{
		ID:          uuid.NewString(),
		Title:       form.Title,
		Description: form.Description,
		Completed:   false,
		UserID:      ownerID,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := s.storage.CreateTodo(ctx, todo); err != nil {
		s.log.Error("failed to create todo", "error", err)
		return nil, core.ProviderError("storage", err)
	}

	s.revalidateTodos()
	return todo, nil
}

// Update replaces a todo's mutable fields.
func (s *TodoService) Update(ctx context.Context, userID string, form core.TodoUpdateForm) (*core.Todo, error) {
	if err := form.Validate(); err != nil {
		return nil, err
	}

	ownerID, err := s.resolveProfile(ctx, userID)
	if err != nil {
		return nil, err
	}

	todo, err := s.loadOwned(ctx, form.ID, ownerID, core.ErrTodoUpdateDenied)
	if err != nil {
		return nil, err
	}

	todo.Title = form.Title
	todo.Description = form.Description
	if form.Completed != nil {
		todo.Completed = *form.Completed
	}
	todo.UpdatedAt = time.Now()

	if err := s.storage.UpdateTodo(ctx, todo); err != nil {
		s.log.Error("failed to update todo", "id", todo.ID, "error", err)
		return nil, core.ProviderError("storage", err)
	}

	s.revalidateTodos()
	return todo, nil
}

// Delete removes a todo.
func (s *TodoService) Delete(ctx context.Context, userID string, form core.TodoDeleteForm) error {
	if err := form.Validate(); err != nil {
		return err
	}

	ownerID, err := s.resolveProfile(ctx, userID)
	if err != nil {
		return err
	}

	todo, err := s.loadOwned(ctx, form.ID, ownerID, core.ErrTodoDeleteDenied)
	if err != nil {
		return err
	}

	if err := s.storage.DeleteTodo(ctx, todo.ID); err != nil {
		s.log.Error("failed to delete todo", "id", todo.ID, "error", err)
		return core.ProviderError("storage", err)
	}

	s.revalidateTodos()
	return nil
}

// Toggle sets the completed flag. The updated timestamp changes on
// every toggle even when the flag value is re-asserted.
func (s *TodoService) Toggle(ctx context.Context, userID string, form core.TodoToggleForm) (*core.Todo, error) {
	if err := form.Validate(); err != nil {
		return nil, err
	}

	ownerID, err := s.resolveProfile(ctx, userID)
	if err != nil {
		return nil, err
	}

	todo, err := s.loadOwned(ctx, form.ID, ownerID, core.ErrTodoUpdateDenied)
	if err != nil {
		return nil, err
	}

	todo.Completed = form.Completed
	todo.UpdatedAt = time.Now()

	if err := s.storage.UpdateTodo(ctx, todo); err != nil {
		s.log.Error("failed to toggle todo", "id", todo.ID, "error", err)
		return nil, core.ProviderError("storage", err)
	}

	s.revalidateTodos()
	return todo, nil
}

// List returns the user's todos, newest first.
func (s *TodoService) List(ctx context.Context, userID string) ([]*core.Todo, error) {
	ownerID, err := s.resolveProfile(ctx, userID)
	if err != nil {
		return nil, err
	}

	todos, err := s.storage.ListTodosByUser(ctx, ownerID)
	if err != nil {
		s.log.Error("failed to list todos", "error", err)
		return nil, core.ProviderError("storage", err)
	}

	return todos, nil
}
