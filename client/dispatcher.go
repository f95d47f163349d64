package client

import (
	"context"

	"github.com/tenonkit/tenon/core"
	"github.com/tenonkit/tenon/services"
)

// ServiceDispatcher binds the todo actions to one authenticated user,
// for server-rendered surfaces that mutate in-process instead of over
// the JSON API.
type ServiceDispatcher struct {
	actions services.TodoActions
	userID  string
}

var _ TodoDispatcher = (*ServiceDispatcher)(nil)

func NewServiceDispatcher(actions services.TodoActions, userID string) *ServiceDispatcher {
	return &ServiceDispatcher{actions: actions, userID: userID}
}

func (d *ServiceDispatcher) CreateTodo(ctx context.Context, form core.TodoCreateForm) (*core.Todo, error) {
	return d.actions.Create(ctx, d.userID, form)
}

func (d *ServiceDispatcher) UpdateTodo(ctx context.Context, form core.TodoUpdateForm) (*core.Todo, error) {
	return d.actions.Update(ctx, d.userID, form)
}

func (d *ServiceDispatcher) DeleteTodo(ctx context.Context, form core.TodoDeleteForm) error {
	return d.actions.Delete(ctx, d.userID, form)
}

func (d *ServiceDispatcher) ToggleTodo(ctx context.Context, form core.TodoToggleForm) (*core.Todo, error) {
	return d.actions.Toggle(ctx, d.userID, form)
}

func (d *ServiceDispatcher) ListTodos(ctx context.Context) ([]core.Todo, error) {
	todos, err := d.actions.List(ctx, d.userID)
	if err != nil {
		return nil, err
	}
	out := make([]core.Todo, len(todos))
	for i, t := range todos {
		out[i] = *t
	}
	return out, nil
}
