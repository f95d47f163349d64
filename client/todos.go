package client

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/tenonkit/tenon/core"
)

// TodoDispatcher is the server-action surface the todo list mutates
// against. It is already bound to the authenticated user: identity
// travels with the dispatcher, not as ambient global state.
type TodoDispatcher interface {
	CreateTodo(ctx context.Context, form core.TodoCreateForm) (*core.Todo, error)
	UpdateTodo(ctx context.Context, form core.TodoUpdateForm) (*core.Todo, error)
	DeleteTodo(ctx context.Context, form core.TodoDeleteForm) error
	ToggleTodo(ctx context.Context, form core.TodoToggleForm) (*core.Todo, error)
	ListTodos(ctx context.Context) ([]core.Todo, error)
}

// TodoList is the client-side view of the todo collection: optimistic
// mutations with rollback, plus the edit-surface state the success
// handlers clear.
type TodoList struct {
	col      *Collection[core.Todo]
	dispatch TodoDispatcher

	mu         sync.Mutex
	selectedID string
	addOpen    bool
	editOpen   bool
}

func NewTodoList(dispatch TodoDispatcher, notifier Notifier, timeout time.Duration) *TodoList {
	l := &TodoList{dispatch: dispatch}
	l.col = NewCollection(func(ctx context.Context) ([]core.Todo, error) {
		todos, err := dispatch.ListTodos(ctx)
		if err != nil {
			return nil, err
		}
		sortTodos(todos)
		return todos, nil
	}, notifier, timeout)
	return l
}

// sortTodos orders incomplete todos first. The sort is stable, so the
// server's newest-first ordering is preserved within each group.
func sortTodos(todos []core.Todo) {
	sort.SliceStable(todos, func(i, j int) bool {
		return !todos[i].Completed && todos[j].Completed
	})
}

// Todos returns the current local view.
func (l *TodoList) Todos() []core.Todo { return l.col.Items() }

// Load performs the initial authoritative read.
func (l *TodoList) Load(ctx context.Context) error { return l.col.Refetch(ctx) }

// OpenAdd opens the add surface.
func (l *TodoList) OpenAdd() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.addOpen = true
}

// OpenEdit opens the edit surface for a todo.
func (l *TodoList) OpenEdit(id string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.editOpen = true
	l.selectedID = id
}

// Selection reports the edit-surface state.
func (l *TodoList) Selection() (selectedID string, addOpen, editOpen bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.selectedID, l.addOpen, l.editOpen
}

func (l *TodoList) closeAdd() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.addOpen = false
}

func (l *TodoList) closeEdit() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.editOpen = false
	l.selectedID = ""
}

// Create optimistically prepends a synthetic todo and dispatches the
// create action.
func (l *TodoList) Create(ctx context.Context, form core.TodoCreateForm) error {
	now := time.Now()
	optimistic := core.Todo{
		ID:          "temp-" + uuid.NewString(),
		Title:       form.Title,
		Description: form.Description,
		Completed:   false,
		UserID:      "temp-user-id", // filled in by the server
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	return l.col.Mutate(ctx, Mutation[core.Todo]{
		Key: optimistic.ID,
		Apply: func(items []core.Todo) []core.Todo {
			return append([]core.Todo{optimistic}, items...)
		},
		Dispatch: func(ctx context.Context) error {
			_, err := l.dispatch.CreateTodo(ctx, form)
			return err
		},
		OnSuccess:      l.closeAdd,
		SuccessMessage: "Todo created successfully",
		FailureMessage: "Failed to create todo",
	})
}

// Update optimistically replaces the matching todo's mutable fields.
func (l *TodoList) Update(ctx context.Context, form core.TodoUpdateForm) error {
	return l.col.Mutate(ctx, Mutation[core.Todo]{
		Key: form.ID,
		Apply: func(items []core.Todo) []core.Todo {
			out := make([]core.Todo, len(items))
			copy(out, items)
			for i := range out {
				if out[i].ID != form.ID {
					continue
				}
				out[i].Title = form.Title
				out[i].Description = form.Description
				if form.Completed != nil {
					out[i].Completed = *form.Completed
				}
				out[i].UpdatedAt = time.Now()
			}
			return out
		},
		Dispatch: func(ctx context.Context) error {
			_, err := l.dispatch.UpdateTodo(ctx, form)
			return err
		},
		OnSuccess:      l.closeEdit,
		SuccessMessage: "Todo updated successfully",
		FailureMessage: "Failed to update todo",
	})
}

// Delete optimistically removes the matching todo.
func (l *TodoList) Delete(ctx context.Context, form core.TodoDeleteForm) error {
	return l.col.Mutate(ctx, Mutation[core.Todo]{
		Key: form.ID,
		Apply: func(items []core.Todo) []core.Todo {
			out := make([]core.Todo, 0, len(items))
			for _, t := range items {
				if t.ID != form.ID {
					out = append(out, t)
				}
			}
			return out
		},
		Dispatch: func(ctx context.Context) error {
			return l.dispatch.DeleteTodo(ctx, form)
		},
		SuccessMessage: "Todo deleted successfully",
		FailureMessage: "Failed to delete todo",
	})
}

// Toggle optimistically flips the completed flag and refreshes the
// updated timestamp.
func (l *TodoList) Toggle(ctx context.Context, form core.TodoToggleForm) error {
	return l.col.Mutate(ctx, Mutation[core.Todo]{
		Key: form.ID,
		Apply: func(items []core.Todo) []core.Todo {
			out := make([]core.Todo, len(items))
			copy(out, items)
			for i := range out {
				if out[i].ID == form.ID {
					out[i].Completed = form.Completed
					out[i].UpdatedAt = time.Now()
				}
			}
			return out
		},
		Dispatch: func(ctx context.Context) error {
			_, err := l.dispatch.ToggleTodo(ctx, form)
			return err
		},
		SuccessMessage: "Todo status updated",
		FailureMessage: "Failed to update todo status",
	})
}
