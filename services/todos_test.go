package services

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/tenonkit/tenon/core"
)

func newTodoFixture(t *testing.T) (*TodoService, *FakeStorage, string) {
	t.Helper()
	storage := NewFakeStorage()
	if err := storage.CreateProfile(context.Background(), &core.Profile{
		ID:    "user-1",
		Email: "alice@example.com",
	}); err != nil {
		t.Fatalf("seed profile: %v", err)
	}
	return NewTodoService(storage, nil, nil), storage, "user-1"
}

// Requirement: creating a todo then listing returns exactly one entity
// with completed=false and matching fields.
func TestTodoService_CreateThenList(t *testing.T) {
	service, _, userID := newTodoFixture(t)
	ctx := context.Background()

	desc := "2%"
	created, err := service.Create(ctx, userID, core.TodoCreateForm{
		Title:       "Buy milk",
		Description: &desc,
	})
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if created.Completed {
		t.Error("Create() should default completed to false")
	}
	if created.ID == "" {
		t.Error("Create() should assign an id")
	}

	todos, err := service.List(ctx, userID)
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(todos) != 1 {
		t.Fatalf("List() returned %d todos, want 1", len(todos))
	}
	if todos[0].Title != "Buy milk" || todos[0].Description == nil || *todos[0].Description != "2%" {
		t.Errorf("List() entity = %+v", todos[0])
	}
}

// Requirement: a 101-character title is rejected before any store
// access with the exact validation message.
func TestTodoService_Create_TitleTooLong(t *testing.T) {
	service, storage, userID := newTodoFixture(t)
	storage.createErr = core.ErrTodoNotFound // must never surface

	_, err := service.Create(context.Background(), userID, core.TodoCreateForm{
		Title: strings.Repeat("x", 101),
	})
	if err == nil {
		t.Fatal("Create() accepted an oversized title")
	}
	if err.Error() != "Title must be less than 100 characters" {
		t.Errorf("Create() error = %q", err.Error())
	}
	if core.KindOf(err) != core.KindValidation {
		t.Errorf("Create() kind = %v, want KindValidation", core.KindOf(err))
	}
}

// Requirement: no session and no profile are distinct unauthorized
// failures, both aborting the action.
func TestTodoService_Unauthorized(t *testing.T) {
	service, _, _ := newTodoFixture(t)
	ctx := context.Background()

	_, err := service.Create(ctx, "", core.TodoCreateForm{Title: "x"})
	if core.KindOf(err) != core.KindUnauthorized {
		t.Fatalf("Create() with no session: kind = %v", core.KindOf(err))
	}
	if !strings.Contains(err.Error(), "Unauthorized") {
		t.Errorf("Create() error = %q", err.Error())
	}

	_, err = service.Create(ctx, "user-without-profile", core.TodoCreateForm{Title: "x"})
	if core.KindOf(err) != core.KindUnauthorized {
		t.Fatalf("Create() without profile: kind = %v", core.KindOf(err))
	}
	if err.Error() != "User profile not found" {
		t.Errorf("Create() error = %q", err.Error())
	}
}

// Requirement: user A cannot update or delete user B's todo; the error
// merges "not found" and "forbidden" and never returns the entity.
func TestTodoService_Ownership(t *testing.T) {
	service, storage, owner := newTodoFixture(t)
	ctx := context.Background()

	if err := storage.CreateProfile(ctx, &core.Profile{ID: "user-2", Email: "bob@example.com"}); err != nil {
		t.Fatalf("seed profile: %v", err)
	}

	created, err := service.Create(ctx, owner, core.TodoCreateForm{Title: "private"})
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	tests := []struct {
		name string
		run  func() error
		want string
	}{
		{
			name: "update by non-owner",
			run: func() error {
				_, err := service.Update(ctx, "user-2", core.TodoUpdateForm{ID: created.ID, Title: "stolen"})
				return err
			},
			want: "Todo not found or you do not have permission to update it",
		},
		{
			name: "delete by non-owner",
			run: func() error {
				return service.Delete(ctx, "user-2", core.TodoDeleteForm{ID: created.ID})
			},
			want: "Todo not found or you do not have permission to delete it",
		},
		{
			name: "toggle by non-owner",
			run: func() error {
				_, err := service.Toggle(ctx, "user-2", core.TodoToggleForm{ID: created.ID, Completed: true})
				return err
			},
			want: "Todo not found or you do not have permission to update it",
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			err := test.run()
			if err == nil {
				t.Fatal("action succeeded for non-owner")
			}
			if err.Error() != test.want {
				t.Errorf("error = %q, want %q", err.Error(), test.want)
			}
			if core.KindOf(err) != core.KindNotFoundOrForbidden {
				t.Errorf("kind = %v, want KindNotFoundOrForbidden", core.KindOf(err))
			}
		})
	}

	// The same message appears for a genuinely missing id, so a caller
	// cannot distinguish the two cases.
	_, err = service.Update(ctx, owner, core.TodoUpdateForm{
		ID:    "3b8f0e9e-8a9e-4e3c-9a7d-111111111111",
		Title: "ghost",
	})
	if err == nil || err.Error() != "Todo not found or you do not have permission to update it" {
		t.Errorf("Update() missing id error = %v", err)
	}
}

// Requirement: toggling twice restores the original value and changes
// the stored updatedAt on each toggle.
func TestTodoService_ToggleIdempotenceOfIntent(t *testing.T) {
	service, _, userID := newTodoFixture(t)
	ctx := context.Background()

	created, err := service.Create(ctx, userID, core.TodoCreateForm{Title: "flip me"})
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	original := created.Completed

	time.Sleep(time.Millisecond)

	first, err := service.Toggle(ctx, userID, core.TodoToggleForm{ID: created.ID, Completed: !original})
	if err != nil {
		t.Fatalf("Toggle() error = %v", err)
	}
	if first.Completed == original {
		t.Error("first toggle did not flip completed")
	}
	if !first.UpdatedAt.After(created.UpdatedAt) {
		t.Error("first toggle did not advance updatedAt")
	}

	time.Sleep(time.Millisecond)

	second, err := service.Toggle(ctx, userID, core.TodoToggleForm{ID: created.ID, Completed: original})
	if err != nil {
		t.Fatalf("Toggle() error = %v", err)
	}
	if second.Completed != original {
		t.Error("double toggle did not restore the original value")
	}
	if !second.UpdatedAt.After(first.UpdatedAt) {
		t.Error("second toggle did not advance updatedAt")
	}
}

// Requirement: List orders by creation time descending.
func TestTodoService_ListOrdering(t *testing.T) {
	service, storage, userID := newTodoFixture(t)
	ctx := context.Background()

	base := time.Now().Add(-time.Hour)
	for i, title := range []string{"oldest", "middle", "newest"} {
		todo := &core.Todo{
			ID:        "todo-" + title,
			Title:     title,
			UserID:    userID,
			CreatedAt: base.Add(time.Duration(i) * time.Minute),
			UpdatedAt: base.Add(time.Duration(i) * time.Minute),
		}
		if err := storage.CreateTodo(ctx, todo); err != nil {
			t.Fatalf("seed todo: %v", err)
		}
	}

	todos, err := service.List(ctx, userID)
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(todos) != 3 {
		t.Fatalf("List() returned %d todos", len(todos))
	}
	for i, want := range []string{"newest", "middle", "oldest"} {
		if todos[i].Title != want {
			t.Errorf("List()[%d] = %q, want %q", i, todos[i].Title, want)
		}
	}
}

// Requirement: mutations invalidate the cached rendering of the todo
// list.
func TestTodoService_Revalidation(t *testing.T) {
	storage := NewFakeStorage()
	ctx := context.Background()
	if err := storage.CreateProfile(ctx, &core.Profile{ID: "user-1"}); err != nil {
		t.Fatalf("seed profile: %v", err)
	}

	var revalidated []string
	service := NewTodoService(storage, core.RevalidatorFunc(func(path string) {
		revalidated = append(revalidated, path)
	}), nil)

	created, err := service.Create(ctx, "user-1", core.TodoCreateForm{Title: "watch me"})
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if _, err := service.Toggle(ctx, "user-1", core.TodoToggleForm{ID: created.ID, Completed: true}); err != nil {
		t.Fatalf("Toggle() error = %v", err)
	}
	if err := service.Delete(ctx, "user-1", core.TodoDeleteForm{ID: created.ID}); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}

	if len(revalidated) != 3 {
		t.Fatalf("revalidated %d times, want 3", len(revalidated))
	}
	for _, path := range revalidated {
		if path != core.RouteTodos {
			t.Errorf("revalidated path = %q, want %q", path, core.RouteTodos)
		}
	}
}
