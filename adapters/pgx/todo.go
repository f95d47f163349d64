package pgx

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/tenonkit/tenon/core"
)

func (a *Adapter) CreateTodo(ctx context.Context, todo *core.Todo) error {
	query := `INSERT INTO public.todos (id, title, description, completed, user_id) VALUES ($1, $2, $3, $4, $5) RETURNING created_at, updated_at`

	var createdAt, updatedAt time.Time
	err := a.pool.QueryRow(ctx, query, todo.ID, todo.Title, todo.Description, todo.Completed, todo.UserID).Scan(&createdAt, &updatedAt)
	if err != nil {
		return err
	}

	todo.CreatedAt = createdAt
	todo.UpdatedAt = updatedAt
	return nil
}

func (a *Adapter) GetTodoByID(ctx context.Context, id string) (*core.Todo, error) {
	q := `SELECT id, title, description, completed, user_id, created_at, updated_at FROM public.todos WHERE id = $1`

	todo := &core.Todo{}
	err := a.pool.QueryRow(ctx, q, id).Scan(&todo.ID, &todo.Title, &todo.Description, &todo.Completed, &todo.UserID, &todo.CreatedAt, &todo.UpdatedAt)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, core.ErrTodoNotFound
		}
		return nil, err
	}
	return todo, nil
}

func (a *Adapter) ListTodosByUser(ctx context.Context, userID string) ([]*core.Todo, error) {
	q := `SELECT id, title, description, completed, user_id, created_at, updated_at FROM public.todos WHERE user_id = $1 ORDER BY created_at DESC`

	rows, err := a.pool.Query(ctx, q, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var todos []*core.Todo
	for rows.Next() {
		todo := &core.Todo{}
		if err := rows.Scan(&todo.ID, &todo.Title, &todo.Description, &todo.Completed, &todo.UserID, &todo.CreatedAt, &todo.UpdatedAt); err != nil {
			return nil, err
		}
		todos = append(todos, todo)
	}
	return todos, rows.Err()
}

func (a *Adapter) UpdateTodo(ctx context.Context, todo *core.Todo) error {
	q := `UPDATE public.todos SET title = $1, description = $2, completed = $3, updated_at = now() WHERE id = $4 AND user_id = $5 RETURNING updated_at`

	var updatedAt time.Time
	err := a.pool.QueryRow(ctx, q, todo.Title, todo.Description, todo.Completed, todo.ID, todo.UserID).Scan(&updatedAt)
	if err != nil {
		if err == pgx.ErrNoRows {
			return core.ErrTodoNotFound
		}
		return err
	}
	todo.UpdatedAt = updatedAt
	return nil
}

func (a *Adapter) DeleteTodo(ctx context.Context, id string) error {
	tag, err := a.pool.Exec(ctx, `DELETE FROM public.todos WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return core.ErrTodoNotFound
	}
	return nil
}
