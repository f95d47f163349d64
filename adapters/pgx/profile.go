package pgx

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/tenonkit/tenon/core"
)

func (a *Adapter) CreateProfile(ctx context.Context, profile *core.Profile) error {
	query := `INSERT INTO public.profiles (id, email) VALUES ($1, $2) RETURNING created_at, updated_at`

	var createdAt, updatedAt time.Time
	err := a.pool.QueryRow(ctx, query, profile.ID, profile.Email).Scan(&createdAt, &updatedAt)
	if err != nil {
		return err
	}

	profile.CreatedAt = createdAt
	profile.UpdatedAt = updatedAt
	return nil
}

func (a *Adapter) GetProfileByID(ctx context.Context, id string) (*core.Profile, error) {
	q := `SELECT id, email, created_at, updated_at FROM public.profiles WHERE id = $1`

	profile := &core.Profile{}
	err := a.pool.QueryRow(ctx, q, id).Scan(&profile.ID, &profile.Email, &profile.CreatedAt, &profile.UpdatedAt)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, core.ErrProfileNotFound
		}
		return nil, err
	}
	return profile, nil
}

func (a *Adapter) DeleteProfile(ctx context.Context, id string) error {
	_, err := a.pool.Exec(ctx, `DELETE FROM public.profiles WHERE id = $1`, id)
	return err
}
