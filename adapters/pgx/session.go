package pgx

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/tenonkit/tenon/core"
	"github.com/tenonkit/tenon/provider/local"
)

func (a *Adapter) CreateSession(ctx context.Context, session *local.Session) error {
	query := `INSERT INTO public.sessions (id, user_id, token_hash, refresh_hash, expires_at) VALUES ($1, $2, $3, $4, $5) RETURNING created_at, updated_at`

	var createdAt, updatedAt time.Time
	err := a.pool.QueryRow(ctx, query, session.ID, session.UserID, session.TokenHash, session.RefreshHash, session.ExpiresAt).Scan(&createdAt, &updatedAt)
	if err != nil {
		return err
	}

	session.CreatedAt = createdAt
	session.UpdatedAt = updatedAt
	return nil
}

func (a *Adapter) GetSessionByTokenHash(ctx context.Context, tokenHash string) (*local.Session, error) {
	q := `SELECT id, user_id, token_hash, refresh_hash, expires_at, created_at, updated_at FROM public.sessions WHERE token_hash = $1`
	return a.scanSession(ctx, q, tokenHash)
}

func (a *Adapter) GetSessionByRefreshHash(ctx context.Context, refreshHash string) (*local.Session, error) {
	q := `SELECT id, user_id, token_hash, refresh_hash, expires_at, created_at, updated_at FROM public.sessions WHERE refresh_hash = $1`
	return a.scanSession(ctx, q, refreshHash)
}

func (a *Adapter) UpdateSession(ctx context.Context, session *local.Session) error {
	q := `UPDATE public.sessions SET token_hash = $1, refresh_hash = $2, expires_at = $3, updated_at = now() WHERE id = $4 RETURNING updated_at`

	var updatedAt time.Time
	err := a.pool.QueryRow(ctx, q, session.TokenHash, session.RefreshHash, session.ExpiresAt, session.ID).Scan(&updatedAt)
	if err != nil {
		if err == pgx.ErrNoRows {
			return core.ErrSessionNotFound
		}
		return err
	}
	session.UpdatedAt = updatedAt
	return nil
}

func (a *Adapter) DeleteSessionByTokenHash(ctx context.Context, tokenHash string) error {
	_, err := a.pool.Exec(ctx, `DELETE FROM public.sessions WHERE token_hash = $1`, tokenHash)
	return err
}

func (a *Adapter) DeleteExpiredSessions(ctx context.Context) (int, error) {
	tag, err := a.pool.Exec(ctx, `DELETE FROM public.sessions WHERE expires_at < now()`)
	if err != nil {
		return 0, err
	}
	return int(tag.RowsAffected()), nil
}

func (a *Adapter) scanSession(ctx context.Context, query, arg string) (*local.Session, error) {
	session := &local.Session{}
	err := a.pool.QueryRow(ctx, query, arg).Scan(&session.ID, &session.UserID, &session.TokenHash, &session.RefreshHash, &session.ExpiresAt, &session.CreatedAt, &session.UpdatedAt)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, core.ErrSessionNotFound
		}
		return nil, err
	}
	return session, nil
}
