package pgx

import (
	"context"
	"time"

	"github.com/tenonkit/tenon/provider/local"
)

func (a *Adapter) CreateAccount(ctx context.Context, account *local.Account) error {
	query := `INSERT INTO public.accounts (user_id, provider_id, account_id, password) VALUES ($1, $2, $3, $4) RETURNING id, created_at, updated_at`

	var id string
	var createdAt, updatedAt time.Time
	err := a.pool.QueryRow(ctx, query, account.UserID, account.ProviderID, account.AccountID, account.Password).Scan(&id, &createdAt, &updatedAt)
	if err != nil {
		return err
	}

	account.ID = id
	account.CreatedAt = createdAt
	account.UpdatedAt = updatedAt
	return nil
}

func (a *Adapter) GetAccountByUserAndProvider(ctx context.Context, userID, providerID string) ([]*local.Account, error) {
	q := `SELECT id, user_id, provider_id, account_id, password, created_at, updated_at FROM public.accounts WHERE user_id = $1 AND provider_id = $2`

	rows, err := a.pool.Query(ctx, q, userID, providerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var accounts []*local.Account
	for rows.Next() {
		account := &local.Account{}
		if err := rows.Scan(&account.ID, &account.UserID, &account.ProviderID, &account.AccountID, &account.Password, &account.CreatedAt, &account.UpdatedAt); err != nil {
			return nil, err
		}
		accounts = append(accounts, account)
	}
	return accounts, rows.Err()
}

func (a *Adapter) UpdateAccount(ctx context.Context, account *local.Account) error {
	q := `UPDATE public.accounts SET password = $1, updated_at = now() WHERE id = $2 RETURNING updated_at`

	var updatedAt time.Time
	if err := a.pool.QueryRow(ctx, q, account.Password, account.ID).Scan(&updatedAt); err != nil {
		return err
	}
	account.UpdatedAt = updatedAt
	return nil
}
