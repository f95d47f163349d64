// Package pgx implements the relational storage ports on PostgreSQL
// through a pgxpool connection pool.
package pgx

import (
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/tenonkit/tenon/core"
	"github.com/tenonkit/tenon/provider/local"
)

type Adapter struct {
	pool *pgxpool.Pool
}

var (
	_ core.Storage  = (*Adapter)(nil)
	_ local.Storage = (*Adapter)(nil)
)

func New(pool *pgxpool.Pool) *Adapter {
	return &Adapter{
		pool: pool,
	}
}
