package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// ErrNotFound marks a lookup for an id that does not exist. Handlers map it to
// a 404 with errors.Is.
var ErrNotFound = errors.New("not found")

// Pool is the subset of pgxpool.Pool the repositories use. pgxmock satisfies
// it too, so repository tests run without a database.
type Pool interface {
	Begin(ctx context.Context) (pgx.Tx, error)
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}
