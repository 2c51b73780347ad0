// Package repokit provides common types and helpers for repository implementations
package repokit

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// Queryer is the minimal read and write surface for SQL repos; *pgxpool.Pool and pgx.Tx satisfy it
type Queryer interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// Beginner starts transactions
type Beginner interface {
	Begin(ctx context.Context) (pgx.Tx, error)
}

// WithTx runs fn inside a transaction, committing on nil and rolling back otherwise
func WithTx(ctx context.Context, b Beginner, fn func(q Queryer) error) error {
	return pgx.BeginFunc(ctx, b, func(tx pgx.Tx) error { return fn(tx) })
}
