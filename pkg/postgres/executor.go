package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

type txKey struct{}

type Executor interface {
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
}

// GetExecutor returns the transaction carried by ctx, or the pool.
func (p *Postgres) GetExecutor(ctx context.Context) Executor {
	if tx, ok := txFromContext(ctx); ok {
		return tx
	}
	return p.Pool
}

func txFromContext(ctx context.Context) (pgx.Tx, bool) {
	tx, ok := ctx.Value(txKey{}).(pgx.Tx)

	return tx, ok
}

// WithinTransaction runs f in a transaction. A nested call joins the outer one.
// 1) Begin Tx;
// 2) Updates ctx -> context.WithValue(Tx) && func call;
// 3) err or panic = Tx.Rollback, ok = Tx.Commit.
func (p *Postgres) WithinTransaction(ctx context.Context, f func(ctx context.Context) error) (err error) {
	if _, ok := txFromContext(ctx); ok {
		return f(ctx)
	}

	tx, err := p.Pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("Postgres - WithinTransaction - p.Pool.Begin: %w", err)
	}

	defer func() {
		if r := recover(); r != nil {
			_ = tx.Rollback(ctx)
			panic(r)
		}
	}()

	err = f(context.WithValue(ctx, txKey{}, tx))
	if err != nil {
		_ = tx.Rollback(ctx)

		return fmt.Errorf("Postgres - WithinTransaction: %w", err)
	}

	err = tx.Commit(ctx)
	if err != nil {
		return fmt.Errorf("Postgres - WithinTransaction - tx.Commit: %w", err)
	}

	return nil
}
