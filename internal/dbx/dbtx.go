// Package dbx holds the small database plumbing the repositories build on:
// the DBTX query interface and a transaction wrapper.
package dbx

import (
	"context"
	"database/sql"
)

// DBTX is the handful of query methods the repositories actually call.
// Both *sql.DB and *sql.Tx satisfy it, so the same repository code runs
// with or without a transaction.
type DBTX interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// WithTx wraps fn in a transaction: commit when fn returns nil, rollback
// when it returns an error or panics (the panic is rethrown).
//
// The profile flows use it to keep a uniqueness check and the following
// write on one transactional handle:
//
//	err := dbx.WithTx(ctx, db, nil, func(ctx context.Context, tx dbx.DBTX) error {
//	    repo := repos.Users(tx)
//	    ...
//	})
func WithTx(ctx context.Context, db *sql.DB, opts *sql.TxOptions, fn func(ctx context.Context, tx DBTX) error) (err error) {
	tx, err := db.BeginTx(ctx, opts)
	if err != nil {
		return err
	}

	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback()
			panic(p)
		}
		if err != nil {
			_ = tx.Rollback()
			return
		}
		err = tx.Commit()
	}()

	err = fn(ctx, tx)
	return err
}
