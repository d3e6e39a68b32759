// Package dbx provides tiny DB abstractions shared by repositories:
// a minimal interface (DBTX) implemented by both *sql.DB and *sql.Tx,
// a helper to run functions inside a transaction, and a helper that scopes
// a database handle to a single logical operation.
package dbx

import (
	"context"
	"database/sql"
)

// DBTX is the subset of database/sql used by our repos.
// Both *sql.DB and *sql.Tx satisfy this interface.
type DBTX interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// Opener returns a ready handle for one logical operation. The caller owns
// the handle and must close it.
type Opener func(ctx context.Context) (*sql.DB, error)

// WithConn opens a handle, runs fn with it and closes it on every exit
// path, including panics. A close error is reported only when fn succeeded.
//
//	err := dbx.WithConn(ctx, open, func(ctx context.Context, db *sql.DB) error {
//	    return repo.Do(ctx, db)
//	})
func WithConn(ctx context.Context, open Opener, fn func(ctx context.Context, db *sql.DB) error) (err error) {
	db, err := open(ctx)
	if err != nil {
		return err
	}

	defer func() {
		cerr := db.Close()
		if err == nil {
			err = cerr
		}
	}()

	return fn(ctx, db)
}

// WithTx begins a transaction, runs fn with a transactional handle, and then
// commits on success or rolls back on error/panic. Panics are rethrown.
//
// Typical use:
//
//	err := dbx.WithTx(ctx, db, nil, func(ctx context.Context, tx dbx.DBTX) error {
//	    // use tx instead of db
//	    _, err := tx.ExecContext(ctx, "INSERT ...")
//	    return err
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
