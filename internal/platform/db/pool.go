package db

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Conn is the slice of pgxpool.Pool the stores actually use.
type Conn interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	BeginTx(ctx context.Context, opts pgx.TxOptions) (pgx.Tx, error)
}

// DB fronts the connection pool for the stores and reissues statements that
// fail transiently, per the Retry policy. Every store talks to Postgres
// through one of these rather than the raw pool.
type DB struct {
	conn Conn
}

func Wrap(pool *pgxpool.Pool) *DB {
	return &DB{conn: pool}
}

func (d *DB) Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error) {
	var tag pgconn.CommandTag
	err := Retry(ctx, func(ctx context.Context) error {
		var execErr error
		tag, execErr = d.conn.Exec(ctx, sql, args...)
		return execErr
	})
	return tag, err
}

func (d *DB) Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error) {
	var rows pgx.Rows
	err := Retry(ctx, func(ctx context.Context) error {
		var queryErr error
		rows, queryErr = d.conn.Query(ctx, sql, args...)
		return queryErr
	})
	if err != nil {
		return nil, err
	}
	return rows, nil
}

// QueryRow defers the round trip until Scan so the whole statement can be
// reissued on a transient failure. pgx reports row errors through Scan, so
// this covers both the dial and the read.
func (d *DB) QueryRow(ctx context.Context, sql string, args ...any) pgx.Row {
	return retryRow{ctx: ctx, conn: d.conn, sql: sql, args: args}
}

type retryRow struct {
	ctx  context.Context
	conn Conn
	sql  string
	args []any
}

func (r retryRow) Scan(dest ...any) error {
	return Retry(r.ctx, func(ctx context.Context) error {
		return r.conn.QueryRow(ctx, r.sql, r.args...).Scan(dest...)
	})
}

// InTx runs fn inside a transaction and retries the whole transaction when
// it fails transiently (dropped connection, serialization failure,
// deadlock). fn must be safe to run again from scratch; domain errors are
// not transient and surface after the rollback.
func (d *DB) InTx(ctx context.Context, fn func(pgx.Tx) error) error {
	return Retry(ctx, func(ctx context.Context) error {
		tx, err := d.conn.BeginTx(ctx, pgx.TxOptions{})
		if err != nil {
			return err
		}
		defer func() { _ = tx.Rollback(ctx) }()

		if err := fn(tx); err != nil {
			return err
		}
		return tx.Commit(ctx)
	})
}
