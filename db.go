// Copyright 2024 Canonical Ltd.
// Licensed under Apache 2.0, see LICENCE file for details.

package sqlclause

import (
	"context"
	"database/sql"
	"log/slog"
	"strings"
	"sync/atomic"
)

var ErrTXDone = sql.ErrTxDone

// DB runs generated statements on a database.
type DB struct {
	// sqldb is the underlying database/sql DB object.
	sqldb  *sql.DB
	logger *slog.Logger
}

// Option configures a [DB].
type Option func(*DB)

// WithLogger sets the logger executed statements are written to at debug
// level. The default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(db *DB) {
		db.logger = logger
	}
}

// NewDB creates a new [sqlclause.DB] from a [sql.DB].
func NewDB(sqldb *sql.DB, opts ...Option) *DB {
	if sqldb == nil {
		return nil
	}
	db := &DB{sqldb: sqldb, logger: slog.Default()}
	for _, opt := range opts {
		opt(db)
	}
	if db.logger == nil {
		db.logger = slog.Default()
	}
	return db
}

// PlainDB returns the underlying database object.
func (db *DB) PlainDB() *sql.DB {
	return db.sqldb
}

// Exec runs stmt, typically the result of [Update], and returns the number of
// rows affected. An empty statement means there is nothing to do and is not
// sent to the database.
func (db *DB) Exec(ctx context.Context, stmt string) (int64, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	return execStatement(ctx, db.logger, db.sqldb, stmt)
}

// Select runs "SELECT * FROM table" followed by the non-empty clauses, such
// as the results of [Where] and [OrderBy].
func (db *DB) Select(ctx context.Context, table string, clauses ...string) (*sql.Rows, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	return selectRows(ctx, db.logger, db.sqldb, table, clauses)
}

// TX represents a transaction on the database.
type TX struct {
	sqltx  *sql.Tx
	logger *slog.Logger
	done   int32
}

func (tx *TX) isDone() bool {
	return atomic.LoadInt32(&tx.done) == 1
}

func (tx *TX) setDone() error {
	if !atomic.CompareAndSwapInt32(&tx.done, 0, 1) {
		return ErrTXDone
	}
	return nil
}

// Begin starts a transaction. A transaction must be ended
// with a [TX.Commit] or [TX.Rollback].
func (db *DB) Begin(ctx context.Context, opts *TXOptions) (*TX, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	sqltx, err := db.sqldb.BeginTx(ctx, opts.plainTXOptions())
	if err != nil {
		return nil, err
	}
	return &TX{sqltx: sqltx, logger: db.logger}, nil
}

// Commit commits the transaction.
func (tx *TX) Commit() error {
	err := tx.setDone()
	if err == nil {
		err = tx.sqltx.Commit()
	}
	return err
}

// Rollback aborts the transaction.
func (tx *TX) Rollback() error {
	err := tx.setDone()
	if err == nil {
		err = tx.sqltx.Rollback()
	}
	return err
}

// Exec is [DB.Exec] within the transaction.
func (tx *TX) Exec(ctx context.Context, stmt string) (int64, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	if tx.isDone() {
		return 0, ErrTXDone
	}
	return execStatement(ctx, tx.logger, tx.sqltx, stmt)
}

// Select is [DB.Select] within the transaction.
func (tx *TX) Select(ctx context.Context, table string, clauses ...string) (*sql.Rows, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	if tx.isDone() {
		return nil, ErrTXDone
	}
	return selectRows(ctx, tx.logger, tx.sqltx, table, clauses)
}

// TXOptions holds the transaction options to be used in [DB.Begin].
type TXOptions struct {
	// Isolation is the transaction isolation level.
	// If zero, the driver or database's default level is used.
	Isolation sql.IsolationLevel
	ReadOnly  bool
}

func (txopts *TXOptions) plainTXOptions() *sql.TxOptions {
	if txopts == nil {
		return nil
	}
	return &sql.TxOptions{Isolation: txopts.Isolation, ReadOnly: txopts.ReadOnly}
}

// runner is implemented by both *sql.DB and *sql.Tx.
type runner interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
}

func execStatement(ctx context.Context, logger *slog.Logger, r runner, stmt string) (int64, error) {
	if stmt == "" {
		logger.DebugContext(ctx, "nothing to execute")
		return 0, nil
	}
	logger.DebugContext(ctx, "executing statement", "sql", stmt)
	result, err := r.ExecContext(ctx, stmt)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}

func selectRows(ctx context.Context, logger *slog.Logger, r runner, table string, clauses []string) (*sql.Rows, error) {
	query := selectQuery(table, clauses)
	logger.DebugContext(ctx, "running query", "sql", query)
	return r.QueryContext(ctx, query)
}

func selectQuery(table string, clauses []string) string {
	var sb strings.Builder
	sb.WriteString("SELECT * FROM ")
	sb.WriteString(table)
	for _, clause := range clauses {
		if clause == "" {
			continue
		}
		sb.WriteByte(' ')
		sb.WriteString(clause)
	}
	return sb.String()
}
