// Package db is a thin, SQL-first layer over database/sql and sqlx. It is
// NOT an ORM: all SQL is explicit. Statements are written with `?`
// placeholders and rebound to the driver's bind style before execution.
package db

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
)

// ─────────────────────────────────────────────────────────────────────────────
// Config
// ─────────────────────────────────────────────────────────────────────────────

// Config holds all options for opening and managing the connection pool.
type Config struct {
	// DSN is the driver-specific data-source name.
	DSN string

	// DriverName is "postgres", "pgx", "mysql", or "sqlite3".
	DriverName string

	// Pool settings
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration

	// Hooks executed around every statement.
	// Nil entries are silently skipped.
	Hooks []Hook
}

// ─────────────────────────────────────────────────────────────────────────────
// DB — the central type
// ─────────────────────────────────────────────────────────────────────────────

// DB wraps *sqlx.DB. It adds placeholder rebinding, hook dispatch, unified
// error mapping, and transaction management.
type DB struct {
	sqldb  *sqlx.DB
	cfg    Config
	hooks  hookChain
	errMap ErrorMapper
}

// Open opens the database described by cfg and verifies connectivity with Ping.
// Callers are responsible for calling Close().
func Open(cfg Config) (*DB, error) {
	if cfg.DSN == "" {
		return nil, fmt.Errorf("tracker/db: DSN must not be empty")
	}
	if cfg.DriverName == "" {
		return nil, fmt.Errorf("tracker/db: DriverName must not be empty")
	}

	sqldb, err := sqlx.Open(cfg.DriverName, cfg.DSN)
	if err != nil {
		return nil, fmt.Errorf("tracker/db: open: %w", err)
	}

	if cfg.MaxOpenConns > 0 {
		sqldb.SetMaxOpenConns(cfg.MaxOpenConns)
	}
	if cfg.MaxIdleConns > 0 {
		sqldb.SetMaxIdleConns(cfg.MaxIdleConns)
	}
	if cfg.ConnMaxLifetime > 0 {
		sqldb.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	}

	d := &DB{
		sqldb:  sqldb,
		cfg:    cfg,
		hooks:  newHookChain(cfg.Hooks),
		errMap: DefaultErrorMapper(),
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := sqldb.PingContext(ctx); err != nil {
		_ = sqldb.Close()
		return nil, fmt.Errorf("tracker/db: ping: %w", d.mapErr(err))
	}

	return d, nil
}

// Raw returns the underlying *sql.DB, e.g. for migration drivers.
func (d *DB) Raw() *sql.DB { return d.sqldb.DB }

// DriverName reports the database/sql driver the pool was opened with.
func (d *DB) DriverName() string { return d.sqldb.DriverName() }

// SetErrorMapper replaces the default error mapper.
func (d *DB) SetErrorMapper(m ErrorMapper) { d.errMap = m }

// Close closes all pooled connections.
func (d *DB) Close() error { return d.sqldb.Close() }

// ─────────────────────────────────────────────────────────────────────────────
// Query execution helpers
// ─────────────────────────────────────────────────────────────────────────────

// Exec executes a statement that returns no rows (INSERT, UPDATE, DELETE, DDL).
func (d *DB) Exec(ctx context.Context, query string, args ...any) (sql.Result, error) {
	query = d.sqldb.Rebind(query)
	start := time.Now()
	d.hooks.Before(ctx, query, args)
	res, err := d.sqldb.ExecContext(ctx, query, args...)
	err = d.mapErr(err)
	d.hooks.After(ctx, query, args, time.Since(start), err)
	return res, err
}

// Select runs query and scans every row into dest, which must be a pointer
// to a slice. Columns are matched to struct fields by their `db` tags.
// An empty result leaves dest empty and is not an error.
func (d *DB) Select(ctx context.Context, dest any, query string, args ...any) error {
	query = d.sqldb.Rebind(query)
	start := time.Now()
	d.hooks.Before(ctx, query, args)
	err := d.mapErr(d.sqldb.SelectContext(ctx, dest, query, args...))
	d.hooks.After(ctx, query, args, time.Since(start), err)
	return err
}

// Get runs query and scans the single resulting row into dest.
// Returns ErrNotFound when no row matches.
func (d *DB) Get(ctx context.Context, dest any, query string, args ...any) error {
	query = d.sqldb.Rebind(query)
	start := time.Now()
	d.hooks.Before(ctx, query, args)
	err := d.mapErr(d.sqldb.GetContext(ctx, dest, query, args...))
	d.hooks.After(ctx, query, args, time.Since(start), err)
	return err
}

// ─────────────────────────────────────────────────────────────────────────────
// Prepared statements
// ─────────────────────────────────────────────────────────────────────────────

// Prepare creates a prepared statement for repeated use.
// The caller is responsible for calling stmt.Close().
func (d *DB) Prepare(ctx context.Context, query string) (*Stmt, error) {
	query = d.sqldb.Rebind(query)
	s, err := d.sqldb.PrepareContext(ctx, query)
	if err != nil {
		return nil, d.mapErr(err)
	}
	return &Stmt{stmt: s, query: query, hooks: d.hooks, errMap: d.errMap}, nil
}

// ─────────────────────────────────────────────────────────────────────────────
// Batch helpers
// ─────────────────────────────────────────────────────────────────────────────

// BatchExec prepares query once on q and executes it for every item with the
// arguments returned by argsFn, stopping at the first error. Pass a *Tx to
// make the batch all-or-nothing.
//
//	err := d.ExecTx(ctx, func(tx *db.Tx) error {
//	    return db.BatchExec(ctx, tx, "INSERT INTO department (name) VALUES (?)", names,
//	        func(name string) []any { return []any{name} })
//	})
func BatchExec[T any](
	ctx context.Context,
	q Querier,
	query string,
	items []T,
	argsFn func(T) []any,
) error {
	stmt, err := q.Prepare(ctx, query)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, item := range items {
		if _, err := stmt.Exec(ctx, argsFn(item)...); err != nil {
			return err
		}
	}
	return nil
}

func (d *DB) mapErr(err error) error {
	if err == nil {
		return nil
	}
	return d.errMap.Map(err)
}

// ─────────────────────────────────────────────────────────────────────────────
// Stmt — wraps *sql.Stmt
// ─────────────────────────────────────────────────────────────────────────────

// Stmt wraps a prepared *sql.Stmt with hook dispatch and error mapping.
type Stmt struct {
	stmt   *sql.Stmt
	query  string
	hooks  hookChain
	errMap ErrorMapper
}

// Exec executes the prepared statement.
func (s *Stmt) Exec(ctx context.Context, args ...any) (sql.Result, error) {
	start := time.Now()
	s.hooks.Before(ctx, s.query, args)
	res, err := s.stmt.ExecContext(ctx, args...)
	if err != nil {
		err = s.errMap.Map(err)
	}
	s.hooks.After(ctx, s.query, args, time.Since(start), err)
	return res, err
}

// Close releases the prepared statement resources.
func (s *Stmt) Close() error { return s.stmt.Close() }
