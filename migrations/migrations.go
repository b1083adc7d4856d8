// Package migrations embeds the versioned schema for every supported SQL
// dialect and applies it with golang-migrate.
package migrations

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database"
	"github.com/golang-migrate/migrate/v4/database/mysql"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/database/sqlite3"
	"github.com/golang-migrate/migrate/v4/source/iofs"
)

//go:embed postgres/*.sql mysql/*.sql sqlite3/*.sql
var files embed.FS

// Dialect returns the migration directory used for a database/sql driver name.
func Dialect(driverName string) (string, error) {
	switch driverName {
	case "postgres", "pgx":
		return "postgres", nil
	case "mysql":
		return "mysql", nil
	case "sqlite3":
		return "sqlite3", nil
	}
	return "", fmt.Errorf("migrations: unsupported driver %q", driverName)
}

// New builds a migrator over an already open pool. Postgres and MySQL
// migrations run on a connection taken from sqldb; sqlite3 migrations use
// sqldb itself. Release the migrator with Close, never with m.Close.
func New(ctx context.Context, sqldb *sql.DB, driverName string, logger *slog.Logger) (*migrate.Migrate, error) {
	dialect, err := Dialect(driverName)
	if err != nil {
		return nil, err
	}

	src, err := iofs.New(files, dialect)
	if err != nil {
		return nil, fmt.Errorf("migrations: source: %w", err)
	}

	var drv database.Driver
	switch dialect {
	case "postgres", "mysql":
		conn, err := sqldb.Conn(ctx)
		if err != nil {
			return nil, fmt.Errorf("migrations: %s connection: %w", dialect, err)
		}
		if dialect == "postgres" {
			drv, err = postgres.WithConnection(ctx, conn, &postgres.Config{})
		} else {
			drv, err = mysql.WithConnection(ctx, conn, &mysql.Config{})
		}
		if err != nil {
			_ = conn.Close()
			return nil, fmt.Errorf("migrations: %s driver: %w", dialect, err)
		}
	case "sqlite3":
		drv, err = sqlite3.WithInstance(sqldb, &sqlite3.Config{})
		if err != nil {
			return nil, fmt.Errorf("migrations: %s driver: %w", dialect, err)
		}
	}

	m, err := migrate.NewWithInstance("iofs", src, dialect, drv)
	if err != nil {
		if dialect != "sqlite3" {
			_ = drv.Close()
		}
		return nil, fmt.Errorf("migrations: init: %w", err)
	}
	if logger != nil {
		m.Log = NewLogger(logger, false)
	}
	return m, nil
}

// Up applies every pending migration. sqldb stays open and usable.
func Up(ctx context.Context, sqldb *sql.DB, driverName string, logger *slog.Logger) (err error) {
	m, err := New(ctx, sqldb, driverName, logger)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := Close(m, driverName); cerr != nil && err == nil {
			err = cerr
		}
	}()

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("migrations: up: %w", err)
	}
	return nil
}

// Close releases a migrator built by New without closing the caller's pool.
// The postgres and mysql drivers give back their connection; the sqlite3
// driver would close the pool itself, so only the source is closed.
func Close(m *migrate.Migrate, driverName string) error {
	if driverName == "sqlite3" {
		// The embedded source holds nothing to release.
		return nil
	}
	srcErr, dbErr := m.Close()
	if err := errors.Join(srcErr, dbErr); err != nil {
		return fmt.Errorf("migrations: close: %w", err)
	}
	return nil
}

// Logger adapts slog to migrate.Logger.
type Logger struct {
	logger  *slog.Logger
	verbose bool
}

// NewLogger returns a migrate.Logger writing to logger.
func NewLogger(logger *slog.Logger, verbose bool) *Logger {
	return &Logger{logger: logger, verbose: verbose}
}

func (l *Logger) Printf(format string, v ...any) {
	l.logger.Info(strings.TrimSpace(fmt.Sprintf(format, v...)))
}

func (l *Logger) Verbose() bool { return l.verbose }
