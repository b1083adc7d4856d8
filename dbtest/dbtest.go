// Package dbtest opens throwaway in-memory SQLite databases with the real
// schema applied, for use in tests.
package dbtest

import (
	"context"
	"fmt"
	"sync/atomic"
	"testing"

	"github.com/Skryldev/employee-tracker/db"
	"github.com/Skryldev/employee-tracker/migrations"
)

var seq atomic.Int64

// Open returns a migrated, empty database that is closed when the test ends.
// Each call gets its own database, so tests never share rows.
func Open(t testing.TB, hooks ...db.Hook) *db.DB {
	t.Helper()
	d := OpenEmpty(t, hooks...)
	if err := migrations.Up(context.Background(), d.Raw(), d.DriverName(), nil); err != nil {
		t.Fatalf("dbtest: migrate: %v", err)
	}
	return d
}

// OpenEmpty is like Open but leaves the schema to the caller.
func OpenEmpty(t testing.TB, hooks ...db.Hook) *db.DB {
	t.Helper()
	d, err := db.OpenWithDriver("sqlite3", db.DriverOptions{
		Database: fmt.Sprintf("dbtest_%d", seq.Add(1)),
		Extra:    map[string]string{"mode": "memory", "cache": "shared"},
	}, db.Config{
		// A single connection keeps the in-memory database alive and
		// serialises access the same way the interactive tool does.
		MaxOpenConns: 1,
		Hooks:        hooks,
	})
	if err != nil {
		t.Fatalf("dbtest: open: %v", err)
	}
	t.Cleanup(func() { _ = d.Close() })
	return d
}
