package migrations_test

import (
	"bytes"
	"context"
	"log/slog"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Skryldev/employee-tracker/dbtest"
	"github.com/Skryldev/employee-tracker/migrations"
)

func TestDialect(t *testing.T) {
	cases := map[string]string{
		"postgres": "postgres",
		"pgx":      "postgres",
		"mysql":    "mysql",
		"sqlite3":  "sqlite3",
	}
	for driver, want := range cases {
		got, err := migrations.Dialect(driver)
		require.NoError(t, err, driver)
		assert.Equal(t, want, got, driver)
	}

	_, err := migrations.Dialect("oracle")
	assert.ErrorContains(t, err, `"oracle"`)
}

func TestUp_CreatesSchemaAndIsIdempotent(t *testing.T) {
	d := dbtest.OpenEmpty(t)
	var logs bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&logs, nil))

	ctx := context.Background()
	require.NoError(t, migrations.Up(ctx, d.Raw(), d.DriverName(), logger))
	require.NoError(t, migrations.Up(ctx, d.Raw(), d.DriverName(), logger))

	// The handle survives both runs.
	require.NoError(t, d.Raw().PingContext(ctx))

	var tables []string
	require.NoError(t, d.Select(context.Background(), &tables,
		`SELECT name FROM sqlite_master WHERE type = 'table' AND name IN ('department', 'role', 'employee') ORDER BY name`))
	assert.Equal(t, []string{"department", "employee", "role"}, tables)
}

func TestNew_Version(t *testing.T) {
	d := dbtest.Open(t)

	m, err := migrations.New(context.Background(), d.Raw(), d.DriverName(), nil)
	require.NoError(t, err)
	v, dirty, err := m.Version()
	require.NoError(t, err)
	assert.EqualValues(t, 1, v)
	assert.False(t, dirty)
	require.NoError(t, migrations.Close(m, d.DriverName()))
	require.NoError(t, d.Raw().Ping())
}

func TestNew_PostgresLeavesPoolOpen(t *testing.T) {
	sqldb, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer sqldb.Close()

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT CURRENT_DATABASE()`)).
		WillReturnRows(sqlmock.NewRows([]string{"current_database"}).AddRow("tracker"))
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT CURRENT_SCHEMA()`)).
		WillReturnRows(sqlmock.NewRows([]string{"current_schema"}).AddRow("public"))
	mock.ExpectExec(regexp.QuoteMeta(`SELECT pg_advisory_lock($1)`)).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT COUNT(1) FROM information_schema.tables`)).
		WithArgs("public", "schema_migrations").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))
	mock.ExpectExec(regexp.QuoteMeta(`SELECT pg_advisory_unlock($1)`)).
		WillReturnResult(sqlmock.NewResult(0, 0))

	m, err := migrations.New(context.Background(), sqldb, "postgres", nil)
	require.NoError(t, err)
	require.NoError(t, migrations.Close(m, "postgres"))

	// Closing the migrator hands its connection back; the pool keeps working.
	require.NoError(t, sqldb.Ping())
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestLogger(t *testing.T) {
	var buf bytes.Buffer
	l := migrations.NewLogger(slog.New(slog.NewTextHandler(&buf, nil)), true)

	l.Printf("applied %d\n", 1)
	assert.True(t, l.Verbose())
	assert.Contains(t, buf.String(), `msg="applied 1"`)
}
