package main

import (
	"bytes"
	"errors"
	"io"
	"path/filepath"
	"strings"
	"testing"
	"testing/iotest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func useSQLite(t *testing.T) {
	t.Helper()
	for _, name := range []string{"DB_HOST", "DB_PORT", "DB_USER", "DB_PASS", "DB_SSLMODE", "DB_AUTO_MIGRATE"} {
		t.Setenv(name, "")
	}
	t.Setenv("DB_DRIVER", "sqlite3")
	t.Setenv("DB_NAME", filepath.Join(t.TempDir(), "tracker.db"))
	t.Setenv("LOG_LEVEL", "error")
}

func execute(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	return executeFrom(t, strings.NewReader(stdin), args...)
}

func executeFrom(t *testing.T, stdin io.Reader, args ...string) (string, error) {
	t.Helper()
	var out, errOut bytes.Buffer
	cmd := newRootCmd()
	cmd.SetArgs(args)
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetIn(stdin)
	err := cmd.Execute()
	return out.String(), err
}

func TestMigrate_Lifecycle(t *testing.T) {
	useSQLite(t)

	out, err := execute(t, "", "version")
	require.NoError(t, err)
	assert.Equal(t, "version: none\n", out)

	_, err = execute(t, "", "up")
	require.NoError(t, err)

	out, err = execute(t, "", "version")
	require.NoError(t, err)
	assert.Equal(t, "version: 1  dirty: false\n", out)

	// Up again is a no-op.
	_, err = execute(t, "", "up")
	require.NoError(t, err)

	_, err = execute(t, "", "seed")
	require.NoError(t, err)

	_, err = execute(t, "", "down")
	require.NoError(t, err)

	out, err = execute(t, "", "version")
	require.NoError(t, err)
	assert.Equal(t, "version: none\n", out)
}

func TestMigrate_Force(t *testing.T) {
	useSQLite(t)

	_, err := execute(t, "", "force", "1")
	require.NoError(t, err)

	out, err := execute(t, "", "version")
	require.NoError(t, err)
	assert.Equal(t, "version: 1  dirty: false\n", out)
}

func TestMigrate_DropNeedsConfirmation(t *testing.T) {
	useSQLite(t)
	_, err := execute(t, "", "up")
	require.NoError(t, err)

	out, err := execute(t, "no\n", "drop")
	require.NoError(t, err)
	assert.Equal(t, "aborted\n", out)

	out, err = execute(t, "", "version")
	require.NoError(t, err)
	assert.Equal(t, "version: 1  dirty: false\n", out)
}

func TestMigrate_DropConfirmationReadError(t *testing.T) {
	useSQLite(t)
	_, err := execute(t, "", "up")
	require.NoError(t, err)

	_, err = executeFrom(t, iotest.ErrReader(errors.New("terminal gone")), "drop")
	assert.ErrorContains(t, err, "read confirmation")
	assert.ErrorContains(t, err, "terminal gone")

	out, err := execute(t, "", "version")
	require.NoError(t, err)
	assert.Equal(t, "version: 1  dirty: false\n", out)
}

func TestMigrate_DropAnswerWithoutNewline(t *testing.T) {
	useSQLite(t)

	out, err := execute(t, "nope", "drop")
	require.NoError(t, err)
	assert.Equal(t, "aborted\n", out)
}

func TestMigrate_BadArguments(t *testing.T) {
	useSQLite(t)

	_, err := execute(t, "", "down", "zero")
	assert.ErrorContains(t, err, "invalid steps")

	_, err = execute(t, "", "force", "x")
	assert.ErrorContains(t, err, "invalid version")

	_, err = execute(t, "", "up", "extra")
	assert.Error(t, err)
}

func TestMigrate_BadConfig(t *testing.T) {
	useSQLite(t)
	t.Setenv("DB_PORT", "not-a-port")

	_, err := execute(t, "", "up")
	assert.Error(t, err)
}

func TestMigrate_BadLogLevel(t *testing.T) {
	useSQLite(t)
	t.Setenv("LOG_LEVEL", "loud")

	_, err := execute(t, "", "version")
	assert.ErrorContains(t, err, "loud")
}
