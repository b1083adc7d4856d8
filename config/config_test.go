package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// clearEnv blanks every variable the loader reads. Viper treats an empty
// variable as unset.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, name := range env {
		t.Setenv(name, "")
	}
}

func TestLoad_Defaults(t *testing.T) {
	clearEnv(t)

	cfg, err := load()
	require.NoError(t, err)
	assert.Equal(t, "postgres", cfg.Database.Driver)
	assert.Equal(t, "disable", cfg.Database.SSLMode)
	assert.False(t, cfg.Database.AutoMigrate)
	assert.Equal(t, 0, cfg.Database.Port)
	assert.Equal(t, "info", cfg.Log.Level)
}

func TestLoad_FromEnvironment(t *testing.T) {
	clearEnv(t)
	t.Setenv("DB_DRIVER", "mysql")
	t.Setenv("DB_HOST", "db.internal")
	t.Setenv("DB_PORT", "3307")
	t.Setenv("DB_USER", "tracker")
	t.Setenv("DB_PASS", "s3cret")
	t.Setenv("DB_NAME", "employees")
	t.Setenv("DB_AUTO_MIGRATE", "true")
	t.Setenv("LOG_LEVEL", "debug")

	cfg, err := load()
	require.NoError(t, err)
	assert.Equal(t, DatabaseConfig{
		Driver:      "mysql",
		Host:        "db.internal",
		Port:        3307,
		User:        "tracker",
		Password:    "s3cret",
		Name:        "employees",
		SSLMode:     "disable",
		AutoMigrate: true,
	}, cfg.Database)

	level, err := cfg.Log.SlogLevel()
	require.NoError(t, err)
	assert.Equal(t, slog.LevelDebug, level)

	opts := cfg.Database.Options()
	assert.Equal(t, "db.internal", opts.Host)
	assert.Equal(t, 3307, opts.Port)
	assert.Equal(t, "s3cret", opts.Password)
	assert.Equal(t, "employees", opts.Database)
}

func TestLoad_NonNumericPort(t *testing.T) {
	clearEnv(t)
	t.Setenv("DB_PORT", "five-four-three-two")

	_, err := load()
	assert.Error(t, err)
}

func TestLoad_PortOutOfRange(t *testing.T) {
	clearEnv(t)
	t.Setenv("DB_PORT", "70000")

	_, err := load()
	assert.ErrorContains(t, err, "DB_PORT")
}

func TestLoad_UnknownDriver(t *testing.T) {
	clearEnv(t)
	t.Setenv("DB_DRIVER", "oracle")

	_, err := load()
	assert.ErrorContains(t, err, "DB_DRIVER")
}

func TestLoad_BadLogLevel(t *testing.T) {
	clearEnv(t)
	t.Setenv("LOG_LEVEL", "chatty")

	_, err := load()
	assert.ErrorContains(t, err, "LOG_LEVEL")
}

func TestLoad_DotEnvDoesNotOverrideEnvironment(t *testing.T) {
	clearEnv(t)
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"),
		[]byte("DB_HOST=from-file\nDB_NAME=from-file\n"), 0o600))
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(wd) })
	// godotenv skips variables that are already present, so unset these
	// for the file to apply. t.Setenv restores them afterwards.
	require.NoError(t, os.Unsetenv("DB_NAME"))
	t.Setenv("DB_HOST", "from-env")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "from-env", cfg.Database.Host)
	assert.Equal(t, "from-file", cfg.Database.Name)
	// Load wrote DB_NAME into the process environment.
	t.Cleanup(func() { _ = os.Unsetenv("DB_NAME") })
}
