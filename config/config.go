// Package config loads the tracker's settings from the environment.
//
// Values come from, in order of precedence:
//  1. Environment variables (DB_HOST, DB_PORT, DB_USER, DB_PASS, DB_NAME, ...)
//  2. A .env file in the working directory, if present
//  3. Defaults
package config

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/Skryldev/employee-tracker/db"
)

// Config is the root configuration structure.
type Config struct {
	Database DatabaseConfig `mapstructure:"database"`
	Log      LogConfig      `mapstructure:"log"`
}

// DatabaseConfig describes the connection. For sqlite3, Name is the file path
// and the network fields are ignored.
type DatabaseConfig struct {
	Driver      string `mapstructure:"driver"`
	Host        string `mapstructure:"host"`
	Port        int    `mapstructure:"port"`
	User        string `mapstructure:"user"`
	Password    string `mapstructure:"password"`
	Name        string `mapstructure:"name"`
	SSLMode     string `mapstructure:"sslmode"`
	AutoMigrate bool   `mapstructure:"auto_migrate"`
}

// LogConfig contains logging settings.
type LogConfig struct {
	Level string `mapstructure:"level"`
}

// env maps config keys to their environment variable names.
var env = map[string]string{
	"database.driver":       "DB_DRIVER",
	"database.host":         "DB_HOST",
	"database.port":         "DB_PORT",
	"database.user":         "DB_USER",
	"database.password":     "DB_PASS",
	"database.name":         "DB_NAME",
	"database.sslmode":      "DB_SSLMODE",
	"database.auto_migrate": "DB_AUTO_MIGRATE",
	"log.level":             "LOG_LEVEL",
}

// Load reads .env (if present) and the environment.
func Load() (*Config, error) {
	// .env is optional; real environment variables win over it.
	_ = godotenv.Load()
	return load()
}

func load() (*Config, error) {
	v := viper.New()
	for key, name := range env {
		if err := v.BindEnv(key, name); err != nil {
			return nil, fmt.Errorf("config: bind %s: %w", name, err)
		}
	}
	setDefaults(v)

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("database.driver", "postgres")
	v.SetDefault("database.sslmode", "disable")
	v.SetDefault("database.auto_migrate", false)
	v.SetDefault("log.level", "info")
}

// Validate checks the values that would otherwise only fail at connect time.
func (c *Config) Validate() error {
	if _, err := db.LookupDriver(c.Database.Driver); err != nil {
		return fmt.Errorf("config: DB_DRIVER: %w", err)
	}
	if c.Database.Port < 0 || c.Database.Port > 65535 {
		return fmt.Errorf("config: DB_PORT %d out of range", c.Database.Port)
	}
	if _, err := c.Log.SlogLevel(); err != nil {
		return err
	}
	return nil
}

// Options converts the settings into driver options.
func (d DatabaseConfig) Options() db.DriverOptions {
	return db.DriverOptions{
		Host:     d.Host,
		Port:     d.Port,
		User:     d.User,
		Password: d.Password,
		Database: d.Name,
		SSLMode:  d.SSLMode,
	}
}

// SlogLevel parses Level ("debug", "info", "warn", "error").
func (l LogConfig) SlogLevel() (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(strings.TrimSpace(l.Level))); err != nil {
		return 0, fmt.Errorf("config: LOG_LEVEL: %w", err)
	}
	return level, nil
}
