// main.go: interactive employee tracker.
//
// Reads the connection settings from the environment (or .env), connects,
// optionally applies pending migrations and runs the menu until the user
// picks "Exit application".
//
// Exit codes: 0 on exit, 1 on a startup failure, 130 when a prompt is
// interrupted with Ctrl-C.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/Skryldev/employee-tracker/app"
	"github.com/Skryldev/employee-tracker/config"
	"github.com/Skryldev/employee-tracker/db"
	"github.com/Skryldev/employee-tracker/migrations"
	"github.com/Skryldev/employee-tracker/prompt"
)

const exitInterrupted = 130

func main() {
	os.Exit(run(context.Background(), prompt.NewSurvey(), os.Stdout, os.Stderr))
}

func run(ctx context.Context, p prompt.Prompter, stdout, stderr io.Writer) int {
	// ── 0. Configuration ──────────────────────────────────────────────────
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(stderr, err)
		return 1
	}

	// ── 1. Structured logger ──────────────────────────────────────────────
	level, err := cfg.Log.SlogLevel()
	if err != nil {
		fmt.Fprintln(stderr, err)
		return 1
	}
	logger := slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)

	// ── 2. Database ───────────────────────────────────────────────────────
	database, err := db.OpenWithDriver(cfg.Database.Driver, cfg.Database.Options(), db.Config{
		// One session, one connection.
		MaxOpenConns: 1,
		Hooks: []db.Hook{
			db.NewLogHook(db.LogHookConfig{
				Logger:             logger,
				SlowQueryThreshold: 200 * time.Millisecond,
			}),
		},
	})
	if err != nil {
		logger.Error("connect failed", "driver", cfg.Database.Driver, "error", err)
		return 1
	}
	defer database.Close()

	// ── 3. Migrations ─────────────────────────────────────────────────────
	if cfg.Database.AutoMigrate {
		if err := migrations.Up(ctx, database.Raw(), database.DriverName(), logger); err != nil {
			logger.Error("migrate failed", "error", err)
			return 1
		}
	}

	// ── 4. Menu ───────────────────────────────────────────────────────────
	err = app.New(database, p, stdout, logger).Run(ctx)
	switch {
	case errors.Is(err, prompt.ErrInterrupted):
		return exitInterrupted
	case err != nil:
		logger.Error("menu failed", "error", err)
		return 1
	}
	return 0
}
