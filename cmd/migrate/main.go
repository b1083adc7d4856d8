// Command migrate manages the tracker's schema and sample data.
//
//	migrate up           apply all pending migrations
//	migrate down [N]     roll back N migrations (default 1)
//	migrate version      print the current version
//	migrate force V      set the version without running anything
//	migrate drop         drop every table (asks for confirmation)
//	migrate seed         insert a sample organisation
//
// Connection settings are read the same way as the tracker itself (DB_*
// variables, .env).
package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"github.com/golang-migrate/migrate/v4"
	"github.com/spf13/cobra"

	"github.com/Skryldev/employee-tracker/config"
	"github.com/Skryldev/employee-tracker/db"
	"github.com/Skryldev/employee-tracker/migrations"
	"github.com/Skryldev/employee-tracker/seed"
)

func main() {
	if err := newRootCmd().ExecuteContext(context.Background()); err != nil {
		slog.Error(err.Error())
		os.Exit(1)
	}
}

type rootOptions struct {
	verbose bool
	logger  *slog.Logger
	db      *db.DB
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}

	cmd := &cobra.Command{
		Use:           "migrate",
		Short:         "Manage the employee tracker schema",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	cmd.PersistentFlags().BoolVarP(&opts.verbose, "verbose", "v", false, "Log every migration step")

	for _, sub := range []*cobra.Command{
		newUpCmd(opts),
		newDownCmd(opts),
		newVersionCmd(opts),
		newForceCmd(opts),
		newDropCmd(opts),
		newSeedCmd(opts),
	} {
		sub.PreRunE = opts.preRun
		sub.PostRunE = opts.postRun
		cmd.AddCommand(sub)
	}
	return cmd
}

func (o *rootOptions) preRun(cmd *cobra.Command, _ []string) error {
	return o.open(cmd.ErrOrStderr())
}

func (o *rootOptions) postRun(*cobra.Command, []string) error {
	if o.db == nil {
		return nil
	}
	err := o.db.Close()
	o.db = nil
	return err
}

func (o *rootOptions) open(stderr io.Writer) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	level, err := cfg.Log.SlogLevel()
	if err != nil {
		return err
	}
	o.logger = slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(o.logger)

	o.db, err = db.OpenWithDriver(cfg.Database.Driver, cfg.Database.Options(), db.Config{MaxOpenConns: 1})
	return err
}

// withMigrate runs fn against a migrator over the open handle. The handle
// stays open for postRun to close.
func (o *rootOptions) withMigrate(ctx context.Context, fn func(*migrate.Migrate) error) error {
	m, err := migrations.New(ctx, o.db.Raw(), o.db.DriverName(), nil)
	if err != nil {
		return err
	}
	m.Log = migrations.NewLogger(o.logger, o.verbose)

	err = fn(m)
	return errors.Join(err, migrations.Close(m, o.db.DriverName()))
}

// ─────────────────────────────────────────────────────────────────────────────
// Subcommands
// ─────────────────────────────────────────────────────────────────────────────

func newUpCmd(o *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "up",
		Short: "Apply all pending migrations",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return o.withMigrate(cmd.Context(), func(m *migrate.Migrate) error {
				if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
					return fmt.Errorf("up failed: %w", err)
				}
				o.logger.Info("migrations: up completed")
				return nil
			})
		},
	}
}

func newDownCmd(o *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "down [N]",
		Short: "Roll back N migrations (default 1)",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			steps := 1
			if len(args) == 1 {
				n, err := strconv.Atoi(args[0])
				if err != nil || n < 1 {
					return fmt.Errorf("down: invalid steps argument %q", args[0])
				}
				steps = n
			}
			return o.withMigrate(cmd.Context(), func(m *migrate.Migrate) error {
				if err := m.Steps(-steps); err != nil && !errors.Is(err, migrate.ErrNoChange) {
					return fmt.Errorf("down failed: %w", err)
				}
				o.logger.Info("migrations: down completed", "steps", steps)
				return nil
			})
		},
	}
}

func newVersionCmd(o *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the current migration version",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return o.withMigrate(cmd.Context(), func(m *migrate.Migrate) error {
				v, dirty, err := m.Version()
				if errors.Is(err, migrate.ErrNilVersion) {
					fmt.Fprintln(cmd.OutOrStdout(), "version: none")
					return nil
				}
				if err != nil {
					return fmt.Errorf("version failed: %w", err)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "version: %d  dirty: %v\n", v, dirty)
				return nil
			})
		},
	}
}

func newForceCmd(o *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "force V",
		Short: "Set the migration version without running it (clears dirty state)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			v, err := strconv.Atoi(args[0])
			if err != nil {
				return fmt.Errorf("force: invalid version %q", args[0])
			}
			return o.withMigrate(cmd.Context(), func(m *migrate.Migrate) error {
				if err := m.Force(v); err != nil {
					return fmt.Errorf("force failed: %w", err)
				}
				o.logger.Info("migrations: forced", "version", v)
				return nil
			})
		},
	}
}

func newDropCmd(o *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "drop",
		Short: "Drop every table (development only)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			fmt.Fprintln(cmd.ErrOrStderr(), "WARNING: drop will destroy all tables. Type 'yes' to confirm:")
			line, err := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
			if err != nil && !errors.Is(err, io.EOF) {
				return fmt.Errorf("drop: read confirmation: %w", err)
			}
			if strings.TrimSpace(line) != "yes" {
				fmt.Fprintln(cmd.OutOrStdout(), "aborted")
				return nil
			}
			return o.withMigrate(cmd.Context(), func(m *migrate.Migrate) error {
				if err := m.Drop(); err != nil {
					return fmt.Errorf("drop failed: %w", err)
				}
				o.logger.Info("migrations: all tables dropped")
				return nil
			})
		},
	}
}

func newSeedCmd(o *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "seed",
		Short: "Insert a sample organisation into an empty schema",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := seed.Run(cmd.Context(), o.db); err != nil {
				return err
			}
			o.logger.Info("seed: sample data inserted")
			return nil
		},
	}
}
