package db

import (
	"context"
	"log/slog"
	"strings"
	"time"
)

// ─────────────────────────────────────────────────────────────────────────────
// Action labels
// ─────────────────────────────────────────────────────────────────────────────

type actionKey struct{}

// WithAction labels every statement run under ctx with the menu action that
// issued it. Hooks read the label back with ActionOf.
func WithAction(ctx context.Context, action string) context.Context {
	return context.WithValue(ctx, actionKey{}, action)
}

// ActionOf returns the label set by WithAction, or "" outside any action.
func ActionOf(ctx context.Context) string {
	action, _ := ctx.Value(actionKey{}).(string)
	return action
}

// ─────────────────────────────────────────────────────────────────────────────
// Hook interface
// ─────────────────────────────────────────────────────────────────────────────

// Hook observes every statement sent through a DB, Tx or Stmt.
// A panicking hook is recovered and logged; the statement still runs.
type Hook interface {
	BeforeStatement(ctx context.Context, query string, args []any)

	// err is the mapped error handed back to the caller.
	AfterStatement(ctx context.Context, query string, args []any, elapsed time.Duration, err error)
}

type hookChain struct {
	hooks []Hook
}

func newHookChain(hooks []Hook) hookChain {
	var kept []Hook
	for _, h := range hooks {
		if h != nil {
			kept = append(kept, h)
		}
	}
	return hookChain{hooks: kept}
}

func (c hookChain) Before(ctx context.Context, query string, args []any) {
	for _, h := range c.hooks {
		func() {
			defer recoverHook(ctx, "before", query)
			h.BeforeStatement(ctx, query, args)
		}()
	}
}

func (c hookChain) After(ctx context.Context, query string, args []any, elapsed time.Duration, err error) {
	for _, h := range c.hooks {
		func() {
			defer recoverHook(ctx, "after", query)
			h.AfterStatement(ctx, query, args, elapsed, err)
		}()
	}
}

func recoverHook(ctx context.Context, phase, query string) {
	if r := recover(); r != nil {
		slog.ErrorContext(ctx, "tracker/db: hook panicked",
			"phase", phase, "action", ActionOf(ctx), "sql", shortSQL(query), "panic", r)
	}
}

// ─────────────────────────────────────────────────────────────────────────────
// Statement log
// ─────────────────────────────────────────────────────────────────────────────

// LogHookConfig configures NewLogHook.
type LogHookConfig struct {
	// Logger defaults to slog.Default().
	Logger *slog.Logger
	// SlowQueryThreshold raises statements slower than this to warn level.
	// Zero turns the check off.
	SlowQueryThreshold time.Duration
	// LogArgs adds the bound values to each entry.
	LogArgs bool
}

// NewLogHook logs each statement with the menu action that ran it: debug on
// success, warn when slow, error on failure.
func NewLogHook(cfg LogHookConfig) Hook {
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	return logHook(cfg)
}

type logHook LogHookConfig

func (logHook) BeforeStatement(context.Context, string, []any) {}

func (h logHook) AfterStatement(ctx context.Context, query string, args []any, elapsed time.Duration, err error) {
	attrs := make([]any, 0, 5)
	if action := ActionOf(ctx); action != "" {
		attrs = append(attrs, slog.String("action", action))
	}
	attrs = append(attrs, slog.String("sql", shortSQL(query)), slog.Duration("elapsed", elapsed))
	if h.LogArgs && len(args) > 0 {
		attrs = append(attrs, slog.Any("args", args))
	}

	switch {
	case err != nil:
		h.Logger.ErrorContext(ctx, "tracker/db: statement failed", append(attrs, slog.Any("error", err))...)
	case h.SlowQueryThreshold > 0 && elapsed > h.SlowQueryThreshold:
		h.Logger.WarnContext(ctx, "tracker/db: slow statement", attrs...)
	default:
		h.Logger.DebugContext(ctx, "tracker/db: statement", attrs...)
	}
}

const maxLoggedSQL = 300

// shortSQL collapses the indentation of the repositories' multi-line
// statements and caps the length.
func shortSQL(q string) string {
	q = strings.Join(strings.Fields(q), " ")
	if len(q) > maxLoggedSQL {
		return q[:maxLoggedSQL] + "…"
	}
	return q
}
