package logger

import (
	"context"
	"log/slog"
	"os"

	"github.com/getsentry/sentry-go"
	sentryslog "github.com/getsentry/sentry-go/slog"
)

// SentryConfig holds Sentry integration configuration.
type SentryConfig struct {
	DSN         string
	Environment string
	// MinLevel determines which log levels are forwarded to Sentry.
	MinLevel slog.Level
}

// NewWithSentry creates a component logger that fans out to stdout and
// Sentry. An empty DSN (or a failing Sentry init) degrades gracefully to
// stdout-only logging, so local development needs no special casing.
func NewWithSentry(component string, cfg SentryConfig, opts ...Option) *slog.Logger {
	if cfg.DSN == "" {
		return New(component, opts...)
	}

	if err := sentry.Init(sentry.ClientOptions{
		Dsn:         cfg.DSN,
		Environment: cfg.Environment,
		EnableLogs:  true,
	}); err != nil {
		log := New(component, opts...)
		log.Error("failed to initialize Sentry", slog.String("error", err.Error()))
		return log
	}

	eventLevel := []slog.Level{slog.LevelError}
	logLevel := []slog.Level{slog.LevelWarn, slog.LevelError}
	if cfg.MinLevel == slog.LevelError {
		logLevel = []slog.Level{slog.LevelError}
	}
	sentryHandler := sentryslog.Option{
		EventLevel: eventLevel,
		LogLevel:   logLevel,
	}.NewSentryHandler(context.Background())

	c := &config{level: slog.LevelInfo, out: os.Stdout}
	for _, opt := range opts {
		opt(c)
	}
	stdoutHandler := slog.NewJSONHandler(c.out, &slog.HandlerOptions{Level: c.level})

	log := slog.New(NewContextHandler(newFanoutHandler(stdoutHandler, sentryHandler), c.extractors...))
	if component != "" {
		log = log.With(slog.String("component", component))
	}
	return log
}

// fanoutHandler duplicates records across handlers. Enabled when any
// destination is enabled; Handle delivers to every enabled destination
// and reports the first error.
type fanoutHandler struct {
	handlers []slog.Handler
}

func newFanoutHandler(handlers ...slog.Handler) slog.Handler {
	return &fanoutHandler{handlers: handlers}
}

func (h *fanoutHandler) Enabled(ctx context.Context, level slog.Level) bool {
	for _, handler := range h.handlers {
		if handler.Enabled(ctx, level) {
			return true
		}
	}
	return false
}

func (h *fanoutHandler) Handle(ctx context.Context, rec slog.Record) error {
	var first error
	for _, handler := range h.handlers {
		if !handler.Enabled(ctx, rec.Level) {
			continue
		}
		if err := handler.Handle(ctx, rec.Clone()); err != nil && first == nil {
			first = err
		}
	}
	return first
}

func (h *fanoutHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	next := make([]slog.Handler, len(h.handlers))
	for i, handler := range h.handlers {
		next[i] = handler.WithAttrs(attrs)
	}
	return &fanoutHandler{handlers: next}
}

func (h *fanoutHandler) WithGroup(name string) slog.Handler {
	next := make([]slog.Handler, len(h.handlers))
	for i, handler := range h.handlers {
		next[i] = handler.WithGroup(name)
	}
	return &fanoutHandler{handlers: next}
}
