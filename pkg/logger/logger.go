package logger

import (
	"io"
	"log/slog"
	"os"
	"strings"
)

// New creates a JSON-formatted logger tagged with a component name.
// Extractors pull request-scoped attributes from the context on every
// log call.
//
// Example:
//
//	log := logger.New("web", logger.Level("debug"))
func New(component string, opts ...Option) *slog.Logger {
	cfg := &config{level: slog.LevelInfo, out: os.Stdout}
	for _, opt := range opts {
		opt(cfg)
	}
	handler := slog.NewJSONHandler(cfg.out, &slog.HandlerOptions{Level: cfg.level})
	log := slog.New(NewContextHandler(handler, cfg.extractors...))
	if component != "" {
		log = log.With(slog.String("component", component))
	}
	return log
}

// NewNope creates a no-op logger that discards all output. Use as the
// default when logging is not configured.
func NewNope() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// Option configures the logger factory.
type Option func(*config)

type config struct {
	out        io.Writer
	extractors []ContextExtractor
	level      slog.Level
}

// Level sets the minimum log level by name ("debug", "info", "warn",
// "error"); unknown names keep the default (info).
func Level(name string) Option {
	return func(c *config) {
		switch strings.ToLower(name) {
		case "debug":
			c.level = slog.LevelDebug
		case "info":
			c.level = slog.LevelInfo
		case "warn", "warning":
			c.level = slog.LevelWarn
		case "error":
			c.level = slog.LevelError
		}
	}
}

// Output redirects log output (stdout by default).
func Output(w io.Writer) Option {
	return func(c *config) {
		if w != nil {
			c.out = w
		}
	}
}

// Extractors registers context extractors applied on every log call.
func Extractors(ex ...ContextExtractor) Option {
	return func(c *config) {
		c.extractors = append(c.extractors, ex...)
	}
}
