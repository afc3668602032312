// Package logger builds slog loggers the framework way: JSON output,
// component tagging, context-extracted request attributes and optional
// Sentry fan-out.
package logger
