package logger_test

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/temma-framework/temma/pkg/logger"
)

func logLine(t *testing.T, buf *bytes.Buffer) map[string]any {
	t.Helper()
	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	return entry
}

func TestNewAddsComponent(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	log := logger.New("web", logger.Output(&buf))
	log.Info("hello")

	entry := logLine(t, &buf)
	require.Equal(t, "web", entry["component"])
	require.Equal(t, "hello", entry["msg"])
}

func TestNewWithoutComponent(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	log := logger.New("", logger.Output(&buf))
	log.Info("hello")

	entry := logLine(t, &buf)
	_, ok := entry["component"]
	require.False(t, ok)
}

func TestLevelFiltering(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	log := logger.New("web", logger.Output(&buf), logger.Level("error"))
	log.Info("dropped")
	require.Zero(t, buf.Len())

	log.Error("kept")
	entry := logLine(t, &buf)
	require.Equal(t, "kept", entry["msg"])
}

func TestLevelUnknownNameKeepsDefault(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	log := logger.New("web", logger.Output(&buf), logger.Level("verbose"))
	log.Debug("dropped")
	require.Zero(t, buf.Len())
	log.Info("kept")
	require.NotZero(t, buf.Len())
}

type requestIDKey struct{}

func requestIDExtractor(ctx context.Context) (slog.Attr, bool) {
	if id, ok := ctx.Value(requestIDKey{}).(string); ok {
		return slog.String("request_id", id), true
	}
	return slog.Attr{}, false
}

func TestContextExtractors(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	log := logger.New("web", logger.Output(&buf), logger.Extractors(requestIDExtractor))

	ctx := context.WithValue(context.Background(), requestIDKey{}, "req-42")
	log.InfoContext(ctx, "handled")

	entry := logLine(t, &buf)
	require.Equal(t, "req-42", entry["request_id"])
}

func TestContextExtractorAbsentValue(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	log := logger.New("web", logger.Output(&buf), logger.Extractors(requestIDExtractor))
	log.InfoContext(context.Background(), "handled")

	entry := logLine(t, &buf)
	_, ok := entry["request_id"]
	require.False(t, ok)
}

func TestNewNopeDiscards(t *testing.T) {
	t.Parallel()

	log := logger.NewNope()
	require.NotNil(t, log)
	log.Info("dropped")
}
