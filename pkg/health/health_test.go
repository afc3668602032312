package health_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/temma-framework/temma/pkg/health"
)

func TestLivenessHandler(t *testing.T) {
	t.Parallel()

	t.Run("plain text", func(t *testing.T) {
		t.Parallel()
		rec := httptest.NewRecorder()
		health.LivenessHandler()(rec, httptest.NewRequest("GET", "/health/live", nil))
		require.Equal(t, http.StatusOK, rec.Code)
		require.Equal(t, "OK", rec.Body.String())
	})

	t.Run("json via accept header", func(t *testing.T) {
		t.Parallel()
		req := httptest.NewRequest("GET", "/health/live", nil)
		req.Header.Set("Accept", "application/json")
		rec := httptest.NewRecorder()
		health.LivenessHandler()(rec, req)

		var resp health.Response
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		require.Equal(t, health.StatusHealthy, resp.Status)
	})
}

func TestReadinessHandlerAllHealthy(t *testing.T) {
	t.Parallel()

	checks := health.Checks{
		"db":    func(context.Context) error { return nil },
		"cache": func(context.Context) error { return nil },
	}
	rec := httptest.NewRecorder()
	health.ReadinessHandler(checks)(rec, httptest.NewRequest("GET", "/health/ready", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "OK", rec.Body.String())
}

func TestReadinessHandlerFailure(t *testing.T) {
	t.Parallel()

	checks := health.Checks{
		"db":    func(context.Context) error { return nil },
		"cache": func(context.Context) error { return errors.New("connection refused") },
	}
	req := httptest.NewRequest("GET", "/health/ready?format=json", nil)
	rec := httptest.NewRecorder()
	health.ReadinessHandler(checks)(rec, req)

	require.Equal(t, http.StatusServiceUnavailable, rec.Code)

	var resp health.Response
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Equal(t, health.StatusUnhealthy, resp.Status)
	require.Equal(t, health.StatusHealthy, resp.Checks["db"].Status)
	require.Equal(t, health.StatusUnhealthy, resp.Checks["cache"].Status)
	require.Equal(t, "connection refused", resp.Checks["cache"].Error)
}

func TestReadinessHandlerNoChecks(t *testing.T) {
	t.Parallel()

	rec := httptest.NewRecorder()
	health.ReadinessHandler(nil)(rec, httptest.NewRequest("GET", "/health/ready", nil))
	require.Equal(t, http.StatusOK, rec.Code)
}

func TestReadinessChecksRunInParallel(t *testing.T) {
	t.Parallel()

	var running atomic.Int32
	var peak atomic.Int32
	slow := func(context.Context) error {
		n := running.Add(1)
		defer running.Add(-1)
		for {
			old := peak.Load()
			if n <= old || peak.CompareAndSwap(old, n) {
				break
			}
		}
		time.Sleep(50 * time.Millisecond)
		return nil
	}
	checks := health.Checks{"a": slow, "b": slow, "c": slow}

	rec := httptest.NewRecorder()
	health.ReadinessHandler(checks)(rec, httptest.NewRequest("GET", "/health/ready", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	require.Greater(t, peak.Load(), int32(1), "checks overlap in time")
}

func TestReadinessHandlerTimeout(t *testing.T) {
	t.Parallel()

	checks := health.Checks{
		"stuck": func(ctx context.Context) error {
			<-ctx.Done()
			return ctx.Err()
		},
	}
	rec := httptest.NewRecorder()
	h := health.ReadinessHandler(checks, health.WithTimeout(20*time.Millisecond))

	done := make(chan struct{})
	go func() {
		h(rec, httptest.NewRequest("GET", "/health/ready", nil))
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("readiness handler did not respect the timeout")
	}
	require.Equal(t, http.StatusServiceUnavailable, rec.Code)
}
