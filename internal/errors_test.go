package internal_test

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/temma-framework/temma/internal"
)

func TestAsHTTPError(t *testing.T) {
	t.Parallel()

	t.Run("direct HTTPError", func(t *testing.T) {
		t.Parallel()
		err := internal.NewHTTPError(http.StatusNotFound, "not found")
		got := internal.AsHTTPError(err)
		require.NotNil(t, got)
		require.Equal(t, http.StatusNotFound, got.Code)
		require.Equal(t, "not found", got.Message)
	})

	t.Run("wrapped HTTPError", func(t *testing.T) {
		t.Parallel()
		httpErr := internal.NewHTTPError(http.StatusForbidden, "forbidden")
		err := fmt.Errorf("controller failed: %w", httpErr)
		got := internal.AsHTTPError(err)
		require.NotNil(t, got)
		require.Equal(t, http.StatusForbidden, got.Code)
	})

	t.Run("unrelated error returns nil", func(t *testing.T) {
		t.Parallel()
		require.Nil(t, internal.AsHTTPError(errors.New("plain")))
	})

	t.Run("nil error returns nil", func(t *testing.T) {
		t.Parallel()
		require.Nil(t, internal.AsHTTPError(nil))
	})
}

func TestHTTPErrorMessage(t *testing.T) {
	t.Parallel()

	err := internal.NewHTTPError(http.StatusNotFound, "no such article")
	require.Contains(t, err.Error(), "no such article")

	// An empty message falls back to the standard status text.
	err = internal.NewHTTPError(http.StatusNotFound, "")
	require.Contains(t, err.Error(), http.StatusText(http.StatusNotFound))
}

func TestUnresolvedParamError(t *testing.T) {
	t.Parallel()

	err := &internal.UnresolvedParamError{Target: "article", Param: "db"}
	require.Contains(t, err.Error(), "article")
	require.Contains(t, err.Error(), "db")

	wrapped := fmt.Errorf("loader: %w", err)
	var unresolved *internal.UnresolvedParamError
	require.ErrorAs(t, wrapped, &unresolved)
}

func TestUnsupportedParamError(t *testing.T) {
	t.Parallel()

	err := &internal.UnsupportedParamError{Target: "article", Index: 2}
	require.Contains(t, err.Error(), "article")

	wrapped := fmt.Errorf("loader: %w", err)
	var unsupported *internal.UnsupportedParamError
	require.ErrorAs(t, wrapped, &unsupported)
}
