package internal_test

import (
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/temma-framework/temma/internal"
)

func TestParseRequest(t *testing.T) {
	t.Parallel()

	t.Run("full path", func(t *testing.T) {
		t.Parallel()
		req := internal.ParseRequest("/article/read/12/extended")
		require.Equal(t, "article", req.Controller())
		require.Equal(t, "read", req.Action())
		require.Equal(t, []string{"12", "extended"}, req.Params())
	})

	t.Run("controller only", func(t *testing.T) {
		t.Parallel()
		req := internal.ParseRequest("/article")
		require.Equal(t, "article", req.Controller())
		require.Empty(t, req.Action())
		require.Empty(t, req.Params())
	})

	t.Run("root", func(t *testing.T) {
		t.Parallel()
		req := internal.ParseRequest("/")
		require.Empty(t, req.Controller())
		require.Empty(t, req.Action())
	})

	t.Run("empty segments collapse", func(t *testing.T) {
		t.Parallel()
		req := internal.ParseRequest("//article//read/12")
		require.Equal(t, "article", req.Controller())
		require.Equal(t, "read", req.Action())
		require.Equal(t, []string{"12"}, req.Params())
	})

	t.Run("raw path preserved", func(t *testing.T) {
		t.Parallel()
		req := internal.ParseRequest("/a/b")
		require.Equal(t, "/a/b", req.Path())
	})
}

func TestRequestRerouting(t *testing.T) {
	t.Parallel()

	req := internal.ParseRequest("/article/read/12")
	req.SetController("page")
	req.SetAction("show")
	req.SetParams([]string{"about"})

	require.Equal(t, "page", req.Controller())
	require.Equal(t, "show", req.Action())
	require.Equal(t, []string{"about"}, req.Params())
}

func TestFromHTTP(t *testing.T) {
	t.Parallel()

	r := httptest.NewRequest("GET", "/article/read/12?skip=1", nil)
	req := internal.FromHTTP(r)
	require.Equal(t, "article", req.Controller())
	require.Equal(t, "read", req.Action())
	require.Equal(t, []string{"12"}, req.Params())
}
