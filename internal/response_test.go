package internal_test

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/temma-framework/temma/internal"
)

func TestResponseData(t *testing.T) {
	t.Parallel()

	resp := internal.NewResponse()
	resp.Set("title", "hello")
	resp.SetAll(map[string]any{"count": 3, "draft": true})

	v, ok := resp.Get("title")
	require.True(t, ok)
	require.Equal(t, "hello", v)
	require.Len(t, resp.All(), 3)

	// Nil deletes, Unset deletes.
	resp.Set("draft", nil)
	_, ok = resp.Get("draft")
	require.False(t, ok)
	resp.Unset("count")
	require.Len(t, resp.All(), 1)
}

func TestResponseHTTPError(t *testing.T) {
	t.Parallel()

	resp := internal.NewResponse()
	require.Zero(t, resp.HTTPError())
	resp.SetHTTPError(http.StatusTeapot)
	require.Equal(t, http.StatusTeapot, resp.HTTPError())
}

func TestResponseRedirection(t *testing.T) {
	t.Parallel()

	resp := internal.NewResponse()
	url, code := resp.Redirection()
	require.Empty(t, url)
	require.Zero(t, code)

	resp.SetRedirection("/login", false)
	url, code = resp.Redirection()
	require.Equal(t, "/login", url)
	require.Equal(t, http.StatusFound, code)

	resp.SetRedirection("/home", true)
	_, code = resp.Redirection()
	require.Equal(t, http.StatusMovedPermanently, code)
}

func TestResponseView(t *testing.T) {
	t.Parallel()

	resp := internal.NewResponse()
	name, enabled := resp.View()
	require.Empty(t, name)
	require.True(t, enabled)

	resp.DisableView()
	_, enabled = resp.View()
	require.False(t, enabled)

	// Selecting a view re-enables rendering.
	resp.SetView("csv")
	name, enabled = resp.View()
	require.Equal(t, "csv", name)
	require.True(t, enabled)
}

func TestResponseTemplate(t *testing.T) {
	t.Parallel()

	resp := internal.NewResponse()
	resp.SetTemplatePrefix("web")
	resp.SetTemplate("article/read")
	require.Equal(t, "web", resp.TemplatePrefix())
	require.Equal(t, "article/read", resp.Template())
}

func TestResponseHeaders(t *testing.T) {
	t.Parallel()

	resp := internal.NewResponse()
	resp.SetHeader("X-Frame-Options", "DENY")
	require.Equal(t, "DENY", resp.Headers().Get("X-Frame-Options"))
}
