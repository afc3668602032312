package internal_test

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/temma-framework/temma/internal"
	"github.com/temma-framework/temma/pkg/session"
)

// jsonView is a minimal view for adapter tests.
type jsonView struct{}

func (jsonView) ContentType() string { return "application/json" }

func (jsonView) Render(w io.Writer, data map[string]any, _ string) error {
	return json.NewEncoder(w).Encode(data)
}

// brokenView always fails to render.
type brokenView struct{}

func (brokenView) ContentType() string { return "text/plain" }

func (brokenView) Render(io.Writer, map[string]any, string) error {
	return errors.New("render failed")
}

func newHandlerFramework(action func(l *internal.Loader, params []string) (internal.Status, error), opts ...internal.Option) *internal.Framework {
	ctrl := &scriptedController{tr: &trace{}, name: "article", action: action}
	base := []internal.Option{
		internal.WithConfig(internal.NewConfig()),
		internal.WithLogger(testLogger()),
		internal.WithController("article", func() *scriptedController { return ctrl }),
		internal.WithView("json", jsonView{}),
	}
	return internal.New(append(base, opts...)...)
}

func TestHandlerRendersView(t *testing.T) {
	t.Parallel()

	f := newHandlerFramework(func(l *internal.Loader, _ []string) (internal.Status, error) {
		resp := responseOf(t, l)
		resp.Set("title", "hello")
		resp.SetHeader("X-Custom", "yes")
		return internal.Forward, nil
	})

	rec := httptest.NewRecorder()
	f.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/article", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	require.Equal(t, "yes", rec.Header().Get("X-Custom"))

	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Equal(t, "hello", body["title"])
}

func TestHandlerMapsHTTPErrors(t *testing.T) {
	t.Parallel()

	f := newHandlerFramework(nil)

	rec := httptest.NewRecorder()
	f.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/article/nope", nil))
	require.Equal(t, http.StatusNotFound, rec.Code)
}

func TestHandlerMapsPlainErrorsTo500(t *testing.T) {
	t.Parallel()

	f := newHandlerFramework(func(*internal.Loader, []string) (internal.Status, error) {
		return internal.Forward, errors.New("database gone")
	})

	rec := httptest.NewRecorder()
	f.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/article", nil))
	require.Equal(t, http.StatusInternalServerError, rec.Code)
}

func TestHandlerQuitWritesNothing(t *testing.T) {
	t.Parallel()

	f := newHandlerFramework(func(*internal.Loader, []string) (internal.Status, error) {
		return internal.Quit, nil
	})

	rec := httptest.NewRecorder()
	f.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/article", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	require.Empty(t, rec.Body.String())
}

func TestHandlerRedirect(t *testing.T) {
	t.Parallel()

	f := newHandlerFramework(func(l *internal.Loader, _ []string) (internal.Status, error) {
		responseOf(t, l).SetRedirection("/login", false)
		return internal.Forward, nil
	})

	rec := httptest.NewRecorder()
	f.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/article", nil))
	require.Equal(t, http.StatusFound, rec.Code)
	require.Equal(t, "/login", rec.Header().Get("Location"))
}

func TestHandlerDisabledView(t *testing.T) {
	t.Parallel()

	f := newHandlerFramework(func(l *internal.Loader, _ []string) (internal.Status, error) {
		responseOf(t, l).DisableView()
		return internal.Forward, nil
	})

	rec := httptest.NewRecorder()
	f.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/article", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	require.Empty(t, rec.Body.String())
}

func TestHandlerUnregisteredViewIs500(t *testing.T) {
	t.Parallel()

	f := newHandlerFramework(func(l *internal.Loader, _ []string) (internal.Status, error) {
		responseOf(t, l).SetView("xml")
		return internal.Forward, nil
	})

	rec := httptest.NewRecorder()
	f.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/article", nil))
	require.Equal(t, http.StatusInternalServerError, rec.Code)
}

func TestHandlerRecoversPanics(t *testing.T) {
	t.Parallel()

	f := newHandlerFramework(func(*internal.Loader, []string) (internal.Status, error) {
		panic("boom")
	})

	rec := httptest.NewRecorder()
	require.NotPanics(t, func() {
		f.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/article", nil))
	})
	require.Equal(t, http.StatusInternalServerError, rec.Code)
}

func TestHandlerSessionRoundTrip(t *testing.T) {
	t.Parallel()

	store := session.NewMemoryStore()
	mgr := session.NewManager(store, session.WithCookieName("sid"))

	f := newHandlerFramework(func(l *internal.Loader, _ []string) (internal.Status, error) {
		v, err := l.Get("session")
		require.NoError(t, err)
		sess := v.(*session.Session)

		visits := session.ValueOr(sess, "visits", 0)
		sess.SetValue("visits", visits+1)
		responseOf(t, l).Set("visits", visits+1)
		return internal.Forward, nil
	}, internal.WithSessions(mgr))

	h := f.Handler()

	// First request creates the session and sets the cookie.
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest("GET", "/article", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	require.Equal(t, "sid", cookies[0].Name)
	require.Equal(t, 1, store.Len())

	// Second request with the cookie resumes the same session.
	req := httptest.NewRequest("GET", "/article", nil)
	req.AddCookie(cookies[0])
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.EqualValues(t, 2, body["visits"])
	require.Equal(t, 1, store.Len())
}

func TestHandlerBrokenViewLogsOnly(t *testing.T) {
	t.Parallel()

	f := newHandlerFramework(nil, internal.WithView("json", brokenView{}))

	rec := httptest.NewRecorder()
	f.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/article", nil))
	// Headers are already written; the failure can only be logged.
	require.Equal(t, http.StatusOK, rec.Code)
}
