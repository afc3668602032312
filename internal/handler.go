package internal

import (
	"log/slog"
	"net/http"
	"runtime/debug"

	"github.com/temma-framework/temma/pkg/session"
)

// Handler adapts the framework to net/http. The adapter owns everything
// the pipeline core leaves to the transport: session load/save around
// Process, HTTP error mapping, redirects and view rendering.
func (f *Framework) Handler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if rec := recover(); rec != nil {
				f.logger.Error("panic while processing request",
					slog.String("path", r.URL.Path),
					slog.Any("panic", rec),
					slog.String("stack", string(debug.Stack())))
				http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
			}
		}()

		req := FromHTTP(r)

		var sess *session.Session
		var seed []func(*Loader)
		if f.sessions != nil {
			var err error
			sess, err = f.sessions.Load(r.Context(), r)
			if err != nil {
				f.logger.Warn("session load failed", slog.Any("error", err))
			}
			if sess != nil {
				seed = append(seed, func(l *Loader) {
					l.Set("session", Raw(sess))
				})
			}
		}

		resp, err := f.Process(r.Context(), req, seed...)

		if f.sessions != nil && sess != nil {
			if err := f.sessions.Save(r.Context(), w, sess); err != nil {
				f.logger.Error("session save failed", slog.Any("error", err))
			}
		}

		if err != nil {
			f.writeError(w, r, err)
			return
		}
		if resp == nil {
			// Quit: produce no output.
			return
		}
		f.writeResponse(w, r, resp)
	})
}

func (f *Framework) writeError(w http.ResponseWriter, r *http.Request, err error) {
	code := http.StatusInternalServerError
	if he := AsHTTPError(err); he != nil {
		code = he.Code
	}
	if code >= http.StatusInternalServerError {
		f.logger.Error("request failed",
			slog.String("path", r.URL.Path),
			slog.Int("status", code),
			slog.Any("error", err))
	} else {
		f.logger.Info("request rejected",
			slog.String("path", r.URL.Path),
			slog.Int("status", code),
			slog.Any("error", err))
	}
	http.Error(w, http.StatusText(code), code)
}

func (f *Framework) writeResponse(w http.ResponseWriter, r *http.Request, resp *Response) {
	for name, values := range resp.Headers() {
		for _, v := range values {
			w.Header().Add(name, v)
		}
	}

	if url, code := resp.Redirection(); url != "" {
		http.Redirect(w, r, url, code)
		return
	}

	name, enabled := resp.View()
	if !enabled {
		w.WriteHeader(http.StatusOK)
		return
	}
	view, ok := f.views[name]
	if !ok {
		f.logger.Error("view not registered", slog.String("view", name))
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", view.ContentType())
	w.WriteHeader(http.StatusOK)
	if err := view.Render(w, resp.All(), resp.Template()); err != nil {
		// Headers are gone; all we can do is log.
		f.logger.Error("view rendering failed",
			slog.String("view", name),
			slog.Any("error", err))
	}
}
