package session

import (
	"context"
	"net/http"
	"time"

	"github.com/google/uuid"
)

// Default session cookie settings.
const (
	defaultCookieName = "__tsid"
	defaultMaxAge     = 30 * 24 * time.Hour
)

// Manager loads and saves sessions around request processing. IDs are
// random uuids; the transport is a cookie handled entirely here so the
// pipeline core never sees HTTP.
type Manager struct {
	store      Store
	cookieName string
	path       string
	domain     string
	maxAge     time.Duration
	secure     bool
	httpOnly   bool
	sameSite   http.SameSite
}

// ManagerOption configures the session manager.
type ManagerOption func(*Manager)

// NewManager creates a session manager over the given store.
//
// Example:
//
//	m := session.NewManager(session.NewRedisStore(client),
//	    session.WithCookieName("__sid"),
//	    session.WithSecure(true),
//	)
func NewManager(store Store, opts ...ManagerOption) *Manager {
	m := &Manager{
		store:      store,
		cookieName: defaultCookieName,
		path:       "/",
		maxAge:     defaultMaxAge,
		httpOnly:   true,
		sameSite:   http.SameSiteLaxMode,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// WithCookieName sets the session cookie name. Defaults to "__tsid".
func WithCookieName(name string) ManagerOption {
	return func(m *Manager) {
		if name != "" {
			m.cookieName = name
		}
	}
}

// WithMaxAge sets the session lifetime. Defaults to 30 days.
func WithMaxAge(d time.Duration) ManagerOption {
	return func(m *Manager) {
		if d > 0 {
			m.maxAge = d
		}
	}
}

// WithDomain sets the session cookie domain.
func WithDomain(domain string) ManagerOption {
	return func(m *Manager) { m.domain = domain }
}

// WithPath sets the session cookie path. Defaults to "/".
func WithPath(path string) ManagerOption {
	return func(m *Manager) {
		if path != "" {
			m.path = path
		}
	}
}

// WithSecure sets the cookie Secure flag (enable in production).
func WithSecure(secure bool) ManagerOption {
	return func(m *Manager) { m.secure = secure }
}

// WithHTTPOnly sets the cookie HttpOnly flag. Defaults to true.
func WithHTTPOnly(httpOnly bool) ManagerOption {
	return func(m *Manager) { m.httpOnly = httpOnly }
}

// WithSameSite sets the cookie SameSite attribute. Defaults to Lax.
func WithSameSite(ss http.SameSite) ManagerOption {
	return func(m *Manager) { m.sameSite = ss }
}

// Load returns the request's session, creating a fresh one when the
// cookie is absent, unknown or expired. The returned session is never
// nil when the error is nil.
func (m *Manager) Load(ctx context.Context, r *http.Request) (*Session, error) {
	if c, err := r.Cookie(m.cookieName); err == nil && c.Value != "" {
		s, err := m.store.Get(ctx, c.Value)
		if err == nil {
			s.LastActiveAt = time.Now()
			return s, nil
		}
		if err != ErrNotFound && err != ErrExpired {
			return m.fresh(), err
		}
	}
	return m.fresh(), nil
}

// Save persists a dirty session and sets the cookie for new ones. Clean,
// known sessions are left untouched to avoid a store round-trip per
// request.
func (m *Manager) Save(ctx context.Context, w http.ResponseWriter, s *Session) error {
	if s.IsNew() {
		http.SetCookie(w, &http.Cookie{
			Name:     m.cookieName,
			Value:    s.ID,
			Path:     m.path,
			Domain:   m.domain,
			MaxAge:   int(m.maxAge.Seconds()),
			Secure:   m.secure,
			HttpOnly: m.httpOnly,
			SameSite: m.sameSite,
		})
	}
	if !s.IsDirty() {
		return nil
	}
	if err := m.store.Save(ctx, s); err != nil {
		return err
	}
	s.ClearDirty()
	s.ClearNew()
	return nil
}

// Destroy deletes the session and expires the cookie.
func (m *Manager) Destroy(ctx context.Context, w http.ResponseWriter, s *Session) error {
	http.SetCookie(w, &http.Cookie{
		Name:     m.cookieName,
		Value:    "",
		Path:     m.path,
		Domain:   m.domain,
		MaxAge:   -1,
		Secure:   m.secure,
		HttpOnly: m.httpOnly,
		SameSite: m.sameSite,
	})
	return m.store.Delete(ctx, s.ID)
}

func (m *Manager) fresh() *Session {
	return New(uuid.NewString(), time.Now().Add(m.maxAge))
}
